package notify

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/BruksfildServices01/termin-notifier/internal/config"
)

const plainTextFormat = "From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"UTF-8\"\r\n\r\n%s\r\n"

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPTransport struct {
	addr     string
	host     string
	sender   string
	auth     smtp.Auth
	sendMail sendMailFunc
}

var _ Transport = (*SMTPTransport)(nil)

func NewSMTPTransport(cfg config.SMTP) *SMTPTransport {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPTransport{
		addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		host:     cfg.Host,
		sender:   cfg.Sender,
		auth:     auth,
		sendMail: smtp.SendMail,
	}
}

// Send is not cancellable once the SMTP dialogue has started.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body := []byte(fmt.Sprintf(plainTextFormat, t.sender, msg.To, msg.Subject, msg.Body))
	if err := t.sendMail(t.addr, t.auth, t.sender, []string{msg.To}, body); err != nil {
		return fmt.Errorf("%w: smtp %s: %w", ErrDeliveryFailed, t.host, err)
	}
	return nil
}
