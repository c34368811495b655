package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogTransport only logs. Used when no mail backend is configured.
type LogTransport struct {
	log *zap.Logger
}

var _ Transport = (*LogTransport)(nil)

func NewLogTransport(log *zap.Logger) *LogTransport {
	return &LogTransport{log: log}
}

func (t *LogTransport) Send(_ context.Context, msg Message) error {
	t.log.Info("mail",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}
