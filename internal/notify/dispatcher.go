package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	domain "github.com/BruksfildServices01/termin-notifier/internal/domain/availability"
	"github.com/BruksfildServices01/termin-notifier/internal/validators"
)

var (
	ErrInvalidMessage = errors.New("invalid message")
	ErrDeliveryFailed = errors.New("delivery failed")
)

type Transport interface {
	Send(ctx context.Context, msg Message) error
}

type Report struct {
	Sent    []string
	Failed  []string
	Invalid []string
}

type Dispatcher struct {
	transport Transport
	loc       *time.Location
	log       *zap.Logger
}

func NewDispatcher(transport Transport, loc *time.Location, log *zap.Logger) *Dispatcher {
	if loc == nil {
		loc = time.UTC
	}
	return &Dispatcher{transport: transport, loc: loc, log: log}
}

// Send validates msg before handing it to the transport. Validation errors
// wrap ErrInvalidMessage and transport errors wrap ErrDeliveryFailed.
func (d *Dispatcher) Send(ctx context.Context, msg Message) error {
	if err := validators.Struct(msg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}

	if err := d.transport.Send(ctx, msg); err != nil {
		if errors.Is(err, ErrDeliveryFailed) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}
	return nil
}

// DispatchAll mails notice to every distinct recipient. A failing recipient
// is logged and does not stop the others.
func (d *Dispatcher) DispatchAll(ctx context.Context, notice Notice, recipients []string) Report {
	var report Report

	seen := make(map[string]struct{}, len(recipients))
	for _, raw := range recipients {
		to := domain.NormalizeEmail(raw)
		if _, dup := seen[to]; dup {
			continue
		}
		seen[to] = struct{}{}

		err := d.Send(ctx, notice.MessageFor(to, d.loc))
		switch {
		case err == nil:
			report.Sent = append(report.Sent, to)
		case errors.Is(err, ErrInvalidMessage):
			report.Invalid = append(report.Invalid, to)
			d.log.Warn("notification rejected",
				zap.Uint("doctor_id", notice.DoctorID),
				zap.String("to", to),
				zap.Error(err),
			)
		default:
			report.Failed = append(report.Failed, to)
			d.log.Error("notification failed",
				zap.Uint("doctor_id", notice.DoctorID),
				zap.String("to", to),
				zap.Error(err),
			)
		}
	}

	return report
}
