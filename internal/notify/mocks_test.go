package notify

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

type mockTransport struct {
	mu   sync.Mutex
	sent []Message

	SendFn func(ctx context.Context, msg Message) error
}

func (m *mockTransport) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	if m.SendFn != nil {
		return m.SendFn(ctx, msg)
	}
	return nil
}

type mockPublisher struct {
	PublishFn func(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

func (m *mockPublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.PublishFn(ctx, exchange, key, mandatory, immediate, msg)
}
