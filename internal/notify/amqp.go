package notify

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher is the subset of *amqp.Channel used to enqueue mail.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPTransport hands messages to a mail worker through a queue.
type AMQPTransport struct {
	publisher Publisher
	queue     string
}

var _ Transport = (*AMQPTransport)(nil)

func NewAMQPTransport(publisher Publisher, queue string) *AMQPTransport {
	return &AMQPTransport{publisher: publisher, queue: queue}
}

func (t *AMQPTransport) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Headers: amqp.Table{
			"message_type":     "JSON",
			"requeue_strategy": "DROP",
		},
	}

	if err := t.publisher.PublishWithContext(ctx, "", t.queue, false, false, publishing); err != nil {
		return fmt.Errorf("%w: publish to %s: %w", ErrDeliveryFailed, t.queue, err)
	}
	return nil
}
