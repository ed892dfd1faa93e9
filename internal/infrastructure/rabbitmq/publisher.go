package rabbitmq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher sends events to the meds exchange with durable delivery
// semantics.
type Publisher struct {
	conn   *Connection
	logger *zap.Logger
}

// NewPublisher creates a publisher on an established connection.
func NewPublisher(conn *Connection, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{conn: conn, logger: logger}
}

// Publish sends one JSON payload under the events binding key. Delivery
// mode is persistent so the broker holds the message across restarts.
func (p *Publisher) Publish(ctx context.Context, body []byte) error {
	err := p.conn.channel.PublishWithContext(ctx,
		ExchangeName,
		BindingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	p.logger.Debug("event published", zap.Int("bytes", len(body)))
	return nil
}
