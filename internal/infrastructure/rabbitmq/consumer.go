package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// consumerTag identifies this consumer on the channel so Stop can cancel
// exactly our subscription.
const consumerTag = "medtrack-consumer"

// Delivery wraps one received message with explicit acknowledgment.
type Delivery struct {
	d amqp.Delivery
}

// Body returns the raw message payload.
func (d *Delivery) Body() []byte { return d.d.Body }

// Ack removes the message from the queue.
func (d *Delivery) Ack() error { return d.d.Ack(false) }

// Nack rejects the message, optionally handing it back for redelivery.
func (d *Delivery) Nack(requeue bool) error { return d.d.Nack(false, requeue) }

// Handler is called for each consumed message. The handler owns the
// ack/nack decision; the consumer never acknowledges on its behalf.
type Handler func(ctx context.Context, d *Delivery) error

// Consumer pulls messages from the bound queue strictly one at a time.
// QoS prefetch is pinned to 1 so the broker never pushes a second message
// while one is in flight.
type Consumer struct {
	conn    *Connection
	handler Handler
	logger  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewConsumer creates a consumer on an established connection.
func NewConsumer(conn *Connection, handler Handler, logger *zap.Logger) (*Consumer, error) {
	if handler == nil {
		return nil, fmt.Errorf("message handler is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Consumer{
		conn:    conn,
		handler: handler,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Start begins consuming messages.
func (c *Consumer) Start() error {
	if err := c.conn.channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}

	deliveries, err := c.conn.channel.Consume(
		QueueName,
		consumerTag,
		false, // auto-ack off, acknowledgment is explicit
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("start consume: %w", err)
	}

	c.wg.Add(1)
	go c.consumeLoop(deliveries)
	c.logger.Info("consumer started", zap.String("queue", QueueName))
	return nil
}

// Stop drains the consumer: no further messages are accepted, the
// in-flight message finishes its acknowledgment, then the loop exits.
// The context is only cancelled after the loop has drained, otherwise an
// in-flight store call would be aborted mid-acknowledgment.
func (c *Consumer) Stop() {
	if err := c.conn.channel.Cancel(consumerTag, false); err != nil {
		c.logger.Warn("consumer cancel failed", zap.Error(err))
		c.cancel()
	}
	c.wg.Wait()
	c.cancel()
	c.logger.Info("consumer stopped")
}

// consumeLoop processes deliveries sequentially, one end-to-end before
// the next is requested.
func (c *Consumer) consumeLoop(deliveries <-chan amqp.Delivery) {
	defer c.wg.Done()

	for {
		select {
		case <-c.ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			if err := c.handler(c.ctx, &Delivery{d: d}); err != nil {
				c.logger.Error("message handler failed",
					zap.Uint64("delivery_tag", d.DeliveryTag),
					zap.Error(err))
			}
		}
	}
}
