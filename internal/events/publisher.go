package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"seedmart/internal/model"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// OrderCreatedQueue is the durable queue OrderCreated events are published to.
const OrderCreatedQueue = "order.created"

// Publisher emits order lifecycle events for downstream consumers
// (notifications, supplier dashboards).
type Publisher interface {
	PublishOrderCreated(ctx context.Context, order *model.Order) error
	Close() error
}

// rabbitPublisher publishes events to RabbitMQ.
type rabbitPublisher struct {
	ch     *amqp.Channel
	logger zerolog.Logger
}

// NewRabbitPublisher creates a publisher over an open AMQP connection.
func NewRabbitPublisher(conn *amqp.Connection, logger zerolog.Logger) (Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	// Declare the queue so publish never fails due to missing infra
	if _, err := ch.QueueDeclare(OrderCreatedQueue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("failed to declare %s: %w", OrderCreatedQueue, err)
	}

	return &rabbitPublisher{
		ch:     ch,
		logger: logger.With().Str("component", "events").Logger(),
	}, nil
}

func (p *rabbitPublisher) Close() error {
	return p.ch.Close()
}

func (p *rabbitPublisher) PublishOrderCreated(ctx context.Context, order *model.Order) error {
	event := BuildOrderCreated(order)

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal OrderCreated: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err = p.ch.PublishWithContext(
		pubCtx,
		"",                // default exchange
		OrderCreatedQueue, // queue name as routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish OrderCreated: %w", err)
	}

	p.logger.Debug().
		Str("order_number", order.OrderNumber).
		Msg("order created event published")

	return nil
}

// NopPublisher discards events; used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) PublishOrderCreated(ctx context.Context, order *model.Order) error { return nil }
func (NopPublisher) Close() error                                                      { return nil }
