package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/velogo/bike-rental-service/internal/core/domain"
	"github.com/velogo/bike-rental-service/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	notificationExchange = "ride_notifications" // topic
	publishTimeout       = 3 * time.Second
)

// Notifier publishes outbox events to a RabbitMQ topic exchange. The routing
// key is the event kind (ride.started, ride.completed, booking.completed),
// so notification consumers bind per kind or with ride.* / *.completed.
type Notifier struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	logger ports.LoggerPort
}

func NewNotifier(url string, logger ports.LoggerPort) (*Notifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("rabbit dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("rabbit channel: %w", err)
	}

	if err := ch.ExchangeDeclare(
		notificationExchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Notifier{
		conn:   conn,
		ch:     ch,
		logger: logger,
	}, nil
}

func (n *Notifier) PublishEvent(ctx context.Context, event *domain.OutboxEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pubctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = n.ch.PublishWithContext(pubctx, notificationExchange, string(event.Kind), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

func (n *Notifier) Close() error {
	if err := n.ch.Close(); err != nil {
		n.logger.Warn("Failed to close rabbit channel", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return n.conn.Close()
}
