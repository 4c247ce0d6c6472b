package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"infoco-backoffice/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
)

const feedExchange = "backoffice.feed"

// RabbitMQ fans feed events out to every running server instance, so a
// WebSocket client connected to one instance sees posts created on another.
type RabbitMQ struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	rmq := &RabbitMQ{
		conn:    conn,
		channel: ch,
	}

	if err := rmq.Setup(); err != nil {
		rmq.Close()
		return nil, err
	}

	return rmq, nil
}

// NewRabbitMQWithRetry dials the broker with exponential backoff until the
// context expires. Container orchestration often starts the broker after
// the server.
func NewRabbitMQWithRetry(ctx context.Context, url string) (*RabbitMQ, error) {
	delay := time.Second
	for {
		rmq, err := NewRabbitMQ(url)
		if err == nil {
			return rmq, nil
		}
		slog.Warn("rabbitmq connection failed, retrying",
			slog.String("error", err.Error()),
			slog.Duration("delay", delay))

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("rabbitmq unreachable: %w", err)
		case <-time.After(delay):
		}
		if delay < 10*time.Second {
			delay *= 2
		}
	}
}

func (r *RabbitMQ) Setup() error {
	if err := r.channel.ExchangeDeclare(
		feedExchange, // name
		"fanout",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		return fmt.Errorf("failed to declare feed exchange: %w", err)
	}

	slog.Info("rabbitmq setup completed successfully")
	return nil
}

// PublishFeedEvent sends a feed event to all instances, including this one.
func (r *RabbitMQ) PublishFeedEvent(ctx context.Context, event *domain.FeedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal feed event: %w", err)
	}

	err = r.channel.PublishWithContext(
		ctx,
		feedExchange,
		"",
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish feed event: %w", err)
	}

	slog.Info("published feed event", slog.String("kind", event.Kind))
	return nil
}

func (r *RabbitMQ) IsClosed() bool {
	return r.conn == nil || r.conn.IsClosed()
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
