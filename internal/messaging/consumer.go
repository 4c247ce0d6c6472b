package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"infoco-backoffice/internal/domain"
	"infoco-backoffice/internal/feed"
)

// FeedConsumer bridges the feed exchange into the local WebSocket hub. Each
// instance binds its own transient queue, so every instance receives every
// event exactly once.
type FeedConsumer struct {
	rmq *RabbitMQ
	hub *feed.Hub
}

func NewFeedConsumer(rmq *RabbitMQ, hub *feed.Hub) *FeedConsumer {
	return &FeedConsumer{
		rmq: rmq,
		hub: hub,
	}
}

func (c *FeedConsumer) Start(ctx context.Context) error {
	queue, err := c.rmq.channel.QueueDeclare(
		"",    // auto-generated name
		false, // durable
		true,  // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	if err := c.rmq.channel.QueueBind(
		queue.Name,   // queue name
		"",           // routing key
		feedExchange, // exchange
		false,
		nil,
	); err != nil {
		return err
	}

	msgs, err := c.rmq.channel.Consume(
		queue.Name, // queue
		"",         // consumer
		true,       // auto-ack
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return err
	}

	slog.Info("started consuming feed events",
		slog.String("queue", queue.Name),
		slog.String("exchange", feedExchange))

	go func() {
		for {
			select {
			case <-ctx.Done():
				slog.Info("stopping feed consumer")
				return
			case msg, ok := <-msgs:
				if !ok {
					slog.Warn("feed consumer channel closed")
					return
				}

				var event domain.FeedEvent
				if err := json.Unmarshal(msg.Body, &event); err != nil {
					slog.Error("error unmarshaling feed event",
						slog.String("error", err.Error()),
						slog.String("body", string(msg.Body)))
					continue
				}

				c.hub.Publish(&event)
			}
		}
	}()

	return nil
}
