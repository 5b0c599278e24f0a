package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPBroadcaster publishes room events to a durable topic exchange. Each
// room name doubles as the routing key, so subscribers bind their own queue
// with the rooms they care about.
type AMQPBroadcaster struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *slog.Logger
}

// NewAMQPBroadcaster connects to the broker and declares the events exchange.
func NewAMQPBroadcaster(url, exchange string, logger *slog.Logger) (*AMQPBroadcaster, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	logger.Info("event broadcaster ready", slog.String("exchange", exchange))

	return &AMQPBroadcaster{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Publish sends one event to the room's subscribers.
func (b *AMQPBroadcaster) Publish(ctx context.Context, room, event string, payload any) error {
	body, err := json.Marshal(Envelope{
		Event:       event,
		Room:        room,
		Data:        payload,
		PublishedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event, err)
	}

	err = b.channel.PublishWithContext(
		ctx,
		b.exchange, // exchange
		room,       // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish event %s to %s: %w", event, room, err)
	}

	b.logger.Debug("event published",
		slog.String("event", event),
		slog.String("room", room),
	)
	return nil
}

// Close shuts down the channel and connection.
func (b *AMQPBroadcaster) Close() error {
	if b.channel != nil {
		if err := b.channel.Close(); err != nil {
			b.logger.Error("close amqp channel", slog.Any("error", err))
		}
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
