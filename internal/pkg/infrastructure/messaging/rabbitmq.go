package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/logging"
	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// RabbitMQ publishes topic messages on a durable topic exchange, using the
// message topic as routing key.
type RabbitMQ struct {
	cfg  RabbitMQConfig
	conn *amqp.Connection
	ch   *amqp.Channel
	mu   sync.Mutex
}

func NewRabbitMQPublisher(ctx context.Context, cfg RabbitMQConfig) (*RabbitMQ, error) {
	if cfg.Exchange == "" {
		cfg.Exchange = "machine-alerts"
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", cfg.Exchange, err)
	}

	log := logging.GetFromContext(ctx)
	log.Info().Str("exchange", cfg.Exchange).Msg("connected to rabbitmq")

	return &RabbitMQ{
		cfg:  cfg,
		conn: conn,
		ch:   ch,
	}, nil
}

func (r *RabbitMQ) Publish(ctx context.Context, msg TopicMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.ch.PublishWithContext(ctx, r.cfg.Exchange, msg.TopicName(), false, false, amqp.Publishing{
		ContentType:  msg.ContentType(),
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         msg.Body(),
	})
}

func (r *RabbitMQ) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ch.Close(); err != nil {
		r.conn.Close()
		return err
	}
	return r.conn.Close()
}
