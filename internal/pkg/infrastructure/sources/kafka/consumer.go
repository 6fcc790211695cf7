package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/metrics"
	"github.com/diwise/iot-machine-alerts/pkg/types"
	"github.com/segmentio/kafka-go"
)

var ErrInvalidSample = errors.New("invalid metric sample")

type Config struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"groupId"`
}

type Sink interface {
	Put(sample types.MetricSample) error
}

type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads JSON metric samples from a topic. Messages are keyed by
// machine id, the key is used when the payload does not carry one.
type Consumer struct {
	reader Reader
	sink   Sink
}

func NewConsumer(cfg Config, sink Sink) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, errors.New("topic is required")
	}
	if cfg.GroupID == "" {
		cfg.GroupID = "iot-machine-alerts"
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		Topic:          cfg.Topic,
		GroupID:        cfg.GroupID,
		MinBytes:       1,
		MaxBytes:       1 << 20,
		CommitInterval: time.Second,
	})

	return newConsumer(r, sink), nil
}

func newConsumer(r Reader, sink Sink) *Consumer {
	return &Consumer{reader: r, sink: sink}
}

func (c *Consumer) Run(ctx context.Context) error {
	ctx, log := logging.WithComponent(ctx, "kafka-consumer")
	defer c.reader.Close()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to fetch message: %w", err)
		}

		if err = c.handle(msg); err != nil {
			log.Warn().Err(err).Int64("offset", msg.Offset).Int("partition", msg.Partition).Msg("discarding metric message")
		}

		if err = c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("failed to commit offset")
		}
	}
}

func (c *Consumer) handle(msg kafka.Message) error {
	sample := types.MetricSample{}
	if err := json.Unmarshal(msg.Value, &sample); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSample, err)
	}

	if sample.MachineID == "" {
		sample.MachineID = string(msg.Key)
	}
	if sample.MachineID == "" {
		return fmt.Errorf("%w: no machine id", ErrInvalidSample)
	}
	if sample.ObservedAt.IsZero() && !msg.Time.IsZero() {
		sample.ObservedAt = msg.Time.UTC()
	}

	if err := c.sink.Put(sample); err != nil {
		return err
	}

	metrics.SamplesIngested.WithLabelValues("kafka").Inc()
	return nil
}
