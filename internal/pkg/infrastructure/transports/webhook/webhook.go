package webhook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/messaging"
	"github.com/google/uuid"
	"golang.org/x/sys/unix"
	yaml "gopkg.in/yaml.v2"
)

const (
	EventSource = "github.com/diwise/iot-machine-alerts"
	TypePrefix  = "machine.alert."
)

type SubscriberConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type Notification struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Type        string             `yaml:"type"`
	Subscribers []SubscriberConfig `yaml:"subscribers"`
}

type Config struct {
	Notifications []Notification `yaml:"notifications"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := Config{}
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// EventType maps a topic such as "alert.created" to "machine.alert.created".
func EventType(topic string) string {
	return TypePrefix + strings.TrimPrefix(topic, "alert.")
}

type publisher struct {
	client      cloudevents.Client
	subscribers map[string][]SubscriberConfig
	now         func() time.Time
}

func New(cfg *Config) (messaging.Publisher, error) {
	c, err := cloudevents.NewClientHTTP()
	if err != nil {
		return nil, err
	}

	p := &publisher{
		client:      c,
		subscribers: make(map[string][]SubscriberConfig),
		now:         time.Now,
	}

	if cfg != nil {
		for _, n := range cfg.Notifications {
			p.subscribers[n.Type] = append(p.subscribers[n.Type], n.Subscribers...)
		}
	}

	return p, nil
}

func (p *publisher) Publish(ctx context.Context, msg messaging.TopicMessage) error {
	eventType := EventType(msg.TopicName())

	subscribers, ok := p.subscribers[eventType]
	if !ok || len(subscribers) == 0 {
		return nil
	}

	event := cloudevents.NewEvent()
	event.SetID(uuid.NewString())
	event.SetTime(p.now().UTC())
	event.SetSource(EventSource)
	event.SetType(eventType)

	if err := event.SetData(msg.ContentType(), msg.Body()); err != nil {
		return err
	}

	log := logging.GetFromContext(ctx)

	var errs []error

	for _, s := range subscribers {
		ctxWithTarget := cloudevents.ContextWithTarget(ctx, s.Endpoint)

		result := p.client.Send(ctxWithTarget, event)
		if cloudevents.IsUndelivered(result) || errors.Is(result, unix.ECONNREFUSED) {
			log.Error().Err(result).Msgf("failed to send event to %s", s.Endpoint)
			errs = append(errs, fmt.Errorf("%s: %w", s.Endpoint, result))
		}
	}

	return errors.Join(errs...)
}
