package messaging

import (
	"context"
	"errors"
	"fmt"
)

type TopicMessage interface {
	ContentType() string
	TopicName() string
	Body() []byte
}

//go:generate moq -rm -out publisher_mock.go . Publisher

type Publisher interface {
	Publish(ctx context.Context, msg TopicMessage) error
}

type fanout struct {
	publishers []Publisher
}

// NewFanout returns a publisher that hands each message to every given publisher.
// A failing publisher does not stop delivery to the others.
func NewFanout(publishers ...Publisher) Publisher {
	return &fanout{publishers: publishers}
}

func (f *fanout) Publish(ctx context.Context, msg TopicMessage) error {
	var errs []error

	for _, p := range f.publishers {
		if err := p.Publish(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("publish %s: %w", msg.TopicName(), err))
		}
	}

	return errors.Join(errs...)
}

type noop struct{}

func NewNoopPublisher() Publisher {
	return noop{}
}

func (noop) Publish(context.Context, TopicMessage) error {
	return nil
}
