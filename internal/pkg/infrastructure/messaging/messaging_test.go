package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diwise/iot-machine-alerts/pkg/types"
	"github.com/matryer/is"
)

func TestFanoutDeliversToAllPublishersDespiteFailures(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	failing := &PublisherMock{
		PublishFunc: func(ctx context.Context, msg TopicMessage) error {
			return errors.New("broker down")
		},
	}
	working := &PublisherMock{
		PublishFunc: func(ctx context.Context, msg TopicMessage) error {
			return nil
		},
	}

	p := NewFanout(failing, working)
	err := p.Publish(ctx, &types.AlertResolved{ID: "a1", MachineID: "m1", Timestamp: time.Now()})

	is.True(err != nil)
	is.Equal(len(failing.PublishCalls()), 1)
	is.Equal(len(working.PublishCalls()), 1)
	is.Equal(working.PublishCalls()[0].Msg.TopicName(), "alert.resolved")
}
