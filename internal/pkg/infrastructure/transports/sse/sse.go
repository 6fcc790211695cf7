package sse

import (
	"context"
	"net/http"

	gosse "github.com/alexandrevicenzi/go-sse"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/messaging"
)

// Events streams alert lifecycle messages to browsers as server sent events.
// The sse event name is the message topic, e.g. alert.created.
type Events struct {
	s *gosse.Server
}

func New() *Events {
	return &Events{
		s: gosse.NewServer(&gosse.Options{
			Headers: map[string]string{
				"Access-Control-Allow-Origin": "*",
			},
			// all subscribers share one stream regardless of the path they were mounted on
			ChannelNameFunc: func(*http.Request) string { return "alerts" },
		}),
	}
}

func (e *Events) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	e.s.ServeHTTP(w, r)
}

func (e *Events) Publish(ctx context.Context, msg messaging.TopicMessage) error {
	message := gosse.NewMessage("", string(msg.Body()), msg.TopicName())
	e.s.SendMessage("", message)
	return nil
}

func (e *Events) Shutdown() {
	e.s.Shutdown()
}
