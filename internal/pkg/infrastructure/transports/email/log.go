package email

import (
	"context"
	"sync"

	"github.com/diwise/iot-machine-alerts/internal/pkg/application/notifications"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/logging"
)

// LogTransport writes notifications to the log instead of sending them.
type LogTransport struct {
	mu   sync.Mutex
	sent []Sent
}

type Sent struct {
	To      string
	Subject string
}

func NewLogTransport() *LogTransport {
	return &LogTransport{}
}

func (t *LogTransport) Name() string {
	return "log"
}

func (t *LogTransport) Configured() bool {
	return false
}

func (t *LogTransport) Send(ctx context.Context, to string, msg notifications.Message) error {
	t.mu.Lock()
	t.sent = append(t.sent, Sent{To: to, Subject: msg.Subject})
	t.mu.Unlock()

	log := logging.GetFromContext(ctx)
	log.Info().Str("to", to).Str("subject", msg.Subject).Msg("notification (not sent, no smtp configured)")

	return nil
}

func (t *LogTransport) Sent() []Sent {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]Sent{}, t.sent...)
}
