package cooldown

import (
	"context"
	"sync"
	"time"

	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/metrics"
)

const DefaultWindow time.Duration = 15 * time.Minute

// Key identifies a breach on a machine. Breach is the threshold rule name, so
// the two bounds of a two-sided metric are gated independently.
type Key struct {
	MachineID string
	Breach    string
}

type entry struct {
	raisedAt time.Time
	window   time.Duration
}

// Gate remembers when a breach was last raised for a machine and suppresses
// new raises until the cooldown window has passed.
type Gate struct {
	mu   sync.Mutex
	last map[Key]entry
	now  func() time.Time
}

type Option func(*Gate)

func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		g.now = now
	}
}

func New(opts ...Option) *Gate {
	g := &Gate{
		last: map[Key]entry{},
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// ShouldRaise reports whether a breach may be raised and, if so, records the
// raise together with its window. Suppressed calls leave the entry untouched.
func (g *Gate) ShouldRaise(machineID, breach string, window time.Duration) bool {
	if window <= 0 {
		window = DefaultWindow
	}

	key := Key{MachineID: machineID, Breach: breach}

	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()

	if e, ok := g.last[key]; ok && now.Sub(e.raisedAt) < window {
		return false
	}

	g.last[key] = entry{raisedAt: now, window: window}
	return true
}

// Evict drops entries whose own window has passed.
func (g *Gate) Evict() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	evicted := 0

	for key, e := range g.last {
		if now.Sub(e.raisedAt) >= e.window {
			delete(g.last, key)
			evicted++
		}
	}

	metrics.CooldownEntries.Set(float64(len(g.last)))

	return evicted
}

func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.last)
}

// Run evicts stale entries every interval until ctx is cancelled.
func (g *Gate) Run(ctx context.Context, interval time.Duration) {
	log := logging.GetFromContext(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := g.Evict(); n > 0 {
				log.Debug().Int("evicted", n).Msg("evicted stale cooldown entries")
			}
		}
	}
}
