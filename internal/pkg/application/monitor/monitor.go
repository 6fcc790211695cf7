package monitor

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"time"

	"github.com/diwise/iot-machine-alerts/internal/pkg/application/alerts"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/cooldown"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/evaluator"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/thresholds"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/metrics"
	"github.com/diwise/iot-machine-alerts/pkg/types"
)

type Config struct {
	Interval       time.Duration `yaml:"interval"`
	CooldownWindow time.Duration `yaml:"cooldown"`
	StaleAfter     time.Duration `yaml:"staleAfter"`
}

func DefaultConfig() Config {
	return Config{
		Interval:       time.Second,
		CooldownWindow: cooldown.DefaultWindow,
		StaleAfter:     30 * time.Second,
	}
}

type Machines interface {
	ActiveMachines(ctx context.Context) ([]types.Machine, error)
}

type Samples interface {
	Fresh(machineID string, maxAge time.Duration) (types.MetricSample, bool)
}

type Gate interface {
	ShouldRaise(machineID, breach string, window time.Duration) bool
}

type Creator interface {
	Create(ctx context.Context, event types.AlertEvent) (types.Alert, error)
}

type Enqueuer interface {
	Enqueue(ctx context.Context, alert types.Alert) bool
}

type Monitor interface {
	Start(ctx context.Context)
	Stop()
	Tick(ctx context.Context) Result
}

// Result summarises one tick.
type Result struct {
	Evaluated  int
	Skipped    int
	Raised     int
	Suppressed int
	Failed     int
}

type monitor struct {
	cfg      Config
	rules    thresholds.Table
	machines Machines
	samples  Samples
	gate     Gate
	alerts   Creator
	dispatch Enqueuer

	busy   sync.Map
	ticks  sync.WaitGroup
	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(cfg Config, rules thresholds.Table, machines Machines, samples Samples, gate Gate, alerts Creator, dispatch Enqueuer) Monitor {
	defaults := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = defaults.Interval
	}
	if cfg.CooldownWindow <= 0 {
		cfg.CooldownWindow = defaults.CooldownWindow
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = defaults.StaleAfter
	}

	return &monitor{
		cfg:      cfg,
		rules:    rules,
		machines: machines,
		samples:  samples,
		gate:     gate,
		alerts:   alerts,
		dispatch: dispatch,
	}
}

func (m *monitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		return
	}

	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})

	go m.run(ctx, m.done)
}

// Stop ends the tick loop and waits for evaluations already in progress.
func (m *monitor) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel = nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}

	cancel()
	<-done
	m.ticks.Wait()
}

func (m *monitor) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ctx, log := logging.WithComponent(ctx, "monitor")
	log.Info().Dur("interval", m.cfg.Interval).Int("rules", len(m.rules)).Msg("starting machine monitor")

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.ticks.Add(1)
			go func() {
				defer m.ticks.Done()
				m.Tick(ctx)
			}()
		}
	}
}

// Tick evaluates every active machine once, concurrently, and waits for all
// of them. A machine still being evaluated by an earlier tick is skipped.
func (m *monitor) Tick(ctx context.Context) Result {
	start := time.Now()
	defer func() { metrics.TickDuration.Observe(time.Since(start).Seconds()) }()

	log := logging.GetFromContext(ctx)

	machines, err := m.machines.ActiveMachines(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not list machines")
		return Result{}
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result Result
	)

	for _, machine := range machines {
		sample, ok := m.samples.Fresh(machine.ID, m.cfg.StaleAfter)
		if !ok {
			continue
		}

		lock := m.lockFor(machine.ID)
		if !lock.TryLock() {
			metrics.TicksSkipped.Inc()
			log.Debug().Str("machine_id", machine.ID).Msg("previous evaluation still running, skipping machine")
			mu.Lock()
			result.Skipped++
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(machine types.Machine, sample types.MetricSample) {
			defer wg.Done()
			defer lock.Unlock()
			defer func() {
				if r := recover(); r != nil {
					metrics.PanicsRecovered.WithLabelValues("monitor").Inc()
					log.Error().Str("machine_id", machine.ID).Interface("panic", r).Str("stack", string(debug.Stack())).Msg("recovered from panic while evaluating machine")
				}
			}()

			r := m.evaluate(ctx, machine, sample)

			mu.Lock()
			result.Evaluated++
			result.Raised += r.Raised
			result.Suppressed += r.Suppressed
			result.Failed += r.Failed
			mu.Unlock()
		}(machine, sample)
	}

	wg.Wait()

	return result
}

func (m *monitor) lockFor(machineID string) *sync.Mutex {
	l, _ := m.busy.LoadOrStore(machineID, &sync.Mutex{})
	return l.(*sync.Mutex)
}

func (m *monitor) evaluate(ctx context.Context, machine types.Machine, sample types.MetricSample) Result {
	log := logging.GetFromContext(ctx).With().Str("machine_id", machine.ID).Logger()
	result := Result{}

	for _, event := range evaluator.Evaluate(machine, sample, m.rules) {
		if !m.gate.ShouldRaise(event.MachineID, event.CooldownKey(), m.cfg.CooldownWindow) {
			metrics.AlertsSuppressed.WithLabelValues(event.AlertType).Inc()
			log.Debug().Str("alert_type", event.AlertType).Msg("alert suppressed by cooldown")
			result.Suppressed++
			continue
		}

		alert, err := m.alerts.Create(ctx, event)
		if err != nil {
			result.Failed++
			if errors.Is(err, alerts.ErrStoreUnavailable) {
				metrics.AlertStoreFailures.Inc()
			}
			log.Error().Err(err).Str("alert_type", event.AlertType).Msg("failed to store alert")
			continue
		}

		metrics.AlertsRaised.WithLabelValues(alert.AlertType, alert.Severity.String()).Inc()
		result.Raised++

		m.dispatch.Enqueue(ctx, alert)
	}

	return result
}
