package simulator

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/logging"
	"github.com/diwise/iot-machine-alerts/internal/pkg/infrastructure/metrics"
	"github.com/diwise/iot-machine-alerts/pkg/types"
)

type walk struct {
	min, max, step, start float64
}

var walks = map[string]walk{
	types.MetricTemperature: {50, 110, 2, 60},
	types.MetricVibration:   {1, 20, 1, 5},
	types.MetricCurrent:     {5, 80, 2, 20},
	types.MetricVoltage:     {200, 250, 1, 230},
	types.MetricRPM:         {800, 2200, 40, 1200},
	types.MetricLoad:        {10, 100, 3, 40},
	types.MetricPressure:    {1, 16, 0.5, 5},
	types.MetricHumidity:    {20, 80, 2, 40},
	types.MetricPower:       {5, 40, 1.5, 10},
}

type Sink interface {
	Put(sample types.MetricSample) error
}

type Machines interface {
	ActiveMachines(ctx context.Context) ([]types.Machine, error)
}

// Simulator produces random walk readings for every active machine. It is
// used in dev mode in place of real metric sources.
type Simulator struct {
	machines Machines
	sink     Sink
	interval time.Duration
	rnd      *rand.Rand
	now      func() time.Time

	mu   sync.Mutex
	last map[string]types.MetricSample
}

func New(machines Machines, sink Sink, interval time.Duration, seed int64) *Simulator {
	if interval <= 0 {
		interval = time.Second
	}

	return &Simulator{
		machines: machines,
		sink:     sink,
		interval: interval,
		rnd:      rand.New(rand.NewSource(seed)),
		now:      time.Now,
		last:     make(map[string]types.MetricSample),
	}
}

func (s *Simulator) Run(ctx context.Context) {
	ctx, log := logging.WithComponent(ctx, "simulator")
	log.Info().Dur("interval", s.interval).Msg("metric simulator started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Step(ctx); err != nil {
				log.Error().Err(err).Msg("simulator step failed")
			}
		}
	}
}

// Step advances every active machine by one reading.
func (s *Simulator) Step(ctx context.Context) error {
	machines, err := s.machines.ActiveMachines(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()

	for _, m := range machines {
		prev, ok := s.last[m.ID]
		if !ok {
			prev = initial(m.ID)
		}

		next := types.MetricSample{MachineID: m.ID, ObservedAt: now}
		next.SetRuntime(prev.Runtime() + 1)

		for metric, w := range walks {
			v, _ := prev.Value(metric)
			next.Set(metric, s.step(v, w))
		}

		s.last[m.ID] = next

		if err := s.sink.Put(next); err != nil {
			return err
		}
		metrics.SamplesIngested.WithLabelValues("simulator").Inc()
	}

	return nil
}

func (s *Simulator) step(prev float64, w walk) float64 {
	next := prev + (s.rnd.Float64()*2-1)*w.step
	if next < w.min {
		return w.min
	}
	if next > w.max {
		return w.max
	}
	return next
}

func initial(machineID string) types.MetricSample {
	sample := types.MetricSample{MachineID: machineID}
	for metric, w := range walks {
		sample.Set(metric, w.start)
	}
	return sample
}
