package samples

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/diwise/iot-machine-alerts/pkg/types"
)

var (
	ErrUnknownMetric = errors.New("unknown metric")
	ErrNoMachine     = errors.New("sample has no machine id")
	ErrNoReadings    = errors.New("sample has no readings")
)

// Store keeps the most recent sample reported for each machine.
type Store struct {
	mu      sync.RWMutex
	samples map[string]types.MetricSample
	now     func() time.Time
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		samples: make(map[string]types.MetricSample),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Put merges the readings in sample into the latest sample for the machine.
// Readings the sample does not carry keep their previous values. Samples older
// than the one already stored are ignored.
func (s *Store) Put(sample types.MetricSample) error {
	if strings.TrimSpace(sample.MachineID) == "" {
		return ErrNoMachine
	}

	if len(sample.Reported()) == 0 && sample.RuntimeSeconds == nil {
		return ErrNoReadings
	}

	if sample.ObservedAt.IsZero() {
		sample.ObservedAt = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.samples[sample.MachineID]
	if !ok {
		current = types.MetricSample{MachineID: sample.MachineID}
	} else if sample.ObservedAt.Before(current.ObservedAt) {
		return nil
	}

	current.Merge(sample)
	s.samples[sample.MachineID] = current

	return nil
}

// Set updates a single metric, keeping the other readings from the latest sample.
func (s *Store) Set(machineID, metric string, value float64, ts time.Time) error {
	if strings.TrimSpace(machineID) == "" {
		return ErrNoMachine
	}

	if ts.IsZero() {
		ts = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sample, ok := s.samples[machineID]
	if !ok {
		sample = types.MetricSample{MachineID: machineID}
	}

	if metric == types.MetricRuntime {
		sample.SetRuntime(int64(value))
	} else if !sample.Set(metric, value) {
		return ErrUnknownMetric
	}

	if ts.After(sample.ObservedAt) {
		sample.ObservedAt = ts
	}

	s.samples[machineID] = sample
	return nil
}

func (s *Store) Latest(machineID string) (types.MetricSample, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sample, ok := s.samples[machineID]
	return sample, ok
}

// Fresh returns the latest sample only if it was observed within maxAge.
func (s *Store) Fresh(machineID string, maxAge time.Duration) (types.MetricSample, bool) {
	sample, ok := s.Latest(machineID)
	if !ok {
		return types.MetricSample{}, false
	}

	if maxAge > 0 && s.now().Sub(sample.ObservedAt) > maxAge {
		return types.MetricSample{}, false
	}

	return sample, true
}
