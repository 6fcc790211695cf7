package samples

import (
	"errors"
	"testing"
	"time"

	"github.com/diwise/iot-machine-alerts/internal/pkg/application/evaluator"
	"github.com/diwise/iot-machine-alerts/internal/pkg/application/thresholds"
	"github.com/diwise/iot-machine-alerts/pkg/types"
	"github.com/matryer/is"
)

func TestPutAndLatest(t *testing.T) {
	is, s, now := testSetup(t)

	is.NoErr(s.Put(newSample("m1", now, map[string]float64{types.MetricTemperature: 95})))

	sample, ok := s.Latest("m1")
	is.True(ok)
	v, ok := sample.Value(types.MetricTemperature)
	is.True(ok)
	is.Equal(v, 95.0)

	_, ok = s.Latest("m2")
	is.True(!ok)
}

func TestOlderSampleDoesNotReplaceNewer(t *testing.T) {
	is, s, now := testSetup(t)

	is.NoErr(s.Put(newSample("m1", now, map[string]float64{types.MetricTemperature: 95})))
	is.NoErr(s.Put(newSample("m1", now.Add(-time.Minute), map[string]float64{types.MetricTemperature: 60})))

	sample, _ := s.Latest("m1")
	v, _ := sample.Value(types.MetricTemperature)
	is.Equal(v, 95.0)
}

func TestPutKeepsReadingsTheSampleDoesNotCarry(t *testing.T) {
	is, s, now := testSetup(t)

	is.NoErr(s.Put(newSample("m1", now, map[string]float64{types.MetricTemperature: 60, types.MetricVoltage: 230})))
	is.NoErr(s.Put(newSample("m1", now.Add(time.Second), map[string]float64{types.MetricTemperature: 95})))

	sample, _ := s.Latest("m1")
	temperature, _ := sample.Value(types.MetricTemperature)
	voltage, _ := sample.Value(types.MetricVoltage)
	is.Equal(temperature, 95.0)
	is.Equal(voltage, 230.0)
	is.True(sample.ObservedAt.Equal(now.Add(time.Second)))
}

func TestPutWithoutReadingsIsRejected(t *testing.T) {
	is, s, now := testSetup(t)

	is.True(errors.Is(s.Put(types.MetricSample{MachineID: "m1", ObservedAt: now}), ErrNoReadings))
	is.True(errors.Is(s.Put(newSample("", now, map[string]float64{types.MetricTemperature: 1})), ErrNoMachine))
}

func TestSetUpdatesSingleMetric(t *testing.T) {
	is, s, now := testSetup(t)

	is.NoErr(s.Put(newSample("m1", now, map[string]float64{types.MetricTemperature: 60, types.MetricVoltage: 230})))
	is.NoErr(s.Set("m1", types.MetricVoltage, 200, now.Add(time.Second)))
	is.NoErr(s.Set("m1", types.MetricRuntime, 3600, now.Add(time.Second)))

	sample, _ := s.Latest("m1")
	temperature, _ := sample.Value(types.MetricTemperature)
	voltage, _ := sample.Value(types.MetricVoltage)
	is.Equal(temperature, 60.0)
	is.Equal(voltage, 200.0)
	is.Equal(sample.Runtime(), int64(3600))
	is.True(sample.ObservedAt.Equal(now.Add(time.Second)))

	is.True(errors.Is(s.Set("m1", "torque", 1, now), ErrUnknownMetric))
	is.True(errors.Is(s.Set("", types.MetricVoltage, 1, now), ErrNoMachine))
}

func TestTemperatureOnlyReadingRaisesOnlyOverheating(t *testing.T) {
	is, s, now := testSetup(t)

	is.NoErr(s.Set("m1", types.MetricTemperature, 95, now))

	sample, _ := s.Latest("m1")
	is.Equal(sample.Reported(), []string{types.MetricTemperature})

	_, ok := sample.Value(types.MetricVoltage)
	is.True(!ok)

	events := evaluator.Evaluate(types.Machine{ID: "m1", Name: "Press 01"}, sample, thresholds.Default())
	is.Equal(len(events), 1)
	is.Equal(events[0].AlertType, "Overheating")
}

func TestFreshIgnoresStaleSamples(t *testing.T) {
	is, s, now := testSetup(t)

	is.NoErr(s.Put(newSample("m1", now.Add(-time.Minute), map[string]float64{types.MetricTemperature: 60})))

	_, ok := s.Fresh("m1", 30*time.Second)
	is.True(!ok)

	_, ok = s.Fresh("m1", 2*time.Minute)
	is.True(ok)
}

func newSample(machineID string, at time.Time, readings map[string]float64) types.MetricSample {
	sample := types.MetricSample{MachineID: machineID, ObservedAt: at}
	for metric, v := range readings {
		sample.Set(metric, v)
	}
	return sample
}

func testSetup(t *testing.T) (*is.I, *Store, time.Time) {
	is := is.New(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	s := NewStore(WithClock(func() time.Time { return now }))

	return is, s, now
}
