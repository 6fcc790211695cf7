package evaluator

import (
	"math"
	"testing"
	"time"

	"github.com/diwise/iot-machine-alerts/internal/pkg/application/thresholds"
	"github.com/diwise/iot-machine-alerts/pkg/types"
	"github.com/matryer/is"
)

func TestHealthySampleRaisesNothing(t *testing.T) {
	is, m, rules := testSetup(t)

	events := Evaluate(m, healthy(), rules)
	is.Equal(len(events), 0)
}

func TestOverheating(t *testing.T) {
	is, m, rules := testSetup(t)

	s := healthy()
	s.Set(types.MetricTemperature, 95)

	events := Evaluate(m, s, rules)
	is.Equal(len(events), 1)
	is.Equal(events[0].AlertType, "Overheating")
	is.Equal(events[0].Severity, types.SeverityCritical)
	is.Equal(events[0].Value, 95.0)
	is.Equal(events[0].Threshold, 90.0)
	is.Equal(events[0].Unit, "°C")
	is.Equal(events[0].MachineID, "m1")
	is.Equal(events[0].MachineName, "Press 01")
	is.Equal(events[0].Message, "Temperature exceeded safe limit of 90°C")
}

func TestValueAtBoundIsHealthy(t *testing.T) {
	is, m, rules := testSetup(t)

	s := healthy()
	s.Set(types.MetricTemperature, 90)
	s.Set(types.MetricVoltage, 205)
	s.Set(types.MetricHumidity, 80)

	is.Equal(len(Evaluate(m, s, rules)), 0)

	s.Set(types.MetricTemperature, math.Nextafter(90, 91))
	events := Evaluate(m, s, rules)
	is.Equal(len(events), 1)
	is.Equal(events[0].AlertType, "Overheating")
}

func TestLowVoltageRaisesOnlyTheMinimumBreach(t *testing.T) {
	is, m, rules := testSetup(t)

	s := healthy()
	s.Set(types.MetricVoltage, 200)

	events := Evaluate(m, s, rules)
	is.Equal(len(events), 1)
	is.Equal(events[0].AlertType, "Voltage Deviation")
	is.Equal(events[0].Severity, types.SeverityMedium)
	is.Equal(events[0].Threshold, 205.0)
	is.Equal(events[0].Rule, "voltageMin")
	is.Equal(events[0].Message, "Voltage dropped below minimum of 205 V")
}

func TestHighVoltageRaisesOnlyTheMaximumBreach(t *testing.T) {
	is, m, rules := testSetup(t)

	s := healthy()
	s.Set(types.MetricVoltage, 250)

	events := Evaluate(m, s, rules)
	is.Equal(len(events), 1)
	is.Equal(events[0].AlertType, "Voltage Deviation")
	is.Equal(events[0].Rule, "voltageMax")
	is.Equal(events[0].Threshold, 245.0)
	is.Equal(events[0].Message, "Voltage exceeded maximum of 245 V")
}

func TestBreachesFollowRuleOrder(t *testing.T) {
	is, m, rules := testSetup(t)

	s := sample(map[string]float64{
		types.MetricTemperature: 100,
		types.MetricVibration:   15,
		types.MetricCurrent:     70,
		types.MetricVoltage:     250,
		types.MetricPressure:    9,
		types.MetricHumidity:    90,
	})

	events := Evaluate(m, s, rules)
	is.Equal(len(events), 6)

	expected := []string{"Overheating", "High Vibration", "Overload Current", "Voltage Deviation", "High Pressure", "High Humidity"}
	for i, e := range events {
		is.Equal(e.AlertType, expected[i])
	}
}

func TestUnreportedMetricsAreNotEvaluated(t *testing.T) {
	is, m, rules := testSetup(t)

	events := Evaluate(m, sample(map[string]float64{types.MetricTemperature: 95}), rules)
	is.Equal(len(events), 1)
	is.Equal(events[0].AlertType, "Overheating")

	is.Equal(len(Evaluate(m, types.MetricSample{MachineID: "m1"}, rules)), 0)
}

func TestZeroReadingIsEvaluated(t *testing.T) {
	is, m, rules := testSetup(t)

	events := Evaluate(m, sample(map[string]float64{types.MetricVoltage: 0}), rules)
	is.Equal(len(events), 1)
	is.Equal(events[0].Rule, "voltageMin")
}

func TestOccurredAtComesFromSample(t *testing.T) {
	is, m, rules := testSetup(t)

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := healthy()
	s.Set(types.MetricPressure, 8.5)
	s.ObservedAt = ts

	events := Evaluate(m, s, rules)
	is.Equal(len(events), 1)
	is.Equal(events[0].OccurredAt, ts)
}

func testSetup(t *testing.T) (*is.I, types.Machine, thresholds.Table) {
	return is.New(t), types.Machine{ID: "m1", Name: "Press 01"}, thresholds.Default()
}

func healthy() types.MetricSample {
	return sample(map[string]float64{
		types.MetricTemperature: 60,
		types.MetricVibration:   5,
		types.MetricCurrent:     20,
		types.MetricVoltage:     230,
		types.MetricRPM:         1200,
		types.MetricLoad:        40,
		types.MetricPressure:    5,
		types.MetricHumidity:    40,
		types.MetricPower:       10,
	})
}

func sample(readings map[string]float64) types.MetricSample {
	s := types.MetricSample{MachineID: "m1"}
	for metric, v := range readings {
		s.Set(metric, v)
	}
	return s
}
