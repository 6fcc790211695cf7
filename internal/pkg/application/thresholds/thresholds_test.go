package thresholds

import (
	"errors"
	"strings"
	"testing"

	"github.com/diwise/iot-machine-alerts/pkg/types"
	"github.com/matryer/is"
)

func TestDefaultTableIsValidAndOrdered(t *testing.T) {
	is := is.New(t)

	table := Default()
	is.NoErr(table.Validate())

	names := []string{}
	for _, r := range table {
		names = append(names, r.Name)
	}
	is.Equal(strings.Join(names, ","), "temperature,vibration,current,voltageMin,voltageMax,pressure,humidity")
}

func TestDefaultMessages(t *testing.T) {
	is := is.New(t)

	table := Default()
	is.Equal(table[0].MaxMessage(), "Temperature exceeded safe limit of 90°C")
	is.Equal(table[3].MinMessage(), "Voltage dropped below minimum of 205 V")
	is.Equal(table[4].MaxMessage(), "Voltage exceeded maximum of 245 V")
}

func TestMessageOverrideFromYaml(t *testing.T) {
	is := is.New(t)

	table, err := Load(strings.NewReader(`
- name: rpmMin
  metric: rpm
  alertType: Stall
  label: Spindle speed
  min: 400
  severity: Medium
  unit: rpm
  minMessage: "{label} stalled below {limit}"
`))
	is.NoErr(err)
	is.Equal(table[0].MinMessage(), "Spindle speed stalled below 400 rpm")
}

func TestRuleWithoutBoundsIsRejected(t *testing.T) {
	is := is.New(t)

	err := Rule{Name: "x", Metric: types.MetricPower, AlertType: "Power", Severity: types.SeverityLow}.Validate()
	is.True(errors.Is(err, ErrInvalidRule))
}

func TestRuleWithInvertedBoundsIsRejected(t *testing.T) {
	is := is.New(t)

	err := Rule{Name: "x", Metric: types.MetricPower, AlertType: "Power", Min: f(10), Max: f(5), Severity: types.SeverityLow}.Validate()
	is.True(errors.Is(err, ErrInvalidRule))
}

func TestLoadFromYaml(t *testing.T) {
	is := is.New(t)

	table, err := Load(strings.NewReader(rulesYaml))
	is.NoErr(err)
	is.Equal(len(table), 2)
	is.Equal(table[0].Label, "Temperature")
	is.Equal(*table[0].Max, 85.5)
	is.Equal(table[0].Severity, types.SeverityCritical)
	is.Equal(table[1].Name, "rpmMin")
	is.Equal(*table[1].Min, 400.0)
}

func TestLoadRejectsUnknownMetric(t *testing.T) {
	is := is.New(t)

	_, err := Load(strings.NewReader(`
- metric: torque
  alertType: Torque
  max: 10
  severity: High
`))
	is.True(errors.Is(err, ErrInvalidRule))
}

const rulesYaml string = `
- metric: temperature
  alertType: Overheating
  max: 85.5
  severity: Critical
  unit: °C
- name: rpmMin
  metric: rpm
  alertType: Stall
  label: Speed
  min: 400
  severity: Medium
  unit: rpm
`
