package thresholds

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/diwise/iot-machine-alerts/pkg/types"
	"github.com/samber/lo"
	"gopkg.in/yaml.v2"
)

var ErrInvalidRule = errors.New("invalid threshold rule")

// Rule describes the safe range for one metric. Two-sided metrics are expressed
// as two rules sharing the same metric so that each bound gets its own message.
type Rule struct {
	Name      string         `yaml:"name"`
	Metric    string         `yaml:"metric"`
	AlertType string         `yaml:"alertType"`
	Label     string         `yaml:"label"`
	Min       *float64       `yaml:"min,omitempty"`
	Max       *float64       `yaml:"max,omitempty"`
	Severity  types.Severity `yaml:"severity"`
	Unit      string         `yaml:"unit"`

	// MinText and MaxText override the breach messages. {label} and {limit}
	// are replaced with the rule label and the breached bound.
	MinText string `yaml:"minMessage,omitempty"`
	MaxText string `yaml:"maxMessage,omitempty"`
}

const (
	defaultMaxText = "{label} exceeded safe limit of {limit}"
	defaultMinText = "{label} dropped below minimum of {limit}"
)

// Table is evaluated in slice order.
type Table []Rule

func Default() Table {
	return Table{
		{Name: "temperature", Metric: types.MetricTemperature, AlertType: "Overheating", Label: "Temperature", Max: f(90), Severity: types.SeverityCritical, Unit: "°C"},
		{Name: "vibration", Metric: types.MetricVibration, AlertType: "High Vibration", Label: "Vibration", Max: f(12), Severity: types.SeverityHigh, Unit: "mm/s"},
		{Name: "current", Metric: types.MetricCurrent, AlertType: "Overload Current", Label: "Current", Max: f(65), Severity: types.SeverityHigh, Unit: "A"},
		{Name: "voltageMin", Metric: types.MetricVoltage, AlertType: "Voltage Deviation", Label: "Voltage", Min: f(205), Severity: types.SeverityMedium, Unit: "V"},
		{Name: "voltageMax", Metric: types.MetricVoltage, AlertType: "Voltage Deviation", Label: "Voltage", Max: f(245), Severity: types.SeverityMedium, Unit: "V", MaxText: "{label} exceeded maximum of {limit}"},
		{Name: "pressure", Metric: types.MetricPressure, AlertType: "High Pressure", Label: "Pressure", Max: f(8), Severity: types.SeverityMedium, Unit: "bar"},
		{Name: "humidity", Metric: types.MetricHumidity, AlertType: "High Humidity", Label: "Humidity", Max: f(80), Severity: types.SeverityLow, Unit: "%"},
	}
}

func (r Rule) Validate() error {
	if r.Min == nil && r.Max == nil {
		return fmt.Errorf("%w: %s has neither min nor max", ErrInvalidRule, r.Name)
	}
	if r.Min != nil && r.Max != nil && *r.Min >= *r.Max {
		return fmt.Errorf("%w: %s min %v is not below max %v", ErrInvalidRule, r.Name, *r.Min, *r.Max)
	}
	if !lo.Contains(types.Metrics, r.Metric) {
		return fmt.Errorf("%w: %s references unknown metric %q", ErrInvalidRule, r.Name, r.Metric)
	}
	if !r.Severity.Valid() {
		return fmt.Errorf("%w: %s has no valid severity", ErrInvalidRule, r.Name)
	}
	if strings.TrimSpace(r.AlertType) == "" {
		return fmt.Errorf("%w: %s has no alert type", ErrInvalidRule, r.Name)
	}
	return nil
}

func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: table is empty", ErrInvalidRule)
	}

	seen := map[string]struct{}{}
	for _, r := range t {
		if err := r.Validate(); err != nil {
			return err
		}
		if _, ok := seen[r.Name]; ok {
			return fmt.Errorf("%w: duplicate rule name %s", ErrInvalidRule, r.Name)
		}
		seen[r.Name] = struct{}{}
	}
	return nil
}

// Load reads a yaml list of rules. Rules without a name or label get them
// derived from the metric.
func Load(r io.Reader) (Table, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	t := Table{}
	if err = yaml.Unmarshal(b, &t); err != nil {
		return nil, err
	}

	return t.Complete()
}

// Complete fills in derived names and labels and validates the table.
func (t Table) Complete() (Table, error) {
	t = t.withDefaults()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t Table) withDefaults() Table {
	for i := range t {
		if t[i].Label == "" && t[i].Metric != "" {
			t[i].Label = strings.ToUpper(t[i].Metric[:1]) + t[i].Metric[1:]
		}
		if t[i].Name == "" {
			t[i].Name = t[i].Metric
		}
	}
	return t
}

func (r Rule) MaxMessage() string {
	return r.message(lo.Ternary(r.MaxText != "", r.MaxText, defaultMaxText), *r.Max)
}

func (r Rule) MinMessage() string {
	return r.message(lo.Ternary(r.MinText != "", r.MinText, defaultMinText), *r.Min)
}

func (r Rule) message(text string, limit float64) string {
	return strings.NewReplacer("{label}", r.Label, "{limit}", withUnit(limit, r.Unit)).Replace(text)
}

func withUnit(v float64, unit string) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if unit == "°C" || unit == "%" {
		return s + unit
	}
	return s + " " + unit
}

func f(v float64) *float64 {
	return &v
}
