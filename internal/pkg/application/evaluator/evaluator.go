package evaluator

import (
	"time"

	"github.com/diwise/iot-machine-alerts/internal/pkg/application/thresholds"
	"github.com/diwise/iot-machine-alerts/pkg/types"
)

// Evaluate returns one event per breached rule, in table order. A value equal
// to a bound is within the safe range.
func Evaluate(machine types.Machine, sample types.MetricSample, rules thresholds.Table) []types.AlertEvent {
	events := []types.AlertEvent{}

	occurredAt := sample.ObservedAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	for _, rule := range rules {
		value, ok := sample.Value(rule.Metric)
		if !ok {
			continue
		}

		event := types.AlertEvent{
			MachineID:   machine.ID,
			MachineName: machine.Name,
			AlertType:   rule.AlertType,
			Rule:        rule.Name,
			Severity:    rule.Severity,
			Value:       value,
			Unit:        rule.Unit,
			OccurredAt:  occurredAt,
		}

		switch {
		case rule.Min != nil && value < *rule.Min:
			event.Threshold = *rule.Min
			event.Message = rule.MinMessage()
		case rule.Max != nil && value > *rule.Max:
			event.Threshold = *rule.Max
			event.Message = rule.MaxMessage()
		default:
			continue
		}

		events = append(events, event)
	}

	return events
}
