package types

import (
	"time"
)

type AlertStatus string

const (
	AlertStatusActive       AlertStatus = "Active"
	AlertStatusAcknowledged AlertStatus = "Acknowledged"
	AlertStatusResolved     AlertStatus = "Resolved"
)

func (s AlertStatus) Valid() bool {
	return s == AlertStatusActive || s == AlertStatusAcknowledged || s == AlertStatusResolved
}

const (
	MetricTemperature = "temperature"
	MetricVibration   = "vibration"
	MetricCurrent     = "current"
	MetricVoltage     = "voltage"
	MetricRPM         = "rpm"
	MetricLoad        = "load"
	MetricPressure    = "pressure"
	MetricHumidity    = "humidity"
	MetricPower       = "power"
	MetricRuntime     = "runtimeSeconds"
)

var Metrics = []string{
	MetricTemperature, MetricVibration, MetricCurrent, MetricVoltage, MetricRPM,
	MetricLoad, MetricPressure, MetricHumidity, MetricPower,
}

// MetricSample holds one machine's readings at a single point in time. A nil
// reading was not reported and is never evaluated.
type MetricSample struct {
	MachineID      string    `json:"machineId"`
	Temperature    *float64  `json:"temperature,omitempty"`
	Vibration      *float64  `json:"vibration,omitempty"`
	Current        *float64  `json:"current,omitempty"`
	Voltage        *float64  `json:"voltage,omitempty"`
	RPM            *float64  `json:"rpm,omitempty"`
	Load           *float64  `json:"load,omitempty"`
	Pressure       *float64  `json:"pressure,omitempty"`
	Humidity       *float64  `json:"humidity,omitempty"`
	Power          *float64  `json:"power,omitempty"`
	RuntimeSeconds *int64    `json:"runtimeSeconds,omitempty"`
	ObservedAt     time.Time `json:"observedAt"`
}

func (s *MetricSample) reading(metric string) **float64 {
	switch metric {
	case MetricTemperature:
		return &s.Temperature
	case MetricVibration:
		return &s.Vibration
	case MetricCurrent:
		return &s.Current
	case MetricVoltage:
		return &s.Voltage
	case MetricRPM:
		return &s.RPM
	case MetricLoad:
		return &s.Load
	case MetricPressure:
		return &s.Pressure
	case MetricHumidity:
		return &s.Humidity
	case MetricPower:
		return &s.Power
	}
	return nil
}

// Value returns the reading for metric and false if it is unknown or was not reported.
func (s MetricSample) Value(metric string) (float64, bool) {
	r := s.reading(metric)
	if r == nil || *r == nil {
		return 0, false
	}
	return **r, true
}

func (s *MetricSample) Set(metric string, v float64) bool {
	r := s.reading(metric)
	if r == nil {
		return false
	}
	*r = &v
	return true
}

func (s MetricSample) Runtime() int64 {
	if s.RuntimeSeconds == nil {
		return 0
	}
	return *s.RuntimeSeconds
}

func (s *MetricSample) SetRuntime(seconds int64) {
	s.RuntimeSeconds = &seconds
}

// Reported lists the metrics present in the sample, in Metrics order.
func (s MetricSample) Reported() []string {
	reported := []string{}
	for _, m := range Metrics {
		if _, ok := s.Value(m); ok {
			reported = append(reported, m)
		}
	}
	return reported
}

// Merge copies every reading present in other onto s, leaving the rest untouched.
func (s *MetricSample) Merge(other MetricSample) {
	for _, m := range other.Reported() {
		v, _ := other.Value(m)
		s.Set(m, v)
	}
	if other.RuntimeSeconds != nil {
		s.SetRuntime(*other.RuntimeSeconds)
	}
	if other.ObservedAt.After(s.ObservedAt) {
		s.ObservedAt = other.ObservedAt
	}
}

type Machine struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Location string `json:"location,omitempty"`
	Active   bool   `json:"active"`
}

// AlertEvent is a threshold breach that has not yet been persisted. Rule names
// the threshold rule that was breached and tells the bounds of a two-sided
// metric apart, since both share an alert type.
type AlertEvent struct {
	MachineID   string    `json:"machineId"`
	MachineName string    `json:"machineName"`
	AlertType   string    `json:"alertType"`
	Rule        string    `json:"rule,omitempty"`
	Severity    Severity  `json:"severity"`
	Message     string    `json:"message"`
	Value       float64   `json:"value"`
	Threshold   float64   `json:"threshold"`
	Unit        string    `json:"unit"`
	OccurredAt  time.Time `json:"occurredAt,omitempty"`
}

// CooldownKey identifies the breach for the cooldown gate.
func (e AlertEvent) CooldownKey() string {
	if e.Rule != "" {
		return e.Rule
	}
	return e.AlertType
}

type Alert struct {
	ID string `json:"id"`
	AlertEvent
	Status           AlertStatus `json:"status"`
	AcknowledgedBy   *string     `json:"acknowledgedBy,omitempty"`
	AcknowledgedAt   *time.Time  `json:"acknowledgedAt,omitempty"`
	ResolvedAt       *time.Time  `json:"resolvedAt,omitempty"`
	NotificationSent bool        `json:"notificationSent"`
}

type Operator struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

type NotificationSettings struct {
	UserID          string   `json:"userId"`
	EmailEnabled    bool     `json:"emailEnabled"`
	EmailAddress    string   `json:"emailAddress"`
	MinSeverity     Severity `json:"minSeverity"`
	CooldownMinutes int      `json:"cooldownMinutes"`
	DailyDigest     bool     `json:"dailyDigest"`
	DigestTime      string   `json:"digestTime"`
}

type Recipient struct {
	OperatorID string `json:"operatorId"`
	Address    string `json:"address"`
}

type Collection[T any] struct {
	Data       []T
	Count      uint64
	Offset     uint64
	Limit      uint64
	TotalCount uint64
}

type AlertFilter struct {
	MachineID string
	Severity  Severity
	Status    AlertStatus
	From      *time.Time
	To        *time.Time
	Offset    int
	Limit     int
}

type AlertSummary struct {
	Total        int64 `json:"total"`
	Critical     int64 `json:"critical"`
	High         int64 `json:"high"`
	Medium       int64 `json:"medium"`
	Low          int64 `json:"low"`
	Active       int64 `json:"active"`
	Acknowledged int64 `json:"acknowledged"`
	Resolved     int64 `json:"resolved"`
}

type TypeCount struct {
	AlertType string `json:"type"`
	Count     int64  `json:"count"`
}

type MachineCount struct {
	MachineID   string `json:"machineId"`
	MachineName string `json:"machineName"`
	Count       int64  `json:"count"`
}

type AlertStats struct {
	Since     time.Time      `json:"since"`
	Summary   AlertSummary   `json:"summary"`
	ByType    []TypeCount    `json:"byType"`
	ByMachine []MachineCount `json:"byMachine"`
}
