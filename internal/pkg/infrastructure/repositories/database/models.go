package database

import (
	"time"

	"github.com/diwise/iot-machine-alerts/pkg/types"
)

type Alert struct {
	ID               string  `gorm:"primaryKey;size:36"`
	MachineID        string  `gorm:"not null;index:idx_alert_machine_occurred,priority:1"`
	MachineName      string
	AlertType        string  `gorm:"not null;index"`
	Rule             string
	Severity         string  `gorm:"not null;index"`
	Message          string
	Value            float64
	Threshold        float64
	Unit             string
	Status           string  `gorm:"not null;index"`
	AcknowledgedBy   *string
	AcknowledgedAt   *time.Time
	ResolvedAt       *time.Time `gorm:"index"`
	NotificationSent bool
	OccurredAt       time.Time `gorm:"not null;index;index:idx_alert_machine_occurred,priority:2"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Operator struct {
	ID        string `gorm:"primaryKey"`
	Name      string
	Email     string
	Role      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type NotificationSettings struct {
	UserID          string `gorm:"primaryKey"`
	EmailEnabled    bool
	EmailAddress    string
	MinSeverity     string
	CooldownMinutes int
	DailyDigest     bool
	DigestTime      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Machine struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Type      string
	Location  string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func alertToModel(a types.Alert) Alert {
	return Alert{
		ID:               a.ID,
		MachineID:        a.MachineID,
		MachineName:      a.MachineName,
		AlertType:        a.AlertType,
		Rule:             a.Rule,
		Severity:         a.Severity.String(),
		Message:          a.Message,
		Value:            a.Value,
		Threshold:        a.Threshold,
		Unit:             a.Unit,
		Status:           string(a.Status),
		AcknowledgedBy:   a.AcknowledgedBy,
		AcknowledgedAt:   utc(a.AcknowledgedAt),
		ResolvedAt:       utc(a.ResolvedAt),
		NotificationSent: a.NotificationSent,
		OccurredAt:       a.OccurredAt.UTC(),
	}
}

func (a Alert) toType() types.Alert {
	severity, _ := types.ParseSeverity(a.Severity)

	return types.Alert{
		ID: a.ID,
		AlertEvent: types.AlertEvent{
			MachineID:   a.MachineID,
			MachineName: a.MachineName,
			AlertType:   a.AlertType,
			Rule:        a.Rule,
			Severity:    severity,
			Message:     a.Message,
			Value:       a.Value,
			Threshold:   a.Threshold,
			Unit:        a.Unit,
			OccurredAt:  a.OccurredAt.UTC(),
		},
		Status:           types.AlertStatus(a.Status),
		AcknowledgedBy:   a.AcknowledgedBy,
		AcknowledgedAt:   utc(a.AcknowledgedAt),
		ResolvedAt:       utc(a.ResolvedAt),
		NotificationSent: a.NotificationSent,
	}
}

func (o Operator) toType() types.Operator {
	return types.Operator{
		ID:     o.ID,
		Name:   o.Name,
		Email:  o.Email,
		Role:   o.Role,
		Active: o.Active,
	}
}

func settingsToModel(s types.NotificationSettings) NotificationSettings {
	return NotificationSettings{
		UserID:          s.UserID,
		EmailEnabled:    s.EmailEnabled,
		EmailAddress:    s.EmailAddress,
		MinSeverity:     s.MinSeverity.String(),
		CooldownMinutes: s.CooldownMinutes,
		DailyDigest:     s.DailyDigest,
		DigestTime:      s.DigestTime,
	}
}

func (s NotificationSettings) toType() types.NotificationSettings {
	severity, _ := types.ParseSeverity(s.MinSeverity)

	return types.NotificationSettings{
		UserID:          s.UserID,
		EmailEnabled:    s.EmailEnabled,
		EmailAddress:    s.EmailAddress,
		MinSeverity:     severity,
		CooldownMinutes: s.CooldownMinutes,
		DailyDigest:     s.DailyDigest,
		DigestTime:      s.DigestTime,
	}
}

func (m Machine) toType() types.Machine {
	return types.Machine{
		ID:       m.ID,
		Name:     m.Name,
		Type:     m.Type,
		Location: m.Location,
		Active:   m.Active,
	}
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
