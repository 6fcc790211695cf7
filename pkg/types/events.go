package types

import (
	"encoding/json"
	"time"
)

type AlertCreated struct {
	Alert     Alert     `json:"alert"`
	Timestamp time.Time `json:"timestamp"`
}

func (a *AlertCreated) ContentType() string {
	return "application/json"
}
func (a *AlertCreated) TopicName() string {
	return "alert.created"
}
func (a *AlertCreated) Body() []byte {
	b, _ := json.Marshal(a)
	return b
}

type AlertAcknowledged struct {
	ID             string    `json:"id"`
	MachineID      string    `json:"machineId"`
	AcknowledgedBy string    `json:"acknowledgedBy"`
	Timestamp      time.Time `json:"timestamp"`
}

func (a *AlertAcknowledged) ContentType() string {
	return "application/json"
}
func (a *AlertAcknowledged) TopicName() string {
	return "alert.acknowledged"
}
func (a *AlertAcknowledged) Body() []byte {
	b, _ := json.Marshal(a)
	return b
}

type AlertResolved struct {
	ID        string    `json:"id"`
	MachineID string    `json:"machineId"`
	Timestamp time.Time `json:"timestamp"`
}

func (a *AlertResolved) ContentType() string {
	return "application/json"
}
func (a *AlertResolved) TopicName() string {
	return "alert.resolved"
}
func (a *AlertResolved) Body() []byte {
	b, _ := json.Marshal(a)
	return b
}
