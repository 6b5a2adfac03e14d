// FilePath: internal/models/models.events.go
package models

import "time"

type EventType string

const (
	EventRobotUpdate EventType = "robot_update"
	EventHeartbeat   EventType = "heartbeat"
)

// DomainEvent is pushed to dashboard observers. Events are transient.
type DomainEvent interface {
	Type() EventType
}

// RobotUpdate announces a committed telemetry ingest
type RobotUpdate struct {
	RobotID      string   `json:"robot_id"`
	BatteryLevel int      `json:"battery_level"`
	Location     Location `json:"location"`
	Timestamp    string   `json:"timestamp"`
}

func (RobotUpdate) Type() EventType { return EventRobotUpdate }

// Heartbeat is a per-connection liveness signal
type Heartbeat struct {
	Timestamp time.Time
}

func (Heartbeat) Type() EventType { return EventHeartbeat }
