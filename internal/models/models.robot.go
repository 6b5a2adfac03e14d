// FilePath: internal/models/models.robot.go
package models

import "time"

type RobotStatus string

const (
	RobotActive     RobotStatus = "active"
	RobotLowBattery RobotStatus = "low_battery"
	RobotOffline    RobotStatus = "offline"
)

// Location is a shelf position inside the warehouse
type Location struct {
	Zone  string `json:"zone" validate:"required"`
	Row   int    `json:"row"`
	Shelf int    `json:"shelf"`
}

// Robot is the authoritative state of one inventory robot. It is only
// mutated by telemetry reconciliation.
type Robot struct {
	ID           string      `json:"id" db:"id"`
	Status       RobotStatus `json:"status" db:"status"`
	BatteryLevel int         `json:"battery_level" db:"battery_level"`
	CurrentZone  string      `json:"current_zone" db:"current_zone"`
	CurrentRow   int         `json:"current_row" db:"current_row"`
	CurrentShelf int         `json:"current_shelf" db:"current_shelf"`
	LastUpdate   *time.Time  `json:"last_update" db:"last_update"`
}

// Location returns the robot's current position
func (r *Robot) Location() Location {
	return Location{Zone: r.CurrentZone, Row: r.CurrentRow, Shelf: r.CurrentShelf}
}

// MoveTo sets the robot's current position
func (r *Robot) MoveTo(loc Location) {
	r.CurrentZone = loc.Zone
	r.CurrentRow = loc.Row
	r.CurrentShelf = loc.Shelf
}
