// FilePath: internal/models/models.telemetry.go
package models

// TelemetryReport is the payload a robot posts after each checkpoint. It is
// never stored verbatim. BatteryLevel is a pointer so a report without one
// fails validation instead of reading as an empty battery.
type TelemetryReport struct {
	RobotID        string       `json:"robot_id" validate:"required"`
	Timestamp      string       `json:"timestamp" validate:"required"`
	Location       Location     `json:"location"`
	ScanResults    []ScanResult `json:"scan_results"`
	BatteryLevel   *float64     `json:"battery_level" validate:"required"`
	NextCheckpoint string       `json:"next_checkpoint"`
}

// ScanResult is a single shelf observation inside a report. Quantity is a
// pointer so that a missing value can be told apart from zero.
type ScanResult struct {
	ProductID string `json:"product_id"`
	Quantity  *int   `json:"quantity"`
	Status    string `json:"status"`
}

// RejectedScan describes a scan result that was dropped during ingest
type RejectedScan struct {
	Index     int    `json:"index"`
	ProductID string `json:"product_id,omitempty"`
	Reason    string `json:"reason"`
}

// IngestAck is returned to the reporting robot
type IngestAck struct {
	Status        string         `json:"status"`
	MessageID     string         `json:"message_id"`
	RejectedScans []RejectedScan `json:"rejected_scans,omitempty"`
	RobotUpdated  bool           `json:"-"`
	ScansStored   int            `json:"-"`
}
