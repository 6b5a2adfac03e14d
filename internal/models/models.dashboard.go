// FilePath: internal/models/models.dashboard.go
package models

type DashboardRobot struct {
	ID           string      `json:"id"`
	Status       RobotStatus `json:"status"`
	BatteryLevel int         `json:"battery_level"`
	CurrentZone  string      `json:"current_zone"`
	CurrentRow   int         `json:"current_row"`
	CurrentShelf int         `json:"current_shelf"`
	LastUpdate   *string     `json:"last_update"`
}

type RecentScan struct {
	Time     string     `json:"time"`
	RobotID  string     `json:"robot_id"`
	Zone     string     `json:"zone"`
	Product  string     `json:"product"`
	SKU      string     `json:"sku"`
	Quantity int        `json:"quantity"`
	Status   ScanStatus `json:"status"`
}

type Statistics struct {
	ActiveRobots  int     `json:"activeRobots"`
	TotalRobots   int     `json:"totalRobots"`
	ScannedToday  int64   `json:"scannedToday"`
	CriticalItems int64   `json:"criticalItems"`
	AvgBattery    float64 `json:"avgBattery"`
}

type DashboardSnapshot struct {
	Robots      []DashboardRobot `json:"robots"`
	RecentScans []RecentScan     `json:"recent_scans"`
	Statistics  Statistics       `json:"statistics"`
}
