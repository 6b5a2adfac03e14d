// FilePath: internal/status/status.go

// Package status derives categorical labels from raw robot and shelf readings.
package status

import "github.com/itsatony/w4b_warehouse/server/hub/internal/models"

const (
	// LowBatteryThreshold is the first battery level considered healthy
	LowBatteryThreshold = 20
	// OKStockThreshold is the quantity above which a shelf is fully stocked
	OKStockThreshold = 20
	// CriticalStockThreshold is the quantity at or below which a shelf is critical
	CriticalStockThreshold = 10
)

// ClampBattery bounds a battery reading to 0..100
func ClampBattery(level int) int {
	if level < 0 {
		return 0
	}
	if level > 100 {
		return 100
	}
	return level
}

// ClassifyRobot maps a battery level to a robot status. Values at or below
// zero are treated as an empty battery.
func ClassifyRobot(batteryLevel int) models.RobotStatus {
	level := ClampBattery(batteryLevel)
	switch {
	case level == 0:
		return models.RobotOffline
	case level < LowBatteryThreshold:
		return models.RobotLowBattery
	default:
		return models.RobotActive
	}
}

// ClassifyScan maps an observed shelf quantity to a stock status
func ClassifyScan(quantity int) models.ScanStatus {
	switch {
	case quantity > OKStockThreshold:
		return models.ScanOK
	case quantity > CriticalStockThreshold:
		return models.ScanLowStock
	default:
		return models.ScanCritical
	}
}

// ParseScanStatus reports whether s names a known scan status
func ParseScanStatus(s string) (models.ScanStatus, bool) {
	switch models.ScanStatus(s) {
	case models.ScanOK, models.ScanLowStock, models.ScanCritical:
		return models.ScanStatus(s), true
	}
	return "", false
}
