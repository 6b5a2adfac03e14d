// FilePath: internal/models/models.scan.go
package models

import "time"

type ScanStatus string

const (
	ScanOK       ScanStatus = "OK"
	ScanLowStock ScanStatus = "LOW_STOCK"
	ScanCritical ScanStatus = "CRITICAL"
)

// ManualRobotID marks scan records that came from a bulk import rather than a robot
const ManualRobotID = "MANUAL"

// ScanRecord is one shelf observation. Records are append-only.
type ScanRecord struct {
	ID          string     `json:"id" db:"id"`
	RobotID     string     `json:"robot_id" db:"robot_id"`
	ProductID   string     `json:"product_id" db:"product_id"`
	Quantity    int        `json:"quantity" db:"quantity"`
	Zone        string     `json:"zone" db:"zone"`
	RowNumber   int        `json:"row_number" db:"row_number"`
	ShelfNumber int        `json:"shelf_number" db:"shelf_number"`
	Status      ScanStatus `json:"status" db:"status"`
	ScannedAt   time.Time  `json:"scanned_at" db:"scanned_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// ScanWithProduct is a scan record joined with its (possibly unknown) product
type ScanWithProduct struct {
	ScanRecord
	ProductName  *string `json:"product_name,omitempty" db:"product_name"`
	OptimalStock *int    `json:"optimal_stock,omitempty" db:"optimal_stock"`
}
