// FilePath: internal/models/models.inventory.go
package models

import "time"

// HistoryFilters are decoded from the history query string
type HistoryFilters struct {
	FromDate string `schema:"from_date"`
	ToDate   string `schema:"to_date"`
	Zone     string `schema:"zone"`
	Status   string `schema:"status"`
	Page     int    `schema:"page"`
	Limit    int    `schema:"limit"`
}

// ScanQuery is the parsed form of HistoryFilters used by the store
type ScanQuery struct {
	From   *time.Time
	To     *time.Time
	Zone   string
	Status ScanStatus
	Offset int
	Limit  int
}

type HistoryItem struct {
	ID         string     `json:"id"`
	Date       string     `json:"date"`
	RobotID    string     `json:"robot_id"`
	Zone       string     `json:"zone"`
	SKU        string     `json:"sku"`
	Product    string     `json:"product"`
	Expected   int        `json:"expected"`
	Actual     int        `json:"actual"`
	Difference int        `json:"difference"`
	Status     ScanStatus `json:"status"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"total_pages"`
}

type HistoryPage struct {
	Total      int64         `json:"total"`
	Items      []HistoryItem `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

type ImportResult struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors"`
}
