// FilePath: internal/models/models.product.go
package models

const (
	DefaultMinStock     = 10
	DefaultOptimalStock = 100
	UnknownCategory     = "Unknown category"
	UnknownProductName  = "Unknown product"
)

type Product struct {
	ID           string `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Category     string `json:"category" db:"category"`
	MinStock     int    `json:"min_stock" db:"min_stock" readxs:"admin,operator" writexs:"admin"`
	OptimalStock int    `json:"optimal_stock" db:"optimal_stock" readxs:"admin,operator" writexs:"admin"`
}
