// FilePath: api/resources/resources.go
package resources

import (
	"github.com/gorilla/schema"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/config"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/warehouse"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Robots    *RobotHandlers
	Live      *LiveHandlers
	Dashboard *DashboardHandlers
	Inventory *InventoryHandlers
	Products  *ProductHandlers
	Auth      *AuthHandlers
	System    *SystemHandlers
}

// NewResources creates a new Resources instance
func NewResources(svc *warehouse.Service, cfg *config.Config) *Resources {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	return &Resources{
		Robots:    &RobotHandlers{svc: svc},
		Live:      &LiveHandlers{svc: svc, writeTimeout: cfg.Live.WriteTimeout},
		Dashboard: &DashboardHandlers{svc: svc},
		Inventory: &InventoryHandlers{svc: svc, decoder: decoder, maxUploadSize: cfg.Server.MaxUploadSize},
		Products:  &ProductHandlers{svc: svc},
		Auth:      newAuthHandlers(svc),
		System:    &SystemHandlers{svc: svc},
	}
}
