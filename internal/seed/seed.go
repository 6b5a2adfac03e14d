// FilePath: internal/seed/seed.go
package seed

import (
	"context"
	"fmt"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/auth"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/config"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

// DemoProducts is the starter catalogue
var DemoProducts = []models.Product{
	{ID: "TEL-4567", Name: "Router RT-AC68U", Category: "Network equipment", MinStock: 10, OptimalStock: 50},
	{ID: "TEL-8901", Name: "Modem DSL-2640U", Category: "Network equipment", MinStock: 5, OptimalStock: 30},
	{ID: "TEL-2345", Name: "Switch SG-108", Category: "Network equipment", MinStock: 8, OptimalStock: 40},
	{ID: "TEL-6789", Name: "IP phone T46S", Category: "Telephony", MinStock: 15, OptimalStock: 60},
	{ID: "TEL-3456", Name: "Cable UTP Cat6", Category: "Cables", MinStock: 100, OptimalStock: 500},
}

// DemoRobots is the starter fleet
var DemoRobots = []models.Robot{
	{ID: "RB-001", Status: models.RobotActive, BatteryLevel: 85, CurrentZone: "A", CurrentRow: 12, CurrentShelf: 3},
	{ID: "RB-002", Status: models.RobotActive, BatteryLevel: 45, CurrentZone: "B", CurrentRow: 5, CurrentShelf: 2},
	{ID: "RB-003", Status: models.RobotLowBattery, BatteryLevel: 15, CurrentZone: "C", CurrentRow: 8, CurrentShelf: 1},
	{ID: "RB-004", Status: models.RobotActive, BatteryLevel: 92, CurrentZone: "D", CurrentRow: 15, CurrentShelf: 4},
	{ID: "RB-005", Status: models.RobotOffline, BatteryLevel: 0, CurrentZone: "A", CurrentRow: 20, CurrentShelf: 5},
}

type Seeder struct {
	auth     *auth.Service
	users    repository.UserRepository
	robots   repository.RobotRepository
	products repository.ProductRepository
}

func New(authSvc *auth.Service, users repository.UserRepository, robots repository.RobotRepository, products repository.ProductRepository) *Seeder {
	return &Seeder{auth: authSvc, users: users, robots: robots, products: products}
}

// Run creates the admin account on an empty user table and, when enabled,
// the demo catalogue and fleet on an empty robot table.
func (s *Seeder) Run(ctx context.Context, authCfg config.AuthConfig, seedCfg config.SeedConfig) error {
	users, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if users == 0 {
		admin, err := s.auth.CreateUser(ctx, authCfg.AdminEmail, authCfg.AdminPassword, authCfg.AdminName, models.RoleAdmin)
		if err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		nuts.L.Infof("[Seed] created admin user %s", admin.Email)
	}

	if !seedCfg.DemoData {
		return nil
	}
	robots, err := s.robots.Count(ctx)
	if err != nil {
		return err
	}
	if robots > 0 {
		return nil
	}

	for i := range DemoProducts {
		p := DemoProducts[i]
		if err := s.products.Upsert(ctx, &p); err != nil {
			return err
		}
	}
	for i := range DemoRobots {
		r := DemoRobots[i]
		if err := s.robots.Upsert(ctx, &r); err != nil {
			return err
		}
	}
	nuts.L.Infof("[Seed] inserted %d demo products and %d demo robots", len(DemoProducts), len(DemoRobots))
	return nil
}
