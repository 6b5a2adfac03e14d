package seed

import (
	"context"
	"testing"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/auth"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/config"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/database"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/repository/sqlstore"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/status"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.InitSchema(ctx, db))
	store := sqlstore.New(db)

	authCfg := config.AuthConfig{JWTSecret: "s", AdminEmail: "admin@warehouse.local", AdminPassword: "admin123", AdminName: "Admin"}
	authSvc := auth.New(store.Users, authCfg)
	seeder := New(authSvc, store.Users, store.Robots, store.Products)

	require.NoError(t, seeder.Run(ctx, authCfg, config.SeedConfig{DemoData: true}))
	require.NoError(t, seeder.Run(ctx, authCfg, config.SeedConfig{DemoData: true}))

	n, err := store.Users.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	resp, err := authSvc.Login(ctx, "admin@warehouse.local", "admin123")
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, resp.User.Role)

	robots, err := store.Robots.List(ctx)
	require.NoError(t, err)
	require.Len(t, robots, 5)
	for _, r := range robots {
		require.Equal(t, status.ClassifyRobot(r.BatteryLevel), r.Status, r.ID)
	}

	products, err := store.Products.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 5)
}

func TestSeedWithoutDemoData(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.InitSchema(ctx, db))
	store := sqlstore.New(db)

	authCfg := config.AuthConfig{JWTSecret: "s", AdminEmail: "admin@warehouse.local", AdminPassword: "admin123"}
	seeder := New(auth.New(store.Users, authCfg), store.Users, store.Robots, store.Products)
	require.NoError(t, seeder.Run(ctx, authCfg, config.SeedConfig{}))

	n, err := store.Robots.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}
