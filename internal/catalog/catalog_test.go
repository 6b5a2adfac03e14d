package catalog

import (
	"context"
	"testing"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/database"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/errors"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/repository/sqlstore"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) *Service {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.InitSchema(context.Background(), db))
	t.Cleanup(func() { db.Close() })

	store := sqlstore.New(db)
	require.NoError(t, store.Products.Upsert(context.Background(), &models.Product{
		ID: "TEL-4567", Name: "Router RT-AC68U", Category: "Network", MinStock: 10, OptimalStock: 50,
	}))
	return New(store.Products)
}

func TestListShowsStockLevelsToAdmins(t *testing.T) {
	svc := newTestCatalog(t)

	products, err := svc.List(context.Background(), models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, 10, products[0].MinStock)
	require.Equal(t, 50, products[0].OptimalStock)
}

func TestListHidesStockLevelsFromViewers(t *testing.T) {
	svc := newTestCatalog(t)

	products, err := svc.List(context.Background(), models.RoleViewer)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Zero(t, products[0].MinStock)
	require.Zero(t, products[0].OptimalStock)
}

func TestGetMissingProduct(t *testing.T) {
	svc := newTestCatalog(t)

	_, err := svc.Get(context.Background(), "NOPE", models.RoleAdmin)
	require.True(t, errors.IsNotFound(err))
}
