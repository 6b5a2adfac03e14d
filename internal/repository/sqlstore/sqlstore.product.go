// FilePath: internal/repository/sqlstore/sqlstore.product.go
package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/errors"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
)

type ProductRepo struct {
	BaseRepo
}

func (r *ProductRepo) Get(ctx context.Context, id string) (*models.Product, error) {
	product := &models.Product{}
	err := r.conn().GetContext(ctx, product, r.rebind(`SELECT * FROM products WHERE id = ?`), id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, notFound("product", err)
		}
		return nil, errors.NewDatabaseError("failed to get product", err)
	}
	return product, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]*models.Product, error) {
	products := []*models.Product{}
	if err := r.conn().SelectContext(ctx, &products, `SELECT * FROM products ORDER BY id`); err != nil {
		return nil, errors.NewDatabaseError("failed to list products", err)
	}
	return products, nil
}

func (r *ProductRepo) Upsert(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, category, min_stock, optimal_stock)
		VALUES (:id, :name, :category, :min_stock, :optimal_stock)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			min_stock = excluded.min_stock,
			optimal_stock = excluded.optimal_stock`

	if _, err := r.conn().NamedExecContext(ctx, query, product); err != nil {
		return errors.NewDatabaseError("failed to upsert product", err)
	}
	return nil
}
