// FilePath: internal/repository/sqlstore/sqlstore.tx.go
package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/errors"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/jmoiron/sqlx"
)

type txRepo struct {
	tx *sqlx.Tx
}

func (t *txRepo) GetRobot(ctx context.Context, id string) (*models.Robot, error) {
	robot := &models.Robot{}
	err := t.tx.GetContext(ctx, robot, t.tx.Rebind(`SELECT * FROM robots WHERE id = ?`), id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, notFound("robot", err)
		}
		return nil, errors.NewDatabaseError("failed to get robot", err)
	}
	return robot, nil
}

func (t *txRepo) UpdateRobot(ctx context.Context, robot *models.Robot) error {
	query := `
		UPDATE robots SET
			status = :status,
			battery_level = :battery_level,
			current_zone = :current_zone,
			current_row = :current_row,
			current_shelf = :current_shelf,
			last_update = :last_update
		WHERE id = :id`

	result, err := t.tx.NamedExecContext(ctx, query, robot)
	if err != nil {
		return errors.NewDatabaseError("failed to update robot", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return notFound("robot", sql.ErrNoRows)
	}
	return nil
}

func (t *txRepo) InsertScan(ctx context.Context, scan *models.ScanRecord) error {
	_, err := t.tx.NamedExecContext(ctx, insertScanQuery, scan)
	if err != nil {
		return errors.NewDatabaseError("failed to insert scan record", err)
	}
	return nil
}

func (t *txRepo) EnsureProduct(ctx context.Context, product *models.Product) (bool, error) {
	query := `
		INSERT INTO products (id, name, category, min_stock, optimal_stock)
		VALUES (:id, :name, :category, :min_stock, :optimal_stock)
		ON CONFLICT (id) DO NOTHING`

	result, err := t.tx.NamedExecContext(ctx, query, product)
	if err != nil {
		return false, errors.NewDatabaseError("failed to ensure product", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewDatabaseError("failed to get rows affected", err)
	}
	return rows > 0, nil
}

const insertScanQuery = `
	INSERT INTO inventory_history (
		id, robot_id, product_id, quantity, zone,
		row_number, shelf_number, status, scanned_at, created_at
	) VALUES (
		:id, :robot_id, :product_id, :quantity, :zone,
		:row_number, :shelf_number, :status, :scanned_at, :created_at
	)`
