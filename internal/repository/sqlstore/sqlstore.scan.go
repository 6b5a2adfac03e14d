// FilePath: internal/repository/sqlstore/sqlstore.scan.go
package sqlstore

import (
	"context"
	"strings"
	"time"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/errors"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
)

type ScanRepo struct {
	BaseRepo
}

const scanWithProductColumns = `
	h.id, h.robot_id, h.product_id, h.quantity, h.zone, h.row_number,
	h.shelf_number, h.status, h.scanned_at, h.created_at,
	p.name AS product_name, p.optimal_stock AS optimal_stock`

func (r *ScanRepo) Recent(ctx context.Context, limit int) ([]*models.ScanWithProduct, error) {
	scans := []*models.ScanWithProduct{}
	query := `SELECT ` + scanWithProductColumns + `
		FROM inventory_history h
		LEFT JOIN products p ON p.id = h.product_id
		ORDER BY h.scanned_at DESC, h.created_at DESC
		LIMIT ?`

	if err := r.conn().SelectContext(ctx, &scans, r.rebind(query), limit); err != nil {
		return nil, errors.NewDatabaseError("failed to list recent scans", err)
	}
	return scans, nil
}

func (r *ScanRepo) Query(ctx context.Context, q models.ScanQuery) (int64, []*models.ScanWithProduct, error) {
	where := []string{"1 = 1"}
	args := []interface{}{}

	if q.From != nil {
		where = append(where, "h.scanned_at >= ?")
		args = append(args, q.From.UTC())
	}
	if q.To != nil {
		where = append(where, "h.scanned_at <= ?")
		args = append(args, q.To.UTC())
	}
	if q.Zone != "" {
		where = append(where, "h.zone = ?")
		args = append(args, q.Zone)
	}
	if q.Status != "" {
		where = append(where, "h.status = ?")
		args = append(args, string(q.Status))
	}
	clause := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM inventory_history h WHERE ` + clause
	if err := r.conn().GetContext(ctx, &total, r.rebind(countQuery), args...); err != nil {
		return 0, nil, errors.NewDatabaseError("failed to count scans", err)
	}

	scans := []*models.ScanWithProduct{}
	query := `SELECT ` + scanWithProductColumns + `
		FROM inventory_history h
		LEFT JOIN products p ON p.id = h.product_id
		WHERE ` + clause + `
		ORDER BY h.scanned_at DESC, h.created_at DESC
		LIMIT ? OFFSET ?`

	pageArgs := append(append([]interface{}{}, args...), q.Limit, q.Offset)
	if err := r.conn().SelectContext(ctx, &scans, r.rebind(query), pageArgs...); err != nil {
		return 0, nil, errors.NewDatabaseError("failed to query scans", err)
	}
	return total, scans, nil
}

func (r *ScanRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	query := r.rebind(`SELECT COUNT(*) FROM inventory_history WHERE scanned_at >= ?`)
	if err := r.conn().GetContext(ctx, &n, query, since.UTC()); err != nil {
		return 0, errors.NewDatabaseError("failed to count scans", err)
	}
	return n, nil
}

func (r *ScanRepo) CountByStatus(ctx context.Context, status models.ScanStatus) (int64, error) {
	var n int64
	query := r.rebind(`SELECT COUNT(*) FROM inventory_history WHERE status = ?`)
	if err := r.conn().GetContext(ctx, &n, query, string(status)); err != nil {
		return 0, errors.NewDatabaseError("failed to count scans", err)
	}
	return n, nil
}

// DeleteOlderThan prunes history for retention. Reconciliation never calls it.
func (r *ScanRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	query := r.rebind(`DELETE FROM inventory_history WHERE scanned_at < ?`)
	result, err := r.conn().ExecContext(ctx, query, before.UTC())
	if err != nil {
		return 0, errors.NewDatabaseError("failed to delete old scans", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewDatabaseError("failed to get rows affected", err)
	}
	return rows, nil
}
