// FilePath: internal/repository/sqlstore/sqlstore.robot.go
package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/errors"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
)

type RobotRepo struct {
	BaseRepo
}

func (r *RobotRepo) Get(ctx context.Context, id string) (*models.Robot, error) {
	robot := &models.Robot{}
	err := r.conn().GetContext(ctx, robot, r.rebind(`SELECT * FROM robots WHERE id = ?`), id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, notFound("robot", err)
		}
		return nil, errors.NewDatabaseError("failed to get robot", err)
	}
	return robot, nil
}

func (r *RobotRepo) List(ctx context.Context) ([]*models.Robot, error) {
	robots := []*models.Robot{}
	err := r.conn().SelectContext(ctx, &robots, `SELECT * FROM robots ORDER BY id`)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to list robots", err)
	}
	return robots, nil
}

func (r *RobotRepo) Upsert(ctx context.Context, robot *models.Robot) error {
	query := `
		INSERT INTO robots (
			id, status, battery_level, current_zone, current_row, current_shelf, last_update
		) VALUES (
			:id, :status, :battery_level, :current_zone, :current_row, :current_shelf, :last_update
		)
		ON CONFLICT (id) DO UPDATE SET
			status = excluded.status,
			battery_level = excluded.battery_level,
			current_zone = excluded.current_zone,
			current_row = excluded.current_row,
			current_shelf = excluded.current_shelf,
			last_update = excluded.last_update`

	if _, err := r.conn().NamedExecContext(ctx, query, robot); err != nil {
		return errors.NewDatabaseError("failed to upsert robot", err)
	}
	return nil
}

func (r *RobotRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.conn().GetContext(ctx, &n, `SELECT COUNT(*) FROM robots`); err != nil {
		return 0, errors.NewDatabaseError("failed to count robots", err)
	}
	return n, nil
}
