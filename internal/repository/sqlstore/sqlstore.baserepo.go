// FilePath: internal/repository/sqlstore/sqlstore.baserepo.go
package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/database"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/errors"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	nuts "github.com/vaudience/go-nuts"
)

// BaseRepo holds the connection shared by all repositories. Queries are
// written with '?' placeholders and rebound for the active driver.
type BaseRepo struct {
	db database.DB
}

func (r *BaseRepo) conn() *sqlx.DB {
	return r.db.GetDB()
}

func (r *BaseRepo) rebind(query string) string {
	return r.db.GetDB().Rebind(query)
}

func (r *BaseRepo) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := r.db.GetDB().BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to begin transaction", err)
	}
	return tx, nil
}

func (r *BaseRepo) Commit(tx *sqlx.Tx) error {
	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseError("failed to commit transaction", err)
	}
	return nil
}

func (r *BaseRepo) Rollback(tx *sqlx.Tx) error {
	if err := tx.Rollback(); err != nil && !stderrors.Is(err, sql.ErrTxDone) {
		return errors.NewDatabaseError("failed to rollback transaction", err)
	}
	return nil
}

func (r *BaseRepo) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return errors.NewDatabaseError("failed to ping database", err)
	}
	return nil
}

func (r *BaseRepo) Close() error {
	if err := r.db.Close(); err != nil {
		return errors.NewDatabaseError("failed to close database", err)
	}
	return nil
}

// WithinTx implements repository.UnitOfWork
func (r *BaseRepo) WithinTx(ctx context.Context, fn func(tx repository.Tx) error) (err error) {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = r.Rollback(tx)
			panic(p)
		}
	}()

	if err := fn(&txRepo{tx: tx}); err != nil {
		if rbErr := r.Rollback(tx); rbErr != nil {
			nuts.L.Errorf("[SQLStore] rollback failed: %v", rbErr)
		}
		return err
	}
	return r.Commit(tx)
}

func notFound(what string, err error) error {
	return errors.NewNotFoundError(what+" not found", fmt.Errorf("%w: %v", repository.ErrNotFound, err))
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Store bundles the repositories over one connection
type Store struct {
	BaseRepo
	Robots   *RobotRepo
	Scans    *ScanRepo
	Products *ProductRepo
	Users    *UserRepo
}

func New(db database.DB) *Store {
	base := BaseRepo{db: db}
	return &Store{
		BaseRepo: base,
		Robots:   &RobotRepo{BaseRepo: base},
		Scans:    &ScanRepo{BaseRepo: base},
		Products: &ProductRepo{BaseRepo: base},
		Users:    &UserRepo{BaseRepo: base},
	}
}
