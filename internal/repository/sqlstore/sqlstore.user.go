// FilePath: internal/repository/sqlstore/sqlstore.user.go
package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/errors"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
	"github.com/itsatony/w4b_warehouse/server/hub/internal/repository"
)

type UserRepo struct {
	BaseRepo
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, role, created_at)
		VALUES (:id, :email, :password_hash, :name, :role, :created_at)`

	if _, err := r.conn().NamedExecContext(ctx, query, user); err != nil {
		if isUniqueViolation(err) {
			return errors.NewConflictError("user already exists", fmt.Errorf("%w: %v", repository.ErrDuplicate, err))
		}
		return errors.NewDatabaseError("failed to create user", err)
	}
	return nil
}

func (r *UserRepo) Get(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepo) getBy(ctx context.Context, column, value string) (*models.User, error) {
	user := &models.User{}
	query := r.rebind(`SELECT * FROM users WHERE ` + column + ` = ?`)
	if err := r.conn().GetContext(ctx, user, query, value); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, notFound("user", err)
		}
		return nil, errors.NewDatabaseError("failed to get user", err)
	}
	return user, nil
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.conn().GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, errors.NewDatabaseError("failed to count users", err)
	}
	return n, nil
}
