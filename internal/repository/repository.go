// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/models"
)

var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("resource not found")
	// ErrDuplicate indicates that a resource already exists
	ErrDuplicate = errors.New("resource already exists")
)

// RobotRepository reads and seeds robot state. Telemetry driven mutation
// goes through Tx.
type RobotRepository interface {
	Get(ctx context.Context, id string) (*models.Robot, error)
	List(ctx context.Context) ([]*models.Robot, error)
	Upsert(ctx context.Context, robot *models.Robot) error
	Count(ctx context.Context) (int, error)
}

// ScanRepository queries the append-only scan history
type ScanRepository interface {
	Recent(ctx context.Context, limit int) ([]*models.ScanWithProduct, error)
	Query(ctx context.Context, q models.ScanQuery) (int64, []*models.ScanWithProduct, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountByStatus(ctx context.Context, status models.ScanStatus) (int64, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// ProductRepository manages the product catalogue
type ProductRepository interface {
	Get(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context) ([]*models.Product, error)
	Upsert(ctx context.Context, product *models.Product) error
}

// UserRepository manages dashboard users
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Count(ctx context.Context) (int, error)
}

// Tx is the set of writes that must commit together
type Tx interface {
	GetRobot(ctx context.Context, id string) (*models.Robot, error)
	UpdateRobot(ctx context.Context, robot *models.Robot) error
	InsertScan(ctx context.Context, scan *models.ScanRecord) error
	// EnsureProduct inserts the product unless one with the same id exists
	EnsureProduct(ctx context.Context, product *models.Product) (bool, error)
}

// UnitOfWork runs fn in a single transaction. The transaction commits when
// fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}
