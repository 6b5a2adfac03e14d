// FilePath: internal/database/database.go
package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/itsatony/w4b_warehouse/server/hub/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	nuts "github.com/vaudience/go-nuts"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know about
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// DB is an interface that both PostgreSQL and SQLite connections implement
type DB interface {
	Close() error
	Ping(ctx context.Context) error
	GetDB() *sqlx.DB
}

type sqlDB struct {
	db *sqlx.DB
}

func (d *sqlDB) Close() error {
	return d.db.Close()
}

func (d *sqlDB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *sqlDB) GetDB() *sqlx.DB {
	return d.db
}

// Wrap adapts an existing sqlx handle
func Wrap(db *sqlx.DB) DB {
	return &sqlDB{db: db}
}

// Open connects to the configured driver and makes sure the schema exists
func Open(ctx context.Context, cfg config.DatabaseConfig) (DB, error) {
	var (
		db  DB
		err error
	)
	switch cfg.Driver {
	case DriverPostgres:
		db, err = NewPostgresDB(cfg.Postgres)
	case DriverSQLite:
		db, err = NewSQLiteDB(cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.Ping(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg config.PostgresConfig) (DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sqlx.Connect(DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to PostgreSQL: %w", err)
	}

	nuts.L.Infof("[PostgresDB] Connected to %s:%d/%s", cfg.Host, cfg.Port, cfg.DBName)
	return &sqlDB{db: db}, nil
}

// NewSQLiteDB opens a SQLite database file, or a private in-memory database for ":memory:"
func NewSQLiteDB(path string) (DB, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	}

	db, err := sqlx.Open(DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening SQLite: %w", err)
	}

	// a single connection serialises writers and keeps :memory: databases alive
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	nuts.L.Infof("[SQLiteDB] Opened %s", path)
	return &sqlDB{db: db}, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS robots (
		id TEXT PRIMARY KEY,
		status TEXT NOT NULL,
		battery_level INTEGER NOT NULL DEFAULT 0,
		current_zone TEXT NOT NULL DEFAULT '',
		current_row INTEGER NOT NULL DEFAULT 0,
		current_shelf INTEGER NOT NULL DEFAULT 0,
		last_update TIMESTAMP NULL
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		min_stock INTEGER NOT NULL DEFAULT 10,
		optimal_stock INTEGER NOT NULL DEFAULT 100
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_history (
		id TEXT PRIMARY KEY,
		robot_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		zone TEXT NOT NULL,
		row_number INTEGER NOT NULL DEFAULT 0,
		shelf_number INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL,
		scanned_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_history_scanned_at ON inventory_history (scanned_at)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_history_zone ON inventory_history (zone)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_history_robot ON inventory_history (robot_id)`,
}

// InitSchema creates the tables if they do not exist yet
func InitSchema(ctx context.Context, db DB) error {
	for _, stmt := range schema {
		if _, err := db.GetDB().ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error initializing schema: %w", err)
		}
	}
	return nil
}
