package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

// Dialect describes how to talk to one of the supported stores
type Dialect struct {
	Driver        string
	Goose         goose.Dialect
	Placeholder   sq.PlaceholderFormat
	migrationsDir string
}

var (
	// SQLite is the default embedded store
	SQLite = Dialect{
		Driver:        "sqlite3",
		Goose:         goose.DialectSQLite3,
		Placeholder:   sq.Question,
		migrationsDir: "migrations/sqlite",
	}

	// Postgres is reached through the pgx database/sql driver
	Postgres = Dialect{
		Driver:        "pgx",
		Goose:         goose.DialectPostgres,
		Placeholder:   sq.Dollar,
		migrationsDir: "migrations/postgres",
	}
)

// DialectFor returns the dialect registered for a driver name
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case SQLite.Driver:
		return SQLite, nil
	case Postgres.Driver:
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// DB is a connection pool together with the dialect it speaks
type DB struct {
	*sql.DB
	Dialect Dialect
}

// New wraps an already opened pool
func New(db *sql.DB, dialect Dialect) *DB {
	return &DB{DB: db, Dialect: dialect}
}

// Builder returns a squirrel statement builder using the dialect's placeholders
func (db *DB) Builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(db.Dialect.Placeholder)
}

// Open opens the connection pool and checks it is reachable
func Open(ctx context.Context, driver, dataSourceName string) (*DB, error) {
	dialect, err := DialectFor(driver)
	if err != nil {
		return nil, err
	}

	pool, err := sql.Open(dialect.Driver, dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect.Driver == SQLite.Driver {
		// One writer at a time; every statement of a request goes through its session
		pool.SetMaxOpenConns(1)
		if _, err := pool.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(pool, dialect), nil
}

// Initialize opens the database and applies pending migrations
func Initialize(ctx context.Context, driver, dataSourceName string) (*DB, error) {
	db, err := Open(ctx, driver, dataSourceName)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("database initialized", slog.String("driver", driver))
	return db, nil
}
