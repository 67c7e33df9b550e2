package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFiles embed.FS

// RunMigrations applies every pending migration for the database's dialect
func RunMigrations(ctx context.Context, db *DB) error {
	provider, err := newMigrationProvider(db)
	if err != nil {
		return err
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	for _, result := range results {
		slog.Info("applied migration",
			slog.String("file", result.Source.Path),
			slog.Duration("duration", result.Duration),
		)
	}

	return nil
}

// MigrationVersion returns the version of the newest applied migration
func MigrationVersion(ctx context.Context, db *DB) (int64, error) {
	provider, err := newMigrationProvider(db)
	if err != nil {
		return 0, err
	}
	return provider.GetDBVersion(ctx)
}

func newMigrationProvider(db *DB) (*goose.Provider, error) {
	dir, err := fs.Sub(migrationFiles, db.Dialect.migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to locate migrations: %w", err)
	}

	provider, err := goose.NewProvider(db.Dialect.Goose, db.DB, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}
	return provider, nil
}
