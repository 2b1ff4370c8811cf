package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrations returns the embedded SQL migrations rooted at their directory.
func Migrations() fs.FS {
	fsys, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		// The directory is embedded at build time.
		panic(err)
	}
	return fsys
}

// Migrate applies all pending migrations to the database behind pool.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer func() {
		if err := db.Close(); err != nil {
			logger.WarnContext(ctx, "closing migration handle", slog.Any("error", err))
		}
	}()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, Migrations())
	if err != nil {
		return fmt.Errorf("creating migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}

	for _, r := range results {
		logger.InfoContext(ctx, "applied migration",
			slog.Int64("version", r.Source.Version),
			slog.String("path", r.Source.Path),
			slog.Duration("duration", r.Duration),
		)
	}
	if len(results) == 0 {
		logger.DebugContext(ctx, "database schema up to date")
	}

	return nil
}
