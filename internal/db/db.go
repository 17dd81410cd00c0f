package db

import (
	"context"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"go301/migrations"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// SeedDevRedirects inserts a few redirect rules for development. Rules that
// already exist are skipped.
func (d *DB) SeedDevRedirects(ctx context.Context) error {
	rules := []struct {
		isRegex bool
		oldURL  string
		newURL  string
		notes   string
	}{
		{false, "/old-about", "/about", "legacy about page"},
		{false, "/pricing-2024", "/pricing", "retired pricing page"},
		{false, "/twitter", "https://twitter.com/example", "social"},
		{true, "^/blog/(.*)$", "/articles/$1", "blog rename"},
	}

	query := `
		INSERT INTO redirects (is_regex, old_url, new_url, notes, last_updated)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (old_url) DO NOTHING
	`

	for _, r := range rules {
		if _, err := d.Pool.Exec(ctx, query, r.isRegex, r.oldURL, r.newURL, r.notes); err != nil {
			return fmt.Errorf("failed to seed redirect %s: %w", r.oldURL, err)
		}
	}

	return nil
}
