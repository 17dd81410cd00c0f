package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"go301/internal/models"
	"go301/internal/redirects"
)

// redirectColumns is the standard column list for redirect queries.
const redirectColumns = `id, is_regex, old_url, new_url, notes, last_updated`

// scanRedirect scans a row into a Redirect struct.
func scanRedirect(row pgx.Row) (*models.Redirect, error) {
	var r models.Redirect
	err := row.Scan(
		&r.ID,
		&r.IsRegex,
		&r.OldURL,
		&r.NewURL,
		&r.Notes,
		&r.LastUpdated,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// scanRedirects scans multiple rows into a slice of Redirects.
func scanRedirects(rows pgx.Rows) ([]models.Redirect, error) {
	defer rows.Close()

	rules := []models.Redirect{}
	for rows.Next() {
		var r models.Redirect
		if err := rows.Scan(
			&r.ID,
			&r.IsRegex,
			&r.OldURL,
			&r.NewURL,
			&r.Notes,
			&r.LastUpdated,
		); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}

	return rules, rows.Err()
}

// Insert persists a new redirect and fills in its store-assigned id.
// The unique index on old_url backstops the repository's duplicate check
// against concurrent writers.
func (d *DB) Insert(ctx context.Context, r *models.Redirect) error {
	query := `
		INSERT INTO redirects (is_regex, old_url, new_url, notes, last_updated)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := d.Pool.QueryRow(ctx, query,
		r.IsRegex,
		r.OldURL,
		r.NewURL,
		r.Notes,
		r.LastUpdated,
	).Scan(&r.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("a redirect for %s already exists: %w", r.OldURL, redirects.ErrDuplicate)
		}
		return err
	}
	return nil
}

// Update rewrites an existing redirect row.
func (d *DB) Update(ctx context.Context, r *models.Redirect) error {
	query := `
		UPDATE redirects
		SET is_regex = $1, old_url = $2, new_url = $3, notes = $4, last_updated = $5
		WHERE id = $6
	`
	tag, err := d.Pool.Exec(ctx, query,
		r.IsRegex,
		r.OldURL,
		r.NewURL,
		r.Notes,
		r.LastUpdated,
		r.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("a redirect for %s already exists: %w", r.OldURL, redirects.ErrDuplicate)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return redirects.ErrNotFound
	}
	return nil
}

// Delete removes a redirect by id.
func (d *DB) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM redirects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return redirects.ErrNotFound
	}
	return nil
}

// QueryAll returns every redirect rule in insertion order.
func (d *DB) QueryAll(ctx context.Context) ([]models.Redirect, error) {
	query := `SELECT ` + redirectColumns + ` FROM redirects ORDER BY created_seq ASC`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanRedirects(rows)
}

// QueryByID retrieves a redirect by its id.
func (d *DB) QueryByID(ctx context.Context, id uuid.UUID) (*models.Redirect, error) {
	query := `SELECT ` + redirectColumns + ` FROM redirects WHERE id = $1`
	r, err := scanRedirect(d.Pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, redirects.ErrNotFound
	}
	return r, err
}

// QueryByOldURL retrieves the redirect that owns the given source path.
// Returns nil with no error when no rule matches.
func (d *DB) QueryByOldURL(ctx context.Context, oldURL string) (*models.Redirect, error) {
	query := `SELECT ` + redirectColumns + ` FROM redirects WHERE old_url = $1`
	r, err := scanRedirect(d.Pool.QueryRow(ctx, query, oldURL))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

// QueryRegexRules returns the regex rule subset in insertion order.
func (d *DB) QueryRegexRules(ctx context.Context) ([]models.Redirect, error) {
	query := `SELECT ` + redirectColumns + ` FROM redirects WHERE is_regex ORDER BY created_seq ASC`
	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanRedirects(rows)
}
