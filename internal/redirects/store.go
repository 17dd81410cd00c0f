package redirects

import (
	"context"

	"github.com/google/uuid"

	"go301/internal/models"
)

// Store is the durable backing store for redirect rules. Each call is
// assumed transactional on its own; the repository provides the
// check-then-act atomicity across calls.
//
// Implementations return ErrNotFound (or an error wrapping it) when a
// lookup or mutation target does not exist, and nil with no error when a
// QueryBy* lookup simply has no match.
type Store interface {
	Insert(ctx context.Context, r *models.Redirect) error
	Update(ctx context.Context, r *models.Redirect) error
	Delete(ctx context.Context, id uuid.UUID) error
	QueryAll(ctx context.Context) ([]models.Redirect, error)
	QueryByID(ctx context.Context, id uuid.UUID) (*models.Redirect, error)
	QueryByOldURL(ctx context.Context, oldURL string) (*models.Redirect, error)
	QueryRegexRules(ctx context.Context) ([]models.Redirect, error)
}
