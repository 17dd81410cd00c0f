// Package redirects implements the redirect rule repository: an in-memory
// cached view over a durable store, with uniqueness and loop-prevention
// invariants enforced on every mutation.
package redirects

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"go301/internal/cache"
	"go301/internal/models"
)

// Cache keys used by the repository. Everything lives in one category so a
// single invalidation covers the rule list, the regex list and every
// memoized path lookup.
const (
	cacheCategory = "redirects"
	cacheKeyAll   = "all"
	cacheKeyRegex = "regex-rules"
)

// Repository orchestrates the durable store, the lookup cache and the loop
// detector. Reads are safe to run concurrently; writes are serialized so
// the duplicate and loop checks stay consistent with what gets persisted.
type Repository struct {
	store  Store
	cache  *cache.Manager
	logger *slog.Logger

	// mu guards the validate-persist-invalidate sequence on mutations.
	mu sync.Mutex
}

// New creates a Repository on top of the given store and cache.
func New(store Store, c *cache.Manager, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{store: store, cache: c, logger: logger}
}

// Warm loads the full rule set into the cache. Called once at process
// start; later refreshes happen lazily through cache misses.
func (repo *Repository) Warm(ctx context.Context) error {
	rules, err := repo.store.QueryAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to warm redirect cache: %w", err)
	}
	repo.cache.Put(cacheCategory, cacheKeyAll, rules)
	return nil
}

// GetAll returns every redirect rule, preferring the cached list.
func (repo *Repository) GetAll(ctx context.Context) ([]models.Redirect, error) {
	v, err := repo.cache.GetOrCompute(cacheCategory, cacheKeyAll, func() (any, error) {
		rules, err := repo.store.QueryAll(ctx)
		if err != nil {
			return nil, err
		}
		if rules == nil {
			rules = []models.Redirect{}
		}
		return rules, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch redirects: %w", err)
	}
	if v == nil {
		return nil, nil
	}
	return v.([]models.Redirect), nil
}

// Add creates a new redirect rule. The source and target are normalized
// first; the write fails with ErrValidation, ErrDuplicate or ErrLoop when
// an invariant would be violated.
func (repo *Repository) Add(ctx context.Context, isRegex bool, oldURL, newURL, notes string) (*models.Redirect, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	oldURL, newURL, err := repo.prepare(isRegex, oldURL, newURL)
	if err != nil {
		return nil, err
	}

	if err := repo.checkDuplicate(ctx, oldURL, uuid.Nil); err != nil {
		return nil, err
	}
	if !isRegex {
		if err := repo.checkLoop(ctx, oldURL, newURL, uuid.Nil); err != nil {
			return nil, err
		}
	}

	redirect := &models.Redirect{
		IsRegex:     isRegex,
		OldURL:      oldURL,
		NewURL:      newURL,
		Notes:       notes,
		LastUpdated: time.Now().UTC(),
	}
	if err := repo.store.Insert(ctx, redirect); err != nil {
		return nil, fmt.Errorf("failed to persist redirect: %w", err)
	}

	repo.cache.InvalidateCategory(cacheCategory)
	return redirect, nil
}

// Update rewrites an existing rule. The duplicate check excludes the rule
// itself so saving a rule with its own unchanged source succeeds. If the
// source changed, invalidating the category retires the old lookup key.
func (repo *Repository) Update(ctx context.Context, redirect *models.Redirect) (*models.Redirect, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, err := repo.store.QueryByID(ctx, redirect.ID); err != nil {
		return nil, err
	}

	oldURL, newURL, err := repo.prepare(redirect.IsRegex, redirect.OldURL, redirect.NewURL)
	if err != nil {
		return nil, err
	}

	if err := repo.checkDuplicate(ctx, oldURL, redirect.ID); err != nil {
		return nil, err
	}
	if !redirect.IsRegex {
		if err := repo.checkLoop(ctx, oldURL, newURL, redirect.ID); err != nil {
			return nil, err
		}
	}

	updated := *redirect
	updated.OldURL = oldURL
	updated.NewURL = newURL
	updated.LastUpdated = time.Now().UTC()
	if err := repo.store.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to persist redirect: %w", err)
	}

	repo.cache.InvalidateCategory(cacheCategory)
	return &updated, nil
}

// Delete removes a rule by id. Returns ErrNotFound when no such rule
// exists.
func (repo *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, err := repo.store.QueryByID(ctx, id); err != nil {
		return err
	}
	if err := repo.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete redirect: %w", err)
	}

	repo.cache.InvalidateCategory(cacheCategory)
	return nil
}

// ClearCache drops every cached redirect entry. The next read repopulates
// from the store.
func (repo *Repository) ClearCache() {
	repo.cache.InvalidateCategory(cacheCategory)
}

// prepare trims and normalizes a candidate rule's URLs per the rule kind.
// Regex sources are stored verbatim but must still compile-check at match
// time, not here: a stored pattern that later fails to compile is skipped
// during resolution rather than rejected up front.
func (repo *Repository) prepare(isRegex bool, oldURL, newURL string) (string, string, error) {
	oldURL = strings.TrimSpace(oldURL)
	newURL = strings.TrimSpace(newURL)
	if oldURL == "" || newURL == "" {
		return "", "", ErrValidation
	}

	if !isRegex {
		oldURL = NormalizeOldURL(oldURL)
	}
	newURL = NormalizeNewURL(newURL)
	return oldURL, newURL, nil
}

// checkDuplicate fails with ErrDuplicate when another rule already owns the
// normalized source. excludeID skips the rule being updated.
func (repo *Repository) checkDuplicate(ctx context.Context, oldURL string, excludeID uuid.UUID) error {
	existing, err := repo.store.QueryByOldURL(ctx, oldURL)
	if err != nil {
		return fmt.Errorf("failed to check for duplicate: %w", err)
	}
	if existing != nil && existing.ID != excludeID {
		return fmt.Errorf("a redirect for %s already exists: %w", oldURL, ErrDuplicate)
	}
	return nil
}

// checkLoop fails with ErrLoop when the candidate edge would complete a
// cycle through the existing exact-match rules. excludeID removes the rule
// being updated from the edge set so its previous source does not count.
func (repo *Repository) checkLoop(ctx context.Context, oldURL, newURL string, excludeID uuid.UUID) error {
	rules, err := repo.store.QueryAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to check for redirect loop: %w", err)
	}

	kept := rules[:0:0]
	for _, r := range rules {
		if r.ID != excludeID {
			kept = append(kept, r)
		}
	}

	if detectLoop(buildEdgeMap(kept), oldURL, newURL) {
		return fmt.Errorf("adding a redirect from %s to %s: %w", oldURL, newURL, ErrLoop)
	}
	return nil
}
