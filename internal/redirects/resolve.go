package redirects

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go301/internal/models"
)

// Resolve matches a request path against the rule set and returns the rule
// that owns it, or false when nothing matches. Exact rules are checked
// first via a memoized per-path lookup; regex rules are then tried in
// stored order. Resolve never returns an error: store failures and broken
// patterns are logged and treated as no-match so request handling is never
// aborted by a single bad rule.
func (repo *Repository) Resolve(ctx context.Context, path string) (*models.Redirect, bool) {
	path = strings.ToLower(path)
	if path == "" {
		return nil, false
	}

	if r, ok := repo.resolveExact(ctx, path); ok {
		return r, true
	}
	return repo.resolveRegex(ctx, path)
}

// ResolveTarget is the adapter surface for the request pipeline: it reports
// whether the path redirects and, if so, where to.
func (repo *Repository) ResolveTarget(ctx context.Context, path string) (string, bool) {
	r, ok := repo.Resolve(ctx, path)
	if !ok {
		return "", false
	}
	return r.NewURL, true
}

func (repo *Repository) resolveExact(ctx context.Context, path string) (*models.Redirect, bool) {
	v, err := repo.cache.GetOrCompute(cacheCategory, path, func() (any, error) {
		r, err := repo.store.QueryByOldURL(ctx, path)
		if err != nil {
			return nil, err
		}
		if r == nil || !r.IsExact() {
			// Absent results are never cached.
			return nil, nil
		}
		return r, nil
	})
	if err != nil {
		repo.logger.Error("exact redirect lookup failed", "path", path, "error", err)
		return nil, false
	}
	if v == nil {
		return nil, false
	}

	match := *(v.(*models.Redirect))
	return &match, true
}

func (repo *Repository) resolveRegex(ctx context.Context, path string) (*models.Redirect, bool) {
	rules, err := repo.regexRules(ctx)
	if err != nil {
		repo.logger.Error("regex rule fetch failed", "path", path, "error", err)
		return nil, false
	}

	for _, rule := range rules {
		re, err := regexp.Compile(rule.OldURL)
		if err != nil {
			// A broken pattern is a data error local to that rule.
			repo.logger.Warn("skipping redirect with invalid pattern",
				"id", rule.ID, "pattern", rule.OldURL,
				"error", fmt.Errorf("%w: %v", ErrPattern, err))
			continue
		}

		m := re.FindStringSubmatchIndex(path)
		if m == nil {
			continue
		}

		match := rule
		match.NewURL = string(re.ExpandString(nil, rule.NewURL, path, m))
		return &match, true
	}
	return nil, false
}

// regexRules returns the regex rule subset, preferring the cached list.
func (repo *Repository) regexRules(ctx context.Context) ([]models.Redirect, error) {
	v, err := repo.cache.GetOrCompute(cacheCategory, cacheKeyRegex, func() (any, error) {
		rules, err := repo.store.QueryRegexRules(ctx)
		if err != nil {
			return nil, err
		}
		if rules == nil {
			// Cache the empty list too, not just non-empty ones.
			rules = []models.Redirect{}
		}
		return rules, nil
	})
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return v.([]models.Redirect), nil
}
