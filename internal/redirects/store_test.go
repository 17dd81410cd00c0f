package redirects

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"go301/internal/models"
)

// memStore is an in-memory Store used by the repository tests. It keeps
// insertion order and counts queries so tests can assert cache behavior.
type memStore struct {
	mu    sync.Mutex
	rules []models.Redirect

	queryAllCalls      int
	queryByOldURLCalls int
	regexRulesCalls    int

	// afterQueryByOldURL, when set, runs after the result snapshot is taken
	// but before it is returned. Lets tests interleave a mutation with an
	// in-flight lookup.
	afterQueryByOldURL func()
}

func newMemStore() *memStore {
	return &memStore{}
}

func (s *memStore) Insert(_ context.Context, r *models.Redirect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = uuid.New()
	s.rules = append(s.rules, *r)
	return nil
}

func (s *memStore) Update(_ context.Context, r *models.Redirect) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rules {
		if s.rules[i].ID == r.ID {
			s.rules[i] = *r
			return nil
		}
	}
	return ErrNotFound
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rules {
		if s.rules[i].ID == id {
			s.rules = append(s.rules[:i], s.rules[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *memStore) QueryAll(_ context.Context) ([]models.Redirect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryAllCalls++
	out := make([]models.Redirect, len(s.rules))
	copy(out, s.rules)
	return out, nil
}

func (s *memStore) QueryByID(_ context.Context, id uuid.UUID) (*models.Redirect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rules {
		if s.rules[i].ID == id {
			r := s.rules[i]
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (s *memStore) QueryByOldURL(_ context.Context, oldURL string) (*models.Redirect, error) {
	s.mu.Lock()
	s.queryByOldURLCalls++
	var found *models.Redirect
	for i := range s.rules {
		if s.rules[i].OldURL == oldURL {
			r := s.rules[i]
			found = &r
			break
		}
	}
	s.mu.Unlock()

	if s.afterQueryByOldURL != nil {
		s.afterQueryByOldURL()
	}
	return found, nil
}

func (s *memStore) QueryRegexRules(_ context.Context) ([]models.Redirect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regexRulesCalls++
	var out []models.Redirect
	for _, r := range s.rules {
		if r.IsRegex {
			out = append(out, r)
		}
	}
	return out, nil
}
