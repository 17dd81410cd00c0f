package redirects

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"go301/internal/cache"
	"go301/internal/models"
)

func newTestRepo(t *testing.T) (*Repository, *memStore) {
	t.Helper()
	store := newMemStore()
	return New(store, cache.New(time.Minute, true), nil), store
}

func TestAdd(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	r, err := repo.Add(ctx, false, "Old-Page", "new-page", "moved")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if r.ID == uuid.Nil {
		t.Error("Add() did not assign an id")
	}
	if r.OldURL != "/old-page" {
		t.Errorf("OldURL = %q, want /old-page", r.OldURL)
	}
	if r.NewURL != "/new-page" {
		t.Errorf("NewURL = %q, want /new-page", r.NewURL)
	}
	if r.Notes != "moved" {
		t.Errorf("Notes = %q, want moved", r.Notes)
	}
	if r.LastUpdated.IsZero() || r.LastUpdated.Location() != time.UTC {
		t.Errorf("LastUpdated = %v, want a UTC timestamp", r.LastUpdated)
	}
}

func TestAddValidation(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		oldURL string
		newURL string
	}{
		{"empty old url", "", "/new"},
		{"empty new url", "/old", ""},
		{"whitespace old url", "   ", "/new"},
		{"whitespace new url", "/old", "\t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Add(ctx, false, tt.oldURL, tt.newURL, "")
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Add() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestAddDuplicate(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Add(ctx, false, "/old", "/new", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	// Same source after normalization.
	_, err := repo.Add(ctx, false, "OLD", "/elsewhere", "")
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Add() error = %v, want ErrDuplicate", err)
	}
}

func TestAddLoop(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Add(ctx, false, "/a", "/b", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	_, err := repo.Add(ctx, false, "/b", "/a", "")
	if !errors.Is(err, ErrLoop) {
		t.Errorf("Add() error = %v, want ErrLoop", err)
	}
}

func TestAddRegexSkipsNormalizationAndLoopCheck(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	r, err := repo.Add(ctx, true, "^/Blog/(.*)$", "/articles/$1", "")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if r.OldURL != "^/Blog/(.*)$" {
		t.Errorf("regex OldURL = %q, want pattern stored verbatim", r.OldURL)
	}
}

func TestUpdate(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Add(ctx, false, "/old", "/new", "")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	created.NewURL = "/elsewhere"
	before := created.LastUpdated
	updated, err := repo.Update(ctx, created)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.NewURL != "/elsewhere" {
		t.Errorf("NewURL = %q, want /elsewhere", updated.NewURL)
	}
	if updated.LastUpdated.Before(before) {
		t.Error("Update() did not refresh LastUpdated")
	}
}

func TestUpdateKeepsOwnOldURL(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Add(ctx, false, "/old", "/new", "")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	// Saving a rule with its own unchanged source is not a duplicate.
	if _, err := repo.Update(ctx, created); err != nil {
		t.Errorf("Update() error = %v, want nil", err)
	}
}

func TestUpdateAdoptingOtherSourceFails(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Add(ctx, false, "/first", "/a", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	second, err := repo.Add(ctx, false, "/second", "/b", "")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	second.OldURL = "/first"
	if _, err := repo.Update(ctx, second); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Update() error = %v, want ErrDuplicate", err)
	}
}

func TestUpdateRekeysLookup(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Add(ctx, false, "/old", "/new", "")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	// Populate the lookup cache under the original key.
	if _, ok := repo.Resolve(ctx, "/old"); !ok {
		t.Fatal("Resolve(/old) should match before the update")
	}

	created.OldURL = "/renamed"
	if _, err := repo.Update(ctx, created); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if _, ok := repo.Resolve(ctx, "/old"); ok {
		t.Error("Resolve(/old) still matches after re-keying")
	}
	if _, ok := repo.Resolve(ctx, "/renamed"); !ok {
		t.Error("Resolve(/renamed) should match after the update")
	}
}

func TestUpdateNotFound(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Update(ctx, &models.Redirect{ID: uuid.New(), OldURL: "/a", NewURL: "/b"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateLoopExcludesOwnPreviousEdge(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Add(ctx, false, "/a", "/b", "")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	// Reversing a rule's own direction is fine: /a -> /b becomes /b -> /a,
	// and the stale /a -> /b edge must not count against it.
	created.OldURL = "/b"
	created.NewURL = "/a"
	if _, err := repo.Update(ctx, created); err != nil {
		t.Errorf("Update() error = %v, want nil", err)
	}
}

func TestDelete(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.Add(ctx, false, "/old", "/new", "")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := repo.Resolve(ctx, "/old"); ok {
		t.Error("Resolve() still matches a deleted rule")
	}
}

func TestDeleteNotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	err := repo.Delete(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestGetAllUsesCache(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Add(ctx, false, "/a", "/b", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	calls := store.queryAllCalls
	for i := 0; i < 3; i++ {
		if _, err := repo.GetAll(ctx); err != nil {
			t.Fatalf("GetAll() error = %v", err)
		}
	}
	if store.queryAllCalls != calls+1 {
		t.Errorf("store queried %d times for 3 GetAll calls, want 1", store.queryAllCalls-calls)
	}
}

func TestMutationInvalidatesCache(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.Add(ctx, false, "/a", "/b", "")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if rules, _ := repo.GetAll(ctx); len(rules) != 1 {
		t.Fatalf("GetAll() returned %d rules, want 1", len(rules))
	}

	// The very next read after each mutation must reflect it.
	if _, err := repo.Add(ctx, false, "/c", "/d", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if rules, _ := repo.GetAll(ctx); len(rules) != 2 {
		t.Errorf("GetAll() returned %d rules after Add, want 2", len(rules))
	}

	if err := repo.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if rules, _ := repo.GetAll(ctx); len(rules) != 1 {
		t.Errorf("GetAll() returned %d rules after Delete, want 1", len(rules))
	}
}

func TestConcurrentResolveAndMutate(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Add(ctx, false, "/hot", "/target", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			r, err := repo.Add(ctx, false, fmt.Sprintf("/src-%d", i), fmt.Sprintf("/dst-%d", i), "")
			if err != nil {
				t.Errorf("Add() error = %v", err)
				return
			}
			if err := repo.Delete(ctx, r.ID); err != nil {
				t.Errorf("Delete() error = %v", err)
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if _, ok := repo.Resolve(ctx, "/hot"); !ok {
					t.Error("Resolve(/hot) = no match during concurrent writes")
					return
				}
			}
		}()
	}

	wg.Wait()
	<-done
}

func TestWarm(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Add(ctx, false, "/a", "/b", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := repo.Warm(ctx); err != nil {
		t.Fatalf("Warm() error = %v", err)
	}

	calls := store.queryAllCalls
	if _, err := repo.GetAll(ctx); err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if store.queryAllCalls != calls {
		t.Error("GetAll() hit the store after Warm()")
	}
}

func TestClearCache(t *testing.T) {
	repo, store := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.Add(ctx, false, "/a", "/b", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := repo.GetAll(ctx); err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}

	repo.ClearCache()

	calls := store.queryAllCalls
	if _, err := repo.GetAll(ctx); err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if store.queryAllCalls != calls+1 {
		t.Error("GetAll() did not refetch after ClearCache()")
	}
}
