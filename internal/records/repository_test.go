package records_test

import (
	"context"
	"errors"
	"testing"

	"ecocharge/internal/core"
	"ecocharge/internal/records"
	"ecocharge/internal/records/memory"
)

type failingStore struct{ err error }

func (f failingStore) ListAll(context.Context) ([]core.Session, error) { return nil, f.err }
func (f failingStore) Insert(context.Context, core.Session) error { return f.err }
func (f failingStore) InsertMany(context.Context, []core.Session) error { return f.err }
func (f failingStore) Delete(context.Context, string) error { return f.err }

func TestRepositoryListAllNewestFirst(t *testing.T) {
	store := memory.New(
		core.Session{ID: "1", Date: "2024-05-01"},
		core.Session{ID: "2", Date: "2024-06-01"},
		core.Session{ID: "3", Date: "2024-05-01"},
		core.Session{ID: "4", Date: "2023-12-31"},
	)
	repo := records.NewRepository(store)
	list, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"2", "1", "3", "4"}
	for i, id := range want {
		if list[i].ID != id {
			t.Fatalf("position %d: got %s, want %s (%+v)", i, list[i].ID, id, list)
		}
	}
}

func TestRepositoryShapesStoreErrors(t *testing.T) {
	ctx := context.Background()
	repo := records.NewRepository(failingStore{err: errors.New("connection refused")})

	if _, err := repo.ListAll(ctx); !errors.Is(err, records.ErrStoreUnavailable) {
		t.Fatalf("list: expected store unavailable, got %v", err)
	}
	if err := repo.Insert(ctx, core.Session{ID: "x"}); !errors.Is(err, records.ErrStoreUnavailable) {
		t.Fatalf("insert: expected store unavailable, got %v", err)
	}
	if err := repo.InsertMany(ctx, []core.Session{{ID: "x"}}); !errors.Is(err, records.ErrStoreUnavailable) {
		t.Fatalf("insert many: expected store unavailable, got %v", err)
	}
	if err := repo.DeleteByID(ctx, "x"); !errors.Is(err, records.ErrStoreUnavailable) {
		t.Fatalf("delete: expected store unavailable, got %v", err)
	}
}

func TestRepositoryDuplicateIsNotUnavailable(t *testing.T) {
	ctx := context.Background()
	repo := records.NewRepository(memory.New(core.Session{ID: "x"}))
	err := repo.Insert(ctx, core.Session{ID: "x"})
	if !errors.Is(err, records.ErrDuplicateID) || errors.Is(err, records.ErrStoreUnavailable) {
		t.Fatalf("expected duplicate only, got %v", err)
	}
}

func TestRepositoryDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := records.NewRepository(memory.New(core.Session{ID: "x"}))
	for i := 0; i < 2; i++ {
		if err := repo.DeleteByID(ctx, "x"); err != nil {
			t.Fatalf("delete %d: %v", i, err)
		}
	}
}

func TestRepositoryInsertManyEmpty(t *testing.T) {
	repo := records.NewRepository(failingStore{err: errors.New("boom")})
	if err := repo.InsertMany(context.Background(), nil); err != nil {
		t.Fatalf("empty batch should be a no-op, got %v", err)
	}
}
