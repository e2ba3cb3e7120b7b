package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"ecocharge/internal/core"
)

// Repository translates RecordStore calls into typed results.
// Every store failure is reported as ErrStoreUnavailable unless the store
// already classified it as ErrDuplicateID.
type Repository struct {
	store RecordStore
}

func NewRepository(store RecordStore) *Repository {
	return &Repository{store: store}
}

// ListAll returns every session, newest date first. Sessions sharing a date
// keep the order the store returned them in.
func (r *Repository) ListAll(ctx context.Context) ([]core.Session, error) {
	sessions, err := r.store.ListAll(ctx)
	if err != nil {
		return nil, shape("list sessions", err)
	}
	slices.SortStableFunc(sessions, func(a, b core.Session) int {
		return strings.Compare(b.Date, a.Date)
	})
	return sessions, nil
}

// Insert persists one session.
func (r *Repository) Insert(ctx context.Context, s core.Session) error {
	if err := r.store.Insert(ctx, s); err != nil {
		return shape("insert session "+s.ID, err)
	}
	return nil
}

// InsertMany persists a batch. On failure nothing is assumed to be stored:
// the error is returned for the whole batch.
func (r *Repository) InsertMany(ctx context.Context, ss []core.Session) error {
	if len(ss) == 0 {
		return nil
	}
	if err := r.store.InsertMany(ctx, ss); err != nil {
		return shape(fmt.Sprintf("insert batch of %d sessions", len(ss)), err)
	}
	return nil
}

// DeleteByID removes a session. Deleting an unknown id succeeds.
func (r *Repository) DeleteByID(ctx context.Context, id string) error {
	err := r.store.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		slog.DebugContext(ctx, "Delete of unknown session ignored", "id", id)
		return nil
	}
	if err != nil {
		return shape("delete session "+id, err)
	}
	return nil
}

func shape(op string, err error) error {
	if errors.Is(err, ErrDuplicateID) || errors.Is(err, ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
}
