// Package services coordinates session writes across the record store and
// the change-event publisher, and holds the application's session state.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"ecocharge/internal/core"
	"ecocharge/internal/records"
)

// Publisher announces confirmed writes.
type Publisher interface {
	PublishSessionCreated(ctx context.Context, s core.Session) error
	PublishSessionDeleted(ctx context.Context, id string) error
}

// SessionService writes through the repository first and publishes change
// events after the store confirmed the write. Publishing is best effort.
type SessionService struct {
	store     records.RecordStore
	repo      *records.Repository
	publisher Publisher
}

// NewSessionService wires a store and an optional publisher (nil disables events).
func NewSessionService(store records.RecordStore, publisher Publisher) *SessionService {
	return &SessionService{
		store:     store,
		repo:      records.NewRepository(store),
		publisher: publisher,
	}
}

func (s *SessionService) List(ctx context.Context) ([]core.Session, error) {
	return s.repo.ListAll(ctx)
}

func (s *SessionService) Create(ctx context.Context, r core.Session) error {
	if err := s.repo.Insert(ctx, r); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Session created", "id", r.ID, "provider", r.Provider, "date", r.Date, "total_cost", r.TotalCost)
	s.publishCreated(ctx, r)
	return nil
}

func (s *SessionService) CreateMany(ctx context.Context, batch []core.Session) error {
	if err := s.repo.InsertMany(ctx, batch); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Session batch created", "count", len(batch))
	for _, r := range batch {
		s.publishCreated(ctx, r)
	}
	return nil
}

// Delete removes id. Unknown ids succeed.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Session deleted", "id", id)
	if s.publisher != nil {
		if err := s.publisher.PublishSessionDeleted(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish delete event", "id", id, "error", err)
		}
	}
	return nil
}

func (s *SessionService) publishCreated(ctx context.Context, r core.Session) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishSessionCreated(ctx, r); err != nil {
		slog.ErrorContext(ctx, "Failed to publish create event", "id", r.ID, "error", err)
	}
}

// Close releases the store and the publisher when they hold connections.
func (s *SessionService) Close() error {
	var errs []error
	if c, ok := s.store.(records.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	return errors.Join(errs...)
}
