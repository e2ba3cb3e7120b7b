package memory

import (
	"context"
	"fmt"
	"sync"

	"ecocharge/internal/core"
	"ecocharge/internal/records"
)

var _ records.RecordStore = (*Store)(nil)

// Store keeps sessions in process memory, in insertion order.
type Store struct {
	mu    sync.Mutex
	items []core.Session
	ids   map[string]struct{}
}

func New(initial ...core.Session) *Store {
	s := &Store{ids: make(map[string]struct{})}
	for _, it := range initial {
		if _, ok := s.ids[it.ID]; ok {
			continue
		}
		s.ids[it.ID] = struct{}{}
		s.items = append(s.items, it)
	}
	return s
}

// ListAll returns a copy of the stored sessions.
func (s *Store) ListAll(_ context.Context) ([]core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Session(nil), s.items...), nil
}

func (s *Store) Insert(_ context.Context, it core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[it.ID]; ok {
		return fmt.Errorf("%w: %s", records.ErrDuplicateID, it.ID)
	}
	s.ids[it.ID] = struct{}{}
	s.items = append(s.items, it)
	return nil
}

// InsertMany is all-or-nothing: a duplicate anywhere in the batch rejects it.
func (s *Store) InsertMany(_ context.Context, batch []core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[string]struct{}, len(batch))
	for _, it := range batch {
		_, stored := s.ids[it.ID]
		_, repeated := seen[it.ID]
		if stored || repeated {
			return fmt.Errorf("%w: %s", records.ErrDuplicateID, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	for _, it := range batch {
		s.ids[it.ID] = struct{}{}
		s.items = append(s.items, it)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; !ok {
		return records.ErrNotFound
	}
	delete(s.ids, id)
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return nil
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
