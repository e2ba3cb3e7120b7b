package worker

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"ecocharge/internal/amqp"
	"ecocharge/internal/core"
	"ecocharge/internal/records/memory"
)

func session(id, date string) core.Session {
	return core.Session{ID: id, Provider: "ZES", Date: date, DurationMinutes: 30, PricePerKWh: 8, TotalKWh: 10, TotalCost: 80}
}

func listIDs(t *testing.T, s *memory.Store) []string {
	t.Helper()
	all, err := s.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	out := make([]string, len(all))
	for i, r := range all {
		out[i] = r.ID
	}
	sort.Strings(out)
	return out
}

func TestMirrorWorker_HandleEventIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mirror := memory.New()
	w := NewMirrorWorker(memory.New(), mirror)

	created := amqp.NewSessionCreated(session("a", "2024-05-01"))
	for i := 0; i < 2; i++ {
		if err := w.HandleEvent(ctx, created); err != nil {
			t.Fatalf("created #%d: %v", i, err)
		}
	}
	if mirror.Len() != 1 {
		t.Fatalf("mirror has %d sessions", mirror.Len())
	}

	deleted := amqp.NewSessionDeleted("a")
	for i := 0; i < 2; i++ {
		if err := w.HandleEvent(ctx, deleted); err != nil {
			t.Fatalf("deleted #%d: %v", i, err)
		}
	}
	if mirror.Len() != 0 {
		t.Fatalf("mirror has %d sessions", mirror.Len())
	}

	if err := w.HandleEvent(ctx, &amqp.SessionEvent{Type: "session.renamed", ID: "a"}); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestMirrorWorker_Resync(t *testing.T) {
	source := memory.New(session("a", "2024-05-01"), session("b", "2024-05-02"), session("c", "2024-06-01"))
	mirror := memory.New(session("a", "2024-05-01"), session("stale", "2024-01-01"), session("gone", "2024-02-01"))
	w := NewMirrorWorker(source, mirror)

	res, err := w.Resync(context.Background())
	if err != nil {
		t.Fatalf("resync: %v", err)
	}
	if res.Added != 2 || res.Removed != 2 {
		t.Fatalf("result %+v", res)
	}
	got := listIDs(t, mirror)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("mirror %v", got)
	}

	res, err = w.Resync(context.Background())
	if err != nil || res != (ResyncResult{}) {
		t.Fatalf("second resync should be a no-op: %+v %v", res, err)
	}
}

type downStore struct{ *memory.Store }

func (downStore) ListAll(context.Context) ([]core.Session, error) {
	return nil, errors.New("unreachable")
}

func TestMirrorWorker_ResyncListFailure(t *testing.T) {
	mirror := memory.New()
	w := NewMirrorWorker(downStore{memory.New()}, mirror)
	if _, err := w.Resync(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if mirror.Len() != 0 {
		t.Fatal("mirror modified after failed resync")
	}
}

// overlapStore records the most deletes it ever saw in flight.
type overlapStore struct {
	*memory.Store
	mu       sync.Mutex
	inFlight int
	peak     int
}

func (s *overlapStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	s.inFlight++
	s.peak = max(s.peak, s.inFlight)
	s.mu.Unlock()
	time.Sleep(2 * time.Millisecond)
	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()
	return s.Store.Delete(ctx, id)
}

func TestMirrorWorker_ResyncDeletesOneAtATime(t *testing.T) {
	source := memory.New(session("k1", "2024-05-02"), session("k2", "2024-05-04"))
	mirror := &overlapStore{Store: memory.New(
		session("x1", "2024-05-01"), session("k1", "2024-05-02"),
		session("x2", "2024-05-03"), session("k2", "2024-05-04"),
		session("x3", "2024-05-05"),
	)}
	w := NewMirrorWorker(source, mirror)

	res, err := w.Resync(context.Background())
	if err != nil {
		t.Fatalf("resync: %v", err)
	}
	if res.Removed != 3 {
		t.Fatalf("result %+v", res)
	}
	if mirror.peak != 1 {
		t.Fatalf("%d deletes overlapped", mirror.peak)
	}
	got := listIDs(t, mirror.Store)
	if len(got) != 2 || got[0] != "k1" || got[1] != "k2" {
		t.Fatalf("mirror %v", got)
	}
}

// racedStore mirrors one session through an event right after the
// resync listed it.
type racedStore struct {
	*memory.Store
	event core.Session
}

func (s *racedStore) ListAll(ctx context.Context) ([]core.Session, error) {
	list, err := s.Store.ListAll(ctx)
	if err == nil {
		err = s.Store.Insert(ctx, s.event)
	}
	return list, err
}

func TestMirrorWorker_ResyncToleratesEventDuringListing(t *testing.T) {
	source := memory.New(session("a", "2024-05-01"), session("b", "2024-05-02"))
	mirror := &racedStore{Store: memory.New(), event: session("a", "2024-05-01")}
	w := NewMirrorWorker(source, mirror)

	res, err := w.Resync(context.Background())
	if err != nil {
		t.Fatalf("resync: %v", err)
	}
	if res.Added != 1 {
		t.Fatalf("result %+v", res)
	}
	got := listIDs(t, mirror.Store)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("mirror %v", got)
	}
}
