package google

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"ecocharge/internal/core"
	"ecocharge/internal/records"
)

// sharedSheet is a fakeSheet safe for concurrent use. Id scans pause
// after reading so that overlapping callers see the same row numbers.
type sharedSheet struct {
	mu    sync.Mutex
	sheet fakeSheet
}

func (s *sharedSheet) Get(ctx context.Context, rng string) ([][]any, error) {
	s.mu.Lock()
	rows, err := s.sheet.Get(ctx, rng)
	s.mu.Unlock()
	time.Sleep(5 * time.Millisecond)
	return rows, err
}

func (s *sharedSheet) Append(ctx context.Context, rng string, rows [][]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheet.Append(ctx, rng, rows)
}

func (s *sharedSheet) DeleteRow(ctx context.Context, sheet string, idx int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheet.DeleteRow(ctx, sheet, idx)
}

func sortedIDs(t *testing.T, c *Client) []string {
	t.Helper()
	all, err := c.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	out := make([]string, len(all))
	for i, s := range all {
		out[i] = s.ID
	}
	sort.Strings(out)
	return out
}

func TestClient_ConcurrentDeletesRemoveTheRightRows(t *testing.T) {
	ctx := context.Background()
	sheet := &sharedSheet{}
	c := newClient(sheet, "Sessions")
	if err := c.ensureHeader(ctx); err != nil {
		t.Fatalf("header: %v", err)
	}
	seed := []core.Session{
		session("x1", "2024-05-01"),
		session("k1", "2024-05-02"),
		session("x2", "2024-05-03"),
		session("k2", "2024-05-04"),
		session("k3", "2024-05-05"),
	}
	if err := c.InsertMany(ctx, seed); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, id := range []string{"x1", "x2"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- c.Delete(ctx, id)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("delete: %v", err)
		}
	}

	got := sortedIDs(t, c)
	want := []string{"k1", "k2", "k3"}
	if len(got) != len(want) {
		t.Fatalf("mirror holds %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("mirror holds %v, want %v", got, want)
		}
	}
}

func TestClient_ConcurrentInsertsOfSameIDWriteOneRow(t *testing.T) {
	ctx := context.Background()
	sheet := &sharedSheet{}
	c := newClient(sheet, "Sessions")
	if err := c.ensureHeader(ctx); err != nil {
		t.Fatalf("header: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- c.Insert(ctx, session("a", "2024-05-01"))
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, records.ErrDuplicateID):
			dup++
		default:
			t.Fatalf("insert: %v", err)
		}
	}
	if ok != 1 || dup != 2 {
		t.Fatalf("ok=%d duplicates=%d, want 1 and 2", ok, dup)
	}
	if got := sortedIDs(t, c); len(got) != 1 {
		t.Fatalf("sheet holds %v", got)
	}
}
