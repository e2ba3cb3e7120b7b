package services

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"

	"ecocharge/internal/cache"
	"ecocharge/internal/core"
)

// Sessions is the write path the Tracker delegates to.
type Sessions interface {
	List(ctx context.Context) ([]core.Session, error)
	Create(ctx context.Context, s core.Session) error
	CreateMany(ctx context.Context, batch []core.Session) error
	Delete(ctx context.Context, id string) error
}

// Tracker holds the in-memory session collection. It is rebuilt on Load and
// changed only after the store confirmed a write, so a failed call leaves it
// untouched. Dashboards are memoized per collection version and filter.
type Tracker struct {
	sessions Sessions

	mu         sync.RWMutex
	collection []core.Session // newest first
	version    uint64

	dashboards cache.Cache[core.Dashboard]
}

// NewTracker returns an empty tracker. dashboards may be nil.
func NewTracker(sessions Sessions, dashboards cache.Cache[core.Dashboard]) *Tracker {
	return &Tracker{sessions: sessions, dashboards: dashboards}
}

// Load replaces the collection with the store contents. On failure the
// collection is emptied and the error returned. A write confirmed while the
// store was being read wins: the collection is then left as that write made it.
func (t *Tracker) Load(ctx context.Context) error {
	t.mu.RLock()
	started := t.version
	t.mu.RUnlock()

	list, err := t.sessions.List(ctx)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.version != started {
		return err
	}
	if err != nil {
		t.replace(nil)
		return err
	}
	t.replace(list)
	return nil
}

func (t *Tracker) Add(ctx context.Context, s core.Session) error {
	if err := t.sessions.Create(ctx, s); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replace(insertNewest(t.collection, s))
	return nil
}

// AddMany stores a batch. Nothing is added locally unless the whole batch succeeded.
func (t *Tracker) AddMany(ctx context.Context, batch []core.Session) error {
	if len(batch) == 0 {
		return nil
	}
	if err := t.sessions.CreateMany(ctx, batch); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	next := slices.Clone(t.collection)
	for _, s := range batch {
		next = insertNewest(next, s)
	}
	t.replace(next)
	return nil
}

func (t *Tracker) Delete(ctx context.Context, id string) error {
	if err := t.sessions.Delete(ctx, id); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replace(slices.DeleteFunc(slices.Clone(t.collection), func(s core.Session) bool { return s.ID == id }))
	return nil
}

// Snapshot returns a copy of the collection, newest first.
func (t *Tracker) Snapshot() []core.Session {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.collection)
}

// Version changes every time the collection does.
func (t *Tracker) Version() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.version
}

// Dashboard derives the view for filter ("all" or YYYY-MM).
func (t *Tracker) Dashboard(filter string) core.Dashboard {
	if filter == "" {
		filter = core.AllMonths
	}
	t.mu.RLock()
	sessions, version := t.collection, t.version
	t.mu.RUnlock()

	if t.dashboards == nil {
		return core.Derive(sessions, filter)
	}
	key := strconv.FormatUint(version, 10) + "|" + filter
	if d, ok := t.dashboards.Get(key); ok {
		return d
	}
	d := core.Derive(sessions, filter)
	t.dashboards.Set(key, d)
	return d
}

// replace installs a new collection. Callers hold mu. Slices handed out by
// earlier snapshots are never written to again.
func (t *Tracker) replace(list []core.Session) {
	t.collection = list
	t.version++
	if t.dashboards != nil {
		t.dashboards.Purge()
	}
}

// insertNewest returns a new slice with s placed before every session whose
// date is not newer.
func insertNewest(list []core.Session, s core.Session) []core.Session {
	i, _ := slices.BinarySearchFunc(list, s, func(e, target core.Session) int {
		// list is sorted by date descending.
		if strings.Compare(e.Date, target.Date) > 0 {
			return -1
		}
		return 1
	})
	out := make([]core.Session, 0, len(list)+1)
	out = append(out, list[:i]...)
	out = append(out, s)
	return append(out, list[i:]...)
}
