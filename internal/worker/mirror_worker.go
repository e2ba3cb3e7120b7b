// Package worker keeps a secondary record store in step with the primary one.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"ecocharge/internal/amqp"
	"ecocharge/internal/core"
	"ecocharge/internal/records"

	"golang.org/x/sync/errgroup"
)

// MirrorWorker applies session events to a mirror store. Handling is
// idempotent: replays of an event leave the mirror unchanged.
type MirrorWorker struct {
	source records.RecordStore
	mirror records.RecordStore
}

func NewMirrorWorker(source, mirror records.RecordStore) *MirrorWorker {
	return &MirrorWorker{source: source, mirror: mirror}
}

// HandleEvent is the AMQP consumer callback.
func (w *MirrorWorker) HandleEvent(ctx context.Context, ev *amqp.SessionEvent) error {
	switch ev.Type {
	case amqp.SessionCreated:
		err := w.mirror.Insert(ctx, *ev.Session)
		if errors.Is(err, records.ErrDuplicateID) {
			slog.DebugContext(ctx, "Session already mirrored", "id", ev.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("mirror insert %s: %w", ev.ID, err)
		}
	case amqp.SessionDeleted:
		err := w.mirror.Delete(ctx, ev.ID)
		if err != nil && !errors.Is(err, records.ErrNotFound) {
			return fmt.Errorf("mirror delete %s: %w", ev.ID, err)
		}
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	slog.InfoContext(ctx, "Mirrored session event", "type", ev.Type, "id", ev.ID)
	return nil
}

// ResyncResult counts the changes a resync made to the mirror.
type ResyncResult struct {
	Added   int
	Removed int
}

// Resync makes the mirror hold exactly the source's sessions. It recovers
// from events lost while the worker was down.
func (w *MirrorWorker) Resync(ctx context.Context) (ResyncResult, error) {
	var src, dst []core.Session
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		src, err = w.source.ListAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		dst, err = w.mirror.ListAll(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return ResyncResult{}, fmt.Errorf("list sessions: %w", err)
	}

	have := make(map[string]struct{}, len(dst))
	for _, s := range dst {
		have[s.ID] = struct{}{}
	}
	want := make(map[string]struct{}, len(src))
	var missing []core.Session
	for _, s := range src {
		want[s.ID] = struct{}{}
		if _, ok := have[s.ID]; !ok {
			missing = append(missing, s)
		}
	}
	var extra []string
	for _, s := range dst {
		if _, ok := want[s.ID]; !ok {
			extra = append(extra, s.ID)
		}
	}

	var res ResyncResult
	if len(missing) > 0 {
		err := w.mirror.InsertMany(ctx, missing)
		switch {
		case err == nil:
			res.Added = len(missing)
		case errors.Is(err, records.ErrDuplicateID):
			// An event mirrored some of them since the listing.
			for _, s := range missing {
				err := w.mirror.Insert(ctx, s)
				if errors.Is(err, records.ErrDuplicateID) {
					continue
				}
				if err != nil {
					return res, fmt.Errorf("insert %s: %w", s.ID, err)
				}
				res.Added++
			}
		default:
			return res, fmt.Errorf("insert %d missing sessions: %w", len(missing), err)
		}
	}

	// One at a time: the Sheets mirror addresses rows by index.
	for _, id := range extra {
		if err := w.mirror.Delete(ctx, id); err != nil && !errors.Is(err, records.ErrNotFound) {
			return res, fmt.Errorf("delete %s: %w", id, err)
		}
		res.Removed++
	}

	slog.InfoContext(ctx, "Mirror resync completed", "added", res.Added, "removed", res.Removed, "total", len(src))
	return res, nil
}

// RunResync resyncs once, then every interval until ctx is done.
// A non-positive interval resyncs only once.
func (w *MirrorWorker) RunResync(ctx context.Context, interval time.Duration) {
	if _, err := w.Resync(ctx); err != nil {
		slog.ErrorContext(ctx, "Mirror resync failed", "error", err)
	}
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := w.Resync(ctx); err != nil {
				slog.ErrorContext(ctx, "Mirror resync failed", "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
