// Package records defines the Record Store port and the Session Repository
// that shapes store results for the rest of the application.
package records

import (
	"context"
	"errors"

	"ecocharge/internal/core"
)

var (
	// ErrStoreUnavailable is returned when the backing store cannot serve a request.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrDuplicateID is returned when an inserted id already exists.
	ErrDuplicateID = errors.New("duplicate session id")
	// ErrNotFound is used by stores for unknown ids. The Repository swallows it on delete.
	ErrNotFound = errors.New("session not found")
)

// Ports for outbound adapters.
type (
	// RecordStore is durable keyed storage of sessions. Implementations give
	// per-record atomicity only; InsertMany may be all-or-nothing.
	RecordStore interface {
		ListAll(ctx context.Context) ([]core.Session, error)
		Insert(ctx context.Context, s core.Session) error
		InsertMany(ctx context.Context, ss []core.Session) error
		Delete(ctx context.Context, id string) error
	}

	// Closer is implemented by stores holding connections.
	Closer interface {
		Close() error
	}
)
