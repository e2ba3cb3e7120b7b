// Package backend builds the record store and session service selected by
// configuration.
package backend

import (
	"context"

	"ecocharge/internal/records"
	"ecocharge/internal/services"
)

type CleanupFunc func() error

// BackendResult holds the wired service, the store behind it and the
// function releasing both.
type BackendResult struct {
	Store   records.RecordStore
	Service *services.SessionService
	Cleanup CleanupFunc
}

type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
	CreateStore(ctx context.Context, config Config) (records.RecordStore, error)
}

type Config struct {
	Type BackendType

	SQLiteDBPath string
	PostgresDSN  string

	// Optional change events
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	SheetsBackend   BackendType = "sheets"
	PostgresBackend BackendType = "postgres"
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, SQLiteBackend, SheetsBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
