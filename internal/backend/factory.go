package backend

import (
	"context"
	"fmt"
	"log/slog"

	"ecocharge/internal/amqp"
	"ecocharge/internal/records"
	gsheet "ecocharge/internal/records/google"
	"ecocharge/internal/records/memory"
	"ecocharge/internal/services"
	"ecocharge/internal/storage"
)

type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	store, err := f.createStore(ctx, config)
	if err != nil {
		return nil, err
	}

	var publisher services.Publisher
	if client := f.createAMQPClient(config); client != nil {
		publisher = client
	}

	svc := services.NewSessionService(store, publisher)
	f.logger.Info("Initialized backend",
		"type", config.Type,
		"events_enabled", publisher != nil)

	return &BackendResult{
		Store:   store,
		Service: svc,
		Cleanup: svc.Close,
	}, nil
}

// CreateStore builds only the record store, for callers that need no service.
func (f *DefaultFactory) CreateStore(ctx context.Context, config Config) (records.RecordStore, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return f.createStore(ctx, config)
}

func (f *DefaultFactory) createStore(ctx context.Context, config Config) (records.RecordStore, error) {
	switch config.Type {
	case MemoryBackend:
		f.logger.Warn("Using memory backend, sessions are lost on restart")
		return memory.New(), nil
	case SQLiteBackend:
		s, err := storage.NewSQLiteStore(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.Info("Initialized SQLite store", "db_path", config.SQLiteDBPath)
		return s, nil
	case PostgresBackend:
		s, err := storage.NewPostgresStore(ctx, config.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres store: %w", err)
		}
		f.logger.Info("Initialized Postgres store")
		return s, nil
	case SheetsBackend:
		s, err := gsheet.New(ctx, config.SheetsOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets store: %w", err)
		}
		f.logger.Info("Initialized Google Sheets store",
			"spreadsheet_id", config.GoogleSpreadsheetID,
			"sheet", config.GoogleSheetName)
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

// createAMQPClient returns nil when events are disabled or the broker is
// unreachable; sessions are still stored without events.
func (f *DefaultFactory) createAMQPClient(config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}
