package backend

import (
	"context"
	"fmt"

	"toheoje/internal/log"
	"toheoje/internal/source/file"
	"toheoje/internal/source/remote"
	"toheoje/internal/source/sheets"
	"toheoje/internal/source/sqlite"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// Create implements Factory.Create
func (f *DefaultFactory) Create(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case FileBackend:
		f.logger.Info("Initialized file backend", "path", config.DataFile)
		return &Result{Source: file.New(config.DataFile)}, nil

	case RemoteBackend:
		f.logger.Info("Initialized remote backend", "url", config.DataURL, "timeout", config.LoadTimeout)
		return &Result{Source: remote.New(config.DataURL, config.LoadTimeout)}, nil

	case SQLiteBackend:
		store, err := sqlite.Open(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return &Result{Source: store, Cleanup: store.Close}, nil

	case SheetsBackend:
		src, err := sheets.New(ctx, sheets.Config{
			SpreadsheetID:      config.GoogleSpreadsheetID,
			SheetName:          config.GoogleSheetName,
			ServiceAccountJSON: config.GoogleServiceAccountJSON,
			ServiceAccountFile: config.GoogleServiceAccountFile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		f.logger.Info("Initialized Google Sheets backend", "sheet", config.GoogleSheetName)
		return &Result{Source: src}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
