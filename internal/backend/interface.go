package backend

import (
	"context"

	"toheoje/internal/source"
)

// CleanupFunc releases resources held by a source.
type CleanupFunc func() error

// Result contains the source and an optional cleanup function.
type Result struct {
	Source  source.Source
	Cleanup CleanupFunc
}

// Close runs the cleanup function when there is one.
func (r *Result) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// Factory creates sources based on configuration
type Factory interface {
	Create(ctx context.Context, config Config) (*Result, error)
}

// Type names a dataset source.
type Type string

const (
	FileBackend   Type = "file"
	RemoteBackend Type = "remote"
	SQLiteBackend Type = "sqlite"
	SheetsBackend Type = "sheets"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case FileBackend, RemoteBackend, SQLiteBackend, SheetsBackend:
		return true
	default:
		return false
	}
}
