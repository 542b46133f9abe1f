// Package source defines where the land-contract dataset is read from.
// Implementations live in the sub-packages.
package source

import (
	"context"

	"toheoje/internal/core"
)

// Source performs the one-shot load of every record. Failures are returned as
// *core.DataLoadError.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]core.Record, error)
}

// Func adapts a function to Source. Tests use it.
type Func struct {
	Label string
	Fn    func(ctx context.Context) ([]core.Record, error)
}

func (f Func) Name() string { return f.Label }

func (f Func) Load(ctx context.Context) ([]core.Record, error) { return f.Fn(ctx) }
