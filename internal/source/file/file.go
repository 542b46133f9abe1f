// Package file loads the dataset from a JSON document on disk.
package file

import (
	"context"
	"fmt"
	"os"

	"toheoje/internal/core"
)

type Source struct {
	path string
}

func New(path string) *Source {
	return &Source{path: path}
}

func (s *Source) Name() string { return "file:" + s.path }

func (s *Source) Load(ctx context.Context) ([]core.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.NewLoadError(s.Name(), core.ErrFetch, err)
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, core.NewLoadError(s.Name(), core.ErrFetch, err)
	}
	defer f.Close()

	records, err := core.DecodeRecords(f)
	if err != nil {
		return nil, core.NewLoadError(s.Name(), core.ErrDecode, fmt.Errorf("%s: %w", s.path, err))
	}
	return records, nil
}
