// Package dataset owns the one-shot load of the record set and hands out
// immutable snapshots of it.
package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"toheoje/internal/core"
	"toheoje/internal/log"
	"toheoje/internal/source"
)

// State is the lifecycle position of the dataset.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Snapshot is a read-only view of the dataset. Records must not be modified.
type Snapshot struct {
	Records     []core.Record
	Fingerprint string
	State       State
	Err         error
	Source      string
	LoadedAt    time.Time
}

// Loading reports whether the load has not finished yet.
func (s Snapshot) Loading() bool { return s.State == StateLoading }

// Hook runs after a successful load.
type Hook func(ctx context.Context, snap Snapshot)

// Dataset loads at most once and is never retried.
type Dataset struct {
	logger *log.Logger
	once   sync.Once
	now    func() time.Time

	mu    sync.RWMutex
	snap  Snapshot
	hooks []Hook
}

func New(logger *log.Logger) *Dataset {
	if logger == nil {
		logger = log.Discard()
	}
	return &Dataset{
		logger: logger.WithComponent(log.ComponentDataset),
		now:    time.Now,
		snap:   Snapshot{State: StateLoading, Records: []core.Record{}},
	}
}

// OnLoaded registers a hook. Hooks registered after the load never run.
func (d *Dataset) OnLoaded(h Hook) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hooks = append(d.hooks, h)
}

// Snapshot returns the current view.
func (d *Dataset) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.snap
}

// Load reads src once. Later calls return the first outcome without touching
// src. A failure leaves an empty record set in the failed state.
func (d *Dataset) Load(ctx context.Context, src source.Source) Snapshot {
	d.once.Do(func() { d.load(ctx, src) })
	return d.Snapshot()
}

func (d *Dataset) load(ctx context.Context, src source.Source) {
	start := d.now()
	records, err := src.Load(ctx)

	next := Snapshot{Source: src.Name(), LoadedAt: d.now()}
	if err != nil {
		var le *core.DataLoadError
		if !errors.As(err, &le) {
			err = core.NewLoadError(src.Name(), core.ErrFetch, err)
		}
		next.State = StateFailed
		next.Err = err
		next.Records = []core.Record{}
		d.logger.LogError(ctx, "Dataset load failed", err, log.OpLoad,
			log.NewFields().WithDataset(next.Source, 0, ""))
	} else {
		if records == nil {
			records = []core.Record{}
		}
		next.State = StateReady
		next.Records = records
		next.Fingerprint = Fingerprint(records)
		d.logger.InfoContext(ctx, "Dataset loaded",
			append(log.NewFields().WithDataset(next.Source, len(records), next.Fingerprint).ToSlice(),
				log.FieldDuration, d.now().Sub(start).Milliseconds())...)
	}

	d.mu.Lock()
	d.snap = next
	hooks := append([]Hook(nil), d.hooks...)
	d.mu.Unlock()

	if next.State == StateReady {
		for _, h := range hooks {
			h(ctx, next)
		}
	}
}

// Fingerprint is the hex SHA-256 of the records' JSON encoding. Identical
// record sets always share a fingerprint.
func Fingerprint(records []core.Record) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, r := range records {
		// Encoding a Record cannot fail.
		_ = enc.Encode(r)
	}
	return hex.EncodeToString(h.Sum(nil))
}
