// Package docstore implements client document storage across two
// systems of record: a blob store for bytes and a SQLite table for
// metadata. Writes and removals touch both in a fixed order, and a
// reconciliation sweep repairs the drift that order can leave behind.
package docstore

import (
	"log/slog"
	"time"

	"clientdocs/internal/blobstore"
	"clientdocs/internal/store"
)

const (
	defaultSweepConcurrency = 4
	defaultProbeTimeout     = 30 * time.Second
)

// DocStore coordinates the blob store and the metadata store.
type DocStore struct {
	blobs  blobstore.BlobStore
	meta   store.UploadStore
	logger *slog.Logger

	sweepConcurrency int
	probeTimeout     time.Duration
}

// Options tunes a DocStore. The zero value is usable.
type Options struct {
	// Logger receives operational events. Defaults to slog.Default().
	Logger *slog.Logger
	// SweepConcurrency bounds parallel existence probes during Sweep.
	SweepConcurrency int
	// ProbeTimeout caps each existence probe during Sweep. A probe that
	// exceeds it counts as ambiguous, never as absence.
	ProbeTimeout time.Duration
}

// New creates a DocStore over the given blob and metadata stores.
func New(blobs blobstore.BlobStore, meta store.UploadStore, opts Options) *DocStore {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := opts.SweepConcurrency
	if concurrency <= 0 {
		concurrency = defaultSweepConcurrency
	}
	probeTimeout := opts.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = defaultProbeTimeout
	}
	return &DocStore{
		blobs:            blobs,
		meta:             meta,
		logger:           logger,
		sweepConcurrency: concurrency,
		probeTimeout:     probeTimeout,
	}
}
