package blobstore

import (
	"context"
	"io"
)

// ProbeResult classifies the outcome of an existence probe.
//
// The three-way split matters: a metadata row may only be reclaimed by
// the reconciliation sweep when the store definitively reports the key
// missing. Any transient or unclear failure must stay ProbeAmbiguous so
// the sweep never deletes metadata on bad evidence.
type ProbeResult int

const (
	// ProbeExists means the blob is present at the key.
	ProbeExists ProbeResult = iota
	// ProbeNotFound means the store definitively reported no blob at the key.
	ProbeNotFound
	// ProbeAmbiguous means the probe failed for an unclear reason
	// (network error, permission error, timeout). Callers must treat the
	// blob as possibly present.
	ProbeAmbiguous
)

func (r ProbeResult) String() string {
	switch r {
	case ProbeExists:
		return "exists"
	case ProbeNotFound:
		return "not_found"
	case ProbeAmbiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// BlobStore is the byte-storage abstraction behind the document store.
type BlobStore interface {
	// Put writes the blob at key. Keys are derived collision resistant,
	// so Put never has to overwrite live content.
	Put(ctx context.Context, key string, r io.Reader, contentType string) error

	// Open returns a reader for the blob at key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Probe reports whether a blob exists at key. The error is non-nil
	// only when the result is ProbeAmbiguous.
	Probe(ctx context.Context, key string) (ProbeResult, error)

	// Delete removes the blob at key. Deleting a missing key returns nil.
	Delete(ctx context.Context, key string) error

	// PublicURL derives the retrieval URL for key. Pure, no I/O.
	PublicURL(key string) string
}
