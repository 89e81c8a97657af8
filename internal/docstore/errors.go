package docstore

import (
	"errors"
	"fmt"

	"clientdocs/internal/models"
)

// ErrNotFound reports that no upload record exists for the given id.
var ErrNotFound = errors.New("upload not found")

// BlobWriteError reports that the blob store rejected the byte write.
// No metadata row was created; the write left no trace to clean up
// beyond a possible partial object at StorageKey.
type BlobWriteError struct {
	StorageKey string
	Err        error
}

func (e *BlobWriteError) Error() string {
	return fmt.Sprintf("write blob %s: %v", e.StorageKey, e.Err)
}

func (e *BlobWriteError) Unwrap() error { return e.Err }

// MetadataWriteError reports that the blob was stored but the metadata
// insert failed. The blob at StorageKey is now an orphan until either
// RetryMetadata succeeds or an operator removes it. Pending is the
// record that should have been inserted.
type MetadataWriteError struct {
	StorageKey string
	Pending    *models.UploadRecord
	Err        error
}

func (e *MetadataWriteError) Error() string {
	return fmt.Sprintf("blob stored at %s but metadata insert failed: %v", e.StorageKey, e.Err)
}

func (e *MetadataWriteError) Unwrap() error { return e.Err }

// BlobDeleteError reports that the blob delete failed during removal.
// The metadata row was left in place so the record stays visible.
type BlobDeleteError struct {
	StorageKey string
	Err        error
}

func (e *BlobDeleteError) Error() string {
	return fmt.Sprintf("delete blob %s: %v", e.StorageKey, e.Err)
}

func (e *BlobDeleteError) Unwrap() error { return e.Err }

// MetadataDeleteError reports that the blob is gone but the metadata
// row delete failed. The row is now dangling; the reconciliation sweep
// will reclaim it on a later pass.
type MetadataDeleteError struct {
	RecordID   string
	StorageKey string
	Err        error
}

func (e *MetadataDeleteError) Error() string {
	return fmt.Sprintf("blob %s deleted but metadata row %s remains: %v", e.StorageKey, e.RecordID, e.Err)
}

func (e *MetadataDeleteError) Unwrap() error { return e.Err }
