package docstore

import (
	"context"
)

// Remove deletes a document: blob first, metadata row second.
//
// The order mirrors Write so a mid-operation failure can only leave a
// dangling row, never an invisible orphan blob. A dangling row keeps
// the record listed until the reconciliation sweep confirms the blob is
// gone and reclaims it. Removing an id whose blob is already missing
// still succeeds, so Remove itself doubles as a repair path.
func (d *DocStore) Remove(ctx context.Context, id string) error {
	rec, err := d.meta.GetUpload(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrNotFound
	}

	// Blob deletes are idempotent: a missing key is success.
	if err := d.blobs.Delete(ctx, rec.StorageKey); err != nil {
		d.logger.Error("blob delete failed",
			"upload_id", rec.ID,
			"storage_key", rec.StorageKey,
			"error", err)
		return &BlobDeleteError{StorageKey: rec.StorageKey, Err: err}
	}

	if err := d.meta.DeleteUpload(ctx, rec.ID); err != nil {
		d.logger.Error("metadata delete failed after blob delete",
			"upload_id", rec.ID,
			"storage_key", rec.StorageKey,
			"error", err)
		return &MetadataDeleteError{RecordID: rec.ID, StorageKey: rec.StorageKey, Err: err}
	}

	d.logger.Info("document removed",
		"upload_id", rec.ID,
		"client_id", rec.ClientID,
		"storage_key", rec.StorageKey)
	return nil
}
