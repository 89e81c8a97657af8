package docstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"clientdocs/internal/models"
)

// WriteRequest describes one incoming document.
type WriteRequest struct {
	ClientID   string
	FileName   string
	MimeType   string
	SizeBytes  int64
	UploadedBy string
	Content    io.Reader
}

// Write stores the document bytes, then inserts the metadata row.
//
// The order is fixed: blob first, row second. A failure between the two
// steps leaves an orphan blob (invisible to listings, harmless) rather
// than a dangling row pointing at nothing. In that case Write returns a
// *MetadataWriteError carrying the key and the pending record so the
// caller can retry the insert alone via RetryMetadata.
func (d *DocStore) Write(ctx context.Context, req WriteRequest) (*models.UploadRecord, error) {
	if err := models.ValidateClientID(req.ClientID); err != nil {
		return nil, err
	}
	if err := models.ValidateFileName(req.FileName); err != nil {
		return nil, err
	}
	if err := models.ValidateUploaderID(req.UploadedBy); err != nil {
		return nil, err
	}
	if req.Content == nil {
		return nil, fmt.Errorf("document content is required")
	}

	key, err := StorageKey(req.ClientID, req.FileName, time.Now())
	if err != nil {
		return nil, err
	}

	if err := d.blobs.Put(ctx, key, req.Content, req.MimeType); err != nil {
		d.logger.Error("blob write failed",
			"client_id", req.ClientID,
			"storage_key", key,
			"error", err)
		return nil, &BlobWriteError{StorageKey: key, Err: err}
	}

	rec := &models.UploadRecord{
		ClientID:   req.ClientID,
		StorageKey: key,
		FileName:   req.FileName,
		MimeType:   req.MimeType,
		SizeBytes:  req.SizeBytes,
		UploadedBy: req.UploadedBy,
		UploadedAt: time.Now().UTC(),
	}
	if err := d.meta.InsertUpload(ctx, rec); err != nil {
		d.logger.Error("metadata insert failed after blob write",
			"client_id", req.ClientID,
			"storage_key", key,
			"error", err)
		return nil, &MetadataWriteError{StorageKey: key, Pending: rec, Err: err}
	}

	d.logger.Info("document stored",
		"upload_id", rec.ID,
		"client_id", rec.ClientID,
		"storage_key", rec.StorageKey,
		"size_bytes", rec.SizeBytes)
	return rec, nil
}

// RetryMetadata retries the metadata insert for a write whose blob is
// already stored. It never re-sends the bytes.
func (d *DocStore) RetryMetadata(ctx context.Context, werr *MetadataWriteError) (*models.UploadRecord, error) {
	if werr == nil || werr.Pending == nil {
		return nil, fmt.Errorf("nothing to retry")
	}
	rec := werr.Pending
	if err := d.meta.InsertUpload(ctx, rec); err != nil {
		return nil, &MetadataWriteError{StorageKey: werr.StorageKey, Pending: rec, Err: err}
	}
	d.logger.Info("metadata insert retried",
		"upload_id", rec.ID,
		"storage_key", rec.StorageKey)
	return rec, nil
}
