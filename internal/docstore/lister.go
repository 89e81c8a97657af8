package docstore

import (
	"context"
	"io"

	"clientdocs/internal/models"
)

// Document is an upload record enriched for presentation: the uploader
// display name joined from the uploaders table and the derived public
// retrieval URL.
type Document struct {
	models.UploadRecord
	UploaderName string `json:"uploader_name,omitempty"`
	PublicURL    string `json:"public_url"`
}

// PublicURL derives the retrieval URL for a storage key.
func (d *DocStore) PublicURL(key string) string {
	return d.blobs.PublicURL(key)
}

// List returns a client's documents, newest first. URL derivation is
// pure, so listing performs no blob-store I/O regardless of result
// size.
func (d *DocStore) List(ctx context.Context, clientID string) ([]Document, error) {
	if err := models.ValidateClientID(clientID); err != nil {
		return nil, err
	}
	rows, err := d.meta.ListUploadsByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, Document{
			UploadRecord: row.UploadRecord,
			UploaderName: row.UploaderName,
			PublicURL:    d.blobs.PublicURL(row.StorageKey),
		})
	}
	return docs, nil
}

// Get returns one document by record id, or ErrNotFound.
func (d *DocStore) Get(ctx context.Context, id string) (*Document, error) {
	rec, err := d.meta.GetUpload(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNotFound
	}
	doc := &Document{
		UploadRecord: *rec,
		PublicURL:    d.blobs.PublicURL(rec.StorageKey),
	}
	if rec.UploadedBy != "" {
		uploader, err := d.meta.GetUploader(ctx, rec.UploadedBy)
		if err != nil {
			return nil, err
		}
		if uploader != nil {
			doc.UploaderName = uploader.DisplayName
		}
	}
	return doc, nil
}

// OpenContent opens the stored bytes for a document. The caller owns
// the returned reader.
func (d *DocStore) OpenContent(ctx context.Context, id string) (io.ReadCloser, *models.UploadRecord, error) {
	rec, err := d.meta.GetUpload(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, ErrNotFound
	}
	rc, err := d.blobs.Open(ctx, rec.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return rc, rec, nil
}
