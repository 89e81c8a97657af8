package store

import (
	"context"

	"clientdocs/internal/models"
)

// UploadStore is the metadata persistence surface consumed by the
// document store. Kept as an interface so the writer, remover, lister,
// and sweeper can be exercised against instrumented fakes.
type UploadStore interface {
	InsertUpload(ctx context.Context, record *models.UploadRecord) error
	GetUpload(ctx context.Context, id string) (*models.UploadRecord, error)
	ListUploadsByClient(ctx context.Context, clientID string) ([]UploadWithUploader, error)
	ListUploads(ctx context.Context) ([]models.UploadRecord, error)
	DeleteUpload(ctx context.Context, id string) error

	UpsertUploader(ctx context.Context, uploader *models.Uploader) error
	GetUploader(ctx context.Context, id string) (*models.Uploader, error)

	StoreInfo(ctx context.Context) (Info, error)
}

var _ UploadStore = (*Store)(nil)
