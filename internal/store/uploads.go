package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"clientdocs/internal/models"
)

const uploadColumns = "id, client_id, storage_key, file_name, mime_type, size_bytes, uploaded_by, uploaded_at"

// UploadWithUploader is an upload row joined with its uploader display
// name. UploaderName is empty when the acting user is unknown or the
// uploader row is gone.
type UploadWithUploader struct {
	models.UploadRecord
	UploaderName string `json:"uploader_name,omitempty"`
}

// Info summarizes store state for the info endpoint.
type Info struct {
	SchemaVersion int `json:"schema_version"`
	TotalUploads  int `json:"total_uploads"`
}

// InsertUpload inserts one upload row. The store generates the id and
// the uploaded_at timestamp; both are written back into record.
func (s *Store) InsertUpload(ctx context.Context, record *models.UploadRecord) error {
	if record == nil {
		return fmt.Errorf("upload record is required")
	}
	if strings.TrimSpace(record.ClientID) == "" {
		return fmt.Errorf("client_id is required")
	}
	if strings.TrimSpace(record.StorageKey) == "" {
		return fmt.Errorf("storage_key is required")
	}
	if strings.TrimSpace(record.FileName) == "" {
		return fmt.Errorf("file_name is required")
	}
	if record.SizeBytes < 0 {
		return fmt.Errorf("size_bytes must be >= 0")
	}

	if strings.TrimSpace(record.ID) == "" {
		record.ID = uuid.New().String()
	}
	if record.UploadedAt.IsZero() {
		record.UploadedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO upload_records (id, client_id, storage_key, file_name, mime_type, size_bytes, uploaded_by, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID,
		record.ClientID,
		record.StorageKey,
		record.FileName,
		nullIfEmpty(strings.TrimSpace(record.MimeType)),
		record.SizeBytes,
		nullIfEmpty(strings.TrimSpace(record.UploadedBy)),
		formatTime(record.UploadedAt),
	)
	return err
}

// GetUpload returns one upload row by id, nil when missing.
func (s *Store) GetUpload(ctx context.Context, id string) (*models.UploadRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+uploadColumns+` FROM upload_records WHERE id = ?`, id)
	return scanUpload(row)
}

// ListUploadsByClient lists uploads for one client joined with uploader
// display names, newest first.
func (s *Store) ListUploadsByClient(ctx context.Context, clientID string) ([]UploadWithUploader, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.client_id, r.storage_key, r.file_name, r.mime_type, r.size_bytes, r.uploaded_by, r.uploaded_at,
		       u.display_name
		FROM upload_records r
		LEFT JOIN uploaders u ON u.id = r.uploaded_by
		WHERE r.client_id = ?
		ORDER BY r.uploaded_at DESC, r.id DESC
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	uploads := []UploadWithUploader{}
	for rows.Next() {
		var record models.UploadRecord
		var mimeType, uploadedBy, displayName sql.NullString
		var uploadedAt string

		if err := rows.Scan(
			&record.ID,
			&record.ClientID,
			&record.StorageKey,
			&record.FileName,
			&mimeType,
			&record.SizeBytes,
			&uploadedBy,
			&uploadedAt,
			&displayName,
		); err != nil {
			return nil, err
		}
		record.MimeType = mimeType.String
		record.UploadedBy = uploadedBy.String
		parsed, err := parseTime(uploadedAt)
		if err != nil {
			return nil, err
		}
		record.UploadedAt = parsed

		uploads = append(uploads, UploadWithUploader{UploadRecord: record, UploaderName: displayName.String})
	}
	return uploads, rows.Err()
}

// ListUploads returns every upload row. The sweep runs a full table scan;
// this is a documented scaling limit of a per-client document store.
func (s *Store) ListUploads(ctx context.Context) ([]models.UploadRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+uploadColumns+` FROM upload_records ORDER BY uploaded_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	uploads := []models.UploadRecord{}
	for rows.Next() {
		record, err := scanUpload(rows)
		if err != nil {
			return nil, err
		}
		if record != nil {
			uploads = append(uploads, *record)
		}
	}
	return uploads, rows.Err()
}

// DeleteUpload deletes one upload row by id. Deleting a missing id is a
// no-op, which keeps remover retries and concurrent sweeps safe.
func (s *Store) DeleteUpload(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM upload_records WHERE id = ?", id)
	return err
}

// StoreInfo reports schema version and row count.
func (s *Store) StoreInfo(ctx context.Context) (Info, error) {
	version, err := s.SchemaVersion()
	if err != nil {
		return Info{}, err
	}
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM upload_records").Scan(&total); err != nil {
		return Info{}, err
	}
	return Info{SchemaVersion: version, TotalUploads: total}, nil
}

func scanUpload(scanner interface {
	Scan(dest ...any) error
}) (*models.UploadRecord, error) {
	record := models.UploadRecord{}

	var mimeType, uploadedBy sql.NullString
	var uploadedAt string

	err := scanner.Scan(
		&record.ID,
		&record.ClientID,
		&record.StorageKey,
		&record.FileName,
		&mimeType,
		&record.SizeBytes,
		&uploadedBy,
		&uploadedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	record.MimeType = mimeType.String
	record.UploadedBy = uploadedBy.String

	parsed, err := parseTime(uploadedAt)
	if err != nil {
		return nil, err
	}
	record.UploadedAt = parsed

	return &record, nil
}
