package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"clientdocs/internal/models"
)

// UpsertUploader inserts or updates one uploader display-name row.
func (s *Store) UpsertUploader(ctx context.Context, uploader *models.Uploader) error {
	if uploader == nil {
		return fmt.Errorf("uploader is required")
	}
	id := strings.TrimSpace(uploader.ID)
	name := strings.TrimSpace(uploader.DisplayName)
	if id == "" {
		return fmt.Errorf("uploader id is required")
	}
	if name == "" {
		return fmt.Errorf("display name is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO uploaders (id, display_name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET display_name = excluded.display_name
	`, id, name)
	return err
}

// GetUploader returns one uploader by id, nil when missing.
func (s *Store) GetUploader(ctx context.Context, id string) (*models.Uploader, error) {
	var uploader models.Uploader
	err := s.db.QueryRowContext(ctx, "SELECT id, display_name FROM uploaders WHERE id = ?", id).
		Scan(&uploader.ID, &uploader.DisplayName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &uploader, nil
}
