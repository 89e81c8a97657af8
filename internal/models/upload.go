package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	maxFileNameLength = 255
	maxClientIDLength = 128
)

// UploadRecord describes one stored client document. Records are immutable
// once written; replacing a document is modeled as remove + new upload.
type UploadRecord struct {
	ID         string    `json:"id"`
	ClientID   string    `json:"client_id"`
	StorageKey string    `json:"storage_key"`
	FileName   string    `json:"file_name"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Uploader maps an acting-user id to a display name for listings.
type Uploader struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// ValidateClientID checks that a client reference is usable as an opaque
// key segment.
func ValidateClientID(clientID string) error {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return fmt.Errorf("client id is required")
	}
	if len(clientID) > maxClientIDLength {
		return fmt.Errorf("client id too long")
	}
	if strings.ContainsAny(clientID, "/\\") {
		return fmt.Errorf("client id must not contain path separators")
	}
	return nil
}

// ValidateFileName checks the original display name of an upload.
func ValidateFileName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("file name is required")
	}
	if len(name) > maxFileNameLength {
		return fmt.Errorf("file name too long")
	}
	return nil
}

// ValidateUploaderID checks an uploader id; empty is allowed because the
// acting user may be unknown.
func ValidateUploaderID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	if len(id) > maxClientIDLength {
		return fmt.Errorf("uploader id too long")
	}
	return nil
}
