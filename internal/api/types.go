package api

import "time"

// ErrorResponse is a generic JSON error wrapper.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// UploadResponse describes one stored document.
type UploadResponse struct {
	ID           string    `json:"id"`
	ClientID     string    `json:"client_id"`
	StorageKey   string    `json:"storage_key"`
	FileName     string    `json:"file_name"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	UploadedBy   string    `json:"uploaded_by,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
	UploaderName string    `json:"uploader_name,omitempty"`
	PublicURL    string    `json:"public_url"`
}

// SweepResponse summarizes one reconciliation pass.
type SweepResponse struct {
	Scanned   int `json:"scanned"`
	Deleted   int `json:"deleted"`
	Ambiguous int `json:"ambiguous"`
	Failed    int `json:"failed"`
}

// InfoResponse describes server state.
type InfoResponse struct {
	DBPath        string `json:"db_path"`
	BlobBackend   string `json:"blob_backend"`
	SchemaVersion int    `json:"schema_version"`
	TotalUploads  int    `json:"total_uploads"`
}

// UploaderUpsertRequest registers or renames an uploader.
type UploaderUpsertRequest struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// UploaderResponse describes one uploader.
type UploaderResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}
