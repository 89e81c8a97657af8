package main

import (
	"fmt"
	"os"
	"time"

	"clientdocs/internal/api"
	"clientdocs/internal/format"
)

var outputFormatter format.Formatter = format.JSONFormatter{}

func writeJSON(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

func writeUploadList(uploads []api.UploadResponse) error {
	for _, upload := range uploads {
		if err := writePlain("%s\n", formatUploadLine(upload)); err != nil {
			return err
		}
	}
	return nil
}

func writeUploadDetail(upload api.UploadResponse) error {
	lines := []string{
		fmt.Sprintf("id: %s", upload.ID),
		fmt.Sprintf("client_id: %s", upload.ClientID),
		fmt.Sprintf("file_name: %s", upload.FileName),
		fmt.Sprintf("mime_type: %s", upload.MimeType),
		fmt.Sprintf("size_bytes: %d", upload.SizeBytes),
		fmt.Sprintf("uploaded_at: %s", formatTime(upload.UploadedAt)),
		fmt.Sprintf("storage_key: %s", upload.StorageKey),
	}
	if upload.UploadedBy != "" {
		lines = append(lines, fmt.Sprintf("uploaded_by: %s", upload.UploadedBy))
	}
	if upload.UploaderName != "" {
		lines = append(lines, fmt.Sprintf("uploader_name: %s", upload.UploaderName))
	}
	if upload.PublicURL != "" {
		lines = append(lines, fmt.Sprintf("public_url: %s", upload.PublicURL))
	}

	for _, line := range lines {
		if err := writePlain("%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func formatUploadLine(upload api.UploadResponse) string {
	name := upload.UploaderName
	if name == "" {
		name = upload.UploadedBy
	}
	if name == "" {
		name = "unknown"
	}
	return fmt.Sprintf("%s  %s  %d bytes  %s  by %s",
		upload.ID, upload.FileName, upload.SizeBytes, formatTime(upload.UploadedAt), name)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
