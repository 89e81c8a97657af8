package main

import (
	"path/filepath"
	"strings"

	"clientdocs/internal/blobstore"
	"clientdocs/internal/config"
)

// openBlobStore builds the configured blob backend.
func openBlobStore(cfg *config.Config) (blobstore.BlobStore, error) {
	if cfg.Blob.Backend == config.BlobBackendS3 {
		return blobstore.NewS3Store(blobstore.S3Options{
			Endpoint:        cfg.Blob.S3.Endpoint,
			Region:          cfg.Blob.S3.Region,
			Bucket:          cfg.Blob.S3.Bucket,
			AccessKeyID:     cfg.Blob.S3.AccessKeyID,
			SecretAccessKey: cfg.Blob.S3.SecretAccessKey,
			PublicBaseURL:   cfg.Blob.PublicBaseURL,
		})
	}

	root := cfg.Blob.LocalRoot
	if root == "" {
		root = filepath.Join(filepath.Dir(cfg.DBPath), ".clientdocs", "blobs")
	}
	publicBase := cfg.Blob.PublicBaseURL
	if publicBase == "" {
		publicBase = strings.TrimRight(cfg.APIURL, "/") + "/blobs"
	}
	return blobstore.NewLocalStore(root, publicBase)
}
