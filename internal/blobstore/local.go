package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore stores blobs in a local directory tree addressed by storage
// key. Used for development and tests; production deployments use the S3
// backend.
type LocalStore struct {
	root      string
	publicURL string
}

// NewLocalStore creates a local store rooted at root. publicBaseURL is
// the base under which blobs are reachable; PublicURL joins it with the
// escaped storage key.
func NewLocalStore(root, publicBaseURL string) (*LocalStore, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("local store root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Join(abs, "tmp"), 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{root: abs, publicURL: strings.TrimRight(strings.TrimSpace(publicBaseURL), "/")}, nil
}

// Put streams bytes to a temp file and renames it into place so readers
// never observe a partial blob.
func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	if s == nil {
		return fmt.Errorf("blob store is not configured")
	}
	if r == nil {
		return fmt.Errorf("reader is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dst, err := s.pathFromKey(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Join(s.root, "tmp"), "put-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		cleanup()
		return err
	}
	return nil
}

// Open returns a reader for the blob at key.
func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if s == nil {
		return nil, fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.pathFromKey(key)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Probe stats the blob path. fs.ErrNotExist is the only evidence treated
// as definitive absence; every other stat failure is ambiguous.
func (s *LocalStore) Probe(ctx context.Context, key string) (ProbeResult, error) {
	if s == nil {
		return ProbeAmbiguous, fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return ProbeAmbiguous, err
	}
	path, err := s.pathFromKey(key)
	if err != nil {
		return ProbeAmbiguous, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return ProbeExists, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return ProbeNotFound, nil
	}
	return ProbeAmbiguous, err
}

// Delete removes a blob. Missing files are ignored.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if s == nil {
		return fmt.Errorf("blob store is not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.pathFromKey(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// PublicURL joins the configured base URL with the escaped key segments.
func (s *LocalStore) PublicURL(key string) string {
	if s == nil || s.publicURL == "" {
		return ""
	}
	parts := strings.Split(key, "/")
	escaped := make([]string, 0, len(parts))
	for _, part := range parts {
		escaped = append(escaped, url.PathEscape(part))
	}
	return s.publicURL + "/" + strings.Join(escaped, "/")
}

func (s *LocalStore) pathFromKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", fmt.Errorf("blob key is required")
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("blob key must be relative")
	}
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || clean == "tmp" || strings.HasPrefix(clean, "..") || strings.Contains(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid blob key")
	}
	return filepath.Join(s.root, clean), nil
}
