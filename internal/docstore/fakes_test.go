package docstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"clientdocs/internal/blobstore"
	"clientdocs/internal/models"
	"clientdocs/internal/store"
)

// fakeBlobStore is an in-memory blob store with per-operation error
// injection for exercising partial-failure paths.
type fakeBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte

	putErr    error
	deleteErr error
	// ambiguousKeys makes Probe return ProbeAmbiguous for these keys.
	ambiguousKeys map[string]bool

	probeCalls int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{
		blobs:         map[string][]byte{},
		ambiguousKeys: map[string]bool{},
	}
}

func (f *fakeBlobStore) Put(ctx context.Context, key string, r io.Reader, contentType string) error {
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blobs[key] = data
	return nil
}

func (f *fakeBlobStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[key]
	if !ok {
		return nil, fmt.Errorf("no blob at %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBlobStore) Probe(ctx context.Context, key string) (blobstore.ProbeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probeCalls++
	if f.ambiguousKeys[key] {
		return blobstore.ProbeAmbiguous, fmt.Errorf("injected probe failure for %s", key)
	}
	if _, ok := f.blobs[key]; ok {
		return blobstore.ProbeExists, nil
	}
	return blobstore.ProbeNotFound, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, key string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blobs, key)
	return nil
}

func (f *fakeBlobStore) PublicURL(key string) string {
	return "https://blobs.example.test/" + key
}

// drop removes a blob behind the metadata store's back, simulating an
// out-of-band storage deletion.
func (f *fakeBlobStore) drop(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.blobs, key)
}

func (f *fakeBlobStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blobs[key]
	return ok
}

var _ blobstore.BlobStore = (*fakeBlobStore)(nil)

// fakeMetaStore is an in-memory UploadStore with error injection.
type fakeMetaStore struct {
	mu        sync.Mutex
	uploads   map[string]models.UploadRecord
	uploaders map[string]models.Uploader
	nextID    int

	insertErr error
	deleteErr error
	// deleteErrIDs fails DeleteUpload only for these ids.
	deleteErrIDs map[string]error
}

func newFakeMetaStore() *fakeMetaStore {
	return &fakeMetaStore{
		uploads:      map[string]models.UploadRecord{},
		uploaders:    map[string]models.Uploader{},
		deleteErrIDs: map[string]error{},
	}
}

func (f *fakeMetaStore) InsertUpload(ctx context.Context, record *models.UploadRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if record.ID == "" {
		f.nextID++
		record.ID = fmt.Sprintf("up-%04d", f.nextID)
	}
	f.uploads[record.ID] = *record
	return nil
}

func (f *fakeMetaStore) GetUpload(ctx context.Context, id string) (*models.UploadRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.uploads[id]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (f *fakeMetaStore) ListUploadsByClient(ctx context.Context, clientID string) ([]store.UploadWithUploader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []store.UploadWithUploader
	for _, rec := range f.uploads {
		if rec.ClientID != clientID {
			continue
		}
		row := store.UploadWithUploader{UploadRecord: rec}
		if up, ok := f.uploaders[rec.UploadedBy]; ok {
			row.UploaderName = up.DisplayName
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UploadedAt.Equal(out[j].UploadedAt) {
			return out[i].UploadedAt.After(out[j].UploadedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeMetaStore) ListUploads(ctx context.Context) ([]models.UploadRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.UploadRecord, 0, len(f.uploads))
	for _, rec := range f.uploads {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeMetaStore) DeleteUpload(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.deleteErrIDs[id]; ok {
		return err
	}
	delete(f.uploads, id)
	return nil
}

func (f *fakeMetaStore) UpsertUploader(ctx context.Context, uploader *models.Uploader) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaders[uploader.ID] = *uploader
	return nil
}

func (f *fakeMetaStore) GetUploader(ctx context.Context, id string) (*models.Uploader, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	up, ok := f.uploaders[id]
	if !ok {
		return nil, nil
	}
	return &up, nil
}

func (f *fakeMetaStore) StoreInfo(ctx context.Context) (store.Info, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return store.Info{SchemaVersion: 1, TotalUploads: len(f.uploads)}, nil
}

func (f *fakeMetaStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.uploads)
}

var _ store.UploadStore = (*fakeMetaStore)(nil)
