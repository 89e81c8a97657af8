package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func testDocStore(t *testing.T) (*DocStore, *fakeBlobStore, *fakeMetaStore) {
	t.Helper()
	blobs := newFakeBlobStore()
	meta := newFakeMetaStore()
	ds := New(blobs, meta, Options{SweepConcurrency: 2})
	return ds, blobs, meta
}

func writeTestDoc(t *testing.T, ds *DocStore, clientID, fileName string) string {
	t.Helper()
	rec, err := ds.Write(context.Background(), WriteRequest{
		ClientID:  clientID,
		FileName:  fileName,
		MimeType:  "text/plain",
		SizeBytes: 5,
		Content:   strings.NewReader("hello"),
	})
	if err != nil {
		t.Fatalf("write %s/%s: %v", clientID, fileName, err)
	}
	return rec.ID
}

func writeTestDocBy(t *testing.T, ds *DocStore, clientID, fileName, uploadedBy string) string {
	t.Helper()
	rec, err := ds.Write(context.Background(), WriteRequest{
		ClientID:   clientID,
		FileName:   fileName,
		MimeType:   "text/plain",
		SizeBytes:  5,
		UploadedBy: uploadedBy,
		Content:    strings.NewReader("hello"),
	})
	if err != nil {
		t.Fatalf("write %s/%s: %v", clientID, fileName, err)
	}
	return rec.ID
}

func TestWriteStoresBlobAndRow(t *testing.T) {
	ds, blobs, meta := testDocStore(t)

	rec, err := ds.Write(context.Background(), WriteRequest{
		ClientID:   "acme",
		FileName:   "annual report.pdf",
		MimeType:   "application/pdf",
		SizeBytes:  5,
		UploadedBy: "u-1",
		Content:    strings.NewReader("hello"),
	})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("expected record id")
	}
	if !strings.HasPrefix(rec.StorageKey, "acme/") {
		t.Fatalf("expected client-prefixed key, got %q", rec.StorageKey)
	}
	if strings.Contains(rec.StorageKey, " ") {
		t.Fatalf("expected sanitized key, got %q", rec.StorageKey)
	}
	if rec.FileName != "annual report.pdf" {
		t.Fatalf("original file name must survive in metadata, got %q", rec.FileName)
	}
	if !blobs.has(rec.StorageKey) {
		t.Fatal("blob missing after write")
	}
	if meta.count() != 1 {
		t.Fatalf("expected 1 metadata row, got %d", meta.count())
	}
}

func TestWriteBlobFailureLeavesNoRow(t *testing.T) {
	ds, blobs, meta := testDocStore(t)
	blobs.putErr = fmt.Errorf("bucket unavailable")

	_, err := ds.Write(context.Background(), WriteRequest{
		ClientID: "acme",
		FileName: "a.pdf",
		Content:  strings.NewReader("hello"),
	})
	var bwErr *BlobWriteError
	if !errors.As(err, &bwErr) {
		t.Fatalf("expected BlobWriteError, got %v", err)
	}
	if meta.count() != 0 {
		t.Fatal("metadata row must not exist when the blob write failed")
	}
}

func TestWriteMetadataFailureKeepsBlobAndSupportsRetry(t *testing.T) {
	ds, blobs, meta := testDocStore(t)
	meta.insertErr = fmt.Errorf("database is locked")

	_, err := ds.Write(context.Background(), WriteRequest{
		ClientID:  "acme",
		FileName:  "a.pdf",
		SizeBytes: 5,
		Content:   strings.NewReader("hello"),
	})
	var mwErr *MetadataWriteError
	if !errors.As(err, &mwErr) {
		t.Fatalf("expected MetadataWriteError, got %v", err)
	}
	if mwErr.StorageKey == "" || mwErr.Pending == nil {
		t.Fatalf("error must carry the key and pending record: %+v", mwErr)
	}
	if !blobs.has(mwErr.StorageKey) {
		t.Fatal("blob must remain stored when only the insert failed")
	}

	// Retry re-runs the insert alone.
	meta.insertErr = nil
	putsBefore := blobs.has(mwErr.StorageKey)
	rec, err := ds.RetryMetadata(context.Background(), mwErr)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !putsBefore || rec.StorageKey != mwErr.StorageKey {
		t.Fatalf("retry must reuse the stored blob key, got %q", rec.StorageKey)
	}
	if meta.count() != 1 {
		t.Fatalf("expected 1 row after retry, got %d", meta.count())
	}
}

func TestRetryMetadataStillFailing(t *testing.T) {
	ds, _, meta := testDocStore(t)
	meta.insertErr = fmt.Errorf("database is locked")

	_, err := ds.Write(context.Background(), WriteRequest{
		ClientID: "acme",
		FileName: "a.pdf",
		Content:  strings.NewReader("hello"),
	})
	var mwErr *MetadataWriteError
	if !errors.As(err, &mwErr) {
		t.Fatalf("expected MetadataWriteError, got %v", err)
	}

	_, err = ds.RetryMetadata(context.Background(), mwErr)
	var again *MetadataWriteError
	if !errors.As(err, &again) {
		t.Fatalf("expected MetadataWriteError on failed retry, got %v", err)
	}
	if again.StorageKey != mwErr.StorageKey {
		t.Fatalf("retry error must carry the same key: %q vs %q", again.StorageKey, mwErr.StorageKey)
	}
}

func TestWriteValidatesInput(t *testing.T) {
	ds, _, _ := testDocStore(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  WriteRequest
	}{
		{"empty client", WriteRequest{FileName: "a.pdf", Content: strings.NewReader("x")}},
		{"client with slash", WriteRequest{ClientID: "a/b", FileName: "a.pdf", Content: strings.NewReader("x")}},
		{"empty file name", WriteRequest{ClientID: "acme", Content: strings.NewReader("x")}},
		{"nil content", WriteRequest{ClientID: "acme", FileName: "a.pdf"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ds.Write(ctx, tc.req); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
