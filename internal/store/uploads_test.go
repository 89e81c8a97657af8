package store

import (
	"context"
	"testing"
	"time"

	"clientdocs/internal/models"
)

func insertTestUpload(t *testing.T, st *Store, clientID, key string, at time.Time) *models.UploadRecord {
	t.Helper()
	rec := &models.UploadRecord{
		ClientID:   clientID,
		StorageKey: key,
		FileName:   "report.pdf",
		MimeType:   "application/pdf",
		SizeBytes:  1024,
		UploadedAt: at,
	}
	if err := st.InsertUpload(context.Background(), rec); err != nil {
		t.Fatalf("insert upload: %v", err)
	}
	return rec
}

func TestInsertAndGetUpload(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	rec := &models.UploadRecord{
		ClientID:   "acme",
		StorageKey: "acme/1700000000000-ab12cd_report.pdf",
		FileName:   "report.pdf",
		MimeType:   "application/pdf",
		SizeBytes:  2048,
		UploadedBy: "u-1",
	}
	if err := st.InsertUpload(ctx, rec); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("expected generated id")
	}
	if rec.UploadedAt.IsZero() {
		t.Fatal("expected uploaded_at to be set")
	}

	got, err := st.GetUpload(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected record")
	}
	if got.StorageKey != rec.StorageKey {
		t.Fatalf("storage key mismatch: %q vs %q", got.StorageKey, rec.StorageKey)
	}
	if got.MimeType != "application/pdf" || got.SizeBytes != 2048 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if got.UploadedBy != "u-1" {
		t.Fatalf("uploaded_by mismatch: %q", got.UploadedBy)
	}
}

func TestGetUploadMissing(t *testing.T) {
	st := testStore(t)

	got, err := st.GetUpload(context.Background(), "no-such-id")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing record, got %+v", got)
	}
}

func TestInsertUploadRejectsDuplicateKey(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	insertTestUpload(t, st, "acme", "acme/1-aa_r.pdf", time.Now())
	err := st.InsertUpload(ctx, &models.UploadRecord{
		ClientID:   "acme",
		StorageKey: "acme/1-aa_r.pdf",
		FileName:   "r.pdf",
	})
	if err == nil {
		t.Fatal("expected unique constraint error for duplicate storage key")
	}
}

func TestListUploadsByClientOrdering(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	oldest := insertTestUpload(t, st, "acme", "acme/1-aa_a.pdf", base)
	newest := insertTestUpload(t, st, "acme", "acme/3-cc_c.pdf", base.Add(2*time.Hour))
	middle := insertTestUpload(t, st, "acme", "acme/2-bb_b.pdf", base.Add(time.Hour))
	insertTestUpload(t, st, "other", "other/1-dd_d.pdf", base.Add(3*time.Hour))

	got, err := st.ListUploadsByClient(ctx, "acme")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 uploads for acme, got %d", len(got))
	}
	wantOrder := []string{newest.ID, middle.ID, oldest.ID}
	for i, want := range wantOrder {
		if got[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, got[i].ID)
		}
	}
}

func TestListUploadsByClientUploaderName(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if err := st.UpsertUploader(ctx, &models.Uploader{ID: "u-1", DisplayName: "Dana Ops"}); err != nil {
		t.Fatalf("upsert uploader: %v", err)
	}
	if err := st.InsertUpload(ctx, &models.UploadRecord{
		ClientID:   "acme",
		StorageKey: "acme/1-aa_a.pdf",
		FileName:   "a.pdf",
		UploadedBy: "u-1",
	}); err != nil {
		t.Fatalf("insert known uploader: %v", err)
	}
	if err := st.InsertUpload(ctx, &models.UploadRecord{
		ClientID:   "acme",
		StorageKey: "acme/2-bb_b.pdf",
		FileName:   "b.pdf",
		UploadedBy: "u-unknown",
	}); err != nil {
		t.Fatalf("insert unknown uploader: %v", err)
	}

	got, err := st.ListUploadsByClient(ctx, "acme")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(got))
	}
	byKey := map[string]string{}
	for _, u := range got {
		byKey[u.StorageKey] = u.UploaderName
	}
	if byKey["acme/1-aa_a.pdf"] != "Dana Ops" {
		t.Fatalf("expected joined uploader name, got %q", byKey["acme/1-aa_a.pdf"])
	}
	if byKey["acme/2-bb_b.pdf"] != "" {
		t.Fatalf("expected empty name for unknown uploader, got %q", byKey["acme/2-bb_b.pdf"])
	}
}

func TestListUploadsFullScan(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	insertTestUpload(t, st, "acme", "acme/1-aa_a.pdf", time.Now())
	insertTestUpload(t, st, "other", "other/1-bb_b.pdf", time.Now())

	got, err := st.ListUploads(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected full scan of 2 records, got %d", len(got))
	}
}

func TestDeleteUploadIdempotent(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	rec := insertTestUpload(t, st, "acme", "acme/1-aa_a.pdf", time.Now())

	if err := st.DeleteUpload(ctx, rec.ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	got, err := st.GetUpload(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Fatal("expected record gone after delete")
	}

	// Deleting an already-deleted row is not an error.
	if err := st.DeleteUpload(ctx, rec.ID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestInsertUploadValidates(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	err := st.InsertUpload(ctx, &models.UploadRecord{
		ClientID:   "../etc",
		StorageKey: "k",
		FileName:   "f.pdf",
	})
	if err == nil {
		t.Fatal("expected validation error for client id with path separator")
	}
}
