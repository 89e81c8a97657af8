package store

import (
	"context"
	"testing"

	"clientdocs/internal/models"
)

func TestUpsertUploader(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if err := st.UpsertUploader(ctx, &models.Uploader{ID: "u-1", DisplayName: "Dana Ops"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := st.UpsertUploader(ctx, &models.Uploader{ID: "u-1", DisplayName: "Dana Operations"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := st.GetUploader(ctx, "u-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected uploader")
	}
	if got.DisplayName != "Dana Operations" {
		t.Fatalf("expected updated display name, got %q", got.DisplayName)
	}
}

func TestGetUploaderMissing(t *testing.T) {
	st := testStore(t)

	got, err := st.GetUploader(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing uploader, got %+v", got)
	}
}
