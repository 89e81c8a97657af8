package docstore

import (
	"context"
	"errors"
	"testing"
)

func TestSweepReclaimsOnlyDanglingRows(t *testing.T) {
	ds, blobs, meta := testDocStore(t)
	ctx := context.Background()

	// A: healthy. B: dangling (blob dropped out of band). C: probe
	// failure, must be left alone.
	writeTestDoc(t, ds, "acme", "a.pdf")
	idB := writeTestDoc(t, ds, "acme", "b.pdf")
	idC := writeTestDoc(t, ds, "acme", "c.pdf")

	recB, _ := meta.GetUpload(ctx, idB)
	blobs.drop(recB.StorageKey)
	recC, _ := meta.GetUpload(ctx, idC)
	blobs.ambiguousKeys[recC.StorageKey] = true

	res, err := ds.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Scanned != 3 {
		t.Fatalf("expected 3 scanned, got %+v", res)
	}
	if res.Deleted != 1 {
		t.Fatalf("expected 1 deleted, got %+v", res)
	}
	if res.Ambiguous != 1 {
		t.Fatalf("expected 1 ambiguous, got %+v", res)
	}
	if res.Failed != 0 {
		t.Fatalf("expected 0 failed, got %+v", res)
	}

	if rec, _ := meta.GetUpload(ctx, idB); rec != nil {
		t.Fatal("dangling row must be reclaimed")
	}
	if rec, _ := meta.GetUpload(ctx, idC); rec == nil {
		t.Fatal("row with ambiguous probe must survive")
	}
	if meta.count() != 2 {
		t.Fatalf("expected 2 rows left, got %d", meta.count())
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	ds, blobs, meta := testDocStore(t)
	ctx := context.Background()

	writeTestDoc(t, ds, "acme", "a.pdf")
	idB := writeTestDoc(t, ds, "acme", "b.pdf")
	recB, _ := meta.GetUpload(ctx, idB)
	blobs.drop(recB.StorageKey)

	first, err := ds.Sweep(ctx)
	if err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	if first.Deleted != 1 {
		t.Fatalf("expected 1 deleted on first pass, got %+v", first)
	}

	second, err := ds.Sweep(ctx)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if second.Deleted != 0 || second.Failed != 0 || second.Ambiguous != 0 {
		t.Fatalf("second pass over unchanged store must be a no-op, got %+v", second)
	}
	if second.Scanned != 1 {
		t.Fatalf("expected 1 scanned on second pass, got %+v", second)
	}
}

func TestSweepEmptyStore(t *testing.T) {
	ds, _, _ := testDocStore(t)

	res, err := ds.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res != (SweepResult{}) {
		t.Fatalf("expected zero result, got %+v", res)
	}
}

func TestSweepRowDeleteFailureIsNonFatal(t *testing.T) {
	ds, blobs, meta := testDocStore(t)
	ctx := context.Background()

	idA := writeTestDoc(t, ds, "acme", "a.pdf")
	idB := writeTestDoc(t, ds, "acme", "b.pdf")
	for _, id := range []string{idA, idB} {
		rec, _ := meta.GetUpload(ctx, id)
		blobs.drop(rec.StorageKey)
	}
	meta.deleteErrIDs[idA] = errors.New("database is locked")

	res, err := ds.Sweep(ctx)
	if err != nil {
		t.Fatalf("per-row failures must not abort the sweep: %v", err)
	}
	if res.Scanned != 2 || res.Deleted != 1 || res.Failed != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if rec, _ := meta.GetUpload(ctx, idA); rec == nil {
		t.Fatal("row with failed delete must survive this pass")
	}
}

func TestSweepHonorsCancellation(t *testing.T) {
	ds, _, _ := testDocStore(t)

	for i := 0; i < 5; i++ {
		writeTestDoc(t, ds, "acme", "doc.pdf")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ds.Sweep(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
