package docstore

import (
	"context"
	"fmt"
	"sync"

	"clientdocs/internal/blobstore"
	"clientdocs/internal/models"
)

// SweepResult summarizes one reconciliation pass.
type SweepResult struct {
	// Scanned is the number of metadata rows examined.
	Scanned int `json:"scanned" yaml:"scanned"`
	// Deleted is the number of dangling rows reclaimed.
	Deleted int `json:"deleted" yaml:"deleted"`
	// Ambiguous is the number of rows skipped because the existence
	// probe failed for an unclear reason.
	Ambiguous int `json:"ambiguous" yaml:"ambiguous"`
	// Failed is the number of rows whose blob was confirmed missing but
	// whose row delete failed.
	Failed int `json:"failed" yaml:"failed"`
}

// Sweep scans every metadata row, probes the blob store for each
// storage key, and deletes rows whose blob is definitively missing.
//
// A row is reclaimed only on a definitive not-found answer. Ambiguous
// probe outcomes (timeouts, auth errors, network failures) leave the
// row in place for a later pass; treating them as absence would delete
// live metadata during a storage outage. Per-row failures never abort
// the pass. The whole pass is idempotent: a second sweep over an
// unchanged store deletes nothing.
func (d *DocStore) Sweep(ctx context.Context) (SweepResult, error) {
	records, err := d.meta.ListUploads(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list upload records: %w", err)
	}

	d.logger.Info("sweep started",
		"records", len(records),
		"concurrency", d.sweepConcurrency)

	sem := make(chan struct{}, d.sweepConcurrency)
	var (
		mu  sync.Mutex
		res SweepResult
		wg  sync.WaitGroup
	)

	for i := range records {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(rec models.UploadRecord) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			outcome := d.sweepOne(ctx, rec)
			mu.Lock()
			defer mu.Unlock()
			res.Scanned++
			switch outcome {
			case sweepDeleted:
				res.Deleted++
			case sweepAmbiguous:
				res.Ambiguous++
			case sweepFailed:
				res.Failed++
			}
		}(records[i])
	}
	wg.Wait()

	d.logger.Info("sweep finished",
		"scanned", res.Scanned,
		"deleted", res.Deleted,
		"ambiguous", res.Ambiguous,
		"failed", res.Failed)

	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

type sweepOutcome int

const (
	sweepKept sweepOutcome = iota
	sweepDeleted
	sweepAmbiguous
	sweepFailed
)

func (d *DocStore) sweepOne(ctx context.Context, rec models.UploadRecord) sweepOutcome {
	probeCtx, cancel := context.WithTimeout(ctx, d.probeTimeout)
	probe, err := d.blobs.Probe(probeCtx, rec.StorageKey)
	cancel()
	switch probe {
	case blobstore.ProbeExists:
		return sweepKept
	case blobstore.ProbeAmbiguous:
		d.logger.Warn("sweep: probe inconclusive, keeping row",
			"upload_id", rec.ID,
			"storage_key", rec.StorageKey,
			"error", err)
		return sweepAmbiguous
	}

	// Definitive not-found: the row is dangling.
	if err := d.meta.DeleteUpload(ctx, rec.ID); err != nil {
		d.logger.Error("sweep: row delete failed",
			"upload_id", rec.ID,
			"storage_key", rec.StorageKey,
			"error", err)
		return sweepFailed
	}
	d.logger.Info("sweep: dangling row reclaimed",
		"upload_id", rec.ID,
		"client_id", rec.ClientID,
		"storage_key", rec.StorageKey)
	return sweepDeleted
}
