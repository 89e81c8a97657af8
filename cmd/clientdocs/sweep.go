package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"clientdocs/internal/config"
	"clientdocs/internal/docstore"
	"clientdocs/internal/store"
)

// sweepReport is the YAML document written by --report.
type sweepReport struct {
	DBPath      string               `yaml:"db_path"`
	BlobBackend string               `yaml:"blob_backend"`
	Concurrency int                  `yaml:"concurrency"`
	Result      docstore.SweepResult `yaml:"result"`
}

func newSweepCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		reportPath  string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Reconcile metadata rows against the blob store",
		Long: `Sweep scans every upload record, probes the blob store for each
storage key, and deletes records whose blob is definitively missing.
Records whose probe fails for an unclear reason are left untouched.
The pass is idempotent and safe to re-run at any time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}
			workers := concurrency
			if workers <= 0 {
				workers = cfg.Sweep.Concurrency
			}

			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			blobs, err := openBlobStore(cfg)
			if err != nil {
				return err
			}

			docs := docstore.New(blobs, st, docstore.Options{
				Logger:           slog.Default().With("component", "sweep"),
				SweepConcurrency: workers,
				ProbeTimeout:     time.Duration(cfg.Sweep.ProbeTimeoutSecs) * time.Second,
			})

			result, err := docs.Sweep(cmd.Context())
			if err != nil {
				return err
			}

			if reportPath != "" {
				report := sweepReport{
					DBPath:      cfg.DBPath,
					BlobBackend: cfg.Blob.Backend,
					Concurrency: workers,
					Result:      result,
				}
				if err := writeSweepReport(reportPath, report); err != nil {
					return err
				}
			}

			if *jsonOutput {
				return writeJSON(result)
			}
			return writePlain("scanned %d, deleted %d, ambiguous %d, failed %d\n",
				result.Scanned, result.Deleted, result.Ambiguous, result.Failed)
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "write a YAML run summary to this file")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel probes (defaults to sweep.concurrency)")
	return cmd
}

func writeSweepReport(path string, report sweepReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	defer enc.Close()
	return enc.Encode(report)
}
