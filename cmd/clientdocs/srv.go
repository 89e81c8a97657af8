package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"clientdocs/internal/config"
	"clientdocs/internal/docstore"
	"clientdocs/internal/server"
	"clientdocs/internal/store"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the clientdocs API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}

			logger := slog.Default().With("component", "server")

			addr, err := server.ListenAddr(cfg.APIURL)
			if err != nil {
				return err
			}

			logger.Info("opening database", "path", cfg.DBPath)
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
				Logger:           slog.Default().With("component", "docstore"),
				SweepConcurrency: cfg.Sweep.Concurrency,
				ProbeTimeout:     time.Duration(cfg.Sweep.ProbeTimeoutSecs) * time.Second,
			})

			srv := server.New(addr, docs, st, server.Options{
				DBPath:             cfg.DBPath,
				BlobBackend:        cfg.Blob.Backend,
				MaxUploadBytes:     cfg.Uploads.MaxUploadBytes,
				MultipartMaxMemory: cfg.Uploads.MultipartMaxMemory,
			}, logger)
			return srv.ListenAndServe()
		},
	}
}
