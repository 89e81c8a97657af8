package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"clientdocs/internal/api"
	"clientdocs/internal/config"
)

func newUploadCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		uploadedBy string
		mimeType   string
		fileName   string
	)

	cmd := &cobra.Command{
		Use:   "upload <client-id> <file>",
		Short: "Upload a document for a client",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clientID, path := args[0], args[1]

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			name := fileName
			if name == "" {
				name = filepath.Base(path)
			}

			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.Upload(cmd.Context(), clientID, name, mimeType, uploadedBy, f)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writePlain("uploaded %s as %s\n", resp.FileName, resp.ID)
			})
		},
	}

	cmd.Flags().StringVar(&uploadedBy, "uploaded-by", "", "id of the acting user")
	cmd.Flags().StringVar(&mimeType, "mime-type", "", "declared MIME type (sniffed when empty)")
	cmd.Flags().StringVar(&fileName, "file-name", "", "display name (defaults to the file's base name)")
	return cmd
}

func newListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list <client-id>",
		Short: "List a client's documents, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.ListUploads(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writeUploadList(resp)
			})
		},
	}
}

func newShowCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show <upload-id>",
		Short: "Show one document's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.GetUpload(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writeUploadDetail(resp)
			})
		},
	}
}

func newGetCmd(cfg *config.Config) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "get <upload-id>",
		Short: "Download a document's content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				if outPath == "" || outPath == "-" {
					return client.Download(cmd.Context(), args[0], os.Stdout)
				}
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				if err := client.Download(cmd.Context(), args[0], f); err != nil {
					f.Close()
					return err
				}
				return f.Close()
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write content to file instead of stdout")
	return cmd
}

func newRmCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <upload-id>",
		Short: "Remove a document and its metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				if err := client.RemoveUpload(cmd.Context(), args[0]); err != nil {
					return err
				}
				return writePlain("removed %s\n", args[0])
			})
		},
	}
}

func newUploaderCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uploader",
		Short: "Manage uploader display names",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <id> <display-name>",
		Short: "Register or rename an uploader",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.UpsertUploader(cmd.Context(), api.UploaderUpsertRequest{
					ID:          args[0],
					DisplayName: args[1],
				})
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writePlain("%s -> %s\n", resp.ID, resp.DisplayName)
			})
		},
	})

	return cmd
}

func newInfoCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show server state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.GetInfo(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writePlain("db: %s\nbackend: %s\nschema: %d\nuploads: %d\n",
					resp.DBPath, resp.BlobBackend, resp.SchemaVersion, resp.TotalUploads)
			})
		},
	}
}
