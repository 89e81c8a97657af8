package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"clientdocs/internal/api"
	"clientdocs/internal/auth"
	"clientdocs/internal/config"
)

func newAdminCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administrative operations",
	}

	cmd.AddCommand(newAdminSweepCmd(cfg, jsonOutput))
	cmd.AddCommand(newAdminHashTokenCmd())
	return cmd
}

// newAdminSweepCmd triggers a sweep on a running server, as opposed to
// the top-level sweep command which opens the store directly.
func newAdminSweepCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Trigger a reconciliation pass on the running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.AdminSweep(cmd.Context())
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writePlain("scanned %d, deleted %d, ambiguous %d, failed %d\n",
					resp.Scanned, resp.Deleted, resp.Ambiguous, resp.Failed)
			})
		},
	}
}

// newAdminHashTokenCmd hashes an admin token for use as
// CLIENTDOCS_ADMIN_TOKEN_HASH. The token is read from the environment
// so it never lands in shell history.
func newAdminHashTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-token",
		Short: "Hash the admin token from CLIENTDOCS_ADMIN_TOKEN",
		RunE: func(cmd *cobra.Command, args []string) error {
			token := strings.TrimSpace(os.Getenv("CLIENTDOCS_ADMIN_TOKEN"))
			if token == "" {
				return fmt.Errorf("CLIENTDOCS_ADMIN_TOKEN is not set")
			}
			hash, err := auth.HashToken(token)
			if err != nil {
				return err
			}
			return writePlain("%s\n", hash)
		},
	}
}
