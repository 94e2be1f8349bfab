package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/daybook"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize a versioned data directory with its remote",
	Long: `Sync pulls remote changes (rebasing local commits) and pushes the result.
The data directory must be a git repository with a remote configured.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := resolveDataDir()
		fmt.Fprintln(cmd.ErrOrStderr(), "Syncing...")
		if err := daybook.Sync(cmd.Context(), dir, daybook.WithLogger(slog.Default())); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Tip: Ensure a remote is configured ('git remote add origin <url>') and you are online.")
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Sync completed successfully.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
