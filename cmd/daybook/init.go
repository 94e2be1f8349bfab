package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/daybook"
)

var initGit bool

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a daybook data directory",
	Long: `Init creates a data directory. Commands run inside it (or below it) use it
instead of the configured data_dir. With --git every change is committed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		} else if dataDir != "" {
			dir = dataDir
		}
		opts := []daybook.Option{
			daybook.WithLogger(slog.Default()),
			daybook.WithAutoInit(true),
			daybook.WithVersioning(initGit && !noGit),
		}
		if format != "" {
			opts = append(opts, daybook.WithFormat(format))
		}
		if _, err := daybook.Init(cmd.Context(), dir, opts...); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Initialized daybook in", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initGit, "git", false, "Version the data directory with git")
}
