package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/daybook/pkg/adapters/lifecycle"
)

const clearScreen = "\033[H\033[2J"

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Show both lists and redraw when they change",
	Long: `Watch renders voice notes and tasks, then redraws whenever another daybook
command (or a sync) changes the data directory. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer closeApp(ctx, app)

		out := cmd.OutOrStdout()
		r := renderer(out)
		draw := func() error {
			if !jsonOut {
				fmt.Fprint(out, clearScreen)
			}
			return r.Board(app.Notes.List(), app.Tasks.List())
		}
		if err := draw(); err != nil {
			return err
		}

		changes, err := app.Watch(ctx)
		if err != nil {
			return err
		}
		source := lifecycle.NewSource(changes)
		if err := source.Start(ctx); err != nil {
			return err
		}
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-source.Events():
				if !ok {
					return nil
				}
				slog.Debug("data changed", "event", ev.String())
				app.Reload(ctx)
				if err := draw(); err != nil {
					return err
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
