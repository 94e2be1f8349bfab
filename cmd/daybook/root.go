package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/daybook"
	"github.com/aretw0/daybook/internal/config"
	"github.com/aretw0/daybook/pkg/recording"
	"github.com/aretw0/daybook/pkg/render"
)

var (
	verbose    bool
	jsonOut    bool
	dataDir    string
	configPath string
	format     string
	noGit      bool

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "daybook",
	Short: "Voice notes and a daily task list in your terminal",
	Long: `Daybook records short voice memos from your microphone and keeps them
next to a simple prioritized to-do list. Both live as plain JSON or YAML
files in a data directory, optionally versioned with git.

Run without a subcommand to show both lists.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		if err := config.LoadDotEnv(); err != nil {
			return err
		}
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		if cfg.Path != "" {
			slog.Debug("config loaded", "path", cfg.Path)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		app, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer closeApp(ctx, app)
		return renderer(cmd.OutOrStdout()).Board(app.Notes.List(), app.Tasks.List())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		var ce *recording.CaptureError
		if errors.As(err, &ce) {
			fmt.Fprintln(os.Stderr, ce.Message())
			slog.Debug("capture error", "error", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "dir", "d", "", "Data directory (default: nearest daybook, then config data_dir)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/daybook/config.toml)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "Storage format for writes: json or yaml")
	rootCmd.PersistentFlags().BoolVar(&noGit, "no-git", false, "Disable git versioning")
}

// resolveDataDir picks --dir, then a daybook found upwards from the working
// directory, then the configured data_dir.
func resolveDataDir() string {
	if dataDir != "" {
		return dataDir
	}
	if os.Getenv("DAYBOOK_DIR") == "" {
		if wd, err := os.Getwd(); err == nil {
			if root, err := daybook.FindRoot(wd); err == nil {
				return root
			}
		}
	}
	return cfg.DataDir
}

func appOptions(extra ...daybook.Option) []daybook.Option {
	opts := []daybook.Option{
		daybook.WithLogger(slog.Default()),
		daybook.WithAutoInit(true),
		daybook.WithCapturer(newCapturer()),
	}
	f := cfg.Format
	if format != "" {
		f = format
	}
	opts = append(opts, daybook.WithFormat(f))
	switch {
	case noGit:
		opts = append(opts, daybook.WithVersioning(false))
	case cfg.Versioning != nil:
		opts = append(opts, daybook.WithVersioning(*cfg.Versioning))
	}
	return append(opts, extra...)
}

func openApp(ctx context.Context, extra ...daybook.Option) (*daybook.App, error) {
	dir := resolveDataDir()
	app, err := daybook.New(ctx, dir, appOptions(extra...)...)
	if err != nil {
		return nil, fmt.Errorf("open daybook at %s: %w", dir, err)
	}
	return app, nil
}

func closeApp(ctx context.Context, app *daybook.App) {
	if err := app.Close(context.WithoutCancel(ctx)); err != nil {
		slog.Warn("failed to persist daybook", "error", err)
	}
}

func newCapturer() *recording.FFmpegCapturer {
	return recording.NewFFmpegCapturer(recording.FFmpegConfig{
		Binary:      cfg.Recording.FFmpeg,
		InputFormat: cfg.Recording.InputFormat,
		Device:      cfg.Recording.Device,
		SampleRate:  cfg.Recording.SampleRate,
		Channels:    cfg.Recording.Channels,
		Logger:      slog.Default(),
	})
}

func renderer(w io.Writer) *render.Renderer {
	if jsonOut {
		return render.NewJSON(w)
	}
	return render.New(w)
}

// changeReason attaches a conventional commit message to versioned writes.
func changeReason(ctx context.Context, ctype, scope, subject string) context.Context {
	return daybook.WithChangeReason(ctx, daybook.FormatChangeReason(ctype, scope, subject, ""))
}
