package platform

import (
	"context"
	"log/slog"

	"github.com/aretw0/daybook/pkg/core"
	"github.com/aretw0/daybook/pkg/recording"
)

// New opens the daybook at uri and wires its stores.
//
//	app, err := daybook.New(ctx, "./journal", daybook.WithVersioning(false))
//
// The id strategy and the clock are selected once here.
func New(ctx context.Context, uri string, opts ...Option) (*App, error) {
	o := defaultOptions().apply(opts)

	repo, err := initRepository(ctx, uri, o)
	if err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clock := o.clock
	if clock == nil {
		clock = core.SystemClock
	}
	ids := o.ids
	if ids == nil {
		ids = core.SelectIDGenerator(clock)
	}
	capturer := o.capturer
	if capturer == nil {
		capturer = recording.NewFFmpegCapturer(recording.FFmpegConfig{Logger: logger})
	}

	app := &App{
		Repo:     repo,
		Notes:    core.OpenNoteStore(ctx, repo, logger),
		Tasks:    core.OpenTaskStore(ctx, repo, logger),
		Clock:    clock,
		IDs:      ids,
		logger:   logger,
		capturer: capturer,
		observer: o.observer,
	}
	logger.Debug("daybook opened", "notes", app.Notes.Len(), "tasks", app.Tasks.Len())
	return app, nil
}
