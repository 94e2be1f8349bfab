package platform

import (
	"log/slog"

	"github.com/aretw0/daybook/pkg/core"
	"github.com/aretw0/daybook/pkg/recording"
)

// options holds the internal configuration for a daybook.
type options struct {
	repository core.Repository
	logger     *slog.Logger
	capturer   recording.Capturer
	observer   func(recording.Transition)
	clock      core.Clock
	ids        core.IDGenerator
	config     map[string]any
}

// Option defines a functional option for configuring a daybook.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		config: make(map[string]any),
	}
}

func (o *options) apply(opts []Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithFormat selects the blob format for new writes: "json" (default) or "yaml".
func WithFormat(format string) Option {
	return func(o *options) {
		o.config["format"] = format
	}
}

// WithAutoInit creates the data directory (and git repository when versioned) if missing.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.config["auto_init"] = auto
	}
}

// WithVersioning enables or disables git history of the data directory.
// When not set, versioning follows whether the directory is already a git repository.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.config["gitless"] = !enabled
	}
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return func(o *options) {
		o.config["temp_dir"] = force
	}
}

// WithMustExist requires the data directory to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithReadOnly opens the data directory without writing to it.
// Dev safety is bypassed since nothing can be modified.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithDevSafety controls re-rooting into the temp dir under `go run` and `go test`.
// Enabled by default.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.config["dev_safety"] = enabled
	}
}

// WithSystemDir sets the hidden directory name. Defaults to ".daybook".
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithEventBuffer sets the watch channel size. Zero means default (100).
func WithEventBuffer(size int) Option {
	return func(o *options) {
		o.config["event_buffer"] = size
	}
}

// WithWatcherErrorHandler receives runtime failures of the data directory watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository injects a storage adapter, skipping the filesystem one.
func WithRepository(repo core.Repository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithCapturer replaces the ffmpeg microphone backend.
func WithCapturer(c recording.Capturer) Option {
	return func(o *options) {
		o.capturer = c
	}
}

// WithRecordingObserver receives every recording session transition.
func WithRecordingObserver(fn func(recording.Transition)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// WithClock replaces the wall clock.
func WithClock(c core.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

// WithIDGenerator replaces the id strategy chosen at startup.
func WithIDGenerator(g core.IDGenerator) Option {
	return func(o *options) {
		o.ids = g
	}
}
