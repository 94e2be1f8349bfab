package daybook

import (
	"context"
	"log/slog"

	"github.com/aretw0/daybook/internal/platform"
	"github.com/aretw0/daybook/pkg/core"
	"github.com/aretw0/daybook/pkg/git"
	"github.com/aretw0/daybook/pkg/recording"
)

// --- Types ---

// App is an open daybook.
type App = platform.App

// VoiceNote is a recorded memo.
type VoiceNote = core.VoiceNote

// Task is a to-do item.
type Task = core.Task

// TaskDraft is a task form submission.
type TaskDraft = core.TaskDraft

// --- Configuration ---

// Option defines a functional option for configuring a daybook.
type Option = platform.Option

// WithFormat selects "json" (default) or "yaml" for new writes.
func WithFormat(format string) Option {
	return platform.WithFormat(format)
}

// WithAutoInit creates the data directory if it is missing.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithVersioning enables or disables git history of the data directory.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist requires the data directory to exist already.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithReadOnly opens the data directory without writing to it.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the temp-dir sandbox used under `go run`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithSystemDir sets the hidden directory name (default ".daybook").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithEventBuffer sets the watch channel size.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithWatcherErrorHandler receives runtime watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository injects a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithCapturer replaces the ffmpeg microphone backend.
func WithCapturer(c recording.Capturer) Option {
	return platform.WithCapturer(c)
}

// WithRecordingObserver receives recording session transitions.
func WithRecordingObserver(fn func(recording.Transition)) Option {
	return platform.WithRecordingObserver(fn)
}

// WithClock replaces the wall clock.
func WithClock(c core.Clock) Option {
	return platform.WithClock(c)
}

// WithIDGenerator replaces the id strategy.
func WithIDGenerator(g core.IDGenerator) Option {
	return platform.WithIDGenerator(g)
}

// --- Factory ---

// New opens the daybook at path.
func New(ctx context.Context, path string, opts ...Option) (*App, error) {
	return platform.New(ctx, path, opts...)
}

// Init initializes a data directory explicitly and returns its repository.
func Init(ctx context.Context, path string, opts ...Option) (core.Repository, error) {
	return platform.Init(ctx, path, opts...)
}

// --- Operations ---

// Sync pulls and pushes a versioned data directory.
func Sync(ctx context.Context, path string, opts ...Option) error {
	return platform.Sync(ctx, path, opts...)
}

// --- Safety & Utils ---

// ResolveDataPath applies the dev-run sandbox to a data directory path.
func ResolveDataPath(userPath string, forceTemp bool) string {
	return platform.ResolveDataPath(userPath, forceTemp)
}

// IsDevRun reports whether the process runs via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards from startDir for a directory holding a daybook.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir, "")
}

// --- Change reasons ---

// WithChangeReason sets the commit message used when a versioned write is recorded.
func WithChangeReason(ctx context.Context, reason string) context.Context {
	return context.WithValue(ctx, core.ChangeReasonKey, reason)
}

// FormatChangeReason builds a Conventional Commit message.
func FormatChangeReason(ctype, scope, subject, body string) string {
	return git.FormatChangeReason(ctype, scope, subject, body)
}

const (
	CommitTypeFeat  = git.CommitTypeFeat
	CommitTypeFix   = git.CommitTypeFix
	CommitTypeChore = git.CommitTypeChore
)
