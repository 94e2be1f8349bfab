package platform

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/daybook/pkg/adapters/fs"
	"github.com/aretw0/daybook/pkg/core"
	"github.com/aretw0/daybook/pkg/recording"
)

// CollectionPattern matches the keys of both collections.
const CollectionPattern = "daily-*"

// App is an open daybook: both stores plus the recording session.
type App struct {
	Repo  core.Repository
	Notes *core.NoteStore
	Tasks *core.TaskStore
	Clock core.Clock
	IDs   core.IDGenerator

	logger   *slog.Logger
	capturer recording.Capturer
	observer func(recording.Transition)

	mu      sync.Mutex
	session *recording.Session
}

// Session returns the recording session, probing capture capability on first use.
func (a *App) Session() *recording.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		a.session = recording.NewSession(recording.Config{
			Capturer: a.capturer,
			Notes:    a.Notes,
			IDs:      a.IDs,
			Clock:    a.Clock,
			Logger:   a.logger,
			Observer: a.observer,
		})
	}
	return a.session
}

// activeSession returns the session only if it was already created.
func (a *App) activeSession() *recording.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// Path is the data directory, empty for injected repositories.
func (a *App) Path() string {
	if r, ok := a.Repo.(*fs.Repository); ok {
		return r.Path
	}
	return ""
}

// AddTask submits the task form.
func (a *App) AddTask(ctx context.Context, draft core.TaskDraft) (core.Task, error) {
	return a.Tasks.Submit(ctx, draft, a.IDs, a.Clock.Now())
}

// NoteToTask prefills a task from a voice note, submitting it when save is set.
func (a *App) NoteToTask(ctx context.Context, noteID string, save bool) (core.TaskDraft, *core.Task, error) {
	note, err := a.ResolveNote(noteID)
	if err != nil {
		return core.TaskDraft{}, nil, err
	}
	draft := core.DraftFromNote(note)
	if !save {
		return draft, nil, nil
	}
	task, err := a.AddTask(ctx, draft)
	if err != nil {
		return draft, nil, err
	}
	return draft, &task, nil
}

// ResolveNote finds a note by id or unique id prefix.
func (a *App) ResolveNote(prefix string) (core.VoiceNote, error) {
	if n, ok := a.Notes.Get(prefix); ok {
		return n, nil
	}
	return resolvePrefix(a.Notes.List(), prefix, "voice note")
}

// ResolveTask finds a task by id or unique id prefix.
func (a *App) ResolveTask(prefix string) (core.Task, error) {
	if t, ok := a.Tasks.Get(prefix); ok {
		return t, nil
	}
	return resolvePrefix(a.Tasks.List(), prefix, "task")
}

func resolvePrefix[T core.Entity](items []T, prefix, kind string) (T, error) {
	var zero T
	if prefix == "" {
		return zero, fmt.Errorf("%s: %w", kind, core.ErrEmptyID)
	}
	var matches []T
	for _, it := range items {
		if strings.HasPrefix(it.EntityID(), prefix) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%s %q: %w", kind, prefix, core.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return zero, fmt.Errorf("%s %q matches %d entries: %w", kind, prefix, len(matches), core.ErrAmbiguousID)
	}
}

// Reload re-reads both collections from storage.
func (a *App) Reload(ctx context.Context) {
	a.Notes.Reload(ctx)
	a.Tasks.Reload(ctx)
}

// Watch reports changes to either collection made by other processes.
func (a *App) Watch(ctx context.Context) (<-chan core.Event, error) {
	w, ok := a.Repo.(core.Watchable)
	if !ok {
		return nil, fmt.Errorf("repository %T does not support watching", a.Repo)
	}
	return w.Watch(ctx, CollectionPattern)
}

// Close stops any active recording and flushes both stores.
func (a *App) Close(ctx context.Context) error {
	if s := a.activeSession(); s != nil {
		if err := s.Close(ctx); err != nil {
			a.logger.Warn("recording close", "error", err)
		}
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Notes.Close(gctx) })
	g.Go(func() error { return a.Tasks.Close(gctx) })
	return g.Wait()
}
