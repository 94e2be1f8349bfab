// Package fs stores daybook collections as files in a data directory,
// one file per key, optionally versioned with git.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/daybook/pkg/core"
	"github.com/aretw0/daybook/pkg/git"
)

// Repository implements core.Repository on the filesystem.
type Repository struct {
	Path        string
	config      Config
	git         *git.Client
	serializer  Serializer
	serializers []Serializer // primary first

	mu            sync.RWMutex
	watcherActive bool
	lastReconcile *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path         string
	Format       string // "json" (default) or "yaml"
	AutoInit     bool
	Gitless      bool
	MustExist    bool
	ReadOnly     bool
	Logger       *slog.Logger
	SystemDir    string      // e.g. ".daybook"
	EventBuffer  int         // watch channel size, zero means 100
	ErrorHandler func(error) // receives watcher failures
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) (*Repository, error) {
	if config.SystemDir == "" {
		config.SystemDir = ".daybook"
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	primary, err := SerializerFor(config.Format)
	if err != nil {
		return nil, err
	}
	serializers := []Serializer{primary}
	for _, s := range DefaultSerializers() {
		if s.Ext() != primary.Ext() {
			serializers = append(serializers, s)
		}
	}

	return &Repository{
		Path:        config.Path,
		config:      config,
		git:         git.NewClient(config.Path, filepath.Join(config.SystemDir, "git.lock"), config.Logger),
		serializer:  primary,
		serializers: serializers,
	}, nil
}

// Initialize creates the data directory and, unless gitless, the git repository.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("data path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", r.Path)
		}
	} else if err := os.MkdirAll(r.Path, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if r.config.ReadOnly {
		return nil
	}

	if err := os.MkdirAll(filepath.Join(r.Path, r.config.SystemDir), 0755); err != nil {
		return fmt.Errorf("failed to create system directory: %w", err)
	}

	if r.config.Gitless {
		return nil
	}

	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}

	wasNewRepo := false
	if !r.git.IsRepo() {
		if !r.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", r.Path)
		}
		if err := r.git.Init(ctx); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		wasNewRepo = true
	}

	mod, err := r.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}

	if mod && wasNewRepo {
		if err := r.git.Add(ctx, ".gitignore"); err != nil {
			return fmt.Errorf("failed to add .gitignore: %w", err)
		}
		msg := git.FormatChangeReason(git.CommitTypeChore, "", fmt.Sprintf("configure %s ignore", r.config.SystemDir), "")
		if err := r.git.Commit(ctx, msg); err != nil {
			return fmt.Errorf("failed to commit .gitignore: %w", err)
		}
	}

	return nil
}

func (r *Repository) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(r.Path, ".gitignore")
	ignoreEntry := r.config.SystemDir + "/"

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == ignoreEntry {
			return false, nil
		}
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}

	if _, err := f.WriteString(ignoreEntry + "\n"); err != nil {
		return false, err
	}

	return true, nil
}

func validateKey(key string) error {
	if key == "" {
		return core.ErrEmptyID
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." || strings.HasPrefix(key, TempFilePrefix) {
		return fmt.Errorf("invalid key %q", key)
	}
	return nil
}

// Load reads the blob for key. The configured format is tried first, then
// the others, so data written before a format switch stays readable until
// the next Save migrates it.
func (r *Repository) Load(ctx context.Context, key string, v any) error {
	if err := validateKey(key); err != nil {
		return err
	}

	for _, s := range r.serializers {
		path := filepath.Join(r.Path, key+s.Ext())
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if err := s.Unmarshal(data, v); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	}

	return fmt.Errorf("%s: %w", key, core.ErrNotFound)
}

// Save writes the blob for key atomically and, unless gitless, commits it.
// Copies of the blob in other formats are removed so Load never sees a
// stale version after a format switch.
//
// The commit message comes from core.ChangeReasonKey in ctx when present.
// A failed commit is wrapped in core.ErrVersioning; the data is on disk.
func (r *Repository) Save(ctx context.Context, key string, v any) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := validateKey(key); err != nil {
		return err
	}

	data, err := r.serializer.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	filename := key + r.serializer.Ext()
	if err := writeFileAtomic(filepath.Join(r.Path, filename), data, 0644); err != nil {
		return err
	}

	stale, err := r.removeStale(key)
	if err != nil {
		return err
	}

	if r.config.Gitless {
		return nil
	}
	if err := r.commit(ctx, key, filename, stale); err != nil {
		return fmt.Errorf("%w: %v", core.ErrVersioning, err)
	}
	return nil
}

// removeStale deletes the blob for key in every non-primary format and
// returns the removed file names.
func (r *Repository) removeStale(key string) ([]string, error) {
	var removed []string
	for _, s := range r.serializers[1:] {
		name := key + s.Ext()
		err := os.Remove(filepath.Join(r.Path, name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("remove stale %s: %w", name, err)
		}
		r.config.Logger.Debug("removed stale blob", "file", name)
		removed = append(removed, name)
	}
	return removed, nil
}

func (r *Repository) commit(ctx context.Context, key, filename string, stale []string) error {
	unlock, err := r.git.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	if err := r.git.Remove(ctx, stale...); err != nil {
		return err
	}

	changed, err := r.git.HasChanges(ctx, append([]string{filename}, stale...)...)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := r.git.Add(ctx, filename); err != nil {
		return err
	}

	msg := core.ChangeReason(ctx, git.FormatChangeReason(git.CommitTypeChore, "data", "update "+key, ""))
	return r.git.Commit(ctx, git.AppendFooter(msg))
}

// Keys lists stored keys matching a doublestar pattern, sorted.
func (r *Repository) Keys(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}

	entries, err := os.ReadDir(r.Path)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		key, ok := r.keyFor(e.Name())
		if !ok || seen[key] {
			continue
		}
		if match, _ := doublestar.Match(pattern, key); match {
			seen[key] = true
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// keyFor maps a file name in the data directory back to its key.
func (r *Repository) keyFor(name string) (string, bool) {
	if strings.HasPrefix(name, TempFilePrefix) || strings.HasPrefix(name, ".") {
		return "", false
	}
	ext := filepath.Ext(name)
	for _, s := range r.serializers {
		if s.Ext() == ext {
			return strings.TrimSuffix(name, ext), true
		}
	}
	return "", false
}

// Sync pulls and pushes the data directory's git repository.
func (r *Repository) Sync(ctx context.Context) error {
	if r.config.Gitless {
		return fmt.Errorf("cannot sync in gitless mode")
	}
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if !r.git.IsRepo() {
		return fmt.Errorf("path is not a git repository: %s", r.Path)
	}

	unlock, err := r.git.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	return r.git.Sync(ctx)
}

// Watch implements core.Watchable. The watcher runs under a supervisor
// that restarts it with backoff if the underlying fsnotify watcher fails.
func (r *Repository) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "*"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q", pattern)
	}
	if info, err := os.Stat(r.Path); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("cannot watch %s: not a directory", r.Path)
	}

	size := r.config.EventBuffer
	if size <= 0 {
		size = 100
	}
	events := make(chan core.Event, size)

	spec := supervisor.Spec{
		Name: "fs-watcher",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			return newWatchWorker(r, pattern, events), nil
		},
		Backoff: supervisor.Backoff{
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Multiplier:      2,
			ResetDuration:   time.Minute,
			MaxRestarts:     10,
			MaxDuration:     10 * time.Minute,
		},
		RestartPolicy: supervisor.RestartOnFailure,
	}

	sup := supervisor.New("fs-watch", supervisor.StrategyOneForOne, spec)
	if err := sup.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}

	go func() {
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sup.Stop(stopCtx); err != nil {
			r.config.Logger.Debug("watcher stop", "error", err)
		}
		close(events)
	}()

	return events, nil
}

var (
	_ core.Repository = (*Repository)(nil)
	_ core.Watchable  = (*Repository)(nil)
)
