package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
)

// collection is the in-memory copy of one persisted blob.
// Every mutation persists the whole list. A failed write is logged and the
// in-memory state stays authoritative until the next successful write.
// A failed commit after a successful write is logged but leaves the
// collection clean.
type collection[T Entity] struct {
	mu      sync.RWMutex
	key     string
	repo    Repository
	logger  *slog.Logger
	items   []T
	dirty   bool
	lastErr error
}

func newCollection[T Entity](key string, repo Repository, logger *slog.Logger) *collection[T] {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &collection[T]{
		key:    key,
		repo:   repo,
		logger: logger,
		items:  []T{},
	}
}

// load replaces the in-memory list with the persisted snapshot.
// Missing or corrupt data falls back to an empty list.
func (c *collection[T]) load(ctx context.Context) {
	var items []T
	err := c.repo.Load(ctx, c.key, &items)

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case errors.Is(err, ErrNotFound):
		items = nil
	case err != nil:
		c.logger.Warn("failed to load collection", "key", c.key, "error", err)
		items = nil
	}

	for i := range items {
		if n, ok := any(&items[i]).(normalizer); ok {
			n.normalize()
		}
	}
	c.items = dedupe(items)
	c.dirty = false
}

// normalizer is implemented by entities that repair stored fields on load.
type normalizer interface {
	normalize()
}

// dedupe keeps the first occurrence of each id.
func dedupe[T Entity](items []T) []T {
	out := make([]T, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		id := item.EntityID()
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, item)
	}
	return out
}

func (c *collection[T]) persistLocked(ctx context.Context) {
	err := c.repo.Save(ctx, c.key, c.items)
	if errors.Is(err, ErrVersioning) {
		// Written, just not recorded in history.
		c.dirty = false
		c.lastErr = err
		c.logger.Warn("unable to version collection", "key", c.key, "error", err)
		return
	}
	if err != nil {
		c.dirty = true
		c.lastErr = fmt.Errorf("%w: save %s: %v", ErrPersistence, c.key, err)
		c.logger.Warn("unable to save collection", "key", c.key, "error", err)
		return
	}
	c.dirty = false
	c.lastErr = nil
}

func (c *collection[T]) indexLocked(id string) int {
	for i, item := range c.items {
		if item.EntityID() == id {
			return i
		}
	}
	return -1
}

func (c *collection[T]) append(ctx context.Context, item T) error {
	id := item.EntityID()
	if id == "" {
		return ErrEmptyID
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexLocked(id) != -1 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	c.items = append(c.items, item)
	c.persistLocked(ctx)
	return nil
}

// remove deletes the entry with id. It reports whether anything was removed.
func (c *collection[T]) remove(ctx context.Context, id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i == -1 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.persistLocked(ctx)
	return true
}

// update applies fn to the entry with id and persists.
func (c *collection[T]) update(ctx context.Context, id string, fn func(*T)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexLocked(id)
	if i == -1 {
		return false
	}
	fn(&c.items[i])
	c.persistLocked(ctx)
	return true
}

func (c *collection[T]) get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if i := c.indexLocked(id); i != -1 {
		return c.items[i], true
	}
	var zero T
	return zero, false
}

// snapshot returns a copy of the items in stored order.
func (c *collection[T]) snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

func (c *collection[T]) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *collection[T]) err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// flush persists pending state, if a previous write failed.
func (c *collection[T]) flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return nil
	}
	c.persistLocked(ctx)
	return c.lastErr
}

func (c *collection[T]) state() CollectionState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := CollectionState{
		Key:   c.key,
		Count: len(c.items),
		Dirty: c.dirty,
	}
	if c.lastErr != nil {
		s.LastError = c.lastErr.Error()
	}
	return s
}
