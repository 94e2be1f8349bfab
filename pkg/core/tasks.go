package core

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// TaskStore is the persisted collection of tasks.
type TaskStore struct {
	c *collection[Task]
}

// NewTaskStore creates a store over repo. Call Load to read the snapshot.
func NewTaskStore(repo Repository, logger *slog.Logger) *TaskStore {
	return &TaskStore{c: newCollection[Task](TasksKey, repo, logger)}
}

// OpenTaskStore creates a store and loads the persisted snapshot.
func OpenTaskStore(ctx context.Context, repo Repository, logger *slog.Logger) *TaskStore {
	s := NewTaskStore(repo, logger)
	s.Load(ctx)
	return s
}

// Load replaces the in-memory tasks with the persisted snapshot.
func (s *TaskStore) Load(ctx context.Context) { s.c.load(ctx) }

// Reload is Load, named for callers reacting to external changes.
func (s *TaskStore) Reload(ctx context.Context) { s.c.load(ctx) }

// Append adds a task and persists the collection.
func (s *TaskStore) Append(ctx context.Context, task Task) error {
	return s.c.append(ctx, task)
}

// Submit validates a form submission and appends the resulting task.
func (s *TaskStore) Submit(ctx context.Context, draft TaskDraft, ids IDGenerator, now time.Time) (Task, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return Task{}, ErrEmptyTitle
	}

	priority := draft.Priority
	if priority == "" {
		priority = DefaultPriority
	}
	if !priority.Valid() {
		return Task{}, fmt.Errorf("%w: %q", ErrInvalidPriority, string(priority))
	}

	task := Task{
		ID:        ids.NewID(),
		Title:     title,
		Details:   strings.TrimSpace(draft.Details),
		Priority:  priority,
		Completed: false,
		CreatedAt: now,
	}
	if err := s.Append(ctx, task); err != nil {
		return Task{}, err
	}
	return task, nil
}

// Remove deletes the task with id and persists. Absent ids are a no-op.
func (s *TaskStore) Remove(ctx context.Context, id string) bool {
	return s.c.remove(ctx, id)
}

// SetCompleted sets the completed flag of the task with id.
// It reports whether the task exists.
func (s *TaskStore) SetCompleted(ctx context.Context, id string, completed bool) bool {
	return s.c.update(ctx, id, func(t *Task) {
		t.Completed = completed
	})
}

// Get returns the task with id.
func (s *TaskStore) Get(id string) (Task, bool) {
	return s.c.get(id)
}

// List returns all tasks: incomplete first, then priority high to low,
// then oldest first.
func (s *TaskStore) List() []Task {
	tasks := s.c.snapshot()
	SortTasks(tasks)
	return tasks
}

// Len returns the number of stored tasks.
func (s *TaskStore) Len() int { return s.c.len() }

// Err returns the last persistence failure, if the latest write failed.
func (s *TaskStore) Err() error { return s.c.err() }

// Close performs a final persist of any unsaved state.
func (s *TaskStore) Close(ctx context.Context) error { return s.c.flush(ctx) }

// SortTasks orders tasks for display.
func SortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.Completed != b.Completed {
			return !a.Completed
		}
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() > b.Priority.Rank()
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
}
