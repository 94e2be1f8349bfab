// Package core holds the daybook domain: voice notes, tasks, the stores that
// own them and the repository contract they persist through.
package core

import (
	"fmt"
	"strings"
	"time"
)

// Storage keys for the two persisted collections.
const (
	VoiceNotesKey = "daily-voice-notes"
	TasksKey      = "daily-task-list"
)

// VoiceNote is a recorded audio clip with optional metadata.
// AudioData is a data URL (data:<mime>;base64,<payload>).
type VoiceNote struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	AudioData   string    `json:"audioData" yaml:"audioData"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

// EntityID implements Entity.
func (n VoiceNote) EntityID() string { return n.ID }

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DefaultPriority is what a new task form starts with.
const DefaultPriority = PriorityMedium

// Rank orders priorities; higher ranks sort first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

func (p Priority) String() string { return string(p) }

// ParsePriority parses user input. Unknown values are rejected.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return DefaultPriority, nil
	}
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q (want low, medium or high)", ErrInvalidPriority, s)
	}
	return p, nil
}

// UnmarshalText decodes stored priorities leniently: anything unknown
// becomes the default so a hand-edited blob never poisons the whole list.
func (p *Priority) UnmarshalText(text []byte) error {
	v := Priority(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		v = DefaultPriority
	}
	*p = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p), nil
}

// Task is a to-do item.
type Task struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Details   string    `json:"details" yaml:"details"`
	Priority  Priority  `json:"priority" yaml:"priority"`
	Completed bool      `json:"completed" yaml:"completed"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// EntityID implements Entity.
func (t Task) EntityID() string { return t.ID }

// normalize gives tasks stored without a usable priority the default one.
func (t *Task) normalize() {
	if !t.Priority.Valid() {
		t.Priority = DefaultPriority
	}
}

// TaskDraft is an unsaved task, as typed into the task form.
type TaskDraft struct {
	Title    string   `json:"title" yaml:"title"`
	Details  string   `json:"details" yaml:"details"`
	Priority Priority `json:"priority" yaml:"priority"`
}

// Entity is anything stored in a keyed collection.
type Entity interface {
	EntityID() string
}

// EventType represents the type of change observed on a stored blob.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change of a persisted collection.
type Event struct {
	Type      EventType
	Key       string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Key)
}

type contextKey string

// ChangeReasonKey is the context key for passing the commit message/change reason.
const ChangeReasonKey contextKey = "change_reason"
