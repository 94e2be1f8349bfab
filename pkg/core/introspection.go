package core

import (
	"github.com/aretw0/introspection"
)

// CollectionState exposes a store's internal state for observability.
type CollectionState struct {
	Key       string `json:"key"`
	Count     int    `json:"count"`
	Dirty     bool   `json:"dirty"`
	LastError string `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (s *NoteStore) State() any { return s.c.state() }

// ComponentType implements introspection.Component.
func (s *NoteStore) ComponentType() string { return "note-store" }

// State implements introspection.Introspectable.
func (s *TaskStore) State() any { return s.c.state() }

// ComponentType implements introspection.Component.
func (s *TaskStore) ComponentType() string { return "task-store" }

var _ introspection.Introspectable = (*NoteStore)(nil)
var _ introspection.Component = (*NoteStore)(nil)
var _ introspection.Introspectable = (*TaskStore)(nil)
var _ introspection.Component = (*TaskStore)(nil)
