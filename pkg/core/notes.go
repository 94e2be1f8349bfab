package core

import (
	"context"
	"log/slog"
	"sort"
)

// NoteStore is the persisted collection of voice notes.
type NoteStore struct {
	c *collection[VoiceNote]
}

// NewNoteStore creates a store over repo. Call Load to read the snapshot.
func NewNoteStore(repo Repository, logger *slog.Logger) *NoteStore {
	return &NoteStore{c: newCollection[VoiceNote](VoiceNotesKey, repo, logger)}
}

// OpenNoteStore creates a store and loads the persisted snapshot.
func OpenNoteStore(ctx context.Context, repo Repository, logger *slog.Logger) *NoteStore {
	s := NewNoteStore(repo, logger)
	s.Load(ctx)
	return s
}

// Load replaces the in-memory notes with the persisted snapshot.
func (s *NoteStore) Load(ctx context.Context) { s.c.load(ctx) }

// Reload is Load, named for callers reacting to external changes.
func (s *NoteStore) Reload(ctx context.Context) { s.c.load(ctx) }

// Append adds a note and persists the collection.
func (s *NoteStore) Append(ctx context.Context, note VoiceNote) error {
	return s.c.append(ctx, note)
}

// Remove deletes the note with id and persists. Absent ids are a no-op.
func (s *NoteStore) Remove(ctx context.Context, id string) bool {
	return s.c.remove(ctx, id)
}

// Get returns the note with id.
func (s *NoteStore) Get(id string) (VoiceNote, bool) {
	return s.c.get(id)
}

// List returns all notes, newest first.
func (s *NoteStore) List() []VoiceNote {
	notes := s.c.snapshot()
	SortNotes(notes)
	return notes
}

// Len returns the number of stored notes.
func (s *NoteStore) Len() int { return s.c.len() }

// Err returns the last persistence failure, if the latest write failed.
func (s *NoteStore) Err() error { return s.c.err() }

// Close performs a final persist of any unsaved state.
func (s *NoteStore) Close(ctx context.Context) error { return s.c.flush(ctx) }

// SortNotes orders notes newest first. Equal timestamps keep their order.
func SortNotes(notes []VoiceNote) {
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
}
