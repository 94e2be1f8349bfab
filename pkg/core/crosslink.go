package core

import (
	"fmt"
	"strings"
)

// DraftFromNote prefills a task draft from a voice note. Nothing is persisted.
func DraftFromNote(note VoiceNote) TaskDraft {
	var lines []string
	if desc := strings.TrimSpace(note.Description); desc != "" {
		lines = append(lines, desc)
	}
	lines = append(lines, fmt.Sprintf(
		"Linked voice note captured %s. Listen in the Voice Notes section.",
		FormatTimestamp(note.CreatedAt),
	))

	return TaskDraft{
		Title:    note.Title,
		Details:  strings.Join(lines, "\n\n"),
		Priority: PriorityHigh,
	}
}
