package render_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/daybook/pkg/core"
	"github.com/aretw0/daybook/pkg/recording"
	"github.com/aretw0/daybook/pkg/render"
)

var when = time.Date(2025, 3, 14, 9, 30, 0, 0, time.Local)

func TestEmptyPlaceholders(t *testing.T) {
	var buf bytes.Buffer
	r := render.New(&buf)
	require.NoError(t, r.Board(nil, nil))

	out := buf.String()
	assert.Contains(t, out, "Voice Notes")
	assert.Contains(t, out, render.EmptyNotes)
	assert.Contains(t, out, "Tasks")
	assert.Contains(t, out, render.EmptyTasks)
}

func TestTextNotes(t *testing.T) {
	var buf bytes.Buffer
	notes := []core.VoiceNote{{
		ID:          "0123456789abcdef",
		Title:       "Standup",
		Description: "blockers\nfollow-ups",
		AudioData:   recording.EncodeDataURL("audio/webm", make([]byte, 2048)),
		CreatedAt:   when,
	}}
	require.NoError(t, render.New(&buf).Notes(notes))

	out := buf.String()
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789")
	assert.Contains(t, out, "Standup")
	assert.Contains(t, out, "Mar 14, 2025 09:30")
	assert.Contains(t, out, "webm 2.0 KiB")
	assert.Contains(t, out, "follow-ups")
	assert.NotContains(t, out, render.EmptyNotes)
}

func TestTextTasks(t *testing.T) {
	var buf bytes.Buffer
	tasks := []core.Task{
		{ID: "a", Title: "Call bank", Priority: core.PriorityHigh, CreatedAt: when},
		{ID: "b", Title: "Water plants", Priority: core.PriorityLow, Completed: true, CreatedAt: when, Details: "balcony"},
	}
	require.NoError(t, render.New(&buf).Tasks(tasks))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "[ ]")
	assert.Contains(t, lines[0], "(HIGH)")
	assert.Contains(t, lines[0], "Call bank")
	assert.Contains(t, lines[1], "[x]")
	assert.Contains(t, lines[1], "(LOW)")
	assert.Contains(t, lines[2], "balcony")
}

func TestJSONBoard(t *testing.T) {
	var buf bytes.Buffer
	notes := []core.VoiceNote{{
		ID:        "n1",
		Title:     "Idea",
		AudioData: recording.EncodeDataURL("audio/ogg", []byte("OggS")),
		CreatedAt: when,
	}}
	require.NoError(t, render.NewJSON(&buf).Board(notes, nil))

	var board render.Board
	require.NoError(t, json.Unmarshal(buf.Bytes(), &board))
	require.Len(t, board.Notes, 1)
	assert.Equal(t, "audio/ogg", board.Notes[0].MimeType)
	assert.Equal(t, 4, board.Notes[0].AudioBytes)
	assert.NotNil(t, board.Tasks)
	assert.NotContains(t, buf.String(), "base64")
}

func TestDraft(t *testing.T) {
	var buf bytes.Buffer
	draft := core.DraftFromNote(core.VoiceNote{Title: "Idea", Description: "call Sam", CreatedAt: when})
	require.NoError(t, render.New(&buf).Draft(draft))

	out := buf.String()
	assert.Contains(t, out, "Title:    Idea")
	assert.Contains(t, out, "Priority: high")
	assert.Contains(t, out, "  call Sam")
	assert.Contains(t, out, "Linked voice note captured Mar 14, 2025 09:30.")
}
