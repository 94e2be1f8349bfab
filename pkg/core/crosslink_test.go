package core_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/daybook/pkg/core"
)

func TestDraftFromNote(t *testing.T) {
	t.Run("Description first", func(t *testing.T) {
		note := core.VoiceNote{ID: "n1", Title: "Groceries", Description: "milk and eggs", CreatedAt: base}
		draft := core.DraftFromNote(note)

		assert.Equal(t, "Groceries", draft.Title)
		assert.Equal(t, core.PriorityHigh, draft.Priority)

		blocks := strings.Split(draft.Details, "\n\n")
		assert.Len(t, blocks, 2)
		assert.Equal(t, "milk and eggs", blocks[0])
		assert.Equal(t,
			"Linked voice note captured "+core.FormatTimestamp(base)+". Listen in the Voice Notes section.",
			blocks[1])
	})

	t.Run("No description", func(t *testing.T) {
		draft := core.DraftFromNote(core.VoiceNote{Title: "Idea", CreatedAt: base})

		assert.Equal(t, core.PriorityHigh, draft.Priority)
		assert.True(t, strings.HasPrefix(draft.Details, "Linked voice note captured "))
		assert.NotContains(t, draft.Details, "\n")
	})
}

func TestDefaultNoteTitle(t *testing.T) {
	assert.Equal(t, "Voice note 09:30", core.DefaultNoteTitle(base))
}

func TestSelectIDGenerator(t *testing.T) {
	gen := core.SelectIDGenerator(core.SystemClock)
	a, b := gen.NewID(), gen.NewID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)

	fallback := core.FallbackGenerator(core.SystemClock)
	assert.True(t, strings.HasPrefix(fallback.NewID(), "id-"))
}
