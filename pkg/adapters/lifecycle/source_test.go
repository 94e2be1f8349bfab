package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/daybook/pkg/core"
)

func TestSourceForwardsAndCloses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 1)
	src := NewSource(in)
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventModify, Key: core.TasksKey}
	select {
	case ev := <-src.Events():
		assert.Equal(t, "MODIFY daily-task-list", ev.String())
	case <-time.After(time.Second):
		t.Fatal("event not forwarded")
	}

	close(in)
	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("events not closed")
	}
}

func TestSourceFiltersToCollectionKeys(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 2)
	src := NewSource(in)
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventCreate, Key: "shopping-list"}
	in <- core.Event{Type: core.EventCreate, Key: core.VoiceNotesKey}
	close(in)

	var got []string
	for ev := range src.Events() {
		got = append(got, ev.String())
	}
	assert.Equal(t, []string{"CREATE daily-voice-notes"}, got)
}

func TestSourceCoalescesPerKey(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 4)
	in <- core.Event{Type: core.EventModify, Key: core.TasksKey}
	in <- core.Event{Type: core.EventModify, Key: core.VoiceNotesKey}
	in <- core.Event{Type: core.EventDelete, Key: core.TasksKey}
	in <- core.Event{Type: core.EventCreate, Key: core.TasksKey}
	close(in)

	src := NewSource(in)
	require.NoError(t, src.Start(ctx))

	// Give the source time to drain the input before anything is consumed.
	require.Eventually(t, func() bool { return len(in) == 0 }, time.Second, 5*time.Millisecond)

	var got []string
	for ev := range src.Events() {
		got = append(got, ev.String())
	}
	assert.Equal(t, []string{"CREATE daily-task-list", "MODIFY daily-voice-notes"}, got)
}

func TestSourceExplicitKeys(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 2)
	src := NewSource(in, core.TasksKey)
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventModify, Key: core.VoiceNotesKey}
	in <- core.Event{Type: core.EventModify, Key: core.TasksKey}
	close(in)

	var got []string
	for ev := range src.Events() {
		got = append(got, ev.String())
	}
	assert.Equal(t, []string{"MODIFY daily-task-list"}, got)
}

func TestSourceStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	in := make(chan core.Event)
	src := NewSource(in)
	require.NoError(t, src.Start(ctx))
	cancel()

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("events not closed after cancel")
	}
}
