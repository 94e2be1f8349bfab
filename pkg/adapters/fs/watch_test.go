package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/daybook/pkg/adapters/fs"
	"github.com/aretw0/daybook/pkg/core"
)

func waitForEvent(t *testing.T, events <-chan core.Event) core.Event {
	t.Helper()
	select {
	case e, ok := <-events:
		require.True(t, ok, "events channel closed")
		return e
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for event")
		return core.Event{}
	}
}

func TestWatch_ReportsBlobChanges(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	repo := newRepo(t, fs.Config{Gitless: true})
	events, err := repo.Watch(ctx, core.TasksKey)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return repo.State().(fs.RepositoryState).WatcherActive
	}, 2*time.Second, 10*time.Millisecond)

	// Unrelated files and other keys are filtered out.
	require.NoError(t, os.WriteFile(filepath.Join(repo.Path, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, repo.Save(ctx, core.VoiceNotesKey, []core.VoiceNote{}))
	require.NoError(t, repo.Save(ctx, core.TasksKey, sampleTasks()))

	e := waitForEvent(t, events)
	assert.Equal(t, core.TasksKey, e.Key)
	assert.NotEqual(t, core.EventDelete, e.Type)

	state := repo.State().(fs.RepositoryState)
	assert.True(t, state.WatcherActive)
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	repo := newRepo(t, fs.Config{Gitless: true})

	events, err := repo.Watch(ctx, "*")
	require.NoError(t, err)
	cancel()

	deadline := time.After(3 * time.Second)
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("events channel not closed after cancel")
		}
	}
}

func TestWatch_InvalidPattern(t *testing.T) {
	repo := newRepo(t, fs.Config{Gitless: true})
	_, err := repo.Watch(context.Background(), "[")
	assert.Error(t, err)
}
