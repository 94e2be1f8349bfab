package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/daybook/pkg/adapters/fs"
	"github.com/aretw0/daybook/pkg/core"
	"github.com/aretw0/daybook/pkg/recording"
	"github.com/aretw0/daybook/pkg/render"
)

func resetFlags() {
	verbose, jsonOut, noGit = false, false, false
	dataDir, configPath, format = "", "", ""
	toTaskSave, exportOutput = false, ""
	taskDetails, taskPriority = "", string(core.DefaultPriority)
	recordTitle, recordDescription, recordYes, recordMax = "", "", false, 0
	statusDiagram, initGit = false, false
}

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	for _, k := range []string{"DAYBOOK_DIR", "DAYBOOK_FORMAT", "DAYBOOK_VERSIONING", "DAYBOOK_FFMPEG", "DAYBOOK_INPUT_FORMAT", "DAYBOOK_DEVICE", "DAYBOOK_FFPLAY"} {
		t.Setenv(k, "")
	}
	return t.TempDir()
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetIn(strings.NewReader(stdin))
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestCLI_EmptyBoard(t *testing.T) {
	dir := isolateEnv(t)

	out, _, err := run(t, "", "--dir", dir, "--no-git")
	require.NoError(t, err)
	assert.Contains(t, out, render.EmptyNotes)
	assert.Contains(t, out, render.EmptyTasks)
}

func TestCLI_TaskFlow(t *testing.T) {
	dir := isolateEnv(t)
	base := []string{"--dir", dir, "--no-git", "--json"}

	_, _, err := run(t, "", append(base, "tasks", "add", "Water", "plants", "-p", "low")...)
	require.NoError(t, err)
	out, _, err := run(t, "", append(base, "tasks", "add", "Call bank", "-p", "high", "--details", "before noon")...)
	require.NoError(t, err)

	var added core.Task
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	assert.Equal(t, "Call bank", added.Title)
	assert.Equal(t, core.PriorityHigh, added.Priority)

	_, _, err = run(t, "", append(base, "tasks", "add", "Nope", "-p", "urgent")...)
	assert.ErrorIs(t, err, core.ErrInvalidPriority)

	_, _, err = run(t, "", append(base, "tasks", "done", added.ID)...)
	require.NoError(t, err)

	out, _, err = run(t, "", append(base, "tasks")...)
	require.NoError(t, err)
	var tasks []core.Task
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	require.Len(t, tasks, 2)
	assert.Equal(t, "Water plants", tasks[0].Title, "open tasks sort before completed ones")
	assert.True(t, tasks[1].Completed)

	_, _, err = run(t, "", append(base, "tasks", "undo", added.ID[:6])...)
	require.NoError(t, err)
	_, _, err = run(t, "", append(base, "tasks", "delete", tasks[0].ID)...)
	require.NoError(t, err)

	out, _, err = run(t, "", append(base, "tasks", "list")...)
	require.NoError(t, err)
	tasks = nil
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, added.ID, tasks[0].ID)
	assert.False(t, tasks[0].Completed)
}

func seedNote(t *testing.T, dir string, note core.VoiceNote) {
	t.Helper()
	repo, err := fs.NewRepository(fs.Config{Path: dir, Gitless: true})
	require.NoError(t, err)
	require.NoError(t, repo.Initialize(context.Background()))
	require.NoError(t, repo.Save(context.Background(), core.VoiceNotesKey, []core.VoiceNote{note}))
}

func TestCLI_NoteToTaskAndExport(t *testing.T) {
	dir := isolateEnv(t)
	audio := []byte("OggS-fake-audio")
	seedNote(t, dir, core.VoiceNote{
		ID:          "note-abc",
		Title:       "Dentist: call",
		Description: "ask about Friday",
		AudioData:   recording.EncodeDataURL("audio/ogg", audio),
		CreatedAt:   time.Date(2025, 3, 14, 9, 30, 0, 0, time.Local),
	})

	out, _, err := run(t, "", "--dir", dir, "--no-git", "notes", "to-task", "note-a")
	require.NoError(t, err)
	assert.Contains(t, out, "Priority: high")
	assert.Contains(t, out, "ask about Friday")

	out, _, err = run(t, "", "--dir", dir, "--no-git", "tasks")
	require.NoError(t, err)
	assert.Contains(t, out, render.EmptyTasks, "a draft is not saved without --save")

	_, _, err = run(t, "", "--dir", dir, "--no-git", "notes", "to-task", "note-abc", "--save")
	require.NoError(t, err)
	out, _, err = run(t, "", "--dir", dir, "--no-git", "tasks")
	require.NoError(t, err)
	assert.Contains(t, out, "Dentist: call")

	target := filepath.Join(t.TempDir(), "out.ogg")
	_, _, err = run(t, "", "--dir", dir, "notes", "export", "note-abc", "-o", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, audio, data)

	_, _, err = run(t, "", "--dir", dir, "--no-git", "notes", "delete", "note-abc")
	require.NoError(t, err)
	out, _, err = run(t, "", "--dir", dir, "--no-git", "notes")
	require.NoError(t, err)
	assert.Contains(t, out, render.EmptyNotes)
}

func TestCLI_RecordUnsupported(t *testing.T) {
	dir := isolateEnv(t)
	t.Setenv("DAYBOOK_FFMPEG", "daybook-missing-ffmpeg")

	_, _, err := run(t, "", "--dir", dir, "--no-git", "record")
	var ce *recording.CaptureError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, recording.ReasonUnsupported, ce.Reason)
}

func TestCLI_StatusAndVersion(t *testing.T) {
	dir := isolateEnv(t)
	_, _, err := run(t, "", "--dir", dir, "--no-git", "tasks", "add", "x")
	require.NoError(t, err)

	out, _, err := run(t, "", "--dir", dir, "status")
	require.NoError(t, err)
	var state map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &state))
	assert.Contains(t, state, "repository")
	assert.Contains(t, state, "recording")

	out, _, err = run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "daybook version "))
}

func TestExportName(t *testing.T) {
	assert.Equal(t, "Dentist--call", exportName("Dentist: call", "id"))
	assert.Equal(t, "Voice-note-09-30", exportName("Voice note 09:30", "id"))
	assert.Equal(t, "abcdefgh", exportName("???", "abcdefghijk"))
}
