package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	for _, k := range []string{"DAYBOOK_DIR", "DAYBOOK_FORMAT", "DAYBOOK_VERSIONING", "DAYBOOK_FFMPEG", "DAYBOOK_INPUT_FORMAT", "DAYBOOK_DEVICE", "DAYBOOK_FFPLAY"} {
		t.Setenv(k, "")
	}
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "daybook"), cfg.DataDir)
	assert.Equal(t, "json", cfg.Format)
	assert.Nil(t, cfg.Versioning)
	assert.Empty(t, cfg.Path)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config", "daybook", "config.toml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(`
data_dir = "/srv/journal"
format = "yaml"
versioning = true

[recording]
ffmpeg = "/opt/ffmpeg"
device = "hw:1"
sample_rate = 44100

[playback]
ffplay = "/opt/ffplay"
`), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, "/srv/journal", cfg.DataDir)
	assert.Equal(t, "yaml", cfg.Format)
	require.NotNil(t, cfg.Versioning)
	assert.True(t, *cfg.Versioning)
	assert.Equal(t, "/opt/ffmpeg", cfg.Recording.FFmpeg)
	assert.Equal(t, "hw:1", cfg.Recording.Device)
	assert.Equal(t, 44100, cfg.Recording.SampleRate)
	assert.Equal(t, "/opt/ffplay", cfg.Playback.FFplay)

	t.Setenv("DAYBOOK_DIR", "/tmp/override")
	t.Setenv("DAYBOOK_VERSIONING", "false")
	t.Setenv("DAYBOOK_DEVICE", "hw:2")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/override", cfg.DataDir)
	assert.False(t, *cfg.Versioning)
	assert.Equal(t, "hw:2", cfg.Recording.Device)
}

func TestLoad_Errors(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err, "an explicit path must exist")

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("format = \n"), 0644))
	_, err = Load(bad)
	assert.Error(t, err)

	t.Setenv("DAYBOOK_VERSIONING", "sometimes")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte("DAYBOOK_FFPLAY=/from/dotenv\n"), 0644))
	require.NoError(t, os.Unsetenv("DAYBOOK_FFPLAY"))

	require.NoError(t, LoadDotEnv(env, filepath.Join(dir, "absent.env")))
	assert.Equal(t, "/from/dotenv", os.Getenv("DAYBOOK_FFPLAY"))
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "notes"), expandTilde("~/notes"))
	assert.Equal(t, "/abs", expandTilde("/abs"))
}
