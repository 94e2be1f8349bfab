// Package config loads CLI settings from a TOML file and DAYBOOK_* variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config is the resolved CLI configuration.
type Config struct {
	DataDir    string
	Format     string
	Versioning *bool // nil leaves it to detection
	Recording  Recording
	Playback   Playback

	// Path is the config file that was read, empty if none.
	Path string
}

// Recording configures the ffmpeg capture backend.
type Recording struct {
	FFmpeg      string `toml:"ffmpeg"`
	InputFormat string `toml:"input_format"`
	Device      string `toml:"device"`
	SampleRate  int    `toml:"sample_rate"`
	Channels    int    `toml:"channels"`
}

// Playback configures note playback.
type Playback struct {
	FFplay string `toml:"ffplay"`
}

type fileConfig struct {
	DataDir    string    `toml:"data_dir"`
	Format     string    `toml:"format"`
	Versioning *bool     `toml:"versioning"`
	Recording  Recording `toml:"recording"`
	Playback   Playback  `toml:"playback"`
}

// LoadDotEnv loads .env files into the environment without overriding
// variables that are already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the config file at path, or the default location when path is
// empty, then applies environment overrides. A missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{
		DataDir: DefaultDataDir(),
		Format:  "json",
	}

	explicit := path != ""
	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		var fc fileConfig
		_, err := toml.DecodeFile(path, &fc)
		switch {
		case err == nil:
			cfg.Path = path
			merge(cfg, fc)
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func merge(cfg *Config, fc fileConfig) {
	if fc.DataDir != "" {
		cfg.DataDir = expandTilde(fc.DataDir)
	}
	if fc.Format != "" {
		cfg.Format = fc.Format
	}
	cfg.Versioning = fc.Versioning
	cfg.Recording = fc.Recording
	cfg.Playback = fc.Playback
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DAYBOOK_DIR"); v != "" {
		cfg.DataDir = expandTilde(v)
	}
	if v := os.Getenv("DAYBOOK_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("DAYBOOK_VERSIONING"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DAYBOOK_VERSIONING: %w", err)
		}
		cfg.Versioning = &b
	}
	if v := os.Getenv("DAYBOOK_FFMPEG"); v != "" {
		cfg.Recording.FFmpeg = v
	}
	if v := os.Getenv("DAYBOOK_INPUT_FORMAT"); v != "" {
		cfg.Recording.InputFormat = v
	}
	if v := os.Getenv("DAYBOOK_DEVICE"); v != "" {
		cfg.Recording.Device = v
	}
	if v := os.Getenv("DAYBOOK_FFPLAY"); v != "" {
		cfg.Playback.FFplay = v
	}
	return nil
}

// DefaultPath is $XDG_CONFIG_HOME/daybook/config.toml, falling back to ~/.config.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "daybook", "config.toml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "daybook", "config.toml")
	}
	return ""
}

// DefaultDataDir is $XDG_DATA_HOME/daybook, falling back to ~/.local/share.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "daybook")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "daybook")
	}
	return filepath.Join(".", "daybook")
}

func expandTilde(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
