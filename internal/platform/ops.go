package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/daybook/pkg/adapters/fs"
	"github.com/aretw0/daybook/pkg/core"
)

// Syncable is implemented by repositories with a remote.
type Syncable interface {
	Sync(ctx context.Context) error
}

// Init opens (and with auto-init, creates) the data directory at uri and
// returns the initialized repository.
func Init(ctx context.Context, uri string, opts ...Option) (core.Repository, error) {
	o := defaultOptions().apply(opts)
	return initRepository(ctx, uri, o)
}

func initRepository(ctx context.Context, uri string, o *options) (core.Repository, error) {
	if o.repository != nil {
		return o.repository, nil
	}
	repo, err := initFS(uri, o)
	if err != nil {
		return nil, err
	}
	if err := repo.Initialize(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// initFS builds the filesystem repository, resolving dev safety and versioning.
func initFS(path string, o *options) (*fs.Repository, error) {
	format, _ := o.config["format"].(string)
	autoInit, _ := o.config["auto_init"].(bool)
	tempDir, _ := o.config["temp_dir"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	readOnly, _ := o.config["read_only"].(bool)
	systemDir, _ := o.config["system_dir"].(string)
	eventBuffer, _ := o.config["event_buffer"].(int)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))
	if systemDir == "" {
		systemDir = ".daybook"
	}

	devSafety := true
	if v, ok := o.config["dev_safety"].(bool); ok {
		devSafety = v
	}
	bypassSafety := readOnly || !devSafety
	useTemp := tempDir || (IsDevRun() && !bypassSafety)
	resolved := ResolveDataPath(path, useTemp)

	logger := o.logger
	if logger != nil && useTemp {
		logger.Warn("running in SAFE MODE (dev/test)", "original_path", path, "resolved_path", resolved)
	} else if logger != nil && IsDevRun() && !readOnly {
		logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
	}

	gitless, explicit := o.config["gitless"].(bool)
	if !explicit {
		gitless = detectGitless(resolved)
		if logger != nil {
			logger.Debug("detected versioning", "gitless", gitless, "path", resolved)
		}
	}

	return fs.NewRepository(fs.Config{
		Path:         resolved,
		Format:       format,
		AutoInit:     autoInit,
		Gitless:      gitless,
		MustExist:    mustExist || (!autoInit && !useTemp),
		ReadOnly:     readOnly,
		Logger:       logger,
		SystemDir:    systemDir,
		EventBuffer:  eventBuffer,
		ErrorHandler: errorHandler,
	})
}

// detectGitless keeps an existing git repository versioned and leaves
// everything else as plain files.
func detectGitless(path string) bool {
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err != nil
}

// Sync pulls and pushes the data directory at uri with its git remote.
func Sync(ctx context.Context, uri string, opts ...Option) error {
	o := defaultOptions().apply(opts)
	o.config["must_exist"] = true
	o.config["gitless"] = false

	var repo core.Repository = o.repository
	if repo == nil {
		r, err := initFS(uri, o)
		if err != nil {
			return err
		}
		repo = r
	}

	syncable, ok := repo.(Syncable)
	if !ok {
		return errors.New("repository does not support synchronization")
	}
	if err := syncable.Sync(ctx); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}
