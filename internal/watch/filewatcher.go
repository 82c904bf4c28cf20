package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FileWatcher reports changes to schema files below a set of directory trees.
// Patterns and exclusions are globs matched against the base name.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	patterns []string
	exclude  []string
	onChange func(path string, op fsnotify.Op)
	logger   zerolog.Logger
}

// NewFileWatcher creates a watcher calling onChange for every event on a file
// matching patterns and none of exclude
func NewFileWatcher(patterns, exclude []string, onChange func(path string, op fsnotify.Op), logger zerolog.Logger) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	return &FileWatcher{
		watcher:  w,
		patterns: patterns,
		exclude:  exclude,
		onChange: onChange,
		logger:   logger,
	}, nil
}

// AddDirectory watches root and every directory below it that is not excluded.
// root itself is watched even when its name is excluded.
func (fw *FileWatcher) AddDirectory(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case !d.IsDir():
			return nil
		case path != root && fw.excluded(path):
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
		return nil
	})
}

// Start delivers events until ctx is done or the watcher is closed
func (fw *FileWatcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return errors.New("watcher channel closed")
			}
			fw.handle(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return errors.New("watcher error channel closed")
			}
			fw.logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (fw *FileWatcher) handle(event fsnotify.Event) {
	if fw.shouldWatch(event.Name) {
		fw.onChange(event.Name, event.Op)
	}
	if !event.Has(fsnotify.Create) {
		return
	}

	// New subdirectories join the watch
	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return
	}
	if err := fw.AddDirectory(event.Name); err != nil {
		fw.logger.Warn().Err(err).Str("path", event.Name).Msg("failed to watch new directory")
	}
}

func (fw *FileWatcher) excluded(path string) bool {
	return matchBase(fw.exclude, path, func(p string) string { return strings.TrimSuffix(p, "/") })
}

func (fw *FileWatcher) shouldWatch(path string) bool {
	if fw.excluded(path) {
		return false
	}
	// "**/" prefixes are accepted for familiarity; every directory is walked anyway
	return matchBase(fw.patterns, path, func(p string) string { return strings.TrimPrefix(p, "**/") })
}

// matchBase reports whether the base name of path matches any normalised pattern
func matchBase(patterns []string, path string, normalise func(string) string) bool {
	base := filepath.Base(path)
	for _, p := range patterns {
		if ok, _ := filepath.Match(normalise(p), base); ok {
			return true
		}
	}
	return false
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
