package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/okra-platform/astgen/internal/driver"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_shouldWatch(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		exclude  []string
		path     string
		want     bool
	}{
		{
			name:     "match yaml file",
			patterns: []string{"*.yaml"},
			path:     "/project/schema/geo.yaml",
			want:     true,
		},
		{
			name:     "match nested file with ** pattern",
			patterns: []string{"**/*.json"},
			path:     "/project/schema/sub/geo.json",
			want:     true,
		},
		{
			name:     "exclude editor backup",
			patterns: []string{"*.yaml"},
			exclude:  []string{"*~"},
			path:     "/project/schema/geo.yaml~",
			want:     false,
		},
		{
			name:     "exclude hidden file",
			patterns: []string{"*.yaml"},
			exclude:  []string{".*"},
			path:     "/project/schema/.geo.yaml",
			want:     false,
		},
		{
			name:     "no match",
			patterns: []string{"*.json", "*.yaml"},
			path:     "/project/schema/readme.md",
			want:     false,
		},
		{
			name:     "directory style exclude",
			patterns: []string{"*.gql"},
			exclude:  []string{"draft.gql/"},
			path:     "/project/schema/draft.gql",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw := &FileWatcher{
				patterns: tt.patterns,
				exclude:  tt.exclude,
			}
			assert.Equal(t, tt.want, fw.shouldWatch(tt.path))
		})
	}
}

func TestFileWatcher_Close(t *testing.T) {
	fw, err := NewFileWatcher([]string{"*.yaml"}, nil, func(string, fsnotify.Op) {}, zerolog.Nop())
	require.NoError(t, err)

	// Close should not error
	assert.NoError(t, fw.Close())

	// Double close should also be safe
	assert.NoError(t, fw.Close())
}

func TestFileWatcher_AddDirectory_RootNeverExcluded(t *testing.T) {
	// Test: a watched root whose name matches an exclude is still added
	root := filepath.Join(t.TempDir(), ".schema")
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0755))

	fw, err := NewFileWatcher([]string{"*.yaml"}, []string{".*"}, func(string, fsnotify.Op) {}, zerolog.Nop())
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, fw.AddDirectory(root))
	assert.Equal(t, []string{root}, fw.watcher.WatchList())
}

// countingRunner records generation runs
type countingRunner struct {
	mu   sync.Mutex
	runs int
	err  error
}

func (r *countingRunner) Run(ctx context.Context) (*driver.Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs++
	if r.err != nil {
		return nil, r.err
	}
	return &driver.Result{Classes: 1}, nil
}

func (r *countingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

func TestWatcher_RegeneratesOnChange(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	// Test: initial run, then one debounced run per burst of matching changes
	dir := t.TempDir()
	runner := &countingRunner{}
	w := New(Options{
		Dirs:    []string{dir},
		Include: []string{"*.yaml"},
		Exclude: []string{"*~"},
		Delay:   50 * time.Millisecond,
	}, runner, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return runner.count() == 1 }, time.Second, 10*time.Millisecond)

	// Ignored files never trigger
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "geo.yaml~"), []byte("x"), 0644))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, runner.count())

	// A burst of writes regenerates once
	for i := range 3 {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "geo.yaml"), []byte{byte('a' + i)}, 0644))
	}
	require.Eventually(t, func() bool { return runner.count() == 2 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_ContinuesAfterFailure(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	// Test: a failing generation is logged and the watcher keeps running
	dir := t.TempDir()
	runner := &countingRunner{err: errors.New("bad schema")}
	w := New(Options{Dirs: []string{dir}, Include: []string{"*.json"}, Delay: 20 * time.Millisecond}, runner, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	require.Eventually(t, func() bool { return runner.count() == 1 }, time.Second, 10*time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "geo.json"), []byte("{}"), 0644))
	require.Eventually(t, func() bool { return runner.count() == 2 }, time.Second, 10*time.Millisecond)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	// Test: an unwatchable directory fails before the first run
	runner := &countingRunner{}
	w := New(Options{Dirs: []string{filepath.Join(t.TempDir(), "missing")}}, runner, zerolog.Nop())

	err := w.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 0, runner.count())
}

func TestFileWatcher_AddDirectory_SkipsExcludedSubdirectories(t *testing.T) {
	// Test: excluded subdirectories and their children are not watched
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "shapes", "nested"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".cache", "inner"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "geo.yaml"), []byte("classes: []\n"), 0644))

	fw, err := NewFileWatcher([]string{"*.yaml"}, []string{".*"}, func(string, fsnotify.Op) {}, zerolog.Nop())
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, fw.AddDirectory(root))
	assert.ElementsMatch(t, []string{
		root,
		filepath.Join(root, "shapes"),
		filepath.Join(root, "shapes", "nested"),
	}, fw.watcher.WatchList())
}
