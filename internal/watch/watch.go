// Package watch regenerates output whenever schema files change.
package watch

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/okra-platform/astgen/internal/driver"
	"github.com/rs/zerolog"
)

// DefaultDelay is how long changes are collected before regenerating
const DefaultDelay = 200 * time.Millisecond

// Runner performs one generation
type Runner interface {
	Run(ctx context.Context) (*driver.Result, error)
}

// Options configure a Watcher
type Options struct {
	Dirs    []string
	Include []string
	Exclude []string
	Delay   time.Duration
}

// Watcher regenerates through a Runner after matching files change. Bursts of
// changes within Delay of each other trigger a single run.
type Watcher struct {
	opts    Options
	runner  Runner
	logger  zerolog.Logger
	changes chan string
}

// New creates a watcher; call Run to start it
func New(opts Options, runner Runner, logger zerolog.Logger) *Watcher {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	return &Watcher{
		opts:    opts,
		runner:  runner,
		logger:  logger.With().Str("component", "watch").Logger(),
		changes: make(chan string, 64),
	}
}

// Run generates once and then after every change until ctx is cancelled.
// Generation errors are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := NewFileWatcher(w.opts.Include, w.opts.Exclude, w.notify, w.logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	for _, dir := range w.opts.Dirs {
		if err := fw.AddDirectory(dir); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- fw.Start(ctx)
	}()

	w.generate(ctx)
	w.logger.Info().Strs("dirs", w.opts.Dirs).Msg("watching for changes")

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case err := <-errCh:
			if ctx.Err() != nil {
				return nil
			}
			return err
		case path := <-w.changes:
			w.logger.Debug().Str("path", path).Msg("schema changed")
			if timer == nil {
				timer = time.NewTimer(w.opts.Delay)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.opts.Delay)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.generate(ctx)
		}
	}
}

func (w *Watcher) notify(path string, op fsnotify.Op) {
	if op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	select {
	case w.changes <- path:
	default:
		// A regeneration is already pending
	}
}

func (w *Watcher) generate(ctx context.Context) {
	result, err := w.runner.Run(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error().Err(err).Msg("generation failed")
		}
		return
	}
	w.logger.Info().
		Int("classes", result.Classes).
		Int("files", len(result.Files)).
		Msg("regenerated")
}
