package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/okra-platform/astgen/internal/driver"
	"github.com/okra-platform/astgen/internal/watch"
)

// Watch generates once and again whenever a schema file changes, until
// interrupted
func (c *Controller) Watch(ctx context.Context, flags GenerateFlags) error {
	cfg, err := c.projectConfig(flags)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	d := driver.New(driver.OptionsFromConfig(cfg), c.registry(), c.logger())
	w := watch.New(watch.Options{
		Dirs:    cfg.Schema,
		Include: cfg.Watch.Include,
		Exclude: cfg.Watch.Exclude,
	}, d, c.logger())

	fmt.Printf("👀 Watching %d schema director(ies), press Ctrl+C to stop\n", len(cfg.Schema))
	if err := w.Run(ctx); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	fmt.Println("\n👋 Stopped watching")
	return nil
}
