package commands

import (
	"context"
	"fmt"

	"github.com/okra-platform/astgen/internal/driver"
)

// Generate runs every configured target once
func (c *Controller) Generate(ctx context.Context, flags GenerateFlags) error {
	cfg, err := c.projectConfig(flags)
	if err != nil {
		return err
	}

	d := driver.New(driver.OptionsFromConfig(cfg), c.registry(), c.logger())
	result, err := d.Run(ctx)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	fmt.Printf("✅ Generated %d file(s) for %d class(es) in %s\n", len(result.Files), result.Classes, cfg.Output)
	return nil
}
