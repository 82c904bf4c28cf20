// Package commands contains the CLI commands for the application
package commands

import (
	"github.com/okra-platform/astgen/internal/codegen"
	"github.com/okra-platform/astgen/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Flags struct {
	LogLevel string
}

// GenerateFlags are the command-line overrides of the configuration file
type GenerateFlags struct {
	SchemaDirs []string
	Output     string
	License    string
	Targets    []string
	Namespace  string
}

type Controller struct {
	Flags *Flags

	// Registry resolves targets; codegen.DefaultRegistry when nil
	Registry *codegen.Registry

	// LoadConfig finds the project configuration; config.LoadConfig when nil
	LoadConfig func() (*config.Config, string, error)
}

func (c *Controller) registry() *codegen.Registry {
	if c.Registry != nil {
		return c.Registry
	}
	return codegen.DefaultRegistry
}

func (c *Controller) logger() zerolog.Logger {
	return log.Logger
}

// projectConfig loads the project configuration and applies flag overrides.
// Without a configuration file the defaults plus the flags are used.
func (c *Controller) projectConfig(flags GenerateFlags) (*config.Config, error) {
	load := c.LoadConfig
	if load == nil {
		load = config.LoadConfig
	}

	cfg, root, err := load()
	switch {
	case err == nil:
		cfg.Resolve(root)
		c.logger().Debug().Str("root", root).Msg("using project configuration")
	case flags.hasSources():
		c.logger().Debug().Err(err).Msg("no project configuration, using flags")
		cfg = config.Default()
	default:
		return nil, err
	}

	flags.apply(cfg)
	return cfg, nil
}

func (f GenerateFlags) hasSources() bool {
	return len(f.SchemaDirs) > 0
}

func (f GenerateFlags) apply(cfg *config.Config) {
	if len(f.SchemaDirs) > 0 {
		cfg.Schema = f.SchemaDirs
	}
	if f.Output != "" {
		cfg.Output = f.Output
	}
	if f.License != "" {
		cfg.License = f.License
	}
	if len(f.Targets) > 0 {
		cfg.Targets = f.Targets
	}
	if f.Namespace != "" {
		cfg.Namespace = f.Namespace
	}
}
