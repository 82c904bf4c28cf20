package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/okra-platform/astgen/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func generateFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:    "astdir",
			Aliases: []string{"a"},
			Usage:   "directory containing schema files (repeatable)",
		},
		&cli.StringFlag{
			Name:    "o",
			Aliases: []string{"output"},
			Usage:   "output directory",
		},
		&cli.StringFlag{
			Name:  "license",
			Usage: "file whose text heads every generated file",
		},
		&cli.StringSliceFlag{
			Name:    "target",
			Aliases: []string{"t"},
			Usage:   "target to generate, e.g. cpp or pyext (repeatable)",
		},
		&cli.StringFlag{
			Name:  "namespace",
			Usage: "C++ namespace of the generated classes",
		},
	}
}

func readGenerateFlags(c *cli.Command) commands.GenerateFlags {
	return commands.GenerateFlags{
		SchemaDirs: c.StringSlice("astdir"),
		Output:     c.String("o"),
		License:    c.String("license"),
		Targets:    c.StringSlice("target"),
		Namespace:  c.String("namespace"),
	}
}

func main() {
	ctrl := &commands.Controller{
		Flags: &commands.Flags{},
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:    "astgen",
		Usage:   "Generate C++ classes and Python bindings from a class schema",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("ASTGEN_LOG_LEVEL"),
				Value:       "info",
				Destination: &ctrl.Flags.LogLevel,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Generate every configured target once",
				Flags: generateFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Generate(ctx, readGenerateFlags(c))
				},
			},
			{
				Name:  "watch",
				Usage: "Generate, then regenerate whenever a schema file changes",
				Flags: generateFlags(),
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Watch(ctx, readGenerateFlags(c))
				},
			},
			{
				Name:  "init",
				Usage: "Create a new astgen project",
				Action: func(ctx context.Context, c *cli.Command) error {
					return ctrl.Init(ctx)
				},
			},
		},
	}

	ctx := context.Background()

	if err := app.Run(ctx, os.Args); err != nil {
		event := log.Fatal().Err(err)
		if hint := errors.FlattenHints(err); hint != "" {
			event = event.Str("hint", hint)
		}
		event.Msg("failed to run astgen")
	}
}
