// Package driver runs a generation: it discovers and loads schema files,
// renders every configured target and writes the results.
package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/okra-platform/astgen/internal/ast"
	"github.com/okra-platform/astgen/internal/codegen"
	"github.com/okra-platform/astgen/internal/codegen/writer"
	"github.com/okra-platform/astgen/internal/config"
	"github.com/okra-platform/astgen/internal/schema"
	"github.com/rs/zerolog"
)

// Options configure a generation run
type Options struct {
	// SchemaDirs are scanned (non-recursively) for schema files
	SchemaDirs []string

	// Output is the directory generated files are written to
	Output string

	// License is an optional file whose text heads every generated file
	License string

	Namespace string
	Module    string

	// Targets names the registered generators to run
	Targets []string
}

// OptionsFromConfig converts a loaded configuration into run options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SchemaDirs: cfg.Schema,
		Output:     cfg.Output,
		License:    cfg.License,
		Namespace:  cfg.Namespace,
		Module:     cfg.Module,
		Targets:    cfg.Targets,
	}
}

// Result summarises a completed run
type Result struct {
	Classes  int
	Files    []string
	Duration time.Duration
}

// Driver runs generations with a fixed set of options
type Driver struct {
	opts     Options
	registry *codegen.Registry
	logger   zerolog.Logger
}

// New creates a driver resolving targets through registry
func New(opts Options, registry *codegen.Registry, logger zerolog.Logger) *Driver {
	return &Driver{
		opts:     opts,
		registry: registry,
		logger:   logger.With().Str("component", "driver").Logger(),
	}
}

// Options returns the options the driver runs with
func (d *Driver) Options() Options {
	return d.opts
}

// Discover lists the schema files in each directory, sorted by name within a
// directory and in directory order overall
func Discover(dirs []string) ([]string, error) {
	var files []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, errors.WithHint(
				errors.Wrapf(err, "schema directory %s", dir),
				"create the directory or point -astdir at an existing one")
		}

		// ReadDir returns entries sorted by filename
		for _, entry := range entries {
			if entry.IsDir() || !schema.IsSchemaFile(entry.Name()) {
				continue
			}
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// Load parses every file and merges the classes in file order
func Load(files []string) (*ast.AST, error) {
	result := &ast.AST{}
	for _, file := range files {
		a, err := schema.LoadFile(file)
		if err != nil {
			return nil, err
		}
		result.Merge(a)
	}
	return result, nil
}

// Run loads the schema, renders every target and writes all files. Nothing is
// written unless every target succeeded.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	files, err := Discover(d.opts.SchemaDirs)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		d.logger.Warn().Strs("dirs", d.opts.SchemaDirs).Msg("no schema files found")
	}

	a, err := Load(files)
	if err != nil {
		return nil, err
	}
	d.logger.Debug().
		Int("files", len(files)).
		Int("classes", len(a.Classes)).
		Msg("loaded schema")

	license, err := d.license()
	if err != nil {
		return nil, err
	}

	var out []writer.File
	done := map[string]bool{}
	for _, target := range d.opts.Targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		gen, err := d.registry.Get(target, codegen.Options{Namespace: d.opts.Namespace, Module: d.opts.Module})
		if err != nil {
			return nil, errors.WithHintf(err, "available targets: %s", strings.Join(d.registry.Targets(), ", "))
		}
		if done[gen.Target()] {
			d.logger.Debug().Str("target", target).Msg("skipping alias of a target already generated")
			continue
		}
		done[gen.Target()] = true

		generated, err := Generate(gen, a)
		if err != nil {
			return nil, err
		}

		header := LicenseHeader(license, gen.CommentPrefix())
		for _, f := range generated {
			out = append(out, writer.File{Name: f.Name, Content: append([]byte(header), f.Content...)})
		}
		d.logger.Debug().
			Str("target", gen.Target()).
			Int("files", len(generated)).
			Msg("generated target")
	}

	written, err := d.write(out)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Classes:  len(a.Classes),
		Files:    written,
		Duration: time.Since(start),
	}
	d.logger.Info().
		Int("classes", result.Classes).
		Int("files", len(result.Files)).
		Dur("duration", result.Duration).
		Str("output", d.opts.Output).
		Msg("generation complete")
	return result, nil
}

// Generate runs one generator. An unsupported type term aborts the generator
// with an assertion failure, which is returned as an error.
func Generate(gen codegen.Generator, a *ast.AST) (files []writer.File, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(error); ok && errors.HasAssertionFailure(e) {
			files, err = nil, errors.Wrapf(e, "target %s", gen.Target())
			return
		}
		panic(r)
	}()

	files, err = gen.Generate(a)
	if err != nil {
		return nil, errors.Wrapf(err, "target %s", gen.Target())
	}
	return files, nil
}

// LicenseHeader turns license text into a comment block using prefix,
// followed by a blank line. Empty text yields no header.
func LicenseHeader(text, prefix string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	w := writer.NewWriter("", writer.WithCommentPrefix(prefix))
	for _, line := range strings.Split(text, "\n") {
		w.WriteComment(strings.TrimRight(line, " \t\r"))
	}
	w.Println()
	return w.String()
}

func (d *Driver) license() (string, error) {
	if d.opts.License == "" {
		return "", nil
	}
	data, err := os.ReadFile(d.opts.License)
	if err != nil {
		return "", errors.Wrap(err, "reading license")
	}
	return string(data), nil
}

func (d *Driver) write(files []writer.File) ([]string, error) {
	if err := os.MkdirAll(d.opts.Output, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(d.opts.Output, f.Name)
		if err := os.WriteFile(path, f.Content, 0644); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", path, err)
		}
		d.logger.Debug().Str("path", path).Int("size", len(f.Content)).Msg("wrote file")
		written = append(written, path)
	}
	return written, nil
}
