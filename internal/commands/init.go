package commands

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"text/template"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/okra-platform/astgen/internal/config"
)

//go:embed templates/*
var templatesFS embed.FS

const schemaTemplate = "templates/schema.yaml.tmpl"

var namespacePattern = regexp.MustCompile(`^([A-Za-z_]\w*(::[A-Za-z_]\w*)*)?$`)

type InitOptions struct {
	ProjectName string
	Namespace   string
	Targets     []string
}

type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
}

type osFileSystem struct{}

func (fs *osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *osFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (fs *osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

type InitCommand struct {
	filesystem  FileSystem
	templatesFS fs.FS
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

func NewInitCommand() *InitCommand {
	return &InitCommand{
		filesystem:  &osFileSystem{},
		templatesFS: templatesFS,
	}
}

func (c *Controller) Init(ctx context.Context) error {
	cmd := NewInitCommand()
	return cmd.Run(ctx)
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	var options *InitOptions
	var err error

	// For testing: use provided options instead of prompting
	if ic.testOptions != nil {
		options = ic.testOptions
	} else {
		options, err = ic.promptInitOptions(opts...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := ic.scaffold(options); err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	fmt.Printf("✅ Created project %s, run `astgen generate` inside it\n", options.ProjectName)
	return nil
}

// scaffold writes astgen.json and a starter schema into a new project directory
func (ic *InitCommand) scaffold(options *InitOptions) error {
	if options.ProjectName == "" {
		return fmt.Errorf("project name cannot be empty")
	}

	cfg := config.New(options.ProjectName)
	cfg.Namespace = options.Namespace
	if len(options.Targets) > 0 {
		cfg.Targets = options.Targets
	}

	schemaDir := filepath.Join(options.ProjectName, cfg.Schema[0])
	if err := ic.filesystem.MkdirAll(schemaDir, 0755); err != nil {
		return fmt.Errorf("failed to create schema directory: %w", err)
	}

	starter, err := ic.renderSchema(options)
	if err != nil {
		return err
	}
	schemaPath := filepath.Join(schemaDir, cfg.Module+".yaml")
	if err := ic.filesystem.WriteFile(schemaPath, starter, 0644); err != nil {
		return fmt.Errorf("failed to write starter schema: %w", err)
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := ic.filesystem.WriteFile(filepath.Join(options.ProjectName, config.FileNames[0]), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (ic *InitCommand) renderSchema(options *InitOptions) ([]byte, error) {
	tmpl, err := template.ParseFS(ic.templatesFS, schemaTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, options); err != nil {
		return nil, fmt.Errorf("failed to render schema template: %w", err)
	}
	return buf.Bytes(), nil
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	var projectName, namespace string
	targets := []string{"cpp"}

	form := ic.createInitForm(&projectName, &namespace, &targets)

	if len(opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	return &InitOptions{
		ProjectName: projectName,
		Namespace:   namespace,
		Targets:     targets,
	}, nil
}

func (ic *InitCommand) createInitForm(projectName, namespace *string, targets *[]string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Description("Name of your new astgen project").
				Value(projectName).
				Validate(ic.validateProjectName),

			huh.NewInput().
				Title("Namespace").
				Description("C++ namespace of the generated classes (optional)").
				Value(namespace).
				Validate(validateNamespace),

			huh.NewMultiSelect[string]().
				Title("Targets").
				Description("Representations to generate").
				Options(
					huh.NewOption("C++ classes", "cpp"),
					huh.NewOption("Cython extension", "pyext"),
				).
				Value(targets).
				Validate(func(s []string) error {
					if len(s) == 0 {
						return fmt.Errorf("select at least one target")
					}
					return nil
				}),
		),
	)
}

func (ic *InitCommand) validateProjectName(s string) error {
	if s == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if _, err := ic.filesystem.Stat(s); err == nil {
		return fmt.Errorf("directory %s already exists", s)
	}
	return nil
}

func validateNamespace(s string) error {
	if !namespacePattern.MatchString(s) {
		return fmt.Errorf("%q is not a valid C++ namespace", s)
	}
	return nil
}
