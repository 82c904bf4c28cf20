// Package codegen maps target names onto the generators that turn a class
// graph into source files.
package codegen

import (
	"github.com/okra-platform/astgen/internal/ast"
	"github.com/okra-platform/astgen/internal/codegen/writer"
)

// Generator is the interface that all target-specific code generators must implement
type Generator interface {
	// Generate renders every class and returns the files to write, relative to
	// the output directory
	Generate(a *ast.AST) ([]writer.File, error)

	// Target returns the name of the target representation (e.g., "cpp", "pyext")
	Target() string

	// CommentPrefix returns the line-comment marker of the generated files,
	// used to turn a license text into a header
	CommentPrefix() string
}

// Options contains common options for code generation
type Options struct {
	// Namespace wraps generated native classes (e.g., "geo" or "a::b")
	Namespace string

	// Module names the generated extension module of binding targets
	Module string
}
