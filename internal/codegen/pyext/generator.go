// Package pyext generates a Cython extension module exposing the native C++
// classes to Python.
package pyext

import (
	"github.com/okra-platform/astgen/internal/ast"
	"github.com/okra-platform/astgen/internal/codegen/writer"
)

// DefaultModule names the extension module when none is configured
const DefaultModule = "astgen_ext"

// Generator generates the declaration and wrapper modules of the extension
type Generator struct {
	namespace string
	module    string
}

// NewGenerator creates a new Cython binding generator
func NewGenerator(namespace, module string) *Generator {
	if module == "" {
		module = DefaultModule
	}
	return &Generator{
		namespace: namespace,
		module:    module,
	}
}

// Target returns the name of the target representation
func (g *Generator) Target() string {
	return "pyext"
}

// CommentPrefix returns the line-comment marker of generated files
func (g *Generator) CommentPrefix() string {
	return "#"
}

// Generate emits <module>_decl.pxd and <module>.pyx covering every class
func (g *Generator) Generate(a *ast.AST) ([]writer.File, error) {
	return []writer.File{
		{Name: DeclModule(g.module) + ".pxd", Content: []byte(NewDeclGen(g.namespace).Generate(a))},
		{Name: g.module + ".pyx", Content: []byte(NewWrapperGen(g.module).Generate(a))},
	}, nil
}
