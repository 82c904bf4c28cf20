// Package cpp generates native C++ classes (header and implementation) from
// the class graph.
package cpp

import (
	"github.com/okra-platform/astgen/internal/ast"
	"github.com/okra-platform/astgen/internal/codegen/writer"
)

// Generator generates a C++ header/implementation pair per class
type Generator struct {
	namespace string
}

// NewGenerator creates a new C++ code generator
func NewGenerator(namespace string) *Generator {
	return &Generator{
		namespace: namespace,
	}
}

// Target returns the name of the target representation
func (g *Generator) Target() string {
	return "cpp"
}

// CommentPrefix returns the line-comment marker of generated files
func (g *Generator) CommentPrefix() string {
	return "//"
}

// Generate emits <Class>.h and <Class>.cpp for every class, in schema order
func (g *Generator) Generate(a *ast.AST) ([]writer.File, error) {
	files := make([]writer.File, 0, 2*len(a.Classes))
	for _, c := range a.Classes {
		cg := NewClassGen(c, g.namespace)
		files = append(files,
			writer.File{Name: c.Name + ".h", Content: []byte(cg.Header())},
			writer.File{Name: c.Name + ".cpp", Content: []byte(cg.Impl())},
		)
	}
	return files, nil
}
