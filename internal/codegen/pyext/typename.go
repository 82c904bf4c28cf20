package pyext

import (
	"strings"

	"github.com/okra-platform/astgen/internal/ast"
	"github.com/okra-platform/astgen/internal/codegen/render"
)

// TypeNameGen renders type terms in Cython declaration syntax: std:: names are
// ctypedef'd with a std_ prefix and templates use square brackets.
type TypeNameGen struct{}

// NewTypeNameGen creates a binding-layer type-name renderer
func NewTypeNameGen() *TypeNameGen {
	return &TypeNameGen{}
}

// Render returns the Cython spelling of t in the usage context ctx
func (g *TypeNameGen) Render(t ast.Type, ctx render.Context) string {
	return ast.Dispatch[string](t, typeName{ctx: ctx})
}

// TypeName is shorthand for rendering with a fresh renderer
func TypeName(t ast.Type, ctx render.Context) string {
	return NewTypeNameGen().Render(t, ctx)
}

// mangle maps a native token onto its cimported alias (std::string -> std_string)
func mangle(token string) string {
	return strings.ReplaceAll(token, "::", "_")
}

type typeName struct {
	ctx render.Context
}

func (v typeName) VisitScalar(t *ast.Scalar) string {
	return render.Decorate(mangle(render.ScalarToken(t.Kind)), v.ctx, " *")
}

func (v typeName) VisitUserDefined(t *ast.UserDefined) string {
	suffix := " *"
	if v.ctx.IsPyx {
		suffix = ""
	}
	return render.Decorate(t.Name, v.ctx, suffix)
}

func (v typeName) VisitPointer(t *ast.Pointer) string {
	if v.ctx.Depth > 0 {
		return TypeName(t, render.Context{})
	}

	inner := ast.Dispatch[string](t.Elem, typeName{ctx: v.ctx.Nested()})
	if v.ctx.IsPyx && t.Kind.Valid() {
		// Python-facing code names the wrapper class only
		return inner
	}
	_, named := t.Elem.(*ast.UserDefined)
	compressed := v.ctx.Compressed && named

	switch t.Kind {
	case ast.Raw:
		return inner + " *"
	case ast.Unique:
		if v.ctx.IsReturn {
			return inner + " *"
		}
		if compressed {
			return inner + "UP"
		}
		return "std_unique_ptr[" + inner + "]"
	case ast.Shared:
		if compressed {
			return inner + "SP"
		}
		return "std_shared_ptr[" + inner + "]"
	}

	render.Unsupported("pointer kind %v", t.Kind)
	return ""
}

func (v typeName) VisitList(t *ast.List) string {
	if v.ctx.Depth > 0 {
		return TypeName(t, render.Context{})
	}
	return v.collection("std_vector[" + TypeName(t.Elem, v.ctx.Element()) + "]")
}

func (v typeName) VisitMap(t *ast.Map) string {
	if v.ctx.Depth > 0 {
		return TypeName(t, render.Context{})
	}
	elem := v.ctx.Element()
	return v.collection("std_map[" + TypeName(t.Key, elem) + "," + TypeName(t.Value, elem) + "]")
}

func (v typeName) collection(name string) string {
	if v.ctx.IsConst {
		name = "const " + name
	}
	if v.ctx.IsReturn || v.ctx.IsRef {
		name += " &"
	}
	return name
}
