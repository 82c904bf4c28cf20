// Package render defines the contract shared by the per-target type-name
// renderers: the usage context a type is rendered in and the scalar token table
// every target agrees on.
package render

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/okra-platform/astgen/internal/ast"
)

// Context describes where a rendered type name will be used. It is a value: a
// nested render builds a new Context instead of changing the caller's.
type Context struct {
	// IsReturn marks a getter return position. Unique pointers render as a
	// non-owning raw view there.
	IsReturn bool
	// IsRef appends a by-reference qualifier
	IsRef bool
	// IsPtr appends a pointer qualifier to leaf types
	IsPtr bool
	// IsConst prepends a const qualifier
	IsConst bool
	// Compressed abbreviates ownership wrappers to short suffix tags
	Compressed bool
	// IsPyx selects the Python-facing declaration form of the binding target
	IsPyx bool
	// Depth is zero for the outermost term of a render call
	Depth int
}

// Nested returns the context a pointer renders its contained term with: one
// level deeper, keeping only the qualifiers that apply to the pointee.
func (c Context) Nested() Context {
	return Context{
		IsConst:    c.IsConst,
		Compressed: c.Compressed,
		IsPyx:      c.IsPyx,
		Depth:      c.Depth + 1,
	}
}

// Element returns the context collection elements, keys and values render with
func (c Context) Element() Context {
	return Context{Compressed: c.Compressed}
}

// Renderer turns a type term into the type name of one target representation
type Renderer interface {
	Render(t ast.Type, ctx Context) string
}

var scalarTokens = map[ast.ScalarKind]string{
	ast.Bool:   "bool",
	ast.Int8:   "int8_t",
	ast.Uint8:  "uint8_t",
	ast.Int16:  "int16_t",
	ast.Uint16: "uint16_t",
	ast.Int32:  "int32_t",
	ast.Uint32: "uint32_t",
	ast.Int64:  "int64_t",
	ast.Uint64: "uint64_t",
	ast.String: "std::string",
}

// ScalarToken returns the native token for a scalar kind
func ScalarToken(kind ast.ScalarKind) string {
	tok, ok := scalarTokens[kind]
	if !ok {
		Unsupported("scalar kind %v", kind)
	}
	return tok
}

// Decorate applies the leaf qualifiers of ctx to a rendered name
func Decorate(name string, ctx Context, ptrSuffix string) string {
	var sb strings.Builder
	if ctx.IsConst {
		sb.WriteString("const ")
	}
	sb.WriteString(name)
	if ctx.IsPtr {
		sb.WriteString(ptrSuffix)
	}
	if ctx.IsRef {
		sb.WriteString(" &")
	}
	return sb.String()
}

// Declarator joins a rendered type and a declarator name. Pointer and reference
// qualifiers bind to the name ("Foo *get_x"), everything else is space separated.
func Declarator(typ, name string) string {
	if strings.HasSuffix(typ, "*") || strings.HasSuffix(typ, "&") {
		return typ + name
	}
	return typ + " " + name
}

// Unsupported aborts generation for a variant a renderer or generator has no case
// for. It is a programming error and is never recovered by the core.
func Unsupported(format string, args ...interface{}) {
	panic(errors.AssertionFailedf("unsupported "+format, args...))
}
