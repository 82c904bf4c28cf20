package pyext

import (
	"github.com/okra-platform/astgen/internal/ast"
	"github.com/okra-platform/astgen/internal/codegen/render"
	"github.com/okra-platform/astgen/internal/codegen/writer"
)

// Indent is the indentation unit of generated Cython
const Indent = "    "

// stdCimports are the aliases the std_ names rendered by TypeNameGen refer to
var stdCimports = []string{
	"from libcpp cimport bool",
	"from libcpp.string cimport string as std_string",
	"from libcpp.vector cimport vector as std_vector",
	"from libcpp.map cimport map as std_map",
	"from libcpp.memory cimport unique_ptr as std_unique_ptr",
	"from libcpp.memory cimport shared_ptr as std_shared_ptr",
	"from libc.stdint cimport int8_t, uint8_t, int16_t, uint16_t, int32_t, uint32_t, int64_t, uint64_t",
}

// DeclGen emits the cppclass declarations of the native classes
type DeclGen struct {
	namespace string
}

// NewDeclGen creates a declaration emitter for classes in namespace
func NewDeclGen(namespace string) *DeclGen {
	return &DeclGen{namespace: namespace}
}

// Generate returns the text of the declaration module
func (g *DeclGen) Generate(a *ast.AST) string {
	w := writer.NewWriter(Indent, writer.WithCommentPrefix("#"))

	w.WriteLine("# distutils: language = c++")
	w.WriteComment("Generated by astgen. Do not edit.")
	w.BlankLine()
	for _, line := range stdCimports {
		w.WriteLine(line)
	}
	w.BlankLine()

	// Forward declarations let classes refer to each other in any order
	w.WriteLine(g.extern("") + ":")
	w.Indent()
	names := forwardNames(a)
	for _, name := range names {
		w.WriteLinef("cdef cppclass %s", name)
		w.WriteLinef("ctypedef %s *%sP", name, name)
		w.WriteLinef("ctypedef std_unique_ptr[%s] %sUP", name, name)
		w.WriteLinef("ctypedef std_shared_ptr[%s] %sSP", name, name)
	}
	if len(names) == 0 {
		w.WriteLine("pass")
	}
	w.Dedent()
	w.BlankLine()

	for _, c := range a.Classes {
		g.class(w, a, c)
		w.BlankLine()
	}

	return w.String()
}

// forwardNames lists the schema classes followed by the names their fields
// refer to that the schema does not define
func forwardNames(a *ast.AST) []string {
	seen := map[string]bool{}
	var names []string
	for _, c := range a.Classes {
		seen[c.Name] = true
		names = append(names, c.Name)
	}
	for _, c := range a.Classes {
		for _, name := range c.References() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

func (g *DeclGen) class(w *writer.Writer, a *ast.AST, c *ast.Class) {
	w.WriteLine(g.extern(c.Name+".h") + ":")
	w.Indent()
	defer w.Dedent()

	// Bases outside the schema are never declared to Cython
	opener := "cdef cppclass " + c.Name
	if c.Super != "" && a.Class(c.Super) != nil {
		opener += "(" + c.Super + ")"
	}
	suite(w, opener+":", func() {
		w.WriteLinef("%s()", c.Name)
		for _, f := range c.Fields {
			for _, sig := range ast.Dispatch[[]string](f.Type, signatures{field: f}) {
				w.WriteLine(sig)
			}
		}
	})
}

// extern returns the opening of an extern block for header
func (g *DeclGen) extern(header string) string {
	from := "*"
	if header != "" {
		from = header
	}
	s := "cdef extern from \"" + from + "\""
	if g.namespace != "" {
		s += " namespace \"" + g.namespace + "\""
	}
	return s
}

// signatures renders the accessor declarations of one field. Cython cannot
// overload on constness, so collections only declare the writable accessor.
type signatures struct {
	field *ast.Field
}

func (s signatures) VisitList(t *ast.List) []string {
	return []string{s.getter(TypeName(t, render.Context{Compressed: true, IsReturn: true}))}
}

func (s signatures) VisitMap(t *ast.Map) []string {
	return []string{s.getter(TypeName(t, render.Context{Compressed: true, IsReturn: true}))}
}

func (s signatures) VisitScalar(t *ast.Scalar) []string {
	if t.Kind == ast.String {
		return s.byConstRef(t)
	}
	return s.pair(
		TypeName(t, render.Context{Compressed: true, IsReturn: true}),
		TypeName(t, render.Context{Compressed: true}),
	)
}

func (s signatures) VisitUserDefined(t *ast.UserDefined) []string {
	return s.byConstRef(t)
}

func (s signatures) VisitPointer(t *ast.Pointer) []string {
	switch t.Kind {
	case ast.Raw, ast.Shared:
		typ := TypeName(t, render.Context{Compressed: true})
		return s.pair(typ, typ)
	case ast.Unique:
		view := TypeName(t, render.Context{Compressed: true, IsReturn: true})
		return s.pair(view, view)
	}
	render.Unsupported("binding declaration for %v pointer field %s", t.Kind, s.field.Name)
	return nil
}

func (s signatures) byConstRef(t ast.Type) []string {
	typ := TypeName(t, render.Context{Compressed: true, IsConst: true, IsRef: true})
	return s.pair(typ, typ)
}

func (s signatures) pair(ret, param string) []string {
	return []string{
		s.getter(ret),
		render.Declarator("void", "set_"+s.field.Name+"("+render.Declarator(param, "v")+")"),
	}
}

func (s signatures) getter(ret string) string {
	return render.Declarator(ret, "get_"+s.field.Name+"()")
}
