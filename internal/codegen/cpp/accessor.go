package cpp

import (
	"strings"

	"github.com/okra-platform/astgen/internal/ast"
	"github.com/okra-platform/astgen/internal/codegen/render"
	"github.com/okra-platform/astgen/internal/codegen/writer"
)

// Accessor shape per field type:
//
//	list, map      const-ref read accessor, non-const ref write accessor
//	scalar         by-value getter, by-value setter
//	string, class  const-ref getter, const-ref setter
//	raw pointer    pointer getter, pointer setter
//	unique pointer raw view getter, setter adopting the passed pointer
//	shared pointer shared handle getter and setter

// Fragment is the text generated for one field: declarations for the class body
// and definitions for the implementation file
type Fragment struct {
	Decl string
	Def  string
}

// AccessorGen generates the accessor pair of each field of one class
type AccessorGen struct {
	className string
	indent    string
}

// NewAccessorGen creates an accessor generator for className
func NewAccessorGen(className string) *AccessorGen {
	return &AccessorGen{
		className: className,
		indent:    Indent,
	}
}

// Generate returns the accessor declarations and definitions for field
func (g *AccessorGen) Generate(field *ast.Field) Fragment {
	return ast.Dispatch[Fragment](field.Type, accessors{gen: g, field: field})
}

// MemberName is the name of the data member backing a field
func MemberName(field string) string {
	return "m_" + field
}

// method is one generated member function
type method struct {
	ret     string
	name    string
	param   string
	isConst bool
	body    string
}

func (m method) signature(scope string) string {
	sig := scope + m.name + "(" + m.param + ")"
	if m.isConst {
		sig += " const"
	}
	return render.Declarator(m.ret, sig)
}

// accessors is the visitor for a single field
type accessors struct {
	gen   *AccessorGen
	field *ast.Field
}

func (a accessors) VisitList(t *ast.List) Fragment {
	return a.collection(t)
}

func (a accessors) VisitMap(t *ast.Map) Fragment {
	return a.collection(t)
}

func (a accessors) VisitScalar(t *ast.Scalar) Fragment {
	if t.Kind == ast.String {
		return a.byConstRef(t)
	}

	return a.pair(
		method{
			ret:     TypeName(t, render.Context{Compressed: true, IsReturn: true}),
			name:    a.getter(),
			isConst: true,
			body:    "return " + a.member() + ";",
		},
		a.setter(TypeName(t, render.Context{Compressed: true}), a.member()+" = v;"),
	)
}

func (a accessors) VisitUserDefined(t *ast.UserDefined) Fragment {
	return a.byConstRef(t)
}

func (a accessors) VisitPointer(t *ast.Pointer) Fragment {
	switch t.Kind {
	case ast.Raw:
		typ := TypeName(t, render.Context{Compressed: true})
		return a.pair(
			method{ret: typ, name: a.getter(), body: "return " + a.member() + ";"},
			a.setter(typ, a.member()+" = v;"),
		)
	case ast.Unique:
		// The getter lends a view; the setter takes ownership of v
		view := TypeName(t, render.Context{Compressed: true, IsReturn: true})
		owner := TypeName(t, render.Context{Compressed: true})
		return a.pair(
			method{ret: view, name: a.getter(), isConst: true, body: "return " + a.member() + ".get();"},
			a.setter(view, a.member()+" = "+owner+"(v);"),
		)
	case ast.Shared:
		typ := TypeName(t, render.Context{Compressed: true})
		return a.pair(
			method{ret: typ, name: a.getter(), isConst: true, body: "return " + a.member() + ";"},
			a.setter(typ, a.member()+" = v;"),
		)
	}

	render.Unsupported("accessor generation for %v pointer field %s", t.Kind, a.field.Name)
	return Fragment{}
}

func (a accessors) collection(t ast.Type) Fragment {
	return a.pair(
		method{
			ret:     TypeName(t, render.Context{Compressed: true, IsReturn: true, IsConst: true}),
			name:    a.getter(),
			isConst: true,
			body:    "return " + a.member() + ";",
		},
		method{
			ret:  TypeName(t, render.Context{Compressed: true, IsReturn: true}),
			name: a.getter(),
			body: "return " + a.member() + ";",
		},
	)
}

func (a accessors) byConstRef(t ast.Type) Fragment {
	typ := TypeName(t, render.Context{Compressed: true, IsConst: true, IsRef: true})
	return a.pair(
		method{ret: typ, name: a.getter(), isConst: true, body: "return " + a.member() + ";"},
		a.setter(typ, a.member()+" = v;"),
	)
}

func (a accessors) setter(paramType, body string) method {
	return method{
		ret:   "void",
		name:  "set_" + a.field.Name,
		param: render.Declarator(paramType, "v"),
		body:  body,
	}
}

func (a accessors) getter() string { return "get_" + a.field.Name }

func (a accessors) member() string { return MemberName(a.field.Name) }

// pair lays out two methods: each declaration, and each definition scoped to
// the class, separated by a blank line
func (a accessors) pair(first, second method) Fragment {
	var decl strings.Builder
	decl.WriteString(first.signature("") + ";\n")
	decl.WriteString("\n")
	decl.WriteString(second.signature("") + ";\n")

	def := writer.NewWriter(a.gen.indent)
	scope := a.gen.className + "::"
	for i, m := range []method{first, second} {
		if i > 0 {
			def.Println()
		}
		def.WriteBlock(m.signature(scope)+" {", "}", func() {
			def.WriteLine(m.body)
		})
	}

	return Fragment{Decl: decl.String(), Def: def.String()}
}
