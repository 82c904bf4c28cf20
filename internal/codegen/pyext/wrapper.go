package pyext

import (
	"github.com/okra-platform/astgen/internal/ast"
	"github.com/okra-platform/astgen/internal/codegen/render"
	"github.com/okra-platform/astgen/internal/codegen/writer"
)

// WrapperGen emits the Python-facing extension classes. Each wrapper holds a
// handle to the native object and whether it owns it.
type WrapperGen struct {
	module string
}

// NewWrapperGen creates a wrapper emitter cimporting the declarations of module
func NewWrapperGen(module string) *WrapperGen {
	return &WrapperGen{module: module}
}

// DeclModule is the name of the declaration module for module
func DeclModule(module string) string {
	return module + "_decl"
}

// Generate returns the text of the extension module
func (g *WrapperGen) Generate(a *ast.AST) string {
	w := writer.NewWriter(Indent, writer.WithCommentPrefix("#"))

	w.WriteLine("# distutils: language = c++")
	w.WriteComment("Generated by astgen. Do not edit.")
	w.BlankLine()
	w.WriteLine("from libcpp cimport bool")
	w.WriteLinef("cimport %s as decl", DeclModule(g.module))
	w.BlankLine()

	for _, c := range a.Classes {
		w.BlankLine()
		newClassWrapper(a, c).write(w)
	}

	return w.String()
}

type classWrapper struct {
	class *ast.Class
	// base is the wrapper this class inherits from, empty for a root wrapper
	base  string
	// root is the class whose handle type the root wrapper stores
	root  string
	known func(string) bool
}

func newClassWrapper(a *ast.AST, c *ast.Class) classWrapper {
	cw := classWrapper{
		class: c,
		root:  c.Name,
		known: func(name string) bool { return a.Class(name) != nil },
	}
	if c.Super != "" && a.Class(c.Super) != nil {
		cw.base = c.Super
	}

	seen := map[string]bool{c.Name: true}
	for cur := a.Class(c.Super); cur != nil && !seen[cur.Name]; cur = a.Class(cur.Super) {
		seen[cur.Name] = true
		cw.root = cur.Name
	}
	return cw
}

func (cw classWrapper) write(w *writer.Writer) {
	name := cw.class.Name
	opener := "cdef class " + name + ":"
	if cw.base != "" {
		opener = "cdef class " + name + "(" + cw.base + "):"
	}

	w.WriteLine(opener)
	w.Indent()
	defer w.Dedent()

	if cw.class.Doc != "" {
		w.WriteLinef("\"\"\"%s\"\"\"", cw.class.Doc)
		w.BlankLine()
	}

	if cw.base == "" {
		w.WriteLinef("cdef decl.%s *_hndl", name)
		w.WriteLine("cdef bool _owned")
		w.BlankLine()
		suite(w, "def __dealloc__(self):", func() {
			suite(w, "if self._owned and self._hndl != NULL:", func() {
				w.WriteLine("del self._hndl")
			})
			w.WriteLine("self._hndl = NULL")
		})
		w.BlankLine()
	}

	w.WriteLine("@staticmethod")
	suite(w, "def create():", func() {
		w.WriteLinef("return %s.mk(new decl.%s(), True)", name, name)
	})
	w.BlankLine()

	w.WriteLine("@staticmethod")
	suite(w, "cdef "+name+" mk(decl."+name+" *hndl, bool owned):", func() {
		w.WriteLinef("ret = %s.__new__(%s)", name, name)
		if cw.root == name {
			w.WriteLine("ret._hndl = hndl")
		} else {
			w.WriteLinef("ret._hndl = <decl.%s *>hndl", cw.root)
		}
		w.WriteLine("ret._owned = owned")
		w.WriteLine("return ret")
	})
	w.BlankLine()

	suite(w, "cdef decl."+name+" *"+AsMethod(name)+"(self):", func() {
		w.WriteLinef("return <decl.%s *>self._hndl", name)
	})
	w.BlankLine()

	for _, f := range cw.class.Fields {
		methods := ast.Dispatch[[]string](f.Type, pyMethods{self: AsMethod(name) + "()", field: f, known: cw.known})
		for _, m := range methods {
			w.WriteFragment(m)
			w.BlankLine()
		}
	}
}

// suite writes body as an indented block under header
func suite(w *writer.Writer, header string, body func()) {
	w.WriteLine(header)
	w.Indent()
	body()
	w.Dedent()
}

// AsMethod is the name of the method returning the typed native handle of a wrapper
func AsMethod(class string) string {
	return "as" + class
}

// pyMethods renders the Python-visible accessors of one field. Each entry is
// either a method or a one-line comment.
type pyMethods struct {
	self  string
	field *ast.Field
	known func(string) bool
}

func (p pyMethods) VisitScalar(t *ast.Scalar) []string {
	if t.Kind == ast.String {
		return []string{
			p.getter("return self." + p.self + ".get_" + p.field.Name + "().decode()"),
			p.setter("self."+p.self+".set_"+p.field.Name+"(v.encode())"),
		}
	}
	return []string{
		p.getter("return self." + p.self + ".get_" + p.field.Name + "()"),
		p.setter("self."+p.self+".set_"+p.field.Name+"(v)"),
	}
}

func (p pyMethods) VisitList(t *ast.List) []string {
	if scalarOnly(t.Elem) {
		return []string{p.getter("return self." + p.self + ".get_" + p.field.Name + "()")}
	}
	return []string{p.skipped("list element " + t.Elem.String())}
}

func (p pyMethods) VisitMap(t *ast.Map) []string {
	if scalarOnly(t.Key) && scalarOnly(t.Value) {
		return []string{p.getter("return self." + p.self + ".get_" + p.field.Name + "()")}
	}
	return []string{p.skipped("map of " + t.Key.String() + " to " + t.Value.String())}
}

func (p pyMethods) VisitUserDefined(t *ast.UserDefined) []string {
	return []string{p.skipped("class value " + t.Name)}
}

func (p pyMethods) VisitPointer(t *ast.Pointer) []string {
	target, ok := t.Elem.(*ast.UserDefined)
	if !ok {
		return []string{p.skipped("pointer to " + t.Elem.String())}
	}
	if !p.known(target.Name) {
		return []string{p.skipped("pointer to unknown class " + target.Name)}
	}
	wrapper := TypeName(t, render.Context{IsPyx: true})
	view := TypeName(target, render.Context{IsPtr: true})

	get := "self." + p.self + ".get_" + p.field.Name + "()"
	switch t.Kind {
	case ast.Raw:
		return []string{p.wrap(wrapper, view, get), p.adopt(wrapper, false)}
	case ast.Unique:
		return []string{p.wrap(wrapper, view, get), p.adopt(wrapper, true)}
	case ast.Shared:
		return []string{
			p.wrap(wrapper, view, get+".get()"),
			p.skipped("shared handle setter"),
		}
	}
	render.Unsupported("binding wrapper for %v pointer field %s", t.Kind, p.field.Name)
	return nil
}

// wrap returns a getter lending the native object to a non-owning wrapper
func (p pyMethods) wrap(wrapper, view, get string) string {
	w := writer.NewWriter(Indent)
	suite(w, "def get_"+p.field.Name+"(self):", func() {
		w.WriteLine("cdef decl." + render.Declarator(view, "p") + " = " + get)
		suite(w, "if p == NULL:", func() {
			w.WriteLine("return None")
		})
		w.WriteLinef("return %s.mk(p, False)", wrapper)
	})
	return w.String()
}

// adopt returns a setter passing the native object of v; a unique field takes
// ownership away from the Python wrapper
func (p pyMethods) adopt(wrapper string, unique bool) string {
	w := writer.NewWriter(Indent)
	suite(w, "def set_"+p.field.Name+"(self, "+wrapper+" v):", func() {
		suite(w, "if v is None:", func() {
			w.WriteLinef("self.%s.set_%s(NULL)", p.self, p.field.Name)
		})
		suite(w, "else:", func() {
			w.WriteLinef("self.%s.set_%s(v.%s())", p.self, p.field.Name, AsMethod(wrapper))
			if unique {
				w.WriteLine("v._owned = False")
			}
		})
	})
	return w.String()
}

func (p pyMethods) getter(body string) string {
	return p.method("def get_"+p.field.Name+"(self):", body)
}

func (p pyMethods) setter(body string) string {
	return p.method("def set_"+p.field.Name+"(self, v):", body)
}

func (p pyMethods) method(opener, body string) string {
	w := writer.NewWriter(Indent)
	suite(w, opener, func() {
		w.WriteLine(body)
	})
	return w.String()
}

func (p pyMethods) skipped(what string) string {
	return "# " + p.field.Name + ": " + what + " is not exposed"
}

func scalarOnly(t ast.Type) bool {
	s, ok := t.(*ast.Scalar)
	return ok && s.Kind != ast.String
}
