package cpp

import (
	"sort"
	"strings"

	"github.com/okra-platform/astgen/internal/ast"
	"github.com/okra-platform/astgen/internal/codegen/render"
	"github.com/okra-platform/astgen/internal/codegen/writer"
)

// Indent is the indentation unit of generated C++
const Indent = "    "

// ClassGen emits the header and implementation of one class
type ClassGen struct {
	class     *ast.Class
	namespace []string
	accessors *AccessorGen
	fragments []Fragment
}

// NewClassGen creates a class emitter. namespace may be empty or nested ("a::b").
func NewClassGen(class *ast.Class, namespace string) *ClassGen {
	g := &ClassGen{
		class:     class,
		accessors: NewAccessorGen(class.Name),
	}
	if namespace != "" {
		g.namespace = strings.Split(namespace, "::")
	}

	// Fields are rendered once, in declaration order, and shared by both files
	for _, f := range class.Fields {
		g.fragments = append(g.fragments, g.accessors.Generate(f))
	}
	return g
}

// Header returns the text of <Class>.h
func (g *ClassGen) Header() string {
	c := g.class
	w := writer.NewWriter(Indent)

	banner(w, c.Name+".h")
	w.WriteLine("#pragma once")
	for _, inc := range g.systemIncludes() {
		w.WriteLinef("#include <%s>", inc)
	}
	if c.Super != "" {
		w.WriteLinef("#include \"%s.h\"", c.Super)
	}
	for _, name := range g.valueReferences() {
		w.WriteLinef("#include \"%s.h\"", name)
	}
	w.BlankLine()

	g.openNamespace(w)

	for _, name := range append(c.References(), c.Name) {
		w.WriteLinef("class %s;", name)
		w.WriteLinef("typedef %s *%sP;", name, name)
		w.WriteLinef("typedef std::unique_ptr<%s> %sUP;", name, name)
		w.WriteLinef("typedef std::shared_ptr<%s> %sSP;", name, name)
	}
	w.BlankLine()

	w.WriteDocComment(c.Doc)
	opener := "class " + c.Name + " {"
	if c.Super != "" {
		opener = "class " + c.Name + " : public " + c.Super + " {"
	}
	w.WriteLine(opener)
	w.WriteLine("public:")
	w.Indent()
	w.WriteLinef("%s();", c.Name)
	w.BlankLine()
	w.WriteLinef("virtual ~%s();", c.Name)
	w.BlankLine()
	for _, frag := range g.fragments {
		w.WriteFragment(frag.Decl)
		w.BlankLine()
	}
	w.Dedent()

	if len(c.Fields) > 0 {
		w.WriteLine("protected:")
		w.Indent()
		for _, f := range c.Fields {
			w.WriteDocComment(f.Doc)
			member := TypeName(f.Type, render.Context{Compressed: true})
			w.WriteLine(render.Declarator(member, MemberName(f.Name)) + ";")
		}
		w.Dedent()
	}
	w.WriteLine("};")
	w.BlankLine()

	g.closeNamespace(w)
	return w.String()
}

// Impl returns the text of <Class>.cpp
func (g *ClassGen) Impl() string {
	c := g.class
	w := writer.NewWriter(Indent)

	banner(w, c.Name+".cpp")
	w.WriteLinef("#include \"%s.h\"", c.Name)
	for _, name := range c.References() {
		w.WriteLinef("#include \"%s.h\"", name)
	}
	w.BlankLine()

	g.openNamespace(w)

	ctor := c.Name + "::" + c.Name + "()"
	if inits := g.initializers(); len(inits) > 0 {
		ctor += " : " + strings.Join(inits, ", ")
	}
	w.WriteLine(ctor + " {")
	w.BlankLine()
	w.WriteLine("}")
	w.BlankLine()
	w.WriteLinef("%s::~%s() {", c.Name, c.Name)
	w.BlankLine()
	w.WriteLine("}")
	w.BlankLine()

	for _, frag := range g.fragments {
		w.WriteFragment(frag.Def)
		w.BlankLine()
	}

	g.closeNamespace(w)
	return w.String()
}

// initializers lists the constructor initializers: the base class, then every
// member that would otherwise be left indeterminate
func (g *ClassGen) initializers() []string {
	var inits []string
	if g.class.Super != "" {
		inits = append(inits, g.class.Super+"()")
	}
	for _, f := range g.class.Fields {
		if ast.IsString(f.Type) {
			continue
		}
		switch t := f.Type.(type) {
		case *ast.Scalar:
			if t.Kind == ast.Bool {
				inits = append(inits, MemberName(f.Name)+"(false)")
			} else {
				inits = append(inits, MemberName(f.Name)+"(0)")
			}
		case *ast.Pointer:
			if t.Kind == ast.Raw {
				inits = append(inits, MemberName(f.Name)+"(0)")
			}
		}
	}
	return inits
}

// valueReferences lists the classes held by value, directly or inside a
// collection, in first-use order. Their definitions must be complete in the
// header; classes behind a pointer only need the forward declaration.
func (g *ClassGen) valueReferences() []string {
	seen := map[string]bool{g.class.Name: true, g.class.Super: true}
	var names []string
	for _, f := range g.class.Fields {
		ast.Inspect(f.Type, func(t ast.Type) bool {
			switch t := t.(type) {
			case *ast.Pointer:
				return false
			case *ast.UserDefined:
				if !seen[t.Name] {
					seen[t.Name] = true
					names = append(names, t.Name)
				}
			}
			return true
		})
	}
	return names
}

// systemIncludes returns the standard headers the field types need, sorted
func (g *ClassGen) systemIncludes() []string {
	// The P/UP/SP typedefs always need <memory>
	set := map[string]bool{"memory": true}
	for _, f := range g.class.Fields {
		ast.Inspect(f.Type, func(t ast.Type) bool {
			switch t := t.(type) {
			case *ast.Scalar:
				if t.Kind == ast.String {
					set["string"] = true
				} else {
					set["stdint.h"] = true
				}
			case *ast.List:
				set["vector"] = true
			case *ast.Map:
				set["map"] = true
			}
			return true
		})
	}

	incs := make([]string, 0, len(set))
	for inc := range set {
		incs = append(incs, inc)
	}
	sort.Strings(incs)
	return incs
}

func (g *ClassGen) openNamespace(w *writer.Writer) {
	for _, ns := range g.namespace {
		w.WriteLinef("namespace %s {", ns)
	}
	if len(g.namespace) > 0 {
		w.BlankLine()
	}
}

func (g *ClassGen) closeNamespace(w *writer.Writer) {
	for i := len(g.namespace) - 1; i >= 0; i-- {
		w.WriteLinef("} /* namespace %s */", g.namespace[i])
	}
}

func banner(w *writer.Writer, file string) {
	w.WriteLine("/****************************************************************************")
	w.WriteLinef(" * %s", file)
	w.WriteLine(" *")
	w.WriteLine(" * Generated by astgen. Do not edit.")
	w.WriteLine(" ****************************************************************************/")
}
