package pyext

import (
	"fmt"
	"strings"
	"testing"

	"github.com/okra-platform/astgen/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test plan:
// 1. Generator metadata and file names
// 2. Declaration module: cimports, forward declarations, accessor signatures
// 3. Collections declare only the writable accessor
// 4. Wrapper module: class hierarchy, handle ownership, getters per shape
// 5. Shapes Python cannot reach are reported as comments

func sceneAST() *ast.AST {
	return &ast.AST{
		Classes: []*ast.Class{
			{
				Name: "Shape",
				Doc:  "Shape is the base of drawable things",
				Fields: []*ast.Field{
					{Name: "id", Type: ast.NewScalar(ast.Uint32)},
				},
			},
			{
				Name:  "Point",
				Super: "Shape",
				Fields: []*ast.Field{
					{Name: "x", Type: ast.NewScalar(ast.Int32)},
					{Name: "y", Type: ast.NewScalar(ast.Int32)},
				},
			},
			{
				Name:  "Scene",
				Super: "Document",
				Fields: []*ast.Field{
					{Name: "name", Type: ast.NewScalar(ast.String)},
					{Name: "root", Type: ast.NewPointer(ast.Unique, ast.NewUserDefined("Shape"))},
					{Name: "parent", Type: ast.NewPointer(ast.Raw, ast.NewUserDefined("Scene"))},
					{Name: "origin", Type: ast.NewPointer(ast.Shared, ast.NewUserDefined("Point"))},
					{Name: "weights", Type: ast.NewList(ast.NewScalar(ast.Int64))},
					{Name: "shapes", Type: ast.NewList(ast.NewPointer(ast.Shared, ast.NewUserDefined("Shape")))},
					{Name: "bounds", Type: ast.NewUserDefined("Rect")},
					{Name: "style", Type: ast.NewPointer(ast.Unique, ast.NewUserDefined("Style"))},
				},
			},
		},
	}
}

func TestGenerator_Metadata(t *testing.T) {
	// Test: target name, comment syntax and module naming
	g := NewGenerator("", "")
	assert.Equal(t, "pyext", g.Target())
	assert.Equal(t, "#", g.CommentPrefix())

	files, err := g.Generate(&ast.AST{})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, DefaultModule+"_decl.pxd", files[0].Name)
	assert.Equal(t, DefaultModule+".pyx", files[1].Name)

	files, err = NewGenerator("geo", "shapes").Generate(sceneAST())
	require.NoError(t, err)
	assert.Equal(t, "shapes_decl.pxd", files[0].Name)
	assert.Equal(t, "shapes.pyx", files[1].Name)
	assert.Contains(t, string(files[1].Content), "cimport shapes_decl as decl")
}

func TestDeclGen_Preamble(t *testing.T) {
	// Test: aliases and per-class typedefs are declared up front
	out := NewDeclGen("geo").Generate(sceneAST())

	assert.True(t, strings.HasPrefix(out, "# distutils: language = c++\n# Generated by astgen. Do not edit.\n"))
	assert.Contains(t, out, "from libcpp.string cimport string as std_string\n")
	assert.Contains(t, out, "from libcpp.memory cimport shared_ptr as std_shared_ptr\n")
	assert.Contains(t, out, "cdef extern from \"*\" namespace \"geo\":\n    cdef cppclass Shape\n")
	assert.Contains(t, out, "    ctypedef Point *PointP\n")
	assert.Contains(t, out, "    ctypedef std_unique_ptr[Scene] SceneUP\n")
	assert.Contains(t, out, "    ctypedef std_shared_ptr[Scene] SceneSP\n")
}

func TestDeclGen_ExternalReferences(t *testing.T) {
	// Test: names outside the schema get the same forward declarations as classes
	a := &ast.AST{
		Classes: []*ast.Class{
			{
				Name: "Plugin",
				Fields: []*ast.Field{
					{Name: "host", Type: ast.NewPointer(ast.Unique, ast.NewUserDefined("Ext"))},
					{Name: "peers", Type: ast.NewList(ast.NewPointer(ast.Shared, ast.NewUserDefined("Ext")))},
					{Name: "self", Type: ast.NewPointer(ast.Raw, ast.NewUserDefined("Plugin"))},
				},
			},
		},
	}
	out := NewDeclGen("").Generate(a)

	assert.Contains(t, out, "    cdef cppclass Plugin\n")
	assert.Contains(t, out, "    cdef cppclass Ext\n"+
		"    ctypedef Ext *ExtP\n"+
		"    ctypedef std_unique_ptr[Ext] ExtUP\n"+
		"    ctypedef std_shared_ptr[Ext] ExtSP\n")
	assert.Equal(t, 1, strings.Count(out, "cdef cppclass Ext\n"))
	assert.Equal(t, 1, strings.Count(out, "cdef cppclass Plugin\n"))
	assert.Less(t, strings.Index(out, "ctypedef std_shared_ptr[Ext] ExtSP"), strings.Index(out, "std_vector[ExtSP] &get_peers()"))

	// Every compressed tag used in a signature has a ctypedef
	assert.Contains(t, out, "        Ext *get_host()\n")
	assert.Contains(t, out, "        std_vector[ExtSP] &get_peers()\n")
}

func TestDeclGen_EmptyAST(t *testing.T) {
	// Test: the forward block is still valid Cython without classes
	out := NewDeclGen("").Generate(&ast.AST{})
	assert.Contains(t, out, "cdef extern from \"*\":\n    pass\n")
}

func TestDeclGen_Classes(t *testing.T) {
	// Test: each class is declared from its header with accessor signatures in field order
	out := NewDeclGen("geo").Generate(sceneAST())

	assert.Contains(t, out, "cdef extern from \"Point.h\" namespace \"geo\":\n    cdef cppclass Point(Shape):\n        Point()\n")
	assert.Contains(t, out, "        int32_t get_x()\n        void set_x(int32_t v)\n        int32_t get_y()\n")

	// Unknown bases are left out
	assert.Contains(t, out, "    cdef cppclass Scene:\n")

	assert.Contains(t, out, "        const std_string &get_name()\n        void set_name(const std_string &v)\n")
	assert.Contains(t, out, "        Shape *get_root()\n        void set_root(Shape *v)\n")
	assert.Contains(t, out, "        Scene *get_parent()\n        void set_parent(Scene *v)\n")
	assert.Contains(t, out, "        PointSP get_origin()\n        void set_origin(PointSP v)\n")
	assert.Contains(t, out, "        const Rect &get_bounds()\n")
}

func TestDeclGen_CollectionsWritableOnly(t *testing.T) {
	// Test: Cython cannot overload on constness, so one accessor per collection
	out := NewDeclGen("").Generate(sceneAST())

	assert.Equal(t, 1, strings.Count(out, "get_weights()"))
	assert.Contains(t, out, "        std_vector[int64_t] &get_weights()\n")
	assert.Contains(t, out, "        std_vector[ShapeSP] &get_shapes()\n")
	assert.NotContains(t, out, "set_weights")
	assert.NotContains(t, out, "const std_vector")
}

func TestWrapperGen_Hierarchy(t *testing.T) {
	// Test: root wrappers own the handle, derived wrappers reuse it
	out := NewWrapperGen("shapes").Generate(sceneAST())

	assert.Contains(t, out, "cdef class Shape:\n    \"\"\"Shape is the base of drawable things\"\"\"\n")
	assert.Contains(t, out, "    cdef decl.Shape *_hndl\n    cdef bool _owned\n")
	assert.Contains(t, out, "cdef class Point(Shape):\n")
	assert.Contains(t, out, "cdef class Scene:\n")
	assert.Equal(t, 2, strings.Count(out, "def __dealloc__(self):"))

	assert.Contains(t, out, "    cdef Point mk(decl.Point *hndl, bool owned):\n")
	assert.Contains(t, out, "        ret._hndl = <decl.Shape *>hndl\n")
	assert.Contains(t, out, "    cdef decl.Point *asPoint(self):\n        return <decl.Point *>self._hndl\n")
	assert.Contains(t, out, "        return Point.mk(new decl.Point(), True)\n")
}

func TestWrapperGen_Accessors(t *testing.T) {
	// Test: scalars pass through, strings are transcoded, class pointers are wrapped
	out := NewWrapperGen("shapes").Generate(sceneAST())

	assert.Contains(t, out, "    def get_x(self):\n        return self.asPoint().get_x()\n")
	assert.Contains(t, out, "    def set_x(self, v):\n        self.asPoint().set_x(v)\n")
	assert.Contains(t, out, "        return self.asScene().get_name().decode()\n")
	assert.Contains(t, out, "        self.asScene().set_name(v.encode())\n")
	assert.Contains(t, out, "        return self.asScene().get_weights()\n")

	assert.Contains(t, out, "    def get_root(self):\n"+
		"        cdef decl.Shape *p = self.asScene().get_root()\n"+
		"        if p == NULL:\n"+
		"            return None\n"+
		"        return Shape.mk(p, False)\n")
	assert.Contains(t, out, "        cdef decl.Point *p = self.asScene().get_origin().get()\n")
}

func TestWrapperGen_OwnershipTransfer(t *testing.T) {
	// Test: only unique setters take ownership from the Python object
	out := NewWrapperGen("shapes").Generate(sceneAST())

	root := section(t, out, "def set_root(self, Shape v):")
	assert.Contains(t, root, "self.asScene().set_root(v.asShape())")
	assert.Contains(t, root, "v._owned = False")

	parent := section(t, out, "def set_parent(self, Scene v):")
	assert.Contains(t, parent, "self.asScene().set_parent(NULL)")
	assert.NotContains(t, parent, "_owned")
}

func TestWrapperGen_Skipped(t *testing.T) {
	// Test: unreachable shapes leave a comment instead of a method
	out := NewWrapperGen("shapes").Generate(sceneAST())

	assert.Contains(t, out, "    # shapes: list element SP<Shape> is not exposed\n")
	assert.Contains(t, out, "    # bounds: class value Rect is not exposed\n")
	assert.Contains(t, out, "    # origin: shared handle setter is not exposed\n")
	assert.Contains(t, out, "    # style: pointer to unknown class Style is not exposed\n")
	assert.NotContains(t, out, "def get_shapes")
	assert.NotContains(t, out, "def set_origin")
}

// section returns the text of out from the line containing header up to the
// next method
func section(t *testing.T, out, header string) string {
	t.Helper()
	i := strings.Index(out, header)
	require.GreaterOrEqual(t, i, 0, "missing %q", header)
	rest := out[i+len(header):]
	if j := strings.Index(rest, "    def "); j >= 0 {
		rest = rest[:j]
	}
	return rest
}

// sweepTypes crosses every variant with every ownership kind
func sweepTypes() []ast.Type {
	var types []ast.Type
	for _, k := range ast.ScalarKinds() {
		types = append(types, ast.NewScalar(k))
	}
	for _, k := range ast.PointerKinds() {
		types = append(types,
			ast.NewPointer(k, ast.NewUserDefined("Foo")),
			ast.NewPointer(k, ast.NewScalar(ast.Int64)),
			ast.NewPointer(k, ast.NewList(ast.NewScalar(ast.Bool))),
			ast.NewList(ast.NewPointer(k, ast.NewUserDefined("Foo"))),
			ast.NewMap(ast.NewScalar(ast.Uint32), ast.NewPointer(k, ast.NewUserDefined("Foo"))),
		)
	}
	return append(types,
		ast.NewUserDefined("Foo"),
		ast.NewList(ast.NewScalar(ast.String)),
		ast.NewMap(ast.NewScalar(ast.String), ast.NewScalar(ast.Int32)),
	)
}

func TestSignatures_Exhaustive(t *testing.T) {
	// Test: every variant has a declaration branch; collections declare one accessor
	for _, typ := range sweepTypes() {
		t.Run(typ.String(), func(t *testing.T) {
			f := &ast.Field{Name: "f", Type: typ}
			var sigs []string
			require.NotPanics(t, func() { sigs = ast.Dispatch[[]string](typ, signatures{field: f}) })

			switch typ.(type) {
			case *ast.List, *ast.Map:
				require.Len(t, sigs, 1)
			default:
				require.Len(t, sigs, 2)
				assert.True(t, strings.HasPrefix(sigs[1], "void set_f("), sigs[1])
			}
			assert.Contains(t, sigs[0], "get_f()")
		})
	}
}

func TestPyMethods_Exhaustive(t *testing.T) {
	// Test: every variant yields methods or a comment, whether or not the class is known
	for _, known := range []bool{true, false} {
		for _, typ := range sweepTypes() {
			t.Run(fmt.Sprintf("%s/known=%v", typ, known), func(t *testing.T) {
				m := pyMethods{
					self:  "asNode()",
					field: &ast.Field{Name: "f", Type: typ},
					known: func(string) bool { return known },
				}
				var methods []string
				require.NotPanics(t, func() { methods = ast.Dispatch[[]string](typ, m) })
				require.NotEmpty(t, methods)
				for _, text := range methods {
					assert.True(t, strings.HasPrefix(text, "def ") || strings.HasPrefix(text, "# f: "), text)
				}
			})
		}
	}
}

func TestGenerator_Exhaustive(t *testing.T) {
	// Test: a class holding every variant generates both modules
	node := &ast.Class{Name: "Node"}
	for i, typ := range sweepTypes() {
		node.Fields = append(node.Fields, &ast.Field{Name: fmt.Sprintf("f%d", i), Type: typ})
	}
	a := &ast.AST{Classes: []*ast.Class{node, {Name: "Foo"}}}

	var err error
	require.NotPanics(t, func() { _, err = NewGenerator("ns", "mod").Generate(a) })
	require.NoError(t, err)
}
