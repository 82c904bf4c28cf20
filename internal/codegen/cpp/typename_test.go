package cpp

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/okra-platform/astgen/internal/ast"
	"github.com/okra-platform/astgen/internal/codegen/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func foo() *ast.UserDefined { return ast.NewUserDefined("Foo") }

func TestTypeName_Scalars(t *testing.T) {
	// Test: scalar kinds map to fixed tokens and honour const/ref/ptr
	tests := []struct {
		kind ast.ScalarKind
		ctx  render.Context
		want string
	}{
		{ast.Bool, render.Context{}, "bool"},
		{ast.Int8, render.Context{}, "int8_t"},
		{ast.Uint8, render.Context{}, "uint8_t"},
		{ast.Int16, render.Context{}, "int16_t"},
		{ast.Uint16, render.Context{}, "uint16_t"},
		{ast.Int32, render.Context{}, "int32_t"},
		{ast.Uint32, render.Context{}, "uint32_t"},
		{ast.Int64, render.Context{}, "int64_t"},
		{ast.Uint64, render.Context{}, "uint64_t"},
		{ast.String, render.Context{}, "std::string"},
		{ast.Int32, render.Context{IsConst: true}, "const int32_t"},
		{ast.Int32, render.Context{IsRef: true}, "int32_t &"},
		{ast.String, render.Context{IsConst: true, IsRef: true}, "const std::string &"},
		{ast.Uint16, render.Context{IsPtr: true}, "uint16_t *"},
		{ast.Int64, render.Context{IsReturn: true, Compressed: true}, "int64_t"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v_%+v", tt.kind, tt.ctx), func(t *testing.T) {
			assert.Equal(t, tt.want, TypeName(ast.NewScalar(tt.kind), tt.ctx))
		})
	}
}

func TestTypeName_UserDefined(t *testing.T) {
	// Test: user-defined names are emitted verbatim with decorations
	assert.Equal(t, "Foo", TypeName(foo(), render.Context{}))
	assert.Equal(t, "Foo *", TypeName(foo(), render.Context{IsPtr: true}))
	assert.Equal(t, "const Foo &", TypeName(foo(), render.Context{IsConst: true, IsRef: true}))
	assert.Equal(t, "Undeclared", TypeName(ast.NewUserDefined("Undeclared"), render.Context{}))
}

func TestTypeName_Pointers(t *testing.T) {
	// Test: ownership kinds select wrapper notation
	tests := []struct {
		name string
		typ  ast.Type
		ctx  render.Context
		want string
	}{
		{"raw", ast.NewPointer(ast.Raw, foo()), render.Context{}, "Foo *"},
		{"raw_compressed", ast.NewPointer(ast.Raw, foo()), render.Context{Compressed: true}, "Foo *"},
		{"unique", ast.NewPointer(ast.Unique, foo()), render.Context{}, "std::unique_ptr<Foo>"},
		{"unique_return", ast.NewPointer(ast.Unique, foo()), render.Context{IsReturn: true}, "Foo *"},
		{"unique_compressed", ast.NewPointer(ast.Unique, foo()), render.Context{Compressed: true}, "FooUP"},
		{"unique_compressed_return", ast.NewPointer(ast.Unique, foo()), render.Context{Compressed: true, IsReturn: true}, "Foo *"},
		{"shared", ast.NewPointer(ast.Shared, foo()), render.Context{}, "std::shared_ptr<Foo>"},
		{"shared_return", ast.NewPointer(ast.Shared, foo()), render.Context{IsReturn: true}, "std::shared_ptr<Foo>"},
		{"shared_compressed", ast.NewPointer(ast.Shared, foo()), render.Context{Compressed: true}, "FooSP"},
		{"shared_const", ast.NewPointer(ast.Shared, foo()), render.Context{IsConst: true}, "std::shared_ptr<const Foo>"},
		// Only classes have short typedefs
		{"shared_scalar_compressed", ast.NewPointer(ast.Shared, ast.NewScalar(ast.Int32)), render.Context{Compressed: true}, "std::shared_ptr<int32_t>"},
		{"unique_scalar_return", ast.NewPointer(ast.Unique, ast.NewScalar(ast.Int32)), render.Context{IsReturn: true}, "int32_t *"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeName(tt.typ, tt.ctx))
		})
	}
}

func TestTypeName_Collections(t *testing.T) {
	// Test: only the outermost collection carries const/ref
	ints := ast.NewList(ast.NewScalar(ast.Int32))
	assert.Equal(t, "std::vector<int32_t>", TypeName(ints, render.Context{}))
	assert.Equal(t, "const std::vector<int32_t> &", TypeName(ints, render.Context{IsConst: true, IsReturn: true}))
	assert.Equal(t, "std::vector<int32_t> &", TypeName(ints, render.Context{IsRef: true}))

	m := ast.NewMap(ast.NewScalar(ast.String), ast.NewPointer(ast.Shared, foo()))
	assert.Equal(t, "std::map<std::string, FooSP>", TypeName(m, render.Context{Compressed: true}))
	assert.Equal(t, "std::map<std::string, std::shared_ptr<Foo>>", TypeName(m, render.Context{}))

	nested := ast.NewList(ast.NewList(ast.NewScalar(ast.String)))
	assert.Equal(t, "const std::vector<std::vector<std::string>> &",
		TypeName(nested, render.Context{IsConst: true, IsReturn: true}))
}

func TestTypeName_DepthIsolation(t *testing.T) {
	// Test: const/ref on a list must not leak onto its element
	inner := ast.NewPointer(ast.Shared, ast.NewScalar(ast.Int32))
	list := ast.NewList(inner)

	outer := TypeName(list, render.Context{IsConst: true, IsRef: true})
	plain := TypeName(inner, render.Context{})

	assert.Equal(t, "std::shared_ptr<int32_t>", plain)
	assert.Equal(t, "const std::vector<"+plain+"> &", outer)
}

func TestTypeName_PointerToCollectionResets(t *testing.T) {
	// Test: a collection below a pointer renders in the default context
	ptr := ast.NewPointer(ast.Unique, ast.NewList(ast.NewScalar(ast.String)))
	assert.Equal(t, "std::unique_ptr<std::vector<std::string>>",
		TypeName(ptr, render.Context{IsConst: true}))

	raw := ast.NewPointer(ast.Raw, ast.NewPointer(ast.Unique, foo()))
	assert.Equal(t, "std::unique_ptr<Foo> *", TypeName(raw, render.Context{IsReturn: true, Compressed: true}))
}

func TestTypeName_UnsupportedPointerKind(t *testing.T) {
	// Test: an ownership kind without a case aborts with an assertion failure
	bad := &ast.Pointer{Kind: ast.PointerKind(42), Elem: foo()}

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.HasAssertionFailure(err))
		assert.Contains(t, err.Error(), "PointerKind(42)")
	}()

	TypeName(bad, render.Context{})
}

func TestTypeName_Deterministic(t *testing.T) {
	// Test: rendering is a pure function of term and context
	for _, typ := range sampleTypes() {
		for _, ctx := range sampleContexts() {
			assert.Equal(t, TypeName(typ, ctx), TypeName(typ, ctx), "%s %+v", typ, ctx)
		}
	}
}

func TestTypeNameGen_ImplementsRenderer(t *testing.T) {
	// Test: the generator satisfies the shared renderer contract
	var r render.Renderer = NewTypeNameGen()
	assert.Equal(t, "bool", r.Render(ast.NewScalar(ast.Bool), render.Context{}))
}

func sampleTypes() []ast.Type {
	types := []ast.Type{foo()}
	for _, k := range ast.ScalarKinds() {
		types = append(types, ast.NewScalar(k))
	}
	for _, k := range ast.PointerKinds() {
		types = append(types,
			ast.NewPointer(k, foo()),
			ast.NewPointer(k, ast.NewScalar(ast.Int32)),
			ast.NewList(ast.NewPointer(k, foo())),
			ast.NewMap(ast.NewScalar(ast.String), ast.NewPointer(k, foo())),
		)
	}
	return types
}

func sampleContexts() []render.Context {
	var ctxs []render.Context
	for i := 0; i < 32; i++ {
		ctxs = append(ctxs, render.Context{
			IsReturn:   i&1 != 0,
			IsRef:      i&2 != 0,
			IsPtr:      i&4 != 0,
			IsConst:    i&8 != 0,
			Compressed: i&16 != 0,
		})
	}
	return ctxs
}
