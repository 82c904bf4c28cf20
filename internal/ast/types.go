// Package ast holds the class/field graph produced by schema ingestion and the
// closed set of type terms fields are declared with.
package ast

import "fmt"

// ScalarKind identifies a built-in scalar type
type ScalarKind int

const (
	Bool ScalarKind = iota
	Int8
	Uint8
	Int16
	Uint16
	Int32
	Uint32
	Int64
	Uint64
	String
)

var scalarNames = map[ScalarKind]string{
	Bool:   "bool",
	Int8:   "int8",
	Uint8:  "uint8",
	Int16:  "int16",
	Uint16: "uint16",
	Int32:  "int32",
	Uint32: "uint32",
	Int64:  "int64",
	Uint64: "uint64",
	String: "string",
}

// ScalarKinds lists every scalar kind in declaration order
func ScalarKinds() []ScalarKind {
	return []ScalarKind{Bool, Int8, Uint8, Int16, Uint16, Int32, Uint32, Int64, Uint64, String}
}

// String returns the schema spelling of the kind (e.g. "uint32")
func (k ScalarKind) String() string {
	if name, ok := scalarNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ScalarKind(%d)", int(k))
}

// ScalarKindByName resolves a schema spelling to its kind
func ScalarKindByName(name string) (ScalarKind, bool) {
	for k, n := range scalarNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// PointerKind is the ownership carried by a pointer
type PointerKind int

const (
	// Raw pointers never transfer ownership
	Raw PointerKind = iota
	// Unique pointers own their target exclusively and cannot be copied
	Unique
	// Shared pointers are reference counted and copyable
	Shared
)

// PointerKinds lists every ownership kind
func PointerKinds() []PointerKind {
	return []PointerKind{Raw, Unique, Shared}
}

// Valid reports whether k is one of the known ownership kinds
func (k PointerKind) Valid() bool {
	return k >= Raw && k <= Shared
}

func (k PointerKind) String() string {
	switch k {
	case Raw:
		return "raw"
	case Unique:
		return "unique"
	case Shared:
		return "shared"
	default:
		return fmt.Sprintf("PointerKind(%d)", int(k))
	}
}

// Type is a node in a type-term tree. The set of implementations is closed.
type Type interface {
	// String returns the type expression the term was (or could have been) parsed from
	String() string

	sealed()
}

// Scalar is a built-in leaf type
type Scalar struct {
	Kind ScalarKind
}

// Pointer wraps Elem with an ownership kind
type Pointer struct {
	Kind PointerKind
	Elem Type
}

// List is an ordered sequence of Elem
type List struct {
	Elem Type
}

// Map associates unique keys with values
type Map struct {
	Key   Type
	Value Type
}

// UserDefined references a class by name. The reference is never resolved here.
type UserDefined struct {
	Name string
}

func (*Scalar) sealed()      {}
func (*Pointer) sealed()     {}
func (*List) sealed()        {}
func (*Map) sealed()         {}
func (*UserDefined) sealed() {}

func (t *Scalar) String() string { return t.Kind.String() }

func (t *Pointer) String() string {
	switch t.Kind {
	case Unique:
		return "UP<" + t.Elem.String() + ">"
	case Shared:
		return "SP<" + t.Elem.String() + ">"
	default:
		return "P<" + t.Elem.String() + ">"
	}
}

func (t *List) String() string { return "list<" + t.Elem.String() + ">" }

func (t *Map) String() string {
	return "map<" + t.Key.String() + "," + t.Value.String() + ">"
}

func (t *UserDefined) String() string { return t.Name }

// Constructors keep fixtures and the schema parser terse.

func NewScalar(kind ScalarKind) *Scalar { return &Scalar{Kind: kind} }

func NewPointer(kind PointerKind, elem Type) *Pointer {
	return &Pointer{Kind: kind, Elem: elem}
}

func NewList(elem Type) *List { return &List{Elem: elem} }

func NewMap(key, value Type) *Map { return &Map{Key: key, Value: value} }

func NewUserDefined(name string) *UserDefined { return &UserDefined{Name: name} }

// IsString reports whether t is the string scalar
func IsString(t Type) bool {
	s, ok := t.(*Scalar)
	return ok && s.Kind == String
}
