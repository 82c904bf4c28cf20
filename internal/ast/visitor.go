package ast

import "github.com/cockroachdb/errors"

// Visitor handles each type-term variant. R is whatever the visitor produces
// for a term (rendered text, an accessor fragment, ...).
type Visitor[R any] interface {
	VisitScalar(t *Scalar) R
	VisitPointer(t *Pointer) R
	VisitList(t *List) R
	VisitMap(t *Map) R
	VisitUserDefined(t *UserDefined) R
}

// Dispatch invokes the handler of v that matches the variant of t.
//
// Dispatch does not descend into children; a composite handler decides itself
// when and how its contained terms are visited. Use Inspect for a plain
// recursive walk.
//
// An unknown variant (including a nil term) is a programming error and panics
// with an assertion failure.
func Dispatch[R any](t Type, v Visitor[R]) R {
	switch t := t.(type) {
	case *Scalar:
		return v.VisitScalar(t)
	case *Pointer:
		return v.VisitPointer(t)
	case *List:
		return v.VisitList(t)
	case *Map:
		return v.VisitMap(t)
	case *UserDefined:
		return v.VisitUserDefined(t)
	default:
		panic(errors.AssertionFailedf("unsupported type term %T", t))
	}
}

// Inspect walks t in pre-order, calling fn for every term. Children of a term are
// skipped when fn returns false.
func Inspect(t Type, fn func(Type) bool) {
	if !fn(t) {
		return
	}
	switch t := t.(type) {
	case *Pointer:
		Inspect(t.Elem, fn)
	case *List:
		Inspect(t.Elem, fn)
	case *Map:
		Inspect(t.Key, fn)
		Inspect(t.Value, fn)
	case *Scalar, *UserDefined:
	default:
		panic(errors.AssertionFailedf("unsupported type term %T", t))
	}
}

// References returns the names of the user-defined types reachable from t,
// in first-seen order
func References(t Type) []string {
	var names []string
	seen := make(map[string]bool)
	Inspect(t, func(n Type) bool {
		if u, ok := n.(*UserDefined); ok && !seen[u.Name] {
			seen[u.Name] = true
			names = append(names, u.Name)
		}
		return true
	})
	return names
}
