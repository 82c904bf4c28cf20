package schema

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/okra-platform/astgen/internal/ast"
)

// Type expression grammar:
//
//	expr    = scalar | pointer | list | map | ident
//	pointer = ("P" | "ptr" | "UP" | "uptr" | "SP" | "sptr") "<" expr ">"
//	list    = "list" "<" expr ">"
//	map     = "map" "<" expr "," expr ">"
//
// Identifiers may contain "::" and are taken as class names.

var pointerKeywords = map[string]ast.PointerKind{
	"P":    ast.Raw,
	"ptr":  ast.Raw,
	"UP":   ast.Unique,
	"uptr": ast.Unique,
	"SP":   ast.Shared,
	"sptr": ast.Shared,
}

// ParseTypeExpr parses a type expression such as "list<UP<Expr>>"
func ParseTypeExpr(expr string) (ast.Type, error) {
	p := &typeParser{input: expr}
	p.skipSpace()
	if p.done() {
		return nil, fmt.Errorf("empty type expression")
	}

	t, err := p.expr()
	if err != nil {
		return nil, fmt.Errorf("type %q: %w", expr, err)
	}

	p.skipSpace()
	if !p.done() {
		return nil, fmt.Errorf("type %q: unexpected %q at offset %d", expr, p.input[p.pos:], p.pos)
	}
	return t, nil
}

type typeParser struct {
	input string
	pos   int
}

func (p *typeParser) done() bool {
	return p.pos >= len(p.input)
}

func (p *typeParser) skipSpace() {
	for !p.done() && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func (p *typeParser) expect(c byte) error {
	p.skipSpace()
	if p.done() {
		return fmt.Errorf("expected %q at end of input", c)
	}
	if p.input[p.pos] != c {
		return fmt.Errorf("expected %q at offset %d, found %q", c, p.pos, p.input[p.pos])
	}
	p.pos++
	return nil
}

func (p *typeParser) peek(c byte) bool {
	p.skipSpace()
	return !p.done() && p.input[p.pos] == c
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for !p.done() {
		c := p.input[p.pos]
		switch {
		case c == '_' || unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c)):
			p.pos++
		case c == ':' && strings.HasPrefix(p.input[p.pos:], "::"):
			p.pos += 2
		default:
			return p.input[start:p.pos]
		}
	}
	return p.input[start:p.pos]
}

func (p *typeParser) expr() (ast.Type, error) {
	start := p.pos
	name := p.ident()
	if name == "" {
		p.skipSpace()
		if p.done() {
			return nil, fmt.Errorf("expected a type at end of input")
		}
		return nil, fmt.Errorf("expected a type at offset %d, found %q", p.pos, p.input[p.pos])
	}
	if unicode.IsDigit(rune(name[0])) || strings.HasSuffix(name, "::") {
		return nil, fmt.Errorf("invalid identifier %q at offset %d", name, start)
	}

	// Keywords only count as such when followed by template arguments
	if !p.peek('<') {
		if kind, ok := ast.ScalarKindByName(name); ok {
			return ast.NewScalar(kind), nil
		}
		return ast.NewUserDefined(name), nil
	}

	if kind, ok := pointerKeywords[name]; ok {
		args, err := p.args(1)
		if err != nil {
			return nil, err
		}
		return ast.NewPointer(kind, args[0]), nil
	}

	switch name {
	case "list":
		args, err := p.args(1)
		if err != nil {
			return nil, err
		}
		return ast.NewList(args[0]), nil
	case "map":
		args, err := p.args(2)
		if err != nil {
			return nil, err
		}
		return ast.NewMap(args[0], args[1]), nil
	}

	return nil, fmt.Errorf("%q does not take type arguments", name)
}

// args parses "<" expr {"," expr} ">" with exactly n arguments
func (p *typeParser) args(n int) ([]ast.Type, error) {
	if err := p.expect('<'); err != nil {
		return nil, err
	}

	var out []ast.Type
	for {
		t, err := p.expr()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		if !p.peek(',') {
			break
		}
		p.pos++
	}

	if len(out) != n {
		return nil, fmt.Errorf("expected %d type argument(s), got %d", n, len(out))
	}
	if err := p.expect('>'); err != nil {
		return nil, err
	}
	return out, nil
}
