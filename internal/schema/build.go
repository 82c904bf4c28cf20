package schema

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/okra-platform/astgen/internal/ast"
)

// Build resolves the type expressions of doc into a class graph. Only
// structure is checked: class references are left unresolved.
func Build(doc *Document) (*ast.AST, error) {
	if err := CheckFormat(doc.Format); err != nil {
		return nil, err
	}

	result := &ast.AST{Classes: make([]*ast.Class, 0, len(doc.Classes))}
	for i, cd := range doc.Classes {
		name := strings.TrimSpace(cd.Name)
		if name == "" {
			return nil, invalid(errors.Newf("class #%d has no name", i+1))
		}

		class := &ast.Class{
			Name:   name,
			Super:  strings.TrimSpace(cd.Super),
			Doc:    strings.TrimSpace(cd.Doc),
			Fields: make([]*ast.Field, 0, len(cd.Data)),
		}

		for j, fd := range cd.Data {
			field, err := buildField(fd)
			if err != nil {
				return nil, errors.Wrapf(err, "class %s, field #%d", name, j+1)
			}
			class.Fields = append(class.Fields, field)
		}
		result.Classes = append(result.Classes, class)
	}
	return result, nil
}

func buildField(fd FieldDef) (*ast.Field, error) {
	name := strings.TrimSpace(fd.Name)
	if name == "" {
		return nil, invalid(errors.New("field has no name"))
	}
	if strings.TrimSpace(fd.Type) == "" {
		return nil, invalid(errors.WithHint(errors.Newf("field %s has no type", name), typeHint))
	}

	t, err := ParseTypeExpr(fd.Type)
	if err != nil {
		return nil, invalid(errors.WithHint(errors.Wrapf(err, "field %s", name), typeHint))
	}
	return &ast.Field{Name: name, Type: t, Doc: strings.TrimSpace(fd.Doc)}, nil
}
