package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Document is the root of a parsed schema file, before type expressions are
// resolved into type terms
type Document struct {
	Format  string     `json:"format,omitempty" yaml:"format,omitempty"`
	Classes []ClassDef `json:"classes" yaml:"classes"`
}

// ClassDef represents one class definition
type ClassDef struct {
	Name  string    `json:"name" yaml:"name"`
	Super string    `json:"super,omitempty" yaml:"super,omitempty"`
	Doc   string    `json:"doc,omitempty" yaml:"doc,omitempty"`
	Data  FieldList `json:"data,omitempty" yaml:"data,omitempty"`
}

// FieldDef represents a data field inside a class
type FieldDef struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
	Doc  string `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// FieldList is the ordered field list of a class. YAML documents may also
// write it as a `name: type` mapping; declaration order is kept.
type FieldList []FieldDef

// UnmarshalYAML accepts a sequence of field objects or a name-to-type mapping
func (l *FieldList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var fields []FieldDef
		if err := node.Decode(&fields); err != nil {
			return err
		}
		*l = fields
		return nil
	case yaml.MappingNode:
		fields := make([]FieldDef, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			if value.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: field %q: type must be a string", value.Line, key.Value)
			}
			fields = append(fields, FieldDef{Name: key.Value, Type: value.Value})
		}
		*l = fields
		return nil
	default:
		return fmt.Errorf("line %d: data must be a list or a mapping", node.Line)
	}
}
