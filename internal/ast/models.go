package ast

// AST is the ingested class graph. Classes keep schema-file order.
type AST struct {
	Classes []*Class `json:"classes"`
}

// Class is a generated class and its fields
type Class struct {
	Name   string   `json:"name"`
	Super  string   `json:"super,omitempty"`
	Doc    string   `json:"doc,omitempty"`
	Fields []*Field `json:"fields"`
}

// Field is a single data member of a class
type Field struct {
	Name string `json:"name"`
	Type Type   `json:"-"`
	Doc  string `json:"doc,omitempty"`
}

// Merge appends the classes of other after the classes of a
func (a *AST) Merge(other *AST) {
	if other == nil {
		return
	}
	a.Classes = append(a.Classes, other.Classes...)
}

// Class returns the class called name, or nil
func (a *AST) Class(name string) *Class {
	for _, c := range a.Classes {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// References returns the user-defined type names the class fields refer to, in
// field order. The class itself is excluded.
func (c *Class) References() []string {
	var names []string
	seen := map[string]bool{c.Name: true}
	for _, f := range c.Fields {
		for _, name := range References(f.Type) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
