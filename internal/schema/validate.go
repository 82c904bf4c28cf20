package schema

import (
	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/google/jsonschema-go/jsonschema"
)

// layoutSchema describes the structure of JSON and YAML schema documents.
// Only YAML may give a class's data as a name-to-type mapping.
func layoutSchema(allowMapping bool) *jsonschema.Schema {
	str := func() *jsonschema.Schema { return &jsonschema.Schema{Type: "string"} }

	field := &jsonschema.Schema{
		Type:     "object",
		Required: []string{"name", "type"},
		Properties: map[string]*jsonschema.Schema{
			"name": str(),
			"type": str(),
			"doc":  str(),
		},
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}

	data := &jsonschema.Schema{Type: "array", Items: field}
	if allowMapping {
		data = &jsonschema.Schema{
			Types:                []string{"array", "object"},
			Items:                field,
			AdditionalProperties: str(),
		}
	}

	class := &jsonschema.Schema{
		Type:     "object",
		Required: []string{"name"},
		Properties: map[string]*jsonschema.Schema{
			"name":  str(),
			"super": str(),
			"doc":   str(),
			"data":  data,
		},
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}

	return &jsonschema.Schema{
		Type:     "object",
		Required: []string{"classes"},
		Properties: map[string]*jsonschema.Schema{
			"format":  str(),
			"classes": {Type: "array", Items: class},
		},
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}
}

var (
	jsonLayout = mustResolve(layoutSchema(false))
	yamlLayout = mustResolve(layoutSchema(true))
)

func mustResolve(s *jsonschema.Schema) *jsonschema.Resolved {
	r, err := s.Resolve(nil)
	if err != nil {
		panic(err)
	}
	return r
}

// validateLayout checks a decoded document against the layout schema. The
// instance is normalised through JSON so YAML values validate like JSON ones.
func validateLayout(layout *jsonschema.Resolved, instance any) error {
	raw, err := json.Marshal(instance)
	if err != nil {
		return invalid(errors.Wrap(err, "normalising document"))
	}
	var normalised any
	if err := json.Unmarshal(raw, &normalised); err != nil {
		return errors.Wrap(err, "normalising document")
	}

	if err := layout.Validate(normalised); err != nil {
		return invalid(errors.WithHint(
			errors.Wrap(err, "document layout"),
			"a schema document has a classes list; each class has a name and a data list of {name, type} fields"))
	}
	return nil
}
