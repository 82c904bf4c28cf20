package schema

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/okra-platform/astgen/internal/ast"
	"gopkg.in/yaml.v3"
)

// Extensions lists the file extensions schema files are recognised by
var Extensions = []string{".json", ".yaml", ".yml", ".graphql", ".gql"}

// IsSchemaFile reports whether path names a file in one of the schema formats
func IsSchemaFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// LoadFile reads and parses the schema file at path
func LoadFile(path string) (*ast.AST, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading schema")
	}

	a, err := Parse(data, path)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return a, nil
}

// Parse parses schema data in the format named by the extension of name
func Parse(data []byte, name string) (*ast.AST, error) {
	doc, err := Decode(data, name)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

// Decode parses schema data into a document without resolving type expressions
func Decode(data []byte, name string) (*Document, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return decodeJSON(data)
	case ".yaml", ".yml":
		return decodeYAML(data)
	case ".graphql", ".gql":
		return ParseGraphQL(string(data))
	default:
		return nil, errors.WithHintf(
			errors.Wrapf(ErrUnknownFormat, "%q", filepath.Base(name)),
			"schema files end in one of %s", strings.Join(Extensions, ", "))
	}
}

func decodeJSON(data []byte) (*Document, error) {
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, invalid(errors.Wrap(err, "parsing JSON"))
	}
	if err := validateLayout(jsonLayout, instance); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, invalid(errors.Wrap(err, "decoding JSON"))
	}
	return &doc, nil
}

func decodeYAML(data []byte) (*Document, error) {
	var instance any
	if err := yaml.Unmarshal(data, &instance); err != nil {
		return nil, invalid(errors.Wrap(err, "parsing YAML"))
	}
	if err := validateLayout(yamlLayout, instance); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, invalid(errors.Wrap(err, "decoding YAML"))
	}
	return &doc, nil
}
