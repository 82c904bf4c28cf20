package schema

import (
	"fmt"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/ast"
	"github.com/wundergraph/graphql-go-tools/v2/pkg/astparser"
)

// graphqlScalars maps GraphQL scalar names onto type expression scalars
var graphqlScalars = map[string]string{
	"String":  "string",
	"ID":      "string",
	"Boolean": "bool",
	"Int":     "int32",
	"Int8":    "int8",
	"UInt8":   "uint8",
	"Int16":   "int16",
	"UInt16":  "uint16",
	"Int32":   "int32",
	"UInt32":  "uint32",
	"Int64":   "int64",
	"UInt64":  "uint64",
}

// ownershipDirectives wrap the innermost named type of a field in a pointer
var ownershipDirectives = map[string]string{
	"ptr":    "P",
	"unique": "UP",
	"shared": "SP",
}

// ParseGraphQL parses a GraphQL-style schema (after preprocessing) into a document
func ParseGraphQL(input string) (*Document, error) {
	// First preprocess the input
	preprocessed := PreprocessGraphQL(input)

	// Parse the GraphQL document
	doc, report := astparser.ParseGraphqlDocumentString(preprocessed)
	if report.HasErrors() {
		return nil, invalid(errors.Newf("failed to parse GraphQL: %v", report))
	}

	result := &Document{Classes: []ClassDef{}}

	// Walk through definitions
	for i := range doc.RootNodes {
		node := &doc.RootNodes[i]
		if node.Kind != ast.NodeKindObjectTypeDefinition {
			continue
		}
		if err := parseObjectType(&doc, node.Ref, result); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func parseObjectType(doc *ast.Document, ref int, result *Document) error {
	typeDef := doc.ObjectTypeDefinitions[ref]
	typeName := doc.Input.ByteSliceString(typeDef.Name)

	if typeName == metadataType {
		parseAstgenMetadata(doc, typeDef, result)
		return nil
	}

	class := ClassDef{
		Name: typeName,
		Doc:  getDescription(doc, typeDef.Description),
		Data: FieldList{},
	}

	supers := typeDef.ImplementsInterfaces.Refs
	if len(supers) > 1 {
		return invalid(errors.WithHint(
			errors.Newf("class %s: more than one base class", typeName),
			"classes have at most one base: class Foo : Base { ... }"))
	}
	if len(supers) == 1 {
		class.Super = doc.Input.ByteSliceString(doc.Types[supers[0]].Name)
	}

	for _, fieldRef := range typeDef.FieldsDefinition.Refs {
		class.Data = append(class.Data, parseField(doc, fieldRef))
	}

	result.Classes = append(result.Classes, class)
	return nil
}

func parseAstgenMetadata(doc *ast.Document, typeDef ast.ObjectTypeDefinition, result *Document) {
	// Find the field with @astgen directive
	for _, fieldRef := range typeDef.FieldsDefinition.Refs {
		fieldDef := doc.FieldDefinitions[fieldRef]

		for _, directiveRef := range fieldDef.Directives.Refs {
			directive := doc.Directives[directiveRef]
			if doc.Input.ByteSliceString(directive.Name) == "astgen" {
				args := parseDirectiveArgs(doc, directive)
				result.Format = args["format"]
				return
			}
		}
	}
}

func parseField(doc *ast.Document, fieldRef int) FieldDef {
	fieldDef := doc.FieldDefinitions[fieldRef]

	field := FieldDef{
		Name: doc.Input.ByteSliceString(fieldDef.Name),
		Doc:  getDescription(doc, fieldDef.Description),
	}

	wrap := func(named string) string { return named }
	for _, directiveRef := range fieldDef.Directives.Refs {
		directive := doc.Directives[directiveRef]
		name := doc.Input.ByteSliceString(directive.Name)

		// @type(expr: "...") replaces the declared type entirely
		if name == "type" {
			field.Type = parseDirectiveArgs(doc, directive)["expr"]
			return field
		}
		if ptr, ok := ownershipDirectives[name]; ok {
			wrap = func(named string) string { return ptr + "<" + named + ">" }
		}
	}

	field.Type = parseType(doc, fieldDef.Type, wrap)
	return field
}

// parseType renders a GraphQL type reference as a type expression. Nullability
// has no counterpart and is dropped.
func parseType(doc *ast.Document, typeRef int, wrap func(string) string) string {
	currentRef := typeRef

	// Handle NonNull wrapper
	if doc.Types[currentRef].TypeKind == ast.TypeKindNonNull {
		currentRef = doc.Types[currentRef].OfType
	}

	// Handle List wrapper
	if doc.Types[currentRef].TypeKind == ast.TypeKindList {
		return "list<" + parseType(doc, doc.Types[currentRef].OfType, wrap) + ">"
	}

	// Named type
	if doc.Types[currentRef].TypeKind == ast.TypeKindNamed {
		typeName := doc.Input.ByteSliceString(doc.Types[currentRef].Name)
		if scalar, ok := graphqlScalars[typeName]; ok {
			return wrap(scalar)
		}
		return wrap(typeName)
	}

	return ""
}

func parseDirectiveArgs(doc *ast.Document, directive ast.Directive) map[string]string {
	args := make(map[string]string)

	for _, argRef := range directive.Arguments.Refs {
		arg := doc.Arguments[argRef]
		argName := doc.Input.ByteSliceString(arg.Name)

		value := doc.ArgumentValue(argRef)
		args[argName] = parseValue(doc, value)
	}

	return args
}

func parseValue(doc *ast.Document, value ast.Value) string {
	switch value.Kind {
	case ast.ValueKindString:
		return doc.StringValueContentString(value.Ref)

	case ast.ValueKindEnum:
		if value.Ref >= 0 && value.Ref < len(doc.EnumValues) {
			return doc.Input.ByteSliceString(doc.EnumValues[value.Ref].Name)
		}

	case ast.ValueKindInteger:
		return fmt.Sprintf("%d", doc.IntValueAsInt(value.Ref))

	case ast.ValueKindFloat:
		// format: 1.5 written without quotes
		return strconv.FormatFloat(float64(doc.FloatValueAsFloat32(value.Ref)), 'f', -1, 32)
	}

	return ""
}

func getDescription(doc *ast.Document, desc ast.Description) string {
	if !desc.IsDefined {
		return ""
	}

	return doc.Input.ByteSliceString(desc.Content)
}
