// Package schema translates MCP tool descriptors into Gemini function
// declarations.
//
// Translation is pure and stateless: one declaration per tool, name and
// description preserved verbatim. The accepted parameter kinds form a closed
// set (string, number, integer, boolean, object, array); anything outside it
// is an error rather than a silent coercion, since an unmapped type would
// break invocation later.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/genai"
)

// ErrUnsupportedType indicates a declared parameter type has no mapping in
// the Gemini schema vocabulary. Check with errors.Is().
var ErrUnsupportedType = errors.New("unsupported parameter type")

// Translate converts a server-advertised tool descriptor into a Gemini
// function declaration.
//
// A tool without an input schema (or without properties) yields a declaration
// with no parameters, which is valid: the model calls it with no arguments.
func Translate(tool *mcp.Tool) (*genai.FunctionDeclaration, error) {
	decl := &genai.FunctionDeclaration{
		Name:        tool.Name,
		Description: tool.Description,
	}

	in, err := inputSchema(tool)
	if err != nil {
		return nil, fmt.Errorf("tool %q: %w", tool.Name, err)
	}

	if in == nil || len(in.Properties) == 0 {
		return decl, nil
	}

	params := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(in.Properties)),
		Required:   in.Required,
	}

	for name, prop := range in.Properties {
		converted, err := convert(prop)
		if err != nil {
			return nil, fmt.Errorf("tool %q parameter %q: %w", tool.Name, name, err)
		}
		params.Properties[name] = converted
	}

	decl.Parameters = params
	return decl, nil
}

// TranslateAll converts every tool descriptor, preserving order. The result
// has exactly one declaration per tool or the translation fails as a whole.
func TranslateAll(tools []*mcp.Tool) ([]*genai.FunctionDeclaration, error) {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		decl, err := Translate(tool)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

// inputSchema coerces a tool's untyped InputSchema field into the typed
// schema this package translates. Server-side descriptors already carry a
// *jsonschema.Schema; descriptors received over the wire carry the default
// JSON form (e.g. map[string]any) and are round-tripped through JSON.
func inputSchema(tool *mcp.Tool) (*jsonschema.Schema, error) {
	switch s := tool.InputSchema.(type) {
	case nil:
		return nil, nil
	case *jsonschema.Schema:
		return s, nil
	default:
		data, err := json.Marshal(s)
		if err != nil {
			return nil, fmt.Errorf("marshaling input schema: %w", err)
		}
		out := new(jsonschema.Schema)
		if err := json.Unmarshal(data, out); err != nil {
			return nil, fmt.Errorf("unmarshaling input schema: %w", err)
		}
		return out, nil
	}
}

// convert maps a single JSON-schema property to a Gemini schema, recursing
// into object properties and array items.
func convert(prop *jsonschema.Schema) (*genai.Schema, error) {
	typ, err := convertType(prop.Type)
	if err != nil {
		return nil, err
	}

	out := &genai.Schema{
		Type:        typ,
		Description: prop.Description,
		Required:    prop.Required,
	}

	if len(prop.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(prop.Properties))
		for name, nested := range prop.Properties {
			converted, err := convert(nested)
			if err != nil {
				return nil, fmt.Errorf("property %q: %w", name, err)
			}
			out.Properties[name] = converted
		}
	}

	if prop.Items != nil {
		items, err := convert(prop.Items)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		out.Items = items
	}

	return out, nil
}

// convertType maps a JSON-schema type tag to the Gemini type vocabulary.
// An omitted type defaults to string, matching the protocol's most common
// parameter kind.
func convertType(typ string) (genai.Type, error) {
	switch typ {
	case "", "string":
		return genai.TypeString, nil
	case "number":
		return genai.TypeNumber, nil
	case "integer":
		return genai.TypeInteger, nil
	case "boolean":
		return genai.TypeBoolean, nil
	case "object":
		return genai.TypeObject, nil
	case "array":
		return genai.TypeArray, nil
	default:
		return genai.TypeUnspecified, fmt.Errorf("%w: %q", ErrUnsupportedType, typ)
	}
}
