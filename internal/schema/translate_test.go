package schema

import (
	"errors"
	"reflect"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/genai"
)

func TestTranslate_Basic(t *testing.T) {
	tool := &mcp.Tool{
		Name:        "add_number",
		Description: "Add two numbers together",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"a": {Type: "number", Description: "first operand"},
				"b": {Type: "number", Description: "second operand"},
			},
			Required: []string{"a", "b"},
		},
	}

	decl, err := Translate(tool)
	if err != nil {
		t.Fatalf("Translate() unexpected error: %v", err)
	}

	if decl.Name != "add_number" {
		t.Errorf("Name = %q, want %q", decl.Name, "add_number")
	}
	if decl.Description != "Add two numbers together" {
		t.Errorf("Description = %q, want %q", decl.Description, "Add two numbers together")
	}
	if decl.Parameters == nil {
		t.Fatal("Parameters is nil, want object schema")
	}
	if decl.Parameters.Type != genai.TypeObject {
		t.Errorf("Parameters.Type = %v, want %v", decl.Parameters.Type, genai.TypeObject)
	}
	if got := decl.Parameters.Properties["a"].Type; got != genai.TypeNumber {
		t.Errorf("parameter a type = %v, want %v", got, genai.TypeNumber)
	}
	if got := decl.Parameters.Properties["a"].Description; got != "first operand" {
		t.Errorf("parameter a description = %q, want %q", got, "first operand")
	}
	if !reflect.DeepEqual(decl.Parameters.Required, []string{"a", "b"}) {
		t.Errorf("Required = %v, want [a b]", decl.Parameters.Required)
	}
}

func TestTranslate_NoInputSchema(t *testing.T) {
	tool := &mcp.Tool{Name: "roll_dice", Description: "Roll some dice"}

	decl, err := Translate(tool)
	if err != nil {
		t.Fatalf("Translate() unexpected error: %v", err)
	}

	if decl.Name != "roll_dice" {
		t.Errorf("Name = %q, want %q", decl.Name, "roll_dice")
	}
	if decl.Parameters != nil {
		t.Errorf("Parameters = %v, want nil for schema-less tool", decl.Parameters)
	}
}

func TestTranslate_EmptyProperties(t *testing.T) {
	tool := &mcp.Tool{
		Name:        "ping",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}

	decl, err := Translate(tool)
	if err != nil {
		t.Fatalf("Translate() unexpected error: %v", err)
	}
	if decl.Parameters != nil {
		t.Errorf("Parameters = %v, want nil for property-less schema", decl.Parameters)
	}
}

func TestTranslate_DefaultsToString(t *testing.T) {
	tool := &mcp.Tool{
		Name: "echo",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"text": {}, // no type tag
			},
		},
	}

	decl, err := Translate(tool)
	if err != nil {
		t.Fatalf("Translate() unexpected error: %v", err)
	}
	if got := decl.Parameters.Properties["text"].Type; got != genai.TypeString {
		t.Errorf("untyped parameter = %v, want %v", got, genai.TypeString)
	}
}

func TestTranslate_UnsupportedType(t *testing.T) {
	tool := &mcp.Tool{
		Name: "broken",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"weird": {Type: "null"},
			},
		},
	}

	_, err := Translate(tool)
	if err == nil {
		t.Fatal("Translate() expected error for unsupported type, got nil")
	}
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("error = %v, want ErrUnsupportedType", err)
	}
}

func TestTranslate_Nested(t *testing.T) {
	tool := &mcp.Tool{
		Name: "record",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"tags": {
					Type:  "array",
					Items: &jsonschema.Schema{Type: "string"},
				},
				"meta": {
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"count": {Type: "integer"},
					},
					Required: []string{"count"},
				},
			},
		},
	}

	decl, err := Translate(tool)
	if err != nil {
		t.Fatalf("Translate() unexpected error: %v", err)
	}

	tags := decl.Parameters.Properties["tags"]
	if tags.Type != genai.TypeArray {
		t.Errorf("tags type = %v, want %v", tags.Type, genai.TypeArray)
	}
	if tags.Items == nil || tags.Items.Type != genai.TypeString {
		t.Errorf("tags items = %v, want string schema", tags.Items)
	}

	meta := decl.Parameters.Properties["meta"]
	if meta.Type != genai.TypeObject {
		t.Errorf("meta type = %v, want %v", meta.Type, genai.TypeObject)
	}
	if got := meta.Properties["count"].Type; got != genai.TypeInteger {
		t.Errorf("meta.count type = %v, want %v", got, genai.TypeInteger)
	}
	if !reflect.DeepEqual(meta.Required, []string{"count"}) {
		t.Errorf("meta required = %v, want [count]", meta.Required)
	}
}

// TestTranslateAll_OnePerTool verifies the bijection between descriptors and
// declarations, and that translation is idempotent.
func TestTranslateAll_OnePerTool(t *testing.T) {
	tools := []*mcp.Tool{
		{Name: "first", Description: "one"},
		{Name: "second", Description: "two", InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"flag": {Type: "boolean"},
			},
		}},
	}

	decls, err := TranslateAll(tools)
	if err != nil {
		t.Fatalf("TranslateAll() unexpected error: %v", err)
	}
	if len(decls) != len(tools) {
		t.Fatalf("TranslateAll() returned %d declarations, want %d", len(decls), len(tools))
	}
	for i, decl := range decls {
		if decl.Name != tools[i].Name {
			t.Errorf("declaration[%d].Name = %q, want %q", i, decl.Name, tools[i].Name)
		}
		if decl.Description != tools[i].Description {
			t.Errorf("declaration[%d].Description = %q, want %q", i, decl.Description, tools[i].Description)
		}
	}

	// Idempotent: a second pass yields identical output.
	again, err := TranslateAll(tools)
	if err != nil {
		t.Fatalf("TranslateAll() second pass unexpected error: %v", err)
	}
	if !reflect.DeepEqual(decls, again) {
		t.Error("TranslateAll() is not idempotent")
	}
}

func TestTranslateAll_PropagatesError(t *testing.T) {
	tools := []*mcp.Tool{
		{Name: "fine"},
		{Name: "broken", InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"x": {Type: "tuple"},
			},
		}},
	}

	_, err := TranslateAll(tools)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("TranslateAll() error = %v, want ErrUnsupportedType", err)
	}
}
