package modules

import (
	"context"
	"fmt"
	"testing"
)

// fakeModule exercises the registry and Run paths.
type fakeModule struct{}

func (fakeModule) Name() string        { return "fake" }
func (fakeModule) Description() string { return "fake module" }

func (fakeModule) Tools() []Tool {
	return []Tool{
		{
			Name: "lookup",
			InputSchema: InputSchema{
				Type: "object",
				Properties: map[string]Property{
					"id":    {Type: "string"},
					"limit": {Type: "number"},
					"deep":  {Type: "boolean"},
					"tags":  {Type: "array"},
					"opts":  {Type: "object"},
				},
				Required: []string{"id"},
			},
		},
	}
}

func (fakeModule) ExecuteTool(ctx context.Context, name string, params map[string]any) (string, error) {
	id, _ := params["id"].(string)
	return "lookup:" + id, nil
}

func (fakeModule) Resources() []Resource { return nil }

func (fakeModule) ReadResource(ctx context.Context, uri string) (string, error) {
	return "", fmt.Errorf("resources not supported")
}

func init() {
	RegisterModule(fakeModule{})
}

func TestRegistry(t *testing.T) {
	if _, ok := GetModule("fake"); !ok {
		t.Error("GetModule(fake) not found")
	}
	if _, ok := GetModule("missing"); ok {
		t.Error("GetModule(missing) should not be found")
	}

	found := false
	for _, name := range ListModules() {
		if name == "fake" {
			found = true
		}
	}
	if !found {
		t.Error("ListModules() missing fake")
	}
}

func TestAllTools(t *testing.T) {
	found := false
	for _, tool := range AllTools() {
		if tool.Name == "lookup" {
			found = true
		}
	}
	if !found {
		t.Error("AllTools() missing lookup")
	}
}

func TestRun(t *testing.T) {
	result, err := Run(context.Background(), "lookup", map[string]any{"id": "42"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Content) != 1 || result.Content[0].Text != "lookup:42" {
		t.Errorf("content = %+v", result.Content)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name   string
		tool   string
		params map[string]any
	}{
		{"unknown tool", "nope", nil},
		{"missing required", "lookup", map[string]any{}},
		{"empty required string", "lookup", map[string]any{"id": ""}},
		{"wrong type", "lookup", map[string]any{"id": 42.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Run(context.Background(), tt.tool, tt.params); err == nil {
				t.Error("expected error")
			}
		})
	}
}
