package modules

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("marketingminer-mcp/server/internal/modules")

// =============================================================================
// Registry
// =============================================================================

// registry holds all registered modules
var registry = make(map[string]Module)

// toolIndex maps a tool name to the module that owns it. Tool names are
// flat across modules, so registration fails loudly on a clash.
var toolIndex = make(map[string]Module)

// RegisterModule adds a module and its tools to the registry.
func RegisterModule(m Module) {
	registry[m.Name()] = m
	for _, t := range m.Tools() {
		if _, exists := toolIndex[t.Name]; exists {
			panic(fmt.Sprintf("duplicate tool name: %s", t.Name))
		}
		toolIndex[t.Name] = m
	}
}

// GetModule returns a module by name
func GetModule(name string) (Module, bool) {
	m, ok := registry[name]
	return m, ok
}

// ListModules returns all registered module names
func ListModules() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// AllTools returns the tool definitions of every registered module.
func AllTools() []Tool {
	var tools []Tool
	for _, m := range registry {
		tools = append(tools, m.Tools()...)
	}
	if tools == nil {
		tools = []Tool{}
	}
	return tools
}

// =============================================================================
// Execution
// =============================================================================

// Run validates the params against the tool's schema and executes it.
// Tool-level failures (validation messages, upstream errors) come back as
// the result text; the returned error is reserved for protocol problems
// such as an unknown tool.
func Run(ctx context.Context, toolName string, params map[string]any) (*ToolCallResult, error) {
	m, ok := toolIndex[toolName]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", toolName)
	}

	tool, ok := findTool(m.Tools(), toolName)
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", toolName)
	}

	validated, err := ValidateParams(tool.InputSchema, params)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "tools/call "+toolName,
		trace.WithAttributes(attribute.String("mcp.tool", toolName)))
	defer span.End()

	text, err := m.ExecuteTool(ctx, toolName, validated)
	if err != nil {
		return nil, err
	}

	return TextResult(text), nil
}

// findTool looks up a tool by name from a tool list.
func findTool(tools []Tool, name string) (Tool, bool) {
	for _, t := range tools {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}
