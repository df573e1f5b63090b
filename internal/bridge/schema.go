package bridge

import (
	"slices"

	"github.com/mark3labs/mcp-go/mcp"
)

// Param is one declared parameter of a remote tool: its name and primitive
// JSON type (string, integer, number, boolean, array, object).
type Param struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// ParamsFromSchema extracts the declared parameters of a tool in a stable,
// documented order: required parameters first, in their declared order,
// followed by the remaining properties sorted by name. JSON object key order
// is not observable after decoding, so this ordering is the positional-mapping
// contract for the argument adapter. Deterministic across catalog loads.
func ParamsFromSchema(schema mcp.ToolInputSchema) []Param {
	if len(schema.Properties) == 0 {
		return nil
	}

	params := make([]Param, 0, len(schema.Properties))
	seen := make(map[string]struct{}, len(schema.Properties))

	for _, name := range schema.Required {
		prop, ok := schema.Properties[name]
		if !ok {
			continue
		}
		params = append(params, Param{Name: name, Type: propertyType(prop)})
		seen[name] = struct{}{}
	}

	rest := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		if _, done := seen[name]; !done {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)

	for _, name := range rest {
		params = append(params, Param{Name: name, Type: propertyType(schema.Properties[name])})
	}

	return params
}

// propertyType pulls the declared JSON type out of a schema property,
// defaulting to "string" when absent or malformed.
func propertyType(prop any) string {
	m, ok := prop.(map[string]any)
	if !ok {
		return "string"
	}
	t, ok := m["type"].(string)
	if !ok || t == "" {
		return "string"
	}
	return t
}
