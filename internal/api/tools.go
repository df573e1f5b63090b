package api

import (
	"github.com/openshift-assist/mcpbridge/internal/bridge"
)

// Tool represents one catalog entry across the API boundary.
type Tool struct {
	// Name is the externally visible, server-prefixed tool name.
	Name string `doc:"Server-prefixed tool name" json:"name"`

	// RemoteName is the tool name as declared by the remote server.
	RemoteName string `doc:"Tool name declared by the server" json:"remoteName"`

	// Server is the configured name of the owning server.
	Server string `doc:"Owning server name" json:"server"`

	// DisplayName is a human-readable name for the tool.
	DisplayName string `doc:"Human-readable name" json:"displayName,omitempty"`

	// Description is a human-readable description of the tool.
	Description string `doc:"Description of what the tool does" json:"description,omitempty"`

	// Params are the declared parameters in stable order.
	Params []ToolParam `doc:"Declared parameters" json:"params,omitempty"`
}

// ToolParam is one declared tool parameter.
type ToolParam struct {
	Name string `doc:"Parameter name" json:"name"`
	Type string `doc:"Primitive JSON type" json:"type"`
}

// ToolsResponse represents the wrapped API response for tool collections.
type ToolsResponse struct {
	Body struct {
		Tools []Tool `doc:"Catalog tool descriptors" json:"tools"`
	}
}

// ToolCallResponse represents the wrapped API response for calling a tool.
// The body is always a string: a result, or a prefixed error description.
type ToolCallResponse struct {
	Body struct {
		Result string `doc:"Stringified tool result" json:"result"`
	}
}

var _ Convertible[Tool] = (*domainToolDescriptor)(nil)

// domainToolDescriptor wraps bridge.ToolDescriptor for conversion via ToAPIType.
type domainToolDescriptor bridge.ToolDescriptor

// ToAPIType converts a wrapped domain type to Tool.
func (d domainToolDescriptor) ToAPIType() (Tool, error) {
	params := make([]ToolParam, 0, len(d.Params))
	for _, p := range d.Params {
		params = append(params, ToolParam{Name: p.Name, Type: p.Type})
	}

	return Tool{
		Name:        d.Name,
		RemoteName:  d.RemoteName,
		Server:      d.Server,
		DisplayName: d.DisplayName,
		Description: d.Description,
		Params:      params,
	}, nil
}
