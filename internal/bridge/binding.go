package bridge

import (
	"context"
	"fmt"
)

// AgentTool is one remotely-backed callable exposed to the agent runtime.
// Calls return a string, success or failure, and never panic.
type AgentTool struct {
	// Name is the externally visible, server-prefixed tool name.
	Name string

	// Description combines the tool's display name and free-text description.
	Description string

	// Params is the typed parameter signature derived from the remote schema.
	Params []Param

	descriptor ToolDescriptor
	invoker    *Invoker
}

// Call executes the remote tool with the given arguments.
func (t *AgentTool) Call(ctx context.Context, positional []any, keyword map[string]any) string {
	return t.invoker.Invoke(ctx, t.descriptor, positional, keyword)
}

// Descriptor returns the underlying tool descriptor.
func (t *AgentTool) Descriptor() ToolDescriptor {
	return t.descriptor
}

// Bind wraps every catalog descriptor as an agent-callable unit executing
// through the given invoker. Descriptors are captured by value, so tools
// bound from an older catalog keep working after a reload.
func (c *Catalog) Bind(invoker *Invoker) []*AgentTool {
	tools := make([]*AgentTool, 0, len(c.descriptors))
	for _, d := range c.descriptors {
		tools = append(tools, &AgentTool{
			Name:        d.Name,
			Description: fmt.Sprintf("%s: %s", d.DisplayName, d.Description),
			Params:      d.Params,
			descriptor:  d,
			invoker:     invoker,
		})
	}
	return tools
}
