package api

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/danielgtaylor/huma/v2"

	"github.com/openshift-assist/mcpbridge/internal/bridge"
	"github.com/openshift-assist/mcpbridge/internal/contracts"
	"github.com/openshift-assist/mcpbridge/internal/errors"
)

// CatalogProvider returns the current tool catalog snapshot.
// The daemon swaps the snapshot wholesale on reload, so handlers always
// observe a consistent catalog.
type CatalogProvider func() *bridge.Catalog

// ToolInvoker executes one tool call and returns a caller-safe string.
type ToolInvoker interface {
	Invoke(ctx context.Context, desc bridge.ToolDescriptor, positional []any, keyword map[string]any) string
}

// ServersResponse represents the wrapped API response for a list of servers.
type ServersResponse struct {
	Body []string
}

// ServerToolsRequest represents the incoming API request for the discovered tools of a server.
type ServerToolsRequest struct {
	Name string `doc:"Name of the server to lookup tools for" example:"openshift" path:"name"`
}

// ServerToolCallRequest represents the incoming API request to call a tool on a particular server.
type ServerToolCallRequest struct {
	Server string         `doc:"Name of the server"       example:"openshift"          path:"server"`
	Tool   string         `doc:"Name of the tool to call" example:"get_namespace_pods" path:"tool"`
	Body   map[string]any `doc:"Named arguments for the tool"`
}

// RegisterServerRoutes sets up server and tool related API endpoints.
func RegisterServerRoutes(
	routerAPI huma.API,
	sessions contracts.MCPSessionAccessor,
	catalog CatalogProvider,
	invoker ToolInvoker,
	apiPathPrefix string,
) {
	serversAPI := huma.NewGroup(routerAPI, apiPathPrefix)
	tags := []string{"Servers"}

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "listServers",
			Method:      http.MethodGet,
			Summary:     "List all servers",
			Tags:        tags,
		},
		func(ctx context.Context, _ *struct{}) (*ServersResponse, error) {
			return handleServers(sessions)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "listTools",
			Method:      http.MethodGet,
			Path:        "/{name}/tools",
			Summary:     "List server tools",
			Tags:        append(tags, "Tools"),
		},
		func(ctx context.Context, input *ServerToolsRequest) (*ToolsResponse, error) {
			return handleServerTools(sessions, catalog, input.Name)
		},
	)

	huma.Register(
		serversAPI,
		huma.Operation{
			OperationID: "callTool",
			Method:      http.MethodPost,
			Path:        "/{server}/tools/{tool}",
			Summary:     "Call a tool for a server",
			Tags:        append(tags, "Tools"),
		},
		func(ctx context.Context, input *ServerToolCallRequest) (*ToolCallResponse, error) {
			return handleServerToolCall(ctx, catalog, invoker, input.Server, input.Tool, input.Body)
		},
	)
}

// handleServers returns the list of configured MCP servers.
func handleServers(sessions contracts.MCPSessionAccessor) (*ServersResponse, error) {
	servers := sessions.Names()
	slices.Sort(servers)

	resp := &ServersResponse{}
	resp.Body = servers

	return resp, nil
}

// handleServerTools returns the discovered tool descriptors for a given server.
func handleServerTools(
	sessions contracts.MCPSessionAccessor,
	catalog CatalogProvider,
	name string,
) (*ToolsResponse, error) {
	if !slices.Contains(sessions.Names(), name) {
		return nil, fmt.Errorf("%w: %s", errors.ErrServerNotFound, name)
	}

	descriptors := catalog().ServerTools(name)

	tools := make([]Tool, 0, len(descriptors))
	for _, d := range descriptors {
		data, err := domainToolDescriptor(d).ToAPIType()
		if err != nil {
			return nil, err
		}
		tools = append(tools, data)
	}

	resp := &ToolsResponse{}
	resp.Body.Tools = tools

	return resp, nil
}

// handleServerToolCall invokes a tool with named arguments. An unknown tool
// returns not-found; invocation failures surface as the string result, never
// as an error.
func handleServerToolCall(
	ctx context.Context,
	catalog CatalogProvider,
	invoker ToolInvoker,
	server string,
	tool string,
	args map[string]any,
) (*ToolCallResponse, error) {
	desc, ok := catalog().LookupRemote(server, tool)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", errors.ErrToolNotFound, server, tool)
	}

	if args == nil {
		args = map[string]any{}
	}

	resp := &ToolCallResponse{}
	resp.Body.Result = invoker.Invoke(ctx, desc, nil, args)

	return resp, nil
}
