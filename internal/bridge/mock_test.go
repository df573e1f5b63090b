package bridge

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
)

// mockMCPClient is a test implementation of client.MCPClient with overridable
// behavior for the operations the bridge exercises.
type mockMCPClient struct {
	mu            sync.Mutex
	pingFunc      func(ctx context.Context) error
	listToolsFunc func(ctx context.Context) (*mcp.ListToolsResult, error)
	callToolFunc  func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
	closeFunc     func() error

	pingCalls  atomic.Int64
	callCalls  atomic.Int64
	closeCalls atomic.Int64
}

func (m *mockMCPClient) setCallTool(fn func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callToolFunc = fn
}

func (m *mockMCPClient) setPing(fn func(ctx context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingFunc = fn
}

func (m *mockMCPClient) Initialize(_ context.Context, _ mcp.InitializeRequest) (*mcp.InitializeResult, error) {
	return nil, nil
}

func (m *mockMCPClient) Ping(ctx context.Context) error {
	m.pingCalls.Add(1)
	m.mu.Lock()
	fn := m.pingFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return nil
}

func (m *mockMCPClient) ListResourcesByPage(
	_ context.Context,
	_ mcp.ListResourcesRequest,
) (*mcp.ListResourcesResult, error) {
	return nil, nil
}

func (m *mockMCPClient) ListResources(
	_ context.Context,
	_ mcp.ListResourcesRequest,
) (*mcp.ListResourcesResult, error) {
	return nil, nil
}

func (m *mockMCPClient) ListResourceTemplatesByPage(
	_ context.Context,
	_ mcp.ListResourceTemplatesRequest,
) (*mcp.ListResourceTemplatesResult, error) {
	return nil, nil
}

func (m *mockMCPClient) ListResourceTemplates(
	_ context.Context,
	_ mcp.ListResourceTemplatesRequest,
) (*mcp.ListResourceTemplatesResult, error) {
	return nil, nil
}

func (m *mockMCPClient) ReadResource(
	_ context.Context,
	_ mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return nil, nil
}

func (m *mockMCPClient) Subscribe(_ context.Context, _ mcp.SubscribeRequest) error {
	return nil
}

func (m *mockMCPClient) Unsubscribe(_ context.Context, _ mcp.UnsubscribeRequest) error {
	return nil
}

func (m *mockMCPClient) ListPromptsByPage(
	_ context.Context,
	_ mcp.ListPromptsRequest,
) (*mcp.ListPromptsResult, error) {
	return nil, nil
}

func (m *mockMCPClient) ListPrompts(
	_ context.Context,
	_ mcp.ListPromptsRequest,
) (*mcp.ListPromptsResult, error) {
	return nil, nil
}

func (m *mockMCPClient) GetPrompt(_ context.Context, _ mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return nil, nil
}

func (m *mockMCPClient) ListToolsByPage(
	ctx context.Context,
	request mcp.ListToolsRequest,
) (*mcp.ListToolsResult, error) {
	return m.ListTools(ctx, request)
}

func (m *mockMCPClient) ListTools(ctx context.Context, _ mcp.ListToolsRequest) (*mcp.ListToolsResult, error) {
	m.mu.Lock()
	fn := m.listToolsFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return &mcp.ListToolsResult{}, nil
}

func (m *mockMCPClient) CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m.callCalls.Add(1)
	m.mu.Lock()
	fn := m.callToolFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, request)
	}
	return &mcp.CallToolResult{}, nil
}

func (m *mockMCPClient) SetLevel(_ context.Context, _ mcp.SetLevelRequest) error {
	return nil
}

func (m *mockMCPClient) Complete(_ context.Context, _ mcp.CompleteRequest) (*mcp.CompleteResult, error) {
	return nil, nil
}

func (m *mockMCPClient) Close() error {
	m.closeCalls.Add(1)
	m.mu.Lock()
	fn := m.closeFunc
	m.mu.Unlock()
	if fn != nil {
		return fn()
	}
	return nil
}

func (m *mockMCPClient) OnNotification(_ func(notification mcp.JSONRPCNotification)) {}

var _ client.MCPClient = (*mockMCPClient)(nil)

// textResult builds a successful single-text-block tool call result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: text}},
	}
}

// toolsResult builds a tools/list result with the given tool names.
func toolsResult(names ...string) *mcp.ListToolsResult {
	tools := make([]mcp.Tool, 0, len(names))
	for _, n := range names {
		tools = append(tools, mcp.Tool{Name: n})
	}
	return &mcp.ListToolsResult{Tools: tools}
}
