package bridge

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/openshift-assist/mcpbridge/internal/contracts"
	"github.com/openshift-assist/mcpbridge/internal/errors"
)

// mockSessionAccessor is a scriptable contracts.MCPSessionAccessor: each
// GetOrCreate call pops the next outcome from the sequence.
type mockSessionAccessor struct {
	mu       sync.Mutex
	client   client.MCPClient
	getErrs  []error
	gets     int
	evicted  []string
}

var _ contracts.MCPSessionAccessor = (*mockSessionAccessor)(nil)

func (m *mockSessionAccessor) GetOrCreate(_ context.Context, _ string) (client.MCPClient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.gets++
	if len(m.getErrs) > 0 {
		err := m.getErrs[0]
		m.getErrs = m.getErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return m.client, nil
}

func (m *mockSessionAccessor) Peek(_ string) (client.MCPClient, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.client, m.client != nil
}

func (m *mockSessionAccessor) Evict(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evicted = append(m.evicted, name)
}

func (m *mockSessionAccessor) EvictAll() {}

func (m *mockSessionAccessor) Names() []string {
	return []string{"openshift"}
}

func testDescriptor() ToolDescriptor {
	return ToolDescriptor{
		Name:        "openshift_get_namespace_pods",
		RemoteName:  "get_namespace_pods",
		Server:      "openshift",
		DisplayName: "Get Namespace Pods",
		Description: "Lists pods in a namespace.",
		Params: []Param{
			{Name: "namespace", Type: "string"},
			{Name: "selector", Type: "string"},
		},
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"namespace": map[string]any{"type": "string"},
				"selector":  map[string]any{"type": "string"},
			},
			Required: []string{"namespace"},
		},
	}
}

func TestInvoker_Invoke_Success(t *testing.T) {
	t.Parallel()

	mock := &mockMCPClient{}
	var gotArgs map[string]any
	mock.setCallTool(func(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		gotArgs = request.GetArguments()
		return textResult("web-1\nweb-2"), nil
	})

	sessions := &mockSessionAccessor{client: mock}
	invoker := NewInvoker(hclog.NewNullLogger(), sessions, time.Second)

	result := invoker.Invoke(context.Background(), testDescriptor(), []any{"prod"}, nil)

	require.Equal(t, "web-1\nweb-2", result)
	require.Equal(t, map[string]any{"namespace": "prod"}, gotArgs)
	require.Equal(t, int64(1), mock.callCalls.Load())
	require.Empty(t, sessions.evicted)
}

func TestInvoker_Invoke_ConnectFailureNoRetry(t *testing.T) {
	t.Parallel()

	sessions := &mockSessionAccessor{
		getErrs: []error{fmt.Errorf("%w: openshift: connection refused", errors.ErrConnectionFailed)},
	}
	invoker := NewInvoker(hclog.NewNullLogger(), sessions, time.Second)

	result := invoker.Invoke(context.Background(), testDescriptor(), nil, nil)

	require.Contains(t, result, errorPrefix)
	require.Contains(t, result, "unable to connect")
	require.Equal(t, 1, sessions.gets)
	require.Empty(t, sessions.evicted)
}

func TestInvoker_Invoke_RetriesOnceOnSessionClosed(t *testing.T) {
	t.Parallel()

	mock := &mockMCPClient{}
	mock.setCallTool(func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if mock.callCalls.Load() == 1 {
			return nil, fmt.Errorf("session terminated")
		}
		return textResult("recovered"), nil
	})

	sessions := &mockSessionAccessor{client: mock}
	invoker := NewInvoker(hclog.NewNullLogger(), sessions, time.Second)

	result := invoker.Invoke(context.Background(), testDescriptor(), nil, map[string]any{"namespace": "prod"})

	require.Equal(t, "recovered", result)
	require.Equal(t, int64(2), mock.callCalls.Load())
	require.Equal(t, []string{"openshift"}, sessions.evicted)
}

func TestInvoker_Invoke_RetryBound(t *testing.T) {
	t.Parallel()

	mock := &mockMCPClient{}
	mock.setCallTool(func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, fmt.Errorf("connection closed")
	})

	sessions := &mockSessionAccessor{client: mock}
	invoker := NewInvoker(hclog.NewNullLogger(), sessions, time.Second)

	result := invoker.Invoke(context.Background(), testDescriptor(), nil, nil)

	// Exactly one retry, then the failure surfaces as a string.
	require.Equal(t, int64(2), mock.callCalls.Load())
	require.Contains(t, result, errorPrefix)
	require.Contains(t, result, "retry failed")
	require.Equal(t, []string{"openshift"}, sessions.evicted)
}

func TestInvoker_Invoke_NoRetryOnOtherErrors(t *testing.T) {
	t.Parallel()

	mock := &mockMCPClient{}
	mock.setCallTool(func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, fmt.Errorf("invalid params")
	})

	sessions := &mockSessionAccessor{client: mock}
	invoker := NewInvoker(hclog.NewNullLogger(), sessions, time.Second)

	result := invoker.Invoke(context.Background(), testDescriptor(), nil, nil)

	require.Equal(t, int64(1), mock.callCalls.Load())
	require.Contains(t, result, errorPrefix)
	require.Contains(t, result, "invalid params")
	require.Empty(t, sessions.evicted)
}

func TestInvoker_Invoke_ReconnectFailure(t *testing.T) {
	t.Parallel()

	mock := &mockMCPClient{}
	mock.setCallTool(func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, fmt.Errorf("broken pipe")
	})

	sessions := &mockSessionAccessor{
		client: mock,
		getErrs: []error{
			nil, // initial session succeeds
			fmt.Errorf("%w: openshift: connection refused", errors.ErrConnectionFailed),
		},
	}
	invoker := NewInvoker(hclog.NewNullLogger(), sessions, time.Second)

	result := invoker.Invoke(context.Background(), testDescriptor(), nil, nil)

	require.Equal(t, int64(1), mock.callCalls.Load())
	require.Contains(t, result, "unable to reconnect")
	require.Equal(t, []string{"openshift"}, sessions.evicted)
}

func TestInvoker_Invoke_ToolReportedError(t *testing.T) {
	t.Parallel()

	mock := &mockMCPClient{}
	mock.setCallTool(func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{mcp.TextContent{Type: "text", Text: "pod not found"}},
		}, nil
	})

	sessions := &mockSessionAccessor{client: mock}
	invoker := NewInvoker(hclog.NewNullLogger(), sessions, time.Second)

	result := invoker.Invoke(context.Background(), testDescriptor(), nil, nil)

	require.Contains(t, result, errorPrefix)
	require.Contains(t, result, "pod not found")
	// A tool-reported error is a completed call, not a dead session.
	require.Equal(t, int64(1), mock.callCalls.Load())
	require.Empty(t, sessions.evicted)
}

func TestIsSessionClosed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "sentinel", err: errors.ErrSessionClosed, want: true},
		{name: "wrapped sentinel", err: fmt.Errorf("call failed: %w", errors.ErrSessionClosed), want: true},
		{name: "eof", err: io.EOF, want: true},
		{name: "session terminated text", err: fmt.Errorf("transport: session terminated"), want: true},
		{name: "connection reset text", err: fmt.Errorf("read tcp: connection reset by peer"), want: true},
		{name: "broken pipe text", err: fmt.Errorf("write: broken pipe"), want: true},
		{name: "unrelated error", err: fmt.Errorf("invalid params"), want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, IsSessionClosed(tc.err))
		})
	}
}
