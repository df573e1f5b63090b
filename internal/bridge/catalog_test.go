package bridge

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/openshift-assist/mcpbridge/internal/config"
)

func TestCatalogLoader_Load_PrefixesToolNames(t *testing.T) {
	t.Parallel()

	mock := &mockMCPClient{
		listToolsFunc: func(context.Context) (*mcp.ListToolsResult, error) {
			return toolsResult("get_pods", "get_logs"), nil
		},
	}
	dial, _ := countingDialer(mock)

	entries := []config.ServerEntry{testEntry("openshift")}
	registry := NewSessionRegistry(hclog.NewNullLogger(), entries, dial)
	loader := NewCatalogLoader(hclog.NewNullLogger(), registry, time.Second)

	catalog := loader.Load(context.Background(), entries)

	require.Equal(t, 2, catalog.Len())
	require.Equal(t, []string{"openshift_get_pods", "openshift_get_logs"}, catalog.Names())

	desc, ok := catalog.Lookup("openshift_get_pods")
	require.True(t, ok)
	require.Equal(t, "get_pods", desc.RemoteName)
	require.Equal(t, "openshift", desc.Server)
}

func TestCatalogLoader_Load_SkipsUnreachableServer(t *testing.T) {
	t.Parallel()

	alpha := &mockMCPClient{
		listToolsFunc: func(context.Context) (*mcp.ListToolsResult, error) {
			return toolsResult("get_pods"), nil
		},
	}
	dial := func(_ context.Context, entry config.ServerEntry) (client.MCPClient, error) {
		if entry.Name == "beta" {
			return nil, fmt.Errorf("connection refused")
		}
		return alpha, nil
	}

	entries := []config.ServerEntry{testEntry("alpha"), testEntry("beta")}
	registry := NewSessionRegistry(hclog.NewNullLogger(), entries, dial)
	loader := NewCatalogLoader(hclog.NewNullLogger(), registry, time.Second)

	catalog := loader.Load(context.Background(), entries)

	require.Equal(t, 1, catalog.Len())
	require.Equal(t, []string{"alpha_get_pods"}, catalog.Names())
	require.Empty(t, catalog.ServerTools("beta"))
}

func TestCatalogLoader_Load_ListFailureSkipsServer(t *testing.T) {
	t.Parallel()

	alpha := &mockMCPClient{
		listToolsFunc: func(context.Context) (*mcp.ListToolsResult, error) {
			return nil, fmt.Errorf("internal error")
		},
	}
	beta := &mockMCPClient{
		listToolsFunc: func(context.Context) (*mcp.ListToolsResult, error) {
			return toolsResult("get_events"), nil
		},
	}
	clientsByName := map[string]client.MCPClient{"alpha": alpha, "beta": beta}
	dial := func(_ context.Context, entry config.ServerEntry) (client.MCPClient, error) {
		return clientsByName[entry.Name], nil
	}

	entries := []config.ServerEntry{testEntry("alpha"), testEntry("beta")}
	registry := NewSessionRegistry(hclog.NewNullLogger(), entries, dial)
	loader := NewCatalogLoader(hclog.NewNullLogger(), registry, time.Second)

	catalog := loader.Load(context.Background(), entries)

	require.Equal(t, []string{"beta_get_events"}, catalog.Names())
}

func TestCatalogLoader_Load_ReplacesPriorSnapshot(t *testing.T) {
	t.Parallel()

	mock := &mockMCPClient{
		listToolsFunc: func(context.Context) (*mcp.ListToolsResult, error) {
			return toolsResult("get_pods"), nil
		},
	}
	dial, _ := countingDialer(mock)

	entries := []config.ServerEntry{testEntry("openshift")}
	registry := NewSessionRegistry(hclog.NewNullLogger(), entries, dial)
	loader := NewCatalogLoader(hclog.NewNullLogger(), registry, time.Second)

	first := loader.Load(context.Background(), entries)
	require.Equal(t, []string{"openshift_get_pods"}, first.Names())

	// The server's tool set changes before the next load.
	mock.mu.Lock()
	mock.listToolsFunc = func(context.Context) (*mcp.ListToolsResult, error) {
		return toolsResult("get_logs", "get_events"), nil
	}
	mock.mu.Unlock()

	second := loader.Load(context.Background(), entries)
	require.Equal(t, []string{"openshift_get_logs", "openshift_get_events"}, second.Names())

	// Prior snapshots are immutable: tools absent from the reload stay
	// resolvable through the old snapshot only.
	require.Equal(t, []string{"openshift_get_pods"}, first.Names())
	_, ok := second.Lookup("openshift_get_pods")
	require.False(t, ok)
}

func TestCatalogLoader_Load_ToolMetadata(t *testing.T) {
	t.Parallel()

	mock := &mockMCPClient{
		listToolsFunc: func(context.Context) (*mcp.ListToolsResult, error) {
			return &mcp.ListToolsResult{
				Tools: []mcp.Tool{
					{
						Name:        "get_namespace_pods",
						Description: "Lists pods in a namespace.",
						Annotations: mcp.ToolAnnotation{Title: "Get Namespace Pods"},
						InputSchema: mcp.ToolInputSchema{
							Type: "object",
							Properties: map[string]any{
								"namespace": map[string]any{"type": "string"},
								"selector":  map[string]any{"type": "string"},
							},
							Required: []string{"namespace"},
						},
					},
					{Name: "get_version"},
					{Name: ""}, // malformed, skipped
				},
			}, nil
		},
	}
	dial, _ := countingDialer(mock)

	entries := []config.ServerEntry{testEntry("openshift")}
	registry := NewSessionRegistry(hclog.NewNullLogger(), entries, dial)
	loader := NewCatalogLoader(hclog.NewNullLogger(), registry, time.Second)

	catalog := loader.Load(context.Background(), entries)
	require.Equal(t, 2, catalog.Len())

	desc, ok := catalog.LookupRemote("openshift", "get_namespace_pods")
	require.True(t, ok)
	require.Equal(t, "Get Namespace Pods", desc.DisplayName)
	require.Equal(t, "Lists pods in a namespace.", desc.Description)
	require.Equal(t, []Param{
		{Name: "namespace", Type: "string"},
		{Name: "selector", Type: "string"},
	}, desc.Params)

	// Display name falls back to the remote name when no title is declared.
	plain, ok := catalog.LookupRemote("openshift", "get_version")
	require.True(t, ok)
	require.Equal(t, "get_version", plain.DisplayName)
}

func TestCatalog_Descriptors_ReturnsCopy(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog([]ToolDescriptor{
		{Name: "a_x", RemoteName: "x", Server: "a"},
		{Name: "a_y", RemoteName: "y", Server: "a"},
	})

	descriptors := catalog.Descriptors()
	descriptors[0].Name = "mutated"

	fresh := catalog.Descriptors()
	require.Equal(t, "a_x", fresh[0].Name)
}

func TestCatalog_ServerTools(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog([]ToolDescriptor{
		{Name: "a_x", RemoteName: "x", Server: "a"},
		{Name: "b_x", RemoteName: "x", Server: "b"},
		{Name: "a_y", RemoteName: "y", Server: "a"},
	})

	tools := catalog.ServerTools("a")
	require.Len(t, tools, 2)
	for _, d := range tools {
		require.Equal(t, "a", d.Server)
	}

	require.Empty(t, catalog.ServerTools("unknown"))
}
