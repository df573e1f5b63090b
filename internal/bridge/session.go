// Package bridge implements the MCP tool-session manager: session lifecycle
// per remote server, server-prefixed tool discovery, calling-convention
// reconciliation, and caller-safe tool invocation with bounded retry.
package bridge

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/client/transport"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openshift-assist/mcpbridge/internal/config"
)

const (
	clientName    = "mcpbridge"
	clientVersion = "0.1.0"
)

// Session is a live, handshake-established channel to one remote MCP server.
// Sessions are owned exclusively by the SessionRegistry; at most one live
// session exists per server name at any instant.
type Session struct {
	// Server is the configured name of the remote server.
	Server string

	// Client is the initialized MCP client for this session.
	Client client.MCPClient
}

// Dialer establishes a new initialized session with a remote server.
// Implementations must release any partially-constructed resources on failure.
type Dialer func(ctx context.Context, entry config.ServerEntry) (client.MCPClient, error)

// NewStreamableHTTPDialer returns the production Dialer: a streamable-HTTP
// MCP client with connect+initialize bounded by the entry's connect timeout.
func NewStreamableHTTPDialer() Dialer {
	return func(ctx context.Context, entry config.ServerEntry) (client.MCPClient, error) {
		c, err := client.NewStreamableHttpClient(
			entry.Endpoint,
			transport.WithHTTPTimeout(entry.ConnectTimeout),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create client for '%s': %w", entry.Name, err)
		}

		connectCtx, cancel := context.WithTimeout(ctx, entry.ConnectTimeout)
		defer cancel()

		if err := c.Start(connectCtx); err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to start transport for '%s': %w", entry.Name, err)
		}

		_, err = c.Initialize(connectCtx, mcp.InitializeRequest{
			Params: mcp.InitializeParams{
				ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
				ClientInfo: mcp.Implementation{
					Name:    clientName,
					Version: clientVersion,
				},
			},
		})
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize session with '%s': %w", entry.Name, err)
		}

		return c, nil
	}
}
