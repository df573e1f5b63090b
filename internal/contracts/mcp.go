package contracts

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/client"

	"github.com/openshift-assist/mcpbridge/internal/domain"
)

// MCPHealthMonitor provides a way to interact with the health status of MCP servers.
type MCPHealthMonitor interface {
	// Status returns the health status for a single tracked server.
	Status(name string) (domain.ServerHealth, error)

	// List returns a copy of all known server health records.
	List() []domain.ServerHealth

	// Update records a health check for a tracked server.
	Update(name string, status domain.HealthStatus, latency *time.Duration) error
}

// MCPSessionAccessor provides access to live MCP sessions, keyed by server name.
// Implementations own session lifecycle: at most one live session exists per
// server name at any instant.
type MCPSessionAccessor interface {
	// GetOrCreate returns a live session for the named server, probing a cached
	// session for liveness and reconnecting once if the probe fails.
	GetOrCreate(ctx context.Context, name string) (client.MCPClient, error)

	// Peek returns the cached session for the named server without dialing.
	// It returns a boolean to indicate whether a session was found.
	Peek(name string) (client.MCPClient, bool)

	// Evict tears down the session for the named server, releasing all resources.
	// It is a no-op if no session exists.
	Evict(name string)

	// EvictAll evicts every server. Used at process shutdown.
	EvictAll()

	// Names returns all configured server names.
	Names() []string
}
