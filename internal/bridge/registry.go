package bridge

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/client"
	"golang.org/x/sync/singleflight"

	"github.com/openshift-assist/mcpbridge/internal/config"
	"github.com/openshift-assist/mcpbridge/internal/contracts"
	"github.com/openshift-assist/mcpbridge/internal/errors"
)

var _ contracts.MCPSessionAccessor = (*SessionRegistry)(nil)

// SessionRegistry owns zero-or-one live session per configured server name.
// Concurrent GetOrCreate calls for the same server collapse into a single
// connect attempt, so two callers can never both construct a session for the
// same name. Safe for concurrent use by multiple goroutines.
type SessionRegistry struct {
	logger  hclog.Logger
	servers map[string]config.ServerEntry
	dial    Dialer

	mu       sync.RWMutex
	sessions map[string]*Session

	// group serializes connect/probe/evict per server name.
	group singleflight.Group
}

// NewSessionRegistry creates a registry for the given server entries.
// Entries are captured by value and immutable for the registry's lifetime.
func NewSessionRegistry(logger hclog.Logger, entries []config.ServerEntry, dial Dialer) *SessionRegistry {
	servers := make(map[string]config.ServerEntry, len(entries))
	for _, e := range entries {
		servers[e.Name] = e
	}

	if dial == nil {
		dial = NewStreamableHTTPDialer()
	}

	return &SessionRegistry{
		logger:   logger.Named("registry"),
		servers:  servers,
		dial:     dial,
		sessions: make(map[string]*Session, len(entries)),
	}
}

// GetOrCreate returns a live session for the named server.
// A cached session is probed for liveness first (MCP ping); if the probe
// fails the session is evicted and a fresh connect+initialize is attempted
// once. Connect failures are returned as ErrConnectionFailed values, never
// panics.
func (r *SessionRegistry) GetOrCreate(ctx context.Context, name string) (client.MCPClient, error) {
	entry, ok := r.servers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrServerNotFound, name)
	}

	v, err, _ := r.group.Do(name, func() (any, error) {
		return r.acquire(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	return v.(client.MCPClient), nil
}

// acquire runs inside the per-server single-flight slot.
func (r *SessionRegistry) acquire(ctx context.Context, entry config.ServerEntry) (client.MCPClient, error) {
	r.mu.RLock()
	existing := r.sessions[entry.Name]
	r.mu.RUnlock()

	if existing != nil {
		probeCtx, cancel := context.WithTimeout(ctx, entry.ConnectTimeout)
		err := existing.Client.Ping(probeCtx)
		cancel()
		if err == nil {
			r.logger.Debug("Reusing live session", "server", entry.Name)
			return existing.Client, nil
		}

		r.logger.Debug("Cached session failed liveness probe, evicting", "server", entry.Name, "error", err)
		r.Evict(entry.Name)
	}

	r.logger.Info("Creating session", "server", entry.Name, "endpoint", entry.Endpoint)

	c, err := r.dial(ctx, entry)
	if err != nil {
		r.logger.Error("Failed to create session", "server", entry.Name, "error", err)
		return nil, fmt.Errorf("%w: %s: %w", errors.ErrConnectionFailed, entry.Name, err)
	}

	session := &Session{Server: entry.Name, Client: c}

	r.mu.Lock()
	r.sessions[entry.Name] = session
	r.mu.Unlock()

	return c, nil
}

// Peek returns the cached session for the named server without dialing or
// probing. It returns a boolean to indicate whether a session was found.
func (r *SessionRegistry) Peek(name string) (client.MCPClient, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[name]
	if !ok {
		return nil, false
	}
	return s.Client, true
}

// Evict tears down the session for the named server, releasing transport and
// protocol resources. Idempotent if no session exists.
func (r *SessionRegistry) Evict(name string) {
	r.mu.Lock()
	s, ok := r.sessions[name]
	delete(r.sessions, name)
	r.mu.Unlock()

	if !ok {
		return
	}

	r.logger.Debug("Evicting session", "server", name)
	if err := s.Client.Close(); err != nil {
		r.logger.Warn("Error closing session", "server", name, "error", err)
	}
}

// EvictAll evicts every server. Used at process shutdown.
func (r *SessionRegistry) EvictAll() {
	for _, name := range r.Names() {
		r.Evict(name)
	}
}

// Names returns all configured server names.
func (r *SessionRegistry) Names() []string {
	names := make([]string, 0, len(r.servers))
	for name := range r.servers {
		names = append(names, name)
	}
	return names
}
