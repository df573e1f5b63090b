package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openshift-assist/mcpbridge/internal/config"
	"github.com/openshift-assist/mcpbridge/internal/contracts"
	"github.com/openshift-assist/mcpbridge/internal/errors"
)

// toolNameSeparator joins server name and remote tool name into the
// externally visible tool name, e.g. "openshift_get_pods". Stable across
// loads; collisions across servers are disambiguated by the prefix.
const toolNameSeparator = "_"

// ToolName returns the externally visible name for a remote tool.
func ToolName(server, remote string) string {
	return server + toolNameSeparator + remote
}

// ToolDescriptor is the locally held metadata and schema for one remote tool.
// Descriptors capture server and remote name by value, so in-flight
// invocations are unaffected by a later catalog reload.
type ToolDescriptor struct {
	// Name is the externally visible, server-prefixed tool name.
	Name string `json:"name" yaml:"name"`

	// RemoteName is the tool name as declared by the remote server.
	RemoteName string `json:"remoteName" yaml:"remoteName"`

	// Server is the configured name of the owning server.
	Server string `json:"server" yaml:"server"`

	// DisplayName is the human-readable name, falling back to RemoteName.
	DisplayName string `json:"displayName" yaml:"displayName"`

	// Description is the free-text tool description from the server.
	Description string `json:"description" yaml:"description"`

	// Params are the declared parameters in stable order (see ParamsFromSchema).
	Params []Param `json:"params,omitempty" yaml:"params,omitempty"`

	// InputSchema is the raw declared input schema, kept for argument validation.
	InputSchema mcp.ToolInputSchema `json:"-" yaml:"-"`
}

// Catalog is an immutable snapshot of all discovered tools across servers.
// A reload produces a new Catalog; existing snapshots are never mutated.
type Catalog struct {
	descriptors []ToolDescriptor
	byName      map[string]ToolDescriptor
}

// NewCatalog builds a catalog from descriptors, deriving the name lookup.
func NewCatalog(descriptors []ToolDescriptor) *Catalog {
	byName := make(map[string]ToolDescriptor, len(descriptors))
	for _, d := range descriptors {
		byName[d.Name] = d
	}
	return &Catalog{
		descriptors: descriptors,
		byName:      byName,
	}
}

// Descriptors returns a copy of all tool descriptors in discovery order.
func (c *Catalog) Descriptors() []ToolDescriptor {
	out := make([]ToolDescriptor, len(c.descriptors))
	copy(out, c.descriptors)
	return out
}

// Lookup returns the descriptor for an externally visible tool name.
// It returns a boolean to indicate whether the tool was found.
func (c *Catalog) Lookup(name string) (ToolDescriptor, bool) {
	d, ok := c.byName[name]
	return d, ok
}

// LookupRemote returns the descriptor for a (server, remote name) pair.
func (c *Catalog) LookupRemote(server, remote string) (ToolDescriptor, bool) {
	return c.Lookup(ToolName(server, remote))
}

// Names returns all externally visible tool names in discovery order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.descriptors))
	for _, d := range c.descriptors {
		names = append(names, d.Name)
	}
	return names
}

// ServerTools returns the descriptors discovered from one server.
func (c *Catalog) ServerTools(server string) []ToolDescriptor {
	var out []ToolDescriptor
	for _, d := range c.descriptors {
		if d.Server == server {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of tools in the catalog.
func (c *Catalog) Len() int {
	return len(c.descriptors)
}

// CatalogLoader discovers tools from configured servers through the session
// registry.
type CatalogLoader struct {
	logger      hclog.Logger
	sessions    contracts.MCPSessionAccessor
	loadTimeout time.Duration
}

// NewCatalogLoader creates a loader that bounds per-server discovery with
// loadTimeout.
func NewCatalogLoader(logger hclog.Logger, sessions contracts.MCPSessionAccessor, loadTimeout time.Duration) *CatalogLoader {
	return &CatalogLoader{
		logger:      logger.Named("catalog"),
		sessions:    sessions,
		loadTimeout: loadTimeout,
	}
}

// Load walks the configured servers and returns a fresh catalog. Servers are
// loaded independently: a connect or list failure on one server is logged
// once and skipped, never aborting the remaining servers. Calling Load again
// fully replaces the prior catalog.
func (l *CatalogLoader) Load(ctx context.Context, entries []config.ServerEntry) *Catalog {
	var descriptors []ToolDescriptor

	for _, entry := range entries {
		tools, err := l.loadServer(ctx, entry)
		if err != nil {
			l.logger.Error("Failed to load tools from server", "server", entry.Name, "endpoint", entry.Endpoint, "error", err)
			continue
		}
		descriptors = append(descriptors, tools...)
	}

	l.logger.Info("Catalog loaded", "tools", len(descriptors), "servers", len(entries))

	return NewCatalog(descriptors)
}

func (l *CatalogLoader) loadServer(ctx context.Context, entry config.ServerEntry) ([]ToolDescriptor, error) {
	loadCtx, cancel := context.WithTimeout(ctx, l.loadTimeout)
	defer cancel()

	session, err := l.sessions.GetOrCreate(loadCtx, entry.Name)
	if err != nil {
		return nil, err
	}

	result, err := session.ListTools(loadCtx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errors.ErrToolListFailed, entry.Name, err)
	}

	descriptors := make([]ToolDescriptor, 0, len(result.Tools))
	for _, tool := range result.Tools {
		if tool.Name == "" {
			// Malformed descriptor, skip the tool and keep the rest.
			l.logger.Warn("Skipping tool with empty name", "server", entry.Name)
			continue
		}

		displayName := tool.Annotations.Title
		if displayName == "" {
			displayName = tool.Name
		}

		descriptors = append(descriptors, ToolDescriptor{
			Name:        ToolName(entry.Name, tool.Name),
			RemoteName:  tool.Name,
			Server:      entry.Name,
			DisplayName: displayName,
			Description: tool.Description,
			Params:      ParamsFromSchema(tool.InputSchema),
			InputSchema: tool.InputSchema,
		})

		l.logger.Debug("Discovered tool", "server", entry.Name, "tool", tool.Name, "display", displayName)
	}

	l.logger.Info("Loaded tools from server", "server", entry.Name, "count", len(descriptors))

	return descriptors, nil
}
