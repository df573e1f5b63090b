package config

import (
	"time"
)

var _ Loader = (*DefaultLoader)(nil)

// RPCPathSuffix is the fixed path appended to every configured endpoint to
// reach the server's streamable-HTTP MCP route.
const RPCPathSuffix = "/mcp"

// Loader loads application configuration from a file path.
type Loader interface {
	Load(path string) (*Config, error)
}

// DefaultLoader loads configuration from a TOML file.
type DefaultLoader struct{}

// Config represents the .mcpbridge.toml file structure.
type Config struct {
	MCP MCPConfig `toml:"mcp"`
	API APIConfig `toml:"api"`

	configFilePath string `toml:"-"`
}

// MCPConfig configures the remote MCP servers the bridge connects to.
type MCPConfig struct {
	// Enabled toggles all MCP connectivity. When false, the bridge loads an
	// empty catalog and serves no tools.
	Enabled bool `toml:"enabled"`

	// Servers lists remote servers as 'name=endpoint' pairs,
	// e.g. 'openshift=http://ocp-mcp.tools.svc:8080'.
	// The RPC route suffix is appended to each endpoint automatically.
	Servers []string `toml:"servers"`

	// ConnectTimeout bounds connect+initialize for a single server.
	ConnectTimeout Duration `toml:"connect_timeout"`

	// CallTimeout bounds a single tool call, including the liveness probe and
	// any session re-establishment performed on its behalf.
	CallTimeout Duration `toml:"call_timeout"`

	// LoadTimeout bounds tool discovery per server during catalog load.
	// Distinct from ConnectTimeout so a slow tools/list cannot stall startup.
	LoadTimeout Duration `toml:"load_timeout"`
}

// APIConfig configures the operational HTTP API.
type APIConfig struct {
	Addr             string   `toml:"addr"`
	CORSEnabled      bool     `toml:"cors_enabled"`
	CORSAllowOrigins []string `toml:"cors_allow_origins"`
}

// ServerEntry is the parsed, validated form of one configured MCP server.
// Entries are immutable once loaded; names are unique.
type ServerEntry struct {
	// Name is the unique server name referenced in catalog prefixes and logs.
	Name string

	// Endpoint is the fully-completed URL of the server's MCP route.
	Endpoint string

	// ConnectTimeout bounds connect+initialize for this server.
	ConnectTimeout time.Duration
}

// Duration wraps time.Duration so durations can be written as strings
// (e.g. "10s") in TOML.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
