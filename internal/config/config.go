package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-hclog"
)

const (
	defaultAPIAddr        = "0.0.0.0:8090"
	defaultConnectTimeout = 10 * time.Second
	defaultCallTimeout    = 30 * time.Second
	defaultLoadTimeout    = 15 * time.Second
)

// Load reads and validates configuration from the given TOML file.
func (d *DefaultLoader) Load(path string) (*Config, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: path cannot be empty", ErrConfigLoadFailed)
	}

	_, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: config file cannot be found (%s)", ErrConfigLoadFailed, path)
		}
		return nil, fmt.Errorf("%w: failed to stat config file (%s): %w", ErrConfigLoadFailed, path, err)
	}

	var cfg *Config
	_, err = toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode config from file (%s): %w", ErrConfigLoadFailed, path, err)
	}
	if cfg == nil {
		return nil, fmt.Errorf("%w: config file is empty (%s)", ErrConfigLoadFailed, path)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: failed to validate config (%s): %w", ErrConfigLoadFailed, path, err)
	}

	// Track the path that loaded this file.
	cfg.configFilePath = path

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.API.Addr == "" {
		c.API.Addr = defaultAPIAddr
	}
	if c.MCP.ConnectTimeout <= 0 {
		c.MCP.ConnectTimeout = Duration(defaultConnectTimeout)
	}
	if c.MCP.CallTimeout <= 0 {
		c.MCP.CallTimeout = Duration(defaultCallTimeout)
	}
	if c.MCP.LoadTimeout <= 0 {
		c.MCP.LoadTimeout = Duration(defaultLoadTimeout)
	}
}

func (c *Config) validate() error {
	seen := make(map[string]struct{}, len(c.MCP.Servers))
	for _, raw := range c.MCP.Servers {
		entry, err := ParseServerEntry(raw, c.MCP.ConnectTimeout.Std())
		if err != nil {
			// Malformed entries are skipped at use time, never fatal at load time.
			continue
		}
		if _, dup := seen[entry.Name]; dup {
			return fmt.Errorf("%w: duplicate server name '%s'", ErrInvalidServer, entry.Name)
		}
		seen[entry.Name] = struct{}{}
	}

	return nil
}

// ServerEntries parses the configured 'name=endpoint' pairs into validated
// entries. Malformed pairs are logged and skipped; they never abort parsing of
// the remaining entries.
func (c *Config) ServerEntries(logger hclog.Logger) []ServerEntry {
	if !c.MCP.Enabled {
		return nil
	}

	entries := make([]ServerEntry, 0, len(c.MCP.Servers))
	for _, raw := range c.MCP.Servers {
		entry, err := ParseServerEntry(raw, c.MCP.ConnectTimeout.Std())
		if err != nil {
			logger.Warn("Skipping malformed MCP server entry", "entry", raw, "error", err)
			continue
		}
		entries = append(entries, entry)
	}

	return entries
}

// ParseServerEntry parses a single 'name=endpoint' pair, completing the
// endpoint with the MCP RPC route suffix.
func ParseServerEntry(raw string, connectTimeout time.Duration) (ServerEntry, error) {
	name, endpoint, found := strings.Cut(strings.TrimSpace(raw), "=")
	name = strings.TrimSpace(name)
	endpoint = strings.TrimSpace(endpoint)

	if !found || name == "" || endpoint == "" {
		return ServerEntry{}, fmt.Errorf("%w: expected 'name=endpoint', got '%s'", ErrInvalidServer, raw)
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return ServerEntry{}, fmt.Errorf("%w: endpoint for '%s' is not a valid URL: %w", ErrInvalidServer, name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ServerEntry{}, fmt.Errorf("%w: endpoint for '%s' must be http(s), got '%s'", ErrInvalidServer, name, u.Scheme)
	}

	if !strings.HasSuffix(strings.TrimRight(u.Path, "/"), RPCPathSuffix) {
		endpoint = strings.TrimRight(endpoint, "/") + RPCPathSuffix
	}

	return ServerEntry{
		Name:           name,
		Endpoint:       endpoint,
		ConnectTimeout: connectTimeout,
	}, nil
}
