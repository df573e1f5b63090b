package daemon

import (
	"fmt"
	"reflect"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/openshift-assist/mcpbridge/internal/config"
)

// Dependencies contains required dependencies for the Daemon.
// NewDependencies should be used to create instances of Dependencies.
type Dependencies struct {
	// APIAddr specifies the network address for the APIServer to bind (e.g., "0.0.0.0:8090").
	APIAddr string

	// Logger for daemon and subcomponent (API server) operations.
	Logger hclog.Logger

	// ServerEntries contains the parsed remote MCP server configuration.
	ServerEntries []config.ServerEntry

	// CallTimeout bounds a single tool call.
	CallTimeout time.Duration

	// LoadTimeout bounds per-server tool discovery during catalog load.
	LoadTimeout time.Duration
}

// NewDependencies creates and validates Dependencies.
func NewDependencies(
	logger hclog.Logger,
	apiAddr string,
	entries []config.ServerEntry,
	callTimeout time.Duration,
	loadTimeout time.Duration,
) (Dependencies, error) {
	if entries == nil {
		entries = []config.ServerEntry{}
	}

	deps := Dependencies{
		APIAddr:       apiAddr,
		Logger:        logger,
		ServerEntries: entries,
		CallTimeout:   callTimeout,
		LoadTimeout:   loadTimeout,
	}

	if err := deps.Validate(); err != nil {
		return Dependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d Dependencies) Validate() error {
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}

	if err := validateAddr(d.APIAddr); err != nil {
		return fmt.Errorf("invalid API address '%s': %w", d.APIAddr, err)
	}

	if len(d.ServerEntries) == 0 {
		return fmt.Errorf("server configurations not found")
	}

	if d.CallTimeout <= 0 {
		return fmt.Errorf("call timeout must be positive, got %v", d.CallTimeout)
	}

	if d.LoadTimeout <= 0 {
		return fmt.Errorf("load timeout must be positive, got %v", d.LoadTimeout)
	}

	return nil
}
