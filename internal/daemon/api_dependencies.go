package daemon

import (
	"fmt"
	"reflect"

	"github.com/hashicorp/go-hclog"

	"github.com/openshift-assist/mcpbridge/internal/api"
	"github.com/openshift-assist/mcpbridge/internal/contracts"
)

// APIDependencies contains the required external dependencies for the API server.
// NewAPIDependencies should be used to create instances of APIDependencies.
type APIDependencies struct {
	// Addr specifies the network address to bind (e.g., "0.0.0.0:8090").
	Addr string

	// Sessions provides access to live MCP sessions.
	Sessions contracts.MCPSessionAccessor

	// Catalog returns the current tool catalog snapshot.
	Catalog api.CatalogProvider

	// Invoker executes tool calls with the caller-safe string contract.
	Invoker api.ToolInvoker

	// HealthTracker monitors server health status.
	HealthTracker contracts.MCPHealthMonitor

	// Logger for API server operations.
	Logger hclog.Logger
}

// NewAPIDependencies creates and validates APIDependencies.
func NewAPIDependencies(
	logger hclog.Logger,
	sessions contracts.MCPSessionAccessor,
	catalog api.CatalogProvider,
	invoker api.ToolInvoker,
	healthTracker contracts.MCPHealthMonitor,
	addr string,
) (APIDependencies, error) {
	deps := APIDependencies{
		Addr:          addr,
		Sessions:      sessions,
		Catalog:       catalog,
		Invoker:       invoker,
		HealthTracker: healthTracker,
		Logger:        logger,
	}

	if err := deps.Validate(); err != nil {
		return APIDependencies{}, err
	}

	return deps, nil
}

// Validate ensures all required dependencies are provided and valid.
func (d APIDependencies) Validate() error {
	if err := validateAddr(d.Addr); err != nil {
		return fmt.Errorf("invalid API address '%s': %w", d.Addr, err)
	}
	if d.Sessions == nil || reflect.ValueOf(d.Sessions).IsNil() {
		return fmt.Errorf("session accessor cannot be nil")
	}
	if d.Catalog == nil {
		return fmt.Errorf("catalog provider cannot be nil")
	}
	if d.Invoker == nil || reflect.ValueOf(d.Invoker).IsNil() {
		return fmt.Errorf("invoker cannot be nil")
	}
	if d.HealthTracker == nil || reflect.ValueOf(d.HealthTracker).IsNil() {
		return fmt.Errorf("health tracker cannot be nil")
	}
	if d.Logger == nil || reflect.ValueOf(d.Logger).IsNil() {
		return fmt.Errorf("logger cannot be nil")
	}
	return nil
}
