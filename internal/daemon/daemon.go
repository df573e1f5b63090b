package daemon

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/client"

	"github.com/openshift-assist/mcpbridge/internal/bridge"
	"github.com/openshift-assist/mcpbridge/internal/config"
	"github.com/openshift-assist/mcpbridge/internal/domain"
)

// Daemon wires the session registry, tool catalog, invoker, health tracking
// and the HTTP API into one long-running process.
type Daemon struct {
	logger        hclog.Logger
	entries       []config.ServerEntry
	registry      *bridge.SessionRegistry
	catalogLoader *bridge.CatalogLoader
	invoker       *bridge.Invoker
	healthTracker *HealthTracker
	apiServer     *APIServer
	options       Options

	// catalog holds the current snapshot; reloads swap it wholesale.
	catalog atomic.Pointer[bridge.Catalog]
}

// NewDaemon creates a daemon from validated dependencies and options.
func NewDaemon(deps Dependencies, opt ...Option) (*Daemon, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for daemon: %w", err)
	}

	options, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid daemon options: %w", err)
	}

	logger := deps.Logger.Named("daemon")

	registry := bridge.NewSessionRegistry(deps.Logger, deps.ServerEntries, nil)
	catalogLoader := bridge.NewCatalogLoader(deps.Logger, registry, deps.LoadTimeout)
	invoker := bridge.NewInvoker(deps.Logger, registry, deps.CallTimeout)
	healthTracker := NewHealthTracker(registry.Names())

	d := &Daemon{
		logger:        logger,
		entries:       deps.ServerEntries,
		registry:      registry,
		catalogLoader: catalogLoader,
		invoker:       invoker,
		healthTracker: healthTracker,
		options:       options,
	}
	d.catalog.Store(bridge.NewCatalog(nil))

	apiDeps, err := NewAPIDependencies(
		deps.Logger,
		registry,
		d.Catalog,
		invoker,
		healthTracker,
		deps.APIAddr,
	)
	if err != nil {
		return nil, err
	}

	apiServer, err := NewAPIServer(apiDeps, options.APIOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create daemon API server: %w", err)
	}
	d.apiServer = apiServer

	return d, nil
}

// Catalog returns the current tool catalog snapshot.
func (d *Daemon) Catalog() *bridge.Catalog {
	return d.catalog.Load()
}

// Registry returns the daemon's session registry.
func (d *Daemon) Registry() *bridge.SessionRegistry {
	return d.registry
}

// Invoker returns the daemon's tool invoker.
func (d *Daemon) Invoker() *bridge.Invoker {
	return d.invoker
}

// ReloadCatalog performs tool discovery across all configured servers and
// swaps in the fresh catalog. Unreachable servers are skipped; their tools
// are simply absent for this load cycle.
func (d *Daemon) ReloadCatalog(ctx context.Context) *bridge.Catalog {
	catalog := d.catalogLoader.Load(ctx, d.entries)
	d.catalog.Store(catalog)
	return catalog
}

// StartAndManage loads the catalog, starts health checking and the API
// server, and blocks until the context is canceled. All sessions are evicted
// on the way out.
func (d *Daemon) StartAndManage(ctx context.Context) error {
	defer func() {
		d.logger.Info("Shutting down, evicting all sessions")
		d.registry.EvictAll()
	}()

	catalog := d.ReloadCatalog(ctx)
	d.logger.Info("Daemon ready", "servers", len(d.entries), "tools", catalog.Len())

	go d.healthCheckLoop(ctx, d.options.HealthCheckInterval, d.options.HealthCheckTimeout)

	return d.apiServer.Start(ctx)
}

// healthCheckLoop periodically probes cached sessions. Servers without a
// cached session are reported unknown rather than dialed: health checking
// must never create connections on its own.
func (d *Daemon) healthCheckLoop(ctx context.Context, interval time.Duration, timeout time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	d.pingAllServers(ctx, timeout)

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Stopping MCP server health checks")
			return
		case <-ticker.C:
			d.pingAllServers(ctx, timeout)
		}
	}
}

func (d *Daemon) pingAllServers(ctx context.Context, timeout time.Duration) {
	for _, name := range d.registry.Names() {
		session, ok := d.registry.Peek(name)
		if !ok {
			_ = d.healthTracker.Update(name, domain.HealthStatusUnknown, nil)
			continue
		}

		go func(name string, session client.MCPClient) {
			pingCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			start := time.Now()
			if err := session.Ping(pingCtx); err != nil {
				status := domain.HealthStatusUnreachable
				if pingCtx.Err() != nil {
					status = domain.HealthStatusTimeout
				}
				d.logger.Error("Error pinging MCP server", "server", name, "error", err)
				_ = d.healthTracker.Update(name, status, nil)
				return
			}

			latency := time.Since(start)
			_ = d.healthTracker.Update(name, domain.HealthStatusOK, &latency)
			d.logger.Debug("Ping successful", "server", name, "latency", latency)
		}(name, session)
	}
}
