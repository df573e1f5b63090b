package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/openshift-assist/mcpbridge/internal/cmd"
	"github.com/openshift-assist/mcpbridge/internal/config"
	"github.com/openshift-assist/mcpbridge/internal/daemon"
	"github.com/openshift-assist/mcpbridge/internal/flags"
)

// DaemonCmd should be used to represent the 'daemon' command.
type DaemonCmd struct {
	*cmd.BaseCmd
	Addr string

	cfgLoader config.Loader
}

// NewDaemonCmd creates a newly configured (Cobra) command.
func NewDaemonCmd(baseCmd *cmd.BaseCmd) *cobra.Command {
	c := &DaemonCmd{
		BaseCmd:   baseCmd,
		cfgLoader: &config.DefaultLoader{},
	}

	cobraCommand := &cobra.Command{
		Use:   "daemon",
		Short: "Launches the mcpbridge daemon.",
		Long:  c.longDescription(),
		RunE:  c.run,
	}

	cobraCommand.Flags().StringVar(
		&c.Addr,
		"addr",
		"",
		"Address for the API server to bind to (e.g. 'localhost:8090'), overriding configuration.",
	)

	return cobraCommand
}

// longDescription returns the long version of the command description.
func (c *DaemonCmd) longDescription() string {
	return `Launches the mcpbridge daemon.
Connects to all configured remote MCP servers, discovers their tools into a
server-prefixed catalog, starts session health checking, and serves the
operational HTTP API.`
}

// run is configured (via NewDaemonCmd) to be called by the Cobra framework when the command is executed.
func (c *DaemonCmd) run(_ *cobra.Command, _ []string) error {
	logger := c.Logger()

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	if !cfg.MCP.Enabled {
		return fmt.Errorf("MCP is disabled in configuration, nothing to do")
	}

	entries := cfg.ServerEntries(logger)
	logger.Info(fmt.Sprintf("loaded config for %d MCP server(s)", len(entries)))

	addr := cfg.API.Addr
	if c.Addr != "" {
		addr = c.Addr
	}

	deps, err := daemon.NewDependencies(
		logger,
		addr,
		entries,
		cfg.MCP.CallTimeout.Std(),
		cfg.MCP.LoadTimeout.Std(),
	)
	if err != nil {
		return err
	}

	d, err := daemon.NewDaemon(deps, daemon.WithAPIOptions(
		daemon.WithCORSEnabled(cfg.API.CORSEnabled),
		daemon.WithCORSAllowOrigins(cfg.API.CORSAllowOrigins),
	))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := d.StartAndManage(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("daemon start failed: %w", err)
	}

	return nil
}
