package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/openshift-assist/mcpbridge/internal/bridge"
	"github.com/openshift-assist/mcpbridge/internal/cmd"
	"github.com/openshift-assist/mcpbridge/internal/cmd/output"
	"github.com/openshift-assist/mcpbridge/internal/config"
	"github.com/openshift-assist/mcpbridge/internal/flags"
)

// ToolsCmd should be used to represent the 'tools' command.
type ToolsCmd struct {
	*cmd.BaseCmd
	Format cmd.OutputFormat

	cfgLoader config.Loader
}

// NewToolsCmd creates a newly configured (Cobra) command.
func NewToolsCmd(baseCmd *cmd.BaseCmd) *cobra.Command {
	c := &ToolsCmd{
		BaseCmd:   baseCmd,
		Format:    cmd.FormatText,
		cfgLoader: &config.DefaultLoader{},
	}

	cobraCommand := &cobra.Command{
		Use:   "tools",
		Short: "Lists the tools discovered from all configured MCP servers.",
		Long: `Lists the tools discovered from all configured MCP servers.
Performs one catalog load: unreachable servers are skipped and their tools
are absent from the output.`,
		RunE: c.run,
	}

	allowedFormats := cmd.AllowedOutputFormats()
	cobraCommand.Flags().Var(
		&c.Format,
		"format",
		fmt.Sprintf("Output format, one of: %s", allowedFormats.String()),
	)

	return cobraCommand
}

// run is configured (via NewToolsCmd) to be called by the Cobra framework when the command is executed.
func (c *ToolsCmd) run(_ *cobra.Command, _ []string) error {
	logger := c.Logger()

	cfg, err := c.cfgLoader.Load(flags.ConfigFile)
	if err != nil {
		return err
	}

	entries := cfg.ServerEntries(logger)

	registry := bridge.NewSessionRegistry(logger, entries, nil)
	defer registry.EvictAll()

	loader := bridge.NewCatalogLoader(logger, registry, cfg.MCP.LoadTimeout.Std())
	catalog := loader.Load(context.Background(), entries)

	return c.handler(os.Stdout).HandleResults(catalog.Descriptors()...)
}

func (c *ToolsCmd) handler(w io.Writer) output.Handler[bridge.ToolDescriptor] {
	switch c.Format {
	case cmd.FormatJSON:
		return output.NewJSONHandler[bridge.ToolDescriptor](w, 2)
	case cmd.FormatYAML:
		return output.NewYAMLHandler[bridge.ToolDescriptor](w, 2)
	default:
		return output.NewTextHandler[bridge.ToolDescriptor](w, printToolDescriptor)
	}
}

func printToolDescriptor(w io.Writer, d bridge.ToolDescriptor) error {
	if _, err := fmt.Fprintf(w, "%s (%s/%s)\n", d.Name, d.Server, d.RemoteName); err != nil {
		return err
	}
	if d.Description != "" {
		if _, err := fmt.Fprintf(w, "  %s\n", d.Description); err != nil {
			return err
		}
	}
	for _, p := range d.Params {
		if _, err := fmt.Fprintf(w, "  - %s: %s\n", p.Name, p.Type); err != nil {
			return err
		}
	}
	return nil
}
