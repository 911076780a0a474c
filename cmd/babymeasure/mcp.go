// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/antarcticrainforest/babymeasure/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP lets AI assistants read and record measurements through a
standardized protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "babymeasure": {
        "command": "babymeasure",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  add_measurement      Record a measurement
  list_measurements    List recent measurements
  delete_measurement   Delete a measurement by ID
  get_latest           Most recent value for each metric
  daily_totals         Per-day totals for a metric

AVAILABLE RESOURCES:

  babymeasure://recent    Recent measurements
  babymeasure://today     Today's measurements
  babymeasure://summary   Latest value per metric`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(store, cfg.GetSubject())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
