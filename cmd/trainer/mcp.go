// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/harperreed/trainer/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP lets AI assistants read and record trainer data through a standardized
protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "trainer": {
        "command": "trainer",
        "args": ["mcp"]
      }
    }
  }

  On macOS, the config is at:
    ~/Library/Application Support/Claude/claude_desktop_config.json

AVAILABLE TOOLS:

  compute_composition  Estimate body fat from skinfolds (nothing stored)
  add_client           Register a client
  list_clients         List clients
  add_assessment       Record an assessment and its progress entries
  list_assessments     List assessments, newest first
  list_plans           List workout plans
  get_plan             Get a plan with all items
  list_sessions        List completed sessions
  get_session          Get a session with per-item detail
  add_progress         Record a measurement
  get_latest           Latest value per measurement type

AVAILABLE RESOURCES:

  trainer://clients           Clients with latest weight and body fat
  trainer://sessions/recent   Recent sessions
  trainer://plans             Plans with item names`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(repo)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
