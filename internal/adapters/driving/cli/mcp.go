package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/adapters/driving/mcp"
	"github.com/custodia-labs/docqa/internal/logger"
)

// mcpHTTPAddr is the HTTP listen address; empty means stdio.
var mcpHTTPAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --http to serve over streamable HTTP instead, which enables testing
with the MCP Inspector web UI and remote access.

Examples:
  # Stdio mode (default, for Claude Desktop)
  docqa mcp

  # HTTP mode (for MCP Inspector, remote access)
  docqa mcp --http :8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "docqa": {
        "command": "/path/to/docqa",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpHTTPAddr, "http", "", "HTTP listen address (empty = stdio)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	ports := mcp.Ports{
		Ingest:    ingestService,
		Retrieval: retrievalService,
		Answer:    answerService,
	}

	server, err := mcp.NewServer(ports, version)
	if err != nil {
		return err
	}

	// The server is long-running, so background source refreshes run
	// alongside it.
	stopScheduler := startScheduler(cmd.Context())
	defer stopScheduler()

	if mcpHTTPAddr != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on %s\n", mcpHTTPAddr)
		return server.RunHTTP(cmd.Context(), mcpHTTPAddr)
	}

	return server.Run(cmd.Context())
}

// startScheduler launches the background scheduler when one is wired and
// enabled. The returned stop function is safe to call unconditionally.
func startScheduler(parent context.Context) func() {
	if schedulerService == nil || !schedulerConfig.Enabled {
		return func() {}
	}

	ctx, cancel := context.WithCancel(parent)
	go func() {
		if err := schedulerService.Start(ctx); err != nil {
			// Scheduler errors must not take the server down.
			logger.Warn("scheduler stopped: %v", err)
		}
	}()

	return func() {
		cancel()
		if err := schedulerService.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "scheduler stop error: %v\n", err)
		}
	}
}
