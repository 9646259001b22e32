package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	labmcp "github.com/ajitpratap0/prototype-lab/internal/mcp"
)

func mcpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP (Model Context Protocol) server over stdio",
		Long: `Starts an MCP JSON-RPC 2.0 server that reads from stdin and writes to stdout.
All diagnostic logs go to stderr so that stdout remains exclusively MCP protocol traffic.

Tools exposed:
  list_players   render the roster (index 0 is the original)
  clone_player   clone a player, or the original
  mass_clone     clone the original several times
  clear_clones   remove every clone
  apply_action   damage, heal, experience or level_up one player
  remove_player  remove a clone
  rename_player  rename a player

The roster lives in memory for the lifetime of the server.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger()
			srv := labmcp.NewServer(newLab(logger), cfg.Clone.MassCount, logger)

			// Use a standard log.Logger pointing at stderr for the mcp-go error logger.
			errLogger := log.New(os.Stderr, "mcp: ", log.LstdFlags)

			logger.Info("mcp: prototype-lab MCP server starting", "transport", "stdio")

			return mcpserver.ServeStdio(
				srv.MCPServer(),
				mcpserver.WithErrorLogger(errLogger),
			)
		},
	}

	return cmd
}
