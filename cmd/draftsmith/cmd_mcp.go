package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"draftsmith/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the generate_text tool over MCP stdio",
	Long: `Starts an MCP server on stdin/stdout exposing one tool, generate_text.
Logs go to stderr so they never mix with protocol traffic.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		orch, err := buildOrchestrator(ctx)
		if err != nil {
			return err
		}
		return mcp.NewServer(orch, cfg.Version).Run(ctx)
	},
}
