package cmd

import (
	"github.com/huangsam/fdr/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the FDR MCP server",
	Long:  `Launch an MCP server over stdio that lets AI agents query fixture difficulty, schedules and tiers.`,
	Args:  cobra.NoArgs,
	// Tool handlers suppress calculation headers so stdio carries only the protocol
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
