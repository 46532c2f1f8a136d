package cmd

import (
	"github.com/huangsam/repoviz/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the repoviz MCP server",
	Long:  `Launch an MCP server on stdio that lets agents analyze repository directories and read the legend via standard tools.`,
	Args:  cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Emojis stay off so only protocol traffic reaches stdout
		if err := sharedSetup(rootCtx, cmd, args); err != nil {
			return err
		}
		cfg.UseEmojis = false
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(cmd.Context(), cfg, accessProvider, historyManager)
	},
}
