package cmd

import (
	"github.com/huangsam/statdeck/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the statdeck MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents build radar profiles
and describe the climate table through standard tools.

Tools:
  build_radar_profiles - normalized radar polygons for selected months and metrics
  describe_climate     - summary statistics of every climate metric
  climate_correlation  - Pearson correlation matrix of the climate metrics`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Stdio carries the protocol, so setup must not print to stdout.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
