package cmd

import (
	"github.com/huangsam/statdeck/core"
	"github.com/huangsam/statdeck/internal/contract"
	"github.com/spf13/cobra"
)

// statsCmd describes the metrics of a table.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Describe every metric and print the correlation matrix.",
	Long: `Print count, mean, standard deviation and quartiles of every metric,
followed by the Pearson correlation matrix.

Examples:
  # Built-in climate table
  statdeck stats

  # Custom metric table as JSON
  statdeck stats --input teams.csv --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStats(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot describe metrics", err)
		}
	},
}
