package cmd

import (
	"github.com/huangsam/statdeck/core"
	"github.com/huangsam/statdeck/internal/contract"
	"github.com/spf13/cobra"
)

// radarCmd builds categorical radar profiles.
var radarCmd = &cobra.Command{
	Use:   "radar",
	Short: "Build normalized radar profiles for selected entities.",
	Long: `Build one closed radar polygon per selected entity.

Each metric is min-max scaled to [0,1] over the selected rows only, and every
polygon shares the same evenly spaced angles, repeating the first vertex to close
the ring. Labels without a matching row are reported and skipped.

A metric whose values are identical across the selection has no range. By default
its radii stay undefined and the metric is flagged; use --degenerate to fail
instead or to clamp such radii to zero.

Examples:
  # Seasonal profile of the built-in climate table
  statdeck radar

  # Pick months and axes explicitly
  statdeck radar --entities 1月,7月 --metrics high_temp,precipitation

  # Profile a custom table and save the chart next to the output
  statdeck radar --input teams.csv --chart teams.svg

  # Export the vertices for further analysis
  statdeck radar --output parquet --output-file radar.parquet`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRadar(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build radar profiles", err)
		}
	},
}
