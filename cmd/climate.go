package cmd

import (
	"github.com/huangsam/statdeck/core"
	"github.com/huangsam/statdeck/internal/contract"
	"github.com/spf13/cobra"
)

// climateCmd renders the annual climate deck.
var climateCmd = &cobra.Command{
	Use:   "climate",
	Short: "Render the annual climate chart deck.",
	Long: `Render eleven charts of the built-in twelve-month climate table.

Layouts:
  dashboard - 4x4 grid with wide heatmap, pie and radar panels (default)
  grid      - 3x3 grid of the first nine charts
  gallery   - one file per chart, using --out as a file prefix

Chart text uses Chinese labels. Pass --font-file with a CJK font for image
formats; HTML output relies on the browser fonts.

Examples:
  # Dashboard as PNG
  statdeck climate --out climate.png

  # Interactive page
  statdeck climate --format html --out climate.html

  # One SVG per chart
  statdeck climate --layout gallery --format svg --out charts/climate`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteClimate(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot render climate deck", err)
		}
	},
}
