package cmd

import (
	"github.com/huangsam/statdeck/core"
	"github.com/huangsam/statdeck/internal/contract"
	"github.com/spf13/cobra"
)

// surveyCmd groups the freelancer survey commands.
var surveyCmd = &cobra.Command{
	Use:   "survey",
	Short: "Clean and chart a freelancer survey file",
	Long: `Load a freelancer survey CSV, clean its fields and chart the result.

Cleaning normalizes gender to Female/Male, strips currency text from hourly
rates, maps is_active to 1/0 and removes percent signs from satisfaction.
Values that fail to clean become missing and are counted per column.

Parsed files are cached by path, size and modification time in the dataset
cache, so repeated runs skip the CSV parse.

Subcommands:
  overview  - 3x3 deck of distributions and counts
  relations - 2x2 deck of pairwise scatter plots
  clean     - print the cleaned records`,
}

// surveyOverviewCmd renders the survey overview deck.
var surveyOverviewCmd = &cobra.Command{
	Use:   "overview <file>",
	Short: "Render the distribution overview of a survey",
	Long: `Render gender, country, skill, age, experience, rate, satisfaction,
rating and activity charts of a survey file.

Examples:
  statdeck survey overview freelancers.csv --out overview.png
  statdeck survey overview freelancers.csv --format html --out overview.html`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSurveyOverview(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Failed to load survey", err)
		}
	},
}

// surveyRelationsCmd renders the survey relations deck.
var surveyRelationsCmd = &cobra.Command{
	Use:   "relations <file>",
	Short: "Render the pairwise relations of a survey",
	Long: `Render hourly rate, rating and satisfaction against experience and
each other. Records missing either value of a pair are left out of that plot.

Examples:
  statdeck survey relations freelancers.csv --format svg --out relations.svg`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSurveyRelations(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Failed to load survey", err)
		}
	},
}

// surveyCleanCmd prints the cleaned survey records.
var surveyCleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Print the cleaned records of a survey",
	Long: `Print every survey record after cleaning, with missing values shown as "-".

Examples:
  statdeck survey clean freelancers.csv
  statdeck survey clean freelancers.csv --output csv --output-file clean.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSurveyClean(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Failed to load survey", err)
		}
	},
}
