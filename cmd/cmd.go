// Package cmd defines the command-line interface for statdeck.
package cmd

import (
	"github.com/huangsam/statdeck/internal/contract"
	"github.com/huangsam/statdeck/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(radarCmd)
	rootCmd.AddCommand(climateCmd)
	rootCmd.AddCommand(surveyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the survey subcommands to the parent survey command
	surveyCmd.AddCommand(surveyOverviewCmd)
	surveyCmd.AddCommand(surveyRelationsCmd)
	surveyCmd.AddCommand(surveyCleanCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Dataset cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("input", "", "Metric-table CSV with an entity,group,<metric...> header (defaults to the built-in climate table)")
	rootCmd.PersistentFlags().String("format", string(schema.PNGFormat), "Chart format: png or svg or html")
	rootCmd.PersistentFlags().String("out", "", "Chart output file, or file prefix when several decks are written")
	rootCmd.PersistentFlags().String("font-file", "", "TTF/OTF font with CJK glyphs used for chart text")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of radarCmd to Viper
	radarCmd.Flags().String("entities", "", "Comma-separated entity labels to profile (defaults to 3月,6月,9月,12月)")
	radarCmd.Flags().String("metrics", "", "Comma-separated metrics forming the radar axes (defaults to every metric)")
	radarCmd.Flags().String("degenerate", string(schema.DegenerateFlag), "Zero-range metric policy: flag or error or zero")
	radarCmd.Flags().String("chart", "", "Optional radar chart file (.png, .svg or .html)")
	if err := viper.BindPFlags(radarCmd.Flags()); err != nil {
		contract.LogFatal("Error binding radar flags", err)
	}

	// Bind all flags of climateCmd to Viper
	climateCmd.Flags().String("layout", string(schema.DashboardLayout), "Deck layout: dashboard or grid or gallery")
	if err := viper.BindPFlags(climateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding climate flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
