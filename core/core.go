// Package core has core logic for radar profiles, statistics and chart decks.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/huangsam/statdeck/internal/contract"
	"github.com/huangsam/statdeck/internal/loader"
	"github.com/huangsam/statdeck/internal/outwriter"
	"github.com/huangsam/statdeck/internal/render"
	"github.com/huangsam/statdeck/schema"
)

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteRadar builds the radar profiles of the selected entities and prints them.
// It serves as the main entry point for the 'radar' command.
func ExecuteRadar(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	result, duration, err := GetRadarResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	warnRadar(result)

	if cfg.ChartFile != "" {
		if err := renderRadarChart(ctx, cfg, result); err != nil {
			return err
		}
	}
	return outwriter.NewOutWriter().WriteProfiles(result, cfg, duration)
}

// GetRadarResults builds the radar profiles of the selected entities without printing them.
// Empty entity and metric selections fall back to the defaults of the table.
func GetRadarResults(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.RadarResult, time.Duration, error) {
	start := time.Now()
	table, err := loadMetricTable(cfg)
	if err != nil {
		return schema.RadarResult{}, 0, err
	}

	entities := cfg.Entities
	if len(entities) == 0 {
		entities = defaultEntities(cfg, table)
	}
	metrics := cfg.Metrics
	if len(metrics) == 0 {
		metrics = table.Metrics()
	}

	tracker := beginRun(mgr, "radar", map[string]any{
		"entities":   strings.Join(entities, ","),
		"metrics":    strings.Join(metrics, ","),
		"degenerate": string(cfg.Degenerate),
		"input":      cfg.InputFile,
	})

	result, err := BuildProfiles(table, entities, metrics, RadarOptions{
		Palette:       cfg.Theme.ResolvePalette(DefaultSeasonPalette()),
		FallbackColor: cfg.Theme.FallbackColor,
		Policy:        cfg.Degenerate,
	})
	if err != nil {
		tracker.end(0)
		return result, 0, err
	}

	tracker.recordProfiles(result)
	tracker.end(result.VertexCount())
	return result, time.Since(start), nil
}

// ExecuteClimate renders the climate deck for the configured layout.
// It serves as the main entry point for the 'climate' command.
func ExecuteClimate(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	records := ClimateRecords()
	palette := cfg.Theme.ResolvePalette(DefaultSeasonPalette())

	tracker := beginRun(mgr, "climate", map[string]any{
		"layout": string(cfg.Layout),
		"format": string(cfg.Format),
		"out":    cfg.Out,
	})

	radar, err := BuildProfiles(ClimateTable(), DefaultRadarEntities, schema.ClimateMetrics, RadarOptions{
		Palette:       palette,
		FallbackColor: cfg.Theme.FallbackColor,
		Policy:        schema.DegenerateFlag,
	})
	if err != nil {
		tracker.end(0)
		return err
	}
	charts, err := ClimateChartSet(records, radar, palette)
	if err != nil {
		tracker.end(0)
		return err
	}
	decks, err := ClimateDecks(cfg.Layout, charts)
	if err != nil {
		tracker.end(0)
		return err
	}
	if _, err := renderDecks(ctx, cfg, decks); err != nil {
		tracker.end(0)
		return err
	}

	tracker.recordProfiles(radar)
	tracker.end(len(records))
	return nil
}

// ExecuteSurveyOverview renders the distribution overview of a survey file.
func ExecuteSurveyOverview(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executeSurveyDeck(ctx, cfg, mgr, schema.OverviewDeck)
}

// ExecuteSurveyRelations renders the pairwise relations of a survey file.
func ExecuteSurveyRelations(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executeSurveyDeck(ctx, cfg, mgr, schema.RelationsDeck)
}

// ExecuteSurveyClean prints the cleaned records of a survey file.
func ExecuteSurveyClean(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	tracker := beginRun(mgr, "survey clean", map[string]any{"survey": cfg.SurveyFile})

	records, report, err := loadSurvey(cfg, mgr)
	if err != nil {
		tracker.end(0)
		return err
	}

	tracker.end(len(records))
	return outwriter.NewOutWriter().WriteRecords(records, report, cfg, time.Since(start))
}

// ExecuteStats describes every metric of the table and prints the correlation matrix.
// It serves as the main entry point for the 'stats' command.
func ExecuteStats(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	summaries, corr, duration, err := GetStatsResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSummaries(summaries, corr, cfg, duration)
}

// GetStatsResults describes every metric of the table and computes its correlation matrix.
func GetStatsResults(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.Summary, schema.CorrelationMatrix, time.Duration, error) {
	start := time.Now()
	table, err := loadMetricTable(cfg)
	if err != nil {
		return nil, schema.CorrelationMatrix{}, 0, err
	}
	tracker := beginRun(mgr, "stats", map[string]any{"input": cfg.InputFile})

	summaries := DescribeTable(table)
	corr, err := CorrelationMatrix(table)
	if err != nil {
		tracker.end(0)
		return nil, schema.CorrelationMatrix{}, 0, err
	}

	tracker.end(table.Len())
	return summaries, corr, time.Since(start), nil
}

// executeSurveyDeck loads a survey file and renders one of its decks.
func executeSurveyDeck(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, kind schema.SurveyDeck) error {
	tracker := beginRun(mgr, "survey "+string(kind), map[string]any{
		"survey": cfg.SurveyFile,
		"format": string(cfg.Format),
		"out":    cfg.Out,
	})

	records, _, err := loadSurvey(cfg, mgr)
	if err != nil {
		tracker.end(0)
		return err
	}
	deck, err := SurveyDecks(kind, records)
	if err != nil {
		tracker.end(0)
		return err
	}
	deck.Name = "survey-" + string(kind)
	if _, err := renderDecks(ctx, cfg, []schema.Deck{deck}); err != nil {
		tracker.end(0)
		return err
	}

	tracker.end(len(records))
	return nil
}

// loadMetricTable reads the configured metric-table CSV, or the embedded climate table.
func loadMetricTable(cfg *contract.Config) (*schema.MetricTable, error) {
	if cfg.InputFile == "" {
		return ClimateTable(), nil
	}
	return loader.LoadMetricTable(cfg.InputFile)
}

// defaultEntities selects the seasonal months of the climate table, or every row of a custom table.
func defaultEntities(cfg *contract.Config, table *schema.MetricTable) []string {
	if cfg.InputFile == "" {
		return DefaultRadarEntities
	}
	return table.Entities()
}

// loadSurvey reads the configured survey file through the dataset cache and warns about malformed fields.
func loadSurvey(cfg *contract.Config, mgr contract.CacheManager) ([]schema.FreelancerRecord, schema.SurveyLoadReport, error) {
	if cfg.SurveyFile == "" {
		return nil, schema.SurveyLoadReport{}, errors.New("a survey file is required")
	}
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetDatasetStore()
	}
	records, report, err := loader.LoadSurvey(cfg.SurveyFile, store)
	if err != nil {
		return nil, report, err
	}
	for _, w := range loader.MalformedWarnings(report) {
		contract.LogWarn("Malformed survey fields", w)
	}
	return records, report, nil
}

// warnRadar reports degenerate metrics and unmatched labels of a radar result.
func warnRadar(result schema.RadarResult) {
	if len(result.DegenerateMetrics) > 0 {
		contract.LogWarn("Degenerate radar metrics",
			fmt.Errorf("%s have zero range across the selected rows", strings.Join(result.DegenerateMetrics, ", ")))
	}
	if len(result.Unmatched) > 0 {
		contract.LogWarn("Unmatched radar labels",
			fmt.Errorf("no rows for %s", strings.Join(result.Unmatched, ", ")))
	}
}

// RadarDeck wraps a radar result into a single-panel deck.
func RadarDeck(name string, result schema.RadarResult) schema.Deck {
	chart := radarChart("雷达图", result)
	return schema.Deck{
		Name:   name,
		Title:  chart.Title,
		Rows:   1,
		Cols:   1,
		Panels: []schema.Panel{panel(0, 0, 1, 1, chart)},
	}
}

// renderRadarChart draws the radar result into cfg.ChartFile, picking the format from its extension.
func renderRadarChart(ctx context.Context, cfg *contract.Config, result schema.RadarResult) error {
	format, err := contract.FormatFromPath(cfg.ChartFile)
	if err != nil {
		return err
	}
	chartCfg := *cfg
	chartCfg.Format = format
	chartCfg.Out = cfg.ChartFile
	_, err = renderDecks(ctx, &chartCfg, []schema.Deck{RadarDeck("radar", result)})
	return err
}

// renderDecks renders every deck with the configured format and returns the written paths.
// Several decks share cfg.Out as a file prefix.
func renderDecks(ctx context.Context, cfg *contract.Config, decks []schema.Deck) ([]string, error) {
	r, err := render.New(cfg.Format)
	if err != nil {
		return nil, err
	}
	multi := len(decks) > 1
	paths := make([]string, 0, len(decks))
	for _, deck := range decks {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		path := render.DeckPath(cfg.Out, deck, r.Extension(), multi)
		if err := render.RenderFile(r, deck, cfg.Theme, path); err != nil {
			return paths, err
		}
		fmt.Fprintf(os.Stderr, "💾 Rendered %s to %s\n", deck.Name, path)
		paths = append(paths, path)
	}
	return paths, nil
}
