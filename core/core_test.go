package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/statdeck/internal/contract"
	"github.com/huangsam/statdeck/internal/iocache"
	"github.com/huangsam/statdeck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const coreSurveyCSV = `gender,age,country,primary_skill,years_of_experience,hourly_rate (USD),rating,is_active,client_satisfaction
female,34,Brazil,Design,8,$45.50,4.7,Y,88%
M,thirty,India,Web Development,5,USD 30,4.1,0,72
f,28,India,Design,3,25,3.9,1,64%
male,41,Peru,Data Science,15,$80,4.9,N,95
`

// newTestConfig returns a config with default theme and render settings writing into a temp dir.
func newTestConfig(t *testing.T) *contract.Config {
	t.Helper()
	return &contract.Config{
		Precision:  2,
		Output:     schema.JSONOut,
		OutputFile: filepath.Join(t.TempDir(), "out.json"),
		Degenerate: schema.DegenerateFlag,
		Layout:     schema.DashboardLayout,
		Format:     schema.SVGFormat,
		Theme:      contract.DefaultTheme(),
	}
}

// newNoopManager returns a cache manager without dataset or history stores.
func newNoopManager() *iocache.MockCacheManager {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetDatasetStore").Return(nil).Maybe()
	mgr.On("GetHistoryStore").Return(nil).Maybe()
	return mgr
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(content, v))
}

// TestExecuteRadar tests the default climate radar profiles.
func TestExecuteRadar(t *testing.T) {
	cfg := newTestConfig(t)
	require.NoError(t, ExecuteRadar(context.Background(), cfg, newNoopManager()))

	var got struct {
		Metrics  []string `json:"metrics"`
		Polygons []struct {
			Entity string     `json:"entity"`
			Group  string     `json:"group"`
			Radii  []*float64 `json:"radii"`
		} `json:"polygons"`
	}
	readJSON(t, cfg.OutputFile, &got)

	assert.Equal(t, schema.ClimateMetrics, got.Metrics)
	require.Len(t, got.Polygons, 4)
	assert.Equal(t, "12月", got.Polygons[3].Entity)
	assert.Equal(t, SeasonWinter, got.Polygons[3].Group)
	require.NotNil(t, got.Polygons[3].Radii[1])
	assert.Equal(t, 0.0, *got.Polygons[3].Radii[1], "December has the lowest low temperature")
}

// TestExecuteRadarTracksHistory tests that a run records its profiles and vertex count.
func TestExecuteRadarTracksHistory(t *testing.T) {
	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", "radar", mock.Anything, mock.Anything).Return(int64(7), nil)
	history.On("RecordProfiles", int64(7), mock.Anything).Return(nil)
	history.On("EndRun", int64(7), mock.Anything, 16).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetHistoryStore").Return(history)

	require.NoError(t, ExecuteRadar(context.Background(), newTestConfig(t), mgr))
	history.AssertExpectations(t)
	mgr.AssertExpectations(t)
}

// TestExecuteRadarTrackingFailure tests that a history failure does not abort the command.
func TestExecuteRadarTrackingFailure(t *testing.T) {
	history := &iocache.MockHistoryStore{}
	history.On("BeginRun", "radar", mock.Anything, mock.Anything).Return(int64(0), assert.AnError)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetHistoryStore").Return(history)

	require.NoError(t, ExecuteRadar(context.Background(), newTestConfig(t), mgr))
	history.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything, mock.Anything)
}

// TestFailedRunsAreFinalized tests that a tracked run ends with zero rows when the command fails.
func TestFailedRunsAreFinalized(t *testing.T) {
	t.Run("degenerate radar", func(t *testing.T) {
		history := &iocache.MockHistoryStore{}
		history.On("BeginRun", "radar", mock.Anything, mock.Anything).Return(int64(3), nil)
		history.On("EndRun", int64(3), mock.Anything, 0).Return(nil)
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetHistoryStore").Return(history)

		cfg := newTestConfig(t)
		cfg.Entities = []string{"6月"}
		cfg.Degenerate = schema.DegenerateError
		require.ErrorIs(t, ExecuteRadar(context.Background(), cfg, mgr), ErrDegenerateMetric)
		history.AssertExpectations(t)
		history.AssertNotCalled(t, "RecordProfiles", mock.Anything, mock.Anything)
	})

	t.Run("missing survey", func(t *testing.T) {
		history := &iocache.MockHistoryStore{}
		history.On("BeginRun", "survey clean", mock.Anything, mock.Anything).Return(int64(4), nil)
		history.On("EndRun", int64(4), mock.Anything, 0).Return(nil)
		mgr := &iocache.MockCacheManager{}
		mgr.On("GetHistoryStore").Return(history)
		mgr.On("GetDatasetStore").Return(nil).Maybe()

		cfg := newTestConfig(t)
		cfg.SurveyFile = filepath.Join(t.TempDir(), "missing.csv")
		require.ErrorIs(t, ExecuteSurveyClean(context.Background(), cfg, mgr), fs.ErrNotExist)
		history.AssertExpectations(t)
	})
}

func TestExecuteRadarErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *contract.Config)
		wantErr error
	}{
		{"unknown metric", func(cfg *contract.Config) { cfg.Metrics = []string{"humidity"} }, ErrUnknownMetric},
		{"degenerate policy error", func(cfg *contract.Config) {
			cfg.Entities = []string{"6月"}
			cfg.Degenerate = schema.DegenerateError
		}, ErrDegenerateMetric},
		{"missing input file", func(cfg *contract.Config) { cfg.InputFile = "/nonexistent/metrics.csv" }, fs.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newTestConfig(t)
			tt.mutate(cfg)
			err := ExecuteRadar(context.Background(), cfg, newNoopManager())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// TestExecuteRadarCustomTable tests that a custom table selects all of its rows by default.
func TestExecuteRadarCustomTable(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "teams.csv")
	require.NoError(t, os.WriteFile(input, []byte("entity,group,speed,power\nA,x,1,4\nB,y,3,2\nC,x,2,3\n"), 0o644))

	cfg := newTestConfig(t)
	cfg.InputFile = input
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(dir, "out.csv")
	require.NoError(t, ExecuteRadar(context.Background(), cfg, newNoopManager()))

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1+3*3, "header plus three vertices per polygon")
	assert.Equal(t, contract.DefaultFallback, records[1][2], "unknown groups use the fallback color")
}

// TestExecuteRadarWithChart tests the optional chart next to the profile output.
func TestExecuteRadarWithChart(t *testing.T) {
	tests := []struct {
		file   string
		prefix string
	}{
		{"radar.svg", "<?xml"},
		{"radar.html", "<!DOCTYPE html>"},
	}
	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			cfg := newTestConfig(t)
			cfg.ChartFile = filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, ExecuteRadar(context.Background(), cfg, newNoopManager()))

			content, err := os.ReadFile(cfg.ChartFile)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(content, []byte(tt.prefix)))
		})
	}

	cfg := newTestConfig(t)
	cfg.ChartFile = filepath.Join(t.TempDir(), "radar.gif")
	assert.Error(t, ExecuteRadar(context.Background(), cfg, newNoopManager()))
}

func TestExecuteClimate(t *testing.T) {
	tests := []struct {
		layout schema.Layout
		files  int
	}{
		{schema.DashboardLayout, 1},
		{schema.GridLayout, 1},
		{schema.GalleryLayout, len(schema.ClimateChartKinds)},
	}
	for _, tt := range tests {
		t.Run(string(tt.layout), func(t *testing.T) {
			dir := t.TempDir()
			cfg := newTestConfig(t)
			cfg.Layout = tt.layout
			cfg.Out = filepath.Join(dir, "climate")
			require.NoError(t, ExecuteClimate(context.Background(), cfg, newNoopManager()))

			matches, err := filepath.Glob(filepath.Join(dir, "climate*.svg"))
			require.NoError(t, err)
			assert.Len(t, matches, tt.files)
		})
	}
}

func TestExecuteClimateCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := newTestConfig(t)
	cfg.Out = filepath.Join(t.TempDir(), "climate")
	err := ExecuteClimate(ctx, cfg, newNoopManager())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecuteSurvey(t *testing.T) {
	dir := t.TempDir()
	survey := filepath.Join(dir, "freelancers.csv")
	require.NoError(t, os.WriteFile(survey, []byte(coreSurveyCSV), 0o644))

	t.Run("clean", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.SurveyFile = survey
		require.NoError(t, ExecuteSurveyClean(context.Background(), cfg, newNoopManager()))

		var got []schema.FreelancerRecord
		readJSON(t, cfg.OutputFile, &got)
		require.Len(t, got, 4)
		assert.Equal(t, "Male", got[1].Gender)
		assert.Nil(t, got[1].Age, "malformed age is missing")
	})

	executors := map[string]ExecutorFunc{
		"overview":  ExecuteSurveyOverview,
		"relations": ExecuteSurveyRelations,
	}
	for name, execute := range executors {
		t.Run(name, func(t *testing.T) {
			cfg := newTestConfig(t)
			cfg.SurveyFile = survey
			cfg.Format = schema.HTMLFormat
			cfg.Out = filepath.Join(dir, name+".html")
			require.NoError(t, execute(context.Background(), cfg, newNoopManager()))

			info, err := os.Stat(cfg.Out)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}

	t.Run("missing file", func(t *testing.T) {
		cfg := newTestConfig(t)
		cfg.SurveyFile = filepath.Join(dir, "missing.csv")
		err := ExecuteSurveyClean(context.Background(), cfg, newNoopManager())
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("no file", func(t *testing.T) {
		assert.Error(t, ExecuteSurveyOverview(context.Background(), newTestConfig(t), newNoopManager()))
	})
}

func TestExecuteStats(t *testing.T) {
	cfg := newTestConfig(t)
	require.NoError(t, ExecuteStats(context.Background(), cfg, newNoopManager()))

	var got struct {
		Summaries []struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		} `json:"summaries"`
		Correlation struct {
			Names []string `json:"names"`
		} `json:"correlation"`
	}
	readJSON(t, cfg.OutputFile, &got)
	require.Len(t, got.Summaries, 3)
	assert.Equal(t, 12, got.Summaries[0].Count)
	assert.Equal(t, schema.ClimateMetrics, got.Correlation.Names)
}

func TestRadarDeck(t *testing.T) {
	result := schema.RadarResult{Metrics: []string{schema.MetricHighTemp, "speed"}}
	deck := RadarDeck("radar", result)

	require.Len(t, deck.Panels, 1)
	chart := deck.Panels[0].Chart
	assert.Equal(t, schema.RadarChart, chart.Kind)
	assert.Equal(t, []string{MetricDisplayNames[schema.MetricHighTemp], "speed"}, chart.Categories)
	assert.Equal(t, 1, deck.Rows*deck.Cols)
}
