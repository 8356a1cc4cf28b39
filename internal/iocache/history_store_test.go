package iocache

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/statdeck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestHistoryStore opens a history store backed by a temporary SQLite file.
func newTestHistoryStore(t *testing.T) *HistoryStoreImpl {
	t.Helper()
	store, err := NewHistoryStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*HistoryStoreImpl)
}

// sampleRadarResult has one complete polygon and one with a degenerate metric.
func sampleRadarResult() schema.RadarResult {
	angles := []float64{0, 2 * math.Pi / 3, 4 * math.Pi / 3, 2 * math.Pi}
	return schema.RadarResult{
		Metrics: []string{schema.MetricHighTemp, schema.MetricLowTemp, schema.MetricPrecipitation},
		Polygons: []schema.RadarPolygon{
			{Entity: "3月", Group: "春季", Color: "#4CAF50", Angles: angles, Radii: []float64{0.4, 0.5, 0, 0.4}},
			{Entity: "3月", Group: "春季", Color: "#4CAF50", Angles: angles, Radii: []float64{1, 1, math.NaN(), 1}},
		},
		DegenerateMetrics: []string{schema.MetricPrecipitation},
		Policy:            schema.DegenerateFlag,
	}
}

func TestHistoryStoreRunLifecycle(t *testing.T) {
	store := newTestHistoryStore(t)

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun("radar", start, map[string]any{"degenerate": "flag"})
	require.NoError(t, err)
	assert.Positive(t, runID)

	require.NoError(t, store.RecordProfiles(runID, sampleRadarResult()))
	require.NoError(t, store.EndRun(runID, start.Add(250*time.Millisecond), 2))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.Equal(t, "radar", run.Command)
	assert.Len(t, run.RunToken, 36, "run token is a UUID")
	assert.True(t, start.Equal(run.StartTime))
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int32(250), *run.RunDurationMs)
	assert.Equal(t, int32(2), run.TotalRows)
	require.NotNil(t, run.ConfigParams)
	assert.JSONEq(t, `{"degenerate":"flag"}`, *run.ConfigParams)

	vertices, err := store.GetAllVertices()
	require.NoError(t, err)
	require.Len(t, vertices, 8, "two polygons with four vertices each")

	// Duplicate entities stay apart through the polygon index
	assert.Equal(t, int32(0), vertices[0].PolygonIndex)
	assert.Equal(t, int32(1), vertices[4].PolygonIndex)
	assert.Equal(t, schema.MetricHighTemp, vertices[3].Metric, "closing vertex repeats the first metric")
	require.NotNil(t, vertices[0].Radius)
	assert.InDelta(t, 0.4, *vertices[0].Radius, 1e-12)
	assert.Nil(t, vertices[6].Radius, "NaN radius is stored as NULL")

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalRuns)
	assert.Equal(t, runID, status.LastRunID)
	assert.Equal(t, 2, status.TotalRows)
	assert.Equal(t, int64(8), status.TableSizes[verticesTable])
	assert.True(t, start.Equal(status.OldestRunTime))
}

func TestHistoryStoreEmpty(t *testing.T) {
	store := newTestHistoryStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Zero(t, status.TotalRuns)
	assert.Zero(t, status.LastRunID)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	assert.Empty(t, runs)

	// An empty result records nothing
	require.NoError(t, store.RecordProfiles(1, schema.RadarResult{}))
}

func TestHistoryStoreEndUnknownRun(t *testing.T) {
	store := newTestHistoryStore(t)
	assert.Error(t, store.EndRun(99, time.Now(), 0))
}

func TestHistoryStoreNoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun("radar", time.Now(), nil)
	require.NoError(t, err)
	assert.Zero(t, runID)
	require.NoError(t, store.RecordProfiles(runID, sampleRadarResult()))
	require.NoError(t, store.EndRun(runID, time.Now(), 1))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	assert.Nil(t, runs)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.NoError(t, store.Close())
}

func TestMigrateHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	var out testWriter

	require.NoError(t, MigrateHistory(schema.SQLiteBackend, path, -1, &out))
	assert.Contains(t, out.String(), "to version 2")

	require.NoError(t, MigrateHistory(schema.SQLiteBackend, path, -1, &out))
	assert.Contains(t, out.String(), "already at the latest version")

	require.NoError(t, MigrateHistory(schema.SQLiteBackend, path, 1, &out))
	assert.Contains(t, out.String(), "to version 1")

	require.NoError(t, MigrateHistory(schema.SQLiteBackend, path, 0, &out))
	assert.Contains(t, out.String(), "rolled back")

	// Store tables come back on the next open
	store, err := NewHistoryStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	err = MigrateHistory(schema.NoneBackend, "", -1, &out)
	assert.Error(t, err)
}
