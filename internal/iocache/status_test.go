package iocache

import (
	"strings"
	"testing"
	"time"

	"github.com/huangsam/statdeck/schema"
	"github.com/stretchr/testify/assert"
)

func TestPrintCacheStatus(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

	t.Run("disconnected", func(t *testing.T) {
		var sb strings.Builder
		PrintCacheStatus(&sb, schema.CacheStatus{Backend: "none"})
		assert.Equal(t, "Cache Backend: none\nConnected: false\n", sb.String())
	})

	t.Run("connected with entries", func(t *testing.T) {
		var sb strings.Builder
		PrintCacheStatus(&sb, schema.CacheStatus{
			Backend: "sqlite", Connected: true, TotalEntries: 2,
			LastEntryTime: ts, OldestEntryTime: ts.Add(-time.Hour), TableSizeBytes: 4096,
		})
		out := sb.String()
		assert.Contains(t, out, "Total Entries: 2")
		assert.Contains(t, out, "Last Entry: 2026-03-01 10:30:00")
		assert.Contains(t, out, "Oldest Entry: 2026-03-01 09:30:00")
		assert.Contains(t, out, "Table Size: 4096 bytes")
	})
}

func TestPrintHistoryStatus(t *testing.T) {
	var sb strings.Builder
	PrintHistoryStatus(&sb, schema.HistoryStatus{
		Backend: "sqlite", Connected: true, TotalRuns: 3, LastRunID: 3,
		LastRunTime:   time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC),
		OldestRunTime: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		TotalRows:     12,
		TableSizes:    map[string]int64{verticesTable: 40, runsTable: 3},
	})
	out := sb.String()
	assert.Contains(t, out, "Total Runs: 3")
	assert.Contains(t, out, "Last Run ID: 3")
	assert.Contains(t, out, "Total Rows Processed: 12")

	// Tables print in name order
	verticesAt := strings.Index(out, "  statdeck_radar_vertices: 40 rows")
	runsAt := strings.Index(out, "  statdeck_runs: 3 rows")
	assert.Positive(t, verticesAt)
	assert.Greater(t, runsAt, verticesAt)
}
