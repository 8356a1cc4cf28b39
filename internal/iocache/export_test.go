package iocache

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/statdeck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testWriter collects progress output.
type testWriter struct {
	strings.Builder
}

func TestExportHistory(t *testing.T) {
	store := newTestHistoryStore(t)
	runID, err := store.BeginRun("radar", time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordProfiles(runID, sampleRadarResult()))
	require.NoError(t, store.EndRun(runID, time.Now(), 2))

	out := filepath.Join(t.TempDir(), "history")
	var w testWriter
	require.NoError(t, exportHistory(store, out, &w))

	for _, suffix := range []string{".runs.parquet", ".vertices.parquet"} {
		info, err := os.Stat(out + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
	assert.Contains(t, w.String(), "Exported 1 runs")
	assert.Contains(t, w.String(), "Exported 8 vertex records")
}

func TestExportHistoryErrors(t *testing.T) {
	var w testWriter

	t.Run("missing output file", func(t *testing.T) {
		store := &MockHistoryStore{}
		assert.Error(t, exportHistory(store, "", &w))
	})

	t.Run("no runs", func(t *testing.T) {
		store := &MockHistoryStore{}
		store.On("GetStatus").Return(schema.HistoryStatus{Backend: "sqlite"}, nil)
		err := exportHistory(store, "out", &w)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no run history")
		store.AssertExpectations(t)
	})

	t.Run("status failure", func(t *testing.T) {
		store := &MockHistoryStore{}
		store.On("GetStatus").Return(schema.HistoryStatus{}, errors.New("boom"))
		assert.ErrorContains(t, exportHistory(store, "out", &w), "boom")
	})

	t.Run("uninitialized manager", func(t *testing.T) {
		resetManager(t)
		assert.Error(t, ExportHistory("out", &w))
	})
}
