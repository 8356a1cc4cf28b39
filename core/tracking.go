package core

import (
	"time"

	"github.com/huangsam/statdeck/internal/contract"
	"github.com/huangsam/statdeck/schema"
)

// runTracker records one command run in the history store.
// A tracker without a store, or whose run failed to begin, does nothing.
type runTracker struct {
	store contract.HistoryStore
	runID int64
}

// beginRun starts tracking a command run when a history store is configured.
func beginRun(mgr contract.CacheManager, command string, configParams map[string]any) *runTracker {
	if mgr == nil {
		return &runTracker{}
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return &runTracker{}
	}
	runID, err := store.BeginRun(command, time.Now(), configParams)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return &runTracker{}
	}
	return &runTracker{store: store, runID: runID}
}

func (t *runTracker) active() bool {
	return t.store != nil && t.runID > 0
}

// recordProfiles stores the vertices of a radar result under the current run.
func (t *runTracker) recordProfiles(result schema.RadarResult) {
	if !t.active() {
		return
	}
	if err := t.store.RecordProfiles(t.runID, result); err != nil {
		contract.LogWarn("Failed to record radar profiles", err)
	}
}

// end finalizes the run with the number of rows it processed.
func (t *runTracker) end(totalRows int) {
	if !t.active() {
		return
	}
	if err := t.store.EndRun(t.runID, time.Now(), totalRows); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}
