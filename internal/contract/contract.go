// Package contract provides interfaces and shared utilities for statdeck's internal architecture.
package contract

import (
	"io"
	"time"

	"github.com/huangsam/statdeck/schema"
)

// CacheManager defines the interface for managing the persistence stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetDatasetStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking command runs and the profiles they built.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(command string, startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalRows int) error

	// RecordProfiles stores one row per polygon vertex of a radar result
	RecordProfiles(runID int64, result schema.RadarResult) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every run in ID order
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllVertices returns every recorded vertex ordered by run, entity and index
	GetAllVertices() ([]schema.VertexRecord, error)

	// Close closes the underlying connection
	Close() error
}

// Renderer draws a chart deck into a writer.
type Renderer interface {
	Render(deck schema.Deck, theme Theme, w io.Writer) error

	// Extension is the file extension of the rendered output, without the dot
	Extension() string
}
