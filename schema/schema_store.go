package schema

import "time"

// RunRecord represents a row from the statdeck_runs table.
type RunRecord struct {
	RunID         int64
	RunToken      string
	Command       string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalRows     int32
	ConfigParams  *string
}

// VertexRecord represents a row from the statdeck_radar_vertices table.
// Radius is nil when the vertex lies on a degenerate metric.
type VertexRecord struct {
	RunID        int64
	PolygonIndex int32 // Position of the polygon in its result
	Entity       string
	GroupLabel   string
	Color        string
	VertexIndex  int32
	Metric       string
	Angle        float64
	Radius       *float64
}
