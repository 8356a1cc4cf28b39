// Package parquet provides data structures and functions for exporting statdeck
// profiles, survey records and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/huangsam/statdeck/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single statdeck command run with metadata.
// This struct maps to the statdeck_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// RunToken is a random UUID that identifies the run across databases
	RunToken string `parquet:"run_token,snappy"`

	// Command is the subcommand that was run
	Command string `parquet:"command,snappy,dict"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalRows is the number of output rows the run produced
	TotalRows int32 `parquet:"total_rows,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// Vertex is one vertex of a radar polygon.
// This struct maps to the statdeck_radar_vertices database table.
type Vertex struct {
	RunID        int64    `parquet:"run_id,snappy"`
	PolygonIndex int32    `parquet:"polygon_index,snappy"`
	Entity       string   `parquet:"entity,snappy,dict"`
	GroupLabel   string   `parquet:"group_label,snappy,dict"`
	Color        string   `parquet:"color,snappy,dict"`
	VertexIndex  int32    `parquet:"vertex_index,snappy"`
	Metric       string   `parquet:"metric,snappy,dict"`
	Angle        float64  `parquet:"angle,snappy"`
	Radius       *float64 `parquet:"radius,optional,snappy"` // nil on a degenerate metric
}

// Record is one cleaned survey row. Missing values are null.
type Record struct {
	Gender            *string  `parquet:"gender,optional,snappy,dict"`
	HourlyRate        *float64 `parquet:"hourly_rate,optional,snappy"`
	IsActive          *float64 `parquet:"is_active,optional,snappy"`
	Satisfaction      *float64 `parquet:"client_satisfaction,optional,snappy"`
	Country           *string  `parquet:"country,optional,snappy,dict"`
	PrimarySkill      *string  `parquet:"primary_skill,optional,snappy,dict"`
	Age               *float64 `parquet:"age,optional,snappy"`
	YearsOfExperience *float64 `parquet:"years_of_experience,optional,snappy"`
	Rating            *float64 `parquet:"rating,optional,snappy"`
}

// Write writes rows of any parquet-tagged struct type to w.
func Write[T any](rows []T, w io.Writer) error {
	// The schema is automatically derived from the struct tags
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows to it.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(rows, file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteVerticesParquet writes a slice of Vertex structs to a Parquet file.
func WriteVerticesParquet(data []Vertex, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteRecordsParquet writes a slice of Record structs to a Parquet file.
func WriteRecordsParquet(data []Record, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			RunToken:      record.RunToken,
			Command:       record.Command,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalRows:     record.TotalRows,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertVertexRecords converts schema.VertexRecord to Vertex for Parquet export.
func ConvertVertexRecords(records []schema.VertexRecord) []Vertex {
	result := make([]Vertex, len(records))
	for i, record := range records {
		result[i] = Vertex{
			RunID:        record.RunID,
			PolygonIndex: record.PolygonIndex,
			Entity:       record.Entity,
			GroupLabel:   record.GroupLabel,
			Color:        record.Color,
			VertexIndex:  record.VertexIndex,
			Metric:       record.Metric,
			Angle:        record.Angle,
			Radius:       record.Radius,
		}
	}
	return result
}

// ConvertRadarResult flattens a radar result into one Vertex per polygon vertex.
// The closing vertex repeats the first metric.
func ConvertRadarResult(runID int64, result schema.RadarResult) []Vertex {
	m := len(result.Metrics)
	if m == 0 {
		return nil
	}
	out := make([]Vertex, 0, result.VertexCount())
	for pi, p := range result.Polygons {
		for vi, r := range p.Radii {
			var radius *float64
			if !math.IsNaN(r) {
				radius = &r
			}
			out = append(out, Vertex{
				RunID:        runID,
				PolygonIndex: int32(pi),
				Entity:       p.Entity,
				GroupLabel:   p.Group,
				Color:        p.Color,
				VertexIndex:  int32(vi),
				Metric:       result.Metrics[vi%m],
				Angle:        p.Angles[vi],
				Radius:       radius,
			})
		}
	}
	return out
}

// ConvertFreelancerRecords converts cleaned survey rows for Parquet export.
func ConvertFreelancerRecords(records []schema.FreelancerRecord) []Record {
	result := make([]Record, len(records))
	for i, r := range records {
		result[i] = Record{
			Gender:            optionalString(r.Gender),
			HourlyRate:        r.HourlyRate,
			IsActive:          r.IsActive,
			Satisfaction:      r.Satisfaction,
			Country:           optionalString(r.Country),
			PrimarySkill:      optionalString(r.PrimarySkill),
			Age:               r.Age,
			YearsOfExperience: r.YearsOfExperience,
			Rating:            r.Rating,
		}
	}
	return result
}

// optionalString maps the empty string to null.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
