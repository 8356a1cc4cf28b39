// Package schema has models and enums shared by all parts of statdeck.
package schema

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Metric names of the embedded climate table.
const (
	MetricHighTemp      = "high_temp"
	MetricLowTemp       = "low_temp"
	MetricPrecipitation = "precipitation"
)

// ErrInvalidTable is returned when a MetricTable fails load-time validation.
var ErrInvalidTable = errors.New("invalid metric table")

// MetricRow is one entity of a MetricTable.
type MetricRow struct {
	Entity string    `json:"entity"` // Row-identifying label (e.g. a month)
	Group  string    `json:"group"`  // Color-coding category (e.g. a season)
	Values []float64 `json:"values"` // One value per declared metric, in declaration order
}

// MetricTable is an ordered sequence of rows sharing one ordered list of metrics.
// It is immutable after construction; use NewMetricTable to build one.
type MetricTable struct {
	metrics []string
	index   map[string]int
	rows    []MetricRow
}

// NewMetricTable validates and builds a MetricTable.
// Every row must supply exactly one value per metric, and metric names must be unique.
func NewMetricTable(metrics []string, rows []MetricRow) (*MetricTable, error) {
	if len(metrics) == 0 {
		return nil, fmt.Errorf("%w: no metrics declared", ErrInvalidTable)
	}
	index := make(map[string]int, len(metrics))
	for i, m := range metrics {
		name := strings.TrimSpace(m)
		if name == "" {
			return nil, fmt.Errorf("%w: metric %d has an empty name", ErrInvalidTable, i)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate metric %q", ErrInvalidTable, name)
		}
		index[name] = i
	}
	owned := make([]MetricRow, len(rows))
	for i, r := range rows {
		if strings.TrimSpace(r.Entity) == "" {
			return nil, fmt.Errorf("%w: row %d has an empty entity label", ErrInvalidTable, i)
		}
		if len(r.Values) != len(metrics) {
			return nil, fmt.Errorf("%w: row %q has %d values, want %d", ErrInvalidTable, r.Entity, len(r.Values), len(metrics))
		}
		for j, v := range r.Values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: row %q metric %q is not finite", ErrInvalidTable, r.Entity, metrics[j])
			}
		}
		owned[i] = MetricRow{
			Entity: r.Entity,
			Group:  r.Group,
			Values: append([]float64(nil), r.Values...),
		}
	}
	return &MetricTable{
		metrics: append([]string(nil), metrics...),
		index:   index,
		rows:    owned,
	}, nil
}

// Metrics returns the declared metric names in order.
func (t *MetricTable) Metrics() []string {
	return append([]string(nil), t.metrics...)
}

// Rows returns the rows in table order.
func (t *MetricTable) Rows() []MetricRow {
	return t.rows
}

// Len returns the number of rows.
func (t *MetricTable) Len() int {
	return len(t.rows)
}

// MetricIndex returns the column position of a metric.
func (t *MetricTable) MetricIndex(name string) (int, bool) {
	i, ok := t.index[name]
	return i, ok
}

// Column returns all values of one metric in table order.
func (t *MetricTable) Column(name string) ([]float64, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric %q", name)
	}
	out := make([]float64, len(t.rows))
	for r, row := range t.rows {
		out[r] = row.Values[i]
	}
	return out, nil
}

// Entities returns the entity labels in table order.
func (t *MetricTable) Entities() []string {
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Entity
	}
	return out
}

// Groups returns the group labels in table order.
func (t *MetricTable) Groups() []string {
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r.Group
	}
	return out
}

// ClimateRecord is one month of the embedded climate table.
type ClimateRecord struct {
	Month         string  `json:"month"`
	Season        string  `json:"season"`
	HighTemp      float64 `json:"high_temp"`     // ℃
	LowTemp       float64 `json:"low_temp"`      // ℃
	Precipitation float64 `json:"precipitation"` // mm
}

// ClimateMetrics lists the metric names produced by ClimateRecord projection.
var ClimateMetrics = []string{MetricHighTemp, MetricLowTemp, MetricPrecipitation}

// ClimateTable projects climate records onto a MetricTable.
func ClimateTable(records []ClimateRecord) (*MetricTable, error) {
	rows := make([]MetricRow, len(records))
	for i, r := range records {
		rows[i] = MetricRow{
			Entity: r.Month,
			Group:  r.Season,
			Values: []float64{r.HighTemp, r.LowTemp, r.Precipitation},
		}
	}
	return NewMetricTable(ClimateMetrics, rows)
}

// FreelancerRecord is one cleaned survey row. Nil numerics and empty strings are missing values.
type FreelancerRecord struct {
	Gender            string   `json:"gender,omitempty"` // Female or Male
	HourlyRate        *float64 `json:"hourly_rate,omitempty"`
	IsActive          *float64 `json:"is_active,omitempty"` // 1 or 0
	Satisfaction      *float64 `json:"client_satisfaction,omitempty"`
	Country           string   `json:"country,omitempty"`
	PrimarySkill      string   `json:"primary_skill,omitempty"`
	Age               *float64 `json:"age,omitempty"`
	YearsOfExperience *float64 `json:"years_of_experience,omitempty"`
	Rating            *float64 `json:"rating,omitempty"`
}

// SurveyLoadReport counts fields that failed cleaning while loading a survey.
type SurveyLoadReport struct {
	Rows      int            `json:"rows"`
	Malformed map[string]int `json:"malformed"` // column name -> count
	FromCache bool           `json:"from_cache"`
}
