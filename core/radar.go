package core

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/huangsam/statdeck/schema"
)

// Radar builder errors.
var (
	ErrNoMetrics        = errors.New("at least one metric is required")
	ErrUnknownMetric    = errors.New("unknown metric")
	ErrDegenerateMetric = errors.New("metric has zero range across the selected rows")
)

// DefaultFallbackColor colors polygons whose group has no palette entry.
const DefaultFallbackColor = "#9E9E9E"

// RadarOptions controls coloring and degenerate handling of BuildProfiles.
type RadarOptions struct {
	Palette       map[string]string // group -> hex color
	FallbackColor string
	Policy        schema.DegeneratePolicy
}

// BuildProfiles turns the selected entities of a table into one closed radar polygon per row.
//
// Rows are restricted to the selected labels in table order, each metric is min-max scaled
// over that subset, and every polygon shares the same closed ring of evenly spaced angles.
// Labels without a matching row yield no polygon and are reported in Unmatched.
func BuildProfiles(table *schema.MetricTable, entities []string, metrics []string, opts RadarOptions) (schema.RadarResult, error) {
	policy := opts.Policy
	if policy == "" {
		policy = schema.DegenerateFlag
	}
	result := schema.RadarResult{
		Metrics:           append([]string(nil), metrics...),
		Polygons:          []schema.RadarPolygon{},
		DegenerateMetrics: []string{},
		Unmatched:         []string{},
		Policy:            policy,
	}

	if len(metrics) == 0 {
		return result, ErrNoMetrics
	}
	cols := make([]int, len(metrics))
	for i, m := range metrics {
		idx, ok := table.MetricIndex(m)
		if !ok {
			return result, fmt.Errorf("%w: %q", ErrUnknownMetric, m)
		}
		cols[i] = idx
	}

	// 1. Restrict rows to the selection, preserving table order
	selected := make(map[string]bool, len(entities))
	for _, e := range entities {
		selected[e] = true
	}
	firstGroup := make(map[string]string)
	var subset []schema.MetricRow
	for _, row := range table.Rows() {
		if _, seen := firstGroup[row.Entity]; !seen {
			firstGroup[row.Entity] = row.Group
		}
		if selected[row.Entity] {
			subset = append(subset, row)
		}
	}
	for _, e := range entities {
		if _, ok := firstGroup[e]; !ok && !slices.Contains(result.Unmatched, e) {
			result.Unmatched = append(result.Unmatched, e)
		}
	}
	if len(subset) == 0 {
		return result, nil
	}

	// 2. Min-max scale every metric over the subset
	matrix := make([][]float64, len(subset))
	for r, row := range subset {
		matrix[r] = make([]float64, len(cols))
		for c, idx := range cols {
			matrix[r][c] = row.Values[idx]
		}
	}
	normalized, degenerate := NormalizeColumns(matrix)
	for c, isDegenerate := range degenerate {
		if !isDegenerate {
			continue
		}
		if policy == schema.DegenerateError {
			return result, fmt.Errorf("%w: %q", ErrDegenerateMetric, metrics[c])
		}
		result.DegenerateMetrics = append(result.DegenerateMetrics, metrics[c])
		if policy == schema.DegenerateZero {
			for r := range normalized {
				normalized[r][c] = 0
			}
		}
	}

	// 3. Shared closed angle ring
	angles := RadarAngles(len(metrics))

	// 4. One closed polygon per restricted row
	fallback := opts.FallbackColor
	if fallback == "" {
		fallback = DefaultFallbackColor
	}
	for r, row := range subset {
		radii := append(normalized[r], normalized[r][0])
		group := firstGroup[row.Entity]
		color, ok := opts.Palette[group]
		if !ok {
			color = fallback
		}
		result.Polygons = append(result.Polygons, schema.RadarPolygon{
			Entity: row.Entity,
			Group:  group,
			Color:  color,
			Angles: append([]float64(nil), angles...),
			Radii:  radii,
		})
	}
	return result, nil
}

// RadarAngles returns m evenly spaced angles over the full circle starting at 0,
// closed by repeating the first angle. It returns m+1 values.
func RadarAngles(m int) []float64 {
	if m <= 0 {
		return nil
	}
	angles := make([]float64, m+1)
	for i := range m {
		angles[i] = 2 * math.Pi * float64(i) / float64(m)
	}
	angles[m] = angles[0]
	return angles
}

// NormalizeColumns min-max scales each column of a row-major matrix to [0, 1].
// A column with zero or non-finite range is reported as degenerate and scales to NaN.
func NormalizeColumns(matrix [][]float64) ([][]float64, []bool) {
	if len(matrix) == 0 {
		return nil, nil
	}
	width := len(matrix[0])
	lo := make([]float64, width)
	hi := make([]float64, width)
	for c := range width {
		lo[c], hi[c] = math.Inf(1), math.Inf(-1)
		for _, row := range matrix {
			lo[c] = math.Min(lo[c], row[c])
			hi[c] = math.Max(hi[c], row[c])
		}
	}

	degenerate := make([]bool, width)
	out := make([][]float64, len(matrix))
	for r, row := range matrix {
		out[r] = make([]float64, width)
		for c, v := range row {
			span := hi[c] - lo[c]
			if span == 0 || math.IsNaN(span) || math.IsInf(span, 0) {
				degenerate[c] = true
				out[r][c] = math.NaN()
				continue
			}
			out[r][c] = (v - lo[c]) / span
		}
	}
	return out, degenerate
}
