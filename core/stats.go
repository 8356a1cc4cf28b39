package core

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/huangsam/statdeck/schema"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Density defaults: grid points and bandwidths of padding past the data range.
const (
	DefaultKDEGridSize = 200
	DefaultKDECut      = 3.0
)

// ErrTooFewValues is returned when a statistic needs more observations than given.
var ErrTooFewValues = errors.New("not enough non-missing values")

// standardNormal is the Gaussian kernel.
var standardNormal = distuv.Normal{Mu: 0, Sigma: 1}

// Finite returns the values that are not NaN or infinite.
func Finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// Describe summarizes a numeric column, skipping missing (NaN) values.
func Describe(name string, values []float64) schema.Summary {
	clean := Finite(values)
	s := schema.Summary{
		Name:    name,
		Count:   len(clean),
		Missing: len(values) - len(clean),
	}
	if len(clean) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}
	sorted := slices.Clone(clean)
	slices.Sort(sorted)

	s.Mean = stat.Mean(sorted, nil)
	s.Std = math.NaN()
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q1 = schema.Percentile(sorted, 0.25)
	s.Median = schema.Percentile(sorted, 0.5)
	s.Q3 = schema.Percentile(sorted, 0.75)
	return s
}

// DescribeTable summarizes every metric of a table in declaration order.
func DescribeTable(table *schema.MetricTable) []schema.Summary {
	metrics := table.Metrics()
	out := make([]schema.Summary, 0, len(metrics))
	for _, m := range metrics {
		col, _ := table.Column(m)
		out = append(out, Describe(m, col))
	}
	return out
}

// CorrelationMatrix computes pairwise Pearson correlation between the metrics of a table.
// A metric with zero variance correlates as NaN.
func CorrelationMatrix(table *schema.MetricTable) (schema.CorrelationMatrix, error) {
	names := table.Metrics()
	rows := table.Rows()
	if len(rows) < 2 {
		return schema.CorrelationMatrix{Names: names}, ErrTooFewValues
	}

	data := mat.NewDense(len(rows), len(names), nil)
	for r, row := range rows {
		data.SetRow(r, row.Values)
	}
	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, data, nil)

	values := make([][]float64, len(names))
	for i := range names {
		values[i] = make([]float64, len(names))
		for j := range names {
			values[i][j] = corr.At(i, j)
		}
	}
	return schema.CorrelationMatrix{Names: names, Values: values}, nil
}

// HistogramBins splits values into n equal-width bins spanning [min, max].
// The last bin includes max. A zero-width range is widened by 0.5 on each side.
func HistogramBins(values []float64, n int) []schema.HistogramBin {
	clean := Finite(values)
	if len(clean) == 0 || n <= 0 {
		return nil
	}
	lo, hi := floats.Min(clean), floats.Max(clean)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	edges := floats.Span(make([]float64, n+1), lo, hi)
	bins := make([]schema.HistogramBin, n)
	for i := range bins {
		bins[i] = schema.HistogramBin{Min: edges[i], Max: edges[i+1]}
	}
	width := (hi - lo) / float64(n)
	for _, v := range clean {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		bins[i].Count++
	}
	return bins
}

// ScottBandwidth returns the Gaussian kernel bandwidth by Scott's rule.
func ScottBandwidth(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	return stat.StdDev(values, nil) * math.Pow(float64(len(values)), -0.2)
}

// GaussianKDE estimates a density curve on gridSize points.
// The grid extends cut bandwidths beyond the observed range.
func GaussianKDE(values []float64, gridSize int, cut float64) (schema.Density, error) {
	clean := Finite(values)
	if len(clean) < 2 {
		return schema.Density{}, ErrTooFewValues
	}
	bw := ScottBandwidth(clean)
	if bw == 0 || math.IsNaN(bw) {
		return schema.Density{}, ErrTooFewValues
	}
	if gridSize < 2 {
		gridSize = DefaultKDEGridSize
	}

	lo := floats.Min(clean) - cut*bw
	hi := floats.Max(clean) + cut*bw
	xs := floats.Span(make([]float64, gridSize), lo, hi)
	ys := make([]float64, gridSize)
	norm := 1 / (float64(len(clean)) * bw)
	for i, x := range xs {
		var sum float64
		for _, v := range clean {
			sum += standardNormal.Prob((x - v) / bw)
		}
		ys[i] = sum * norm
	}
	return schema.Density{X: xs, Y: ys, Bandwidth: bw}, nil
}

// ScaleDensity multiplies a density by factor, e.g. to overlay it on a count histogram.
func ScaleDensity(d schema.Density, factor float64) schema.Density {
	ys := slices.Clone(d.Y)
	floats.Scale(factor, ys)
	return schema.Density{X: slices.Clone(d.X), Y: ys, Bandwidth: d.Bandwidth}
}

// ScaleSizes linearly maps |v| onto [lo, hi]. A zero range maps everything to the midpoint.
func ScaleSizes(values []float64, lo, hi float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	abs := make([]float64, len(values))
	for i, v := range values {
		abs[i] = math.Abs(v)
	}
	vmin, vmax := floats.Min(abs), floats.Max(abs)
	out := make([]float64, len(abs))
	for i, v := range abs {
		if vmax == vmin {
			out[i] = (lo + hi) / 2
			continue
		}
		out[i] = lo + (v-vmin)/(vmax-vmin)*(hi-lo)
	}
	return out
}

// ValueCounts counts labels, most frequent first. Ties keep first-appearance order.
// Empty labels are treated as missing and skipped.
func ValueCounts(labels []string) []schema.ValueCount {
	counts := make(map[string]int)
	var order []string
	for _, l := range labels {
		if l == "" {
			continue
		}
		if _, ok := counts[l]; !ok {
			order = append(order, l)
		}
		counts[l]++
	}
	out := make([]schema.ValueCount, len(order))
	for i, l := range order {
		out[i] = schema.ValueCount{Label: l, Count: counts[l]}
	}
	slices.SortStableFunc(out, func(a, b schema.ValueCount) int {
		return b.Count - a.Count
	})
	return out
}

// TopCounts keeps the n most frequent labels.
func TopCounts(counts []schema.ValueCount, n int) []schema.ValueCount {
	if n >= 0 && len(counts) > n {
		return counts[:n]
	}
	return counts
}

// Melt reshapes a table into long format, one record per (row, metric) pair,
// iterating metrics in the given order and rows in table order.
func Melt(table *schema.MetricTable, metrics []string) ([]schema.LongRecord, error) {
	out := make([]schema.LongRecord, 0, table.Len()*len(metrics))
	for _, m := range metrics {
		idx, ok := table.MetricIndex(m)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownMetric, m)
		}
		for _, row := range table.Rows() {
			out = append(out, schema.LongRecord{
				Entity:   row.Entity,
				Group:    row.Group,
				Variable: m,
				Value:    row.Values[idx],
			})
		}
	}
	return out, nil
}

// UniqueInOrder returns the distinct non-empty labels in order of first appearance.
func UniqueInOrder(labels []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range labels {
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
