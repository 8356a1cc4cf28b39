package schema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricTable(t *testing.T) {
	tests := []struct {
		name    string
		metrics []string
		rows    []MetricRow
		wantErr bool
	}{
		{
			name:    "valid table",
			metrics: []string{"a", "b"},
			rows: []MetricRow{
				{Entity: "x", Group: "g1", Values: []float64{1, 2}},
				{Entity: "y", Group: "g2", Values: []float64{3, 4}},
			},
		},
		{
			name:    "no metrics",
			metrics: nil,
			wantErr: true,
		},
		{
			name:    "duplicate metric",
			metrics: []string{"a", "a"},
			wantErr: true,
		},
		{
			name:    "blank metric",
			metrics: []string{"a", " "},
			wantErr: true,
		},
		{
			name:    "short row",
			metrics: []string{"a", "b"},
			rows:    []MetricRow{{Entity: "x", Values: []float64{1}}},
			wantErr: true,
		},
		{
			name:    "non-finite value",
			metrics: []string{"a", "b"},
			rows:    []MetricRow{{Entity: "x", Values: []float64{1, math.NaN()}}},
			wantErr: true,
		},
		{
			name:    "infinite value",
			metrics: []string{"a"},
			rows:    []MetricRow{{Entity: "x", Values: []float64{math.Inf(1)}}},
			wantErr: true,
		},
		{
			name:    "empty entity",
			metrics: []string{"a"},
			rows:    []MetricRow{{Entity: "", Values: []float64{1}}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := NewMetricTable(tt.metrics, tt.rows)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTable)
				assert.Nil(t, table)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.rows), table.Len())
			assert.Equal(t, tt.metrics, table.Metrics())
		})
	}
}

func TestMetricTableIsolation(t *testing.T) {
	values := []float64{1, 2}
	table, err := NewMetricTable([]string{"a", "b"}, []MetricRow{{Entity: "x", Values: values}})
	require.NoError(t, err)

	values[0] = 99
	col, err := table.Column("a")
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, col)

	metrics := table.Metrics()
	metrics[0] = "changed"
	assert.Equal(t, []string{"a", "b"}, table.Metrics())
}

func TestMetricTableColumn(t *testing.T) {
	table, err := ClimateTable([]ClimateRecord{
		{Month: "1月", Season: "冬季", HighTemp: 2, LowTemp: -13, Precipitation: 0},
		{Month: "2月", Season: "冬季", HighTemp: 7, LowTemp: -7, Precipitation: 1.9},
	})
	require.NoError(t, err)

	low, err := table.Column(MetricLowTemp)
	require.NoError(t, err)
	assert.Equal(t, []float64{-13, -7}, low)

	_, err = table.Column("humidity")
	assert.Error(t, err)

	idx, ok := table.MetricIndex(MetricPrecipitation)
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.Equal(t, []string{"1月", "2月"}, table.Entities())
	assert.Equal(t, []string{"冬季", "冬季"}, table.Groups())
}

func TestRadarPolygonDegenerate(t *testing.T) {
	ok := RadarPolygon{Radii: []float64{0, 1, 0.5, 0}}
	bad := RadarPolygon{Radii: []float64{0, math.NaN(), 0.5, 0}}
	assert.False(t, ok.Degenerate())
	assert.True(t, bad.Degenerate())

	result := RadarResult{Polygons: []RadarPolygon{ok, bad}}
	assert.Equal(t, 8, result.VertexCount())
}
