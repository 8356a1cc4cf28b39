package schema

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"odd median", []float64{16, 17, 23}, 0.5, 17},
		{"odd lower quartile", []float64{16, 17, 23}, 0.25, 16.5},
		{"odd upper quartile", []float64{16, 17, 23}, 0.75, 20},
		{"even median", []float64{2, 4}, 0.5, 3},
		{"minimum", []float64{1, 2, 3}, 0, 1},
		{"maximum", []float64{1, 2, 3}, 1, 3},
		{"single value", []float64{7}, 0.25, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Percentile(tt.sorted, tt.p), 1e-12)
		})
	}

	assert.True(t, math.IsNaN(Percentile(nil, 0.5)))
}

func TestQuartiles(t *testing.T) {
	q1, median, q3 := Quartiles([]float64{23, math.NaN(), 16, 17})
	assert.InDelta(t, 16.5, q1, 1e-12)
	assert.InDelta(t, 17.0, median, 1e-12)
	assert.InDelta(t, 20.0, q3, 1e-12)

	q1, median, q3 = Quartiles([]float64{math.NaN()})
	assert.True(t, math.IsNaN(q1))
	assert.True(t, math.IsNaN(median))
	assert.True(t, math.IsNaN(q3))
}
