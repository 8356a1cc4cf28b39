package core

import (
	"math"
	"testing"

	"github.com/huangsam/statdeck/schema"
	"github.com/stretchr/testify/assert"
)

func TestSurveyField(t *testing.T) {
	age := 30.0
	records := []schema.FreelancerRecord{{Age: &age, Country: "Peru"}, {}}
	got := SurveyField(records, FieldAge)
	assert.Equal(t, 30.0, got[0])
	assert.True(t, math.IsNaN(got[1]))
	assert.Equal(t, []string{"Peru", ""}, SurveyLabels(records, FieldCountry))
}

func TestPairedFinite(t *testing.T) {
	nan := math.NaN()
	xs, ys := PairedFinite([]float64{1, nan, 3, 4}, []float64{5, 6, nan, 8})
	assert.Equal(t, []float64{1, 4}, xs)
	assert.Equal(t, []float64{5, 8}, ys)
}
