package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanGender(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"F", "Female", true},
		{"female", "Female", true},
		{"M", "Male", true},
		{"  male ", "Male", true},
		{"Woman", "Male", true}, // First f or m wins
		{"x", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := CleanGender(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanHourlyRate(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"$45.50", 45.5, true},
		{"USD 100", 100, true},
		{"30/hr", 30, true},
		{"n/a", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := CleanHourlyRate(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanIsActive(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"1", 1, true},
		{"y", 1, true},
		{"Y", 1, true},
		{"0", 0, true},
		{"n", 0, true},
		{"yes", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := CleanIsActive(tt.raw)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCleanSatisfaction(t *testing.T) {
	v, ok := CleanSatisfaction("85%")
	assert.True(t, ok)
	assert.Equal(t, 85.0, v)

	v, ok = CleanSatisfaction(" 72.5 ")
	assert.True(t, ok)
	assert.Equal(t, 72.5, v)

	_, ok = CleanSatisfaction("high")
	assert.False(t, ok)
}

func TestCleanNumber(t *testing.T) {
	v, ok := CleanNumber("4.8")
	assert.True(t, ok)
	assert.Equal(t, 4.8, v)

	_, ok = CleanNumber("NaN")
	assert.False(t, ok)
	_, ok = CleanNumber("Inf")
	assert.False(t, ok)
	_, ok = CleanNumber("-infinity")
	assert.False(t, ok)
	_, ok = CleanNumber("thirty")
	assert.False(t, ok)
}

// TestCleanSurveyRow tests a whole row with one malformed and one blank field.
func TestCleanSurveyRow(t *testing.T) {
	raw := map[string]string{
		ColGender:       "f",
		ColHourlyRate:   "$40",
		ColIsActive:     "Y",
		ColSatisfaction: "90%",
		ColCountry:      " Brazil ",
		ColPrimarySkill: "Design",
		ColAge:          "thirty",
		ColExperience:   "",
		ColRating:       "4.5",
	}
	rec, malformed := CleanSurveyRow(raw)

	assert.Equal(t, []string{ColAge}, malformed)
	assert.Equal(t, "Female", rec.Gender)
	require.NotNil(t, rec.HourlyRate)
	assert.Equal(t, 40.0, *rec.HourlyRate)
	require.NotNil(t, rec.IsActive)
	assert.Equal(t, 1.0, *rec.IsActive)
	require.NotNil(t, rec.Satisfaction)
	assert.Equal(t, 90.0, *rec.Satisfaction)
	assert.Equal(t, "Brazil", rec.Country)
	assert.Equal(t, "Design", rec.PrimarySkill)
	assert.Nil(t, rec.Age)
	assert.Nil(t, rec.YearsOfExperience)
	require.NotNil(t, rec.Rating)
	assert.Equal(t, 4.5, *rec.Rating)
}
