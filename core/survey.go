package core

import (
	"math"

	"github.com/huangsam/statdeck/schema"
)

// SurveyField extracts one numeric column of cleaned records, NaN where missing.
func SurveyField(records []schema.FreelancerRecord, field func(schema.FreelancerRecord) *float64) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		if v := field(r); v != nil {
			out[i] = *v
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// SurveyLabels extracts one categorical column of cleaned records.
func SurveyLabels(records []schema.FreelancerRecord, field func(schema.FreelancerRecord) string) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = field(r)
	}
	return out
}

// PairedFinite keeps the index pairs where both x and y are present.
func PairedFinite(x, y []float64) ([]float64, []float64) {
	var xs, ys []float64
	for i := range min(len(x), len(y)) {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}

// Survey field accessors.
var (
	FieldHourlyRate   = func(r schema.FreelancerRecord) *float64 { return r.HourlyRate }
	FieldIsActive     = func(r schema.FreelancerRecord) *float64 { return r.IsActive }
	FieldSatisfaction = func(r schema.FreelancerRecord) *float64 { return r.Satisfaction }
	FieldAge          = func(r schema.FreelancerRecord) *float64 { return r.Age }
	FieldExperience   = func(r schema.FreelancerRecord) *float64 { return r.YearsOfExperience }
	FieldRating       = func(r schema.FreelancerRecord) *float64 { return r.Rating }
	FieldGender       = func(r schema.FreelancerRecord) string { return r.Gender }
	FieldCountry      = func(r schema.FreelancerRecord) string { return r.Country }
	FieldPrimarySkill = func(r schema.FreelancerRecord) string { return r.PrimarySkill }
)
