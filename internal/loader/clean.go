package loader

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/huangsam/statdeck/schema"
)

// Survey column names as they appear in the raw file header.
const (
	ColGender       = "gender"
	ColHourlyRate   = "hourly_rate (USD)"
	ColIsActive     = "is_active"
	ColSatisfaction = "client_satisfaction"
	ColCountry      = "country"
	ColPrimarySkill = "primary_skill"
	ColAge          = "age"
	ColExperience   = "years_of_experience"
	ColRating       = "rating"
)

// SurveyColumns lists every column the survey cleaner reads.
var SurveyColumns = []string{
	ColGender, ColHourlyRate, ColIsActive, ColSatisfaction, ColCountry,
	ColPrimarySkill, ColAge, ColExperience, ColRating,
}

var (
	genderPattern  = regexp.MustCompile(`[fm]`)
	nonRatePattern = regexp.MustCompile(`[^\d.]`)
)

// CleanGender maps the first f or m found in the lower-cased value to Female or Male.
func CleanGender(raw string) (string, bool) {
	switch genderPattern.FindString(strings.ToLower(raw)) {
	case "f":
		return "Female", true
	case "m":
		return "Male", true
	default:
		return "", false
	}
}

// CleanHourlyRate strips every character except digits and dots, then parses a decimal.
func CleanHourlyRate(raw string) (float64, bool) {
	return parseNumber(nonRatePattern.ReplaceAllString(raw, ""))
}

// CleanIsActive maps 1/Y to 1 and 0/N to 0, case-insensitively.
func CleanIsActive(raw string) (float64, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "1", "Y":
		return 1, true
	case "0", "N":
		return 0, true
	default:
		return 0, false
	}
}

// CleanSatisfaction removes percent signs and parses the remaining number.
func CleanSatisfaction(raw string) (float64, bool) {
	return parseNumber(strings.ReplaceAll(raw, "%", ""))
}

// CleanNumber parses a plain numeric field.
func CleanNumber(raw string) (float64, bool) {
	return parseNumber(raw)
}

// CleanLabel trims a categorical field. Empty means missing.
func CleanLabel(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	return s, s != ""
}

func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// CleanSurveyRow applies every cleaning rule to one raw row keyed by column name.
// It returns the cleaned record and the columns that held a value which failed to clean.
// Blank fields are missing but not malformed.
func CleanSurveyRow(raw map[string]string) (schema.FreelancerRecord, []string) {
	var rec schema.FreelancerRecord
	var malformed []string

	number := func(col string, clean func(string) (float64, bool)) *float64 {
		s := raw[col]
		v, ok := clean(s)
		if !ok {
			if strings.TrimSpace(s) != "" {
				malformed = append(malformed, col)
			}
			return nil
		}
		return &v
	}

	if g, ok := CleanGender(raw[ColGender]); ok {
		rec.Gender = g
	} else if strings.TrimSpace(raw[ColGender]) != "" {
		malformed = append(malformed, ColGender)
	}
	rec.HourlyRate = number(ColHourlyRate, CleanHourlyRate)
	rec.IsActive = number(ColIsActive, CleanIsActive)
	rec.Satisfaction = number(ColSatisfaction, CleanSatisfaction)
	rec.Country, _ = CleanLabel(raw[ColCountry])
	rec.PrimarySkill, _ = CleanLabel(raw[ColPrimarySkill])
	rec.Age = number(ColAge, CleanNumber)
	rec.YearsOfExperience = number(ColExperience, CleanNumber)
	rec.Rating = number(ColRating, CleanNumber)
	return rec, malformed
}
