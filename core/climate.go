package core

import "github.com/huangsam/statdeck/schema"

// Season labels of the embedded climate table.
const (
	SeasonSpring = "春季"
	SeasonSummer = "夏季"
	SeasonAutumn = "秋季"
	SeasonWinter = "冬季"
)

// climateRecords is the embedded twelve-month climate table.
var climateRecords = []schema.ClimateRecord{
	{Month: "1月", Season: SeasonWinter, HighTemp: 2, LowTemp: -13, Precipitation: 0},
	{Month: "2月", Season: SeasonWinter, HighTemp: 7, LowTemp: -7, Precipitation: 1.9},
	{Month: "3月", Season: SeasonSpring, HighTemp: 16, LowTemp: 0, Precipitation: 2.2},
	{Month: "4月", Season: SeasonSpring, HighTemp: 17, LowTemp: 2, Precipitation: 27.2},
	{Month: "5月", Season: SeasonSpring, HighTemp: 23, LowTemp: 8, Precipitation: 5.5},
	{Month: "6月", Season: SeasonSummer, HighTemp: 28, LowTemp: 11, Precipitation: 40.8},
	{Month: "7月", Season: SeasonSummer, HighTemp: 30, LowTemp: 14, Precipitation: 27.1},
	{Month: "8月", Season: SeasonSummer, HighTemp: 29, LowTemp: 14, Precipitation: 26.6},
	{Month: "9月", Season: SeasonAutumn, HighTemp: 24, LowTemp: 10, Precipitation: 34.5},
	{Month: "10月", Season: SeasonAutumn, HighTemp: 17, LowTemp: 3, Precipitation: 5.5},
	{Month: "11月", Season: SeasonAutumn, HighTemp: 11, LowTemp: -5, Precipitation: 0},
	{Month: "12月", Season: SeasonWinter, HighTemp: 6, LowTemp: -12, Precipitation: 3.6},
}

// DefaultRadarEntities is the representative month of each season.
var DefaultRadarEntities = []string{"3月", "6月", "9月", "12月"}

// DefaultSeasonPalette maps each season to its chart color.
func DefaultSeasonPalette() map[string]string {
	return map[string]string{
		SeasonSpring: "#8BC34A",
		SeasonSummer: "#FFC107",
		SeasonAutumn: "#FF9800",
		SeasonWinter: "#2196F3",
	}
}

// MetricDisplayNames are the axis labels of the climate metrics.
var MetricDisplayNames = map[string]string{
	schema.MetricHighTemp:      "平均高温 (℃)",
	schema.MetricLowTemp:       "平均低温 (℃)",
	schema.MetricPrecipitation: "降水量 (mm)",
}

// DisplayName returns the axis label of a metric, or the metric name itself.
func DisplayName(metric string) string {
	if name, ok := MetricDisplayNames[metric]; ok {
		return name
	}
	return metric
}

// ClimateRecords returns a copy of the embedded climate table.
func ClimateRecords() []schema.ClimateRecord {
	return append([]schema.ClimateRecord(nil), climateRecords...)
}

// ClimateTable returns the embedded climate table as a validated MetricTable.
func ClimateTable() *schema.MetricTable {
	table, err := schema.ClimateTable(climateRecords)
	if err != nil {
		panic(err) // embedded data is static
	}
	return table
}
