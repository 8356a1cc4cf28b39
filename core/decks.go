package core

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/huangsam/statdeck/schema"
)

// Fixed chart colors.
const (
	ColorBubble    = "#2196F3"
	ColorTrend     = "#FF5722"
	ColorBoxHigh   = "#FF9800"
	ColorBoxLow    = "#2196F3"
	ColorHighHist  = "#8BC34A"
	ColorPrecipKDE = "#E91E63"
	ColorCount     = "#4C72B0"
	ColorAge       = "#87CEEB" // skyblue
	ColorYears     = "#90EE90" // lightgreen
	ColorSatisfy   = "#FF7F50" // coral
	ColorRating    = "#9370DB" // mediumpurple
	ColorRate      = "#FFA500" // orange
)

// Histogram and marker settings shared by the decks.
const (
	HighTempBins    = 8
	SurveyHistBins  = 20
	RatingHistBins  = 10
	BubbleMinSize   = 30
	BubbleMaxSize   = 200
	ScatterSize     = 80
	RelationsAlpha  = 0.6
	TopCountryLimit = 10
	ViolinCut       = 2.0
)

// ClimateChartSet builds every climate chart, keyed by kind.
// The radar chart draws the given radar result.
func ClimateChartSet(records []schema.ClimateRecord, radar schema.RadarResult, palette map[string]string) (map[schema.ChartKind]schema.Chart, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("climate charts need at least one record")
	}
	table, err := schema.ClimateTable(records)
	if err != nil {
		return nil, err
	}

	months := make([]string, len(records))
	seasons := make([]string, len(records))
	high := make([]float64, len(records))
	low := make([]float64, len(records))
	precip := make([]float64, len(records))
	index := make([]float64, len(records))
	seasonColors := make([]string, len(records))
	for i, r := range records {
		months[i] = r.Month
		seasons[i] = r.Season
		high[i] = r.HighTemp
		low[i] = r.LowTemp
		precip[i] = r.Precipitation
		index[i] = float64(i)
		seasonColors[i] = colorFor(palette, r.Season)
	}
	seasonOrder := UniqueInOrder(seasons)

	charts := make(map[schema.ChartKind]schema.Chart, len(schema.ClimateChartKinds))

	charts[schema.BarChart] = schema.Chart{
		Kind:       schema.BarChart,
		Title:      "各月平均高温分布",
		XLabel:     "月份",
		YLabel:     DisplayName(schema.MetricHighTemp),
		Categories: months,
		Bars:       &schema.BarSeries{Values: high, Colors: seasonColors, LabelFormat: "%.0f℃"},
	}

	charts[schema.BubbleChart] = schema.Chart{
		Kind:       schema.BubbleChart,
		Title:      "降水量与低温关系",
		XLabel:     "月份",
		YLabel:     DisplayName(schema.MetricPrecipitation),
		Categories: months,
		Series: []schema.XYSeries{{
			Name:  "平均低温绝对值",
			Color: ColorBubble,
			X:     index,
			Y:     precip,
			Sizes: ScaleSizes(low, BubbleMinSize, BubbleMaxSize),
			Alpha: 0.7,
		}},
	}

	charts[schema.ViolinChart] = schema.Chart{
		Kind:       schema.ViolinChart,
		Title:      "季节降水量分布",
		XLabel:     "季节",
		YLabel:     DisplayName(schema.MetricPrecipitation),
		Categories: seasonOrder,
		Dists:      seasonDists(seasonOrder, seasons, palette, precip),
	}

	var byseason []schema.XYSeries
	for _, s := range seasonOrder {
		var xs, ys []float64
		for i := range records {
			if seasons[i] == s {
				xs = append(xs, high[i])
				ys = append(ys, precip[i])
			}
		}
		byseason = append(byseason, schema.XYSeries{
			Name: s, Color: colorFor(palette, s), X: xs, Y: ys,
			Sizes: []float64{ScatterSize}, Alpha: 0.8,
		})
	}
	charts[schema.ScatterChart] = schema.Chart{
		Kind:   schema.ScatterChart,
		Title:  "高温与降水量关系",
		XLabel: DisplayName(schema.MetricHighTemp),
		YLabel: DisplayName(schema.MetricPrecipitation),
		Series: byseason,
	}

	charts[schema.PointChart] = schema.Chart{
		Kind:       schema.PointChart,
		Title:      "各月平均低温趋势",
		XLabel:     "月份",
		YLabel:     DisplayName(schema.MetricLowTemp),
		Categories: months,
		Series: []schema.XYSeries{{
			Name: DisplayName(schema.MetricLowTemp), Color: ColorTrend,
			X: index, Y: low, Line: true, Dashed: true,
		}},
	}

	melted, err := Melt(table, []string{schema.MetricHighTemp, schema.MetricLowTemp})
	if err != nil {
		return nil, err
	}
	charts[schema.BoxChart] = schema.Chart{
		Kind:       schema.BoxChart,
		Title:      "季节温度分布对比",
		XLabel:     "季节",
		YLabel:     "温度值",
		Categories: seasonOrder,
		Dists: []schema.DistSeries{
			meltedDist(melted, seasonOrder, schema.MetricHighTemp, ColorBoxHigh),
			meltedDist(melted, seasonOrder, schema.MetricLowTemp, ColorBoxLow),
		},
	}

	charts[schema.HistChart] = schema.Chart{
		Kind:   schema.HistChart,
		Title:  "平均高温分布特征",
		XLabel: DisplayName(schema.MetricHighTemp),
		YLabel: "Count",
		Hist:   histSeries(high, HighTempBins, ColorHighHist),
	}

	rug := Finite(precip)
	curve, err := GaussianKDE(precip, DefaultKDEGridSize, DefaultKDECut)
	if err != nil {
		return nil, fmt.Errorf("precipitation density: %w", err)
	}
	charts[schema.KDEChart] = schema.Chart{
		Kind:    schema.KDEChart,
		Title:   "降水量分布密度",
		XLabel:  DisplayName(schema.MetricPrecipitation),
		YLabel:  "Density",
		Density: &schema.DensitySeries{Curve: curve, Rug: rug, Color: ColorPrecipKDE, Fill: true},
	}

	corr, err := CorrelationMatrix(table)
	if err != nil {
		return nil, fmt.Errorf("correlation: %w", err)
	}
	display := make([]string, len(corr.Names))
	for i, n := range corr.Names {
		display[i] = DisplayName(n)
	}
	corr.Names = display
	charts[schema.HeatmapChart] = schema.Chart{
		Kind:   schema.HeatmapChart,
		Title:  "指标相关性热力图",
		Matrix: &corr,
	}

	var wedges []schema.Slice
	for _, vc := range ValueCounts(seasons) {
		wedges = append(wedges, schema.Slice{Label: vc.Label, Value: float64(vc.Count), Color: colorFor(palette, vc.Label)})
	}
	charts[schema.PieChart] = schema.Chart{
		Kind:   schema.PieChart,
		Title:  "季节分布占比",
		Slices: wedges,
	}

	charts[schema.RadarChart] = radarChart("四季气候特征雷达图", radar)

	return charts, nil
}

// ClimateDecks arranges the climate charts for a layout.
// The gallery layout yields one single-panel deck per chart.
func ClimateDecks(layout schema.Layout, charts map[schema.ChartKind]schema.Chart) ([]schema.Deck, error) {
	for _, k := range schema.ClimateChartKinds {
		if _, ok := charts[k]; !ok {
			return nil, fmt.Errorf("missing %s chart", k)
		}
	}

	switch layout {
	case schema.DashboardLayout, "":
		deck := schema.Deck{Name: "climate-dashboard", Title: "年度气候数据看板", Rows: 4, Cols: 4}
		for i, k := range schema.ClimateChartKinds[:8] {
			deck.Panels = append(deck.Panels, panel(i/4, i%4, 1, 1, charts[k]))
		}
		deck.Panels = append(deck.Panels,
			panel(2, 0, 1, 2, charts[schema.HeatmapChart]),
			panel(2, 2, 1, 2, charts[schema.PieChart]),
			panel(3, 1, 1, 2, charts[schema.RadarChart]),
		)
		return []schema.Deck{deck}, nil

	case schema.GridLayout:
		deck := schema.Deck{Name: "climate-grid", Title: "年度气候数据看板", Rows: 3, Cols: 3}
		for i, k := range schema.ClimateChartKinds[:9] {
			deck.Panels = append(deck.Panels, panel(i/3, i%3, 1, 1, charts[k]))
		}
		return []schema.Deck{deck}, nil

	case schema.GalleryLayout:
		decks := make([]schema.Deck, 0, len(schema.ClimateChartKinds))
		for _, k := range schema.ClimateChartKinds {
			c := charts[k]
			decks = append(decks, schema.Deck{
				Name:   "climate-" + string(k),
				Title:  c.Title,
				Rows:   1,
				Cols:   1,
				Panels: []schema.Panel{panel(0, 0, 1, 1, c)},
			})
		}
		return decks, nil

	default:
		return nil, fmt.Errorf("unknown layout %q", layout)
	}
}

// SurveyOverviewDeck builds the 3x3 distribution overview of the survey.
func SurveyOverviewDeck(records []schema.FreelancerRecord) schema.Deck {
	gender := SurveyLabels(records, FieldGender)
	genderOrder := UniqueInOrder(gender)
	countries := TopCounts(ValueCounts(SurveyLabels(records, FieldCountry)), TopCountryLimit)
	skills := ValueCounts(SurveyLabels(records, FieldPrimarySkill))

	active := SurveyField(records, FieldIsActive)
	activeLabels := make([]string, len(active))
	for i, v := range active {
		if !math.IsNaN(v) {
			activeLabels[i] = strconv.Itoa(int(v))
		}
	}
	activeOrder := UniqueInOrder(activeLabels)
	slices.Sort(activeOrder)

	hist := func(title string, field func(schema.FreelancerRecord) *float64, bins int, color string) schema.Chart {
		return schema.Chart{
			Kind:   schema.HistChart,
			Title:  title,
			YLabel: "Count",
			Hist:   histSeries(SurveyField(records, field), bins, color),
		}
	}

	charts := []schema.Chart{
		countChart("Gender Distribution", genderOrder, countsFor(gender, genderOrder), false),
		countChart("Top 10 Countries", countLabels(countries), countValues(countries), true),
		countChart("Primary Skill Distribution", countLabels(skills), countValues(skills), true),
		hist("Age Distribution", FieldAge, SurveyHistBins, ColorAge),
		hist("Years of Experience", FieldExperience, SurveyHistBins, ColorYears),
		hist("Client Satisfaction (%)", FieldSatisfaction, SurveyHistBins, ColorSatisfy),
		hist("Rating Distribution", FieldRating, RatingHistBins, ColorRating),
		hist("Hourly Rate (USD)", FieldHourlyRate, SurveyHistBins, ColorRate),
		countChart("Is Active (0/1)", activeOrder, countsFor(activeLabels, activeOrder), false),
	}

	deck := schema.Deck{Name: "survey-overview", Title: "Freelancer Survey Overview", Rows: 3, Cols: 3}
	for i, c := range charts {
		deck.Panels = append(deck.Panels, panel(i/3, i%3, 1, 1, c))
	}
	return deck
}

// SurveyRelationsDeck builds the 2x2 pairwise scatter grid of the survey.
// Rows missing either coordinate are left out of that panel.
func SurveyRelationsDeck(records []schema.FreelancerRecord) schema.Deck {
	pairs := []struct {
		title  string
		xLabel string
		yLabel string
		x, y   func(schema.FreelancerRecord) *float64
	}{
		{"Age vs Rating", "age", "rating", FieldAge, FieldRating},
		{"Experience vs Hourly Rate", "years_of_experience", "hourly_rate", FieldExperience, FieldHourlyRate},
		{"Hourly Rate vs Client Satisfaction", "hourly_rate", "client_satisfaction", FieldHourlyRate, FieldSatisfaction},
		{"Rating vs Client Satisfaction", "rating", "client_satisfaction", FieldRating, FieldSatisfaction},
	}

	deck := schema.Deck{Name: "survey-relations", Title: "Freelancer Survey Relations", Rows: 2, Cols: 2}
	for i, p := range pairs {
		xs, ys := PairedFinite(SurveyField(records, p.x), SurveyField(records, p.y))
		deck.Panels = append(deck.Panels, panel(i/2, i%2, 1, 1, schema.Chart{
			Kind:   schema.ScatterChart,
			Title:  p.title,
			XLabel: p.xLabel,
			YLabel: p.yLabel,
			Series: []schema.XYSeries{{Name: p.title, Color: ColorCount, X: xs, Y: ys, Alpha: RelationsAlpha}},
		}))
	}
	return deck
}

// SurveyDecks builds the named survey deck.
func SurveyDecks(kind schema.SurveyDeck, records []schema.FreelancerRecord) (schema.Deck, error) {
	switch kind {
	case schema.OverviewDeck:
		return SurveyOverviewDeck(records), nil
	case schema.RelationsDeck:
		return SurveyRelationsDeck(records), nil
	default:
		return schema.Deck{}, fmt.Errorf("unknown survey deck %q", kind)
	}
}

// radarChart draws a radar result with the display names of its metrics as axes.
func radarChart(title string, radar schema.RadarResult) schema.Chart {
	axisNames := make([]string, len(radar.Metrics))
	for i, m := range radar.Metrics {
		axisNames[i] = DisplayName(m)
	}
	return schema.Chart{
		Kind:       schema.RadarChart,
		Title:      title,
		Categories: axisNames,
		Radar:      &radar,
	}
}

// seasonDists splits a sample into one series per season, colored by the season palette.
// Each series only fills the sample slot of its own season and carries its violin density.
func seasonDists(order, seasons []string, palette map[string]string, values []float64) []schema.DistSeries {
	out := make([]schema.DistSeries, 0, len(order))
	for slot, season := range order {
		samples := make([][]float64, len(order))
		for i, v := range values {
			if seasons[i] == season {
				samples[slot] = append(samples[slot], v)
			}
		}
		densities := make([]schema.Density, len(order))
		if d, err := GaussianKDE(samples[slot], DefaultKDEGridSize, ViolinCut); err == nil {
			densities[slot] = d
		}
		out = append(out, schema.DistSeries{Name: season, Color: colorFor(palette, season), Samples: samples, Densities: densities})
	}
	return out
}

func meltedDist(melted []schema.LongRecord, order []string, variable, color string) schema.DistSeries {
	samples := make([][]float64, len(order))
	for _, rec := range melted {
		if rec.Variable != variable {
			continue
		}
		if i := slices.Index(order, rec.Group); i >= 0 {
			samples[i] = append(samples[i], rec.Value)
		}
	}
	return schema.DistSeries{Name: DisplayName(variable), Color: color, Samples: samples}
}

func histSeries(values []float64, bins int, color string) *schema.HistSeries {
	clean := Finite(values)
	h := &schema.HistSeries{Values: clean, Bins: HistogramBins(clean, bins), Color: color}
	if len(h.Bins) == 0 {
		return h
	}
	if curve, err := GaussianKDE(clean, DefaultKDEGridSize, DefaultKDECut); err == nil {
		width := h.Bins[0].Max - h.Bins[0].Min
		overlay := ScaleDensity(curve, float64(len(clean))*width)
		h.Overlay = &overlay
	}
	return h
}

func countChart(title string, labels []string, counts []float64, horizontal bool) schema.Chart {
	return schema.Chart{
		Kind:       schema.BarChart,
		Title:      title,
		YLabel:     "Count",
		Categories: labels,
		Bars:       &schema.BarSeries{Values: counts, Colors: []string{ColorCount}, Horizontal: horizontal},
	}
}

func countsFor(labels, order []string) []float64 {
	out := make([]float64, len(order))
	for _, l := range labels {
		if i := slices.Index(order, l); i >= 0 {
			out[i]++
		}
	}
	return out
}

func countLabels(vc []schema.ValueCount) []string {
	out := make([]string, len(vc))
	for i, c := range vc {
		out[i] = c.Label
	}
	return out
}

func countValues(vc []schema.ValueCount) []float64 {
	out := make([]float64, len(vc))
	for i, c := range vc {
		out[i] = float64(c.Count)
	}
	return out
}

func panel(row, col, rowSpan, colSpan int, c schema.Chart) schema.Panel {
	return schema.Panel{Row: row, Col: col, RowSpan: rowSpan, ColSpan: colSpan, Chart: c}
}

func colorFor(palette map[string]string, group string) string {
	if c, ok := palette[group]; ok {
		return c
	}
	return DefaultFallbackColor
}
