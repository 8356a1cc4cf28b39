package core

import (
	"testing"

	"github.com/huangsam/statdeck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func climateCharts(t *testing.T) map[schema.ChartKind]schema.Chart {
	t.Helper()
	radar, err := BuildProfiles(ClimateTable(), DefaultRadarEntities, schema.ClimateMetrics, climateOptions(schema.DegenerateFlag))
	require.NoError(t, err)
	charts, err := ClimateChartSet(ClimateRecords(), radar, DefaultSeasonPalette())
	require.NoError(t, err)
	return charts
}

// TestClimateChartSet checks the data behind each climate chart.
func TestClimateChartSet(t *testing.T) {
	charts := climateCharts(t)
	require.Len(t, charts, len(schema.ClimateChartKinds))
	for _, k := range schema.ClimateChartKinds {
		c, ok := charts[k]
		require.True(t, ok, "missing %s", k)
		assert.Equal(t, k, c.Kind)
		assert.NotEmpty(t, c.Title)
	}

	bar := charts[schema.BarChart]
	require.NotNil(t, bar.Bars)
	assert.Len(t, bar.Categories, 12)
	assert.Equal(t, "#2196F3", bar.Bars.Colors[0], "January is winter")
	assert.Equal(t, 30.0, bar.Bars.Values[6])

	bubble := charts[schema.BubbleChart].Series[0]
	assert.Equal(t, float64(BubbleMaxSize), bubble.Sizes[6], "July has the largest |low|")
	assert.Equal(t, float64(BubbleMaxSize), bubble.Sizes[7], "August ties July")
	assert.Equal(t, float64(BubbleMinSize), bubble.Sizes[2], "March has a zero low")
	assert.Less(t, bubble.Sizes[0], float64(BubbleMaxSize))
	assert.Greater(t, bubble.Sizes[0], bubble.Sizes[10], "January is colder than November")

	violin := charts[schema.ViolinChart]
	assert.Equal(t, []string{SeasonWinter, SeasonSpring, SeasonSummer, SeasonAutumn}, violin.Categories)
	require.Len(t, violin.Dists, 4)
	assert.Equal(t, []float64{0, 1.9, 3.6}, violin.Dists[0].Samples[0])
	assert.Empty(t, violin.Dists[0].Samples[1])
	require.Len(t, violin.Dists[0].Densities, 4)
	assert.Len(t, violin.Dists[0].Densities[0].X, DefaultKDEGridSize)
	assert.Empty(t, violin.Dists[0].Densities[1].X, "other seasons stay undrawn")

	box := charts[schema.BoxChart]
	require.Len(t, box.Dists, 2)
	assert.Equal(t, []float64{16, 17, 23}, box.Dists[0].Samples[1])
	assert.Equal(t, []float64{0, 2, 8}, box.Dists[1].Samples[1])

	hist := charts[schema.HistChart].Hist
	require.NotNil(t, hist)
	assert.Len(t, hist.Bins, HighTempBins)
	assert.NotNil(t, hist.Overlay)

	kde := charts[schema.KDEChart].Density
	require.NotNil(t, kde)
	assert.Len(t, kde.Rug, 12)
	assert.Len(t, kde.Curve.X, DefaultKDEGridSize)

	heat := charts[schema.HeatmapChart].Matrix
	require.NotNil(t, heat)
	assert.Equal(t, DisplayName(schema.MetricHighTemp), heat.Names[0])

	pie := charts[schema.PieChart].Slices
	require.Len(t, pie, 4)
	for _, s := range pie {
		assert.Equal(t, 3.0, s.Value)
	}

	radar := charts[schema.RadarChart]
	require.NotNil(t, radar.Radar)
	assert.Len(t, radar.Radar.Polygons, 4)
	assert.Len(t, radar.Categories, 3)
}

func TestClimateChartSetEmpty(t *testing.T) {
	_, err := ClimateChartSet(nil, schema.RadarResult{}, nil)
	assert.Error(t, err)
}

// TestClimateDecks tests panel placement for every layout.
func TestClimateDecks(t *testing.T) {
	charts := climateCharts(t)

	t.Run("dashboard", func(t *testing.T) {
		decks, err := ClimateDecks(schema.DashboardLayout, charts)
		require.NoError(t, err)
		require.Len(t, decks, 1)
		d := decks[0]
		assert.Equal(t, 4, d.Rows)
		assert.Equal(t, 4, d.Cols)
		require.Len(t, d.Panels, 11)
		wide := d.Panels[8:]
		assert.Equal(t, schema.HeatmapChart, wide[0].Chart.Kind)
		assert.Equal(t, schema.Panel{Row: 2, Col: 0, RowSpan: 1, ColSpan: 2}, withoutChart(wide[0]))
		assert.Equal(t, schema.Panel{Row: 2, Col: 2, RowSpan: 1, ColSpan: 2}, withoutChart(wide[1]))
		assert.Equal(t, schema.Panel{Row: 3, Col: 1, RowSpan: 1, ColSpan: 2}, withoutChart(wide[2]))
		assertNoOverlap(t, d)
	})

	t.Run("grid", func(t *testing.T) {
		decks, err := ClimateDecks(schema.GridLayout, charts)
		require.NoError(t, err)
		require.Len(t, decks, 1)
		assert.Len(t, decks[0].Panels, 9)
		assertNoOverlap(t, decks[0])
	})

	t.Run("gallery", func(t *testing.T) {
		decks, err := ClimateDecks(schema.GalleryLayout, charts)
		require.NoError(t, err)
		require.Len(t, decks, 11)
		assert.Equal(t, "climate-bar", decks[0].Name)
		for _, d := range decks {
			assert.Len(t, d.Panels, 1)
		}
	})

	t.Run("unknown layout", func(t *testing.T) {
		_, err := ClimateDecks("mosaic", charts)
		assert.Error(t, err)
	})

	t.Run("missing chart", func(t *testing.T) {
		partial := map[schema.ChartKind]schema.Chart{schema.BarChart: charts[schema.BarChart]}
		_, err := ClimateDecks(schema.GridLayout, partial)
		assert.Error(t, err)
	})
}

func withoutChart(p schema.Panel) schema.Panel {
	p.Chart = schema.Chart{}
	return p
}

func assertNoOverlap(t *testing.T, d schema.Deck) {
	t.Helper()
	used := make(map[[2]int]bool)
	for _, p := range d.Panels {
		for r := p.Row; r < p.Row+p.RowSpan; r++ {
			for c := p.Col; c < p.Col+p.ColSpan; c++ {
				cell := [2]int{r, c}
				assert.False(t, used[cell], "cell %v used twice", cell)
				assert.Less(t, r, d.Rows)
				assert.Less(t, c, d.Cols)
				used[cell] = true
			}
		}
	}
}

func sampleSurvey() []schema.FreelancerRecord {
	f := func(v float64) *float64 { return &v }
	return []schema.FreelancerRecord{
		{Gender: "Female", HourlyRate: f(40), IsActive: f(1), Satisfaction: f(90), Country: "Peru", PrimarySkill: "Design", Age: f(30), YearsOfExperience: f(5), Rating: f(4.5)},
		{Gender: "Male", HourlyRate: f(55), IsActive: f(0), Satisfaction: f(70), Country: "India", PrimarySkill: "Web", Age: f(41), YearsOfExperience: f(12), Rating: f(3.9)},
		{Gender: "Female", IsActive: f(1), Country: "India", PrimarySkill: "Web", Age: f(25), Rating: f(4.1)},
	}
}

func TestSurveyOverviewDeck(t *testing.T) {
	deck := SurveyOverviewDeck(sampleSurvey())
	assert.Equal(t, 3, deck.Rows)
	assert.Equal(t, 3, deck.Cols)
	require.Len(t, deck.Panels, 9)
	assertNoOverlap(t, deck)

	gender := deck.Panels[0].Chart
	assert.Equal(t, []string{"Female", "Male"}, gender.Categories)
	assert.Equal(t, []float64{2, 1}, gender.Bars.Values)

	countries := deck.Panels[1].Chart
	assert.True(t, countries.Bars.Horizontal)
	assert.Equal(t, []string{"India", "Peru"}, countries.Categories)

	rate := deck.Panels[7].Chart
	assert.Equal(t, []float64{40, 55}, rate.Hist.Values)

	active := deck.Panels[8].Chart
	assert.Equal(t, []string{"0", "1"}, active.Categories)
	assert.Equal(t, []float64{1, 2}, active.Bars.Values)
}

func TestSurveyRelationsDeck(t *testing.T) {
	deck := SurveyRelationsDeck(sampleSurvey())
	require.Len(t, deck.Panels, 4)
	assertNoOverlap(t, deck)

	expRate := deck.Panels[1].Chart.Series[0]
	assert.Equal(t, []float64{5, 12}, expRate.X, "rows missing a coordinate are dropped")
	assert.Equal(t, []float64{40, 55}, expRate.Y)
	assert.Equal(t, RelationsAlpha, expRate.Alpha)
}

func TestSurveyDecks(t *testing.T) {
	_, err := SurveyDecks(schema.OverviewDeck, sampleSurvey())
	assert.NoError(t, err)
	_, err = SurveyDecks(schema.RelationsDeck, sampleSurvey())
	assert.NoError(t, err)
	_, err = SurveyDecks("misc", sampleSurvey())
	assert.Error(t, err)
}
