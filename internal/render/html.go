package render

import (
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/huangsam/statdeck/internal/contract"
	"github.com/huangsam/statdeck/schema"
)

// heatmapColors runs from blue through white to red like a diverging colormap.
var heatmapColors = []string{"#3b4cc0", "#7396f5", "#b0cbfc", "#f2f2f2", "#f6bfa6", "#e7745b", "#b40426"}

// HTMLRenderer writes decks as interactive pages with one go-echarts chart per panel.
// Violins fall back to box plots since echarts has no violin series.
type HTMLRenderer struct{}

var _ contract.Renderer = &HTMLRenderer{} // Compile-time check

// NewHTMLRenderer returns an HTML renderer.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// Extension implements the Renderer interface.
func (r *HTMLRenderer) Extension() string {
	return string(schema.HTMLFormat)
}

// Render implements the Renderer interface.
func (r *HTMLRenderer) Render(deck schema.Deck, theme contract.Theme, w io.Writer) error {
	if deck.Rows < 1 || deck.Cols < 1 {
		return fmt.Errorf("deck %s has an empty grid", deck.Name)
	}
	page := components.NewPage()
	page.SetPageTitle(deck.Title)
	page.SetLayout(components.PageFlexLayout)

	h := htmlStyle{theme: theme}
	for _, panel := range deck.Panels {
		chart, err := h.buildChart(panel)
		if err != nil {
			return fmt.Errorf("panel %q: %w", panel.Chart.Title, err)
		}
		page.AddCharts(chart)
	}
	return page.Render(w)
}

// htmlStyle carries the theme into chart options.
type htmlStyle struct {
	theme contract.Theme
}

// global returns the options shared by every chart of a panel.
func (h htmlStyle) global(panel schema.Panel) []charts.GlobalOpts {
	width := orDefault(h.theme.PanelWidth, contract.DefaultPanelWidth) * float64(max(panel.ColSpan, 1))
	height := orDefault(h.theme.PanelHeight, contract.DefaultPanelHeight) * float64(max(panel.RowSpan, 1))
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  fmt.Sprintf("%.0fpx", width),
			Height: fmt.Sprintf("%.0fpx", height),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:      panel.Chart.Title,
			TitleStyle: &opts.TextStyle{FontSize: int(orDefault(h.theme.TitleSize, contract.DefaultTitleSize))},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

// axes returns the axis options of rectangular charts.
func (h htmlStyle) axes(ch schema.Chart, xType string) []charts.GlobalOpts {
	x := opts.XAxis{Name: ch.XLabel, NameLocation: "middle", NameGap: 25, Type: xType}
	if xType == "category" {
		x.Data = ch.Categories
	}
	return []charts.GlobalOpts{
		charts.WithXAxisOpts(x),
		charts.WithYAxisOpts(opts.YAxis{Name: ch.YLabel, NameLocation: "middle", NameGap: 35}),
	}
}

// color resolves a series color, falling back to the theme.
func (h htmlStyle) color(hex string) string {
	if hex != "" {
		return hex
	}
	if h.theme.FallbackColor != "" {
		return h.theme.FallbackColor
	}
	return contract.DefaultFallback
}

// buildChart turns one panel into an echarts chart.
func (h htmlStyle) buildChart(panel schema.Panel) (components.Charter, error) {
	ch := panel.Chart
	global := h.global(panel)
	switch ch.Kind {
	case schema.BarChart:
		return h.barChart(ch, global), nil
	case schema.BubbleChart, schema.ScatterChart, schema.PointChart:
		return h.xyChart(ch, global), nil
	case schema.ViolinChart, schema.BoxChart:
		return h.boxChart(ch, global), nil
	case schema.HistChart:
		return h.histChart(ch, global), nil
	case schema.KDEChart:
		return h.densityChart(ch, global), nil
	case schema.HeatmapChart:
		return h.heatmapChart(ch, global), nil
	case schema.PieChart:
		return h.pieChart(ch, global), nil
	case schema.RadarChart:
		return h.radarChart(ch, global), nil
	default:
		return nil, fmt.Errorf("unknown chart kind %q", ch.Kind)
	}
}

func (h htmlStyle) barChart(ch schema.Chart, global []charts.GlobalOpts) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(append(global, h.axes(ch, "category")...)...)
	bar.SetXAxis(ch.Categories)
	if ch.Bars == nil {
		return bar
	}
	data := make([]opts.BarData, 0, len(ch.Bars.Values))
	for i, v := range ch.Bars.Values {
		item := opts.BarData{
			Value:     v,
			ItemStyle: &opts.ItemStyle{Color: h.color(pick(ch.Bars.Colors, i))},
		}
		if ch.Bars.LabelFormat != "" {
			item.Label = &opts.Label{
				Show:      opts.Bool(true),
				Formatter: types.FuncStr(fmt.Sprintf(ch.Bars.LabelFormat, v)),
			}
		}
		data = append(data, item)
	}
	bar.AddSeries(ch.YLabel, data)
	if ch.Bars.Horizontal {
		bar.XYReversal()
	}
	return bar
}

// xyChart draws point series. Any connected series turns the chart into a line chart.
func (h htmlStyle) xyChart(ch schema.Chart, global []charts.GlobalOpts) components.Charter {
	xType := "value"
	if len(ch.Categories) > 0 {
		xType = "category"
	}
	global = append(global, h.axes(ch, xType)...)
	if len(ch.Series) > 1 || ch.Kind == schema.BubbleChart {
		global = append(global, charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}))
	}

	if slices.ContainsFunc(ch.Series, func(s schema.XYSeries) bool { return s.Line }) {
		line := charts.NewLine()
		line.SetGlobalOptions(global...)
		for _, s := range ch.Series {
			data := make([]opts.LineData, 0, len(s.X))
			for i := range s.X {
				data = append(data, opts.LineData{Value: []any{s.X[i], s.Y[i]}})
			}
			style := opts.LineStyle{Color: h.color(s.Color)}
			switch {
			case !s.Line:
				style.Opacity = opts.Float(0)
			case s.Dashed:
				style.Type = "dashed"
			}
			line.AddSeries(s.Name, data,
				charts.WithLineStyleOpts(style),
				charts.WithItemStyleOpts(opts.ItemStyle{Color: h.color(s.Color)}),
			)
		}
		return line
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(global...)
	for _, s := range ch.Series {
		data := make([]opts.ScatterData, 0, len(s.X))
		for i := range s.X {
			data = append(data, opts.ScatterData{
				Value:      []any{s.X[i], s.Y[i]},
				SymbolSize: int(math.Round(float64(2 * areaRadius(markerArea(s.Sizes, i))))),
			})
		}
		item := opts.ItemStyle{Color: h.color(s.Color)}
		if s.Alpha > 0 && s.Alpha < 1 {
			item.Opacity = opts.Float(float32(s.Alpha))
		}
		scatter.AddSeries(s.Name, data, charts.WithItemStyleOpts(item))
	}
	return scatter
}

// boxChart draws one box per category and series from five-number summaries.
func (h htmlStyle) boxChart(ch schema.Chart, global []charts.GlobalOpts) *charts.BoxPlot {
	box := charts.NewBoxPlot()
	box.SetGlobalOptions(append(global, h.axes(ch, "category")...)...)
	box.SetXAxis(ch.Categories)
	if len(ch.Dists) > 1 {
		box.SetGlobalOptions(charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}))
	}
	for _, d := range ch.Dists {
		data := make([]opts.BoxPlotData, 0, len(d.Samples))
		for _, sample := range d.Samples {
			data = append(data, opts.BoxPlotData{Value: fiveNumber(sample)})
		}
		box.AddSeries(d.Name, data, charts.WithItemStyleOpts(opts.ItemStyle{
			Color:       h.color(d.Color),
			BorderColor: "#333333",
		}))
	}
	return box
}

// histChart draws the bin counts as bars labeled by bin range.
func (h htmlStyle) histChart(ch schema.Chart, global []charts.GlobalOpts) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(global...)
	if ch.Hist == nil {
		return bar
	}
	labels := make([]string, 0, len(ch.Hist.Bins))
	data := make([]opts.BarData, 0, len(ch.Hist.Bins))
	for _, b := range ch.Hist.Bins {
		labels = append(labels, fmt.Sprintf("%.1f-%.1f", b.Min, b.Max))
		data = append(data, opts.BarData{Value: b.Count})
	}
	bar.SetGlobalOptions(
		charts.WithXAxisOpts(opts.XAxis{Name: ch.XLabel, NameLocation: "middle", NameGap: 25, Type: "category", Data: labels}),
		charts.WithYAxisOpts(opts.YAxis{Name: ch.YLabel, NameLocation: "middle", NameGap: 35}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("count", data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: h.color(ch.Hist.Color)}),
		charts.WithBarChartOpts(opts.BarChart{BarCategoryGap: "0%"}),
	)
	return bar
}

// densityChart draws a smooth density curve with its rug overlapped as points on zero.
func (h htmlStyle) densityChart(ch schema.Chart, global []charts.GlobalOpts) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(append(global, h.axes(ch, "value")...)...)
	if ch.Density == nil {
		return line
	}
	d := ch.Density
	data := make([]opts.LineData, 0, len(d.Curve.X))
	for i := range d.Curve.X {
		data = append(data, opts.LineData{Value: []any{d.Curve.X[i], d.Curve.Y[i]}})
	}
	seriesOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: h.color(d.Color)}),
	}
	if d.Fill {
		seriesOpts = append(seriesOpts, charts.WithAreaStyleOpts(opts.AreaStyle{
			Color:   h.color(d.Color),
			Opacity: opts.Float(fillAlpha),
		}))
	}
	line.AddSeries("density", data, seriesOpts...)

	if len(d.Rug) > 0 {
		rugPoints := make([]opts.ScatterData, 0, len(d.Rug))
		for _, v := range d.Rug {
			rugPoints = append(rugPoints, opts.ScatterData{Value: []any{v, 0}, Symbol: "rect", SymbolSize: 4})
		}
		marks := charts.NewScatter()
		marks.AddSeries("observations", rugPoints, charts.WithItemStyleOpts(opts.ItemStyle{Color: h.color(d.Color)}))
		line.Overlap(marks)
	}
	return line
}

// heatmapChart draws an annotated correlation grid on a fixed [-1, 1] scale.
func (h htmlStyle) heatmapChart(ch schema.Chart, global []charts.GlobalOpts) *charts.HeatMap {
	hm := charts.NewHeatMap()
	if ch.Matrix == nil {
		hm.SetGlobalOptions(global...)
		return hm
	}
	names := ch.Matrix.Names
	// Reversed so the first name sits on top
	yNames := slices.Clone(names)
	slices.Reverse(yNames)
	hm.SetGlobalOptions(append(global,
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: names}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: yNames}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        -1,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: heatmapColors},
		}),
	)...)
	hm.SetXAxis(names)

	n := len(names)
	data := make([]opts.HeatMapData, 0, n*n)
	for r, row := range ch.Matrix.Values {
		for c, v := range row {
			var value any = "-"
			if !math.IsNaN(v) {
				value = math.Round(v*100) / 100
			}
			data = append(data, opts.HeatMapData{Value: [3]any{c, n - 1 - r, value}})
		}
	}
	hm.AddSeries("correlation", data, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true)}))
	return hm
}

func (h htmlStyle) pieChart(ch schema.Chart, global []charts.GlobalOpts) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(global...)
	data := make([]opts.PieData, 0, len(ch.Slices))
	for _, s := range ch.Slices {
		data = append(data, opts.PieData{
			Name:      s.Label,
			Value:     s.Value,
			ItemStyle: &opts.ItemStyle{Color: h.color(s.Color), BorderColor: "#ffffff"},
		})
	}
	pie.AddSeries(ch.Title, data, charts.WithLabelOpts(opts.Label{
		Show:      opts.Bool(true),
		Formatter: "{b}: {d}%",
	}))
	return pie
}

// radarChart draws one filled series per polygon on unit-scaled axes.
// Undefined radii are sent as "-" so echarts leaves a gap.
func (h htmlStyle) radarChart(ch schema.Chart, global []charts.GlobalOpts) *charts.Radar {
	radar := charts.NewRadar()
	if ch.Radar == nil {
		radar.SetGlobalOptions(global...)
		return radar
	}
	axes := ch.Categories
	if len(axes) == 0 {
		axes = ch.Radar.Metrics
	}
	indicators := make([]*opts.Indicator, 0, len(axes))
	for _, name := range axes {
		indicators = append(indicators, &opts.Indicator{Name: name, Min: 0, Max: 1})
	}
	radar.SetGlobalOptions(append(global,
		charts.WithRadarComponentOpts(opts.RadarComponent{Indicator: indicators, SplitNumber: 4}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)...)

	m := len(axes)
	for _, poly := range ch.Radar.Polygons {
		values := make([]any, 0, m)
		for i := 0; i < m && i < len(poly.Radii); i++ {
			if math.IsNaN(poly.Radii[i]) {
				values = append(values, "-")
				continue
			}
			values = append(values, poly.Radii[i])
		}
		color := h.color(poly.Color)
		radar.AddSeries(poly.Entity, []opts.RadarData{{Name: poly.Entity, Value: values}},
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
			charts.WithAreaStyleOpts(opts.AreaStyle{Color: color, Opacity: opts.Float(fillAlpha)}),
		)
	}
	return radar
}

// fiveNumber returns min, lower quartile, median, upper quartile and max of a sample.
func fiveNumber(sample []float64) []float64 {
	clean := make([]float64, 0, len(sample))
	for _, v := range sample {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return nil
	}
	slices.Sort(clean)
	return []float64{
		clean[0],
		schema.Percentile(clean, 0.25),
		schema.Percentile(clean, 0.5),
		schema.Percentile(clean, 0.75),
		clean[len(clean)-1],
	}
}
