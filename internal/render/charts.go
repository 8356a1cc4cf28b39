package render

import (
	"fmt"
	"image/color"
	"math"
	"slices"

	"github.com/huangsam/statdeck/schema"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Geometry of grouped and single-category marks, in data units or points.
const (
	barWidth     = vg.Length(14)
	boxWidth     = vg.Length(14)
	violinWidth  = 0.8
	rugHeight    = 0.1
	fillAlpha    = 0.25
	heatmapSteps = 255
)

// buildPlot turns one chart into a plot.
func buildPlot(ch schema.Chart, st style) (*plot.Plot, error) {
	p := st.newPlot(ch.Title)
	p.X.Label.Text = ch.XLabel
	p.Y.Label.Text = ch.YLabel

	var err error
	switch ch.Kind {
	case schema.BarChart:
		err = addBars(p, ch, st)
	case schema.BubbleChart, schema.ScatterChart, schema.PointChart:
		err = addSeries(p, ch, st)
	case schema.ViolinChart:
		addViolins(p, ch, st)
	case schema.BoxChart:
		err = addBoxes(p, ch, st)
	case schema.HistChart:
		err = addHist(p, ch, st)
	case schema.KDEChart:
		err = addDensity(p, ch, st)
	case schema.HeatmapChart:
		err = addHeatmap(p, ch, st)
	case schema.PieChart:
		addPie(p, ch, st)
	case schema.RadarChart:
		addRadar(p, ch, st)
	default:
		err = fmt.Errorf("unknown chart kind %q", ch.Kind)
	}
	return p, err
}

// addBars draws one bar per category, each with its own color.
func addBars(p *plot.Plot, ch schema.Chart, st style) error {
	b := ch.Bars
	if b == nil || len(b.Values) == 0 {
		return nil
	}
	n := len(b.Values)
	labels := plotter.XYLabels{}
	for i, v := range b.Values {
		pos := float64(i)
		if b.Horizontal {
			// First category on top
			pos = float64(n - 1 - i)
		}
		bar, err := plotter.NewBarChart(plotter.Values{v}, barWidth)
		if err != nil {
			return err
		}
		bar.XMin = pos
		bar.Horizontal = b.Horizontal
		bar.Color = st.colorOf(pick(b.Colors, i))
		bar.LineStyle.Width = 0
		p.Add(bar)

		if b.LabelFormat != "" {
			xy := plotter.XY{X: pos, Y: v}
			if b.Horizontal {
				xy = plotter.XY{X: v, Y: pos}
			}
			labels.XYs = append(labels.XYs, xy)
			labels.Labels = append(labels.Labels, fmt.Sprintf(b.LabelFormat, v))
		}
	}

	names := slices.Clone(ch.Categories)
	if b.Horizontal {
		slices.Reverse(names)
		p.NominalY(names...)
	} else {
		p.NominalX(names...)
	}

	if len(labels.XYs) > 0 {
		l, err := plotter.NewLabels(labels)
		if err != nil {
			return err
		}
		for i := range l.TextStyle {
			l.TextStyle[i] = st.textStyle(st.label - 2)
			l.TextStyle[i].YAlign = draw.YBottom
		}
		l.Offset = vg.Point{Y: vg.Points(2)}
		p.Add(l)
	}
	return nil
}

// addSeries draws scatter, bubble and point-line series.
func addSeries(p *plot.Plot, ch schema.Chart, st style) error {
	for _, s := range ch.Series {
		xys := make(plotter.XYs, 0, len(s.X))
		sizes := make([]float64, 0, len(s.X))
		for i := range s.X {
			if math.IsNaN(s.X[i]) || math.IsNaN(s.Y[i]) {
				continue
			}
			xys = append(xys, plotter.XY{X: s.X[i], Y: s.Y[i]})
			sizes = append(sizes, markerArea(s.Sizes, i))
		}
		if len(xys) == 0 {
			continue
		}
		clr := withAlpha(st.colorOf(s.Color), s.Alpha)

		if s.Line {
			line, points, err := plotter.NewLinePoints(xys)
			if err != nil {
				return err
			}
			line.Color = clr
			line.Width = vg.Points(1.5)
			if s.Dashed {
				line.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}
			}
			points.Color = clr
			points.Shape = draw.CircleGlyph{}
			points.Radius = vg.Points(3)
			p.Add(line, points)
			p.Legend.Add(s.Name, line, points)
			continue
		}

		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
			return draw.GlyphStyle{Color: clr, Shape: draw.CircleGlyph{}, Radius: areaRadius(sizes[i])}
		}
		sc.GlyphStyle = draw.GlyphStyle{Color: clr, Shape: draw.CircleGlyph{}, Radius: vg.Points(3)}
		p.Add(sc)
		if len(ch.Series) > 1 || ch.Kind == schema.BubbleChart {
			p.Legend.Add(s.Name, sc)
		}
	}
	if len(ch.Categories) > 0 {
		p.NominalX(ch.Categories...)
	}
	return nil
}

// addViolins draws the precomputed density of every sample slot.
func addViolins(p *plot.Plot, ch schema.Chart, st style) {
	var peak float64
	for _, d := range ch.Dists {
		for _, dens := range d.Densities {
			for _, y := range dens.Y {
				peak = math.Max(peak, y)
			}
		}
	}
	for _, d := range ch.Dists {
		curves := make([][2][]float64, len(ch.Categories))
		for slot, dens := range d.Densities {
			if slot < len(curves) {
				curves[slot] = [2][]float64{dens.X, dens.Y}
			}
		}
		quartiles := make([][3]float64, len(ch.Categories))
		for slot := range quartiles {
			quartiles[slot] = [3]float64{math.NaN(), math.NaN(), math.NaN()}
			if slot < len(d.Samples) {
				q1, median, q3 := schema.Quartiles(d.Samples[slot])
				quartiles[slot] = [3]float64{q1, median, q3}
			}
		}
		clr := st.colorOf(d.Color)
		p.Add(violin{
			curves:    curves,
			quartiles: quartiles,
			fill:      clr,
			line:      draw.LineStyle{Color: color.Gray{Y: 0x40}, Width: vg.Points(0.75)},
			width:     violinWidth,
			peak:      peak,
		})
	}
	p.NominalX(ch.Categories...)
}

// addBoxes draws one box per series and category, dodged side by side.
func addBoxes(p *plot.Plot, ch schema.Chart, st style) error {
	n := len(ch.Dists)
	for si, d := range ch.Dists {
		clr := st.colorOf(d.Color)
		offset := (vg.Length(si) - vg.Length(n-1)/2) * boxWidth
		for slot, sample := range d.Samples {
			if len(sample) == 0 {
				continue
			}
			box, err := plotter.NewBoxPlot(boxWidth, float64(slot), plotter.Values(sample))
			if err != nil {
				return err
			}
			box.Offset = offset
			box.FillColor = clr
			p.Add(box)
		}
		p.Legend.Add(d.Name, swatch{color: clr})
	}
	p.NominalX(ch.Categories...)
	return nil
}

// addHist draws precomputed bins and the optional density overlay.
func addHist(p *plot.Plot, ch schema.Chart, st style) error {
	h := ch.Hist
	if h == nil || len(h.Bins) == 0 {
		return nil
	}
	clr := st.colorOf(h.Color)
	bins := make([]plotter.HistogramBin, len(h.Bins))
	for i, b := range h.Bins {
		bins[i] = plotter.HistogramBin{Min: b.Min, Max: b.Max, Weight: float64(b.Count)}
	}
	hist := &plotter.Histogram{
		Bins:      bins,
		Width:     h.Bins[0].Max - h.Bins[0].Min,
		FillColor: withAlpha(clr, 0.6),
		LineStyle: draw.LineStyle{Color: color.White, Width: vg.Points(0.5)},
	}
	p.Add(hist)

	if h.Overlay != nil && len(h.Overlay.X) > 0 {
		line, err := plotter.NewLine(curveXYs(h.Overlay.X, h.Overlay.Y))
		if err != nil {
			return err
		}
		line.Color = clr
		line.Width = vg.Points(1.5)
		p.Add(line)
	}
	return nil
}

// addDensity draws a filled density curve with a rug of observations.
func addDensity(p *plot.Plot, ch schema.Chart, st style) error {
	d := ch.Density
	if d == nil || len(d.Curve.X) == 0 {
		return nil
	}
	clr := st.colorOf(d.Color)
	line, err := plotter.NewLine(curveXYs(d.Curve.X, d.Curve.Y))
	if err != nil {
		return err
	}
	line.Color = clr
	line.Width = vg.Points(1.5)
	if d.Fill {
		line.FillColor = withAlpha(clr, fillAlpha)
	}
	p.Add(line)
	if len(d.Rug) > 0 {
		p.Add(rug{values: d.Rug, color: clr, height: rugHeight})
	}
	p.Y.Min = 0
	return nil
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ with the first name on top.
type corrGrid struct {
	values [][]float64
}

func (g corrGrid) Dims() (c, r int)   { return len(g.values), len(g.values) }
func (g corrGrid) Z(c, r int) float64 { return g.values[len(g.values)-1-r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

// addHeatmap draws the correlation matrix on a fixed [-1, 1] blue-red scale with value labels.
func addHeatmap(p *plot.Plot, ch schema.Chart, st style) error {
	m := ch.Matrix
	if m == nil || len(m.Names) == 0 {
		return nil
	}
	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)
	grid := corrGrid{values: m.Values}
	hm := plotter.NewHeatMap(grid, cmap.Palette(heatmapSteps))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.White
	p.Add(hm)

	n := len(m.Names)
	labels := plotter.XYLabels{}
	for r := range n {
		for c := range n {
			v := grid.Z(c, r)
			if math.IsNaN(v) {
				continue
			}
			labels.XYs = append(labels.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			labels.Labels = append(labels.Labels, fmt.Sprintf("%.2f", v))
		}
	}
	if len(labels.XYs) > 0 {
		l, err := plotter.NewLabels(labels)
		if err != nil {
			return err
		}
		for i := range l.TextStyle {
			l.TextStyle[i] = st.textStyle(st.label)
		}
		p.Add(l)
	}

	names := slices.Clone(m.Names)
	p.NominalX(names...)
	slices.Reverse(names)
	p.NominalY(names...)
	return nil
}

// addPie draws the wedges with hidden axes.
func addPie(p *plot.Plot, ch schema.Chart, st style) {
	w := pie{text: st.textStyle(st.label - 1)}
	for _, s := range ch.Slices {
		w.values = append(w.values, s.Value)
		w.labels = append(w.labels, s.Label)
		w.colors = append(w.colors, st.colorOf(s.Color))
	}
	p.HideAxes()
	p.Add(w)
}

// addRadar draws the radar result. Undefined radii break their ring.
func addRadar(p *plot.Plot, ch schema.Chart, st style) {
	r := radar{axes: ch.Categories, text: st.textStyle(st.label - 1), alpha: fillAlpha}
	if ch.Radar != nil {
		if len(r.axes) == 0 {
			r.axes = ch.Radar.Metrics
		}
		for _, poly := range ch.Radar.Polygons {
			r.rings = append(r.rings, radarRing{
				name:   poly.Entity,
				angles: poly.Angles,
				radii:  poly.Radii,
				color:  st.colorOf(poly.Color),
			})
		}
	}
	p.HideAxes()
	p.Add(r)
	r.legend(p)
}

// curveXYs pairs two equal-length slices.
func curveXYs(x, y []float64) plotter.XYs {
	out := make(plotter.XYs, len(x))
	for i := range x {
		out[i] = plotter.XY{X: x[i], Y: y[i]}
	}
	return out
}

// pick returns the i-th entry, or the only entry of a one-element slice.
func pick(values []string, i int) string {
	switch {
	case len(values) == 1:
		return values[0]
	case i < len(values):
		return values[i]
	default:
		return ""
	}
}

// markerArea returns the marker area of point i in points squared.
func markerArea(sizes []float64, i int) float64 {
	switch {
	case len(sizes) == 1:
		return sizes[0]
	case i < len(sizes):
		return sizes[i]
	default:
		return 36
	}
}

// areaRadius converts a marker area into a glyph radius.
func areaRadius(area float64) vg.Length {
	return vg.Points(math.Sqrt(math.Max(area, 1) / math.Pi))
}
