package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// swatch is a legend thumbnail filled with one color.
type swatch struct {
	color color.Color
}

// Thumbnail implements the plot.Thumbnailer interface.
func (s swatch) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(s.color, c.ClipPolygonXY(pts))
}

// rug draws a short tick at the bottom of the data area for every observation.
type rug struct {
	values []float64
	color  color.Color
	height float64 // Fraction of the data area height
}

// Plot implements the plot.Plotter interface.
func (r rug) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, _ := plt.Transforms(&c)
	top := c.Min.Y + vg.Length(r.height)*(c.Max.Y-c.Min.Y)
	sty := draw.LineStyle{Color: r.color, Width: vg.Points(1)}
	for _, v := range r.values {
		x := trX(v)
		if !c.ContainsX(x) {
			continue
		}
		c.StrokeLine2(sty, x, c.Min.Y, x, top)
	}
}

// DataRange implements the plot.DataRanger interface.
func (r rug) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = math.Inf(1), math.Inf(-1)
	for _, v := range r.values {
		xmin, xmax = math.Min(xmin, v), math.Max(xmax, v)
	}
	return xmin, xmax, math.Inf(1), math.Inf(-1)
}

// violin draws mirrored density curves centered on nominal x positions.
// Curves are scaled so the widest one spans width data units.
// Quartiles of each slot are marked with dashed lines across the violin.
type violin struct {
	curves    [][2][]float64 // Per slot: grid values and densities
	quartiles [][3]float64   // Per slot: Q1, median, Q3 of the sample
	fill      color.Color
	line      draw.LineStyle
	width     float64
	peak      float64 // Largest density across every violin of the chart
}

// quartileMark is one horizontal quartile line in data units.
type quartileMark struct {
	y    float64
	half float64 // Half width of the violin at y
}

// quartileMarks returns the quartile lines of a slot, clipped to the violin outline.
func (v violin) quartileMarks(slot int) []quartileMark {
	if v.peak <= 0 || slot >= len(v.quartiles) || slot >= len(v.curves) {
		return nil
	}
	ys, dens := v.curves[slot][0], v.curves[slot][1]
	if len(ys) == 0 {
		return nil
	}
	var marks []quartileMark
	for _, q := range v.quartiles[slot] {
		if math.IsNaN(q) {
			continue
		}
		half := densityAt(ys, dens, q) / v.peak * v.width / 2
		if half > 0 {
			marks = append(marks, quartileMark{y: q, half: half})
		}
	}
	return marks
}

// densityAt linearly interpolates a density curve over ascending grid values.
// It is zero outside the grid.
func densityAt(xs, ys []float64, x float64) float64 {
	n := min(len(xs), len(ys))
	if n == 0 || x < xs[0] || x > xs[n-1] {
		return 0
	}
	for i := 1; i < n; i++ {
		if x <= xs[i] {
			span := xs[i] - xs[i-1]
			if span == 0 {
				return ys[i]
			}
			return ys[i-1] + (x-xs[i-1])/span*(ys[i]-ys[i-1])
		}
	}
	return ys[0]
}

// Plot implements the plot.Plotter interface.
func (v violin) Plot(c draw.Canvas, plt *plot.Plot) {
	if v.peak <= 0 {
		return
	}
	trX, trY := plt.Transforms(&c)
	for slot, curve := range v.curves {
		ys, dens := curve[0], curve[1]
		if len(ys) == 0 {
			continue
		}
		outline := make([]vg.Point, 0, 2*len(ys)+1)
		for i, y := range ys {
			half := dens[i] / v.peak * v.width / 2
			outline = append(outline, vg.Point{X: trX(float64(slot) + half), Y: trY(y)})
		}
		for i := len(ys) - 1; i >= 0; i-- {
			half := dens[i] / v.peak * v.width / 2
			outline = append(outline, vg.Point{X: trX(float64(slot) - half), Y: trY(ys[i])})
		}
		c.FillPolygon(v.fill, c.ClipPolygonXY(outline))
		outline = append(outline, outline[0])
		c.StrokeLines(v.line, c.ClipLinesXY(outline)...)

		for i, m := range v.quartileMarks(slot) {
			sty := v.line
			sty.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
			if i == 1 {
				sty.Dashes = []vg.Length{vg.Points(5), vg.Points(2)}
			}
			y := trY(m.y)
			c.StrokeLine2(sty, trX(float64(slot)-m.half), y, trX(float64(slot)+m.half), y)
		}
	}
}

// DataRange implements the plot.DataRanger interface.
func (v violin) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, xmax = -0.5, float64(len(v.curves))-0.5
	ymin, ymax = math.Inf(1), math.Inf(-1)
	for _, curve := range v.curves {
		for _, y := range curve[0] {
			ymin, ymax = math.Min(ymin, y), math.Max(ymax, y)
		}
	}
	return xmin, xmax, ymin, ymax
}

// pie draws wedges counterclockwise from 12 o'clock, sized to the data area.
// Percentages are printed inside each wedge and labels just outside it.
type pie struct {
	values []float64
	labels []string
	colors []color.Color
	text   text.Style
}

// Plot implements the plot.Plotter interface.
func (p pie) Plot(c draw.Canvas, _ *plot.Plot) {
	var total float64
	for _, v := range p.values {
		total += v
	}
	if total <= 0 {
		return
	}
	center := c.Center()
	radius := 0.8 * min(c.Max.X-c.Min.X, c.Max.Y-c.Min.Y) / 2
	edge := draw.LineStyle{Color: color.White, Width: vg.Points(1)}

	start := math.Pi / 2
	for i, v := range p.values {
		sweep := 2 * math.Pi * v / total
		wedge := []vg.Point{center}
		steps := max(2, int(sweep/(math.Pi/90)))
		for s := 0; s <= steps; s++ {
			wedge = append(wedge, polar(center, radius, start+sweep*float64(s)/float64(steps)))
		}
		c.FillPolygon(p.colors[i], wedge)
		c.StrokeLines(edge, append(wedge, center))

		mid := start + sweep/2
		c.FillText(p.text, polar(center, 0.6*radius, mid), fmt.Sprintf("%.1f%%", 100*v/total))
		c.FillText(p.text, polar(center, 1.15*radius, mid), p.labels[i])
		start += sweep
	}
}

// radarRing is one closed polygon of a radar chart.
type radarRing struct {
	name   string
	angles []float64
	radii  []float64 // NaN marks a vertex that is not drawn
	color  color.Color
}

// radar draws spokes, grid rings and one outlined, translucent polygon per ring.
type radar struct {
	axes  []string
	rings []radarRing
	text  text.Style
	alpha float64
}

// Plot implements the plot.Plotter interface.
func (r radar) Plot(c draw.Canvas, _ *plot.Plot) {
	center := c.Center()
	radius := 0.75 * min(c.Max.X-c.Min.X, c.Max.Y-c.Min.Y) / 2
	grid := draw.LineStyle{Color: color.Gray{Y: 0xcc}, Width: vg.Points(0.5)}

	for _, frac := range []float64{0.25, 0.5, 0.75, 1} {
		circle := make([]vg.Point, 0, 73)
		for s := 0; s <= 72; s++ {
			circle = append(circle, polar(center, vg.Length(frac)*radius, 2*math.Pi*float64(s)/72))
		}
		c.StrokeLines(grid, circle)
	}
	m := len(r.axes)
	for i, name := range r.axes {
		theta := 2 * math.Pi * float64(i) / float64(m)
		c.StrokeLines(grid, []vg.Point{center, polar(center, radius, theta)})
		c.FillText(r.text, polar(center, 1.15*radius, theta), name)
	}

	for _, ring := range r.rings {
		line := draw.LineStyle{Color: ring.color, Width: vg.Points(1.5)}
		var segment, finite []vg.Point
		for i, rad := range ring.radii {
			if math.IsNaN(rad) {
				// The ring is broken at an undefined vertex
				if len(segment) > 1 {
					c.StrokeLines(line, segment)
				}
				segment = nil
				continue
			}
			pt := polar(center, vg.Length(rad)*radius, ring.angles[i])
			segment = append(segment, pt)
			if i < len(ring.radii)-1 {
				finite = append(finite, pt)
			}
		}
		if len(segment) > 1 {
			c.StrokeLines(line, segment)
		}
		if len(finite) > 2 {
			c.FillPolygon(withAlpha(ring.color, r.alpha), finite)
		}
	}
}

// legend adds one entry per ring.
func (r radar) legend(p *plot.Plot) {
	for _, ring := range r.rings {
		p.Legend.Add(ring.name, swatch{color: ring.color})
	}
}

// polar converts an angle and radius around center into canvas coordinates.
func polar(center vg.Point, radius vg.Length, theta float64) vg.Point {
	return vg.Point{
		X: center.X + radius*vg.Length(math.Cos(theta)),
		Y: center.Y + radius*vg.Length(math.Sin(theta)),
	}
}
