package schema

import "math"

// RadarPolygon is one closed ring of (angle, radius) pairs for an entity.
// Angles and Radii both hold M+1 values and repeat their first value at the end.
type RadarPolygon struct {
	Entity string    `json:"entity"`
	Group  string    `json:"group"`
	Color  string    `json:"color"`
	Angles []float64 `json:"angles"`
	Radii  []float64 `json:"radii"`
}

// Degenerate reports whether any radius of the polygon is undefined.
func (p RadarPolygon) Degenerate() bool {
	for _, r := range p.Radii {
		if math.IsNaN(r) {
			return true
		}
	}
	return false
}

// RadarResult is the output of building radar profiles.
type RadarResult struct {
	Metrics           []string         `json:"metrics"`
	Polygons          []RadarPolygon   `json:"polygons"`
	DegenerateMetrics []string         `json:"degenerate_metrics"`
	Unmatched         []string         `json:"unmatched"`
	Policy            DegeneratePolicy `json:"policy"`
}

// VertexCount returns the total number of vertices across polygons.
func (r RadarResult) VertexCount() int {
	n := 0
	for _, p := range r.Polygons {
		n += len(p.Radii)
	}
	return n
}
