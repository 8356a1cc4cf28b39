package schema

// Deck is a titled grid of chart panels rendered as one figure.
type Deck struct {
	Name   string  `json:"name"` // Used as the file stem in gallery output
	Title  string  `json:"title"`
	Rows   int     `json:"rows"`
	Cols   int     `json:"cols"`
	Panels []Panel `json:"panels"`
}

// Panel places one chart on the deck grid. Spans are at least 1.
type Panel struct {
	Row     int   `json:"row"`
	Col     int   `json:"col"`
	RowSpan int   `json:"row_span"`
	ColSpan int   `json:"col_span"`
	Chart   Chart `json:"chart"`
}

// Chart describes one fixed chart kind and the data it draws.
// Only the payload fields relevant to Kind are set.
type Chart struct {
	Kind       ChartKind `json:"kind"`
	Title      string    `json:"title"`
	XLabel     string    `json:"x_label,omitempty"`
	YLabel     string    `json:"y_label,omitempty"`
	Categories []string  `json:"categories,omitempty"` // Nominal axis labels

	Bars    *BarSeries         `json:"bars,omitempty"`
	Series  []XYSeries         `json:"series,omitempty"`
	Dists   []DistSeries       `json:"dists,omitempty"`
	Hist    *HistSeries        `json:"hist,omitempty"`
	Density *DensitySeries     `json:"density,omitempty"`
	Matrix  *CorrelationMatrix `json:"matrix,omitempty"`
	Slices  []Slice            `json:"slices,omitempty"`
	Radar   *RadarResult       `json:"radar,omitempty"`
}

// BarSeries is one bar per category.
type BarSeries struct {
	Values      []float64 `json:"values"`
	Colors      []string  `json:"colors"`                 // Per bar; a single entry colors every bar
	LabelFormat string    `json:"label_format,omitempty"` // Printf format of value labels, empty hides them
	Horizontal  bool      `json:"horizontal,omitempty"`
}

// XYSeries is a set of points, optionally connected or sized.
type XYSeries struct {
	Name   string    `json:"name"`
	Color  string    `json:"color"`
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
	Sizes  []float64 `json:"sizes,omitempty"` // Marker areas in points squared; a single entry sizes every marker
	Alpha  float64   `json:"alpha,omitempty"` // 0 means opaque
	Line   bool      `json:"line,omitempty"`
	Dashed bool      `json:"dashed,omitempty"`
}

// DistSeries holds one sample per category for violin and box charts.
type DistSeries struct {
	Name    string      `json:"name"`
	Color   string      `json:"color"`
	Samples [][]float64 `json:"samples"` // Aligned with Chart.Categories

	// Densities holds one curve per sample for violins. A zero Density leaves the slot undrawn.
	Densities []Density `json:"densities,omitempty"`
}

// HistSeries is a histogram with an optional density overlay scaled to counts.
type HistSeries struct {
	Values  []float64      `json:"values"`
	Bins    []HistogramBin `json:"bins"`
	Color   string         `json:"color"`
	Overlay *Density       `json:"overlay,omitempty"`
}

// DensitySeries is a density curve with an optional rug of observations.
type DensitySeries struct {
	Curve Density   `json:"curve"`
	Rug   []float64 `json:"rug,omitempty"`
	Color string    `json:"color"`
	Fill  bool      `json:"fill,omitempty"`
}

// Slice is one wedge of a pie chart.
type Slice struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}
