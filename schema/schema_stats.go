package schema

// Summary holds descriptive statistics of one numeric column.
type Summary struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Missing int     `json:"missing"`
	Mean    float64 `json:"mean"`
	Std     float64 `json:"std"`
	Min     float64 `json:"min"`
	Q1      float64 `json:"q1"`
	Median  float64 `json:"median"`
	Q3      float64 `json:"q3"`
	Max     float64 `json:"max"`
}

// CorrelationMatrix holds pairwise Pearson coefficients. Values[i][j] pairs Names[i] and Names[j].
type CorrelationMatrix struct {
	Names  []string    `json:"names"`
	Values [][]float64 `json:"values"`
}

// HistogramBin is one equal-width bin. Max is exclusive except for the last bin.
type HistogramBin struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Density is a kernel density curve sampled on a grid.
type Density struct {
	X         []float64 `json:"x"`
	Y         []float64 `json:"y"`
	Bandwidth float64   `json:"bandwidth"`
}

// ValueCount is the frequency of one categorical label.
type ValueCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// LongRecord is one row of a melted (long format) table.
type LongRecord struct {
	Entity   string  `json:"entity"`
	Group    string  `json:"group"`
	Variable string  `json:"variable"`
	Value    float64 `json:"value"`
}
