package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching and run history.
	DatabaseBackend string

	// DegeneratePolicy decides what happens to a metric whose selected range is zero.
	DegeneratePolicy string

	// Layout represents how the climate charts are arranged.
	Layout string

	// RenderFormat represents the file format of rendered decks.
	RenderFormat string

	// ChartKind represents one of the fixed chart types.
	ChartKind string

	// SurveyDeck represents one of the survey chart decks.
	SurveyDeck string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// All degenerate policies supported.
const (
	DegenerateFlag  DegeneratePolicy = "flag" // default, radius stays NaN
	DegenerateError DegeneratePolicy = "error"
	DegenerateZero  DegeneratePolicy = "zero"
)

// All climate layouts supported.
const (
	DashboardLayout Layout = "dashboard" // default, 4x4 grid
	GridLayout      Layout = "grid"      // 3x3 grid
	GalleryLayout   Layout = "gallery"   // one file per chart
)

// All render formats supported.
const (
	PNGFormat  RenderFormat = "png" // default
	SVGFormat  RenderFormat = "svg"
	HTMLFormat RenderFormat = "html"
)

// All chart kinds supported.
const (
	BarChart     ChartKind = "bar"
	BubbleChart  ChartKind = "bubble"
	ViolinChart  ChartKind = "violin"
	ScatterChart ChartKind = "scatter"
	PointChart   ChartKind = "point"
	BoxChart     ChartKind = "box"
	HistChart    ChartKind = "hist"
	KDEChart     ChartKind = "kde"
	HeatmapChart ChartKind = "heatmap"
	PieChart     ChartKind = "pie"
	RadarChart   ChartKind = "radar"
)

// All survey decks supported.
const (
	OverviewDeck  SurveyDeck = "overview"
	RelationsDeck SurveyDeck = "relations"
)

// ClimateChartKinds lists the climate charts in dashboard order.
var ClimateChartKinds = []ChartKind{
	BarChart, BubbleChart, ViolinChart, ScatterChart,
	PointChart, BoxChart, HistChart, KDEChart,
	HeatmapChart, PieChart, RadarChart,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidDegeneratePolicies lists all valid degenerate policies.
var ValidDegeneratePolicies = map[DegeneratePolicy]struct{}{
	DegenerateFlag:  {},
	DegenerateError: {},
	DegenerateZero:  {},
}

// ValidLayouts lists all valid climate layouts.
var ValidLayouts = map[Layout]struct{}{
	DashboardLayout: {},
	GridLayout:      {},
	GalleryLayout:   {},
}

// ValidRenderFormats lists all valid render formats.
var ValidRenderFormats = map[RenderFormat]struct{}{
	PNGFormat:  {},
	SVGFormat:  {},
	HTMLFormat: {},
}

// ValidSurveyDecks lists all valid survey decks.
var ValidSurveyDecks = map[SurveyDeck]struct{}{
	OverviewDeck:  {},
	RelationsDeck: {},
}
