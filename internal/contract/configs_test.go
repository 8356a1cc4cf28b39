package contract

import (
	"testing"

	"github.com/huangsam/statdeck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Output:       "text",
		Precision:    2,
		Color:        "yes",
		CacheBackend: "none",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "yaml" }, expectError: true},
		{name: "parquet without file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{name: "parquet with file", mutate: func(in *ConfigRawInput) { in.Output = "parquet"; in.OutputFile = "out.parquet" }},
		{name: "precision too high", mutate: func(in *ConfigRawInput) { in.Precision = 7 }, expectError: true},
		{name: "precision zero", mutate: func(in *ConfigRawInput) { in.Precision = 0 }},
		{name: "negative width", mutate: func(in *ConfigRawInput) { in.Width = -1 }, expectError: true},
		{name: "invalid color flag", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "unknown policy", mutate: func(in *ConfigRawInput) { in.Degenerate = "ignore" }, expectError: true},
		{name: "zero policy", mutate: func(in *ConfigRawInput) { in.Degenerate = "ZERO" }},
		{name: "unknown layout", mutate: func(in *ConfigRawInput) { in.Layout = "mosaic" }, expectError: true},
		{name: "unknown format", mutate: func(in *ConfigRawInput) { in.Format = "pdf" }, expectError: true},
		{name: "chart with unknown extension", mutate: func(in *ConfigRawInput) { in.Chart = "radar.bmp" }, expectError: true},
		{name: "chart with html extension", mutate: func(in *ConfigRawInput) { in.Chart = "radar.html" }},
		{name: "bad fallback color", mutate: func(in *ConfigRawInput) { in.FallbackColor = "grey" }, expectError: true},
		{name: "bad palette color", mutate: func(in *ConfigRawInput) { in.Palette = map[string]string{"春季": "#12"} }, expectError: true},
		{name: "negative panel size", mutate: func(in *ConfigRawInput) { in.PanelWidth = -10 }, expectError: true},
		{name: "invalid cache backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "redis" }, expectError: true},
		{name: "invalid history backend", mutate: func(in *ConfigRawInput) { in.HistoryBackend = "redis" }, expectError: true},
		{
			name:        "mysql without connection",
			mutate:      func(in *ConfigRawInput) { in.HistoryBackend = "mysql" },
			expectError: true,
		},
		{
			name: "same sqlite file",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend, in.CacheDBConnect = "sqlite", "/tmp/statdeck.db"
				in.HistoryBackend, in.HistoryDBConnect = "sqlite", "/tmp/statdeck.db"
			},
			expectError: true,
		},
		{
			name: "default sqlite files differ",
			mutate: func(in *ConfigRawInput) {
				in.CacheBackend = "sqlite"
				in.HistoryBackend = "sqlite"
			},
		},
		{
			name: "same postgres database",
			mutate: func(in *ConfigRawInput) {
				conn := "host=localhost dbname=statdeck"
				in.CacheBackend, in.CacheDBConnect = "postgresql", conn
				in.HistoryBackend, in.HistoryDBConnect = "postgresql", conn
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	input := validInput()
	input.Entities = " 3月, ,6月 "
	input.Metrics = "high_temp"
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, []string{"3月", "6月"}, cfg.Entities)
	assert.Equal(t, []string{"high_temp"}, cfg.Metrics)
	assert.Equal(t, schema.DegenerateFlag, cfg.Degenerate)
	assert.Equal(t, schema.DashboardLayout, cfg.Layout)
	assert.Equal(t, schema.PNGFormat, cfg.Format)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, DefaultTheme().PanelWidth, cfg.Theme.PanelWidth)
	assert.Equal(t, DefaultFallback, cfg.Theme.FallbackColor)
	assert.Empty(t, cfg.HistoryBackend)
}

func TestProcessTheme(t *testing.T) {
	cfg := &Config{}
	input := validInput()
	input.FontFile = " /fonts/NotoSansSC.ttf "
	input.TitleSize = 16
	input.PanelHeight = 200
	input.Palette = map[string]string{"冬季": "#000"}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, "/fonts/NotoSansSC.ttf", cfg.Theme.FontFile)
	assert.Equal(t, 16.0, cfg.Theme.TitleSize)
	assert.Equal(t, float64(DefaultLabelSize), cfg.Theme.LabelSize)
	assert.Equal(t, 200.0, cfg.Theme.PanelHeight)

	palette := cfg.Theme.ResolvePalette(map[string]string{"冬季": "#2196F3", "夏季": "#FFC107"})
	assert.Equal(t, "#000", palette["冬季"])
	assert.Equal(t, "#FFC107", palette["夏季"])
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name        string
		backend     schema.DatabaseBackend
		conn        string
		expectError bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/statdeck", false},
		{"mysql missing tcp", schema.MySQLBackend, "user:pass@localhost/statdeck", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=statdeck", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessProfilingConfig(t *testing.T) {
	var profile ProfileConfig
	require.NoError(t, ProcessProfilingConfig(&profile, ""))
	assert.False(t, profile.Enabled)
	require.NoError(t, ProcessProfilingConfig(&profile, "run"))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "run", profile.Prefix)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{
		Entities: []string{"3月", "6月"},
		Metrics:  []string{"high_temp"},
		Theme:    DefaultTheme(),
	}
	cfg.Theme.Palette["春季"] = "#4CAF50"

	clone := cfg.Clone()
	clone.Entities[0] = "9月"
	clone.Metrics = append(clone.Metrics, "low_temp")
	clone.Theme.Palette["春季"] = "#000000"
	clone.InputFile = "other.csv"

	assert.Equal(t, []string{"3月", "6月"}, cfg.Entities)
	assert.Equal(t, []string{"high_temp"}, cfg.Metrics)
	assert.Equal(t, "#4CAF50", cfg.Theme.Palette["春季"])
	assert.Empty(t, cfg.InputFile)
}
