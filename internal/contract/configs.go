package contract

import (
	"fmt"
	"maps"
	"regexp"
	"strings"

	"github.com/huangsam/statdeck/schema"
)

// Default values for configuration.
const (
	DefaultPrecision   = 2
	MaxPrecision       = 6
	DefaultTitleSize   = 12
	DefaultLabelSize   = 10
	DefaultPanelWidth  = 360 // points, a 5 inch panel
	DefaultPanelHeight = 288 // points, a 4 inch panel
	DefaultFallback    = "#9E9E9E"
)

// hexColorPattern matches #RGB and #RRGGBB colors.
var hexColorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Theme holds every styling choice of a render call.
// It is built once from configuration and passed explicitly to renderers.
type Theme struct {
	FontFile      string            // Optional TTF/OTF file with CJK glyphs
	TitleSize     float64           // Points
	LabelSize     float64           // Points
	PanelWidth    float64           // Points per grid cell
	PanelHeight   float64           // Points per grid cell
	Palette       map[string]string // Group -> hex color overrides
	FallbackColor string
}

// DefaultTheme returns the theme used when nothing is configured.
func DefaultTheme() Theme {
	return Theme{
		TitleSize:     DefaultTitleSize,
		LabelSize:     DefaultLabelSize,
		PanelWidth:    DefaultPanelWidth,
		PanelHeight:   DefaultPanelHeight,
		Palette:       map[string]string{},
		FallbackColor: DefaultFallback,
	}
}

// ResolvePalette returns defaults overridden by the configured palette entries.
func (t Theme) ResolvePalette(defaults map[string]string) map[string]string {
	out := make(map[string]string, len(defaults)+len(t.Palette))
	maps.Copy(out, defaults)
	maps.Copy(out, t.Palette)
	return out
}

// Config holds the runtime configuration of a command.
// This struct is the "final, validated" config.
type Config struct {
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Entities   []string // Empty selects the default entities of the dataset
	Metrics    []string // Empty selects every metric of the dataset
	Degenerate schema.DegeneratePolicy
	InputFile  string // Metric-table CSV; empty uses the embedded climate table
	ChartFile  string // Optional radar chart output

	SurveyFile string

	Layout schema.Layout
	Format schema.RenderFormat
	Out    string // Output file, or file prefix for gallery output

	Theme Theme
}

// Clone returns a copy of the config that shares no slices or maps with c.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Entities = append([]string(nil), c.Entities...)
	clone.Metrics = append([]string(nil), c.Metrics...)
	clone.Theme.Palette = maps.Clone(c.Theme.Palette)
	return &clone
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	SurveyFileStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from radarCmd.Flags() ---
	Entities   string `mapstructure:"entities"`
	Metrics    string `mapstructure:"metrics"`
	Degenerate string `mapstructure:"degenerate"`
	Input      string `mapstructure:"input"`
	Chart      string `mapstructure:"chart"`

	// --- Fields from climateCmd.Flags() and surveyCmd.PersistentFlags() ---
	Layout string `mapstructure:"layout"`
	Format string `mapstructure:"format"`
	Out    string `mapstructure:"out"`

	// --- Theme, usually from the config file ---
	FontFile      string            `mapstructure:"font-file"`
	TitleSize     float64           `mapstructure:"title-size"`
	LabelSize     float64           `mapstructure:"label-size"`
	PanelWidth    float64           `mapstructure:"panel-width"`
	PanelHeight   float64           `mapstructure:"panel-height"`
	Palette       map[string]string `mapstructure:"palette"`
	FallbackColor string            `mapstructure:"fallback-color"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processProfileInputs(cfg, input); err != nil {
		return err
	}
	if err := processRenderInputs(cfg, input); err != nil {
		return err
	}
	return processTheme(cfg, input)
}

// validateSimpleInputs processes and validates the output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.SurveyFile = strings.TrimSpace(input.SurveyFileStr)

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates dataset cache and run history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache-db-connect: %w", err)
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("history-db-connect: %w", err)
	}

	// Cache and history must not share one database
	if cfg.CacheBackend != cfg.HistoryBackend || cfg.CacheBackend == schema.NoneBackend {
		return nil
	}
	cacheConn, historyConn := cfg.CacheDBConnect, cfg.HistoryDBConnect
	if cfg.CacheBackend == schema.SQLiteBackend {
		// Resolve to actual file paths to catch default path conflicts
		if cacheConn == "" {
			cacheConn = GetCacheDBFilePath()
		}
		if historyConn == "" {
			historyConn = GetHistoryDBFilePath()
		}
	}
	if cacheConn == historyConn {
		return fmt.Errorf("cache and history storage must use different databases. Both resolve to %q", cacheConn)
	}
	return nil
}

// processProfileInputs handles the radar selection and degenerate policy.
func processProfileInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Entities = SplitList(input.Entities)
	cfg.Metrics = SplitList(input.Metrics)
	cfg.InputFile = strings.TrimSpace(input.Input)
	cfg.ChartFile = strings.TrimSpace(input.Chart)

	cfg.Degenerate = schema.DegeneratePolicy(strings.ToLower(input.Degenerate))
	if cfg.Degenerate == "" {
		cfg.Degenerate = schema.DegenerateFlag
	}
	if _, ok := schema.ValidDegeneratePolicies[cfg.Degenerate]; !ok {
		return fmt.Errorf("invalid degenerate policy '%s'. must be flag, error, zero", input.Degenerate)
	}

	if cfg.ChartFile != "" {
		if _, err := FormatFromPath(cfg.ChartFile); err != nil {
			return fmt.Errorf("invalid --chart value: %w", err)
		}
	}
	return nil
}

// processRenderInputs handles the deck layout and output format.
func processRenderInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Layout = schema.Layout(strings.ToLower(input.Layout))
	if cfg.Layout == "" {
		cfg.Layout = schema.DashboardLayout
	}
	if _, ok := schema.ValidLayouts[cfg.Layout]; !ok {
		return fmt.Errorf("invalid layout '%s'. must be dashboard, grid, gallery", input.Layout)
	}

	cfg.Format = schema.RenderFormat(strings.ToLower(input.Format))
	if cfg.Format == "" {
		cfg.Format = schema.PNGFormat
	}
	if _, ok := schema.ValidRenderFormats[cfg.Format]; !ok {
		return fmt.Errorf("invalid format '%s'. must be png, svg, html", input.Format)
	}
	cfg.Out = strings.TrimSpace(input.Out)
	return nil
}

// processTheme builds the render theme, falling back to defaults for unset sizes.
func processTheme(cfg *Config, input *ConfigRawInput) error {
	theme := DefaultTheme()
	theme.FontFile = strings.TrimSpace(input.FontFile)

	sizes := []struct {
		name  string
		value float64
		dst   *float64
	}{
		{"title-size", input.TitleSize, &theme.TitleSize},
		{"label-size", input.LabelSize, &theme.LabelSize},
		{"panel-width", input.PanelWidth, &theme.PanelWidth},
		{"panel-height", input.PanelHeight, &theme.PanelHeight},
	}
	for _, s := range sizes {
		if s.value < 0 {
			return fmt.Errorf("%s must be positive (received %g)", s.name, s.value)
		}
		if s.value > 0 {
			*s.dst = s.value
		}
	}

	if input.FallbackColor != "" {
		if !IsHexColor(input.FallbackColor) {
			return fmt.Errorf("invalid fallback-color '%s'. must be #RGB or #RRGGBB", input.FallbackColor)
		}
		theme.FallbackColor = input.FallbackColor
	}
	for group, c := range input.Palette {
		if !IsHexColor(c) {
			return fmt.Errorf("invalid palette color '%s' for group %q. must be #RGB or #RRGGBB", c, group)
		}
		theme.Palette[group] = c
	}

	cfg.Theme = theme
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// IsHexColor reports whether s is a #RGB or #RRGGBB color.
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(s)
}
