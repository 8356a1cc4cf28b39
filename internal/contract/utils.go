package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/statdeck/schema"
)

// Profile status label constants.
const (
	OKValue         = "ok"         // Every radius is defined
	DegenerateValue = "degenerate" // At least one radius is NaN
)

// Color variables for console output.
var (
	OKColor         = color.New(color.FgGreen)              // OKColor marks a fully defined polygon.
	DegenerateColor = color.New(color.FgYellow, color.Bold) // DegenerateColor marks a polygon with undefined radii.
	HeaderColor     = color.New(color.FgCyan, color.Bold)   // HeaderColor highlights section headers.
)

// GetPlainLabel returns the status label of a polygon. This is the core logic
// used for CSV, JSON, and table printing.
func GetPlainLabel(p schema.RadarPolygon) string {
	if p.Degenerate() {
		return DegenerateValue
	}
	return OKValue
}

// GetColorLabel returns a colored status label for console output (table).
func GetColorLabel(p schema.RadarPolygon) string {
	text := GetPlainLabel(p)
	if text == DegenerateValue {
		return DegenerateColor.Sprint(text)
	}
	return OKColor.Sprint(text)
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the dataset cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".statdeck_cache.db"
	}
	return filepath.Join(homeDir, ".statdeck_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".statdeck_history.db"
	}
	return filepath.Join(homeDir, ".statdeck_history.db")
}

// TruncateLabel truncates a label to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// SplitList splits a comma-separated list, trimming blanks and dropping empty items.
func SplitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FormatFromPath infers the render format from a file extension.
func FormatFromPath(path string) (schema.RenderFormat, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	format := schema.RenderFormat(ext)
	if _, ok := schema.ValidRenderFormats[format]; !ok {
		return "", fmt.Errorf("cannot infer format from %q. use a .png, .svg or .html file", path)
	}
	return format, nil
}
