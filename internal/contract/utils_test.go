package contract

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/statdeck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	ok := schema.RadarPolygon{Radii: []float64{0, 1, 0}}
	bad := schema.RadarPolygon{Radii: []float64{math.NaN(), 1, math.NaN()}}
	assert.Equal(t, OKValue, GetPlainLabel(ok))
	assert.Equal(t, DegenerateValue, GetPlainLabel(bad))
	assert.Contains(t, GetColorLabel(bad), DegenerateValue)
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.txt")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.FileExists(t, path)
}

func TestDBFilePaths(t *testing.T) {
	assert.True(t, strings.HasSuffix(GetCacheDBFilePath(), ".statdeck_cache.db"))
	assert.True(t, strings.HasSuffix(GetHistoryDBFilePath(), ".statdeck_history.db"))
	assert.NotEqual(t, GetCacheDBFilePath(), GetHistoryDBFilePath())
}

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		name     string
		label    string
		width    int
		expected string
	}{
		{"fits", "Brazil", 10, "Brazil"},
		{"truncated", "United Kingdom", 8, "Unite..."},
		{"multibyte", "平均高温 (℃)", 5, "平均..."},
		{"tiny width untouched", "Germany", 3, "Germany"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateLabel(tt.label, tt.width))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("on")
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitList(" a,,b ,"))
	assert.Nil(t, SplitList(""))
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path        string
		expected    schema.RenderFormat
		expectError bool
	}{
		{"radar.png", schema.PNGFormat, false},
		{"out/Radar.SVG", schema.SVGFormat, false},
		{"radar.html", schema.HTMLFormat, false},
		{"radar.jpeg", "", true},
		{"radar", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIsHexColor(t *testing.T) {
	assert.True(t, IsHexColor("#8BC34A"))
	assert.True(t, IsHexColor("#fff"))
	assert.False(t, IsHexColor("8BC34A"))
	assert.False(t, IsHexColor("#8BC34"))
	assert.False(t, IsHexColor("#GGGGGG"))
}
