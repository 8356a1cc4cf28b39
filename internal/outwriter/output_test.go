package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/statdeck/internal/contract"
	"github.com/huangsam/statdeck/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() schema.RadarResult {
	angles := []float64{0, 2 * math.Pi / 3, 4 * math.Pi / 3, 0}
	return schema.RadarResult{
		Metrics: []string{"high_temp", "low_temp", "precipitation"},
		Polygons: []schema.RadarPolygon{
			{Entity: "3月", Group: "春", Color: "#99CC00", Angles: angles, Radii: []float64{0.2, 0.4, 0.1, 0.2}},
			{Entity: "6月", Group: "夏", Color: "#FF3333", Angles: angles, Radii: []float64{1, math.NaN(), 1, 1}},
		},
		DegenerateMetrics: []string{"low_temp"},
		Unmatched:         []string{"13月"},
		Policy:            schema.DegenerateFlag,
	}
}

func ptr(v float64) *float64 { return &v }

func sampleRecords() []schema.FreelancerRecord {
	return []schema.FreelancerRecord{
		{Gender: "Female", HourlyRate: ptr(45), IsActive: ptr(1), Satisfaction: ptr(88), Country: "Germany", PrimarySkill: "Design", Age: ptr(31), YearsOfExperience: ptr(6), Rating: ptr(4.5)},
		{Gender: "", HourlyRate: nil, IsActive: ptr(0), Country: "Japan"},
	}
}

func TestWriteProfileTable(t *testing.T) {
	cfg := &contract.Config{Precision: 2, Width: 120, HistoryBackend: schema.SQLiteBackend}
	fmtFloat, _ := createFormatters(cfg.Precision)

	var buf bytes.Buffer
	require.NoError(t, writeProfileTable(sampleResult(), cfg, fmtFloat, 5*time.Millisecond, &buf))
	out := buf.String()
	assert.Contains(t, out, "3月")
	assert.Contains(t, out, "0.40")
	assert.Contains(t, out, "NaN")
	assert.Contains(t, out, contract.DegenerateValue)
	assert.Contains(t, out, "Degenerate metrics (flag): low_temp")
	assert.Contains(t, out, "Unmatched labels: 13月")
	assert.Contains(t, out, "Built 2 profiles over 3 metrics")
}

func TestWriteCSVResultsForProfiles(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)
	var buf bytes.Buffer
	require.NoError(t, writeCSVResultsForProfiles(&buf, sampleResult(), fmtFloat, intFmt))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1+8, "header plus four vertices per polygon")
	assert.Equal(t, []string{"entity", "group", "color", "vertex", "metric", "angle", "radius", "status"}, records[0])

	// Closing vertex repeats the first metric
	assert.Equal(t, "high_temp", records[4][4])
	assert.Equal(t, "3", records[4][3])
	assert.Equal(t, "ok", records[4][7])

	// Undefined radius is left empty
	assert.Equal(t, "low_temp", records[6][4])
	assert.Equal(t, "", records[6][6])
	assert.Equal(t, "degenerate", records[6][7])
}

func TestWriteCSVResultsForProfilesNoMetrics(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)
	var buf bytes.Buffer
	require.NoError(t, writeCSVResultsForProfiles(&buf, schema.RadarResult{}, fmtFloat, intFmt))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))
}

func TestWriteJSONResultsForProfiles(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSONResultsForProfiles(&buf, sampleResult()))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "flag", got["policy"])
	polygons := got["polygons"].([]any)
	require.Len(t, polygons, 2)

	june := polygons[1].(map[string]any)
	assert.Equal(t, "degenerate", june["status"])
	radii := june["radii"].([]any)
	require.Len(t, radii, 4)
	assert.Nil(t, radii[1])
	assert.Equal(t, 1.0, radii[0])

	// Empty lists stay arrays
	buf.Reset()
	require.NoError(t, writeJSONResultsForProfiles(&buf, schema.RadarResult{}))
	assert.Contains(t, buf.String(), `"unmatched": []`)
}

func TestWriteProfileResultsDispatch(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		output schema.OutputMode
		file   string
		check  func(t *testing.T, content []byte)
	}{
		{schema.JSONOut, "profiles.json", func(t *testing.T, content []byte) {
			assert.True(t, json.Valid(content))
		}},
		{schema.CSVOut, "profiles.csv", func(t *testing.T, content []byte) {
			assert.True(t, strings.HasPrefix(string(content), "entity,group"))
		}},
		{schema.ParquetOut, "profiles.parquet", func(t *testing.T, content []byte) {
			assert.True(t, bytes.HasPrefix(content, []byte("PAR1")))
		}},
		{schema.TextOut, "profiles.txt", func(t *testing.T, content []byte) {
			assert.Contains(t, string(content), "Built 2 profiles")
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.output), func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			cfg := &contract.Config{Output: tt.output, OutputFile: path, Precision: 2}
			require.NoError(t, WriteProfileResults(sampleResult(), cfg, time.Second))
			content, err := os.ReadFile(path)
			require.NoError(t, err)
			tt.check(t, content)
		})
	}

	cfg := &contract.Config{Output: schema.ParquetOut}
	assert.ErrorIs(t, WriteProfileResults(sampleResult(), cfg, time.Second), errParquetNeedsFile)
}

func TestWriteSummaryOutputs(t *testing.T) {
	summaries := []schema.Summary{
		{Name: "high_temp", Count: 12, Mean: 17.5, Std: 8.2, Min: 5, Q1: 10, Median: 17, Q3: 25, Max: 31},
		{Name: "low_temp", Count: 1, Mean: 2, Std: math.NaN(), Min: 2, Q1: 2, Median: 2, Q3: 2, Max: 2},
	}
	corr := schema.CorrelationMatrix{
		Names:  []string{"high_temp", "low_temp"},
		Values: [][]float64{{1, math.NaN()}, {math.NaN(), 1}},
	}
	fmtFloat, intFmt := createFormatters(2)

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeSummaryTable(summaries, corr, fmtFloat, intFmt, time.Second, &buf))
		out := buf.String()
		assert.Contains(t, out, "17.50")
		assert.Contains(t, out, "Correlation (Pearson)")
		assert.Contains(t, out, "Described 2 metrics")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeCSVResultsForSummaries(&buf, summaries, corr, fmtFloat, intFmt))
		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, "corr_low_temp", records[0][len(records[0])-1])
		assert.Equal(t, "", records[2][4], "undefined std is empty")
		assert.Equal(t, "1.00", records[1][10])
		assert.Equal(t, "", records[1][11])
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeJSONResultsForSummaries(&buf, summaries, corr))
		var got struct {
			Summaries []struct {
				Name string   `json:"name"`
				Std  *float64 `json:"std"`
			} `json:"summaries"`
			Correlation struct {
				Values [][]*float64 `json:"values"`
			} `json:"correlation"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got.Summaries, 2)
		assert.NotNil(t, got.Summaries[0].Std)
		assert.Nil(t, got.Summaries[1].Std)
		assert.Nil(t, got.Correlation.Values[0][1])
	})

	t.Run("parquet unsupported", func(t *testing.T) {
		cfg := &contract.Config{Output: schema.ParquetOut}
		assert.Error(t, WriteSummaryResults(summaries, corr, cfg, time.Second))
	})
}

func TestWriteRecordOutputs(t *testing.T) {
	records := sampleRecords()
	report := schema.SurveyLoadReport{Rows: 2, Malformed: map[string]int{"hourly_rate": 1, "age": 0, "gender": 1}}
	fmtFloat, _ := createFormatters(1)

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &contract.Config{Width: 120, CacheBackend: schema.SQLiteBackend}
		require.NoError(t, writeRecordTable(records, report, cfg, fmtFloat, time.Second, &buf))
		out := buf.String()
		assert.Contains(t, out, "Germany")
		assert.Contains(t, out, "45.0")
		assert.Contains(t, out, "Malformed fields treated as missing: gender=1, hourly_rate=1")
		assert.Contains(t, out, "Cleaned 2 records from file")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeCSVResultsForRecords(&buf, records, fmtFloat))
		rows, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, recordHeader, rows[0])
		assert.Equal(t, []string{"Female", "45.0", "1.0", "88.0", "Germany", "Design", "31.0", "6.0", "4.5"}, rows[1])
		assert.Equal(t, []string{"", "", "0.0", "", "Japan", "", "", "", ""}, rows[2])
	})

	t.Run("parquet to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "records.parquet")
		cfg := &contract.Config{Output: schema.ParquetOut, OutputFile: path}
		require.NoError(t, WriteRecordResults(records, report, cfg, time.Second))
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(content, []byte("PAR1")))
	})

	t.Run("json to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "records.json")
		cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path}
		require.NoError(t, NewOutWriter().WriteRecords(records, report, cfg, time.Second))
		content, err := os.ReadFile(path)
		require.NoError(t, err)
		var got []schema.FreelancerRecord
		require.NoError(t, json.Unmarshal(content, &got))
		assert.Equal(t, records, got)
	})
}

func TestFormatMalformed(t *testing.T) {
	assert.Equal(t, "", formatMalformed(nil))
	assert.Equal(t, "a=2, b=1", formatMalformed(map[string]int{"b": 1, "a": 2, "c": 0}))
}
