// Package loader reads the survey and metric-table CSV files.
package loader

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/statdeck/internal/contract"
	"github.com/huangsam/statdeck/schema"
)

// currentCacheVersion defines the version of the cached survey payload.
const currentCacheVersion = 1

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = errors.New("missing required column")

// cachedSurvey is the payload stored in the dataset cache.
type cachedSurvey struct {
	Records   []schema.FreelancerRecord `json:"records"`
	Rows      int                       `json:"rows"`
	Malformed map[string]int            `json:"malformed"`
}

// ReadSurvey parses a raw survey CSV and cleans every row.
// Malformed fields become missing values and are counted per column.
func ReadSurvey(r io.Reader) ([]schema.FreelancerRecord, schema.SurveyLoadReport, error) {
	report := schema.SurveyLoadReport{Malformed: map[string]int{}}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, report, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, col := range SurveyColumns {
		if _, ok := index[col]; !ok {
			return nil, report, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}

	var records []schema.FreelancerRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, report, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		raw := make(map[string]string, len(SurveyColumns))
		for _, col := range SurveyColumns {
			if i := index[col]; i < len(row) {
				raw[col] = row[i]
			}
		}
		rec, malformed := CleanSurveyRow(raw)
		for _, col := range malformed {
			report.Malformed[col]++
		}
		records = append(records, rec)
	}

	report.Rows = len(records)
	return records, report, nil
}

// LoadSurvey reads and cleans a survey file.
// When a dataset store is given, the cleaned records are cached by path, size and mtime.
// A missing file returns an error wrapping fs.ErrNotExist.
func LoadSurvey(path string, store contract.CacheStore) ([]schema.FreelancerRecord, schema.SurveyLoadReport, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, schema.SurveyLoadReport{}, fmt.Errorf("failed to open survey %q: %w", path, err)
	}

	var key string
	if store != nil {
		key = surveyCacheKey(path, info)
		if cached, ok := checkCacheHit(store, key); ok {
			report := schema.SurveyLoadReport{Rows: cached.Rows, Malformed: cached.Malformed, FromCache: true}
			if report.Malformed == nil {
				report.Malformed = map[string]int{}
			}
			return cached.Records, report, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, schema.SurveyLoadReport{}, fmt.Errorf("failed to open survey %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	records, report, err := ReadSurvey(f)
	if err != nil {
		return nil, report, fmt.Errorf("failed to parse survey %q: %w", path, err)
	}

	if store != nil {
		payload := cachedSurvey{Records: records, Rows: report.Rows, Malformed: report.Malformed}
		data, err := json.Marshal(payload)
		if err != nil {
			contract.LogWarn("Failed to encode survey for caching", err)
		} else if err := store.Set(key, data, currentCacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("Failed to cache survey", err)
		}
	}
	return records, report, nil
}

// checkCacheHit attempts to retrieve and decode a cached survey.
// A version mismatch or a decode failure is a miss.
func checkCacheHit(store contract.CacheStore, key string) (cachedSurvey, bool) {
	data, version, _, err := store.Get(key)
	if err != nil || version != currentCacheVersion {
		return cachedSurvey{}, false
	}
	var cached cachedSurvey
	if err := json.Unmarshal(data, &cached); err != nil {
		return cachedSurvey{}, false
	}
	return cached, true
}

// surveyCacheKey creates a unique key from the file identity.
func surveyCacheKey(path string, info os.FileInfo) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	key := fmt.Sprintf("survey:%s:%d:%d", abs, info.Size(), info.ModTime().UnixNano())
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

// MalformedWarnings formats one warning per column with malformed fields, in column order.
func MalformedWarnings(report schema.SurveyLoadReport) []error {
	var out []error
	for _, col := range SurveyColumns {
		if n := report.Malformed[col]; n > 0 {
			out = append(out, fmt.Errorf("%d malformed value(s) in column %q treated as missing", n, col))
		}
	}
	return out
}
