package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/statdeck/schema"
)

// ReadMetricTable parses a metric-table CSV with an `entity,group,<metric...>` header.
// Every metric cell must parse as a float.
func ReadMetricTable(r io.Reader) (*schema.MetricTable, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	if len(header) < 3 || header[0] != "entity" || header[1] != "group" {
		return nil, fmt.Errorf("%w: header must start with entity,group and name at least one metric", schema.ErrInvalidTable)
	}
	metrics := header[2:]

	var rows []schema.MetricRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}
		row := schema.MetricRow{
			Entity: strings.TrimSpace(record[0]),
			Group:  strings.TrimSpace(record[1]),
			Values: make([]float64, len(metrics)),
		}
		for i, m := range metrics {
			cell := strings.TrimSpace(record[i+2])
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d (%s) column %q: cannot parse %q", schema.ErrInvalidTable, line, row.Entity, m, cell)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: line %d (%s) column %q: value %q is not finite", schema.ErrInvalidTable, line, row.Entity, m, cell)
			}
			row.Values[i] = v
		}
		rows = append(rows, row)
	}
	return schema.NewMetricTable(metrics, rows)
}

// LoadMetricTable reads a metric-table CSV from disk.
func LoadMetricTable(path string) (*schema.MetricTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metric table %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	table, err := ReadMetricTable(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse metric table %q: %w", path, err)
	}
	return table, nil
}
