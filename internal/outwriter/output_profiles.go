package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/statdeck/internal/contract"
	"github.com/huangsam/statdeck/internal/parquet"
	"github.com/huangsam/statdeck/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteProfileResults outputs radar profiles, dispatching based on the output format configured.
func WriteProfileResults(result schema.RadarResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForProfiles(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForProfiles(w, result, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errParquetNeedsFile
		}
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.Write(parquet.ConvertRadarResult(0, result), w)
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeProfileTable(result, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeProfileTable generates and writes the human-readable table.
func writeProfileTable(result schema.RadarResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	m := len(result.Metrics)

	headers := []string{"Entity", "Group", "Color"}
	headers = append(headers, result.Metrics...)
	headers = append(headers, "Status")
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	labelWidth := getMaxTableLabelWidth(cfg, 30+10*m)
	var data [][]string
	for _, p := range result.Polygons {
		row := []string{
			contract.TruncateLabel(p.Entity, labelWidth),
			contract.TruncateLabel(p.Group, labelWidth),
			p.Color,
		}
		for i := 0; i < m && i < len(p.Radii); i++ {
			row = append(row, fmtFloat(p.Radii[i]))
		}
		row = append(row, contract.GetColorLabel(p))
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(result.DegenerateMetrics) > 0 {
		if _, err := fmt.Fprintf(writer, "Degenerate metrics (%s): %s\n", result.Policy, strings.Join(result.DegenerateMetrics, ", ")); err != nil {
			return err
		}
	}
	if len(result.Unmatched) > 0 {
		if _, err := fmt.Fprintf(writer, "Unmatched labels: %s\n", strings.Join(result.Unmatched, ", ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Built %d profiles over %d metrics in %v. History backend: %s\n", len(result.Polygons), m, duration, cfg.HistoryBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForProfiles writes one line per polygon vertex, closing vertex included.
func writeCSVResultsForProfiles(w io.Writer, result schema.RadarResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"entity", "group", "color", "vertex", "metric", "angle", "radius", "status"}
	m := len(result.Metrics)
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		if m == 0 {
			return nil
		}
		for _, p := range result.Polygons {
			status := contract.GetPlainLabel(p)
			for vi := range p.Radii {
				rec := []string{
					p.Entity,
					p.Group,
					p.Color,
					fmt.Sprintf(intFmt, vi),
					result.Metrics[vi%m],
					strconv.FormatFloat(p.Angles[vi], 'f', -1, 64),
					csvFloat(p.Radii[vi], fmtFloat),
					status,
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// writeJSONResultsForProfiles writes the result with undefined radii as null.
func writeJSONResultsForProfiles(w io.Writer, result schema.RadarResult) error {
	type jsonPolygon struct {
		Entity string     `json:"entity"`
		Group  string     `json:"group"`
		Color  string     `json:"color"`
		Status string     `json:"status"`
		Angles []float64  `json:"angles"`
		Radii  []*float64 `json:"radii"`
	}
	type jsonResult struct {
		Metrics           []string                `json:"metrics"`
		Polygons          []jsonPolygon           `json:"polygons"`
		DegenerateMetrics []string                `json:"degenerate_metrics"`
		Unmatched         []string                `json:"unmatched"`
		Policy            schema.DegeneratePolicy `json:"policy"`
	}

	out := jsonResult{
		Metrics:           nonNil(result.Metrics),
		Polygons:          make([]jsonPolygon, 0, len(result.Polygons)),
		DegenerateMetrics: nonNil(result.DegenerateMetrics),
		Unmatched:         nonNil(result.Unmatched),
		Policy:            result.Policy,
	}
	for _, p := range result.Polygons {
		out.Polygons = append(out.Polygons, jsonPolygon{
			Entity: p.Entity,
			Group:  p.Group,
			Color:  p.Color,
			Status: contract.GetPlainLabel(p),
			Angles: p.Angles,
			Radii:  nullableAll(p.Radii),
		})
	}
	return writeJSON(w, out)
}

// nonNil keeps empty lists as [] instead of null in JSON.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
