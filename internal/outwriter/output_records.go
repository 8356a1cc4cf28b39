package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/huangsam/statdeck/internal/contract"
	"github.com/huangsam/statdeck/internal/parquet"
	"github.com/huangsam/statdeck/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// recordHeader is the CSV header of cleaned survey records, matching their JSON names.
var recordHeader = []string{
	"gender", "hourly_rate", "is_active", "client_satisfaction", "country",
	"primary_skill", "age", "years_of_experience", "rating",
}

// WriteRecordResults outputs cleaned survey records, dispatching based on the output format configured.
func WriteRecordResults(records []schema.FreelancerRecord, report schema.SurveyLoadReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForRecords(w, records, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errParquetNeedsFile
		}
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.Write(parquet.ConvertFreelancerRecords(records), w)
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRecordTable(records, report, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeRecordTable generates and writes the human-readable table. Missing values print as "-".
func writeRecordTable(records []schema.FreelancerRecord, report schema.SurveyLoadReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"#", "Gender", "Rate", "Active", "Satisfaction", "Country", "Skill", "Age", "Experience", "Rating"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	labelWidth := getMaxTableLabelWidth(cfg, 75) / 2
	var data [][]string
	for i, r := range records {
		data = append(data, []string{
			fmt.Sprint(i + 1),
			orMissing(r.Gender),
			optionalFloat(r.HourlyRate, fmtFloat, "-"),
			optionalFloat(r.IsActive, fmtFloat, "-"),
			optionalFloat(r.Satisfaction, fmtFloat, "-"),
			orMissing(contract.TruncateLabel(r.Country, labelWidth)),
			orMissing(contract.TruncateLabel(r.PrimarySkill, labelWidth)),
			optionalFloat(r.Age, fmtFloat, "-"),
			optionalFloat(r.YearsOfExperience, fmtFloat, "-"),
			optionalFloat(r.Rating, fmtFloat, "-"),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if malformed := formatMalformed(report.Malformed); malformed != "" {
		if _, err := fmt.Fprintf(writer, "Malformed fields treated as missing: %s\n", malformed); err != nil {
			return err
		}
	}
	source := "file"
	if report.FromCache {
		source = "cache"
	}
	if _, err := fmt.Fprintf(writer, "Cleaned %d records from %s in %v. Cache backend: %s\n", len(records), source, duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForRecords writes one line per record, leaving missing values empty.
func writeCSVResultsForRecords(w io.Writer, records []schema.FreelancerRecord, fmtFloat func(float64) string) error {
	return writeCSVWithHeader(w, recordHeader, func(cw *csv.Writer) error {
		for _, r := range records {
			rec := []string{
				r.Gender,
				optionalFloat(r.HourlyRate, fmtFloat, ""),
				optionalFloat(r.IsActive, fmtFloat, ""),
				optionalFloat(r.Satisfaction, fmtFloat, ""),
				r.Country,
				r.PrimarySkill,
				optionalFloat(r.Age, fmtFloat, ""),
				optionalFloat(r.YearsOfExperience, fmtFloat, ""),
				optionalFloat(r.Rating, fmtFloat, ""),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// formatMalformed lists per-column malformed counts sorted by column name.
func formatMalformed(counts map[string]int) string {
	columns := make([]string, 0, len(counts))
	for col, n := range counts {
		if n > 0 {
			columns = append(columns, col)
		}
	}
	slices.Sort(columns)
	parts := make([]string, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, fmt.Sprintf("%s=%d", col, counts[col]))
	}
	return strings.Join(parts, ", ")
}

func orMissing(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
