package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/statdeck/internal/contract"
	"github.com/huangsam/statdeck/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteSummaryResults outputs descriptive statistics and the correlation matrix.
func WriteSummaryResults(summaries []schema.Summary, corr schema.CorrelationMatrix, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSONResultsForSummaries(w, summaries, corr)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVResultsForSummaries(w, summaries, corr, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("output %q is not supported for statistics", cfg.Output)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTable(summaries, corr, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeSummaryTable writes the describe table followed by the correlation matrix.
func writeSummaryTable(summaries []schema.Summary, corr schema.CorrelationMatrix, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Metric", "Count", "Missing", "Mean", "Std", "Min", "25%", "50%", "75%", "Max"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, s := range summaries {
		data = append(data, []string{
			s.Name,
			fmt.Sprintf(intFmt, s.Count),
			fmt.Sprintf(intFmt, s.Missing),
			fmtFloat(s.Mean),
			fmtFloat(s.Std),
			fmtFloat(s.Min),
			fmtFloat(s.Q1),
			fmtFloat(s.Median),
			fmtFloat(s.Q3),
			fmtFloat(s.Max),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(corr.Names) > 0 {
		if _, err := contract.HeaderColor.Fprintln(writer, "Correlation (Pearson)"); err != nil {
			return err
		}
		matrix := tablewriter.NewWriter(writer)
		matrix.Header(append([]string{""}, corr.Names...))
		matrix.Configure(func(cfg *tablewriter.Config) {
			cfg.Row.Alignment.Global = tw.AlignRight
		})
		var rows [][]string
		for i, name := range corr.Names {
			row := []string{name}
			for _, v := range corr.Values[i] {
				row = append(row, fmtFloat(v))
			}
			rows = append(rows, row)
		}
		if err := matrix.Bulk(rows); err != nil {
			return err
		}
		if err := matrix.Render(); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(writer, "Described %d metrics in %v\n", len(summaries), duration); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForSummaries writes one line per metric with its correlations appended as columns.
func writeCSVResultsForSummaries(w io.Writer, summaries []schema.Summary, corr schema.CorrelationMatrix, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"metric", "count", "missing", "mean", "std", "min", "q1", "median", "q3", "max"}
	corrRow := make(map[string][]float64, len(corr.Names))
	for i, name := range corr.Names {
		header = append(header, "corr_"+name)
		corrRow[name] = corr.Values[i]
	}

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range summaries {
			rec := []string{
				s.Name,
				fmt.Sprintf(intFmt, s.Count),
				fmt.Sprintf(intFmt, s.Missing),
				csvFloat(s.Mean, fmtFloat),
				csvFloat(s.Std, fmtFloat),
				csvFloat(s.Min, fmtFloat),
				csvFloat(s.Q1, fmtFloat),
				csvFloat(s.Median, fmtFloat),
				csvFloat(s.Q3, fmtFloat),
				csvFloat(s.Max, fmtFloat),
			}
			values, ok := corrRow[s.Name]
			for j := range corr.Names {
				if !ok {
					rec = append(rec, "")
					continue
				}
				rec = append(rec, csvFloat(values[j], fmtFloat))
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeJSONResultsForSummaries writes summaries and correlations with undefined values as null.
func writeJSONResultsForSummaries(w io.Writer, summaries []schema.Summary, corr schema.CorrelationMatrix) error {
	type jsonSummary struct {
		Name    string   `json:"name"`
		Count   int      `json:"count"`
		Missing int      `json:"missing"`
		Mean    *float64 `json:"mean"`
		Std     *float64 `json:"std"`
		Min     *float64 `json:"min"`
		Q1      *float64 `json:"q1"`
		Median  *float64 `json:"median"`
		Q3      *float64 `json:"q3"`
		Max     *float64 `json:"max"`
	}
	type jsonCorrelation struct {
		Names  []string     `json:"names"`
		Values [][]*float64 `json:"values"`
	}
	type jsonStats struct {
		Summaries   []jsonSummary   `json:"summaries"`
		Correlation jsonCorrelation `json:"correlation"`
	}

	out := jsonStats{
		Summaries:   make([]jsonSummary, 0, len(summaries)),
		Correlation: jsonCorrelation{Names: nonNil(corr.Names), Values: make([][]*float64, 0, len(corr.Values))},
	}
	for _, s := range summaries {
		out.Summaries = append(out.Summaries, jsonSummary{
			Name:    s.Name,
			Count:   s.Count,
			Missing: s.Missing,
			Mean:    nullable(s.Mean),
			Std:     nullable(s.Std),
			Min:     nullable(s.Min),
			Q1:      nullable(s.Q1),
			Median:  nullable(s.Median),
			Q3:      nullable(s.Q3),
			Max:     nullable(s.Max),
		})
	}
	for _, row := range corr.Values {
		out.Correlation.Values = append(out.Correlation.Values, nullableAll(row))
	}
	return writeJSON(w, out)
}
