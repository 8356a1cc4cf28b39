// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"time"

	"github.com/huangsam/statdeck/internal/contract"
	"github.com/huangsam/statdeck/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteProfiles prints radar profiles using the configured output format.
func (ow *OutWriter) WriteProfiles(result schema.RadarResult, cfg *contract.Config, duration time.Duration) error {
	return WriteProfileResults(result, cfg, duration)
}

// WriteSummaries prints descriptive statistics and correlations using the configured output format.
func (ow *OutWriter) WriteSummaries(summaries []schema.Summary, corr schema.CorrelationMatrix, cfg *contract.Config, duration time.Duration) error {
	return WriteSummaryResults(summaries, corr, cfg, duration)
}

// WriteRecords prints cleaned survey records using the configured output format.
func (ow *OutWriter) WriteRecords(records []schema.FreelancerRecord, report schema.SurveyLoadReport, cfg *contract.Config, duration time.Duration) error {
	return WriteRecordResults(records, report, cfg, duration)
}

// EncodeProfiles writes radar profiles as indented JSON, with undefined radii as null.
func EncodeProfiles(w io.Writer, result schema.RadarResult) error {
	return writeJSONResultsForProfiles(w, result)
}

// EncodeSummaries writes summaries and the correlation matrix as indented JSON, with undefined values as null.
func EncodeSummaries(w io.Writer, summaries []schema.Summary, corr schema.CorrelationMatrix) error {
	return writeJSONResultsForSummaries(w, summaries, corr)
}
