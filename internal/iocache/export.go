package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/statdeck/internal/contract"
	"github.com/huangsam/statdeck/internal/parquet"
)

// ExportHistory writes the global history store to <outputFile>.runs.parquet
// and <outputFile>.vertices.parquet.
func ExportHistory(outputFile string, w io.Writer) error {
	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("history store is not initialized")
	}
	return exportHistory(store, outputFile, w)
}

// exportHistory performs the actual export of run history to Parquet files.
func exportHistory(store contract.HistoryStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total vertex records: %d\n", status.TableSizes[verticesTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	vertices, err := store.GetAllVertices()
	if err != nil {
		return fmt.Errorf("failed to retrieve vertices: %w", err)
	}

	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetVertices := parquet.ConvertVertexRecords(vertices)

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	verticesFile := outputFile + ".vertices.parquet"
	if err := parquet.WriteVerticesParquet(parquetVertices, verticesFile); err != nil {
		return fmt.Errorf("failed to write vertices: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d vertex records to: %s\n", len(parquetVertices), verticesFile)

	return nil
}
