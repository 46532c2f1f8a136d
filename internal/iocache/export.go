package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/repoviz/internal/contract"
	"github.com/huangsam/repoviz/internal/parquet"
)

// Suffixes appended to the export base path.
const (
	runsExportSuffix  = ".analysis_runs.parquet"
	filesExportSuffix = ".file_records.parquet"
)

// ExecuteHistoryExport exports the global history store to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	return ExportHistory(Manager.GetHistoryStore(), outputFile)
}

// ExportHistory writes every run and file row of store to
// <outputFile>.analysis_runs.parquet and <outputFile>.file_records.parquet.
func ExportHistory(store contract.HistoryStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history tracking is disabled. Set --history-backend to enable it")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no history data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total analysis runs: %d\n", status.TotalRuns)
	fmt.Printf("Total file records: %d\n", status.TableSizes[fileRecordsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}
	files, err := store.GetAllFileRecords()
	if err != nil {
		return fmt.Errorf("failed to retrieve file records: %w", err)
	}

	parquetRuns := parquet.ConvertHistoryRuns(runs)
	runsFile := outputFile + runsExportSuffix
	if err := parquet.WriteHistoryRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	fmt.Printf("Exported %d analysis runs to: %s\n", len(parquetRuns), runsFile)

	parquetFiles := parquet.ConvertHistoryFiles(files)
	filesFile := outputFile + filesExportSuffix
	if err := parquet.WriteHistoryFilesParquet(parquetFiles, filesFile); err != nil {
		return fmt.Errorf("failed to write file records: %w", err)
	}
	fmt.Printf("Exported %d file records to: %s\n", len(parquetFiles), filesFile)

	fmt.Println("\nExport complete! The Parquet files can be read with DuckDB, Pandas (via pyarrow) or Apache Spark.")
	return nil
}
