// Package parquet provides data structures and functions for exporting repoviz
// batches and history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/repoviz/schema"
	"github.com/parquet-go/parquet-go"
)

// FileRecord is one analyzed file of a batch.
type FileRecord struct {
	// Locator identifies the analyzed directory as owner/repo[@branch][:path]
	Locator string `parquet:"locator,snappy,dict"`

	// Position is the index in listing order
	Position int32 `parquet:"position,snappy"`

	Name            string  `parquet:"name,snappy"`
	Path            string  `parquet:"path,snappy"`
	LineCount       int32   `parquet:"line_count,snappy"`
	ComplexityScore int32   `parquet:"complexity_score,snappy"`
	ColorCategory   string  `parquet:"color_category,snappy,dict"`
	NormalizedSize  float64 `parquet:"normalized_size,snappy"`
	SizeBytes       int64   `parquet:"size_bytes,snappy"`
}

// HistoryRun maps to the repoviz_analysis_runs database table.
type HistoryRun struct {
	// RunID is the unique identifier for this analysis run
	RunID int64 `parquet:"run_id,snappy"`

	Locator string `parquet:"locator,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run finished (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	TotalFilesAnalyzed int32  `parquet:"total_files_analyzed,snappy"`
	MaxLineCount       int32  `parquet:"max_line_count,snappy"`
	Outcome            string `parquet:"outcome,snappy,dict"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// HistoryFile maps to the repoviz_file_records database table.
type HistoryFile struct {
	RunID           int64   `parquet:"run_id,snappy"`
	FilePath        string  `parquet:"file_path,snappy"`
	FileName        string  `parquet:"file_name,snappy"`
	LineCount       int32   `parquet:"line_count,snappy"`
	ComplexityScore int32   `parquet:"complexity_score,snappy"`
	ColorCategory   string  `parquet:"color_category,snappy,dict"`
	NormalizedSize  float64 `parquet:"normalized_size,snappy"`
	SizeBytes       int64   `parquet:"size_bytes,snappy"`
}

// WriteRows writes rows of any tagged struct type to w.
// The schema is derived from the struct tags of T.
func WriteRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows to it.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return WriteRows(file, rows)
}

// WriteHistoryRunsParquet writes history runs to a Parquet file.
func WriteHistoryRunsParquet(data []HistoryRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteHistoryFilesParquet writes history file rows to a Parquet file.
func WriteHistoryFilesParquet(data []HistoryFile, outputPath string) error {
	return writeFile(data, outputPath)
}

// ConvertBatch flattens a batch into Parquet rows in listing order.
func ConvertBatch(batch *schema.AnalysisBatch) []FileRecord {
	loc := batch.Locator().String()
	records := batch.Records()
	result := make([]FileRecord, len(records))
	for i, r := range records {
		result[i] = FileRecord{
			Locator:         loc,
			Position:        int32(i),
			Name:            r.Name,
			Path:            r.Path,
			LineCount:       int32(r.LineCount),
			ComplexityScore: int32(r.ComplexityScore),
			ColorCategory:   string(r.ColorCategory),
			NormalizedSize:  r.NormalizedSize,
			SizeBytes:       int64(r.SizeBytes),
		}
	}
	return result
}

// ConvertHistoryRuns converts schema.HistoryRunRecord to HistoryRun.
func ConvertHistoryRuns(records []schema.HistoryRunRecord) []HistoryRun {
	result := make([]HistoryRun, len(records))
	for i, r := range records {
		result[i] = HistoryRun{
			RunID:              r.RunID,
			Locator:            r.Locator,
			StartTime:          r.StartTime,
			EndTime:            r.EndTime,
			RunDurationMs:      r.RunDurationMs,
			TotalFilesAnalyzed: r.TotalFilesAnalyzed,
			MaxLineCount:       r.MaxLineCount,
			Outcome:            r.Outcome,
			ConfigParams:       r.ConfigParams,
		}
	}
	return result
}

// ConvertHistoryFiles converts schema.HistoryFileRecord to HistoryFile.
func ConvertHistoryFiles(records []schema.HistoryFileRecord) []HistoryFile {
	result := make([]HistoryFile, len(records))
	for i, r := range records {
		result[i] = HistoryFile{
			RunID:           r.RunID,
			FilePath:        r.FilePath,
			FileName:        r.FileName,
			LineCount:       r.LineCount,
			ComplexityScore: r.ComplexityScore,
			ColorCategory:   r.ColorCategory,
			NormalizedSize:  r.NormalizedSize,
			SizeBytes:       r.SizeBytes,
		}
	}
	return result
}
