package schema

import "time"

// HistoryStatus represents the status of the history store.
type HistoryStatus struct {
	Backend            string           `json:"backend"`
	Connected          bool             `json:"connected"`
	TotalRuns          int              `json:"total_runs"`
	LastRunID          int64            `json:"last_run_id"`
	LastRunTime        time.Time        `json:"last_run_time"`
	OldestRunTime      time.Time        `json:"oldest_run_time"`
	TotalFilesAnalyzed int              `json:"total_files_analyzed"`
	TableSizes         map[string]int64 `json:"table_sizes"`
}

// HistoryRunRecord represents a row from the repoviz_analysis_runs table.
type HistoryRunRecord struct {
	RunID              int64
	Locator            string
	StartTime          time.Time
	EndTime            *time.Time
	RunDurationMs      *int32
	TotalFilesAnalyzed int32
	MaxLineCount       int32
	Outcome            string
	ConfigParams       *string
}

// HistoryFileRecord represents a row from the repoviz_file_records table.
type HistoryFileRecord struct {
	RunID           int64
	FilePath        string
	FileName        string
	LineCount       int32
	ComplexityScore int32
	ColorCategory   string
	NormalizedSize  float64
	SizeBytes       int64
}
