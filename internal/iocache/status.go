package iocache

import (
	"fmt"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/repoviz/schema"
)

// PrintHistoryStatus prints history store status information.
func PrintHistoryStatus(status schema.HistoryStatus) {
	fmt.Printf("History Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Printf("Last Run ID: %d\n", status.LastRunID)
		fmt.Printf("Last Run: %s (%s)\n", status.LastRunTime.Format("2006-01-02 15:04:05"), humanize.Time(status.LastRunTime))
		fmt.Printf("Oldest Run: %s (%s)\n", status.OldestRunTime.Format("2006-01-02 15:04:05"), humanize.Time(status.OldestRunTime))
		fmt.Printf("Total Files Analyzed: %s\n", humanize.Comma(int64(status.TotalFilesAnalyzed)))
	}
	fmt.Println("Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		fmt.Printf("  %s: %s rows\n", table, humanize.Comma(status.TableSizes[table]))
	}
}
