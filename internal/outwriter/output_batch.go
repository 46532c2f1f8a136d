package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/repoviz/core/algo"
	"github.com/huangsam/repoviz/internal/contract"
	"github.com/huangsam/repoviz/internal/parquet"
	"github.com/huangsam/repoviz/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/samber/lo"
)

// PrintBatch outputs a completed batch, dispatching on the configured format.
func PrintBatch(batch *schema.AnalysisBatch, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteBatchJSON(w, batch)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchCSV(w, batch, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeBatchParquet(batch, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBatchTable(w, batch, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
	return nil
}

// writeBatchTable generates the human-readable table and summary lines.
func writeBatchTable(w io.Writer, batch *schema.AnalysisBatch, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	if batch.IsEmpty() {
		if _, err := fmt.Fprintln(w, batch.Status()); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "Analysis completed in %v. Provider: %s\n", duration, cfg.Provider)
		return err
	}

	table := tablewriter.NewWriter(w)

	headers := []string{"#", "Path", "Lines", "Complexity", "Category", "Size"}
	if cfg.Detail {
		headers = append(headers, "Bytes", "Color")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	pathWidth := GetMaxTablePathWidth(cfg)
	records := batch.Records()
	data := make([][]string, 0, len(records))
	for i, r := range records {
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(r.Path, pathWidth),
			fmt.Sprintf(intFmt, r.LineCount),
			fmt.Sprintf(intFmt, r.ComplexityScore),
			categoryLabel(cfg, r.ColorCategory),
			fmtFloat(r.NormalizedSize),
		}
		if cfg.Detail {
			row = append(row,
				humanize.Bytes(uint64(r.SizeBytes)),
				algo.HexColor(r),
			)
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	counts := batch.CategoryCounts()
	totalBytes := lo.SumBy(records, func(r schema.FileRecord) int { return r.SizeBytes })
	if _, err := fmt.Fprintf(w, "%s (lines: %s, size: %s, max lines: %s)\n",
		batch.Status(),
		humanize.Comma(int64(batch.TotalLines())),
		humanize.Bytes(uint64(totalBytes)),
		humanize.Comma(int64(batch.MaxLineCount()))); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Categories: %s %d, %s %d, %s %d\n",
		contract.LowValue, counts[schema.LowCategory],
		contract.MediumValue, counts[schema.MediumCategory],
		contract.HighValue, counts[schema.HighCategory]); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v. Provider: %s\n", duration, cfg.Provider)
	return err
}

// writeBatchCSV writes one row per record with its encoded color.
func writeBatchCSV(w io.Writer, batch *schema.AnalysisBatch, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"position",
		"path",
		"name",
		"lines",
		"complexity",
		"category",
		"label",
		"normalized_size",
		"size_bytes",
		"color",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, r := range batch.Records() {
			rec := []string{
				strconv.Itoa(i + 1),
				r.Path,
				r.Name,
				fmt.Sprintf(intFmt, r.LineCount),
				fmt.Sprintf(intFmt, r.ComplexityScore),
				string(r.ColorCategory),
				contract.GetPlainLabel(r.ColorCategory),
				fmtFloat(r.NormalizedSize),
				fmt.Sprintf(intFmt, r.SizeBytes),
				algo.HexColor(r),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// jsonRecord adds the rendered encoding to a record.
type jsonRecord struct {
	Position int `json:"position"`
	schema.FileRecord
	Label string `json:"label"`
	Color string `json:"color"` // #rrggbbaa
	Alpha uint8  `json:"alpha"`
}

// jsonBatch is the JSON document written for a batch.
type jsonBatch struct {
	Locator      schema.RepositoryLocator `json:"locator"`
	Status       string                   `json:"status"`
	MaxLineCount int                      `json:"max_line_count"`
	CreatedAt    time.Time                `json:"created_at"`
	Records      []jsonRecord             `json:"records"`
}

// WriteBatchJSON writes the batch with per-record colors.
func WriteBatchJSON(w io.Writer, batch *schema.AnalysisBatch) error {
	records := batch.Records()
	out := jsonBatch{
		Locator:      batch.Locator(),
		Status:       batch.Status(),
		MaxLineCount: batch.MaxLineCount(),
		CreatedAt:    batch.CreatedAt(),
		Records:      make([]jsonRecord, len(records)),
	}
	for i, r := range records {
		out.Records[i] = jsonRecord{
			Position:   i + 1,
			FileRecord: r,
			Label:      contract.GetPlainLabel(r.ColorCategory),
			Color:      algo.HexColor(r),
			Alpha:      algo.AlphaByte(r.NormalizedSize),
		}
	}
	return writeJSON(w, out)
}

// writeBatchParquet writes the batch rows to outputFile.
func writeBatchParquet(batch *schema.AnalysisBatch, outputFile string) error {
	if outputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}
	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if err := parquet.WriteRows(file, parquet.ConvertBatch(batch)); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "💾 Wrote Parquet to %s\n", outputFile)
	return nil
}
