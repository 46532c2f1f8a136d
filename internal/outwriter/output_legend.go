package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/repoviz/core/algo"
	"github.com/huangsam/repoviz/internal/contract"
	"github.com/huangsam/repoviz/schema"
)

// Legend text.
const (
	legendTitle       = "repoviz Legend"
	legendSummary     = "Color = complexity, Transparency = size"
	legendSize        = "Opacity grows with line count relative to the largest file in the batch."
	legendLimitations = "Complexity is a tally of if/while/for/switch keywords outside comments and string literals. It is a control-flow keyword tally, not cyclomatic complexity."
)

// LegendEntry describes one color category.
type LegendEntry struct {
	Category schema.ColorCategory `json:"category"`
	Label    string               `json:"label"`
	Range    string               `json:"range"`
	Color    string               `json:"color"` // #rrggbb
}

// Legend is the render model for the legend output.
type Legend struct {
	Title       string            `json:"title"`
	Summary     string            `json:"summary"`
	Size        string            `json:"size"`
	Thresholds  schema.Thresholds `json:"thresholds"`
	Categories  []LegendEntry     `json:"categories"`
	Limitations string            `json:"limitations"`
}

// BuildLegend constructs the legend for the given thresholds.
func BuildLegend(t schema.Thresholds) Legend {
	ranges := map[schema.ColorCategory]string{
		schema.LowCategory:    fmt.Sprintf("score <= %d", t.Yellow),
		schema.MediumCategory: fmt.Sprintf("%d < score <= %d", t.Yellow, t.Red),
		schema.HighCategory:   fmt.Sprintf("score > %d", t.Red),
	}
	entries := make([]LegendEntry, 0, len(schema.AllColorCategories))
	for _, c := range schema.AllColorCategories {
		rgb := algo.RGB(c)
		entries = append(entries, LegendEntry{
			Category: c,
			Label:    contract.GetPlainLabel(c),
			Range:    ranges[c],
			Color:    fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B),
		})
	}
	return Legend{
		Title:       legendTitle,
		Summary:     legendSummary,
		Size:        legendSize,
		Thresholds:  t,
		Categories:  entries,
		Limitations: legendLimitations,
	}
}

// PrintLegend displays the legend in the configured format.
// This is a static display that does not contact any repository.
func PrintLegend(cfg *contract.Config) error {
	legend := BuildLegend(cfg.Thresholds)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, legend)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLegendCSV(w, legend)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeLegendText(w, legend, cfg)
		}, "Wrote text")
	}
}

// WriteLegendText renders the plain-text legend, used by the MCP server.
func WriteLegendText(w io.Writer, legend Legend) error {
	return writeLegendText(w, legend, &contract.Config{})
}

func writeLegendText(w io.Writer, legend Legend, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "%s\n", headerLine(cfg, "🎨", legend.Title)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", legend.Summary); err != nil {
		return err
	}
	for _, e := range legend.Categories {
		if _, err := fmt.Fprintf(w, "  %-8s %s  %s\n", categoryLabel(cfg, e.Category), e.Color, e.Range); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\n%s\n", legend.Size); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Note: %s\n", legend.Limitations)
	return err
}

func writeLegendCSV(w io.Writer, legend Legend) error {
	header := []string{"category", "label", "range", "color", "yellow", "red"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, e := range legend.Categories {
			rec := []string{
				string(e.Category),
				e.Label,
				e.Range,
				e.Color,
				strconv.Itoa(legend.Thresholds.Yellow),
				strconv.Itoa(legend.Thresholds.Red),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
