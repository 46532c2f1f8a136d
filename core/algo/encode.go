// Package algo maps file metrics to their visual encoding.
package algo

import (
	"image/color"

	"github.com/huangsam/repoviz/schema"
)

// Classify buckets a complexity score: high above t.Red, medium above
// t.Yellow, low otherwise.
func Classify(score int, t schema.Thresholds) schema.ColorCategory {
	switch {
	case score > t.Red:
		return schema.HighCategory
	case score > t.Yellow:
		return schema.MediumCategory
	default:
		return schema.LowCategory
	}
}

// Normalize scales lineCount against the batch maximum into [0,1].
// It returns 0 when maxLineCount <= 0.
func Normalize(lineCount, maxLineCount int) float64 {
	if maxLineCount <= 0 {
		return 0
	}
	v := float64(lineCount) / float64(maxLineCount)
	return min(max(v, 0), 1)
}

// AlphaByte converts a normalized size to an 8-bit opacity.
func AlphaByte(normalized float64) uint8 {
	normalized = min(max(normalized, 0), 1)
	return uint8(normalized * 255)
}

// RGB returns the swatch color for a category.
func RGB(category schema.ColorCategory) color.RGBA {
	switch category {
	case schema.HighCategory:
		return color.RGBA{R: 255, G: 0, B: 0, A: 255}
	case schema.MediumCategory:
		return color.RGBA{R: 255, G: 255, B: 0, A: 255}
	default:
		return color.RGBA{R: 0, G: 255, B: 0, A: 255}
	}
}

// Swatch returns the category color with the record's opacity applied.
// The channels are not premultiplied; A carries the opacity on its own.
func Swatch(record schema.FileRecord) color.NRGBA {
	c := RGB(record.ColorCategory)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: AlphaByte(record.NormalizedSize)}
}

// HexColor renders the swatch as #RRGGBBAA.
func HexColor(record schema.FileRecord) string {
	const digits = "0123456789abcdef"
	c := Swatch(record)
	buf := []byte{'#', 0, 0, 0, 0, 0, 0, 0, 0}
	for i, b := range []uint8{c.R, c.G, c.B, c.A} {
		buf[1+2*i] = digits[b>>4]
		buf[2+2*i] = digits[b&0x0f]
	}
	return string(buf)
}
