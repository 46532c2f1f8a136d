package core

import (
	"path"

	"github.com/huangsam/repoviz/core/algo"
	"github.com/huangsam/repoviz/core/lexical"
	"github.com/huangsam/repoviz/schema"
)

// FileRecordBuilder builds a provisional file record from raw content.
type FileRecordBuilder struct {
	content    string
	thresholds schema.Thresholds
	result     *schema.FileRecord

	// Internal data collected during the build process
	stripped string
}

// NewFileRecordBuilder is the starting point for building a file record.
func NewFileRecordBuilder(filePath, content string, thresholds schema.Thresholds) *FileRecordBuilder {
	return &FileRecordBuilder{
		content:    content,
		thresholds: thresholds,
		result: &schema.FileRecord{
			Name:          path.Base(filePath),
			Path:          filePath,
			SizeBytes:     len(content),
			ColorCategory: schema.LowCategory,
		},
	}
}

// CountLines counts non-blank lines on the raw content.
func (b *FileRecordBuilder) CountLines() *FileRecordBuilder {
	b.result.LineCount = lexical.CountLines(b.content)
	return b
}

// StripSource removes comments and literals so that keywords inside them are not counted.
func (b *FileRecordBuilder) StripSource() *FileRecordBuilder {
	b.stripped = lexical.Strip(b.content)
	return b
}

// CalculateComplexity tallies control-flow keywords in the stripped source.
// It strips the content itself when StripSource has not run.
func (b *FileRecordBuilder) CalculateComplexity() *FileRecordBuilder {
	if b.stripped == "" && b.content != "" {
		b.StripSource()
	}
	b.result.ComplexityScore = lexical.CountComplexity(b.stripped)
	return b
}

// Classify assigns the color category from the complexity score.
func (b *FileRecordBuilder) Classify() *FileRecordBuilder {
	b.result.ColorCategory = algo.Classify(b.result.ComplexityScore, b.thresholds)
	return b
}

// Build returns the provisional record. NormalizedSize stays 0 until the batch is finalized.
func (b *FileRecordBuilder) Build() schema.FileRecord {
	return *b.result
}

// analyzeContent runs every builder step for one file.
func analyzeContent(filePath, content string, thresholds schema.Thresholds) schema.FileRecord {
	return NewFileRecordBuilder(filePath, content, thresholds).
		CountLines().          // Raw text, comments included
		StripSource().         // Feeds complexity only
		CalculateComplexity(). // Keyword tally
		Classify().            // Low / medium / high
		Build()
}

// finalizeRecords runs the second pass: every record's NormalizedSize is set
// from the maximum line count of this set of records.
func finalizeRecords(records []schema.FileRecord) []schema.FileRecord {
	maxLines := 0
	for _, r := range records {
		maxLines = max(maxLines, r.LineCount)
	}
	out := make([]schema.FileRecord, len(records))
	for i, r := range records {
		r.NormalizedSize = algo.Normalize(r.LineCount, maxLines)
		out[i] = r
	}
	return out
}
