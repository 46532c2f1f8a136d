package schema

import (
	"encoding/json"
	"time"
)

// AnalysisBatch is the finalized result of one pipeline run.
// Records keep listing order. A batch is never modified once built, so it can
// be shared freely between goroutines.
type AnalysisBatch struct {
	locator      RepositoryLocator
	records      []FileRecord
	maxLineCount int
	status       string
	createdAt    time.Time
}

// NewAnalysisBatch builds a batch from finalized records. The slice is copied.
func NewAnalysisBatch(loc RepositoryLocator, records []FileRecord, status string) *AnalysisBatch {
	owned := make([]FileRecord, len(records))
	copy(owned, records)
	maxLines := 0
	for _, r := range owned {
		maxLines = max(maxLines, r.LineCount)
	}
	return &AnalysisBatch{
		locator:      loc,
		records:      owned,
		maxLineCount: maxLines,
		status:       status,
		createdAt:    time.Now(),
	}
}

// Locator returns the locator the batch was built for.
func (b *AnalysisBatch) Locator() RepositoryLocator { return b.locator }

// Records returns a copy of the records in listing order.
func (b *AnalysisBatch) Records() []FileRecord {
	out := make([]FileRecord, len(b.records))
	copy(out, b.records)
	return out
}

// Len returns the number of records.
func (b *AnalysisBatch) Len() int { return len(b.records) }

// At returns the record at index i.
func (b *AnalysisBatch) At(i int) FileRecord { return b.records[i] }

// MaxLineCount returns the largest line count in the batch, or 0 when empty.
func (b *AnalysisBatch) MaxLineCount() int { return b.maxLineCount }

// Status returns the informational status message.
func (b *AnalysisBatch) Status() string { return b.status }

// CreatedAt returns when the batch was finalized.
func (b *AnalysisBatch) CreatedAt() time.Time { return b.createdAt }

// IsEmpty reports whether no files matched.
func (b *AnalysisBatch) IsEmpty() bool { return len(b.records) == 0 }

// CategoryCounts tallies records per color category.
func (b *AnalysisBatch) CategoryCounts() map[ColorCategory]int {
	counts := make(map[ColorCategory]int, len(AllColorCategories))
	for _, c := range AllColorCategories {
		counts[c] = 0
	}
	for _, r := range b.records {
		counts[r.ColorCategory]++
	}
	return counts
}

// TotalLines sums the line counts of all records.
func (b *AnalysisBatch) TotalLines() int {
	total := 0
	for _, r := range b.records {
		total += r.LineCount
	}
	return total
}

// batchJSON is the wire form of an AnalysisBatch.
type batchJSON struct {
	Locator      RepositoryLocator `json:"locator"`
	Records      []FileRecord      `json:"records"`
	MaxLineCount int               `json:"max_line_count"`
	Status       string            `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
}

// MarshalJSON implements json.Marshaler.
func (b *AnalysisBatch) MarshalJSON() ([]byte, error) {
	records := b.records
	if records == nil {
		records = []FileRecord{}
	}
	return json.Marshal(batchJSON{
		Locator:      b.locator,
		Records:      records,
		MaxLineCount: b.maxLineCount,
		Status:       b.status,
		CreatedAt:    b.createdAt,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *AnalysisBatch) UnmarshalJSON(data []byte) error {
	var raw batchJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.locator = raw.Locator
	b.records = raw.Records
	b.maxLineCount = raw.MaxLineCount
	b.status = raw.Status
	b.createdAt = raw.CreatedAt
	return nil
}
