// Package schema has models and enums shared by all parts of repoviz.
package schema

import (
	"fmt"
	"strings"
)

// RepositoryLocator identifies a directory inside a hosted repository.
// It is produced once per request and never mutated afterwards.
type RepositoryLocator struct {
	Owner  string `json:"owner"`
	Repo   string `json:"repo"`
	Branch string `json:"branch,omitempty"` // Empty means the default branch
	Path   string `json:"path"`             // Directory path, "" for the repository root
}

// HasBranch reports whether an explicit branch was requested.
func (l RepositoryLocator) HasBranch() bool {
	return l.Branch != ""
}

// String renders the locator as owner/repo[@branch][:path].
func (l RepositoryLocator) String() string {
	var sb strings.Builder
	sb.WriteString(l.Owner)
	sb.WriteString("/")
	sb.WriteString(l.Repo)
	if l.HasBranch() {
		sb.WriteString("@")
		sb.WriteString(l.Branch)
	}
	if l.Path != "" {
		sb.WriteString(":")
		sb.WriteString(l.Path)
	}
	return sb.String()
}

// FileRecord holds the metrics and visual encoding for a single analyzed file.
type FileRecord struct {
	Name            string        `json:"name"`             // Base name of the file
	Path            string        `json:"path"`             // Path relative to the repository root
	LineCount       int           `json:"line_count"`       // Non-blank lines in the raw content
	ComplexityScore int           `json:"complexity_score"` // Control-flow keyword tally
	ColorCategory   ColorCategory `json:"color_category"`   // Bucket derived from ComplexityScore
	NormalizedSize  float64       `json:"normalized_size"`  // LineCount relative to the batch maximum, in [0,1]
	SizeBytes       int           `json:"size_bytes"`       // Raw content length
}

// Describe returns the short multi-line summary shown when hovering a file.
func (r FileRecord) Describe() string {
	return fmt.Sprintf("%s\nLines: %d\nComplexity: %d", r.Name, r.LineCount, r.ComplexityScore)
}

// Thresholds are the complexity boundaries between color categories.
// A score above Yellow is medium and a score above Red is high.
type Thresholds struct {
	Yellow int `json:"yellow"`
	Red    int `json:"red"`
}

// DefaultThresholds returns the stock yellow and red boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{Yellow: DefaultYellowThreshold, Red: DefaultRedThreshold}
}

// Validate checks that 0 <= Yellow < Red.
func (t Thresholds) Validate() error {
	if t.Yellow < 0 {
		return fmt.Errorf("yellow threshold must be non-negative (received %d)", t.Yellow)
	}
	if t.Red <= t.Yellow {
		return fmt.Errorf("red threshold (%d) must be greater than yellow threshold (%d)", t.Red, t.Yellow)
	}
	return nil
}
