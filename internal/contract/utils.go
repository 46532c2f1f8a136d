package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/repoviz/schema"
)

// Category label constants.
const (
	HighValue   = "High"   // High complexity
	MediumValue = "Medium" // Medium complexity
	LowValue    = "Low"    // Low complexity
)

// Color variables for console output.
var (
	HighColor   = color.New(color.FgRed, color.Bold) // HighColor mirrors the red swatch.
	MediumColor = color.New(color.FgYellow)          // MediumColor mirrors the yellow swatch.
	LowColor    = color.New(color.FgGreen)           // LowColor mirrors the green swatch.
)

// GetPlainLabel returns a plain text label for a color category.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(category schema.ColorCategory) string {
	switch category {
	case schema.HighCategory:
		return HighValue
	case schema.MediumCategory:
		return MediumValue
	default:
		return LowValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
func GetColorLabel(category schema.ColorCategory) string {
	text := GetPlainLabel(category)

	switch text {
	case HighValue:
		return HighColor.Sprint(text)
	case MediumValue:
		return MediumColor.Sprint(text)
	default: // "Low"
		return LowColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// MatchesExtension reports whether path ends with ext, ignoring case.
// ext is expected to be normalized with NormalizeExtension.
func MatchesExtension(path, ext string) bool {
	if ext == "" {
		return false
	}
	return strings.HasSuffix(strings.ToLower(path), ext)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".repoviz_history.db"
	}
	return filepath.Join(homeDir, ".repoviz_history.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
