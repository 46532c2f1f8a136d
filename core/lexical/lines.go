package lexical

import "strings"

// CountLines returns the number of non-blank lines in source.
// "\r\n" and "\n" are treated alike, and a trailing newline does not add a line.
func CountLines(source string) int {
	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	count := 0
	for line := range strings.SplitSeq(normalized, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}
