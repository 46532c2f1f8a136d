package lexical

import (
	"unicode"
	"unicode/utf8"
)

// Keywords is the fixed set of control-flow keywords that make up the complexity score.
// The score is a tally of these words, not a cyclomatic complexity.
var Keywords = []string{"if", "switch", "while", "for"}

var keywordSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Keywords))
	for _, k := range Keywords {
		set[k] = struct{}{}
	}
	return set
}()

// isIdentRune reports whether r can appear inside an identifier.
func isIdentRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// KeywordCounts returns how many times each keyword appears as a whole
// identifier in stripped. Every keyword is present in the result.
func KeywordCounts(stripped string) map[string]int {
	counts := make(map[string]int, len(Keywords))
	for _, k := range Keywords {
		counts[k] = 0
	}

	start := -1
	for i := 0; i <= len(stripped); {
		r, size := utf8.RuneError, 1
		if i < len(stripped) {
			r, size = utf8.DecodeRuneInString(stripped[i:])
		}
		if i < len(stripped) && isIdentRune(r) {
			if start < 0 {
				start = i
			}
		} else if start >= 0 {
			word := stripped[start:i]
			if _, ok := keywordSet[word]; ok {
				counts[word]++
			}
			start = -1
		}
		i += size
	}
	return counts
}

// CountComplexity returns the total keyword tally for stripped source.
// Callers should pass text that has already been through Strip.
func CountComplexity(stripped string) int {
	total := 0
	for _, n := range KeywordCounts(stripped) {
		total += n
	}
	return total
}
