package lexical

import (
	"strings"
	"testing"
)

// FuzzStrip checks that stripping is idempotent, keeps every line break and
// never yields a higher keyword tally than a second pass would.
func FuzzStrip(f *testing.F) {
	seeds := []string{
		"if (x) { /* while */ }",
		`"a\"b" 'c' // for`,
		"/* unterminated",
		"\"unterminated\nstring",
		"x = a / b / c;",
		"'\\\n'",
		"",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, src string) {
		once := Strip(src)
		twice := Strip(once)
		if once != twice {
			t.Fatalf("Strip not idempotent for %q: %q != %q", src, once, twice)
		}
		if strings.Count(src, "\n") != strings.Count(once, "\n") {
			t.Fatalf("Strip changed line breaks for %q", src)
		}
		if n := CountComplexity(once); n < 0 {
			t.Fatalf("negative complexity %d", n)
		}
	})
}

// FuzzCountLines compares CountLines against a split-and-trim reference.
func FuzzCountLines(f *testing.F) {
	f.Add("a\nb\n")
	f.Add("\r\n\r\n")
	f.Add("  x  \r\n\ty")

	f.Fuzz(func(t *testing.T, src string) {
		want := 0
		for _, seg := range strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n") {
			if strings.TrimSpace(seg) != "" {
				want++
			}
		}
		if got := CountLines(src); got != want {
			t.Fatalf("CountLines(%q) = %d, want %d", src, got, want)
		}
	})
}
