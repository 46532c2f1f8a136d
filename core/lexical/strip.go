// Package lexical has the text-level metrics used to score a source file:
// comment and literal stripping, non-blank line counting and the
// control-flow keyword tally.
package lexical

import "strings"

// scanState is the stripper's current lexical context.
type scanState int

const (
	inCode scanState = iota
	inLineComment
	inBlockComment
	inString
	inChar
)

// Strip blanks out comments and string/char literals in C-family source.
//
// Block comments become their line breaks, or a single space when they span
// one line. Line comments are dropped up to the line break. String and char
// literals keep their delimiters and line breaks but lose their contents.
// Backslash escapes never end a literal early. Unterminated comments and
// literals consume the rest of the input. Strip(Strip(s)) == Strip(s).
func Strip(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))

	state := inCode
	blockHadNewline := false

	for i := 0; i < len(source); i++ {
		c := source[i]
		switch state {
		case inCode:
			switch {
			case c == '/' && i+1 < len(source) && source[i+1] == '/':
				state = inLineComment
				i++
			case c == '/' && i+1 < len(source) && source[i+1] == '*':
				state = inBlockComment
				blockHadNewline = false
				i++
			case c == '"':
				sb.WriteByte(c)
				state = inString
			case c == '\'':
				sb.WriteByte(c)
				state = inChar
			default:
				sb.WriteByte(c)
			}

		case inLineComment:
			if c == '\n' {
				sb.WriteByte(c)
				state = inCode
			}

		case inBlockComment:
			switch {
			case c == '\n':
				sb.WriteByte(c)
				blockHadNewline = true
			case c == '*' && i+1 < len(source) && source[i+1] == '/':
				if !blockHadNewline {
					sb.WriteByte(' ')
				}
				state = inCode
				i++
			}

		case inString, inChar:
			quote := byte('"')
			if state == inChar {
				quote = '\''
			}
			switch c {
			case '\\':
				if i+1 < len(source) {
					i++
					if source[i] == '\n' {
						sb.WriteByte('\n')
					}
				}
			case '\n':
				sb.WriteByte(c)
			case quote:
				sb.WriteByte(c)
				state = inCode
			}
		}
	}

	if state == inBlockComment && !blockHadNewline {
		sb.WriteByte(' ')
	}
	return sb.String()
}
