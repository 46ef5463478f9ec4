package csvify

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// escape applies CSV quoting: quotes are doubled, and the cell is wrapped in
// quotes when it holds the delimiter, a quote, a line break, a semicolon, or
// leading or trailing whitespace.
func (c *Converter) escape(s string) string {
	if !c.opts.EscapeSpecialChars {
		return s
	}
	escaped := strings.ReplaceAll(s, `"`, `""`)
	if needsQuotes(escaped, c.opts.Delimiter) {
		return `"` + escaped + `"`
	}
	return escaped
}

func needsQuotes(s, delimiter string) bool {
	if s == "" {
		return false
	}
	if strings.Contains(s, delimiter) || strings.ContainsAny(s, "\"\n\r;") {
		return true
	}
	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(first) || unicode.IsSpace(last)
}
