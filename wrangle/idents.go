package main

import (
	"strings"
	"unicode"
)

// makeIdentUnderscores makes a lower-case name suitable for files and
// packages.
func makeIdentUnderscores(inp string) string {
	var b strings.Builder
	for i, r := range inp {
		switch {
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// makeIdentTitle makes an exported CamelCase identifier, starting a new
// word after each character that is neither letter nor digit. Names
// written all in upper case, such as "MAY_LOAD", are lower-cased apart
// from the first letter of each word; other names keep their case.
func makeIdentTitle(inp string) string {
	shouting := strings.ToUpper(inp) == inp

	var b strings.Builder
	nextUpper := true
	for i, r := range inp {
		switch {
		case unicode.IsDigit(r):
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
			nextUpper = true
		case unicode.IsLetter(r):
			switch {
			case nextUpper:
				b.WriteRune(unicode.ToUpper(r))
			case shouting:
				b.WriteRune(unicode.ToLower(r))
			default:
				b.WriteRune(r)
			}
			nextUpper = false
		default:
			nextUpper = true
		}
	}
	return b.String()
}
