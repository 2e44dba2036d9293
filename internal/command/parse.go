package command

import (
	"strings"
	"unicode"
)

// SplitStatements splits text into statements on semicolons that are not
// inside single or double quotes and not escaped by a backslash.
// Quotes and escapes are preserved in the returned statements; empty
// statements are dropped.
func SplitStatements(text string) []string {
	var (
		out      []string
		inSingle bool
		inDouble bool
		start    int
	)

	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case !inSingle && c == '"':
			inDouble = !inDouble
		case !inDouble && c == '\'':
			inSingle = !inSingle
		case c == '\\':
			// Skip the escaped byte, but a trailing backslash stays literal.
			if i+1 < len(text) {
				i++
			}
		case !inSingle && !inDouble && c == ';':
			out = appendStatement(out, text[start:i])
			start = i + 1
		}
	}
	return appendStatement(out, text[start:])
}

func appendStatement(out []string, stmt string) []string {
	if strings.TrimSpace(stmt) == "" {
		return out
	}
	return append(out, stmt)
}

// Tokenize splits a statement into words.
//
// Words are separated by unquoted whitespace. Single quotes preserve their
// contents literally. Double quotes group text but still honor backslash
// escapes. Outside quotes a backslash escapes the next character; a
// trailing backslash is kept as-is.
func Tokenize(text string) []string {
	var (
		words    []string
		cur      strings.Builder
		inWord   bool
		inSingle bool
		inDouble bool
	)

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case inSingle:
			if r == '\'' {
				inSingle = false
			} else {
				cur.WriteRune(r)
			}
		case r == '\\':
			inWord = true
			if i+1 < len(runes) {
				i++
				cur.WriteRune(runes[i])
			} else {
				cur.WriteRune(r)
			}
		case inDouble:
			if r == '"' {
				inDouble = false
			} else {
				cur.WriteRune(r)
			}
		case r == '\'':
			inSingle, inWord = true, true
		case r == '"':
			inDouble, inWord = true, true
		case unicode.IsSpace(r):
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			inWord = true
			cur.WriteRune(r)
		}
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words
}

// splitName separates the first whitespace-delimited word from the rest.
// The rest has leading whitespace removed.
func splitName(text string) (name, rest string) {
	text = strings.TrimLeftFunc(text, unicode.IsSpace)
	idx := strings.IndexFunc(text, unicode.IsSpace)
	if idx < 0 {
		return text, ""
	}
	return text[:idx], strings.TrimLeftFunc(text[idx:], unicode.IsSpace)
}
