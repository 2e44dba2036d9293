package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors
var (
	ErrEmptySpec        = errors.New("empty key specification")
	ErrInvalidSpec      = errors.New("invalid key specification")
	ErrUnmatchedBracket = errors.New("unmatched bracket in key specification")
)

// Parse parses a single key specification into an Event.
//
// Supported formats:
//   - Single character: "a", "G", "1", "+"
//   - Bracketed names: "<Left>", "<Space>", "<Return>", "<Equals>"
//   - With modifiers: "<Shift+g>", "<Ctrl+x>", "<C-x>", "<Alt+Left>"
func Parse(spec string) (Event, error) {
	if spec == "" {
		return Event{}, ErrEmptySpec
	}

	if len(spec) > 2 && spec[0] == '<' && spec[len(spec)-1] == '>' {
		return parseBracketed(spec[1 : len(spec)-1])
	}

	if utf8.RuneCountInString(spec) == 1 {
		r, _ := utf8.DecodeRuneInString(spec)
		if unicode.IsSpace(r) {
			return Event{}, fmt.Errorf("%w: bare whitespace, use <Space>", ErrInvalidSpec)
		}
		return NewRuneEvent(r, ModNone).Normalize(), nil
	}

	return Event{}, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
}

// parseBracketed parses the inside of <...>.
func parseBracketed(inner string) (Event, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return Event{}, ErrInvalidSpec
	}
	if utf8.RuneCountInString(inner) == 1 {
		return parseKeyWithModifiers(inner, ModNone)
	}

	sep := ""
	switch {
	case strings.Contains(inner[1:], "+"):
		sep = "+"
	case strings.Contains(inner[1:], "-"):
		sep = "-"
	default:
		return parseKeyWithModifiers(inner, ModNone)
	}

	// The key is whatever follows the last separator, which lets "<C-->"
	// and "<Ctrl++>" name the separator itself.
	idx := strings.LastIndex(inner[:len(inner)-1], sep)
	if idx <= 0 {
		return parseKeyWithModifiers(inner, ModNone)
	}
	keyPart := inner[idx+1:]

	var mods Modifier
	for _, p := range strings.Split(inner[:idx], sep) {
		mod := ModifierFromName(p)
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, p)
		}
		mods = mods.With(mod)
	}
	return parseKeyWithModifiers(keyPart, mods)
}

// parseKeyWithModifiers parses a key part with already-known modifiers.
func parseKeyWithModifiers(keyPart string, mods Modifier) (Event, error) {
	if keyPart == "" {
		return Event{}, ErrInvalidSpec
	}

	if k := KeyFromName(keyPart); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}
	if r, ok := RuneFromName(keyPart); ok {
		return NewRuneEvent(r, mods).Normalize(), nil
	}

	if utf8.RuneCountInString(keyPart) == 1 {
		r, _ := utf8.DecodeRuneInString(keyPart)
		return NewRuneEvent(r, mods).Normalize(), nil
	}

	return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, keyPart)
}

// MustParse parses a key specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParse(spec string) Event {
	event, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return event
}
