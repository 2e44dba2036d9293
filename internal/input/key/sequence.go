package key

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Sequence represents a series of key events forming a chord.
// Examples: "gg" (first image), "<Ctrl+x>q"
type Sequence struct {
	// Events contains the key events in order.
	Events []Event
}

// NewSequence creates an empty key sequence.
func NewSequence() *Sequence {
	return &Sequence{
		Events: make([]Event, 0, 4),
	}
}

// Len returns the number of events in the sequence.
func (s *Sequence) Len() int {
	return len(s.Events)
}

// IsEmpty returns true if the sequence has no events.
func (s *Sequence) IsEmpty() bool {
	return len(s.Events) == 0
}

// Add appends an event to the sequence.
func (s *Sequence) Add(event Event) {
	s.Events = append(s.Events, event)
}

// Clear removes all events from the sequence.
func (s *Sequence) Clear() {
	s.Events = s.Events[:0]
}

// Last returns the last event, or nil if empty.
func (s *Sequence) Last() *Event {
	if len(s.Events) == 0 {
		return nil
	}
	return &s.Events[len(s.Events)-1]
}

// Keys returns the canonical string of each event, used as trie keys.
func (s *Sequence) Keys() []string {
	keys := make([]string, len(s.Events))
	for i, e := range s.Events {
		keys[i] = e.String()
	}
	return keys
}

// String returns a human-readable representation.
// Examples: "g g", "C-x q"
func (s *Sequence) String() string {
	return strings.Join(s.Keys(), " ")
}

// Equals returns true if two sequences are identical.
func (s *Sequence) Equals(other *Sequence) bool {
	if s == nil || other == nil {
		return s == other
	}
	if len(s.Events) != len(other.Events) {
		return false
	}
	for i, e := range s.Events {
		if !e.Equals(other.Events[i]) {
			return false
		}
	}
	return true
}

// HasPrefix returns true if this sequence starts with the given prefix.
func (s *Sequence) HasPrefix(prefix *Sequence) bool {
	if prefix == nil || prefix.IsEmpty() {
		return true
	}
	if len(prefix.Events) > len(s.Events) {
		return false
	}
	for i, e := range prefix.Events {
		if !e.Equals(s.Events[i]) {
			return false
		}
	}
	return true
}

// Clone returns a copy of the sequence.
func (s *Sequence) Clone() *Sequence {
	if s == nil {
		return nil
	}
	events := make([]Event, len(s.Events))
	copy(events, s.Events)
	return &Sequence{Events: events}
}

// ParseSequence parses a continuous bind specification into a Sequence.
// Examples: "gg", "<Shift+g>", "<Ctrl+x>q", "<LeftSquareBracket>"
//
// A '<' with no closing '>' is a literal '<'.
func ParseSequence(s string) (*Sequence, error) {
	if s == "" {
		return nil, ErrEmptySpec
	}

	seq := NewSequence()
	for i := 0; i < len(s); {
		if s[i] == '<' {
			end := strings.IndexByte(s[i+1:], '>')
			if end == -1 {
				seq.Add(NewRuneEvent('<', ModNone))
				i++
				continue
			}
			if end == 0 {
				// "<>" is '<' followed by '>'.
				seq.Add(NewRuneEvent('<', ModNone))
				i++
				continue
			}
			event, err := Parse(s[i : i+end+2])
			if err != nil {
				return nil, fmt.Errorf("key %d: %w", seq.Len()+1, err)
			}
			seq.Add(event)
			i += end + 2
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			return nil, fmt.Errorf("%w: invalid utf-8", ErrInvalidSpec)
		}
		event, err := Parse(s[i : i+size])
		if err != nil {
			return nil, err
		}
		seq.Add(event)
		i += size
	}

	return seq, nil
}

// MustParseSequence parses a sequence string and panics on error.
// Use only for known-valid sequences in initialization code.
func MustParseSequence(s string) *Sequence {
	seq, err := ParseSequence(s)
	if err != nil {
		panic("invalid key sequence: " + s + ": " + err.Error())
	}
	return seq
}
