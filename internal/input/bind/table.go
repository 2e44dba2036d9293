// Package bind maps chorded key sequences to lists of command text.
//
// A Table holds a prefix tree of binds and the keys typed so far. Each key
// event either completes a bind, which returns its commands, extends a
// known prefix, which waits for more keys, or matches nothing, which
// discards the typed keys. No bind may be a strict prefix of another, so
// a completed sequence is never ambiguous.
package bind

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dshills/imview/internal/command"
	"github.com/dshills/imview/internal/input/key"
)

// MaxCommandLen is the exclusive upper bound on a single bound statement.
const MaxCommandLen = 512

// DefaultChordTimeout is how long a partial chord waits for its next key.
const DefaultChordTimeout = time.Second

// Bind errors.
var (
	ErrInvalidKeys    = errors.New("bind: invalid key sequence")
	ErrInvalidCommand = errors.New("bind: no command given")
	ErrConflict       = errors.New("bind: key sequence conflicts with existing bind")
	ErrCommandTooLong = errors.New("bind: command exceeds maximum length")
)

// Table stores binds and tracks the chord being typed.
type Table struct {
	root    *node
	pending *key.Sequence
	last    time.Time
	timeout time.Duration
}

// NewTable creates an empty table with DefaultChordTimeout.
func NewTable() *Table {
	return &Table{
		root:    newNode(),
		pending: key.NewSequence(),
		timeout: DefaultChordTimeout,
	}
}

// SetChordTimeout sets how long a partial chord survives between keys.
// Zero disables the timeout.
func (t *Table) SetChordTimeout(d time.Duration) {
	if d < 0 {
		d = 0
	}
	t.timeout = d
}

// ChordTimeout returns the current chord timeout.
func (t *Table) ChordTimeout() time.Duration {
	return t.timeout
}

// Add appends a command to the bind for seq, creating it if needed.
func (t *Table) Add(seq *key.Sequence, cmd string) error {
	if seq == nil || seq.IsEmpty() {
		return ErrInvalidKeys
	}
	if strings.TrimSpace(cmd) == "" {
		return ErrInvalidCommand
	}
	if t.root.conflict(seq) {
		return fmt.Errorf("%w: %s", ErrConflict, seq.String())
	}

	n := t.root.insert(seq)
	n.commands = append(n.commands, cmd)
	return nil
}

// Bind replaces the bind for spec with the statements in text.
// If any statement is rejected the bind is left cleared.
func (t *Table) Bind(spec, text string) error {
	seq, err := key.ParseSequence(spec)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidKeys, spec, err)
	}

	t.Clear(seq)
	stmts := command.SplitStatements(text)
	if len(stmts) == 0 {
		return ErrInvalidCommand
	}
	for _, stmt := range stmts {
		if len(stmt) >= MaxCommandLen {
			t.Clear(seq)
			return fmt.Errorf("%w: %.40q", ErrCommandTooLong, stmt)
		}
		if err := t.Add(seq, stmt); err != nil {
			t.Clear(seq)
			return err
		}
	}
	return nil
}

// Clear removes the bind for seq. It reports whether a bind existed.
func (t *Table) Clear(seq *key.Sequence) bool {
	if seq == nil || seq.IsEmpty() {
		return false
	}
	return t.root.remove(seq)
}

// ClearAll removes every bind and discards any partial chord.
func (t *Table) ClearAll() {
	t.root = newNode()
	t.Reset()
}

// Lookup returns a copy of the commands bound to exactly seq.
func (t *Table) Lookup(seq *key.Sequence) []string {
	n := t.root.walk(seq)
	if n == nil || len(n.commands) == 0 {
		return nil
	}
	return append([]string(nil), n.commands...)
}

// Binds returns every bind as canonical key string to commands, with
// keys in each sequence separated by spaces.
func (t *Table) Binds() map[string][]string {
	out := make(map[string][]string)
	t.root.each(nil, func(keys, commands []string) {
		out[strings.Join(keys, " ")] = append([]string(nil), commands...)
	})
	return out
}

// Sequences returns the canonical strings of all bound sequences, sorted.
func (t *Table) Sequences() []string {
	binds := t.Binds()
	seqs := make([]string, 0, len(binds))
	for s := range binds {
		seqs = append(seqs, s)
	}
	sort.Strings(seqs)
	return seqs
}

// Pending returns the keys typed toward an incomplete chord.
func (t *Table) Pending() string {
	return t.pending.String()
}

// Reset discards any partial chord.
func (t *Table) Reset() {
	t.pending.Clear()
	t.last = time.Time{}
}

// HandleEvent feeds a key press to the table. It returns the bound
// commands when the event completes a bind and nil otherwise.
func (t *Table) HandleEvent(event key.Event) []string {
	if t.expired(event.Timestamp) {
		t.Reset()
	}

	t.pending.Add(event.Normalize())
	t.last = event.Timestamp

	n := t.root.walk(t.pending)
	switch {
	case n == nil:
		t.Reset()
		return nil
	case len(n.commands) > 0:
		t.Reset()
		return append([]string(nil), n.commands...)
	default:
		return nil
	}
}

func (t *Table) expired(now time.Time) bool {
	if t.timeout <= 0 || t.pending.IsEmpty() {
		return false
	}
	if now.IsZero() || t.last.IsZero() {
		return false
	}
	return now.Sub(t.last) > t.timeout
}
