// Package navigator keeps the ordered list of images being viewed and the
// current selection.
//
// Selection changes and wrap-arounds are reported through edge-triggered
// flags: PollChanged and Wrapped each return true once per transition and
// then reset. The navigator is not safe for concurrent use.
package navigator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gobwas/glob"
)

// StdinPath is the path that stands for image data read from stdin.
const StdinPath = "-"

// ErrEmpty indicates an operation that needs a selection on an empty list.
var ErrEmpty = errors.New("navigator: no paths")

// Entry is one item in the list.
type Entry struct {
	Path string

	// FromStdin marks paths that were read from stdin rather than given
	// on the command line.
	FromStdin bool
}

// Navigator is an ordered, mutable list of paths with a cursor.
type Navigator struct {
	entries []Entry
	index   int

	changed bool
	wrapped bool

	exclude []glob.Glob
	onError func(path string, err error)
}

// New creates an empty navigator.
func New() *Navigator {
	return &Navigator{}
}

// SetExclude compiles glob patterns that filter files discovered while
// expanding directories. Paths added explicitly are never filtered.
func (n *Navigator) SetExclude(patterns []string) error {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return fmt.Errorf("navigator: exclude pattern %q: %w", p, err)
		}
		compiled = append(compiled, g)
	}
	n.exclude = compiled
	return nil
}

// OnError registers a callback for directories that cannot be read while
// expanding. Such directories are skipped.
func (n *Navigator) OnError(fn func(path string, err error)) {
	n.onError = fn
}

// Add appends path. A directory is replaced by the files it contains, and
// with recursive set, by the files of its subdirectories too. Anything
// else is appended as-is and resolved later when it is opened.
func (n *Navigator) Add(path string, recursive bool) {
	n.AddEntry(Entry{Path: path}, recursive)
}

// AddEntry is Add with an explicit origin.
func (n *Navigator) AddEntry(e Entry, recursive bool) {
	wasEmpty := len(n.entries) == 0

	if e.Path != StdinPath {
		if info, err := os.Stat(e.Path); err == nil && info.IsDir() {
			n.addDir(e.Path, recursive, e.FromStdin)
			n.afterAdd(wasEmpty)
			return
		}
	}
	n.entries = append(n.entries, e)
	n.afterAdd(wasEmpty)
}

func (n *Navigator) afterAdd(wasEmpty bool) {
	if wasEmpty && len(n.entries) > 0 {
		n.index = 0
		n.changed = true
	}
}

func (n *Navigator) addDir(dir string, recursive, fromStdin bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		n.reportError(dir, err)
		return
	}

	for _, de := range entries {
		full := filepath.Join(dir, de.Name())

		isDir := de.IsDir()
		if de.Type()&os.ModeSymlink != 0 {
			info, err := os.Stat(full)
			if err != nil {
				n.reportError(full, err)
				continue
			}
			isDir = info.IsDir()
		}

		if isDir {
			if recursive {
				n.addDir(full, recursive, fromStdin)
			}
			continue
		}
		if n.excluded(full) {
			continue
		}
		n.entries = append(n.entries, Entry{Path: full, FromStdin: fromStdin})
	}
}

func (n *Navigator) excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, g := range n.exclude {
		if g.Match(base) || g.Match(slashed) {
			return true
		}
	}
	return false
}

func (n *Navigator) reportError(path string, err error) {
	if n.onError != nil {
		n.onError(path, err)
	}
}

// Remove deletes the first entry whose path equals path. It reports
// whether an entry was removed.
func (n *Navigator) Remove(path string) bool {
	i, ok := n.Find(path)
	if !ok {
		return false
	}
	n.RemoveAt(i)
	return true
}

// RemoveCurrent deletes the selected entry.
func (n *Navigator) RemoveCurrent() error {
	if len(n.entries) == 0 {
		return ErrEmpty
	}
	n.RemoveAt(n.index)
	return nil
}

// RemoveAt deletes the entry at i. Removing at or before the cursor keeps
// the cursor in range without wrapping.
func (n *Navigator) RemoveAt(i int) {
	if i < 0 || i >= len(n.entries) {
		return
	}
	prev := n.Selection()

	n.entries = append(n.entries[:i], n.entries[i+1:]...)
	if i < n.index {
		n.index--
	}
	if n.index >= len(n.entries) {
		n.index = len(n.entries) - 1
	}
	if n.index < 0 {
		n.index = 0
	}

	// A duplicate of the removed path moving under the cursor is not a
	// change.
	if n.Selection() != prev {
		n.changed = true
	}
}

// SelectRelative moves the cursor by delta, wrapping around either end.
func (n *Navigator) SelectRelative(delta int) {
	count := len(n.entries)
	if count == 0 {
		return
	}
	prev := n.Selection()

	next := n.index + delta
	if next < 0 || next >= count {
		n.wrapped = true
	}
	n.index = ((next % count) + count) % count

	if n.Selection() != prev {
		n.changed = true
	}
}

// SelectAbsolute moves the cursor to i. Negative indices count from the
// end, so -1 is the last entry.
func (n *Navigator) SelectAbsolute(i int) {
	count := len(n.entries)
	if count == 0 {
		return
	}
	prev := n.Selection()

	n.index = ((i % count) + count) % count

	if n.Selection() != prev {
		n.changed = true
	}
}

// PollChanged reports whether the selection changed since the last call.
func (n *Navigator) PollChanged() bool {
	c := n.changed
	n.changed = false
	return c
}

// Wrapped reports whether a relative move wrapped around since the last
// call.
func (n *Navigator) Wrapped() bool {
	w := n.wrapped
	n.wrapped = false
	return w
}

// Selection returns the selected path, or "" when the list is empty.
func (n *Navigator) Selection() string {
	if len(n.entries) == 0 {
		return ""
	}
	return n.entries[n.index].Path
}

// Current returns the selected entry.
func (n *Navigator) Current() (Entry, bool) {
	if len(n.entries) == 0 {
		return Entry{}, false
	}
	return n.entries[n.index], true
}

// Index returns the cursor position.
func (n *Navigator) Index() int {
	return n.index
}

// Len returns the number of entries.
func (n *Navigator) Len() int {
	return len(n.entries)
}

// At returns the path at i, or "" when out of range.
func (n *Navigator) At(i int) string {
	if i < 0 || i >= len(n.entries) {
		return ""
	}
	return n.entries[i].Path
}

// Find returns the index of the first entry with path.
func (n *Navigator) Find(path string) (int, bool) {
	for i, e := range n.entries {
		if e.Path == path {
			return i, true
		}
	}
	return -1, false
}

// Paths returns a copy of all paths in order.
func (n *Navigator) Paths() []string {
	paths := make([]string, len(n.entries))
	for i, e := range n.entries {
		paths[i] = e.Path
	}
	return paths
}
