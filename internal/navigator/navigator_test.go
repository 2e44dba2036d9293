package navigator

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newNav(paths ...string) *Navigator {
	n := New()
	for _, p := range paths {
		n.Add(p, false)
	}
	n.PollChanged()
	return n
}

func TestSelectRelativeRoundTrip(t *testing.T) {
	n := newNav("a", "b", "c", "d")
	n.SelectAbsolute(2)

	for _, k := range []int{1, 3, 4, 7, -5} {
		before := n.Index()
		n.SelectRelative(k)
		n.SelectRelative(-k)
		if n.Index() != before {
			t.Errorf("SelectRelative(%d) then (%d): index = %d, want %d", k, -k, n.Index(), before)
		}
	}
}

func TestSelectRelativeWraps(t *testing.T) {
	n := newNav("a", "b", "c")

	n.SelectRelative(1)
	n.SelectRelative(1)
	if n.Wrapped() {
		t.Error("Wrapped() = true before passing the end")
	}
	if got := n.Selection(); got != "c" {
		t.Errorf("Selection() = %q, want c", got)
	}

	n.SelectRelative(1)
	if got := n.Selection(); got != "a" {
		t.Errorf("Selection() = %q, want a", got)
	}
	if !n.Wrapped() {
		t.Error("Wrapped() = false after passing the end")
	}
	if n.Wrapped() {
		t.Error("Wrapped() should reset after being read")
	}

	n.SelectRelative(-1)
	if got := n.Selection(); got != "c" || !n.Wrapped() {
		t.Errorf("backwards wrap: Selection() = %q", got)
	}
}

func TestSelectAbsoluteNegative(t *testing.T) {
	n := newNav("a", "b", "c")

	n.SelectAbsolute(-1)
	if n.Index() != 2 {
		t.Errorf("SelectAbsolute(-1) index = %d, want 2", n.Index())
	}
	n.SelectAbsolute(4)
	if n.Index() != 1 {
		t.Errorf("SelectAbsolute(4) index = %d, want 1", n.Index())
	}
	if n.Wrapped() {
		t.Error("SelectAbsolute should not report a wrap")
	}
}

func TestEmptyNavigatorIsNoop(t *testing.T) {
	n := New()

	n.SelectRelative(1)
	n.SelectAbsolute(-1)
	if n.PollChanged() || n.Wrapped() {
		t.Error("selection on an empty list should not set flags")
	}
	if n.Selection() != "" || n.Len() != 0 {
		t.Errorf("Selection() = %q, Len() = %d", n.Selection(), n.Len())
	}
	if _, ok := n.Current(); ok {
		t.Error("Current() ok on empty list")
	}
	if err := n.RemoveCurrent(); !errors.Is(err, ErrEmpty) {
		t.Errorf("RemoveCurrent() error = %v, want ErrEmpty", err)
	}
}

func TestPollChangedIsEdgeTriggered(t *testing.T) {
	n := New()
	n.Add("a", false)

	if !n.PollChanged() {
		t.Error("first Add should mark the selection changed")
	}
	if n.PollChanged() {
		t.Error("PollChanged should reset after being read")
	}

	n.Add("b", false)
	if n.PollChanged() {
		t.Error("appending behind the selection should not change it")
	}

	n.SelectRelative(1)
	if !n.PollChanged() {
		t.Error("SelectRelative should mark the selection changed")
	}
	if n.PollChanged() {
		t.Error("PollChanged should reset after being read")
	}
}

func TestRemoveCurrentKeepsValidIndex(t *testing.T) {
	n := newNav("a", "b", "c")
	n.SelectAbsolute(2)
	n.PollChanged()

	if err := n.RemoveCurrent(); err != nil {
		t.Fatalf("RemoveCurrent() error = %v", err)
	}
	if n.Index() != 1 || n.Selection() != "b" {
		t.Errorf("after removing last: index %d selection %q, want 1 b", n.Index(), n.Selection())
	}
	if !n.PollChanged() {
		t.Error("removing the selection should mark it changed")
	}

	n.SelectAbsolute(0)
	n.Remove("a")
	if n.Index() != 0 || n.Selection() != "b" {
		t.Errorf("after removing first: index %d selection %q, want 0 b", n.Index(), n.Selection())
	}

	n.Remove("b")
	if n.Len() != 0 || n.Index() != 0 {
		t.Errorf("after removing all: len %d index %d", n.Len(), n.Index())
	}
}

func TestRemoveBeforeCursor(t *testing.T) {
	n := newNav("a", "b", "c")
	n.SelectAbsolute(2)
	n.PollChanged()

	if !n.Remove("a") {
		t.Fatal("Remove(a) = false")
	}
	if n.Selection() != "c" {
		t.Errorf("Selection() = %q, want c", n.Selection())
	}
	if n.PollChanged() {
		t.Error("removing before the cursor should not change the selection")
	}
	if n.Remove("zzz") {
		t.Error("Remove of a missing path = true")
	}
}

func TestRemoveCurrentDuplicatePath(t *testing.T) {
	n := newNav("a", "b", "b", "c")
	n.SelectAbsolute(1)
	n.PollChanged()

	n.RemoveAt(1)
	if n.Selection() != "b" || n.Len() != 3 {
		t.Fatalf("selection %q len %d, want b 3", n.Selection(), n.Len())
	}
	if n.PollChanged() {
		t.Error("removing the selection should not mark it changed when the path is the same")
	}

	n.RemoveAt(1)
	if n.Selection() != "c" || !n.PollChanged() {
		t.Errorf("selection %q, want c and changed", n.Selection())
	}
}

func TestAddDirectory(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "b.png"))
	mustWrite(t, filepath.Join(dir, "a.jpg"))
	mustWrite(t, filepath.Join(dir, "notes.txt"))
	mustWrite(t, filepath.Join(dir, "sub", "c.gif"))

	flat := New()
	flat.Add(dir, false)
	want := []string{
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "notes.txt"),
	}
	if diff := cmp.Diff(want, flat.Paths()); diff != "" {
		t.Errorf("non-recursive mismatch (-want +got):\n%s", diff)
	}

	deep := New()
	if err := deep.SetExclude([]string{"*.txt"}); err != nil {
		t.Fatalf("SetExclude error = %v", err)
	}
	deep.Add(dir, true)
	deep.Add(filepath.Join(dir, "notes.txt"), true)
	want = []string{
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "sub", "c.gif"),
		filepath.Join(dir, "notes.txt"),
	}
	if diff := cmp.Diff(want, deep.Paths()); diff != "" {
		t.Errorf("recursive mismatch (-want +got):\n%s", diff)
	}
	if !deep.PollChanged() {
		t.Error("adding a directory to an empty list should mark changed")
	}
}

func TestAddKeepsUnresolvedPaths(t *testing.T) {
	n := New()
	n.Add("/does/not/exist.png", false)
	n.Add(StdinPath, false)
	n.AddEntry(Entry{Path: "x.png", FromStdin: true}, false)

	if diff := cmp.Diff([]string{"/does/not/exist.png", StdinPath, "x.png"}, n.Paths()); diff != "" {
		t.Errorf("Paths mismatch (-want +got):\n%s", diff)
	}
	if i, ok := n.Find(StdinPath); !ok || i != 1 {
		t.Errorf("Find(-) = %d, %v", i, ok)
	}
	if n.At(5) != "" || n.At(2) != "x.png" {
		t.Errorf("At() returned unexpected values")
	}
}

func TestUnreadableDirectoryReported(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	if err := os.Mkdir(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	var reported []string
	n := New()
	n.OnError(func(path string, err error) { reported = append(reported, path) })
	n.Add(dir, true)

	if diff := cmp.Diff([]string{locked}, reported); diff != "" {
		t.Errorf("reported mismatch (-want +got):\n%s", diff)
	}
}

func mustWrite(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}
