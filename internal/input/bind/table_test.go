package bind

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/imview/internal/input/key"
)

func feed(t *Table, spec string, at time.Time) []string {
	var out []string
	for _, e := range key.MustParseSequence(spec).Events {
		e.Timestamp = at
		out = t.HandleEvent(e)
	}
	return out
}

func TestTableConflicts(t *testing.T) {
	tbl := NewTable()

	if err := tbl.Add(key.MustParseSequence("gg"), "A"); err != nil {
		t.Fatalf("Add(gg) error = %v", err)
	}
	if err := tbl.Add(key.MustParseSequence("g"), "B"); !errors.Is(err, ErrConflict) {
		t.Errorf("Add(g) error = %v, want ErrConflict", err)
	}
	if err := tbl.Add(key.MustParseSequence("ggg"), "C"); !errors.Is(err, ErrConflict) {
		t.Errorf("Add(ggg) error = %v, want ErrConflict", err)
	}
	if err := tbl.Add(key.MustParseSequence("gx"), "C"); err != nil {
		t.Errorf("Add(gx) error = %v", err)
	}
	if err := tbl.Add(key.MustParseSequence("gg"), "D"); err != nil {
		t.Errorf("Add(gg) again error = %v", err)
	}

	if diff := cmp.Diff([]string{"A", "D"}, tbl.Lookup(key.MustParseSequence("gg"))); diff != "" {
		t.Errorf("Lookup(gg) mismatch (-want +got):\n%s", diff)
	}
}

func TestTableAddInvalid(t *testing.T) {
	tbl := NewTable()

	if err := tbl.Add(key.NewSequence(), "quit"); !errors.Is(err, ErrInvalidKeys) {
		t.Errorf("Add(empty) error = %v, want ErrInvalidKeys", err)
	}
	if err := tbl.Add(key.MustParseSequence("q"), "  "); !errors.Is(err, ErrInvalidCommand) {
		t.Errorf("Add(q, blank) error = %v, want ErrInvalidCommand", err)
	}
}

func TestTableHandleEventChords(t *testing.T) {
	tbl := NewTable()
	_ = tbl.Add(key.MustParseSequence("gg"), "A")
	_ = tbl.Add(key.MustParseSequence("gx"), "C")
	_ = tbl.Add(key.MustParseSequence("q"), "quit")

	now := time.Now()

	if got := feed(tbl, "g", now); got != nil {
		t.Errorf("after g got %v, want nil", got)
	}
	if tbl.Pending() != "g" {
		t.Errorf("Pending() = %q, want %q", tbl.Pending(), "g")
	}
	if diff := cmp.Diff([]string{"A"}, feed(tbl, "g", now)); diff != "" {
		t.Errorf("gg mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"C"}, feed(tbl, "gx", now)); diff != "" {
		t.Errorf("gx mismatch (-want +got):\n%s", diff)
	}

	// An unbound continuation resets; the next chord starts fresh.
	if got := feed(tbl, "gz", now); got != nil {
		t.Errorf("gz got %v, want nil", got)
	}
	if tbl.Pending() != "" {
		t.Errorf("Pending() = %q after miss, want empty", tbl.Pending())
	}
	if diff := cmp.Diff([]string{"quit"}, feed(tbl, "q", now)); diff != "" {
		t.Errorf("q mismatch (-want +got):\n%s", diff)
	}
}

func TestTableShiftFolding(t *testing.T) {
	tbl := NewTable()
	if err := tbl.Bind("<Shift+g>", "select_abs -1"); err != nil {
		t.Fatalf("Bind error = %v", err)
	}

	got := tbl.HandleEvent(key.NewRuneEvent('G', key.ModShift))
	if diff := cmp.Diff([]string{"select_abs -1"}, got); diff != "" {
		t.Errorf("shift+G mismatch (-want +got):\n%s", diff)
	}
	got = tbl.HandleEvent(key.NewRuneEvent('G', key.ModNone))
	if diff := cmp.Diff([]string{"select_abs -1"}, got); diff != "" {
		t.Errorf("G mismatch (-want +got):\n%s", diff)
	}
}

func TestTableChordTimeout(t *testing.T) {
	tbl := NewTable()
	tbl.SetChordTimeout(500 * time.Millisecond)
	_ = tbl.Add(key.MustParseSequence("gg"), "A")

	start := time.Now()
	feed(tbl, "g", start)
	if got := feed(tbl, "g", start.Add(time.Second)); got != nil {
		t.Errorf("late second g got %v, want nil", got)
	}
	if diff := cmp.Diff([]string{"A"}, feed(tbl, "g", start.Add(1200*time.Millisecond))); diff != "" {
		t.Errorf("fresh gg mismatch (-want +got):\n%s", diff)
	}

	tbl.SetChordTimeout(0)
	feed(tbl, "g", start)
	if diff := cmp.Diff([]string{"A"}, feed(tbl, "g", start.Add(time.Hour))); diff != "" {
		t.Errorf("disabled timeout mismatch (-want +got):\n%s", diff)
	}
}

func TestTableBind(t *testing.T) {
	tbl := NewTable()

	if err := tbl.Bind("p", "exec echo 'a;b'; quit"); err != nil {
		t.Fatalf("Bind error = %v", err)
	}
	want := []string{"exec echo 'a;b'", " quit"}
	if diff := cmp.Diff(want, tbl.Lookup(key.MustParseSequence("p"))); diff != "" {
		t.Errorf("Lookup mismatch (-want +got):\n%s", diff)
	}

	// Rebinding replaces rather than appends.
	if err := tbl.Bind("p", "quit"); err != nil {
		t.Fatalf("rebind error = %v", err)
	}
	if diff := cmp.Diff([]string{"quit"}, tbl.Lookup(key.MustParseSequence("p"))); diff != "" {
		t.Errorf("rebind mismatch (-want +got):\n%s", diff)
	}
}

func TestTableBindErrors(t *testing.T) {
	tbl := NewTable()

	if err := tbl.Bind("<Bogus>", "quit"); !errors.Is(err, ErrInvalidKeys) {
		t.Errorf("Bind(<Bogus>) error = %v, want ErrInvalidKeys", err)
	}

	long := "exec " + strings.Repeat("x", MaxCommandLen)
	if err := tbl.Bind("q", "quit; "+long); !errors.Is(err, ErrCommandTooLong) {
		t.Errorf("Bind(long) error = %v, want ErrCommandTooLong", err)
	}
	if got := tbl.Lookup(key.MustParseSequence("q")); got != nil {
		t.Errorf("bind after overlong command = %v, want cleared", got)
	}

	_ = tbl.Bind("gg", "A")
	if err := tbl.Bind("g", "B"); !errors.Is(err, ErrConflict) {
		t.Errorf("Bind(g) error = %v, want ErrConflict", err)
	}
}

func TestTableClear(t *testing.T) {
	tbl := NewTable()
	_ = tbl.Bind("gg", "A")
	_ = tbl.Bind("q", "quit")

	if !tbl.Clear(key.MustParseSequence("gg")) {
		t.Error("Clear(gg) = false, want true")
	}
	if tbl.Clear(key.MustParseSequence("gg")) {
		t.Error("second Clear(gg) = true, want false")
	}
	// With gg gone, g alone no longer conflicts.
	if err := tbl.Bind("g", "B"); err != nil {
		t.Errorf("Bind(g) after clear error = %v", err)
	}

	if diff := cmp.Diff([]string{"g", "q"}, tbl.Sequences()); diff != "" {
		t.Errorf("Sequences mismatch (-want +got):\n%s", diff)
	}

	tbl.ClearAll()
	if len(tbl.Binds()) != 0 {
		t.Errorf("Binds() = %v after ClearAll", tbl.Binds())
	}
}
