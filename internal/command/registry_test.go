package command

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type call struct {
	Args []string
	Raw  string
}

type recorder struct {
	calls []call
}

func newTestRegistry(t *testing.T) (*Registry[*recorder], *recorder) {
	t.Helper()
	r := NewRegistry[*recorder]()
	rec := &recorder{}
	record := func(ctx *recorder, args []string, raw string) error {
		ctx.calls = append(ctx.calls, call{Args: args, Raw: raw})
		return nil
	}
	for _, name := range []string{"select_rel", "exec", "zoom", "quit"} {
		if err := r.Register(name, record); err != nil {
			t.Fatalf("Register(%q) error = %v", name, err)
		}
	}
	return r, rec
}

func TestRegistryExecute(t *testing.T) {
	r, rec := newTestRegistry(t)

	if err := r.Execute(rec, "  exec echo \"$imview_current_file\"  | wc"); err != nil {
		t.Fatalf("Execute error = %v", err)
	}

	want := []call{{
		Args: []string{"exec", "echo", "$imview_current_file", "|", "wc"},
		Raw:  "echo \"$imview_current_file\"  | wc",
	}}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryUnknownCommand(t *testing.T) {
	r, rec := newTestRegistry(t)

	err := r.Execute(rec, "frobnicate 1")
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("Execute error = %v, want ErrUnknownCommand", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("unknown command invoked a handler: %v", rec.calls)
	}
	if err := r.Execute(rec, "   "); err != nil {
		t.Errorf("empty statement error = %v, want nil", err)
	}
}

func TestRegistryAlias(t *testing.T) {
	r, rec := newTestRegistry(t)

	if err := r.Alias("next", "select_rel 1"); err != nil {
		t.Fatalf("Alias error = %v", err)
	}
	if err := r.Execute(rec, "next"); err != nil {
		t.Fatalf("Execute(next) error = %v", err)
	}
	if err := r.Execute(rec, "next extra"); err != nil {
		t.Fatalf("Execute(next extra) error = %v", err)
	}

	want := []call{
		{Args: []string{"select_rel", "1"}, Raw: "1"},
		{Args: []string{"select_rel", "1", "extra"}, Raw: "1 extra"},
	}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if !r.Has("next") {
		t.Error("Has(next) = false after Alias")
	}
}

func TestRegistryAliasExpandsOnce(t *testing.T) {
	r, rec := newTestRegistry(t)

	if err := r.Alias("a", "b"); err != nil {
		t.Fatalf("Alias(a) error = %v", err)
	}
	if err := r.Alias("b", "quit"); err != nil {
		t.Fatalf("Alias(b) error = %v", err)
	}

	err := r.Execute(rec, "a")
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("chained alias error = %v, want ErrUnknownCommand", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("chained alias reached a handler: %v", rec.calls)
	}
}

func TestRegistryAliasErrors(t *testing.T) {
	r, _ := newTestRegistry(t)

	if err := r.Alias("loop", "loop 1"); !errors.Is(err, ErrAliasLoop) {
		t.Errorf("self alias error = %v, want ErrAliasLoop", err)
	}
	if err := r.Alias("", "quit"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("empty name error = %v, want ErrInvalidName", err)
	}
	if err := r.Alias("x", "   "); !errors.Is(err, ErrInvalidName) {
		t.Errorf("empty replacement error = %v, want ErrInvalidName", err)
	}
}

func TestRegistryExecuteList(t *testing.T) {
	r, rec := newTestRegistry(t)
	boom := errors.New("boom")
	_ = r.Register("fail", func(*recorder, []string, string) error { return boom })

	err := r.ExecuteList(rec, []string{"zoom 1; bogus", "fail", "quit"})
	if !errors.Is(err, boom) {
		t.Errorf("ExecuteList error = %v, want to wrap boom", err)
	}
	if !errors.Is(err, ErrUnknownCommand) {
		t.Errorf("ExecuteList error = %v, want to wrap ErrUnknownCommand", err)
	}

	var names []string
	for _, c := range rec.calls {
		names = append(names, c.Args[0])
	}
	if diff := cmp.Diff([]string{"zoom", "quit"}, names); diff != "" {
		t.Errorf("executed mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryRecoversPanics(t *testing.T) {
	r, rec := newTestRegistry(t)
	_ = r.Register("explode", func(*recorder, []string, string) error { panic("kaboom") })

	err := r.Execute(rec, "explode")
	if !errors.Is(err, ErrPanic) {
		t.Errorf("Execute error = %v, want ErrPanic", err)
	}
}

func TestRegistryNames(t *testing.T) {
	r, _ := newTestRegistry(t)
	_ = r.Alias("next", "select_rel 1")
	_ = r.Alias("quit", "select_rel 0")

	want := []string{"exec", "next", "quit", "select_rel", "zoom"}
	if diff := cmp.Diff(want, r.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}

	r.Unregister("zoom")
	if r.Has("zoom") {
		t.Error("Has(zoom) = true after Unregister")
	}
}

func TestRegisterInvalid(t *testing.T) {
	r := NewRegistry[int]()
	if err := r.Register("two words", func(int, []string, string) error { return nil }); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Register error = %v, want ErrInvalidName", err)
	}
	if err := r.Register("ok", nil); !errors.Is(err, ErrInvalidName) {
		t.Errorf("Register(nil) error = %v, want ErrInvalidName", err)
	}
}

func TestRegistrySuggest(t *testing.T) {
	r, _ := newTestRegistry(t)

	tests := []struct {
		name string
		want string
	}{
		{"zom", "zoom"},
		{"exce", "exec"},
		{"select_rl", "select_rel"},
		{"fullscreen", ""},
	}
	for _, tt := range tests {
		if got := r.Suggest(tt.name); got != tt.want {
			t.Errorf("Suggest(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestUnknownCommandErrorName(t *testing.T) {
	r, _ := newTestRegistry(t)

	var unknown *UnknownCommandError
	if err := r.Execute(nil, "zom 1"); !errors.As(err, &unknown) || unknown.Name != "zom" {
		t.Errorf("Execute error = %v, want UnknownCommandError for zom", err)
	}
}
