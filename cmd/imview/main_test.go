package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dshills/imview/internal/config"
)

func TestFlagOverrides(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []config.Entry
	}{
		{"none", nil, nil},
		{
			name: "short flags",
			args: []string{"-f", "-x", "-s", "shrink", "-t", "2.5"},
			want: []config.Entry{
				{Key: "fullscreen", Value: "true"},
				{Key: "loop_input", Value: "false"},
				{Key: "scaling_mode", Value: "shrink"},
				{Key: "slideshow_duration", Value: "2.5"},
			},
		},
		{
			name: "resize modes",
			args: []string{"-W", "-u", "nearest_neighbour", "-b", "ffffff"},
			want: []config.Entry{
				{Key: "autoresize", Value: "recenter"},
				{Key: "upscaling_method", Value: "nearest_neighbour"},
				{Key: "background", Value: "ffffff"},
			},
		},
		{
			name: "long flags",
			args: []string{"--list", "--recursive", "--workers", "3", "--overlay"},
			want: []config.Entry{
				{Key: "recursive", Value: "true"},
				{Key: "overlay", Value: "true"},
				{Key: "list_files_at_exit", Value: "true"},
				{Key: "workers", Value: "3"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, f := newRootCommand()
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags(%v) error = %v", tt.args, err)
			}

			got := flagOverrides(f, cmd.Flags().Changed)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("flagOverrides mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadStdinData(t *testing.T) {
	data, err := readStdinData([]string{"a.png"}, strings.NewReader("ignored"))
	if err != nil || data != nil {
		t.Errorf("readStdinData without - = %q, %v; want nil, nil", data, err)
	}

	data, err = readStdinData([]string{"a.png", "-"}, strings.NewReader("GIF89a"))
	if err != nil {
		t.Fatalf("readStdinData error = %v", err)
	}
	if string(data) != "GIF89a" {
		t.Errorf("readStdinData = %q, want %q", data, "GIF89a")
	}

	_, err = readStdinData([]string{"-", "-"}, strings.NewReader(""))
	if !errors.Is(err, errUsage) {
		t.Errorf("readStdinData twice error = %v, want usage error", err)
	}
}

func TestUnknownFlagFails(t *testing.T) {
	if code := execute([]string{"--no-such-flag"}); code != 1 {
		t.Errorf("execute exit code = %d, want 1", code)
	}
}
