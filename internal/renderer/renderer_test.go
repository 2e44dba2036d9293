package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/dshills/imview/internal/renderer/backend"
	"github.com/dshills/imview/internal/renderer/core"
	"github.com/dshills/imview/internal/renderer/viewport"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func newTestRenderer(t *testing.T, cols, rows int) (*Renderer, *backend.NullBackend) {
	t.Helper()
	b := backend.NewNullBackend(cols, rows)
	if err := b.Init(); err != nil {
		t.Fatal(err)
	}
	return New(b), b
}

// stripes returns a w×h image whose even rows are red and odd rows blue.
func stripes(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if y%2 == 0 {
				img.SetRGBA(x, y, red)
			} else {
				img.SetRGBA(x, y, blue)
			}
		}
	}
	return img
}

func TestWindowSize(t *testing.T) {
	r, _ := newTestRenderer(t, 80, 24)
	if got := r.WindowSize(); got != (viewport.Size{Width: 80, Height: 48}) {
		t.Errorf("WindowSize() = %+v, want 80x48", got)
	}
}

func TestDrawHalfBlocks(t *testing.T) {
	r, b := newTestRenderer(t, 4, 2)
	r.Draw(Scene{Image: stripes(2, 2), Scale: 1, Background: DefaultBackground})

	cell := b.GetCell(0, 0)
	if cell.Rune != upperHalf {
		t.Fatalf("cell rune = %q, want %q", cell.Rune, upperHalf)
	}
	if cell.Style.Foreground != core.ColorFromRGB(255, 0, 0) {
		t.Errorf("top pixel = %v, want red", cell.Style.Foreground)
	}
	if cell.Style.Background != core.ColorFromRGB(0, 0, 255) {
		t.Errorf("bottom pixel = %v, want blue", cell.Style.Background)
	}

	// Outside the image only the background shows.
	cell = b.GetCell(3, 1)
	if cell.Style.Foreground != core.ColorBlack || cell.Style.Background != core.ColorBlack {
		t.Errorf("background cell = %+v, want black", cell.Style)
	}
	if b.Shows() != 1 {
		t.Errorf("Shows() = %d, want 1", b.Shows())
	}
}

func TestDrawScaledAndOffset(t *testing.T) {
	r, b := newTestRenderer(t, 6, 3)
	r.Draw(Scene{
		Image:      stripes(1, 2),
		X:          2,
		Y:          0,
		Scale:      2,
		Upscaling:  NearestNeighbour,
		Background: DefaultBackground,
	})

	// Scaled 2x the top image row covers pixel rows 0-1 at columns 2-3.
	for _, x := range []int{2, 3} {
		cell := b.GetCell(x, 0)
		if cell.Style.Foreground != core.ColorFromRGB(255, 0, 0) || cell.Style.Background != core.ColorFromRGB(255, 0, 0) {
			t.Errorf("cell (%d,0) = %+v, want red over red", x, cell.Style)
		}
		cell = b.GetCell(x, 1)
		if cell.Style.Foreground != core.ColorFromRGB(0, 0, 255) {
			t.Errorf("cell (%d,1) = %+v, want blue", x, cell.Style)
		}
	}
	if cell := b.GetCell(1, 0); cell.Style.Foreground != core.ColorBlack {
		t.Errorf("cell left of image = %+v, want background", cell.Style)
	}
}

func TestDrawChecks(t *testing.T) {
	r, b := newTestRenderer(t, 16, 8)
	r.Draw(Scene{Background: Background{Checks: true}})

	a := b.GetCell(0, 0).Style.Foreground
	c := b.GetCell(8, 0).Style.Foreground
	if a == c {
		t.Errorf("adjacent checks share color %v", a)
	}
	if a != core.ColorLightGray {
		t.Errorf("first check = %v, want light gray", a)
	}
}

func TestDrawOverlayAndPrompt(t *testing.T) {
	r, b := newTestRenderer(t, 10, 3)
	r.Draw(Scene{
		Overlay:      "hi",
		Prompt:       "quit",
		PromptActive: true,
		Background:   DefaultBackground,
	})

	if got := b.GetCell(0, 0); got.Rune != 'h' || got.Style != overlayStyle {
		t.Errorf("overlay cell = %+v", got)
	}
	if got := b.GetCell(1, 0).Rune; got != 'i' {
		t.Errorf("overlay second rune = %q", got)
	}

	var prompt []rune
	for x := 0; x < 5; x++ {
		prompt = append(prompt, b.GetCell(x, 2).Rune)
	}
	if string(prompt) != ":quit" {
		t.Errorf("prompt row = %q, want \":quit\"", string(prompt))
	}
}

func TestOverlayTruncated(t *testing.T) {
	r, b := newTestRenderer(t, 4, 1)
	r.Draw(Scene{Overlay: "abcdefgh", Background: DefaultBackground})
	if got := b.GetCell(3, 0).Rune; got == 'd' {
		t.Errorf("overlay not truncated: last cell %q", got)
	}
}

func TestParseBackground(t *testing.T) {
	tests := []struct {
		in      string
		want    Background
		wantErr bool
	}{
		{"checks", Background{Checks: true}, false},
		{"CHECKS", Background{Checks: true}, false},
		{"#102030", Background{Color: core.ColorFromRGB(0x10, 0x20, 0x30)}, false},
		{"000000", Background{Color: core.ColorBlack}, false},
		{"plaid", Background{}, true},
	}
	for _, tt := range tests {
		got, err := ParseBackground(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBackground(%q) error = %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseBackground(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
	if s := (Background{Checks: true}).String(); s != "checks" {
		t.Errorf("String() = %q", s)
	}
}

func TestParseMethod(t *testing.T) {
	if m, err := ParseMethod("nearest_neighbour"); err != nil || m != NearestNeighbour {
		t.Errorf("ParseMethod(nearest_neighbour) = %v, %v", m, err)
	}
	if m, err := ParseMethod("linear"); err != nil || m != Linear {
		t.Errorf("ParseMethod(linear) = %v, %v", m, err)
	}
	if _, err := ParseMethod("cubic"); err == nil {
		t.Error("ParseMethod(cubic) should fail")
	}
}

func TestRecordsWindowRequests(t *testing.T) {
	r, _ := newTestRenderer(t, 4, 4)
	r.ResizeWindow(640, 480, true)
	r.SetFullscreen(true)
	if r.RequestedSize() != (viewport.Size{Width: 640, Height: 480}) || !r.Fullscreen() {
		t.Errorf("RequestedSize() = %+v, Fullscreen() = %v", r.RequestedSize(), r.Fullscreen())
	}
}
