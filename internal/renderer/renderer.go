package renderer

import (
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/draw"

	"github.com/dshills/imview/internal/renderer/backend"
	"github.com/dshills/imview/internal/renderer/core"
	"github.com/dshills/imview/internal/renderer/viewport"
)

// upperHalf is the glyph every image cell is drawn with.
const upperHalf = '▀'

// checkSize is the side of one checkerboard square in pixels.
const checkSize = 8

var (
	overlayStyle = core.DefaultStyle().WithForeground(core.ColorWhite).WithBackground(core.ColorBlack)
	promptStyle  = overlayStyle.Bold()
)

// Renderer composes scenes onto a backend.
type Renderer struct {
	mu sync.Mutex

	backend backend.Backend
	canvas  *image.RGBA

	fullscreen bool
	requested  viewport.Size
}

// New creates a renderer drawing to b. b must already be initialized.
func New(b backend.Backend) *Renderer {
	return &Renderer{backend: b}
}

// WindowSize returns the drawable area in pixels: one pixel per column
// and two per row.
func (r *Renderer) WindowSize() viewport.Size {
	w, h := r.backend.Size()
	return viewport.Size{Width: w, Height: h * 2}
}

// SetTitle sets the terminal title.
func (r *Renderer) SetTitle(title string) {
	r.backend.SetTitle(title)
}

// ResizeWindow records a requested window size. A terminal cannot be
// resized from inside, so the request is only remembered.
func (r *Renderer) ResizeWindow(width, height int, center bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requested = viewport.Size{Width: width, Height: height}
}

// RequestedSize returns the last size passed to ResizeWindow.
func (r *Renderer) RequestedSize() viewport.Size {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.requested
}

// SetFullscreen records the fullscreen state. The terminal always fills
// its window, so this only affects Fullscreen.
func (r *Renderer) SetFullscreen(on bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fullscreen = on
}

// Fullscreen returns the recorded fullscreen state.
func (r *Renderer) Fullscreen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fullscreen
}

// Draw composes s and shows it.
func (r *Renderer) Draw(s Scene) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cols, rows := r.backend.Size()
	if cols <= 0 || rows <= 0 {
		return
	}
	canvas := r.canvasFor(cols, rows*2)

	paintBackground(canvas, s.Background)
	if s.Image != nil {
		paintImage(canvas, s)
	}
	r.blit(canvas, cols, rows)

	if s.Overlay != "" {
		r.text(0, 0, cols, s.Overlay, overlayStyle)
	}
	if s.PromptActive {
		r.text(0, rows-1, cols, ":"+s.Prompt, promptStyle)
	}
	r.backend.Show()
}

func (r *Renderer) canvasFor(w, h int) *image.RGBA {
	if r.canvas == nil || r.canvas.Rect.Dx() != w || r.canvas.Rect.Dy() != h {
		r.canvas = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	return r.canvas
}

func paintBackground(dst *image.RGBA, bg Background) {
	if !bg.Checks {
		c := color.RGBA{R: bg.Color.R, G: bg.Color.G, B: bg.Color.B, A: 0xff}
		draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
		return
	}
	light := color.RGBA{R: core.ColorLightGray.R, G: core.ColorLightGray.G, B: core.ColorLightGray.B, A: 0xff}
	dark := color.RGBA{R: core.ColorDarkGray.R, G: core.ColorDarkGray.G, B: core.ColorDarkGray.B, A: 0xff}
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if (x/checkSize+y/checkSize)%2 == 0 {
				dst.SetRGBA(x, y, light)
			} else {
				dst.SetRGBA(x, y, dark)
			}
		}
	}
}

func paintImage(dst *image.RGBA, s Scene) {
	src := s.Image.Bounds()
	scale := s.Scale
	if scale <= 0 {
		scale = 1
	}
	w := int(math.Round(float64(src.Dx()) * scale))
	h := int(math.Round(float64(src.Dy()) * scale))
	dr := image.Rect(s.X, s.Y, s.X+w, s.Y+h)
	if dr.Intersect(dst.Bounds()).Empty() {
		return
	}

	if w == src.Dx() && h == src.Dy() {
		draw.Draw(dst, dr, s.Image, src.Min, draw.Over)
		return
	}
	interpolator(scale, s.Upscaling).Scale(dst, dr, s.Image, src, draw.Over, nil)
}

func interpolator(scale float64, m Method) draw.Scaler {
	if scale > 1 && m == NearestNeighbour {
		return draw.NearestNeighbor
	}
	return draw.ApproxBiLinear
}

func (r *Renderer) blit(canvas *image.RGBA, cols, rows int) {
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			top := rgbaAt(canvas, x, 2*y)
			bottom := rgbaAt(canvas, x, 2*y+1)
			style := core.DefaultStyle().WithForeground(top).WithBackground(bottom)
			r.backend.SetCell(x, y, core.Cell{Rune: upperHalf, Width: 1, Style: style})
		}
	}
}

func rgbaAt(img *image.RGBA, x, y int) core.Color {
	c := img.RGBAAt(x, y)
	return core.ColorFromRGB(c.R, c.G, c.B)
}

// text writes s on row y starting at column x, clipped to width columns.
func (r *Renderer) text(x, y, width int, s string, style core.Style) {
	if core.StringWidth(s) > width-x {
		s = core.Truncate(s, width-x, "…")
	}
	for _, ch := range s {
		w := core.RuneWidth(ch)
		if w == 0 {
			continue
		}
		if x+w > width {
			break
		}
		r.backend.SetCell(x, y, core.NewStyledCell(ch, style))
		if w == 2 {
			r.backend.SetCell(x+1, y, core.ContinuationCell())
		}
		x += w
	}
	for ; x < width; x++ {
		r.backend.SetCell(x, y, core.NewStyledCell(' ', style))
	}
}
