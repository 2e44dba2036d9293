// Package viewport tracks how an image is placed in the window: its
// offset, its scale, and the fullscreen and playback flags.
//
// All coordinates are in window pixels. A Viewport has no locks; it is
// owned by the goroutine that drives the viewer.
package viewport

import "math"

// Size is a width and height in pixels.
type Size struct {
	Width  int
	Height int
}

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// Point is a position in window pixels.
type Point struct {
	X, Y int
}

// ZoomSource selects the anchor of a zoom.
type ZoomSource int

const (
	// ZoomKeyboard zooms around the window center.
	ZoomKeyboard ZoomSource = iota
	// ZoomMouse zooms around the pointer.
	ZoomMouse
)

// Config holds the zoom and pan policy.
type Config struct {
	// ZoomStep is the scale factor applied per zoom unit.
	ZoomStep float64
	// MinScale and MaxScale bound the scale.
	MinScale float64
	MaxScale float64
	// PanMargin is how many pixels of the image stay in the window
	// after a pan. Zero lets the image be panned out to the window edge.
	PanMargin int
}

// DefaultConfig returns the default zoom and pan policy.
func DefaultConfig() Config {
	return Config{
		ZoomStep:  1.1,
		MinScale:  0.1,
		MaxScale:  100,
		PanMargin: 16,
	}
}

// Viewport is the placement of the current image in the window.
type Viewport struct {
	cfg    Config
	window Size

	x, y  float64
	scale float64

	fullscreen bool
	playing    bool
	redraw     bool
	locked     bool
}

// New creates a viewport for a window of the given size. Playback starts
// enabled.
func New(window Size, cfg Config) *Viewport {
	if cfg.ZoomStep <= 1 {
		cfg.ZoomStep = DefaultConfig().ZoomStep
	}
	if cfg.MinScale <= 0 {
		cfg.MinScale = DefaultConfig().MinScale
	}
	if cfg.MaxScale < cfg.MinScale {
		cfg.MaxScale = DefaultConfig().MaxScale
	}
	if cfg.PanMargin < 0 {
		cfg.PanMargin = 0
	}
	return &Viewport{
		cfg:     cfg,
		window:  window,
		scale:   1,
		playing: true,
	}
}

// Config returns the zoom and pan policy.
func (v *Viewport) Config() Config {
	return v.cfg
}

// SetZoomStep changes the zoom factor. Values not above 1 are ignored.
func (v *Viewport) SetZoomStep(step float64) {
	if step > 1 {
		v.cfg.ZoomStep = step
	}
}

// SetPanMargin changes the pan margin. Negative values are ignored.
func (v *Viewport) SetPanMargin(margin int) {
	if margin >= 0 {
		v.cfg.PanMargin = margin
	}
}

// Window returns the window size.
func (v *Viewport) Window() Size {
	return v.window
}

// SetWindow records a new window size and marks the viewport dirty.
func (v *Viewport) SetWindow(window Size) {
	if window != v.window {
		v.window = window
		v.redraw = true
	}
}

// Offset returns the position of the image's top-left corner.
func (v *Viewport) Offset() (x, y int) {
	return int(math.Round(v.x)), int(math.Round(v.y))
}

// Scale returns the current scale.
func (v *Viewport) Scale() float64 {
	return v.scale
}

// Locked reports whether the user has moved or zoomed since the last fit.
func (v *Viewport) Locked() bool {
	return v.locked
}

// Fullscreen reports the fullscreen flag.
func (v *Viewport) Fullscreen() bool {
	return v.fullscreen
}

// Playing reports whether animations advance.
func (v *Viewport) Playing() bool {
	return v.playing
}

// Move pans the image by (dx, dy), keeping part of it in the window.
func (v *Viewport) Move(dx, dy int, img Size) {
	v.x += float64(dx)
	v.y += float64(dy)

	w := float64(img.Width) * v.scale
	h := float64(img.Height) * v.scale
	mx := float64(v.margin(int(w), v.window.Width))
	my := float64(v.margin(int(h), v.window.Height))

	v.x = clamp(v.x, mx-w, float64(v.window.Width)-mx)
	v.y = clamp(v.y, my-h, float64(v.window.Height)-my)

	v.locked = true
	v.redraw = true
}

func (v *Viewport) margin(image, window int) int {
	return max(0, min(v.cfg.PanMargin, image, window))
}

// Zoom scales by ZoomStep^amount. The image pixel under the anchor stays
// where it is: the pointer for ZoomMouse, the window center otherwise.
func (v *Viewport) Zoom(src ZoomSource, amount int, pointer Point, img Size) {
	anchor := Point{X: v.window.Width / 2, Y: v.window.Height / 2}
	if src == ZoomMouse {
		anchor = pointer
	}

	prev := v.scale
	v.scale = clamp(prev*math.Pow(v.cfg.ZoomStep, float64(amount)), v.cfg.MinScale, v.cfg.MaxScale)

	ix := (float64(anchor.X) - v.x) / prev
	iy := (float64(anchor.Y) - v.y) / prev
	v.x = float64(anchor.X) - ix*v.scale
	v.y = float64(anchor.Y) - iy*v.scale

	v.locked = true
	v.redraw = true
}

// Center places the image in the middle of the window.
func (v *Viewport) Center(img Size) {
	v.x = (float64(v.window.Width) - float64(img.Width)*v.scale) / 2
	v.y = (float64(v.window.Height) - float64(img.Height)*v.scale) / 2
	v.locked = true
	v.redraw = true
}

// Top centers the image horizontally and aligns its top edge with the
// window.
func (v *Viewport) Top(img Size) {
	v.x = (float64(v.window.Width) - float64(img.Width)*v.scale) / 2
	v.y = 0
	v.locked = true
	v.redraw = true
}

// Bottom centers the image horizontally and aligns its bottom edge with
// the window.
func (v *Viewport) Bottom(img Size) {
	v.x = (float64(v.window.Width) - float64(img.Width)*v.scale) / 2
	v.y = float64(v.window.Height) - float64(img.Height)*v.scale
	v.locked = true
	v.redraw = true
}

// ScaleToActual shows the image at scale 1, centered.
func (v *Viewport) ScaleToActual(img Size) {
	v.scale = 1
	v.Center(img)
}

// ScaleToWindow fits the whole image in the window, keeping its aspect
// ratio, and unlocks the viewport.
func (v *Viewport) ScaleToWindow(img Size) {
	if img.Empty() || v.window.Empty() {
		v.redraw = true
		return
	}
	windowAspect := float64(v.window.Width) / float64(v.window.Height)
	imageAspect := float64(img.Width) / float64(img.Height)
	if windowAspect > imageAspect {
		v.scale = float64(v.window.Height) / float64(img.Height)
	} else {
		v.scale = float64(v.window.Width) / float64(img.Width)
	}
	v.Center(img)
	v.locked = false
}

// Update marks the viewport dirty after a window change and refits the
// image unless the user has moved or zoomed it.
func (v *Viewport) Update(img Size) {
	v.redraw = true
	if v.locked {
		return
	}
	v.ScaleToWindow(img)
}

// ToggleFullscreen flips the fullscreen flag.
func (v *Viewport) ToggleFullscreen() {
	v.SetFullscreen(!v.fullscreen)
}

// SetFullscreen sets the fullscreen flag.
func (v *Viewport) SetFullscreen(on bool) {
	v.fullscreen = on
	v.redraw = true
}

// TogglePlaying flips the playback flag.
func (v *Viewport) TogglePlaying() {
	v.SetPlaying(!v.playing)
}

// SetPlaying sets the playback flag.
func (v *Viewport) SetPlaying(on bool) {
	v.playing = on
	v.redraw = true
}

// NeedsRedraw reports and clears the dirty flag.
func (v *Viewport) NeedsRedraw() bool {
	r := v.redraw
	v.redraw = false
	return r
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}
