package codec

import (
	"bytes"
	"image"
	"image/gif"
	"os"
	"time"

	"golang.org/x/image/draw"

	"github.com/dshills/imview/internal/source"
)

// MinFrameDelay replaces GIF delays at or below 10ms, which most encoders
// write to mean "as fast as possible".
const MinFrameDelay = 100 * time.Millisecond

// Animated decodes GIF files with more than one frame.
type Animated struct{}

// Name returns the backend name.
func (Animated) Name() string { return "gif" }

// OpenPath checks that path is a GIF with more than one frame. Frames
// are decoded later by FirstFrame.
func (Animated) OpenPath(path string) (source.Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if n, err := countGIFFrames(f, 2); err != nil || n < 2 {
		return nil, source.ErrUnsupported
	}
	return &gifDecoder{path: path}, nil
}

// OpenMemory checks that data is a GIF with more than one frame.
// Single-frame GIFs are left to the still backend.
func (Animated) OpenMemory(data []byte) (source.Decoder, error) {
	if n, err := countGIFFrames(bytes.NewReader(data), 2); err != nil || n < 2 {
		return nil, source.ErrUnsupported
	}
	return &gifDecoder{data: data}, nil
}

type gifDecoder struct {
	path   string
	data   []byte
	closed bool

	g      *gif.GIF
	canvas *image.RGBA
	next   int
}

// load decodes every frame on first use. When a later frame is damaged
// only the first frame is kept.
func (d *gifDecoder) load() error {
	if d.g != nil {
		return nil
	}
	data := d.data
	if data == nil {
		b, err := os.ReadFile(d.path)
		if err != nil {
			return err
		}
		data = b
	}

	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		first, ferr := gif.Decode(bytes.NewReader(data))
		if ferr != nil {
			return err
		}
		pm, ok := first.(*image.Paletted)
		if !ok {
			return err
		}
		g = &gif.GIF{Image: []*image.Paletted{pm}}
	}

	d.g = g
	d.data = nil
	d.canvas = newCanvas(g)
	return nil
}

func newCanvas(g *gif.GIF) *image.RGBA {
	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		// Some encoders leave the logical screen empty.
		var b image.Rectangle
		for _, frame := range g.Image {
			b = b.Union(frame.Bounds())
		}
		w, h = b.Max.X, b.Max.Y
	}
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func (d *gifDecoder) FirstFrame() (image.Image, time.Duration, error) {
	if d.closed {
		return nil, 0, source.ErrClosed
	}
	if err := d.load(); err != nil {
		return nil, 0, err
	}
	d.next = 0
	return d.NextFrame()
}

func (d *gifDecoder) NextFrame() (image.Image, time.Duration, error) {
	if d.closed {
		return nil, 0, source.ErrClosed
	}
	if err := d.load(); err != nil {
		return nil, 0, err
	}
	if d.next == 0 {
		draw.Draw(d.canvas, d.canvas.Bounds(), image.Transparent, image.Point{}, draw.Src)
	}

	i := d.next
	frame := d.g.Image[i]
	disposal := byte(gif.DisposalNone)
	if i < len(d.g.Disposal) {
		disposal = d.g.Disposal[i]
	}

	var saved *image.RGBA
	if disposal == gif.DisposalPrevious {
		saved = cloneRGBA(d.canvas)
	}

	draw.Draw(d.canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)
	out := cloneRGBA(d.canvas)

	switch disposal {
	case gif.DisposalBackground:
		draw.Draw(d.canvas, frame.Bounds(), image.Transparent, image.Point{}, draw.Src)
	case gif.DisposalPrevious:
		d.canvas = saved
	}

	d.next = (i + 1) % len(d.g.Image)
	return out, frameDelay(d.g, i), nil
}

func (d *gifDecoder) Close() error {
	d.closed = true
	d.data = nil
	d.g = nil
	d.canvas = nil
	return nil
}

func frameDelay(g *gif.GIF, i int) time.Duration {
	if i >= len(g.Delay) {
		return MinFrameDelay
	}
	delay := time.Duration(g.Delay[i]) * 10 * time.Millisecond
	if delay <= 10*time.Millisecond {
		return MinFrameDelay
	}
	return delay
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}
