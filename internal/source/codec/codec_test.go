package codec

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/imview/internal/message"
	"github.com/dshills/imview/internal/source"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func paletted(w, h int, idx uint8) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, w, h), palette.Plan9)
	for i := range img.Pix {
		img.Pix[i] = idx
	}
	return img
}

func encodeGIF(t *testing.T, frames int, delay int, disposal byte) []byte {
	t.Helper()
	g := &gif.GIF{Config: image.Config{Width: 4, Height: 2, ColorModel: color.Palette(palette.Plan9)}}
	for i := 0; i < frames; i++ {
		g.Image = append(g.Image, paletted(4, 2, uint8(10*(i+1))))
		g.Delay = append(g.Delay, delay)
		g.Disposal = append(g.Disposal, disposal)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestStillDecodesPNG(t *testing.T) {
	dec, err := Still{}.OpenMemory(encodePNG(t, 7, 5))
	if err != nil {
		t.Fatalf("OpenMemory error = %v", err)
	}
	defer dec.Close()

	img, ft, err := dec.FirstFrame()
	if err != nil {
		t.Fatalf("FirstFrame error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 7 || b.Dy() != 5 {
		t.Errorf("bounds = %v, want 7x5", b)
	}
	if ft != 0 {
		t.Errorf("frametime = %v, want 0", ft)
	}
	if _, ok := dec.(source.FrameDecoder); ok {
		t.Error("still decoder should not be a FrameDecoder")
	}
}

func TestStillRejectsUnknownData(t *testing.T) {
	_, err := Still{}.OpenMemory([]byte("definitely not an image"))
	if !errors.Is(err, source.ErrUnsupported) {
		t.Errorf("OpenMemory error = %v, want ErrUnsupported", err)
	}
}

func TestStillOpenPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.png")
	if err := os.WriteFile(path, encodePNG(t, 2, 2), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := (Still{}).OpenPath(path); err != nil {
		t.Errorf("OpenPath error = %v", err)
	}
	if _, err := (Still{}).OpenPath(path + ".missing"); err == nil || errors.Is(err, source.ErrUnsupported) {
		t.Errorf("OpenPath(missing) error = %v, want a hard error", err)
	}
}

func TestAnimatedFrames(t *testing.T) {
	dec, err := Animated{}.OpenMemory(encodeGIF(t, 3, 5, gif.DisposalNone))
	if err != nil {
		t.Fatalf("OpenMemory error = %v", err)
	}
	fd, ok := dec.(source.FrameDecoder)
	if !ok {
		t.Fatal("animated decoder is not a FrameDecoder")
	}

	_, ft, err := fd.FirstFrame()
	if err != nil || ft != 50*time.Millisecond {
		t.Fatalf("FirstFrame = %v, %v; want 50ms", ft, err)
	}

	// Frames loop back to the start after the last one.
	var pix []color.Color
	for i := 0; i < 3; i++ {
		img, _, err := fd.NextFrame()
		if err != nil {
			t.Fatalf("NextFrame %d error = %v", i, err)
		}
		pix = append(pix, img.At(0, 0))
	}
	first, _, _ := fd.FirstFrame()
	if pix[2] != first.At(0, 0) {
		t.Errorf("third NextFrame should show frame 0 again")
	}
	if pix[0] == pix[1] {
		t.Errorf("consecutive frames should differ")
	}

	if err := fd.Close(); err != nil {
		t.Fatal(err)
	}
	if _, _, err := fd.NextFrame(); !errors.Is(err, source.ErrClosed) {
		t.Errorf("NextFrame after Close error = %v, want ErrClosed", err)
	}
}

func TestAnimatedMinimumDelay(t *testing.T) {
	dec, err := Animated{}.OpenMemory(encodeGIF(t, 2, 0, gif.DisposalBackground))
	if err != nil {
		t.Fatal(err)
	}
	if _, ft, _ := dec.FirstFrame(); ft != MinFrameDelay {
		t.Errorf("frametime = %v, want %v", ft, MinFrameDelay)
	}
}

func TestAnimatedLeavesStillGIFs(t *testing.T) {
	data := encodeGIF(t, 1, 5, gif.DisposalNone)
	if _, err := (Animated{}).OpenMemory(data); !errors.Is(err, source.ErrUnsupported) {
		t.Errorf("single-frame GIF error = %v, want ErrUnsupported", err)
	}
	if _, err := (Animated{}).OpenMemory(encodePNG(t, 1, 1)); !errors.Is(err, source.ErrUnsupported) {
		t.Errorf("PNG error = %v, want ErrUnsupported", err)
	}
}

func TestDefaultChain(t *testing.T) {
	ch := message.NewChannel()
	chain := source.NewChain(ch)
	for _, b := range Default() {
		chain.Append(b)
	}

	src, err := chain.OpenMemory(encodeGIF(t, 1, 5, gif.DisposalNone))
	if err != nil {
		t.Fatalf("OpenMemory(still gif) error = %v", err)
	}
	if src.Backend() != "still" || src.CanLoadNext() {
		t.Errorf("still gif opened by %s, animated %v", src.Backend(), src.CanLoadNext())
	}

	src, err = chain.OpenMemory(encodeGIF(t, 2, 5, gif.DisposalNone))
	if err != nil {
		t.Fatalf("OpenMemory(animated gif) error = %v", err)
	}
	if src.Backend() != "gif" || !src.CanLoadNext() {
		t.Errorf("animated gif opened by %s, animated %v", src.Backend(), src.CanLoadNext())
	}

	src.LoadFirstFrame()
	m, ok := ch.TryRecv()
	if !ok {
		t.Fatal("no message after LoadFirstFrame")
	}
	f, ok := m.(message.NewFrame)
	if !ok || !f.NewImage || f.Bitmap.Width != 4 || f.Bitmap.Height != 2 {
		t.Errorf("first frame = %#v", m)
	}
}

func TestAnimatedOpenPathDefersDecoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anim.gif")
	if err := os.WriteFile(path, encodeGIF(t, 3, 5, gif.DisposalNone), 0o644); err != nil {
		t.Fatal(err)
	}
	dec, err := Animated{}.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath error = %v", err)
	}
	defer dec.Close()

	// The file is read again on the first frame.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if _, _, err := dec.FirstFrame(); err == nil {
		t.Error("FirstFrame after removing the file should fail")
	}

	if _, err := (Animated{}).OpenPath(path); err == nil || errors.Is(err, source.ErrUnsupported) {
		t.Errorf("OpenPath(missing) error = %v, want a hard error", err)
	}
}

func TestAnimatedDamagedLaterFrame(t *testing.T) {
	data := encodeGIF(t, 3, 5, gif.DisposalNone)
	data = data[:len(data)-3]

	dec, err := Animated{}.OpenMemory(data)
	if err != nil {
		t.Fatalf("OpenMemory error = %v", err)
	}
	img, _, err := dec.FirstFrame()
	if err != nil {
		t.Fatalf("FirstFrame error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Errorf("bounds = %v, want 4x2", b)
	}
}

func TestCountGIFFrames(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		limit int
		want  int
	}{
		{"single", encodeGIF(t, 1, 5, gif.DisposalNone), 2, 1},
		{"stops at limit", encodeGIF(t, 5, 5, gif.DisposalNone), 2, 2},
		{"all frames", encodeGIF(t, 5, 5, gif.DisposalNone), 10, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := countGIFFrames(bytes.NewReader(tt.data), tt.limit)
			if err != nil {
				t.Fatalf("countGIFFrames error = %v", err)
			}
			if got != tt.want {
				t.Errorf("countGIFFrames = %d, want %d", got, tt.want)
			}
		})
	}

	if _, err := countGIFFrames(bytes.NewReader(encodePNG(t, 1, 1)), 2); err == nil {
		t.Error("countGIFFrames(png) should fail")
	}
	if _, err := (Animated{}).OpenMemory(encodeGIF(t, 3, 5, gif.DisposalNone)[:20]); !errors.Is(err, source.ErrUnsupported) {
		t.Errorf("truncated header error = %v, want ErrUnsupported", err)
	}
}

func TestStillOpenPathReadsHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.png")
	if err := os.WriteFile(path, encodePNG(t, 3, 2), 0o644); err != nil {
		t.Fatal(err)
	}
	dec, err := Still{}.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath error = %v", err)
	}

	img, _, err := dec.FirstFrame()
	if err != nil {
		t.Fatalf("FirstFrame error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("bounds = %v, want 3x2", b)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if _, _, err := dec.FirstFrame(); err == nil {
		t.Error("FirstFrame should read the file again")
	}
	dec.Close()
	if _, _, err := dec.FirstFrame(); !errors.Is(err, source.ErrClosed) {
		t.Errorf("FirstFrame after Close error = %v, want ErrClosed", err)
	}
}
