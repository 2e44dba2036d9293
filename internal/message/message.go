// Package message defines the messages exchanged between background
// producers and the viewer's main loop, and the Channel that carries them.
//
// Decode workers, the stdin path reader, the terminal input poller and the
// config watcher all post to a single Channel; only the main loop reads it.
// Results from decode workers carry the generation of the source that
// produced them, so the main loop can discard results from sources it has
// already replaced.
package message

import (
	"image"
	"time"

	"github.com/dshills/imview/internal/renderer/backend"
)

// Generation identifies one opened source. Generations increase
// monotonically; zero means no source.
type Generation uint64

// Message is any value carried by a Channel.
type Message interface {
	isMessage()
}

// Bitmap is a decoded frame ready to be drawn.
type Bitmap struct {
	Image  image.Image
	Width  int
	Height int
}

// NewBitmap wraps img, caching its size.
func NewBitmap(img image.Image) *Bitmap {
	b := img.Bounds()
	return &Bitmap{Image: img, Width: b.Dx(), Height: b.Dy()}
}

// NewFrame carries a decoded frame.
type NewFrame struct {
	Gen    Generation
	Bitmap *Bitmap

	// Frametime is how long the frame is shown; zero for still images.
	Frametime time.Duration

	// NewImage is set when this is the first frame delivered for Gen.
	NewImage bool
}

// BadImage reports that a source failed to decode.
type BadImage struct {
	Gen Generation
	Err error
}

// NewPath carries a path read from stdin.
type NewPath struct {
	Path string
}

// PathsDone reports that the stdin path reader reached the end of its
// input. No NewPath follows it.
type PathsDone struct {
	Err error
}

// EnableInput ends a period of ignored input. Because the channel is
// FIFO, every input event posted before it is discarded.
type EnableInput struct{}

// Input carries a terminal event.
type Input struct {
	Event backend.Event
}

// ConfigChanged reports that the config file at Path was modified.
type ConfigChanged struct {
	Path string
}

func (NewFrame) isMessage()      {}
func (BadImage) isMessage()      {}
func (NewPath) isMessage()       {}
func (PathsDone) isMessage()     {}
func (EnableInput) isMessage()   {}
func (Input) isMessage()         {}
func (ConfigChanged) isMessage() {}
