// Package source turns paths and in-memory data into decoded frames.
//
// Decoding capability is provided by Backends registered on a Chain. The
// chain tries each backend in order until one accepts the input and
// returns a Source. A Source loads its frames on a Runner and posts each
// result, tagged with the source's generation, to a message channel.
package source

import (
	"errors"
	"fmt"
	"image"
	"time"
)

// Source errors.
var (
	// ErrUnsupported indicates a backend cannot handle the input. The chain
	// moves on to the next backend.
	ErrUnsupported = errors.New("source: unsupported format")

	// ErrClosed indicates a load on a source that has been freed.
	ErrClosed = errors.New("source: closed")

	// ErrNoMoreFrames indicates NextFrame on a decoder without frames left.
	ErrNoMoreFrames = errors.New("source: no more frames")
)

// Backend is a named decoding capability. A backend opens input by also
// implementing PathOpener, MemoryOpener, or both; a missing capability is
// treated as ErrUnsupported.
type Backend interface {
	Name() string
}

// PathOpener opens a file by path.
type PathOpener interface {
	OpenPath(path string) (Decoder, error)
}

// MemoryOpener opens encoded image data held in memory.
type MemoryOpener interface {
	OpenMemory(data []byte) (Decoder, error)
}

// Decoder produces the frames of one opened image.
type Decoder interface {
	// FirstFrame decodes the first frame and returns how long to show it.
	// A zero duration marks a still image.
	FirstFrame() (image.Image, time.Duration, error)

	// Close releases any resources held by the decoder.
	Close() error
}

// FrameDecoder is a Decoder for animated content. NextFrame returns the
// frame after the last one returned, looping back to the start.
type FrameDecoder interface {
	Decoder
	NextFrame() (image.Image, time.Duration, error)
}

// OpenError wraps a failure from a backend that accepted the input.
type OpenError struct {
	Backend string
	Path    string
	Err     error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("source: %s: open %s: %v", e.Backend, e.Path, e.Err)
}

func (e *OpenError) Unwrap() error {
	return e.Err
}
