package source

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/dshills/imview/internal/message"
)

// Source is one opened image. Its loads block and are meant to run on a
// Runner; each posts exactly one NewFrame or BadImage.
type Source struct {
	gen      message.Generation
	name     string
	backend  string
	chain    *Chain
	animated bool

	mu  sync.Mutex
	dec Decoder
}

// Generation returns the generation assigned when the source was opened.
func (s *Source) Generation() message.Generation {
	return s.gen
}

// Name returns the path the source was opened from.
func (s *Source) Name() string {
	return s.name
}

// Backend returns the name of the backend that opened the source.
func (s *Source) Backend() string {
	return s.backend
}

// CanLoadNext reports whether the source has more than one frame.
func (s *Source) CanLoadNext() bool {
	return s.animated
}

// LoadFirstFrame decodes the first frame and posts the result.
func (s *Source) LoadFirstFrame() {
	s.load(func(d Decoder) (image.Image, time.Duration, error) {
		return d.FirstFrame()
	})
}

// LoadNextFrame decodes the following frame and posts the result.
func (s *Source) LoadNextFrame() {
	s.load(func(d Decoder) (image.Image, time.Duration, error) {
		fd, ok := d.(FrameDecoder)
		if !ok {
			return nil, 0, ErrNoMoreFrames
		}
		return fd.NextFrame()
	})
}

func (s *Source) load(decode func(Decoder) (image.Image, time.Duration, error)) {
	s.mu.Lock()
	if s.dec == nil {
		s.mu.Unlock()
		s.chain.post.Post(message.BadImage{Gen: s.gen, Err: ErrClosed})
		return
	}
	img, frametime, err := decode(s.dec)
	s.mu.Unlock()

	if err == nil && img == nil {
		err = fmt.Errorf("%s returned no image", s.backend)
	}
	if err != nil {
		s.chain.post.Post(message.BadImage{
			Gen: s.gen,
			Err: fmt.Errorf("source: %s: %w", s.name, err),
		})
		return
	}
	if frametime < 0 {
		frametime = 0
	}

	s.chain.post.Post(message.NewFrame{
		Gen:       s.gen,
		Bitmap:    message.NewBitmap(img),
		Frametime: frametime,
		NewImage:  s.chain.markDelivered(s.gen),
	})
}

// Free releases the decoder. It waits for an in-flight load to finish;
// loads started afterwards report ErrClosed.
func (s *Source) Free() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dec != nil {
		_ = s.dec.Close()
		s.dec = nil
	}
}
