package source

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dshills/imview/internal/message"
)

// MemoryPath names in-memory input in errors and source names.
const MemoryPath = "<memory>"

// Poster receives load results. *message.Channel implements it.
type Poster interface {
	Post(m message.Message) bool
}

// Chain is an ordered list of backends plus the generation counter shared
// by every source it opens. It is used only from the main loop; the
// sources it returns may be used from any goroutine.
type Chain struct {
	backends []Backend
	post     Poster

	gen       atomic.Uint64
	delivered atomic.Uint64
}

// NewChain creates an empty chain that posts results to post.
func NewChain(post Poster) *Chain {
	return &Chain{post: post}
}

// Install puts b ahead of every backend already in the chain.
func (c *Chain) Install(b Backend) {
	c.backends = append([]Backend{b}, c.backends...)
}

// Append puts b behind every backend already in the chain.
func (c *Chain) Append(b Backend) {
	c.backends = append(c.backends, b)
}

// Names returns backend names in the order they are tried.
func (c *Chain) Names() []string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.Name()
	}
	return names
}

// OpenPath opens path with the first backend that supports it.
func (c *Chain) OpenPath(path string) (*Source, error) {
	return c.open(path, func(b Backend) (Decoder, error) {
		if o, ok := b.(PathOpener); ok {
			return o.OpenPath(path)
		}
		return nil, ErrUnsupported
	})
}

// OpenMemory opens encoded data with the first backend that supports it.
func (c *Chain) OpenMemory(data []byte) (*Source, error) {
	return c.open(MemoryPath, func(b Backend) (Decoder, error) {
		if o, ok := b.(MemoryOpener); ok {
			return o.OpenMemory(data)
		}
		return nil, ErrUnsupported
	})
}

func (c *Chain) open(name string, try func(Backend) (Decoder, error)) (*Source, error) {
	for _, b := range c.backends {
		dec, err := try(b)
		if errors.Is(err, ErrUnsupported) {
			continue
		}
		if err != nil {
			return nil, &OpenError{Backend: b.Name(), Path: name, Err: err}
		}
		return c.newSource(name, b.Name(), dec), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
}

func (c *Chain) newSource(name, backend string, dec Decoder) *Source {
	_, animated := dec.(FrameDecoder)
	return &Source{
		gen:      message.Generation(c.gen.Add(1)),
		name:     name,
		backend:  backend,
		chain:    c,
		dec:      dec,
		animated: animated,
	}
}

// markDelivered records that gen delivered a frame. It reports whether
// gen is newer than every generation that delivered before it.
func (c *Chain) markDelivered(gen message.Generation) bool {
	for {
		last := c.delivered.Load()
		if uint64(gen) <= last {
			return false
		}
		if c.delivered.CompareAndSwap(last, uint64(gen)) {
			return true
		}
	}
}
