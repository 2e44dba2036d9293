package renderer

import (
	"fmt"
	"image"
	"strings"

	"github.com/dshills/imview/internal/renderer/core"
)

// Background is what shows behind and around the image.
type Background struct {
	// Checks draws a checkerboard instead of Color.
	Checks bool
	Color  core.Color
}

// DefaultBackground is solid black.
var DefaultBackground = Background{Color: core.ColorBlack}

// ParseBackground parses "checks" or a hex color.
func ParseBackground(s string) (Background, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "checks") {
		return Background{Checks: true}, nil
	}
	c, err := core.ColorFromHex(s)
	if err != nil {
		return Background{}, fmt.Errorf("renderer: background: %w", err)
	}
	return Background{Color: c}, nil
}

// String returns the form accepted by ParseBackground.
func (b Background) String() string {
	if b.Checks {
		return "checks"
	}
	return b.Color.ToHex()
}

// Method is the interpolation used when enlarging an image.
type Method int

const (
	Linear Method = iota
	NearestNeighbour
)

// ParseMethod parses "linear" or "nearest_neighbour".
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear":
		return Linear, nil
	case "nearest_neighbour", "nearest_neighbor", "nearest":
		return NearestNeighbour, nil
	}
	return Linear, fmt.Errorf("renderer: unknown upscaling method %q", s)
}

func (m Method) String() string {
	if m == NearestNeighbour {
		return "nearest_neighbour"
	}
	return "linear"
}

// Scene is everything one frame shows.
type Scene struct {
	// Image is the current frame, or nil while nothing is loaded.
	Image image.Image

	// X, Y and Scale place the image in window pixels.
	X, Y  int
	Scale float64

	Background Background
	Upscaling  Method

	// Overlay is drawn on the first row when non-empty.
	Overlay string

	// Prompt is the command being typed; PromptActive shows it.
	Prompt       string
	PromptActive bool
}
