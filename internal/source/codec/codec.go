// Package codec provides the built-in decoding backends.
//
// Animated decodes GIF files frame by frame, compositing each frame onto
// a canvas according to its disposal method. Still decodes any format
// registered with the image package, including BMP, TIFF and WebP from
// golang.org/x/image, and shows only the first frame.
package codec

import (
	"errors"
	"image"
	"io"

	// Decoders registered with image.Decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/dshills/imview/internal/source"
)

// Default returns the built-in backends in the order they should be tried.
func Default() []source.Backend {
	return []source.Backend{Animated{}, Still{}}
}

// sniff reads the image header from r and reports its registered format
// name, or ErrUnsupported.
func sniff(r io.Reader) (string, error) {
	_, format, err := image.DecodeConfig(r)
	if errors.Is(err, image.ErrFormat) {
		return "", source.ErrUnsupported
	}
	if err != nil {
		return format, err
	}
	return format, nil
}
