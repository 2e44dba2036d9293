package codec

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"time"

	"github.com/dshills/imview/internal/source"
)

// Still decodes single images of any registered format.
type Still struct{}

// Name returns the backend name.
func (Still) Name() string { return "still" }

// OpenPath checks that the file at path is in a known format. Only the
// header is read; FirstFrame reads and decodes the rest.
func (Still) OpenPath(path string) (source.Decoder, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	format, err := sniff(f)
	if err != nil {
		return nil, err
	}
	return &stillDecoder{path: path, format: format}, nil
}

// OpenMemory checks that data is in a known format.
func (Still) OpenMemory(data []byte) (source.Decoder, error) {
	format, err := sniff(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &stillDecoder{data: data, format: format}, nil
}

type stillDecoder struct {
	path   string
	data   []byte
	format string
	closed bool
}

func (d *stillDecoder) FirstFrame() (image.Image, time.Duration, error) {
	if d.closed {
		return nil, 0, source.ErrClosed
	}

	var r io.Reader
	if d.data != nil {
		r = bytes.NewReader(d.data)
	} else {
		f, err := os.Open(d.path)
		if err != nil {
			return nil, 0, err
		}
		defer f.Close()
		r = bufio.NewReader(f)
	}

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", d.format, err)
	}
	return img, 0, nil
}

func (d *stillDecoder) Close() error {
	d.closed = true
	d.data = nil
	return nil
}
