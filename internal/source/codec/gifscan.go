package codec

import (
	"bufio"
	"fmt"
	"io"
)

// GIF block introducers.
const (
	gifExtension       = 0x21
	gifImageDescriptor = 0x2C
	gifTrailer         = 0x3B
)

// countGIFFrames walks the block structure of a GIF without decoding any
// image data. It returns the number of frames, stopping once limit is
// reached. Only the bytes up to the last counted frame are read.
func countGIFFrames(r io.Reader, limit int) (int, error) {
	br := bufio.NewReader(r)

	// Header and logical screen descriptor.
	var hdr [13]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return 0, err
	}
	if v := string(hdr[:6]); v != "GIF87a" && v != "GIF89a" {
		return 0, fmt.Errorf("gif: bad header %q", v)
	}
	if err := skipColorTable(br, hdr[10]); err != nil {
		return 0, err
	}

	frames := 0
	for {
		b, err := br.ReadByte()
		if err != nil {
			return frames, err
		}

		switch b {
		case gifExtension:
			if _, err := br.ReadByte(); err != nil {
				return frames, err
			}
			if err := skipSubBlocks(br); err != nil {
				return frames, err
			}

		case gifImageDescriptor:
			frames++
			if frames >= limit {
				return frames, nil
			}
			var desc [9]byte
			if _, err := io.ReadFull(br, desc[:]); err != nil {
				return frames, err
			}
			if err := skipColorTable(br, desc[8]); err != nil {
				return frames, err
			}
			// LZW minimum code size.
			if _, err := br.ReadByte(); err != nil {
				return frames, err
			}
			if err := skipSubBlocks(br); err != nil {
				return frames, err
			}

		case gifTrailer:
			return frames, nil

		default:
			return frames, fmt.Errorf("gif: unknown block 0x%02x", b)
		}
	}
}

// skipColorTable skips the color table described by a packed flags byte.
func skipColorTable(br *bufio.Reader, flags byte) error {
	if flags&0x80 == 0 {
		return nil
	}
	_, err := br.Discard(3 << ((flags & 0x07) + 1))
	return err
}

// skipSubBlocks skips a sequence of data sub-blocks and its terminator.
func skipSubBlocks(br *bufio.Reader) error {
	for {
		n, err := br.ReadByte()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if _, err := br.Discard(int(n)); err != nil {
			return err
		}
	}
}
