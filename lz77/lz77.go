/*
Package lz77 implements the LZ77 variant understood by the console BIOS
decompression routines.

A stream starts with the byte 0x10 and the 24-bit little-endian decompressed
size. Then each flag byte describes the next eight items, most significant bit
first: a clear bit is a literal byte, a set bit is a two byte back-reference
holding a 4-bit length (plus 3) and a 12-bit displacement (plus 1).
*/
package lz77

import (
	"errors"
)

const magic = 0x10

var (
	errMagic     = errors.New("lz77: not an LZ77 stream")
	errTruncated = errors.New("lz77: truncated stream")
	errDisplace  = errors.New("lz77: back-reference before start of output")
)

// Decompress expands the stream at the start of b. Anything after the end
// of the stream is ignored.
func Decompress(b []byte) ([]byte, error) {
	if len(b) < 4 {
		return nil, errTruncated
	}
	if b[0] != magic {
		return nil, errMagic
	}

	size := int(b[1]) | int(b[2])<<8 | int(b[3])<<16
	out := make([]byte, 0, size)

	i := 4
	next := func() (byte, error) {
		if i >= len(b) {
			return 0, errTruncated
		}
		i++
		return b[i-1], nil
	}

	for len(out) < size {
		flags, err := next()
		if err != nil {
			return nil, err
		}

		for bit := 0; bit < 8 && len(out) < size; bit, flags = bit+1, flags<<1 {
			hi, err := next()
			if err != nil {
				return nil, err
			}
			if flags&0x80 == 0 {
				out = append(out, hi)
				continue
			}

			lo, err := next()
			if err != nil {
				return nil, err
			}
			count := int(hi>>4) + 3
			disp := (int(hi&0x0f)<<8 | int(lo)) + 1
			if disp > len(out) {
				return nil, errDisplace
			}
			for j := 0; j < count && len(out) < size; j++ {
				out = append(out, out[len(out)-disp])
			}
		}
	}

	return out, nil
}

// Codec implements tileset.Decompressor
type Codec struct{}

// Decompress calls Decompress(b)
func (Codec) Decompress(b []byte) ([]byte, error) {
	return Decompress(b)
}
