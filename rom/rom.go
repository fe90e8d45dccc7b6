/*
Package rom implements read-only access to a cartridge image.

All structures in the image refer to each other with 32-bit pointers into the
cartridge address space which starts at LoadBase. A pointer is resolved into
a file offset by subtracting LoadBase; any word that resolves to zero or less
is not a pointer and is used to terminate tables.
*/
package rom

import (
	"encoding/binary"
	"fmt"
)

// LoadBase is the address the cartridge is mapped at
const LoadBase = 0x08000000

// OutOfBoundsError is returned by any read that would go past either end of
// the image
type OutOfBoundsError struct {
	Offset int
	Width  int
	Length int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("rom: read of %d bytes at %#x outside image of %#x bytes", e.Width, e.Offset, e.Length)
}

// Image is an immutable cartridge image
type Image struct {
	b []byte
}

// New returns an Image backed by b. The slice must not be modified afterwards.
func New(b []byte) *Image {
	return &Image{b: b}
}

// Len returns the size of the image in bytes
func (im *Image) Len() int {
	return len(im.b)
}

// Slice returns n bytes starting at off
func (im *Image) Slice(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off > len(im.b) || n > len(im.b)-off {
		return nil, &OutOfBoundsError{Offset: off, Width: n, Length: len(im.b)}
	}
	return im.b[off : off+n : off+n], nil
}

// From returns everything from off to the end of the image
func (im *Image) From(off int) ([]byte, error) {
	if off < 0 || off >= len(im.b) {
		return nil, &OutOfBoundsError{Offset: off, Width: 1, Length: len(im.b)}
	}
	return im.b[off:len(im.b):len(im.b)], nil
}

// Uint8 reads a byte at off
func (im *Image) Uint8(off int) (uint8, error) {
	b, err := im.Slice(off, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Uint16 reads a little-endian 16-bit value at off
func (im *Image) Uint16(off int) (uint16, error) {
	b, err := im.Slice(off, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Uint32 reads a little-endian 32-bit value at off
func (im *Image) Uint32(off int) (uint32, error) {
	b, err := im.Slice(off, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// Int32 reads a little-endian signed 32-bit value at off
func (im *Image) Int32(off int) (int32, error) {
	v, err := im.Uint32(off)
	return int32(v), err
}

// Pointer reads the word at off and resolves it into a file offset. The
// result may be zero or negative if the word is not a pointer.
func (im *Image) Pointer(off int) (int, error) {
	v, err := im.Uint32(off)
	if err != nil {
		return 0, err
	}
	return int(int64(v) - LoadBase), nil
}

// IsPointer reports whether the word at off resolves to a positive offset
func (im *Image) IsPointer(off int) (bool, error) {
	p, err := im.Pointer(off)
	if err != nil {
		return false, err
	}
	return p > 0, nil
}

// Address converts a resolved offset back into the word stored on disk
func Address(p int) uint32 {
	return uint32(int64(p) + LoadBase)
}
