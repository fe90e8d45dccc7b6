// Package romtest builds small synthetic cartridge images for tests.
package romtest

import (
	"encoding/binary"

	"github.com/bodgit/pokemap/rom"
)

// Builder lays out values at fixed offsets, growing the image as needed
type Builder struct {
	b []byte
}

// New returns a Builder with an image of at least size bytes
func New(size int) *Builder {
	return &Builder{b: make([]byte, size)}
}

func (b *Builder) grow(end int) {
	if end > len(b.b) {
		b.b = append(b.b, make([]byte, end-len(b.b))...)
	}
}

// Bytes writes p at off
func (b *Builder) Bytes(off int, p []byte) *Builder {
	b.grow(off + len(p))
	copy(b.b[off:], p)
	return b
}

// U8 writes a byte at off
func (b *Builder) U8(off int, v uint8) *Builder {
	return b.Bytes(off, []byte{v})
}

// U16 writes a little-endian 16-bit value at off
func (b *Builder) U16(off int, v uint16) *Builder {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	return b.Bytes(off, tmp[:])
}

// U32 writes a little-endian 32-bit value at off
func (b *Builder) U32(off int, v uint32) *Builder {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return b.Bytes(off, tmp[:])
}

// Pointer writes a pointer at off that resolves to target
func (b *Builder) Pointer(off, target int) *Builder {
	return b.U32(off, rom.Address(target))
}

// Pointers writes a table of pointers starting at off
func (b *Builder) Pointers(off int, targets ...int) *Builder {
	for i, t := range targets {
		b.Pointer(off+i*4, t)
	}
	return b
}

// Raw returns the image bytes built so far
func (b *Builder) Raw() []byte {
	return b.b
}

// Image returns the built image
func (b *Builder) Image() *rom.Image {
	return rom.New(b.b)
}
