/*
Package tileset implements a tileset decoder.

A tileset is a compressed bitmap of 8 by 8 tiles with 4 bits per pixel, a
bank of 16 color palettes and a table of blocks. Each block is 16 by 16
pixels built from eight tile references; the first four form the bottom
layer and the last four are drawn on top with color 0 transparent.

A map uses two tilesets. The global (primary) tileset owns palettes 0 to 6
and the first PrimaryTiles tiles, the local (secondary) tileset owns
palettes 7 to 15 and the tiles after that.
*/
package tileset

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/bodgit/pokemap/rom"
)

const (
	TileWidth    = 8
	TileHeight   = TileWidth
	TilePixels   = TileWidth * TileHeight
	TileBytes    = TilePixels >> 1
	BlockWidth   = TileWidth * 2
	BlockHeight  = BlockWidth
	BlockTiles   = 8
	BlockBytes   = BlockTiles * 2
	PrimaryTiles = 640

	ColorsPerPalette  = 16
	PaletteBytes      = ColorsPerPalette * 2
	Palettes          = 16
	PrimaryPalettes   = 7
	SecondaryPalettes = Palettes - PrimaryPalettes
)

const (
	offsetCompressed = 0
	offsetSecondary  = 1
	offsetTiles      = 4
	offsetPalettes   = 8
	offsetBlocks     = 12
	offsetBlocksEnd  = 16
)

var errBlockTable = errors.New("tileset: block table ends before it starts")

// Decompressor expands a compressed region. The input runs to the end of the
// image, the compressed stream must carry its own length.
type Decompressor interface {
	Decompress([]byte) ([]byte, error)
}

// DecompressorFunc adapts a function to the Decompressor interface
type DecompressorFunc func([]byte) ([]byte, error)

// Decompress calls f(b)
func (f DecompressorFunc) Decompress(b []byte) ([]byte, error) {
	return f(b)
}

// Palette is 16 colors
type Palette [ColorsPerPalette]color.RGBA

// Tile is 64 palette indices, row by row
type Tile [TilePixels]uint8

// TileRef is one of the eight tiles in a block
type TileRef struct {
	Palette    int
	Tile       int
	Attributes uint8
}

// FlipX reports whether the tile is mirrored horizontally
func (r TileRef) FlipX() bool {
	return r.Attributes&0x1 != 0
}

// FlipY reports whether the tile is mirrored vertically
func (r TileRef) FlipY() bool {
	return r.Attributes&0x2 != 0
}

// Block is a 16 by 16 pixel metatile
type Block [BlockTiles]TileRef

// Tileset is a decoded tileset
type Tileset struct {
	Offset     int
	Compressed bool
	Primary    bool

	// First is the palette slot Palettes[0] belongs in
	First    int
	Palettes []Palette
	Tiles    []Tile
	Blocks   []Block
}

// Color expands a packed 15-bit color
func Color(w uint16) color.RGBA {
	return color.RGBA{
		R: uint8(w&0x1f) * 8,
		G: uint8(w>>5&0x1f) * 8,
		B: uint8(w>>10&0x1f) * 8,
		A: 0xff,
	}
}

// UnpackTiles splits a decompressed bitmap into tiles. Each byte holds two
// pixels, the left one in the low nibble.
func UnpackTiles(b []byte) []Tile {
	tiles := make([]Tile, len(b)/TileBytes)
	for i := range tiles {
		t := b[i*TileBytes : (i+1)*TileBytes]
		for j := range tiles[i] {
			if j%2 == 0 {
				tiles[i][j] = t[j/2] & 0x0f
			} else {
				tiles[i][j] = t[j/2] >> 4
			}
		}
	}
	return tiles
}

// DecodeBlock unpacks one 16 byte block record
func DecodeBlock(b []byte) Block {
	var block Block
	for i := range block {
		w := uint16(b[i*2]) | uint16(b[i*2+1])<<8
		block[i] = TileRef{
			Palette:    int(w >> 12),
			Attributes: uint8(w >> 10 & 0x3),
			Tile:       int(w & 0x3ff),
		}
	}
	return block
}

// Decode reads the tileset at off, using d to decompress the tile bitmap
func Decode(im *rom.Image, off int, d Decompressor) (*Tileset, error) {
	ts, err := decode(im, off, d)
	if err != nil {
		return nil, fmt.Errorf("tileset: at %#x: %w", off, err)
	}
	return ts, nil
}

func decode(im *rom.Image, off int, d Decompressor) (*Tileset, error) {
	flags, err := im.Slice(off, 2)
	if err != nil {
		return nil, err
	}

	ts := &Tileset{
		Offset:     off,
		Compressed: flags[offsetCompressed] != 0,
		Primary:    flags[offsetSecondary] == 0,
	}

	if err := ts.readTiles(im, d); err != nil {
		return nil, err
	}
	if err := ts.readPalettes(im); err != nil {
		return nil, err
	}
	if err := ts.readBlocks(im); err != nil {
		return nil, err
	}

	return ts, nil
}

func (ts *Tileset) readTiles(im *rom.Image, d Decompressor) error {
	p, err := im.Pointer(ts.Offset + offsetTiles)
	if err != nil {
		return err
	}
	src, err := im.From(p)
	if err != nil {
		return err
	}
	b, err := d.Decompress(src)
	if err != nil {
		return err
	}
	ts.Tiles = UnpackTiles(b)
	return nil
}

func (ts *Tileset) readPalettes(im *rom.Image) error {
	p, err := im.Pointer(ts.Offset + offsetPalettes)
	if err != nil {
		return err
	}

	n := PrimaryPalettes
	if !ts.Primary {
		ts.First, n = PrimaryPalettes, SecondaryPalettes
	}

	b, err := im.Slice(p+ts.First*PaletteBytes, n*PaletteBytes)
	if err != nil {
		return err
	}

	ts.Palettes = make([]Palette, n)
	for i := range ts.Palettes {
		for j := range ts.Palettes[i] {
			k := i*PaletteBytes + j*2
			ts.Palettes[i][j] = Color(uint16(b[k]) | uint16(b[k+1])<<8)
		}
	}
	return nil
}

func (ts *Tileset) readBlocks(im *rom.Image) error {
	start, err := im.Pointer(ts.Offset + offsetBlocks)
	if err != nil {
		return err
	}
	end, err := im.Pointer(ts.Offset + offsetBlocksEnd)
	if err != nil {
		return err
	}
	if end < start {
		return errBlockTable
	}

	n := (end - start) / BlockBytes
	b, err := im.Slice(start, n*BlockBytes)
	if err != nil {
		return err
	}

	ts.Blocks = make([]Block, n)
	for i := range ts.Blocks {
		ts.Blocks[i] = DecodeBlock(b[i*BlockBytes:])
	}
	return nil
}
