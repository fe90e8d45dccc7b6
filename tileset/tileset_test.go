package tileset_test

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"github.com/bodgit/pokemap/internal/romtest"
	"github.com/bodgit/pokemap/rom"
	"github.com/bodgit/pokemap/tileset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stub struct {
	out   []byte
	err   error
	input []byte
}

func (s *stub) Decompress(b []byte) ([]byte, error) {
	s.input = b
	return s.out, s.err
}

func testTileset(secondary uint8) *romtest.Builder {
	return romtest.New(0x800).
		U8(0x100, 1).
		U8(0x101, secondary).
		Pointers(0x104, 0x200, 0x300, 0x600, 0x620).
		Bytes(0x200, []byte{0xde, 0xad}).
		U16(0x300, 0x7fff).
		U16(0x302, 0x001f).
		U16(0x300+6*tileset.PaletteBytes+15*2, 0x7c00).
		U16(0x300+7*tileset.PaletteBytes, 0x03e0).
		U16(0x300+15*tileset.PaletteBytes+2, 0x0421).
		U16(0x600, 0x5c07).
		U16(0x602, 0x0401).
		U16(0x604, 0x0bff).
		U16(0x610, 0x1000)
}

func TestColor(t *testing.T) {
	tests := []struct {
		in   uint16
		want color.RGBA
	}{
		{0x0000, color.RGBA{0, 0, 0, 0xff}},
		{0x7fff, color.RGBA{248, 248, 248, 0xff}},
		{0x001f, color.RGBA{248, 0, 0, 0xff}},
		{0x03e0, color.RGBA{0, 248, 0, 0xff}},
		{0x7c00, color.RGBA{0, 0, 248, 0xff}},
		{0x0421, color.RGBA{8, 8, 8, 0xff}},
		{0xffff, color.RGBA{248, 248, 248, 0xff}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tileset.Color(tt.in), "%#04x", tt.in)
	}
}

func TestUnpackTiles(t *testing.T) {
	b := bytes.Repeat([]byte{0x10, 0x32}, tileset.TileBytes/2)
	b = append(b, 0xff, 0xff) // partial trailing tile is ignored

	tiles := tileset.UnpackTiles(b)
	require.Len(t, tiles, 1)

	assert.Equal(t, uint8(0x0), tiles[0][0])
	assert.Equal(t, uint8(0x1), tiles[0][1])
	assert.Equal(t, uint8(0x2), tiles[0][2])
	assert.Equal(t, uint8(0x3), tiles[0][3])
	assert.Equal(t, uint8(0x3), tiles[0][63])
}

func TestDecodeBlock(t *testing.T) {
	b := []byte{0x07, 0x5c, 0x01, 0x04, 0xff, 0x0b}
	b = append(b, make([]byte, 10)...)

	block := tileset.DecodeBlock(b)
	assert.Equal(t, tileset.TileRef{Palette: 5, Tile: 7, Attributes: 3}, block[0])
	assert.Equal(t, tileset.TileRef{Palette: 0, Tile: 1, Attributes: 1}, block[1])
	assert.Equal(t, tileset.TileRef{Palette: 0, Tile: 0x3ff, Attributes: 2}, block[2])
	assert.True(t, block[1].FlipX())
	assert.False(t, block[1].FlipY())
	assert.True(t, block[2].FlipY())
	assert.False(t, block[2].FlipX())
}

func TestDecodePrimary(t *testing.T) {
	d := &stub{out: bytes.Repeat([]byte{0x21}, tileset.TileBytes*3)}
	b := testTileset(0)
	im := b.Image()

	ts, err := tileset.Decode(im, 0x100, d)
	require.NoError(t, err)

	assert.Equal(t, 0x100, ts.Offset)
	assert.True(t, ts.Compressed)
	assert.True(t, ts.Primary)
	assert.Equal(t, 0, ts.First)
	assert.Equal(t, b.Raw()[0x200:], d.input)

	require.Len(t, ts.Tiles, 3)
	assert.Equal(t, uint8(1), ts.Tiles[2][0])
	assert.Equal(t, uint8(2), ts.Tiles[2][1])

	require.Len(t, ts.Palettes, tileset.PrimaryPalettes)
	assert.Equal(t, color.RGBA{248, 248, 248, 0xff}, ts.Palettes[0][0])
	assert.Equal(t, color.RGBA{248, 0, 0, 0xff}, ts.Palettes[0][1])
	assert.Equal(t, color.RGBA{0, 0, 248, 0xff}, ts.Palettes[6][15])

	require.Len(t, ts.Blocks, 2)
	assert.Equal(t, tileset.TileRef{Palette: 5, Tile: 7, Attributes: 3}, ts.Blocks[0][0])
	assert.Equal(t, tileset.TileRef{Palette: 1}, ts.Blocks[1][0])
}

func TestDecodeSecondary(t *testing.T) {
	d := &stub{out: make([]byte, tileset.TileBytes)}

	ts, err := tileset.Decode(testTileset(1).Image(), 0x100, d)
	require.NoError(t, err)

	assert.False(t, ts.Primary)
	assert.Equal(t, tileset.PrimaryPalettes, ts.First)
	require.Len(t, ts.Palettes, tileset.SecondaryPalettes)
	assert.Equal(t, color.RGBA{0, 248, 0, 0xff}, ts.Palettes[0][0])
	assert.Equal(t, color.RGBA{8, 8, 8, 0xff}, ts.Palettes[8][1])
}

func TestDecodeCodecError(t *testing.T) {
	codecErr := errors.New("malformed")

	_, err := tileset.Decode(testTileset(0).Image(), 0x100, &stub{err: codecErr})
	assert.ErrorIs(t, err, codecErr)
}

func TestDecodeOutOfBounds(t *testing.T) {
	d := tileset.DecompressorFunc(func(b []byte) ([]byte, error) {
		return nil, nil
	})

	tests := []struct {
		name string
		b    *romtest.Builder
	}{
		{"tiles", testTileset(0).Pointer(0x104, 0x900)},
		{"palettes", testTileset(1).Pointer(0x108, 0x7f0)},
		{"blocks", testTileset(0).Pointer(0x110, 0x1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tileset.Decode(tt.b.Image(), 0x100, d)
			var oob *rom.OutOfBoundsError
			assert.True(t, errors.As(err, &oob))
		})
	}

	_, err := tileset.Decode(testTileset(0).Pointer(0x110, 0x5f0).Image(), 0x100, d)
	assert.Error(t, err)
}

func TestCombine(t *testing.T) {
	global := &tileset.Tileset{
		Primary:  true,
		Palettes: make([]tileset.Palette, tileset.PrimaryPalettes),
		Tiles:    make([]tileset.Tile, 2),
		Blocks:   make([]tileset.Block, 3),
	}
	global.Palettes[0][1] = color.RGBA{1, 2, 3, 0xff}
	global.Blocks[2][0].Tile = 1

	local := &tileset.Tileset{
		First:    tileset.PrimaryPalettes,
		Palettes: make([]tileset.Palette, tileset.SecondaryPalettes),
		Tiles:    make([]tileset.Tile, 1),
		Blocks:   make([]tileset.Block, 1),
	}
	local.Palettes[8][1] = color.RGBA{4, 5, 6, 0xff}
	local.Tiles[0][0] = 9
	local.Blocks[0][0].Tile = tileset.PrimaryTiles

	s := tileset.Combine(global, local)
	assert.Equal(t, color.RGBA{1, 2, 3, 0xff}, s.Palettes[0][1])
	assert.Equal(t, color.RGBA{4, 5, 6, 0xff}, s.Palettes[15][1])

	require.Len(t, s.Tiles, tileset.PrimaryTiles+1)
	assert.Equal(t, uint8(9), s.Tiles[tileset.PrimaryTiles][0])

	require.Len(t, s.Blocks, 4)
	assert.Equal(t, 1, s.Blocks[2][0].Tile)
	assert.Equal(t, tileset.PrimaryTiles, s.Blocks[3][0].Tile)

	only := tileset.Combine(global, nil)
	assert.Len(t, only.Tiles, 2)
	assert.Len(t, only.Blocks, 3)
}
