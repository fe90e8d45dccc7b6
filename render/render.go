/*
Package render composites blocks and tiles onto a canvas.

Nothing here clips against the canvas, callers size it to fit.
*/
package render

import (
	"fmt"

	"github.com/bodgit/pokemap/mapdata"
	"github.com/bodgit/pokemap/tileset"
	"golang.org/x/image/draw"
)

// IndexError is returned when a block refers to something that isn't in the
// tileset, which usually means the layout constants don't match the image
type IndexError struct {
	Kind  string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("render: %s %d out of range [0, %d)", e.Kind, e.Index, e.Len)
}

// DrawTile draws t at x, y using pal. With mask set, pixels of color 0 are
// left untouched.
func DrawTile(dst draw.Image, pal *tileset.Palette, t *tileset.Tile, x, y int, attributes uint8, mask bool) {
	ref := tileset.TileRef{Attributes: attributes}
	for i, px := range t {
		if mask && px == 0 {
			continue
		}

		dx, dy := i%tileset.TileWidth, i/tileset.TileWidth
		if ref.FlipX() {
			dx = tileset.TileWidth - 1 - dx
		}
		if ref.FlipY() {
			dy = tileset.TileHeight - 1 - dy
		}

		dst.Set(x+dx, y+dy, pal[px])
	}
}

func checkBlock(s *tileset.Set, block int) error {
	if block < 0 || block >= len(s.Blocks) {
		return &IndexError{Kind: "block", Index: block, Len: len(s.Blocks)}
	}
	for _, ref := range s.Blocks[block] {
		if ref.Tile < 0 || ref.Tile >= len(s.Tiles) {
			return &IndexError{Kind: "tile", Index: ref.Tile, Len: len(s.Tiles)}
		}
		if ref.Palette < 0 || ref.Palette >= len(s.Palettes) {
			return &IndexError{Kind: "palette", Index: ref.Palette, Len: len(s.Palettes)}
		}
	}
	return nil
}

// DrawBlock draws block from s with its top-left corner at x, y. Nothing is
// drawn if any index is out of range.
func DrawBlock(dst draw.Image, s *tileset.Set, x, y, block int) error {
	if err := checkBlock(s, block); err != nil {
		return err
	}

	for i, ref := range s.Blocks[block] {
		// References 0-3 and 4-7 cover the same four quadrants
		q := i % 4
		DrawTile(dst, &s.Palettes[ref.Palette], &s.Tiles[ref.Tile],
			x+q%2*tileset.TileWidth, y+q/2*tileset.TileHeight,
			ref.Attributes, i >= 4)
	}

	return nil
}

// DrawMap draws every cell of m with its top-left corner at x, y
func DrawMap(dst draw.Image, m *mapdata.Map, s *tileset.Set, x, y int) error {
	for cy := 0; cy < m.Height; cy++ {
		for cx := 0; cx < m.Width; cx++ {
			if err := DrawBlock(dst, s, x+cx*tileset.BlockWidth, y+cy*tileset.BlockHeight, m.Block(cx, cy)); err != nil {
				return fmt.Errorf("cell (%d, %d): %w", cx, cy, err)
			}
		}
	}
	return nil
}

// DrawTiles lays out tiles in rows of columns using pal
func DrawTiles(dst draw.Image, tiles []tileset.Tile, pal *tileset.Palette, columns int) {
	for i := range tiles {
		DrawTile(dst, pal, &tiles[i], i%columns*tileset.TileWidth, i/columns*tileset.TileHeight, 0, false)
	}
}
