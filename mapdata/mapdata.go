/*
Package mapdata decodes map headers.

A map header points at the map data which holds the dimensions in blocks,
the block grid and the two tilesets, and optionally at a table of
connections to neighbouring maps. Each cell of the grid is 16 bits; the low
10 bits select a block from the global tileset followed by the local tileset
and the remaining bits are attributes that don't affect rendering.
*/
package mapdata

import (
	"fmt"

	"github.com/bodgit/pokemap/rom"
)

const (
	headerData        = 0
	headerConnections = 12
	headerLabel       = 20

	dataWidth   = 0
	dataHeight  = 4
	dataBorder  = 8
	dataGrid    = 12
	dataGlobal  = 16
	dataLocal   = 20
	cellSize    = 2
	blockMask   = 0x3ff
	attribShift = 10
)

// ID identifies a map by its bank and position within the bank
type ID struct {
	Bank int
	Map  int
}

func (id ID) String() string {
	return fmt.Sprintf("%d.%d", id.Bank, id.Map)
}

// Map is a decoded map header
type Map struct {
	Header int
	Data   int

	Width  int
	Height int

	// Cells holds the block index of each cell, row by row
	Cells      []int
	Attributes []uint8

	Border int
	Grid   int
	Global int
	Local  int

	Connections []Connection
	Label       uint8
}

// Block returns the block index of the cell at x, y
func (m *Map) Block(x, y int) int {
	return m.Cells[y*m.Width+x]
}

// Decode reads the map whose header is at header
func Decode(im *rom.Image, header int) (*Map, error) {
	m, err := decode(im, header)
	if err != nil {
		return nil, fmt.Errorf("mapdata: header at %#x: %w", header, err)
	}
	return m, nil
}

func decode(im *rom.Image, header int) (*Map, error) {
	data, err := im.Pointer(header + headerData)
	if err != nil {
		return nil, err
	}

	m := &Map{
		Header: header,
		Data:   data,
	}

	width, err := im.Uint32(data + dataWidth)
	if err != nil {
		return nil, err
	}
	height, err := im.Uint32(data + dataHeight)
	if err != nil {
		return nil, err
	}

	for _, f := range []struct {
		off int
		dst *int
	}{
		{dataBorder, &m.Border},
		{dataGrid, &m.Grid},
		{dataGlobal, &m.Global},
		{dataLocal, &m.Local},
	} {
		if *f.dst, err = im.Pointer(data + f.off); err != nil {
			return nil, err
		}
	}

	if m.Label, err = im.Uint8(header + headerLabel); err != nil {
		return nil, err
	}

	// Check the grid fits before allocating anything
	cells := uint64(width) * uint64(height)
	if cells > uint64(im.Len()/cellSize) {
		return nil, &rom.OutOfBoundsError{Offset: m.Grid, Width: im.Len() + 1, Length: im.Len()}
	}
	b, err := im.Slice(m.Grid, int(cells)*cellSize)
	if err != nil {
		return nil, err
	}

	m.Width, m.Height = int(width), int(height)
	m.Cells = make([]int, cells)
	m.Attributes = make([]uint8, cells)
	for i := range m.Cells {
		v := uint16(b[i*cellSize]) | uint16(b[i*cellSize+1])<<8
		m.Cells[i] = int(v & blockMask)
		m.Attributes[i] = uint8(v >> attribShift)
	}

	if m.Connections, err = decodeConnections(im, header); err != nil {
		return nil, err
	}

	return m, nil
}
