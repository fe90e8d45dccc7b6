package mapdata

import (
	"fmt"

	"github.com/bodgit/pokemap/rom"
)

const connectionSize = 12

// Direction is the side of the connecting map a connection is on
type Direction uint32

// Root is never stored in the cartridge, it seeds a traversal
const (
	Root Direction = iota
	Down
	Up
	Left
	Right
)

var directionNames = map[Direction]string{
	Root:  "root",
	Down:  "down",
	Up:    "up",
	Left:  "left",
	Right: "right",
}

func (d Direction) String() string {
	if s, ok := directionNames[d]; ok {
		return s
	}
	return fmt.Sprintf("direction(%d)", uint32(d))
}

// Supported reports whether d can be used to place a map
func (d Direction) Supported() bool {
	_, ok := directionNames[d]
	return ok
}

// Connection links a map to a neighbour. Offset is measured in blocks along
// the shared edge.
type Connection struct {
	Direction Direction
	Offset    int
	Target    ID
}

// DecodeConnections reads the connection table of the map whose header is at
// header. A map without a table has no connections.
func DecodeConnections(im *rom.Image, header int) ([]Connection, error) {
	c, err := decodeConnections(im, header)
	if err != nil {
		return nil, fmt.Errorf("mapdata: connections of header at %#x: %w", header, err)
	}
	return c, nil
}

func decodeConnections(im *rom.Image, header int) ([]Connection, error) {
	table, err := im.Pointer(header + headerConnections)
	if err != nil {
		return nil, err
	}
	if table <= 0 {
		return nil, nil
	}

	count, err := im.Uint32(table)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	array, err := im.Pointer(table + 4)
	if err != nil {
		return nil, err
	}
	if uint64(count) > uint64(im.Len()/connectionSize) {
		return nil, &rom.OutOfBoundsError{Offset: array, Width: im.Len() + 1, Length: im.Len()}
	}
	b, err := im.Slice(array, int(count)*connectionSize)
	if err != nil {
		return nil, err
	}

	connections := make([]Connection, count)
	for i := range connections {
		r := rom.New(b[i*connectionSize : (i+1)*connectionSize])
		// These can't fail, the record is already bounds checked
		direction, _ := r.Uint32(0)
		offset, _ := r.Int32(4)
		bank, _ := r.Uint8(8)
		number, _ := r.Uint8(9)

		connections[i] = Connection{
			Direction: Direction(direction),
			Offset:    int(offset),
			Target:    ID{Bank: int(bank), Map: int(number)},
		}
	}

	return connections, nil
}
