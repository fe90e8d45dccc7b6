/*
Package layout places connected maps relative to each other.

Starting from a root map at the origin, each connection places its target map
against one edge of the map it was reached from. Coordinates are in blocks.
Connection graphs are often cyclic, every map is placed at most once, the
first time it is reached.
*/
package layout

import (
	"image"

	"github.com/bodgit/pokemap/mapdata"
)

// Node is what the resolver needs to know about a map
type Node struct {
	Width       int
	Height      int
	Connections []mapdata.Connection
}

// Graph looks up maps by ID
type Graph interface {
	Node(mapdata.ID) (Node, error)
}

// GraphFunc adapts a function to the Graph interface
type GraphFunc func(mapdata.ID) (Node, error)

// Node calls f(id)
func (f GraphFunc) Node(id mapdata.ID) (Node, error) {
	return f(id)
}

// Placement is the position of a map's top-left corner
type Placement struct {
	ID     mapdata.ID
	X      int
	Y      int
	Width  int
	Height int
}

// Rect returns the area covered by the map
func (p Placement) Rect() image.Rectangle {
	return image.Rect(p.X, p.Y, p.X+p.Width, p.Y+p.Height)
}

// Skip records a map that was reached but couldn't be placed
type Skip struct {
	ID        mapdata.ID
	From      mapdata.ID
	Direction mapdata.Direction
	Err       error
}

// Result is the outcome of resolving a layout
type Result struct {
	Placements []Placement
	Skipped    []Skip
}

// Bounds returns the smallest rectangle covering every placement
func (r *Result) Bounds() image.Rectangle {
	return Bounds(r.Placements)
}

// Bounds returns the smallest rectangle covering every placement
func Bounds(placements []Placement) image.Rectangle {
	var b image.Rectangle
	for i, p := range placements {
		if i == 0 {
			b = p.Rect()
			continue
		}
		b = b.Union(p.Rect())
	}
	return b
}
