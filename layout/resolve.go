package layout

import (
	"errors"
	"fmt"

	"github.com/bodgit/pokemap/mapdata"
)

// ErrUnsupportedDirection is recorded for connections that can't be placed
var ErrUnsupportedDirection = errors.New("layout: unsupported direction")

type step struct {
	id     mapdata.ID
	from   mapdata.ID
	caller Node
	x, y   int
	dir    mapdata.Direction
	offset int
	node   *Node
}

// place returns the position of a map of size n reached from s
func place(s step, n Node) (int, int, bool) {
	switch s.dir {
	case mapdata.Down:
		return s.x + s.offset, s.y + s.caller.Height, true
	case mapdata.Up:
		return s.x + s.offset, s.y - n.Height, true
	case mapdata.Left:
		return s.x - n.Width, s.y + s.offset, true
	case mapdata.Right:
		return s.x + s.caller.Width, s.y + s.offset, true
	case mapdata.Root:
		return s.x, s.y, true
	}
	return 0, 0, false
}

// Resolve places root at the origin and every map reachable from it through
// connections. Maps are placed in depth-first order following each map's
// connections in table order. Only a failure to look up root is an error,
// anything else reached that can't be placed ends up in Result.Skipped.
func Resolve(g Graph, root mapdata.ID) (*Result, error) {
	n, err := g.Node(root)
	if err != nil {
		return nil, fmt.Errorf("layout: root map %s: %w", root, err)
	}

	r := new(Result)
	visited := make(map[mapdata.ID]struct{})
	stack := []step{{id: root, from: root, caller: n, dir: mapdata.Root, node: &n}}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := visited[s.id]; ok {
			continue
		}
		visited[s.id] = struct{}{}

		if !s.dir.Supported() {
			r.Skipped = append(r.Skipped, Skip{ID: s.id, From: s.from, Direction: s.dir, Err: ErrUnsupportedDirection})
			continue
		}

		if s.node == nil {
			n, err := g.Node(s.id)
			if err != nil {
				r.Skipped = append(r.Skipped, Skip{ID: s.id, From: s.from, Direction: s.dir, Err: err})
				continue
			}
			s.node = &n
		}

		x, y, _ := place(s, *s.node)
		r.Placements = append(r.Placements, Placement{
			ID:     s.id,
			X:      x,
			Y:      y,
			Width:  s.node.Width,
			Height: s.node.Height,
		})

		// Push in reverse so the first connection is visited first
		for i := len(s.node.Connections) - 1; i >= 0; i-- {
			c := s.node.Connections[i]
			stack = append(stack, step{
				id:     c.Target,
				from:   s.id,
				caller: *s.node,
				x:      x,
				y:      y,
				dir:    c.Direction,
				offset: c.Offset,
			})
		}
	}

	return r, nil
}
