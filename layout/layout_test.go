package layout

import (
	"errors"
	"image"
	"testing"

	"github.com/bodgit/pokemap/mapdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type graph struct {
	nodes map[mapdata.ID]Node
	calls map[mapdata.ID]int
}

var errMissing = errors.New("missing")

func (g *graph) Node(id mapdata.ID) (Node, error) {
	if g.calls == nil {
		g.calls = make(map[mapdata.ID]int)
	}
	g.calls[id]++
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, errMissing
	}
	return n, nil
}

var (
	a = mapdata.ID{Bank: 0, Map: 0}
	b = mapdata.ID{Bank: 0, Map: 1}
	c = mapdata.ID{Bank: 0, Map: 2}
	d = mapdata.ID{Bank: 1, Map: 0}
	e = mapdata.ID{Bank: 1, Map: 1}
)

func conn(dir mapdata.Direction, offset int, target mapdata.ID) mapdata.Connection {
	return mapdata.Connection{Direction: dir, Offset: offset, Target: target}
}

func TestResolveCycle(t *testing.T) {
	g := &graph{nodes: map[mapdata.ID]Node{
		a: {Width: 4, Height: 3, Connections: []mapdata.Connection{conn(mapdata.Right, 1, b)}},
		b: {Width: 2, Height: 5, Connections: []mapdata.Connection{conn(mapdata.Left, -1, a)}},
	}}

	r, err := Resolve(g, a)
	require.NoError(t, err)
	assert.Equal(t, []Placement{
		{ID: a, X: 0, Y: 0, Width: 4, Height: 3},
		{ID: b, X: 4, Y: 1, Width: 2, Height: 5},
	}, r.Placements)
	assert.Empty(t, r.Skipped)
	assert.Equal(t, 1, g.calls[a])
	assert.Equal(t, 1, g.calls[b])
}

func TestResolveDirections(t *testing.T) {
	g := &graph{nodes: map[mapdata.ID]Node{
		a: {Width: 10, Height: 8, Connections: []mapdata.Connection{
			conn(mapdata.Up, 2, b),
			conn(mapdata.Down, -3, c),
			conn(mapdata.Left, 1, d),
			conn(mapdata.Right, 4, e),
		}},
		b: {Width: 3, Height: 5},
		c: {Width: 6, Height: 2},
		d: {Width: 7, Height: 4},
		e: {Width: 1, Height: 9},
	}}

	r, err := Resolve(g, a)
	require.NoError(t, err)
	assert.Equal(t, []Placement{
		{ID: a, X: 0, Y: 0, Width: 10, Height: 8},
		{ID: b, X: 2, Y: -5, Width: 3, Height: 5},
		{ID: c, X: -3, Y: 8, Width: 6, Height: 2},
		{ID: d, X: -7, Y: 1, Width: 7, Height: 4},
		{ID: e, X: 10, Y: 4, Width: 1, Height: 9},
	}, r.Placements)
	assert.Equal(t, image.Rect(-7, -5, 11, 13), r.Bounds())
}

func TestResolveDepthFirst(t *testing.T) {
	// a reaches c both directly and through b, b comes first so c is
	// placed relative to b
	g := &graph{nodes: map[mapdata.ID]Node{
		a: {Width: 2, Height: 2, Connections: []mapdata.Connection{
			conn(mapdata.Right, 0, b),
			conn(mapdata.Down, 0, c),
		}},
		b: {Width: 3, Height: 3, Connections: []mapdata.Connection{
			conn(mapdata.Down, 1, c),
			conn(mapdata.Left, 0, a),
		}},
		c: {Width: 1, Height: 1},
	}}

	r, err := Resolve(g, a)
	require.NoError(t, err)
	assert.Equal(t, []Placement{
		{ID: a, X: 0, Y: 0, Width: 2, Height: 2},
		{ID: b, X: 2, Y: 0, Width: 3, Height: 3},
		{ID: c, X: 3, Y: 3, Width: 1, Height: 1},
	}, r.Placements)
}

func TestResolveSoftFailures(t *testing.T) {
	g := &graph{nodes: map[mapdata.ID]Node{
		a: {Width: 2, Height: 2, Connections: []mapdata.Connection{
			conn(mapdata.Direction(5), 0, b),
			conn(mapdata.Down, 0, d),
			conn(mapdata.Right, 0, c),
		}},
		b: {Width: 1, Height: 1},
		c: {Width: 1, Height: 1},
	}}

	r, err := Resolve(g, a)
	require.NoError(t, err)
	assert.Equal(t, []Placement{
		{ID: a, Width: 2, Height: 2},
		{ID: c, X: 2, Width: 1, Height: 1},
	}, r.Placements)

	require.Len(t, r.Skipped, 2)
	assert.Equal(t, b, r.Skipped[0].ID)
	assert.ErrorIs(t, r.Skipped[0].Err, ErrUnsupportedDirection)
	assert.Equal(t, 0, g.calls[b])
	assert.Equal(t, d, r.Skipped[1].ID)
	assert.Equal(t, a, r.Skipped[1].From)
	assert.ErrorIs(t, r.Skipped[1].Err, errMissing)
}

func TestResolveRootMissing(t *testing.T) {
	_, err := Resolve(&graph{}, a)
	assert.ErrorIs(t, err, errMissing)
}

func TestBounds(t *testing.T) {
	g := GraphFunc(func(id mapdata.ID) (Node, error) {
		switch id {
		case a:
			return Node{Width: 2, Height: 3, Connections: []mapdata.Connection{conn(mapdata.Down, 0, b)}}, nil
		case b:
			return Node{Width: 2, Height: 4}, nil
		}
		return Node{}, errMissing
	})

	r, err := Resolve(g, a)
	require.NoError(t, err)
	require.Len(t, r.Placements, 2)

	// Stacked with no gap and no overlap
	assert.Equal(t, r.Placements[0].Rect().Max.Y, r.Placements[1].Rect().Min.Y)
	assert.True(t, r.Placements[0].Rect().Intersect(r.Placements[1].Rect()).Empty())
	assert.Equal(t, image.Rect(0, 0, 2, 7), r.Bounds())

	assert.Equal(t, image.Rectangle{}, Bounds(nil))
}
