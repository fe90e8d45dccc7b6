package pokemap

import (
	"fmt"
	"image"

	"github.com/bodgit/pokemap/layout"
	"github.com/bodgit/pokemap/mapdata"
	"github.com/bodgit/pokemap/render"
	"github.com/bodgit/pokemap/tileset"
)

// world caches everything decoded during one render. It is owned by a
// single goroutine.
type world struct {
	p        *Pokemap
	maps     map[mapdata.ID]*mapdata.Map
	tilesets map[int]*tileset.Tileset
}

func (p *Pokemap) newWorld() *world {
	return &world{
		p:        p,
		maps:     make(map[mapdata.ID]*mapdata.Map),
		tilesets: make(map[int]*tileset.Tileset),
	}
}

func (w *world) Map(id mapdata.ID) (*mapdata.Map, error) {
	if m, ok := w.maps[id]; ok {
		return m, nil
	}
	m, err := w.p.Map(id)
	if err != nil {
		return nil, err
	}
	w.maps[id] = m
	return m, nil
}

// Node implements layout.Graph
func (w *world) Node(id mapdata.ID) (layout.Node, error) {
	m, err := w.Map(id)
	if err != nil {
		return layout.Node{}, err
	}
	return layout.Node{
		Width:       m.Width,
		Height:      m.Height,
		Connections: m.Connections,
	}, nil
}

func (w *world) tileset(off int) (*tileset.Tileset, error) {
	if ts, ok := w.tilesets[off]; ok {
		return ts, nil
	}
	ts, err := w.p.Tileset(off)
	if err != nil {
		return nil, err
	}
	w.tilesets[off] = ts
	return ts, nil
}

func (w *world) set(m *mapdata.Map) (*tileset.Set, error) {
	global, err := w.tileset(m.Global)
	if err != nil {
		return nil, err
	}
	local, err := w.tileset(m.Local)
	if err != nil {
		return nil, err
	}
	return tileset.Combine(global, local), nil
}

// draw renders the map id with its top-left corner at x, y
func (w *world) draw(dst *image.RGBA, id mapdata.ID, x, y int) error {
	m, err := w.Map(id)
	if err != nil {
		return err
	}
	s, err := w.set(m)
	if err != nil {
		return err
	}
	if err := render.DrawMap(dst, m, s, x, y); err != nil {
		return fmt.Errorf("map %s: %w", id, err)
	}

	if w.p.config.Labels {
		name, err := w.p.Name(m)
		if err != nil {
			w.p.logger.Printf("No name for map %s: %v\n", id, err)
			return nil
		}
		drawLabel(dst, name, x, y)
	}

	return nil
}

// RenderMap draws a single map on its own
func (p *Pokemap) RenderMap(id mapdata.ID) (*image.RGBA, error) {
	w := p.newWorld()

	m, err := w.Map(id)
	if err != nil {
		return nil, err
	}
	return p.renderWith(w, id, m)
}

func (p *Pokemap) renderWith(w *world, id mapdata.ID, m *mapdata.Map) (*image.RGBA, error) {
	dst := image.NewRGBA(image.Rect(0, 0, m.Width*tileset.BlockWidth, m.Height*tileset.BlockHeight))
	if err := w.draw(dst, id, 0, 0); err != nil {
		return nil, err
	}
	return dst, nil
}

// Render draws root and every map connected to it. Maps that can't be
// placed or drawn are logged and left out. The layout is returned alongside
// the image, in blocks relative to root.
func (p *Pokemap) Render(root mapdata.ID) (*image.RGBA, *layout.Result, error) {
	w := p.newWorld()

	r, err := layout.Resolve(w, root)
	if err != nil {
		return nil, nil, err
	}
	for _, s := range r.Skipped {
		p.logger.Printf("Skipping map %s, reached %s from %s: %v\n", s.ID, s.Direction, s.From, s.Err)
	}

	b := r.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*tileset.BlockWidth, b.Dy()*tileset.BlockHeight))

	for _, pl := range r.Placements {
		x := (pl.X - b.Min.X) * tileset.BlockWidth
		y := (pl.Y - b.Min.Y) * tileset.BlockHeight
		if err := w.draw(dst, pl.ID, x, y); err != nil {
			p.logger.Printf("Unable to draw map %s: %v\n", pl.ID, err)
		}
	}

	return dst, r, nil
}

// RenderTileset draws every tile of the tileset at off, 16 per row, using
// palette which must be one of the tileset's own palette slots
func (p *Pokemap) RenderTileset(off, palette int) (*image.RGBA, error) {
	ts, err := p.Tileset(off)
	if err != nil {
		return nil, err
	}

	i := palette - ts.First
	if i < 0 || i >= len(ts.Palettes) {
		return nil, &render.IndexError{Kind: "palette", Index: palette, Len: ts.First + len(ts.Palettes)}
	}

	const columns = 16
	rows := (len(ts.Tiles) + columns - 1) / columns
	dst := image.NewRGBA(image.Rect(0, 0, columns*tileset.TileWidth, rows*tileset.TileHeight))
	render.DrawTiles(dst, ts.Tiles, &ts.Palettes[i], columns)

	return dst, nil
}
