package tileset

// Set is the combination of a map's global and local tilesets that blocks
// are drawn from
type Set struct {
	Palettes [Palettes]Palette
	Tiles    []Tile
	Blocks   []Block
}

// Combine builds the Set for a map. The global tiles are padded out to
// PrimaryTiles so local tile numbers line up, blocks are simply
// concatenated. local may be nil.
func Combine(global, local *Tileset) *Set {
	s := new(Set)

	for _, ts := range []*Tileset{global, local} {
		if ts == nil {
			continue
		}
		copy(s.Palettes[ts.First:], ts.Palettes)
	}

	if global != nil {
		s.Tiles = append(s.Tiles, global.Tiles...)
		s.Blocks = append(s.Blocks, global.Blocks...)
	}
	if local != nil {
		for len(s.Tiles) < PrimaryTiles {
			s.Tiles = append(s.Tiles, Tile{})
		}
		s.Tiles = append(s.Tiles, local.Tiles...)
		s.Blocks = append(s.Blocks, local.Blocks...)
	}

	return s
}
