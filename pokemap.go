/*
Package pokemap is a library for rendering the overworld maps stored in a
Pokémon FireRed cartridge image.

Maps are grouped into banks and link to their neighbours with connections so
a whole area can be stitched together from any one of its maps.
*/
package pokemap

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/bodgit/pokemap/mapdata"
	"github.com/bodgit/pokemap/rom"
	"github.com/bodgit/pokemap/tileset"
)

// Layout constants of the supported cartridge
const (
	DefaultBankTable  = 0x3526a8
	DefaultLabelTable = 0x3f1cac
	DefaultLabelBias  = 0x58
	DefaultGameCode   = "BPRE"
)

var errNoMap = errors.New("pokemap: no such map")

// Config holds the location of the tables in the image and rendering options
type Config struct {
	BankTable  int
	LabelTable int
	LabelBias  int
	GameCode   string

	// Labels draws each map's name over its top-left corner
	Labels bool
}

// DefaultConfig returns the Config for the supported cartridge
func DefaultConfig() Config {
	return Config{
		BankTable:  DefaultBankTable,
		LabelTable: DefaultLabelTable,
		LabelBias:  DefaultLabelBias,
		GameCode:   DefaultGameCode,
	}
}

type Pokemap struct {
	img    *rom.Image
	config Config
	codec  tileset.Decompressor
	logger *log.Logger
	banks  rom.Banks
}

// New indexes the banks of img. The tile bitmaps are expanded with codec.
func New(img *rom.Image, config Config, codec tileset.Decompressor, logger *log.Logger) (*Pokemap, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	if h, err := img.ReadHeader(); err != nil {
		logger.Printf("Unable to read cartridge header: %v\n", err)
	} else {
		logger.Printf("Cartridge \"%s\", code \"%s\", CRC \"%s\"\n", h.Title, h.Code, h.CRC)
		if config.GameCode != "" && h.Code != config.GameCode {
			logger.Printf("Game code \"%s\" doesn't match \"%s\", table locations are probably wrong\n", h.Code, config.GameCode)
		}
	}

	banks, err := img.LoadBanks(config.BankTable)
	if err != nil {
		return nil, fmt.Errorf("pokemap: bank table at %#x: %w", config.BankTable, err)
	}
	logger.Printf("Found %d banks with %d maps\n", len(banks), banks.Maps())

	return &Pokemap{
		img:    img,
		config: config,
		codec:  codec,
		logger: logger,
		banks:  banks,
	}, nil
}

// Banks returns the map header offsets of every bank
func (p *Pokemap) Banks() rom.Banks {
	return p.banks
}

// IDs returns every map in bank order
func (p *Pokemap) IDs() []mapdata.ID {
	ids := make([]mapdata.ID, 0, p.banks.Maps())
	for i, maps := range p.banks {
		for j := range maps {
			ids = append(ids, mapdata.ID{Bank: i, Map: j})
		}
	}
	return ids
}

// Header returns the offset of the map header for id
func (p *Pokemap) Header(id mapdata.ID) (int, error) {
	if id.Bank < 0 || id.Bank >= len(p.banks) || id.Map < 0 || id.Map >= len(p.banks[id.Bank]) {
		return 0, fmt.Errorf("%w: %s", errNoMap, id)
	}
	return p.banks[id.Bank][id.Map], nil
}

// Map decodes the map header for id
func (p *Pokemap) Map(id mapdata.ID) (*mapdata.Map, error) {
	header, err := p.Header(id)
	if err != nil {
		return nil, err
	}
	return mapdata.Decode(p.img, header)
}

// Name returns the display name of m
func (p *Pokemap) Name(m *mapdata.Map) (string, error) {
	return mapdata.Name(p.img, p.config.LabelTable, p.config.LabelBias, m.Label)
}

// Tileset decodes the tileset at off
func (p *Pokemap) Tileset(off int) (*tileset.Tileset, error) {
	return tileset.Decode(p.img, off, p.codec)
}
