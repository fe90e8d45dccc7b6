package main

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/bodgit/pokemap"
	"github.com/bodgit/pokemap/catalog"
	"github.com/bodgit/pokemap/export"
	"github.com/bodgit/pokemap/lz77"
	"github.com/bodgit/pokemap/mapdata"
	"github.com/bodgit/pokemap/rom"
	"github.com/urfave/cli/v2"
)

const defaultDB = "pokemap.db"

var errNoName = errors.New("no map with that name")

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func open(c *cli.Context, logger *log.Logger) (*pokemap.Pokemap, error) {
	b, err := os.ReadFile(c.Args().First())
	if err != nil {
		return nil, err
	}

	config := pokemap.Config{
		BankTable:  c.Int("bank-table"),
		LabelTable: c.Int("label-table"),
		LabelBias:  c.Int("label-bias"),
		GameCode:   c.String("game-code"),
		Labels:     c.Bool("labels"),
	}

	return pokemap.New(rom.New(b), config, lz77.Codec{}, logger)
}

func writePNG(file string, m image.Image, colors int) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}

	if err := export.Encode(f, m, export.Options{Colors: colors}); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}

func findName(file, name string, logger *log.Logger) (mapdata.ID, error) {
	db, err := catalog.Open(file)
	if err != nil {
		return mapdata.ID{}, err
	}
	defer db.Close()

	ids, err := db.FindByName(name)
	if err != nil {
		return mapdata.ID{}, err
	}
	if len(ids) == 0 {
		return mapdata.ID{}, fmt.Errorf("%w: %q", errNoName, name)
	}
	if len(ids) > 1 {
		logger.Printf("%d maps called \"%s\", using %s\n", len(ids), name, ids[0])
	}
	return ids[0], nil
}

func main() {
	app := cli.NewApp()

	app.Name = "pokemap"
	app.Usage = "Pokémon FireRed overworld map renderer"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	dbFlag := &cli.StringFlag{
		Name:    "db",
		EnvVars: []string{"POKEMAP_DB"},
		Value:   filepath.Join(cwd, defaultDB),
		Usage:   "path to map catalog",
	}

	outputFlag := &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Value:   "out.png",
		Usage:   "write PNG to `FILE`",
	}

	colorsFlag := &cli.IntFlag{
		Name:  "colors",
		Usage: "reduce the output to at most `N` colors, 0 for truecolor",
	}

	app.Flags = []cli.Flag{
		&cli.IntFlag{
			Name:    "bank-table",
			EnvVars: []string{"POKEMAP_BANK_TABLE"},
			Value:   pokemap.DefaultBankTable,
			Usage:   "offset of the map bank table",
		},
		&cli.IntFlag{
			Name:    "label-table",
			EnvVars: []string{"POKEMAP_LABEL_TABLE"},
			Value:   pokemap.DefaultLabelTable,
			Usage:   "offset of the map name strings",
		},
		&cli.IntFlag{
			Name:    "label-bias",
			EnvVars: []string{"POKEMAP_LABEL_BIAS"},
			Value:   pokemap.DefaultLabelBias,
			Usage:   "label of the first map name",
		},
		&cli.StringFlag{
			Name:    "game-code",
			EnvVars: []string{"POKEMAP_GAME_CODE"},
			Value:   pokemap.DefaultGameCode,
			Usage:   "expected cartridge game code",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "banks",
			Usage:       "List map banks",
			Description: "",
			ArgsUsage:   "ROM",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				p, err := open(c, newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}

				for i, maps := range p.Banks() {
					fmt.Fprintf(c.App.Writer, "%d\t%d\n", i, len(maps))
				}

				return nil
			},
		},
		{
			Name:        "render",
			Usage:       "Render a map and everything connected to it",
			Description: "The map is chosen with --bank and --map, or by --name if the catalog has been built.",
			ArgsUsage:   "ROM",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "bank",
					Value: 3,
					Usage: "bank of the starting map",
				},
				&cli.IntFlag{
					Name:  "map",
					Usage: "number of the starting map within its bank",
				},
				&cli.StringFlag{
					Name:  "name",
					Usage: "look up the starting map by name",
				},
				&cli.BoolFlag{
					Name:  "single",
					Usage: "don't follow connections",
				},
				&cli.BoolFlag{
					Name:  "labels",
					Usage: "draw map names",
				},
				dbFlag,
				outputFlag,
				colorsFlag,
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				logger := newLogger(c)

				id := mapdata.ID{Bank: c.Int("bank"), Map: c.Int("map")}
				if c.IsSet("name") {
					var err error
					if id, err = findName(c.String("db"), c.String("name"), logger); err != nil {
						return cli.Exit(err, 1)
					}
				}

				p, err := open(c, logger)
				if err != nil {
					return cli.Exit(err, 1)
				}

				var m image.Image
				if c.Bool("single") {
					m, err = p.RenderMap(id)
				} else {
					var r *image.RGBA
					r, _, err = p.Render(id)
					m = r
				}
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := writePNG(c.String("output"), m, c.Int("colors")); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "tileset",
			Usage:       "Render every tile of a tileset",
			Description: "",
			ArgsUsage:   "ROM OFFSET",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "palette",
					Usage: "palette slot to draw with",
				},
				outputFlag,
				colorsFlag,
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				off, err := strconv.ParseInt(c.Args().Get(1), 0, 0)
				if err != nil {
					return cli.Exit(err, 1)
				}

				p, err := open(c, newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}

				m, err := p.RenderTileset(int(off), c.Int("palette"))
				if err != nil {
					return cli.Exit(err, 1)
				}

				if err := writePNG(c.String("output"), m, c.Int("colors")); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:        "index",
			Usage:       "Build the map catalog",
			Description: "",
			ArgsUsage:   "ROM",
			Flags: []cli.Flag{
				dbFlag,
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				p, err := open(c, newLogger(c))
				if err != nil {
					return cli.Exit(err, 1)
				}

				db, err := catalog.Open(c.String("db"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer db.Close()

				if err := p.Index(db); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
