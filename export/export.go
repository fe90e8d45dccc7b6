/*
Package export writes rendered maps out as PNG images.

Images can be written as-is or reduced to a palette. Rendered maps rarely use
more than a couple of hundred distinct colors so the palette is usually exact;
when it isn't, the colors are reduced with a median cut quantizer.
*/
package export

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/ericpauley/go-quantize/quantize"
	"golang.org/x/image/draw"
)

// MaxColors is the largest palette a PNG can hold
const MaxColors = 256

var errColors = errors.New("export: palette must have between 1 and 256 colors")

// Options control how an image is written
type Options struct {
	// Colors, if non-zero, writes a paletted image of at most this many
	// colors
	Colors int
}

func countColors(m image.Image) map[color.Color]int {
	colors := make(map[color.Color]int)
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			colors[m.At(x, y)]++
		}
	}
	return colors
}

func uniqueColors(m image.Image) color.Palette {
	h := countColors(m)
	p := make(color.Palette, 0, len(h))
	for c := range h {
		p = append(p, c)
	}
	return p
}

// Paletted converts m to an image with at most n colors
func Paletted(m image.Image, n int) (*image.Paletted, error) {
	if n < 1 || n > MaxColors {
		return nil, errColors
	}

	b := m.Bounds()

	p := uniqueColors(m)
	if len(p) > n {
		q := quantize.MedianCutQuantizer{}
		p = q.Quantize(make(color.Palette, 0, n), m)
	}

	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, m, b.Min, draw.Src)

	// Adjust image so that top-left corner is at (0, 0)
	if pm.Rect.Min != (image.Point{}) {
		dup := *pm
		dup.Rect = dup.Rect.Sub(dup.Rect.Min)
		pm = &dup
	}

	return pm, nil
}

// Encode writes m to w as a PNG
func Encode(w io.Writer, m image.Image, o Options) error {
	if o.Colors != 0 {
		pm, err := Paletted(m, o.Colors)
		if err != nil {
			return err
		}
		m = pm
	}
	return png.Encode(w, m)
}

// Thumbnail scales m to fit within size by size pixels, keeping the aspect
// ratio. Images that already fit are copied unscaled.
func Thumbnail(m image.Image, size int) *image.RGBA {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > size || h > size {
		if w >= h {
			w, h = size, max(1, h*size/w)
		} else {
			w, h = max(1, w*size/h), size
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), m, b, draw.Src, nil)
	return dst
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
