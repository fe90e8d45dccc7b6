package pokemap

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

var (
	labelShadow = image.NewUniform(color.RGBA{0, 0, 0, 255})
	labelText   = image.NewUniform(color.RGBA{255, 255, 0, 255})
)

func drawLabel(dst draw.Image, s string, x, y int) {
	face := inconsolata.Regular8x16
	baseline := face.Metrics().Ascent.Ceil()

	for _, d := range []struct {
		src    image.Image
		offset int
	}{
		{labelShadow, 1},
		{labelText, 0},
	} {
		fd := font.Drawer{
			Dst:  dst,
			Src:  d.src,
			Face: face,
			Dot:  fixed.P(x+2+d.offset, y+baseline+d.offset),
		}
		fd.DrawString(s)
	}
}
