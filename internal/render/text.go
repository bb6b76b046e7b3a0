package render

import (
	"image"
	"image/color"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Overlay text goes through a software rasterizer: basicfont glyphs
// drawn into an RGBA image that DrawFrame hands to gl.DrawPixels. The
// overlay is fixed-width telemetry, so the 7x13 face is plenty.

func (c rgb) rgba() color.RGBA {
	return color.RGBA{
		R: uint8(c.r * 255),
		G: uint8(c.g * 255),
		B: uint8(c.b * 255),
		A: 255,
	}
}

// rasterizeText renders s into a tight RGBA image.
func rasterizeText(s string, c rgb) *image.RGBA {
	face := basicfont.Face7x13

	w := font.MeasureString(face, s).Ceil()
	if w < 1 {
		w = 1
	}
	h := face.Metrics().Height.Ceil()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c.rgba()),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
	return img
}
