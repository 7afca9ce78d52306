package docmill

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Placeholder appearance. The image must be visibly a substitute, not a
// blank frame that could pass for a real photo.
var (
	placeholderFill    = color.RGBA{R: 0xF0, G: 0xF0, B: 0xF0, A: 0xFF}
	placeholderBorder  = color.RGBA{R: 0xCC, G: 0xCC, B: 0xCC, A: 0xFF}
	placeholderCaption = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xFF}
)

const (
	placeholderBorderWidth = 2
	placeholderText        = "Image Not Available"
)

// placeholderImage synthesizes a deterministic substitute image: flat fill,
// visible border, centered caption. No network, no disk, no randomness.
// Non-positive dimensions fall back to DefaultPlaceholderSize.
func placeholderImage(size ImageSize) []byte {
	w, h := size.Width, size.Height
	if w <= 0 || h <= 0 {
		w, h = DefaultPlaceholderSize.Width, DefaultPlaceholderSize.Height
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < placeholderBorderWidth || y < placeholderBorderWidth ||
				x >= w-placeholderBorderWidth || y >= h-placeholderBorderWidth {
				img.Set(x, y, placeholderBorder)
			} else {
				img.Set(x, y, placeholderFill)
			}
		}
	}

	drawCenteredCaption(img, w, h)

	var buf bytes.Buffer
	_ = png.Encode(&buf, img) // writes to bytes.Buffer cannot fail
	return buf.Bytes()
}

// drawCenteredCaption draws the caption text centered on the canvas.
// Skipped when the canvas is too small to hold it.
func drawCenteredCaption(img *image.RGBA, w, h int) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(placeholderCaption),
		Face: face,
	}

	width := d.MeasureString(placeholderText)
	x := (fixed.I(w) - width) / 2
	if x < fixed.I(placeholderBorderWidth) {
		return
	}

	d.Dot = fixed.Point26_6{X: x, Y: fixed.I((h + face.Ascent) / 2)}
	d.DrawString(placeholderText)
}
