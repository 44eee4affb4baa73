package renderer

import (
	"image"
	"image/color"
)

// Canvas is an RGBA pixel buffer addressed with the origin at the bottom-left.
// Pixel (x, y) lives in image row Height-1-y.
type Canvas struct {
	img    *image.RGBA
	width  int
	height int
}

// NewCanvas creates a canvas filled with transparent black
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		width:  width,
		height: height,
	}
}

// Width returns the canvas width in pixels
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels
func (c *Canvas) Height() int { return c.height }

// InBounds reports whether (x, y) addresses a pixel of the canvas
func (c *Canvas) InBounds(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

// SetPixel writes one pixel. Writes outside the canvas are ignored.
func (c *Canvas) SetPixel(x, y int, col color.RGBA) {
	if !c.InBounds(x, y) {
		return
	}
	c.SetPixelUnchecked(x, y, col)
}

// SetPixelUnchecked writes one pixel without a bounds check. The caller
// guarantees (x, y) is inside the canvas.
func (c *Canvas) SetPixelUnchecked(x, y int, col color.RGBA) {
	i := c.img.PixOffset(x, c.height-1-y)
	s := c.img.Pix[i : i+4 : i+4]
	s[0], s[1], s[2], s[3] = col.R, col.G, col.B, col.A
}

// At returns the pixel at (x, y), or transparent black outside the canvas
func (c *Canvas) At(x, y int) color.RGBA {
	if !c.InBounds(x, y) {
		return color.RGBA{}
	}
	return c.img.RGBAAt(x, c.height-1-y)
}

// Fill paints every pixel with col
func (c *Canvas) Fill(col color.RGBA) {
	for i := 0; i < len(c.img.Pix); i += 4 {
		c.img.Pix[i+0] = col.R
		c.img.Pix[i+1] = col.G
		c.img.Pix[i+2] = col.B
		c.img.Pix[i+3] = col.A
	}
}

// Image returns the backing image in top-down row order. It shares memory
// with the canvas.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// imageRow converts a pixel row into the backing image row
func (c *Canvas) imageRow(y int) int {
	return c.height - 1 - y
}

// subImage copies an image-space rectangle out of the canvas
func (c *Canvas) subImage(bounds image.Rectangle) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		src := c.img.Pix[c.img.PixOffset(bounds.Min.X, y):c.img.PixOffset(bounds.Max.X, y)]
		copy(out.Pix[out.PixOffset(0, y-bounds.Min.Y):], src)
	}
	return out
}
