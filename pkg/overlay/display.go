package overlay

import (
	"image/color"

	"tinygo.org/x/drivers"
)

var _ drivers.Displayer = (*display)(nil)

// display adapts a Y-up Target to the top-down drivers.Displayer tinyfont draws on
type display struct {
	target Target
}

func (d *display) Size() (x, y int16) {
	return int16(d.target.Width()), int16(d.target.Height())
}

func (d *display) SetPixel(x, y int16, c color.RGBA) {
	d.target.SetPixel(int(x), d.target.Height()-1-int(y), c)
}

func (d *display) Display() error {
	return nil
}
