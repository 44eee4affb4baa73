// Package overlay draws debug geometry (lines, pose axes, circles, cubes and
// text labels) on top of a rendered image.
package overlay

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/scene"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var (
	Red   = color.RGBA{R: 255, A: 255}
	Green = color.RGBA{G: 255, A: 255}
	Blue  = color.RGBA{B: 255, A: 255}
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

const circlePoints = 64

// Projector maps a world-space point to a pixel. The pixel may be outside the image.
type Projector interface {
	Project(point core.Vec3) image.Point
}

// Target is a Y-up pixel surface that ignores writes outside its bounds
type Target interface {
	Width() int
	Height() int
	SetPixel(x, y int, c color.RGBA)
}

// Overlay draws world-space debug shapes onto a target
type Overlay struct {
	projector Projector
	target    Target
	logger    core.Logger
	font      tinyfont.Fonter
}

// New creates an overlay. A nil logger discards the skipped-line messages.
func New(projector Projector, target Target, logger core.Logger) *Overlay {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Overlay{
		projector: projector,
		target:    target,
		logger:    logger,
		font:      &proggy.TinySZ8pt7b,
	}
}

func (o *Overlay) inImage(p image.Point) bool {
	return p.X >= 0 && p.X < o.target.Width() && p.Y >= 0 && p.Y < o.target.Height()
}

// DrawLine draws the segment p0-p1. The line is skipped when either endpoint
// projects outside the image. Reports whether anything was drawn.
func (o *Overlay) DrawLine(p0, p1 core.Vec3, c color.RGBA) bool {
	px0 := o.projector.Project(p0)
	px1 := o.projector.Project(p1)

	if !o.inImage(px0) {
		o.logger.Printf("Line endpoint p0 falls outside image: %v -> %v\n", p0, px0)
		return false
	}
	if !o.inImage(px1) {
		o.logger.Printf("Line endpoint p1 falls outside image: %v -> %v\n", p1, px1)
		return false
	}

	o.rasterize(px0, px1, c)
	return true
}

// rasterize walks the major axis one pixel at a time, rounding the minor axis
func (o *Overlay) rasterize(a, b image.Point, c color.RGBA) {
	x0, y0, x1, y1 := a.X, a.Y, b.X, b.Y

	steep := abs(x1-x0) < abs(y1-y0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	for x := x0; x <= x1; x++ {
		y := y0
		if x1 != x0 {
			t := float64(x-x0) / float64(x1-x0)
			y = int(math.Round(float64(y0)*(1-t) + float64(y1)*t))
		}
		if steep {
			o.target.SetPixel(y, x, c)
		} else {
			o.target.SetPixel(x, y, c)
		}
	}
}

// DrawAxes draws the local X, Y and Z axes of pose in red, green and blue
func (o *Overlay) DrawAxes(pose core.Pose, size float64) {
	origin := pose.Position()
	o.DrawLine(origin, pose.TransformPoint(core.NewVec3(size, 0, 0)), Red)
	o.DrawLine(origin, pose.TransformPoint(core.NewVec3(0, size, 0)), Green)
	o.DrawLine(origin, pose.TransformPoint(core.NewVec3(0, 0, size)), Blue)
}

// DrawCircle plots 64 white points of a circle of radius in the pose's local XY plane
func (o *Overlay) DrawCircle(pose core.Pose, radius float64) {
	for i := 0; i < circlePoints; i++ {
		angle := 2 * math.Pi * float64(i) / circlePoints
		local := core.NewVec3(radius*math.Cos(angle), radius*math.Sin(angle), 0)
		px := o.projector.Project(pose.TransformPoint(local))
		if !o.inImage(px) {
			o.logger.Printf("Circle point outside image: %v\n", px)
			continue
		}
		o.target.SetPixel(px.X, px.Y, White)
	}
}

// DrawCube draws the 12 edges of a cube of edge length size centred on pose
func (o *Overlay) DrawCube(pose core.Pose, size float64, c color.RGBA) {
	h := size / 2
	var corners [8]core.Vec3
	for i, local := range [8]core.Vec3{
		{X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h}, {X: -h, Y: -h, Z: h}, {X: h, Y: -h, Z: h},
		{X: h, Y: h, Z: -h}, {X: -h, Y: h, Z: -h}, {X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h},
	} {
		corners[i] = pose.TransformPoint(local)
	}

	for i := 0; i < 4; i++ {
		next := (i + 1) % 4
		o.DrawLine(corners[i], corners[next], c)     // front face
		o.DrawLine(corners[i+4], corners[next+4], c) // back face
		o.DrawLine(corners[i], corners[i+4], c)      // connecting edge
	}
}

// DrawSceneAxes draws the axes of every shape and light in s, followed by
// their names when labels is set. A size of 0 draws the labels only.
func (o *Overlay) DrawSceneAxes(s *scene.Scene, size float64, labels bool) {
	for _, p := range s.Poses() {
		if size > 0 {
			o.DrawAxes(p.Pose, size)
		}
		if labels {
			o.LabelPoint(p.Pose.Position(), p.Name, White)
		}
	}
}

// Label writes text with its baseline starting at pixel (x, y)
func (o *Overlay) Label(x, y int, text string, c color.RGBA) {
	d := &display{target: o.target}
	tinyfont.WriteLine(d, o.font, int16(x), int16(o.target.Height()-1-y), text, c)
}

// LabelPoint writes text next to the pixel a world-space point projects to
func (o *Overlay) LabelPoint(point core.Vec3, text string, c color.RGBA) {
	px := o.projector.Project(point)
	if !o.inImage(px) {
		return
	}
	o.Label(px.X+3, px.Y+3, text, c)
}

// TextWidth returns the width in pixels of text in the label font
func (o *Overlay) TextWidth(text string) int {
	_, w := tinyfont.LineWidth(o.font, text)
	return int(w)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
