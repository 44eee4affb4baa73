package overlay

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/lights"
	"github.com/df07/go-raycaster/pkg/scene"
)

// planeProjector drops Z and maps world units straight to pixels
type planeProjector struct{}

func (planeProjector) Project(p core.Vec3) image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

type testTarget struct {
	w, h   int
	pixels map[image.Point]color.RGBA
}

func newTestTarget(w, h int) *testTarget {
	return &testTarget{w: w, h: h, pixels: make(map[image.Point]color.RGBA)}
}

func (t *testTarget) Width() int  { return t.w }
func (t *testTarget) Height() int { return t.h }
func (t *testTarget) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= t.w || y < 0 || y >= t.h {
		return
	}
	t.pixels[image.Pt(x, y)] = c
}

type countingLogger struct{ n int }

func (l *countingLogger) Printf(string, ...interface{}) { l.n++ }

func TestDrawLine(t *testing.T) {
	tests := []struct {
		name   string
		p0, p1 core.Vec3
		want   []image.Point
	}{
		{"horizontal", core.NewVec3(1, 2, 0), core.NewVec3(4, 2, 0),
			[]image.Point{{1, 2}, {2, 2}, {3, 2}, {4, 2}}},
		{"vertical reversed", core.NewVec3(3, 5, 0), core.NewVec3(3, 2, 0),
			[]image.Point{{3, 2}, {3, 3}, {3, 4}, {3, 5}}},
		{"diagonal", core.NewVec3(0, 0, 0), core.NewVec3(3, 3, 0),
			[]image.Point{{0, 0}, {1, 1}, {2, 2}, {3, 3}}},
		{"single point", core.NewVec3(5, 5, 0), core.NewVec3(5, 5, 0),
			[]image.Point{{5, 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := newTestTarget(10, 10)
			o := New(planeProjector{}, target, nil)

			if !o.DrawLine(tt.p0, tt.p1, Red) {
				t.Fatal("DrawLine() reported nothing drawn")
			}
			if len(target.pixels) != len(tt.want) {
				t.Errorf("Drew %d pixels, want %d: %v", len(target.pixels), len(tt.want), target.pixels)
			}
			for _, p := range tt.want {
				if target.pixels[p] != Red {
					t.Errorf("Pixel %v not drawn", p)
				}
			}
		})
	}
}

func TestDrawLineSteepIsContinuous(t *testing.T) {
	target := newTestTarget(20, 20)
	o := New(planeProjector{}, target, nil)
	o.DrawLine(core.NewVec3(2, 1, 0), core.NewVec3(5, 17, 0), White)

	for y := 1; y <= 17; y++ {
		found := false
		for x := 0; x < 20; x++ {
			if _, ok := target.pixels[image.Pt(x, y)]; ok {
				found = true
			}
		}
		if !found {
			t.Errorf("Row %d has no line pixel", y)
		}
	}
}

func TestDrawLineSkipsOutsideEndpoints(t *testing.T) {
	logger := &countingLogger{}
	target := newTestTarget(10, 10)
	o := New(planeProjector{}, target, logger)

	if o.DrawLine(core.NewVec3(-1, 0, 0), core.NewVec3(5, 5, 0), Red) {
		t.Error("Line with p0 outside should be skipped")
	}
	if o.DrawLine(core.NewVec3(1, 1, 0), core.NewVec3(5, 10, 0), Red) {
		t.Error("Line with p1 outside should be skipped")
	}
	if len(target.pixels) != 0 {
		t.Errorf("Skipped lines drew %d pixels", len(target.pixels))
	}
	if logger.n != 2 {
		t.Errorf("Expected 2 log lines, got %d", logger.n)
	}
}

func TestDrawAxes(t *testing.T) {
	target := newTestTarget(20, 20)
	o := New(planeProjector{}, target, nil)
	o.DrawAxes(core.Translation(5, 5, 0), 4)

	if target.pixels[image.Pt(9, 5)] != Red {
		t.Error("X axis tip should be red")
	}
	if target.pixels[image.Pt(5, 9)] != Green {
		t.Error("Y axis tip should be green")
	}
	// Z projects onto the origin, drawn last
	if target.pixels[image.Pt(5, 5)] != Blue {
		t.Errorf("Origin = %v, want blue", target.pixels[image.Pt(5, 5)])
	}
}

func TestDrawCircle(t *testing.T) {
	target := newTestTarget(40, 40)
	o := New(planeProjector{}, target, nil)
	o.DrawCircle(core.Translation(20, 20, 0), 10)

	if len(target.pixels) == 0 {
		t.Fatal("DrawCircle() drew nothing")
	}
	for p, c := range target.pixels {
		if c != White {
			t.Errorf("Circle pixel %v has colour %v", p, c)
		}
		dx, dy := float64(p.X-20), float64(p.Y-20)
		if r2 := dx*dx + dy*dy; r2 < 81 || r2 > 121 {
			t.Errorf("Circle pixel %v is %g from the centre squared", p, r2)
		}
	}

	logger := &countingLogger{}
	edge := New(planeProjector{}, newTestTarget(40, 40), logger)
	edge.DrawCircle(core.Translation(0, 20, 0), 10)
	if logger.n == 0 {
		t.Error("Points outside the image should be logged")
	}
}

func TestDrawCube(t *testing.T) {
	target := newTestTarget(20, 20)
	o := New(planeProjector{}, target, nil)
	o.DrawCube(core.Translation(10, 10, 0), 6, Green)

	// Front and back faces project onto the same square
	for _, corner := range []image.Point{{7, 7}, {13, 7}, {13, 13}, {7, 13}} {
		if target.pixels[corner] != Green {
			t.Errorf("Corner %v not drawn", corner)
		}
	}
	if _, ok := target.pixels[image.Pt(10, 10)]; ok {
		t.Error("Cube interior should stay empty")
	}
}

func TestLabel(t *testing.T) {
	target := newTestTarget(60, 20)
	o := New(planeProjector{}, target, nil)
	o.Label(2, 5, "Hi", White)

	if len(target.pixels) == 0 {
		t.Fatal("Label() drew nothing")
	}
	for p := range target.pixels {
		// glyphs sit on the baseline and grow upward
		if p.Y < 3 {
			t.Errorf("Glyph pixel %v well below the baseline", p)
		}
	}
	if o.TextWidth("Hi") <= 0 {
		t.Error("TextWidth() should be positive")
	}
}

func TestDrawSceneAxes(t *testing.T) {
	s := scene.NewScene(nil)
	ball, err := geometry.NewSphere(core.Translation(5, 5, 0), 1)
	if err != nil {
		t.Fatalf("NewSphere: %v", err)
	}
	s.AddShape("ball", ball)
	s.AddLight("key", lights.NewPointLight(core.Translation(14, 5, 0)))

	countWhite := func(target *testTarget) int {
		n := 0
		for _, c := range target.pixels {
			if c == White {
				n++
			}
		}
		return n
	}

	target := newTestTarget(30, 30)
	New(planeProjector{}, target, nil).DrawSceneAxes(s, 2, false)
	for _, check := range []struct {
		p    image.Point
		want color.RGBA
	}{
		{image.Pt(7, 5), Red},    // ball X axis
		{image.Pt(5, 7), Green},  // ball Y axis
		{image.Pt(16, 5), Red},   // light X axis
		{image.Pt(14, 7), Green}, // light Y axis
	} {
		if got := target.pixels[check.p]; got != check.want {
			t.Errorf("Pixel %v = %v, want %v", check.p, got, check.want)
		}
	}
	if n := countWhite(target); n != 0 {
		t.Errorf("Expected no label pixels without labels, got %d", n)
	}

	labelsOnly := newTestTarget(30, 30)
	New(planeProjector{}, labelsOnly, nil).DrawSceneAxes(s, 0, true)
	if _, ok := labelsOnly.pixels[image.Pt(7, 5)]; ok {
		t.Error("Size 0 should not draw axes")
	}
	if countWhite(labelsOnly) == 0 {
		t.Error("Expected label pixels")
	}
}
