package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
)

// Scene interface to avoid circular imports
type Scene interface {
	RayCastNamed(ray core.Ray) (string, *core.RayHit, bool)
	Shade(hit *core.RayHit) color.RGBA
}

// Raytracer turns pixels into colours: unproject, cast against the scene, shade
type Raytracer struct {
	scene      Scene
	camera     *geometry.Camera
	background color.RGBA
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, camera *geometry.Camera, background color.RGBA) *Raytracer {
	return &Raytracer{
		scene:      scene,
		camera:     camera,
		background: background,
	}
}

// Camera returns the camera rays are generated from
func (rt *Raytracer) Camera() *geometry.Camera {
	return rt.camera
}

// ColorAt returns the colour of pixel (x, y). Pixels whose ray misses every
// shape get the background colour.
func (rt *Raytracer) ColorAt(x, y int) color.RGBA {
	c, _, _ := rt.samplePixel(x, y)
	return c
}

func (rt *Raytracer) samplePixel(x, y int) (color.RGBA, string, bool) {
	ray := rt.camera.Unproject(x, y)
	name, hit, isHit := rt.scene.RayCastNamed(ray)
	if !isHit {
		return rt.background, "", false
	}
	return rt.scene.Shade(hit), name, true
}

// PixelInfo describes what a single pixel sees
type PixelInfo struct {
	X, Y  int
	Ray   core.Ray
	Shape string       // Empty on a miss
	Hit   *core.RayHit // Nil on a miss
	Color color.RGBA
}

// Inspect traces one pixel and reports the ray, the shape it hit and the resulting colour
func (rt *Raytracer) Inspect(x, y int) (PixelInfo, error) {
	if !rt.camera.InBounds(image.Pt(x, y)) {
		return PixelInfo{}, fmt.Errorf("pixel (%d, %d) outside %dx%d image", x, y, rt.camera.Width(), rt.camera.Height())
	}

	ray := rt.camera.Unproject(x, y)
	info := PixelInfo{X: x, Y: y, Ray: ray, Color: rt.background}
	if name, hit, ok := rt.scene.RayCastNamed(ray); ok {
		info.Shape = name
		info.Hit = hit
		info.Color = rt.scene.Shade(hit)
	}
	return info, nil
}

// RenderBounds renders the image-space rectangle bounds into canvas. Bounds
// use top-down rows so they line up with the encoded image.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, canvas *Canvas) RenderStats {
	stats := NewRenderStats()

	for row := bounds.Min.Y; row < bounds.Max.Y; row++ {
		y := canvas.imageRow(row)
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c, name, isHit := rt.samplePixel(x, y)
			canvas.SetPixelUnchecked(x, y, c)
			stats.addPixel(name, isHit)
		}
	}

	return stats
}
