package geometry

import (
	"fmt"
	"image"
	"math"

	"github.com/df07/go-raycaster/pkg/core"
)

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	RootPose   core.Pose  // World-to-view transform applied before projection
	Projection Projection // Orthographic or perspective
	Width      int        // Image width in pixels
	Height     int        // Image height in pixels
}

// Camera converts between pixel coordinates and world-space rays and points
type Camera struct {
	rootPose    core.Pose
	viewToWorld core.Pose
	projection  Projection
	width       int
	height      int
}

// NewCamera creates a camera, validating the image size
func NewCamera(config CameraConfig) (*Camera, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("image size must be positive, got %dx%d: %w", config.Width, config.Height, core.ErrInvalidConfig)
	}
	if config.Projection == nil {
		return nil, fmt.Errorf("camera needs a projection: %w", core.ErrInvalidConfig)
	}
	return &Camera{
		rootPose:    config.RootPose,
		viewToWorld: config.RootPose.Inverse(),
		projection:  config.Projection,
		width:       config.Width,
		height:      config.Height,
	}, nil
}

// Width returns the image width in pixels
func (c *Camera) Width() int { return c.width }

// Height returns the image height in pixels
func (c *Camera) Height() int { return c.height }

// Projection returns the active projection
func (c *Camera) Projection() Projection { return c.projection }

// RootPose returns the world-to-view transform
func (c *Camera) RootPose() core.Pose { return c.rootPose }

// Unproject returns the world-space ray through pixel (x, y). The origin lies
// on the near plane and the direction is unit length.
func (c *Camera) Unproject(x, y int) core.Ray {
	halfW := float64(c.width) / 2
	halfH := float64(c.height) / 2
	ndcX := (float64(x) - halfW) / halfW
	ndcY := (float64(y) - halfH) / halfH

	nearView := c.projection.Unproject(core.NewVec3(ndcX, ndcY, -1))
	farView := c.projection.Unproject(core.NewVec3(ndcX, ndcY, 1))
	direction := farView.Subtract(nearView).Normalize()

	return core.NewRay(
		c.viewToWorld.TransformPoint(nearView),
		c.viewToWorld.TransformVector(direction).Normalize(),
	)
}

// Project returns the pixel a world-space point lands on. The result may be
// outside the image.
func (c *Camera) Project(point core.Vec3) image.Point {
	ndc := c.projection.Project(c.rootPose.TransformPoint(point))
	px := (ndc.X + 1) / 2 * float64(c.width)
	py := (ndc.Y + 1) / 2 * float64(c.height)
	return image.Pt(int(math.Round(px)), int(math.Round(py)))
}

// InBounds reports whether p addresses a pixel inside the image
func (c *Camera) InBounds(p image.Point) bool {
	return p.X >= 0 && p.X < c.width && p.Y >= 0 && p.Y < c.height
}
