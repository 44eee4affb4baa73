package scene

import (
	"fmt"
	"image/color"
	"math"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/lights"
)

// DefaultBackground is the colour of pixels whose ray hits nothing
var DefaultBackground = color.RGBA{R: 0, G: 150, B: 200, A: 255}

// Preset bundles a scene with the camera and background it is meant to be viewed with
type Preset struct {
	Scene      *Scene
	Camera     geometry.CameraConfig
	Background color.RGBA
}

// WithSize returns a copy of the preset rendered at width x height. A
// perspective projection is rebuilt so its aspect ratio follows the image.
func (p Preset) WithSize(width, height int) (Preset, error) {
	if width <= 0 || height <= 0 {
		return p, fmt.Errorf("image size must be positive, got %dx%d: %w", width, height, core.ErrInvalidConfig)
	}
	p.Camera.Width = width
	p.Camera.Height = height
	if persp, ok := p.Camera.Projection.(*geometry.Perspective); ok {
		resized, err := geometry.NewPerspective(float64(width)/float64(height), persp.FovY, persp.Near, persp.Far)
		if err != nil {
			return p, err
		}
		p.Camera.Projection = resized
	}
	return p, nil
}

// NewSphereScene is a unit sphere ten units in front of the camera, lit from
// the upper right, seen through an orthographic cube of half-size 3.
func NewSphereScene(logger core.Logger) Preset {
	target := core.Translation(0, 0, -10)

	s := NewScene(logger)
	s.AddShape("sphere", mustSphere(target, 1))
	s.AddLight("light", lights.NewPointLight(target.Mul(core.Translation(2, 1, 2))))

	return Preset{
		Scene: s,
		Camera: geometry.CameraConfig{
			RootPose:   core.LookAt(core.Vec3{}, target.Position(), core.NewVec3(0, 1, 0)),
			Projection: mustOrthographic(3),
			Width:      1001,
			Height:     1001,
		},
		Background: DefaultBackground,
	}
}

// NewCompositionScene places two spheres of different sizes over an infinite
// ground plane. The spheres overlap in screen space so the hit policy shows.
func NewCompositionScene(logger core.Logger) Preset {
	s := NewScene(logger)
	s.AddShape("ground", geometry.NewInfinitePlane(groundPose(-1)))
	s.AddShape("left", mustSphere(core.Translation(-0.8, 0, -9), 0.8))
	s.AddShape("right", mustSphere(core.Translation(0.6, 0.4, -11), 1.2))
	s.AddLight("key", lights.NewPointLight(core.Translation(-3, 4, -5)))
	s.AddLight("fill", lights.NewPointLight(core.Translation(4, 1, -6)))

	return Preset{
		Scene: s,
		Camera: geometry.CameraConfig{
			RootPose:   core.LookAt(core.NewVec3(0, 1, 0), core.NewVec3(0, 0, -10), core.NewVec3(0, 1, 0)),
			Projection: mustPerspective(16.0/9.0, math.Pi/6, 0.1, 100),
			Width:      800,
			Height:     450,
		},
		Background: DefaultBackground,
	}
}

// NewPlaneScene is a sphere resting on a finite 4x4 ground plane, viewed from above at an angle
func NewPlaneScene(logger core.Logger) Preset {
	s := NewScene(logger)
	floorPose := groundPose(-1)
	floorPose.Translation = core.NewVec3(0, -1, -8)
	floor, err := geometry.NewPlane(floorPose, 4, 4)
	if err != nil {
		panic(err)
	}
	s.AddShape("floor", floor)
	s.AddShape("ball", mustSphere(core.Translation(0, 0, -8), 1))
	s.AddLight("sun", lights.NewPointLight(core.Translation(2, 5, -6)))

	return Preset{
		Scene: s,
		Camera: geometry.CameraConfig{
			RootPose:   core.LookAt(core.NewVec3(0, 3, -2), core.NewVec3(0, -0.5, -8), core.NewVec3(0, 1, 0)),
			Projection: mustPerspective(1, math.Pi/4, 0.1, 100),
			Width:      600,
			Height:     600,
		},
		Background: DefaultBackground,
	}
}

// groundPose is a horizontal plane at height y whose normal points up
func groundPose(y float64) core.Pose {
	pose := core.RotationAxisAngle(core.NewVec3(1, 0, 0), -math.Pi/2)
	pose.Translation = core.NewVec3(0, y, 0)
	return pose
}

func mustSphere(pose core.Pose, radius float64) *geometry.Sphere {
	s, err := geometry.NewSphere(pose, radius)
	if err != nil {
		panic(err)
	}
	return s
}

func mustOrthographic(size float64) *geometry.Orthographic {
	o, err := geometry.NewCubeOrthographic(size)
	if err != nil {
		panic(err)
	}
	return o
}

func mustPerspective(aspect, fovY, near, far float64) *geometry.Perspective {
	p, err := geometry.NewPerspective(aspect, fovY, near, far)
	if err != nil {
		panic(err)
	}
	return p
}
