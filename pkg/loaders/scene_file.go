// Package loaders builds scenes from JSON scene files.
package loaders

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/lights"
	"github.com/df07/go-raycaster/pkg/scene"
	"github.com/fogleman/fauxgl"
)

const (
	defaultWidth  = 400
	defaultHeight = 400
)

// Vec3 is a point or direction written as [x, y, z]
type Vec3 [3]float64

func (v Vec3) vec() core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

// CameraCfg describes where the camera sits and how it projects
type CameraCfg struct {
	Projection string  `json:"projection"`       // "orthographic" or "perspective"
	Size       float64 `json:"size,omitempty"`   // Orthographic half-size of the view cube
	FovDeg     float64 `json:"fovDeg,omitempty"` // Perspective vertical field of view
	Near       float64 `json:"near,omitempty"`
	Far        float64 `json:"far,omitempty"`
	Eye        Vec3    `json:"eye"`
	Target     Vec3    `json:"target"`
	Up         *Vec3   `json:"up,omitempty"` // Defaults to +Y
}

// ShapeCfg describes one named shape
type ShapeCfg struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"` // "sphere" or "plane"
	Position Vec3    `json:"position"`
	Radius   float64 `json:"radius,omitempty"` // sphere
	Normal   *Vec3   `json:"normal,omitempty"` // plane, defaults to +Y
	Width    float64 `json:"width,omitempty"`  // plane extent along local X, 0 = infinite
	Height   float64 `json:"height,omitempty"` // plane extent along local Y, 0 = infinite
}

// LightCfg describes one named point light
type LightCfg struct {
	Name     string `json:"name"`
	Position Vec3   `json:"position"`
}

// SceneFile is the JSON form of a scene with its camera
type SceneFile struct {
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	Group       string     `json:"group,omitempty"`
	Width       int        `json:"width,omitempty"`
	Height      int        `json:"height,omitempty"`
	Background  string     `json:"background,omitempty"` // Hex colour, "#0096c8"
	HitPolicy   string     `json:"hitPolicy,omitempty"`  // "nearest" or "farthest"
	Camera      CameraCfg  `json:"camera"`
	Shapes      []ShapeCfg `json:"shapes"`
	Lights      []LightCfg `json:"lights"`
}

// LoadSceneFile reads and builds a scene file
func LoadSceneFile(path string, logger core.Logger) (scene.Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scene.Preset{}, fmt.Errorf("failed to read scene file: %w", err)
	}
	file, err := ParseSceneFile(data)
	if err != nil {
		return scene.Preset{}, fmt.Errorf("%s: %w", path, err)
	}
	preset, err := file.Build(logger)
	if err != nil {
		return scene.Preset{}, fmt.Errorf("%s: %w", path, err)
	}
	return preset, nil
}

// ParseSceneFile decodes a scene file and fills in defaults
func ParseSceneFile(data []byte) (*SceneFile, error) {
	var file SceneFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("invalid scene file: %w", err)
	}

	if file.Width <= 0 {
		file.Width = defaultWidth
	}
	if file.Height <= 0 {
		file.Height = defaultHeight
	}
	if len(file.Shapes) == 0 {
		return nil, fmt.Errorf("scene file has no shapes: %w", core.ErrInvalidConfig)
	}
	return &file, nil
}

// Build constructs the scene, camera configuration and background
func (f *SceneFile) Build(logger core.Logger) (scene.Preset, error) {
	policy, err := scene.ParseHitPolicy(f.HitPolicy)
	if err != nil {
		return scene.Preset{}, err
	}

	background := scene.DefaultBackground
	if f.Background != "" {
		if background, err = ParseHexColor(f.Background); err != nil {
			return scene.Preset{}, err
		}
	}

	s := scene.NewScene(logger)
	s.SetHitPolicy(policy)
	for i, sc := range f.Shapes {
		if sc.Name == "" {
			return scene.Preset{}, fmt.Errorf("shape %d has no name: %w", i, core.ErrInvalidConfig)
		}
		shape, err := sc.Build()
		if err != nil {
			return scene.Preset{}, fmt.Errorf("shape %q: %w", sc.Name, err)
		}
		s.AddShape(sc.Name, shape)
	}
	for i, lc := range f.Lights {
		if lc.Name == "" {
			return scene.Preset{}, fmt.Errorf("light %d has no name: %w", i, core.ErrInvalidConfig)
		}
		p := lc.Position
		s.AddLight(lc.Name, lights.NewPointLight(core.Translation(p[0], p[1], p[2])))
	}

	cameraConfig, err := f.Camera.Build(f.Width, f.Height)
	if err != nil {
		return scene.Preset{}, fmt.Errorf("camera: %w", err)
	}

	return scene.Preset{Scene: s, Camera: cameraConfig, Background: background}, nil
}

// Build validates and constructs the runtime shape
func (sc ShapeCfg) Build() (geometry.Shape, error) {
	switch strings.ToLower(sc.Type) {
	case "sphere":
		p := sc.Position
		return geometry.NewSphere(core.Translation(p[0], p[1], p[2]), sc.Radius)
	case "plane":
		normal := core.NewVec3(0, 1, 0)
		if sc.Normal != nil {
			normal = sc.Normal.vec()
		}
		if normal.LengthSquared() == 0 {
			return nil, fmt.Errorf("plane normal must be non-zero: %w", core.ErrInvalidConfig)
		}
		pose := facing(sc.Position.vec(), normal)
		if sc.Width == 0 && sc.Height == 0 {
			return geometry.NewInfinitePlane(pose), nil
		}
		return geometry.NewPlane(pose, sc.Width, sc.Height)
	default:
		return nil, fmt.Errorf("unknown shape type %q: %w", sc.Type, core.ErrInvalidConfig)
	}
}

// facing returns a pose at position whose local +Z axis is normal
func facing(position, normal core.Vec3) core.Pose {
	up := core.NewVec3(0, 1, 0)
	if math.Abs(normal.Normalize().Dot(up)) > 0.999 {
		up = core.NewVec3(0, 0, -1)
	}
	return core.FaceTowards(position, position.Add(normal), up)
}

// Build validates and constructs the camera configuration
func (cc CameraCfg) Build(width, height int) (geometry.CameraConfig, error) {
	up := core.NewVec3(0, 1, 0)
	if cc.Up != nil {
		up = cc.Up.vec()
	}
	eye, target := cc.Eye.vec(), cc.Target.vec()
	forward := target.Subtract(eye)
	if forward.LengthSquared() == 0 {
		return geometry.CameraConfig{}, fmt.Errorf("eye and target coincide: %w", core.ErrInvalidConfig)
	}
	if forward.Normalize().Cross(up.Normalize()).LengthSquared() < 1e-12 {
		return geometry.CameraConfig{}, fmt.Errorf("up is parallel to the view direction: %w", core.ErrInvalidConfig)
	}

	var projection geometry.Projection
	var err error
	switch strings.ToLower(cc.Projection) {
	case "", "orthographic":
		size := cc.Size
		if size == 0 {
			size = 3
		}
		projection, err = geometry.NewCubeOrthographic(size)
	case "perspective":
		fov := cc.FovDeg
		if fov == 0 {
			fov = 45
		}
		near, far := cc.Near, cc.Far
		if near == 0 {
			near = 0.1
		}
		if far == 0 {
			far = 1000
		}
		projection, err = geometry.NewPerspective(float64(width)/float64(height), fov*math.Pi/180, near, far)
	default:
		err = fmt.Errorf("unknown projection %q: %w", cc.Projection, core.ErrInvalidConfig)
	}
	if err != nil {
		return geometry.CameraConfig{}, err
	}

	return geometry.CameraConfig{
		RootPose:   core.LookAt(eye, target, up),
		Projection: projection,
		Width:      width,
		Height:     height,
	}, nil
}

// ParseHexColor parses "#rgb" or "#rrggbb" into an opaque colour
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 3 && len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, core.ErrInvalidConfig)
	}
	for _, r := range hex {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, core.ErrInvalidConfig)
		}
	}

	c := fauxgl.HexColor(hex)
	return color.RGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: 255}, nil
}

func channel(v float64) uint8 {
	return uint8(math.Round(max(0, min(1, v)) * 255))
}
