package scene

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/geometry"
	"github.com/df07/go-raycaster/pkg/lights"
)

// HitPolicy decides which shape wins when a ray hits several
type HitPolicy int

const (
	// NearestHit picks the hit whose near point is closest to the ray origin
	NearestHit HitPolicy = iota
	// FarthestNearHit picks the hit whose near point is farthest from the ray
	// origin. It reproduces the comparator of the first version of this renderer.
	FarthestNearHit
)

func (p HitPolicy) String() string {
	switch p {
	case NearestHit:
		return "nearest"
	case FarthestNearHit:
		return "farthest"
	default:
		return fmt.Sprintf("HitPolicy(%d)", int(p))
	}
}

// ParseHitPolicy converts a policy name into a HitPolicy
func ParseHitPolicy(name string) (HitPolicy, error) {
	switch name {
	case "", "nearest":
		return NearestHit, nil
	case "farthest":
		return FarthestNearHit, nil
	default:
		return NearestHit, fmt.Errorf("unknown hit policy %q: %w", name, core.ErrInvalidConfig)
	}
}

// Scene owns named shapes and named lights. It is built before rendering and
// read-only while rays are cast, so it is safe for concurrent RayCast calls.
type Scene struct {
	shapes     map[string]geometry.Shape
	shapeOrder []string // sorted names, rebuilt on insert
	lights     map[string]lights.Light
	lightOrder []string // registration order
	policy     HitPolicy
	logger     core.Logger
}

// NewScene creates an empty scene. A nil logger discards diagnostics.
func NewScene(logger core.Logger) *Scene {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Scene{
		shapes: make(map[string]geometry.Shape),
		lights: make(map[string]lights.Light),
		policy: NearestHit,
		logger: logger,
	}
}

// SetHitPolicy selects how RayCast chooses between several hits
func (s *Scene) SetHitPolicy(policy HitPolicy) {
	s.policy = policy
}

// HitPolicy returns the active selection policy
func (s *Scene) HitPolicy() HitPolicy {
	return s.policy
}

// AddShape registers a shape under name, replacing any shape already there
func (s *Scene) AddShape(name string, shape geometry.Shape) {
	if _, exists := s.shapes[name]; exists {
		s.logger.Printf("Replacing shape %q\n", name)
	} else {
		s.shapeOrder = append(s.shapeOrder, name)
		sort.Strings(s.shapeOrder)
	}
	s.shapes[name] = shape
}

// AddLight registers a light under name, replacing any light already there.
// A replaced light keeps its registration position.
func (s *Scene) AddLight(name string, light lights.Light) {
	if _, exists := s.lights[name]; exists {
		s.logger.Printf("Replacing light %q\n", name)
	} else {
		s.lightOrder = append(s.lightOrder, name)
	}
	s.lights[name] = light
}

// Shape looks up a shape by name
func (s *Scene) Shape(name string) (geometry.Shape, bool) {
	shape, ok := s.shapes[name]
	return shape, ok
}

// Light looks up a light by name
func (s *Scene) Light(name string) (lights.Light, bool) {
	light, ok := s.lights[name]
	return light, ok
}

// ShapeNames returns the shape names in sorted order
func (s *Scene) ShapeNames() []string {
	return append([]string(nil), s.shapeOrder...)
}

// LightNames returns the light names in registration order
func (s *Scene) LightNames() []string {
	return append([]string(nil), s.lightOrder...)
}

// NamedPose is the placement of one shape or light
type NamedPose struct {
	Name string
	Pose core.Pose
}

// Poses returns the pose of every shape in sorted order, then every light in
// registration order
func (s *Scene) Poses() []NamedPose {
	poses := make([]NamedPose, 0, len(s.shapeOrder)+len(s.lightOrder))
	for _, name := range s.shapeOrder {
		poses = append(poses, NamedPose{Name: name, Pose: s.shapes[name].Pose()})
	}
	for _, name := range s.lightOrder {
		poses = append(poses, NamedPose{Name: name, Pose: s.lights[name].Pose()})
	}
	return poses
}

// RayCast returns the hit selected by the scene's policy, or (nil, false)
func (s *Scene) RayCast(ray core.Ray) (*core.RayHit, bool) {
	_, hit, ok := s.RayCastNamed(ray)
	return hit, ok
}

// RayCastNamed is RayCast that also reports which shape was hit
func (s *Scene) RayCastNamed(ray core.Ray) (string, *core.RayHit, bool) {
	var (
		bestName string
		bestHit  *core.RayHit
		bestDist float64
	)

	for _, name := range s.shapeOrder {
		hit, isHit := s.shapes[name].RayCast(ray)
		if !isHit {
			continue
		}
		dist := hit.Near.Distance(ray.Origin)
		if bestHit == nil || s.better(dist, bestDist) {
			bestName, bestHit, bestDist = name, hit, dist
		}
	}

	return bestName, bestHit, bestHit != nil
}

// better reports whether a candidate distance strictly beats the current one
func (s *Scene) better(candidate, current float64) bool {
	if s.policy == FarthestNearHit {
		return candidate > current
	}
	return candidate < current
}

// Shade returns the gray Lambertian shade of a hit lit by the first
// registered light. A scene with no lights shades everything black.
func (s *Scene) Shade(hit *core.RayHit) color.RGBA {
	if len(s.lightOrder) == 0 {
		return color.RGBA{A: 255}
	}
	c, _ := s.ShadeWith(s.lightOrder[0], hit)
	return c
}

// ShadeWith shades a hit with the named light
func (s *Scene) ShadeWith(lightName string, hit *core.RayHit) (color.RGBA, bool) {
	light, ok := s.lights[lightName]
	if !ok {
		return color.RGBA{A: 255}, false
	}
	v := Intensity(light, hit)
	return color.RGBA{R: v, G: v, B: v, A: 255}, true
}

// Intensity is 255*(n.l) clamped to [0, 255] and truncated
func Intensity(light lights.Light, hit *core.RayHit) uint8 {
	l := light.DirectionFrom(hit.Near)
	nDotL := hit.Normal.Dot(l)
	return uint8(max(0, min(255, nDotL*255)))
}
