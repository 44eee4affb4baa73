package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-raycaster/pkg/core"
)

// Sphere represents a sphere shape centred on its pose's translation
type Sphere struct {
	pose   core.Pose
	radius float64
}

// NewSphere creates a new sphere
func NewSphere(pose core.Pose, radius float64) (*Sphere, error) {
	if !(radius > 0) || math.IsInf(radius, 0) {
		return nil, fmt.Errorf("sphere radius must be positive, got %v: %w", radius, core.ErrInvalidConfig)
	}
	return &Sphere{pose: pose, radius: radius}, nil
}

// Pose returns the sphere's placement in world space
func (s *Sphere) Pose() core.Pose {
	return s.pose
}

// Center returns the sphere centre in world space
func (s *Sphere) Center() core.Vec3 {
	return s.pose.Translation
}

// Radius returns the sphere radius
func (s *Sphere) Radius() float64 {
	return s.radius
}

// RayCast intersects the ray with the sphere using the geometric method.
// A sphere whose centre projects behind the ray origin is never hit. When the
// origin is inside the sphere the near point is clamped to the ray origin.
func (s *Sphere) RayCast(ray core.Ray) (*core.RayHit, bool) {
	direction := ray.Direction.Normalize()
	if direction.LengthSquared() == 0 {
		return nil, false
	}
	center := s.Center()

	// L = C - O
	l := center.Subtract(ray.Origin)

	// Distance along the ray to the point closest to the centre
	tca := l.Dot(direction)
	if tca < 0 {
		return nil, false
	}

	// Squared distance from the centre to that closest point
	d2 := l.Dot(l) - tca*tca
	if d2 < 0 {
		// Rounding on a ray through the centre
		d2 = 0
	}
	r2 := s.radius * s.radius
	if d2 > r2 {
		return nil, false
	}

	thc := math.Sqrt(r2 - d2)
	t0 := math.Max(tca-thc, 0)
	t1 := tca + thc

	ray = core.NewRay(ray.Origin, direction)
	near := ray.At(t0)
	return &core.RayHit{
		Near:   near,
		Far:    ray.At(t1),
		Normal: near.Subtract(center).Normalize(),
	}, true
}

func (s *Sphere) String() string {
	return fmt.Sprintf("[Pose %v, Radius: (%g)]", s.Center(), s.radius)
}
