package core

import "fmt"

// Ray represents a ray with an origin and direction
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

func (r Ray) String() string {
	return fmt.Sprintf("[ Origin %v, Direction: %v ]", r.Origin, r.Direction)
}

// RayHit describes where a ray enters and leaves a surface.
// For single-intersection surfaces Far equals Near.
type RayHit struct {
	Near   Vec3 // Entry point along the ray
	Far    Vec3 // Exit point along the ray
	Normal Vec3 // Unit outward normal at Near
}

func (h RayHit) String() string {
	return fmt.Sprintf("Normal: %v\n  Near: %v\n   Far: %v", h.Normal, h.Near, h.Far)
}
