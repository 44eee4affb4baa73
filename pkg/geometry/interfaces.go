package geometry

import (
	"github.com/df07/go-raycaster/pkg/core"
)

// Shape interface for objects that can be hit by rays.
// RayCast returns (nil, false) when the ray does not hit the shape.
type Shape interface {
	RayCast(ray core.Ray) (*core.RayHit, bool)
	Pose() core.Pose
}
