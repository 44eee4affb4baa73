package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-raycaster/pkg/core"
)

// planeEpsilon rejects rays parallel to, grazing, or facing away from the plane
const planeEpsilon = 1e-6

// Plane is a flat surface through its pose's origin whose normal is the pose's
// local Z axis. XDim and YDim bound the plane along its local X and Y axes;
// a plane with both dimensions zero is infinite.
type Plane struct {
	pose core.Pose
	xDim float64
	yDim float64
}

// NewPlane creates a finite plane of xDim by yDim centred on the pose origin
func NewPlane(pose core.Pose, xDim, yDim float64) (*Plane, error) {
	if !(xDim > 0) || !(yDim > 0) || math.IsInf(xDim, 0) || math.IsInf(yDim, 0) {
		return nil, fmt.Errorf("plane dimensions must be positive, got %v x %v: %w", xDim, yDim, core.ErrInvalidConfig)
	}
	return &Plane{pose: pose, xDim: xDim, yDim: yDim}, nil
}

// NewInfinitePlane creates an unbounded plane
func NewInfinitePlane(pose core.Pose) *Plane {
	return &Plane{pose: pose}
}

// Pose returns the plane's placement in world space
func (p *Plane) Pose() core.Pose {
	return p.pose
}

// Normal returns the plane normal in world space
func (p *Plane) Normal() core.Vec3 {
	return p.pose.AxisZ()
}

// Dimensions returns the plane extent along its local X and Y axes
func (p *Plane) Dimensions() (xDim, yDim float64) {
	return p.xDim, p.yDim
}

// IsInfinite reports whether the plane has no extent limits
func (p *Plane) IsInfinite() bool {
	return p.xDim == 0 && p.yDim == 0
}

// RayCast intersects the ray with the front side of the plane
func (p *Plane) RayCast(ray core.Ray) (*core.RayHit, bool) {
	direction := ray.Direction.Normalize()
	if direction.LengthSquared() == 0 {
		return nil, false
	}
	ray = core.NewRay(ray.Origin, direction)

	n := p.Normal()
	facing := n.Negate()

	denom := ray.Direction.Dot(facing)
	if denom < planeEpsilon {
		return nil, false
	}

	t := p.pose.Translation.Subtract(ray.Origin).Dot(facing) / denom
	if t < 0 {
		return nil, false
	}

	hitPoint := ray.At(t)
	if !p.IsInfinite() && !p.contains(hitPoint) {
		return nil, false
	}

	return &core.RayHit{
		Near:   hitPoint,
		Far:    hitPoint,
		Normal: n,
	}, true
}

// contains checks a point on the plane against the extent in the local frame
func (p *Plane) contains(point core.Vec3) bool {
	local := p.pose.Inverse().TransformPoint(point)
	return math.Abs(local.X) <= p.xDim/2 && math.Abs(local.Y) <= p.yDim/2
}

func (p *Plane) String() string {
	if p.IsInfinite() {
		return fmt.Sprintf("[Pose %v, Normal: %v, Infinite]", p.pose.Translation, p.Normal())
	}
	return fmt.Sprintf("[Pose %v, Normal: %v, Size: (%g x %g)]", p.pose.Translation, p.Normal(), p.xDim, p.yDim)
}
