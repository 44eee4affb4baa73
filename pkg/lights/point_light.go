package lights

import (
	"fmt"

	"github.com/df07/go-raycaster/pkg/core"
)

// PointLight is an infinitesimal light. Only the translation of its pose is used.
type PointLight struct {
	pose core.Pose
}

// NewPointLight creates a point light at the pose origin
func NewPointLight(pose core.Pose) *PointLight {
	return &PointLight{pose: pose}
}

// Pose returns the light's placement in world space
func (l *PointLight) Pose() core.Pose {
	return l.pose
}

// Position returns the light position in world space
func (l *PointLight) Position() core.Vec3 {
	return l.pose.Translation
}

// DirectionFrom returns the unit vector from point toward the light
func (l *PointLight) DirectionFrom(point core.Vec3) core.Vec3 {
	return l.Position().Subtract(point).Normalize()
}

func (l *PointLight) String() string {
	return fmt.Sprintf("[PointLight %v]", l.Position())
}
