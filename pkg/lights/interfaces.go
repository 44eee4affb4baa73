package lights

import "github.com/df07/go-raycaster/pkg/core"

// Light is anything the scene can shade against
type Light interface {
	Pose() core.Pose

	// Position is where light arrives from
	Position() core.Vec3

	// DirectionFrom returns the unit direction FROM a shading point TO the light
	DirectionFrom(point core.Vec3) core.Vec3
}
