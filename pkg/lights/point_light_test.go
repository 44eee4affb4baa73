package lights

import (
	"math"
	"testing"

	"github.com/df07/go-raycaster/pkg/core"
)

func TestPointLight_PositionIgnoresRotation(t *testing.T) {
	pose := core.Translation(2, 1, -8).Mul(core.RotationAxisAngle(core.NewVec3(0, 1, 0), math.Pi/3))
	light := NewPointLight(pose)

	if light.Position() != core.NewVec3(2, 1, -8) {
		t.Errorf("Expected position (2, 1, -8), got %v", light.Position())
	}
}

func TestPointLight_DirectionFrom(t *testing.T) {
	light := NewPointLight(core.Translation(0, 10, 0))

	tests := []struct {
		name     string
		point    core.Vec3
		expected core.Vec3
	}{
		{"directly below", core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)},
		{"diagonal", core.NewVec3(10, 0, 0), core.NewVec3(-1, 1, 0).Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := light.DirectionFrom(tt.point)
			if got.Distance(tt.expected) > 1e-9 {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}
