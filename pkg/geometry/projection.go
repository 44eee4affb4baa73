package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// Projection maps view-space points into normalized device coordinates and back
type Projection interface {
	Project(view core.Vec3) core.Vec3
	Unproject(ndc core.Vec3) core.Vec3
	Name() string
}

// matrixProjection applies a 4x4 projection matrix with perspective divide
type matrixProjection struct {
	matrix  mgl64.Mat4
	inverse mgl64.Mat4
}

func newMatrixProjection(m mgl64.Mat4) matrixProjection {
	return matrixProjection{matrix: m, inverse: m.Inv()}
}

func (mp matrixProjection) Project(view core.Vec3) core.Vec3 {
	return homogeneous(mp.matrix.Mul4x1(mgl64.Vec4{view.X, view.Y, view.Z, 1}))
}

func (mp matrixProjection) Unproject(ndc core.Vec3) core.Vec3 {
	return homogeneous(mp.inverse.Mul4x1(mgl64.Vec4{ndc.X, ndc.Y, ndc.Z, 1}))
}

func homogeneous(v mgl64.Vec4) core.Vec3 {
	w := v[3]
	if w == 0 {
		w = 1
	}
	return core.NewVec3(v[0]/w, v[1]/w, v[2]/w)
}

// Orthographic is a box-shaped projection bounded by six planes.
// Near and far are distances along -Z in view space, as in OpenGL.
type Orthographic struct {
	matrixProjection
	Left, Right, Bottom, Top, Near, Far float64
}

// NewOrthographic creates an orthographic projection
func NewOrthographic(left, right, bottom, top, near, far float64) (*Orthographic, error) {
	if !(left < right) || !(bottom < top) || !(near < far) {
		return nil, fmt.Errorf("orthographic bounds must satisfy left<right, bottom<top, near<far (got %g,%g,%g,%g,%g,%g): %w",
			left, right, bottom, top, near, far, core.ErrInvalidConfig)
	}
	return &Orthographic{
		matrixProjection: newMatrixProjection(mgl64.Ortho(left, right, bottom, top, near, far)),
		Left:             left,
		Right:            right,
		Bottom:           bottom,
		Top:              top,
		Near:             near,
		Far:              far,
	}, nil
}

// NewCubeOrthographic creates a symmetric orthographic box of half-size size on every axis
func NewCubeOrthographic(size float64) (*Orthographic, error) {
	return NewOrthographic(-size, size, -size, size, -size, size)
}

func (o *Orthographic) Name() string { return "orthographic" }

// Perspective is a frustum projection with a vertical field of view in radians
type Perspective struct {
	matrixProjection
	Aspect, FovY, Near, Far float64
}

// NewPerspective creates a perspective projection
func NewPerspective(aspect, fovY, near, far float64) (*Perspective, error) {
	if !(aspect > 0) || !(fovY > 0) || !(fovY < math.Pi) {
		return nil, fmt.Errorf("perspective needs aspect>0 and 0<fovY<pi (got aspect=%g fovY=%g): %w",
			aspect, fovY, core.ErrInvalidConfig)
	}
	if !(near > 0) || !(near < far) {
		return nil, fmt.Errorf("perspective needs 0<near<far (got near=%g far=%g): %w", near, far, core.ErrInvalidConfig)
	}
	return &Perspective{
		matrixProjection: newMatrixProjection(mgl64.Perspective(fovY, aspect, near, far)),
		Aspect:           aspect,
		FovY:             fovY,
		Near:             near,
		Far:              far,
	}, nil
}

func (p *Perspective) Name() string { return "perspective" }
