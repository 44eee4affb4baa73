package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose is a rigid transform (rotation followed by translation, no scale)
// placing an object or camera in world space. The zero value is the identity.
type Pose struct {
	Rotation    mgl64.Quat
	Translation Vec3
}

// IdentityPose returns the pose that leaves every point where it is
func IdentityPose() Pose {
	return Pose{Rotation: mgl64.QuatIdent()}
}

// NewPose creates a pose from a rotation and a translation
func NewPose(rotation mgl64.Quat, translation Vec3) Pose {
	return Pose{Rotation: rotation.Normalize(), Translation: translation}
}

// Translation returns a pure translation pose
func Translation(x, y, z float64) Pose {
	return Pose{Rotation: mgl64.QuatIdent(), Translation: NewVec3(x, y, z)}
}

// RotationAxisAngle returns a pure rotation of angle radians about axis
func RotationAxisAngle(axis Vec3, angle float64) Pose {
	return Pose{Rotation: mgl64.QuatRotate(angle, axis.Normalize().mgl())}
}

// FaceTowards returns a pose located at eye whose local +Z axis points at target.
// up must not be parallel to target-eye.
func FaceTowards(eye, target, up Vec3) Pose {
	zAxis := target.Subtract(eye).Normalize()
	xAxis := up.Cross(zAxis).Normalize()
	yAxis := zAxis.Cross(xAxis)

	basis := mgl64.Mat3FromCols(xAxis.mgl(), yAxis.mgl(), zAxis.mgl())
	return Pose{
		Rotation:    mgl64.Mat4ToQuat(basis.Mat4()).Normalize(),
		Translation: eye,
	}
}

// LookAt returns the world-to-view transform of a right-handed camera at eye
// looking at target. In view space the camera looks down -Z.
func LookAt(eye, target, up Vec3) Pose {
	behind := eye.Add(eye.Subtract(target))
	return FaceTowards(eye, behind, up).Inverse()
}

func (p Pose) rotation() mgl64.Quat {
	if p.Rotation == (mgl64.Quat{}) {
		return mgl64.QuatIdent()
	}
	return p.Rotation
}

// TransformPoint applies rotation then translation
func (p Pose) TransformPoint(point Vec3) Vec3 {
	return fromMgl(p.rotation().Rotate(point.mgl())).Add(p.Translation)
}

// TransformVector applies only the rotation
func (p Pose) TransformVector(v Vec3) Vec3 {
	return fromMgl(p.rotation().Rotate(v.mgl()))
}

// Mul composes two poses: p.Mul(q) applies q first, then p
func (p Pose) Mul(q Pose) Pose {
	return Pose{
		Rotation:    p.rotation().Mul(q.rotation()).Normalize(),
		Translation: p.TransformPoint(q.Translation),
	}
}

// Inverse returns the pose that undoes p
func (p Pose) Inverse() Pose {
	inv := p.rotation().Inverse()
	return Pose{
		Rotation:    inv,
		Translation: fromMgl(inv.Rotate(p.Translation.Negate().mgl())),
	}
}

// Position is the world location of the pose origin
func (p Pose) Position() Vec3 {
	return p.Translation
}

// AxisZ is the pose's local Z axis expressed in world space
func (p Pose) AxisZ() Vec3 {
	return p.TransformVector(NewVec3(0, 0, 1)).Normalize()
}

func (p Pose) String() string {
	q := p.rotation()
	return fmt.Sprintf("[Translation %v, Rotation (%g; %g, %g, %g)]",
		p.Translation, q.W, q.V[0], q.V[1], q.V[2])
}
