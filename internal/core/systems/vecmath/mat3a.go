package vecmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Quat is the unit quaternion used for orientation math.
type Quat = mgl32.Quat

// Mat3A is a 3x3 matrix stored as three lane-aligned columns.
type Mat3A struct {
	XAxis Vec3A
	YAxis Vec3A
	ZAxis Vec3A
}

func Mat3AIdentity() Mat3A {
	return Mat3A{
		XAxis: NewVec3A(1, 0, 0),
		YAxis: NewVec3A(0, 1, 0),
		ZAxis: NewVec3A(0, 0, 1),
	}
}

func Mat3AFromCols(x, y, z Vec3A) Mat3A { return Mat3A{XAxis: x, YAxis: y, ZAxis: z} }

// MulVec3 computes m·v.
func (m Mat3A) MulVec3(v Vec3A) Vec3A {
	return m.XAxis.Mul(v[0]).Add(m.YAxis.Mul(v[1])).Add(m.ZAxis.Mul(v[2]))
}

// TransposeMulVec3 computes mᵀ·v, which for a rotation maps world into local space.
func (m Mat3A) TransposeMulVec3(v Vec3A) Vec3A {
	return NewVec3A(m.XAxis.Dot(v), m.YAxis.Dot(v), m.ZAxis.Dot(v))
}

func (m Mat3A) Transpose() Mat3A {
	return Mat3A{
		XAxis: NewVec3A(m.XAxis[0], m.YAxis[0], m.ZAxis[0]),
		YAxis: NewVec3A(m.XAxis[1], m.YAxis[1], m.ZAxis[1]),
		ZAxis: NewVec3A(m.XAxis[2], m.YAxis[2], m.ZAxis[2]),
	}
}

// Mul returns m·o.
func (m Mat3A) Mul(o Mat3A) Mat3A {
	return Mat3A{
		XAxis: m.MulVec3(o.XAxis),
		YAxis: m.MulVec3(o.YAxis),
		ZAxis: m.MulVec3(o.ZAxis),
	}
}

// Mat3 returns the column-major mgl32 form.
func (m Mat3A) Mat3() mgl32.Mat3 {
	return mgl32.Mat3FromCols(m.XAxis.Vec3(), m.YAxis.Vec3(), m.ZAxis.Vec3())
}

// Mat3AFromQuat builds the rotation matrix of q. Each column is q applied
// to the matching basis vector.
func Mat3AFromQuat(q Quat) Mat3A {
	q = q.Normalize()
	return Mat3A{
		XAxis: fromVec3(q.Rotate(mgl32.Vec3{1, 0, 0})),
		YAxis: fromVec3(q.Rotate(mgl32.Vec3{0, 1, 0})),
		ZAxis: fromVec3(q.Rotate(mgl32.Vec3{0, 0, 1})),
	}
}

// Quat converts a pure rotation matrix into a quaternion.
func (m Mat3A) Quat() Quat {
	return mgl32.Mat4ToQuat(m.Mat3().Mat4()).Normalize()
}

// ApproxEqual compares column by column.
func (m Mat3A) ApproxEqual(o Mat3A, eps float32) bool {
	return m.XAxis.Sub(o.XAxis).Length() <= eps &&
		m.YAxis.Sub(o.YAxis).Length() <= eps &&
		m.ZAxis.Sub(o.ZAxis).Length() <= eps
}

// QuatAxisAngle returns the rotation of angle radians about a unit axis.
func QuatAxisAngle(axis Vec3A, angle float32) Quat {
	return mgl32.QuatRotate(angle, axis.Vec3())
}

// QuatAngleBetween returns the angle in radians separating two orientations.
func QuatAngleBetween(a, b Quat) float32 {
	d := math.Abs(float64(a.Dot(b)))
	if d > 1 {
		d = 1
	}
	return float32(2 * math.Acos(d))
}
