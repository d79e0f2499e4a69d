// Package convert maps the canonical scalar primitives onto their
// lane-packed counterparts and back.
//
// Every function is pure and total: nothing is validated, renormalised or
// allocated. Callers that need orthonormal rotations must supply them.
package convert

import (
	"math"

	"github.com/zeusync/carball/internal/core/systems/physics"
	"github.com/zeusync/carball/internal/core/systems/vecmath"
)

// Vec3ToA copies x, y and z into the first three lanes. The padding lane is
// written as zero whatever the input carried.
func Vec3ToA(v physics.Vec3) vecmath.Vec3A {
	return vecmath.Vec3A{v.X, v.Y, v.Z, 0}
}

// AToVec3 copies the first three lanes back; W is always zero.
func AToVec3(v vecmath.Vec3A) physics.Vec3 {
	return physics.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// RotMatToA maps forward, right and up onto the matrix columns.
func RotMatToA(m physics.RotMat) vecmath.Mat3A {
	return vecmath.Mat3A{
		XAxis: Vec3ToA(m.Forward),
		YAxis: Vec3ToA(m.Right),
		ZAxis: Vec3ToA(m.Up),
	}
}

func AToRotMat(m vecmath.Mat3A) physics.RotMat {
	return physics.RotMat{
		Forward: AToVec3(m.XAxis),
		Right:   AToVec3(m.YAxis),
		Up:      AToVec3(m.ZAxis),
	}
}

// AngleToQuat composes roll about X, then pitch about Y, then yaw about Z,
// all about the fixed world axes.
func AngleToQuat(a physics.Angle) vecmath.Quat {
	qx := vecmath.QuatAxisAngle(vecmath.NewVec3A(1, 0, 0), a.Roll)
	qy := vecmath.QuatAxisAngle(vecmath.NewVec3A(0, 1, 0), a.Pitch)
	qz := vecmath.QuatAxisAngle(vecmath.NewVec3A(0, 0, 1), a.Yaw)
	return qz.Mul(qy).Mul(qx)
}

// QuatToAngle extracts Euler angles with the convention of AngleToQuat.
// The mapping is not injective: near gimbal lock the same orientation has
// many triples and roll is reported as zero. Only the orientation is
// guaranteed to survive a round trip, not the triple.
func QuatToAngle(q vecmath.Quat) physics.Angle {
	m := vecmath.Mat3AFromQuat(q)

	sp := -float64(m.XAxis.Z())
	if sp > 1 {
		sp = 1
	} else if sp < -1 {
		sp = -1
	}
	pitch := math.Asin(sp)

	if math.Abs(sp) > 1-1e-6 {
		yaw := math.Atan2(-float64(m.YAxis.X()), float64(m.YAxis.Y()))
		return physics.Angle{Pitch: float32(pitch), Yaw: float32(yaw)}
	}
	return physics.Angle{
		Pitch: float32(pitch),
		Yaw:   float32(math.Atan2(float64(m.XAxis.Y()), float64(m.XAxis.X()))),
		Roll:  float32(math.Atan2(float64(m.YAxis.Z()), float64(m.ZAxis.Z()))),
	}
}

// AngleToMat3A goes straight from Euler angles to a lane-packed rotation.
func AngleToMat3A(a physics.Angle) vecmath.Mat3A {
	return vecmath.Mat3AFromQuat(AngleToQuat(a))
}

// RotMatToQuat converts a canonical rotation to a quaternion.
func RotMatToQuat(m physics.RotMat) vecmath.Quat {
	return RotMatToA(m).Quat()
}
