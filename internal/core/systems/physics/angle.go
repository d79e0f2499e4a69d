package physics

import "math"

// Angle is an orientation in radians. The rotation order is fixed:
// roll about world X, then pitch about world Y, then yaw about world Z.
type Angle struct {
	Pitch float32 `json:"pitch" yaml:"pitch" msgpack:"pitch"`
	Yaw   float32 `json:"yaw" yaml:"yaw" msgpack:"yaw"`
	Roll  float32 `json:"roll" yaml:"roll" msgpack:"roll"`
}

// ToRotMat builds Rz(yaw)·Ry(pitch)·Rx(roll).
func (a Angle) ToRotMat() RotMat {
	sp, cp := math.Sincos(float64(a.Pitch))
	sy, cy := math.Sincos(float64(a.Yaw))
	sr, cr := math.Sincos(float64(a.Roll))

	return RotMat{
		Forward: NewVec3(
			float32(cy*cp),
			float32(sy*cp),
			float32(-sp),
		),
		Right: NewVec3(
			float32(cy*sp*sr-sy*cr),
			float32(sy*sp*sr+cy*cr),
			float32(cp*sr),
		),
		Up: NewVec3(
			float32(cy*sp*cr+sy*sr),
			float32(sy*sp*cr-cy*sr),
			float32(cp*cr),
		),
	}
}

// Forward is a shortcut for ToRotMat().Forward.
func (a Angle) Forward() Vec3 { return a.ToRotMat().Forward }
