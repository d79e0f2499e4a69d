package physics

import "math"

// RotMat is an orientation expressed as three world-space axes. The axes
// are the columns of the rotation matrix: a local vector (x, y, z) maps to
// x*Forward + y*Right + z*Up.
type RotMat struct {
	Forward Vec3 `json:"forward" yaml:"forward" msgpack:"forward"`
	Right   Vec3 `json:"right" yaml:"right" msgpack:"right"`
	Up      Vec3 `json:"up" yaml:"up" msgpack:"up"`
}

// RotMatIdentity returns the orientation aligned with the world axes.
func RotMatIdentity() RotMat {
	return RotMat{
		Forward: NewVec3(1, 0, 0),
		Right:   NewVec3(0, 1, 0),
		Up:      NewVec3(0, 0, 1),
	}
}

// Dot maps a local vector into world space.
func (m RotMat) Dot(v Vec3) Vec3 {
	return m.Forward.Scale(v.X).Add(m.Right.Scale(v.Y)).Add(m.Up.Scale(v.Z))
}

// TransposeDot maps a world vector into the local frame of m.
func (m RotMat) TransposeDot(v Vec3) Vec3 {
	return NewVec3(m.Forward.Dot(v), m.Right.Dot(v), m.Up.Dot(v))
}

func (m RotMat) Transpose() RotMat {
	return RotMat{
		Forward: NewVec3(m.Forward.X, m.Right.X, m.Up.X),
		Right:   NewVec3(m.Forward.Y, m.Right.Y, m.Up.Y),
		Up:      NewVec3(m.Forward.Z, m.Right.Z, m.Up.Z),
	}
}

// Mul returns m·o, i.e. o applied first.
func (m RotMat) Mul(o RotMat) RotMat {
	return RotMat{
		Forward: m.Dot(o.Forward),
		Right:   m.Dot(o.Right),
		Up:      m.Dot(o.Up),
	}
}

// Orthonormalize re-derives a right-handed orthonormal basis, keeping the
// direction of Forward and the plane spanned by Forward and Right.
func (m RotMat) Orthonormalize() RotMat {
	f := m.Forward.Normalize()
	if f.IsZero() {
		return RotMatIdentity()
	}
	u := f.Cross(m.Right).Normalize()
	if u.IsZero() {
		u = m.Up.Sub(f.Scale(f.Dot(m.Up))).Normalize()
		if u.IsZero() {
			return RotMatIdentity()
		}
	}
	r := u.Cross(f)
	return RotMat{Forward: f, Right: r, Up: u}
}

// IsOrthonormal reports whether the axes are unit length and mutually
// orthogonal within eps.
func (m RotMat) IsOrthonormal(eps float32) bool {
	axes := [3]Vec3{m.Forward, m.Right, m.Up}
	for i := range axes {
		if abs32(axes[i].Length()-1) > eps {
			return false
		}
		for j := i + 1; j < len(axes); j++ {
			if abs32(axes[i].Dot(axes[j])) > eps {
				return false
			}
		}
	}
	return true
}

// ApproxEqual compares two orientations axis by axis.
func (m RotMat) ApproxEqual(o RotMat, eps float32) bool {
	return m.Forward.Sub(o.Forward).Length() <= eps &&
		m.Right.Sub(o.Right).Length() <= eps &&
		m.Up.Sub(o.Up).Length() <= eps
}

// RotateAxis returns the rotation of angle radians about a unit axis.
func RotateAxis(axis Vec3, angle float32) RotMat {
	s, c := math.Sincos(float64(angle))
	x, y, z := float64(axis.X), float64(axis.Y), float64(axis.Z)
	t := 1 - c
	col := func(a, b, cc float64) Vec3 { return NewVec3(float32(a), float32(b), float32(cc)) }
	return RotMat{
		Forward: col(t*x*x+c, t*x*y+s*z, t*x*z-s*y),
		Right:   col(t*x*y-s*z, t*y*y+c, t*y*z+s*x),
		Up:      col(t*x*z+s*y, t*y*z-s*x, t*z*z+c),
	}
}

// ToAngle extracts Euler angles using the same convention as Angle.ToRotMat.
// Several triples describe the same orientation near gimbal lock; in that
// case roll is reported as zero.
func (m RotMat) ToAngle() Angle {
	sp := -float64(m.Forward.Z)
	if sp > 1 {
		sp = 1
	} else if sp < -1 {
		sp = -1
	}
	pitch := math.Asin(sp)

	if math.Abs(sp) > 1-gimbalEpsilon {
		yaw := math.Atan2(-float64(m.Right.X), float64(m.Right.Y))
		return Angle{Pitch: float32(pitch), Yaw: float32(yaw)}
	}

	roll := math.Atan2(float64(m.Right.Z), float64(m.Up.Z))
	yaw := math.Atan2(float64(m.Forward.Y), float64(m.Forward.X))
	return Angle{Pitch: float32(pitch), Yaw: float32(yaw), Roll: float32(roll)}
}

const gimbalEpsilon = 1e-6

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
