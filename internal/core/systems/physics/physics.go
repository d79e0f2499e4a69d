// Package physics holds the canonical scalar math primitives used for every
// externally observable piece of simulation state.
//
// The types are plain values: copying them is always safe and no method
// mutates its receiver.
package physics

import "math"

// Vec3 is a 3D vector with one extra padding lane. W carries no meaning,
// is never serialized and is always written as zero by this package.
type Vec3 struct {
	X float32 `json:"x" yaml:"x" msgpack:"x"`
	Y float32 `json:"y" yaml:"y" msgpack:"y"`
	Z float32 `json:"z" yaml:"z" msgpack:"z"`
	W float32 `json:"-" yaml:"-" msgpack:"-"`
}

func NewVec3(x, y, z float32) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z} }

func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z} }

func (v Vec3) Scale(s float32) Vec3 { return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s} }

func (v Vec3) Dot(o Vec3) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LengthSquared() float32 { return v.Dot(v) }

func (v Vec3) Length() float32 { return float32(math.Sqrt(float64(v.LengthSquared()))) }

// Length2D ignores the vertical component.
func (v Vec3) Length2D() float32 { return float32(math.Hypot(float64(v.X), float64(v.Y))) }

// Normalize returns the unit vector pointing along v, or the zero vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

func (v Vec3) Lerp(o Vec3, t float32) Vec3 { return v.Add(o.Sub(v).Scale(t)) }

func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// Distance returns the euclidean distance between two points.
func Distance(a, b Vec3) float32 { return b.Sub(a).Length() }
