// Package vecmath provides the lane-packed math primitives used for batched
// computation. Every vector occupies four float32 lanes so it can be loaded
// into a single 128-bit register; lane 3 is padding and is kept at zero by
// every operation in this package.
package vecmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vec3A is a four-lane vector whose first three lanes hold x, y and z.
type Vec3A mgl32.Vec4

func NewVec3A(x, y, z float32) Vec3A { return Vec3A{x, y, z, 0} }

// Splat fills the three semantic lanes with s.
func Splat(s float32) Vec3A { return Vec3A{s, s, s, 0} }

func (v Vec3A) X() float32 { return v[0] }
func (v Vec3A) Y() float32 { return v[1] }
func (v Vec3A) Z() float32 { return v[2] }

// Lanes exposes the raw register contents, padding included.
func (v Vec3A) Lanes() [4]float32 { return [4]float32(v) }

func (v Vec3A) Vec4() mgl32.Vec4 { return mgl32.Vec4(v) }

func (v Vec3A) Vec3() mgl32.Vec3 { return mgl32.Vec3{v[0], v[1], v[2]} }

func fromVec3(v mgl32.Vec3) Vec3A { return Vec3A{v[0], v[1], v[2], 0} }

func (v Vec3A) Add(o Vec3A) Vec3A { return Vec3A(mgl32.Vec4(v).Add(mgl32.Vec4(o))).clearPad() }

func (v Vec3A) Sub(o Vec3A) Vec3A { return Vec3A(mgl32.Vec4(v).Sub(mgl32.Vec4(o))).clearPad() }

func (v Vec3A) Mul(s float32) Vec3A { return Vec3A(mgl32.Vec4(v).Mul(s)).clearPad() }

// MulLanes multiplies lane by lane.
func (v Vec3A) MulLanes(o Vec3A) Vec3A {
	return Vec3A{v[0] * o[0], v[1] * o[1], v[2] * o[2], 0}
}

// Dot ignores the padding lane.
func (v Vec3A) Dot(o Vec3A) float32 { return v[0]*o[0] + v[1]*o[1] + v[2]*o[2] }

func (v Vec3A) Cross(o Vec3A) Vec3A { return fromVec3(v.Vec3().Cross(o.Vec3())) }

func (v Vec3A) LengthSquared() float32 { return v.Dot(v) }

func (v Vec3A) Length() float32 { return float32(math.Sqrt(float64(v.Dot(v)))) }

// Normalize returns the unit vector along v, or zero for the zero vector.
func (v Vec3A) Normalize() Vec3A {
	l := v.Length()
	if l == 0 {
		return Vec3A{}
	}
	return v.Mul(1 / l)
}

func (v Vec3A) clearPad() Vec3A {
	v[3] = 0
	return v
}
