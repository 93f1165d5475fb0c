// Package geometry provides the fixed-size 3D vector and 3x3 matrix types
// that every other package in this module builds on: positions, velocities,
// cell vectors, and the lattice matrix are all geometry.Vector3D/Matrix3D.
//
// Vector3D and Matrix3D are plain value types (arrays, not slices), so
// element-wise equality is bitwise and copies are cheap, keeping these
// hot-path types off the heap.
package geometry

import "math"

// Vector3D is a 3-component double-precision vector.
type Vector3D [3]float64

// NewVector3D builds a Vector3D from three components.
func NewVector3D(x, y, z float64) Vector3D { return Vector3D{x, y, z} }

// Zero3D is the additive identity.
var Zero3D = Vector3D{0, 0, 0}

func (v Vector3D) Add(o Vector3D) Vector3D { return Vector3D{v[0] + o[0], v[1] + o[1], v[2] + o[2]} }
func (v Vector3D) Sub(o Vector3D) Vector3D { return Vector3D{v[0] - o[0], v[1] - o[1], v[2] - o[2]} }
func (v Vector3D) Scale(s float64) Vector3D { return Vector3D{v[0] * s, v[1] * s, v[2] * s} }
func (v Vector3D) Neg() Vector3D            { return v.Scale(-1) }

// Dot returns the scalar (inner) product of v and o.
func (v Vector3D) Dot(o Vector3D) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Cross returns the vector (cross) product v x o.
func (v Vector3D) Cross(o Vector3D) Vector3D {
	return Vector3D{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Norm returns the Euclidean length of v.
func (v Vector3D) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Norm2 returns the squared Euclidean length of v (avoids a sqrt).
func (v Vector3D) Norm2() float64 { return v.Dot(v) }

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged rather than producing NaN.
func (v Vector3D) Normalize() Vector3D {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// Round returns v with every component rounded to the nearest integer.
func (v Vector3D) Round() Vector3D {
	return Vector3D{math.Round(v[0]), math.Round(v[1]), math.Round(v[2])}
}
