package common

import "math"

// Vec3 is a plain 3-component vector, matching the package convention of
// common/types.go: no interface wrapping, just data plus free functions.
type Vec3 struct {
	X, Y, Z float32
}

// Array returns the vector as a [3]float32, the form every GPU-layout
// Marshal() in this repo expects.
func (v Vec3) Array() [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}

// VecFromArray builds a Vec3 from a [3]float32.
func VecFromArray(a [3]float32) Vec3 {
	return Vec3{a[0], a[1], a[2]}
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Mul is the componentwise (Hadamard) product.
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{v.X * o.X, v.Y * o.Y, v.Z * o.Z} }

func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) LengthSq() float32 {
	return v.Dot(v)
}

func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.LengthSq())))
}

// Normalize returns a unit-length copy of v. A zero-length vector returns
// the zero vector unchanged rather than producing NaN, matching the kernel's
// NaN-avoidance discipline (spec.md §4.4 Numerics and tie-breaks).
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1.0 / l)
}

// VecLerp linearly interpolates between a and b by t in [0, 1].
func VecLerp(a, b Vec3, t float32) Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}

// VecMin returns the componentwise minimum of a and b.
func VecMin(a, b Vec3) Vec3 {
	return Vec3{minF32(a.X, b.X), minF32(a.Y, b.Y), minF32(a.Z, b.Z)}
}

// VecMax returns the componentwise maximum of a and b.
func VecMax(a, b Vec3) Vec3 {
	return Vec3{maxF32(a.X, b.X), maxF32(a.Y, b.Y), maxF32(a.Z, b.Z)}
}

func minF32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
