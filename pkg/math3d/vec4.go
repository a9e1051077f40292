package math3d

import (
	"fmt"
	"math"
)

// Vec4 represents a 4D vector, usually a homogeneous clip-space point.
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// At returns component i (0=X .. 3=W).
func (v Vec4) At(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	case 3:
		return v.W
	}
	panic(fmt.Sprintf("math3d: Vec4 index %d out of range", i))
}

// Set assigns component i.
func (v *Vec4) Set(i int, val float64) {
	switch i {
	case 0:
		v.X = val
	case 1:
		v.Y = val
	case 2:
		v.Z = val
	case 3:
		v.W = val
	default:
		panic(fmt.Sprintf("math3d: Vec4 index %d out of range", i))
	}
}

// Proj3 drops W without dividing.
func (v Vec4) Proj3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// Proj2 keeps X and Y.
func (v Vec4) Proj2() Vec2 {
	return Vec2{v.X, v.Y}
}

// PerspectiveDivide returns X, Y and Z divided by W.
// A zero W leaves the components unchanged.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v.W == 0 {
		return v.Proj3()
	}
	return Vec3{v.X / v.W, v.Y / v.W, v.Z / v.W}
}

// Add returns the vector sum.
//
//nolint:st1016 // a+b naming convention is clearer for vector operations
func (a Vec4) Add(b Vec4) Vec4 {
	return Vec4{a.X + b.X, a.Y + b.Y, a.Z + b.Z, a.W + b.W}
}

// Sub returns the vector difference.
//
//nolint:st1016 // a-b naming convention is clearer for vector operations
func (a Vec4) Sub(b Vec4) Vec4 {
	return Vec4{a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W - b.W}
}

// Scale returns the scalar product.
func (v Vec4) Scale(s float64) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

// Div returns the scalar division.
func (v Vec4) Div(s float64) Vec4 {
	return Vec4{v.X / s, v.Y / s, v.Z / s, v.W / s}
}

// Dot returns the dot product.
//
//nolint:st1016 // a·b naming convention is clearer for vector operations
func (a Vec4) Dot(b Vec4) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

// Len returns the length.
func (v Vec4) Len() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns the unit vector.
func (v Vec4) Normalize() Vec4 {
	l := v.Len()
	if l == 0 {
		return Vec4{}
	}
	return v.Div(l)
}

// VecN converts to a runtime-sized vector.
func (v Vec4) VecN() VecN {
	return VecN{v.X, v.Y, v.Z, v.W}
}
