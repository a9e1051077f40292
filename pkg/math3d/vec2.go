package math3d

import (
	"fmt"
	"math"
)

// Vec2 represents a 2D vector, typically a texture coordinate or a
// screen-space point.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// At returns component i.
func (a Vec2) At(i int) float64 {
	switch i {
	case 0:
		return a.X
	case 1:
		return a.Y
	}
	panic(fmt.Sprintf("math3d: Vec2 index %d out of range", i))
}

// Add returns the vector sum.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns the vector difference.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Scale returns the scalar product.
func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Dot returns the dot product.
func (a Vec2) Dot(b Vec2) float64 {
	return a.X*b.X + a.Y*b.Y
}

// Len returns the length.
func (a Vec2) Len() float64 {
	return math.Hypot(a.X, a.Y)
}

// Embed3 extends the vector with Z set to fill.
func (a Vec2) Embed3(fill float64) Vec3 {
	return Vec3{a.X, a.Y, fill}
}

// Vec2i is an integer pixel coordinate.
type Vec2i struct {
	X, Y int
}

// Vec2 converts the pixel coordinate to floating point.
func (p Vec2i) Vec2() Vec2 {
	return Vec2{float64(p.X), float64(p.Y)}
}
