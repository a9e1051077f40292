package math3d

import (
	"fmt"
	"math"
)

// Mat4 is a 4x4 matrix stored in column-major order.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
//
// For an affine transform the first three columns are the basis vectors and
// the last column is the translation.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m.SetCol(3, v.Embed4(1))
	return m
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	}
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s float64) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX creates a rotation matrix around the X axis.
func RotateX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Rotate creates a right-handed rotation around an arbitrary axis.
func Rotate(axis Vec3, angle float64) Mat4 {
	axis = axis.Normalize()
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec4 transforms a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulVec3 transforms a Vec3 as a point (w=1) and divides by the resulting w.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(v.Embed4(1)).PerspectiveDivide()
}

// MulVec3Dir transforms a Vec3 as a direction (w=0, no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return m.MulVec4(v.Embed4(0)).Proj3()
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for row := range 4 {
		t.SetCol(row, m.Row(row))
	}
	return t
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[mat4Index(row, col)]
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	m[mat4Index(row, col)] = val
}

func mat4Index(row, col int) int {
	if row < 0 || row >= 4 || col < 0 || col >= 4 {
		panic(fmt.Sprintf("math3d: index (%d,%d) out of range for 4x4 matrix", row, col))
	}
	return row + col*4
}

// Row returns row i.
func (m Mat4) Row(i int) Vec4 {
	return Vec4{m[i], m[i+4], m[i+8], m[i+12]}
}

// Col returns column j.
func (m Mat4) Col(j int) Vec4 {
	return Vec4{m[j*4], m[j*4+1], m[j*4+2], m[j*4+3]}
}

// SetCol replaces column j.
func (m *Mat4) SetCol(j int, v Vec4) {
	for i := range 4 {
		m[i+j*4] = v.At(i)
	}
}

// Determinant returns the determinant by cofactor expansion.
func (m Mat4) Determinant() float64 {
	return m.Matrix().Det()
}

// Inverse returns the inverse of the matrix.
// Returns identity if the matrix is singular (det=0).
func (m Mat4) Inverse() Mat4 {
	if m.Determinant() == 0 {
		return Identity()
	}
	return Mat4FromMatrix(m.Matrix().Inverse())
}

// InvertTranspose returns the inverse transpose, the matrix that carries
// surface normals through m.
func (m Mat4) InvertTranspose() Mat4 {
	if m.Determinant() == 0 {
		return Identity()
	}
	return Mat4FromMatrix(m.Matrix().InvertTranspose())
}

// Matrix converts to the runtime-sized representation.
func (m Mat4) Matrix() *Matrix {
	out := NewMatrix(4, 4)
	for row := range 4 {
		for col := range 4 {
			out.Set(row, col, m.Get(row, col))
		}
	}
	return out
}

// Mat4FromMatrix converts a 4x4 Matrix. It panics on any other shape.
func Mat4FromMatrix(a *Matrix) Mat4 {
	if a.Rows() != 4 || a.Cols() != 4 {
		panic(dimError("Mat4FromMatrix", a.Rows(), a.Cols(), 4, 4))
	}
	var m Mat4
	for row := range 4 {
		for col := range 4 {
			m.Set(row, col, a.At(row, col))
		}
	}
	return m
}
