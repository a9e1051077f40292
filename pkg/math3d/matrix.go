package math3d

import (
	"fmt"
	"math"
)

// VecN is a vector whose dimension is only known at run time.
type VecN []float64

// Dot returns the dot product. Both vectors must have the same length.
func (a VecN) Dot(b VecN) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("math3d: dot of length %d and %d", len(a), len(b)))
	}
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// Add returns the component-wise sum.
func (a VecN) Add(b VecN) VecN {
	if len(a) != len(b) {
		panic(fmt.Sprintf("math3d: add of length %d and %d", len(a), len(b)))
	}
	out := make(VecN, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}

// Scale returns a * s.
func (a VecN) Scale(s float64) VecN {
	out := make(VecN, len(a))
	for i := range a {
		out[i] = a[i] * s
	}
	return out
}

// Len returns the Euclidean norm.
func (a VecN) Len() float64 {
	return math.Sqrt(a.Dot(a))
}

// Embed returns a copy extended to n components, new slots set to fill.
func (a VecN) Embed(n int, fill float64) VecN {
	if n < len(a) {
		panic(fmt.Sprintf("math3d: embed length %d into %d", len(a), n))
	}
	out := make(VecN, n)
	copy(out, a)
	for i := len(a); i < n; i++ {
		out[i] = fill
	}
	return out
}

// Proj returns a copy of the first n components.
func (a VecN) Proj(n int) VecN {
	if n > len(a) {
		panic(fmt.Sprintf("math3d: project length %d onto %d", len(a), n))
	}
	out := make(VecN, n)
	copy(out, a[:n])
	return out
}

// Vec3 converts a three component vector.
func (a VecN) Vec3() Vec3 {
	if len(a) != 3 {
		panic(fmt.Sprintf("math3d: VecN of length %d is not a Vec3", len(a)))
	}
	return Vec3{a[0], a[1], a[2]}
}

// Matrix is a dense row-major matrix with a fixed shape.
type Matrix struct {
	rows, cols int
	data       []float64
}

// NewMatrix returns a zero matrix of the given shape.
func NewMatrix(rows, cols int) *Matrix {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("math3d: invalid matrix shape %dx%d", rows, cols))
	}
	return &Matrix{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// NewMatrixFrom builds a matrix from row-major values.
func NewMatrixFrom(rows, cols int, values ...float64) *Matrix {
	m := NewMatrix(rows, cols)
	if len(values) != rows*cols {
		panic(fmt.Sprintf("math3d: %d values for %dx%d matrix", len(values), rows, cols))
	}
	copy(m.data, values)
	return m
}

// IdentityN returns a rows x cols matrix with ones where row == col.
func IdentityN(rows, cols int) *Matrix {
	m := NewMatrix(rows, cols)
	for i := range min(rows, cols) {
		m.Set(i, i, 1)
	}
	return m
}

func dimError(op string, rows, cols, wantRows, wantCols int) string {
	return fmt.Sprintf("math3d: %s on %dx%d matrix, want %dx%d", op, rows, cols, wantRows, wantCols)
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

func (m *Matrix) index(row, col int) int {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("math3d: index (%d,%d) out of range for %dx%d matrix", row, col, m.rows, m.cols))
	}
	return row*m.cols + col
}

// At returns the element at (row, col).
func (m *Matrix) At(row, col int) float64 {
	return m.data[m.index(row, col)]
}

// Set assigns the element at (row, col).
func (m *Matrix) Set(row, col int, v float64) {
	m.data[m.index(row, col)] = v
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) VecN {
	m.index(i, 0)
	out := make(VecN, m.cols)
	copy(out, m.data[i*m.cols:(i+1)*m.cols])
	return out
}

// SetRow replaces row i.
func (m *Matrix) SetRow(i int, v VecN) {
	if len(v) != m.cols {
		panic(dimError("SetRow", m.rows, m.cols, m.rows, len(v)))
	}
	for j, x := range v {
		m.Set(i, j, x)
	}
}

// Col returns a copy of column j.
func (m *Matrix) Col(j int) VecN {
	out := make(VecN, m.rows)
	for i := range m.rows {
		out[i] = m.At(i, j)
	}
	return out
}

// SetCol replaces column j.
func (m *Matrix) SetCol(j int, v VecN) {
	if len(v) != m.rows {
		panic(dimError("SetCol", m.rows, m.cols, len(v), m.cols))
	}
	for i, x := range v {
		m.Set(i, j, x)
	}
}

// Mul returns the product m * b.
func (m *Matrix) Mul(b *Matrix) *Matrix {
	if m.cols != b.rows {
		panic(fmt.Sprintf("math3d: Mul of %dx%d by %dx%d matrix", m.rows, m.cols, b.rows, b.cols))
	}
	out := NewMatrix(m.rows, b.cols)
	for i := range m.rows {
		for j := range b.cols {
			var sum float64
			for k := range m.cols {
				sum += m.At(i, k) * b.At(k, j)
			}
			out.Set(i, j, sum)
		}
	}
	return out
}

// MulVec returns the product m * v.
func (m *Matrix) MulVec(v VecN) VecN {
	if len(v) != m.cols {
		panic(dimError("MulVec", m.rows, m.cols, m.rows, len(v)))
	}
	out := make(VecN, m.rows)
	for i := range m.rows {
		out[i] = m.Row(i).Dot(v)
	}
	return out
}

// Transpose returns the transposed matrix.
func (m *Matrix) Transpose() *Matrix {
	out := NewMatrix(m.cols, m.rows)
	for i := range m.rows {
		for j := range m.cols {
			out.Set(j, i, m.At(i, j))
		}
	}
	return out
}

// Div returns every element divided by s.
func (m *Matrix) Div(s float64) *Matrix {
	out := NewMatrix(m.rows, m.cols)
	for i, x := range m.data {
		out.data[i] = x / s
	}
	return out
}

func (m *Matrix) mustSquare(op string) {
	if m.rows != m.cols {
		panic(dimError(op, m.rows, m.cols, m.rows, m.rows))
	}
}

// Det returns the determinant by cofactor expansion along the first row.
func (m *Matrix) Det() float64 {
	m.mustSquare("Det")
	if m.rows == 1 {
		return m.data[0]
	}
	var det float64
	for j := range m.cols {
		det += m.At(0, j) * m.Cofactor(0, j)
	}
	return det
}

// Minor returns the matrix with the given row and column removed.
func (m *Matrix) Minor(row, col int) *Matrix {
	m.index(row, col)
	if m.rows < 2 || m.cols < 2 {
		panic(dimError("Minor", m.rows, m.cols, 2, 2))
	}
	out := NewMatrix(m.rows-1, m.cols-1)
	for i := range m.rows - 1 {
		si := i
		if i >= row {
			si++
		}
		for j := range m.cols - 1 {
			sj := j
			if j >= col {
				sj++
			}
			out.Set(i, j, m.At(si, sj))
		}
	}
	return out
}

// Cofactor returns det(Minor(row, col)) with the (-1)^(row+col) sign.
func (m *Matrix) Cofactor(row, col int) float64 {
	m.mustSquare("Cofactor")
	c := m.Minor(row, col).Det()
	if (row+col)%2 == 1 {
		return -c
	}
	return c
}

// CofactorMatrix returns the matrix whose (i, j) entry is Cofactor(i, j).
func (m *Matrix) CofactorMatrix() *Matrix {
	m.mustSquare("CofactorMatrix")
	out := NewMatrix(m.rows, m.cols)
	if m.rows == 1 {
		out.data[0] = 1
		return out
	}
	for i := range m.rows {
		for j := range m.cols {
			out.Set(i, j, m.Cofactor(i, j))
		}
	}
	return out
}

// Adjugate returns the transpose of the cofactor matrix.
func (m *Matrix) Adjugate() *Matrix {
	return m.CofactorMatrix().Transpose()
}

// InvertTranspose returns the transpose of the inverse. The determinant is
// recovered from the first cofactor row, so a singular matrix yields
// infinities or NaNs.
func (m *Matrix) InvertTranspose() *Matrix {
	c := m.CofactorMatrix()
	return c.Div(c.Row(0).Dot(m.Row(0)))
}

// Inverse returns the inverse matrix.
func (m *Matrix) Inverse() *Matrix {
	return m.InvertTranspose().Transpose()
}

// String formats the matrix one row per line.
func (m *Matrix) String() string {
	s := ""
	for i := range m.rows {
		if i > 0 {
			s += "\n"
		}
		s += fmt.Sprint([]float64(m.Row(i)))
	}
	return s
}
