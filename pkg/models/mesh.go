// Package models loads triangle meshes and their surface maps for the
// software renderer.
package models

import (
	"math"

	"github.com/taigrr/softrender/pkg/math3d"
)

// Triangle is one mesh face. Attributes a source file does not provide are
// left as zero vectors.
type Triangle struct {
	Pos    [3]math3d.Vec3
	Normal [3]math3d.Vec3
	UV     [3]math3d.Vec2
}

// Mesh is a triangle soup. It implements render.Model.
type Mesh struct {
	Name      string
	Triangles []Triangle

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	return len(m.Triangles)
}

// Vert returns the position of corner n of face.
func (m *Mesh) Vert(face, n int) math3d.Vec3 {
	return m.Triangles[face].Pos[n]
}

// Normal returns the normal of corner n of face.
func (m *Mesh) Normal(face, n int) math3d.Vec3 {
	return m.Triangles[face].Normal[n]
}

// UV returns the texture coordinate of corner n of face.
func (m *Mesh) UV(face, n int) math3d.Vec2 {
	return m.Triangles[face].UV[n]
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Triangles) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Vec3{}, math3d.Vec3{}
		return
	}

	m.BoundsMin = m.Triangles[0].Pos[0]
	m.BoundsMax = m.Triangles[0].Pos[0]
	for _, t := range m.Triangles {
		for _, p := range t.Pos {
			m.BoundsMin = m.BoundsMin.Min(p)
			m.BoundsMax = m.BoundsMax.Max(p)
		}
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// HasNormals reports whether any corner carries a non-zero normal.
func (m *Mesh) HasNormals() bool {
	for _, t := range m.Triangles {
		for _, n := range t.Normal {
			if n.Len() > 0.001 {
				return true
			}
		}
	}
	return false
}

// CalculateNormals assigns each face its geometric normal.
func (m *Mesh) CalculateNormals() {
	for i := range m.Triangles {
		t := &m.Triangles[i]
		n := faceNormal(t).Normalize()
		t.Normal = [3]math3d.Vec3{n, n, n}
	}
}

// CalculateSmoothNormals averages face normals over corners that share a
// position. Larger faces weigh more.
func (m *Mesh) CalculateSmoothNormals() {
	acc := make(map[math3d.Vec3]math3d.Vec3)
	for i := range m.Triangles {
		n := faceNormal(&m.Triangles[i]) // Don't normalize yet
		for _, p := range m.Triangles[i].Pos {
			acc[p] = acc[p].Add(n)
		}
	}
	for i := range m.Triangles {
		t := &m.Triangles[i]
		for j, p := range t.Pos {
			t.Normal[j] = acc[p].Normalize()
		}
	}
}

func faceNormal(t *Triangle) math3d.Vec3 {
	return t.Pos[1].Sub(t.Pos[0]).Cross(t.Pos[2].Sub(t.Pos[0]))
}

// Transform applies mat to every position. Normals go through the
// inverse transpose so non-uniform scales keep them perpendicular.
func (m *Mesh) Transform(mat math3d.Mat4) {
	nm := mat.InvertTranspose()
	for i := range m.Triangles {
		t := &m.Triangles[i]
		for j := range 3 {
			t.Pos[j] = mat.MulVec3(t.Pos[j])
			t.Normal[j] = nm.MulVec3Dir(t.Normal[j]).Normalize()
		}
	}
	m.CalculateBounds()
}

// FitUnitCube centers the mesh on the origin and scales it uniformly so
// its largest extent spans [-1, 1].
func (m *Mesh) FitUnitCube() {
	m.CalculateBounds()
	size := m.Size()
	extent := math.Max(size.X, math.Max(size.Y, size.Z))
	if extent == 0 {
		return
	}
	center := m.Center()
	m.Transform(math3d.ScaleUniform(2 / extent).Mul(math3d.Translate(center.Negate())))
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Triangles: make([]Triangle, len(m.Triangles)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Triangles, m.Triangles)
	return clone
}
