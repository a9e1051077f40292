package models

import (
	"math"
	"testing"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/render"
)

var _ render.Model = (*Mesh)(nil)

func near(a, b math3d.Vec3) bool {
	return a.Distance(b) < 1e-9
}

// tetra returns a tetrahedron with one corner at the origin.
func tetra() *Mesh {
	o, x, y, z := math3d.V3(0, 0, 0), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), math3d.V3(0, 0, 1)
	m := NewMesh("tetra")
	m.Triangles = []Triangle{
		{Pos: [3]math3d.Vec3{o, y, x}},
		{Pos: [3]math3d.Vec3{o, x, z}},
		{Pos: [3]math3d.Vec3{o, z, y}},
		{Pos: [3]math3d.Vec3{x, y, z}},
	}
	m.CalculateBounds()
	return m
}

func TestMeshBounds(t *testing.T) {
	m := tetra()
	if !near(m.BoundsMin, math3d.V3(0, 0, 0)) || !near(m.BoundsMax, math3d.V3(1, 1, 1)) {
		t.Errorf("bounds = %v..%v, want origin..(1,1,1)", m.BoundsMin, m.BoundsMax)
	}
	if !near(m.Center(), math3d.V3(0.5, 0.5, 0.5)) {
		t.Errorf("Center = %v", m.Center())
	}
	if m.FaceCount() != 4 {
		t.Errorf("FaceCount = %d, want 4", m.FaceCount())
	}

	empty := NewMesh("empty")
	empty.CalculateBounds()
	if empty.Size() != (math3d.Vec3{}) {
		t.Errorf("empty mesh size = %v, want zero", empty.Size())
	}
}

func TestCalculateNormals(t *testing.T) {
	m := tetra()
	if m.HasNormals() {
		t.Fatal("fresh mesh reports normals")
	}
	m.CalculateNormals()

	// Face 0 lies in z = 0 and winds o, y, x.
	for i := range 3 {
		if n := m.Normal(0, i); !near(n, math3d.V3(0, 0, -1)) {
			t.Errorf("face 0 corner %d normal = %v, want (0, 0, -1)", i, n)
		}
	}
	if !m.HasNormals() {
		t.Error("HasNormals false after CalculateNormals")
	}
}

func TestCalculateSmoothNormals(t *testing.T) {
	m := tetra()
	m.CalculateSmoothNormals()

	// The origin is shared by the three axis-aligned faces.
	want := math3d.V3(-1, -1, -1).Normalize()
	for face := range 3 {
		if n := m.Normal(face, 0); !near(n, want) {
			t.Errorf("face %d origin normal = %v, want %v", face, n, want)
		}
	}
	for face := range m.FaceCount() {
		for i := range 3 {
			if l := m.Normal(face, i).Len(); math.Abs(l-1) > 1e-9 {
				t.Errorf("normal (%d,%d) length = %v, want 1", face, i, l)
			}
		}
	}
}

func TestFitUnitCube(t *testing.T) {
	m := NewMesh("box")
	m.Triangles = []Triangle{{Pos: [3]math3d.Vec3{
		math3d.V3(10, 20, 30),
		math3d.V3(14, 20, 30),
		math3d.V3(10, 22, 31),
	}}}
	m.FitUnitCube()

	if !near(m.BoundsMin, math3d.V3(-1, -0.5, -0.25)) || !near(m.BoundsMax, math3d.V3(1, 0.5, 0.25)) {
		t.Errorf("fitted bounds = %v..%v", m.BoundsMin, m.BoundsMax)
	}
}

func TestTransformKeepsNormalsPerpendicular(t *testing.T) {
	m := NewMesh("slope")
	m.Triangles = []Triangle{{
		Pos:    [3]math3d.Vec3{math3d.V3(0, 0, 0), math3d.V3(1, -1, 0), math3d.V3(0, 0, 1)},
		Normal: [3]math3d.Vec3{math3d.V3(1, 1, 0).Normalize(), math3d.V3(1, 1, 0).Normalize(), math3d.V3(1, 1, 0).Normalize()},
	}}
	m.Transform(math3d.Scale(math3d.V3(4, 1, 1)))

	edge := m.Vert(0, 1).Sub(m.Vert(0, 0))
	if dot := edge.Dot(m.Normal(0, 0)); math.Abs(dot) > 1e-9 {
		t.Errorf("normal . edge = %v after scale, want 0", dot)
	}
}

func TestMeshClone(t *testing.T) {
	m := tetra()
	clone := m.Clone()
	clone.Triangles[0].Pos[0] = math3d.V3(9, 9, 9)
	if m.Vert(0, 0) != (math3d.Vec3{}) {
		t.Error("Clone shares triangle storage")
	}
	if clone.Name != m.Name || clone.FaceCount() != m.FaceCount() {
		t.Error("Clone dropped fields")
	}
}
