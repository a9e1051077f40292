package models

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/softrender/pkg/math3d"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

// writeQuadGLB saves a two-triangle quad with normals and UVs.
func writeQuadGLB(t *testing.T, indexed bool) string {
	t.Helper()
	doc := gltf.NewDocument()

	corners := [][3]float32{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}}
	uvs := [][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	order := []uint16{0, 1, 2, 0, 2, 3}
	if !indexed {
		var flatPos [][3]float32
		var flatUV [][2]float32
		for _, i := range order {
			flatPos = append(flatPos, corners[i])
			flatUV = append(flatUV, uvs[i])
		}
		corners, uvs = flatPos, flatUV
	}
	normals := make([][3]float32, len(corners))
	for i := range normals {
		normals[i] = [3]float32{0, 0, 1}
	}

	prim := &gltf.Primitive{
		Attributes: map[string]int{
			gltf.POSITION:   modeler.WritePosition(doc, corners),
			gltf.NORMAL:     modeler.WriteNormal(doc, normals),
			gltf.TEXCOORD_0: modeler.WriteTextureCoord(doc, uvs),
		},
	}
	if indexed {
		idx := modeler.WriteIndices(doc, order)
		prim.Indices = &idx
	}
	doc.Meshes = []*gltf.Mesh{{Name: "quad", Primitives: []*gltf.Primitive{prim}}}

	path := filepath.Join(t.TempDir(), "quad.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("save glb: %v", err)
	}
	return path
}

func TestLoadGLB(t *testing.T) {
	for _, indexed := range []bool{true, false} {
		name := "sequential"
		if indexed {
			name = "indexed"
		}
		t.Run(name, func(t *testing.T) {
			m, err := LoadGLB(writeQuadGLB(t, indexed))
			if err != nil {
				t.Fatal(err)
			}
			if m.FaceCount() != 2 {
				t.Fatalf("FaceCount = %d, want 2", m.FaceCount())
			}
			if m.Vert(1, 2) != math3d.V3(-1, 1, 0) {
				t.Errorf("Vert(1,2) = %v, want (-1, 1, 0)", m.Vert(1, 2))
			}
			if m.Normal(0, 0) != math3d.V3(0, 0, 1) {
				t.Errorf("Normal(0,0) = %v, want +Z", m.Normal(0, 0))
			}
			// V is flipped to a bottom-left origin.
			if m.UV(0, 0) != math3d.V2(0, 0) || m.UV(0, 2) != math3d.V2(1, 1) {
				t.Errorf("UVs = %v, %v, want (0,0) and (1,1)", m.UV(0, 0), m.UV(0, 2))
			}
			if m.BoundsMin != math3d.V3(-1, -1, 0) || m.BoundsMax != math3d.V3(1, 1, 0) {
				t.Errorf("bounds = %v..%v", m.BoundsMin, m.BoundsMax)
			}
		})
	}
}

func TestLoadGLBWithTextureNoImages(t *testing.T) {
	m, img, err := LoadGLBWithTexture(writeQuadGLB(t, true))
	if err != nil {
		t.Fatal(err)
	}
	if m.FaceCount() != 2 {
		t.Errorf("FaceCount = %d, want 2", m.FaceCount())
	}
	if img != nil {
		t.Errorf("image = %v, want nil for a document without images", img.Bounds())
	}
}
