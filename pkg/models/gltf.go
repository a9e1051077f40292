package models

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/softrender/pkg/math3d"
)

// LoadGLB loads a binary (.glb) or JSON (.gltf) glTF file. Every triangle
// primitive of every mesh is merged into one triangle soup; node
// transforms are not applied.
func LoadGLB(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return loadDocument(doc, filepath.Base(path))
}

func loadDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	for _, m := range doc.Meshes {
		if err := processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	mesh.CalculateBounds()
	return mesh, nil
}

// processMesh appends the triangles of every primitive in m.
func processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip non-triangle primitives (lines, points, etc)
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var uvs [][2]float32
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		var indices []uint32
		if prim.Indices != nil {
			if indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil); err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			// No indices, assume sequential triangles
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			var t Triangle
			for j := range 3 {
				k := int(indices[i+j])
				if k >= len(positions) {
					return fmt.Errorf("index %d out of range for %d positions", k, len(positions))
				}
				t.Pos[j] = vec3f(positions[k])
				if k < len(normals) {
					t.Normal[j] = vec3f(normals[k])
				}
				if k < len(uvs) {
					// glTF puts V=0 at the top of the image
					t.UV[j] = math3d.V2(float64(uvs[k][0]), 1-float64(uvs[k][1]))
				}
			}
			mesh.Triangles = append(mesh.Triangles, t)
		}
	}
	return nil
}

func vec3f(v [3]float32) math3d.Vec3 {
	return math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
}

// LoadGLBWithTexture loads a glTF file and returns the mesh plus the first
// embedded or referenced image that decodes. The image is nil if there is
// none.
func LoadGLBWithTexture(path string) (*Mesh, image.Image, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open gltf: %w", err)
	}
	mesh, err := loadDocument(doc, filepath.Base(path))
	if err != nil {
		return nil, nil, err
	}

	for _, data := range imageData(doc, filepath.Dir(path)) {
		if img, _, err := image.Decode(bytes.NewReader(data)); err == nil {
			return mesh, img, nil
		}
	}
	return mesh, nil, nil
}

// imageData returns the raw bytes of every image in document order.
// Images that cannot be read are skipped.
func imageData(doc *gltf.Document, dir string) [][]byte {
	var out [][]byte
	for _, img := range doc.Images {
		switch {
		case img.BufferView != nil:
			bv := doc.BufferViews[*img.BufferView]
			buf := doc.Buffers[bv.Buffer]
			end := bv.ByteOffset + bv.ByteLength
			if end <= len(buf.Data) {
				out = append(out, buf.Data[bv.ByteOffset:end])
			}
		case img.URI != "":
			// External texture file
			if data, err := os.ReadFile(filepath.Join(dir, img.URI)); err == nil {
				out = append(out, data)
			}
		}
	}
	return out
}
