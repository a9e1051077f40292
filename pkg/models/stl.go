package models

import (
	"fmt"
	"path/filepath"

	"github.com/fogleman/fauxgl"

	"github.com/taigrr/softrender/pkg/math3d"
)

// LoadSTL loads an ASCII or binary STL file. STL carries no texture
// coordinates, so every UV is zero.
func LoadSTL(path string) (*Mesh, error) {
	src, err := fauxgl.LoadSTL(path)
	if err != nil {
		return nil, fmt.Errorf("load stl: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	mesh.Triangles = make([]Triangle, 0, len(src.Triangles))
	for _, t := range src.Triangles {
		var tri Triangle
		for i, v := range [3]fauxgl.Vertex{t.V1, t.V2, t.V3} {
			tri.Pos[i] = fromFauxgl(v.Position)
			tri.Normal[i] = fromFauxgl(v.Normal)
		}
		mesh.Triangles = append(mesh.Triangles, tri)
	}

	mesh.CalculateBounds()
	return mesh, nil
}

func fromFauxgl(v fauxgl.Vector) math3d.Vec3 {
	return math3d.V3(v.X, v.Y, v.Z)
}
