package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Loader loads any supported model format and post-processes the result.
type Loader struct {
	// CalculateNormals generates normals when the file has none.
	CalculateNormals bool
	// SmoothNormals averages generated normals across shared corners.
	SmoothNormals bool
	// FitUnitCube recenters and rescales the mesh into [-1, 1].
	FitUnitCube bool
}

// NewLoader creates a loader with default options.
func NewLoader() *Loader {
	return &Loader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// Load loads a model with the default options.
func Load(path string) (*Mesh, error) {
	return NewLoader().Load(path)
}

// Load picks a decoder from the file extension: .obj, .glb, .gltf or .stl.
func (l *Loader) Load(path string) (*Mesh, error) {
	var (
		mesh *Mesh
		err  error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		mesh, err = LoadOBJ(path)
	case ".glb", ".gltf":
		mesh, err = LoadGLB(path)
	case ".stl":
		mesh, err = LoadSTL(path)
	default:
		return nil, fmt.Errorf("unsupported model format %q", ext)
	}
	if err != nil {
		return nil, err
	}

	l.Finish(mesh)
	return mesh, nil
}

// Finish applies the loader options to a mesh read by one of the format
// specific functions.
func (l *Loader) Finish(mesh *Mesh) {
	if l.CalculateNormals && !mesh.HasNormals() {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}
	if l.FitUnitCube {
		mesh.FitUnitCube()
	}
	mesh.CalculateBounds()
}
