package render

import (
	"github.com/taigrr/softrender/pkg/math3d"
)

// Shader is the programmable part of a render pass.
//
// The rasterizer calls Vertex exactly three times per triangle, once per
// corner, before it rasterizes that triangle, and then Fragment once for each
// covered pixel that passes the depth test. Vertex returns the clip-space
// position and may record varying state for the fragment stage. Fragment
// receives perspective-correct barycentric weights, writes the pixel color
// and reports whether the pixel is discarded. Varying state belongs to the
// shader and is simply overwritten by the next triangle.
type Shader interface {
	Vertex(face, vert int) math3d.Vec4
	Fragment(bar math3d.Vec3, c *Color) (discard bool)
}

// Model is the per-face view of a mesh that shaders read from.
// Every face has exactly three corners.
type Model interface {
	FaceCount() int
	Vert(face, n int) math3d.Vec3
	Normal(face, n int) math3d.Vec3
	UV(face, n int) math3d.Vec2
}

// Material provides surface maps sampled at a texture coordinate.
// NormalAt reports false when the material has no normal map.
type Material interface {
	Diffuse(uv math3d.Vec2) Color
	NormalAt(uv math3d.Vec2) (math3d.Vec3, bool)
	Specular(uv math3d.Vec2) float64
}

// PlainMaterial is a white, non-specular material without a normal map.
type PlainMaterial struct{}

func (PlainMaterial) Diffuse(math3d.Vec2) Color { return ColorWhite }

func (PlainMaterial) NormalAt(math3d.Vec2) (math3d.Vec3, bool) { return math3d.Vec3{}, false }

func (PlainMaterial) Specular(math3d.Vec2) float64 { return 0 }
