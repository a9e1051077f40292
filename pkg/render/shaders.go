package render

import (
	"fmt"
	"math"

	"github.com/taigrr/softrender/pkg/math3d"
)

// ShaderKind names a built-in shader.
type ShaderKind string

const (
	ShaderFlat     ShaderKind = "flat"
	ShaderGouraud  ShaderKind = "gouraud"
	ShaderTextured ShaderKind = "textured"
	ShaderPhong    ShaderKind = "phong"
	ShaderToon     ShaderKind = "toon"
	ShaderDepth    ShaderKind = "depth"
)

// ShaderKinds lists every built-in shader.
var ShaderKinds = []ShaderKind{ShaderFlat, ShaderGouraud, ShaderTextured, ShaderPhong, ShaderToon, ShaderDepth}

// Scene carries what every built-in shader reads: the model, the material,
// the transform context and the light direction (pointing towards the
// light, in model space).
type Scene struct {
	Model     Model
	Material  Material
	Transform *Transform
	Light     math3d.Vec3
	Color     Color // Base color for shaders that ignore the diffuse map
}

// NewShader builds the named shader for a scene.
func NewShader(kind ShaderKind, s Scene) (Shader, error) {
	if s.Material == nil {
		s.Material = PlainMaterial{}
	}
	if s.Color == (Color{}) {
		s.Color = ColorWhite
	}
	s.Light = s.Light.Normalize()

	switch kind {
	case ShaderFlat:
		return &FlatShader{Scene: s}, nil
	case ShaderGouraud:
		return &GouraudShader{Scene: s}, nil
	case ShaderTextured:
		return NewTexturedShader(s), nil
	case ShaderPhong:
		return NewPhongShader(s), nil
	case ShaderToon:
		return &ToonShader{GouraudShader: GouraudShader{Scene: s}, Bands: 4}, nil
	case ShaderDepth:
		return &DepthShader{Scene: s}, nil
	}
	return nil, fmt.Errorf("unknown shader %q", kind)
}

// FlatShader lights each face with a single intensity from its geometric
// normal.
type FlatShader struct {
	Scene

	// DiscardUnlit drops pixels of faces turned away from the light.
	DiscardUnlit bool

	world     [3]math3d.Vec3
	intensity float64
}

func (s *FlatShader) Vertex(face, vert int) math3d.Vec4 {
	s.world[vert] = s.Model.Vert(face, vert)
	if vert == 2 {
		n := s.world[1].Sub(s.world[0]).Cross(s.world[2].Sub(s.world[0])).Normalize()
		s.intensity = n.Dot(s.Light)
	}
	return s.Transform.Apply(s.world[vert])
}

func (s *FlatShader) Fragment(_ math3d.Vec3, c *Color) bool {
	if s.intensity <= 0 && s.DiscardUnlit {
		return true
	}
	*c = MultiplyColor(s.Color, math.Max(0, s.intensity))
	return false
}

// GouraudShader computes diffuse intensity per vertex and interpolates it.
type GouraudShader struct {
	Scene

	intensity math3d.Vec3
}

func (s *GouraudShader) Vertex(face, vert int) math3d.Vec4 {
	s.intensity.Set(vert, math.Max(0, s.Model.Normal(face, vert).Normalize().Dot(s.Light)))
	return s.Transform.Apply(s.Model.Vert(face, vert))
}

func (s *GouraudShader) Fragment(bar math3d.Vec3, c *Color) bool {
	*c = MultiplyColor(s.Color, s.intensity.Dot(bar))
	return false
}

// ToonShader quantizes Gouraud intensity into flat bands.
type ToonShader struct {
	GouraudShader
	Bands int
}

func (s *ToonShader) Fragment(bar math3d.Vec3, c *Color) bool {
	bands := float64(max(s.Bands, 1))
	level := math.Ceil(s.intensity.Dot(bar)*bands) / bands
	*c = MultiplyColor(s.Color, level)
	return false
}

// TexturedShader modulates the diffuse map by the base color and Gouraud
// intensity.
// Texture coordinates are kept one per column in a 2x3 matrix.
type TexturedShader struct {
	Scene

	intensity math3d.Vec3
	uv        *math3d.Matrix
}

// NewTexturedShader creates a TexturedShader.
func NewTexturedShader(s Scene) *TexturedShader {
	return &TexturedShader{Scene: s, uv: math3d.NewMatrix(2, 3)}
}

func (s *TexturedShader) Vertex(face, vert int) math3d.Vec4 {
	s.intensity.Set(vert, math.Max(0, s.Model.Normal(face, vert).Normalize().Dot(s.Light)))
	uv := s.Model.UV(face, vert)
	s.uv.SetCol(vert, math3d.VecN{uv.X, uv.Y})
	return s.Transform.Apply(s.Model.Vert(face, vert))
}

func (s *TexturedShader) Fragment(bar math3d.Vec3, c *Color) bool {
	uv := s.uv.MulVec(bar.VecN())
	base := ModulateColor(s.Material.Diffuse(math3d.V2(uv[0], uv[1])), s.Color)
	*c = MultiplyColor(base, s.intensity.Dot(bar))
	return false
}

// PhongShader shades per pixel with diffuse and specular terms. Normals come
// from the material's normal map when it has one and from the interpolated
// vertex normals otherwise. Both normals and the light are carried into the
// same space with the transform's uniform matrices.
type PhongShader struct {
	Scene

	Ambient       float64 // Added to every channel, 0..255
	SpecularScale float64

	uniform   math3d.Mat4
	uniformIT math3d.Mat4
	uv        *math3d.Matrix
	normal    *math3d.Matrix
}

// NewPhongShader creates a PhongShader with the transform's uniforms
// precomputed.
func NewPhongShader(s Scene) *PhongShader {
	return &PhongShader{
		Scene:         s,
		Ambient:       5,
		SpecularScale: 0.6,
		uniform:       s.Transform.Uniform(),
		uniformIT:     s.Transform.NormalMatrix(),
		uv:            math3d.NewMatrix(2, 3),
		normal:        math3d.NewMatrix(3, 3),
	}
}

func (s *PhongShader) Vertex(face, vert int) math3d.Vec4 {
	uv := s.Model.UV(face, vert)
	s.uv.SetCol(vert, math3d.VecN{uv.X, uv.Y})
	s.normal.SetCol(vert, s.Model.Normal(face, vert).VecN())
	return s.Transform.Apply(s.Model.Vert(face, vert))
}

func (s *PhongShader) Fragment(bar math3d.Vec3, c *Color) bool {
	b := bar.VecN()
	uvn := s.uv.MulVec(b)
	uv := math3d.V2(uvn[0], uvn[1])

	local, ok := s.Material.NormalAt(uv)
	if !ok {
		local = s.normal.MulVec(b).Vec3()
	}
	n := s.uniformIT.MulVec4(local.Embed4(0)).Proj3().Normalize()
	l := s.uniform.MulVec4(s.Light.Embed4(0)).Proj3().Normalize()

	diff := math.Max(0, n.Dot(l))
	spec := 0.0
	if exp := s.Material.Specular(uv); exp > 0 {
		r := l.Negate().Reflect(n).Normalize()
		spec = math.Pow(math.Max(r.Z, 0), exp)
	}

	base := s.Material.Diffuse(uv)
	k := diff + s.SpecularScale*spec
	channel := func(v uint8) uint8 {
		return uint8(math.Min(255, s.Ambient+float64(v)*k))
	}
	*c = Color{R: channel(base.R), G: channel(base.G), B: channel(base.B), A: 255}
	return false
}

// DepthShader paints each pixel with its interpolated depth as a gray level.
// Clip z and w are interpolated separately and divided per pixel, the same
// way the rasterizer computes the buffered depth.
type DepthShader struct {
	Scene

	z, w math3d.Vec3
}

func (s *DepthShader) Vertex(face, vert int) math3d.Vec4 {
	clip := s.Transform.Apply(s.Model.Vert(face, vert))
	s.z.Set(vert, clip.Z)
	s.w.Set(vert, clip.W)
	return clip
}

func (s *DepthShader) Fragment(bar math3d.Vec3, c *Color) bool {
	d := s.z.Dot(bar) / s.w.Dot(bar) / s.Transform.DepthRange
	*c = Gray(uint8(math.Max(0, math.Min(1, d)) * 255))
	return false
}
