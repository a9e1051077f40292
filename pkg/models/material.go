package models

import (
	"fmt"

	"github.com/taigrr/softrender/pkg/math3d"
	"github.com/taigrr/softrender/pkg/render"
)

// MapKind names one of the surface maps of a TextureSet.
type MapKind string

const (
	MapDiffuse  MapKind = "diffuse"
	MapNormal   MapKind = "normal"
	MapSpecular MapKind = "specular"
)

// TextureSet holds the surface maps of a model. Any map may be nil: a
// missing diffuse map samples white, a missing normal map defers to vertex
// normals and a missing specular map gives zero.
// It implements render.Material.
type TextureSet struct {
	DiffuseMap  *render.Texture
	NormalMap   *render.Texture // tangent-free normals packed as RGB
	SpecularMap *render.Texture // exponent in the blue channel

	// Filter and Wrap are applied to every map. Empty keeps the texture's
	// own setting.
	Filter render.FilterMode
	Wrap   render.WrapMode
}

// SetSampling records the filter and wrap mode and applies them to the maps
// already loaded.
func (ts *TextureSet) SetSampling(filter render.FilterMode, wrap render.WrapMode) {
	ts.Filter, ts.Wrap = filter, wrap
	for _, tex := range []*render.Texture{ts.DiffuseMap, ts.NormalMap, ts.SpecularMap} {
		ts.applySampling(tex)
	}
}

func (ts *TextureSet) applySampling(tex *render.Texture) {
	if tex == nil {
		return
	}
	if ts.Filter != "" {
		tex.Filter = ts.Filter
	}
	if ts.Wrap != "" {
		tex.WrapU, tex.WrapV = ts.Wrap, ts.Wrap
	}
}

// LoadMap loads the image at path into the slot for kind.
func (ts *TextureSet) LoadMap(kind MapKind, path string) error {
	tex, err := render.LoadTexture(path)
	if err != nil {
		return fmt.Errorf("load %s map: %w", kind, err)
	}
	ts.applySampling(tex)
	switch kind {
	case MapDiffuse:
		ts.DiffuseMap = tex
	case MapNormal:
		ts.NormalMap = tex
	case MapSpecular:
		ts.SpecularMap = tex
	default:
		return fmt.Errorf("unknown map kind %q", kind)
	}
	return nil
}

// Diffuse returns the base color at uv.
func (ts *TextureSet) Diffuse(uv math3d.Vec2) render.Color {
	if ts.DiffuseMap == nil {
		return render.ColorWhite
	}
	return ts.DiffuseMap.Sample(uv.X, uv.Y)
}

// NormalAt decodes the normal map at uv from [0, 255] to [-1, 1].
func (ts *TextureSet) NormalAt(uv math3d.Vec2) (math3d.Vec3, bool) {
	if ts.NormalMap == nil {
		return math3d.Vec3{}, false
	}
	c := ts.NormalMap.Sample(uv.X, uv.Y)
	n := math3d.V3(float64(c.R), float64(c.G), float64(c.B)).Scale(2.0 / 255).Sub(math3d.V3(1, 1, 1))
	return n.Normalize(), true
}

// Specular returns the specular exponent at uv.
func (ts *TextureSet) Specular(uv math3d.Vec2) float64 {
	if ts.SpecularMap == nil {
		return 0
	}
	return float64(ts.SpecularMap.Sample(uv.X, uv.Y).B)
}
