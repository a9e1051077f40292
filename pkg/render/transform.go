package render

import (
	"github.com/taigrr/softrender/pkg/math3d"
)

// DefaultDepthRange is the quantized depth range the viewport maps z onto.
const DefaultDepthRange = 255

// ViewMatrix builds a view matrix that moves eye to the origin and turns the
// line of sight onto -Z. Rotation rows are right, trueUp and back; the
// translation is -eye expressed in that basis.
func ViewMatrix(eye, target, up math3d.Vec3) math3d.Mat4 {
	back := eye.Sub(target).Normalize()
	right := up.Cross(back).Normalize()
	trueUp := back.Cross(right)

	m := math3d.Identity()
	for i, row := range [3]math3d.Vec3{right, trueUp, back} {
		m.Set(i, 0, row.X)
		m.Set(i, 1, row.Y)
		m.Set(i, 2, row.Z)
		m.Set(i, 3, -row.Dot(eye))
	}
	return m
}

// ProjectionMatrix returns the identity with row 3, column 2 set to coeff.
// coeff = -1/distance gives a perspective divide, 0 an orthographic view.
func ProjectionMatrix(coeff float64) math3d.Mat4 {
	m := math3d.Identity()
	m.Set(3, 2, coeff)
	return m
}

// Rect is a pixel rectangle.
type Rect struct {
	X, Y, W, H float64
}

// InsetRect returns the centered rectangle of a width x height image with
// margin (a fraction of each dimension) left free on every side.
func InsetRect(width, height int, margin float64) Rect {
	w, h := float64(width), float64(height)
	return Rect{X: w * margin, Y: h * margin, W: w * (1 - 2*margin), H: h * (1 - 2*margin)}
}

// ViewportMatrix maps the [-1,1] cube onto the pixel rectangle r and z onto
// [0, depth].
func ViewportMatrix(r Rect, depth float64) math3d.Mat4 {
	m := math3d.Scale(math3d.V3(r.W/2, r.H/2, depth/2))
	m.SetCol(3, math3d.V4(r.X+r.W/2, r.Y+r.H/2, depth/2, 1))
	return m
}

// Transform is the per-pass transform context. It is built once and passed
// to the shaders that need it.
type Transform struct {
	Model      math3d.Mat4
	View       math3d.Mat4
	Focus      math3d.Mat4
	Projection math3d.Mat4
	Viewport   math3d.Mat4
	DepthRange float64

	modelView math3d.Mat4
	mvp       math3d.Mat4
}

// NewTransform composes Viewport · Projection · Focus · View · Model for
// cam rendering into vp. Focus shifts eye space along Z by the camera
// distance so the look target sits at w = 1 and the camera plane at w = 0.
// z/w grows without bound toward the camera, so with distance d every
// surface more than d/(d+1) in front of the target quantizes to depthRange
// and ties there.
func NewTransform(cam *Camera, vp Rect, depthRange float64) *Transform {
	t := &Transform{
		Model:      math3d.Identity(),
		View:       cam.ViewMatrix(),
		Focus:      math3d.Translate(math3d.V3(0, 0, cam.Distance())),
		Projection: ProjectionMatrix(cam.ProjectionCoeff()),
		Viewport:   ViewportMatrix(vp, depthRange),
		DepthRange: depthRange,
	}
	t.update()
	return t
}

// SetModel replaces the model matrix and recomposes the transform.
func (t *Transform) SetModel(m math3d.Mat4) {
	t.Model = m
	t.update()
}

func (t *Transform) update() {
	t.modelView = t.Focus.Mul(t.View).Mul(t.Model)
	t.mvp = t.Viewport.Mul(t.Projection).Mul(t.modelView)
}

// ModelView returns Focus · View · Model.
func (t *Transform) ModelView() math3d.Mat4 {
	return t.modelView
}

// MVP returns the composed vertex transform.
func (t *Transform) MVP() math3d.Mat4 {
	return t.mvp
}

// Uniform returns Projection · ModelView, the matrix that carries light
// directions into the space normals are shaded in.
func (t *Transform) Uniform() math3d.Mat4 {
	return t.Projection.Mul(t.modelView)
}

// NormalMatrix returns the inverse transpose of Uniform.
func (t *Transform) NormalMatrix() math3d.Mat4 {
	return t.Uniform().InvertTranspose()
}

// Apply transforms a model-space point to clip space.
func (t *Transform) Apply(v math3d.Vec3) math3d.Vec4 {
	return t.mvp.MulVec4(v.Embed4(1))
}

// Project returns the screen position of v after the perspective divide.
// ok is false when v is on or behind the camera plane.
func (t *Transform) Project(v math3d.Vec3) (screen math3d.Vec3, ok bool) {
	clip := t.Apply(v)
	if clip.W <= 0 {
		return math3d.Vec3{}, false
	}
	return clip.PerspectiveDivide(), true
}
