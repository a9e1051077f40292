package render

import (
	"math"

	"github.com/taigrr/softrender/pkg/math3d"
)

// Wireframe draws unshaded, undepth-tested lines through a transform.
type Wireframe struct {
	transform *Transform
	fb        *Framebuffer
}

// NewWireframe creates a new wireframe renderer.
func NewWireframe(t *Transform, fb *Framebuffer) *Wireframe {
	return &Wireframe{
		transform: t,
		fb:        fb,
	}
}

// DrawLine3D draws a line in model space. Lines with an endpoint on or
// behind the camera plane are skipped.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	a, ok1 := w.transform.Project(p1)
	b, ok2 := w.transform.Project(p2)
	if !ok1 || !ok2 {
		return
	}
	w.fb.DrawLine(round(a.X), round(a.Y), round(b.X), round(b.Y), color)
}

// DrawModel outlines every face of m.
func (w *Wireframe) DrawModel(m Model, color Color) {
	for face := range m.FaceCount() {
		for i := range 3 {
			w.DrawLine3D(m.Vert(face, i), m.Vert(face, (i+1)%3), color)
		}
	}
}

// DrawAxes draws the X, Y and Z axes in red, green and blue.
func (w *Wireframe) DrawAxes(length float64) {
	origin := math3d.V3(0, 0, 0)
	w.DrawLine3D(origin, math3d.V3(length, 0, 0), ColorRed)
	w.DrawLine3D(origin, math3d.V3(0, length, 0), ColorGreen)
	w.DrawLine3D(origin, math3d.V3(0, 0, length), ColorBlue)
}

func round(v float64) int {
	return int(math.Round(v))
}
