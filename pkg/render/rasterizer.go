package render

import (
	"math"

	"github.com/taigrr/softrender/pkg/math3d"
)

const (
	// DegenerateEpsilon is the smallest absolute doubled screen area, in
	// square pixels, of a triangle that is still rasterized.
	DegenerateEpsilon = 1e-2

	// EdgeGapTolerance is a suggested EdgeTolerance that closes pinholes
	// along shared edges at the price of slight double coverage.
	EdgeGapTolerance = 0.1
)

// Rasterizer fills triangles into a framebuffer with depth testing.
type Rasterizer struct {
	fb *Framebuffer

	// DepthRange is the upper bound of the quantized depth. It must match
	// the range the viewport matrix maps z onto.
	DepthRange float64

	// EdgeTolerance accepts pixels whose smallest barycentric weight is
	// at least -EdgeTolerance. Zero is the exact inside test.
	EdgeTolerance float64

	Stats RasterStats // Counters for debugging/benchmarking
}

// RasterStats counts what happened to submitted triangles and their pixels.
type RasterStats struct {
	Triangles    int // Triangles submitted
	Degenerate   int // Skipped for zero screen area
	BehindCamera int // Skipped because a vertex has w <= 0
	Offscreen    int // Bounding box empty after clamping
	Fragments    int // Pixels written
	Occluded     int // Pixels rejected by the depth test
	Discarded    int // Pixels discarded by the fragment stage
}

// Add accumulates o into s.
func (s *RasterStats) Add(o RasterStats) {
	s.Triangles += o.Triangles
	s.Degenerate += o.Degenerate
	s.BehindCamera += o.BehindCamera
	s.Offscreen += o.Offscreen
	s.Fragments += o.Fragments
	s.Occluded += o.Occluded
	s.Discarded += o.Discarded
}

// NewRasterizer creates a rasterizer writing to fb.
func NewRasterizer(fb *Framebuffer) *Rasterizer {
	return &Rasterizer{
		fb:         fb,
		DepthRange: DefaultDepthRange,
	}
}

// Framebuffer returns the target framebuffer.
func (r *Rasterizer) Framebuffer() *Framebuffer {
	return r.fb
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// Clear resets both framebuffer planes and the statistics.
func (r *Rasterizer) Clear(c Color) {
	r.fb.Clear(c)
	r.fb.ClearDepth()
	r.Stats = RasterStats{}
}

// Barycentric returns the weights of p with respect to triangle abc, in the
// order (a, b, c). A triangle whose doubled area is below DegenerateEpsilon
// yields (-1, 1, 1), which every inside test rejects.
func Barycentric(a, b, c, p math3d.Vec2) math3d.Vec3 {
	u := math3d.V3(c.X-a.X, b.X-a.X, a.X-p.X).Cross(math3d.V3(c.Y-a.Y, b.Y-a.Y, a.Y-p.Y))
	if math.Abs(u.Z) < DegenerateEpsilon {
		return math3d.V3(-1, 1, 1)
	}
	return math3d.V3(1-(u.X+u.Y)/u.Z, u.Y/u.Z, u.X/u.Z)
}

// quantize rounds a depth to the nearest integer step and clamps it to
// [0, DepthRange].
func (r *Rasterizer) quantize(z float64) float64 {
	return math.Max(0, math.Min(r.DepthRange, math.Floor(z+0.5)))
}

// Triangle rasterizes one triangle given its clip-space corners.
//
// Triangles with a corner on or behind the camera plane (w <= 0) are not
// clipped; they are skipped and counted in Stats.BehindCamera.
func (r *Rasterizer) Triangle(pts [3]math3d.Vec4, s Shader) {
	r.Stats.Triangles++

	var screen [3]math3d.Vec2
	for i, p := range pts {
		if p.W <= 0 {
			r.Stats.BehindCamera++
			return
		}
		screen[i] = math3d.V2(p.X/p.W, p.Y/p.W)
	}

	// The doubled signed area does not depend on the pixel, so degenerate
	// triangles are rejected once instead of per pixel.
	area := (screen[2].X-screen[0].X)*(screen[1].Y-screen[0].Y) -
		(screen[1].X-screen[0].X)*(screen[2].Y-screen[0].Y)
	if math.Abs(area) < DegenerateEpsilon {
		r.Stats.Degenerate++
		return
	}

	// Find bounding box
	minX := int(math.Max(0, math.Floor(min3(screen[0].X, screen[1].X, screen[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(screen[0].X, screen[1].X, screen[2].X))))
	minY := int(math.Max(0, math.Floor(min3(screen[0].Y, screen[1].Y, screen[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(screen[0].Y, screen[1].Y, screen[2].Y))))
	if minX > maxX || minY > maxY {
		r.Stats.Offscreen++
		return
	}

	invW := [3]float64{1 / pts[0].W, 1 / pts[1].W, 1 / pts[2].W}
	tol := -r.EdgeTolerance
	var c Color

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			bc := Barycentric(screen[0], screen[1], screen[2], math3d.V2(float64(x), float64(y)))
			if bc.X < tol || bc.Y < tol || bc.Z < tol {
				continue
			}

			// Screen weights to clip-space weights.
			clip := math3d.V3(bc.X*invW[0], bc.Y*invW[1], bc.Z*invW[2])
			clip = clip.Div(clip.X + clip.Y + clip.Z)

			z := pts[0].Z*clip.X + pts[1].Z*clip.Y + pts[2].Z*clip.Z
			w := pts[0].W*clip.X + pts[1].W*clip.Y + pts[2].W*clip.Z
			depth := r.quantize(z / w)

			if r.fb.DepthAt(x, y) >= depth {
				r.Stats.Occluded++
				continue
			}

			if s.Fragment(clip, &c) {
				r.Stats.Discarded++
				continue
			}
			r.fb.SetDepth(x, y, depth)
			r.fb.SetPixel(x, y, c)
			r.Stats.Fragments++
		}
	}
}

// DrawModel runs a full pass over every face of m: three vertex-stage calls,
// then Triangle.
func (r *Rasterizer) DrawModel(m Model, s Shader) {
	var pts [3]math3d.Vec4
	for face := range m.FaceCount() {
		for vert := range 3 {
			pts[vert] = s.Vertex(face, vert)
		}
		r.Triangle(pts, s)
	}
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
