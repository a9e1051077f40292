package render

import (
	"math"
	"testing"

	"github.com/taigrr/softrender/pkg/math3d"
)

func vecNear(a, b math3d.Vec3) bool {
	return a.Distance(b) < 1e-9
}

func TestViewMatrix(t *testing.T) {
	eye := math3d.V3(1, 2, 5)
	target := math3d.V3(1, 2, 0)
	v := ViewMatrix(eye, target, math3d.Up())

	if got := v.MulVec3(eye); !vecNear(got, math3d.V3(0, 0, 0)) {
		t.Errorf("view(eye) = %v, want origin", got)
	}
	if got := v.MulVec3(target); !vecNear(got, math3d.V3(0, 0, -5)) {
		t.Errorf("view(target) = %v, want (0, 0, -5)", got)
	}
	if got := v.MulVec3(math3d.V3(2, 2, 5)); !vecNear(got, math3d.V3(1, 0, 0)) {
		t.Errorf("view(eye+x) = %v, want (1, 0, 0)", got)
	}
}

func TestViewMatrixOblique(t *testing.T) {
	eye := math3d.V3(3, 4, -2)
	target := math3d.V3(-1, 0, 1)
	v := ViewMatrix(eye, target, math3d.Up())

	d := eye.Distance(target)
	if got := v.MulVec3(target); !vecNear(got, math3d.V3(0, 0, -d)) {
		t.Errorf("view(target) = %v, want (0, 0, %v)", got, -d)
	}
	// The rotation part must be orthonormal.
	for i := range 3 {
		r := v.Row(i).Proj3()
		if math.Abs(r.Len()-1) > 1e-9 {
			t.Errorf("row %d length = %v, want 1", i, r.Len())
		}
		for j := i + 1; j < 3; j++ {
			if dot := r.Dot(v.Row(j).Proj3()); math.Abs(dot) > 1e-9 {
				t.Errorf("rows %d and %d not orthogonal: dot = %v", i, j, dot)
			}
		}
	}
}

func TestProjectionMatrix(t *testing.T) {
	p := ProjectionMatrix(-0.5)
	got := p.MulVec4(math3d.V4(1, 2, 4, 1))
	if got != math3d.V4(1, 2, 4, -1) {
		t.Errorf("projection = %v, want (1, 2, 4, -1)", got)
	}
	if ProjectionMatrix(0) != math3d.Identity() {
		t.Error("ProjectionMatrix(0) is not the identity")
	}
}

func TestViewportMatrix(t *testing.T) {
	vp := ViewportMatrix(Rect{X: 10, Y: 20, W: 100, H: 50}, 255)
	tests := []struct {
		in, want math3d.Vec3
	}{
		{math3d.V3(-1, -1, -1), math3d.V3(10, 20, 0)},
		{math3d.V3(1, 1, 1), math3d.V3(110, 70, 255)},
		{math3d.V3(0, 0, 0), math3d.V3(60, 45, 127.5)},
	}
	for _, tc := range tests {
		if got := vp.MulVec3(tc.in); !vecNear(got, tc.want) {
			t.Errorf("viewport(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestInsetRect(t *testing.T) {
	got := InsetRect(800, 400, 1.0/8)
	want := Rect{X: 100, Y: 50, W: 600, H: 300}
	if got != want {
		t.Errorf("InsetRect = %+v, want %+v", got, want)
	}
}

func TestTransformTargetAtUnitW(t *testing.T) {
	_, _, tr := createTestRasterizer(100, 100)

	clip := tr.Apply(math3d.V3(0, 0, 0))
	if math.Abs(clip.W-1) > 1e-9 {
		t.Errorf("target w = %v, want 1", clip.W)
	}
	if s := clip.PerspectiveDivide(); !vecNear(s.Proj2().Embed3(0), math3d.V3(50, 50, 0)) {
		t.Errorf("target screen = %v, want (50, 50)", s)
	}
	if eye := tr.Apply(math3d.V3(0, 0, 3)); math.Abs(eye.W) > 1e-9 {
		t.Errorf("camera plane w = %v, want 0", eye.W)
	}
	if _, ok := tr.Project(math3d.V3(0, 0, 4)); ok {
		t.Error("point behind the camera projected")
	}
}

func TestTransformDepthGrowsTowardCamera(t *testing.T) {
	_, _, tr := createTestRasterizer(100, 100)
	prev := math.Inf(-1)
	for _, z := range []float64{-1, -0.5, 0, 0.5, 1} {
		s, ok := tr.Project(math3d.V3(0, 0, z))
		if !ok {
			t.Fatalf("z=%v not projected", z)
		}
		if s.Z <= prev {
			t.Errorf("depth at z=%v is %v, not greater than %v", z, s.Z, prev)
		}
		prev = s.Z
	}
}

func TestTransformNearDepthSaturates(t *testing.T) {
	_, _, tr := createTestRasterizer(100, 100)
	// With the camera 3 units away, z/w reaches DepthRange 0.75 units in
	// front of the target.
	edge, _ := tr.Project(math3d.V3(0, 0, 0.75))
	if math.Abs(edge.Z-DefaultDepthRange) > 1e-9 {
		t.Errorf("depth at z=0.75 = %v, want %v", edge.Z, DefaultDepthRange)
	}
	inside, _ := tr.Project(math3d.V3(0, 0, 0.5))
	if inside.Z >= DefaultDepthRange {
		t.Errorf("depth at z=0.5 = %v, want below %v", inside.Z, DefaultDepthRange)
	}
}

func TestTransformOrthographic(t *testing.T) {
	cam := NewCamera(math3d.V3(0, 0, 3), math3d.V3(0, 0, 0), math3d.Up())
	cam.Perspective = false
	tr := NewTransform(cam, Rect{W: 100, H: 100}, DefaultDepthRange)

	a := tr.Apply(math3d.V3(0.5, 0, 0.9))
	b := tr.Apply(math3d.V3(0.5, 0, -0.9))
	if a.W != 1 || b.W != 1 {
		t.Errorf("orthographic w = %v, %v, want 1", a.W, b.W)
	}
	if a.X != b.X {
		t.Errorf("orthographic x depends on depth: %v vs %v", a.X, b.X)
	}
}

func TestTransformSetModel(t *testing.T) {
	_, _, tr := createTestRasterizer(100, 100)
	tr.SetModel(math3d.Translate(math3d.V3(0.5, 0, 0)))
	s, _ := tr.Project(math3d.V3(0, 0, 0))
	if math.Abs(s.X-75) > 1e-9 {
		t.Errorf("translated origin x = %v, want 75", s.X)
	}
}

func TestNormalMatrixKeepsNormalsPerpendicular(t *testing.T) {
	_, _, tr := createTestRasterizer(100, 100)
	tr.SetModel(math3d.Scale(math3d.V3(3, 1, 1)))

	// Tangent of the plane x + y = 0 and its normal.
	tangent := math3d.V3(1, -1, 0)
	normal := math3d.V3(1, 1, 0)

	tt := tr.Uniform().MulVec4(tangent.Embed4(0)).Proj3()
	nn := tr.NormalMatrix().MulVec4(normal.Embed4(0)).Proj3()
	if dot := tt.Dot(nn); math.Abs(dot) > 1e-9 {
		t.Errorf("transformed normal . tangent = %v, want 0", dot)
	}
}

func TestCameraOrbit(t *testing.T) {
	cam := NewCamera(math3d.V3(0, 0, 3), math3d.V3(0, 0, 0), math3d.Up())
	cam.Orbit(math.Pi/2, 0)
	if !vecNear(cam.Position, math3d.V3(3, 0, 0)) {
		t.Errorf("Orbit(pi/2, 0) position = %v, want (3, 0, 0)", cam.Position)
	}

	cam.Orbit(0, 0.3)
	if d := cam.Distance(); math.Abs(d-3) > 1e-9 {
		t.Errorf("distance after pitch = %v, want 3", d)
	}
	if cam.Position.Y <= 0 {
		t.Errorf("positive pitch moved camera to y = %v, want above target", cam.Position.Y)
	}

	cam.Orbit(0, 10)
	if elev := math.Asin(cam.Position.Y / cam.Distance()); elev >= math.Pi/2 {
		t.Errorf("elevation %v not clamped below the pole", elev)
	}
}

func TestCameraViewMatrixCache(t *testing.T) {
	cam := NewCamera(math3d.V3(0, 0, 3), math3d.V3(0, 0, 0), math3d.Up())
	before := cam.ViewMatrix()
	cam.SetPosition(math3d.V3(0, 0, 5))
	if cam.ViewMatrix() == before {
		t.Error("ViewMatrix not recomputed after SetPosition")
	}
	cam.Zoom(0.5)
	if d := cam.Distance(); math.Abs(d-2.5) > 1e-9 {
		t.Errorf("distance after Zoom(0.5) = %v, want 2.5", d)
	}
}
