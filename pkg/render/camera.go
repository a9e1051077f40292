package render

import (
	"math"

	"github.com/taigrr/softrender/pkg/math3d"
)

// Camera is a look-at camera. The view basis is derived from Position,
// Target and Up whenever the view matrix is requested after a change.
type Camera struct {
	Position math3d.Vec3
	Target   math3d.Vec3
	Up       math3d.Vec3

	// Perspective selects the single-entry perspective projection. When
	// false the projection is orthographic.
	Perspective bool

	viewMatrix math3d.Mat4
	viewDirty  bool
}

// NewCamera creates a perspective camera at pos looking at target.
func NewCamera(pos, target, up math3d.Vec3) *Camera {
	return &Camera{
		Position:    pos,
		Target:      target,
		Up:          up,
		Perspective: true,
		viewDirty:   true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// SetTarget sets the point the camera looks at.
func (c *Camera) SetTarget(target math3d.Vec3) {
	c.Target = target
	c.viewDirty = true
}

// Back returns the unit vector from the target towards the camera.
func (c *Camera) Back() math3d.Vec3 {
	return c.Position.Sub(c.Target).Normalize()
}

// Right returns the unit right vector of the view basis.
func (c *Camera) Right() math3d.Vec3 {
	return c.Up.Cross(c.Back()).Normalize()
}

// TrueUp returns the up vector of the view basis, orthogonal to Back and
// Right.
func (c *Camera) TrueUp() math3d.Vec3 {
	return c.Back().Cross(c.Right())
}

// Distance returns the distance from the camera to its target.
func (c *Camera) Distance() float64 {
	return c.Position.Distance(c.Target)
}

// ViewMatrix returns the camera-centric view matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		c.viewMatrix = ViewMatrix(c.Position, c.Target, c.Up)
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionCoeff returns the projection coefficient for this camera:
// -1/distance for perspective, 0 for orthographic.
func (c *Camera) ProjectionCoeff() float64 {
	if !c.Perspective {
		return 0
	}
	return -1 / c.Distance()
}

// Orbit rotates the camera around its target by yaw (about Up) and pitch
// (about Right), keeping the distance. Pitch is clamped short of the poles.
func (c *Camera) Orbit(yaw, pitch float64) {
	offset := c.Position.Sub(c.Target)
	dist := offset.Len()
	up := c.Up.Normalize()

	elev := math.Asin(math.Max(-1, math.Min(1, offset.Normalize().Dot(up))))
	const maxPitch = math.Pi/2 - 0.01
	newElev := math.Max(-maxPitch, math.Min(maxPitch, elev+pitch))

	offset = math3d.Rotate(up, yaw).MulVec3Dir(offset)
	right := up.Cross(offset).Normalize()
	offset = math3d.Rotate(right, elev-newElev).MulVec3Dir(offset)

	c.SetPosition(c.Target.Add(offset.NormalizeTo(dist)))
}

// Zoom moves the camera along its line of sight by factor (< 1 moves
// closer).
func (c *Camera) Zoom(factor float64) {
	c.SetPosition(c.Target.Add(c.Position.Sub(c.Target).Scale(factor)))
}
