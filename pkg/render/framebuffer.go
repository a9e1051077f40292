// Package render implements the software rasterization pipeline: the
// transform stage, the shader interface, the triangle rasterizer and the
// framebuffer it writes.
package render

import (
	"image"
	"image/color"
	"math"
)

// DepthFar is the cleared depth value. It is farther than any quantized
// depth, so the first fragment to reach a pixel always passes the test.
var DepthFar = math.Inf(-1)

// Framebuffer holds a color plane and a depth plane sharing pixel
// coordinates. Row 0 is the first row in memory; FlipVertically converts to
// a top-left origin before the planes are written out.
type Framebuffer struct {
	Width  int          // Width in pixels
	Height int          // Height in pixels
	Pixels []color.RGBA // Row-major pixel data
	Depth  []float64    // Row-major quantized depth, greater is nearer
}

// NewFramebuffer creates a framebuffer with a black color plane and a
// cleared depth plane.
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
		Depth:  make([]float64, width*height),
	}
	fb.Clear(ColorBlack)
	fb.ClearDepth()
	return fb
}

// Clear fills the color plane with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	fill(fb.Pixels, c)
}

// ClearDepth resets every depth sample to DepthFar.
func (fb *Framebuffer) ClearDepth() {
	fill(fb.Depth, DepthFar)
}

// fill uses copy-doubling, which is considerably faster than a plain loop
// for large planes.
func fill[T any](s []T, v T) {
	if len(s) == 0 {
		return
	}
	s[0] = v
	for i := 1; i < len(s); i *= 2 {
		copy(s[i:], s[:i])
	}
}

func (fb *Framebuffer) inBounds(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if !fb.inBounds(x, y) {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if !fb.inBounds(x, y) {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DepthAt returns the depth at (x, y), DepthFar if out of bounds.
func (fb *Framebuffer) DepthAt(x, y int) float64 {
	if !fb.inBounds(x, y) {
		return DepthFar
	}
	return fb.Depth[y*fb.Width+x]
}

// SetDepth sets the depth at (x, y).
func (fb *Framebuffer) SetDepth(x, y int, z float64) {
	if !fb.inBounds(x, y) {
		return
	}
	fb.Depth[y*fb.Width+x] = z
}

// FlipVertically mirrors both planes around the horizontal center line.
func (fb *Framebuffer) FlipVertically() {
	w := fb.Width
	for top, bot := 0, fb.Height-1; top < bot; top, bot = top+1, bot-1 {
		a, b := top*w, bot*w
		for x := range w {
			fb.Pixels[a+x], fb.Pixels[b+x] = fb.Pixels[b+x], fb.Pixels[a+x]
			fb.Depth[a+x], fb.Depth[b+x] = fb.Depth[b+x], fb.Depth[a+x]
		}
	}
}

// Coverage counts pixels whose depth was written since the last ClearDepth.
func (fb *Framebuffer) Coverage() int {
	n := 0
	for _, d := range fb.Depth {
		if d != DepthFar {
			n++
		}
	}
	return n
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the color plane to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		copy(img.Pix[y*img.Stride:], rgbaBytes(fb.Pixels[y*fb.Width:(y+1)*fb.Width]))
	}
	return img
}

func rgbaBytes(row []color.RGBA) []byte {
	out := make([]byte, 0, len(row)*4)
	for _, c := range row {
		out = append(out, c.R, c.G, c.B, c.A)
	}
	return out
}

// DepthImage renders the depth plane as grayscale, scaled so that depthRange
// maps to white. Untouched pixels are black.
func (fb *Framebuffer) DepthImage(depthRange float64) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		for x := range fb.Width {
			d := fb.Depth[y*fb.Width+x]
			if d == DepthFar || depthRange <= 0 {
				continue
			}
			v := math.Max(0, math.Min(255, math.Round(d/depthRange*255)))
			img.Pix[y*img.Stride+x] = uint8(v)
		}
	}
	return img
}
