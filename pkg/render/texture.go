package render

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp" // Register BMP decoder

	"github.com/taigrr/softrender/pkg/tga"
)

// WrapMode selects how coordinates outside [0, 1] reach the texture.
type WrapMode string

const (
	WrapRepeat WrapMode = "repeat"
	WrapClamp  WrapMode = "clamp"
)

// WrapModes lists every wrap mode in the order the CLI documents them.
var WrapModes = []WrapMode{WrapRepeat, WrapClamp}

// FilterMode selects how a sample is reconstructed from texels.
type FilterMode string

const (
	FilterNearest  FilterMode = "nearest"
	FilterBilinear FilterMode = "bilinear"
)

// FilterModes lists every filter in the order the CLI documents them.
var FilterModes = []FilterMode{FilterNearest, FilterBilinear}

// Texture is a row-major RGBA image with row 0 at the top.
type Texture struct {
	Width  int
	Height int
	Pixels []Color
	WrapU  WrapMode
	WrapV  WrapMode
	Filter FilterMode
}

// NewTexture creates a transparent texture that repeats and samples the
// nearest texel.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
		WrapU:  WrapRepeat,
		WrapV:  WrapRepeat,
		Filter: FilterNearest,
	}
}

// SetSampling sets the filter and the wrap mode of both axes.
func (t *Texture) SetSampling(filter FilterMode, wrap WrapMode) {
	t.Filter = filter
	t.WrapU, t.WrapV = wrap, wrap
}

// LoadTexture loads a texture from an image file. TGA files are decoded by
// extension, everything else through the registered image decoders.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	var img image.Image
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		img, err = tga.Decode(f)
	} else {
		img, _, err = image.Decode(f)
	}
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", filepath.Base(path), err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage creates a texture from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy())

	for y := range tex.Height {
		for x := range tex.Width {
			tex.SetPixel(x, y, color.RGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.RGBA))
		}
	}
	return tex
}

// NewCheckerTexture fills a texture with squares of size cell, c1 in the
// top left corner.
func NewCheckerTexture(width, height, cell int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			c := c2
			if (x/cell+y/cell)%2 == 0 {
				c = c1
			}
			tex.Pixels[y*width+x] = c
		}
	}
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample returns the color at (u, v) with v = 0 on the bottom row.
func (t *Texture) Sample(u, v float64) Color {
	// Flip before wrapping so v = 1 stays on the top row.
	u = wrapCoord(u, t.WrapU)
	v = wrapCoord(1-v, t.WrapV)
	if t.Filter == FilterBilinear {
		return t.sampleBilinear(u, v)
	}
	return t.sampleNearest(u, v)
}

// wrapCoord maps coord into [0, 1]. Repeat leaves the closed unit range
// alone so both edges of the UV square reach their own texels.
func wrapCoord(coord float64, mode WrapMode) float64 {
	if mode == WrapClamp {
		return math.Max(0, math.Min(1, coord))
	}
	if coord < 0 || coord > 1 {
		coord -= math.Floor(coord)
	}
	return coord
}

func (t *Texture) sampleNearest(u, v float64) Color {
	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int(v*float64(t.Height)), t.Height-1)
	return t.GetPixel(x, y)
}

// sampleBilinear blends the four texels around (u, v), texel centers at
// half-integer positions.
func (t *Texture) sampleBilinear(u, v float64) Color {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5
	x0, y0 := int(math.Floor(fx)), int(math.Floor(fy))
	tx, ty := fx-float64(x0), fy-float64(y0)

	at := func(x, y int) Color {
		return t.GetPixel(wrapTexel(x, t.Width, t.WrapU), wrapTexel(y, t.Height, t.WrapV))
	}
	top := lerpColor(at(x0, y0), at(x0+1, y0), tx)
	bot := lerpColor(at(x0, y0+1), at(x0+1, y0+1), tx)
	return lerpColor(top, bot, ty)
}

func wrapTexel(x, size int, mode WrapMode) int {
	if mode == WrapClamp {
		return max(0, min(x, size-1))
	}
	x %= size
	if x < 0 {
		x += size
	}
	return x
}
