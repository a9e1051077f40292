package render

import "testing"

// quadTexture is 2x2 with red and green on the top row, blue and white on
// the bottom row.
func quadTexture(wrap WrapMode) *Texture {
	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, ColorRed)
	tex.SetPixel(1, 0, ColorGreen)
	tex.SetPixel(0, 1, ColorBlue)
	tex.SetPixel(1, 1, ColorWhite)
	tex.SetSampling(FilterNearest, wrap)
	return tex
}

func TestTextureSampleNearest(t *testing.T) {
	tests := []struct {
		name string
		wrap WrapMode
		u, v float64
		want Color
	}{
		{"bottom left", WrapRepeat, 0, 0, ColorBlue},
		{"top left edge", WrapRepeat, 0, 1, ColorRed},
		{"top right corner", WrapRepeat, 1, 1, ColorGreen},
		{"bottom right corner", WrapRepeat, 1, 0, ColorWhite},
		{"repeat past one", WrapRepeat, 1.25, 0.25, ColorBlue},
		{"repeat below zero", WrapRepeat, -0.25, -0.25, ColorGreen},
		{"clamp outside", WrapClamp, -1, 2, ColorRed},
		{"clamp top edge", WrapClamp, 0.9, 1, ColorGreen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quadTexture(tt.wrap).Sample(tt.u, tt.v); got != tt.want {
				t.Errorf("Sample(%v, %v) = %v, want %v", tt.u, tt.v, got, tt.want)
			}
		})
	}
}

func TestTextureSampleBilinear(t *testing.T) {
	tex := NewTexture(2, 1)
	tex.SetPixel(0, 0, ColorBlack)
	tex.SetPixel(1, 0, ColorWhite)

	if got := tex.Sample(0.5, 0.5); got != ColorWhite {
		t.Errorf("nearest Sample(0.5, 0.5) = %v, want white", got)
	}

	tex.SetSampling(FilterBilinear, WrapClamp)
	got := tex.Sample(0.5, 0.5)
	if got.R < 126 || got.R > 128 || got.A != 255 {
		t.Errorf("bilinear Sample(0.5, 0.5) = %v, want mid gray", got)
	}
	// Texel centers reproduce the texel.
	if got := tex.Sample(0.25, 0.5); got != ColorBlack {
		t.Errorf("bilinear Sample(0.25, 0.5) = %v, want black", got)
	}
}

func TestCheckerTexture(t *testing.T) {
	tex := NewCheckerTexture(4, 4, 2, ColorWhite, ColorBlack)
	tests := []struct {
		x, y int
		want Color
	}{
		{0, 0, ColorWhite},
		{1, 1, ColorWhite},
		{2, 0, ColorBlack},
		{0, 2, ColorBlack},
		{3, 3, ColorWhite},
	}
	for _, tt := range tests {
		if got := tex.GetPixel(tt.x, tt.y); got != tt.want {
			t.Errorf("GetPixel(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
