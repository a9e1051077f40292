package render

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"

	"github.com/taigrr/softrender/pkg/tga"
)

// SaveImage writes img to path, choosing the format from the extension:
// .tga is written RLE compressed, anything else as PNG.
func SaveImage(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".tga":
		err = tga.Encode(f, img, &tga.Options{RLE: true})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// Upscale enlarges img by an integer factor with nearest-neighbor
// sampling, so every rendered pixel becomes a factor x factor block.
func Upscale(img image.Image, factor int) image.Image {
	if factor <= 1 {
		return img
	}
	b := img.Bounds()
	return resize.Resize(uint(b.Dx()*factor), uint(b.Dy()*factor), img, resize.NearestNeighbor)
}
