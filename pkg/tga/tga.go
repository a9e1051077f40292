// Package tga reads and writes Truevision TGA images.
//
// Supported are uncompressed and RLE compressed true-color (24 and 32 bpp)
// and grayscale (8 bpp) images. Color-mapped images are rejected.
package tga

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

// TGA image type constants.
const (
	TypeTrueColor    = 2  // Uncompressed true-color
	TypeGray         = 3  // Uncompressed grayscale
	TypeTrueColorRLE = 10 // RLE compressed true-color
	TypeGrayRLE      = 11 // RLE compressed grayscale
)

const (
	headerSize  = 18
	topToBottom = 0x20
)

// MaxPixels bounds the image size Decode will allocate for.
const MaxPixels = 1 << 26

var (
	// ErrUnsupported is returned for valid but unsupported TGA variants.
	ErrUnsupported = errors.New("tga: unsupported format")
	// ErrTooLarge is returned when the header asks for more than MaxPixels.
	ErrTooLarge = errors.New("tga: image too large")
)

type header struct {
	idLength   int
	imageType  byte
	width      int
	height     int
	bpp        int
	descriptor byte
}

func readHeader(r io.Reader) (header, error) {
	var b [headerSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return header{}, fmt.Errorf("tga: read header: %w", err)
	}
	h := header{
		idLength:   int(b[0]),
		imageType:  b[2],
		width:      int(b[12]) | int(b[13])<<8,
		height:     int(b[14]) | int(b[15])<<8,
		bpp:        int(b[16]),
		descriptor: b[17],
	}
	if b[1] != 0 {
		return h, fmt.Errorf("%w: color-mapped image", ErrUnsupported)
	}
	switch h.imageType {
	case TypeTrueColor, TypeTrueColorRLE:
		if h.bpp != 24 && h.bpp != 32 {
			return h, fmt.Errorf("%w: true-color depth %d", ErrUnsupported, h.bpp)
		}
	case TypeGray, TypeGrayRLE:
		if h.bpp != 8 {
			return h, fmt.Errorf("%w: grayscale depth %d", ErrUnsupported, h.bpp)
		}
	default:
		return h, fmt.Errorf("%w: image type %d", ErrUnsupported, h.imageType)
	}
	return h, nil
}

func (h header) gray() bool {
	return h.imageType == TypeGray || h.imageType == TypeGrayRLE
}

func (h header) rle() bool {
	return h.imageType == TypeTrueColorRLE || h.imageType == TypeGrayRLE
}

// DecodeConfig returns the dimensions and color model without decoding the
// pixels.
func DecodeConfig(r io.Reader) (image.Config, error) {
	h, err := readHeader(r)
	if err != nil {
		return image.Config{}, err
	}
	model := color.RGBAModel
	if h.gray() {
		model = color.GrayModel
	}
	return image.Config{ColorModel: model, Width: h.width, Height: h.height}, nil
}

// Decode reads a TGA image. Grayscale files decode to *image.Gray, all
// others to *image.RGBA, always with a top-left origin.
func Decode(r io.Reader) (image.Image, error) {
	br := bufio.NewReader(r)
	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}
	if _, err := br.Discard(h.idLength); err != nil {
		return nil, fmt.Errorf("tga: skip id field: %w", err)
	}

	if h.width*h.height > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, h.width, h.height)
	}
	bytesPerPixel := h.bpp / 8
	raw := make([]byte, h.width*h.height*bytesPerPixel)
	if h.rle() {
		err = readRLE(br, raw, bytesPerPixel)
	} else {
		_, err = io.ReadFull(br, raw)
	}
	if err != nil {
		return nil, fmt.Errorf("tga: pixel data truncated: %w", err)
	}

	rect := image.Rect(0, 0, h.width, h.height)
	flip := h.descriptor&topToBottom == 0
	destRow := func(y int) int {
		if flip {
			return h.height - 1 - y
		}
		return y
	}

	if h.gray() {
		img := image.NewGray(rect)
		for y := range h.height {
			copy(img.Pix[destRow(y)*img.Stride:], raw[y*h.width:(y+1)*h.width])
		}
		return img, nil
	}

	img := image.NewRGBA(rect)
	for y := range h.height {
		for x := range h.width {
			i := (y*h.width + x) * bytesPerPixel
			a := uint8(255)
			if bytesPerPixel == 4 {
				a = raw[i+3]
			}
			img.SetRGBA(x, destRow(y), color.RGBA{R: raw[i+2], G: raw[i+1], B: raw[i], A: a})
		}
	}
	return img, nil
}

// readRLE expands run-length packets into dst.
func readRLE(r *bufio.Reader, dst []byte, bytesPerPixel int) error {
	pixel := make([]byte, bytesPerPixel)
	for n := 0; n < len(dst); {
		packet, err := r.ReadByte()
		if err != nil {
			return err
		}
		count := int(packet&0x7F) + 1
		if n+count*bytesPerPixel > len(dst) {
			return errors.New("run exceeds image size")
		}

		if packet&0x80 != 0 {
			// Run packet: one pixel repeated.
			if _, err := io.ReadFull(r, pixel); err != nil {
				return err
			}
			for range count {
				n += copy(dst[n:], pixel)
			}
			continue
		}
		// Raw packet.
		if _, err := io.ReadFull(r, dst[n:n+count*bytesPerPixel]); err != nil {
			return err
		}
		n += count * bytesPerPixel
	}
	return nil
}
