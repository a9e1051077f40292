package tga

import (
	"bufio"
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
)

// Options control encoding.
type Options struct {
	// RLE enables run-length compression.
	RLE bool
}

// Encode writes img as TGA. *image.Gray is written as grayscale; other
// images are written as 24 bpp when fully opaque and 32 bpp otherwise.
// Rows are stored top to bottom.
func Encode(w io.Writer, img image.Image, o *Options) error {
	b := img.Bounds()
	if b.Dx() > 0xFFFF || b.Dy() > 0xFFFF {
		return errors.New("tga: image too large")
	}
	rle := o != nil && o.RLE

	gray, isGray := img.(*image.Gray)
	bytesPerPixel := 3
	switch {
	case isGray:
		bytesPerPixel = 1
	case !opaque(img):
		bytesPerPixel = 4
	}

	var hdr [headerSize]byte
	switch {
	case isGray && rle:
		hdr[2] = TypeGrayRLE
	case isGray:
		hdr[2] = TypeGray
	case rle:
		hdr[2] = TypeTrueColorRLE
	default:
		hdr[2] = TypeTrueColor
	}
	hdr[12], hdr[13] = byte(b.Dx()), byte(b.Dx()>>8)
	hdr[14], hdr[15] = byte(b.Dy()), byte(b.Dy()>>8)
	hdr[16] = byte(bytesPerPixel * 8)
	hdr[17] = topToBottom
	if bytesPerPixel == 4 {
		hdr[17] |= 8 // alpha bits
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(hdr[:]); err != nil {
		return err
	}

	row := make([]byte, b.Dx()*bytesPerPixel)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		if isGray {
			copy(row, gray.Pix[gray.PixOffset(b.Min.X, y):])
		} else {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
				i := (x - b.Min.X) * bytesPerPixel
				row[i], row[i+1], row[i+2] = c.B, c.G, c.R
				if bytesPerPixel == 4 {
					row[i+3] = c.A
				}
			}
		}
		var err error
		if rle {
			err = writeRLE(bw, row, bytesPerPixel)
		} else {
			_, err = bw.Write(row)
		}
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}

func opaque(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}
	return false
}

// writeRLE compresses one scanline. Packets never cross scanlines.
func writeRLE(w *bufio.Writer, row []byte, bytesPerPixel int) error {
	n := len(row) / bytesPerPixel
	px := func(i int) []byte { return row[i*bytesPerPixel : (i+1)*bytesPerPixel] }

	for i := 0; i < n; {
		// Length of the run of identical pixels starting at i.
		run := 1
		for i+run < n && run < 128 && bytes.Equal(px(i), px(i+run)) {
			run++
		}
		if run > 1 {
			if err := w.WriteByte(byte(0x80 | (run - 1))); err != nil {
				return err
			}
			if _, err := w.Write(px(i)); err != nil {
				return err
			}
			i += run
			continue
		}

		// Raw packet up to the next run of two or more.
		raw := 1
		for i+raw < n && raw < 128 && !(i+raw+1 < n && bytes.Equal(px(i+raw), px(i+raw+1))) {
			raw++
		}
		if err := w.WriteByte(byte(raw - 1)); err != nil {
			return err
		}
		if _, err := w.Write(row[i*bytesPerPixel : (i+raw)*bytesPerPixel]); err != nil {
			return err
		}
		i += raw
	}
	return nil
}
