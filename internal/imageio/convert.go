package imageio

import (
	"image"
	"image/color"
	"math"

	"github.com/gogpu/improc"
)

// FromStdImage converts a standard library image. Gray images become
// Uint8ClampedGray, 16-bit gray images Uint16Gray, and everything else
// Uint8ClampedRgba with non-premultiplied alpha.
func FromStdImage(img image.Image) (improc.PixelBuffer, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	switch src := img.(type) {
	case *image.Gray:
		buf, err := improc.NewBuffer[uint8](improc.U8Clamped, improc.Gray, width, height, nil)
		if err != nil {
			return nil, err
		}
		for y := range height {
			start := y * src.Stride
			copy(buf.Row(y), src.Pix[start:start+width])
		}
		return buf, nil

	case *image.Gray16:
		buf, err := improc.NewBuffer[uint16](improc.U16, improc.Gray, width, height, nil)
		if err != nil {
			return nil, err
		}
		for y := range height {
			for x := range width {
				buf.Set(x, y, 0, src.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y)
			}
		}
		return buf, nil

	case *image.NRGBA:
		buf, err := improc.NewBuffer[uint8](improc.U8Clamped, improc.Rgba, width, height, nil)
		if err != nil {
			return nil, err
		}
		for y := range height {
			start := y * src.Stride
			copy(buf.Row(y), src.Pix[start:start+width*4])
		}
		return buf, nil
	}

	// Generic slow path for any image type.
	buf, err := improc.NewBuffer[uint8](improc.U8Clamped, improc.Rgba, width, height, nil)
	if err != nil {
		return nil, err
	}
	for y := range height {
		for x := range width {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			p := buf.Pixel(x, y)
			p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
		}
	}
	return buf, nil
}

// ToStdImage converts a pixel buffer to an 8-bit standard library image.
// Gray buffers become *image.Gray; Rgb and Rgba buffers become
// *image.NRGBA, with Rgb pixels fully opaque.
//
// Channel values are scaled from the kind's nominal range [0, Max] to
// [0, 255] and clamped, so float images are expected in [0, 1].
func ToStdImage(b improc.PixelBuffer) (image.Image, error) {
	if improc.IsNil(b) {
		return nil, ErrEmptyData
	}
	width, height := b.Width(), b.Height()
	scale := 255 / b.Kind().Max()
	channels := b.Channels()

	if b.Profile() == improc.Gray {
		img := image.NewGray(image.Rect(0, 0, width, height))
		for y := range height {
			for x := range width {
				img.Pix[y*img.Stride+x] = to8(b.Float64At(y*width+x), scale)
			}
		}
		return img, nil
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			src := (y*width + x) * channels
			dst := y*img.Stride + x*4
			for c := range 3 {
				img.Pix[dst+c] = to8(b.Float64At(src+c), scale)
			}
			if b.Profile().HasAlpha() {
				img.Pix[dst+3] = to8(b.Float64At(src+3), scale)
			} else {
				img.Pix[dst+3] = 0xff
			}
		}
	}
	return img, nil
}

// to8 scales v into a byte, rounding and clamping.
func to8(v, scale float64) uint8 {
	v = math.Round(v * scale)
	switch {
	case v != v || v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}
