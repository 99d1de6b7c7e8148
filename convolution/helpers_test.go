package convolution

import (
	"testing"

	"github.com/gogpu/improc"
)

// newImage builds a buffer of type typ whose element (x, y, c) is f(x, y, c).
func newImage(t *testing.T, typ improc.ImageType, w, h int, f func(x, y, c int) float64) improc.PixelBuffer {
	t.Helper()
	ch := typ.Profile.Channels()
	values := make([]float64, w*h*ch)
	for y := range h {
		for x := range w {
			for c := range ch {
				values[(y*w+x)*ch+c] = f(x, y, c)
			}
		}
	}
	b, err := improc.NewFromValues(typ, w, h, values)
	if err != nil {
		t.Fatalf("NewFromValues(%v) error = %v", typ, err)
	}
	return b
}

// newKernel builds a Float32Gray kernel from rows of weights.
func newKernel(t *testing.T, rows ...[]float64) improc.PixelBuffer {
	t.Helper()
	var values []float64
	for _, r := range rows {
		values = append(values, r...)
	}
	k, err := improc.NewFromValues(improc.Float32Gray, len(rows[0]), len(rows), values)
	if err != nil {
		t.Fatalf("NewFromValues(kernel) error = %v", err)
	}
	return k
}

// ones returns a w x h kernel of ones.
func ones(t *testing.T, w, h int) improc.PixelBuffer {
	t.Helper()
	rows := make([][]float64, h)
	for i := range rows {
		rows[i] = make([]float64, w)
		for j := range rows[i] {
			rows[i][j] = 1
		}
	}
	return newKernel(t, rows...)
}

// at returns element (x, y, c) of b.
func at(b improc.PixelBuffer, x, y, c int) float64 {
	return b.Float64At(y*b.StrideY() + x*b.StrideX() + c)
}

// uniform returns a pixel function with value v in color channels and the
// kind's maximum in alpha.
func uniform(typ improc.ImageType, v float64) func(x, y, c int) float64 {
	return func(_, _, c int) float64 {
		if typ.Profile.HasAlpha() && c == 3 {
			return typ.Kind.Max()
		}
		return v
	}
}

var (
	gray64 = improc.Float64Gray
	grayU8 = improc.ImageType{Kind: improc.U8Clamped, Profile: improc.Gray}
)
