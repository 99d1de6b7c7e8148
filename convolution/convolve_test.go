package convolution

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/improc"
)

func TestConvolveIdentity(t *testing.T) {
	identity := newKernel(t, []float64{1})

	for _, typ := range improc.AllImageTypes() {
		src := newImage(t, typ, 5, 4, func(x, y, c int) float64 {
			if typ.Profile.HasAlpha() && c == 3 {
				return typ.Kind.Max()
			}
			return float64((x*7 + y*13 + c*3) % 100)
		})
		for _, policy := range improc.BorderPolicies() {
			t.Run(fmt.Sprintf("%s/%s", typ, policy), func(t *testing.T) {
				got, err := Convolve(src, identity, WithBorderPolicy(policy))
				if err != nil {
					t.Fatalf("Convolve() error = %v", err)
				}
				if !improc.Equal(got, src) {
					t.Errorf("identity kernel changed the image")
				}
			})
		}
	}
}

func TestConvolveUniformBoxBlur(t *testing.T) {
	box := ones(t, 3, 3)
	src := newImage(t, grayU8, 5, 5, uniform(grayU8, 100))

	got, err := Convolve(src, box, WithBorderPolicy(improc.SquashKernel))
	if err != nil {
		t.Fatalf("Convolve() error = %v", err)
	}
	for i := 0; i < got.Len(); i++ {
		if v := got.Float64At(i); v != 100 {
			t.Fatalf("element %d = %v, want 100", i, v)
		}
	}
}

func TestConvolveUniformAllTypes(t *testing.T) {
	box := ones(t, 3, 3)
	for _, typ := range improc.AllImageTypes() {
		src := newImage(t, typ, 4, 3, uniform(typ, 10))
		for _, policy := range []improc.BorderPolicy{improc.SquashKernel, improc.MirrorImage, improc.CropKernel, improc.CropImage} {
			t.Run(fmt.Sprintf("%s/%s", typ, policy), func(t *testing.T) {
				got, err := Convolve(src, box, WithBorderPolicy(policy))
				if err != nil {
					t.Fatalf("Convolve() error = %v", err)
				}
				want := newImage(t, typ, got.Width(), got.Height(), uniform(typ, 10))
				if !improc.Equal(got, want) {
					t.Errorf("uniform image changed under %v", policy)
				}
			})
		}
	}
}

func TestConvolveZeroSumBias(t *testing.T) {
	k := newKernel(t, []float64{1, -1}, []float64{-1, 1})

	tests := []struct {
		typ  improc.ImageType
		want float64
	}{
		{improc.ImageType{Kind: improc.U8, Profile: improc.Gray}, 128},
		{improc.CanvasRGBA, 128},
		{improc.ImageType{Kind: improc.U16, Profile: improc.Rgb}, 32768},
		{improc.ImageType{Kind: improc.I16, Profile: improc.Gray}, 0},
		{improc.Float32Gray, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			src := newImage(t, tt.typ, 4, 4, uniform(tt.typ, 50))
			got, err := Convolve(src, k)
			if err != nil {
				t.Fatalf("Convolve() error = %v", err)
			}
			colors := tt.typ.Profile.ColorChannels()
			for y := range 4 {
				for x := range 4 {
					for c := range colors {
						if v := at(got, x, y, c); v != tt.want {
							t.Fatalf("(%d, %d, %d) = %v, want %v", x, y, c, v, tt.want)
						}
					}
				}
			}
		})
	}
}

func TestConvolveZeroSumWithoutNormalize(t *testing.T) {
	k := newKernel(t, []float64{1, -1}, []float64{-1, 1})
	src := newImage(t, grayU8, 3, 3, uniform(grayU8, 50))

	got, err := Convolve(src, k, WithNormalize(false))
	if err != nil {
		t.Fatalf("Convolve() error = %v", err)
	}
	for i := 0; i < got.Len(); i++ {
		if v := got.Float64At(i); v != 0 {
			t.Fatalf("element %d = %v, want 0", i, v)
		}
	}
}

func TestConvolveEvenKernelOffsets(t *testing.T) {
	src := newImage(t, gray64, 6, 1, func(x, _, _ int) float64 { return float64(x + 1) })

	// A 4-wide kernel has half size 2: tap kx reads x+kx-2.
	for kx := range 4 {
		row := make([]float64, 4)
		row[kx] = 1
		k := newKernel(t, row)

		got, err := Convolve(src, k, WithBorderPolicy(improc.LeaveBlack), WithNormalize(false))
		if err != nil {
			t.Fatalf("Convolve() error = %v", err)
		}
		for x := range 6 {
			want := 0.0
			if sx := x + kx - 2; sx >= 0 && sx < 6 {
				want = float64(sx + 1)
			}
			if v := at(got, x, 0, 0); v != want {
				t.Errorf("kx=%d: out[%d] = %v, want %v", kx, x, v, want)
			}
		}
	}
}

func TestConvolveBorderPolicies(t *testing.T) {
	box := ones(t, 3, 3)
	uniform90 := newImage(t, gray64, 3, 3, uniform(gray64, 90))
	ramp := newImage(t, gray64, 3, 3, func(x, y, _ int) float64 { return float64(y*3 + x) })

	tests := []struct {
		name   string
		src    improc.PixelBuffer
		policy improc.BorderPolicy
		want   []float64
	}{
		{
			name:   "LeaveBlack darkens the border",
			src:    uniform90,
			policy: improc.LeaveBlack,
			want: []float64{
				40, 60, 40,
				60, 90, 60,
				40, 60, 40,
			},
		},
		{
			name:   "CropKernel renormalizes",
			src:    ramp,
			policy: improc.CropKernel,
			want: []float64{
				2, 2.5, 3,
				3.5, 4, 4.5,
				5, 5.5, 6,
			},
		},
		{
			name:   "SquashKernel duplicates the edge",
			src:    ramp,
			policy: improc.SquashKernel,
			want: []float64{
				4.0 / 3, 2, 8.0 / 3,
				10.0 / 3, 4, 14.0 / 3,
				16.0 / 3, 6, 20.0 / 3,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convolve(tt.src, box, WithBorderPolicy(tt.policy))
			if err != nil {
				t.Fatalf("Convolve() error = %v", err)
			}
			f, _ := improc.As[float64](got)
			if diff := cmp.Diff(tt.want, f.Data(), cmpApprox); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

var cmpApprox = cmp.Comparer(func(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
})

func TestConvolveLeaveWhite(t *testing.T) {
	box := ones(t, 3, 3)
	src := newImage(t, improc.ImageType{Kind: improc.U8, Profile: improc.Gray}, 3, 3, uniform(grayU8, 0))

	got, err := Convolve(src, box, WithBorderPolicy(improc.LeaveWhite))
	if err != nil {
		t.Fatalf("Convolve() error = %v", err)
	}
	// Corners see 5 outside taps, edges 3, the center none.
	want := []uint8{
		142, 85, 142,
		85, 0, 85,
		142, 85, 142,
	}
	b, _ := improc.As[uint8](got)
	if diff := cmp.Diff(want, b.Data()); diff != "" {
		t.Errorf("LeaveWhite mismatch (-want +got):\n%s", diff)
	}
}

func TestConvolveLeavePristine(t *testing.T) {
	box := ones(t, 3, 3)
	src := newImage(t, gray64, 3, 3, func(x, y, _ int) float64 {
		if x == 0 && y == 0 {
			return 9
		}
		return float64(y*3 + x)
	})

	got, err := Convolve(src, box, WithBorderPolicy(improc.LeavePristine))
	if err != nil {
		t.Fatalf("Convolve() error = %v", err)
	}
	for y := range 3 {
		for x := range 3 {
			want := at(src, x, y, 0)
			if x == 1 && y == 1 {
				want = 5
			}
			if v := at(got, x, y, 0); math.Abs(v-want) > 1e-9 {
				t.Errorf("(%d, %d) = %v, want %v", x, y, v, want)
			}
		}
	}
}

func TestConvolveLeavePristineAlpha(t *testing.T) {
	typ := improc.ImageType{Kind: improc.F32, Profile: improc.Rgba}
	src := newImage(t, typ, 3, 3, func(x, _, c int) float64 {
		if c == 3 {
			return 0
		}
		return float64(x) / 4
	})

	got, err := Convolve(src, ones(t, 3, 3), WithBorderPolicy(improc.LeavePristine))
	if err != nil {
		t.Fatalf("Convolve() error = %v", err)
	}
	if v := at(got, 0, 0, 0); v != 0 {
		t.Errorf("pristine color = %v, want 0", v)
	}
	if v := at(got, 2, 0, 2); v != 0.5 {
		t.Errorf("pristine color = %v, want 0.5", v)
	}
	for y := range 3 {
		for x := range 3 {
			if v := at(got, x, y, 3); v != 1 {
				t.Errorf("alpha at (%d, %d) = %v, want 1", x, y, v)
			}
		}
	}
}

func TestConvolveCropImage(t *testing.T) {
	src := newImage(t, gray64, 5, 4, func(x, y, _ int) float64 { return float64(y*5 + x) })

	got, err := Convolve(src, ones(t, 3, 3), WithBorderPolicy(improc.CropImage))
	if err != nil {
		t.Fatalf("Convolve() error = %v", err)
	}
	if got.Width() != 3 || got.Height() != 2 {
		t.Fatalf("CropImage output is %dx%d, want 3x2", got.Width(), got.Height())
	}
	for y := range 2 {
		for x := range 3 {
			want := float64((y+1)*5 + x + 1)
			if v := at(got, x, y, 0); math.Abs(v-want) > 1e-9 {
				t.Errorf("(%d, %d) = %v, want %v", x, y, v, want)
			}
		}
	}

	if r := OutputSize(5, 4, 3, 3, improc.CropImage); r.Width() != 3 || r.Height() != 2 {
		t.Errorf("OutputSize(CropImage) = %+v, want 3x2", r)
	}
	if r := OutputSize(5, 4, 3, 3, improc.LeaveBlack); r.Width() != 5 || r.Height() != 4 {
		t.Errorf("OutputSize(LeaveBlack) = %+v, want 5x4", r)
	}
}

func TestConvolveCropImageTooLarge(t *testing.T) {
	src := newImage(t, gray64, 2, 2, uniform(gray64, 1))
	_, err := Convolve(src, ones(t, 3, 3), WithBorderPolicy(improc.CropImage))
	if !errors.Is(err, improc.ErrKernelSize) {
		t.Errorf("Convolve() error = %v, want %v", err, improc.ErrKernelSize)
	}
}

func TestConvolveMirrorImage(t *testing.T) {
	src := newImage(t, gray64, 4, 1, func(x, _, _ int) float64 { return float64(10 * (x + 1)) })

	tests := []struct {
		name   string
		kernel []float64
		policy improc.BorderPolicy
		want   []float64
	}{
		{"mirror left", []float64{1, 0, 0}, improc.MirrorImage, []float64{30, 10, 20, 30}},
		{"mirror right", []float64{0, 0, 1}, improc.MirrorImage, []float64{20, 30, 40, 40}},
		{"squash left", []float64{1, 0, 0}, improc.SquashKernel, []float64{10, 10, 20, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convolve(src, newKernel(t, tt.kernel), WithBorderPolicy(tt.policy))
			if err != nil {
				t.Fatalf("Convolve() error = %v", err)
			}
			f, _ := improc.As[float64](got)
			if diff := cmp.Diff(tt.want, f.Data()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConvolveLegacyBorder(t *testing.T) {
	src := newImage(t, gray64, 5, 3, func(x, y, _ int) float64 { return float64(x*x + y) })
	k := newKernel(t, []float64{1, 2, 0}, []float64{0, 1, 3}, []float64{1, 0, 1})

	mirror, err := Convolve(src, k, WithBorderPolicy(improc.MirrorImage))
	if err != nil {
		t.Fatal(err)
	}
	legacy, err := Convolve(src, k, WithBorderPolicy(improc.LeaveBlack), WithLegacyBorder())
	if err != nil {
		t.Fatal(err)
	}
	if !improc.Equal(mirror, legacy) {
		t.Error("WithLegacyBorder() result differs from MirrorImage")
	}
}

func TestConvolveNormalizeOff(t *testing.T) {
	box := ones(t, 3, 3)
	tests := []struct {
		typ  improc.ImageType
		want float64
	}{
		{grayU8, 255},
		{improc.ImageType{Kind: improc.U8, Profile: improc.Gray}, 132},
		{improc.ImageType{Kind: improc.U16, Profile: improc.Gray}, 900},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			src := newImage(t, tt.typ, 3, 3, uniform(tt.typ, 100))
			got, err := Convolve(src, box, WithNormalize(false))
			if err != nil {
				t.Fatalf("Convolve() error = %v", err)
			}
			if v := at(got, 1, 1, 0); v != tt.want {
				t.Errorf("center = %v, want %v", v, tt.want)
			}
		})
	}
}

func TestConvolveAlphaIsMax(t *testing.T) {
	typ := improc.ImageType{Kind: improc.U16, Profile: improc.Rgba}
	src := newImage(t, typ, 4, 4, func(_, _, c int) float64 {
		if c == 3 {
			return 5
		}
		return 1000
	})

	got, err := Convolve(src, ones(t, 3, 3))
	if err != nil {
		t.Fatalf("Convolve() error = %v", err)
	}
	for y := range 4 {
		for x := range 4 {
			if v := at(got, x, y, 3); v != 65535 {
				t.Fatalf("alpha at (%d, %d) = %v, want 65535", x, y, v)
			}
			if v := at(got, x, y, 0); v != 1000 {
				t.Fatalf("red at (%d, %d) = %v, want 1000", x, y, v)
			}
		}
	}
}

func TestConvolveFloat64Kernel(t *testing.T) {
	k, _ := improc.NewFromValues(improc.Float64Gray, 3, 1, []float64{0.25, 0.5, 0.25})
	src := newImage(t, gray64, 3, 1, func(x, _, _ int) float64 { return float64(x * 4) })

	got, err := Convolve(src, k)
	if err != nil {
		t.Fatalf("Convolve() error = %v", err)
	}
	want := []float64{1, 4, 7}
	f, _ := improc.As[float64](got)
	if diff := cmp.Diff(want, f.Data()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestConvolveLargerKernelThanImage(t *testing.T) {
	src := newImage(t, grayU8, 2, 2, uniform(grayU8, 60))
	for _, policy := range []improc.BorderPolicy{improc.SquashKernel, improc.MirrorImage, improc.CropKernel} {
		got, err := Convolve(src, ones(t, 7, 5), WithBorderPolicy(policy))
		if err != nil {
			t.Fatalf("%v: Convolve() error = %v", policy, err)
		}
		for i := 0; i < got.Len(); i++ {
			if v := got.Float64At(i); v != 60 {
				t.Fatalf("%v: element %d = %v, want 60", policy, i, v)
			}
		}
	}
}

func TestConvolveDoesNotModifyInputs(t *testing.T) {
	src := newImage(t, improc.CanvasRGBA, 6, 5, func(x, y, c int) float64 { return float64(x*40 + y*3 + c) })
	k := newKernel(t, []float64{-1, -1, -1}, []float64{-1, 8, -1}, []float64{-1, -1, -1})
	srcCopy := improc.Clone(src)
	kCopy := improc.Clone(k)

	for _, policy := range improc.BorderPolicies() {
		if _, err := Convolve(src, k, WithBorderPolicy(policy)); err != nil {
			t.Fatalf("%v: Convolve() error = %v", policy, err)
		}
	}
	if !improc.Equal(src, srcCopy) {
		t.Error("Convolve() modified the source image")
	}
	if !improc.Equal(k, kCopy) {
		t.Error("Convolve() modified the kernel")
	}
}

func TestConvolveErrors(t *testing.T) {
	src := newImage(t, grayU8, 4, 4, uniform(grayU8, 1))
	rgbKernel, _ := improc.New(improc.ImageType{Kind: improc.F32, Profile: improc.Rgb}, 3, 3)
	intKernel, _ := improc.New(improc.ImageType{Kind: improc.U8, Profile: improc.Gray}, 3, 3)

	tests := []struct {
		name    string
		src     improc.PixelBuffer
		kernel  improc.PixelBuffer
		opts    []Option
		wantErr error
	}{
		{"nil kernel", src, nil, nil, improc.ErrKernelSize},
		{"nil image", nil, ones(t, 3, 3), nil, improc.ErrDimension},
		{"nil image buffer", (*improc.Buffer[uint8])(nil), ones(t, 3, 3), nil, improc.ErrDimension},
		{"nil kernel buffer", src, (*improc.Buffer[float32])(nil), nil, improc.ErrKernelSize},
		{"rgb kernel", src, rgbKernel, nil, improc.ErrChannelProfileMismatch},
		{"integer kernel", src, intKernel, nil, improc.ErrElementKindMismatch},
		{"unknown policy", src, ones(t, 3, 3), []Option{WithBorderPolicy(improc.BorderPolicy(42))}, improc.ErrInvalidBorderPolicy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convolve(tt.src, tt.kernel, tt.opts...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Convolve() error = %v, want %v", err, tt.wantErr)
			}
			if got != nil {
				t.Errorf("Convolve() returned %v on error", got)
			}
		})
	}
}

func TestConvolveInto(t *testing.T) {
	src := newImage(t, grayU8, 4, 4, uniform(grayU8, 77))
	box := ones(t, 3, 3)

	dst, _ := improc.New(src.Type(), 4, 4)
	if err := ConvolveInto(dst, src, box); err != nil {
		t.Fatalf("ConvolveInto() error = %v", err)
	}
	if !improc.Equal(dst, src) {
		t.Error("ConvolveInto() of a uniform image should reproduce it")
	}

	cropped, _ := improc.New(src.Type(), 2, 2)
	if err := ConvolveInto(cropped, src, box, WithBorderPolicy(improc.CropImage)); err != nil {
		t.Fatalf("ConvolveInto(CropImage) error = %v", err)
	}
	if v := at(cropped, 1, 1, 0); v != 77 {
		t.Errorf("cropped (1, 1) = %v, want 77", v)
	}
}

func TestConvolveIntoErrors(t *testing.T) {
	src := newImage(t, grayU8, 4, 4, uniform(grayU8, 77))
	box := ones(t, 3, 3)

	wrongKind, _ := improc.New(improc.ImageType{Kind: improc.U8, Profile: improc.Gray}, 4, 4)
	wrongProfile, _ := improc.New(improc.ImageType{Kind: improc.U8Clamped, Profile: improc.Rgb}, 4, 4)
	wrongSize := newImage(t, grayU8, 3, 4, uniform(grayU8, 9))

	tests := []struct {
		name    string
		dst     improc.PixelBuffer
		wantErr error
	}{
		{"nil", nil, improc.ErrDimension},
		{"nil buffer", (*improc.Buffer[uint8])(nil), improc.ErrDimension},
		{"kind", wrongKind, improc.ErrElementKindMismatch},
		{"profile", wrongProfile, improc.ErrChannelProfileMismatch},
		{"size", wrongSize, improc.ErrDimension},
		{"alias", src, improc.ErrDimension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before improc.PixelBuffer
			if !improc.IsNil(tt.dst) {
				before = improc.Clone(tt.dst)
			}
			err := ConvolveInto(tt.dst, src, box)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ConvolveInto() error = %v, want %v", err, tt.wantErr)
			}
			if !improc.IsNil(tt.dst) && !improc.Equal(tt.dst, before) {
				t.Error("ConvolveInto() modified dst on error")
			}
		})
	}
}

func TestApply(t *testing.T) {
	src := newImage(t, gray64, 3, 1, func(x, _, _ int) float64 { return float64(x) })
	k := newKernel(t, []float64{1, 1, 1})

	got, err := Apply(src, k, false, improc.LeaveBlack)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	f, _ := improc.As[float64](got)
	if diff := cmp.Diff([]float64{1, 3, 3}, f.Data()); diff != "" {
		t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
	}
}

func TestConvolveLogsDebug(t *testing.T) {
	orig := improc.Logger()
	t.Cleanup(func() { improc.SetLogger(orig) })

	var buf bytes.Buffer
	improc.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	src := newImage(t, grayU8, 5, 5, uniform(grayU8, 1))
	if _, err := Convolve(src, ones(t, 3, 3)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"convolution", "kernelSum=9", "border=SquashKernel", "centerPixels=9"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q lacks %q", out, want)
		}
	}
}
