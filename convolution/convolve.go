package convolution

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gogpu/improc"
)

// Convolve applies kernel to src and returns a new buffer of the same type.
//
// kernel must be a Gray buffer of kind F32 or F64. Its half sizes are
// width>>1 and height>>1, so tap (kx, ky) reads source pixel
// (x+kx-width>>1, y+ky-height>>1).
//
// Unless disabled with WithNormalize(false), accumulated values are divided
// by the kernel weight sum; kernels whose weights sum to zero get the element
// kind's bias (128 for 8-bit kinds) added instead. Results are rounded half
// away from zero and stored with the output kind's store semantics. The
// alpha channel of Rgba images is not filtered; it is set to the kind's
// maximum.
//
// The output has the dimensions of src, except under CropImage where it is
// smaller by the kernel half size on each side.
//
// src and kernel are never modified. On error no buffer is returned.
func Convolve(src, kernel improc.PixelBuffer, opts ...Option) (improc.PixelBuffer, error) {
	o := buildOptions(opts)
	if err := validate(src, kernel, o); err != nil {
		return nil, err
	}

	out := OutputSize(src.Width(), src.Height(), kernel.Width(), kernel.Height(), o.effectiveBorder())
	dst, err := improc.New(src.Type(), out.Width(), out.Height())
	if err != nil {
		return nil, err
	}
	if err := dispatch(dst, src, kernel, o); err != nil {
		return nil, err
	}
	return dst, nil
}

// ConvolveInto is like Convolve but writes into dst, which must have the
// type of src and the output dimensions (see OutputSize). dst must not be
// src. On error dst is left unmodified.
func ConvolveInto(dst, src, kernel improc.PixelBuffer, opts ...Option) error {
	o := buildOptions(opts)
	if err := validate(src, kernel, o); err != nil {
		return err
	}
	if improc.IsNil(dst) {
		return fmt.Errorf("convolution: nil destination: %w", improc.ErrDimension)
	}
	if dst.Kind() != src.Kind() {
		return fmt.Errorf("convolution: destination kind %s cannot hold %s: %w",
			dst.Kind(), src.Kind(), improc.ErrElementKindMismatch)
	}
	if dst.Profile() != src.Profile() {
		return fmt.Errorf("convolution: destination profile %s, source %s: %w",
			dst.Profile(), src.Profile(), improc.ErrChannelProfileMismatch)
	}
	out := OutputSize(src.Width(), src.Height(), kernel.Width(), kernel.Height(), o.effectiveBorder())
	if dst.Width() != out.Width() || dst.Height() != out.Height() {
		return fmt.Errorf("convolution: destination is %dx%d, want %dx%d: %w",
			dst.Width(), dst.Height(), out.Width(), out.Height(), improc.ErrDimension)
	}
	if dst == src {
		return fmt.Errorf("convolution: destination aliases source: %w", improc.ErrDimension)
	}
	return dispatch(dst, src, kernel, o)
}

// Apply is the four-argument form of Convolve.
func Apply(src, kernel improc.PixelBuffer, normalize bool, policy improc.BorderPolicy) (improc.PixelBuffer, error) {
	return Convolve(src, kernel, WithNormalize(normalize), WithBorderPolicy(policy))
}

// OutputSize returns the output rectangle size for an image and kernel
// under the given policy. Its origin is always (0, 0).
func OutputSize(width, height, kw, kh int, policy improc.BorderPolicy) Rect {
	r := outputRect(width, height, kw, kh, policy)
	return Rect{X1: r.Width(), Y1: r.Height()}
}

// OutputSizeOf returns the size of the image Convolve would return for src,
// kernel and opts.
func OutputSizeOf(src, kernel improc.PixelBuffer, opts ...Option) Rect {
	o := buildOptions(opts)
	return OutputSize(src.Width(), src.Height(), kernel.Width(), kernel.Height(), o.effectiveBorder())
}

// validate checks everything that can fail before any buffer is allocated.
func validate(src, kernel improc.PixelBuffer, o options) error {
	if improc.IsNil(src) {
		return fmt.Errorf("convolution: nil image: %w", improc.ErrDimension)
	}
	if improc.IsNil(kernel) {
		return fmt.Errorf("convolution: nil kernel: %w", improc.ErrKernelSize)
	}
	if kernel.Width() <= 0 || kernel.Height() <= 0 {
		return fmt.Errorf("convolution: kernel is %dx%d: %w", kernel.Width(), kernel.Height(), improc.ErrKernelSize)
	}
	if kernel.Profile() != improc.Gray {
		return fmt.Errorf("convolution: kernel profile is %s, want Gray: %w", kernel.Profile(), improc.ErrChannelProfileMismatch)
	}
	if !kernel.Kind().IsFloat() {
		return fmt.Errorf("convolution: kernel kind is %s, want Float32 or Float64: %w", kernel.Kind(), improc.ErrElementKindMismatch)
	}
	p := o.effectiveBorder()
	if !p.IsValid() {
		return fmt.Errorf("convolution: border policy %d: %w", p, improc.ErrInvalidBorderPolicy)
	}
	if p == improc.CropImage {
		out := OutputSize(src.Width(), src.Height(), kernel.Width(), kernel.Height(), p)
		if out.Empty() {
			return fmt.Errorf("convolution: %dx%d kernel leaves nothing of a %dx%d image under CropImage: %w",
				kernel.Width(), kernel.Height(), src.Width(), src.Height(), improc.ErrKernelSize)
		}
	}
	return nil
}

// dispatch runs the engine instantiated for the storage type of src.
func dispatch(dst, src, kernel improc.PixelBuffer, o options) error {
	weights := make([]float64, kernel.Len())
	for i := range weights {
		weights[i] = kernel.Float64At(i)
	}

	switch s := src.(type) {
	case *improc.Buffer[uint8]:
		return run(dst, s, weights, kernel, o)
	case *improc.Buffer[uint16]:
		return run(dst, s, weights, kernel, o)
	case *improc.Buffer[uint32]:
		return run(dst, s, weights, kernel, o)
	case *improc.Buffer[int8]:
		return run(dst, s, weights, kernel, o)
	case *improc.Buffer[int16]:
		return run(dst, s, weights, kernel, o)
	case *improc.Buffer[int32]:
		return run(dst, s, weights, kernel, o)
	case *improc.Buffer[float32]:
		return run(dst, s, weights, kernel, o)
	case *improc.Buffer[float64]:
		return run(dst, s, weights, kernel, o)
	default:
		return fmt.Errorf("convolution: unsupported image %T: %w", src, improc.ErrInvalidElementKind)
	}
}

func run[T improc.Element](dst improc.PixelBuffer, src *improc.Buffer[T], weights []float64, kernel improc.PixelBuffer, o options) error {
	d, ok := improc.As[T](dst)
	if !ok {
		return fmt.Errorf("convolution: destination %s cannot hold %s: %w", dst.Type(), src.Type(), improc.ErrElementKindMismatch)
	}

	e := newEngine(src, d, weights, kernel.Width(), kernel.Height(), o)
	if l := improc.Logger(); l.Enabled(context.Background(), slog.LevelDebug) {
		l.Debug("convolution",
			slog.String("image", src.String()),
			slog.Int("kernelWidth", e.kw),
			slog.Int("kernelHeight", e.kh),
			slog.Int("taps", len(e.taps)),
			slog.Float64("kernelSum", e.sum),
			slog.String("border", e.policy.String()),
			slog.Bool("normalize", e.normalize),
			slog.Int("centerPixels", Partition(e.width, e.height, e.kw, e.kh)[Center].Rect.Pixels()),
		)
	}
	e.run()
	return nil
}
