// Package kernel builds convolution kernels.
//
// Every kernel is a Float32Gray buffer ready to pass to convolution.Convolve.
// Blur kernels are normalized to sum to 1; edge kernels sum to 0 so that the
// engine centers their response on the element kind's bias.
package kernel

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/improc"
)

// ErrUnknownKernel is returned by ByName for unknown kernel names.
var ErrUnknownKernel = errors.New("kernel: unknown kernel")

// Kernel is a convolution kernel: a single-channel float32 buffer.
type Kernel = improc.Buffer[float32]

// FromRows builds a kernel from rows of weights. All rows must have the same
// non-zero length.
func FromRows(rows ...[]float32) (*Kernel, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("kernel: empty kernel: %w", improc.ErrKernelSize)
	}
	w := len(rows[0])
	data := make([]float32, 0, w*len(rows))
	for i, r := range rows {
		if len(r) != w {
			return nil, fmt.Errorf("kernel: row %d has %d weights, want %d: %w", i, len(r), w, improc.ErrDataLength)
		}
		data = append(data, r...)
	}
	return improc.NewBuffer[float32](improc.F32, improc.Gray, w, len(rows), data)
}

// mustRows is FromRows for the fixed kernels below, whose shapes are known
// to be valid.
func mustRows(rows ...[]float32) *Kernel {
	k, err := FromRows(rows...)
	if err != nil {
		panic(err)
	}
	return k
}

// Identity returns the 1x1 kernel [1]. Convolving with it leaves an image
// unchanged.
func Identity() *Kernel {
	return mustRows([]float32{1})
}

// Gaussian1D generates a 1D Gaussian kernel for the given radius, used as
// the standard deviation. The kernel is normalized so all values sum to 1.
//
// The kernel size is 2*ceil(radius*3)+1, which covers 99.7% of the
// distribution. For radius <= 0 it returns [1].
func Gaussian1D(radius float64) []float32 {
	if radius <= 0 {
		return []float32{1.0}
	}

	halfSize := int(math.Ceil(radius * 3))
	size := halfSize*2 + 1
	kernel := make([]float32, size)

	// G(x) = exp(-x²/(2σ²)); the constant factor cancels in normalization.
	twoSigmaSq := 2 * radius * radius
	sum := float64(0)
	for i := 0; i < size; i++ {
		x := float64(i - halfSize)
		val := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(val)
		sum += val
	}

	if sum > 0 {
		invSum := float32(1.0 / sum)
		for i := range kernel {
			kernel[i] *= invSum
		}
	}
	return kernel
}

// Gaussian returns a square 2D Gaussian kernel, the outer product of
// Gaussian1D(radius) with itself.
func Gaussian(radius float64) *Kernel {
	return outer(Gaussian1D(radius))
}

// Box returns a (2*radius+1)² kernel of equal weights summing to 1.
// For radius <= 0 it returns Identity.
func Box(radius int) *Kernel {
	if radius <= 0 {
		return Identity()
	}
	size := radius*2 + 1
	row := make([]float32, size)
	for i := range row {
		row[i] = 1
	}
	k := outer(row)
	inv := float32(1) / float32(size*size)
	data := k.Data()
	for i := range data {
		data[i] *= inv
	}
	return k
}

// outer returns the square kernel v ⊗ v.
func outer(v []float32) *Kernel {
	n := len(v)
	data := make([]float32, n*n)
	for y := range n {
		for x := range n {
			data[y*n+x] = v[y] * v[x]
		}
	}
	k, err := improc.NewBuffer[float32](improc.F32, improc.Gray, n, n, data)
	if err != nil {
		panic(err)
	}
	return k
}

// Laplacian returns the 4-neighbour Laplacian. Its weights sum to 0.
func Laplacian() *Kernel {
	return mustRows(
		[]float32{0, 1, 0},
		[]float32{1, -4, 1},
		[]float32{0, 1, 0},
	)
}

// Edge returns the 8-neighbour edge detector. Its weights sum to 0.
func Edge() *Kernel {
	return mustRows(
		[]float32{-1, -1, -1},
		[]float32{-1, 8, -1},
		[]float32{-1, -1, -1},
	)
}

// SobelX returns the horizontal Sobel gradient. Its weights sum to 0.
func SobelX() *Kernel {
	return mustRows(
		[]float32{-1, 0, 1},
		[]float32{-2, 0, 2},
		[]float32{-1, 0, 1},
	)
}

// SobelY returns the vertical Sobel gradient. Its weights sum to 0.
func SobelY() *Kernel {
	return mustRows(
		[]float32{-1, -2, -1},
		[]float32{0, 0, 0},
		[]float32{1, 2, 1},
	)
}

// Sharpen returns a 3x3 sharpening kernel. Its weights sum to 1.
func Sharpen() *Kernel {
	return mustRows(
		[]float32{0, -1, 0},
		[]float32{-1, 5, -1},
		[]float32{0, -1, 0},
	)
}

// Emboss returns a 3x3 emboss kernel. Its weights sum to 1.
func Emboss() *Kernel {
	return mustRows(
		[]float32{-2, -1, 0},
		[]float32{-1, 1, 1},
		[]float32{0, 1, 2},
	)
}

// Names lists the kernels known to ByName.
func Names() []string {
	return []string{"identity", "box", "gaussian", "laplacian", "edge", "sobel-x", "sobel-y", "sharpen", "emboss"}
}

// ByName returns the named kernel. radius is used by "box" and "gaussian"
// and ignored otherwise.
func ByName(name string, radius float64) (*Kernel, error) {
	switch name {
	case "identity":
		return Identity(), nil
	case "box":
		return Box(int(math.Round(radius))), nil
	case "gaussian":
		return CachedGaussian(radius).Clone(), nil
	case "laplacian":
		return Laplacian(), nil
	case "edge":
		return Edge(), nil
	case "sobel-x":
		return SobelX(), nil
	case "sobel-y":
		return SobelY(), nil
	case "sharpen":
		return Sharpen(), nil
	case "emboss":
		return Emboss(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
	}
}

// HalfSize returns the half sizes of a kernel, width>>1 and height>>1.
// Tap (kx, ky) of a kernel sits at offset (kx-hw, ky-hh) from the pixel.
func HalfSize(k improc.PixelBuffer) (hw, hh int) {
	return k.Width() >> 1, k.Height() >> 1
}

// Sum returns the sum of the kernel weights.
func Sum(k improc.PixelBuffer) float64 {
	s := 0.0
	for i := 0; i < k.Len(); i++ {
		s += k.Float64At(i)
	}
	return s
}
