package convolution

import (
	"github.com/ajroetker/go-highway/hwy/contrib/vec"

	"github.com/gogpu/improc"
)

// tap is one non-zero kernel weight with its offset from the output pixel.
type tap struct {
	dx, dy int
	weight float64
}

// engine holds the state of one convolution call. It is created, used and
// dropped inside a single call; acc and excluded are never retained.
type engine[T improc.Element] struct {
	src *improc.Buffer[T]
	dst *improc.Buffer[T]

	width, height int
	channels      int // elements per pixel
	colors        int // channels that are accumulated (alpha excluded)
	strideY       int

	kw, kh  int
	margins Margins
	weights []float64 // kernel weights, row-major
	taps    []tap     // non-zero weights only
	sum     float64

	policy    improc.BorderPolicy
	normalize bool
	white     float64 // contribution of an outside pixel under LeaveWhite
	bias      float64
	alpha     float64

	crop Rect // source rectangle written to dst

	acc      []float64
	excluded []float64 // per-pixel excluded weight (CropKernel only)
}

func newEngine[T improc.Element](src, dst *improc.Buffer[T], weights []float64, kw, kh int, o options) *engine[T] {
	kind := src.Kind()
	e := &engine[T]{
		src:       src,
		dst:       dst,
		width:     src.Width(),
		height:    src.Height(),
		channels:  src.Channels(),
		colors:    src.Profile().ColorChannels(),
		strideY:   src.StrideY(),
		kw:        kw,
		kh:        kh,
		margins:   SafeMargins(src.Width(), src.Height(), kw, kh),
		weights:   weights,
		policy:    o.effectiveBorder(),
		normalize: o.normalize,
		white:     kind.Max(),
		bias:      kind.Bias(),
		alpha:     kind.Max(),
	}
	e.crop = outputRect(src.Width(), src.Height(), kw, kh, e.policy)

	for ky := 0; ky < kh; ky++ {
		for kx := 0; kx < kw; kx++ {
			w := weights[ky*kw+kx]
			e.sum += w
			if w == 0 {
				continue
			}
			e.taps = append(e.taps, tap{
				dx:     kx - e.margins.HalfWidth,
				dy:     ky - e.margins.HalfHeight,
				weight: w,
			})
		}
	}
	return e
}

// run executes the convolution and writes the result into dst.
func (e *engine[T]) run() {
	e.acc = make([]float64, e.src.Len())
	if e.policy == improc.CropKernel {
		e.excluded = make([]float64, e.width*e.height)
	}

	for _, r := range Partition(e.width, e.height, e.kw, e.kh) {
		if r.Rect.Empty() {
			continue
		}
		if r.ID == Center {
			e.accumulateCenter(r.Rect)
		} else if e.policy != improc.CropImage {
			e.accumulateBorder(r)
		}
	}
	e.normalizeAcc()
	e.store()

	e.acc = nil
	e.excluded = nil
}

// accumulateCenter adds every tap to the center region. Every tap of a center
// pixel is inside the image, so each tap becomes a constant index offset and
// each row becomes one contiguous multiply-add.
func (e *engine[T]) accumulateCenter(r Rect) {
	if r.Empty() {
		return
	}
	src := e.src.Data()
	for _, t := range e.taps {
		off := t.dy*e.strideY + t.dx*e.channels
		for y := r.Y0; y < r.Y1; y++ {
			a := y*e.strideY + r.X0*e.channels
			b := y*e.strideY + r.X1*e.channels
			if e.colors == e.channels {
				axpy(e.acc[a:b], src[a+off:b+off], t.weight)
				continue
			}
			for z := a; z < b; z += e.channels {
				for c := 0; c < e.colors; c++ {
					e.acc[z+c] += float64(src[z+off+c]) * t.weight
				}
			}
		}
	}
}

// axpy computes dst[i] += w * src[i].
func axpy[T improc.Element](dst []float64, src []T, w float64) {
	if s, ok := any(src).([]float64); ok {
		vec.BaseMulConstAddTo(dst, w, s)
		return
	}
	if len(src) == 0 {
		return
	}
	_ = dst[len(src)-1]
	for i, v := range src {
		dst[i] += float64(v) * w
	}
}

// accumulateBorder adds every tap to a border region, mapping source
// coordinates through the border policy on the axes that can leave the image.
func (e *engine[T]) accumulateBorder(r Region) {
	src := e.src.Data()
	for _, t := range e.taps {
		for y := r.Rect.Y0; y < r.Rect.Y1; y++ {
			sy, insideY := y+t.dy, true
			if r.OutY {
				sy, insideY = e.policy.Map(sy, e.height)
			}
			for x := r.Rect.X0; x < r.Rect.X1; x++ {
				if e.policy == improc.LeavePristine && !e.footprintInside(x, y) {
					continue
				}
				sx, insideX := x+t.dx, true
				if r.OutX {
					sx, insideX = e.policy.Map(sx, e.width)
				}

				z := y*e.strideY + x*e.channels
				if insideX && insideY {
					s := sy*e.strideY + sx*e.channels
					for c := 0; c < e.colors; c++ {
						e.acc[z+c] += float64(src[s+c]) * t.weight
					}
					continue
				}

				switch e.policy {
				case improc.LeaveWhite:
					for c := 0; c < e.colors; c++ {
						e.acc[z+c] += e.white * t.weight
					}
				case improc.CropKernel:
					e.excluded[y*e.width+x] += t.weight
				}
				// LeaveBlack: an outside pixel contributes 0.
			}
		}
	}
}

// footprintInside reports whether every tap of pixel (x, y) is inside the
// image, whatever its weight.
func (e *engine[T]) footprintInside(x, y int) bool {
	m := e.margins
	return x-m.HalfWidth >= 0 && x+e.kw-m.HalfWidth-1 < e.width &&
		y-m.HalfHeight >= 0 && y+e.kh-m.HalfHeight-1 < e.height
}

// normalizeAcc divides the accumulated values by the kernel sum.
// Zero-sum kernels get the element kind's bias added instead so that their
// response is centered in the value range.
func (e *engine[T]) normalizeAcc() {
	if !e.normalize {
		return
	}
	if e.sum == 0 {
		vec.BaseAddConst(e.bias, e.acc)
		return
	}
	if e.excluded == nil {
		for i := range e.acc {
			e.acc[i] /= e.sum
		}
		return
	}

	for p := range e.excluded {
		z := p * e.channels
		s := e.sum - e.excluded[p]
		for c := 0; c < e.colors; c++ {
			if s == 0 {
				e.acc[z+c] += e.bias
			} else {
				e.acc[z+c] /= s
			}
		}
	}
}

// store quantizes the accumulated values of the crop rectangle into dst.
// Alpha is set to the kind's maximum. Under LeavePristine, pixels whose
// footprint leaves the image receive the unfiltered source values.
func (e *engine[T]) store() {
	kind := e.dst.Kind()
	src := e.src.Data()
	out := e.dst.Data()
	alpha := improc.Store[T](kind, e.alpha)
	pristine := e.policy == improc.LeavePristine

	for y := e.crop.Y0; y < e.crop.Y1; y++ {
		for x := e.crop.X0; x < e.crop.X1; x++ {
			z := y*e.strideY + x*e.channels
			o := (y-e.crop.Y0)*e.dst.StrideY() + (x-e.crop.X0)*e.channels

			if pristine && !e.footprintInside(x, y) {
				copy(out[o:o+e.colors], src[z:z+e.colors])
			} else {
				for c := 0; c < e.colors; c++ {
					out[o+c] = improc.Quantize[T](kind, e.acc[z+c])
				}
			}
			if e.colors < e.channels {
				out[o+e.colors] = alpha
			}
		}
	}
}

// outputRect returns the source rectangle that becomes the output image.
// CropImage keeps only the center region; every other policy keeps the
// whole image.
func outputRect(width, height, kw, kh int, policy improc.BorderPolicy) Rect {
	if policy != improc.CropImage {
		return Rect{X1: width, Y1: height}
	}
	return Partition(width, height, kw, kh)[Center].Rect
}
