// Package improc provides typed, multi-channel pixel buffers for image
// filtering.
//
// A pixel buffer stores width*height pixels of one of three channel profiles
// (Gray, Rgb, Rgba) in one of nine element kinds:
//
//	Uint8Clamped  Uint8  Uint16  Uint32
//	Int8          Int16  Int32
//	Float32       Float64
//
// The element kind decides what happens when a value that does not fit is
// stored: Uint8Clamped saturates to [0, 255], the other integer kinds wrap
// like Go's fixed-width integers, and floating kinds store values unchanged.
//
// # Buffers
//
// [Buffer] is generic over its storage type. [New] builds a buffer for a
// kind chosen at runtime and returns it as a [PixelBuffer]:
//
//	img, err := improc.New(improc.CanvasRGBA, 640, 480)
//
//	gray, err := improc.NewBuffer[float32](improc.F32, improc.Gray, 3, 3, []float32{
//	    0, 1, 0,
//	    1, -4, 1,
//	    0, 1, 0,
//	})
//
// Elements are interleaved by channel and stored row-major. Element
// (x, y, c) lives at y*StrideY() + x*StrideX() + c.
//
// # Border policies
//
// [BorderPolicy] selects how a convolution samples pixels outside the
// image. The engine itself lives in the convolution sub-package; kernel
// builders live in the kernel sub-package.
//
// # Logging
//
// improc is silent by default. Call [SetLogger] to receive debug records.
package improc
