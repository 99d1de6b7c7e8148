// Package convolution applies 2D convolution kernels to pixel buffers.
//
// For every output pixel (x, y) and color channel c the engine computes
//
//	sum over (kx, ky) of kernel[ky][kx] * sample(x+kx-kw>>1, y+ky-kh>>1, c)
//
// where sample applies the configured [improc.BorderPolicy] to coordinates
// outside the image. The result is optionally normalized by the kernel
// weight sum and then quantized into the element kind of the input.
//
// The image is split into nine regions (see [Partition]). In the center
// region every tap is inside the image, so each tap is a constant index
// offset and rows are accumulated without bounds checks. Only the eight
// thin border regions consult the border policy.
//
// Accumulation happens in a float64 buffer that lives for one call. The
// input image and the kernel are never modified.
package convolution
