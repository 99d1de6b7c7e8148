package convolution

import "github.com/gogpu/improc"

// Option configures a convolution.
//
// Example:
//
//	out, err := convolution.Convolve(img, k,
//	    convolution.WithBorderPolicy(improc.MirrorImage),
//	    convolution.WithNormalize(false))
type Option func(*options)

// options holds the configuration of one convolution call.
type options struct {
	normalize bool
	border    improc.BorderPolicy
	legacy    bool
}

// defaultOptions returns the default configuration: normalized output and
// the SquashKernel border policy.
func defaultOptions() options {
	return options{
		normalize: true,
		border:    improc.DefaultBorderPolicy,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithNormalize enables or disables normalization by the kernel weight sum.
// Normalization is enabled by default.
func WithNormalize(normalize bool) Option {
	return func(o *options) {
		o.normalize = normalize
	}
}

// WithBorderPolicy sets how taps outside the image are handled.
func WithBorderPolicy(p improc.BorderPolicy) Option {
	return func(o *options) {
		o.border = p
	}
}

// WithLegacyBorder reproduces the historical engine, which ignored the
// configured policy and always sampled the image mirrored across its edges
// (1-coord before the first pixel, 2*extent-coord-1 after the last).
func WithLegacyBorder() Option {
	return func(o *options) {
		o.legacy = true
	}
}

// effectiveBorder returns the policy the engine actually applies.
func (o options) effectiveBorder() improc.BorderPolicy {
	if o.legacy {
		return improc.MirrorImage
	}
	return o.border
}
