package convolution

import (
	"context"

	"github.com/gogpu/improc"
	"github.com/gogpu/improc/process"
)

// Port names of the convolution contract.
const (
	PortImage        = "Image"
	PortKernel       = "Kernel"
	PortNormalize    = "Normalize"
	PortBorderPolicy = "BorderPolicy"
)

// NewContract returns the convolution engine as a pipeline stage.
//
// Inputs: Image (any image type), Kernel (Float32Gray or Float64Gray),
// Normalize (default true) and BorderPolicy (default SquashKernel).
// Output: Image, of the same type as the input image.
func NewContract() *process.Contract {
	return process.New("Convolution",
		[]process.Input{
			{
				Name:        PortImage,
				Accepts:     process.Images(improc.AllImageTypes()...),
				Connectable: true,
			},
			{
				Name:         PortKernel,
				Accepts:      process.Images(improc.Float32Gray, improc.Float64Gray),
				Connectable:  true,
				Configurable: true,
			},
			{
				Name:         PortNormalize,
				Accepts:      []process.ValueType{process.Bool},
				Default:      true,
				Configurable: true,
			},
			{
				Name:         PortBorderPolicy,
				Accepts:      []process.ValueType{process.Border},
				Default:      improc.DefaultBorderPolicy,
				Configurable: true,
			},
		},
		[]process.Output{
			{Name: PortImage, Type: process.SameAs(0)},
		},
		runContract,
	)
}

// runContract adapts Apply to process.RunFunc. Input types have already been
// checked by the contract.
func runContract(_ context.Context, inputs []any) ([]any, error) {
	img := inputs[0].(improc.PixelBuffer)
	k := inputs[1].(improc.PixelBuffer)
	normalize := inputs[2].(bool)
	policy := inputs[3].(improc.BorderPolicy)

	out, err := Apply(img, k, normalize, policy)
	if err != nil {
		return nil, err
	}
	return []any{out}, nil
}
