package process

import (
	"context"
	"fmt"

	"github.com/gogpu/improc"
)

// ImagePort is the name of the input and output that chains connect.
const ImagePort = "Image"

// Stage is one step of a chain: a contract and the parameters for its
// configurable inputs.
type Stage struct {
	Contract *Contract
	Params   map[string]any
}

// Chain runs stages in sequence, feeding each stage's "Image" output into
// the next stage's "Image" input.
type Chain struct {
	stages []Stage
}

// NewChain creates a chain and checks that every stage can be connected
// and that every parameter names a configurable input.
func NewChain(stages ...Stage) (*Chain, error) {
	for i, s := range stages {
		if s.Contract == nil {
			return nil, fmt.Errorf("process: stage %d has no contract", i)
		}
		in, ok := s.Contract.Input(ImagePort)
		if !ok || !in.Connectable {
			return nil, fmt.Errorf("%s: input %q: %w", s.Contract.Name(), ImagePort, ErrNotConnectable)
		}
		for name := range s.Params {
			p, ok := s.Contract.Input(name)
			if !ok {
				return nil, fmt.Errorf("%s: %q: %w", s.Contract.Name(), name, ErrUnknownInput)
			}
			if !p.Configurable {
				return nil, fmt.Errorf("%s: %q: %w", s.Contract.Name(), name, ErrNotConfigurable)
			}
		}
	}
	return &Chain{stages: stages}, nil
}

// Len returns the number of stages.
func (ch *Chain) Len() int {
	return len(ch.stages)
}

// Run feeds img through every stage and returns the last stage's image.
// With no stages it returns img unchanged.
func (ch *Chain) Run(ctx context.Context, img improc.PixelBuffer) (improc.PixelBuffer, error) {
	current := img
	for _, s := range ch.stages {
		inputs := make(map[string]any, len(s.Params)+1)
		for k, v := range s.Params {
			inputs[k] = v
		}
		inputs[ImagePort] = current

		out, err := s.Contract.Invoke(ctx, inputs)
		if err != nil {
			return nil, err
		}
		next, ok := out[ImagePort].(improc.PixelBuffer)
		if !ok {
			return nil, fmt.Errorf("%s: output %q: %w", s.Contract.Name(), ImagePort, ErrMissingOutput)
		}
		current = next
	}
	return current, nil
}
