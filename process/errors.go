package process

import "errors"

// Contract errors.
var (
	// ErrMissingInput is returned when a required input has no value and no default.
	ErrMissingInput = errors.New("process: missing input")

	// ErrInvalidInputType is returned when an input value has a type the input does not accept.
	ErrInvalidInputType = errors.New("process: invalid input type")

	// ErrMissingOutput is returned when a filter does not produce a declared output.
	ErrMissingOutput = errors.New("process: missing output")

	// ErrInvalidOutputType is returned when an output value does not have its declared type.
	ErrInvalidOutputType = errors.New("process: invalid output type")

	// ErrUnknownInput is returned when a value is supplied for an input the contract does not declare.
	ErrUnknownInput = errors.New("process: unknown input")

	// ErrNotConfigurable is returned when a chain stage configures an input that is not configurable.
	ErrNotConfigurable = errors.New("process: input is not configurable")

	// ErrNotConnectable is returned when a chain stage cannot receive the upstream image.
	ErrNotConnectable = errors.New("process: input is not connectable")
)
