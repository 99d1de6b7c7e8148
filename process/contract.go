package process

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/gogpu/improc"
)

// Input declares one input of a contract.
type Input struct {
	// Name identifies the input in Invoke's input map.
	Name string

	// Accepts lists the value types the input accepts.
	Accepts []ValueType

	// Default is used when no value is supplied. A nil Default makes the
	// input required.
	Default any

	// Connectable inputs may be fed by the output of an upstream stage.
	Connectable bool

	// Configurable inputs may be set by stage parameters.
	Configurable bool
}

// accepts reports whether t is one of the accepted types.
func (in Input) accepts(t ValueType) bool {
	return slices.Contains(in.Accepts, t)
}

// Output declares one output of a contract.
type Output struct {
	// Name identifies the output in Invoke's result map.
	Name string

	// Type computes the output type from the resolved input types, in
	// input declaration order. A nil Type accepts any value.
	Type func(inputs []ValueType) ValueType
}

// SameAs returns an output type function that repeats the type of the
// input at index i. It is used by type-preserving filters.
func SameAs(i int) func([]ValueType) ValueType {
	return func(inputs []ValueType) ValueType {
		if i < 0 || i >= len(inputs) {
			return ValueType{}
		}
		return inputs[i]
	}
}

// RunFunc executes a filter. inputs holds one value per declared input, in
// declaration order, already validated. It returns one value per declared
// output, in declaration order.
type RunFunc func(ctx context.Context, inputs []any) ([]any, error)

// Stats accumulates timing information about a contract's invocations.
type Stats struct {
	Runs  int
	Last  time.Duration
	Total time.Duration
}

// Contract wraps a filter with input and output validation.
//
// Thread safety: Invoke is safe for concurrent use if the RunFunc is.
type Contract struct {
	name    string
	inputs  []Input
	outputs []Output
	run     RunFunc

	mu    sync.Mutex
	stats Stats
}

// New creates a contract. Input and output slices are copied.
func New(name string, inputs []Input, outputs []Output, run RunFunc) *Contract {
	return &Contract{
		name:    name,
		inputs:  slices.Clone(inputs),
		outputs: slices.Clone(outputs),
		run:     run,
	}
}

// Name returns the contract name.
func (c *Contract) Name() string { return c.name }

// Inputs returns a copy of the declared inputs.
func (c *Contract) Inputs() []Input { return slices.Clone(c.inputs) }

// Outputs returns a copy of the declared outputs.
func (c *Contract) Outputs() []Output { return slices.Clone(c.outputs) }

// Input returns the declared input with the given name.
func (c *Contract) Input(name string) (Input, bool) {
	for _, in := range c.inputs {
		if in.Name == name {
			return in, true
		}
	}
	return Input{}, false
}

// Stats returns the timing statistics collected so far.
func (c *Contract) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// LastDuration returns the wall-clock duration of the most recent run.
func (c *Contract) LastDuration() time.Duration {
	return c.Stats().Last
}

// Invoke validates inputs, runs the filter, validates its outputs and
// returns them keyed by output name.
//
// Missing inputs fall back to their defaults. Invoke fails with
// ErrMissingInput or ErrInvalidInputType before running, and with
// ErrMissingOutput or ErrInvalidOutputType after. Filter errors are returned
// wrapped with the contract name.
func (c *Contract) Invoke(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	for name := range inputs {
		if _, ok := c.Input(name); !ok {
			return nil, fmt.Errorf("%s: %q: %w", c.name, name, ErrUnknownInput)
		}
	}

	values := make([]any, len(c.inputs))
	types := make([]ValueType, len(c.inputs))
	for i, in := range c.inputs {
		v, ok := inputs[in.Name]
		if !ok || isNil(v) {
			v = in.Default
		}
		if isNil(v) {
			return nil, fmt.Errorf("%s: input %q: %w", c.name, in.Name, ErrMissingInput)
		}
		t, ok := TypeOf(v)
		if !ok || !in.accepts(t) {
			return nil, fmt.Errorf("%s: input %q has type %T: %w", c.name, in.Name, v, ErrInvalidInputType)
		}
		values[i] = v
		types[i] = t
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := c.run(ctx, values)
	c.record(time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.name, err)
	}

	outputs := make(map[string]any, len(c.outputs))
	for i, out := range c.outputs {
		if i >= len(results) || isNil(results[i]) {
			return nil, fmt.Errorf("%s: output %q: %w", c.name, out.Name, ErrMissingOutput)
		}
		v := results[i]
		t, ok := TypeOf(v)
		if !ok {
			return nil, fmt.Errorf("%s: output %q has type %T: %w", c.name, out.Name, v, ErrInvalidOutputType)
		}
		if out.Type != nil {
			if want := out.Type(types); t != want {
				return nil, fmt.Errorf("%s: output %q is %s, want %s: %w", c.name, out.Name, t, want, ErrInvalidOutputType)
			}
		}
		outputs[out.Name] = v
	}
	return outputs, nil
}

// isNil reports whether v is nil or a nil pixel buffer.
func isNil(v any) bool {
	if b, ok := v.(improc.PixelBuffer); ok {
		return improc.IsNil(b)
	}
	return v == nil
}

func (c *Contract) record(d time.Duration) {
	c.mu.Lock()
	c.stats.Runs++
	c.stats.Last = d
	c.stats.Total += d
	c.mu.Unlock()

	improc.Logger().Debug("process run",
		slog.String("process", c.name),
		slog.Duration("elapsed", d))
}
