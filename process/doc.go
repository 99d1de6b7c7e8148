// Package process exposes image filters as typed, validated pipeline stages.
//
// A [Contract] declares named inputs and outputs. Each input lists the value
// types it accepts and may carry a default; each output computes its type
// from the resolved input types, so a filter can promise "same image type as
// my input". [Contract.Invoke] checks inputs before running the filter and
// outputs after, and records how long the run took.
//
// Contracts are chained with [Chain], which feeds the "Image" output of one
// stage into the "Image" input of the next.
package process
