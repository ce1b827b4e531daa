// Package errors provides structured error types for the DOM bridge.
//
// Errors are categorized by Phase (which layer failed) and Kind (error category).
// The Error type carries the offending handle, Go type name and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhasePlatform, errors.KindNotFound).
//		Handle("node-7").
//		Detail("element detached").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.MalformedHandle(errors.PhaseRegistry, "node-x", "suffix is not a number")
//	err := errors.HandleNotFound(errors.PhaseRegistry, "ref-3")
//
// Sentinels such as ErrDuplicateEventHandler match any error of the same
// Kind via errors.Is, independent of the Phase that produced it.
package errors
