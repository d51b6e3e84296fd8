// Package errors provides structured error types for the burst module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the region label, element type name, offending value and
// cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseAllocate, errors.KindCapacityExceeded).
//		Region("region 0").
//		Type("int32").
//		Detailf("requested %d units", 12).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.CapacityExceeded("region 0", 12, 4)
//	err := errors.OutOfBounds(errors.PhaseAccess, 10, 5)
//
// Match by kind with the exported matchers, or by phase and kind with a template:
//
//	if errors.Is(err, bursterrors.ErrCapacityExceeded) { ... }
//	if errors.Is(err, &bursterrors.Error{Phase: bursterrors.PhaseAllocate, Kind: bursterrors.KindUnbound}) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
