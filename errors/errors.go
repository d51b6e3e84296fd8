package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseBind     Phase = "bind"     // region construction and registry binding
	PhaseAllocate Phase = "allocate" // allocation and release
	PhaseEncode   Phase = "encode"   // value to bytes
	PhaseDecode   Phase = "decode"   // bytes to value
	PhaseAccess   Phase = "access"   // container element access
	PhaseLoad     Phase = "load"     // layout loading
)

// Kind categorizes the error
type Kind string

const (
	KindCapacityExceeded Kind = "capacity_exceeded"
	KindUnbound          Kind = "unbound_region"
	KindOutOfBounds      Kind = "out_of_bounds"
	KindPrecondition     Kind = "precondition"
	KindInvalidRegion    Kind = "invalid_region"
	KindInvalidInput     Kind = "invalid_input"
	KindBusFault         Kind = "bus_fault"
	KindConfig           Kind = "config"
)

// Kind-only matchers for errors.Is. They match an *Error of the same kind
// regardless of phase.
var (
	ErrCapacityExceeded = &Error{Kind: KindCapacityExceeded}
	ErrUnbound          = &Error{Kind: KindUnbound}
	ErrOutOfBounds      = &Error{Kind: KindOutOfBounds}
	ErrPrecondition     = &Error{Kind: KindPrecondition}
	ErrInvalidRegion    = &Error{Kind: KindInvalidRegion}
	ErrInvalidInput     = &Error{Kind: KindInvalidInput}
	ErrBusFault         = &Error{Kind: KindBusFault}
	ErrConfig           = &Error{Kind: KindConfig}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Region string
	Type   string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Region != "" {
		b.WriteString(" in ")
		b.WriteString(e.Region)
	}

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a phase
// matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Region sets the region label
func (b *Builder) Region(name string) *Builder {
	b.err.Region = name
	return b
}

// Type sets the element type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string) *Builder {
	b.err.Detail = msg
	return b
}

// Detailf sets a formatted detail message
func (b *Builder) Detailf(format string, args ...any) *Builder {
	b.err.Detail = fmt.Sprintf(format, args...)
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// CapacityExceeded creates an allocation failure for a request that does not
// fit the remaining units of a region.
func CapacityExceeded(region string, requested, available uint64) *Error {
	return &Error{
		Phase:  PhaseAllocate,
		Kind:   KindCapacityExceeded,
		Region: region,
		Detail: fmt.Sprintf("requested %d units, %d available", requested, available),
		Value:  requested,
	}
}

// Unbound creates an error for a region or registry slot that was never bound
func Unbound(phase Phase, region string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnbound,
		Region: region,
		Detail: "region is not bound to storage",
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// InvalidRegion creates a region construction error
func InvalidRegion(region, detail string) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindInvalidRegion,
		Region: region,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// BusFault creates an error for a byte transfer the bus rejected
func BusFault(phase Phase, typ string, addr uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBusFault,
		Type:   typ,
		Detail: fmt.Sprintf("bus rejected byte at address %#x", addr),
		Value:  addr,
	}
}

// Precondition creates an error describing a caller contract violation.
// These are raised with panic, not returned.
func Precondition(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindPrecondition,
		Detail: detail,
	}
}

// Config creates a layout configuration error
func Config(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindConfig,
		Detail: detail,
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
