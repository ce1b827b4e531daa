package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates which layer of the bridge produced the error
type Phase string

const (
	PhaseCodec    Phase = "codec"    // RefValue encode/decode
	PhaseRegistry Phase = "registry" // handle allocation and lookup
	PhaseDOM      Phase = "dom"      // document tree operations
	PhasePlatform Phase = "platform" // platform-side boundary operations
	PhaseShim     Phase = "shim"     // guest-side adapter
	PhaseABI      Phase = "abi"      // lowering/lifting across linear memory
	PhaseHost     Phase = "host"     // wasm runtime and host module
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidArgument       Kind = "invalid_argument"
	KindMalformedHandle       Kind = "malformed_handle"
	KindNotFound              Kind = "not_found"
	KindDuplicateEventHandler Kind = "duplicate_event_handler"
	KindHandlerNotFound       Kind = "handler_not_found"
	KindUnsupportedValue      Kind = "unsupported_value"
	KindMalformedPayload      Kind = "malformed_payload"
	KindNoRegisteredEffect    Kind = "no_registered_effect"
	KindOutOfBounds           Kind = "out_of_bounds"
	KindAllocation            Kind = "allocation"
	KindClosed                Kind = "closed"
	KindInstantiation         Kind = "instantiation"
	KindRegistration          Kind = "registration"
	KindGuestFault            Kind = "guest_fault"
)

// Sentinels match any error of the same Kind regardless of Phase.
var (
	ErrInvalidArgument       = &Error{Kind: KindInvalidArgument}
	ErrMalformedHandle       = &Error{Kind: KindMalformedHandle}
	ErrHandleNotFound        = &Error{Kind: KindNotFound}
	ErrDuplicateEventHandler = &Error{Kind: KindDuplicateEventHandler}
	ErrHandlerNotFound       = &Error{Kind: KindHandlerNotFound}
	ErrUnsupportedValue      = &Error{Kind: KindUnsupportedValue}
	ErrMalformedPayload      = &Error{Kind: KindMalformedPayload}
	ErrNoRegisteredEffect    = &Error{Kind: KindNoRegisteredEffect}
	ErrClosed                = &Error{Kind: KindClosed}
)

// Error is the structured error type used throughout the bridge
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Handle string
	GoType string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if e.Handle != "" {
		b.WriteString(" at ")
		b.WriteString(e.Handle)
	}

	if e.GoType != "" {
		b.WriteString(": Go type ")
		b.WriteString(e.GoType)
	}

	if e.Detail != "" {
		if e.GoType != "" {
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

// Is reports whether target matches this error.
// A target without a Phase matches on Kind alone.
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

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if errors.As(err, &e) {
			if e.Kind == kind {
				return true
			}
			err = e.Cause
			continue
		}
		return false
	}
	return false
}

// KindOf returns the Kind of the outermost *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
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

// Handle sets the handle the error refers to
func (b *Builder) Handle(h string) *Builder {
	b.err.Handle = h
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
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
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidArgument creates an error for a missing or invalid construction argument
func InvalidArgument(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidArgument,
		Detail: detail,
	}
}

// MalformedHandle creates an error for a handle string that does not parse
func MalformedHandle(phase Phase, handle, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMalformedHandle,
		Handle: handle,
		Detail: detail,
	}
}

// HandleNotFound creates an error for a well-formed handle with no live referent
func HandleNotFound(phase Phase, handle string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Handle: handle,
		Detail: "no live object for handle",
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// UnsupportedValue creates an error for a native value the codec cannot represent
func UnsupportedValue(goType string, cause error) *Error {
	return &Error{
		Phase:  PhaseCodec,
		Kind:   KindUnsupportedValue,
		GoType: goType,
		Detail: "value cannot cross the boundary",
		Cause:  cause,
	}
}

// MalformedPayload creates an error for wire data that does not decode
func MalformedPayload(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMalformedPayload,
		Detail: detail,
		Cause:  cause,
	}
}

// OutOfBounds creates an out of bounds error for linear memory access
func OutOfBounds(phase Phase, offset, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("access [%d, %d) out of bounds", offset, uint64(offset)+uint64(length)),
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
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

// Registration creates a host function registration error
func Registration(namespace, name string, cause error) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s#%s", namespace, name),
		Cause:  cause,
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseHost,
		Kind:   KindInstantiation,
		Detail: "instantiate module",
		Cause:  cause,
	}
}
