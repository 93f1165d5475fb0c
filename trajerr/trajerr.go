// Package trajerr defines the shared error taxonomy used across the
// trajectory core: every fallible operation in this module returns one of
// the nine kinds below, wrapped with the operation name.
//
// Kinds:
//
//	KindFile          - cannot open/read/write at the OS layer.
//	KindFormat        - structural violation of a file format.
//	KindMemory        - reserved for a foreign-binding layer; unused here.
//	KindOutOfBounds   - invalid atom/frame/step index.
//	KindProperty      - wrong Property variant, or missing.
//	KindSelection     - reserved; not produced by this core.
//	KindConfiguration - unknown open mode, or an inconsistent NetCDF
//	                    dimension/variable declaration.
//	KindMath          - non-invertible matrix.
//	KindGeneric       - construction-time invariant violation.
package trajerr

import "fmt"

// Kind discriminates the error taxonomy of spec section 7.
type Kind int

const (
	KindFile Kind = iota
	KindFormat
	KindMemory
	KindOutOfBounds
	KindProperty
	KindSelection
	KindConfiguration
	KindMath
	KindGeneric
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "FileError"
	case KindFormat:
		return "FormatError"
	case KindMemory:
		return "MemoryError"
	case KindOutOfBounds:
		return "OutOfBounds"
	case KindProperty:
		return "PropertyError"
	case KindSelection:
		return "SelectionError"
	case KindConfiguration:
		return "ConfigurationError"
	case KindMath:
		return "MathError"
	default:
		return "Error"
	}
}

// Error is the concrete error type produced throughout this module. Op
// names the failing operation (e.g. "Frame.distance"); Err is the
// underlying cause, which may be nil when Kind alone is descriptive.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error with the same Kind, so callers
// can write errors.Is(err, trajerr.KindOutOfBounds) style checks via the
// Of helper below, or compare Kind directly after an errors.As.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// New constructs an *Error of the given kind.
func New(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Of returns a sentinel *Error of the given kind with no wrapped cause,
// suitable for errors.Is comparison: errors.Is(err, trajerr.Of(trajerr.KindMath)).
func Of(kind Kind) error { return &Error{Kind: kind} }

// Convenience constructors, one per kind, matching spec section 7's names.
func FileError(op string, err error) error          { return New(KindFile, op, err) }
func FormatError(op string, err error) error        { return New(KindFormat, op, err) }
func OutOfBounds(op string, err error) error         { return New(KindOutOfBounds, op, err) }
func PropertyError(op string, err error) error       { return New(KindProperty, op, err) }
func MathError(op string, err error) error           { return New(KindMath, op, err) }
func GenericError(op string, err error) error        { return New(KindGeneric, op, err) }
func ConfigurationError(op string, err error) error  { return New(KindConfiguration, op, err) }
func SelectionError(op string, err error) error      { return New(KindSelection, op, err) }

// KindOf returns the Kind of err if it is (or wraps) a *Error, and false
// otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if as(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// as is a tiny local shim so this package does not need to import errors
// twice for both Unwrap-aware As and direct assertion; kept for clarity at
// call sites above.
func as(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
