package lower

import (
	"golang.org/x/xerrors"
)

// ErrorKind identifies one of the nine structural conditions lowering can
// fail on (spec §7). All are synchronous and abortive: no partial IR is
// returned once a lowering call fails.
type ErrorKind int

const (
	UntypedNode ErrorKind = iota
	InvalidLvalue
	NonIdentifierRefRvalue
	UnknownFunction
	ArityMismatch
	UndefinedSymbol
	ReturnOutsideFunction
	TopLevelInEmptyModule
	UnsupportedOperator
)

func (k ErrorKind) String() string {
	switch k {
	case UntypedNode:
		return "untyped node"
	case InvalidLvalue:
		return "invalid lvalue"
	case NonIdentifierRefRvalue:
		return "non-identifier ref rvalue"
	case UnknownFunction:
		return "unknown function"
	case ArityMismatch:
		return "arity mismatch"
	case UndefinedSymbol:
		return "undefined symbol"
	case ReturnOutsideFunction:
		return "return outside function"
	case TopLevelInEmptyModule:
		return "top-level statement in empty module"
	case UnsupportedOperator:
		return "unsupported operator"
	default:
		return "unknown error kind"
	}
}

// Error is the error type every lowering failure surfaces as. It carries
// enough to let a caller xerrors.As into the chain and recover Kind, plus
// a human-readable Detail for diagnostics (e.g. the offending symbol
// name).
type Error struct {
	Kind   ErrorKind
	Detail string
	err    error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Detail
}

func (e *Error) Unwrap() error { return e.err }

// newError builds a *Error with no wrapped cause; see wrapError and
// wrapFuncError for the wrapping variants.
func newError(kind ErrorKind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

// wrapError attaches cause to a *Error raised while lowering a nested
// construct (e.g. a nested function's body), in the teacher's
// xerrors.Errorf("...: %w", err) idiom.
func wrapError(kind ErrorKind, detail string, cause error) *Error {
	return &Error{Kind: kind, Detail: detail, err: xerrors.Errorf("%s: %w", detail, cause)}
}

// wrapFuncError re-wraps a failure from lowering funcName's body,
// preserving the original ErrorKind so callers can still errors.As for
// it, while recording which function's emission failed.
func wrapFuncError(funcName string, cause error) error {
	if le, ok := cause.(*Error); ok {
		return &Error{
			Kind:   le.Kind,
			Detail: funcName + ": " + le.Detail,
			err:    xerrors.Errorf("function %s: %w", funcName, cause),
		}
	}
	return xerrors.Errorf("function %s: %w", funcName, cause)
}
