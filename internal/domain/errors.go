package domain

import "errors"

// Kind classifies an error so callers can branch on it without string
// matching.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindNotFound
	KindSerialization // store-detected conflict, safe to retry
	KindTimeout       // bounded lock wait expired, safe to retry
	KindConstraint
	KindUnavailable
	KindTransferFailed
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindSerialization:
		return "serialization"
	case KindTimeout:
		return "timeout"
	case KindConstraint:
		return "constraint_violation"
	case KindUnavailable:
		return "unavailable"
	case KindTransferFailed:
		return "transfer_failed"
	default:
		return "unknown"
	}
}

// Error carries an error kind, a message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}

	return e.Msg
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error { return e.Err }

// Is matches errors of the same kind, so the sentinels below work with
// errors.Is even once a cause is attached. A sentinel with an empty message
// matches any error of its kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	if t.Kind != e.Kind {
		return false
	}

	return t.Msg == "" || t.Msg == e.Msg
}

// NewError creates an Error with a kind and message.
func NewError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// WrapError creates an Error with a kind, message and cause.
func WrapError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

var (
	// Transfer preconditions
	ErrInvalidAmount     = NewError(KindInvalidArgument, "amount must be positive")
	ErrSameAccount       = NewError(KindInvalidArgument, "cannot transfer to same account")
	ErrCurrencyMismatch  = NewError(KindInvalidArgument, "cannot transfer between different currencies")
	ErrInsufficientFunds = NewError(KindInvalidArgument, "insufficient funds")

	// Lookups
	ErrAccountNotFound  = NewError(KindNotFound, "account not found")
	ErrTransferNotFound = NewError(KindNotFound, "transfer not found")

	// Store conflicts
	ErrSerialization    = NewError(KindSerialization, "serialization conflict")
	ErrLockWait         = NewError(KindTimeout, "lock wait timed out")
	ErrStoreUnavailable = NewError(KindUnavailable, "store unavailable")

	// Terminal engine failure after exhausting retries
	ErrTransferFailed = NewError(KindTransferFailed, "transfer failed after retries")
)

// KindOf returns the kind of err, or KindUnknown for untyped errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknown
}

// IsRetryable reports whether err is a transient conflict the transfer engine
// may retry.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindSerialization, KindTimeout:
		return true
	default:
		return false
	}
}
