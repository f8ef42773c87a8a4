package evaluation

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	ErrTableNotFound        = errors.New("table not found")
	ErrHeaderNotFound       = errors.New("header not found")
	ErrEvalueeNotConfigured = errors.New("evaluee not configured")
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrInvalidData          = errors.New("invalid data")
	ErrEvaluationIDRequired = errors.New("evaluation id is required")
	ErrEmployeeIDRequired   = errors.New("employee id is required")
	ErrNoRole               = errors.New("caller has no role on this evaluation")
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidInput
	KindPermissionDenied
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindPermissionDenied:
		return "permission_denied"
	default:
		return "internal"
	}
}

// Error is the only error type the Service returns. Message is safe to show
// to the caller; Err keeps the cause for errors.Is and logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

func notFound(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...), Err: cause}
}

func Denied(cause error, message string) *Error {
	return &Error{Kind: KindPermissionDenied, Message: message, Err: cause}
}

func Invalid(cause error, message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message, Err: cause}
}

func invalid(cause error) *Error {
	return &Error{Kind: KindInvalidInput, Message: cause.Error(), Err: cause}
}

// settle converts anything that is not already an *Error into an internal
// failure of op, and turns a panic into one as well. Call it deferred.
func settle(op string, err *error) {
	if r := recover(); r != nil {
		slog.Error("evaluation operation panicked", "op", op, "panic", r)
		*err = &Error{Kind: KindInternal, Message: op + " failed", Err: fmt.Errorf("panic: %v", r)}
		return
	}
	if *err == nil {
		return
	}
	var e *Error
	if !errors.As(*err, &e) {
		slog.Error("evaluation operation failed", "op", op, "err", *err)
		*err = &Error{Kind: KindInternal, Message: op + " failed", Err: *err}
	}
}
