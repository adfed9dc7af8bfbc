package core

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by this package matches exactly one
// of them through errors.Is.
var (
	// ErrInvalidArgument reports caller misuse detected when a value or
	// clause is constructed: bad join or lock type, non-scalar parameter,
	// mixed parameter styles, arity mismatch, unknown parameter name.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrLogic reports a placeholder/parameter count mismatch at bind time.
	ErrLogic = errors.New("logic error")
	// ErrNotReady reports rendering of a statement that lacks required clauses.
	ErrNotReady = errors.New("not ready to render")
)

// Error describes a failed build step.
type Error struct {
	// Kind is one of ErrInvalidArgument, ErrLogic or ErrNotReady.
	Kind error
	// Op names the operation that failed, e.g. "select.where".
	Op  string
	Msg string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	s := "qb: " + e.Op + ": " + e.Kind.Error()
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// Is matches the error category.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalidArgument(op, format string, args ...any) error {
	return &Error{Kind: ErrInvalidArgument, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func invalidCause(op string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: ErrInvalidArgument, Op: op, Err: err}
}

func logicError(op, format string, args ...any) error {
	return &Error{Kind: ErrLogic, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func notReady(op, format string, args ...any) error {
	return &Error{Kind: ErrNotReady, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// NewError returns an *Error of the given kind. Dialect packages use it to
// report failures in the same categories.
func NewError(kind error, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}
