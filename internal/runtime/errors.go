// Package runtime provides evaluator support shared by the scope and
// interp packages: runtime error kinds, "did you mean" suggestions and
// the numeric helper set.
package runtime

import (
	"errors"
	"fmt"

	"github.com/kolkov/scriptbox/internal/token"
)

// Error kinds. Every runtime error wraps exactly one of these, so callers
// can test the cause with errors.Is.
var (
	ErrStepBudget        = errors.New("too complex")
	ErrTimeBudget        = errors.New("exceeded time budget")
	ErrDepth             = errors.New("call depth exceeded")
	ErrSize              = errors.New("value too large")
	ErrForbidden         = errors.New("forbidden property")
	ErrConst             = errors.New("assignment to const")
	ErrRedeclared        = errors.New("name already declared")
	ErrUnknownIdentifier = errors.New("unknown identifier")
	ErrType              = errors.New("type error")
	ErrInvalidated       = errors.New("closure invalidated")
	ErrHost              = errors.New("host error")
)

// Error is a runtime error raised while evaluating a script.
type Error struct {
	Pos     token.Position // NoPos until the evaluator attaches the failing node
	Kind    error          // one of the Err* kinds
	Message string
	Cause   error // error returned by host code, for ErrHost
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s", e.Pos, e.Message)
	}
	return e.Message
}

// Unwrap exposes the kind and, for host failures, the host's error.
func (e *Error) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

// Errorf creates an unpositioned runtime error of the given kind.
func Errorf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// At returns err positioned at pos. Runtime errors that already carry a
// position keep it, so the innermost failing node wins; any other error
// is reported as a host failure.
func At(err error, pos token.Position) error {
	if err == nil {
		return nil
	}
	var rerr *Error
	if errors.As(err, &rerr) {
		if rerr.Pos.IsValid() || !pos.IsValid() {
			return rerr
		}
		cp := *rerr
		cp.Pos = pos
		return &cp
	}
	return &Error{Pos: pos, Kind: ErrHost, Message: err.Error(), Cause: err}
}

// KindOf returns the kind of err, or nil when err is not a runtime error.
func KindOf(err error) error {
	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind
	}
	return nil
}
