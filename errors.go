package scriptbox

import (
	"errors"
	"fmt"

	"github.com/kolkov/scriptbox/internal/guard"
	"github.com/kolkov/scriptbox/internal/lexer"
	"github.com/kolkov/scriptbox/internal/parser"
	"github.com/kolkov/scriptbox/internal/runtime"
	"github.com/kolkov/scriptbox/internal/token"
)

// Runtime error kinds. A *RuntimeError wraps exactly one of them:
//
//	if errors.Is(err, scriptbox.ErrStepBudget) { ... }
var (
	ErrStepBudget        = runtime.ErrStepBudget
	ErrTimeBudget        = runtime.ErrTimeBudget
	ErrDepth             = runtime.ErrDepth
	ErrSize              = runtime.ErrSize
	ErrForbidden         = runtime.ErrForbidden
	ErrConst             = runtime.ErrConst
	ErrRedeclared        = runtime.ErrRedeclared
	ErrUnknownIdentifier = runtime.ErrUnknownIdentifier
	ErrType              = runtime.ErrType
	ErrInvalidated       = runtime.ErrInvalidated
	ErrHost              = runtime.ErrHost
)

// SyntaxError is a lexical, preflight or grammar error. It is always
// reported before any part of the script runs.
type SyntaxError struct {
	Line    int    // 1-based line number
	Column  int    // 1-based column number
	Message string // Error description
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// RuntimeError is an error raised while a script runs. Line and Column
// locate the failing node; they are zero when no node is known.
type RuntimeError struct {
	Line    int    // 1-based line number
	Column  int    // 1-based column number
	Message string // Error description
	Kind    error  // One of the Err* kinds

	cause error
}

func (e *RuntimeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("runtime error at %d:%d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("runtime error: %s", e.Message)
}

// Unwrap exposes Kind and, for ErrHost, the error the host returned.
func (e *RuntimeError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Kind, e.cause}
	}
	return []error{e.Kind}
}

// syntaxError converts an error from the lexer, guard or parser.
func syntaxError(err error) error {
	var (
		lexErr   *lexer.Error
		guardErr *guard.Error
		parseErr *parser.ParseError
	)
	switch {
	case errors.As(err, &lexErr):
		return newSyntaxError(lexErr.Pos, lexErr.Message)
	case errors.As(err, &guardErr):
		return newSyntaxError(guardErr.Pos, guardErr.Message)
	case errors.As(err, &parseErr):
		return newSyntaxError(parseErr.Pos, parseErr.Message)
	default:
		return &SyntaxError{Message: err.Error()}
	}
}

func newSyntaxError(pos token.Position, msg string) *SyntaxError {
	return &SyntaxError{Line: pos.Line, Column: pos.Column, Message: msg}
}

// runtimeError converts an evaluator error. Errors that did not come from
// the evaluator are reported as host failures.
func runtimeError(err error) error {
	if err == nil {
		return nil
	}
	var rtErr *runtime.Error
	if !errors.As(err, &rtErr) {
		return &RuntimeError{Kind: ErrHost, Message: err.Error(), cause: err}
	}
	return &RuntimeError{
		Line:    rtErr.Pos.Line,
		Column:  rtErr.Pos.Column,
		Message: rtErr.Message,
		Kind:    rtErr.Kind,
		cause:   rtErr.Cause,
	}
}
