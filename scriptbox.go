package scriptbox

import (
	"errors"

	"github.com/kolkov/scriptbox/internal/guard"
	"github.com/kolkov/scriptbox/internal/interp"
	"github.com/kolkov/scriptbox/internal/lexer"
	"github.com/kolkov/scriptbox/internal/parser"
	"github.com/kolkov/scriptbox/internal/scope"
	"github.com/kolkov/scriptbox/value"
)

// Version is the current version of scriptbox.
const Version = "0.1.0"

// Policy holds the forbidden-name tables shared with external tools.
type Policy = guard.Policy

// PolicyExtension lists names added on top of the default tables.
type PolicyExtension = guard.Extension

// DefaultPolicy returns the built-in naming tables.
func DefaultPolicy() *Policy {
	return guard.DefaultPolicy()
}

// NewPolicy returns the default tables extended by ext. It fails if a
// pattern does not compile.
func NewPolicy(ext PolicyExtension) (*Policy, error) {
	return guard.NewPolicy(ext)
}

// Run parses and evaluates source in one step. The result is the value of
// an explicit top-level return, or else of the last evaluated statement.
//
// If opts is nil, default options are used.
func Run(source string, bindings map[string]value.Value, opts *Options) (value.Value, error) {
	prog, err := ParseWith(source, opts)
	if err != nil {
		return value.Undefined(), err
	}
	return prog.Run(bindings, opts)
}

// Parse checks source against the default policy and parses it into a
// Program that can be run many times. Errors are *SyntaxError.
func Parse(source string) (*Program, error) {
	return ParseWith(source, nil)
}

// ParseWith is like Parse but checks identifiers against opts.Policy.
func ParseWith(source string, opts *Options) (*Program, error) {
	toks, err := lexer.Tokenize(source)
	if err != nil {
		return nil, syntaxError(err)
	}
	if err := opts.policy().Check(toks); err != nil {
		return nil, syntaxError(err)
	}
	prog, err := parser.ParseTokens(toks)
	if err != nil {
		return nil, syntaxError(err)
	}
	return &Program{ast: prog, source: source}, nil
}

// MustParse is like Parse but panics on error.
// Useful for scripts embedded in Go source.
func MustParse(source string) *Program {
	prog, err := Parse(source)
	if err != nil {
		panic(err)
	}
	return prog
}

// Call invokes a function value returned by a script, with a fresh step
// and time budget under the options of the run that created it. Host
// natives are called directly.
func Call(fn value.Value, args ...value.Value) (value.Value, error) {
	callee := fn.AsFunc()
	if callee == nil {
		return value.Undefined(), &RuntimeError{
			Kind:    ErrType,
			Message: fn.Kind().String() + " is not a function",
		}
	}
	v, err := callee.Call(args)
	if err != nil {
		return value.Undefined(), runtimeError(err)
	}
	return v, nil
}

// Invalidate marks a script function dead, so later calls fail with
// ErrInvalidated. Hosts call it when the entity owning a stored callback
// is destroyed. It reports whether fn was a script function.
func Invalidate(fn value.Value) bool {
	c, ok := fn.AsFunc().(*interp.Closure)
	if ok {
		c.Invalidate()
	}
	return ok
}

// Session evaluates a sequence of sources in one persistent scope, so
// declarations made by one call are visible to the next. Every call gets
// a fresh budget. A Session is not safe for concurrent use.
type Session struct {
	opts  *Options
	in    *interp.Interpreter
	frame *scope.Frame
}

// NewSession creates a session over bindings. If opts is nil, default
// options are used.
func NewSession(bindings map[string]value.Value, opts *Options) *Session {
	in := interp.New(opts.config())
	return &Session{
		opts:  opts,
		in:    in,
		frame: in.NewRoot(bindings).NewChild(),
	}
}

// Eval parses and runs source in the session scope. Declarations made
// before a runtime error stay in place.
func (s *Session) Eval(source string) (value.Value, error) {
	prog, err := ParseWith(source, s.opts)
	if err != nil {
		return value.Undefined(), err
	}
	return s.Run(prog)
}

// Run runs an already parsed program in the session scope.
func (s *Session) Run(prog *Program) (value.Value, error) {
	v, err := s.in.Exec(prog.ast, s.frame)
	if err != nil {
		return value.Undefined(), runtimeError(err)
	}
	return v, nil
}

// Names lists the names visible in the session scope, helpers and facade
// fields included.
func (s *Session) Names() []string {
	return s.frame.Names()
}

// IsSyntaxError reports whether err is a *SyntaxError.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}
