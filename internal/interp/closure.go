package interp

import (
	"sync/atomic"

	"github.com/kolkov/scriptbox/internal/ast"
	"github.com/kolkov/scriptbox/internal/runtime"
	"github.com/kolkov/scriptbox/internal/scope"
	"github.com/kolkov/scriptbox/value"
)

// Closure is a script function value. It captures its defining frame by
// reference: writes to captured variables persist across calls, including
// calls the host makes after the creating run has returned.
type Closure struct {
	fn   *ast.Func
	env  *scope.Frame
	in   *Interpreter
	name string
	dead atomic.Bool
}

func (t *task) newClosure(fn *ast.Func, env *scope.Frame) *Closure {
	return &Closure{fn: fn, env: env, in: t.in, name: fn.Name}
}

// FuncName returns the declared or inferred name.
func (c *Closure) FuncName() string {
	if c.name == "" {
		return "anonymous"
	}
	return c.name
}

// Call invokes the closure with a fresh budget. Hosts use it for stored
// callbacks; it is not safe to call one closure from several goroutines.
func (c *Closure) Call(args []value.Value) (value.Value, error) {
	return c.call(args)
}

// Invalidate marks the closure dead; later calls fail. Hosts call it when
// the entity that owns the closure is destroyed.
func (c *Closure) Invalidate() { c.dead.Store(true) }

// Invalidated reports whether Invalidate was called.
func (c *Closure) Invalidated() bool { return c.dead.Load() }

func (c *Closure) call(args []value.Value) (value.Value, error) {
	if c.dead.Load() {
		return value.Undefined(), runtime.Errorf(runtime.ErrInvalidated, "closure has been invalidated")
	}
	leave, err := c.in.enter()
	if err != nil {
		return value.Undefined(), err
	}
	defer leave()

	t := c.in.newTask()
	frame := c.env.NewChild()
	for i, p := range c.fn.Params {
		v := value.Arg(args, i)
		if v.IsUndefined() && p.Default != nil {
			// Defaults run in the parameter frame, so earlier parameters
			// are visible.
			if v, err = t.eval(p.Default, frame); err != nil {
				return value.Undefined(), err
			}
		}
		if err := frame.Declare("let", p.Name, v); err != nil {
			return value.Undefined(), runtime.At(err, p.Pos)
		}
	}

	if c.fn.ExprBody != nil {
		return t.eval(c.fn.ExprBody, frame)
	}
	comp, err := t.execBlock(c.fn.Body.Stmts, frame)
	if err != nil {
		return value.Undefined(), err
	}
	return comp.Value, nil
}

var _ value.Callable = (*Closure)(nil)
