package interp

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kolkov/scriptbox/internal/ast"
	"github.com/kolkov/scriptbox/internal/runtime"
)

// task is one invocation: the top-level body or a single closure call.
// It owns the step and time budget for that invocation only; calls made
// from it start their own task.
type task struct {
	in      *Interpreter
	steps   int
	started time.Time
}

func (in *Interpreter) newTask() *task {
	return &task{in: in, started: time.Now()}
}

// step accounts for one node visit and fails once either budget is spent.
func (t *task) step(n ast.Node) error {
	t.steps++
	cfg := &t.in.cfg
	if t.steps > cfg.MaxSteps {
		t.in.logger.Warn("step budget exhausted",
			slog.Int("limit", cfg.MaxSteps),
			slog.String("pos", n.Pos().String()))
		return &runtime.Error{
			Pos:     n.Pos(),
			Kind:    runtime.ErrStepBudget,
			Message: fmt.Sprintf("too complex: exceeded %d steps", cfg.MaxSteps),
		}
	}
	if elapsed := time.Since(t.started); elapsed > cfg.MaxTime {
		t.in.logger.Warn("time budget exhausted",
			slog.Duration("limit", cfg.MaxTime),
			slog.Int("steps", t.steps),
			slog.String("pos", n.Pos().String()))
		return &runtime.Error{
			Pos:     n.Pos(),
			Kind:    runtime.ErrTimeBudget,
			Message: fmt.Sprintf("exceeded time budget of %d ms", cfg.MaxTime.Milliseconds()),
		}
	}
	return nil
}

// enter bumps the nesting depth for a call; the returned func undoes it.
func (in *Interpreter) enter() (func(), error) {
	d := in.depth.Add(1)
	if int(d) > in.cfg.MaxDepth {
		in.depth.Add(-1)
		in.logger.Warn("call depth exhausted", slog.Int("limit", in.cfg.MaxDepth))
		return nil, runtime.Errorf(runtime.ErrDepth, "too complex: call depth exceeds %d", in.cfg.MaxDepth)
	}
	return func() { in.depth.Add(-1) }, nil
}

// checkArrayLen fails before an array would grow past MaxArrayLen.
func (t *task) checkArrayLen(n int) error {
	if limit := t.in.cfg.MaxArrayLen; n > limit {
		t.in.logger.Warn("array size limit reached", slog.Int("limit", limit))
		return runtime.Errorf(runtime.ErrSize, "too large: array length exceeds %d", limit)
	}
	return nil
}

// checkStringLen fails before a string of n bytes is built past MaxStringLen.
func (t *task) checkStringLen(n int) error {
	if limit := t.in.cfg.MaxStringLen; n > limit {
		t.in.logger.Warn("string size limit reached", slog.Int("limit", limit))
		return runtime.Errorf(runtime.ErrSize, "too large: string length exceeds %d bytes", limit)
	}
	return nil
}
