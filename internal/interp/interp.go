// Package interp provides the tree-walking evaluator for scriptbox programs.
//
// Every invocation (the top-level body, and each closure call whether it
// comes from script or from the host) runs as a task with its own step
// and time budget. Nested call depth is tracked per interpreter, since
// resetting budgets per call alone cannot stop unbounded recursion.
package interp

import (
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/kolkov/scriptbox/internal/ast"
	"github.com/kolkov/scriptbox/internal/guard"
	"github.com/kolkov/scriptbox/internal/runtime"
	"github.com/kolkov/scriptbox/internal/scope"
	"github.com/kolkov/scriptbox/value"
)

// Defaults applied to zero Config fields.
const (
	DefaultMaxSteps     = 100000
	DefaultMaxTime      = 250 * time.Millisecond
	DefaultMaxDepth     = 200
	DefaultMaxArrayLen  = 1 << 20
	DefaultMaxStringLen = 1 << 22
	DefaultFacadeName   = "self"
)

// Config holds interpreter configuration.
type Config struct {
	MaxSteps     int           // node visits per invocation
	MaxTime      time.Duration // wall clock per invocation
	MaxDepth     int           // nested calls
	MaxArrayLen  int           // elements in one array
	MaxStringLen int           // bytes in one string built by the script
	FacadeName   string        // root binding that unresolved names fall back to
	Policy       *guard.Policy // forbidden property tables
	Helpers      bool          // bind the numeric helper set
	Seed         int64         // seed for random; 0 picks a time-based seed
	Logger       *slog.Logger  // nil discards
}

// Interpreter evaluates programs. It is created per run: closures made by
// a run keep a reference to it, so its call depth accounting and random
// source follow them back into the host.
type Interpreter struct {
	cfg    Config
	logger *slog.Logger
	rng    *rand.Rand
	depth  atomic.Int32
}

// New creates an interpreter, filling zero Config fields with defaults.
func New(cfg Config) *Interpreter {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if cfg.MaxTime <= 0 {
		cfg.MaxTime = DefaultMaxTime
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.MaxArrayLen <= 0 {
		cfg.MaxArrayLen = DefaultMaxArrayLen
	}
	if cfg.MaxStringLen <= 0 {
		cfg.MaxStringLen = DefaultMaxStringLen
	}
	if cfg.FacadeName == "" {
		cfg.FacadeName = DefaultFacadeName
	}
	if cfg.Policy == nil {
		cfg.Policy = guard.DefaultPolicy()
	}
	// Names every run binds must survive renaming by external tools.
	preserved := []string{cfg.FacadeName}
	if cfg.Helpers {
		preserved = append(preserved, runtime.HelperNames()...)
	}
	cfg.Policy = cfg.Policy.WithPreserved(preserved...)
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Interpreter{
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Config returns the effective configuration.
func (in *Interpreter) Config() Config { return in.cfg }

// NewRoot builds the root frame of a run: the helper set (const), then
// the host bindings, which may shadow helpers. The facade binding is
// always const.
func (in *Interpreter) NewRoot(bindings map[string]value.Value) *scope.Frame {
	root := scope.NewRoot(in.cfg.Policy, in.cfg.FacadeName)
	if in.cfg.Helpers {
		for name, fn := range runtime.NewHelpers(in.rng) {
			root.Bind(name, fn, true)
		}
	}
	for name, v := range bindings {
		root.Bind(name, v, false)
	}
	return root
}

// Run evaluates prog against a fresh root frame seeded from bindings and
// returns the value of the explicit top-level return, or else of the last
// evaluated statement.
func (in *Interpreter) Run(prog *ast.Program, bindings map[string]value.Value) (value.Value, error) {
	return in.Exec(prog, in.NewRoot(bindings).NewChild())
}

// Exec evaluates prog directly in frame f. Callers that keep declarations
// between runs (a REPL) pass the same frame each time.
func (in *Interpreter) Exec(prog *ast.Program, f *scope.Frame) (value.Value, error) {
	t := in.newTask()
	in.logger.Debug("run started", slog.Int("statements", len(prog.Body)))

	c, err := t.execBlock(prog.Body, f)
	elapsed := time.Since(t.started)
	if err != nil {
		in.logger.Debug("run failed",
			slog.Int("steps", t.steps),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()))
		return value.Undefined(), err
	}
	in.logger.Debug("run finished",
		slog.Int("steps", t.steps),
		slog.Duration("elapsed", elapsed))
	return c.Value, nil
}
