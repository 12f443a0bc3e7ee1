package interp

import (
	"fmt"

	"github.com/kolkov/scriptbox/internal/ast"
	"github.com/kolkov/scriptbox/internal/runtime"
	"github.com/kolkov/scriptbox/internal/scope"
	"github.com/kolkov/scriptbox/value"
)

// CompletionKind tells how a statement finished.
type CompletionKind uint8

const (
	Normal CompletionKind = iota
	Return
)

// Completion is the result of executing a statement. Return travels up
// through blocks, ifs and loops unchanged until a call boundary (or the
// top level) unwraps it. Errors travel beside it as the error result.
type Completion struct {
	Kind  CompletionKind
	Value value.Value
	Empty bool // the statement produced no value (declarations, ;)
}

var empty = Completion{Empty: true}

// execBlock hoists function declarations into f and then runs stmts in
// order. The result is the first Return, or the last non-empty completion.
func (t *task) execBlock(stmts []ast.Stmt, f *scope.Frame) (Completion, error) {
	if err := t.hoist(stmts, f); err != nil {
		return Completion{}, err
	}
	result := empty
	for _, s := range stmts {
		if _, ok := s.(*ast.FuncDecl); ok {
			continue
		}
		c, err := t.execStmt(s, f)
		if err != nil {
			return Completion{}, err
		}
		if c.Kind == Return {
			return c, nil
		}
		if !c.Empty {
			result = c
		}
	}
	return result, nil
}

// hoist binds every function declared directly in stmts before any of
// them runs, so declarations can call each other regardless of order.
func (t *task) hoist(stmts []ast.Stmt, f *scope.Frame) error {
	for _, s := range stmts {
		decl, ok := s.(*ast.FuncDecl)
		if !ok {
			continue
		}
		fn := value.FuncOf(t.newClosure(decl.Func, f))
		if err := f.Declare("function", decl.Func.Name, fn); err != nil {
			return runtime.At(err, decl.Pos())
		}
	}
	return nil
}

func (t *task) execStmt(s ast.Stmt, f *scope.Frame) (Completion, error) {
	if err := t.step(s); err != nil {
		return Completion{}, err
	}

	switch n := s.(type) {
	case *ast.ExprStmt:
		v, err := t.eval(n.Expr, f)
		if err != nil {
			return Completion{}, err
		}
		return Completion{Value: v}, nil

	case *ast.EmptyStmt:
		return empty, nil

	case *ast.FuncDecl:
		// Only reached outside a block, as in "if (x) function f() {}".
		return empty, t.hoist([]ast.Stmt{n}, f)

	case *ast.VarDecl:
		return empty, t.execVarDecl(n, f)

	case *ast.BlockStmt:
		return t.execBlock(n.Stmts, f.NewChild())

	case *ast.IfStmt:
		cond, err := t.eval(n.Cond, f)
		if err != nil {
			return Completion{}, err
		}
		if value.Truthy(cond) {
			return t.execStmt(n.Then, f)
		}
		if n.Else != nil {
			return t.execStmt(n.Else, f)
		}
		return empty, nil

	case *ast.WhileStmt:
		return t.execLoop(nil, n.Cond, nil, n.Body, f)

	case *ast.ForStmt:
		loop := f.NewChild()
		return t.execLoop(n.Init, n.Cond, n.Post, n.Body, loop)

	case *ast.ReturnStmt:
		v := value.Undefined()
		if n.Value != nil {
			var err error
			if v, err = t.eval(n.Value, f); err != nil {
				return Completion{}, err
			}
		}
		return Completion{Kind: Return, Value: v}, nil

	default:
		return Completion{}, &runtime.Error{
			Pos:     s.Pos(),
			Kind:    runtime.ErrType,
			Message: fmt.Sprintf("unsupported statement %T", s),
		}
	}
}

func (t *task) execVarDecl(n *ast.VarDecl, f *scope.Frame) error {
	for _, d := range n.Decls {
		v := value.Undefined()
		if d.Init != nil {
			var err error
			if v, err = t.eval(d.Init, f); err != nil {
				return err
			}
			nameAnonymous(d.Init, v, d.Name)
		}
		if err := f.Declare(n.Kind, d.Name, v); err != nil {
			return runtime.At(err, d.NamePos)
		}
	}
	return nil
}

// nameAnonymous gives a closure made by an anonymous function expression
// the name it is declared under, for error messages.
func nameAnonymous(init ast.Expr, v value.Value, name string) {
	switch init.(type) {
	case *ast.FuncLit, *ast.ArrowFunc:
		if c, ok := v.AsFunc().(*Closure); ok && c.name == "" {
			c.name = name
		}
	}
}

// execLoop runs while and for loops. A nil cond loops forever; the body
// gets a fresh frame per iteration when it is a block.
func (t *task) execLoop(init ast.Stmt, cond, post ast.Expr, body ast.Stmt, f *scope.Frame) (Completion, error) {
	if init != nil {
		if _, err := t.execStmt(init, f); err != nil {
			return Completion{}, err
		}
	}
	result := empty
	for {
		if cond != nil {
			v, err := t.eval(cond, f)
			if err != nil {
				return Completion{}, err
			}
			if !value.Truthy(v) {
				return result, nil
			}
		}
		c, err := t.execStmt(body, f)
		if err != nil {
			return Completion{}, err
		}
		if c.Kind == Return {
			return c, nil
		}
		if !c.Empty {
			result = c
		}
		if post != nil {
			if _, err := t.eval(post, f); err != nil {
				return Completion{}, err
			}
		}
	}
}
