package interp

import (
	"errors"
	"fmt"
	"math"

	"github.com/kolkov/scriptbox/internal/ast"
	"github.com/kolkov/scriptbox/internal/runtime"
	"github.com/kolkov/scriptbox/internal/scope"
	"github.com/kolkov/scriptbox/value"
)

// eval evaluates an expression node.
func (t *task) eval(e ast.Expr, f *scope.Frame) (value.Value, error) {
	if err := t.step(e); err != nil {
		return value.Undefined(), err
	}

	switch n := e.(type) {
	case *ast.Literal:
		return literal(n), nil

	case *ast.Ident:
		v, err := f.Get(n.Name)
		return v, runtime.At(err, n.Pos())

	case *ast.ThisExpr:
		return f.Facade(), nil

	case *ast.ArrayLit:
		return t.evalArray(n, f)

	case *ast.ObjectLit:
		return t.evalObject(n, f)

	case *ast.FuncLit:
		return t.evalFuncLit(n.Func, f), nil

	case *ast.ArrowFunc:
		return value.FuncOf(t.newClosure(n.Func, f)), nil

	case *ast.MemberExpr, *ast.CallExpr:
		v, _, err := t.evalChain(e, f)
		return v, err

	case *ast.AssignExpr:
		return t.evalAssign(n, f)

	case *ast.UpdateExpr:
		return t.evalUpdate(n, f)

	case *ast.BinaryExpr:
		l, err := t.eval(n.Left, f)
		if err != nil {
			return value.Undefined(), err
		}
		r, err := t.eval(n.Right, f)
		if err != nil {
			return value.Undefined(), err
		}
		v, err := t.binary(n.Op, l, r)
		return v, runtime.At(err, n.Pos())

	case *ast.LogicalExpr:
		l, err := t.eval(n.Left, f)
		if err != nil {
			return value.Undefined(), err
		}
		if value.Truthy(l) == (n.Op == "||") {
			return l, nil
		}
		return t.eval(n.Right, f)

	case *ast.NullishExpr:
		l, err := t.eval(n.Left, f)
		if err != nil || !l.IsNullish() {
			return l, err
		}
		return t.eval(n.Right, f)

	case *ast.CondExpr:
		c, err := t.eval(n.Cond, f)
		if err != nil {
			return value.Undefined(), err
		}
		if value.Truthy(c) {
			return t.eval(n.Then, f)
		}
		return t.eval(n.Else, f)

	case *ast.UnaryExpr:
		return t.evalUnary(n, f)

	default:
		return value.Undefined(), &runtime.Error{
			Pos:     e.Pos(),
			Kind:    runtime.ErrType,
			Message: fmt.Sprintf("unexpected %T", e),
		}
	}
}

func literal(n *ast.Literal) value.Value {
	switch n.Kind {
	case ast.LitNumber:
		return value.Num(n.Num)
	case ast.LitString:
		return value.Str(n.Str)
	case ast.LitTrue:
		return value.Bool(true)
	case ast.LitFalse:
		return value.Bool(false)
	case ast.LitNull:
		return value.Null()
	default:
		return value.Undefined()
	}
}

// evalFuncLit creates a function expression's closure. A named function
// expression sees its own name in a frame between it and its definer.
func (t *task) evalFuncLit(fn *ast.Func, f *scope.Frame) value.Value {
	if fn.Name == "" {
		return value.FuncOf(t.newClosure(fn, f))
	}
	self := f.NewChild()
	c := t.newClosure(fn, self)
	self.Bind(fn.Name, value.FuncOf(c), true)
	return value.FuncOf(c)
}

// Operators

func (t *task) binary(op string, l, r value.Value) (value.Value, error) {
	switch op {
	case "+":
		if l.Kind() == value.KindStr || r.Kind() == value.KindStr {
			ls, rs := value.ToString(l), value.ToString(r)
			if err := t.checkStringLen(len(ls) + len(rs)); err != nil {
				return value.Undefined(), err
			}
			return value.Str(ls + rs), nil
		}
		return value.Num(value.ToNumber(l) + value.ToNumber(r)), nil
	case "-":
		return value.Num(value.ToNumber(l) - value.ToNumber(r)), nil
	case "*":
		return value.Num(value.ToNumber(l) * value.ToNumber(r)), nil
	case "/":
		return value.Num(value.ToNumber(l) / value.ToNumber(r)), nil
	case "%":
		return value.Num(math.Mod(value.ToNumber(l), value.ToNumber(r))), nil
	case "==":
		return value.Bool(value.LooseEquals(l, r)), nil
	case "!=":
		return value.Bool(!value.LooseEquals(l, r)), nil
	case "===":
		return value.Bool(value.StrictEquals(l, r)), nil
	case "!==":
		return value.Bool(!value.StrictEquals(l, r)), nil
	case "<":
		less, ok := value.Less(l, r)
		return value.Bool(ok && less), nil
	case ">":
		less, ok := value.Less(r, l)
		return value.Bool(ok && less), nil
	case "<=":
		greater, ok := value.Less(r, l)
		return value.Bool(ok && !greater), nil
	case ">=":
		less, ok := value.Less(l, r)
		return value.Bool(ok && !less), nil
	default:
		return value.Undefined(), runtime.Errorf(runtime.ErrType, "unknown operator %s", op)
	}
}

func (t *task) evalUnary(n *ast.UnaryExpr, f *scope.Frame) (value.Value, error) {
	v, err := t.eval(n.Expr, f)
	if err != nil {
		// typeof tolerates names that resolve nowhere.
		if _, ok := n.Expr.(*ast.Ident); ok && n.Op == "typeof" && errors.Is(err, runtime.ErrUnknownIdentifier) {
			return value.Str("undefined"), nil
		}
		return value.Undefined(), err
	}
	switch n.Op {
	case "!":
		return value.Bool(!value.Truthy(v)), nil
	case "-":
		return value.Num(-value.ToNumber(v)), nil
	case "+":
		return value.Num(value.ToNumber(v)), nil
	case "typeof":
		return value.Str(value.TypeOf(v)), nil
	default:
		return value.Undefined(), &runtime.Error{
			Pos:     n.Pos(),
			Kind:    runtime.ErrType,
			Message: "unknown operator " + n.Op,
		}
	}
}

// Writes

func (t *task) evalAssign(n *ast.AssignExpr, f *scope.Frame) (value.Value, error) {
	ref, err := t.resolve(n.Left, f)
	if err != nil {
		return value.Undefined(), err
	}

	var v value.Value
	if n.Op == "=" {
		if v, err = t.eval(n.Right, f); err != nil {
			return value.Undefined(), err
		}
		nameAnonymous(n.Right, v, ref.name())
	} else {
		old, err := ref.get(t)
		if err != nil {
			return value.Undefined(), err
		}
		r, err := t.eval(n.Right, f)
		if err != nil {
			return value.Undefined(), err
		}
		// "+=" applies "+", and so on.
		if v, err = t.binary(n.Op[:len(n.Op)-1], old, r); err != nil {
			return value.Undefined(), runtime.At(err, n.Pos())
		}
	}

	if err := ref.set(t, v); err != nil {
		return value.Undefined(), err
	}
	return v, nil
}

func (t *task) evalUpdate(n *ast.UpdateExpr, f *scope.Frame) (value.Value, error) {
	ref, err := t.resolve(n.Target, f)
	if err != nil {
		return value.Undefined(), err
	}
	old, err := ref.get(t)
	if err != nil {
		return value.Undefined(), err
	}
	x := value.ToNumber(old)
	next := x + 1
	if n.Op == "--" {
		next = x - 1
	}
	if err := ref.set(t, value.Num(next)); err != nil {
		return value.Undefined(), err
	}
	if n.Prefix {
		return value.Num(next), nil
	}
	return value.Num(x), nil
}

// Literals

func (t *task) evalArray(n *ast.ArrayLit, f *scope.Frame) (value.Value, error) {
	elems, err := t.evalList(n.Elems, f)
	if err != nil {
		return value.Undefined(), err
	}
	return value.NewArray(elems...), nil
}

// evalList evaluates array elements or call arguments, flattening spreads.
func (t *task) evalList(exprs []ast.Expr, f *scope.Frame) ([]value.Value, error) {
	out := make([]value.Value, 0, len(exprs))
	for _, e := range exprs {
		spread, ok := e.(*ast.SpreadElem)
		if !ok {
			v, err := t.eval(e, f)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
			continue
		}
		src, err := t.eval(spread.Expr, f)
		if err != nil {
			return nil, err
		}
		arr := src.AsArray()
		if arr == nil {
			return nil, &runtime.Error{
				Pos:     spread.Pos(),
				Kind:    runtime.ErrType,
				Message: "spread source must be an array, got " + value.TypeOf(src),
			}
		}
		if err := t.checkArrayLen(len(out) + arr.Len()); err != nil {
			return nil, runtime.At(err, spread.Pos())
		}
		out = append(out, arr.Elems...)
	}
	return out, nil
}

func (t *task) evalObject(n *ast.ObjectLit, f *scope.Frame) (value.Value, error) {
	obj := value.NewObject()
	for _, p := range n.Props {
		if p.Kind == ast.PropSpread {
			src, err := t.eval(p.Value, f)
			if err != nil {
				return value.Undefined(), err
			}
			props := src.AsObject()
			if props == nil {
				return value.Undefined(), &runtime.Error{
					Pos:     p.KeyPos,
					Kind:    runtime.ErrType,
					Message: "spread source must be an object, got " + value.TypeOf(src),
				}
			}
			for _, k := range props.Keys() {
				if f.Policy().IsForbiddenProperty(k) {
					return value.Undefined(), forbidden(k, p.KeyPos)
				}
				v, ok := props.Get(k)
				if !ok {
					continue
				}
				if err := obj.Set(k, v); err != nil {
					return value.Undefined(), &runtime.Error{Pos: p.KeyPos, Kind: runtime.ErrType, Message: err.Error()}
				}
			}
			continue
		}

		key := p.Key
		if p.Computed {
			k, err := t.eval(p.KeyExpr, f)
			if err != nil {
				return value.Undefined(), err
			}
			key = value.PropertyKey(k)
		}
		if f.Policy().IsForbiddenProperty(key) {
			return value.Undefined(), forbidden(key, p.KeyPos)
		}

		var v value.Value
		var err error
		switch p.Kind {
		case ast.PropShorthand:
			v, err = f.Get(key)
			err = runtime.At(err, p.KeyPos)
		case ast.PropMethod:
			c := t.newClosure(p.Value.(*ast.FuncLit).Func, f)
			if c.name == "" {
				c.name = key
			}
			v = value.FuncOf(c)
		default:
			v, err = t.eval(p.Value, f)
			if err == nil {
				nameAnonymous(p.Value, v, key)
			}
		}
		if err != nil {
			return value.Undefined(), err
		}
		if err := obj.Set(key, v); err != nil {
			return value.Undefined(), &runtime.Error{Pos: p.KeyPos, Kind: runtime.ErrType, Message: err.Error()}
		}
	}
	return value.ObjectOf(obj), nil
}
