package interp

import (
	"fmt"
	"unicode/utf8"

	"github.com/kolkov/scriptbox/internal/ast"
	"github.com/kolkov/scriptbox/internal/runtime"
	"github.com/kolkov/scriptbox/internal/scope"
	"github.com/kolkov/scriptbox/internal/token"
	"github.com/kolkov/scriptbox/value"
)

// reference is a resolved assignment target: a name in a frame chain, or
// a key on a receiver. Reads and writes through it take the same path as
// plain identifier and member access.
type reference struct {
	frame *scope.Frame
	ident string
	obj   value.Value
	key   string
	pos   token.Position
}

func (r reference) name() string {
	if r.frame != nil {
		return r.ident
	}
	return r.key
}

func (r reference) get(t *task) (value.Value, error) {
	if r.frame != nil {
		v, err := r.frame.Get(r.ident)
		return v, runtime.At(err, r.pos)
	}
	return t.getMember(r.obj, r.key, r.pos)
}

func (r reference) set(t *task, v value.Value) error {
	if r.frame != nil {
		return runtime.At(r.frame.Set(r.ident, v), r.pos)
	}
	return t.setMember(r.obj, r.key, v, r.pos)
}

// resolve evaluates the receiver and key of an assignment target once, so
// compound assignment reads and writes the same slot.
func (t *task) resolve(target ast.Expr, f *scope.Frame) (reference, error) {
	switch n := target.(type) {
	case *ast.Ident:
		return reference{frame: f, ident: n.Name, pos: n.Pos()}, nil
	case *ast.MemberExpr:
		obj, err := t.eval(n.Object, f)
		if err != nil {
			return reference{}, err
		}
		key, err := t.memberKey(n, f)
		if err != nil {
			return reference{}, err
		}
		return reference{obj: obj, key: key, pos: n.Pos()}, nil
	default:
		return reference{}, &runtime.Error{
			Pos:     target.Pos(),
			Kind:    runtime.ErrType,
			Message: "invalid assignment target",
		}
	}
}

func (t *task) memberKey(n *ast.MemberExpr, f *scope.Frame) (string, error) {
	if !n.Computed {
		return n.Name, nil
	}
	k, err := t.eval(n.Prop, f)
	if err != nil {
		return "", err
	}
	return value.PropertyKey(k), nil
}

// evalChain evaluates a member or call expression. short reports that an
// optional link met null or undefined, in which case the whole remaining
// chain is undefined and nothing to its right was evaluated.
func (t *task) evalChain(e ast.Expr, f *scope.Frame) (v value.Value, short bool, err error) {
	switch n := e.(type) {
	case *ast.MemberExpr:
		_, v, short, err = t.evalMember(n, f)
		return v, short, err

	case *ast.CallExpr:
		var recv, fn value.Value
		if m, ok := n.Callee.(*ast.MemberExpr); ok {
			if err := t.step(m); err != nil {
				return value.Undefined(), false, err
			}
			recv, fn, short, err = t.evalMember(m, f)
			if m.Paren {
				short = false
			}
		} else {
			fn, short, err = t.evalLink(n.Callee, f)
		}
		if err != nil || short {
			return value.Undefined(), short, err
		}
		if n.Optional && fn.IsNullish() {
			return value.Undefined(), true, nil
		}
		callee := fn.AsFunc()
		if callee == nil {
			return value.Undefined(), false, t.notAFunction(n.Callee, recv, f)
		}
		args, err := t.evalList(n.Args, f)
		if err != nil {
			return value.Undefined(), false, err
		}
		v, err := t.call(callee, args)
		return v, false, runtime.At(err, n.Pos())

	default:
		v, err := t.eval(e, f)
		return v, false, err
	}
}

// evalMember evaluates obj.name or obj[key] and also returns the receiver.
func (t *task) evalMember(n *ast.MemberExpr, f *scope.Frame) (obj, v value.Value, short bool, err error) {
	obj, short, err = t.evalLink(n.Object, f)
	if err != nil || short {
		return obj, value.Undefined(), short, err
	}
	if !n.Computed && t.forbidden(n.Name) {
		return obj, value.Undefined(), false, forbidden(n.Name, n.Pos())
	}
	if n.Optional && obj.IsNullish() {
		return obj, value.Undefined(), true, nil
	}
	key, err := t.memberKey(n, f)
	if err != nil {
		return obj, value.Undefined(), false, err
	}
	v, err = t.getMember(obj, key, n.Pos())
	return obj, v, false, err
}

// evalLink evaluates the inner part of a chain, keeping the short-circuit
// flag that a plain eval would drop. Parentheses end a short circuit: the
// enclosed chain is then just undefined.
func (t *task) evalLink(e ast.Expr, f *scope.Frame) (value.Value, bool, error) {
	switch e.(type) {
	case *ast.MemberExpr, *ast.CallExpr:
		if err := t.step(e); err != nil {
			return value.Undefined(), false, err
		}
		v, short, err := t.evalChain(e, f)
		return v, short && !ast.IsParenChain(e), err
	default:
		v, err := t.eval(e, f)
		return v, false, err
	}
}

// call invokes a closure or a host native from script.
func (t *task) call(fn value.Callable, args []value.Value) (value.Value, error) {
	if c, ok := fn.(*Closure); ok {
		return c.call(args)
	}
	v, err := fn.Call(args)
	if err != nil {
		return value.Undefined(), hostError(fn, err)
	}
	return v, nil
}

// hostError reports a failing native. Runtime errors from natives that
// call back into script pass through unchanged.
func hostError(fn value.Callable, err error) error {
	if runtime.KindOf(err) != nil {
		return err
	}
	return &runtime.Error{
		Kind:    runtime.ErrHost,
		Message: fmt.Sprintf("%s: %v", fn.FuncName(), err),
		Cause:   err,
	}
}

func (t *task) notAFunction(callee ast.Expr, recv value.Value, f *scope.Frame) error {
	name := "expression"
	var candidates []string
	switch n := callee.(type) {
	case *ast.Ident:
		name = n.Name
		candidates = f.Names()
	case *ast.MemberExpr:
		if !n.Computed {
			name = n.Name
			candidates = functionKeys(recv)
		}
	}
	return &runtime.Error{
		Pos:     callee.Pos(),
		Kind:    runtime.ErrType,
		Message: fmt.Sprintf("%s is not a function%s", name, runtime.DidYouMean(name, candidates)),
	}
}

// functionKeys lists the keys of obj that hold functions.
func functionKeys(obj value.Value) []string {
	props := obj.AsObject()
	if props == nil {
		return nil
	}
	var keys []string
	for _, k := range props.Keys() {
		if v, _ := props.Get(k); v.Kind() == value.KindFunc {
			keys = append(keys, k)
		}
	}
	return keys
}

func (t *task) forbidden(key string) bool {
	return t.in.cfg.Policy.IsForbiddenProperty(key)
}

func forbidden(key string, pos token.Position) error {
	return &runtime.Error{
		Pos:     pos,
		Kind:    runtime.ErrForbidden,
		Message: fmt.Sprintf("forbidden property %q", key),
	}
}

// getMember reads obj[key]. The forbidden check comes first, so every
// receiver kind fails the same way.
func (t *task) getMember(obj value.Value, key string, pos token.Position) (value.Value, error) {
	if t.forbidden(key) {
		return value.Undefined(), forbidden(key, pos)
	}

	switch obj.Kind() {
	case value.KindUndefined, value.KindNull:
		return value.Undefined(), &runtime.Error{
			Pos:     pos,
			Kind:    runtime.ErrType,
			Message: fmt.Sprintf("cannot read property %q of %s", key, obj.Kind()),
		}

	case value.KindArray:
		arr := obj.AsArray()
		if key == "length" {
			return value.Num(float64(arr.Len())), nil
		}
		if i, ok := value.ToIndex(value.Str(key)); ok {
			return arr.Get(i), nil
		}

	case value.KindStr:
		s := obj.AsStr()
		if key == "length" {
			return value.Num(float64(utf8.RuneCountInString(s))), nil
		}
		if i, ok := value.ToIndex(value.Str(key)); ok {
			return charAt(s, i), nil
		}

	case value.KindObject:
		v, _ := obj.AsObject().Get(key)
		return v, nil

	case value.KindFunc:
		if key == "name" {
			return value.Str(obj.AsFunc().FuncName()), nil
		}
	}
	return value.Undefined(), nil
}

func charAt(s string, i int) value.Value {
	for _, r := range s {
		if i == 0 {
			return value.Str(string(r))
		}
		i--
	}
	return value.Undefined()
}

// setMember writes obj[key] = v.
func (t *task) setMember(obj value.Value, key string, v value.Value, pos token.Position) error {
	if t.forbidden(key) {
		return forbidden(key, pos)
	}

	switch obj.Kind() {
	case value.KindArray:
		arr := obj.AsArray()
		if key == "length" {
			n, ok := value.ToIndex(v)
			if !ok {
				return &runtime.Error{Pos: pos, Kind: runtime.ErrType, Message: "invalid array length " + value.ToString(v)}
			}
			if err := t.checkArrayLen(n); err != nil {
				return runtime.At(err, pos)
			}
			arr.Resize(n)
			return nil
		}
		i, ok := value.ToIndex(value.Str(key))
		if !ok {
			return &runtime.Error{
				Pos:     pos,
				Kind:    runtime.ErrType,
				Message: fmt.Sprintf("cannot set property %q on an array", key),
			}
		}
		if err := t.checkArrayLen(i + 1); err != nil {
			return runtime.At(err, pos)
		}
		arr.Set(i, v)
		return nil

	case value.KindObject:
		if err := obj.AsObject().Set(key, v); err != nil {
			return &runtime.Error{Pos: pos, Kind: runtime.ErrHost, Message: err.Error(), Cause: err}
		}
		return nil

	default:
		return &runtime.Error{
			Pos:     pos,
			Kind:    runtime.ErrType,
			Message: fmt.Sprintf("cannot set property %q of %s", key, obj.Kind()),
		}
	}
}
