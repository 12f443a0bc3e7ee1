// Package value defines the runtime values scripts operate on and the
// types a host uses to hand capabilities to a script.
//
// A Value is a small tagged union passed by value. Arrays, objects and
// functions are reference types: copying a Value copies the reference, so
// a host that binds an *Object observes every write a script makes to it.
package value

import "math"

// Kind represents the type of a value.
type Kind uint8

const (
	KindUndefined Kind = iota // zero Value
	KindNull
	KindBool
	KindNum
	KindStr
	KindArray
	KindObject
	KindFunc
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNum:
		return "number"
	case KindStr:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindFunc:
		return "function"
	default:
		return "unknown"
	}
}

// Value is a script runtime value. The zero Value is undefined.
type Value struct {
	kind Kind
	num  float64 // KindNum, and KindBool as 0/1
	str  string
	ref  any // *Array, Properties or Callable
}

// Properties is implemented by anything a script can treat as an object,
// including host entity facades. Set may refuse a write by returning an
// error, which surfaces to the script as a runtime error.
type Properties interface {
	Get(key string) (Value, bool)
	Set(key string, v Value) error
	Keys() []string
}

// Callable is a function value. Host functions use *Native; script
// closures are provided by the interpreter.
type Callable interface {
	Call(args []Value) (Value, error)
	FuncName() string
}

// Constructors

// Undefined returns the undefined value.
func Undefined() Value { return Value{} }

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool creates a boolean value.
func Bool(b bool) Value {
	if b {
		return Value{kind: KindBool, num: 1}
	}
	return Value{kind: KindBool}
}

// Num creates a numeric value.
func Num(n float64) Value { return Value{kind: KindNum, num: n} }

// Str creates a string value.
func Str(s string) Value { return Value{kind: KindStr, str: s} }

// ArrayOf wraps an existing array.
func ArrayOf(a *Array) Value {
	if a == nil {
		a = &Array{}
	}
	return Value{kind: KindArray, ref: a}
}

// NewArray creates an array value holding elems.
func NewArray(elems ...Value) Value {
	return ArrayOf(&Array{Elems: elems})
}

// ObjectOf wraps an object or host facade.
func ObjectOf(p Properties) Value {
	if p == nil {
		return Null()
	}
	return Value{kind: KindObject, ref: p}
}

// FuncOf wraps a callable.
func FuncOf(c Callable) Value {
	if c == nil {
		return Undefined()
	}
	return Value{kind: KindFunc, ref: c}
}

// Accessors

// Kind returns the value's type.
func (v Value) Kind() Kind { return v.kind }

// IsUndefined returns true if the value is undefined.
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// IsNullish returns true for null and undefined.
func (v Value) IsNullish() bool { return v.kind == KindUndefined || v.kind == KindNull }

// AsBool returns the boolean payload; false for non-booleans.
func (v Value) AsBool() bool { return v.kind == KindBool && v.num != 0 }

// AsNum returns the numeric payload; NaN for non-numbers.
func (v Value) AsNum() float64 {
	if v.kind == KindNum {
		return v.num
	}
	return math.NaN()
}

// AsStr returns the string payload; "" for non-strings.
func (v Value) AsStr() string { return v.str }

// AsArray returns the array payload or nil.
func (v Value) AsArray() *Array {
	a, _ := v.ref.(*Array)
	return a
}

// AsObject returns the object payload or nil.
func (v Value) AsObject() Properties {
	if v.kind != KindObject {
		return nil
	}
	p, _ := v.ref.(Properties)
	return p
}

// AsFunc returns the callable payload or nil.
func (v Value) AsFunc() Callable {
	if v.kind != KindFunc {
		return nil
	}
	c, _ := v.ref.(Callable)
	return c
}

// String returns a display representation: strings are quoted inside
// containers, numbers use script formatting.
func (v Value) String() string {
	return inspect(v, false, 0)
}

// Native is a host function exposed to scripts.
type Native struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

// Call invokes the host function.
func (n *Native) Call(args []Value) (Value, error) {
	return n.Fn(args)
}

// FuncName returns the name used in error messages.
func (n *Native) FuncName() string { return n.Name }

// NativeFunc is shorthand for FuncOf(&Native{...}).
func NativeFunc(name string, fn func(args []Value) (Value, error)) Value {
	return FuncOf(&Native{Name: name, Fn: fn})
}

// Arg returns args[i] or undefined when missing.
func Arg(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}
	return Undefined()
}
