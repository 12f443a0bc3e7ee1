package value

import "fmt"

// Array is a mutable, shared list of values.
type Array struct {
	Elems []Value
}

// Get returns the element at i, or undefined when out of range.
func (a *Array) Get(i int) Value {
	if i < 0 || i >= len(a.Elems) {
		return Undefined()
	}
	return a.Elems[i]
}

// Set stores v at i, growing the array with undefined as needed.
func (a *Array) Set(i int, v Value) {
	if i >= len(a.Elems) {
		a.Resize(i + 1)
	}
	a.Elems[i] = v
}

// Resize truncates or extends the array to n elements.
func (a *Array) Resize(n int) {
	if n <= len(a.Elems) {
		a.Elems = a.Elems[:n]
		return
	}
	a.Elems = append(a.Elems, make([]Value, n-len(a.Elems))...)
}

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.Elems) }

// Object is an insertion-ordered string-keyed map. It is the default
// Properties implementation and the type a host normally binds as an
// entity facade.
type Object struct {
	keys  []string
	props map[string]Value
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{props: make(map[string]Value)}
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.props[key]
	return v, ok
}

// Set stores v under key, appending key to the order on first write.
func (o *Object) Set(key string, v Value) error {
	if o.props == nil {
		o.props = make(map[string]Value)
	}
	if _, ok := o.props[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.props[key] = v
	return nil
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return append([]string(nil), o.keys...)
}

// Len returns the number of keys.
func (o *Object) Len() int { return len(o.keys) }

// MustGet returns the value under key or panics; intended for tests and
// host code that owns the object's shape.
func (o *Object) MustGet(key string) Value {
	v, ok := o.props[key]
	if !ok {
		panic(fmt.Sprintf("value: object has no key %q", key))
	}
	return v
}

// ReadOnly wraps p so scripts can read but never write it.
type ReadOnly struct {
	Properties
}

// Set always fails.
func (r ReadOnly) Set(key string, _ Value) error {
	return fmt.Errorf("property %q is read-only", key)
}

var (
	_ Properties = (*Object)(nil)
	_ Properties = ReadOnly{}
	_ Callable   = (*Native)(nil)
)
