// Package scope implements lexical frames with const tracking and the
// fallback from unresolved names to the entity facade.
//
// Resolution is two-tier: the frame chain is searched first, innermost
// outward; a name no frame binds is then read from or written to the
// facade, the object bound under the facade name in the root frame.
package scope

import (
	"sort"

	"github.com/kolkov/scriptbox/internal/guard"
	"github.com/kolkov/scriptbox/internal/runtime"
	"github.com/kolkov/scriptbox/value"
)

// Frame is one lexical binding table.
type Frame struct {
	vars   map[string]value.Value
	consts map[string]bool
	parent *Frame
	env    *env
}

// env is shared by every frame of one chain.
type env struct {
	policy *guard.Policy
	facade string
}

// NewRoot creates the root frame of a run. The facade name is reserved
// even when nothing is bound under it.
func NewRoot(policy *guard.Policy, facade string) *Frame {
	if policy == nil {
		policy = guard.DefaultPolicy()
	}
	return &Frame{env: &env{policy: policy, facade: facade}}
}

// NewChild creates a frame whose parent is f.
func (f *Frame) NewChild() *Frame {
	return &Frame{parent: f, env: f.env}
}

// Parent returns the enclosing frame, or nil for the root.
func (f *Frame) Parent() *Frame { return f.parent }

// Bind sets name in f unconditionally. Hosts seed the root frame with it;
// the facade name is always bound const.
func (f *Frame) Bind(name string, v value.Value, isConst bool) {
	if f.vars == nil {
		f.vars = make(map[string]value.Value)
	}
	f.vars[name] = v
	if isConst || (f.parent == nil && name == f.env.facade) {
		if f.consts == nil {
			f.consts = make(map[string]bool)
		}
		f.consts[name] = true
	} else {
		delete(f.consts, name)
	}
}

// Declare introduces name in f. It fails when f already owns name or when
// name is the facade name; shadowing an outer frame is allowed.
func (f *Frame) Declare(kind, name string, v value.Value) error {
	if name == f.env.facade {
		return runtime.Errorf(runtime.ErrRedeclared, "cannot redeclare %q", name)
	}
	if _, ok := f.vars[name]; ok {
		return runtime.Errorf(runtime.ErrRedeclared, "%q has already been declared", name)
	}
	f.Bind(name, v, kind == "const")
	return nil
}

// Get resolves name lexically, then on the facade.
func (f *Frame) Get(name string) (value.Value, error) {
	for fr := f; fr != nil; fr = fr.parent {
		if v, ok := fr.vars[name]; ok {
			return v, nil
		}
	}
	if facade := f.Facade().AsObject(); facade != nil {
		if f.env.policy.IsForbiddenProperty(name) {
			return value.Undefined(), runtime.Errorf(runtime.ErrForbidden, "forbidden property %q", name)
		}
		v, _ := facade.Get(name)
		return v, nil
	}
	return value.Undefined(), runtime.Errorf(runtime.ErrUnknownIdentifier,
		"unknown identifier %q%s", name, runtime.DidYouMean(name, f.Names()))
}

// Set assigns name in the nearest frame binding it. A name no frame binds
// becomes a field of the facade.
func (f *Frame) Set(name string, v value.Value) error {
	for fr := f; fr != nil; fr = fr.parent {
		if _, ok := fr.vars[name]; ok {
			if fr.consts[name] {
				return runtime.Errorf(runtime.ErrConst, "cannot assign to const %q", name)
			}
			fr.vars[name] = v
			return nil
		}
	}
	facade := f.Facade().AsObject()
	if facade == nil {
		return runtime.Errorf(runtime.ErrUnknownIdentifier,
			"unknown identifier %q%s", name, runtime.DidYouMean(name, f.Names()))
	}
	if f.env.policy.IsForbiddenProperty(name) {
		return runtime.Errorf(runtime.ErrForbidden, "forbidden property %q", name)
	}
	if err := facade.Set(name, v); err != nil {
		return &runtime.Error{Kind: runtime.ErrHost, Message: err.Error(), Cause: err}
	}
	return nil
}

// Facade returns the value bound under the facade name, found by walking
// the same chain as Get; undefined when none is bound.
func (f *Frame) Facade() value.Value {
	for fr := f; fr != nil; fr = fr.parent {
		if v, ok := fr.vars[f.env.facade]; ok {
			return v
		}
	}
	return value.Undefined()
}

// FacadeName returns the reserved facade binding name.
func (f *Frame) FacadeName() string { return f.env.facade }

// Policy returns the naming tables the chain checks against.
func (f *Frame) Policy() *guard.Policy { return f.env.policy }

// Names returns every name visible from f, including facade fields,
// sorted and without duplicates.
func (f *Frame) Names() []string {
	seen := make(map[string]struct{})
	for fr := f; fr != nil; fr = fr.parent {
		for name := range fr.vars {
			seen[name] = struct{}{}
		}
	}
	if facade := f.Facade().AsObject(); facade != nil {
		for _, k := range facade.Keys() {
			seen[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
