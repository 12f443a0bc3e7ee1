package value

import (
	"fmt"
	"sort"
)

// maxBridgeDepth bounds conversion of self-referencing containers.
const maxBridgeDepth = 64

// FromGo converts plain Go data, as produced by encoding/json or yaml
// decoding into any, to a Value. Maps become *Object with keys in sorted
// order. Values, Properties and Callables pass through unchanged.
func FromGo(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Num(float64(x)), nil
	case int32:
		return Num(float64(x)), nil
	case int64:
		return Num(float64(x)), nil
	case uint:
		return Num(float64(x)), nil
	case uint64:
		return Num(float64(x)), nil
	case float32:
		return Num(float64(x)), nil
	case float64:
		return Num(x), nil
	case string:
		return Str(x), nil
	case []any:
		a := &Array{Elems: make([]Value, len(x))}
		for i, e := range x {
			v, err := FromGo(e)
			if err != nil {
				return Undefined(), fmt.Errorf("[%d]: %w", i, err)
			}
			a.Elems[i] = v
		}
		return ArrayOf(a), nil
	case []Value:
		return NewArray(x...), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		o := NewObject()
		for _, k := range keys {
			v, err := FromGo(x[k])
			if err != nil {
				return Undefined(), fmt.Errorf("%s: %w", k, err)
			}
			_ = o.Set(k, v)
		}
		return ObjectOf(o), nil
	case Properties:
		return ObjectOf(x), nil
	case Callable:
		return FuncOf(x), nil
	case func(args []Value) (Value, error):
		return FuncOf(&Native{Fn: x}), nil
	default:
		return Undefined(), fmt.Errorf("cannot convert %T to a script value", x)
	}
}

// ToGo converts v to plain Go data: nil for null and undefined, bool,
// float64, string, []any and map[string]any. Functions convert to their
// Callable. Containers nested deeper than a fixed limit become nil.
func ToGo(v Value) any {
	return toGo(v, 0)
}

func toGo(v Value, depth int) any {
	if depth > maxBridgeDepth {
		return nil
	}
	switch v.kind {
	case KindBool:
		return v.AsBool()
	case KindNum:
		return v.num
	case KindStr:
		return v.str
	case KindArray:
		elems := v.AsArray().Elems
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = toGo(e, depth+1)
		}
		return out
	case KindObject:
		o := v.AsObject()
		out := make(map[string]any)
		for _, k := range o.Keys() {
			e, _ := o.Get(k)
			out[k] = toGo(e, depth+1)
		}
		return out
	case KindFunc:
		return v.AsFunc()
	default:
		return nil
	}
}
