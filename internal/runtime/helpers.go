package runtime

import (
	"math"
	"math/rand"
	"sort"
	"unicode/utf8"

	"github.com/kolkov/scriptbox/value"
)

// unary helpers map one numeric argument to a number.
var unary = map[string]func(float64) float64{
	"abs":   math.Abs,
	"floor": math.Floor,
	"ceil":  math.Ceil,
	"trunc": math.Trunc,
	"sqrt":  math.Sqrt,
	"round": func(x float64) float64 {
		// Halves round toward +Inf: round(-2.5) is -2.
		return math.Floor(x + 0.5)
	},
	"sign": func(x float64) float64 {
		switch {
		case x > 0:
			return 1
		case x < 0:
			return -1
		default:
			return x // keeps 0, -0 and NaN
		}
	},
}

// HelperNames returns the names NewHelpers binds, sorted.
func HelperNames() []string {
	names := []string{"min", "max", "clamp", "lerp", "pow", "random", "isNaN", "len"}
	for name := range unary {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewHelpers returns the numeric helper set as host natives. Arguments are
// coerced with script numeric coercion; random draws from rng.
func NewHelpers(rng *rand.Rand) map[string]value.Value {
	h := make(map[string]value.Value, len(unary)+8)
	for name, fn := range unary {
		h[name] = value.NativeFunc(name, func(args []value.Value) (value.Value, error) {
			return value.Num(fn(num(args, 0))), nil
		})
	}

	h["min"] = value.NativeFunc("min", func(args []value.Value) (value.Value, error) {
		r := math.Inf(1)
		for _, a := range args {
			r = math.Min(r, value.ToNumber(a))
		}
		return value.Num(r), nil
	})
	h["max"] = value.NativeFunc("max", func(args []value.Value) (value.Value, error) {
		r := math.Inf(-1)
		for _, a := range args {
			r = math.Max(r, value.ToNumber(a))
		}
		return value.Num(r), nil
	})
	h["clamp"] = value.NativeFunc("clamp", func(args []value.Value) (value.Value, error) {
		x, lo, hi := num(args, 0), num(args, 1), num(args, 2)
		return value.Num(math.Max(lo, math.Min(x, hi))), nil
	})
	h["lerp"] = value.NativeFunc("lerp", func(args []value.Value) (value.Value, error) {
		a, b, t := num(args, 0), num(args, 1), num(args, 2)
		return value.Num(a + (b-a)*t), nil
	})
	h["pow"] = value.NativeFunc("pow", func(args []value.Value) (value.Value, error) {
		return value.Num(math.Pow(num(args, 0), num(args, 1))), nil
	})
	h["random"] = value.NativeFunc("random", func(args []value.Value) (value.Value, error) {
		// random() is in [0, 1); random(lo, hi) is in [lo, hi).
		r := rng.Float64()
		if len(args) >= 2 {
			lo, hi := num(args, 0), num(args, 1)
			r = lo + r*(hi-lo)
		}
		return value.Num(r), nil
	})
	h["isNaN"] = value.NativeFunc("isNaN", func(args []value.Value) (value.Value, error) {
		return value.Bool(math.IsNaN(num(args, 0))), nil
	})
	h["len"] = value.NativeFunc("len", length)
	return h
}

func num(args []value.Value, i int) float64 {
	return value.ToNumber(value.Arg(args, i))
}

// length counts array elements, string characters or object keys.
func length(args []value.Value) (value.Value, error) {
	v := value.Arg(args, 0)
	switch v.Kind() {
	case value.KindArray:
		return value.Num(float64(v.AsArray().Len())), nil
	case value.KindStr:
		return value.Num(float64(utf8.RuneCountInString(v.AsStr()))), nil
	case value.KindObject:
		return value.Num(float64(len(v.AsObject().Keys()))), nil
	default:
		return value.Undefined(), Errorf(ErrType, "len: cannot measure %s", value.TypeOf(v))
	}
}
