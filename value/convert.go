package value

import (
	"math"
	"strconv"
	"strings"
)

// Conversions

// ToNumber converts v using script numeric coercion: booleans are 0/1,
// null is 0, undefined is NaN, strings parse strictly (blank is 0,
// garbage is NaN), arrays, objects and functions are NaN.
func ToNumber(v Value) float64 {
	switch v.kind {
	case KindNum, KindBool:
		return v.num
	case KindNull:
		return 0
	case KindStr:
		return ParseNum(v.str)
	default:
		return math.NaN()
	}
}

// ToString converts v using script string coercion.
func ToString(v Value) string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		if v.num != 0 {
			return "true"
		}
		return "false"
	case KindNum:
		return FormatNum(v.num)
	case KindStr:
		return v.str
	case KindArray:
		a := v.AsArray()
		parts := make([]string, len(a.Elems))
		for i, e := range a.Elems {
			if !e.IsNullish() {
				parts[i] = ToString(e)
			}
		}
		return strings.Join(parts, ",")
	case KindObject:
		return "[object Object]"
	case KindFunc:
		return "function " + v.AsFunc().FuncName() + "() { [native code] }"
	default:
		return ""
	}
}

// Truthy reports whether v counts as true in a condition.
func Truthy(v Value) bool {
	switch v.kind {
	case KindUndefined, KindNull:
		return false
	case KindBool:
		return v.num != 0
	case KindNum:
		return v.num != 0 && !math.IsNaN(v.num)
	case KindStr:
		return v.str != ""
	default:
		return true
	}
}

// TypeOf returns the typeof string for v.
func TypeOf(v Value) string {
	switch v.kind {
	case KindNull, KindArray, KindObject:
		return "object"
	default:
		return v.kind.String()
	}
}

// Comparison

// StrictEquals implements ===: same kind and same value, reference
// identity for arrays, objects and functions.
func StrictEquals(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindUndefined, KindNull:
		return true
	case KindBool, KindNum:
		return a.num == b.num // NaN != NaN
	case KindStr:
		return a.str == b.str
	default:
		return a.ref == b.ref
	}
}

// LooseEquals implements ==: null and undefined equal each other and
// nothing else; mixed primitive kinds compare as numbers.
func LooseEquals(a, b Value) bool {
	if a.kind == b.kind {
		return StrictEquals(a, b)
	}
	if a.IsNullish() || b.IsNullish() {
		return a.IsNullish() && b.IsNullish()
	}
	if isPrimitive(a) && isPrimitive(b) {
		return ToNumber(a) == ToNumber(b)
	}
	// An object against a primitive compares through its string form.
	if isPrimitive(a) {
		return LooseEquals(a, Str(ToString(b)))
	}
	if isPrimitive(b) {
		return LooseEquals(Str(ToString(a)), b)
	}
	return false
}

// Less implements a < b: lexicographic when both are strings, numeric
// otherwise. ok is false when either side converts to NaN, in which case
// every relational operator yields false.
func Less(a, b Value) (less, ok bool) {
	if a.kind == KindStr && b.kind == KindStr {
		return a.str < b.str, true
	}
	x, y := ToNumber(a), ToNumber(b)
	if math.IsNaN(x) || math.IsNaN(y) {
		return false, false
	}
	return x < y, true
}

func isPrimitive(v Value) bool {
	switch v.kind {
	case KindBool, KindNum, KindStr:
		return true
	default:
		return false
	}
}

// Number parsing and formatting

// ParseNum parses a string the way script coercion does: surrounding
// whitespace is ignored, blank is 0, hex and Infinity are accepted and
// anything else that is not a complete number is NaN.
func ParseNum(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		n, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	// Reject forms ParseFloat accepts but scripts do not.
	if strings.ContainsAny(s, "_xXpPnN") {
		return math.NaN()
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return n
}

// FormatNum formats a number as scripts print it: integers without a
// fraction, shortest round-trip digits otherwise, exponent form outside
// [1e-6, 1e21).
func FormatNum(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}
	abs := math.Abs(n)
	if abs >= 1e21 || abs < 1e-6 {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// ToIndex converts v to a non-negative integer index when it denotes
// one exactly (e.g. 2 or "2"), for array element access.
func ToIndex(v Value) (int, bool) {
	var f float64
	switch v.kind {
	case KindNum:
		f = v.num
	case KindStr:
		f = ParseNum(v.str)
		// Only canonical forms: "2" is an index, "02" and " 2" are keys.
		if FormatNum(f) != v.str {
			return 0, false
		}
	default:
		return 0, false
	}
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// PropertyKey converts v to the string key used for object access.
func PropertyKey(v Value) string {
	return ToString(v)
}

// Display

const maxInspectDepth = 6

func inspect(v Value, quote bool, depth int) string {
	switch v.kind {
	case KindStr:
		if quote {
			return strconv.Quote(v.str)
		}
		return v.str
	case KindArray:
		if depth > maxInspectDepth {
			return "[...]"
		}
		a := v.AsArray()
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range a.Elems {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(inspect(e, true, depth+1))
		}
		sb.WriteByte(']')
		return sb.String()
	case KindObject:
		if depth > maxInspectDepth {
			return "{...}"
		}
		o := v.AsObject()
		keys := o.Keys()
		if len(keys) == 0 {
			return "{}"
		}
		var sb strings.Builder
		sb.WriteString("{ ")
		for i, k := range keys {
			if i > 0 {
				sb.WriteString(", ")
			}
			e, _ := o.Get(k)
			sb.WriteString(k)
			sb.WriteString(": ")
			sb.WriteString(inspect(e, true, depth+1))
		}
		sb.WriteString(" }")
		return sb.String()
	case KindFunc:
		name := v.AsFunc().FuncName()
		if name == "" {
			return "[function]"
		}
		return "[function " + name + "]"
	default:
		return ToString(v)
	}
}
