package semantic

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/kolkov/scriptbox/internal/parser"
	"github.com/kolkov/scriptbox/internal/token"
)

// Helper to parse and resolve
func resolveCode(t *testing.T, code string) *Result {
	t.Helper()
	prog, err := parser.Parse(code)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return Resolve(prog, "self")
}

// warnings renders the warnings of code as "line:col: message".
func warnings(t *testing.T, code string) []string {
	t.Helper()
	var out []string
	for _, w := range resolveCode(t, code).Warnings {
		out = append(out, w.Pos.String()+": "+w.Message)
	}
	return out
}

func TestFreeNames(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		free   []string
		writes []string
	}{
		{
			name:   "facade fields",
			code:   `hp -= 3; mana = max(mana, 0); return hp`,
			free:   []string{"hp", "mana", "max"},
			writes: []string{"hp", "mana"},
		},
		{
			name: "locals are not free",
			code: `let a = 1; const b = a + c; b`,
			free: []string{"c"},
		},
		{
			name: "params and defaults",
			code: `function f(a, b = a + k) { return a + b + z; } f(1)`,
			free: []string{"k", "z"},
		},
		{
			name: "default before later param",
			code: `let g = (a = b, b = 1) => a; g()`,
			free: []string{"b"},
		},
		{
			name: "hoisted function",
			code: `f(); function f() { return 1 }`,
			free: nil,
		},
		{
			name: "block scope ends",
			code: `{ let inner = 1; inner } inner`,
			free: []string{"inner"},
		},
		{
			name:   "for init scope",
			code:   `for (let i = 0; i < n; i++) { total += i }`,
			free:   []string{"n", "total"},
			writes: []string{"total"},
		},
		{
			name: "named function expression",
			code: `let fact = function loop(n) { return n < 2 ? 1 : n * loop(n - 1) }; fact(3)`,
			free: nil,
		},
		{
			name: "object shorthand and computed keys",
			code: `let o = { hp, [key]: 1, m() { return this.x + y } }; o`,
			free: []string{"hp", "key", "y"},
		},
		{
			name: "members are not names",
			code: `self.hp = target.hp`,
			free: []string{"self", "target"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := resolveCode(t, tt.code)
			if diff := cmp.Diff(tt.free, result.Free, cmpEmpty); diff != "" {
				t.Errorf("Free mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.writes, result.Writes, cmpEmpty); diff != "" {
				t.Errorf("Writes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// cmpEmpty treats nil and empty slices as equal.
var cmpEmpty = cmpopts.EquateEmpty()

func TestWarnings(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{
			name: "clean",
			code: `let a = 1; function f(x) { let y = x; return y } f(a)`,
			want: nil,
		},
		{
			name: "unused nested variable",
			code: `function f() { let tmp = 1; return 2 } f()`,
			want: []string{`1:20: let "tmp" is declared but never used`},
		},
		{
			name: "unused nested function",
			code: `function f() {\n  function helper() {}\n  return 1\n}\nf()`,
			want: []string{`2:3: function "helper" is declared but never called`},
		},
		{
			name: "top-level declarations are not reported",
			code: `let unused = 1; function later() {}`,
			want: nil,
		},
		{
			name: "underscore opts out",
			code: `function f() { let _skip = 1 } f()`,
			want: nil,
		},
		{
			name: "redeclared",
			code: `let a = 1; let a = 2`,
			want: []string{`1:16: "a" is already declared in this scope`},
		},
		{
			name: "const assignment",
			code: `const k = 1; k += 1`,
			want: []string{`1:14: assignment to const "k"`},
		},
		{
			name: "const update",
			code: `const k = 1; k++`,
			want: []string{`1:14: assignment to const "k"`},
		},
		{
			name: "facade shadow",
			code: `function f(self) { return self } f(1)`,
			want: []string{`1:12: param "self" shadows the facade binding`},
		},
		{
			name: "duplicate key",
			code: `let o = { a: 1, a: 2 }`,
			want: []string{`1:17: duplicate key "a" in object literal`},
		},
		{
			name: "shadowing an outer name is fine",
			code: `let a = 1; { let a = 2; a } a`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code := strings.ReplaceAll(tt.code, `\n`, "\n")
			if diff := cmp.Diff(tt.want, warnings(t, code), cmpEmpty); diff != "" {
				t.Errorf("warnings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSymbols(t *testing.T) {
	result := resolveCode(t, `let a = 1; const b = 2; function f(x, y = 1) { var z = x } f(a + b)`)

	var got []string
	for _, sym := range result.Symbols {
		got = append(got, sym.Kind.String()+" "+sym.Name)
	}
	want := []string{"function f", "let a", "const b", "param x", "param y", "var z"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Symbols mismatch (-want +got):\n%s", diff)
	}
}

func TestSymbolTable(t *testing.T) {
	global := NewSymbolTable(nil, "program")
	inner := NewSymbolTable(global, "block")

	if global.Define("a", SymbolLet, token.NoPos) == nil {
		t.Fatal("Define(a) = nil")
	}
	if global.Define("a", SymbolConst, token.NoPos) != nil {
		t.Error("second Define(a) in the same scope succeeded")
	}
	if inner.Define("a", SymbolConst, token.NoPos) == nil {
		t.Error("shadowing Define(a) in an inner scope failed")
	}

	sym, ok := inner.Lookup("a")
	if !ok || sym.Kind != SymbolConst {
		t.Errorf("inner.Lookup(a) = %v, %v; want the inner const", sym, ok)
	}
	if _, ok := inner.LookupLocal("missing"); ok {
		t.Error("LookupLocal(missing) found a symbol")
	}
	if inner.Parent() != global || inner.Name() != "block" || global.Count() != 1 {
		t.Error("scope accessors disagree with construction")
	}
	if diff := cmp.Diff([]string{"a"}, global.Names()); diff != "" {
		t.Errorf("Names mismatch (-want +got):\n%s", diff)
	}
}
