package parser_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kolkov/scriptbox/internal/ast"
	"github.com/kolkov/scriptbox/internal/lexer"
	"github.com/kolkov/scriptbox/internal/parser"
)

// stmts renders each top-level statement of src.
func stmts(t *testing.T, src string) []string {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", src, err)
	}
	out := make([]string, len(prog.Body))
	for i, s := range prog.Body {
		out[i] = ast.String(s)
	}
	return out
}

// TestParseEmpty tests parsing an empty program.
func TestParseEmpty(t *testing.T) {
	for _, src := range []string{"", "  \n", "// nothing", ";;"} {
		prog, err := parser.Parse(src)
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", src, err)
		}
		for _, s := range prog.Body {
			if _, ok := s.(*ast.EmptyStmt); !ok {
				t.Errorf("Parse(%q) body has %T", src, s)
			}
		}
	}
}

// TestPrecedence tests the operator precedence cascade.
func TestPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"a % b / c", "((a % b) / c)"},
		{"a < b == c > d", "((a < b) == (c > d))"},
		{"a === b !== c", "((a === b) !== c)"},
		{"a || b && c", "(a || (b && c))"},
		{"a ?? b || c", "(a ?? (b || c))"},
		{"a ?? b ?? c", "((a ?? b) ?? c)"},
		{"x ? y : z ? 1 : 2", "(x ? y : (z ? 1 : 2))"},
		{"a = b = c", "(a = (b = c))"},
		{"a += b * 2", "(a += (b * 2))"},
		{"!a.b", "(!a.b)"},
		{"-x + +y", "((-x) + (+y))"},
		{"typeof x === 'number'", `((typeof x) === "number")`},
		{"!!x", "(!(!x))"},
		{"x++ + ++y", "((x++) + (++y))"},
		{"--a.b", "(--a.b)"},
		{"a.b[c](d)", "a.b[c](d)"},
		{"a?.b.c", "a?.b.c"},
		{"a?.[0]?.(1)", "a?.[0]?.(1)"},
		{"(a?.b).c", "(a?.b).c"},
		{"(a.b)(c)", "(a.b)(c)"},
		{"(a)(b)", "a(b)"},
		{"o.if", "o.if"},
		{"this.hp - 3", "(this.hp - 3)"},
		{"0x1F + 1.5e2", "(31 + 150)"},
		{"null ?? undefined", "(null ?? undefined)"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			expr, err := parser.ParseExpr(tt.src)
			if err != nil {
				t.Fatalf("ParseExpr() error = %v", err)
			}
			if got := ast.String(expr); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

// TestLiterals tests array and object literals.
func TestLiterals(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"[]", "[]"},
		{"[1, 'two', ...rest,]", `[1, "two", ...rest]`},
		{"{}", "{}"},
		{"{a, b: 1, 'c d': 2, 3: x}", `{ a, b: 1, c d: 2, 3: x }`},
		{"{[k + 1]: v}", "{ [(k + 1)]: v }"},
		{"{...o, m(a) { return a; }}", "{ ...o, m: function m(a) {\n    return a;\n} }"},
		{"f(...args, 1)", "f(...args, 1)"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			expr, err := parser.ParseExpr(tt.src)
			if err != nil {
				t.Fatalf("ParseExpr() error = %v", err)
			}
			if got := ast.String(expr); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// TestObjectPropertyKinds checks the property kinds recorded for each
// object literal entry form.
func TestObjectPropertyKinds(t *testing.T) {
	expr, err := parser.ParseExpr("{a, b: 1, [c]: 2, d() {}, ...e}")
	if err != nil {
		t.Fatalf("ParseExpr() error = %v", err)
	}
	obj, ok := expr.(*ast.ObjectLit)
	if !ok {
		t.Fatalf("got %T, want *ast.ObjectLit", expr)
	}
	var kinds []ast.PropKind
	for _, p := range obj.Props {
		kinds = append(kinds, p.Kind)
	}
	want := []ast.PropKind{ast.PropShorthand, ast.PropKeyValue, ast.PropKeyValue, ast.PropMethod, ast.PropSpread}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("property kinds mismatch (-want +got):\n%s", diff)
	}
	if !obj.Props[2].Computed {
		t.Error("[c] should be computed")
	}
}

// TestArrowFunctions tests both arrow forms and the speculative parse
// that falls back to a parenthesized expression.
func TestArrowFunctions(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"x => x + 1", "((x) => (x + 1))"},
		{"() => 1", "(() => 1)"},
		{"(a, b = a + 1) => b", "((a, b = (a + 1)) => b)"},
		{"(a) => { return a; }", "((a) => {\n    return a;\n})"},
		{"(a)", "a"},
		{"(a) + 1", "(a + 1)"},
		{"(a = 1)", "(a = 1)"},
		{"(a = (b = 2))", "(a = (b = 2))"},
		{"f(x => x, (y))", "f(((x) => x), y)"},
		{"c ? x => 1 : () => 2", "(c ? ((x) => 1) : (() => 2))"},
		{"x => y => x + y", "((x) => ((y) => (x + y)))"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			expr, err := parser.ParseExpr(tt.src)
			if err != nil {
				t.Fatalf("ParseExpr() error = %v", err)
			}
			if got := ast.String(expr); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// TestStatements tests statement forms.
func TestStatements(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"let x = 1, y;", []string{"let x = 1, y;"}},
		{"const a = 1; var b = a", []string{"const a = 1;", "var b = a;"}},
		{"if (a) b; else c;", []string{"if (a) b; else c;"}},
		{"if (a) { b }", []string{"if (a) {\n    b;\n}"}},
		{"while (x) { x--; }", []string{"while (x) {\n    (x--);\n}"}},
		{"for (let i = 0; i < 3; i++) {}", []string{"for (let i = 0; (i < 3); (i++)) {}"}},
		{"for (;;) x;", []string{"for (;;) x;"}},
		{"for (i = 0; i < n;) {}", []string{"for ((i = 0); (i < n);) {}"}},
		{"function f(a, b = a + 1) { return b; }", []string{"function f(a, b = (a + 1)) {\n    return b;\n}"}},
		{"return;", []string{"return;"}},
		{"return x", []string{"return x;"}},
		{"let f = function () {}", []string{"let f = function() {};"}},
		{"{ let a = 1 }", []string{"{\n    let a = 1;\n}"}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, stmts(t, tt.src)); diff != "" {
				t.Errorf("statements mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestLineBreaks tests that a line break ends a statement.
func TestLineBreaks(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"let a = 1\nlet b = a\nb", []string{"let a = 1;", "let b = a;", "b;"}},
		{"a\n++b", []string{"a;", "(++b);"}},
		{"return\nx", []string{"return;", "x;"}},
		{"hp -= 3\nreturn hp", []string{"(hp -= 3);", "return hp;"}},
		{"x = 1 +\n 2", []string{"(x = (1 + 2));"}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, stmts(t, tt.src)); diff != "" {
				t.Errorf("statements mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestPositions tests that nodes carry their source positions.
func TestPositions(t *testing.T) {
	prog, err := parser.Parse("let a = 1;\n  a += 2;")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(prog.Body) != 2 {
		t.Fatalf("got %d statements, want 2", len(prog.Body))
	}
	pos := prog.Body[1].Pos()
	if pos.Line != 2 || pos.Column != 3 {
		t.Errorf("second statement at %v, want 2:3", pos)
	}
	assign := prog.Body[1].(*ast.ExprStmt).Expr.(*ast.AssignExpr)
	if assign.Op != "+=" {
		t.Errorf("Op = %q, want +=", assign.Op)
	}
}

// TestErrors tests syntax error messages and positions.
func TestErrors(t *testing.T) {
	tests := []struct {
		src     string
		message string
		line    int
		column  int
	}{
		{"const x;", `missing initializer in const declaration of "x"`, 1, 7},
		{"1 = 2", "invalid assignment target", 1, 3},
		{"a?.b = 1", "invalid assignment target", 1, 6},
		{"++1", "invalid ++ operand", 1, 3},
		{"f()++", "invalid ++ operand", 1, 4},
		{"function f(a, a) {}", `duplicate parameter "a"`, 1, 15},
		{"(a, a) => 1", `duplicate parameter "a"`, 1, 5},
		{"if (x", "expected ')', got end of input", 1, 6},
		{"[1,,2]", "unexpected ','", 1, 4},
		{"let 5", "expected identifier, got '5'", 1, 5},
		{"x = {a: 1", "expected '}', got end of input", 1, 10},
		{"a b", "expected ';', got 'b'", 1, 3},
		{"({a 1})", "expected ':', got '1'", 1, 5},
		{"{ a", "expected '}', got end of input", 1, 4},
		{"(a, b)", "expected ')', got ','", 1, 3},
		{"else", "unexpected 'else'", 1, 1},
		{"o.", "expected property name, got end of input", 1, 3},
		{strings.Repeat("(", 300) + "1" + strings.Repeat(")", 300), "nesting too deep", 1, 128},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := parser.Parse(tt.src)
			var perr *parser.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("Parse() = %v, want *ParseError", err)
			}
			if perr.Message != tt.message {
				t.Errorf("message = %q, want %q", perr.Message, tt.message)
			}
			if perr.Pos.Line != tt.line || perr.Pos.Column != tt.column {
				t.Errorf("position = %v, want %d:%d", perr.Pos, tt.line, tt.column)
			}
		})
	}
}

// TestLexErrorsPassThrough tests that lexical errors are not rewrapped.
func TestLexErrorsPassThrough(t *testing.T) {
	_, err := parser.Parse(`x = "open`)
	var lexErr *lexer.Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("Parse() = %v, want *lexer.Error", err)
	}
}

func TestParseExprTrailing(t *testing.T) {
	_, err := parser.ParseExpr("1 2")
	if err == nil || !strings.Contains(err.Error(), "after expression") {
		t.Errorf("ParseExpr(\"1 2\") error = %v", err)
	}
}
