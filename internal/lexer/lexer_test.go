package lexer

import (
	"errors"
	"testing"

	"github.com/kolkov/scriptbox/internal/token"
)

type tok struct {
	kind  token.Kind
	value string
}

func scanAll(t *testing.T, src string) []tok {
	t.Helper()
	toks, err := Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q) error = %v", src, err)
	}
	out := make([]tok, 0, len(toks))
	for _, tk := range toks {
		out = append(out, tok{tk.Kind, tk.Value})
	}
	return out
}

func TestScanOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected []tok
	}{
		{"===", []tok{{token.Operator, "==="}}},
		{"!==", []tok{{token.Operator, "!=="}}},
		{"== !=", []tok{{token.Operator, "=="}, {token.Operator, "!="}}},
		{"<= >= < >", []tok{{token.Operator, "<="}, {token.Operator, ">="}, {token.Operator, "<"}, {token.Operator, ">"}}},
		{"&& || ??", []tok{{token.Operator, "&&"}, {token.Operator, "||"}, {token.Operator, "??"}}},
		{"++ --", []tok{{token.Operator, "++"}, {token.Operator, "--"}}},
		{"+= -= *= /= %=", []tok{
			{token.Operator, "+="}, {token.Operator, "-="}, {token.Operator, "*="},
			{token.Operator, "/="}, {token.Operator, "%="},
		}},
		{"x=>x", []tok{{token.Identifier, "x"}, {token.Operator, "=>"}, {token.Identifier, "x"}}},
		{"a?b:c", []tok{
			{token.Identifier, "a"}, {token.Operator, "?"}, {token.Identifier, "b"},
			{token.Operator, ":"}, {token.Identifier, "c"},
		}},
		{"a?.b", []tok{{token.Identifier, "a"}, {token.Operator, "?."}, {token.Identifier, "b"}}},
		{"a?.[0]", []tok{
			{token.Identifier, "a"}, {token.Operator, "?."}, {token.Punct, "["},
			{token.Number, "0"}, {token.Punct, "]"},
		}},
		{"a?.5:1", []tok{
			{token.Identifier, "a"}, {token.Operator, "?"}, {token.Number, ".5"},
			{token.Operator, ":"}, {token.Number, "1"},
		}},
		{"a ?? b", []tok{{token.Identifier, "a"}, {token.Operator, "??"}, {token.Identifier, "b"}}},
		{"!x", []tok{{token.Operator, "!"}, {token.Identifier, "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := scanAll(t, tt.input)
			want := append(tt.expected, tok{token.EOF, ""})
			if len(got) != len(want) {
				t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(want), want)
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("token[%d]: expected %v, got %v", i, want[i], got[i])
				}
			}
		})
	}
}

func TestScanPunctuationAndSpread(t *testing.T) {
	got := scanAll(t, "f(...[a.b], {c});")
	want := []tok{
		{token.Identifier, "f"},
		{token.Punct, "("},
		{token.Spread, "..."},
		{token.Punct, "["},
		{token.Identifier, "a"},
		{token.Punct, "."},
		{token.Identifier, "b"},
		{token.Punct, "]"},
		{token.Punct, ","},
		{token.Punct, "{"},
		{token.Identifier, "c"},
		{token.Punct, "}"},
		{token.Punct, ")"},
		{token.Punct, ";"},
		{token.EOF, ""},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d]: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestScanKeywords(t *testing.T) {
	for _, kw := range token.Keywords() {
		t.Run(kw, func(t *testing.T) {
			got := scanAll(t, kw)
			if got[0].kind != token.Keyword || got[0].value != kw {
				t.Errorf("expected keyword %q, got %v", kw, got[0])
			}
		})
	}
}

func TestScanIdentifiers(t *testing.T) {
	// Forbidden words lex as identifiers so the guard sees them.
	for _, input := range []string{"x", "_bar", "$el", "x123", "camelCase", "new", "eval", "self"} {
		t.Run(input, func(t *testing.T) {
			got := scanAll(t, input)
			if got[0].kind != token.Identifier {
				t.Errorf("expected identifier, got %v", got[0].kind)
			}
			if got[0].value != input {
				t.Errorf("expected %q, got %q", input, got[0].value)
			}
		})
	}
}

func TestScanNumbers(t *testing.T) {
	tests := []string{"0", "123", "3.14", ".5", "1.", "1e10", "1E10", "1.5e-3", "2.5E+2", "0x1F", "0Xff"}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			got := scanAll(t, input)
			if got[0].kind != token.Number {
				t.Errorf("expected number for %q, got %v", input, got[0].kind)
			}
			if got[0].value != input {
				t.Errorf("expected %q, got %q", input, got[0].value)
			}
		})
	}
}

func TestScanStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"hello"`, "hello"},
		{`""`, ""},
		{`'single'`, "single"},
		{`"with\nnewline"`, "with\nnewline"},
		{`"with\ttab\r"`, "with\ttab\r"},
		{`"with\\backslash"`, "with\\backslash"},
		{`"with\"quote"`, "with\"quote"},
		{`'it\'s'`, "it's"},
		{`"nul\0"`, "nul\x00"},
		{`"\x41B"`, "AB"},
		{`"héllo ✓"`, "héllo ✓"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := scanAll(t, tt.input)
			if got[0].kind != token.String {
				t.Errorf("expected string for %q, got %v", tt.input, got[0].kind)
			}
			if got[0].value != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got[0].value)
			}
		})
	}
}

func TestScanComments(t *testing.T) {
	got := scanAll(t, "a // line\n b /* block\n comment */ c")
	want := []tok{{token.Identifier, "a"}, {token.Identifier, "b"}, {token.Identifier, "c"}, {token.EOF, ""}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token[%d]: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestPositions(t *testing.T) {
	toks, err := Tokenize("a\n  b = 'x'")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	want := []token.Position{
		{Line: 1, Column: 1, Offset: 0},
		{Line: 2, Column: 3, Offset: 4},
		{Line: 2, Column: 5, Offset: 6},
		{Line: 2, Column: 7, Offset: 8},
	}
	for i, pos := range want {
		if toks[i].Pos != pos {
			t.Errorf("token[%d] %q at %v, want %v", i, toks[i].Value, toks[i].Pos, pos)
		}
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
		line    int
		column  int
	}{
		{`"unterminated`, "unterminated string", 1, 1},
		{"x = 'a\nb'", "unterminated string", 1, 5},
		{`"\q"`, `unknown escape sequence \q`, 1, 2},
		{`"\x4"`, `invalid \x escape`, 1, 2},
		{"/* open", "unterminated comment", 1, 1},
		{"0x", "malformed hex literal", 1, 1},
		{"12ab", `unexpected character 'a' after number`, 1, 3},
		{"a\n@", `unexpected character '@'`, 2, 1},
		{"a # b", `unexpected character '#'`, 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			var lexErr *Error
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if lexErr.Message != tt.message {
				t.Errorf("message = %q, want %q", lexErr.Message, tt.message)
			}
			if lexErr.Pos.Line != tt.line || lexErr.Pos.Column != tt.column {
				t.Errorf("position = %v, want %d:%d", lexErr.Pos, tt.line, tt.column)
			}
		})
	}
}

func TestScanIncremental(t *testing.T) {
	l := New("let x")
	first, err := l.Scan()
	if err != nil || !first.IsKeyword("let") {
		t.Fatalf("first = %v, %v", first, err)
	}
	second, _ := l.Scan()
	if second.Kind != token.Identifier {
		t.Errorf("second = %v", second)
	}
	for i := 0; i < 3; i++ {
		eof, _ := l.Scan()
		if eof.Kind != token.EOF {
			t.Errorf("scan past end returned %v", eof)
		}
	}
}
