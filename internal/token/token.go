// Package token defines lexical tokens for scriptbox sources.
package token

import "fmt"

// Kind is the lexical category of a token.
type Kind uint8

const (
	EOF        Kind = iota // EOF
	Identifier             // identifier
	Keyword                // keyword
	String                 // string
	Number                 // number
	Operator               // operator
	Punct                  // punctuation
	Spread                 // ...
)

var kindNames = [...]string{
	EOF:        "end of input",
	Identifier: "identifier",
	Keyword:    "keyword",
	String:     "string",
	Number:     "number",
	Operator:   "operator",
	Punct:      "punctuation",
	Spread:     "...",
}

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Token is a scanned token with its source position.
// Value holds the identifier/keyword/operator text, the unescaped
// string contents, or the raw number literal.
type Token struct {
	Kind  Kind
	Value string
	Pos   Position
}

// Is reports whether t has kind k and text v.
func (t Token) Is(k Kind, v string) bool {
	return t.Kind == k && t.Value == v
}

// IsOp reports whether t is the operator v.
func (t Token) IsOp(v string) bool { return t.Is(Operator, v) }

// IsPunct reports whether t is the punctuation v.
func (t Token) IsPunct(v string) bool { return t.Is(Punct, v) }

// IsKeyword reports whether t is the keyword v.
func (t Token) IsKeyword(v string) bool { return t.Is(Keyword, v) }

// Describe returns the token as it should appear in error messages.
func (t Token) Describe() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case String:
		return fmt.Sprintf("string %q", t.Value)
	case Spread:
		return "'...'"
	default:
		return fmt.Sprintf("'%s'", t.Value)
	}
}

// keywords is the closed keyword set of the language.
var keywords = map[string]struct{}{
	"var":       {},
	"let":       {},
	"const":     {},
	"function":  {},
	"return":    {},
	"if":        {},
	"else":      {},
	"while":     {},
	"for":       {},
	"true":      {},
	"false":     {},
	"null":      {},
	"undefined": {},
	"this":      {},
	"typeof":    {},
}

// LookupIdent returns Keyword if ident is reserved, otherwise Identifier.
func LookupIdent(ident string) Kind {
	if _, ok := keywords[ident]; ok {
		return Keyword
	}
	return Identifier
}

// Keywords returns a copy of the keyword set.
func Keywords() []string {
	out := make([]string, 0, len(keywords))
	for k := range keywords {
		out = append(out, k)
	}
	return out
}

// assignOps maps assignment operators to the binary operator they apply.
var assignOps = map[string]string{
	"=":  "",
	"+=": "+",
	"-=": "-",
	"*=": "*",
	"/=": "/",
	"%=": "%",
}

// AssignOp reports whether op is an assignment operator and returns the
// binary operator a compound form applies ("" for plain "=").
func AssignOp(op string) (binary string, ok bool) {
	binary, ok = assignOps[op]
	return binary, ok
}
