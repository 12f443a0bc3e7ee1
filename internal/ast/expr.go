package ast

import "github.com/kolkov/scriptbox/internal/token"

// -----------------------------------------------------------------------------
// Leaves
// -----------------------------------------------------------------------------

// LitKind is the kind of a Literal.
type LitKind uint8

const (
	LitNumber LitKind = iota
	LitString
	LitTrue
	LitFalse
	LitNull
	LitUndefined
)

// Literal is a constant value written in source.
// Examples: 42, 1.5e3, "text", true, null, undefined
type Literal struct {
	BaseExpr
	Kind LitKind
	Num  float64 // parsed value for LitNumber
	Str  string  // unescaped value for LitString
	Raw  string  // source text
}

// Ident is a bare name.
type Ident struct {
	BaseExpr
	Name string
}

// ThisExpr is the receiver alias; it always denotes the bound facade.
type ThisExpr struct {
	BaseExpr
}

// -----------------------------------------------------------------------------
// Composite literals
// -----------------------------------------------------------------------------

// SpreadElem is "...expr". It only appears as an array element, a call
// argument or an object literal entry.
type SpreadElem struct {
	BaseExpr
	Expr Expr
}

// ArrayLit is [a, ...b, c].
type ArrayLit struct {
	BaseExpr
	Elems []Expr // elements, some may be *SpreadElem
}

// PropKind is the kind of an object literal entry.
type PropKind uint8

const (
	PropKeyValue  PropKind = iota // key: value, "key": value, [expr]: value
	PropShorthand                 // key
	PropMethod                    // key(params) { body }
	PropSpread                    // ...expr
)

// Property is one entry of an object literal.
type Property struct {
	Kind     PropKind
	Key      string // static key (empty when Computed or PropSpread)
	KeyExpr  Expr   // computed key expression
	Computed bool
	Value    Expr // value, method *FuncLit, or spread source
	KeyPos   token.Position
}

// ObjectLit is {a: 1, b, c() {}, ...d}.
type ObjectLit struct {
	BaseExpr
	Props []*Property
}

// -----------------------------------------------------------------------------
// Functions
// -----------------------------------------------------------------------------

// Param is a formal parameter. Default is evaluated per call, inside the
// callee's parameter frame, only when the argument is missing or undefined.
type Param struct {
	Name    string
	Pos     token.Position
	Default Expr
}

// Func is the shared shape of declarations, expressions and arrows.
type Func struct {
	Name     string // empty for anonymous functions
	Params   []*Param
	Body     *BlockStmt // block body
	ExprBody Expr       // concise arrow body (Body is nil)
	Arrow    bool
}

// FuncLit is a function expression: function name?(params) { body }.
type FuncLit struct {
	BaseExpr
	Func *Func
}

// ArrowFunc is (params) => body or name => body.
type ArrowFunc struct {
	BaseExpr
	Func *Func
}

// -----------------------------------------------------------------------------
// Chains
// -----------------------------------------------------------------------------

// MemberExpr is obj.name, obj[expr], obj?.name or obj?.[expr].
type MemberExpr struct {
	BaseExpr
	Object   Expr
	Name     string // property name when !Computed
	Prop     Expr   // property expression when Computed
	Computed bool
	Optional bool // ?. directly before this access
	Paren    bool // written in parentheses; a short circuit inside stops here
}

// CallExpr is callee(args) or callee?.(args).
type CallExpr struct {
	BaseExpr
	Callee   Expr
	Args     []Expr // arguments, some may be *SpreadElem
	Optional bool
	Paren    bool // written in parentheses
}

// Parenthesize marks a member or call chain as written in parentheses.
// Other expressions need no mark.
func Parenthesize(e Expr) Expr {
	switch n := e.(type) {
	case *MemberExpr:
		n.Paren = true
	case *CallExpr:
		n.Paren = true
	}
	return e
}

// IsParenChain reports whether e is a parenthesized member or call chain.
func IsParenChain(e Expr) bool {
	switch n := e.(type) {
	case *MemberExpr:
		return n.Paren
	case *CallExpr:
		return n.Paren
	}
	return false
}

// -----------------------------------------------------------------------------
// Writes
// -----------------------------------------------------------------------------

// AssignExpr is target op value, with op one of = += -= *= /= %=.
type AssignExpr struct {
	BaseExpr
	Op    string
	Left  Expr // *Ident or *MemberExpr
	Right Expr
}

// UpdateExpr is ++x, --x, x++ or x--.
type UpdateExpr struct {
	BaseExpr
	Op     string // "++" or "--"
	Target Expr   // *Ident or *MemberExpr
	Prefix bool
}

// -----------------------------------------------------------------------------
// Operators
// -----------------------------------------------------------------------------

// BinaryExpr is an arithmetic, equality or relational operation.
type BinaryExpr struct {
	BaseExpr
	Op    string
	Left  Expr
	Right Expr
}

// LogicalExpr is a && b or a || b; the result is one of the operands.
type LogicalExpr struct {
	BaseExpr
	Op    string
	Left  Expr
	Right Expr
}

// NullishExpr is a ?? b.
type NullishExpr struct {
	BaseExpr
	Left  Expr
	Right Expr
}

// CondExpr is cond ? then : else.
type CondExpr struct {
	BaseExpr
	Cond Expr
	Then Expr
	Else Expr
}

// UnaryExpr is !x, -x, +x or typeof x.
type UnaryExpr struct {
	BaseExpr
	Op   string
	Expr Expr
}

var (
	_ Expr = (*Literal)(nil)
	_ Expr = (*Ident)(nil)
	_ Expr = (*ThisExpr)(nil)
	_ Expr = (*SpreadElem)(nil)
	_ Expr = (*ArrayLit)(nil)
	_ Expr = (*ObjectLit)(nil)
	_ Expr = (*FuncLit)(nil)
	_ Expr = (*ArrowFunc)(nil)
	_ Expr = (*MemberExpr)(nil)
	_ Expr = (*CallExpr)(nil)
	_ Expr = (*AssignExpr)(nil)
	_ Expr = (*UpdateExpr)(nil)
	_ Expr = (*BinaryExpr)(nil)
	_ Expr = (*LogicalExpr)(nil)
	_ Expr = (*NullishExpr)(nil)
	_ Expr = (*CondExpr)(nil)
	_ Expr = (*UnaryExpr)(nil)
)
