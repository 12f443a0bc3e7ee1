package ast

import "github.com/kolkov/scriptbox/internal/token"

// ExprStmt is an expression used as a statement.
type ExprStmt struct {
	BaseStmt
	Expr Expr
}

// EmptyStmt is a lone semicolon.
type EmptyStmt struct {
	BaseStmt
}

// BlockStmt is { stmt; ... }. It opens a new lexical frame.
type BlockStmt struct {
	BaseStmt
	Stmts []Stmt
}

// Declarator is one name = init pair of a declaration.
type Declarator struct {
	Name    string
	NamePos token.Position
	Init    Expr // nil when absent
}

// VarDecl is var/let/const with one or more declarators.
type VarDecl struct {
	BaseStmt
	Kind  string // "var", "let" or "const"
	Decls []*Declarator
}

// FuncDecl is a named function declaration, hoisted within its block.
type FuncDecl struct {
	BaseStmt
	Func *Func
}

// IfStmt is if (cond) then else els.
type IfStmt struct {
	BaseStmt
	Cond Expr
	Then Stmt
	Else Stmt // nil if absent
}

// WhileStmt is while (cond) body.
type WhileStmt struct {
	BaseStmt
	Cond Expr
	Body Stmt
}

// ForStmt is for (init; cond; post) body. Any header part may be nil.
type ForStmt struct {
	BaseStmt
	Init Stmt // *VarDecl or *ExprStmt
	Cond Expr
	Post Expr
	Body Stmt
}

// ReturnStmt is return or return value.
type ReturnStmt struct {
	BaseStmt
	Value Expr // nil for bare return
}

var (
	_ Stmt = (*ExprStmt)(nil)
	_ Stmt = (*EmptyStmt)(nil)
	_ Stmt = (*BlockStmt)(nil)
	_ Stmt = (*VarDecl)(nil)
	_ Stmt = (*FuncDecl)(nil)
	_ Stmt = (*IfStmt)(nil)
	_ Stmt = (*WhileStmt)(nil)
	_ Stmt = (*ForStmt)(nil)
	_ Stmt = (*ReturnStmt)(nil)
)
