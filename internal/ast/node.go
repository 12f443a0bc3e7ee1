// Package ast defines the abstract syntax tree for scriptbox programs.
//
// The node set is closed: the evaluator handles exactly the types declared
// here, and the marker methods keep other packages from adding more.
//
// Node hierarchy:
//
//	Node (interface)
//	├── Expr (interface) - expressions that produce values
//	│   ├── Literal, Ident, ThisExpr - leaves
//	│   ├── ArrayLit, ObjectLit, SpreadElem - composite literals
//	│   ├── FuncLit, ArrowFunc - function values
//	│   ├── MemberExpr, CallExpr - chains (with optional forms)
//	│   ├── AssignExpr, UpdateExpr - writes
//	│   └── BinaryExpr, LogicalExpr, NullishExpr, CondExpr, UnaryExpr - operators
//	└── Stmt (interface) - statements
//	    ├── VarDecl, FuncDecl - declarations
//	    ├── IfStmt, WhileStmt, ForStmt, ReturnStmt - control
//	    └── BlockStmt, ExprStmt, EmptyStmt
package ast

import "github.com/kolkov/scriptbox/internal/token"

// Node is the interface implemented by all AST nodes.
type Node interface {
	// Pos returns the position of the first character belonging to this node.
	Pos() token.Position

	// End returns the position of the first character immediately after this node.
	End() token.Position
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	exprNode() // marker method to prevent external implementations
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	stmtNode() // marker method to prevent external implementations
}

// BaseExpr provides common fields for all expression nodes.
type BaseExpr struct {
	StartPos token.Position // Position of first token
	EndPos   token.Position // Position after last token
}

func (b *BaseExpr) Pos() token.Position { return b.StartPos }
func (b *BaseExpr) End() token.Position { return b.EndPos }
func (b *BaseExpr) exprNode()           {}

// BaseStmt provides common fields for all statement nodes.
type BaseStmt struct {
	StartPos token.Position // Position of first token
	EndPos   token.Position // Position after last token
}

func (b *BaseStmt) Pos() token.Position { return b.StartPos }
func (b *BaseStmt) End() token.Position { return b.EndPos }
func (b *BaseStmt) stmtNode()           {}

// IsLValue returns true if the expression can be the target of an
// assignment or an update operator.
func IsLValue(e Expr) bool {
	switch m := e.(type) {
	case *Ident:
		return true
	case *MemberExpr:
		return !m.Optional
	default:
		return false
	}
}

// MakeBaseExpr creates a BaseExpr with the given positions.
func MakeBaseExpr(start, end token.Position) BaseExpr {
	return BaseExpr{StartPos: start, EndPos: end}
}

// MakeBaseStmt creates a BaseStmt with the given positions.
func MakeBaseStmt(start, end token.Position) BaseStmt {
	return BaseStmt{StartPos: start, EndPos: end}
}

// Program is a parsed script: a list of top-level statements.
type Program struct {
	Body []Stmt

	StartPos token.Position
	EndPos   token.Position
}

// Pos returns the position of the first token in the program.
func (p *Program) Pos() token.Position { return p.StartPos }

// End returns the position after the last token in the program.
func (p *Program) End() token.Position { return p.EndPos }

var _ Node = (*Program)(nil)
