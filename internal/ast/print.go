package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Printer renders AST nodes as source-like text with every operator
// expression fully parenthesized, so grouping is visible in debug output
// and tests.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

// NewPrinter creates a new Printer that writes to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print writes a representation of the node to the writer.
func (p *Printer) Print(node Node) error {
	p.printNode(node)
	return p.err
}

// String renders node with a fresh Printer.
func String(node Node) string {
	var sb strings.Builder
	_ = NewPrinter(&sb).Print(node)
	return sb.String()
}

func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *Printer) writeIndent() {
	if p.err != nil {
		return
	}
	for i := 0; i < p.indent; i++ {
		_, p.err = io.WriteString(p.w, "    ")
	}
}

func (p *Printer) printNode(node Node) {
	switch n := node.(type) {
	case nil:
		p.printf("<nil>")
	case *Program:
		for _, s := range n.Body {
			p.writeIndent()
			p.printStmt(s)
			p.printf("\n")
		}
	case Stmt:
		p.printStmt(n)
	case Expr:
		p.printExpr(n)
	default:
		p.printf("<%T>", node)
	}
}

func (p *Printer) printStmt(s Stmt) {
	switch n := s.(type) {
	case *ExprStmt:
		p.printExpr(n.Expr)
		p.printf(";")

	case *EmptyStmt:
		p.printf(";")

	case *BlockStmt:
		p.printBlock(n)

	case *VarDecl:
		p.printf("%s ", n.Kind)
		for i, d := range n.Decls {
			if i > 0 {
				p.printf(", ")
			}
			p.printf("%s", d.Name)
			if d.Init != nil {
				p.printf(" = ")
				p.printExpr(d.Init)
			}
		}
		p.printf(";")

	case *FuncDecl:
		p.printFunc(n.Func)

	case *IfStmt:
		p.printf("if (")
		p.printExpr(n.Cond)
		p.printf(") ")
		p.printStmt(n.Then)
		if n.Else != nil {
			p.printf(" else ")
			p.printStmt(n.Else)
		}

	case *WhileStmt:
		p.printf("while (")
		p.printExpr(n.Cond)
		p.printf(") ")
		p.printStmt(n.Body)

	case *ForStmt:
		p.printf("for (")
		switch init := n.Init.(type) {
		case nil:
			p.printf(";")
		default:
			p.printStmt(init)
		}
		if n.Cond != nil {
			p.printf(" ")
			p.printExpr(n.Cond)
		}
		p.printf(";")
		if n.Post != nil {
			p.printf(" ")
			p.printExpr(n.Post)
		}
		p.printf(") ")
		p.printStmt(n.Body)

	case *ReturnStmt:
		p.printf("return")
		if n.Value != nil {
			p.printf(" ")
			p.printExpr(n.Value)
		}
		p.printf(";")

	default:
		p.printf("<%T>", s)
	}
}

func (p *Printer) printBlock(b *BlockStmt) {
	if len(b.Stmts) == 0 {
		p.printf("{}")
		return
	}
	p.printf("{\n")
	p.indent++
	for _, s := range b.Stmts {
		p.writeIndent()
		p.printStmt(s)
		p.printf("\n")
	}
	p.indent--
	p.writeIndent()
	p.printf("}")
}

func (p *Printer) printFunc(f *Func) {
	if !f.Arrow {
		p.printf("function")
		if f.Name != "" {
			p.printf(" %s", f.Name)
		}
	}
	p.printf("(")
	for i, param := range f.Params {
		if i > 0 {
			p.printf(", ")
		}
		p.printf("%s", param.Name)
		if param.Default != nil {
			p.printf(" = ")
			p.printExpr(param.Default)
		}
	}
	p.printf(") ")
	if f.Arrow {
		p.printf("=> ")
	}
	if f.Body != nil {
		p.printBlock(f.Body)
	} else {
		p.printExpr(f.ExprBody)
	}
}

func (p *Printer) printExpr(e Expr) {
	switch n := e.(type) {
	case nil:
		p.printf("<nil>")

	case *Literal:
		switch n.Kind {
		case LitString:
			p.printf("%s", strconv.Quote(n.Str))
		case LitNumber:
			p.printf("%s", strconv.FormatFloat(n.Num, 'g', -1, 64))
		default:
			p.printf("%s", n.Raw)
		}

	case *Ident:
		p.printf("%s", n.Name)

	case *ThisExpr:
		p.printf("this")

	case *SpreadElem:
		p.printf("...")
		p.printExpr(n.Expr)

	case *ArrayLit:
		p.printf("[")
		p.printList(n.Elems)
		p.printf("]")

	case *ObjectLit:
		p.printObject(n)

	case *FuncLit:
		p.printFunc(n.Func)

	case *ArrowFunc:
		p.printf("(")
		p.printFunc(n.Func)
		p.printf(")")

	case *MemberExpr:
		if n.Paren {
			p.printf("(")
			defer p.printf(")")
		}
		p.printExpr(n.Object)
		if n.Optional {
			p.printf("?.")
		} else if !n.Computed {
			p.printf(".")
		}
		if n.Computed {
			p.printf("[")
			p.printExpr(n.Prop)
			p.printf("]")
		} else {
			p.printf("%s", n.Name)
		}

	case *CallExpr:
		if n.Paren {
			p.printf("(")
			defer p.printf(")")
		}
		p.printExpr(n.Callee)
		if n.Optional {
			p.printf("?.")
		}
		p.printf("(")
		p.printList(n.Args)
		p.printf(")")

	case *AssignExpr:
		p.printf("(")
		p.printExpr(n.Left)
		p.printf(" %s ", n.Op)
		p.printExpr(n.Right)
		p.printf(")")

	case *UpdateExpr:
		p.printf("(")
		if n.Prefix {
			p.printf("%s", n.Op)
		}
		p.printExpr(n.Target)
		if !n.Prefix {
			p.printf("%s", n.Op)
		}
		p.printf(")")

	case *BinaryExpr:
		p.printInfix(n.Left, n.Op, n.Right)

	case *LogicalExpr:
		p.printInfix(n.Left, n.Op, n.Right)

	case *NullishExpr:
		p.printInfix(n.Left, "??", n.Right)

	case *CondExpr:
		p.printf("(")
		p.printExpr(n.Cond)
		p.printf(" ? ")
		p.printExpr(n.Then)
		p.printf(" : ")
		p.printExpr(n.Else)
		p.printf(")")

	case *UnaryExpr:
		p.printf("(%s", n.Op)
		if n.Op == "typeof" {
			p.printf(" ")
		}
		p.printExpr(n.Expr)
		p.printf(")")

	default:
		p.printf("<%T>", e)
	}
}

func (p *Printer) printInfix(left Expr, op string, right Expr) {
	p.printf("(")
	p.printExpr(left)
	p.printf(" %s ", op)
	p.printExpr(right)
	p.printf(")")
}

func (p *Printer) printList(exprs []Expr) {
	for i, e := range exprs {
		if i > 0 {
			p.printf(", ")
		}
		p.printExpr(e)
	}
}

func (p *Printer) printObject(o *ObjectLit) {
	p.printf("{")
	for i, prop := range o.Props {
		if i > 0 {
			p.printf(",")
		}
		p.printf(" ")
		switch prop.Kind {
		case PropSpread:
			p.printf("...")
			p.printExpr(prop.Value)
		case PropShorthand:
			p.printf("%s", prop.Key)
		case PropMethod:
			p.printf("%s: ", prop.Key)
			p.printExpr(prop.Value)
		default:
			if prop.Computed {
				p.printf("[")
				p.printExpr(prop.KeyExpr)
				p.printf("]")
			} else {
				p.printf("%s", prop.Key)
			}
			p.printf(": ")
			p.printExpr(prop.Value)
		}
	}
	if len(o.Props) > 0 {
		p.printf(" ")
	}
	p.printf("}")
}
