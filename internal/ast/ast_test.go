package ast

import (
	"testing"

	"github.com/kolkov/scriptbox/internal/token"
)

func ident(name string) *Ident { return &Ident{Name: name} }

func num(n float64) *Literal { return &Literal{Kind: LitNumber, Num: n} }

func TestIsLValue(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want bool
	}{
		{"identifier", ident("x"), true},
		{"member", &MemberExpr{Object: ident("o"), Name: "a"}, true},
		{"computed member", &MemberExpr{Object: ident("o"), Prop: num(0), Computed: true}, true},
		{"optional member", &MemberExpr{Object: ident("o"), Name: "a", Optional: true}, false},
		{"this", &ThisExpr{}, false},
		{"call", &CallExpr{Callee: ident("f")}, false},
		{"literal", num(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsLValue(tt.expr); got != tt.want {
				t.Errorf("IsLValue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWalk(t *testing.T) {
	// function f(a = b) { return c ? d : e(...g) } f(h)
	fn := &Func{
		Name:   "f",
		Params: []*Param{{Name: "a", Default: ident("b")}},
		Body: &BlockStmt{Stmts: []Stmt{
			&ReturnStmt{Value: &CondExpr{
				Cond: ident("c"),
				Then: ident("d"),
				Else: &CallExpr{Callee: ident("e"), Args: []Expr{&SpreadElem{Expr: ident("g")}}},
			}},
		}},
	}
	prog := &Program{Body: []Stmt{
		&FuncDecl{Func: fn},
		&ExprStmt{Expr: &CallExpr{Callee: ident("f"), Args: []Expr{ident("h")}}},
		&VarDecl{Kind: "let", Decls: []*Declarator{{Name: "x"}}},
	}}

	var names []string
	Walk(prog, func(n Node) bool {
		if id, ok := n.(*Ident); ok {
			names = append(names, id.Name)
		}
		return true
	})
	want := []string{"b", "c", "d", "e", "g", "f", "h"}
	if len(names) != len(want) {
		t.Fatalf("visited %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("visit[%d] = %s, want %s", i, names[i], want[i])
		}
	}

	// Returning false prunes the subtree.
	count := 0
	Walk(prog, func(n Node) bool {
		count++
		_, isDecl := n.(*FuncDecl)
		return !isDecl
	})
	if count != 7 {
		t.Errorf("pruned walk visited %d nodes, want 7", count)
	}
}

func TestPrinter(t *testing.T) {
	pos := token.Position{Line: 1, Column: 1}
	expr := &BinaryExpr{
		BaseExpr: MakeBaseExpr(pos, pos),
		Op:       "+",
		Left:     num(1),
		Right:    &BinaryExpr{Op: "*", Left: num(2), Right: &Literal{Kind: LitString, Str: "x"}},
	}
	if got, want := String(expr), `(1 + (2 * "x"))`; got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}

	stmt := &IfStmt{
		Cond: ident("a"),
		Then: &BlockStmt{Stmts: []Stmt{&ExprStmt{Expr: &UpdateExpr{Op: "++", Target: ident("n")}}}},
		Else: &ReturnStmt{},
	}
	if got, want := String(stmt), "if (a) {\n    (n++);\n} else return;"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
