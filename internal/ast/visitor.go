package ast

// Walk traverses an AST in depth-first order.
// It calls fn(node) for each node; if fn returns false, Walk skips the
// node's children.
//
// Example: Count all identifiers
//
//	count := 0
//	ast.Walk(program, func(n ast.Node) bool {
//	    if _, ok := n.(*ast.Ident); ok {
//	        count++
//	    }
//	    return true
//	})
func Walk(node Node, fn func(Node) bool) {
	if node == nil || !fn(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		for _, s := range n.Body {
			Walk(s, fn)
		}

	// Statements
	case *ExprStmt:
		Walk(n.Expr, fn)
	case *EmptyStmt:
		// no children
	case *BlockStmt:
		for _, s := range n.Stmts {
			Walk(s, fn)
		}
	case *VarDecl:
		for _, d := range n.Decls {
			Walk(d.Init, fn)
		}
	case *FuncDecl:
		walkFunc(n.Func, fn)
	case *IfStmt:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		Walk(n.Else, fn)
	case *WhileStmt:
		Walk(n.Cond, fn)
		Walk(n.Body, fn)
	case *ForStmt:
		Walk(n.Init, fn)
		Walk(n.Cond, fn)
		Walk(n.Post, fn)
		Walk(n.Body, fn)
	case *ReturnStmt:
		Walk(n.Value, fn)

	// Expressions
	case *Literal, *Ident, *ThisExpr:
		// no children
	case *SpreadElem:
		Walk(n.Expr, fn)
	case *ArrayLit:
		for _, e := range n.Elems {
			Walk(e, fn)
		}
	case *ObjectLit:
		for _, p := range n.Props {
			Walk(p.KeyExpr, fn)
			Walk(p.Value, fn)
		}
	case *FuncLit:
		walkFunc(n.Func, fn)
	case *ArrowFunc:
		walkFunc(n.Func, fn)
	case *MemberExpr:
		Walk(n.Object, fn)
		Walk(n.Prop, fn)
	case *CallExpr:
		Walk(n.Callee, fn)
		for _, a := range n.Args {
			Walk(a, fn)
		}
	case *AssignExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *UpdateExpr:
		Walk(n.Target, fn)
	case *BinaryExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *LogicalExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *NullishExpr:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *CondExpr:
		Walk(n.Cond, fn)
		Walk(n.Then, fn)
		Walk(n.Else, fn)
	case *UnaryExpr:
		Walk(n.Expr, fn)
	}
}

func walkFunc(f *Func, fn func(Node) bool) {
	for _, p := range f.Params {
		Walk(p.Default, fn)
	}
	if f.Body != nil {
		Walk(f.Body, fn)
	}
	Walk(f.ExprBody, fn)
}
