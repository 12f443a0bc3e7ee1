package semantic

import (
	"sort"
	"strings"

	"github.com/kolkov/scriptbox/internal/ast"
	"github.com/kolkov/scriptbox/internal/token"
)

// Result contains the results of semantic analysis.
type Result struct {
	// Free lists the names no scope declares, sorted. At run time they
	// resolve to host bindings, helpers or facade fields.
	Free []string

	// Writes lists the free names the program assigns, sorted. Against a
	// facade these become entity fields.
	Writes []string

	// Symbols lists every declaration in source order.
	Symbols []*Symbol

	// Warnings (non-fatal issues), in source order.
	Warnings WarningList
}

// Resolver performs semantic analysis on an AST.
type Resolver struct {
	result  *Result
	facade  string
	program *SymbolTable

	// Current scope for name resolution
	currentScope *SymbolTable

	free   map[string]struct{}
	writes map[string]struct{}
}

// Resolve analyzes prog. facade is the name of the facade binding, which
// declarations should not shadow; pass "" to skip that check.
func Resolve(prog *ast.Program, facade string) *Result {
	program := NewSymbolTable(nil, "program")
	r := &Resolver{
		result:       &Result{},
		facade:       facade,
		program:      program,
		currentScope: program,
		free:         make(map[string]struct{}),
		writes:       make(map[string]struct{}),
	}

	// Phase 1: Resolve the program body as one block.
	r.resolveBlock(prog.Body)

	// Phase 2: Finalize - sort name sets and report unused symbols.
	r.finalize()
	return r.result
}

// finalize builds the sorted name lists and the unused-symbol warnings.
func (r *Resolver) finalize() {
	r.result.Free = sortedKeys(r.free)
	r.result.Writes = sortedKeys(r.writes)

	for _, sym := range r.result.Symbols {
		if sym.Used || sym.Kind == SymbolParam || strings.HasPrefix(sym.Name, "_") {
			continue
		}
		// Top-level declarations may be read by the host through closures
		// or a persistent session, so only nested ones are reported.
		if sym.Scope == r.program {
			continue
		}
		if sym.Kind == SymbolFunction {
			r.result.Warnings.Add(sym.Pos, warnUnusedFunc, sym.Name)
		} else {
			r.result.Warnings.Add(sym.Pos, warnUnusedVar, sym.Kind, sym.Name)
		}
	}
	sort.SliceStable(r.result.Warnings, func(i, j int) bool {
		return r.result.Warnings[i].Pos.Offset < r.result.Warnings[j].Pos.Offset
	})
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// pushScope creates a new scope for the duration of fn.
func (r *Resolver) pushScope(name string, fn func()) {
	outer := r.currentScope
	r.currentScope = NewSymbolTable(outer, name)
	defer func() { r.currentScope = outer }()
	fn()
}

// define declares name in the current scope.
func (r *Resolver) define(name string, kind SymbolKind, pos token.Position) *Symbol {
	if name == r.facade && r.facade != "" {
		r.result.Warnings.Add(pos, warnFacadeShadow, kind, name)
	}
	sym := r.currentScope.Define(name, kind, pos)
	if sym == nil {
		r.result.Warnings.Add(pos, warnRedeclared, name)
		return nil
	}
	r.result.Symbols = append(r.result.Symbols, sym)
	return sym
}

// use marks a read of name.
func (r *Resolver) use(name string) {
	if sym, ok := r.currentScope.Lookup(name); ok {
		sym.Used = true
		return
	}
	r.free[name] = struct{}{}
}

// assign marks a write of name; compound writes also read it.
func (r *Resolver) assign(id *ast.Ident, reads bool) {
	sym, ok := r.currentScope.Lookup(id.Name)
	if !ok {
		r.free[id.Name] = struct{}{}
		r.writes[id.Name] = struct{}{}
		return
	}
	if reads {
		sym.Used = true
	}
	if sym.Kind == SymbolConst {
		r.result.Warnings.Add(id.Pos(), warnConstAssign, id.Name)
	}
}

// Statements

// resolveBlock hoists function declarations, then resolves stmts in the
// current scope.
func (r *Resolver) resolveBlock(stmts []ast.Stmt) {
	for _, s := range stmts {
		if decl, ok := s.(*ast.FuncDecl); ok {
			r.define(decl.Func.Name, SymbolFunction, decl.Pos())
		}
	}
	for _, s := range stmts {
		if decl, ok := s.(*ast.FuncDecl); ok {
			r.resolveFunc(decl.Func)
			continue
		}
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		r.resolveExpr(n.Expr)

	case *ast.EmptyStmt:
		// nothing to resolve

	case *ast.VarDecl:
		kind := kindOf(n.Kind)
		for _, d := range n.Decls {
			if d.Init != nil {
				r.resolveExpr(d.Init)
			}
			r.define(d.Name, kind, d.NamePos)
		}

	case *ast.FuncDecl:
		// Outside a block, as in "if (x) function f() {}".
		r.define(n.Func.Name, SymbolFunction, n.Pos())
		r.resolveFunc(n.Func)

	case *ast.BlockStmt:
		r.pushScope("block", func() {
			r.resolveBlock(n.Stmts)
		})

	case *ast.IfStmt:
		r.resolveExpr(n.Cond)
		r.resolveStmt(n.Then)
		if n.Else != nil {
			r.resolveStmt(n.Else)
		}

	case *ast.WhileStmt:
		r.resolveExpr(n.Cond)
		r.resolveStmt(n.Body)

	case *ast.ForStmt:
		r.pushScope("for", func() {
			if n.Init != nil {
				r.resolveStmt(n.Init)
			}
			if n.Cond != nil {
				r.resolveExpr(n.Cond)
			}
			if n.Post != nil {
				r.resolveExpr(n.Post)
			}
			r.resolveStmt(n.Body)
		})

	case *ast.ReturnStmt:
		if n.Value != nil {
			r.resolveExpr(n.Value)
		}
	}
}

// resolveFunc resolves parameters and body in a fresh function scope.
// Each default sees the parameters before it.
func (r *Resolver) resolveFunc(fn *ast.Func) {
	name := fn.Name
	if name == "" {
		name = "anonymous"
	}
	r.pushScope(name, func() {
		for _, p := range fn.Params {
			if p.Default != nil {
				r.resolveExpr(p.Default)
			}
			r.define(p.Name, SymbolParam, p.Pos)
		}
		if fn.ExprBody != nil {
			r.resolveExpr(fn.ExprBody)
			return
		}
		r.resolveBlock(fn.Body.Stmts)
	})
}

// Expressions

func (r *Resolver) resolveExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Ident:
		r.use(n.Name)

	case *ast.Literal, *ast.ThisExpr:
		// no names

	case *ast.SpreadElem:
		r.resolveExpr(n.Expr)

	case *ast.ArrayLit:
		for _, el := range n.Elems {
			r.resolveExpr(el)
		}

	case *ast.ObjectLit:
		r.resolveObject(n)

	case *ast.FuncLit:
		if n.Func.Name == "" {
			r.resolveFunc(n.Func)
			return
		}
		// A named function expression sees its own name.
		r.pushScope("function", func() {
			if sym := r.define(n.Func.Name, SymbolFunction, n.Pos()); sym != nil {
				sym.Used = true
			}
			r.resolveFunc(n.Func)
		})

	case *ast.ArrowFunc:
		r.resolveFunc(n.Func)

	case *ast.MemberExpr:
		r.resolveExpr(n.Object)
		if n.Computed {
			r.resolveExpr(n.Prop)
		}

	case *ast.CallExpr:
		r.resolveExpr(n.Callee)
		for _, arg := range n.Args {
			r.resolveExpr(arg)
		}

	case *ast.AssignExpr:
		r.resolveExpr(n.Right)
		r.resolveTarget(n.Left, n.Op != "=")

	case *ast.UpdateExpr:
		r.resolveTarget(n.Target, true)

	case *ast.BinaryExpr:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)

	case *ast.LogicalExpr:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)

	case *ast.NullishExpr:
		r.resolveExpr(n.Left)
		r.resolveExpr(n.Right)

	case *ast.CondExpr:
		r.resolveExpr(n.Cond)
		r.resolveExpr(n.Then)
		r.resolveExpr(n.Else)

	case *ast.UnaryExpr:
		r.resolveExpr(n.Expr)
	}
}

func (r *Resolver) resolveTarget(target ast.Expr, reads bool) {
	if id, ok := target.(*ast.Ident); ok {
		r.assign(id, reads)
		return
	}
	r.resolveExpr(target)
}

func (r *Resolver) resolveObject(n *ast.ObjectLit) {
	seen := make(map[string]bool)
	for _, p := range n.Props {
		switch p.Kind {
		case ast.PropSpread:
			r.resolveExpr(p.Value)
			continue
		case ast.PropShorthand:
			r.use(p.Key)
		default:
			if p.Computed {
				r.resolveExpr(p.KeyExpr)
			}
			r.resolveExpr(p.Value)
		}
		if !p.Computed {
			if seen[p.Key] {
				r.result.Warnings.Add(p.KeyPos, warnDuplicateProp, p.Key)
			}
			seen[p.Key] = true
		}
	}
}
