package parser

import (
	"errors"
	"strconv"

	"github.com/kolkov/scriptbox/internal/ast"
	"github.com/kolkov/scriptbox/internal/lexer"
	"github.com/kolkov/scriptbox/internal/token"
	"github.com/kolkov/scriptbox/value"
)

// maxNesting bounds syntactic nesting so hostile input cannot exhaust the
// host stack while parsing.
const maxNesting = 256

// Parser is a recursive descent parser over a scanned token slice.
// Parsing stops at the first error.
type Parser struct {
	toks   []token.Token      // Tokens, terminated by EOF
	pos    int                // Index of the current token
	tok    token.Token        // Current token
	depth  int                // Current nesting depth
	trials map[int]arrowTrial // Arrow parameter trials by start index
}

// arrowTrial records the outcome of a speculative arrow parameter parse so
// each '(' is tried at most once.
type arrowTrial struct {
	params []*ast.Param
	end    int
	ok     bool
}

// Parse tokenizes and parses a program. Lexical errors are returned as
// *lexer.Error, grammar errors as *ParseError.
func Parse(src string) (*ast.Program, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

// ParseTokens parses an already scanned token slice, which must end with
// an EOF token as produced by lexer.Tokenize.
func ParseTokens(toks []token.Token) (prog *ast.Program, err error) {
	p := newParser(toks)
	defer p.recover(&err)
	prog = p.parseProgram()
	return prog, nil
}

// ParseExpr parses a single expression (useful for testing).
func ParseExpr(src string) (expr ast.Expr, err error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := newParser(toks)
	defer p.recover(&err)
	expr = p.parseExpr()
	if p.tok.Kind != token.EOF {
		p.fail(errorf(p.tok.Pos, "unexpected %s after expression", p.tok.Describe()))
	}
	return expr, nil
}

func newParser(toks []token.Token) *Parser {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		var end token.Position
		if len(toks) > 0 {
			end = toks[len(toks)-1].Pos
		}
		toks = append(toks, token.Token{Kind: token.EOF, Pos: end})
	}
	p := &Parser{toks: toks, trials: make(map[int]arrowTrial)}
	p.tok = toks[0]
	return p
}

// recover turns a bailout into the returned error.
func (p *Parser) recover(errp *error) {
	if r := recover(); r != nil {
		b, ok := r.(bailout)
		if !ok {
			panic(r)
		}
		*errp = b.err
	}
}

// -----------------------------------------------------------------------------
// Token handling
// -----------------------------------------------------------------------------

// next advances to the next token. The cursor never moves past EOF.
func (p *Parser) next() {
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	p.tok = p.toks[p.pos]
}

// peek returns the token after the current one.
func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}

// mark and reset snapshot and restore the cursor for speculative parses.
func (p *Parser) mark() int { return p.pos }

func (p *Parser) reset(pos int) {
	p.pos = pos
	p.tok = p.toks[pos]
}

// prevLine returns the line of the previously consumed token.
func (p *Parser) prevLine() int {
	if p.pos == 0 {
		return 0
	}
	return p.toks[p.pos-1].Pos.Line
}

// onNewLine reports whether a line break precedes the current token.
func (p *Parser) onNewLine() bool {
	return p.pos > 0 && p.tok.Pos.Line > p.prevLine()
}

// fail aborts the parse with err.
func (p *Parser) fail(err *ParseError) {
	panic(bailout{err})
}

// errorf aborts the parse with a formatted error at the current token.
func (p *Parser) errorf(format string, args ...any) {
	p.fail(errorf(p.tok.Pos, format, args...))
}

// unexpected aborts the parse, naming the current token.
func (p *Parser) unexpected() {
	p.errorf("unexpected %s", p.tok.Describe())
}

// expectPunct checks that the current token is the punctuation v and
// advances.
func (p *Parser) expectPunct(v string) token.Position {
	pos := p.tok.Pos
	if !p.tok.IsPunct(v) {
		p.fail(expectedError(pos, "'"+v+"'", p.tok.Describe()))
	}
	p.next()
	return pos
}

// expectOp checks that the current token is the operator v and advances.
func (p *Parser) expectOp(v string) {
	if !p.tok.IsOp(v) {
		p.fail(expectedError(p.tok.Pos, "'"+v+"'", p.tok.Describe()))
	}
	p.next()
}

// expectName expects an identifier and returns its value and position.
func (p *Parser) expectName() (string, token.Position) {
	name, pos := p.tok.Value, p.tok.Pos
	if p.tok.Kind != token.Identifier {
		p.fail(expectedError(pos, "identifier", p.tok.Describe()))
	}
	p.next()
	return name, pos
}

// matchOp returns true if the current token is one of the given operators.
func (p *Parser) matchOp(ops ...string) bool {
	if p.tok.Kind != token.Operator {
		return false
	}
	for _, op := range ops {
		if p.tok.Value == op {
			return true
		}
	}
	return false
}

// enter and leave track nesting depth.
func (p *Parser) enter() {
	p.depth++
	if p.depth > maxNesting {
		p.errorf("nesting too deep")
	}
}

func (p *Parser) leave() { p.depth-- }

// -----------------------------------------------------------------------------
// Terminator handling
// -----------------------------------------------------------------------------

// isTerminated reports whether a statement may end before the current
// token: at ';', before '}' or EOF, or at a line break.
func (p *Parser) isTerminated() bool {
	return p.tok.IsPunct(";") || p.tok.IsPunct("}") || p.tok.Kind == token.EOF || p.onNewLine()
}

// endStmt consumes a statement terminator.
func (p *Parser) endStmt() {
	if p.tok.IsPunct(";") {
		p.next()
		return
	}
	if !p.isTerminated() {
		p.fail(expectedError(p.tok.Pos, "';'", p.tok.Describe()))
	}
}

// -----------------------------------------------------------------------------
// Program and statement parsing
// -----------------------------------------------------------------------------

// parseProgram parses a complete program.
func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{StartPos: p.tok.Pos}
	for p.tok.Kind != token.EOF {
		prog.Body = append(prog.Body, p.parseStmt())
	}
	prog.EndPos = p.tok.Pos
	return prog
}

// parseBlock parses a block statement { ... }.
func (p *Parser) parseBlock() *ast.BlockStmt {
	startPos := p.expectPunct("{")
	var stmts []ast.Stmt
	for !p.tok.IsPunct("}") {
		if p.tok.Kind == token.EOF {
			p.fail(expectedError(p.tok.Pos, "'}'", p.tok.Describe()))
		}
		stmts = append(stmts, p.parseStmt())
	}
	p.next()
	return &ast.BlockStmt{
		BaseStmt: ast.MakeBaseStmt(startPos, p.tok.Pos),
		Stmts:    stmts,
	}
}

// parseStmt parses any statement.
func (p *Parser) parseStmt() ast.Stmt {
	p.enter()
	defer p.leave()

	startPos := p.tok.Pos

	switch {
	case p.tok.IsPunct("{"):
		return p.parseBlock()

	case p.tok.IsPunct(";"):
		p.next()
		return &ast.EmptyStmt{BaseStmt: ast.MakeBaseStmt(startPos, p.tok.Pos)}

	case p.tok.IsKeyword("var"), p.tok.IsKeyword("let"), p.tok.IsKeyword("const"):
		decl := p.parseVarDecl()
		p.endStmt()
		return decl

	case p.tok.IsKeyword("function") && p.peek().Kind == token.Identifier:
		fn := p.parseFunc()
		return &ast.FuncDecl{
			BaseStmt: ast.MakeBaseStmt(startPos, p.tok.Pos),
			Func:     fn,
		}

	case p.tok.IsKeyword("if"):
		return p.parseIfStmt()

	case p.tok.IsKeyword("while"):
		return p.parseWhileStmt()

	case p.tok.IsKeyword("for"):
		return p.parseForStmt()

	case p.tok.IsKeyword("return"):
		return p.parseReturnStmt()
	}

	expr := p.parseExpr()
	p.endStmt()
	return &ast.ExprStmt{
		BaseStmt: ast.MakeBaseStmt(startPos, p.tok.Pos),
		Expr:     expr,
	}
}

// parseVarDecl parses var/let/const with one or more declarators, without
// the terminator.
func (p *Parser) parseVarDecl() *ast.VarDecl {
	startPos := p.tok.Pos
	kind := p.tok.Value
	p.next()

	decl := &ast.VarDecl{Kind: kind}
	for {
		name, namePos := p.expectName()
		d := &ast.Declarator{Name: name, NamePos: namePos}
		if p.tok.IsOp("=") {
			p.next()
			d.Init = p.parseExpr()
		} else if kind == "const" {
			p.fail(errorf(namePos, "missing initializer in const declaration of %q", name))
		}
		decl.Decls = append(decl.Decls, d)
		if !p.tok.IsPunct(",") {
			break
		}
		p.next()
	}
	decl.BaseStmt = ast.MakeBaseStmt(startPos, p.tok.Pos)
	return decl
}

// parseIfStmt parses if (cond) stmt [else stmt].
func (p *Parser) parseIfStmt() *ast.IfStmt {
	startPos := p.tok.Pos
	p.next() // consume 'if'

	p.expectPunct("(")
	cond := p.parseExpr()
	p.expectPunct(")")

	stmt := &ast.IfStmt{Cond: cond, Then: p.parseStmt()}
	if p.tok.IsKeyword("else") {
		p.next()
		stmt.Else = p.parseStmt()
	}
	stmt.BaseStmt = ast.MakeBaseStmt(startPos, p.tok.Pos)
	return stmt
}

// parseWhileStmt parses while (cond) stmt.
func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	startPos := p.tok.Pos
	p.next() // consume 'while'

	p.expectPunct("(")
	cond := p.parseExpr()
	p.expectPunct(")")
	body := p.parseStmt()

	return &ast.WhileStmt{
		BaseStmt: ast.MakeBaseStmt(startPos, p.tok.Pos),
		Cond:     cond,
		Body:     body,
	}
}

// parseForStmt parses for (init; cond; post) stmt. Each header part is
// optional; init may be a declaration.
func (p *Parser) parseForStmt() *ast.ForStmt {
	startPos := p.tok.Pos
	p.next() // consume 'for'
	p.expectPunct("(")

	stmt := &ast.ForStmt{}
	switch {
	case p.tok.IsPunct(";"):
	case p.tok.IsKeyword("var"), p.tok.IsKeyword("let"), p.tok.IsKeyword("const"):
		stmt.Init = p.parseVarDecl()
	default:
		initPos := p.tok.Pos
		expr := p.parseExpr()
		stmt.Init = &ast.ExprStmt{
			BaseStmt: ast.MakeBaseStmt(initPos, p.tok.Pos),
			Expr:     expr,
		}
	}
	p.expectPunct(";")

	if !p.tok.IsPunct(";") {
		stmt.Cond = p.parseExpr()
	}
	p.expectPunct(";")

	if !p.tok.IsPunct(")") {
		stmt.Post = p.parseExpr()
	}
	p.expectPunct(")")

	stmt.Body = p.parseStmt()
	stmt.BaseStmt = ast.MakeBaseStmt(startPos, p.tok.Pos)
	return stmt
}

// parseReturnStmt parses return [expr].
func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	startPos := p.tok.Pos
	p.next() // consume 'return'

	stmt := &ast.ReturnStmt{}
	if !p.isTerminated() {
		stmt.Value = p.parseExpr()
	}
	p.endStmt()
	stmt.BaseStmt = ast.MakeBaseStmt(startPos, p.tok.Pos)
	return stmt
}

// -----------------------------------------------------------------------------
// Functions
// -----------------------------------------------------------------------------

// parseFunc parses function [name](params) { body }.
func (p *Parser) parseFunc() *ast.Func {
	p.next() // consume 'function'

	fn := &ast.Func{}
	if p.tok.Kind == token.Identifier {
		fn.Name, _ = p.expectName()
	}
	p.expectPunct("(")
	fn.Params = p.parseParams()
	p.expectPunct(")")
	p.checkParams(fn.Params)
	fn.Body = p.parseBlock()
	return fn
}

// parseParams parses a parameter list up to, not including, ')'.
func (p *Parser) parseParams() []*ast.Param {
	var params []*ast.Param
	for !p.tok.IsPunct(")") {
		if len(params) > 0 {
			p.expectPunct(",")
		}
		name, pos := p.expectName()
		param := &ast.Param{Name: name, Pos: pos}
		if p.tok.IsOp("=") {
			p.next()
			param.Default = p.parseAssign()
		}
		params = append(params, param)
	}
	return params
}

// checkParams rejects duplicate parameter names.
func (p *Parser) checkParams(params []*ast.Param) {
	seen := make(map[string]bool, len(params))
	for _, param := range params {
		if seen[param.Name] {
			p.fail(errorf(param.Pos, "duplicate parameter %q", param.Name))
		}
		seen[param.Name] = true
	}
}

// tryArrowParams speculatively parses "(params) =>" at the current '('.
// On success the cursor is left on '=>'; otherwise the cursor is restored
// and ok is false.
func (p *Parser) tryArrowParams() (params []*ast.Param, ok bool) {
	save := p.mark()
	if t, seen := p.trials[save]; seen {
		if t.ok {
			p.reset(t.end)
		}
		return t.params, t.ok
	}
	defer func() {
		if r := recover(); r != nil {
			if _, isBailout := r.(bailout); !isBailout {
				panic(r)
			}
			params, ok = nil, false
		}
		if !ok {
			p.reset(save)
		}
		p.trials[save] = arrowTrial{params: params, end: p.pos, ok: ok}
	}()

	p.expectPunct("(")
	params = p.parseParams()
	p.expectPunct(")")
	return params, p.tok.IsOp("=>")
}

// parseArrowBody parses the body after '=>' for the given parameters.
func (p *Parser) parseArrowBody(startPos token.Position, params []*ast.Param) ast.Expr {
	p.expectOp("=>")
	p.checkParams(params)

	fn := &ast.Func{Params: params, Arrow: true}
	if p.tok.IsPunct("{") {
		fn.Body = p.parseBlock()
	} else {
		fn.ExprBody = p.parseAssign()
	}
	return &ast.ArrowFunc{
		BaseExpr: ast.MakeBaseExpr(startPos, p.tok.Pos),
		Func:     fn,
	}
}

// -----------------------------------------------------------------------------
// Expression parsing
// -----------------------------------------------------------------------------

// parseExpr parses a full expression.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseAssign()
}

// parseAssign parses arrow functions and right-associative assignments.
func (p *Parser) parseAssign() ast.Expr {
	p.enter()
	defer p.leave()

	startPos := p.tok.Pos

	// x => body
	if p.tok.Kind == token.Identifier && p.peek().IsOp("=>") {
		name, pos := p.expectName()
		return p.parseArrowBody(startPos, []*ast.Param{{Name: name, Pos: pos}})
	}
	// (a, b = 1) => body
	if p.tok.IsPunct("(") {
		if params, ok := p.tryArrowParams(); ok {
			return p.parseArrowBody(startPos, params)
		}
	}

	left := p.parseCond()
	if p.tok.Kind != token.Operator {
		return left
	}
	if _, ok := token.AssignOp(p.tok.Value); !ok {
		return left
	}
	if !ast.IsLValue(left) {
		p.errorf("invalid assignment target")
	}
	op := p.tok.Value
	p.next()
	right := p.parseAssign()
	return &ast.AssignExpr{
		BaseExpr: ast.MakeBaseExpr(left.Pos(), p.tok.Pos),
		Op:       op,
		Left:     left,
		Right:    right,
	}
}

// parseCond parses a ternary conditional expression.
func (p *Parser) parseCond() ast.Expr {
	expr := p.parseNullish()
	if !p.tok.IsOp("?") {
		return expr
	}
	p.next()
	then := p.parseAssign()
	p.expectOp(":")
	els := p.parseAssign()
	return &ast.CondExpr{
		BaseExpr: ast.MakeBaseExpr(expr.Pos(), p.tok.Pos),
		Cond:     expr,
		Then:     then,
		Else:     els,
	}
}

// parseNullish parses ?? expressions.
func (p *Parser) parseNullish() ast.Expr {
	return p.parseBinaryLeft(p.parseOr, func(op string, left, right ast.Expr) ast.Expr {
		return &ast.NullishExpr{
			BaseExpr: ast.MakeBaseExpr(left.Pos(), p.tok.Pos),
			Left:     left,
			Right:    right,
		}
	}, "??")
}

// parseOr parses || expressions.
func (p *Parser) parseOr() ast.Expr {
	return p.parseBinaryLeft(p.parseAnd, p.makeLogical, "||")
}

// parseAnd parses && expressions.
func (p *Parser) parseAnd() ast.Expr {
	return p.parseBinaryLeft(p.parseEquality, p.makeLogical, "&&")
}

// parseEquality parses == != === !== expressions.
func (p *Parser) parseEquality() ast.Expr {
	return p.parseBinaryLeft(p.parseRelational, p.makeBinary, "==", "!=", "===", "!==")
}

// parseRelational parses < <= > >= expressions.
func (p *Parser) parseRelational() ast.Expr {
	return p.parseBinaryLeft(p.parseAdditive, p.makeBinary, "<", "<=", ">", ">=")
}

// parseAdditive parses + and - expressions.
func (p *Parser) parseAdditive() ast.Expr {
	return p.parseBinaryLeft(p.parseMultiplicative, p.makeBinary, "+", "-")
}

// parseMultiplicative parses * / % expressions.
func (p *Parser) parseMultiplicative() ast.Expr {
	return p.parseBinaryLeft(p.parseUnary, p.makeBinary, "*", "/", "%")
}

func (p *Parser) makeBinary(op string, left, right ast.Expr) ast.Expr {
	return &ast.BinaryExpr{
		BaseExpr: ast.MakeBaseExpr(left.Pos(), p.tok.Pos),
		Op:       op,
		Left:     left,
		Right:    right,
	}
}

func (p *Parser) makeLogical(op string, left, right ast.Expr) ast.Expr {
	return &ast.LogicalExpr{
		BaseExpr: ast.MakeBaseExpr(left.Pos(), p.tok.Pos),
		Op:       op,
		Left:     left,
		Right:    right,
	}
}

// parseUnary parses ! - + typeof and prefix ++ --.
func (p *Parser) parseUnary() ast.Expr {
	p.enter()
	defer p.leave()

	startPos := p.tok.Pos
	switch {
	case p.matchOp("!", "-", "+"), p.tok.IsKeyword("typeof"):
		op := p.tok.Value
		p.next()
		expr := p.parseUnary()
		return &ast.UnaryExpr{
			BaseExpr: ast.MakeBaseExpr(startPos, p.tok.Pos),
			Op:       op,
			Expr:     expr,
		}

	case p.matchOp("++", "--"):
		op := p.tok.Value
		p.next()
		target := p.parseUnary()
		if !ast.IsLValue(target) {
			p.fail(errorf(target.Pos(), "invalid %s operand", op))
		}
		return &ast.UpdateExpr{
			BaseExpr: ast.MakeBaseExpr(startPos, p.tok.Pos),
			Op:       op,
			Target:   target,
			Prefix:   true,
		}
	}
	return p.parsePostfix()
}

// parsePostfix parses a member/call chain followed by an optional postfix
// ++ or -- on the same line.
func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parseChain()
	if p.matchOp("++", "--") && !p.onNewLine() {
		op := p.tok.Value
		if !ast.IsLValue(expr) {
			p.errorf("invalid %s operand", op)
		}
		p.next()
		return &ast.UpdateExpr{
			BaseExpr: ast.MakeBaseExpr(expr.Pos(), p.tok.Pos),
			Op:       op,
			Target:   expr,
		}
	}
	return expr
}

// parseChain parses member access and calls, eager and optional:
// a.b a[b] a(b) a?.b a?.[b] a?.(b).
func (p *Parser) parseChain() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch {
		case p.tok.IsPunct("."):
			p.next()
			expr = p.parseMemberName(expr, false)

		case p.tok.IsPunct("["):
			expr = p.parseIndex(expr, false)

		case p.tok.IsPunct("("):
			expr = p.parseCall(expr, false)

		case p.tok.IsOp("?."):
			p.next()
			switch {
			case p.tok.IsPunct("("):
				expr = p.parseCall(expr, true)
			case p.tok.IsPunct("["):
				expr = p.parseIndex(expr, true)
			default:
				expr = p.parseMemberName(expr, true)
			}

		default:
			return expr
		}
	}
}

// parseMemberName parses the property name after '.' or '?.'.
// Keywords are valid property names.
func (p *Parser) parseMemberName(object ast.Expr, optional bool) ast.Expr {
	if p.tok.Kind != token.Identifier && p.tok.Kind != token.Keyword {
		p.fail(expectedError(p.tok.Pos, "property name", p.tok.Describe()))
	}
	name := p.tok.Value
	p.next()
	return &ast.MemberExpr{
		BaseExpr: ast.MakeBaseExpr(object.Pos(), p.tok.Pos),
		Object:   object,
		Name:     name,
		Optional: optional,
	}
}

// parseIndex parses [expr] after a receiver.
func (p *Parser) parseIndex(object ast.Expr, optional bool) ast.Expr {
	p.expectPunct("[")
	prop := p.parseExpr()
	p.expectPunct("]")
	return &ast.MemberExpr{
		BaseExpr: ast.MakeBaseExpr(object.Pos(), p.tok.Pos),
		Object:   object,
		Prop:     prop,
		Computed: true,
		Optional: optional,
	}
}

// parseCall parses an argument list after a callee.
func (p *Parser) parseCall(callee ast.Expr, optional bool) ast.Expr {
	p.expectPunct("(")
	args := p.parseElements(")")
	return &ast.CallExpr{
		BaseExpr: ast.MakeBaseExpr(callee.Pos(), p.tok.Pos),
		Callee:   callee,
		Args:     args,
		Optional: optional,
	}
}

// parseElements parses comma-separated expressions, each optionally
// prefixed by '...', up to and including the closing punctuation.
// A trailing comma is allowed; holes are not.
func (p *Parser) parseElements(closing string) []ast.Expr {
	var exprs []ast.Expr
	for !p.tok.IsPunct(closing) {
		if p.tok.Kind == token.Spread {
			startPos := p.tok.Pos
			p.next()
			expr := p.parseAssign()
			exprs = append(exprs, &ast.SpreadElem{
				BaseExpr: ast.MakeBaseExpr(startPos, p.tok.Pos),
				Expr:     expr,
			})
		} else {
			exprs = append(exprs, p.parseAssign())
		}
		if !p.tok.IsPunct(",") {
			break
		}
		p.next()
	}
	p.expectPunct(closing)
	return exprs
}

// parsePrimary parses literals, names, parenthesized expressions,
// function expressions and array/object literals.
func (p *Parser) parsePrimary() ast.Expr {
	startPos := p.tok.Pos
	tok := p.tok

	switch tok.Kind {
	case token.Number:
		p.next()
		return &ast.Literal{
			BaseExpr: ast.MakeBaseExpr(startPos, p.tok.Pos),
			Kind:     ast.LitNumber,
			Num:      p.parseNumber(tok),
			Raw:      tok.Value,
		}

	case token.String:
		p.next()
		return &ast.Literal{
			BaseExpr: ast.MakeBaseExpr(startPos, p.tok.Pos),
			Kind:     ast.LitString,
			Str:      tok.Value,
			Raw:      strconv.Quote(tok.Value),
		}

	case token.Identifier:
		p.next()
		return &ast.Ident{
			BaseExpr: ast.MakeBaseExpr(startPos, p.tok.Pos),
			Name:     tok.Value,
		}

	case token.Keyword:
		switch tok.Value {
		case "true", "false", "null", "undefined":
			p.next()
			return &ast.Literal{
				BaseExpr: ast.MakeBaseExpr(startPos, p.tok.Pos),
				Kind:     literalKinds[tok.Value],
				Raw:      tok.Value,
			}
		case "this":
			p.next()
			return &ast.ThisExpr{BaseExpr: ast.MakeBaseExpr(startPos, p.tok.Pos)}
		case "function":
			fn := p.parseFunc()
			return &ast.FuncLit{
				BaseExpr: ast.MakeBaseExpr(startPos, p.tok.Pos),
				Func:     fn,
			}
		}

	case token.Punct:
		switch tok.Value {
		case "(":
			p.next()
			expr := p.parseExpr()
			p.expectPunct(")")
			return ast.Parenthesize(expr)
		case "[":
			p.next()
			elems := p.parseElements("]")
			return &ast.ArrayLit{
				BaseExpr: ast.MakeBaseExpr(startPos, p.tok.Pos),
				Elems:    elems,
			}
		case "{":
			return p.parseObject()
		}
	}

	p.unexpected()
	return nil
}

var literalKinds = map[string]ast.LitKind{
	"true":      ast.LitTrue,
	"false":     ast.LitFalse,
	"null":      ast.LitNull,
	"undefined": ast.LitUndefined,
}

// parseNumber converts a number token's raw text.
func (p *Parser) parseNumber(tok token.Token) float64 {
	raw := tok.Value
	if len(raw) > 2 && raw[0] == '0' && (raw[1] == 'x' || raw[1] == 'X') {
		n, err := strconv.ParseUint(raw[2:], 16, 64)
		if err != nil {
			p.fail(errorf(tok.Pos, "invalid number %s", raw))
		}
		return float64(n)
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		p.fail(errorf(tok.Pos, "invalid number %s", raw))
	}
	return n
}

// parseObject parses an object literal with key/value, shorthand,
// method and spread entries.
func (p *Parser) parseObject() ast.Expr {
	startPos := p.expectPunct("{")

	var props []*ast.Property
	for !p.tok.IsPunct("}") {
		props = append(props, p.parseProperty())
		if !p.tok.IsPunct(",") {
			break
		}
		p.next()
	}
	p.expectPunct("}")

	return &ast.ObjectLit{
		BaseExpr: ast.MakeBaseExpr(startPos, p.tok.Pos),
		Props:    props,
	}
}

// parseProperty parses one object literal entry.
func (p *Parser) parseProperty() *ast.Property {
	prop := &ast.Property{KeyPos: p.tok.Pos}

	if p.tok.Kind == token.Spread {
		p.next()
		prop.Kind = ast.PropSpread
		prop.Value = p.parseAssign()
		return prop
	}

	keyTok := p.tok
	switch keyTok.Kind {
	case token.Identifier, token.Keyword, token.String:
		prop.Key = keyTok.Value
		p.next()
	case token.Number:
		prop.Key = value.FormatNum(p.parseNumber(keyTok))
		p.next()
	case token.Punct:
		if !keyTok.IsPunct("[") {
			p.fail(expectedError(keyTok.Pos, "property key", keyTok.Describe()))
		}
		p.next()
		prop.KeyExpr = p.parseAssign()
		prop.Computed = true
		p.expectPunct("]")
	default:
		p.fail(expectedError(keyTok.Pos, "property key", keyTok.Describe()))
	}

	switch {
	case p.tok.IsOp(":"):
		p.next()
		prop.Kind = ast.PropKeyValue
		prop.Value = p.parseAssign()

	case p.tok.IsPunct("(") && !prop.Computed:
		fnPos := p.tok.Pos
		p.next()
		fn := &ast.Func{Name: prop.Key, Params: p.parseParams()}
		p.expectPunct(")")
		p.checkParams(fn.Params)
		fn.Body = p.parseBlock()
		prop.Kind = ast.PropMethod
		prop.Value = &ast.FuncLit{
			BaseExpr: ast.MakeBaseExpr(fnPos, p.tok.Pos),
			Func:     fn,
		}

	case keyTok.Kind == token.Identifier && (p.tok.IsPunct(",") || p.tok.IsPunct("}")):
		prop.Kind = ast.PropShorthand
		prop.Value = &ast.Ident{
			BaseExpr: ast.MakeBaseExpr(keyTok.Pos, p.tok.Pos),
			Name:     keyTok.Value,
		}

	default:
		p.fail(expectedError(p.tok.Pos, "':'", p.tok.Describe()))
	}
	return prop
}

// parseBinaryLeft parses left-associative binary operators.
func (p *Parser) parseBinaryLeft(higher func() ast.Expr, build func(op string, left, right ast.Expr) ast.Expr, ops ...string) ast.Expr {
	expr := higher()
	for p.matchOp(ops...) {
		op := p.tok.Value
		p.next()
		right := higher()
		expr = build(op, expr, right)
	}
	return expr
}
