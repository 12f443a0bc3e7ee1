// Package lexer provides scriptbox source code tokenization.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kolkov/scriptbox/internal/token"
)

// Error is a lexical error with the position of the offending character.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Operator tables, matched longest first.
var (
	operators3 = []string{"===", "!=="}
	operators2 = []string{
		"==", "!=", "<=", ">=", "&&", "||", "??", "?.", "=>",
		"++", "--", "+=", "-=", "*=", "/=", "%=",
	}
)

const (
	operators1  = "+-*/%<>=!?:"
	punctuation = "()[]{},;."
)

// Lexer tokenizes scriptbox source code.
type Lexer struct {
	src     string         // Source code
	ch      rune           // Current character (-1 at EOF)
	offset  int            // Byte offset of the next character
	pos     token.Position // Position of current character
	nextPos token.Position // Position of next character
}

// New creates a new Lexer for the given source code.
func New(src string) *Lexer {
	l := &Lexer{
		src: src,
		nextPos: token.Position{
			Line:   1,
			Column: 1,
		},
	}
	l.next() // Initialize first character
	return l
}

// Tokenize scans the whole source and returns its tokens, terminated by
// an EOF token. The first lexical error stops scanning.
func Tokenize(src string) ([]token.Token, error) {
	l := New(src)
	var toks []token.Token
	for {
		tok, err := l.Scan()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks, nil
		}
	}
}

// Scan scans and returns the next token.
func (l *Lexer) Scan() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}

	pos := l.pos
	if l.ch < 0 {
		return token.Token{Kind: token.EOF, Pos: pos}, nil
	}

	switch {
	case l.ch == '"' || l.ch == '\'':
		return l.scanString(pos)
	case isDigit(l.ch) || (l.ch == '.' && isDigit(l.peek(0))):
		return l.scanNumber(pos)
	case isIdentStart(l.ch):
		return l.scanIdent(pos), nil
	case l.ch == '.' && l.peek(0) == '.' && l.peek(1) == '.':
		l.advance(3)
		return token.Token{Kind: token.Spread, Value: "...", Pos: pos}, nil
	}

	rest := l.src[pos.Offset:]
	for _, op := range operators3 {
		if strings.HasPrefix(rest, op) {
			l.advance(3)
			return token.Token{Kind: token.Operator, Value: op, Pos: pos}, nil
		}
	}
	for _, op := range operators2 {
		if !strings.HasPrefix(rest, op) {
			continue
		}
		// a?.5:1 is a conditional, not an optional chain
		if op == "?." && len(rest) > 2 && isDigit(rune(rest[2])) {
			continue
		}
		l.advance(2)
		return token.Token{Kind: token.Operator, Value: op, Pos: pos}, nil
	}
	if strings.ContainsRune(operators1, l.ch) {
		ch := l.ch
		l.next()
		return token.Token{Kind: token.Operator, Value: string(ch), Pos: pos}, nil
	}
	if strings.ContainsRune(punctuation, l.ch) {
		ch := l.ch
		l.next()
		return token.Token{Kind: token.Punct, Value: string(ch), Pos: pos}, nil
	}
	return token.Token{}, &Error{Pos: pos, Message: fmt.Sprintf("unexpected character %q", l.ch)}
}

var escapes = map[rune]rune{
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'0':  0,
	'"':  '"',
	'\'': '\'',
	'\\': '\\',
}

func (l *Lexer) scanString(pos token.Position) (token.Token, error) {
	quote := l.ch
	l.next() // consume opening quote

	var sb strings.Builder
	for l.ch != quote {
		if l.ch < 0 || l.ch == '\n' {
			return token.Token{}, &Error{Pos: pos, Message: "unterminated string"}
		}
		if l.ch != '\\' {
			sb.WriteRune(l.ch)
			l.next()
			continue
		}
		escPos := l.pos
		l.next()
		if r, ok := escapes[l.ch]; ok {
			sb.WriteRune(r)
			l.next()
			continue
		}
		switch l.ch {
		case 'x':
			l.next()
			r, ok := l.scanHex(2)
			if !ok {
				return token.Token{}, &Error{Pos: escPos, Message: `invalid \x escape`}
			}
			sb.WriteRune(r)
		case 'u':
			l.next()
			r, ok := l.scanHex(4)
			if !ok {
				return token.Token{}, &Error{Pos: escPos, Message: `invalid \u escape`}
			}
			sb.WriteRune(r)
		case -1, '\n':
			return token.Token{}, &Error{Pos: pos, Message: "unterminated string"}
		default:
			return token.Token{}, &Error{Pos: escPos, Message: fmt.Sprintf("unknown escape sequence \\%c", l.ch)}
		}
	}
	l.next() // consume closing quote

	return token.Token{Kind: token.String, Value: sb.String(), Pos: pos}, nil
}

// scanHex reads exactly n hex digits.
func (l *Lexer) scanHex(n int) (rune, bool) {
	var r rune
	for i := 0; i < n; i++ {
		if !isHexDigit(l.ch) {
			return 0, false
		}
		r = r*16 + hexValue(l.ch)
		l.next()
	}
	return r, true
}

func (l *Lexer) scanNumber(pos token.Position) (token.Token, error) {
	start := pos.Offset

	if l.ch == '0' && (l.peek(0) == 'x' || l.peek(0) == 'X') {
		l.next() // 0
		l.next() // x
		if !isHexDigit(l.ch) {
			return token.Token{}, &Error{Pos: pos, Message: "malformed hex literal"}
		}
		for isHexDigit(l.ch) {
			l.next()
		}
		return token.Token{Kind: token.Number, Value: l.src[start:l.pos.Offset], Pos: pos}, nil
	}

	for isDigit(l.ch) {
		l.next()
	}
	// "1..2" is not a number followed by a spread; only take the dot when a
	// spread does not start here.
	if l.ch == '.' && !(l.peek(0) == '.' && l.peek(1) == '.') {
		l.next()
		for isDigit(l.ch) {
			l.next()
		}
	}
	// Only consume e/E when exponent digits follow.
	if (l.ch == 'e' || l.ch == 'E') && l.hasValidExponent() {
		l.next()
		if l.ch == '+' || l.ch == '-' {
			l.next()
		}
		for isDigit(l.ch) {
			l.next()
		}
	}
	if isIdentStart(l.ch) {
		return token.Token{}, &Error{Pos: l.pos, Message: fmt.Sprintf("unexpected character %q after number", l.ch)}
	}

	return token.Token{Kind: token.Number, Value: l.src[start:l.pos.Offset], Pos: pos}, nil
}

func (l *Lexer) scanIdent(pos token.Position) token.Token {
	start := pos.Offset
	for isIdentContinue(l.ch) {
		l.next()
	}
	name := l.src[start:l.pos.Offset]
	return token.Token{Kind: token.LookupIdent(name), Value: name, Pos: pos}
}

// hasValidExponent reports whether the current e/E begins an exponent.
func (l *Lexer) hasValidExponent() bool {
	ch := l.peek(0)
	if isDigit(ch) {
		return true
	}
	return (ch == '+' || ch == '-') && isDigit(l.peek(1))
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.next()
		case l.ch == '/' && l.peek(0) == '/':
			for l.ch >= 0 && l.ch != '\n' {
				l.next()
			}
		case l.ch == '/' && l.peek(0) == '*':
			start := l.pos
			l.advance(2)
			for !(l.ch == '*' && l.peek(0) == '/') {
				if l.ch < 0 {
					return &Error{Pos: start, Message: "unterminated comment"}
				}
				l.next()
			}
			l.advance(2)
		default:
			return nil
		}
	}
}

// next moves to the following character. At EOF, l.pos is placed just
// past the last character so slicing with l.pos.Offset stays valid.
func (l *Lexer) next() {
	l.pos = l.nextPos
	if l.offset >= len(l.src) {
		l.ch = -1
		return
	}

	r, size := utf8.DecodeRuneInString(l.src[l.offset:])
	l.ch = r
	l.offset += size
	l.nextPos.Offset = l.offset
	l.nextPos.Column++
	if r == '\n' {
		l.nextPos.Line++
		l.nextPos.Column = 1
	}
}

func (l *Lexer) advance(n int) {
	for i := 0; i < n; i++ {
		l.next()
	}
}

// peek returns the character i+1 positions after the current one, or -1.
// Only used for ASCII lookahead.
func (l *Lexer) peek(i int) rune {
	idx := l.offset + i
	if idx >= len(l.src) {
		return -1
	}
	return rune(l.src[idx])
}

// Helper functions

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func hexValue(ch rune) rune {
	switch {
	case ch >= '0' && ch <= '9':
		return ch - '0'
	case ch >= 'a' && ch <= 'f':
		return ch - 'a' + 10
	default:
		return ch - 'A' + 10
	}
}

func isIdentStart(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isIdentContinue(ch rune) bool {
	return isIdentStart(ch) || isDigit(ch)
}
