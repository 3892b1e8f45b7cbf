// Package parser implements the recursive-descent HCL2 parser of
// spec.md §4.1: it consumes the token stream produced by package lexer
// and builds an ast.Body or ast.Expr directly, with no intermediate
// concrete-syntax-tree stage. Parsing is all-or-nothing — the first
// malformed construct returns a *diag.ParseError and parsing stops.
package parser

import (
	"fmt"

	"github.com/risqcapital/hcl2go/ast"
	"github.com/risqcapital/hcl2go/diag"
	"github.com/risqcapital/hcl2go/lexer"
	"github.com/risqcapital/hcl2go/token"
)

// ParseFile lexes and parses filename's contents as a body: a sequence
// of top-level attributes and blocks.
func ParseFile(filename string, src []byte) (ast.Body, error) {
	toks, err := lexer.New(filename, src).Tokenize()
	if err != nil {
		return nil, toDiag(err)
	}
	p := &Parser{filename: filename, toks: toks}
	body, err := p.parseBody(token.EOF)
	if err != nil {
		return nil, err
	}
	if !p.at(token.EOF) {
		return nil, p.errorf(p.peek(), "unexpected %s after body", p.peek().Kind)
	}
	return body, nil
}

// ParseExpression lexes and parses filename's contents as a single
// standalone expression.
func ParseExpression(filename string, src []byte) (ast.Expr, error) {
	toks, err := lexer.New(filename, src).Tokenize()
	if err != nil {
		return nil, toDiag(err)
	}
	return parseExprTokens(filename, toks)
}

// parseExprTokens parses a complete expression from an already-lexed
// token stream, used both by ParseExpression and by the template
// splitter when it recurses into a "${...}" interpolation.
func parseExprTokens(filename string, toks []token.Token) (ast.Expr, error) {
	p := &Parser{filename: filename, toks: toks}
	p.skipNewlines()
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipNewlines()
	if !p.at(token.EOF) {
		return nil, p.errorf(p.peek(), "unexpected %s after expression", p.peek().Kind)
	}
	return expr, nil
}

// toDiag wraps a raw lexer/internal error as a *diag.ParseError when it
// isn't already a diag.Diagnostic, so every failure path out of this
// package returns the same taxonomy (spec.md §7).
func toDiag(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(diag.Diagnostic); ok {
		return err
	}
	return diag.NewParseError(ast.Range{}, err.Error())
}

// Parser holds parsing state over a flat token slice. Like package
// lexer's Scanner, it is single-use.
type Parser struct {
	filename string
	toks     []token.Token
	pos      int
}

func (p *Parser) peek() token.Token  { return p.peekN(0) }
func (p *Parser) peekN(n int) token.Token {
	i := p.pos + n
	if i < 0 {
		i = 0
	}
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[i]
}

func (p *Parser) advance() token.Token {
	t := p.peek()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) accept(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if tok, ok := p.accept(k); ok {
		return tok, nil
	}
	got := p.peek()
	return token.Token{}, p.errorf(got, "expected %s, got %s", k, got.Kind)
}

// skipNewlines consumes zero or more consecutive NEWLINE tokens.
func (p *Parser) skipNewlines() {
	for p.at(token.NEWLINE) {
		p.advance()
	}
}

func (p *Parser) errorf(tok token.Token, format string, args ...any) error {
	return diag.NewParseError(tok.Range(), fmt.Sprintf(format, args...))
}
