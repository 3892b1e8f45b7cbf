package parser

import (
	"github.com/risqcapital/hcl2go/ast"
	"github.com/risqcapital/hcl2go/token"
)

// parseBody parses a sequence of Attribute/Block statements, stopping
// at closing (the token that ends this body: token.EOF for the file
// level, token.RBRACE for a block body).
func (p *Parser) parseBody(closing token.Kind) (ast.Body, error) {
	var body ast.Body
	p.skipNewlines()
	for !p.at(closing) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)

		if p.at(closing) {
			break
		}
		if !p.at(token.NEWLINE) {
			got := p.peek()
			return nil, p.errorf(got, "expected newline after statement, got %s", got.Kind)
		}
		p.skipNewlines()
	}
	return body, nil
}

// parseStmt parses one Attribute or Block. Both begin with an
// identifier; the distinguishing lookahead is "=" (Attribute) versus
// zero-or-more labels followed by "{" (Block).
func (p *Parser) parseStmt() (ast.Stmt, error) {
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	name := ast.NewIdentifier(nameTok.Range(), nameTok.Text)

	if _, ok := p.accept(token.ASSIGN); ok {
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		attr := &ast.Attribute{Key: *name, Value: value}
		attr.Rng = spanRange(nameTok.Range(), value.Range())
		return attr, nil
	}

	var labels []ast.Expr
	for p.at(token.IDENT) || p.at(token.STRING) {
		if p.at(token.IDENT) {
			tok := p.advance()
			labels = append(labels, ast.NewIdentifier(tok.Range(), tok.Text))
			continue
		}
		tok := p.advance()
		lit, err := p.parseStringLiteral(tok)
		if err != nil {
			return nil, err
		}
		labels = append(labels, lit)
	}

	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	inner, err := p.parseBody(token.RBRACE)
	if err != nil {
		return nil, err
	}
	closeTok, err := p.expect(token.RBRACE)
	if err != nil {
		return nil, err
	}

	blk := &ast.Block{Type: *name, Labels: labels, Body: inner}
	blk.Rng = spanRange(nameTok.Range(), closeTok.Range())
	return blk, nil
}

// spanRange builds a Range running from the start of from to the end
// of to, attributed to from's file.
func spanRange(from, to ast.Range) ast.Range {
	return ast.Range{Filename: from.Filename, Start: from.Start, End: to.End}
}
