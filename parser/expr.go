package parser

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/risqcapital/hcl2go/ast"
	"github.com/risqcapital/hcl2go/token"
	"github.com/risqcapital/hcl2go/value"
)

// parseExpr parses a full expression at the lowest precedence level
// (the conditional operator), per spec.md §4.1's precedence table:
// conditional, ||, &&, unary !, ==/!=, comparison, +/-, */÷/%, unary -,
// then primary/postfix.
func (p *Parser) parseExpr() (ast.Expr, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if _, ok := p.accept(token.QUESTION); !ok {
		return cond, nil
	}
	then, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	els, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	c := &ast.Conditional{Cond: cond, Then: then, Else: els}
	c.Rng = spanRange(cond.Range(), els.Range())
	return c, nil
}

func (p *Parser) parseOr() (ast.Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.at(token.OR) {
		opTok := p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = p.binOp(left, "||", opTok, right)
	}
	return left, nil
}

func (p *Parser) parseAnd() (ast.Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.at(token.AND) {
		opTok := p.advance()
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = p.binOp(left, "&&", opTok, right)
	}
	return left, nil
}

func (p *Parser) parseNot() (ast.Expr, error) {
	if p.at(token.NOT) {
		opTok := p.advance()
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		u := &ast.UnaryOp{Op: "!", OpRange: opTok.Range(), Operand: operand}
		u.Rng = spanRange(opTok.Range(), operand.Range())
		return u, nil
	}
	return p.parseEquality()
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.at(token.EQ) || p.at(token.NEQ) {
		opTok := p.advance()
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = p.binOp(left, opTok.Kind.String(), opTok, right)
	}
	return left, nil
}

func (p *Parser) parseComparison() (ast.Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.at(token.LT) || p.at(token.GT) || p.at(token.LE) || p.at(token.GE) {
		opTok := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = p.binOp(left, opTok.Kind.String(), opTok, right)
	}
	return left, nil
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.at(token.PLUS) || p.at(token.MINUS) {
		opTok := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = p.binOp(left, opTok.Kind.String(), opTok, right)
	}
	return left, nil
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	left, err := p.parseUnaryMinus()
	if err != nil {
		return nil, err
	}
	for p.at(token.STAR) || p.at(token.SLASH) || p.at(token.PERCENT) {
		opTok := p.advance()
		right, err := p.parseUnaryMinus()
		if err != nil {
			return nil, err
		}
		left = p.binOp(left, opTok.Kind.String(), opTok, right)
	}
	return left, nil
}

func (p *Parser) parseUnaryMinus() (ast.Expr, error) {
	if p.at(token.MINUS) {
		opTok := p.advance()
		operand, err := p.parseUnaryMinus()
		if err != nil {
			return nil, err
		}
		u := &ast.UnaryOp{Op: "-", OpRange: opTok.Range(), Operand: operand}
		u.Rng = spanRange(opTok.Range(), operand.Range())
		return u, nil
	}
	atom, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parsePostfix(atom)
}

func (p *Parser) binOp(left ast.Expr, op string, opTok token.Token, right ast.Expr) ast.Expr {
	b := &ast.BinaryOp{Op: op, OpRange: opTok.Range(), Left: left, Right: right}
	b.Rng = spanRange(left.Range(), right.Range())
	return b
}

// parsePostfix chains ".attr", "[index]", ".*" and "[*]" splats onto
// atom, for as long as the token stream keeps offering one.
func (p *Parser) parsePostfix(atom ast.Expr) (ast.Expr, error) {
	on := atom
	for {
		switch {
		case p.at(token.DOT) && p.peekN(1).Kind == token.STAR:
			p.advance() // "."
			p.advance() // "*"
			trailers, end, err := p.parseAttrTrailers()
			if err != nil {
				return nil, err
			}
			s := &ast.AttrSplat{On: on, Trailers: trailers}
			s.Rng = spanRange(on.Range(), end)
			on = s
		case p.at(token.LBRACK) && p.peekN(1).Kind == token.STAR:
			p.advance() // "["
			p.advance() // "*"
			closeTok, err := p.expect(token.RBRACK)
			if err != nil {
				return nil, err
			}
			trailers, end, err := p.parseSplatTrailers(closeTok.Range())
			if err != nil {
				return nil, err
			}
			s := &ast.IndexSplat{On: on, Trailers: trailers}
			s.Rng = spanRange(on.Range(), end)
			on = s
		case p.at(token.DOT):
			dotTok := p.advance()
			nameTok, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			key := ast.GetAttrKey{Name: *ast.NewIdentifier(nameTok.Range(), nameTok.Text)}
			key.Rng = spanRange(dotTok.Range(), nameTok.Range())
			g := &ast.GetAttr{On: on, Key: key}
			g.Rng = spanRange(on.Range(), nameTok.Range())
			on = g
		case p.at(token.LBRACK):
			openTok := p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			closeTok, err := p.expect(token.RBRACK)
			if err != nil {
				return nil, err
			}
			key := ast.GetIndexKey{Index: idx}
			key.Rng = spanRange(openTok.Range(), closeTok.Range())
			g := &ast.GetIndex{On: on, Key: key}
			g.Rng = spanRange(on.Range(), closeTok.Range())
			on = g
		default:
			return on, nil
		}
	}
}

// parseAttrTrailers parses the zero-or-more ".name" trailers that may
// follow an attribute splat's "on.*".
func (p *Parser) parseAttrTrailers() ([]ast.GetAttrKey, ast.Range, error) {
	var trailers []ast.GetAttrKey
	last := p.peekN(-1).Range()
	for p.at(token.DOT) {
		dotTok := p.advance()
		nameTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, ast.Range{}, err
		}
		key := ast.GetAttrKey{Name: *ast.NewIdentifier(nameTok.Range(), nameTok.Text)}
		key.Rng = spanRange(dotTok.Range(), nameTok.Range())
		trailers = append(trailers, key)
		last = nameTok.Range()
	}
	return trailers, last, nil
}

// parseSplatTrailers parses the zero-or-more ".name"/"[expr]" trailers
// that may follow an index splat's "on[*]".
func (p *Parser) parseSplatTrailers(afterStar ast.Range) ([]ast.SplatKey, ast.Range, error) {
	var trailers []ast.SplatKey
	last := afterStar
	for {
		switch {
		case p.at(token.DOT):
			dotTok := p.advance()
			nameTok, err := p.expect(token.IDENT)
			if err != nil {
				return nil, ast.Range{}, err
			}
			key := ast.GetAttrKey{Name: *ast.NewIdentifier(nameTok.Range(), nameTok.Text)}
			key.Rng = spanRange(dotTok.Range(), nameTok.Range())
			trailers = append(trailers, key)
			last = nameTok.Range()
		case p.at(token.LBRACK):
			openTok := p.advance()
			idx, err := p.parseExpr()
			if err != nil {
				return nil, ast.Range{}, err
			}
			closeTok, err := p.expect(token.RBRACK)
			if err != nil {
				return nil, ast.Range{}, err
			}
			key := ast.GetIndexKey{Index: idx}
			key.Rng = spanRange(openTok.Range(), closeTok.Range())
			trailers = append(trailers, key)
			last = closeTok.Range()
		default:
			return trailers, last, nil
		}
	}
}

// parsePrimary parses one atom: a literal, identifier, function call,
// parenthesized expression, array/for-tuple, or object/for-object.
// Postfix chaining (parsePostfix) is applied by the caller.
func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.NUMBER:
		p.advance()
		return p.numberLiteral(tok)
	case token.STRING:
		p.advance()
		return p.parseStringLiteral(tok)
	case token.HEREDOC, token.HEREDOCTRIM:
		p.advance()
		return p.parseHeredoc(tok)
	case token.TRUE:
		p.advance()
		return ast.NewLiteral(tok.Range(), value.Bool(true)), nil
	case token.FALSE:
		p.advance()
		return ast.NewLiteral(tok.Range(), value.Bool(false)), nil
	case token.NULL:
		p.advance()
		return ast.NewLiteral(tok.Range(), value.Null{}), nil
	case token.IDENT:
		p.advance()
		if p.at(token.LPAREN) {
			return p.parseFunctionCall(tok)
		}
		return ast.NewIdentifier(tok.Range(), tok.Text), nil
	case token.LPAREN:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		closeTok, err := p.expect(token.RPAREN)
		if err != nil {
			return nil, err
		}
		paren := &ast.Parenthesis{Inner: inner}
		paren.Rng = spanRange(tok.Range(), closeTok.Range())
		return paren, nil
	case token.LBRACK:
		p.advance()
		return p.parseArrayOrForTuple(tok)
	case token.LBRACE:
		p.advance()
		return p.parseObjectOrForObject(tok)
	default:
		return nil, p.errorf(tok, "unexpected %s in expression", tok.Kind)
	}
}

func (p *Parser) numberLiteral(tok token.Token) (ast.Expr, error) {
	text := tok.Text
	if strings.ContainsAny(text, ".eE") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.errorf(tok, "invalid number literal %q: %s", text, err)
		}
		return ast.NewLiteral(tok.Range(), value.Float(f)), nil
	}
	n := new(big.Int)
	if _, ok := n.SetString(text, 10); !ok {
		return nil, p.errorf(tok, "invalid integer literal %q", text)
	}
	return ast.NewLiteral(tok.Range(), value.NewBigInt(n)), nil
}

// parseFunctionCall parses "name(args...)" given that nameTok has
// already been consumed and the next token is "(".
func (p *Parser) parseFunctionCall(nameTok token.Token) (ast.Expr, error) {
	p.advance() // "("
	p.skipNewlines()
	var args []ast.Expr
	varArgs := false
	for !p.at(token.RPAREN) {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.skipNewlines()
		if p.at(token.ELLIPSIS) {
			p.advance()
			varArgs = true
			p.skipNewlines()
			break
		}
		if p.at(token.RPAREN) {
			break
		}
		if _, err := p.expect(token.COMMA); err != nil {
			return nil, err
		}
		p.skipNewlines()
	}
	closeTok, err := p.expect(token.RPAREN)
	if err != nil {
		return nil, err
	}
	call := &ast.FunctionCall{Name: nameTok.Text, NameRange: nameTok.Range(), Args: args, VarArgs: varArgs}
	call.Rng = spanRange(nameTok.Range(), closeTok.Range())
	return call, nil
}

// atKeyword reports whether the current token is an identifier
// spelled exactly kw — used for the contextual "for"/"in"/"if"
// keywords, which are not reserved words anywhere else in the grammar.
func (p *Parser) atKeyword(kw string) bool {
	return p.at(token.IDENT) && p.peek().Text == kw
}

func (p *Parser) expectKeyword(kw string) (token.Token, error) {
	if p.atKeyword(kw) {
		return p.advance(), nil
	}
	got := p.peek()
	return token.Token{}, p.errorf(got, "expected %q, got %s", kw, got.Kind)
}

// parseForVars parses the "v" or "k, v" variable-binding prefix shared
// by for-tuple and for-object expressions.
func (p *Parser) parseForVars() (*ast.Identifier, ast.Identifier, error) {
	first, err := p.expect(token.IDENT)
	if err != nil {
		return nil, ast.Identifier{}, err
	}
	firstID := ast.NewIdentifier(first.Range(), first.Text)
	if _, ok := p.accept(token.COMMA); ok {
		second, err := p.expect(token.IDENT)
		if err != nil {
			return nil, ast.Identifier{}, err
		}
		return firstID, *ast.NewIdentifier(second.Range(), second.Text), nil
	}
	return nil, *firstID, nil
}

// parseArrayOrForTuple parses "[items...]" or "[for k, v in c : value if
// cond]", given that the opening "[" has already been consumed.
func (p *Parser) parseArrayOrForTuple(openTok token.Token) (ast.Expr, error) {
	p.skipNewlines()
	if p.atKeyword("for") {
		return p.parseForTuple(openTok)
	}
	var items []ast.Expr
	for !p.at(token.RBRACK) {
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		more, err := p.skipItemSeparator(token.RBRACK)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	closeTok, err := p.expect(token.RBRACK)
	if err != nil {
		return nil, err
	}
	arr := &ast.ArrayExpr{Items: items}
	arr.Rng = spanRange(openTok.Range(), closeTok.Range())
	return arr, nil
}

func (p *Parser) parseForTuple(openTok token.Token) (ast.Expr, error) {
	p.advance() // "for"
	keyVar, valueVar, err := p.parseForVars()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("in"); err != nil {
		return nil, err
	}
	collection, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var cond ast.Expr
	if p.atKeyword("if") {
		p.advance()
		cond, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	p.skipNewlines()
	closeTok, err := p.expect(token.RBRACK)
	if err != nil {
		return nil, err
	}
	ft := &ast.ForTupleExpr{KeyVar: keyVar, ValueVar: valueVar, Collection: collection, Value: val, Cond: cond}
	ft.Rng = spanRange(openTok.Range(), closeTok.Range())
	return ft, nil
}

// parseObjectOrForObject parses "{items...}" or "{for k, v in c : key
// => value ... if cond}", given that the opening "{" has already been
// consumed.
func (p *Parser) parseObjectOrForObject(openTok token.Token) (ast.Expr, error) {
	p.skipNewlines()
	if p.atKeyword("for") {
		return p.parseForObject(openTok)
	}
	var items []ast.ObjectItem
	for !p.at(token.RBRACE) {
		item, err := p.parseObjectItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		more, err := p.skipItemSeparator(token.RBRACE)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	closeTok, err := p.expect(token.RBRACE)
	if err != nil {
		return nil, err
	}
	obj := &ast.ObjectExpr{Items: items}
	obj.Rng = spanRange(openTok.Range(), closeTok.Range())
	return obj, nil
}

func (p *Parser) parseObjectItem() (ast.ObjectItem, error) {
	key, err := p.parseObjectKey()
	if err != nil {
		return ast.ObjectItem{}, err
	}
	if _, ok := p.accept(token.ASSIGN); !ok {
		if _, err := p.expect(token.COLON); err != nil {
			return ast.ObjectItem{}, err
		}
	}
	val, err := p.parseExpr()
	if err != nil {
		return ast.ObjectItem{}, err
	}
	return ast.ObjectItem{Key: key, Value: val}, nil
}

// parseObjectKey parses a bare identifier (lowered to a string
// literal), a quoted string, or a "(expr)" computed key.
func (p *Parser) parseObjectKey() (ast.Expr, error) {
	switch {
	case p.at(token.IDENT):
		tok := p.advance()
		id := ast.NewIdentifier(tok.Range(), tok.Text)
		return id.AsStringLiteral(), nil
	case p.at(token.STRING):
		tok := p.advance()
		return p.parseStringLiteral(tok)
	case p.at(token.LPAREN):
		openTok := p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		closeTok, err := p.expect(token.RPAREN)
		if err != nil {
			return nil, err
		}
		paren := &ast.Parenthesis{Inner: inner}
		paren.Rng = spanRange(openTok.Range(), closeTok.Range())
		return paren, nil
	default:
		got := p.peek()
		return nil, p.errorf(got, "expected object key, got %s", got.Kind)
	}
}

func (p *Parser) parseForObject(openTok token.Token) (ast.Expr, error) {
	p.advance() // "for"
	keyVar, valueVar, err := p.parseForVars()
	if err != nil {
		return nil, err
	}
	if _, err := p.expectKeyword("in"); err != nil {
		return nil, err
	}
	collection, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	key, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.ARROW); err != nil {
		return nil, err
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	group := false
	if p.at(token.ELLIPSIS) {
		p.advance()
		group = true
	}
	var cond ast.Expr
	if p.atKeyword("if") {
		p.advance()
		cond, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	p.skipNewlines()
	closeTok, err := p.expect(token.RBRACE)
	if err != nil {
		return nil, err
	}
	fo := &ast.ForObjectExpr{
		KeyVar:     keyVar,
		ValueVar:   valueVar,
		Collection: collection,
		Key:        key,
		Value:      val,
		Cond:       cond,
		Group:      group,
	}
	fo.Rng = spanRange(openTok.Range(), closeTok.Range())
	return fo, nil
}

// skipItemSeparator consumes the comma/newline run between two array
// or object items, reporting whether another item is expected.
func (p *Parser) skipItemSeparator(closing token.Kind) (bool, error) {
	if p.at(closing) {
		return false, nil
	}
	if !p.at(token.COMMA) && !p.at(token.NEWLINE) {
		got := p.peek()
		return false, p.errorf(got, "expected \",\" or newline, got %s", got.Kind)
	}
	for p.at(token.COMMA) || p.at(token.NEWLINE) {
		p.advance()
	}
	return !p.at(closing), nil
}
