// Package lexer implements the HCL2 scanner described in spec.md §4.1:
// a single left-to-right pass over source bytes producing a flat token
// stream, with newlines preserved as significant NEWLINE tokens and
// comments discarded. Column tracking advances by extended grapheme
// cluster (via apparentlymart/go-textseg, a teacher-adjacent dependency)
// rather than by byte or rune, matching how hclsyntax's own scanner
// counts columns for diagnostics.
package lexer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/apparentlymart/go-textseg/v15/textseg"

	"github.com/risqcapital/hcl2go/ast"
	"github.com/risqcapital/hcl2go/token"
)

// Scanner tokenizes one source file. It is single-use and not safe for
// concurrent calls, like every other core type in this module (spec.md
// §5).
type Scanner struct {
	filename string
	src      []byte
	pos      int // byte offset into src
	cur      ast.Pos
}

// New constructs a Scanner over src, attributing positions to filename.
func New(filename string, src []byte) *Scanner {
	return &Scanner{
		filename: filename,
		src:      src,
		cur:      ast.Pos{Line: 1, Column: 1, Byte: 0},
	}
}

// NewAt constructs a Scanner over src whose positions are attributed
// starting at start rather than the beginning of the file. Package
// parser uses this to re-lex the interpolated-expression text embedded
// inside a string or heredoc token without losing the outer file's
// line/column bookkeeping.
func NewAt(filename string, src []byte, start ast.Pos) *Scanner {
	return &Scanner{
		filename: filename,
		src:      src,
		cur:      start,
	}
}

// AdvancePos computes the position reached after consuming text
// starting at pos, advancing lines on '\n' and columns by extended
// grapheme cluster otherwise. Exported so package parser can keep its
// own byte-oriented template/heredoc scanning in sync with the
// lexer's position bookkeeping.
func AdvancePos(pos ast.Pos, text []byte) ast.Pos {
	return advancePos(pos, text)
}

// Tokenize scans the entire source and returns every token, including a
// trailing EOF. It returns the first lexical error encountered, if any
// — per spec.md §4.1/§7, lexing (like parsing) does not recover.
func (s *Scanner) Tokenize() ([]token.Token, error) {
	var out []token.Token
	for {
		tok, err := s.next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out, nil
		}
	}
}

func (s *Scanner) byteAt(offset int) byte {
	i := s.pos + offset
	if i < 0 || i >= len(s.src) {
		return 0
	}
	return s.src[i]
}

// advance consumes n raw bytes, updating line/column bookkeeping.
func (s *Scanner) advance(n int) {
	if n <= 0 {
		return
	}
	if s.pos+n > len(s.src) {
		n = len(s.src) - s.pos
	}
	chunk := s.src[s.pos : s.pos+n]
	s.cur = advancePos(s.cur, chunk)
	s.pos += n
}

// advanceRune consumes exactly one UTF-8 rune.
func (s *Scanner) advanceRune() {
	if s.pos >= len(s.src) {
		return
	}
	_, size := utf8.DecodeRune(s.src[s.pos:])
	if size <= 0 {
		size = 1
	}
	s.advance(size)
}

// advancePos applies the byte sequence text to pos, advancing lines on
// '\n' and columns by grapheme cluster count otherwise.
func advancePos(pos ast.Pos, text []byte) ast.Pos {
	for len(text) > 0 {
		nl := indexByte(text, '\n')
		if nl < 0 {
			n, _ := textseg.TokenCount(text, textseg.ScanGraphemeClusters)
			pos.Column += n
			pos.Byte += len(text)
			return pos
		}
		segment := text[:nl+1]
		pos.Byte += len(segment)
		pos.Line++
		pos.Column = 1
		text = text[nl+1:]
	}
	return pos
}

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}

func (s *Scanner) eof() bool { return s.pos >= len(s.src) }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '-'
}

// next scans and returns a single token.
func (s *Scanner) next() (token.Token, error) {
	s.skipInsignificant()

	start := s.cur
	if s.eof() {
		return s.tok(token.EOF, "", start), nil
	}

	c := s.byteAt(0)

	switch {
	case c == '\n':
		s.advance(1)
		return s.tok(token.NEWLINE, "\n", start), nil
	case c == '"':
		return s.scanString(start)
	case c == '<' && s.byteAt(1) == '<':
		return s.scanHeredoc(start)
	case isDigit(c):
		return s.scanNumber(start)
	case isIdentStart(c):
		return s.scanIdent(start)
	default:
		return s.scanOperator(start, c)
	}
}

// skipInsignificant consumes spaces, tabs, carriage returns, and
// comments (# and // line comments, /* */ block comments). Newlines
// are significant and are not skipped here.
func (s *Scanner) skipInsignificant() {
	for !s.eof() {
		c := s.byteAt(0)
		switch {
		case c == ' ' || c == '\t' || c == '\r':
			s.advance(1)
		case c == '#':
			s.skipLineComment()
		case c == '/' && s.byteAt(1) == '/':
			s.skipLineComment()
		case c == '/' && s.byteAt(1) == '*':
			s.skipBlockComment()
		default:
			return
		}
	}
}

func (s *Scanner) skipLineComment() {
	for !s.eof() && s.byteAt(0) != '\n' {
		s.advance(1)
	}
}

func (s *Scanner) skipBlockComment() {
	s.advance(2) // "/*"
	for !s.eof() {
		if s.byteAt(0) == '*' && s.byteAt(1) == '/' {
			s.advance(2)
			return
		}
		s.advance(1)
	}
}

func (s *Scanner) tok(kind token.Kind, text string, start ast.Pos) token.Token {
	return token.Token{
		Kind: kind,
		Text: text,
		Rng: ast.Range{
			Filename: s.filename,
			Start:    start,
			End:      s.cur,
		},
	}
}

func (s *Scanner) scanIdent(start ast.Pos) (token.Token, error) {
	from := s.pos
	for !s.eof() {
		c := s.byteAt(0)
		if isIdentPart(c) {
			s.advance(1)
			continue
		}
		if c == ':' && s.byteAt(1) == ':' {
			s.advance(2)
			continue
		}
		break
	}
	text := string(s.src[from:s.pos])
	switch text {
	case "true":
		return s.tok(token.TRUE, text, start), nil
	case "false":
		return s.tok(token.FALSE, text, start), nil
	case "null":
		return s.tok(token.NULL, text, start), nil
	default:
		return s.tok(token.IDENT, text, start), nil
	}
}

func (s *Scanner) scanNumber(start ast.Pos) (token.Token, error) {
	from := s.pos
	for !s.eof() && isDigit(s.byteAt(0)) {
		s.advance(1)
	}
	if s.byteAt(0) == '.' && isDigit(s.byteAt(1)) {
		s.advance(1)
		for !s.eof() && isDigit(s.byteAt(0)) {
			s.advance(1)
		}
	}
	if c := s.byteAt(0); c == 'e' || c == 'E' {
		save := s.pos
		saveCur := s.cur
		s.advance(1)
		if c := s.byteAt(0); c == '+' || c == '-' {
			s.advance(1)
		}
		if isDigit(s.byteAt(0)) {
			for !s.eof() && isDigit(s.byteAt(0)) {
				s.advance(1)
			}
		} else {
			// Not actually an exponent; back out.
			s.pos = save
			s.cur = saveCur
		}
	}
	text := string(s.src[from:s.pos])
	return s.tok(token.NUMBER, text, start), nil
}

// scanString scans a full "..." string literal, including any nested
// "${...}" interpolations (which may themselves contain nested string
// literals, which may themselves contain further interpolations). The
// returned token's Text is the literal exactly as written, including
// the surrounding quotes; package parser is responsible for splitting
// it into static/interpolated parts (spec.md §4.2).
func (s *Scanner) scanString(start ast.Pos) (token.Token, error) {
	from := s.pos
	s.advance(1) // opening quote

	var interpDepth []int // brace nesting depth within each active "${" level
	inString := true

	for {
		if s.eof() {
			return token.Token{}, fmt.Errorf("%s: unterminated string literal", s.tok(token.STRING, "", start).Range())
		}
		c := s.byteAt(0)
		if inString {
			switch {
			case c == '\\':
				s.advance(2)
			case c == '"':
				s.advance(1)
				if len(interpDepth) == 0 {
					text := string(s.src[from:s.pos])
					return s.tok(token.STRING, text, start), nil
				}
				inString = false
			case c == '$' && s.byteAt(1) == '{':
				s.advance(2)
				interpDepth = append(interpDepth, 0)
				inString = false
			default:
				s.advanceRune()
			}
			continue
		}

		// Inside an interpolated expression's text.
		switch {
		case c == '"':
			s.advance(1)
			inString = true
		case c == '{':
			interpDepth[len(interpDepth)-1]++
			s.advance(1)
		case c == '}':
			top := len(interpDepth) - 1
			if interpDepth[top] == 0 {
				interpDepth = interpDepth[:top]
				s.advance(1)
				inString = true
			} else {
				interpDepth[top]--
				s.advance(1)
			}
		default:
			s.advanceRune()
		}
	}
}

// scanHeredoc scans "<<TAG\n...\nTAG" or "<<-TAG\n...\nTAG" verbatim,
// including the introducer and terminator lines. The parser extracts
// and (for the "-" form) trims the body from the raw text.
func (s *Scanner) scanHeredoc(start ast.Pos) (token.Token, error) {
	from := s.pos
	s.advance(2) // "<<"
	trim := false
	if s.byteAt(0) == '-' {
		trim = true
		s.advance(1)
	}

	tagFrom := s.pos
	for !s.eof() && isIdentPart(s.byteAt(0)) {
		s.advance(1)
	}
	tag := string(s.src[tagFrom:s.pos])
	if tag == "" {
		return token.Token{}, fmt.Errorf("%s: expected heredoc marker after \"<<\"", s.tok(token.ILLEGAL, "", start).Range())
	}

	// Consume to end of introducer line.
	for !s.eof() && s.byteAt(0) != '\n' {
		s.advance(1)
	}
	if s.eof() {
		return token.Token{}, fmt.Errorf("%s: unterminated heredoc %q", s.tok(token.ILLEGAL, "", start).Range(), tag)
	}
	s.advance(1) // the newline ending the introducer line

	for {
		lineStart := s.pos
		for !s.eof() && s.byteAt(0) != '\n' {
			s.advance(1)
		}
		line := string(s.src[lineStart:s.pos])
		if strings.TrimSpace(line) == tag {
			kind := token.HEREDOC
			if trim {
				kind = token.HEREDOCTRIM
			}
			text := string(s.src[from:s.pos])
			return s.tok(kind, text, start), nil
		}
		if s.eof() {
			return token.Token{}, fmt.Errorf("%s: unterminated heredoc %q", s.tok(token.ILLEGAL, "", start).Range(), tag)
		}
		s.advance(1) // newline ending this body line
	}
}

func (s *Scanner) scanOperator(start ast.Pos, c byte) (token.Token, error) {
	two := func(next byte, kind token.Kind) (token.Token, error, bool) {
		if s.byteAt(1) == next {
			text := string(s.src[s.pos : s.pos+2])
			s.advance(2)
			return s.tok(kind, text, start), nil, true
		}
		return token.Token{}, nil, false
	}

	switch c {
	case '{':
		s.advance(1)
		return s.tok(token.LBRACE, "{", start), nil
	case '}':
		s.advance(1)
		return s.tok(token.RBRACE, "}", start), nil
	case '[':
		s.advance(1)
		return s.tok(token.LBRACK, "[", start), nil
	case ']':
		s.advance(1)
		return s.tok(token.RBRACK, "]", start), nil
	case '(':
		s.advance(1)
		return s.tok(token.LPAREN, "(", start), nil
	case ')':
		s.advance(1)
		return s.tok(token.RPAREN, ")", start), nil
	case ',':
		s.advance(1)
		return s.tok(token.COMMA, ",", start), nil
	case ':':
		s.advance(1)
		return s.tok(token.COLON, ":", start), nil
	case '?':
		s.advance(1)
		return s.tok(token.QUESTION, "?", start), nil
	case '*':
		s.advance(1)
		return s.tok(token.STAR, "*", start), nil
	case '%':
		s.advance(1)
		return s.tok(token.PERCENT, "%", start), nil
	case '+':
		s.advance(1)
		return s.tok(token.PLUS, "+", start), nil
	case '.':
		if s.byteAt(1) == '.' && s.byteAt(2) == '.' {
			s.advance(3)
			return s.tok(token.ELLIPSIS, "...", start), nil
		}
		s.advance(1)
		return s.tok(token.DOT, ".", start), nil
	case '=':
		if tok, err, ok := two('=', token.EQ); ok {
			return tok, err
		}
		if tok, err, ok := two('>', token.ARROW); ok {
			return tok, err
		}
		s.advance(1)
		return s.tok(token.ASSIGN, "=", start), nil
	case '!':
		if tok, err, ok := two('=', token.NEQ); ok {
			return tok, err
		}
		s.advance(1)
		return s.tok(token.NOT, "!", start), nil
	case '<':
		if tok, err, ok := two('=', token.LE); ok {
			return tok, err
		}
		s.advance(1)
		return s.tok(token.LT, "<", start), nil
	case '>':
		if tok, err, ok := two('=', token.GE); ok {
			return tok, err
		}
		s.advance(1)
		return s.tok(token.GT, ">", start), nil
	case '-':
		s.advance(1)
		return s.tok(token.MINUS, "-", start), nil
	case '/':
		s.advance(1)
		return s.tok(token.SLASH, "/", start), nil
	case '&':
		if tok, err, ok := two('&', token.AND); ok {
			return tok, err
		}
	case '|':
		if tok, err, ok := two('|', token.OR); ok {
			return tok, err
		}
	}

	s.advance(1)
	return token.Token{}, fmt.Errorf("%s: unexpected character %q", s.tok(token.ILLEGAL, string(c), start).Range(), c)
}
