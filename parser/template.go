package parser

import (
	"strconv"
	"strings"

	"github.com/risqcapital/hcl2go/ast"
	"github.com/risqcapital/hcl2go/lexer"
	"github.com/risqcapital/hcl2go/token"
	"github.com/risqcapital/hcl2go/value"
)

// parseStringLiteral turns a raw STRING token (quotes included, escapes
// and interpolations unprocessed) into either a *ast.Literal — when the
// literal contains no "${...}" interpolation — or an *ast.TemplateExpr
// alternating literal and interpolated parts, per spec.md §4.2.
func (p *Parser) parseStringLiteral(tok token.Token) (ast.Expr, error) {
	inner := tok.Text[1 : len(tok.Text)-1]
	innerStart := lexer.AdvancePos(tok.Range().Start, []byte(tok.Text[:1]))
	return p.buildTemplate(tok.Range().Filename, inner, innerStart, tok.Range(), true)
}

// parseHeredoc turns a raw HEREDOC/HEREDOCTRIM token into a template
// expression over its body, after stripping the introducer/terminator
// lines and, for the "<<-" form, the shared leading indentation (spec.md
// §4.1/§9).
func (p *Parser) parseHeredoc(tok token.Token) (ast.Expr, error) {
	trim := tok.Kind == token.HEREDOCTRIM
	text := tok.Text

	nl := strings.IndexByte(text, '\n')
	if nl < 0 {
		return nil, p.errorf(tok, "malformed heredoc token")
	}
	bodyStart := nl + 1
	introducer := text[:bodyStart]

	// The terminator is the final line of text; body is everything
	// between the introducer and it.
	bodyAndTerm := text[bodyStart:]
	lastNL := strings.LastIndexByte(bodyAndTerm, '\n')
	var body string
	if lastNL < 0 {
		body = ""
	} else {
		body = bodyAndTerm[:lastNL+1]
	}

	bodyStartPos := lexer.AdvancePos(tok.Range().Start, []byte(introducer))

	if trim {
		body = trimHeredocIndent(body)
	}

	return p.buildTemplate(tok.Range().Filename, body, bodyStartPos, tok.Range(), false)
}

// trimHeredocIndent strips the shortest common leading-whitespace run
// found across the heredoc's non-blank lines from every line (spec.md
// §9's refinement: blank lines do not constrain the minimum).
func trimHeredocIndent(body string) string {
	lines := strings.Split(body, "\n")
	minIndent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		if minIndent == -1 || indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent <= 0 {
		return body
	}
	for i, line := range lines {
		if len(line) >= minIndent {
			lines[i] = line[minIndent:]
		} else {
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}

// buildTemplate splits content (already stripped of surrounding quotes
// or heredoc delimiters) into literal runs and "${...}" interpolations,
// decoding backslash escapes in literal runs when decodeEscapes is set
// (heredoc bodies do not support backslash escapes). contentStart is
// content's absolute position in the source file, used to keep nested
// expressions' diagnostics pointing at the right place.
func (p *Parser) buildTemplate(filename, content string, contentStart ast.Pos, wholeRange ast.Range, decodeEscapes bool) (ast.Expr, error) {
	var parts []ast.Expr
	var lit strings.Builder
	litStart := contentStart
	pos := contentStart
	i := 0
	data := []byte(content)

	flushLiteral := func(endPos ast.Pos) {
		if lit.Len() == 0 {
			return
		}
		s := lit.String()
		if decodeEscapes {
			s = decodeStringEscapes(s)
		}
		parts = append(parts, ast.NewLiteral(ast.Range{Filename: filename, Start: litStart, End: endPos}, value.String(s)))
		lit.Reset()
	}

	for i < len(data) {
		// "$${" / "%%{" are the literal-escape doublings for template
		// control sequences; treat a doubled "$$" before "{" as a
		// literal "$".
		if data[i] == '$' && i+1 < len(data) && data[i+1] == '$' && i+2 < len(data) && data[i+2] == '{' {
			lit.WriteByte('$')
			adv := data[i : i+2]
			i += 2
			pos = lexer.AdvancePos(pos, adv)
			continue
		}
		if data[i] == '$' && i+1 < len(data) && data[i+1] == '{' {
			flushLiteral(pos)
			exprStart := lexer.AdvancePos(pos, data[i:i+2])
			innerFrom := i + 2
			depth := 0
			j := innerFrom
			inStr := false
			for j < len(data) {
				c := data[j]
				if inStr {
					if c == '\\' {
						j += 2
						continue
					}
					if c == '"' {
						inStr = false
					}
					j++
					continue
				}
				switch c {
				case '"':
					inStr = true
					j++
				case '{':
					depth++
					j++
				case '}':
					if depth == 0 {
						goto foundEnd
					}
					depth--
					j++
				default:
					j++
				}
			}
		foundEnd:
			if j >= len(data) {
				return nil, p.errorf(token.Token{Rng: wholeRange}, "unterminated interpolation in string/heredoc literal")
			}
			innerText := content[innerFrom:j]
			innerToks, err := lexer.NewAt(filename, []byte(innerText), exprStart).Tokenize()
			if err != nil {
				return nil, toDiag(err)
			}
			innerExpr, err := parseExprTokens(filename, innerToks)
			if err != nil {
				return nil, err
			}
			parts = append(parts, innerExpr)
			consumed := data[i : j+1]
			pos = lexer.AdvancePos(pos, consumed)
			i = j + 1
			litStart = pos
			continue
		}

		// Advance by one byte (escape decoding happens later, over the
		// accumulated literal run, so we don't need rune-accurate
		// stepping here beyond what AdvancePos already provides).
		lit.WriteByte(data[i])
		pos = lexer.AdvancePos(pos, data[i:i+1])
		i++
	}
	flushLiteral(pos)

	switch len(parts) {
	case 0:
		return ast.NewLiteral(wholeRange, value.String("")), nil
	case 1:
		if litOnly, ok := parts[0].(*ast.Literal); ok {
			litOnly.Rng = wholeRange
			return litOnly, nil
		}
		t := &ast.TemplateExpr{Parts: parts}
		t.Rng = wholeRange
		return t, nil
	default:
		t := &ast.TemplateExpr{Parts: parts}
		t.Rng = wholeRange
		return t, nil
	}
}

// decodeStringEscapes processes the backslash escapes HCL2 string
// literals support: \n \r \t \" \\ \$ and \uXXXX/\UXXXXXXXX Unicode
// code points.
func decodeStringEscapes(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var out strings.Builder
	data := []byte(s)
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c != '\\' || i+1 >= len(data) {
			out.WriteByte(c)
			continue
		}
		next := data[i+1]
		switch next {
		case 'n':
			out.WriteByte('\n')
			i++
		case 'r':
			out.WriteByte('\r')
			i++
		case 't':
			out.WriteByte('\t')
			i++
		case '"':
			out.WriteByte('"')
			i++
		case '\\':
			out.WriteByte('\\')
			i++
		case '$':
			out.WriteByte('$')
			i++
		case 'u':
			if i+6 <= len(data) {
				if r, err := strconv.ParseUint(string(data[i+2:i+6]), 16, 32); err == nil {
					out.WriteRune(rune(r))
					i += 5
					continue
				}
			}
			out.WriteByte(c)
		case 'U':
			if i+10 <= len(data) {
				if r, err := strconv.ParseUint(string(data[i+2:i+10]), 16, 32); err == nil {
					out.WriteRune(rune(r))
					i += 9
					continue
				}
			}
			out.WriteByte(c)
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}
