package lexer

import (
	"testing"

	"github.com/risqcapital/hcl2go/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeBasics(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []token.Kind
	}{
		{
			name:  "attribute",
			input: "a = 1\n",
			want:  []token.Kind{token.IDENT, token.ASSIGN, token.NUMBER, token.NEWLINE, token.EOF},
		},
		{
			name:  "keywords",
			input: "true false null",
			want:  []token.Kind{token.TRUE, token.FALSE, token.NULL, token.EOF},
		},
		{
			name:  "two char operators",
			input: "== != <= >= => ...",
			want:  []token.Kind{token.EQ, token.NEQ, token.LE, token.GE, token.ARROW, token.ELLIPSIS, token.EOF},
		},
		{
			name:  "and or not",
			input: "&& || !",
			want:  []token.Kind{token.AND, token.OR, token.NOT, token.EOF},
		},
		{
			name:  "line comment skipped",
			input: "a # comment\nb",
			want:  []token.Kind{token.IDENT, token.NEWLINE, token.IDENT, token.EOF},
		},
		{
			name:  "slash slash comment skipped",
			input: "a // comment\nb",
			want:  []token.Kind{token.IDENT, token.NEWLINE, token.IDENT, token.EOF},
		},
		{
			name:  "block comment skipped, no newline produced",
			input: "a /* comment\nspanning lines */ b",
			want:  []token.Kind{token.IDENT, token.IDENT, token.EOF},
		},
		{
			name:  "identifier with double colon and dash",
			input: "foo::bar-baz",
			want:  []token.Kind{token.IDENT, token.EOF},
		},
		{
			name:  "number forms",
			input: "123 1.5 1e10 1.5e-3",
			want:  []token.Kind{token.NUMBER, token.NUMBER, token.NUMBER, token.NUMBER, token.EOF},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			toks, err := New("test.hcl", []byte(test.input)).Tokenize()
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			got := kinds(toks)
			if len(got) != len(test.want) {
				t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(test.want), test.want)
			}
			for i := range got {
				if got[i] != test.want[i] {
					t.Errorf("token %d: got %s, want %s", i, got[i], test.want[i])
				}
			}
		})
	}
}

func TestTokenizeString(t *testing.T) {
	toks, err := New("test.hcl", []byte(`"hello ${name}, you are ${1 + 2} years old"`)).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(toks) != 2 {
		t.Fatalf("got %d tokens, want 2 (STRING, EOF)", len(toks))
	}
	if toks[0].Kind != token.STRING {
		t.Fatalf("got kind %s, want STRING", toks[0].Kind)
	}
	want := `"hello ${name}, you are ${1 + 2} years old"`
	if toks[0].Text != want {
		t.Errorf("got text %q, want %q", toks[0].Text, want)
	}
}

func TestTokenizeStringWithNestedStringInInterpolation(t *testing.T) {
	src := `"outer ${foo("inner ${bar}")} end"`
	toks, err := New("test.hcl", []byte(src)).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if toks[0].Kind != token.STRING || toks[0].Text != src {
		t.Fatalf("got %v %q, want STRING %q", toks[0].Kind, toks[0].Text, src)
	}
}

func TestTokenizeUnterminatedStringErrors(t *testing.T) {
	_, err := New("test.hcl", []byte(`"unterminated`)).Tokenize()
	if err == nil {
		t.Fatal("expected an error for an unterminated string")
	}
}

func TestTokenizeHeredoc(t *testing.T) {
	src := "<<EOT\nline one\nline two\nEOT"
	toks, err := New("test.hcl", []byte(src)).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if toks[0].Kind != token.HEREDOC {
		t.Fatalf("got kind %s, want HEREDOC", toks[0].Kind)
	}
	if toks[0].Text != src {
		t.Errorf("got text %q, want %q", toks[0].Text, src)
	}
}

func TestTokenizeHeredocTrim(t *testing.T) {
	src := "<<-EOT\n  line one\n  EOT"
	toks, err := New("test.hcl", []byte(src)).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if toks[0].Kind != token.HEREDOCTRIM {
		t.Fatalf("got kind %s, want HEREDOCTRIM", toks[0].Kind)
	}
}

func TestTokenizeUnterminatedHeredocErrors(t *testing.T) {
	_, err := New("test.hcl", []byte("<<EOT\nabc\n")).Tokenize()
	if err == nil {
		t.Fatal("expected an error for an unterminated heredoc")
	}
}

func TestTokenizeIllegalCharacter(t *testing.T) {
	_, err := New("test.hcl", []byte("a ~ b")).Tokenize()
	if err == nil {
		t.Fatal("expected an error for an illegal character")
	}
}

func TestPositionsAdvanceAcrossLines(t *testing.T) {
	toks, err := New("test.hcl", []byte("a\nbb")).Tokenize()
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	// toks: IDENT(a) NEWLINE IDENT(bb) EOF
	id2 := toks[2]
	if id2.Rng.Start.Line != 2 || id2.Rng.Start.Column != 1 {
		t.Errorf("got start %+v, want line 2 column 1", id2.Rng.Start)
	}
}
