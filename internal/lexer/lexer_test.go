package lexer

import (
	"testing"

	"github.com/tsxscript/tsx/internal/token"
)

func TestNextToken_Operators(t *testing.T) {
	input := `== === != !== <= >= && || << <<= >> >>= >>> >>>= ++ -- += -= *= /= %= &= |= ^= ?. => ...`

	want := []token.Type{
		token.EQ, token.STRICT_EQ, token.NEQ, token.STRICT_NEQ,
		token.LE, token.GE, token.AND_AND, token.OR_OR,
		token.SHL, token.SHL_ASSIGN, token.SHR, token.SHR_ASSIGN,
		token.USHR, token.USHR_ASSIGN, token.INC, token.DEC,
		token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN,
		token.SLASH_ASSIGN, token.PERCENT_ASSIGN, token.AMP_ASSIGN,
		token.PIPE_ASSIGN, token.CARET_ASSIGN, token.QUESTION_DOT,
		token.ARROW, token.ELLIPSIS, token.EOF,
	}

	l := New(input)
	for i, wantType := range want {
		tok := l.NextToken()
		if tok.Type != wantType {
			t.Fatalf("token %d: got %s, want %s (literal %q)", i, tok.Type, wantType, tok.Literal)
		}
	}
}

func TestNextToken_KeywordsAndIdents(t *testing.T) {
	input := `let x = typeof y instanceof Foo`
	l := New(input)

	want := []struct {
		typ token.Type
		lit string
	}{
		{token.LET, "let"},
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.TYPEOF, "typeof"},
		{token.IDENT, "y"},
		{token.INSTANCEOF, "instanceof"},
		{token.IDENT, "Foo"},
		{token.EOF, ""},
	}
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w.typ {
			t.Fatalf("token %d: type = %s, want %s", i, tok.Type, w.typ)
		}
		if tok.Type != token.EOF && tok.Literal != w.lit {
			t.Fatalf("token %d: literal = %q, want %q", i, tok.Literal, w.lit)
		}
	}
}

func TestNextToken_Numbers(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"42", 42},
		{"3.14", 3.14},
		{"0", 0},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != token.NUMBER {
			t.Fatalf("input %q: type = %s, want NUMBER", tt.input, tok.Type)
		}
		if tok.NumberValue != tt.want {
			t.Errorf("input %q: value = %v, want %v", tt.input, tok.NumberValue, tt.want)
		}
	}
}

func TestNextToken_Strings(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"hello"`, "hello"},
		{`'world'`, "world"},
		{`'it\'s'`, "it's"},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != token.STRING {
			t.Fatalf("input %q: type = %s, want STRING", tt.input, tok.Type)
		}
		if tok.StringValue != tt.want {
			t.Errorf("input %q: value = %q, want %q", tt.input, tok.StringValue, tt.want)
		}
	}
}

func TestNextToken_UnterminatedString(t *testing.T) {
	l := New(`"abc`)
	tok := l.NextToken()
	if tok.Type != token.ERROR {
		t.Fatalf("type = %s, want ERROR", tok.Type)
	}
}

func TestNextToken_Comments(t *testing.T) {
	input := "// line comment\nlet /* block\ncomment */ x = 1;"
	l := New(input)
	var types []token.Type
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			break
		}
	}
	want := []token.Type{token.LET, token.IDENT, token.ASSIGN, token.NUMBER, token.SEMICOLON, token.EOF}
	if len(types) != len(want) {
		t.Fatalf("got %d tokens, want %d (%v)", len(types), len(want), types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("token %d: %s, want %s", i, types[i], want[i])
		}
	}
}

func TestNextToken_UnterminatedBlockComment(t *testing.T) {
	l := New("/* never closes")
	tok := l.NextToken()
	if tok.Type != token.EOF {
		t.Fatalf("expected scan to reach EOF inside unterminated comment, got %s", tok.Type)
	}
}

func TestNextToken_TemplateStringSkipsInterpolation(t *testing.T) {
	l := New("`hello ${1 + f({a: 1})} world`")
	tok := l.NextToken()
	if tok.Type != token.TEMPLATE_STRING {
		t.Fatalf("type = %s, want TEMPLATE_STRING", tok.Type)
	}
	if tok.StringValue != "hello ${1 + f({a: 1})} world" {
		t.Errorf("value = %q", tok.StringValue)
	}
	eof := l.NextToken()
	if eof.Type != token.EOF {
		t.Fatalf("expected EOF after template string, got %s", eof.Type)
	}
}

func TestTokenize_PositionTracking(t *testing.T) {
	l := New("let\nx")
	toks := l.Tokenize()
	if toks[0].Pos.Line != 1 {
		t.Errorf("'let' line = %d, want 1", toks[0].Pos.Line)
	}
	if toks[1].Pos.Line != 2 {
		t.Errorf("'x' line = %d, want 2", toks[1].Pos.Line)
	}
}

// Invariant 1 from spec.md §8: every token's lexeme is a substring of the
// source at the offsets recorded at emission, for simple ASCII tokens.
func TestTokenize_LexemeMatchesSource(t *testing.T) {
	input := "let total = 2 + 3;"
	l := New(input)
	for _, tok := range l.Tokenize() {
		if tok.Type == token.EOF || tok.Type == token.ERROR || tok.Literal == "" {
			continue
		}
		end := tok.Pos.Offset + len(tok.Literal)
		if end > len(input) {
			continue // string/template literals carry a decoded value, not the raw slice
		}
		if input[tok.Pos.Offset:end] != tok.Literal {
			if tok.Type == token.STRING || tok.Type == token.TEMPLATE_STRING {
				continue
			}
			t.Errorf("token %v: source slice %q != literal %q", tok, input[tok.Pos.Offset:end], tok.Literal)
		}
	}
}
