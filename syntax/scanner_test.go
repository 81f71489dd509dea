package syntax

import (
	"strings"
	"testing"

	"github.com/truescotian/jlox/diag"
	"github.com/truescotian/jlox/token"
)

func scan(t *testing.T, src string) []token.Token {
	t.Helper()
	sink := diag.NewSink()
	toks := NewScanner(src, sink).ScanTokens()
	if sink.HadError() {
		t.Fatalf("scan(%q): unexpected diagnostics: %v", src, sink.Errors())
	}
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, tok := range toks {
		ks[i] = tok.Kind
	}
	return ks
}

func TestScannerPunctuators(t *testing.T) {
	toks := scan(t, "(){};,.-+*!= == <= >= != < >")
	got := kinds(toks)
	want := []token.Kind{
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.SEMICOLON, token.COMMA, token.DOT, token.MINUS, token.PLUS, token.STAR,
		token.BANG_EQUAL, token.EQUAL_EQUAL, token.LESS_EQUAL, token.GREATER_EQUAL,
		token.BANG_EQUAL, token.LESS, token.GREATER, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScannerKeywordsVsIdentifiers(t *testing.T) {
	toks := scan(t, "class classroom")
	if toks[0].Kind != token.CLASS {
		t.Errorf("toks[0].Kind = %s, want CLASS", toks[0].Kind)
	}
	if toks[1].Kind != token.IDENTIFIER {
		t.Errorf("toks[1].Kind = %s, want IDENTIFIER", toks[1].Kind)
	}
}

func TestScannerNumber(t *testing.T) {
	toks := scan(t, "3.14")
	if toks[0].Kind != token.NUMBER {
		t.Fatalf("Kind = %s, want NUMBER", toks[0].Kind)
	}
	if toks[0].Literal.(float64) != 3.14 {
		t.Errorf("Literal = %v, want 3.14", toks[0].Literal)
	}
}

func TestScannerString(t *testing.T) {
	toks := scan(t, `"hello, world"`)
	if toks[0].Kind != token.STRING {
		t.Fatalf("Kind = %s, want STRING", toks[0].Kind)
	}
	if toks[0].Literal.(string) != "hello, world" {
		t.Errorf("Literal = %q, want %q", toks[0].Literal, "hello, world")
	}
}

func TestScannerUnterminatedString(t *testing.T) {
	sink := diag.NewSink()
	NewScanner(`"oops`, sink).ScanTokens()
	if !sink.HadError() {
		t.Fatal("expected a diagnostic for an unterminated string")
	}
	if !strings.Contains(sink.Errors()[0].Message, "Unterminated string") {
		t.Errorf("Message = %q", sink.Errors()[0].Message)
	}
}

func TestScannerBlockCommentNesting(t *testing.T) {
	toks := scan(t, "1 /* outer /* inner */ still outer */ 2")
	if len(toks) != 3 { // 1, 2, EOF
		t.Fatalf("got %d tokens, want 3: %v", len(toks), toks)
	}
}

func TestScannerUnterminatedBlockComment(t *testing.T) {
	sink := diag.NewSink()
	NewScanner("1 /* never closes", sink).ScanTokens()
	if !sink.HadError() {
		t.Fatal("expected a diagnostic for an unterminated block comment")
	}
}

func TestScannerLineComment(t *testing.T) {
	toks := scan(t, "1 // ignored\n2")
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3: %v", len(toks), toks)
	}
	if toks[1].Line != 2 {
		t.Errorf("second number's Line = %d, want 2", toks[1].Line)
	}
}
