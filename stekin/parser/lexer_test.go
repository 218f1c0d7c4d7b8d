package parser

import (
	"testing"

	"github.com/dhamidi/stekin/diag"
	"github.com/dhamidi/stekin/stekin/ast"
)

func TestLexerNewLexer(t *testing.T) {
	lexer := NewLexer([]byte("x: 1"), "test.stkn", nil)
	pos := lexer.Position()

	if pos.File != "test.stkn" {
		t.Errorf("File = %q, want %q", pos.File, "test.stkn")
	}
	if pos.Line != 1 {
		t.Errorf("Line = %d, want %d", pos.Line, 1)
	}
	if pos.Column != 1 {
		t.Errorf("Column = %d, want %d", pos.Column, 1)
	}
}

func TestLexerTokenKinds(t *testing.T) {
	tests := []struct {
		input    string
		expected []TokenKind
	}{
		{"x", []TokenKind{TokenFactor}},
		{"12 1.5 'a' \"b\" true", []TokenKind{TokenFactor, TokenFactor, TokenFactor, TokenFactor, TokenFactor}},
		{"$ $i $k", []TokenKind{TokenFactor, TokenFactor, TokenFactor}},
		{"+ - * / % < <= > >= = != && || ! . |: |? typeof", []TokenKind{
			TokenOperator, TokenOperator, TokenOperator, TokenOperator, TokenOperator,
			TokenOperator, TokenOperator, TokenOperator, TokenOperator, TokenOperator,
			TokenOperator, TokenOperator, TokenOperator, TokenOperator, TokenOperator,
			TokenOperator, TokenOperator, TokenOperator,
		}},
		{"( [ { ) ] }", []TokenKind{TokenOpenParen, TokenOpenBracket, TokenOpenBrace, TokenCloser, TokenCloser, TokenCloser}},
		{"a: b:: c, d", []TokenKind{TokenFactor, TokenColon, TokenFactor, TokenPropertySeparator, TokenFactor, TokenComma, TokenFactor}},
		{"if ifnot else func return class try catch extern export", []TokenKind{
			TokenKeyword, TokenKeyword, TokenKeyword, TokenKeyword, TokenKeyword,
			TokenKeyword, TokenKeyword, TokenKeyword, TokenKeyword, TokenKeyword,
		}},
		{"x # trailing comment", []TokenKind{TokenFactor}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lexer := NewLexer([]byte(tt.input), "test.stkn", nil)
			line, ok := lexer.NextLine()
			if !ok {
				t.Fatal("NextLine returned no line")
			}
			if len(line.Tokens) != len(tt.expected) {
				t.Fatalf("got %d tokens, want %d: %v", len(line.Tokens), len(tt.expected), line.Tokens)
			}
			for i, tok := range line.Tokens {
				if tok.Kind != tt.expected[i] {
					t.Errorf("token %d: got %v, want %v", i, tok.Kind, tt.expected[i])
				}
			}
		})
	}
}

func TestLexerFactors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"42", "Int(42)"},
		{"3.25", "Float(3.25)"},
		{`"a\nb"`, `String("a\nb")`},
		{`'it\'s'`, `String("it's")`},
		{`"a\\b"`, `String("a\\b")`},
		{`"\r"`, `String("\\r")`},
		{"true", "Bool(true)"},
		{"false", "Bool(false)"},
		{"name_2", "Ref(name_2)"},
		{"$", "$"},
		{"$i", "$i"},
		{"$k", "$k"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, _ := TokenizeLine(tt.input, Position{Line: 1, Column: 1}, nil)
			if len(tokens) != 1 {
				t.Fatalf("got %d tokens, want 1", len(tokens))
			}
			if got := tokens[0].Factor.String(); got != tt.want {
				t.Errorf("factor = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLexerLines(t *testing.T) {
	src := "a\n\n    # only a comment\n    b: 1\nc\n"
	lexer := NewLexer([]byte(src), "test.stkn", nil)

	var indents, lines []int
	for {
		line, ok := lexer.NextLine()
		if !ok {
			break
		}
		indents = append(indents, line.Indent)
		lines = append(lines, line.Pos.Line)
	}

	wantIndents := []int{0, 4, 0}
	wantLines := []int{1, 4, 5}
	if len(indents) != len(wantIndents) {
		t.Fatalf("got %d lines, want %d", len(indents), len(wantIndents))
	}
	for i := range indents {
		if indents[i] != wantIndents[i] {
			t.Errorf("line %d: indent = %d, want %d", i, indents[i], wantIndents[i])
		}
		if lines[i] != wantLines[i] {
			t.Errorf("line %d: line number = %d, want %d", i, lines[i], wantLines[i])
		}
	}
}

func TestLexerPositions(t *testing.T) {
	lexer := NewLexer([]byte("  ab <= cd"), "test.stkn", nil)
	line, _ := lexer.NextLine()

	wantColumns := []int{3, 6, 9}
	for i, tok := range line.Tokens {
		if tok.Pos.Column != wantColumns[i] {
			t.Errorf("token %d (%s): column = %d, want %d", i, tok.Image, tok.Pos.Column, wantColumns[i])
		}
	}
	if line.Pos.Column != 3 {
		t.Errorf("line column = %d, want 3", line.Pos.Column)
	}
}

func TestLexerDiagnostics(t *testing.T) {
	tests := []struct {
		input string
		kind  diag.Kind
		image string
		col   int
	}{
		{"\tx", diag.TabAsIndent, "\t", 1},
		{"a @ b", diag.InvalidChar, "@", 3},
		{"a & b", diag.InvalidChar, "&", 3},
		{"é: 1", diag.InvalidChar, "é", 1},
		{"x: a → b", diag.InvalidChar, "→", 6},
		{`"open`, diag.UnexpectedEOL, "", 6},
		{`x: "a\rb"`, diag.InvalidEscape, `\r`, 6},
		{"99999999999999999999999", diag.NumberOutOfRange, "99999999999999999999999", 1},
		{"x: 9223372036854775808", diag.NumberOutOfRange, "9223372036854775808", 4},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			diags := diag.NewList()
			lexer := NewLexer([]byte(tt.input), "test.stkn", diags)
			for {
				if _, ok := lexer.NextLine(); !ok {
					break
				}
			}
			items := diags.Items()
			if len(items) != 1 || items[0].Kind != tt.kind {
				t.Fatalf("got diagnostics %v, want one %v", items, tt.kind)
			}
			if items[0].Image != tt.image {
				t.Errorf("image = %q, want %q", items[0].Image, tt.image)
			}
			if items[0].Pos.Column != tt.col {
				t.Errorf("column = %d, want %d", items[0].Pos.Column, tt.col)
			}
		})
	}
}

func TestLexerLargestInt(t *testing.T) {
	diags := diag.NewList()
	tokens, _ := TokenizeLine("9223372036854775807", Position{Line: 1, Column: 1}, diags)
	if diags.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", diags.Items())
	}
	if n, ok := tokens[0].Factor.(*ast.Int); !ok || n.Value != 9223372036854775807 {
		t.Errorf("factor = %#v, want max int64", tokens[0].Factor)
	}
}

func TestTokenizeLineConsumed(t *testing.T) {
	tokens, n := TokenizeLine("f(x)\nnext", Position{Line: 3, Column: 1}, nil)
	if n != 4 {
		t.Errorf("consumed = %d, want 4", n)
	}
	if len(tokens) != 4 {
		t.Errorf("got %d tokens, want 4", len(tokens))
	}
	if tokens[0].Pos.Line != 3 {
		t.Errorf("line = %d, want 3", tokens[0].Pos.Line)
	}
}
