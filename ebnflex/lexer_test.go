package ebnflex

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dhamidi/stekin/stekin/parser"
	"golang.org/x/exp/ebnf"
)

func mustGrammar(t *testing.T, src string) ebnf.Grammar {
	t.Helper()
	g, err := ebnf.Parse("test", strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse grammar: %v", err)
	}
	return g
}

func kinds(t *testing.T, l *Lexer) []string {
	t.Helper()
	tokens, err := l.Tokenize()
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	var out []string
	for _, tok := range tokens {
		out = append(out, tok.Kind+":"+tok.Literal)
	}
	return out
}

func TestLexerLongestMatch(t *testing.T) {
	g := mustGrammar(t, `
		Word = letter { letter } .
		If = "if" .
		Space = " " .
		letter = "a" … "z" .
	`)

	tests := []struct {
		name  string
		opts  []Option
		input string
		want  []string
	}{
		{"longer wins", nil, "iffy", []string{"Word:iffy", "EOF:"}},
		{"tie by name order", nil, "if", []string{"If:if", "EOF:"}},
		{"tie by priority", []Option{WithPriority("Word")}, "if", []string{"Word:if", "EOF:"}},
		{"skip", []Option{WithSkip("Space")}, "a if", []string{"Word:a", "If:if", "EOF:"}},
		{"unmatched byte", []Option{WithSkip("Space")}, "a 1", []string{"Word:a", "ERROR:1", "EOF:"}},
		{"ignored production", []Option{WithIgnore("If"), WithSkip("Space")}, "if", []string{"Word:if", "EOF:"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kinds(t, NewLexer(g, []byte(tt.input), "test", tt.opts...))
			if strings.Join(got, " ") != strings.Join(tt.want, " ") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLexerOptionalSequenceParts(t *testing.T) {
	g := mustGrammar(t, `
		Number = digit { digit } [ "." digit { digit } ] .
		digit = "0" … "9" .
	`)
	got := kinds(t, NewLexer(g, []byte("7"), "test"))
	if got[0] != "Number:7" {
		t.Errorf("got %v, want Number:7 first", got)
	}
	got = kinds(t, NewLexer(g, []byte("12.50"), "test"))
	if got[0] != "Number:12.50" {
		t.Errorf("got %v, want Number:12.50 first", got)
	}
}

func TestLexerPositions(t *testing.T) {
	l, err := NewStekinLexer([]byte("a\n  bc"), "pos.stkn")
	if err != nil {
		t.Fatal(err)
	}
	tokens, err := l.Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3: %v", len(tokens), tokens)
	}
	if got := tokens[1].Pos.String(); got != "pos.stkn:2:3" {
		t.Errorf("second token at %s, want pos.stkn:2:3", got)
	}
	if tokens[1].Offset != 4 {
		t.Errorf("offset = %d, want 4", tokens[1].Offset)
	}
}

func TestStekinGrammar(t *testing.T) {
	g, err := StekinGrammar()
	if err != nil {
		t.Fatalf("StekinGrammar: %v", err)
	}
	for _, name := range []string{"Keyword", "Ident", "Float", "String", "Operator", "Punct"} {
		if _, ok := g[name]; !ok {
			t.Errorf("grammar has no %s production", name)
		}
	}
}

func TestStekinLexerKinds(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"ifnot x", []string{"Keyword:ifnot", "Ident:x"}},
		{"iffy", []string{"Ident:iffy"}},
		{"true typeof", []string{"Bool:true", "Operator:typeof"}},
		{"1.5 1", []string{"Float:1.5", "Int:1"}},
		{"a::b", []string{"Ident:a", "Punct:::", "Ident:b"}},
		{"x |: $i", []string{"Ident:x", "Operator:|:", "PipeRef:$i"}},
		{`"a\"b" # note`, []string{`String:"a\"b"`}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l, err := NewStekinLexer([]byte(tt.input), "test.stkn")
			if err != nil {
				t.Fatal(err)
			}
			got := kinds(t, l)
			got = got[:len(got)-1]
			if strings.Join(got, " ") != strings.Join(tt.want, " ") {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

// The grammar and the hand-written lexer must agree on every token image of
// the sample files.
func TestStekinGrammarMatchesLexer(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "testdata", "*.stkn"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no sample files")
	}

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			src, err := os.ReadFile(file)
			if err != nil {
				t.Fatal(err)
			}

			var want []string
			lx := parser.NewLexer(src, file, nil)
			for {
				line, ok := lx.NextLine()
				if !ok {
					break
				}
				for _, tok := range line.Tokens {
					want = append(want, tok.Pos.String()+" "+tok.Image)
				}
			}

			el, err := NewStekinLexer(src, file)
			if err != nil {
				t.Fatal(err)
			}
			tokens, err := el.Tokenize()
			if err != nil {
				t.Fatal(err)
			}
			var got []string
			for _, tok := range tokens[:len(tokens)-1] {
				if tok.Kind == ErrorKind {
					t.Errorf("%s: no production matches %q", tok.Pos, tok.Literal)
				}
				got = append(got, tok.Pos.String()+" "+tok.Literal)
			}

			if len(got) != len(want) {
				t.Fatalf("grammar produced %d tokens, lexer %d", len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("token %d: grammar %q, lexer %q", i, got[i], want[i])
				}
			}
		})
	}
}
