package ebnflex

import (
	"bytes"
	_ "embed"
	"fmt"

	"golang.org/x/exp/ebnf"
)

// StekinStart is the start production of the stekin lexical grammar.
const StekinStart = "Source"

//go:embed stekin.ebnf
var stekinGrammar []byte

// StekinGrammarSource returns the text of the stekin lexical grammar.
func StekinGrammarSource() []byte {
	return bytes.Clone(stekinGrammar)
}

// StekinGrammar parses and verifies the embedded stekin lexical grammar.
func StekinGrammar() (ebnf.Grammar, error) {
	grammar, err := ebnf.Parse("stekin.ebnf", bytes.NewReader(stekinGrammar))
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if err := ebnf.Verify(grammar, StekinStart); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return grammar, nil
}

// StekinOptions configure a Lexer over the stekin grammar so that it yields
// the same token images as the hand-written lexer, minus layout.
func StekinOptions() []Option {
	return []Option{
		WithIgnore(StekinStart, "Token"),
		WithSkip("Whitespace", "Newline", "Comment"),
		WithPriority("Keyword", "Bool", "Operator", "Ident"),
	}
}

// NewStekinLexer returns a Lexer over the embedded stekin grammar.
func NewStekinLexer(input []byte, filename string) (*Lexer, error) {
	grammar, err := StekinGrammar()
	if err != nil {
		return nil, err
	}
	return NewLexer(grammar, input, filename, StekinOptions()...), nil
}
