// Package ebnflex provides lexical scanning based on EBNF grammars.
package ebnflex

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/dhamidi/stekin/diag"
	"golang.org/x/exp/ebnf"
)

type Position = diag.Position

// ErrorKind is the kind of a token emitted for a byte no production matches.
const ErrorKind = "ERROR"

// Token represents a lexical token with its position.
type Token struct {
	Kind    string
	Literal string
	Offset  int
	Pos     Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Pos, t.Kind, t.Literal)
}

type memoKey struct {
	name   string
	offset int
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithPriority orders the token productions tried on a tie: a match of the
// same length from an earlier name wins. Unlisted productions follow in name
// order.
func WithPriority(names ...string) Option {
	return func(l *Lexer) {
		l.priority = append(l.priority, names...)
	}
}

// WithSkip names productions that are matched but never returned, such as
// whitespace and comments.
func WithSkip(names ...string) Option {
	return func(l *Lexer) {
		for _, name := range names {
			l.skip[name] = true
		}
	}
}

// WithIgnore removes uppercase productions from the token set. Use it for
// productions that only aggregate other tokens.
func WithIgnore(names ...string) Option {
	return func(l *Lexer) {
		for _, name := range names {
			l.ignore[name] = true
		}
	}
}

// Lexer tokenizes input based on an EBNF grammar.
type Lexer struct {
	grammar  ebnf.Grammar
	input    []byte
	filename string
	pos      int
	line     int
	column   int

	priority []string
	skip     map[string]bool
	ignore   map[string]bool
	tokens   []string

	memo     map[memoKey]int // match length, -1 for no match
	visiting map[memoKey]bool
}

// NewLexer creates a lexer for the given grammar and input.
func NewLexer(grammar ebnf.Grammar, input []byte, filename string, opts ...Option) *Lexer {
	l := &Lexer{
		grammar:  grammar,
		input:    input,
		filename: filename,
		line:     1,
		column:   1,
		skip:     make(map[string]bool),
		ignore:   make(map[string]bool),
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.tokens = l.tokenProductions()
	return l
}

// tokenProductions lists the uppercase productions in tie-breaking order.
func (l *Lexer) tokenProductions() []string {
	rank := make(map[string]int, len(l.priority))
	for i, name := range l.priority {
		if _, ok := rank[name]; !ok {
			rank[name] = i
		}
	}

	var names []string
	for name, prod := range l.grammar {
		if prod.Expr == nil || l.ignore[name] {
			continue
		}
		if name[0] >= 'A' && name[0] <= 'Z' {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		ri, iok := rank[names[i]]
		rj, jok := rank[names[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		}
		return names[i] < names[j]
	})
	return names
}

// LoadGrammar loads an EBNF grammar from a file.
func LoadGrammar(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	grammar, err := ebnf.Parse(filename, f)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}

	return grammar, nil
}

// Position returns the current position in the input.
func (l *Lexer) Position() Position {
	return Position{File: l.filename, Line: l.line, Column: l.column}
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

// NextToken returns the next token that is not skipped. At the end of input
// it returns an EOF token and io.EOF.
func (l *Lexer) NextToken() (Token, error) {
	for {
		tok, err := l.nextRaw()
		if err != nil || !l.skip[tok.Kind] {
			return tok, err
		}
	}
}

func (l *Lexer) nextRaw() (Token, error) {
	if l.pos >= len(l.input) {
		return Token{Kind: "EOF", Offset: l.pos, Pos: l.Position()}, io.EOF
	}

	start := l.Position()
	offset := l.pos

	// Positions differ from one token to the next.
	l.memo = make(map[memoKey]int)

	var bestKind string
	var bestLen int
	for _, name := range l.tokens {
		l.visiting = make(map[memoKey]bool)
		if n := l.tryMatch(l.grammar[name].Expr, offset); n > bestLen {
			bestLen = n
			bestKind = name
		}
	}

	if bestLen == 0 {
		ch := l.advance()
		return Token{Kind: ErrorKind, Literal: string(ch), Offset: offset, Pos: start}, nil
	}

	for i := 0; i < bestLen; i++ {
		l.advance()
	}
	return Token{
		Kind:    bestKind,
		Literal: string(l.input[offset : offset+bestLen]),
		Offset:  offset,
		Pos:     start,
	}, nil
}

// tryMatch returns the length of the longest match of expr at offset, or 0.
// Repetitions are greedy and never backtrack.
func (l *Lexer) tryMatch(expr ebnf.Expression, offset int) int {
	switch e := expr.(type) {
	case *ebnf.Token:
		return l.tryMatchToken(e.String, offset)

	case *ebnf.Range:
		return l.tryMatchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n := l.tryMatch(item, offset+total)
			if n == 0 && !optional(item) {
				return 0
			}
			total += n
		}
		return total

	case ebnf.Alternative:
		best := 0
		for _, alt := range e {
			if n := l.tryMatch(alt, offset); n > best {
				best = n
			}
		}
		return best

	case *ebnf.Repetition:
		total := 0
		for {
			n := l.tryMatch(e.Body, offset+total)
			if n == 0 {
				break
			}
			total += n
		}
		return total

	case *ebnf.Option:
		return l.tryMatch(e.Body, offset)

	case *ebnf.Group:
		return l.tryMatch(e.Body, offset)

	case *ebnf.Name:
		return l.tryMatchName(e.String, offset)
	}
	return 0
}

// optional reports whether expr may match the empty string at the top level.
func optional(expr ebnf.Expression) bool {
	switch expr.(type) {
	case *ebnf.Repetition, *ebnf.Option:
		return true
	}
	return false
}

// tryMatchName matches a named production with memoization. A production met
// again at the same offset is left recursion and fails.
func (l *Lexer) tryMatchName(name string, offset int) int {
	key := memoKey{name: name, offset: offset}

	if result, ok := l.memo[key]; ok {
		if result == -1 {
			return 0
		}
		return result
	}
	if l.visiting[key] {
		return 0
	}

	prod, ok := l.grammar[name]
	if !ok || prod.Expr == nil {
		l.memo[key] = -1
		return 0
	}

	l.visiting[key] = true
	result := l.tryMatch(prod.Expr, offset)
	delete(l.visiting, key)

	if result == 0 {
		l.memo[key] = -1
	} else {
		l.memo[key] = result
	}
	return result
}

func (l *Lexer) tryMatchToken(s string, offset int) int {
	if s == "" || offset+len(s) > len(l.input) {
		return 0
	}
	if string(l.input[offset:offset+len(s)]) == s {
		return len(s)
	}
	return 0
}

func (l *Lexer) tryMatchRange(begin, end string, offset int) int {
	if offset >= len(l.input) || len(begin) != 1 || len(end) != 1 {
		return 0
	}
	ch := l.input[offset]
	if ch >= begin[0] && ch <= end[0] {
		return 1
	}
	return 0
}

// Tokenize reads all tokens from input. The final token is the EOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		tokens = append(tokens, tok)
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return tokens, err
		}
	}
}
