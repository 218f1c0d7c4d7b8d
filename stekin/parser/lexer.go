package parser

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/stekin/diag"
	"github.com/dhamidi/stekin/stekin/ast"
)

// Line is one non-blank source line: its indentation in spaces, the
// position of its first token and its tokens.
type Line struct {
	Indent int
	Pos    Position
	Tokens []Token
}

// Lexer splits stekin source into per-line token batches.
type Lexer struct {
	input    []byte
	file     string
	pos      int
	line     int
	column   int
	reporter diag.Reporter
}

func NewLexer(input []byte, file string, r diag.Reporter) *Lexer {
	return &Lexer{
		input:    input,
		file:     file,
		line:     1,
		column:   1,
		reporter: r,
	}
}

func (l *Lexer) Position() Position {
	return Position{File: l.file, Line: l.line, Column: l.column}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
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

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) atLineEnd() bool {
	return l.pos >= len(l.input) || l.peek() == '\n'
}

func (l *Lexer) report(kind diag.Kind, pos Position, image string) {
	if l.reporter != nil {
		l.reporter.Report(diag.Diagnostic{Kind: kind, Pos: pos, Image: image})
	}
}

// NextLine returns the next line holding at least one token. Blank and
// comment-only lines are skipped. It returns false at the end of input.
func (l *Lexer) NextLine() (Line, bool) {
	for l.pos < len(l.input) {
		indent := l.scanIndent()
		start := l.Position()
		tokens := l.scanLine()
		l.advance() // newline
		if len(tokens) > 0 {
			return Line{Indent: indent, Pos: start, Tokens: tokens}, true
		}
	}
	return Line{}, false
}

// scanIndent counts leading spaces. Tabs are reported and not counted.
func (l *Lexer) scanIndent() int {
	indent := 0
	reported := false
	for {
		switch l.peek() {
		case ' ':
			indent++
		case '\t':
			if !reported {
				l.report(diag.TabAsIndent, l.Position(), "\t")
				reported = true
			}
		default:
			return indent
		}
		l.advance()
	}
}

// scanLine tokenizes up to, not including, the next newline.
func (l *Lexer) scanLine() []Token {
	var tokens []Token
	for {
		for l.peek() == ' ' || l.peek() == '\t' || l.peek() == '\r' {
			l.advance()
		}
		if l.atLineEnd() {
			return tokens
		}
		if l.peek() == '#' {
			for !l.atLineEnd() {
				l.advance()
			}
			return tokens
		}
		if t, ok := l.scanToken(); ok {
			tokens = append(tokens, t)
		}
	}
}

// TokenizeLine tokenizes text up to its first newline, numbering positions
// from pos. It returns the tokens and the number of bytes consumed, not
// counting the newline.
func TokenizeLine(text string, pos Position, r diag.Reporter) ([]Token, int) {
	l := &Lexer{input: []byte(text), file: pos.File, line: pos.Line, column: pos.Column, reporter: r}
	if l.line == 0 {
		l.line = 1
	}
	if l.column == 0 {
		l.column = 1
	}
	tokens := l.scanLine()
	return tokens, l.pos
}

func (l *Lexer) scanToken() (Token, bool) {
	start := l.Position()
	ch := l.peek()
	switch {
	case isLetter(ch):
		return l.scanIdentOrKeyword(start), true
	case isDigit(ch):
		return l.scanNumber(start), true
	case ch == '"' || ch == '\'':
		return l.scanString(start), true
	case ch == '$':
		return l.scanPipeRef(start), true
	}
	return l.scanOperator(start)
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	begin := l.pos
	for isLetterOrDigit(l.peek()) {
		l.advance()
	}
	image := string(l.input[begin:l.pos])
	switch image {
	case "true", "false":
		return FactorToken(start, &ast.Bool{Pos: start, Value: image == "true"}, image)
	case "typeof":
		return OperatorToken(start, image)
	}
	if _, ok := LookupKeyword(image); ok {
		return KeywordToken(start, image)
	}
	return FactorToken(start, &ast.Reference{Pos: start, Name: image}, image)
}

func (l *Lexer) scanNumber(start Position) Token {
	begin := l.pos
	for isDigit(l.peek()) {
		l.advance()
	}
	isFloat := false
	if l.peek() == '.' && isDigit(l.peekN(1)) {
		isFloat = true
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	image := string(l.input[begin:l.pos])
	if isFloat {
		v, err := strconv.ParseFloat(image, 64)
		l.checkRange(err, start, image)
		return FactorToken(start, &ast.Float{Pos: start, Image: image, Value: v}, image)
	}
	v, err := strconv.ParseInt(image, 10, 64)
	l.checkRange(err, start, image)
	return FactorToken(start, &ast.Int{Pos: start, Image: image, Value: v}, image)
}

// checkRange reports a literal that does not fit its type. The token keeps
// the clamped value strconv returns; Image still holds the source text.
func (l *Lexer) checkRange(err error, pos Position, image string) {
	if errors.Is(err, strconv.ErrRange) {
		l.report(diag.NumberOutOfRange, pos, image)
	}
}

func (l *Lexer) scanString(start Position) Token {
	begin := l.pos
	quote := l.advance()
	var sb strings.Builder
	for {
		if l.atLineEnd() {
			l.report(diag.UnexpectedEOL, l.Position(), "")
			break
		}
		ch := l.advance()
		if ch == quote {
			break
		}
		if ch != '\\' {
			sb.WriteByte(ch)
			continue
		}
		if l.atLineEnd() {
			l.report(diag.UnexpectedEOL, l.Position(), "")
			break
		}
		escPos := l.Position()
		switch esc := l.advance(); esc {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case '\\', '"', '\'':
			sb.WriteByte(esc)
		default:
			// Unknown escapes keep their backslash.
			escaped := string(esc)
			if esc >= utf8.RuneSelf {
				r, size := utf8.DecodeRune(l.input[l.pos-1:])
				l.advanceN(size - 1)
				escaped = string(r)
			}
			escPos.Column--
			l.report(diag.InvalidEscape, escPos, "\\"+escaped)
			sb.WriteByte('\\')
			sb.WriteString(escaped)
		}
	}
	image := string(l.input[begin:l.pos])
	return FactorToken(start, &ast.String{Pos: start, Value: sb.String()}, image)
}

func (l *Lexer) scanPipeRef(start Position) Token {
	l.advance()
	var e ast.Expr = &ast.PipeElement{Pos: start}
	if next := l.peek(); (next == 'i' || next == 'k') && !isLetterOrDigit(l.peekN(1)) {
		l.advance()
		if next == 'i' {
			e = &ast.PipeIndex{Pos: start}
		} else {
			e = &ast.PipeKey{Pos: start}
		}
	}
	return FactorToken(start, e, e.String())
}

func (l *Lexer) scanOperator(start Position) (Token, bool) {
	ch := l.peek()
	two := string([]byte{ch, l.peekN(1)})
	switch two {
	case "<=", ">=", "!=", "&&", "||", "|:", "|?":
		l.advanceN(2)
		return OperatorToken(start, two), true
	case "::":
		l.advanceN(2)
		return PropertySeparatorToken(start), true
	}
	if ch >= utf8.RuneSelf {
		r, size := utf8.DecodeRune(l.input[l.pos:])
		l.advanceN(size)
		l.report(diag.InvalidChar, start, string(r))
		return Token{}, false
	}
	l.advance()
	switch ch {
	case '+', '-', '*', '/', '%', '<', '>', '=', '!', '.':
		return OperatorToken(start, string(ch)), true
	case '(':
		return OpenParenToken(start), true
	case '[':
		return OpenBracketToken(start), true
	case '{':
		return OpenBraceToken(start), true
	case ')', ']', '}':
		return CloserToken(start, string(ch)), true
	case ':':
		return ColonToken(start), true
	case ',':
		return CommaToken(start), true
	}
	l.report(diag.InvalidChar, start, string(ch))
	return Token{}, false
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isLetterOrDigit(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}
