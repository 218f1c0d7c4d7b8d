package parser

import (
	"github.com/dhamidi/stekin/diag"
	"github.com/dhamidi/stekin/stekin/ast"
)

type Position = diag.Position

type TokenKind int

const (
	TokenOperator TokenKind = iota
	TokenFactor
	TokenOpenParen
	TokenOpenBracket
	TokenOpenBrace
	TokenCloser
	TokenColon
	TokenPropertySeparator
	TokenComma
	TokenKeyword
)

var tokenKindNames = map[TokenKind]string{
	TokenOperator:          "Operator",
	TokenFactor:            "Factor",
	TokenOpenParen:         "OpenParen",
	TokenOpenBracket:       "OpenBracket",
	TokenOpenBrace:         "OpenBrace",
	TokenCloser:            "Closer",
	TokenColon:             "Colon",
	TokenPropertySeparator: "PropertySeparator",
	TokenComma:             "Comma",
	TokenKeyword:           "Keyword",
}

func (k TokenKind) String() string {
	if name, ok := tokenKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

type Keyword int

const (
	KeywordNone Keyword = iota
	KeywordIf
	KeywordIfnot
	KeywordElse
	KeywordFunc
	KeywordReturn
	KeywordClass
	KeywordTry
	KeywordCatch
	KeywordExtern
	KeywordExport
)

var keywords = map[string]Keyword{
	"if":     KeywordIf,
	"ifnot":  KeywordIfnot,
	"else":   KeywordElse,
	"func":   KeywordFunc,
	"return": KeywordReturn,
	"class":  KeywordClass,
	"try":    KeywordTry,
	"catch":  KeywordCatch,
	"extern": KeywordExtern,
	"export": KeywordExport,
}

// LookupKeyword reports the keyword spelled by ident, if any.
func LookupKeyword(ident string) (Keyword, bool) {
	kw, ok := keywords[ident]
	return kw, ok
}

// Token is one lexical unit. Factor tokens carry the literal or identifier
// already built as an expression; all other kinds are described by Image.
type Token struct {
	Kind    TokenKind
	Image   string
	Pos     Position
	Factor  ast.Expr
	Keyword Keyword
}

func (t Token) String() string {
	return t.Pos.String() + " " + t.Kind.String() + " " + t.Image
}

func OperatorToken(pos Position, image string) Token {
	return Token{Kind: TokenOperator, Image: image, Pos: pos}
}

func FactorToken(pos Position, factor ast.Expr, image string) Token {
	return Token{Kind: TokenFactor, Image: image, Pos: pos, Factor: factor}
}

func OpenParenToken(pos Position) Token {
	return Token{Kind: TokenOpenParen, Image: "(", Pos: pos}
}

func OpenBracketToken(pos Position) Token {
	return Token{Kind: TokenOpenBracket, Image: "[", Pos: pos}
}

func OpenBraceToken(pos Position) Token {
	return Token{Kind: TokenOpenBrace, Image: "{", Pos: pos}
}

func CloserToken(pos Position, image string) Token {
	return Token{Kind: TokenCloser, Image: image, Pos: pos}
}

func ColonToken(pos Position) Token {
	return Token{Kind: TokenColon, Image: ":", Pos: pos}
}

func PropertySeparatorToken(pos Position) Token {
	return Token{Kind: TokenPropertySeparator, Image: "::", Pos: pos}
}

func CommaToken(pos Position) Token {
	return Token{Kind: TokenComma, Image: ",", Pos: pos}
}

func KeywordToken(pos Position, image string) Token {
	kw, _ := LookupKeyword(image)
	return Token{Kind: TokenKeyword, Image: image, Pos: pos, Keyword: kw}
}

// act hands the token to the automaton on top of s.
func (t Token) act(s *Stack) {
	top := s.top()
	switch t.Kind {
	case TokenOperator:
		top.pushOp(s, t)
	case TokenFactor:
		top.pushFactor(s, t)
	case TokenOpenParen:
		top.pushOpenParen(s, t)
	case TokenOpenBracket:
		top.pushOpenBracket(s, t)
	case TokenOpenBrace:
		top.pushOpenBrace(s, t)
	case TokenCloser:
		top.matchCloser(s, t)
	case TokenColon:
		top.pushColon(s, t)
	case TokenPropertySeparator:
		top.pushPropertySeparator(s, t)
	case TokenComma:
		top.pushComma(s, t)
	default:
		s.unexpected(t)
	}
}

// closerFor maps an opener image to the closer that ends it.
func closerFor(opener string) string {
	switch opener {
	case "(":
		return ")"
	case "[":
		return "]"
	case "{":
		return "}"
	}
	return ""
}
