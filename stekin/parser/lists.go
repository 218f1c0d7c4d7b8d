package parser

import (
	"github.com/dhamidi/stekin/diag"
	"github.com/dhamidi/stekin/stekin/ast"
)

// elements collects the comma separated parts of a bracketed construct.
// A nil entry is a part that held nothing.
type elements struct {
	items []ast.Expr
	poss  []Position
}

func (el *elements) add(pos Position, e ast.Expr) {
	el.items = append(el.items, e)
	el.poss = append(el.poss, pos)
}

// trimTrailing drops one empty last part, which makes `[a, b,]` legal.
func (el *elements) trimTrailing() {
	n := len(el.items)
	if n > 0 && el.items[n-1] == nil {
		el.items = el.items[:n-1]
		el.poss = el.poss[:n-1]
	}
}

// filled reports every empty part and returns the parts with BadExpr in
// their place.
func (el *elements) filled(s *Stack) []ast.Expr {
	out := make([]ast.Expr, len(el.items))
	for i, e := range el.items {
		if e == nil {
			s.report(diag.Diagnostic{Kind: diag.EmptyExpr, Pos: el.poss[i]})
			e = &ast.BadExpr{Pos: el.poss[i]}
		}
		out[i] = e
	}
	return out
}

// exprListAutomaton parses `[a, b]` list literals and `f(a, b)` argument
// lists. Argument lists reduce as a list for the call to pick up.
type exprListAutomaton struct {
	automatonBase
	pos    Position
	closer string
	args   bool
	elements
}

func newListLiteral(pos Position) *exprListAutomaton {
	return &exprListAutomaton{pos: pos, closer: "]"}
}

func newArgList(pos Position) *exprListAutomaton {
	return &exprListAutomaton{pos: pos, closer: ")", args: true}
}

func (l *exprListAutomaton) activated(s *Stack) {
	s.push(newArith())
}

func (l *exprListAutomaton) accepted(s *Stack, pos Position, e ast.Expr) {
	l.add(pos, e)
}

func (l *exprListAutomaton) pushComma(s *Stack, t Token) {
	s.push(newArith())
}

func (l *exprListAutomaton) matchCloser(s *Stack, t Token) {
	if t.Image != l.closer {
		s.unexpected(t)
		return
	}
	l.trimTrailing()
	items := l.filled(s)
	if l.args {
		s.reduceList(l.pos, items)
		return
	}
	s.reduceExpr(l.pos, &ast.List{Pos: l.pos, Items: items})
}

type nestedState int

const (
	nestedCollecting nestedState = iota
	nestedClosed
	nestedLambdaBody
	nestedLambdaDone
)

// nestedOrParamsAutomaton handles `(` where a factor is expected. The
// content is a parenthesized expression unless a colon follows the closing
// paren, in which case it was a lambda parameter list. Until that colon
// shows up or another token does, the choice stays open.
type nestedOrParamsAutomaton struct {
	automatonBase
	pos   Position
	state nestedState
	elements
	params       []string
	body         *ast.Block
	bodyPos      Position
	waitingBlock bool
}

func newNestedOrParams(pos Position) *nestedOrParamsAutomaton {
	return &nestedOrParamsAutomaton{pos: pos}
}

func (n *nestedOrParamsAutomaton) activated(s *Stack) {
	s.push(newArith())
}

func (n *nestedOrParamsAutomaton) accepted(s *Stack, pos Position, e ast.Expr) {
	switch n.state {
	case nestedCollecting:
		n.add(pos, e)
	case nestedLambdaBody:
		if e != nil {
			n.body = ast.SingleReturn(e)
		}
		n.bodyPos = pos
		n.state = nestedLambdaDone
	}
}

func (n *nestedOrParamsAutomaton) acceptedBlock(s *Stack, pos Position, b *ast.Block) {
	if !n.waitingBlock {
		n.automatonBase.acceptedBlock(s, pos, b)
		return
	}
	n.waitingBlock = false
	n.body = b
}

// resolve reduces whatever the automaton decided it is.
func (n *nestedOrParamsAutomaton) resolve(s *Stack) {
	if n.state == nestedLambdaDone {
		body := n.body
		if body == nil {
			s.report(diag.Diagnostic{Kind: diag.EmptyExpr, Pos: n.bodyPos})
			body = ast.SingleReturn(&ast.BadExpr{Pos: n.bodyPos})
		}
		s.reduceExpr(n.pos, &ast.Lambda{Pos: n.pos, Params: n.params, Body: body})
		return
	}
	var e ast.Expr
	switch len(n.items) {
	case 0:
		s.report(diag.Diagnostic{Kind: diag.EmptyExpr, Pos: n.pos})
		e = &ast.BadExpr{Pos: n.pos}
	case 1:
		e = n.filled(s)[0]
	default:
		s.report(diag.Diagnostic{Kind: diag.ExcessiveExpr, Pos: n.pos})
		e = n.filled(s)[0]
	}
	s.reduceExpr(n.pos, e)
}

// decided reports whether the automaton is past its closing paren; every
// event in that state resolves it and is replayed against the new top.
func (n *nestedOrParamsAutomaton) decided() bool {
	return n.state == nestedClosed || n.state == nestedLambdaDone
}

func (n *nestedOrParamsAutomaton) replay(s *Stack, t Token) {
	n.resolve(s)
	if !s.empty() && !s.failed {
		t.act(s)
	}
}

func (n *nestedOrParamsAutomaton) pushOp(s *Stack, t Token) {
	if n.decided() {
		n.replay(s, t)
		return
	}
	s.unexpected(t)
}

func (n *nestedOrParamsAutomaton) pushFactor(s *Stack, t Token) {
	if n.decided() {
		n.replay(s, t)
		return
	}
	s.unexpected(t)
}

func (n *nestedOrParamsAutomaton) pushOpenParen(s *Stack, t Token) {
	if n.decided() {
		n.replay(s, t)
		return
	}
	s.unexpected(t)
}

func (n *nestedOrParamsAutomaton) pushOpenBracket(s *Stack, t Token) {
	if n.decided() {
		n.replay(s, t)
		return
	}
	s.unexpected(t)
}

func (n *nestedOrParamsAutomaton) pushOpenBrace(s *Stack, t Token) {
	if n.decided() {
		n.replay(s, t)
		return
	}
	s.unexpected(t)
}

func (n *nestedOrParamsAutomaton) pushPropertySeparator(s *Stack, t Token) {
	if n.decided() {
		n.replay(s, t)
		return
	}
	s.unexpected(t)
}

func (n *nestedOrParamsAutomaton) matchCloser(s *Stack, t Token) {
	if n.decided() {
		n.replay(s, t)
		return
	}
	if n.state != nestedCollecting || t.Image != ")" {
		s.unexpected(t)
		return
	}
	n.trimTrailing()
	n.state = nestedClosed
}

func (n *nestedOrParamsAutomaton) pushComma(s *Stack, t Token) {
	if n.decided() {
		n.replay(s, t)
		return
	}
	if n.state != nestedCollecting {
		s.unexpected(t)
		return
	}
	s.push(newArith())
}

func (n *nestedOrParamsAutomaton) pushColon(s *Stack, t Token) {
	if n.state != nestedClosed || n.inDictKey(s) {
		if n.decided() {
			n.replay(s, t)
			return
		}
		s.unexpected(t)
		return
	}
	n.params = make([]string, 0, len(n.items))
	for i, e := range n.items {
		switch e := e.(type) {
		case nil:
			s.report(diag.Diagnostic{Kind: diag.EmptyExpr, Pos: n.poss[i]})
		case *ast.Reference:
			n.params = append(n.params, e.Name)
		default:
			s.report(diag.Diagnostic{Kind: diag.InvalidName, Pos: e.Position(), Image: e.String()})
		}
	}
	n.state = nestedLambdaBody
	s.push(newArith())
}

// inDictKey reports whether the parens are part of a dictionary key, where
// the colon separates the key from its value.
func (n *nestedOrParamsAutomaton) inDictKey(s *Stack) bool {
	arith, ok := n.previous(s).(*arithAutomaton)
	if !ok {
		return false
	}
	d, ok := arith.previous(s).(*dictAutomaton)
	return ok && d.state == dictKey
}

func (n *nestedOrParamsAutomaton) finishOnBreak(s *Stack, sub bool) bool {
	if n.state == nestedCollecting {
		return false
	}
	prev := n.previous(s)
	if prev == nil {
		return true
	}
	return prev.finishOnBreak(s, true)
}

func (n *nestedOrParamsAutomaton) finish(s *Stack, pos Position) {
	if n.state == nestedLambdaDone && n.body == nil {
		n.waitingBlock = true
		s.owner.expectBlock(pos)
		return
	}
	if !n.decided() {
		n.automatonBase.finish(s, pos)
		return
	}
	n.resolve(s)
	if !s.empty() {
		s.top().finish(s, pos)
	}
}

// bracketedAutomaton parses `[...]` after a factor: one part is a lookup
// key, two or three parts are slice begin, end and step.
type bracketedAutomaton struct {
	automatonBase
	pos Position
	elements
}

func newBracketed(pos Position) *bracketedAutomaton {
	return &bracketedAutomaton{pos: pos}
}

func (b *bracketedAutomaton) activated(s *Stack) {
	s.push(newArith())
}

func (b *bracketedAutomaton) accepted(s *Stack, pos Position, e ast.Expr) {
	b.add(pos, e)
}

func (b *bracketedAutomaton) pushComma(s *Stack, t Token) {
	s.push(newArith())
}

func (b *bracketedAutomaton) matchCloser(s *Stack, t Token) {
	if t.Image != "]" {
		s.unexpected(t)
		return
	}
	orDefault := func(i int) ast.Expr {
		if b.items[i] == nil {
			return &ast.SliceDefault{Pos: b.poss[i]}
		}
		return b.items[i]
	}
	switch n := len(b.items); {
	case n == 1:
		key := b.items[0]
		if key == nil {
			s.report(diag.Diagnostic{Kind: diag.EmptyLookupKey, Pos: b.poss[0]})
			key = &ast.BadExpr{Pos: b.poss[0]}
		}
		s.reduceList(b.pos, []ast.Expr{key})
	case n == 2:
		s.reduceList(b.pos, []ast.Expr{orDefault(0), orDefault(1), &ast.SliceDefault{Pos: t.Pos}})
	default:
		if n > 3 {
			s.report(diag.Diagnostic{Kind: diag.TooManySliceParts, Pos: b.poss[3]})
		}
		if b.items[2] == nil {
			s.report(diag.Diagnostic{Kind: diag.SliceStepOmitted, Pos: b.poss[2]})
		}
		s.reduceList(b.pos, []ast.Expr{orDefault(0), orDefault(1), orDefault(2)})
	}
}
