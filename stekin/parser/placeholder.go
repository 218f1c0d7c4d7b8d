package parser

import (
	"github.com/dhamidi/stekin/diag"
	"github.com/dhamidi/stekin/stekin/ast"
)

// placeholderAutomaton captures `%` and its optional `(name, ...)` list.
// It takes the place of the arithmetic automaton that saw the `%`.
type placeholderAutomaton struct {
	automatonBase
	pos       Position
	inCall    bool
	params    []string
	hasParams bool
}

func newPlaceholder(pos Position, inCall bool) *placeholderAutomaton {
	return &placeholderAutomaton{pos: pos, inCall: inCall}
}

func (p *placeholderAutomaton) pushOpenParen(s *Stack, t Token) {
	if p.hasParams {
		s.unexpected(t)
		return
	}
	s.push(newArgList(t.Pos))
}

func (p *placeholderAutomaton) acceptedList(s *Stack, pos Position, items []ast.Expr) {
	p.hasParams = true
	p.params = make([]string, 0, len(items))
	for _, e := range items {
		ref, ok := e.(*ast.Reference)
		if !ok {
			s.report(diag.Diagnostic{Kind: diag.InvalidName, Pos: e.Position(), Image: e.String()})
			continue
		}
		p.params = append(p.params, ref.Name)
	}
}

func (p *placeholderAutomaton) resolve(s *Stack) {
	if !p.inCall {
		s.report(diag.Diagnostic{Kind: diag.AsyncPlaceholderOutsideCall, Pos: p.pos})
		s.reduceExpr(p.pos, &ast.BadExpr{Pos: p.pos})
		return
	}
	s.reduceExpr(p.pos, &ast.AsyncPlaceholder{Pos: p.pos, Params: p.params})
}

func (p *placeholderAutomaton) terminate(s *Stack, t Token) {
	p.resolve(s)
	if !s.empty() && !s.failed {
		t.act(s)
	}
}

func (p *placeholderAutomaton) matchCloser(s *Stack, t Token)           { p.terminate(s, t) }
func (p *placeholderAutomaton) pushComma(s *Stack, t Token)             { p.terminate(s, t) }
func (p *placeholderAutomaton) pushColon(s *Stack, t Token)             { p.terminate(s, t) }
func (p *placeholderAutomaton) pushPropertySeparator(s *Stack, t Token) { p.terminate(s, t) }

func (p *placeholderAutomaton) finishOnBreak(s *Stack, sub bool) bool {
	prev := p.previous(s)
	if prev == nil {
		return true
	}
	return prev.finishOnBreak(s, true)
}

func (p *placeholderAutomaton) finish(s *Stack, pos Position) {
	p.resolve(s)
	if !s.empty() {
		s.top().finish(s, pos)
	}
}
