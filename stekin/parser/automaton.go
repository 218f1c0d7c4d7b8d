package parser

import (
	"github.com/dhamidi/stekin/diag"
	"github.com/dhamidi/stekin/stekin/ast"
)

// Automaton is one syntactic construct in progress. The automaton on top of
// a Stack receives every token event; it either changes its own state,
// pushes a sub-automaton, or reduces its result to the automaton beneath.
//
// accepted receives a reduced expression; a nil expression means the
// sub-automaton saw nothing at all.
type Automaton interface {
	activated(s *Stack)
	resumed(s *Stack)

	pushOp(s *Stack, t Token)
	pushFactor(s *Stack, t Token)
	pushOpenParen(s *Stack, t Token)
	pushOpenBracket(s *Stack, t Token)
	pushOpenBrace(s *Stack, t Token)
	matchCloser(s *Stack, t Token)
	pushColon(s *Stack, t Token)
	pushPropertySeparator(s *Stack, t Token)
	pushComma(s *Stack, t Token)

	accepted(s *Stack, pos Position, e ast.Expr)
	acceptedList(s *Stack, pos Position, items []ast.Expr)
	acceptedBlock(s *Stack, pos Position, b *ast.Block)

	// finishOnBreak reports whether the line may end here. sub is true
	// when the question is asked by the automaton above, which will
	// collapse into this one when the line is finished.
	finishOnBreak(s *Stack, sub bool) bool
	// finish drains the automaton at the end of a line at pos.
	finish(s *Stack, pos Position)

	setPrev(index int)
	prevIndex() int
}

// automatonBase answers every event with "unexpected token". Concrete
// automata embed it and override what they handle.
type automatonBase struct {
	prev int
}

func (a *automatonBase) setPrev(index int) { a.prev = index }

func (a *automatonBase) prevIndex() int { return a.prev }

func (a *automatonBase) previous(s *Stack) Automaton {
	return s.at(a.prev)
}

func (*automatonBase) activated(s *Stack) {}
func (*automatonBase) resumed(s *Stack)   {}

func (*automatonBase) pushOp(s *Stack, t Token)                { s.unexpected(t) }
func (*automatonBase) pushFactor(s *Stack, t Token)            { s.unexpected(t) }
func (*automatonBase) pushOpenParen(s *Stack, t Token)         { s.unexpected(t) }
func (*automatonBase) pushOpenBracket(s *Stack, t Token)       { s.unexpected(t) }
func (*automatonBase) pushOpenBrace(s *Stack, t Token)         { s.unexpected(t) }
func (*automatonBase) matchCloser(s *Stack, t Token)           { s.unexpected(t) }
func (*automatonBase) pushColon(s *Stack, t Token)             { s.unexpected(t) }
func (*automatonBase) pushPropertySeparator(s *Stack, t Token) { s.unexpected(t) }
func (*automatonBase) pushComma(s *Stack, t Token)             { s.unexpected(t) }

func (*automatonBase) accepted(s *Stack, pos Position, e ast.Expr) {
	s.report(diag.Diagnostic{Kind: diag.UnexpectedToken, Pos: pos, Image: "expression"})
}

func (*automatonBase) acceptedList(s *Stack, pos Position, items []ast.Expr) {
	s.report(diag.Diagnostic{Kind: diag.UnexpectedToken, Pos: pos, Image: "list"})
}

func (*automatonBase) acceptedBlock(s *Stack, pos Position, b *ast.Block) {
	s.report(diag.Diagnostic{Kind: diag.InvalidBlockValue, Pos: pos})
}

func (*automatonBase) finishOnBreak(s *Stack, sub bool) bool { return false }

func (*automatonBase) finish(s *Stack, pos Position) {
	s.report(diag.Diagnostic{Kind: diag.UnexpectedEOL, Pos: pos})
	s.failed = true
}

// stackOwner is the clause a Stack belongs to. Statement automata deliver
// finished statements to it and ask it for an indented block.
type stackOwner interface {
	acceptStmt(st ast.Stmt)
	expectBlock(pos Position)
	openClause(pos Position, c clause)
}

// Stack is the push-down stack of automata driving one clause.
type Stack struct {
	automata []Automaton
	reporter diag.Reporter
	owner    stackOwner
	// failed is set once a diagnostic aborted the current line; the rest
	// of the line is skipped and the stack is discarded at its end.
	failed bool
}

func newStack(owner stackOwner, r diag.Reporter) *Stack {
	return &Stack{owner: owner, reporter: r}
}

func (s *Stack) push(a Automaton) {
	a.setPrev(len(s.automata) - 1)
	s.automata = append(s.automata, a)
	a.activated(s)
	if s.top() == a {
		a.resumed(s)
	}
}

// reduceExpr pops the top automaton and hands e to the new top.
func (s *Stack) reduceExpr(pos Position, e ast.Expr) {
	s.pop()
	if s.empty() {
		return
	}
	top := s.top()
	top.accepted(s, pos, e)
	if s.top() == top {
		top.resumed(s)
	}
}

// reduceList pops the top automaton and hands items to the new top.
func (s *Stack) reduceList(pos Position, items []ast.Expr) {
	s.pop()
	if s.empty() {
		return
	}
	top := s.top()
	top.acceptedList(s, pos, items)
	if s.top() == top {
		top.resumed(s)
	}
}

func (s *Stack) pop() {
	s.automata = s.automata[:len(s.automata)-1]
}

// replace swaps the top automaton for a.
func (s *Stack) replace(a Automaton) {
	s.pop()
	s.push(a)
}

func (s *Stack) top() Automaton {
	return s.automata[len(s.automata)-1]
}

func (s *Stack) at(index int) Automaton {
	if index < 0 || index >= len(s.automata) {
		return nil
	}
	return s.automata[index]
}

func (s *Stack) empty() bool {
	return len(s.automata) == 0
}

func (s *Stack) size() int {
	return len(s.automata)
}

func (s *Stack) reset() {
	s.automata = s.automata[:0]
	s.failed = false
}

func (s *Stack) report(d diag.Diagnostic) {
	s.reporter.Report(d)
}

func (s *Stack) unexpected(t Token) {
	s.report(diag.Diagnostic{Kind: diag.UnexpectedToken, Pos: t.Pos, Image: t.Image})
	s.failed = true
}

// feed dispatches tokens to the stack until they run out or the line fails.
func (s *Stack) feed(tokens []Token) {
	for _, t := range tokens {
		if s.failed || s.empty() {
			return
		}
		t.act(s)
	}
}

// breakLine ends the current line. Afterwards the stack is either empty or
// holds a statement waiting for the indented block its owner was told to
// expect. It returns false when the line was abandoned.
func (s *Stack) breakLine(pos Position) bool {
	if s.failed {
		s.reset()
		return false
	}
	if s.empty() {
		return true
	}
	if !s.top().finishOnBreak(s, false) {
		s.report(diag.Diagnostic{Kind: diag.UnexpectedEOL, Pos: pos})
		s.reset()
		return false
	}
	s.top().finish(s, pos)
	if s.failed {
		s.reset()
		return false
	}
	return true
}
