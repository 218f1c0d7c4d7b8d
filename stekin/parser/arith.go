package parser

import (
	"github.com/dhamidi/stekin/diag"
	"github.com/dhamidi/stekin/stekin/ast"
)

// operand is one entry of the factor stack. A pipeline section delivered as
// an indented block travels as block instead of expr.
type operand struct {
	expr  ast.Expr
	block *ast.Block
}

// action is a pending operator: it pops its operands off the factor stack
// and pushes the combined expression.
type action interface {
	priority() priority
	apply(a *arithAutomaton, s *Stack)
}

type sentinelAction struct{}

func (sentinelAction) priority() priority            { return prioSentinel }
func (sentinelAction) apply(*arithAutomaton, *Stack) {}

type prefixAction struct {
	op   string
	pos  Position
	prio priority
}

func (p prefixAction) priority() priority { return p.prio }

func (p prefixAction) apply(a *arithAutomaton, s *Stack) {
	rhs := a.popFactor()
	a.addFactor(&ast.PreUnaryOp{Pos: p.pos, Op: p.op, Rhs: rhs.expr})
}

type binaryAction struct {
	op   string
	pos  Position
	prio priority
}

func (b binaryAction) priority() priority { return b.prio }

func (b binaryAction) apply(a *arithAutomaton, s *Stack) {
	rhs := a.popFactor()
	lhs := a.popFactor()
	switch {
	case b.op == ".":
		ref, ok := rhs.expr.(*ast.Reference)
		if !ok {
			s.report(diag.Diagnostic{Kind: diag.InvalidName, Pos: rhs.expr.Position(), Image: rhs.expr.String()})
			a.addFactor(&ast.BadExpr{Pos: b.pos})
			return
		}
		a.addFactor(&ast.MemberAccess{Pos: lhs.expr.Position(), Object: lhs.expr, Member: ref.Name})
	case isPipe(b.op):
		section := rhs.block
		if section == nil {
			section = ast.SingleReturn(rhs.expr)
		}
		a.addFactor(&ast.Pipeline{Pos: b.pos, Op: b.op, List: lhs.expr, Section: section})
	default:
		a.addFactor(&ast.BinaryOp{Pos: b.pos, Op: b.op, Lhs: lhs.expr, Rhs: rhs.expr})
	}
}

type callAction struct {
	pos  Position
	args []ast.Expr
}

func (callAction) priority() priority { return prioCall }

func (c callAction) apply(a *arithAutomaton, s *Stack) {
	callee := a.popFactor().expr
	a.addFactor(buildCall(s, c.pos, callee, c.args))
}

// buildCall turns a call whose arguments hold one async placeholder into an
// AsyncCall. Placeholders after the first are reported once and dropped to
// BadExpr.
func buildCall(s *Stack, pos Position, callee ast.Expr, args []ast.Expr) ast.Expr {
	var first *ast.AsyncPlaceholder
	index := -1
	reported := false
	rest := make([]ast.Expr, 0, len(args))
	for i, arg := range args {
		ph, ok := arg.(*ast.AsyncPlaceholder)
		if !ok {
			rest = append(rest, arg)
			continue
		}
		if first == nil {
			first = ph
			index = i
			continue
		}
		if !reported {
			s.report(diag.Diagnostic{Kind: diag.MoreThanOneAsyncPlaceholder, Pos: ph.Pos, Other: first.Pos})
			reported = true
		}
		rest = append(rest, &ast.BadExpr{Pos: ph.Pos})
	}
	if first == nil {
		return &ast.Call{Pos: pos, Callee: callee, Args: args}
	}
	return &ast.AsyncCall{Pos: pos, Callee: callee, Args: rest, Index: index, Params: first.Params}
}

type lookupAction struct {
	pos Position
	key ast.Expr
}

func (lookupAction) priority() priority { return prioCall }

func (l lookupAction) apply(a *arithAutomaton, s *Stack) {
	collection := a.popFactor().expr
	a.addFactor(&ast.Lookup{Pos: l.pos, Collection: collection, Key: l.key})
}

type sliceAction struct {
	pos              Position
	begin, end, step ast.Expr
}

func (sliceAction) priority() priority { return prioCall }

func (sl sliceAction) apply(a *arithAutomaton, s *Stack) {
	collection := a.popFactor().expr
	a.addFactor(&ast.Slice{Pos: sl.pos, Collection: collection, Begin: sl.begin, End: sl.end, Step: sl.step})
}

type postfixKind int

const (
	postfixNone postfixKind = iota
	postfixCall
	postfixSubscript
)

// arithAutomaton parses one operator expression. It alternates between
// needing a factor and having one; operators wait on the operator stack
// until the reducibility matrix says they bind.
type arithAutomaton struct {
	automatonBase
	ops        []action
	factors    []operand
	needFactor bool
	postfix    postfixKind
	postfixPos Position
}

func newArith() *arithAutomaton {
	return &arithAutomaton{
		ops:        []action{sentinelAction{}},
		needFactor: true,
	}
}

func (a *arithAutomaton) isEmpty() bool {
	return len(a.factors) == 0 && len(a.ops) == 1
}

func (a *arithAutomaton) addFactor(e ast.Expr) {
	a.factors = append(a.factors, operand{expr: e})
}

func (a *arithAutomaton) popFactor() operand {
	f := a.factors[len(a.factors)-1]
	a.factors = a.factors[:len(a.factors)-1]
	return f
}

func (a *arithAutomaton) topAction() action {
	return a.ops[len(a.ops)-1]
}

func (a *arithAutomaton) awaitsSection() bool {
	b, ok := a.topAction().(binaryAction)
	return a.needFactor && ok && isPipe(b.op)
}

// reduce applies pending operators that bind before one of priority p.
func (a *arithAutomaton) reduce(s *Stack, p priority) {
	for reducible[p][a.topAction().priority()] {
		top := a.topAction()
		a.ops = a.ops[:len(a.ops)-1]
		top.apply(a, s)
	}
}

// drain applies every pending operator and returns the result, or nil when
// nothing was ever pushed.
func (a *arithAutomaton) drain(s *Stack) ast.Expr {
	for len(a.ops) > 1 {
		top := a.topAction()
		a.ops = a.ops[:len(a.ops)-1]
		top.apply(a, s)
	}
	if len(a.factors) == 0 {
		return nil
	}
	return a.factors[0].expr
}

func (a *arithAutomaton) pushOp(s *Stack, t Token) {
	if a.needFactor {
		if t.Image == "%" && a.isEmpty() {
			list, inCall := a.previous(s).(*exprListAutomaton)
			inCall = inCall && list.args
			s.replace(newPlaceholder(t.Pos, inCall))
			return
		}
		prio, ok := prefixPriorities[t.Image]
		if !ok {
			s.unexpected(t)
			return
		}
		a.ops = append(a.ops, prefixAction{op: t.Image, pos: t.Pos, prio: prio})
		return
	}
	prio, ok := binaryPriorities[t.Image]
	if !ok {
		s.unexpected(t)
		return
	}
	a.reduce(s, prio)
	a.ops = append(a.ops, binaryAction{op: t.Image, pos: t.Pos, prio: prio})
	a.needFactor = true
}

func (a *arithAutomaton) pushFactor(s *Stack, t Token) {
	if !a.needFactor {
		s.unexpected(t)
		return
	}
	a.addFactor(t.Factor)
	a.needFactor = false
}

func (a *arithAutomaton) pushOpenParen(s *Stack, t Token) {
	if a.needFactor {
		s.push(newNestedOrParams(t.Pos))
		return
	}
	a.reduce(s, prioCall)
	a.postfix = postfixCall
	a.postfixPos = t.Pos
	s.push(newArgList(t.Pos))
}

func (a *arithAutomaton) pushOpenBracket(s *Stack, t Token) {
	if a.needFactor {
		s.push(newListLiteral(t.Pos))
		return
	}
	a.reduce(s, prioCall)
	a.postfix = postfixSubscript
	a.postfixPos = t.Pos
	s.push(newBracketed(t.Pos))
}

func (a *arithAutomaton) pushOpenBrace(s *Stack, t Token) {
	if !a.needFactor {
		s.unexpected(t)
		return
	}
	s.push(newDict(t.Pos))
}

func (a *arithAutomaton) matchCloser(s *Stack, t Token)           { a.terminate(s, t) }
func (a *arithAutomaton) pushColon(s *Stack, t Token)             { a.terminate(s, t) }
func (a *arithAutomaton) pushPropertySeparator(s *Stack, t Token) { a.terminate(s, t) }
func (a *arithAutomaton) pushComma(s *Stack, t Token)             { a.terminate(s, t) }

// terminate ends the expression at a token this automaton does not own,
// reduces the result and replays the token against the new top.
func (a *arithAutomaton) terminate(s *Stack, t Token) {
	if a.needFactor && !a.isEmpty() {
		s.unexpected(t)
		return
	}
	s.reduceExpr(t.Pos, a.drain(s))
	if !s.empty() && !s.failed {
		t.act(s)
	}
}

func (a *arithAutomaton) accepted(s *Stack, pos Position, e ast.Expr) {
	if e == nil {
		e = &ast.BadExpr{Pos: pos}
	}
	a.addFactor(e)
	a.needFactor = false
}

func (a *arithAutomaton) acceptedList(s *Stack, pos Position, items []ast.Expr) {
	switch a.postfix {
	case postfixCall:
		a.ops = append(a.ops, callAction{pos: a.postfixPos, args: items})
	case postfixSubscript:
		if len(items) == 1 {
			a.ops = append(a.ops, lookupAction{pos: a.postfixPos, key: items[0]})
		} else {
			a.ops = append(a.ops, sliceAction{pos: a.postfixPos, begin: items[0], end: items[1], step: items[2]})
		}
	}
	a.postfix = postfixNone
}

func (a *arithAutomaton) acceptedBlock(s *Stack, pos Position, b *ast.Block) {
	if !a.awaitsSection() {
		a.automatonBase.acceptedBlock(s, pos, b)
		return
	}
	a.factors = append(a.factors, operand{block: b})
	a.needFactor = false
}

func (a *arithAutomaton) finishOnBreak(s *Stack, sub bool) bool {
	if !sub && a.needFactor && !a.isEmpty() && !a.awaitsSection() {
		return false
	}
	prev := a.previous(s)
	if prev == nil {
		return true
	}
	return prev.finishOnBreak(s, true)
}

func (a *arithAutomaton) finish(s *Stack, pos Position) {
	if a.awaitsSection() {
		s.owner.expectBlock(pos)
		return
	}
	if a.needFactor && !a.isEmpty() {
		a.automatonBase.finish(s, pos)
		return
	}
	s.reduceExpr(pos, a.drain(s))
	if !s.empty() {
		s.top().finish(s, pos)
	}
}
