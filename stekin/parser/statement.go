package parser

import (
	"github.com/dhamidi/stekin/diag"
	"github.com/dhamidi/stekin/stekin/ast"
)

// Statement automata sit at the bottom of a clause's stack. They deliver the
// finished statement to the clause and pop themselves.

// blockValue reads the single expression an indented block stands for.
func blockValue(s *Stack, pos Position, b *ast.Block) ast.Expr {
	if b.IsEmpty() {
		return &ast.BadExpr{Pos: pos}
	}
	if len(b.Stmts) == 1 && len(b.Funcs) == 0 && len(b.Classes) == 0 {
		if st, ok := b.Stmts[0].(*ast.Arithmetic); ok {
			return st.Expr
		}
	}
	s.report(diag.Diagnostic{Kind: diag.InvalidBlockValue, Pos: pos})
	return &ast.BadExpr{Pos: pos}
}

// exprStmtAutomaton parses `expr`, `name: expr` and `obj.attr: expr`. A
// colon at the end of the line takes the value from the indented block.
type exprStmtAutomaton struct {
	automatonBase
	pos          Position
	lhs          ast.Expr
	colon        bool
	value        ast.Expr
	waitingBlock bool
}

func newExprStmt(pos Position) *exprStmtAutomaton {
	return &exprStmtAutomaton{pos: pos}
}

func (st *exprStmtAutomaton) activated(s *Stack) {
	s.push(newArith())
}

func (st *exprStmtAutomaton) accepted(s *Stack, pos Position, e ast.Expr) {
	if st.colon {
		st.value = e
		return
	}
	st.lhs = e
}

func (st *exprStmtAutomaton) pushColon(s *Stack, t Token) {
	if st.colon {
		s.unexpected(t)
		return
	}
	st.colon = true
	s.push(newArith())
}

func (st *exprStmtAutomaton) acceptedBlock(s *Stack, pos Position, b *ast.Block) {
	if !st.waitingBlock {
		st.automatonBase.acceptedBlock(s, pos, b)
		return
	}
	st.waitingBlock = false
	st.deliver(s, blockValue(s, pos, b))
}

func (st *exprStmtAutomaton) finishOnBreak(s *Stack, sub bool) bool { return true }

func (st *exprStmtAutomaton) finish(s *Stack, pos Position) {
	if !st.colon {
		lhs := st.lhs
		if lhs == nil {
			s.report(diag.Diagnostic{Kind: diag.EmptyExpr, Pos: st.pos})
			lhs = &ast.BadExpr{Pos: st.pos}
		}
		s.pop()
		s.owner.acceptStmt(&ast.Arithmetic{Pos: st.pos, Expr: lhs})
		return
	}
	if st.value == nil {
		st.waitingBlock = true
		s.owner.expectBlock(pos)
		return
	}
	st.deliver(s, st.value)
}

func (st *exprStmtAutomaton) deliver(s *Stack, value ast.Expr) {
	s.pop()
	switch lhs := st.lhs.(type) {
	case *ast.Reference:
		s.owner.acceptStmt(&ast.NameDef{Pos: st.pos, Name: lhs.Name, Init: value})
	case *ast.MemberAccess:
		s.owner.acceptStmt(&ast.AttrSet{Pos: st.pos, Object: lhs.Object, Attr: lhs.Member, Value: value})
	default:
		s.report(diag.Diagnostic{Kind: diag.InvalidLeftValue, Pos: st.pos})
		s.owner.acceptStmt(&ast.Arithmetic{Pos: st.pos, Expr: value})
	}
}

type returnAutomaton struct {
	automatonBase
	pos   Position
	value ast.Expr
}

func newReturn(pos Position) *returnAutomaton {
	return &returnAutomaton{pos: pos}
}

func (r *returnAutomaton) activated(s *Stack) {
	s.push(newArith())
}

func (r *returnAutomaton) accepted(s *Stack, pos Position, e ast.Expr) {
	r.value = e
}

func (r *returnAutomaton) finishOnBreak(s *Stack, sub bool) bool { return true }

func (r *returnAutomaton) finish(s *Stack, pos Position) {
	s.pop()
	s.owner.acceptStmt(&ast.Return{Pos: r.pos, Value: r.value})
}

// exportAutomaton parses `export a.b.c: expr`.
type exportAutomaton struct {
	automatonBase
	pos          Position
	names        []string
	colon        bool
	value        ast.Expr
	waitingBlock bool
}

func newExport(pos Position) *exportAutomaton {
	return &exportAutomaton{pos: pos}
}

func (ex *exportAutomaton) activated(s *Stack) {
	s.push(newArith())
}

func (ex *exportAutomaton) accepted(s *Stack, pos Position, e ast.Expr) {
	if ex.colon {
		ex.value = e
		return
	}
	if e == nil {
		s.report(diag.Diagnostic{Kind: diag.EmptyExpr, Pos: pos})
		return
	}
	names, ok := memberChain(e)
	if !ok {
		s.report(diag.Diagnostic{Kind: diag.InvalidName, Pos: e.Position(), Image: e.String()})
	}
	ex.names = names
}

func (ex *exportAutomaton) pushColon(s *Stack, t Token) {
	if ex.colon {
		s.unexpected(t)
		return
	}
	ex.colon = true
	s.push(newArith())
}

func (ex *exportAutomaton) acceptedBlock(s *Stack, pos Position, b *ast.Block) {
	if !ex.waitingBlock {
		ex.automatonBase.acceptedBlock(s, pos, b)
		return
	}
	ex.waitingBlock = false
	ex.value = blockValue(s, pos, b)
	ex.deliver(s)
}

func (ex *exportAutomaton) finishOnBreak(s *Stack, sub bool) bool { return ex.colon }

func (ex *exportAutomaton) finish(s *Stack, pos Position) {
	if ex.value == nil {
		ex.waitingBlock = true
		s.owner.expectBlock(pos)
		return
	}
	ex.deliver(s)
}

func (ex *exportAutomaton) deliver(s *Stack) {
	s.pop()
	s.owner.acceptStmt(&ast.Export{Pos: ex.pos, Names: ex.names, Value: ex.value})
}

// memberChain flattens `a.b.c` into its names.
func memberChain(e ast.Expr) ([]string, bool) {
	switch e := e.(type) {
	case *ast.Reference:
		return []string{e.Name}, true
	case *ast.MemberAccess:
		names, ok := memberChain(e.Object)
		if !ok {
			return nil, false
		}
		return append(names, e.Member), true
	}
	return nil, false
}

// externAutomaton parses `extern a, b`.
type externAutomaton struct {
	automatonBase
	pos   Position
	names []string
}

func newExtern(pos Position) *externAutomaton {
	return &externAutomaton{pos: pos}
}

func (ex *externAutomaton) activated(s *Stack) {
	s.push(newArith())
}

func (ex *externAutomaton) accepted(s *Stack, pos Position, e ast.Expr) {
	switch e := e.(type) {
	case nil:
		s.report(diag.Diagnostic{Kind: diag.EmptyExpr, Pos: pos})
	case *ast.Reference:
		ex.names = append(ex.names, e.Name)
	default:
		s.report(diag.Diagnostic{Kind: diag.InvalidName, Pos: e.Position(), Image: e.String()})
	}
}

func (ex *externAutomaton) pushComma(s *Stack, t Token) {
	s.push(newArith())
}

func (ex *externAutomaton) finishOnBreak(s *Stack, sub bool) bool { return true }

func (ex *externAutomaton) finish(s *Stack, pos Position) {
	s.pop()
	s.owner.acceptStmt(&ast.Extern{Pos: ex.pos, Names: ex.names})
}

// receiverAutomaton parses the expression after a clause keyword and hands
// it to receive once the line ends.
type receiverAutomaton struct {
	automatonBase
	pos     Position
	expr    ast.Expr
	receive func(s *Stack, pos Position, e ast.Expr)
}

func newReceiver(pos Position, receive func(s *Stack, pos Position, e ast.Expr)) *receiverAutomaton {
	return &receiverAutomaton{pos: pos, receive: receive}
}

func (r *receiverAutomaton) activated(s *Stack) {
	s.push(newArith())
}

func (r *receiverAutomaton) accepted(s *Stack, pos Position, e ast.Expr) {
	r.expr = e
}

func (r *receiverAutomaton) finishOnBreak(s *Stack, sub bool) bool { return true }

func (r *receiverAutomaton) finish(s *Stack, pos Position) {
	s.pop()
	r.receive(s, r.pos, r.expr)
}
