package parser

import (
	"github.com/dhamidi/stekin/diag"
	"github.com/dhamidi/stekin/stekin/ast"
)

// clause is a compound statement whose body is being collected from the
// lines indented below its header.
type clause interface {
	base() *clauseBase
	// deliver hands the finished body to the enclosing clause.
	deliver(parent *clauseBase)
}

// clauseBase is the state every clause shares: where it was opened, the
// indentation its body lines must share, its own automaton stack and the
// block it accumulates.
type clauseBase struct {
	indent int
	// memberIndent is -1 until the first body line fixes it.
	memberIndent int
	// lastIndent is the indentation of the latest line fed to stack.
	lastIndent int
	pos        Position
	stack      *Stack
	block      *ast.Block

	awaitingBlock bool
	awaitPos      Position
	pendingOpen   clause
	pendingPos    Position

	// The if and try most recently closed in this body, kept until the next
	// line shows whether an else or catch follows.
	lastBranch *branchRecord
	lastTry    *tryRecord
}

func (cb *clauseBase) init(pos Position, r diag.Reporter) {
	cb.pos = pos
	cb.memberIndent = -1
	cb.block = &ast.Block{}
	cb.stack = newStack(cb, r)
}

func (cb *clauseBase) base() *clauseBase { return cb }

func (cb *clauseBase) acceptStmt(st ast.Stmt) {
	cb.block.AddStmt(st)
}

func (cb *clauseBase) expectBlock(pos Position) {
	cb.awaitingBlock = true
	cb.awaitPos = pos
}

func (cb *clauseBase) openClause(pos Position, c clause) {
	cb.pendingOpen = c
	cb.pendingPos = pos
}

// tryFinish ends the current line on the clause's stack and reports whether
// the line was accepted.
func (cb *clauseBase) tryFinish(pos Position) bool {
	return cb.stack.breakLine(pos)
}

func (cb *clauseBase) settleBranch() {
	if cb.lastBranch == nil {
		return
	}
	cb.block.AddStmt(cb.lastBranch.stmt())
	cb.lastBranch = nil
}

func (cb *clauseBase) settleTry(r diag.Reporter) {
	t := cb.lastTry
	if t == nil {
		return
	}
	if !t.hasCatch {
		r.Report(diag.Diagnostic{Kind: diag.TryWithoutCatch, Pos: t.pos})
		t.catch = &ast.Block{}
	}
	cb.block.AddStmt(&ast.Try{Pos: t.pos, Body: t.body, CatchPos: t.catchPos, CatchName: t.catchName, Catch: t.catch})
	cb.lastTry = nil
}

func (cb *clauseBase) settle(r diag.Reporter) {
	cb.settleBranch()
	cb.settleTry(r)
}

type branchRecord struct {
	pos         Position
	cond        ast.Expr
	negated     bool
	body        *ast.Block
	hasElse     bool
	elsePos     Position
	alternative *ast.Block
}

func (br *branchRecord) stmt() ast.Stmt {
	alternative := br.alternative
	if alternative == nil {
		alternative = &ast.Block{}
	}
	switch {
	case br.hasElse && br.negated:
		return &ast.Branch{Pos: br.pos, Cond: br.cond, Consequence: alternative, Alternative: br.body}
	case br.hasElse:
		return &ast.Branch{Pos: br.pos, Cond: br.cond, Consequence: br.body, Alternative: alternative}
	case br.negated:
		return &ast.BranchAlternativeOnly{Pos: br.pos, Cond: br.cond, Alternative: br.body}
	}
	return &ast.BranchConsequenceOnly{Pos: br.pos, Cond: br.cond, Consequence: br.body}
}

type tryRecord struct {
	pos       Position
	body      *ast.Block
	hasCatch  bool
	catchPos  Position
	catchName string
	catch     *ast.Block
}

// rootClause holds the top level of a file. It is never delivered.
type rootClause struct {
	clauseBase
}

func (*rootClause) deliver(parent *clauseBase) {}

type ifClause struct {
	clauseBase
	cond    ast.Expr
	negated bool
}

func (c *ifClause) deliver(parent *clauseBase) {
	parent.lastBranch = &branchRecord{pos: c.pos, cond: c.cond, negated: c.negated, body: c.block}
}

type elseClause struct {
	clauseBase
	branch *branchRecord
}

func (c *elseClause) deliver(parent *clauseBase) {
	c.branch.alternative = c.block
}

type funcClause struct {
	clauseBase
	name       string
	params     []string
	asyncIndex int
}

func (c *funcClause) deliver(parent *clauseBase) {
	parent.block.AddFunc(&ast.Function{
		Pos:        c.pos,
		Name:       c.name,
		Params:     c.params,
		AsyncIndex: c.asyncIndex,
		Body:       c.block,
	})
}

type classClause struct {
	clauseBase
	name     string
	baseName string
}

func (c *classClause) deliver(parent *clauseBase) {
	parent.block.AddClass(&ast.Class{Pos: c.pos, Name: c.name, Base: c.baseName, Body: c.block})
}

type tryClause struct {
	clauseBase
}

func (c *tryClause) deliver(parent *clauseBase) {
	parent.lastTry = &tryRecord{pos: c.pos, body: c.block}
}

type catchClause struct {
	clauseBase
	try *tryRecord
}

func (c *catchClause) deliver(parent *clauseBase) {
	c.try.catch = c.block
}

// blockReceiverClause collects the indented lines that continue a line of
// its parent: the body of a lambda, a pipeline section or a `name:` value.
type blockReceiverClause struct {
	clauseBase
}

func (c *blockReceiverClause) deliver(parent *clauseBase) {
	parent.awaitingBlock = false
	s := parent.stack
	if s.empty() {
		return
	}
	s.top().acceptedBlock(s, c.pos, c.block)
	parent.tryFinish(c.pos)
}

// discardClause swallows the body of a header that could not be used, so the
// body is still checked but never lands in the tree.
type discardClause struct {
	clauseBase
}

func (*discardClause) deliver(parent *clauseBase) {}

// Header receivers turn the expression after a clause keyword into the clause
// it opens.

func ifHeader(negated bool) func(s *Stack, pos Position, e ast.Expr) {
	return func(s *Stack, pos Position, e ast.Expr) {
		if e == nil {
			s.report(diag.Diagnostic{Kind: diag.EmptyExpr, Pos: pos})
			e = &ast.BadExpr{Pos: pos}
		}
		s.owner.openClause(pos, &ifClause{cond: e, negated: negated})
	}
}

func funcHeader(s *Stack, pos Position, e ast.Expr) {
	c := &funcClause{asyncIndex: ast.NoAsync}
	var callee ast.Expr
	var args []ast.Expr
	switch e := e.(type) {
	case nil:
		s.report(diag.Diagnostic{Kind: diag.EmptyExpr, Pos: pos})
	case *ast.Call:
		callee, args = e.Callee, e.Args
	case *ast.AsyncCall:
		callee, args = e.Callee, e.Args
		c.asyncIndex = e.Index
	default:
		s.report(diag.Diagnostic{Kind: diag.InvalidName, Pos: e.Position(), Image: e.String()})
	}
	if callee != nil {
		c.name = nameOf(s, callee)
	}
	c.params = make([]string, 0, len(args))
	for _, arg := range args {
		if name := nameOf(s, arg); name != "" {
			c.params = append(c.params, name)
		}
	}
	s.owner.openClause(pos, c)
}

func classHeader(s *Stack, pos Position, e ast.Expr) {
	c := &classClause{}
	switch e := e.(type) {
	case nil:
		s.report(diag.Diagnostic{Kind: diag.EmptyExpr, Pos: pos})
	case *ast.Reference:
		c.name = e.Name
	case *ast.Call:
		c.name = nameOf(s, e.Callee)
		if len(e.Args) > 1 {
			s.report(diag.Diagnostic{Kind: diag.ExcessiveExpr, Pos: e.Args[1].Position()})
		}
		if len(e.Args) > 0 {
			c.baseName = nameOf(s, e.Args[0])
		}
	default:
		s.report(diag.Diagnostic{Kind: diag.InvalidName, Pos: e.Position(), Image: e.String()})
	}
	s.owner.openClause(pos, c)
}

// nameOf returns the identifier e spells, reporting anything else.
func nameOf(s *Stack, e ast.Expr) string {
	if ref, ok := e.(*ast.Reference); ok {
		return ref.Name
	}
	s.report(diag.Diagnostic{Kind: diag.InvalidName, Pos: e.Position(), Image: e.String()})
	return ""
}
