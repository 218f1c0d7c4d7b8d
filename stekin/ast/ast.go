// Package ast defines the tree produced by the stekin parser. Nodes are
// built once, during reduction, and never change afterwards. Every node
// carries the position of the token that started it.
package ast

import (
	"github.com/dhamidi/stekin/diag"
)

type Position = diag.Position

type Node interface {
	Position() Position
	String() string
}

type Expr interface {
	Node
	exprNode()
}

type Stmt interface {
	Node
	stmtNode()
}

// Block is an ordered statement list plus the functions and classes defined
// directly inside it.
type Block struct {
	Stmts   []Stmt
	Funcs   []*Function
	Classes []*Class
}

func (b *Block) AddStmt(s Stmt) {
	b.Stmts = append(b.Stmts, s)
}

func (b *Block) AddFunc(f *Function) {
	b.Funcs = append(b.Funcs, f)
}

func (b *Block) AddClass(c *Class) {
	b.Classes = append(b.Classes, c)
}

func (b *Block) IsEmpty() bool {
	return b == nil || len(b.Stmts) == 0 && len(b.Funcs) == 0 && len(b.Classes) == 0
}

// NoAsync marks a function without a callback parameter.
const NoAsync = -1

type Function struct {
	Pos    Position
	Name   string
	Params []string
	// AsyncIndex is the index in Params where the callback parameter is
	// inserted, or NoAsync.
	AsyncIndex int
	Body       *Block
}

func (f *Function) Position() Position { return f.Pos }

func (f *Function) IsAsync() bool { return f.AsyncIndex != NoAsync }

type Class struct {
	Pos  Position
	Name string
	Base string
	Body *Block
}

func (c *Class) Position() Position { return c.Pos }

// Statements

type Arithmetic struct {
	Pos  Position
	Expr Expr
}

type NameDef struct {
	Pos  Position
	Name string
	Init Expr
}

type AttrSet struct {
	Pos    Position
	Object Expr
	Attr   string
	Value  Expr
}

type Branch struct {
	Pos         Position
	Cond        Expr
	Consequence *Block
	Alternative *Block
}

type BranchConsequenceOnly struct {
	Pos         Position
	Cond        Expr
	Consequence *Block
}

type BranchAlternativeOnly struct {
	Pos         Position
	Cond        Expr
	Alternative *Block
}

// Return is a return statement; Value is nil for a bare return.
type Return struct {
	Pos   Position
	Value Expr
}

type Export struct {
	Pos   Position
	Names []string
	Value Expr
}

type Extern struct {
	Pos   Position
	Names []string
}

type Try struct {
	Pos       Position
	Body      *Block
	CatchPos  Position
	CatchName string
	Catch     *Block
}

func (s *Arithmetic) Position() Position            { return s.Pos }
func (s *NameDef) Position() Position               { return s.Pos }
func (s *AttrSet) Position() Position               { return s.Pos }
func (s *Branch) Position() Position                { return s.Pos }
func (s *BranchConsequenceOnly) Position() Position { return s.Pos }
func (s *BranchAlternativeOnly) Position() Position { return s.Pos }
func (s *Return) Position() Position                { return s.Pos }
func (s *Export) Position() Position                { return s.Pos }
func (s *Extern) Position() Position                { return s.Pos }
func (s *Try) Position() Position                   { return s.Pos }

func (*Arithmetic) stmtNode()            {}
func (*NameDef) stmtNode()               {}
func (*AttrSet) stmtNode()               {}
func (*Branch) stmtNode()                {}
func (*BranchConsequenceOnly) stmtNode() {}
func (*BranchAlternativeOnly) stmtNode() {}
func (*Return) stmtNode()                {}
func (*Export) stmtNode()                {}
func (*Extern) stmtNode()                {}
func (*Try) stmtNode()                   {}

// Expressions

// BadExpr stands in for an expression that could not be parsed. A
// diagnostic has always been reported where one appears.
type BadExpr struct {
	Pos Position
}

type Bool struct {
	Pos   Position
	Value bool
}

type Int struct {
	Pos   Position
	Image string
	Value int64
}

type Float struct {
	Pos   Position
	Image string
	Value float64
}

type String struct {
	Pos   Position
	Value string
}

type Reference struct {
	Pos  Position
	Name string
}

// PipeElement, PipeIndex and PipeKey are `$`, `$i` and `$k` inside a
// pipeline section.
type PipeElement struct{ Pos Position }
type PipeIndex struct{ Pos Position }
type PipeKey struct{ Pos Position }

type BinaryOp struct {
	Pos Position
	Op  string
	Lhs Expr
	Rhs Expr
}

type PreUnaryOp struct {
	Pos Position
	Op  string
	Rhs Expr
}

type MemberAccess struct {
	Pos    Position
	Object Expr
	Member string
}

type Call struct {
	Pos    Position
	Callee Expr
	Args   []Expr
}

// AsyncCall is a call with the async placeholder removed from Args. The
// callback argument goes in at Index; Params are the names the callback
// binds.
type AsyncCall struct {
	Pos    Position
	Callee Expr
	Args   []Expr
	Index  int
	Params []string
}

type Lookup struct {
	Pos        Position
	Collection Expr
	Key        Expr
}

type Slice struct {
	Pos        Position
	Collection Expr
	Begin      Expr
	End        Expr
	Step       Expr
}

// SliceDefault fills an omitted slice part.
type SliceDefault struct {
	Pos Position
}

type List struct {
	Pos   Position
	Items []Expr
}

type DictItem struct {
	Key   Expr
	Value Expr
}

type Dictionary struct {
	Pos   Position
	Items []DictItem
}

type Lambda struct {
	Pos    Position
	Params []string
	Body   *Block
}

type Pipeline struct {
	Pos     Position
	Op      string
	List    Expr
	Section *Block
}

// AsyncPlaceholder only survives in the tree as a degraded value; a valid
// one is folded into an AsyncCall.
type AsyncPlaceholder struct {
	Pos    Position
	Params []string
}

func (e *BadExpr) Position() Position          { return e.Pos }
func (e *Bool) Position() Position             { return e.Pos }
func (e *Int) Position() Position              { return e.Pos }
func (e *Float) Position() Position            { return e.Pos }
func (e *String) Position() Position           { return e.Pos }
func (e *Reference) Position() Position        { return e.Pos }
func (e *PipeElement) Position() Position      { return e.Pos }
func (e *PipeIndex) Position() Position        { return e.Pos }
func (e *PipeKey) Position() Position          { return e.Pos }
func (e *BinaryOp) Position() Position         { return e.Pos }
func (e *PreUnaryOp) Position() Position       { return e.Pos }
func (e *MemberAccess) Position() Position     { return e.Pos }
func (e *Call) Position() Position             { return e.Pos }
func (e *AsyncCall) Position() Position        { return e.Pos }
func (e *Lookup) Position() Position           { return e.Pos }
func (e *Slice) Position() Position            { return e.Pos }
func (e *SliceDefault) Position() Position     { return e.Pos }
func (e *List) Position() Position             { return e.Pos }
func (e *Dictionary) Position() Position       { return e.Pos }
func (e *Lambda) Position() Position           { return e.Pos }
func (e *Pipeline) Position() Position         { return e.Pos }
func (e *AsyncPlaceholder) Position() Position { return e.Pos }

func (*BadExpr) exprNode()          {}
func (*Bool) exprNode()             {}
func (*Int) exprNode()              {}
func (*Float) exprNode()            {}
func (*String) exprNode()           {}
func (*Reference) exprNode()        {}
func (*PipeElement) exprNode()      {}
func (*PipeIndex) exprNode()        {}
func (*PipeKey) exprNode()          {}
func (*BinaryOp) exprNode()         {}
func (*PreUnaryOp) exprNode()       {}
func (*MemberAccess) exprNode()     {}
func (*Call) exprNode()             {}
func (*AsyncCall) exprNode()        {}
func (*Lookup) exprNode()           {}
func (*Slice) exprNode()            {}
func (*SliceDefault) exprNode()     {}
func (*List) exprNode()             {}
func (*Dictionary) exprNode()       {}
func (*Lambda) exprNode()           {}
func (*Pipeline) exprNode()         {}
func (*AsyncPlaceholder) exprNode() {}

// SingleReturn wraps e into the body of an expression-bodied lambda or
// pipeline section.
func SingleReturn(e Expr) *Block {
	return &Block{Stmts: []Stmt{&Return{Pos: e.Position(), Value: e}}}
}
