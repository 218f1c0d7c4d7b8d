package ast

import (
	"strconv"
	"strings"
)

// The String forms below are compact and unambiguous; tests compare trees
// through them.

func (b *Block) String() string {
	if b == nil {
		return "{}"
	}
	var parts []string
	for _, f := range b.Funcs {
		parts = append(parts, f.String())
	}
	for _, c := range b.Classes {
		parts = append(parts, c.String())
	}
	for _, s := range b.Stmts {
		parts = append(parts, s.String())
	}
	return "{" + strings.Join(parts, "; ") + "}"
}

func (f *Function) String() string {
	params := strings.Join(f.Params, ", ")
	if f.IsAsync() {
		return "Func(" + f.Name + ", [" + params + "], %" + strconv.Itoa(f.AsyncIndex) + ", " + f.Body.String() + ")"
	}
	return "Func(" + f.Name + ", [" + params + "], " + f.Body.String() + ")"
}

func (c *Class) String() string {
	return "Class(" + c.Name + ", " + c.Base + ", " + c.Body.String() + ")"
}

func (s *Arithmetic) String() string { return "Arithmetic(" + exprString(s.Expr) + ")" }

func (s *NameDef) String() string { return "NameDef(" + s.Name + ", " + exprString(s.Init) + ")" }

func (s *AttrSet) String() string {
	return "AttrSet(" + exprString(s.Object) + ", " + s.Attr + ", " + exprString(s.Value) + ")"
}

func (s *Branch) String() string {
	return "Branch(" + exprString(s.Cond) + ", " + s.Consequence.String() + ", " + s.Alternative.String() + ")"
}

func (s *BranchConsequenceOnly) String() string {
	return "BranchConsequenceOnly(" + exprString(s.Cond) + ", " + s.Consequence.String() + ")"
}

func (s *BranchAlternativeOnly) String() string {
	return "BranchAlternativeOnly(" + exprString(s.Cond) + ", " + s.Alternative.String() + ")"
}

func (s *Return) String() string {
	if s.Value == nil {
		return "Return()"
	}
	return "Return(" + exprString(s.Value) + ")"
}

func (s *Export) String() string {
	return "Export(" + strings.Join(s.Names, ".") + ", " + exprString(s.Value) + ")"
}

func (s *Extern) String() string { return "Extern(" + strings.Join(s.Names, ", ") + ")" }

func (s *Try) String() string {
	return "Try(" + s.Body.String() + ", " + s.CatchName + ", " + s.Catch.String() + ")"
}

func (e *BadExpr) String() string      { return "Bad" }
func (e *Bool) String() string         { return "Bool(" + strconv.FormatBool(e.Value) + ")" }
func (e *Int) String() string          { return "Int(" + e.Image + ")" }
func (e *Float) String() string        { return "Float(" + e.Image + ")" }
func (e *String) String() string       { return "String(" + strconv.Quote(e.Value) + ")" }
func (e *Reference) String() string    { return "Ref(" + e.Name + ")" }
func (e *PipeElement) String() string  { return "$" }
func (e *PipeIndex) String() string    { return "$i" }
func (e *PipeKey) String() string      { return "$k" }
func (e *SliceDefault) String() string { return "Default" }

func (e *BinaryOp) String() string {
	return "BinaryOp(" + e.Op + ", " + exprString(e.Lhs) + ", " + exprString(e.Rhs) + ")"
}

func (e *PreUnaryOp) String() string {
	return "PreUnaryOp(" + e.Op + ", " + exprString(e.Rhs) + ")"
}

func (e *MemberAccess) String() string {
	return "Member(" + exprString(e.Object) + ", " + e.Member + ")"
}

func (e *Call) String() string {
	return "Call(" + exprString(e.Callee) + ", " + exprList(e.Args) + ")"
}

func (e *AsyncCall) String() string {
	return "AsyncCall(" + exprString(e.Callee) + ", " + exprList(e.Args) + ", " +
		strconv.Itoa(e.Index) + ", [" + strings.Join(e.Params, ", ") + "])"
}

func (e *Lookup) String() string {
	return "Lookup(" + exprString(e.Collection) + ", " + exprString(e.Key) + ")"
}

func (e *Slice) String() string {
	return "Slice(" + exprString(e.Collection) + ", " + exprString(e.Begin) + ", " +
		exprString(e.End) + ", " + exprString(e.Step) + ")"
}

func (e *List) String() string { return "List(" + exprList(e.Items) + ")" }

func (e *Dictionary) String() string {
	parts := make([]string, len(e.Items))
	for i, item := range e.Items {
		parts[i] = exprString(item.Key) + ": " + exprString(item.Value)
	}
	return "Dict([" + strings.Join(parts, ", ") + "])"
}

func (e *Lambda) String() string {
	return "Lambda([" + strings.Join(e.Params, ", ") + "], " + e.Body.String() + ")"
}

func (e *Pipeline) String() string {
	return "Pipeline(" + e.Op + ", " + exprString(e.List) + ", " + e.Section.String() + ")"
}

func (e *AsyncPlaceholder) String() string {
	return "Placeholder([" + strings.Join(e.Params, ", ") + "])"
}

func exprString(e Expr) string {
	if e == nil {
		return "nil"
	}
	return e.String()
}

func exprList(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = exprString(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
