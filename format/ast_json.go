package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/stekin/diag"
	"github.com/dhamidi/stekin/stekin/ast"
)

type ASTJSONEncoder struct {
	w io.Writer
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(block *ast.Block) error {
	text, err := e.MarshalText(block)
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *ASTJSONEncoder) MarshalText(block *ast.Block) ([]byte, error) {
	return json.MarshalIndent(blockToJSON("", block), "", "  ")
}

type astJSONNode struct {
	Kind     string           `json:"kind"`
	Role     string           `json:"role,omitempty"`
	Pos      *astJSONPosition `json:"pos,omitempty"`
	Name     string           `json:"name,omitempty"`
	Op       string           `json:"op,omitempty"`
	Value    any              `json:"value,omitempty"`
	Names    []string         `json:"names,omitempty"`
	Index    *int             `json:"index,omitempty"`
	Children []*astJSONNode   `json:"children,omitempty"`
}

type astJSONPosition struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func position(p diag.Position) *astJSONPosition {
	if !p.IsValid() {
		return nil
	}
	return &astJSONPosition{Line: p.Line, Column: p.Column}
}

func (n *astJSONNode) add(children ...*astJSONNode) {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
}

func blockToJSON(role string, b *ast.Block) *astJSONNode {
	if b == nil {
		return nil
	}
	jn := &astJSONNode{Kind: "Block", Role: role}
	for _, f := range b.Funcs {
		fn := &astJSONNode{Kind: "Function", Pos: position(f.Pos), Name: f.Name, Names: f.Params}
		if f.IsAsync() {
			index := f.AsyncIndex
			fn.Index = &index
		}
		fn.add(blockToJSON("body", f.Body))
		jn.add(fn)
	}
	for _, c := range b.Classes {
		cn := &astJSONNode{Kind: "Class", Pos: position(c.Pos), Name: c.Name}
		if c.Base != "" {
			cn.Value = c.Base
		}
		cn.add(blockToJSON("body", c.Body))
		jn.add(cn)
	}
	for _, s := range b.Stmts {
		jn.add(stmtToJSON(s))
	}
	return jn
}

func stmtToJSON(s ast.Stmt) *astJSONNode {
	jn := &astJSONNode{Pos: position(s.Position())}
	switch s := s.(type) {
	case *ast.Arithmetic:
		jn.Kind = "Arithmetic"
		jn.add(exprToJSON("expr", s.Expr))
	case *ast.NameDef:
		jn.Kind = "NameDef"
		jn.Name = s.Name
		jn.add(exprToJSON("init", s.Init))
	case *ast.AttrSet:
		jn.Kind = "AttrSet"
		jn.Name = s.Attr
		jn.add(exprToJSON("object", s.Object), exprToJSON("value", s.Value))
	case *ast.Branch:
		jn.Kind = "Branch"
		jn.add(exprToJSON("cond", s.Cond), blockToJSON("consequence", s.Consequence), blockToJSON("alternative", s.Alternative))
	case *ast.BranchConsequenceOnly:
		jn.Kind = "BranchConsequenceOnly"
		jn.add(exprToJSON("cond", s.Cond), blockToJSON("consequence", s.Consequence))
	case *ast.BranchAlternativeOnly:
		jn.Kind = "BranchAlternativeOnly"
		jn.add(exprToJSON("cond", s.Cond), blockToJSON("alternative", s.Alternative))
	case *ast.Return:
		jn.Kind = "Return"
		jn.add(exprToJSON("value", s.Value))
	case *ast.Export:
		jn.Kind = "Export"
		jn.Names = s.Names
		jn.add(exprToJSON("value", s.Value))
	case *ast.Extern:
		jn.Kind = "Extern"
		jn.Names = s.Names
	case *ast.Try:
		jn.Kind = "Try"
		jn.Name = s.CatchName
		jn.add(blockToJSON("body", s.Body), blockToJSON("catch", s.Catch))
	}
	return jn
}

func exprToJSON(role string, e ast.Expr) *astJSONNode {
	if e == nil {
		return nil
	}
	jn := &astJSONNode{Role: role, Pos: position(e.Position())}
	switch e := e.(type) {
	case *ast.BadExpr:
		jn.Kind = "Bad"
	case *ast.Bool:
		jn.Kind = "Bool"
		jn.Value = e.Value
	case *ast.Int:
		jn.Kind = "Int"
		jn.Value = e.Value
	case *ast.Float:
		jn.Kind = "Float"
		jn.Value = e.Value
	case *ast.String:
		jn.Kind = "String"
		jn.Value = e.Value
	case *ast.Reference:
		jn.Kind = "Reference"
		jn.Name = e.Name
	case *ast.PipeElement:
		jn.Kind = "PipeElement"
	case *ast.PipeIndex:
		jn.Kind = "PipeIndex"
	case *ast.PipeKey:
		jn.Kind = "PipeKey"
	case *ast.BinaryOp:
		jn.Kind = "BinaryOp"
		jn.Op = e.Op
		jn.add(exprToJSON("lhs", e.Lhs), exprToJSON("rhs", e.Rhs))
	case *ast.PreUnaryOp:
		jn.Kind = "PreUnaryOp"
		jn.Op = e.Op
		jn.add(exprToJSON("rhs", e.Rhs))
	case *ast.MemberAccess:
		jn.Kind = "MemberAccess"
		jn.Name = e.Member
		jn.add(exprToJSON("object", e.Object))
	case *ast.Call:
		jn.Kind = "Call"
		jn.add(exprToJSON("callee", e.Callee))
		for _, arg := range e.Args {
			jn.add(exprToJSON("arg", arg))
		}
	case *ast.AsyncCall:
		jn.Kind = "AsyncCall"
		index := e.Index
		jn.Index = &index
		jn.Names = e.Params
		jn.add(exprToJSON("callee", e.Callee))
		for _, arg := range e.Args {
			jn.add(exprToJSON("arg", arg))
		}
	case *ast.Lookup:
		jn.Kind = "Lookup"
		jn.add(exprToJSON("collection", e.Collection), exprToJSON("key", e.Key))
	case *ast.Slice:
		jn.Kind = "Slice"
		jn.add(exprToJSON("collection", e.Collection), exprToJSON("begin", e.Begin),
			exprToJSON("end", e.End), exprToJSON("step", e.Step))
	case *ast.SliceDefault:
		jn.Kind = "SliceDefault"
	case *ast.List:
		jn.Kind = "List"
		for _, item := range e.Items {
			jn.add(exprToJSON("item", item))
		}
	case *ast.Dictionary:
		jn.Kind = "Dictionary"
		for _, item := range e.Items {
			jn.add(exprToJSON("key", item.Key), exprToJSON("value", item.Value))
		}
	case *ast.Lambda:
		jn.Kind = "Lambda"
		jn.Names = e.Params
		jn.add(blockToJSON("body", e.Body))
	case *ast.Pipeline:
		jn.Kind = "Pipeline"
		jn.Op = e.Op
		jn.add(exprToJSON("list", e.List), blockToJSON("section", e.Section))
	case *ast.AsyncPlaceholder:
		jn.Kind = "AsyncPlaceholder"
		jn.Names = e.Params
	}
	return jn
}
