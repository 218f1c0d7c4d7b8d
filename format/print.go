package format

import (
	"bytes"
	"io"
	"strings"

	"github.com/dhamidi/stekin/stekin/ast"
)

// PrettyPrinter writes a Block back out as stekin source. Nested operations
// are parenthesized, so the output parses to the same tree whatever the
// precedence of the operators involved.
type PrettyPrinter struct {
	w         io.Writer
	buf       bytes.Buffer
	indent    int
	indentStr string
	// tail is the body of a lambda or pipeline that has to continue on the
	// indented lines after the current one.
	tail *ast.Block
}

func NewPrettyPrinter(w io.Writer) *PrettyPrinter {
	return &PrettyPrinter{w: w, indentStr: "    "}
}

// Print pretty prints b into a new buffer.
func Print(b *ast.Block) []byte {
	var buf bytes.Buffer
	NewPrettyPrinter(&buf).Print(b)
	return buf.Bytes()
}

func (p *PrettyPrinter) Print(b *ast.Block) error {
	p.buf.Reset()
	p.indent = 0
	p.printBlock(b)
	_, err := p.w.Write(p.buf.Bytes())
	return err
}

func (p *PrettyPrinter) line(text string) {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString(p.indentStr)
	}
	p.buf.WriteString(text)
	p.buf.WriteByte('\n')
}

func (p *PrettyPrinter) body(b *ast.Block) {
	p.indent++
	p.printBlock(b)
	p.indent--
}

func (p *PrettyPrinter) printBlock(b *ast.Block) {
	if b == nil {
		return
	}
	for _, f := range b.Funcs {
		p.printFunction(f)
	}
	for _, c := range b.Classes {
		p.printClass(c)
	}
	for _, s := range b.Stmts {
		p.printStmt(s)
	}
}

func (p *PrettyPrinter) printFunction(f *ast.Function) {
	params := f.Params
	if f.IsAsync() {
		params = insertAt(params, f.AsyncIndex, "%")
	}
	p.line("func " + f.Name + "(" + strings.Join(params, ", ") + ")")
	p.body(f.Body)
}

func (p *PrettyPrinter) printClass(c *ast.Class) {
	header := "class " + c.Name
	if c.Base != "" {
		header += "(" + c.Base + ")"
	}
	p.line(header)
	p.body(c.Body)
}

func (p *PrettyPrinter) printStmt(s ast.Stmt) {
	switch s := s.(type) {
	case *ast.Arithmetic:
		p.exprLine("", s.Expr)
	case *ast.NameDef:
		p.exprLine(s.Name+": ", s.Init)
	case *ast.AttrSet:
		p.exprLine(p.operand(s.Object)+"."+s.Attr+": ", s.Value)
	case *ast.Branch:
		p.line("if " + p.expr(s.Cond))
		p.body(s.Consequence)
		p.line("else")
		p.body(s.Alternative)
	case *ast.BranchConsequenceOnly:
		p.line("if " + p.expr(s.Cond))
		p.body(s.Consequence)
	case *ast.BranchAlternativeOnly:
		p.line("ifnot " + p.expr(s.Cond))
		p.body(s.Alternative)
	case *ast.Return:
		if s.Value == nil {
			p.line("return")
			return
		}
		p.exprLine("return ", s.Value)
	case *ast.Export:
		p.exprLine("export "+strings.Join(s.Names, ".")+": ", s.Value)
	case *ast.Extern:
		p.line("extern " + strings.Join(s.Names, ", "))
	case *ast.Try:
		p.line("try")
		p.body(s.Body)
		if s.CatchName != "" {
			p.line("catch " + s.CatchName)
		} else {
			p.line("catch")
		}
		p.body(s.Catch)
	}
}

// exprLine writes one statement line and then any block its expression left
// open.
func (p *PrettyPrinter) exprLine(prefix string, e ast.Expr) {
	p.line(prefix + p.expr(e))
	if tail := p.tail; tail != nil {
		p.tail = nil
		p.body(tail)
	}
}

func (p *PrettyPrinter) expr(e ast.Expr) string {
	switch e := e.(type) {
	case nil, *ast.BadExpr:
		return "()"
	case *ast.Bool:
		if e.Value {
			return "true"
		}
		return "false"
	case *ast.Int:
		return e.Image
	case *ast.Float:
		return e.Image
	case *ast.String:
		return quote(e.Value)
	case *ast.Reference:
		return e.Name
	case *ast.PipeElement, *ast.PipeIndex, *ast.PipeKey:
		return e.String()
	case *ast.SliceDefault:
		return ""
	case *ast.BinaryOp:
		return p.operand(e.Lhs) + " " + e.Op + " " + p.operand(e.Rhs)
	case *ast.PreUnaryOp:
		if e.Op == "typeof" {
			return "typeof " + p.operand(e.Rhs)
		}
		return e.Op + p.operand(e.Rhs)
	case *ast.MemberAccess:
		return p.operand(e.Object) + "." + e.Member
	case *ast.Call:
		return p.operand(e.Callee) + "(" + p.exprs(e.Args) + ")"
	case *ast.AsyncCall:
		placeholder := "%"
		if len(e.Params) > 0 {
			placeholder += "(" + strings.Join(e.Params, ", ") + ")"
		}
		args := make([]string, 0, len(e.Args)+1)
		for _, arg := range e.Args {
			args = append(args, p.expr(arg))
		}
		return p.operand(e.Callee) + "(" + strings.Join(insertAt(args, e.Index, placeholder), ", ") + ")"
	case *ast.Lookup:
		return p.operand(e.Collection) + "[" + p.expr(e.Key) + "]"
	case *ast.Slice:
		parts := []string{p.expr(e.Begin), p.expr(e.End)}
		if _, ok := e.Step.(*ast.SliceDefault); !ok {
			parts = append(parts, p.expr(e.Step))
		}
		return p.operand(e.Collection) + "[" + strings.Join(parts, ", ") + "]"
	case *ast.List:
		return "[" + p.exprs(e.Items) + "]"
	case *ast.Dictionary:
		items := make([]string, len(e.Items))
		for i, item := range e.Items {
			items[i] = p.expr(item.Key) + ": " + p.expr(item.Value)
		}
		return "{" + strings.Join(items, ", ") + "}"
	case *ast.Lambda:
		return "(" + strings.Join(e.Params, ", ") + "):" + p.section(e.Body)
	case *ast.Pipeline:
		return p.operand(e.List) + " " + e.Op + p.section(e.Section)
	case *ast.AsyncPlaceholder:
		if len(e.Params) > 0 {
			return "%(" + strings.Join(e.Params, ", ") + ")"
		}
		return "%"
	}
	return "()"
}

// operand renders e where it is bound by an enclosing operator.
func (p *PrettyPrinter) operand(e ast.Expr) string {
	switch e.(type) {
	case *ast.BinaryOp, *ast.PreUnaryOp, *ast.Lambda, *ast.Pipeline:
		return "(" + p.expr(e) + ")"
	}
	return p.expr(e)
}

func (p *PrettyPrinter) exprs(es []ast.Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = p.expr(e)
	}
	return strings.Join(parts, ", ")
}

// section renders the body of a lambda or pipeline: inline when it is a
// single returned expression, otherwise as a block after the current line.
func (p *PrettyPrinter) section(b *ast.Block) string {
	if e, ok := returnedExpr(b); ok {
		return " " + p.expr(e)
	}
	if p.tail == nil {
		p.tail = b
	}
	return ""
}

func returnedExpr(b *ast.Block) (ast.Expr, bool) {
	if b == nil || len(b.Funcs) > 0 || len(b.Classes) > 0 || len(b.Stmts) != 1 {
		return nil, false
	}
	ret, ok := b.Stmts[0].(*ast.Return)
	if !ok || ret.Value == nil {
		return nil, false
	}
	return ret.Value, true
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(ch)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(ch)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func insertAt(items []string, index int, item string) []string {
	if index < 0 || index > len(items) {
		index = len(items)
	}
	out := make([]string, 0, len(items)+1)
	out = append(out, items[:index]...)
	out = append(out, item)
	return append(out, items[index:]...)
}

// Encode prints b; it makes PrettyPrinter an Encoder.
func (p *PrettyPrinter) Encode(b *ast.Block) error {
	return p.Print(b)
}
