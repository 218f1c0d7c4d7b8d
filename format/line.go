package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/stekin/stekin/ast"
)

// LineEncoder writes an outline of a module, one tab separated line per
// definition: kind, qualified name, detail and line number.
type LineEncoder struct {
	w     io.Writer
	block *ast.Block
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(block *ast.Block) error {
	e.block = block
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	e.outline(&sb, "", e.block, false)
	return []byte(sb.String()), nil
}

func (e *LineEncoder) outline(sb *strings.Builder, prefix string, b *ast.Block, inClass bool) {
	if b == nil {
		return
	}

	for _, f := range b.Funcs {
		kind := "func"
		if inClass {
			kind = "method"
		}
		fmt.Fprintf(sb, "%s\t%s%s\t%s\t%d\n", kind, prefix, f.Name, e.paramsStr(f), f.Pos.Line)
	}

	for _, c := range b.Classes {
		base := c.Base
		if base == "" {
			base = "-"
		}
		fmt.Fprintf(sb, "class\t%s%s\t%s\t%d\n", prefix, c.Name, base, c.Pos.Line)
		e.outline(sb, prefix+c.Name+".", c.Body, true)
	}

	for _, s := range b.Stmts {
		switch s := s.(type) {
		case *ast.NameDef:
			fmt.Fprintf(sb, "name\t%s%s\t-\t%d\n", prefix, s.Name, s.Pos.Line)
		case *ast.Export:
			fmt.Fprintf(sb, "export\t%s\t-\t%d\n", strings.Join(s.Names, "."), s.Pos.Line)
		case *ast.Extern:
			fmt.Fprintf(sb, "extern\t%s\t-\t%d\n", strings.Join(s.Names, ","), s.Pos.Line)
		}
	}
}

func (e *LineEncoder) paramsStr(f *ast.Function) string {
	params := f.Params
	if f.IsAsync() {
		params = insertAt(params, f.AsyncIndex, "%")
	}
	if len(params) == 0 {
		return "-"
	}
	return strings.Join(params, ",")
}
