package workspace

import (
	"strings"

	"github.com/dhamidi/stekin/diag"
	"github.com/dhamidi/stekin/stekin/ast"
)

type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolMethod
	SymbolClass
)

var symbolKindNames = map[SymbolKind]string{
	SymbolFunction: "function",
	SymbolMethod:   "method",
	SymbolClass:    "class",
}

func (k SymbolKind) String() string {
	if name, ok := symbolKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Symbol is a function or class definition. Classes carry their methods as
// children; functions carry the functions nested in their bodies.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Detail   string
	Pos      diag.Position
	Children []Symbol
}

// Symbols lists the definitions of the file at path, or nil if the file is
// unknown.
func (w *Workspace) Symbols(path string) []Symbol {
	f := w.File(path)
	if f == nil {
		return nil
	}
	return BlockSymbols(f.Root, false)
}

// BlockSymbols lists the functions and classes defined directly in b and,
// recursively, inside their bodies.
func BlockSymbols(b *ast.Block, inClass bool) []Symbol {
	if b == nil {
		return nil
	}
	var symbols []Symbol
	for _, fn := range b.Funcs {
		kind := SymbolFunction
		if inClass {
			kind = SymbolMethod
		}
		symbols = append(symbols, Symbol{
			Name:     fn.Name,
			Kind:     kind,
			Detail:   signature(fn),
			Pos:      fn.Pos,
			Children: BlockSymbols(fn.Body, false),
		})
	}
	for _, c := range b.Classes {
		detail := ""
		if c.Base != "" {
			detail = "(" + c.Base + ")"
		}
		symbols = append(symbols, Symbol{
			Name:     c.Name,
			Kind:     SymbolClass,
			Detail:   detail,
			Pos:      c.Pos,
			Children: BlockSymbols(c.Body, true),
		})
	}
	return symbols
}

func signature(fn *ast.Function) string {
	params := append([]string(nil), fn.Params...)
	if fn.IsAsync() && fn.AsyncIndex <= len(params) {
		params = append(params[:fn.AsyncIndex], append([]string{"%"}, params[fn.AsyncIndex:]...)...)
	}
	return "(" + strings.Join(params, ", ") + ")"
}
