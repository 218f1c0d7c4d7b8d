package lsp

import (
	"bytes"

	"github.com/dhamidi/stekin/diag"
	"github.com/dhamidi/stekin/workspace"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Diagnostics converts the diagnostics of f to protocol form. Protocol
// positions are zero-based; a diagnostic covers its token image, or a single
// character when it has none.
func Diagnostics(f *workspace.File) []protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName

	out := make([]protocol.Diagnostic, 0, len(f.Diagnostics))
	for _, d := range f.Diagnostics {
		width := len(d.Image)
		if width == 0 {
			width = 1
		}
		pd := protocol.Diagnostic{
			Range:    toRange(d.Pos, width),
			Severity: &severity,
			Source:   &source,
			Message:  d.Message(),
		}
		if d.Other.IsValid() {
			pd.RelatedInformation = []protocol.DiagnosticRelatedInformation{{
				Location: protocol.Location{URI: pathToURI(f.Path), Range: toRange(d.Other, 1)},
				Message:  "first occurrence",
			}}
		}
		out = append(out, pd)
	}
	return out
}

// DocumentSymbols lists the definitions of f. A symbol's range spans its
// header line.
func DocumentSymbols(f *workspace.File) []protocol.DocumentSymbol {
	return toDocumentSymbols(f.Content, workspace.BlockSymbols(f.Root, false))
}

func toDocumentSymbols(content []byte, symbols []workspace.Symbol) []protocol.DocumentSymbol {
	out := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, sym := range symbols {
		detail := sym.Detail
		full := toRange(sym.Pos, lineRest(content, sym.Pos))
		out = append(out, protocol.DocumentSymbol{
			Name:           sym.Name,
			Detail:         &detail,
			Kind:           symbolKind(sym.Kind),
			Range:          full,
			SelectionRange: full,
			Children:       toDocumentSymbols(content, sym.Children),
		})
	}
	return out
}

func symbolKind(k workspace.SymbolKind) protocol.SymbolKind {
	switch k {
	case workspace.SymbolMethod:
		return protocol.SymbolKindMethod
	case workspace.SymbolClass:
		return protocol.SymbolKindClass
	default:
		return protocol.SymbolKindFunction
	}
}

func toRange(pos diag.Position, width int) protocol.Range {
	start := toPosition(pos)
	end := start
	end.Character += protocol.UInteger(width)
	return protocol.Range{Start: start, End: end}
}

func toPosition(pos diag.Position) protocol.Position {
	line, column := pos.Line-1, pos.Column-1
	if line < 0 {
		line = 0
	}
	if column < 0 {
		column = 0
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(column)}
}

// lineRest is the number of bytes from pos to the end of its line.
func lineRest(content []byte, pos diag.Position) int {
	lines := bytes.Split(content, []byte("\n"))
	if pos.Line < 1 || pos.Line > len(lines) {
		return 1
	}
	line := bytes.TrimRight(lines[pos.Line-1], "\r")
	if rest := len(line) - (pos.Column - 1); rest > 0 {
		return rest
	}
	return 1
}
