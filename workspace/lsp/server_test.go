package lsp

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dhamidi/stekin/workspace"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestDiagnostics(t *testing.T) {
	ws := workspace.New(t.TempDir())
	f := ws.UpdateFile("d.stkn", []byte("x: )\nif a\n    b\nelse\n    c\nelse\n    d\n"))

	got := Diagnostics(f)
	if len(got) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %v", len(got), f.Diagnostics)
	}

	unexpected := got[0]
	if unexpected.Range.Start.Line != 0 || unexpected.Range.Start.Character != 3 {
		t.Errorf("range start = %+v, want 0:3", unexpected.Range.Start)
	}
	if unexpected.Range.End.Character != 4 {
		t.Errorf("range end = %+v, want 0:4", unexpected.Range.End)
	}
	if *unexpected.Severity != protocol.DiagnosticSeverityError {
		t.Errorf("severity = %v", *unexpected.Severity)
	}

	duplicate := got[1]
	if duplicate.Range.Start.Line != 5 {
		t.Errorf("duplicate else at line %d, want 5", duplicate.Range.Start.Line)
	}
	if len(duplicate.RelatedInformation) != 1 || duplicate.RelatedInformation[0].Location.Range.Start.Line != 3 {
		t.Errorf("related = %+v, want first else at line 3", duplicate.RelatedInformation)
	}
}

func TestDocumentSymbols(t *testing.T) {
	ws := workspace.New(t.TempDir())
	f := ws.UpdateFile("s.stkn", []byte("class Box\n    func open(key)\n        return key\nfunc main()\n    return 0\n"))

	symbols := DocumentSymbols(f)
	if len(symbols) != 2 {
		t.Fatalf("got %d symbols, want 2", len(symbols))
	}
	if symbols[0].Name != "main" || symbols[0].Kind != protocol.SymbolKindFunction {
		t.Errorf("first symbol = %s %v", symbols[0].Name, symbols[0].Kind)
	}
	if symbols[0].Range.Start.Line != 3 || symbols[0].Range.End.Character != 11 {
		t.Errorf("main range = %+v", symbols[0].Range)
	}

	box := symbols[1]
	if box.Kind != protocol.SymbolKindClass || len(box.Children) != 1 {
		t.Fatalf("second symbol = %+v", box)
	}
	if open := box.Children[0]; open.Name != "open" || open.Kind != protocol.SymbolKindMethod || *open.Detail != "(key)" {
		t.Errorf("method = %s %v %s", open.Name, open.Kind, *open.Detail)
	}
}

func TestURIConversion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir with space", "a.stkn")
	uri := pathToURI(path)
	back, err := uriToPath(uri)
	if err != nil {
		t.Fatal(err)
	}
	if back != path {
		t.Errorf("uriToPath(pathToURI(%q)) = %q", path, back)
	}
}

type published struct {
	uri   string
	count int
}

func TestDocumentLifecycle(t *testing.T) {
	dir := t.TempDir()
	s := NewServer("test")

	root := pathToURI(dir)
	if _, err := s.initialize(&glsp.Context{}, &protocol.InitializeParams{RootURI: &root}); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	var notes []published
	ctx := &glsp.Context{Notify: func(method string, params any) {
		if method != protocol.ServerTextDocumentPublishDiagnostics {
			return
		}
		p := params.(protocol.PublishDiagnosticsParams)
		notes = append(notes, published{p.URI, len(p.Diagnostics)})
	}}

	uri := pathToURI(filepath.Join(dir, "doc.stkn"))
	s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: "x: [1,\n"},
	})
	s.textDocumentDidChange(ctx, &protocol.DidChangeTextDocumentParams{
		TextDocument:   protocol.VersionedTextDocumentIdentifier{TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: uri}},
		ContentChanges: []any{protocol.TextDocumentContentChangeEventWhole{Text: "x: [1]\n"}},
	})

	if len(notes) != 2 {
		t.Fatalf("got %d notifications, want 2", len(notes))
	}
	if notes[0].uri != uri || notes[0].count == 0 {
		t.Errorf("first publish = %+v, want diagnostics for %s", notes[0], uri)
	}
	if notes[1].count != 0 {
		t.Errorf("second publish = %+v, want cleared diagnostics", notes[1])
	}

	result, _ := s.textDocumentDocumentSymbol(ctx, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if symbols, ok := result.([]protocol.DocumentSymbol); !ok || len(symbols) != 0 {
		t.Errorf("symbols = %#v, want none", result)
	}

	s.textDocumentDidClose(ctx, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	if last := notes[len(notes)-1]; last.count != 0 {
		t.Errorf("publish after close = %+v, want cleared diagnostics", last)
	}
	if s.workspace.File(filepath.Join(dir, "doc.stkn")) != nil {
		t.Error("closed unsaved document still in workspace")
	}
}

func TestOpenDocumentIgnoresDisk(t *testing.T) {
	dir := t.TempDir()
	s := NewServer("test")

	root := pathToURI(dir)
	if _, err := s.initialize(&glsp.Context{}, &protocol.InitializeParams{RootURI: &root}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	ctx := &glsp.Context{Notify: func(method string, params any) {}}
	if err := s.initialized(ctx, &protocol.InitializedParams{}); err != nil {
		t.Fatalf("initialized: %v", err)
	}
	defer s.shutdown(ctx)

	path := filepath.Join(dir, "doc.stkn")
	editorText := "func editor()\n    return 0\n"
	uri := pathToURI(path)
	s.textDocumentDidOpen(ctx, &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, Text: editorText},
	})

	if err := os.WriteFile(path, []byte("func disk()\n    return 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Events are handled in order, so once a later file shows up the write
	// above has been seen.
	marker := filepath.Join(dir, "marker.stkn")
	if err := os.WriteFile(marker, []byte("m: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for s.ws().File(marker) == nil {
		if time.Now().After(deadline) {
			t.Fatal("watcher did not pick up the marker file")
		}
		time.Sleep(10 * time.Millisecond)
	}

	f := s.ws().File(path)
	if f == nil || string(f.Content) != editorText {
		t.Fatalf("workspace holds %+v, want the editor text", f)
	}
	result, _ := s.textDocumentDocumentSymbol(ctx, &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: uri},
	})
	symbols, ok := result.([]protocol.DocumentSymbol)
	if !ok || len(symbols) != 1 || symbols[0].Name != "editor" {
		t.Errorf("symbols = %#v, want editor", result)
	}
}
