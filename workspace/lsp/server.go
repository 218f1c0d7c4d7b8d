// Package lsp serves a Workspace over the Language Server Protocol: parse
// diagnostics are published as documents change, and document symbols list
// the functions and classes of a file.
package lsp

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhamidi/stekin/workspace"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "stekin"

var log = commonlog.GetLogger("stekin.lsp")

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string

	mu        sync.Mutex
	workspace *workspace.Workspace
	watcher   *workspace.Watcher
	stopWatch context.CancelFunc
	notify    glsp.NotifyFunc
	// open holds the documents the editor owns; disk events do not override
	// their text.
	open map[string]bool
}

func NewServer(version string) *Server {
	s := &Server{
		version: version,
		open:    make(map[string]bool),
	}

	s.handler = protocol.Handler{
		Initialize:                 s.initialize,
		Initialized:                s.initialized,
		Shutdown:                   s.shutdown,
		SetTrace:                   s.setTrace,
		TextDocumentDidOpen:        s.textDocumentDidOpen,
		TextDocumentDidChange:      s.textDocumentDidChange,
		TextDocumentDidClose:       s.textDocumentDidClose,
		TextDocumentDidSave:        s.textDocumentDidSave,
		TextDocumentDocumentSymbol: s.textDocumentDocumentSymbol,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	rootDir := "."
	if params.RootURI != nil && *params.RootURI != "" {
		if path, err := uriToPath(*params.RootURI); err == nil {
			rootDir = path
		}
	} else if params.RootPath != nil && *params.RootPath != "" {
		rootDir = *params.RootPath
	}
	log.Infof("initialize %s", rootDir)

	s.mu.Lock()
	s.workspace = workspace.New(rootDir)
	s.mu.Unlock()

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	s.mu.Lock()
	s.notify = ctx.Notify
	ws := s.workspace
	s.mu.Unlock()

	if err := ws.ScanAll(); err != nil {
		log.Errorf("%s", err)
		return nil
	}
	for _, f := range ws.Files() {
		s.publish(f.Path, f)
	}

	watcher, err := workspace.NewWatcher(ws)
	if err != nil {
		log.Errorf("%s", err)
		return nil
	}
	watcher.OnChange = s.diskChanged
	watcher.Skip = s.isOpen
	watchCtx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	s.watcher = watcher
	s.stopWatch = cancel
	s.mu.Unlock()

	go watcher.Run(watchCtx)
	return nil
}

// isOpen reports whether the editor owns the text of path.
func (s *Server) isOpen(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open[path]
}

func (s *Server) diskChanged(path string, f *workspace.File) {
	if s.isOpen(path) {
		return
	}
	s.publish(path, f)
}

// ws returns the workspace set up by initialize.
func (s *Server) ws() *workspace.Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workspace
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopWatch != nil {
		s.stopWatch()
		s.watcher.Close()
		s.stopWatch = nil
	}
	log.Info("shutdown")
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	s.mu.Lock()
	s.open[path] = true
	s.mu.Unlock()

	s.update(ctx, path, []byte(params.TextDocument.Text))
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if len(params.ContentChanges) > 0 {
		change := params.ContentChanges[len(params.ContentChanges)-1]
		if textChange, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.update(ctx, path, []byte(textChange.Text))
		}
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	s.mu.Lock()
	delete(s.open, path)
	ws := s.workspace
	s.mu.Unlock()

	// The file on disk is the truth again.
	f, err := ws.ScanFile(path)
	if err != nil {
		ws.RemoveFile(path)
	}
	s.publishWith(ctx.Notify, path, f)
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil
	}
	if params.Text != nil {
		s.update(ctx, path, []byte(*params.Text))
		return nil
	}
	if f, err := s.ws().ScanFile(path); err == nil {
		s.publishWith(ctx.Notify, path, f)
	}
	return nil
}

func (s *Server) update(ctx *glsp.Context, path string, content []byte) {
	ws := s.ws()
	if ws.Unchanged(path, content) {
		return
	}
	f := ws.UpdateFile(path, content)
	s.publishWith(ctx.Notify, path, f)
}

func (s *Server) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return nil, nil
	}
	f := s.ws().File(path)
	if f == nil {
		return nil, nil
	}
	return DocumentSymbols(f), nil
}

func (s *Server) publish(path string, f *workspace.File) {
	s.mu.Lock()
	notify := s.notify
	s.mu.Unlock()
	s.publishWith(notify, path, f)
}

// publishWith sends the diagnostics of f, or clears them when f is nil.
func (s *Server) publishWith(notify glsp.NotifyFunc, path string, f *workspace.File) {
	if notify == nil {
		return
	}
	diagnostics := []protocol.Diagnostic{}
	if f != nil {
		diagnostics = Diagnostics(f)
	}
	log.Debugf("publish %d diagnostics for %s", len(diagnostics), path)
	notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         pathToURI(path),
		Diagnostics: diagnostics,
	})
}

func uriToPath(uri string) (string, error) {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return "", err
		}
		return filepath.Clean(parsed.Path), nil
	}
	return uri, nil
}

func pathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
