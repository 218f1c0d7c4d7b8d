package parser

import (
	"fmt"
	"io"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/stekin/diag"
	"github.com/dhamidi/stekin/stekin/ast"
)

var log = commonlog.GetLogger("stekin.parser")

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithStartLine(line int) Option {
	return func(p *Parser) {
		p.startLine = line
	}
}

// WithReporter sends every diagnostic to r as well as to the returned list.
func WithReporter(r diag.Reporter) Option {
	return func(p *Parser) {
		p.forward = r
	}
}

type Parser struct {
	file      string
	startLine int
	forward   diag.Reporter
	diags     *diag.List
}

func newParser(opts []Option) *Parser {
	p := &Parser{startLine: 1, diags: diag.NewList()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) Report(d diag.Diagnostic) {
	p.diags.Report(d)
	if p.forward != nil {
		p.forward.Report(d)
	}
}

// Parse reads a whole stekin file and returns its top level block. Problems
// in the source are returned as diagnostics; the error is only set when r
// fails.
func Parse(r io.Reader, opts ...Option) (*ast.Block, *diag.List, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("reading source: %w", err)
	}
	block, diags := ParseBytes(src, opts...)
	return block, diags, nil
}

func ParseBytes(src []byte, opts ...Option) (*ast.Block, *diag.List) {
	p := newParser(opts)
	lx := NewLexer(src, p.file, p)
	lx.line = p.startLine
	b := NewBuilder(p)
	lines := 0
	for {
		line, ok := lx.NextLine()
		if !ok {
			break
		}
		b.AddTokens(line.Indent, line.Pos, line.Tokens)
		lines++
	}
	block := b.BuildAndClear(lx.Position())
	log.Debugf("parsed %s: %d lines, %d diagnostics", p.name(), lines, p.diags.Len())
	return block, p.diags
}

func (p *Parser) name() string {
	if p.file == "" {
		return "<input>"
	}
	return p.file
}
