package parser

import (
	"github.com/dhamidi/stekin/diag"
	"github.com/dhamidi/stekin/stekin/ast"
)

// Builder nests per-line token batches into clauses by indentation. A
// Builder reads one file: once BuildAndClear returned, it ignores further
// input.
type Builder struct {
	reporter diag.Reporter
	clauses  []clause
	done     bool
}

func NewBuilder(r diag.Reporter) *Builder {
	root := &rootClause{}
	root.init(Position{}, r)
	root.indent = -1
	return &Builder{reporter: r, clauses: []clause{root}}
}

func (b *Builder) top() *clauseBase {
	return b.clauses[len(b.clauses)-1].base()
}

func (b *Builder) report(d diag.Diagnostic) {
	b.reporter.Report(d)
}

// AddTokens feeds one source line: its indentation, the position of its first
// token and its tokens. Empty batches are ignored.
func (b *Builder) AddTokens(indent int, pos Position, tokens []Token) {
	if b.done || len(tokens) == 0 {
		return
	}
	b.shrink(indent, pos, false)

	cb := b.top()
	if cb.awaitingBlock {
		if indent > cb.lastIndent {
			b.open(&blockReceiverClause{}, cb.lastIndent, pos)
			cb = b.top()
		} else {
			b.abandonBlock(cb, false)
		}
	}
	if cb.memberIndent < 0 {
		cb.memberIndent = indent
	} else if indent != cb.memberIndent {
		b.report(diag.Diagnostic{Kind: diag.InvalidIndent, Pos: pos})
	}
	cb.lastIndent = indent

	first := tokens[0]
	if first.Kind == TokenKeyword {
		switch first.Keyword {
		case KeywordElse:
			cb.settleTry(b.reporter)
			b.acceptElse(cb, indent, first, tokens[1:])
			return
		case KeywordCatch:
			cb.settleBranch()
			b.acceptCatch(cb, indent, first, tokens[1:])
			return
		}
	}
	cb.settle(b.reporter)
	b.feedLine(cb, indent, tokens)
}

// shrink closes every clause the line at indent is no longer part of.
func (b *Builder) shrink(indent int, pos Position, eof bool) {
	for len(b.clauses) > 1 && indent <= b.top().indent {
		b.closeTop(pos, eof)
	}
}

func (b *Builder) closeTop(pos Position, eof bool) {
	c := b.clauses[len(b.clauses)-1]
	cb := c.base()
	if cb.awaitingBlock {
		b.abandonBlock(cb, eof)
	}
	if _, discard := c.(*discardClause); !discard && cb.memberIndent < 0 {
		if eof {
			b.report(diag.Diagnostic{Kind: diag.UnexpectedEOF, Pos: pos})
		} else {
			b.report(diag.Diagnostic{Kind: diag.MissingBody, Pos: cb.pos})
		}
	}
	cb.settle(b.reporter)
	b.clauses = b.clauses[:len(b.clauses)-1]
	parent := b.top()
	c.deliver(parent)
	b.openPending(parent, parent.lastIndent)
}

// abandonBlock drops a line that waited for an indented block which never
// came.
func (b *Builder) abandonBlock(cb *clauseBase, eof bool) {
	if eof {
		b.report(diag.Diagnostic{Kind: diag.UnexpectedEOF, Pos: cb.awaitPos})
	} else {
		b.report(diag.Diagnostic{Kind: diag.MissingBody, Pos: cb.awaitPos})
	}
	cb.awaitingBlock = false
	cb.pendingOpen = nil
	cb.stack.reset()
}

func (b *Builder) open(c clause, indent int, pos Position) {
	cb := c.base()
	cb.init(pos, b.reporter)
	cb.indent = indent
	b.clauses = append(b.clauses, c)
}

func (b *Builder) openPending(cb *clauseBase, indent int) {
	c := cb.pendingOpen
	if c == nil {
		return
	}
	cb.pendingOpen = nil
	b.open(c, indent, cb.pendingPos)
}

func (b *Builder) feedLine(cb *clauseBase, indent int, tokens []Token) {
	s := cb.stack
	if !s.empty() {
		s.reset()
	}
	first := tokens[0]
	rest := tokens
	if first.Kind == TokenKeyword {
		rest = tokens[1:]
		switch first.Keyword {
		case KeywordIf:
			s.push(newReceiver(first.Pos, ifHeader(false)))
		case KeywordIfnot:
			s.push(newReceiver(first.Pos, ifHeader(true)))
		case KeywordFunc:
			s.push(newReceiver(first.Pos, funcHeader))
		case KeywordClass:
			s.push(newReceiver(first.Pos, classHeader))
		case KeywordTry:
			if len(rest) > 0 {
				s.unexpected(rest[0])
				break
			}
			cb.openClause(first.Pos, &tryClause{})
		case KeywordReturn:
			s.push(newReturn(first.Pos))
		case KeywordExport:
			s.push(newExport(first.Pos))
		case KeywordExtern:
			s.push(newExtern(first.Pos))
		default:
			s.unexpected(first)
		}
	} else {
		s.push(newExprStmt(first.Pos))
	}
	s.feed(rest)
	if !cb.tryFinish(lineEnd(tokens)) {
		cb.pendingOpen = nil
		b.open(&discardClause{}, indent, first.Pos)
		return
	}
	b.openPending(cb, indent)
}

// acceptElse attaches an else to the if closed right before it.
func (b *Builder) acceptElse(cb *clauseBase, indent int, t Token, rest []Token) {
	if len(rest) > 0 {
		b.report(diag.Diagnostic{Kind: diag.UnexpectedToken, Pos: rest[0].Pos, Image: rest[0].Image})
	}
	br := cb.lastBranch
	switch {
	case br == nil:
		b.report(diag.Diagnostic{Kind: diag.ElseNotMatchIf, Pos: t.Pos})
		b.open(&discardClause{}, indent, t.Pos)
	case br.hasElse:
		b.report(diag.Diagnostic{Kind: diag.IfAlreadyMatchElse, Pos: t.Pos, Other: br.elsePos})
		b.open(&discardClause{}, indent, t.Pos)
	default:
		br.hasElse = true
		br.elsePos = t.Pos
		b.open(&elseClause{branch: br}, indent, t.Pos)
	}
}

// acceptCatch attaches a catch, optionally naming the error, to the try
// closed right before it.
func (b *Builder) acceptCatch(cb *clauseBase, indent int, t Token, rest []Token) {
	name := ""
	switch {
	case len(rest) == 0:
	case len(rest) == 1 && isReference(rest[0]):
		name = rest[0].Image
	default:
		bad := rest[0]
		if len(rest) > 1 && isReference(bad) {
			bad = rest[1]
		}
		b.report(diag.Diagnostic{Kind: diag.UnexpectedToken, Pos: bad.Pos, Image: bad.Image})
	}
	tr := cb.lastTry
	switch {
	case tr == nil:
		b.report(diag.Diagnostic{Kind: diag.CatchNotMatchTry, Pos: t.Pos})
		b.open(&discardClause{}, indent, t.Pos)
	case tr.hasCatch:
		b.report(diag.Diagnostic{Kind: diag.TryAlreadyMatchCatch, Pos: t.Pos, Other: tr.catchPos})
		b.open(&discardClause{}, indent, t.Pos)
	default:
		tr.hasCatch = true
		tr.catchPos = t.Pos
		tr.catchName = name
		b.open(&catchClause{try: tr}, indent, t.Pos)
	}
}

func isReference(t Token) bool {
	_, ok := t.Factor.(*ast.Reference)
	return t.Kind == TokenFactor && ok
}

// BuildAndClear closes every open clause as if the file ended at eof and
// returns the top level block. Clauses that cannot end there are reported as
// an unexpected end of file; everything assembled so far is still returned.
func (b *Builder) BuildAndClear(eof Position) *ast.Block {
	if b.done {
		return nil
	}
	b.done = true
	b.shrink(-1, eof, true)
	root := b.top()
	if root.awaitingBlock {
		b.abandonBlock(root, true)
	}
	root.settle(b.reporter)
	block := root.block
	b.clauses = nil
	return block
}

// lineEnd is the position just past the last token of a line.
func lineEnd(tokens []Token) Position {
	last := tokens[len(tokens)-1]
	end := last.Pos
	end.Column += len(last.Image)
	return end
}
