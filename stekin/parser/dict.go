package parser

import (
	"github.com/dhamidi/stekin/diag"
	"github.com/dhamidi/stekin/stekin/ast"
)

type dictState int

const (
	dictKey dictState = iota
	dictKeyDone
	dictValue
	dictValueDone
)

type dictEntry struct {
	key, value       ast.Expr
	keyPos, valuePos Position
}

// dictAutomaton parses `{k: v, name:: v}`. Entries keep source order and
// duplicate keys are kept as written.
type dictAutomaton struct {
	automatonBase
	pos     Position
	state   dictState
	entries []dictEntry
	cur     dictEntry
}

func newDict(pos Position) *dictAutomaton {
	return &dictAutomaton{pos: pos}
}

func (d *dictAutomaton) activated(s *Stack) {
	s.push(newArith())
}

func (d *dictAutomaton) accepted(s *Stack, pos Position, e ast.Expr) {
	switch d.state {
	case dictKey:
		d.cur = dictEntry{key: e, keyPos: pos}
		if e != nil {
			d.cur.keyPos = e.Position()
		}
		d.state = dictKeyDone
	case dictValue:
		d.cur.value = e
		d.cur.valuePos = pos
		if e != nil {
			d.cur.valuePos = e.Position()
		}
		d.state = dictValueDone
	}
}

func (d *dictAutomaton) pushColon(s *Stack, t Token) {
	if d.state != dictKeyDone {
		s.unexpected(t)
		return
	}
	d.state = dictValue
	s.push(newArith())
}

func (d *dictAutomaton) pushPropertySeparator(s *Stack, t Token) {
	if d.state != dictKeyDone {
		s.unexpected(t)
		return
	}
	switch key := d.cur.key.(type) {
	case nil:
	case *ast.Reference:
		d.cur.key = &ast.String{Pos: key.Pos, Value: key.Name}
	default:
		s.report(diag.Diagnostic{Kind: diag.InvalidName, Pos: key.Position(), Image: key.String()})
		d.cur.key = &ast.BadExpr{Pos: key.Position()}
	}
	d.state = dictValue
	s.push(newArith())
}

func (d *dictAutomaton) pushComma(s *Stack, t Token) {
	if d.state != dictValueDone {
		s.unexpected(t)
		return
	}
	d.entries = append(d.entries, d.cur)
	d.state = dictKey
	s.push(newArith())
}

func (d *dictAutomaton) matchCloser(s *Stack, t Token) {
	if t.Image != "}" {
		s.unexpected(t)
		return
	}
	switch d.state {
	case dictValueDone:
		d.entries = append(d.entries, d.cur)
	case dictKeyDone:
		// `{}` or a trailing comma; a key without a colon is an error.
		if d.cur.key != nil {
			s.unexpected(t)
			return
		}
	default:
		s.unexpected(t)
		return
	}
	items := make([]ast.DictItem, len(d.entries))
	for i, en := range d.entries {
		items[i] = ast.DictItem{
			Key:   d.nonEmpty(s, en.key, en.keyPos),
			Value: d.nonEmpty(s, en.value, en.valuePos),
		}
	}
	s.reduceExpr(d.pos, &ast.Dictionary{Pos: d.pos, Items: items})
}

func (d *dictAutomaton) nonEmpty(s *Stack, e ast.Expr, pos Position) ast.Expr {
	if e != nil {
		return e
	}
	s.report(diag.Diagnostic{Kind: diag.EmptyExpr, Pos: pos})
	return &ast.BadExpr{Pos: pos}
}
