// Package diag carries source positions and the diagnostics reported while
// reading stekin source. Diagnostics are values, not Go errors: the front end
// keeps going after reporting one so that later problems surface too.
package diag

import (
	"fmt"
	"sort"
	"strings"
)

type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before orders positions by line, then column. File names are ignored.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

func (p Position) IsValid() bool {
	return p.Line > 0
}

type Kind int

const (
	UnexpectedToken Kind = iota
	UnexpectedEOL
	UnexpectedEOF
	InvalidChar
	TabAsIndent
	InvalidIndent
	ElseNotMatchIf
	IfAlreadyMatchElse
	CatchNotMatchTry
	TryAlreadyMatchCatch
	TryWithoutCatch
	MissingBody
	InvalidName
	InvalidLeftValue
	EmptyExpr
	ExcessiveExpr
	EmptyLookupKey
	SliceStepOmitted
	TooManySliceParts
	MoreThanOneAsyncPlaceholder
	AsyncPlaceholderOutsideCall
	InvalidBlockValue
	InvalidEscape
	NumberOutOfRange
)

var kindNames = map[Kind]string{
	UnexpectedToken:             "unexpected-token",
	UnexpectedEOL:               "unexpected-eol",
	UnexpectedEOF:               "unexpected-eof",
	InvalidChar:                 "invalid-char",
	TabAsIndent:                 "tab-as-indent",
	InvalidIndent:               "invalid-indent",
	ElseNotMatchIf:              "else-not-match-if",
	IfAlreadyMatchElse:          "if-already-match-else",
	CatchNotMatchTry:            "catch-not-match-try",
	TryAlreadyMatchCatch:        "try-already-match-catch",
	TryWithoutCatch:             "try-without-catch",
	MissingBody:                 "missing-body",
	InvalidName:                 "invalid-name",
	InvalidLeftValue:            "invalid-left-value",
	EmptyExpr:                   "empty-expr",
	ExcessiveExpr:               "excessive-expr",
	EmptyLookupKey:              "empty-lookup-key",
	SliceStepOmitted:            "slice-step-omitted",
	TooManySliceParts:           "too-many-slice-parts",
	MoreThanOneAsyncPlaceholder: "more-than-one-async-placeholder",
	AsyncPlaceholderOutsideCall: "async-placeholder-outside-call",
	InvalidBlockValue:           "invalid-block-value",
	InvalidEscape:               "invalid-escape",
	NumberOutOfRange:            "number-out-of-range",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Diagnostic is one reported problem. Other holds the second position for
// kinds that relate two constructs (duplicate else, second placeholder).
// Image holds the offending token image or name, if any.
type Diagnostic struct {
	Kind  Kind
	Pos   Position
	Other Position
	Image string
}

func (d Diagnostic) Message() string {
	switch d.Kind {
	case UnexpectedToken:
		return fmt.Sprintf("unexpected token: %s", d.Image)
	case UnexpectedEOL:
		return "unexpected end of line"
	case UnexpectedEOF:
		return "unexpected end of file"
	case InvalidChar:
		return fmt.Sprintf("invalid character %q", d.Image)
	case TabAsIndent:
		return "tab used as indentation"
	case InvalidIndent:
		return "invalid indentation"
	case ElseNotMatchIf:
		return "else does not match any if"
	case IfAlreadyMatchElse:
		return fmt.Sprintf("if already has else matched at %s", d.Other)
	case CatchNotMatchTry:
		return "catch does not match any try"
	case TryAlreadyMatchCatch:
		return fmt.Sprintf("try already has catch matched at %s", d.Other)
	case TryWithoutCatch:
		return "try without matching catch"
	case MissingBody:
		return "expected an indented body"
	case InvalidName:
		return fmt.Sprintf("invalid name: %s", d.Image)
	case InvalidLeftValue:
		return "invalid left value"
	case EmptyExpr:
		return "invalid empty expression"
	case ExcessiveExpr:
		return "excessive expression in parentheses"
	case EmptyLookupKey:
		return "empty lookup key"
	case SliceStepOmitted:
		return "slice step omitted"
	case TooManySliceParts:
		return "too many slice parts"
	case MoreThanOneAsyncPlaceholder:
		return fmt.Sprintf("more than one async placeholder, first at %s", d.Other)
	case AsyncPlaceholderOutsideCall:
		return "async placeholder outside of call arguments"
	case InvalidBlockValue:
		return "indented block does not hold a single expression"
	case InvalidEscape:
		return fmt.Sprintf("invalid escape sequence %s", d.Image)
	case NumberOutOfRange:
		return fmt.Sprintf("number out of range: %s", d.Image)
	}
	return d.Kind.String()
}

func (d Diagnostic) String() string {
	return d.Pos.String() + ": " + d.Message()
}

// Reporter is the sink diagnostics are written to. Implementations must not
// expect the caller to act on anything; reporting is append-only.
type Reporter interface {
	Report(d Diagnostic)
}

type ReporterFunc func(d Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) {
	f(d)
}

// List collects diagnostics in report order.
type List struct {
	items []Diagnostic
}

func NewList() *List {
	return &List{}
}

func (l *List) Report(d Diagnostic) {
	l.items = append(l.items, d)
}

func (l *List) Len() int {
	return len(l.items)
}

func (l *List) HasErrors() bool {
	return len(l.items) > 0
}

// Items returns the diagnostics in report order.
func (l *List) Items() []Diagnostic {
	return append([]Diagnostic(nil), l.items...)
}

// Sorted returns the diagnostics ordered by position; the sort is stable so
// diagnostics at the same position keep their report order.
func (l *List) Sorted() []Diagnostic {
	out := l.Items()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Pos.Before(out[j].Pos)
	})
	return out
}

// Count returns how many diagnostics of kind k were reported.
func (l *List) Count(k Kind) int {
	n := 0
	for _, d := range l.items {
		if d.Kind == k {
			n++
		}
	}
	return n
}

func (l *List) String() string {
	var sb strings.Builder
	for _, d := range l.Sorted() {
		sb.WriteString(d.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Err returns nil when nothing was reported, an *Error otherwise.
func (l *List) Err() error {
	if len(l.items) == 0 {
		return nil
	}
	return &Error{Diagnostics: l.Sorted()}
}

type Error struct {
	Diagnostics []Diagnostic
}

func (e *Error) Error() string {
	if len(e.Diagnostics) == 1 {
		return e.Diagnostics[0].String()
	}
	return fmt.Sprintf("%s (and %d more)", e.Diagnostics[0], len(e.Diagnostics)-1)
}
