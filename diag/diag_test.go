package diag

import (
	"errors"
	"strings"
	"testing"
)

func TestPositionString(t *testing.T) {
	tests := []struct {
		pos  Position
		want string
	}{
		{Position{File: "a.stkn", Line: 3, Column: 7}, "a.stkn:3:7"},
		{Position{Line: 1, Column: 1}, "1:1"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.pos.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDiagnosticMessage(t *testing.T) {
	first := Position{Line: 1, Column: 3}
	second := Position{Line: 1, Column: 9}

	tests := []struct {
		d    Diagnostic
		want string
	}{
		{Diagnostic{Kind: UnexpectedToken, Pos: first, Image: ")"}, "1:3: unexpected token: )"},
		{Diagnostic{Kind: ElseNotMatchIf, Pos: first}, "1:3: else does not match any if"},
		{Diagnostic{Kind: IfAlreadyMatchElse, Pos: second, Other: first}, "1:9: if already has else matched at 1:3"},
		{Diagnostic{Kind: MoreThanOneAsyncPlaceholder, Pos: second, Other: first}, "1:9: more than one async placeholder, first at 1:3"},
		{Diagnostic{Kind: EmptyExpr, Pos: first}, "1:3: invalid empty expression"},
		{Diagnostic{Kind: TooManySliceParts, Pos: first}, "1:3: too many slice parts"},
		{Diagnostic{Kind: InvalidChar, Pos: first, Image: "é"}, `1:3: invalid character "é"`},
		{Diagnostic{Kind: InvalidEscape, Pos: first, Image: `\r`}, `1:3: invalid escape sequence \r`},
		{Diagnostic{Kind: NumberOutOfRange, Pos: first, Image: "99999999999999999999"}, "1:3: number out of range: 99999999999999999999"},
	}

	for _, tt := range tests {
		t.Run(tt.d.Kind.String(), func(t *testing.T) {
			if got := tt.d.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestListSorted(t *testing.T) {
	l := NewList()
	l.Report(Diagnostic{Kind: EmptyExpr, Pos: Position{Line: 4, Column: 1}})
	l.Report(Diagnostic{Kind: InvalidIndent, Pos: Position{Line: 2, Column: 5}})
	l.Report(Diagnostic{Kind: UnexpectedEOL, Pos: Position{Line: 2, Column: 5}})
	l.Report(Diagnostic{Kind: InvalidName, Pos: Position{Line: 2, Column: 1}})

	var kinds []Kind
	for _, d := range l.Sorted() {
		kinds = append(kinds, d.Kind)
	}
	want := []Kind{InvalidName, InvalidIndent, UnexpectedEOL, EmptyExpr}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("sorted[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
	if items := l.Items(); items[0].Kind != EmptyExpr {
		t.Errorf("Items()[0] = %v, want report order", items[0].Kind)
	}
}

func TestListErr(t *testing.T) {
	l := NewList()
	if err := l.Err(); err != nil {
		t.Fatalf("empty list Err() = %v, want nil", err)
	}

	l.Report(Diagnostic{Kind: MissingBody, Pos: Position{File: "x.stkn", Line: 1, Column: 1}})
	l.Report(Diagnostic{Kind: EmptyExpr, Pos: Position{File: "x.stkn", Line: 2, Column: 1}})

	err := l.Err()
	var diagErr *Error
	if !errors.As(err, &diagErr) {
		t.Fatalf("Err() = %T, want *Error", err)
	}
	if len(diagErr.Diagnostics) != 2 {
		t.Errorf("got %d diagnostics, want 2", len(diagErr.Diagnostics))
	}
	if !strings.Contains(err.Error(), "and 1 more") {
		t.Errorf("Error() = %q", err.Error())
	}
	if l.Count(EmptyExpr) != 1 {
		t.Errorf("Count(EmptyExpr) = %d, want 1", l.Count(EmptyExpr))
	}
}
