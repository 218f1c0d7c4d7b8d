package parser

import (
	"testing"

	"github.com/dhamidi/stekin/diag"
	"github.com/dhamidi/stekin/stekin/ast"
)

func ref(line, col int, name string) Token {
	pos := Position{Line: line, Column: col}
	return FactorToken(pos, &ast.Reference{Pos: pos, Name: name}, name)
}

func at(line, col int) Position {
	return Position{Line: line, Column: col}
}

func TestBuilderTokens(t *testing.T) {
	tests := []struct {
		name   string
		tokens []Token
		want   string
	}{
		{
			"a + b * c",
			[]Token{ref(1, 1, "a"), OperatorToken(at(1, 3), "+"), ref(1, 5, "b"), OperatorToken(at(1, 7), "*"), ref(1, 9, "c")},
			"{Arithmetic(BinaryOp(+, Ref(a), BinaryOp(*, Ref(b), Ref(c))))}",
		},
		{
			"f(x, %, y)",
			[]Token{
				ref(1, 1, "f"), OpenParenToken(at(1, 2)), ref(1, 3, "x"), CommaToken(at(1, 4)),
				OperatorToken(at(1, 6), "%"), CommaToken(at(1, 7)), ref(1, 9, "y"), CloserToken(at(1, 10), ")"),
			},
			"{Arithmetic(AsyncCall(Ref(f), [Ref(x), Ref(y)], 1, []))}",
		},
		{
			"m[1, , i]",
			[]Token{
				ref(1, 1, "m"), OpenBracketToken(at(1, 2)),
				FactorToken(at(1, 3), &ast.Int{Pos: at(1, 3), Image: "1", Value: 1}, "1"),
				CommaToken(at(1, 4)), CommaToken(at(1, 6)), ref(1, 8, "i"), CloserToken(at(1, 9), "]"),
			},
			"{Arithmetic(Slice(Ref(m), Int(1), Default, Ref(i)))}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := diag.NewList()
			b := NewBuilder(diags)
			b.AddTokens(0, tt.tokens[0].Pos, tt.tokens)
			block := b.BuildAndClear(at(2, 1))
			if diags.HasErrors() {
				t.Errorf("unexpected diagnostics:\n%s", diags)
			}
			if got := block.String(); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestBuilderLambdaBlock(t *testing.T) {
	diags := diag.NewList()
	b := NewBuilder(diags)
	b.AddTokens(0, at(1, 1), []Token{ref(1, 1, "x"), ColonToken(at(1, 2))})
	b.AddTokens(4, at(2, 5), []Token{
		OpenParenToken(at(2, 5)), ref(2, 6, "a"), CommaToken(at(2, 7)), ref(2, 9, "b"), CloserToken(at(2, 10), ")"),
		ColonToken(at(2, 11)), ref(2, 13, "a"), OperatorToken(at(2, 15), "+"), ref(2, 17, "b"),
	})
	block := b.BuildAndClear(at(3, 1))

	want := "{NameDef(x, Lambda([a, b], {Return(BinaryOp(+, Ref(a), Ref(b)))}))}"
	if got := block.String(); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
	if diags.HasErrors() {
		t.Errorf("unexpected diagnostics:\n%s", diags)
	}
}

func TestBuilderIsSingleUse(t *testing.T) {
	b := NewBuilder(diag.NewList())
	b.AddTokens(0, at(1, 1), []Token{ref(1, 1, "a")})
	if block := b.BuildAndClear(at(2, 1)); block == nil {
		t.Fatal("first BuildAndClear returned nil")
	}
	b.AddTokens(0, at(2, 1), []Token{ref(2, 1, "b")})
	if block := b.BuildAndClear(at(3, 1)); block != nil {
		t.Errorf("second BuildAndClear = %s, want nil", block)
	}
}

func TestClauses(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"if",
			"if a\n    b\n",
			"{BranchConsequenceOnly(Ref(a), {Arithmetic(Ref(b))})}",
		},
		{
			"if else",
			"if a\n    b\nelse\n    c\n",
			"{Branch(Ref(a), {Arithmetic(Ref(b))}, {Arithmetic(Ref(c))})}",
		},
		{
			"ifnot",
			"ifnot a\n    b\n",
			"{BranchAlternativeOnly(Ref(a), {Arithmetic(Ref(b))})}",
		},
		{
			"ifnot else",
			"ifnot a\n    b\nelse\n    c\n",
			"{Branch(Ref(a), {Arithmetic(Ref(c))}, {Arithmetic(Ref(b))})}",
		},
		{
			"nested if",
			"if a\n    if b\n        c\n    else\n        d\n    e\nf\n",
			"{BranchConsequenceOnly(Ref(a), {Branch(Ref(b), {Arithmetic(Ref(c))}, {Arithmetic(Ref(d))}); Arithmetic(Ref(e))}); Arithmetic(Ref(f))}",
		},
		{
			"branch keeps statement order",
			"x: 1\nif a\n    b\ny: 2\n",
			"{NameDef(x, Int(1)); BranchConsequenceOnly(Ref(a), {Arithmetic(Ref(b))}); NameDef(y, Int(2))}",
		},
		{
			"function",
			"func add(a, b)\n    return a + b\n",
			"{Func(add, [a, b], {Return(BinaryOp(+, Ref(a), Ref(b)))})}",
		},
		{
			"async function",
			"func read(path, %)\n    return path\n",
			"{Func(read, [path], %1, {Return(Ref(path))})}",
		},
		{
			"function without params",
			"func f()\n    return\n",
			"{Func(f, [], {Return()})}",
		},
		{
			"nested function",
			"func outer(x)\n    func inner(y)\n        return y\n    return inner(x)\n",
			"{Func(outer, [x], {Func(inner, [y], {Return(Ref(y))}); Return(Call(Ref(inner), [Ref(x)]))})}",
		},
		{
			"class",
			"class Dog(Animal)\n    func bark(self)\n        return 1\n",
			"{Class(Dog, Animal, {Func(bark, [self], {Return(Int(1))})})}",
		},
		{
			"class without base",
			"class Point\n    x: 0\n",
			"{Class(Point, , {NameDef(x, Int(0))})}",
		},
		{
			"try catch",
			"try\n    risky()\ncatch e\n    handle(e)\n",
			"{Try({Arithmetic(Call(Ref(risky), []))}, e, {Arithmetic(Call(Ref(handle), [Ref(e)]))})}",
		},
		{
			"try catch without name",
			"try\n    a\ncatch\n    b\n",
			"{Try({Arithmetic(Ref(a))}, , {Arithmetic(Ref(b))})}",
		},
		{
			"comments and blank lines",
			"# header\nif a\n\n    # inside\n    b\n",
			"{BranchConsequenceOnly(Ref(a), {Arithmetic(Ref(b))})}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, diags := parseString(t, tt.input)
			if diags.HasErrors() {
				t.Errorf("unexpected diagnostics:\n%s", diags)
			}
			if got := block.String(); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestClauseDiagnostics(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  diag.Kind
		want  string
	}{
		{
			"if without body at eof",
			"a\nif b\n",
			diag.UnexpectedEOF,
			"{Arithmetic(Ref(a)); BranchConsequenceOnly(Ref(b), {})}",
		},
		{
			"if without body",
			"if a\nb\n",
			diag.MissingBody,
			"{BranchConsequenceOnly(Ref(a), {}); Arithmetic(Ref(b))}",
		},
		{
			"else without if",
			"x\nelse\n    y\n",
			diag.ElseNotMatchIf,
			"{Arithmetic(Ref(x))}",
		},
		{
			"else after statement",
			"if a\n    b\nx\nelse\n    c\n",
			diag.ElseNotMatchIf,
			"{BranchConsequenceOnly(Ref(a), {Arithmetic(Ref(b))}); Arithmetic(Ref(x))}",
		},
		{
			"catch without try",
			"catch e\n    x\n",
			diag.CatchNotMatchTry,
			"{}",
		},
		{
			"try without catch",
			"try\n    a\nb\n",
			diag.TryWithoutCatch,
			"{Try({Arithmetic(Ref(a))}, , {}); Arithmetic(Ref(b))}",
		},
		{
			"invalid indent",
			"func f(a)\n    x: 1\n      y: 2\n",
			diag.InvalidIndent,
			"{Func(f, [a], {NameDef(x, Int(1)); NameDef(y, Int(2))})}",
		},
		{
			"unexpected indent",
			"a\n    b\n",
			diag.InvalidIndent,
			"{Arithmetic(Ref(a)); Arithmetic(Ref(b))}",
		},
		{
			"value block never comes",
			"x:\ny: 1\n",
			diag.MissingBody,
			"{NameDef(y, Int(1))}",
		},
		{
			"value block at eof",
			"x:\n",
			diag.UnexpectedEOF,
			"{}",
		},
		{
			"block is not a value",
			"x:\n    a\n    b\n",
			diag.InvalidBlockValue,
			"{NameDef(x, Bad)}",
		},
		{
			"bad header drops body",
			"if a b\n    c\nd\n",
			diag.UnexpectedToken,
			"{Arithmetic(Ref(d))}",
		},
		{
			"invalid function name",
			"func 1(a)\n    return a\n",
			diag.InvalidName,
			"{Func(, [a], {Return(Ref(a))})}",
		},
		{
			"invalid parameter",
			"func f(a + 1)\n    return\n",
			diag.InvalidName,
			"{Func(f, [], {Return()})}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, diags := parseString(t, tt.input)
			if diags.Count(tt.kind) != 1 || diags.Len() != 1 {
				t.Errorf("got diagnostics:\n%swant exactly one %v", diags, tt.kind)
			}
			if got := block.String(); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestElseMatching(t *testing.T) {
	src := "if a\n    b\nelse\n    c\nelse\n    d\n"
	block, diags := parseString(t, src)

	if diags.Len() != 1 {
		t.Fatalf("got %d diagnostics, want 1:\n%s", diags.Len(), diags)
	}
	d := diags.Items()[0]
	if d.Kind != diag.IfAlreadyMatchElse {
		t.Fatalf("kind = %v, want %v", d.Kind, diag.IfAlreadyMatchElse)
	}
	if d.Pos.Line != 5 || d.Other.Line != 3 {
		t.Errorf("positions = %s and %s, want lines 5 and 3", d.Pos, d.Other)
	}
	want := "{Branch(Ref(a), {Arithmetic(Ref(b))}, {Arithmetic(Ref(c))})}"
	if got := block.String(); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestCatchMatching(t *testing.T) {
	src := "try\n    a\ncatch\n    b\ncatch\n    c\n"
	_, diags := parseString(t, src)

	if diags.Count(diag.TryAlreadyMatchCatch) != 1 || diags.Len() != 1 {
		t.Fatalf("got diagnostics:\n%s", diags)
	}
	d := diags.Items()[0]
	if d.Pos.Line != 5 || d.Other.Line != 3 {
		t.Errorf("positions = %s and %s, want lines 5 and 3", d.Pos, d.Other)
	}
}

func TestIndentationClosesInReverseOrder(t *testing.T) {
	src := "if a\n    if b\n        if c\n            x\n    y\nz\n"
	block, diags := parseString(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics:\n%s", diags)
	}
	want := "{BranchConsequenceOnly(Ref(a), {BranchConsequenceOnly(Ref(b), {BranchConsequenceOnly(Ref(c), {Arithmetic(Ref(x))})}); Arithmetic(Ref(y))}); Arithmetic(Ref(z))}"
	if got := block.String(); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestMemberIndentIsFixedByFirstLine(t *testing.T) {
	for _, widths := range [][2]int{{2, 4}, {4, 2}, {4, 8}, {8, 4}} {
		first := spaces(widths[0])
		second := spaces(widths[1])
		src := "if a\n" + first + "b\n" + second + "c\n"
		_, diags := parseString(t, src)
		if diags.Count(diag.InvalidIndent) == 0 {
			t.Errorf("%d then %d spaces: no invalid indent reported", widths[0], widths[1])
		}
	}
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
