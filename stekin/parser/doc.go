// Package parser turns stekin source into the tree defined by package ast.
//
// # Overview
//
// Stekin is indentation sensitive. Parsing happens in two layers:
//
//	┌─────────────┐     ┌─────────────┐     ┌─────────────┐
//	│   Lexer     │────▶│   Builder   │────▶│   Stack     │
//	│ (per line)  │     │  (clauses)  │     │ (automata)  │
//	└─────────────┘     └─────────────┘     └─────────────┘
//
// The Lexer produces one token batch per non-blank line together with the
// line's indentation. The Builder keeps a stack of open clauses (if, else,
// func, class, try, catch and the root of the file) keyed by indentation;
// every clause owns a Stack of automata that parses the lines of its body.
//
// # Automata
//
// Every token is dispatched to the automaton on top of the clause's Stack
// through Token.act. An automaton either consumes the token, pushes a
// sub-automaton for a nested construct, or reduces: it pops itself and hands
// its finished expression to the automaton beneath, which may then replay the
// token that ended it. Operator precedence is decided by a static
// reducibility table (see priority.go).
//
// A few constructs are only recognized once later tokens arrive:
//
//	(a, b)          parenthesized expression, unless a colon follows
//	(a, b): a + b   lambda; the parenthesized part was a parameter list
//	m[k]            lookup
//	m[b, e, s]      slice
//	f(x, %, y)      asynchronous call with the callback at index 1
//
// # Lines and blocks
//
// At the end of a line the Stack is asked whether it may stop there. A
// trailing colon, a lambda header or a pipeline operator leaves the line
// open; the Builder then collects the following, deeper indented lines into
// a block and hands it back to the waiting automaton.
//
// # Diagnostics
//
// Malformed input never stops the parse. Each problem is reported once to a
// diag.Reporter and a degraded node (ast.BadExpr, an empty block) takes the
// place of what could not be built, so that later lines are still checked.
//
//	block, diags := parser.ParseBytes(src, parser.WithFile("main.stkn"))
//	for _, d := range diags.Sorted() {
//	    fmt.Println(d)
//	}
package parser
