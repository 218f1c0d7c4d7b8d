package parser

type priority int

const (
	prioPrefix priority = iota // unary + - * typeof
	prioAdditive
	prioMultiplicative
	prioComparison
	prioOr
	prioAnd
	prioNot
	prioPipe
	prioMember
	prioCall // call, lookup, slice
	prioSentinel
	prioCount
)

// reducible[encountered][top] tells whether the operator on top of the
// operator stack is applied before the encountered one is pushed. Rows for
// prefix-only classes are never consulted and stay false.
var reducible = func() [prioCount][prioCount]bool {
	const T, F = true, false
	return [prioCount][prioCount]bool{
		//                  pre add mul cmp or and not pip mem cal sen
		prioPrefix:         {F, F, F, F, F, F, F, F, F, F, F},
		prioAdditive:       {T, T, T, F, F, F, F, F, T, T, F},
		prioMultiplicative: {T, F, T, F, F, F, F, F, T, T, F},
		prioComparison:     {T, T, T, T, F, F, F, F, T, T, F},
		prioOr:             {T, T, T, T, T, T, T, F, T, T, F},
		prioAnd:            {T, T, T, T, F, T, T, F, T, T, F},
		prioNot:            {F, F, F, F, F, F, F, F, F, F, F},
		prioPipe:           {T, T, T, T, T, T, T, F, T, T, F},
		prioMember:         {F, F, F, F, F, F, F, F, T, T, F},
		prioCall:           {F, F, F, F, F, F, F, F, T, T, F},
		prioSentinel:       {F, F, F, F, F, F, F, F, F, F, F},
	}
}()

var binaryPriorities = map[string]priority{
	"+":  prioAdditive,
	"-":  prioAdditive,
	"*":  prioMultiplicative,
	"/":  prioMultiplicative,
	"%":  prioMultiplicative,
	"<":  prioComparison,
	"<=": prioComparison,
	">":  prioComparison,
	">=": prioComparison,
	"=":  prioComparison,
	"!=": prioComparison,
	"&&": prioAnd,
	"||": prioOr,
	"|:": prioPipe,
	"|?": prioPipe,
	".":  prioMember,
}

var prefixPriorities = map[string]priority{
	"+":      prioPrefix,
	"-":      prioPrefix,
	"*":      prioPrefix,
	"typeof": prioPrefix,
	"!":      prioNot,
}

func isPipe(op string) bool {
	return op == "|:" || op == "|?"
}
