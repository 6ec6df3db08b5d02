package calc

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/leapcalc/pkg/token"
)

// numberPattern accepts plain decimal literals only. strconv.ParseFloat alone
// would also admit "Inf", "NaN" and hex floats.
var numberPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// IsNumberLiteral reports whether s is a decimal floating-point literal.
func IsNumberLiteral(s string) bool {
	return numberPattern.MatchString(s)
}

// Tokenize splits an expression string into tokens.
//
// Every % is padded with spaces first so that "50%" yields two tokens. Empty
// fragments from repeated spaces are skipped. Any other token that is neither a
// number nor an operator is rejected.
func Tokenize(expression string) (token.Expression, error) {
	expression = strings.ReplaceAll(expression, token.Percent, " "+token.Percent+" ")

	var expr token.Expression
	for _, field := range strings.Split(expression, " ") {
		switch {
		case field == "":
			continue
		case IsNumberLiteral(field):
			expr = append(expr, token.NewNumber(field))
		case token.IsOperator(field):
			expr = append(expr, token.NewOperator(field))
		default:
			return nil, malformed(len(expr), field, errUnknownToken)
		}
	}
	return expr, nil
}
