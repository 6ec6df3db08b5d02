package calc

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/leapstack-labs/leapcalc/pkg/token"
)

// Evaluate tokenizes and evaluates an expression string.
func Evaluate(expression string) (float64, error) {
	expr, err := Tokenize(expression)
	if err != nil {
		return 0, err
	}
	return EvaluateExpression(expr)
}

// EvaluateExpression evaluates a tokenized expression.
//
// Division by zero is not an error: the result follows IEEE-754 and may be
// +Inf, -Inf or NaN.
func EvaluateExpression(expr token.Expression) (float64, error) {
	if len(expr) == 0 {
		return 0, malformed(-1, "", errEmptyExpression)
	}

	e := &evaluator{}
	for i, tok := range expr {
		switch tok.Kind {
		case token.Number:
			if !IsNumberLiteral(tok.Text) {
				return 0, malformed(i, tok.Text, errInvalidNumber)
			}
			// Out of range literals still parse to ±Inf.
			v, err := strconv.ParseFloat(tok.Text, 64)
			if err != nil && !errors.Is(err, strconv.ErrRange) {
				return 0, malformed(i, tok.Text, errInvalidNumber)
			}
			e.output = append(e.output, v)

		case token.Operator:
			op, ok := token.LookupOperator(tok.Text)
			if !ok {
				return 0, malformed(i, tok.Text, errUnknownToken)
			}
			for len(e.operators) > 0 && e.top().op.Precedence >= op.Precedence {
				if err := e.reduce(); err != nil {
					return 0, err
				}
			}
			e.operators = append(e.operators, pending{op: op, pos: i})

		default:
			return 0, malformed(i, tok.Text, errUnknownToken)
		}
	}

	for len(e.operators) > 0 {
		if err := e.reduce(); err != nil {
			return 0, err
		}
	}

	if len(e.output) != 1 {
		return 0, malformed(-1, "", fmt.Sprintf(errLeftoverOperands, len(e.output)))
	}
	return e.output[0], nil
}

// pending is an operator waiting on the stack, with its token index.
type pending struct {
	op  token.OperatorDef
	pos int
}

// evaluator holds the two stacks for one evaluation.
type evaluator struct {
	output    []float64
	operators []pending
}

func (e *evaluator) top() pending {
	return e.operators[len(e.operators)-1]
}

// reduce pops the top operator, applies it to the output queue and pushes the
// result back.
func (e *evaluator) reduce() error {
	p := e.top()
	e.operators = e.operators[:len(e.operators)-1]

	if p.op.Unary {
		a, ok := e.pop()
		if !ok {
			return malformed(p.pos, p.op.Symbol, fmt.Sprintf(errMissingOperand, p.op.Symbol))
		}
		e.output = append(e.output, unary(p.op.Symbol, a))
		return nil
	}

	// The most recently pushed value is the right-hand operand.
	b, okB := e.pop()
	a, okA := e.pop()
	if !okA || !okB {
		return malformed(p.pos, p.op.Symbol, fmt.Sprintf(errMissingOperand, p.op.Symbol))
	}
	e.output = append(e.output, binary(p.op.Symbol, a, b))
	return nil
}

func (e *evaluator) pop() (float64, bool) {
	if len(e.output) == 0 {
		return 0, false
	}
	v := e.output[len(e.output)-1]
	e.output = e.output[:len(e.output)-1]
	return v, true
}

func unary(symbol string, a float64) float64 {
	switch symbol {
	case token.Percent:
		return a / 100
	}
	panic("calc: unknown unary operator " + symbol)
}

func binary(symbol string, a, b float64) float64 {
	switch symbol {
	case token.Plus:
		return a + b
	case token.Minus:
		return a - b
	case token.Star:
		return a * b
	case token.Slash:
		return a / b
	}
	panic("calc: unknown binary operator " + symbol)
}
