// Package token defines the tokens of a calculator expression.
//
// An expression is a flat sequence of numbers and operators. Numbers keep the
// literal text they were typed with so that partial input such as "0." survives
// until it is evaluated.
package token

import (
	"fmt"
	"strings"
)

// Kind distinguishes numbers from operators.
type Kind int

const (
	// Number is a floating-point literal.
	Number Kind = iota
	// Operator is one of + - * / %.
	Operator
)

func (k Kind) String() string {
	switch k {
	case Number:
		return "NUMBER"
	case Operator:
		return "OPERATOR"
	}
	return fmt.Sprintf("KIND(%d)", int(k))
}

// Operator symbols.
const (
	Plus    = "+"
	Minus   = "-"
	Star    = "*"
	Slash   = "/"
	Percent = "%"
)

// Precedence levels. Percent binds tightest and takes a single operand.
const (
	PrecedenceAddition = 1
	PrecedenceMultiply = 2
	PrecedencePercent  = 3
)

// OperatorDef describes an operator symbol.
type OperatorDef struct {
	Symbol     string
	Precedence int
	Unary      bool
}

// Operators contains every supported operator.
var Operators = []OperatorDef{
	{Symbol: Plus, Precedence: PrecedenceAddition},
	{Symbol: Minus, Precedence: PrecedenceAddition},
	{Symbol: Star, Precedence: PrecedenceMultiply},
	{Symbol: Slash, Precedence: PrecedenceMultiply},
	{Symbol: Percent, Precedence: PrecedencePercent, Unary: true},
}

var operatorsBySymbol = func() map[string]OperatorDef {
	m := make(map[string]OperatorDef, len(Operators))
	for _, op := range Operators {
		m[op.Symbol] = op
	}
	return m
}()

// LookupOperator returns the definition for an operator symbol.
func LookupOperator(symbol string) (OperatorDef, bool) {
	op, ok := operatorsBySymbol[symbol]
	return op, ok
}

// IsOperator reports whether s is an operator symbol.
func IsOperator(s string) bool {
	_, ok := operatorsBySymbol[s]
	return ok
}

// Token is a single element of an expression.
type Token struct {
	Kind Kind
	Text string
}

// NewNumber returns a number token with the given literal text.
func NewNumber(text string) Token {
	return Token{Kind: Number, Text: text}
}

// NewOperator returns an operator token.
func NewOperator(symbol string) Token {
	return Token{Kind: Operator, Text: symbol}
}

// IsNumber reports whether the token is a number.
func (t Token) IsNumber() bool {
	return t.Kind == Number
}

// IsOperator reports whether the token is an operator.
func (t Token) IsOperator() bool {
	return t.Kind == Operator
}

// IsBinaryOperator reports whether the token is an operator taking two operands.
func (t Token) IsBinaryOperator() bool {
	if t.Kind != Operator {
		return false
	}
	op, ok := LookupOperator(t.Text)
	return ok && !op.Unary
}

// Precedence returns the operator precedence, or 0 for numbers.
func (t Token) Precedence() int {
	if t.Kind != Operator {
		return 0
	}
	op, _ := LookupOperator(t.Text)
	return op.Precedence
}

func (t Token) String() string {
	return t.Text
}

// Expression is an ordered sequence of tokens.
type Expression []Token

// String renders the expression with tokens separated by single spaces.
func (e Expression) String() string {
	parts := make([]string, len(e))
	for i, tok := range e {
		parts[i] = tok.Text
	}
	return strings.Join(parts, " ")
}

// Last returns the final token, if any.
func (e Expression) Last() (Token, bool) {
	if len(e) == 0 {
		return Token{}, false
	}
	return e[len(e)-1], true
}

// Clone returns a copy that shares no backing array with e.
func (e Expression) Clone() Expression {
	if e == nil {
		return nil
	}
	out := make(Expression, len(e))
	copy(out, e)
	return out
}
