package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupOperator(t *testing.T) {
	tests := []struct {
		symbol     string
		precedence int
		unary      bool
	}{
		{Plus, PrecedenceAddition, false},
		{Minus, PrecedenceAddition, false},
		{Star, PrecedenceMultiply, false},
		{Slash, PrecedenceMultiply, false},
		{Percent, PrecedencePercent, true},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			op, ok := LookupOperator(tt.symbol)
			assert.True(t, ok)
			assert.Equal(t, tt.precedence, op.Precedence)
			assert.Equal(t, tt.unary, op.Unary)
		})
	}

	_, ok := LookupOperator("^")
	assert.False(t, ok)
}

func TestTokenPredicates(t *testing.T) {
	assert.True(t, NewNumber("1").IsNumber())
	assert.False(t, NewNumber("1").IsOperator())
	assert.True(t, NewOperator(Plus).IsBinaryOperator())
	assert.False(t, NewOperator(Percent).IsBinaryOperator())
	assert.Equal(t, 0, NewNumber("3").Precedence())
	assert.Equal(t, PrecedencePercent, NewOperator(Percent).Precedence())
}

func TestExpression(t *testing.T) {
	expr := Expression{NewNumber("3"), NewOperator(Plus), NewNumber("4"), NewOperator(Percent)}
	assert.Equal(t, "3 + 4 %", expr.String())

	last, ok := expr.Last()
	assert.True(t, ok)
	assert.Equal(t, Percent, last.Text)

	_, ok = Expression(nil).Last()
	assert.False(t, ok)

	clone := expr.Clone()
	clone[0] = NewNumber("9")
	assert.Equal(t, "3", expr[0].Text, "clone must not share storage")
	assert.Nil(t, Expression(nil).Clone())
}
