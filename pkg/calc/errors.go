package calc

import (
	"errors"
	"fmt"
)

// ErrMalformedExpression is matched by every *MalformedExpressionError.
var ErrMalformedExpression = errors.New("malformed expression")

// MalformedExpressionError reports an expression that cannot be reduced to a
// single value.
type MalformedExpressionError struct {
	Pos     int    // 0-based token index, -1 when not tied to a token
	Token   string // offending token text, if any
	Message string
}

func (e *MalformedExpressionError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("malformed expression: %s", e.Message)
	}
	return fmt.Sprintf("malformed expression at token %d (%q): %s", e.Pos, e.Token, e.Message)
}

// Is lets errors.Is match ErrMalformedExpression.
func (e *MalformedExpressionError) Is(target error) bool {
	return target == ErrMalformedExpression
}

// Common error messages
const (
	errEmptyExpression  = "empty expression"
	errUnknownToken     = "unknown token"
	errInvalidNumber    = "invalid number literal"
	errMissingOperand   = "operator %s is missing an operand"
	errLeftoverOperands = "expected a single result, got %d values"
)

func malformed(pos int, tok, msg string) *MalformedExpressionError {
	return &MalformedExpressionError{Pos: pos, Token: tok, Message: msg}
}
