package accumulator

import (
	"math"
	"strings"

	"github.com/leapstack-labs/leapcalc/pkg/calc"
	"github.com/leapstack-labs/leapcalc/pkg/token"
)

// Effect tells the caller what to do after a transition.
type Effect int

const (
	// EffectNone means the new state is complete.
	EffectNone Effect = iota
	// EffectEvaluate asks the caller to evaluate State.Expr and call Resolve.
	EffectEvaluate
)

// State is the calculator input state. It is a value: transitions return a new
// State and never modify their argument.
type State struct {
	Expr      token.Expression
	Fresh     bool    // a result is displayed; the next number starts over
	HasResult bool    // Value and Result are set
	Value     float64 // last evaluated result
	Result    string  // Value formatted for display
}

// New returns the initial state, an expression holding a single 0.
func New() State {
	return State{Expr: token.Expression{token.NewNumber("0")}}
}

// Display returns the expression as shown to the user.
func (s State) Display() string {
	return s.Expr.String()
}

func (s State) clone() State {
	s.Expr = s.Expr.Clone()
	return s
}

// Apply returns the state after cmd. Commands that would break the expression
// invariants leave the state unchanged.
func Apply(s State, cmd Command) (State, Effect) {
	next := s.clone()

	switch cmd.Action {
	case ActionDigit:
		if !isDigit(cmd.Symbol) {
			return s, EffectNone
		}
		return next.appendDigit(cmd.Symbol), EffectNone
	case ActionPoint:
		return next.appendPoint(), EffectNone
	case ActionOperator:
		if !token.IsOperator(cmd.Symbol) {
			return s, EffectNone
		}
		return next.appendOperator(cmd.Symbol), EffectNone
	case ActionEquals:
		return next.equals()
	case ActionBackspace:
		return next.backspace(), EffectNone
	case ActionClear:
		return New(), EffectNone
	}
	return s, EffectNone
}

// Resolve records an evaluation result. The evaluated expression stays in
// place until the next input.
func Resolve(s State, v float64) State {
	next := s.clone()
	next.Value = v
	next.Result = calc.Format(v)
	next.HasResult = true
	next.Fresh = true
	return next
}

// Recall replays a stored calculation: the expression is restored for editing
// and its result is shown.
func Recall(s State, expression string, result float64) (State, error) {
	expr, err := calc.Tokenize(expression)
	if err != nil {
		return s, err
	}
	if len(expr) == 0 {
		expr = token.Expression{token.NewNumber("0")}
	}
	return State{
		Expr:      expr,
		HasResult: true,
		Value:     result,
		Result:    calc.Format(result),
	}, nil
}

func (s State) isZero() bool {
	text := s.Display()
	return text == "0" || text == "0."
}

// continueFromResult replaces the displayed expression with the last result so
// that input continues the previous calculation.
func (s State) continueFromResult() (State, bool) {
	if !s.HasResult || math.IsInf(s.Value, 0) || math.IsNaN(s.Value) {
		return s, false
	}
	s.Expr = token.Expression{token.NewNumber(s.Result)}
	s.Fresh = false
	return s, true
}

func (s State) appendDigit(d string) State {
	if s.Fresh {
		s.Expr = nil
		s.Fresh = false
	}

	last, ok := s.Expr.Last()
	switch {
	case !ok:
		s.Expr = append(s.Expr, token.NewNumber(d))
	case last.IsNumber():
		if last.Text == "0" {
			last.Text = d
		} else {
			last.Text += d
		}
		s.Expr[len(s.Expr)-1] = last
	case last.IsBinaryOperator():
		s.Expr = append(s.Expr, token.NewNumber(d))
	}
	// Digits directly after % are dropped: % closes its number-term.
	return s
}

func (s State) appendPoint() State {
	if s.Fresh {
		s.Expr = token.Expression{token.NewNumber("0.")}
		s.Fresh = false
		return s
	}

	last, ok := s.Expr.Last()
	switch {
	case !ok, last.IsBinaryOperator():
		s.Expr = append(s.Expr, token.NewNumber("0."))
	case last.IsNumber():
		if strings.ContainsAny(last.Text, ".eE") {
			return s
		}
		last.Text += "."
		s.Expr[len(s.Expr)-1] = last
	}
	return s
}

func (s State) appendOperator(op string) State {
	if s.isZero() {
		return s
	}
	if s.Fresh {
		var ok bool
		if s, ok = s.continueFromResult(); !ok {
			return s
		}
	}

	last, ok := s.Expr.Last()
	switch {
	case !ok:
		return s
	case last.IsOperator():
		s.Expr[len(s.Expr)-1] = token.NewOperator(op)
	default:
		s.Expr = append(s.Expr, token.NewOperator(op))
	}
	return s
}

func (s State) equals() (State, Effect) {
	if s.isZero() {
		return s, EffectNone
	}
	if s.Fresh {
		s, _ = s.continueFromResult()
		return s, EffectNone
	}
	if s.HasResult && s.Display() == s.Result {
		return s, EffectNone
	}
	return s, EffectEvaluate
}

func (s State) backspace() State {
	last, ok := s.Expr.Last()
	switch {
	case !ok:
	case last.IsOperator():
		s.Expr = s.Expr[:len(s.Expr)-1]
	default:
		// A dangling sign or exponent marker is not a number on its own.
		last.Text = strings.TrimRight(last.Text[:len(last.Text)-1], "eE+-")
		if last.Text == "" {
			s.Expr = s.Expr[:len(s.Expr)-1]
		} else {
			s.Expr[len(s.Expr)-1] = last
		}
	}

	if len(s.Expr) == 0 {
		s.Expr = token.Expression{token.NewNumber("0")}
	}
	return s
}
