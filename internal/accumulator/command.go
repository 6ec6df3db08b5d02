// Package accumulator builds calculator expressions from discrete input.
//
// Input is modelled as Commands applied to an immutable State by pure
// transition functions, so front ends (terminal, REPL, web) only translate
// their events into Commands and render the resulting State.
package accumulator

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapcalc/pkg/token"
)

// Action identifies what a Command does.
type Action int

const (
	ActionDigit Action = iota
	ActionPoint
	ActionOperator
	ActionEquals
	ActionBackspace
	ActionClear
)

func (a Action) String() string {
	switch a {
	case ActionDigit:
		return "digit"
	case ActionPoint:
		return "point"
	case ActionOperator:
		return "operator"
	case ActionEquals:
		return "equals"
	case ActionBackspace:
		return "backspace"
	case ActionClear:
		return "clear"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Command is a single calculator input.
type Command struct {
	Action Action
	Symbol string // digit or operator symbol
}

func (c Command) String() string {
	if c.Symbol != "" {
		return c.Action.String() + " " + c.Symbol
	}
	return c.Action.String()
}

// Digit returns a command appending the digit d (0-9).
func Digit(d rune) Command {
	return Command{Action: ActionDigit, Symbol: string(d)}
}

// Operator returns a command appending an operator symbol.
func Operator(symbol string) Command {
	return Command{Action: ActionOperator, Symbol: symbol}
}

// Point returns the decimal point command.
func Point() Command { return Command{Action: ActionPoint} }

// Equals returns the evaluate command.
func Equals() Command { return Command{Action: ActionEquals} }

// Backspace returns the erase command.
func Backspace() Command { return Command{Action: ActionBackspace} }

// Clear returns the reset command.
func Clear() Command { return Command{Action: ActionClear} }

func isDigit(s string) bool {
	return len(s) == 1 && s[0] >= '0' && s[0] <= '9'
}

// CommandForSymbol maps a button identifier to a Command. Buttons are named
// by their label, plus "C" for clear and "erase" for backspace.
func CommandForSymbol(symbol string) (Command, bool) {
	switch {
	case isDigit(symbol):
		return Digit(rune(symbol[0])), true
	case token.IsOperator(symbol):
		return Operator(symbol), true
	}

	switch symbol {
	case ".":
		return Point(), true
	case "=":
		return Equals(), true
	case "C", "c":
		return Clear(), true
	case "erase":
		return Backspace(), true
	}
	return Command{}, false
}

// CommandForKey maps a keyboard event to a Command. key is the produced
// character (e.g. "7", "+", "Enter") and code the physical key name
// (e.g. "Digit7", "Equal", "NumpadAdd").
func CommandForKey(key, code string, shift bool) (Command, bool) {
	if isDigit(key) || token.IsOperator(key) || key == "." {
		return CommandForSymbol(key)
	}

	switch code {
	case "Enter", "NumpadEnter":
		return Equals(), true
	case "Backspace":
		return Backspace(), true
	case "Escape", "Delete":
		return Clear(), true
	case "Equal":
		if shift {
			return Operator(token.Plus), true
		}
		return Equals(), true
	}

	if strings.HasPrefix(code, "Numpad") && key != "" {
		last := key[len(key)-1:]
		if isDigit(last) || token.IsOperator(last) || last == "." {
			return CommandForSymbol(last)
		}
	}
	return Command{}, false
}
