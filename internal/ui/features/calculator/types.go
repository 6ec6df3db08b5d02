package calculator

import (
	"time"

	"github.com/leapstack-labs/leapcalc/internal/accumulator"
	"github.com/leapstack-labs/leapcalc/internal/history"
	"github.com/leapstack-labs/leapcalc/pkg/calc"
)

// PressSignals represents the signals sent when a button or key is pressed.
// Button holds a button symbol; otherwise Key, Code and Shift describe a
// keyboard event.
type PressSignals struct {
	Button string `json:"button"`
	Key    string `json:"key"`
	Code   string `json:"code"`
	Shift  bool   `json:"shift"`
}

// Command maps the signals to a calculator command.
func (s PressSignals) Command() (accumulator.Command, bool) {
	if s.Button != "" {
		return accumulator.CommandForSymbol(s.Button)
	}
	return accumulator.CommandForKey(s.Key, s.Code, s.Shift)
}

// Button is a keypad button.
type Button struct {
	Label  string
	Symbol string
	Class  string
}

// Keypad is the button layout, row by row.
var Keypad = []Button{
	{Label: "C", Symbol: "C", Class: "key-clear"},
	{Label: "⌫", Symbol: "erase", Class: "key-clear"},
	{Label: "%", Symbol: "%", Class: "key-op"},
	{Label: "÷", Symbol: "/", Class: "key-op"},
	{Label: "7", Symbol: "7"},
	{Label: "8", Symbol: "8"},
	{Label: "9", Symbol: "9"},
	{Label: "×", Symbol: "*", Class: "key-op"},
	{Label: "4", Symbol: "4"},
	{Label: "5", Symbol: "5"},
	{Label: "6", Symbol: "6"},
	{Label: "−", Symbol: "-", Class: "key-op"},
	{Label: "1", Symbol: "1"},
	{Label: "2", Symbol: "2"},
	{Label: "3", Symbol: "3"},
	{Label: "+", Symbol: "+", Class: "key-op"},
	{Label: "0", Symbol: "0", Class: "key-wide"},
	{Label: ".", Symbol: "."},
	{Label: "=", Symbol: "=", Class: "key-equals"},
}

// DisplayData is what the display shows.
type DisplayData struct {
	Main      string
	Secondary string
}

// NewDisplayData builds the display for a state. After a calculation the
// result is the main line and the expression moves above it.
func NewDisplayData(s accumulator.State) DisplayData {
	switch {
	case s.Fresh:
		return DisplayData{Main: s.Result, Secondary: s.Display() + " ="}
	case s.HasResult:
		return DisplayData{Main: s.Display(), Secondary: "Ans = " + s.Result}
	default:
		return DisplayData{Main: s.Display()}
	}
}

// HistoryItem is a history entry prepared for display.
type HistoryItem struct {
	ID         string
	Expression string
	Result     string
	When       string
}

// NewHistoryItems converts entries for display, newest first.
func NewHistoryItems(entries []history.Entry) []HistoryItem {
	items := make([]HistoryItem, len(entries))
	for i, e := range entries {
		items[len(entries)-1-i] = HistoryItem{
			ID:         e.ID,
			Expression: e.Expression,
			Result:     calc.Format(e.Result),
			When:       e.CreatedAt.Local().Format(time.Kitchen),
		}
	}
	return items
}

// PageData holds everything the calculator page renders.
type PageData struct {
	Title   string
	Display DisplayData
	Keypad  []Button
	History []HistoryItem
}
