// Package calculator ties input, evaluation and history together.
package calculator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leapcalc/internal/accumulator"
	"github.com/leapstack-labs/leapcalc/internal/history"
	"github.com/leapstack-labs/leapcalc/pkg/calc"
)

// Calculator evaluates expressions and records successful calculations.
type Calculator struct {
	store  history.Store
	logger *slog.Logger
}

// Config holds the dependencies of a Calculator.
type Config struct {
	Store  history.Store // nil keeps history in memory
	Logger *slog.Logger
}

// New creates a Calculator.
func New(cfg Config) *Calculator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	store := cfg.Store
	if store == nil {
		store = history.NewMemoryStore(history.Options{Logger: logger})
	}
	return &Calculator{store: store, logger: logger}
}

// Store returns the history store.
func (c *Calculator) Store() history.Store {
	return c.store
}

// Press applies a single input command.
//
// When the command asks for evaluation, the expression is evaluated and the
// calculation recorded; the recorded entry is returned, and is nil for every
// other keystroke. A malformed expression leaves the state as it was before
// the command and the evaluation error is returned so the caller can ignore
// or report the keystroke.
func (c *Calculator) Press(ctx context.Context, s accumulator.State, cmd accumulator.Command) (accumulator.State, *history.Entry, error) {
	next, effect := accumulator.Apply(s, cmd)
	if effect != accumulator.EffectEvaluate {
		return next, nil, nil
	}

	v, err := calc.EvaluateExpression(next.Expr)
	if err != nil {
		c.logger.Debug("ignoring evaluation of malformed expression",
			slog.String("expression", next.Display()),
			slog.String("error", err.Error()),
		)
		return s, nil, err
	}

	entry, err := c.store.Record(ctx, next.Display(), v)
	if err != nil {
		// The result is still shown; only persistence failed.
		c.logger.Warn("failed to record calculation", slog.String("error", err.Error()))
		return accumulator.Resolve(next, v), nil, fmt.Errorf("record history: %w", err)
	}
	return accumulator.Resolve(next, v), entry, nil
}

// PressAll applies commands in order, skipping keystrokes whose evaluation
// fails. Store errors stop processing.
func (c *Calculator) PressAll(ctx context.Context, s accumulator.State, cmds ...accumulator.Command) (accumulator.State, error) {
	for _, cmd := range cmds {
		var err error
		s, _, err = c.Press(ctx, s, cmd)
		if err != nil && !errors.Is(err, calc.ErrMalformedExpression) {
			return s, err
		}
	}
	return s, nil
}

// Evaluate evaluates an expression string, recording it when record is set.
func (c *Calculator) Evaluate(ctx context.Context, expression string, record bool) (float64, error) {
	expr, err := calc.Tokenize(strings.TrimSpace(expression))
	if err != nil {
		return 0, err
	}
	v, err := calc.EvaluateExpression(expr)
	if err != nil {
		return 0, err
	}

	c.logger.Debug("evaluated expression",
		slog.String("expression", expr.String()),
		slog.String("result", calc.Format(v)),
	)

	if record {
		if _, err := c.store.Record(ctx, expr.String(), v); err != nil {
			return v, fmt.Errorf("record history: %w", err)
		}
	}
	return v, nil
}

// History lists recorded calculations, most recent last.
func (c *Calculator) History(ctx context.Context) ([]history.Entry, error) {
	return c.store.List(ctx)
}

// ClearHistory removes every recorded calculation.
func (c *Calculator) ClearHistory(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// Recall loads a recorded calculation into the input state.
func (c *Calculator) Recall(ctx context.Context, s accumulator.State, id string) (accumulator.State, error) {
	entry, err := c.store.Get(ctx, id)
	if err != nil {
		return s, err
	}
	return accumulator.Recall(s, entry.Expression, entry.Result)
}
