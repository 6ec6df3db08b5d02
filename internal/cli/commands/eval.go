package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/leapstack-labs/leapcalc/pkg/calc"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// EvalOptions holds options for the eval command.
type EvalOptions struct {
	Record bool
}

// NewEvalCommand creates the eval command.
func NewEvalCommand() *cobra.Command {
	opts := &EvalOptions{}

	cmd := &cobra.Command{
		Use:   "eval [expression...]",
		Short: "Evaluate an expression",
		Long: `Evaluate a calculator expression and print the result.

Tokens are separated by spaces. Supported operators are + - * / and the
postfix percent sign, which divides the preceding number by 100.
Multiplication and division bind tighter than addition and subtraction.

With no arguments, expressions are read from stdin, one per line.`,
		Example: `  # Precedence
  leapcalc eval 3 + 4 '*' 2

  # Percent
  leapcalc eval "200 * 15%"

  # Keep the calculation in history
  leapcalc eval --record "10 - 4 - 3"

  # Evaluate a file of expressions
  leapcalc eval < sums.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Record, "record", "r", false, "Record the calculation in history")

	return cmd
}

func runEval(cmd *cobra.Command, args []string, opts *EvalOptions) error {
	ctx := cmd.Context()

	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if len(args) > 0 {
		v, err := cmdCtx.Calc.Evaluate(ctx, strings.Join(args, " "), opts.Record)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), calc.Format(v))
		return nil
	}

	in := cmd.InOrStdin()
	if isTerminal(in) {
		return fmt.Errorf("no expression given (pass it as arguments or pipe it on stdin)")
	}

	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		expr := strings.TrimSpace(scanner.Text())
		if expr == "" {
			continue
		}
		v, err := cmdCtx.Calc.Evaluate(ctx, expr, opts.Record)
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), calc.Format(v))
	}
	return scanner.Err()
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
