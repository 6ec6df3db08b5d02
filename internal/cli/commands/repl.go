package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leapcalc/internal/calculator"
	"github.com/leapstack-labs/leapcalc/pkg/calc"
	"github.com/spf13/cobra"
)

const replPrompt = "leapcalc> "

// lineReader is the part of *readline.Instance the REPL loop uses.
type lineReader interface {
	Readline() (string, error)
}

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive calculator prompt",
		Long: `Start a line-oriented calculator. Each line is evaluated and recorded in
history. Lines starting with a dot are REPL commands; type .help to list them.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runREPL(cmd, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Format for .history output (table|json|csv|md|yaml)")

	return cmd
}

func runREPL(cmd *cobra.Command, format string) error {
	cmdCtx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	if format == "" {
		format = cmdCtx.Cfg.OutputFormat
	}

	// Line history lives next to the calculation history
	var historyFile string
	if p := cmdCtx.Cfg.HistoryPath; p != "" && p != ":memory:" {
		historyFile = filepath.Join(filepath.Dir(p), "repl_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newDotCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "LeapCalc REPL")
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	repl := &replSession{
		calc:   cmdCtx.Calc,
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		format: format,
	}
	return repl.run(cmd.Context(), rl)
}

// replSession evaluates lines read from a lineReader.
type replSession struct {
	calc   *calculator.Calculator
	out    io.Writer
	errOut io.Writer
	format string
}

func (r *replSession) run(ctx context.Context, in lineReader) error {
	for {
		line, err := in.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit := r.handleDotCommand(ctx, line); quit {
				return nil
			}
			continue
		}

		v, err := r.calc.Evaluate(ctx, line, true)
		if err != nil {
			_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
			continue
		}
		_, _ = fmt.Fprintf(r.out, "= %s\n", calc.Format(v))
	}
}

// handleDotCommand runs a REPL command and reports whether the REPL should exit.
func (r *replSession) handleDotCommand(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(r.out)

	case ".history":
		entries, err := r.calc.History(ctx)
		if err != nil {
			_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
			return false
		}
		if err := renderHistory(r.out, entries, r.format); err != nil {
			_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
		}

	case ".clear-history":
		if err := r.calc.ClearHistory(ctx); err != nil {
			_, _ = fmt.Fprintf(r.errOut, "Error: %v\n", err)
			return false
		}
		_, _ = fmt.Fprintln(r.out, "History cleared")

	case ".clear":
		_, _ = fmt.Fprint(r.out, "\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(r.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help            Show this help message
  .history         Show calculation history
  .clear-history   Delete all calculation history
  .clear           Clear the screen
  .quit / .exit    Exit the REPL

Tips:
  - Separate numbers and operators with spaces: 3 + 4 * 2
  - A trailing % divides the number by 100: 200 * 15%
  - Use arrow keys to navigate previous lines
`
	_, _ = fmt.Fprintln(w, help)
}

// newDotCompleter creates a readline completer for the REPL commands.
func newDotCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".history"),
		readline.PcItem(".clear-history"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
