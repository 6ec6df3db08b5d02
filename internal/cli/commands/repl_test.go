package commands

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/leapcalc/internal/calculator"
	"github.com/leapstack-labs/leapcalc/internal/history"
	"github.com/leapstack-labs/leapcalc/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReader replays lines and then reports EOF.
type scriptedReader struct {
	lines []string
	errs  map[int]error
	n     int
}

func (r *scriptedReader) Readline() (string, error) {
	defer func() { r.n++ }()
	if err, ok := r.errs[r.n]; ok {
		return "", err
	}
	if r.n >= len(r.lines) {
		return "", io.EOF
	}
	return r.lines[r.n], nil
}

func newTestSession(t *testing.T) (*replSession, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	logger := testutil.NewTestLogger(t)
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	return &replSession{
		calc: calculator.New(calculator.Config{
			Store:  history.NewMemoryStore(history.Options{Logger: logger}),
			Logger: logger,
		}),
		out:    out,
		errOut: errOut,
		format: "json",
	}, out, errOut
}

func TestREPL_EvaluatesAndRecords(t *testing.T) {
	ctx := context.Background()
	repl, out, errOut := newTestSession(t)

	err := repl.run(ctx, &scriptedReader{lines: []string{"3 + 4 * 2", "", "  10 - 4 - 3  ", "200 * 15%"}})
	require.NoError(t, err)

	assert.Equal(t, "= 11\n= 3\n= 30\n", out.String())
	assert.Empty(t, errOut.String())

	entries, err := repl.calc.History(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "200 * 15 %", entries[2].Expression)
}

func TestREPL_ErrorsDoNotStopTheLoop(t *testing.T) {
	repl, out, errOut := newTestSession(t)

	err := repl.run(context.Background(), &scriptedReader{lines: []string{"3 +", "1 + 1"}})
	require.NoError(t, err)

	assert.Contains(t, errOut.String(), "Error: malformed expression")
	assert.Equal(t, "= 2\n", out.String())
}

func TestREPL_InterruptContinues(t *testing.T) {
	repl, out, _ := newTestSession(t)

	reader := &scriptedReader{
		lines: []string{"", "2 * 3"},
		errs:  map[int]error{0: readline.ErrInterrupt},
	}
	require.NoError(t, repl.run(context.Background(), reader))
	assert.Equal(t, "= 6\n", out.String())
}

func TestREPL_DotCommands(t *testing.T) {
	t.Run("quit stops before later lines", func(t *testing.T) {
		repl, out, _ := newTestSession(t)
		require.NoError(t, repl.run(context.Background(), &scriptedReader{lines: []string{".quit", "1 + 1"}}))
		assert.Empty(t, out.String())
	})

	t.Run("help", func(t *testing.T) {
		repl, out, _ := newTestSession(t)
		require.NoError(t, repl.run(context.Background(), &scriptedReader{lines: []string{".help"}}))
		assert.Contains(t, out.String(), ".clear-history")
	})

	t.Run("history and clear-history", func(t *testing.T) {
		repl, out, _ := newTestSession(t)
		lines := []string{"1 + 2", ".history", ".clear-history", ".history"}
		require.NoError(t, repl.run(context.Background(), &scriptedReader{lines: lines}))

		s := out.String()
		assert.Contains(t, s, `"expression": "1 + 2"`)
		assert.Contains(t, s, "History cleared")
		assert.Contains(t, s, "[]")
	})

	t.Run("unknown", func(t *testing.T) {
		repl, _, errOut := newTestSession(t)
		require.NoError(t, repl.run(context.Background(), &scriptedReader{lines: []string{".nope"}}))
		assert.Contains(t, errOut.String(), "Unknown command: .nope")
	})
}

func TestNewDotCompleter(t *testing.T) {
	c := newDotCompleter()
	assert.Len(t, c.GetChildren(), 6)
}
