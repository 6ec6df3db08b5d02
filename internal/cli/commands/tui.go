package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/leapcalc/internal/accumulator"
	"github.com/leapstack-labs/leapcalc/internal/calculator"
	"github.com/leapstack-labs/leapcalc/internal/history"
	"github.com/leapstack-labs/leapcalc/pkg/calc"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

const tuiWidth = 36

// NewTUICommand creates the tui command.
func NewTUICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the keyboard-driven terminal calculator",
		Long: `Start a full-screen calculator driven by the keyboard.

Keys:
  0-9 . + - * / %   build the expression
  Enter or =        evaluate
  Backspace         delete the last character
  Esc or Delete     clear
  Tab               show history (Enter recalls the selected calculation)
  Ctrl+C            quit`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			lipgloss.SetColorProfile(termenv.NewOutput(cmd.OutOrStdout()).EnvColorProfile())

			m := newTUIModel(cmd.Context(), cmdCtx.Calc)
			p := tea.NewProgram(m,
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("terminal calculator: %w", err)
			}
			return nil
		},
	}
}

type tuiKeyMap struct {
	Quit         key.Binding
	ToggleList   key.Binding
	Recall       key.Binding
	ClearHistory key.Binding
}

func (k tuiKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleList, k.Recall, k.ClearHistory, k.Quit}
}

func (k tuiKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func newTUIKeyMap() tuiKeyMap {
	return tuiKeyMap{
		Quit:         key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "quit")),
		ToggleList:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "history")),
		Recall:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "recall"), key.WithDisabled()),
		ClearHistory: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear history")),
	}
}

type tuiStyles struct {
	display lipgloss.Style
	expr    lipgloss.Style
	result  lipgloss.Style
	status  lipgloss.Style
	title   lipgloss.Style
}

func newTUIStyles() tuiStyles {
	return tuiStyles{
		display: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(tuiWidth).
			Align(lipgloss.Right),
		expr:   lipgloss.NewStyle().Faint(true),
		result: lipgloss.NewStyle().Bold(true),
		status: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
	}
}

// historyLoadedMsg carries the result of an asynchronous history read.
type historyLoadedMsg struct {
	entries []history.Entry
	err     error
}

type tuiModel struct {
	ctx     context.Context
	calc    *calculator.Calculator
	state   accumulator.State
	status  string
	keys    tuiKeyMap
	help    help.Model
	styles  tuiStyles
	table   table.Model
	entries []history.Entry
	listing bool
}

func newTUIModel(ctx context.Context, c *calculator.Calculator) tuiModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Expression", Width: 18},
			{Title: "Result", Width: 10},
			{Title: "When", Width: 8},
		}),
		table.WithHeight(8),
	)
	return tuiModel{
		ctx:    ctx,
		calc:   c,
		state:  accumulator.New(),
		keys:   newTUIKeyMap(),
		help:   help.New(),
		styles: newTUIStyles(),
		table:  t,
	}
}

func (m tuiModel) Init() tea.Cmd {
	return m.loadHistory
}

func (m tuiModel) loadHistory() tea.Msg {
	entries, err := m.calc.History(m.ctx)
	return historyLoadedMsg{entries: entries, err: err}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.entries = msg.entries
		m.table.SetRows(historyRows(msg.entries))
		if n := len(msg.entries); n > 0 {
			m.table.SetCursor(n - 1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.ToggleList):
			return m.setListing(!m.listing), nil
		case key.Matches(msg, m.keys.ClearHistory):
			m.status = ""
			if err := m.calc.ClearHistory(m.ctx); err != nil {
				m.status = err.Error()
			}
			return m, m.loadHistory
		}

		if m.listing {
			return m.updateList(msg)
		}
		return m.press(msg)
	}
	return m, nil
}

func (m tuiModel) setListing(on bool) tuiModel {
	m.listing = on
	m.keys.Recall.SetEnabled(on)
	if on {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
	return m
}

func (m tuiModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return m.setListing(false), nil
	case key.Matches(msg, m.keys.Recall):
		i := m.table.Cursor()
		if i < 0 || i >= len(m.entries) {
			return m, nil
		}
		next, err := m.calc.Recall(m.ctx, m.state, m.entries[i].ID)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.state, m.status = next, ""
		return m.setListing(false), nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m tuiModel) press(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c, ok := keyCommand(msg)
	if !ok {
		return m, nil
	}

	next, entry, err := m.calc.Press(m.ctx, m.state, c)
	m.state = next
	m.status = ""
	if err != nil {
		var malformed *calc.MalformedExpressionError
		if !errors.As(err, &malformed) {
			m.status = err.Error()
		}
	}
	if entry != nil {
		return m, m.loadHistory
	}
	return m, nil
}

// keyCommand translates a terminal key press into a calculator command.
func keyCommand(msg tea.KeyMsg) (accumulator.Command, bool) {
	switch msg.Type {
	case tea.KeyEnter:
		return accumulator.CommandForKey("Enter", "Enter", false)
	case tea.KeyBackspace:
		return accumulator.CommandForKey("Backspace", "Backspace", false)
	case tea.KeyEsc:
		return accumulator.CommandForKey("Escape", "Escape", false)
	case tea.KeyDelete:
		return accumulator.CommandForKey("Delete", "Delete", false)
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return accumulator.Command{}, false
		}
		r := string(msg.Runes[0])
		if r == "=" {
			return accumulator.CommandForKey(r, "Equal", false)
		}
		return accumulator.CommandForKey(r, "", false)
	}
	return accumulator.Command{}, false
}

func historyRows(entries []history.Entry) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		rows[i] = table.Row{e.Expression, calc.Format(e.Result), e.CreatedAt.Local().Format(time.Kitchen)}
	}
	return rows
}

func (m tuiModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("LeapCalc"))
	b.WriteString("\n")

	line := m.state.Display()
	sub := ""
	if m.state.Fresh {
		line, sub = m.state.Result, m.state.Display()
	} else if m.state.HasResult {
		sub = "ans " + m.state.Result
	}
	b.WriteString(m.styles.display.Render(
		m.styles.expr.Render(sub) + "\n" + m.styles.result.Render(line),
	))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(m.styles.status.Render(m.status))
		b.WriteString("\n")
	}

	if m.listing {
		if len(m.entries) == 0 {
			b.WriteString("(no history)\n")
		} else {
			b.WriteString(m.table.View())
			b.WriteString("\n")
		}
	}

	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}
