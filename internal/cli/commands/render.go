package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leapcalc/internal/history"
	"github.com/leapstack-labs/leapcalc/pkg/calc"
	"gopkg.in/yaml.v3"
)

// historyColumns is the header used by the tabular formats.
var historyColumns = table.Row{"#", "Expression", "Result", "When", "ID"}

// renderEntry is the serialized form of a history entry. Results are kept as
// display text so Infinity and NaN survive JSON.
type renderEntry struct {
	ID         string    `json:"id" yaml:"id"`
	Expression string    `json:"expression" yaml:"expression"`
	Result     string    `json:"result" yaml:"result"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

func toRenderEntries(entries []history.Entry) []renderEntry {
	out := make([]renderEntry, len(entries))
	for i, e := range entries {
		out[i] = renderEntry{
			ID:         e.ID,
			Expression: e.Expression,
			Result:     calc.Format(e.Result),
			CreatedAt:  e.CreatedAt,
		}
	}
	return out
}

func renderHistory(w io.Writer, entries []history.Entry, format string) error {
	switch format {
	case "json":
		return renderJSON(w, toRenderEntries(entries))
	case "yaml":
		return renderYAML(w, toRenderEntries(entries))
	case "csv", "md", "markdown":
		return renderTable(w, entries, format)
	default:
		if len(entries) == 0 {
			_, _ = fmt.Fprintln(w, "(no history)")
			return nil
		}
		if err := renderTable(w, entries, format); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "(%d calculations)\n", len(entries))
		return nil
	}
}

func renderTable(w io.Writer, entries []history.Entry, format string) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(historyColumns)

	for i, e := range entries {
		t.AppendRow(table.Row{
			i + 1,
			e.Expression,
			calc.Format(e.Result),
			e.CreatedAt.Local().Format(time.DateTime),
			e.ID,
		})
	}

	switch format {
	case "csv":
		t.RenderCSV()
	case "md", "markdown":
		t.RenderMarkdown()
	default:
		t.Render()
	}
	return nil
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
