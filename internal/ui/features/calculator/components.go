package calculator

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Page renders the full calculator page.
func Page(data PageData) templ.Component {
	return templ.FromGoHTML(templates.Lookup("page"), data)
}

// Display renders the #display element.
func Display(data DisplayData) templ.Component {
	return templ.FromGoHTML(templates.Lookup("display"), data)
}

// HistoryList renders the #history-list element.
func HistoryList(items []HistoryItem) templ.Component {
	return templ.FromGoHTML(templates.Lookup("history"), items)
}
