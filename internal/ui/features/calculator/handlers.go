// Package calculator provides the web calculator handlers.
package calculator

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	service "github.com/leapstack-labs/leapcalc/internal/calculator"
	"github.com/leapstack-labs/leapcalc/internal/history"
	"github.com/leapstack-labs/leapcalc/internal/ui/notifier"
	"github.com/leapstack-labs/leapcalc/pkg/calc"
	"github.com/starfederation/datastar-go/datastar"
)

// Handlers provides HTTP handlers for the calculator feature.
type Handlers struct {
	calc         *service.Calculator
	sessionStore sessions.Store
	notifier     *notifier.Notifier
	logger       *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(c *service.Calculator, sessionStore sessions.Store, notify *notifier.Notifier, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		calc:         c,
		sessionStore: sessionStore,
		notifier:     notify,
		logger:       logger,
	}
}

// CalculatorPage renders the calculator with the session's input and the history.
func (h *Handlers) CalculatorPage(w http.ResponseWriter, r *http.Request) {
	state, _ := h.loadState(r)

	entries, err := h.calc.History(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := PageData{
		Title:   "Calculator",
		Display: NewDisplayData(state),
		Keypad:  Keypad,
		History: NewHistoryItems(entries),
	}
	if err := Page(data).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Press applies a button or key press and patches the display.
func (h *Handlers) Press(w http.ResponseWriter, r *http.Request) {
	var signals PressSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd, ok := signals.Command()
	if !ok {
		// Keys the calculator does not use
		w.WriteHeader(http.StatusNoContent)
		return
	}

	state, session := h.loadState(r)
	next, entry, err := h.calc.Press(r.Context(), state, cmd)
	if err != nil {
		var malformed *calc.MalformedExpressionError
		if !errors.As(err, &malformed) {
			h.logger.Warn("press failed", "command", cmd.String(), "error", err)
		}
	}

	// The session cookie must be written before the SSE stream starts
	if err := h.saveState(w, r, session, next); err != nil {
		http.Error(w, fmt.Sprintf("failed to save session: %v", err), http.StatusInternalServerError)
		return
	}

	if entry != nil {
		h.notifier.Broadcast(notifier.TopicHistory)
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(Display(NewDisplayData(next))); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// HistorySSE sends the history list.
func (h *Handlers) HistorySSE(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)
	if err := h.sendHistory(r, sse); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// HistoryUpdates is the long-lived SSE endpoint that re-sends the history
// list whenever it changes.
func (h *Handlers) HistoryUpdates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe(notifier.TopicHistory)
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := h.sendHistory(r, sse); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// ClearHistory deletes all history and sends the empty list.
func (h *Handlers) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.calc.ClearHistory(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	h.notifier.Broadcast(notifier.TopicHistory)

	sse := datastar.NewSSE(w, r)
	if err := h.sendHistory(r, sse); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Recall loads a history entry into the session's input.
func (h *Handlers) Recall(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	state, session := h.loadState(r)
	next, err := h.calc.Recall(r.Context(), state, id)
	if errors.Is(err, history.ErrNotFound) {
		http.Error(w, fmt.Sprintf("calculation %s not found", id), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := h.saveState(w, r, session, next); err != nil {
		http.Error(w, fmt.Sprintf("failed to save session: %v", err), http.StatusInternalServerError)
		return
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(Display(NewDisplayData(next))); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	_ = sse.MarshalAndPatchSignals(map[string]any{"showHistory": false})
}

func (h *Handlers) sendHistory(r *http.Request, sse *datastar.ServerSentEventGenerator) error {
	entries, err := h.calc.History(r.Context())
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	return sse.PatchElementTempl(HistoryList(NewHistoryItems(entries)))
}
