package calculator

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	service "github.com/leapstack-labs/leapcalc/internal/calculator"
	"github.com/leapstack-labs/leapcalc/internal/ui/notifier"
)

// SetupRoutes registers the calculator feature routes.
func SetupRoutes(
	router chi.Router,
	c *service.Calculator,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
) error {
	handlers := NewHandlers(c, sessionStore, notify, logger)

	// Page routes
	router.Get("/", handlers.CalculatorPage)

	// API routes
	router.Route("/api", func(r chi.Router) {
		r.Post("/press", handlers.Press)
		r.Route("/history", func(r chi.Router) {
			r.Get("/", handlers.HistorySSE)
			r.Get("/updates", handlers.HistoryUpdates)
			r.Post("/clear", handlers.ClearHistory)
			r.Post("/{id}/recall", handlers.Recall)
		})
	})

	return nil
}
