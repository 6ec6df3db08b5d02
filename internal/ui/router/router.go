// Package router sets up HTTP routes for the web calculator.
package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/leapcalc/internal/calculator"
	calculatorFeature "github.com/leapstack-labs/leapcalc/internal/ui/features/calculator"
	"github.com/leapstack-labs/leapcalc/internal/ui/notifier"
	"github.com/leapstack-labs/leapcalc/internal/ui/resources"
)

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(
	router chi.Router,
	calc *calculator.Calculator,
	sessionStore sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
) error {
	// Static assets
	router.Handle(resources.StaticPrefix+"*", resources.Handler())

	// Feature routes
	return calculatorFeature.SetupRoutes(router, calc, sessionStore, notify, logger)
}
