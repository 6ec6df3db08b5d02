package calculator

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/leapcalc/internal/accumulator"
	"github.com/leapstack-labs/leapcalc/pkg/calc"
)

// SessionName is the cookie holding a browser's calculator input.
const SessionName = "leapcalc"

// Session value keys.
const (
	keyExpr      = "expr"
	keyFresh     = "fresh"
	keyHasResult = "has_result"
	keyValue     = "value"
	keyResult    = "result"
)

// loadState returns the calculator state stored in the request's session.
// A missing or unreadable session yields the initial state.
func (h *Handlers) loadState(r *http.Request) (accumulator.State, *sessions.Session) {
	session, err := h.sessionStore.Get(r, SessionName)
	if err != nil {
		h.logger.Debug("discarding unreadable session", "error", err)
	}

	expr, ok := session.Values[keyExpr].(string)
	if !ok {
		return accumulator.New(), session
	}
	tokens, err := calc.Tokenize(expr)
	if err != nil || len(tokens) == 0 {
		return accumulator.New(), session
	}

	s := accumulator.State{Expr: tokens}
	s.Fresh, _ = session.Values[keyFresh].(bool)
	s.HasResult, _ = session.Values[keyHasResult].(bool)
	s.Value, _ = session.Values[keyValue].(float64)
	s.Result, _ = session.Values[keyResult].(string)
	return s, session
}

// saveState writes s into the session cookie.
func (h *Handlers) saveState(w http.ResponseWriter, r *http.Request, session *sessions.Session, s accumulator.State) error {
	session.Values[keyExpr] = s.Display()
	session.Values[keyFresh] = s.Fresh
	session.Values[keyHasResult] = s.HasResult
	session.Values[keyValue] = s.Value
	session.Values[keyResult] = s.Result
	return session.Save(r, w)
}
