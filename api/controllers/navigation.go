package controllers

import (
	"net/http"

	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/internal/guard"
	"github.com/angelmondragon/marketplace-backend/internal/session"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

// Navigate evaluates the route guard for a view path. Unauthenticated
// attempts on protected paths are remembered on the caller's session so a
// later login can return there.
func Navigate(g *guard.Guard, svc session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if g == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "route guard unavailable"))
			return
		}

		path := r.URL.Query().Get("path")
		if path == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "path is required").
				WithDetails(map[string]string{"path": "is required"}))
			return
		}

		state, hasSession := middleware.SessionFromContext(r.Context())
		decision := g.Evaluate(state.Viewer(), path)

		if decision.Outcome == guard.OutcomeUnauthenticated && hasSession && svc != nil {
			if err := svc.RememberReturnTo(r.Context(), state.ID, decision.From); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		responses.WriteSuccess(w, decision)
	}
}
