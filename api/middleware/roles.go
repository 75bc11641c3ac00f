package middleware

import (
	"net/http"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/internal/guard"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

// RequireRoles runs the route guard against the request session. Loading,
// unauthenticated and forbidden outcomes become 503, 401 and 403 envelopes
// whose details carry the redirect the client should follow.
func RequireRoles(logg *logger.Logger, roles ...enums.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, _ := SessionFromContext(r.Context())
			decision := guard.Authorize(state.Viewer(), r.URL.Path, roles)
			if err := decisionError(decision); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func decisionError(decision guard.Decision) error {
	var (
		code pkgerrors.Code
		msg  string
	)
	switch decision.Outcome {
	case guard.OutcomeLoading:
		code, msg = pkgerrors.CodeSessionLoading, "session is loading"
	case guard.OutcomeUnauthenticated:
		code, msg = pkgerrors.CodeUnauthorized, "authentication required"
	case guard.OutcomeForbidden:
		code, msg = pkgerrors.CodeForbidden, "role not permitted"
	default:
		return nil
	}
	details := map[string]string{
		"outcome":  string(decision.Outcome),
		"redirect": decision.Redirect,
	}
	if decision.From != "" {
		details["from"] = decision.From
	}
	return pkgerrors.New(code, msg).WithDetails(details)
}
