package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/internal/session"
	pkgAuth "github.com/angelmondragon/marketplace-backend/pkg/auth"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

// SessionResolver loads the session a bearer token points to.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (session.State, error)
}

// Session resolves an optional bearer token into the request context.
// Requests without a token pass through anonymously; a bad token is rejected.
func Session(resolver SessionResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := pkgAuth.BearerToken(r.Header.Get("Authorization"))
			if token == "" || resolver == nil {
				next.ServeHTTP(w, r)
				return
			}

			state, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithSession(r.Context(), state)
			if logg != nil {
				fields := map[string]any{"session_id": state.ID}
				if state.Authenticated && state.User != nil {
					fields["user_id"] = state.User.ID
					fields["actor_role"] = string(state.User.Role)
				}
				ctx = logg.WithFields(ctx, fields)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects requests that carry no session token.
func RequireSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := SessionFromContext(r.Context()); !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
