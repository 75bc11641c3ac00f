package middleware

import (
	"context"

	"github.com/angelmondragon/marketplace-backend/internal/session"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

type contextKey string

const (
	ctxSession contextKey = "session"
	ctxUserID  contextKey = "user_id"
	ctxRole    contextKey = "actor_role"
)

// SessionFromContext returns the resolved session snapshot, if any.
func SessionFromContext(ctx context.Context) (session.State, bool) {
	if ctx == nil {
		return session.State{}, false
	}
	state, ok := ctx.Value(ctxSession).(session.State)
	return state, ok
}

func SessionIDFromContext(ctx context.Context) string {
	state, ok := SessionFromContext(ctx)
	if !ok {
		return ""
	}
	return state.ID
}

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) enums.Role {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(enums.Role); ok {
		return v
	}
	return ""
}

// WithSession injects the session snapshot and, when authenticated, the
// user id and role.
func WithSession(ctx context.Context, state session.State) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxSession, state)
	if state.Authenticated && state.User != nil {
		ctx = context.WithValue(ctx, ctxUserID, state.User.ID)
		ctx = context.WithValue(ctx, ctxRole, state.User.Role)
	}
	return ctx
}
