package controllers

import (
	"net/http"

	"github.com/angelmondragon/marketplace-backend/api/middleware"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

func actorFromRequest(r *http.Request) (string, enums.Role, error) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		return "", "", pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return userID, middleware.RoleFromContext(r.Context()), nil
}
