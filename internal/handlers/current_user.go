package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/vidtube/vidtube-api/internal/middlewares"
	"github.com/vidtube/vidtube-api/internal/models"
)

// CurrentUserGetter defines the interface that the service must implement.
type CurrentUserGetter interface {
	CurrentUser(ctx context.Context, userID uuid.UUID) (*models.SanitizedUser, error)
}

// NewCurrentUserHandler returns an HTTP handler for the current-user lookup.
// @Summary Get current user
// @Description Returns the sanitized record of the authenticated user
// @Tags users
// @Produce json
// @Success 200 {object} handlers.APIResponse "Current user"
// @Failure 401 {object} handlers.APIErrorResponse "Unauthorized"
// @Router /users/current-user [get]
// @Security BearerAuth
func NewCurrentUserHandler(svc CurrentUserGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middlewares.ClaimsFromContext(r.Context())

		user, err := svc.CurrentUser(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeSuccess(w, http.StatusOK, user, "Current user fetched successfully")
	}
}
