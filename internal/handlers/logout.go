package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/vidtube/vidtube-api/internal/middlewares"
)

// Logouter defines the interface that the logout service must implement.
type Logouter interface {
	Logout(ctx context.Context, userID uuid.UUID) error
}

// NewLogoutHandler returns an HTTP handler that ends the current session.
// @Summary Log out
// @Description Clears the stored refresh token and expires both cookies. Idempotent.
// @Tags users
// @Produce json
// @Success 200 {object} handlers.APIResponse "User logged out"
// @Failure 401 {object} handlers.APIErrorResponse "Unauthorized"
// @Router /users/logout [post]
// @Security BearerAuth
func NewLogoutHandler(svc Logouter, cookies *CookieWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middlewares.ClaimsFromContext(r.Context())

		if err := svc.Logout(r.Context(), claims.UserID); err != nil {
			writeError(w, err)
			return
		}

		cookies.ClearTokens(w)
		writeSuccess(w, http.StatusOK, nil, "User logged out successfully")
	}
}
