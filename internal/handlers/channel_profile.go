package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/vidtube/vidtube-api/internal/middlewares"
	"github.com/vidtube/vidtube-api/internal/models"
)

// ChannelProfileGetter defines the interface that the service must implement.
type ChannelProfileGetter interface {
	ChannelProfile(ctx context.Context, username string, requesterID uuid.UUID) (*models.ChannelProfile, error)
}

// NewChannelProfileHandler returns an HTTP handler for channel lookups.
// @Summary Get channel profile
// @Description Returns a user's channel view with subscriber counts and whether the requester subscribes to it
// @Tags users
// @Produce json
// @Param username path string true "Channel username"
// @Success 200 {object} handlers.APIResponse "Channel profile"
// @Failure 404 {object} handlers.APIErrorResponse "No such channel"
// @Router /users/c/{username} [get]
// @Security BearerAuth
func NewChannelProfileHandler(svc ChannelProfileGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middlewares.ClaimsFromContext(r.Context())
		username := chi.URLParam(r, "username")

		profile, err := svc.ChannelProfile(r.Context(), username, claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeSuccess(w, http.StatusOK, profile, "Channel profile fetched successfully")
	}
}
