package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/vidtube/vidtube-api/internal/middlewares"
	"github.com/vidtube/vidtube-api/internal/models"
)

// HistoryGetter defines the interface that the service must implement.
type HistoryGetter interface {
	WatchHistory(ctx context.Context, userID uuid.UUID) ([]models.WatchHistoryEntry, error)
}

// NewWatchHistoryHandler returns an HTTP handler for the watch-history lookup.
// @Summary Get watch history
// @Description Returns the authenticated user's watched videos, most recent first, with owner details
// @Tags users
// @Produce json
// @Success 200 {object} handlers.APIResponse "Watch history"
// @Failure 401 {object} handlers.APIErrorResponse "Unauthorized"
// @Router /users/history [get]
// @Security BearerAuth
func NewWatchHistoryHandler(svc HistoryGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := middlewares.ClaimsFromContext(r.Context())

		entries, err := svc.WatchHistory(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeSuccess(w, http.StatusOK, entries, "Watch history fetched successfully")
	}
}
