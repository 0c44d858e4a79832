package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/middlewares"
	"github.com/vidtube/vidtube-api/internal/models"
)

// AvatarUpdater defines the interface that the service must implement.
type AvatarUpdater interface {
	UpdateAvatar(ctx context.Context, userID uuid.UUID, file io.Reader) (*models.SanitizedUser, error)
}

// NewUpdateAvatarHandler returns an HTTP handler that replaces the user's avatar.
// @Summary Update avatar
// @Description Uploads a new avatar image and stores its URL on the user record
// @Tags users
// @Accept mpfd
// @Produce json
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} handlers.APIResponse "Updated user"
// @Failure 400 {object} handlers.APIErrorResponse "Missing avatar file"
// @Router /users/avatar [patch]
// @Security BearerAuth
func NewUpdateAvatarHandler(svc AvatarUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeError(w, apperrors.New(http.StatusBadRequest, "invalid multipart form"))
			return
		}

		file, _, err := r.FormFile("avatar")
		if err != nil {
			writeError(w, apperrors.New(http.StatusBadRequest, "avatar file is required"))
			return
		}
		defer file.Close()

		claims := middlewares.ClaimsFromContext(r.Context())

		user, err := svc.UpdateAvatar(r.Context(), claims.UserID, file)
		if err != nil {
			writeError(w, err)
			return
		}

		writeSuccess(w, http.StatusOK, user, "Avatar updated successfully")
	}
}
