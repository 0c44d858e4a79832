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

// CoverImageUpdater defines the interface that the service must implement.
type CoverImageUpdater interface {
	UpdateCoverImage(ctx context.Context, userID uuid.UUID, file io.Reader) (*models.SanitizedUser, error)
}

// NewUpdateCoverImageHandler returns an HTTP handler that replaces the user's cover image.
// @Summary Update cover image
// @Description Uploads a new cover image and stores its URL on the user record
// @Tags users
// @Accept mpfd
// @Produce json
// @Param coverImage formData file true "Cover image"
// @Success 200 {object} handlers.APIResponse "Updated user"
// @Failure 400 {object} handlers.APIErrorResponse "Missing cover image file"
// @Router /users/cover-image [patch]
// @Security BearerAuth
func NewUpdateCoverImageHandler(svc CoverImageUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeError(w, apperrors.New(http.StatusBadRequest, "invalid multipart form"))
			return
		}

		file, _, err := r.FormFile("coverImage")
		if err != nil {
			writeError(w, apperrors.New(http.StatusBadRequest, "cover image file is required"))
			return
		}
		defer file.Close()

		claims := middlewares.ClaimsFromContext(r.Context())

		user, err := svc.UpdateCoverImage(r.Context(), claims.UserID, file)
		if err != nil {
			writeError(w, err)
			return
		}

		writeSuccess(w, http.StatusOK, user, "Cover image updated successfully")
	}
}
