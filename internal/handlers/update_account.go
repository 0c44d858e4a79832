package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/middlewares"
	"github.com/vidtube/vidtube-api/internal/models"
)

// AccountUpdater defines the interface that the service must implement.
type AccountUpdater interface {
	UpdateAccount(ctx context.Context, userID uuid.UUID, fullname, email string) (*models.SanitizedUser, error)
}

// UpdateAccountRequest represents the JSON body for an account update
// swagger:model UpdateAccountRequest
type UpdateAccountRequest struct {
	// New full name, optional
	Fullname string `json:"fullname"`

	// New email, optional
	Email string `json:"email"`
}

// NewUpdateAccountHandler returns an HTTP handler for account detail updates.
// @Summary Update account details
// @Description Updates fullname and/or email; at least one must be provided
// @Tags users
// @Accept json
// @Produce json
// @Param updateAccountRequest body handlers.UpdateAccountRequest true "Account update request"
// @Success 200 {object} handlers.APIResponse "Updated user"
// @Failure 400 {object} handlers.APIErrorResponse "No fields provided"
// @Failure 409 {object} handlers.APIErrorResponse "Email already taken"
// @Router /users/update-account [patch]
// @Security BearerAuth
func NewUpdateAccountHandler(svc AccountUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateAccountRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperrors.New(http.StatusBadRequest, "invalid request body"))
			return
		}

		claims := middlewares.ClaimsFromContext(r.Context())

		user, err := svc.UpdateAccount(r.Context(), claims.UserID, req.Fullname, req.Email)
		if err != nil {
			writeError(w, err)
			return
		}

		writeSuccess(w, http.StatusOK, user, "Account details updated successfully")
	}
}
