package handlers

import (
	"context"
	"net/http"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/models"
	"github.com/vidtube/vidtube-api/internal/services"
)

// Registerer defines the interface that the service must implement.
type Registerer interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.SanitizedUser, error)
}

const maxUploadMemory = 32 << 20 // 32 MiB

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account from a multipart form. Requires an avatar file; a cover image is optional. Username and email must be unique.
// @Tags users
// @Accept mpfd
// @Produce json
// @Param fullname formData string true "Full name"
// @Param email formData string true "Email"
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Param avatar formData file true "Avatar image"
// @Param coverImage formData file false "Cover image"
// @Success 201 {object} handlers.APIResponse "User successfully registered"
// @Failure 400 {object} handlers.APIErrorResponse "Missing fields or avatar"
// @Failure 409 {object} handlers.APIErrorResponse "Username or email already exists"
// @Router /users/register [post]
func NewRegisterHandler(svc Registerer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			writeError(w, apperrors.New(http.StatusBadRequest, "invalid multipart form"))
			return
		}

		in := services.RegisterInput{
			Fullname: r.FormValue("fullname"),
			Email:    r.FormValue("email"),
			Username: r.FormValue("username"),
			Password: r.FormValue("password"),
		}

		avatarFile, _, err := r.FormFile("avatar")
		if err != nil {
			writeError(w, apperrors.New(http.StatusBadRequest, "avatar file is required"))
			return
		}
		defer avatarFile.Close()
		in.Avatar = avatarFile

		if coverFile, _, err := r.FormFile("coverImage"); err == nil {
			defer coverFile.Close()
			in.CoverImage = coverFile
		}

		user, err := svc.Register(r.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}

		writeSuccess(w, http.StatusCreated, user, "User registered successfully")
	}
}
