package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/models"
	"github.com/vidtube/vidtube-api/internal/services"
)

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, identifier, password string) (*services.LoginResult, error)
}

// LoginRequest represents the JSON body for user login
// swagger:model LoginRequest
type LoginRequest struct {
	// Username, used when email is absent
	// example: alice
	Username string `json:"username"`

	// Email, preferred identifier
	// example: alice@example.com
	Email string `json:"email"`

	// Password
	// required: true
	// example: p@ss1234
	Password string `json:"password"`
}

// LoginData is the success payload: sanitized user plus both tokens
// swagger:model LoginData
type LoginData struct {
	User         models.SanitizedUser `json:"user"`
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
}

// NewLoginHandler returns an HTTP handler for user login.
// @Summary User login
// @Description Authenticate by email or username and set token cookies
// @Tags users
// @Accept json
// @Produce json
// @Param loginRequest body handlers.LoginRequest true "Login Request"
// @Success 200 {object} handlers.APIResponse "User logged in, cookies set"
// @Failure 400 {object} handlers.APIErrorResponse "Missing identifier or password"
// @Failure 401 {object} handlers.APIErrorResponse "Invalid credentials"
// @Router /users/login [post]
func NewLoginHandler(svc Loginer, cookies *CookieWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperrors.New(http.StatusBadRequest, "invalid request body"))
			return
		}

		identifier := req.Email
		if identifier == "" {
			identifier = req.Username
		}
		if identifier == "" {
			writeError(w, apperrors.New(http.StatusBadRequest, "email or username is required"))
			return
		}

		result, err := svc.Login(r.Context(), identifier, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}

		cookies.SetTokens(w, result.AccessToken, result.RefreshToken)
		writeSuccess(w, http.StatusOK, LoginData{
			User:         result.User,
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
		}, "User logged in successfully")
	}
}
