package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vidtube/vidtube-api/internal/services"
)

// Refresher defines the interface that the refresh service must implement.
type Refresher interface {
	RefreshAccessToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

// RefreshRequest represents the optional JSON body carrying the refresh token
// swagger:model RefreshRequest
type RefreshRequest struct {
	// Refresh token, used when the cookie is absent
	RefreshToken string `json:"refreshToken"`
}

// TokenPairData is the rotated token pair payload
// swagger:model TokenPairData
type TokenPairData struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// NewRefreshTokenHandler returns an HTTP handler that rotates the refresh token.
// @Summary Refresh access token
// @Description Exchanges a valid refresh token, from cookie or body, for a new token pair. The presented token is invalidated.
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} handlers.APIResponse "New token pair issued"
// @Failure 401 {object} handlers.APIErrorResponse "Missing, invalid, or already-used refresh token"
// @Router /users/refresh-token [post]
func NewRefreshTokenHandler(svc Refresher, cookies *CookieWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		incoming := ""
		if cookie, err := r.Cookie("refreshToken"); err == nil {
			incoming = cookie.Value
		}
		if incoming == "" {
			var req RefreshRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
				incoming = req.RefreshToken
			}
		}

		pair, err := svc.RefreshAccessToken(r.Context(), incoming)
		if err != nil {
			writeError(w, err)
			return
		}

		cookies.SetTokens(w, pair.AccessToken, pair.RefreshToken)
		writeSuccess(w, http.StatusOK, TokenPairData{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		}, "Access token refreshed")
	}
}
