package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/services"
)

func TestRefreshTokenHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cookies := NewCookieWriter(false, time.Minute, time.Hour)
	pair := &services.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}

	tests := []struct {
		name        string
		cookie      string
		body        string
		mockSetup   func(m *MockRefresher)
		wantCode    int
		wantMessage string
	}{
		{
			name:   "token from cookie",
			cookie: "old-refresh",
			mockSetup: func(m *MockRefresher) {
				m.EXPECT().
					RefreshAccessToken(gomock.Any(), "old-refresh").
					Return(pair, nil)
			},
			wantCode:    http.StatusOK,
			wantMessage: "Access token refreshed",
		},
		{
			name: "token from body",
			body: `{"refreshToken":"body-refresh"}`,
			mockSetup: func(m *MockRefresher) {
				m.EXPECT().
					RefreshAccessToken(gomock.Any(), "body-refresh").
					Return(pair, nil)
			},
			wantCode:    http.StatusOK,
			wantMessage: "Access token refreshed",
		},
		{
			name: "missing token",
			mockSetup: func(m *MockRefresher) {
				m.EXPECT().
					RefreshAccessToken(gomock.Any(), "").
					Return(nil, apperrors.ErrMissingToken)
			},
			wantCode:    http.StatusUnauthorized,
			wantMessage: "refresh token is missing",
		},
		{
			name:   "already used token",
			cookie: "stale-refresh",
			mockSetup: func(m *MockRefresher) {
				m.EXPECT().
					RefreshAccessToken(gomock.Any(), "stale-refresh").
					Return(nil, apperrors.ErrInvalidToken)
			},
			wantCode:    http.StatusUnauthorized,
			wantMessage: "invalid or expired token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockRefresher(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewRefreshTokenHandler(mockSvc, cookies)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", bytes.NewBufferString(tt.body))
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "refreshToken", Value: tt.cookie})
			}

			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)

			resp := decodeEnvelope(t, rr.Body)
			assert.Equal(t, tt.wantMessage, resp["message"])

			if tt.wantCode == http.StatusOK {
				data := resp["data"].(map[string]any)
				assert.Equal(t, "new-access", data["accessToken"])
				assert.Equal(t, "new-refresh", data["refreshToken"])

				var refreshed string
				for _, c := range rr.Result().Cookies() {
					if c.Name == "refreshToken" {
						refreshed = c.Value
					}
				}
				assert.Equal(t, "new-refresh", refreshed)
			}
		})
	}
}
