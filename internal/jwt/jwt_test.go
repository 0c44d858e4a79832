package jwt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateAndParseAccessToken(t *testing.T) {
	j := New("access-secret", time.Minute, "refresh-secret", time.Hour)
	ctx := context.Background()

	claims := AccessClaims{
		UserID:   uuid.New(),
		Email:    "alice@example.com",
		Username: "alice",
		Fullname: "Alice Smith",
	}

	tokenString, err := j.GenerateAccessToken(ctx, claims)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	parsed, err := j.ParseAccessToken(ctx, tokenString)
	assert.NoError(t, err)
	assert.Equal(t, claims.UserID, parsed.UserID)
	assert.Equal(t, claims.Email, parsed.Email)
	assert.Equal(t, claims.Username, parsed.Username)
	assert.Equal(t, claims.Fullname, parsed.Fullname)
}

func TestGenerateAndParseRefreshToken(t *testing.T) {
	j := New("access-secret", time.Minute, "refresh-secret", time.Hour)
	ctx := context.Background()
	userID := uuid.New()

	tokenString, err := j.GenerateRefreshToken(ctx, userID)
	assert.NoError(t, err)

	parsedID, err := j.ParseRefreshToken(ctx, tokenString)
	assert.NoError(t, err)
	assert.Equal(t, userID, parsedID)
}

func TestGenerateRefreshToken_Distinct(t *testing.T) {
	j := New("access-secret", time.Minute, "refresh-secret", time.Hour)
	ctx := context.Background()
	userID := uuid.New()

	first, err := j.GenerateRefreshToken(ctx, userID)
	assert.NoError(t, err)
	second, err := j.GenerateRefreshToken(ctx, userID)
	assert.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestParseAccessToken_Invalid(t *testing.T) {
	j := New("access-secret", time.Minute, "refresh-secret", time.Hour)
	other := New("other-secret", time.Minute, "other-refresh", time.Hour)
	expired := New("access-secret", -time.Minute, "refresh-secret", -time.Minute)
	ctx := context.Background()
	userID := uuid.New()

	wrongSecret, _ := other.GenerateAccessToken(ctx, AccessClaims{UserID: userID})
	expiredToken, _ := expired.GenerateAccessToken(ctx, AccessClaims{UserID: userID})
	refreshToken, _ := j.GenerateRefreshToken(ctx, userID)

	tests := []struct {
		name        string
		tokenString string
	}{
		{"malformed", "not.a.jwt"},
		{"empty", ""},
		{"wrong secret", wrongSecret},
		{"expired", expiredToken},
		{"refresh token against access secret", refreshToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.ParseAccessToken(ctx, tt.tokenString)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestParseRefreshToken_Invalid(t *testing.T) {
	j := New("access-secret", time.Minute, "refresh-secret", time.Hour)
	ctx := context.Background()

	accessToken, _ := j.GenerateAccessToken(ctx, AccessClaims{UserID: uuid.New()})

	_, err := j.ParseRefreshToken(ctx, accessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = j.ParseRefreshToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGetTokenFromRequest(t *testing.T) {
	j := New("access-secret", time.Minute, "refresh-secret", time.Hour)
	ctx := context.Background()

	tests := []struct {
		name      string
		setup     func(r *http.Request)
		wantToken string
		wantErr   bool
	}{
		{
			name:      "bearer header",
			setup:     func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc123") },
			wantToken: "abc123",
		},
		{
			name:      "cookie fallback",
			setup:     func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "accessToken", Value: "cookie-token"}) },
			wantToken: "cookie-token",
		},
		{
			name: "header wins over cookie",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer header-token")
				r.AddCookie(&http.Cookie{Name: "accessToken", Value: "cookie-token"})
			},
			wantToken: "header-token",
		},
		{
			name:    "malformed header",
			setup:   func(r *http.Request) { r.Header.Set("Authorization", "abc123") },
			wantErr: true,
		},
		{
			name:    "missing everywhere",
			setup:   func(r *http.Request) {},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)

			token, err := j.GetTokenFromRequest(ctx, req)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}
