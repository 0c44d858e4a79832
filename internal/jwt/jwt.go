package jwt

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for any token that fails verification:
// bad signature, malformed payload, or expiry.
var ErrInvalidToken = errors.New("invalid token")

// AccessClaims are the identity claims embedded in an access token.
type AccessClaims struct {
	UserID   uuid.UUID
	Email    string
	Username string
	Fullname string
}

// JWT issues and verifies the two token classes with independent secrets
// and expirations. Access tokens are short-lived identity assertions;
// refresh tokens carry only the user id and live longer.
type JWT struct {
	AccessSecret  string
	AccessExp     time.Duration
	RefreshSecret string
	RefreshExp    time.Duration
}

// New creates a new JWT instance
func New(accessSecret string, accessExp time.Duration, refreshSecret string, refreshExp time.Duration) *JWT {
	return &JWT{
		AccessSecret:  accessSecret,
		AccessExp:     accessExp,
		RefreshSecret: refreshSecret,
		RefreshExp:    refreshExp,
	}
}

// GenerateAccessToken signs an access token for the given user identity.
func (j *JWT) GenerateAccessToken(ctx context.Context, claims AccessClaims) (string, error) {
	now := time.Now()
	mapClaims := jwt.MapClaims{
		"sub":      claims.UserID.String(),
		"email":    claims.Email,
		"username": claims.Username,
		"fullname": claims.Fullname,
		"iat":      now.Unix(),
		"exp":      now.Add(j.AccessExp).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return token.SignedString([]byte(j.AccessSecret))
}

// GenerateRefreshToken signs a refresh token carrying only the user id.
// The jti claim makes every issued token distinct, so rotation can tell a
// fresh token from the one it replaces even within the same second.
func (j *JWT) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	now := time.Now()
	mapClaims := jwt.MapClaims{
		"sub": userID.String(),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(j.RefreshExp).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return token.SignedString([]byte(j.RefreshSecret))
}

// ParseAccessToken verifies an access token and returns its identity claims.
func (j *JWT) ParseAccessToken(ctx context.Context, tokenString string) (*AccessClaims, error) {
	mapClaims, err := j.parse(tokenString, j.AccessSecret)
	if err != nil {
		return nil, err
	}

	userID, err := subjectID(mapClaims)
	if err != nil {
		return nil, err
	}

	claims := &AccessClaims{UserID: userID}
	claims.Email, _ = mapClaims["email"].(string)
	claims.Username, _ = mapClaims["username"].(string)
	claims.Fullname, _ = mapClaims["fullname"].(string)
	return claims, nil
}

// ParseRefreshToken verifies a refresh token and returns the user id it was
// issued to.
func (j *JWT) ParseRefreshToken(ctx context.Context, tokenString string) (uuid.UUID, error) {
	mapClaims, err := j.parse(tokenString, j.RefreshSecret)
	if err != nil {
		return uuid.Nil, err
	}
	return subjectID(mapClaims)
}

func (j *JWT) parse(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func subjectID(claims jwt.MapClaims) (uuid.UUID, error) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return userID, nil
}

// GetTokenFromRequest extracts the access token from the Authorization
// header, falling back to the accessToken cookie.
func (j *JWT) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return "", errors.New("invalid authorization header format")
		}
		return parts[1], nil
	}

	cookie, err := r.Cookie("accessToken")
	if err != nil || cookie.Value == "" {
		return "", errors.New("authorization header missing")
	}
	return cookie.Value, nil
}
