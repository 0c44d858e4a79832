package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/vidtube/vidtube-api/internal/jwt"
	"github.com/vidtube/vidtube-api/internal/logger"
)

// Tokener defines the minimal interface needed by the middleware
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	ParseAccessToken(ctx context.Context, tokenString string) (*jwt.AccessClaims, error)
}

type claimsKey struct{}

// AuthMiddleware returns a middleware that verifies the access token and
// stores the resolved identity in the request context. Protected handlers
// read it with ClaimsFromContext.
func AuthMiddleware(tokener Tokener) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				writeUnauthorized(w)
				return
			}

			claims, err := tokener.ParseAccessToken(ctx, tokenString)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				writeUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithClaims(ctx, claims)))
		})
	}
}

// ContextWithClaims returns a context carrying the resolved identity.
func ContextWithClaims(ctx context.Context, claims *jwt.AccessClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the identity resolved by AuthMiddleware,
// or nil outside an authenticated request.
func ClaimsFromContext(ctx context.Context) *jwt.AccessClaims {
	claims, _ := ctx.Value(claimsKey{}).(*jwt.AccessClaims)
	return claims
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"statusCode": http.StatusUnauthorized,
		"message":    "unauthorized",
		"errors":     []string{},
		"success":    false,
	})
}
