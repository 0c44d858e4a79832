package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/logger"
)

// development toggles error detail in responses. Set once at startup.
var development bool

// Init configures package-level handler behavior.
func Init(dev bool) {
	development = dev
}

// APIResponse is the uniform success envelope
// swagger:model APIResponse
type APIResponse struct {
	// HTTP status code
	StatusCode int `json:"statusCode"`
	// Response payload
	Data any `json:"data,omitempty"`
	// Human-readable message
	Message string `json:"message"`
	// Always true for successful responses
	Success bool `json:"success"`
}

// APIErrorResponse is the uniform error envelope
// swagger:model APIErrorResponse
type APIErrorResponse struct {
	// HTTP status code
	StatusCode int `json:"statusCode"`
	// Human-readable message
	Message string `json:"message"`
	// Additional error detail, populated in development only
	Errors []string `json:"errors"`
	// Always false for error responses
	Success bool `json:"success"`
}

func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// writeError serializes err into the uniform error envelope. Errors outside
// the application taxonomy become a generic 500; their detail is logged and,
// outside development, never sent to the client.
func writeError(w http.ResponseWriter, err error) {
	status := apperrors.StatusOf(err)
	message := apperrors.MessageOf(err)

	if status == http.StatusInternalServerError {
		logger.Log.Errorw("internal server error", "err", err)
	}

	details := []string{}
	if development {
		details = append(details, err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIErrorResponse{
		StatusCode: status,
		Message:    message,
		Errors:     details,
		Success:    false,
	})
}

// CookieWriter sets and clears the token cookies. Cookies are always
// httpOnly; the secure flag is enabled only in production.
type CookieWriter struct {
	secure     bool
	accessExp  time.Duration
	refreshExp time.Duration
}

func NewCookieWriter(secure bool, accessExp, refreshExp time.Duration) *CookieWriter {
	return &CookieWriter{
		secure:     secure,
		accessExp:  accessExp,
		refreshExp: refreshExp,
	}
}

// SetTokens writes both token cookies.
func (c *CookieWriter) SetTokens(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.accessExp.Seconds()),
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.refreshExp.Seconds()),
	})
}

// ClearTokens expires both token cookies.
func (c *CookieWriter) ClearTokens(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: "accessToken", Value: "", Path: "/", HttpOnly: true, Secure: c.secure, MaxAge: -1})
	http.SetCookie(w, &http.Cookie{Name: "refreshToken", Value: "", Path: "/", HttpOnly: true, Secure: c.secure, MaxAge: -1})
}
