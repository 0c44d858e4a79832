package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vidtube/vidtube-api/internal/jwt"
	"github.com/vidtube/vidtube-api/internal/media"
	"github.com/vidtube/vidtube-api/internal/models"
	"github.com/vidtube/vidtube-api/internal/password"
	"github.com/vidtube/vidtube-api/internal/services"
)

// memoryUsers is a minimal in-memory user store backing the flow test,
// mimicking the write repository's hashing and compare-and-swap contracts.
type memoryUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.UserDB
}

func (m *memoryUsers) create(user models.NewUser) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hashed, err := password.Hash(user.Password)
	if err != nil {
		return uuid.Nil, err
	}
	id := uuid.New()
	m.users[id] = &models.UserDB{
		UserID:       id,
		Username:     user.Username,
		Email:        user.Email,
		Fullname:     user.Fullname,
		PasswordHash: hashed,
		AvatarURL:    user.AvatarURL,
		CreatedAt:    time.Now(),
	}
	return id, nil
}

func (m *memoryUsers) byID(id uuid.UUID) *models.UserDB {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied
	}
	return nil
}

func (m *memoryUsers) byIdentifier(identifier string) *models.UserDB {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == identifier || u.Email == identifier {
			copied := *u
			return &copied
		}
	}
	return nil
}

func (m *memoryUsers) setRefreshToken(id uuid.UUID, token *string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.RefreshToken = token
	}
}

func (m *memoryUsers) rotateRefreshToken(id uuid.UUID, old, new string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok || u.RefreshToken == nil || *u.RefreshToken != old {
		return false
	}
	u.RefreshToken = &new
	return true
}

// TestAuthFlow walks the full session lifecycle through the HTTP layer:
// register, login, rotate the refresh token, then confirm the consumed
// token is rejected.
func TestAuthFlow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := &memoryUsers{users: map[uuid.UUID]*models.UserDB{}}

	reader := services.NewMockUserReader(ctrl)
	reader.EXPECT().GetByID(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(ctx interface{}, id uuid.UUID) (*models.UserDB, error) {
			return store.byID(id), nil
		})
	reader.EXPECT().GetByUsernameOrEmail(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(ctx interface{}, username, email *string) (*models.UserDB, error) {
			if username != nil {
				if u := store.byIdentifier(*username); u != nil {
					return u, nil
				}
			}
			if email != nil {
				if u := store.byIdentifier(*email); u != nil {
					return u, nil
				}
			}
			return nil, nil
		})

	writer := services.NewMockUserWriter(ctrl)
	writer.EXPECT().Create(gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(ctx interface{}, user models.NewUser) (uuid.UUID, error) {
			return store.create(user)
		})
	writer.EXPECT().SetRefreshToken(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(ctx interface{}, id uuid.UUID, token *string) error {
			store.setRefreshToken(id, token)
			return nil
		})
	writer.EXPECT().RotateRefreshToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes().
		DoAndReturn(func(ctx interface{}, id uuid.UUID, old, new string) (bool, error) {
			return store.rotateRefreshToken(id, old, new), nil
		})

	mediaStore := services.NewMockMediaStore(ctrl)
	mediaStore.EXPECT().Upload(gomock.Any(), gomock.Any()).AnyTimes().
		Return(&media.Asset{URL: "https://cdn.example.com/a.png", PublicID: "vidtube/a"}, nil)

	tokens := jwt.New("access-secret", time.Minute, "refresh-secret", time.Hour)
	authSvc := services.NewAuthService(reader, writer, tokens, mediaStore, nil)
	cookies := NewCookieWriter(false, time.Minute, time.Hour)

	router := chi.NewRouter()
	router.Post("/api/v1/users/register", NewRegisterHandler(authSvc))
	router.Post("/api/v1/users/login", NewLoginHandler(authSvc, cookies))
	router.Post("/api/v1/users/refresh-token", NewRefreshTokenHandler(authSvc, cookies))

	// Register
	body, contentType := multipartBody(t, map[string]string{
		"fullname": "Alice Smith",
		"email":    "alice@example.com",
		"username": "alice",
		"password": "p@ss1234",
	}, map[string]string{"avatar": "avatar-bytes"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/register", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusCreated, rr.Code)

	// Login
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/login",
		bytes.NewBufferString(`{"email":"alice@example.com","password":"p@ss1234"}`))
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	var refreshCookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "refreshToken" {
			refreshCookie = c
		}
	}
	assert.NotNil(t, refreshCookie)
	firstRefresh := refreshCookie.Value

	// Refresh rotates the token
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: firstRefresh})
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	resp := decodeEnvelope(t, rr.Body)
	data := resp["data"].(map[string]any)
	secondRefresh := data["refreshToken"].(string)
	assert.NotEmpty(t, secondRefresh)
	assert.NotEqual(t, firstRefresh, secondRefresh)

	// The consumed token is rejected
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: firstRefresh})
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	// The rotated token still works
	req = httptest.NewRequest(http.MethodPost, "/api/v1/users/refresh-token", nil)
	req.AddCookie(&http.Cookie{Name: "refreshToken", Value: secondRefresh})
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
