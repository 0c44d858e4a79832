package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/models"
)

func TestChannelProfileHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	requesterID := uuid.New()
	channelID := uuid.New()

	tests := []struct {
		name        string
		username    string
		mockSetup   func(m *MockChannelProfileGetter)
		wantCode    int
		wantMessage string
	}{
		{
			name:     "success",
			username: "bob",
			mockSetup: func(m *MockChannelProfileGetter) {
				m.EXPECT().
					ChannelProfile(gomock.Any(), "bob", requesterID).
					Return(&models.ChannelProfile{
						UserID:          channelID,
						Username:        "bob",
						SubscriberCount: 42,
						IsSubscribed:    true,
					}, nil)
			},
			wantCode:    http.StatusOK,
			wantMessage: "Channel profile fetched successfully",
		},
		{
			name:     "unknown channel",
			username: "nobody",
			mockSetup: func(m *MockChannelProfileGetter) {
				m.EXPECT().
					ChannelProfile(gomock.Any(), "nobody", requesterID).
					Return(nil, apperrors.ErrNotFound)
			},
			wantCode:    http.StatusNotFound,
			wantMessage: "resource not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockChannelProfileGetter(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			router := chi.NewRouter()
			router.Get("/api/v1/users/c/{username}", NewChannelProfileHandler(mockSvc))

			req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/v1/users/c/"+tt.username, nil), requesterID)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)

			resp := decodeEnvelope(t, rr.Body)
			assert.Equal(t, tt.wantMessage, resp["message"])

			if tt.wantCode == http.StatusOK {
				data := resp["data"].(map[string]any)
				assert.Equal(t, "bob", data["username"])
				assert.Equal(t, float64(42), data["subscriberCount"])
				assert.Equal(t, true, data["isSubscribed"])
			}
		})
	}
}
