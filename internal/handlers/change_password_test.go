package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vidtube/vidtube-api/internal/apperrors"
)

func TestChangePasswordHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()

	tests := []struct {
		name        string
		reqBody     ChangePasswordRequest
		rawBody     string
		mockSetup   func(m *MockPasswordChanger)
		wantCode    int
		wantMessage string
	}{
		{
			name:    "success",
			reqBody: ChangePasswordRequest{OldPassword: "old-pass", NewPassword: "new-pass"},
			mockSetup: func(m *MockPasswordChanger) {
				m.EXPECT().
					ChangePassword(gomock.Any(), userID, "old-pass", "new-pass").
					Return(nil)
			},
			wantCode:    http.StatusOK,
			wantMessage: "Password changed successfully",
		},
		{
			name:    "wrong old password",
			reqBody: ChangePasswordRequest{OldPassword: "wrong", NewPassword: "new-pass"},
			mockSetup: func(m *MockPasswordChanger) {
				m.EXPECT().
					ChangePassword(gomock.Any(), userID, "wrong", "new-pass").
					Return(apperrors.ErrInvalidCredentials)
			},
			wantCode:    http.StatusUnauthorized,
			wantMessage: "invalid credentials",
		},
		{
			name:    "empty new password",
			reqBody: ChangePasswordRequest{OldPassword: "old-pass"},
			mockSetup: func(m *MockPasswordChanger) {
				m.EXPECT().
					ChangePassword(gomock.Any(), userID, "old-pass", "").
					Return(apperrors.ErrValidation)
			},
			wantCode:    http.StatusBadRequest,
			wantMessage: "all fields are required",
		},
		{
			name:        "invalid json",
			rawBody:     "{broken",
			wantCode:    http.StatusBadRequest,
			wantMessage: "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockPasswordChanger(ctrl)
			if tt.mockSetup != nil {
				tt.mockSetup(mockSvc)
			}

			handler := NewChangePasswordHandler(mockSvc)

			var body *bytes.Buffer
			if tt.rawBody != "" {
				body = bytes.NewBufferString(tt.rawBody)
			} else {
				bodyBytes, _ := json.Marshal(tt.reqBody)
				body = bytes.NewBuffer(bodyBytes)
			}

			req := authedRequest(httptest.NewRequest(http.MethodPost, "/api/v1/users/change-password", body), userID)
			rr := httptest.NewRecorder()
			handler(rr, req)

			assert.Equal(t, tt.wantCode, rr.Code)

			resp := decodeEnvelope(t, rr.Body)
			assert.Equal(t, tt.wantMessage, resp["message"])
		})
	}
}
