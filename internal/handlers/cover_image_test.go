package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vidtube/vidtube-api/internal/models"
)

func TestUpdateCoverImageHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockSvc := NewMockCoverImageUpdater(ctrl)
		mockSvc.EXPECT().
			UpdateCoverImage(gomock.Any(), userID, gomock.Any()).
			Return(&models.SanitizedUser{UserID: userID, CoverImageURL: "https://cdn.example.com/cover.png"}, nil)

		handler := NewUpdateCoverImageHandler(mockSvc)

		body, contentType := multipartBody(t, nil, map[string]string{"coverImage": "img-bytes"})
		req := authedRequest(httptest.NewRequest(http.MethodPatch, "/api/v1/users/cover-image", body), userID)
		req.Header.Set("Content-Type", contentType)

		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		resp := decodeEnvelope(t, rr.Body)
		assert.Equal(t, "Cover image updated successfully", resp["message"])
	})

	t.Run("missing file", func(t *testing.T) {
		handler := NewUpdateCoverImageHandler(NewMockCoverImageUpdater(ctrl))

		body, contentType := multipartBody(t, nil, nil)
		req := authedRequest(httptest.NewRequest(http.MethodPatch, "/api/v1/users/cover-image", body), userID)
		req.Header.Set("Content-Type", contentType)

		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeEnvelope(t, rr.Body)
		assert.Equal(t, "cover image file is required", resp["message"])
	})
}
