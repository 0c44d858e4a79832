// Package media integrates the Cloudinary object storage used for avatar and
// cover-image uploads.
package media

import (
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/vidtube/vidtube-api/internal/logger"
)

// Asset is a stored media object.
type Asset struct {
	URL      string // Public delivery URL
	PublicID string // Provider identifier, needed for deletion
}

// CloudinaryStore uploads and deletes media assets on Cloudinary.
type CloudinaryStore struct {
	client *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStore creates a store from a CLOUDINARY_URL-style credential
// string. All assets are placed under the given folder.
func NewCloudinaryStore(credentialsURL, folder string) (*CloudinaryStore, error) {
	client, err := cloudinary.NewFromURL(credentialsURL)
	if err != nil {
		return nil, err
	}
	return &CloudinaryStore{client: client, folder: folder}, nil
}

// Upload stores the file content and returns the resulting asset.
func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader) (*Asset, error) {
	result, err := s.client.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:       s.folder,
		ResourceType: "auto",
	})
	if err != nil {
		logger.Log.Errorw("media upload failed", "error", err)
		return nil, err
	}

	logger.Log.Infow("media uploaded", "public_id", result.PublicID, "url", result.SecureURL)
	return &Asset{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

// Destroy removes a previously uploaded asset by its public id.
func (s *CloudinaryStore) Destroy(ctx context.Context, publicID string) error {
	_, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		logger.Log.Errorw("media destroy failed", "public_id", publicID, "error", err)
		return err
	}

	logger.Log.Infow("media destroyed", "public_id", publicID)
	return nil
}
