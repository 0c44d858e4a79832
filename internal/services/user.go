package services

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/vidtube/vidtube-api/internal/apperrors"
	"github.com/vidtube/vidtube-api/internal/logger"
	"github.com/vidtube/vidtube-api/internal/models"
	"github.com/vidtube/vidtube-api/internal/repositories"
)

// ChannelStatsReader retrieves subscription aggregates for a channel.
type ChannelStatsReader interface {
	GetCounts(ctx context.Context, channelID uuid.UUID) (*repositories.ChannelCounts, error)
	IsSubscribed(ctx context.Context, channelID, subscriberID uuid.UUID) (bool, error)
}

// ChannelStatsCache caches subscription aggregates.
type ChannelStatsCache interface {
	GetCounts(ctx context.Context, channelID uuid.UUID) (*repositories.ChannelCounts, error)
	SetCounts(ctx context.Context, channelID uuid.UUID, counts *repositories.ChannelCounts) error
}

// WatchHistoryReader retrieves a user's watched videos with owner projection.
type WatchHistoryReader interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.WatchHistoryEntry, error)
}

// UserService handles profile reads and account updates for an identity that
// the request-authentication boundary already resolved.
type UserService struct {
	reader     UserReader
	writer     UserWriter
	store      MediaStore
	stats      ChannelStatsReader
	statsCache ChannelStatsCache
	history    WatchHistoryReader
}

// NewUserService creates a new UserService instance.
func NewUserService(
	reader UserReader,
	writer UserWriter,
	store MediaStore,
	stats ChannelStatsReader,
	statsCache ChannelStatsCache,
	history WatchHistoryReader,
) *UserService {
	return &UserService{
		reader:     reader,
		writer:     writer,
		store:      store,
		stats:      stats,
		statsCache: statsCache,
		history:    history,
	}
}

// CurrentUser returns the sanitized record for the authenticated user.
func (svc *UserService) CurrentUser(ctx context.Context, userID uuid.UUID) (*models.SanitizedUser, error) {
	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to load current user", "user_id", userID, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrInvalidToken
	}

	sanitized := user.Sanitize()
	return &sanitized, nil
}

// ChannelProfile returns the channel view of a user: the public record plus
// subscriber counts and whether the requester subscribes to it. Counts are
// served from the cache when fresh.
func (svc *UserService) ChannelProfile(ctx context.Context, username string, requesterID uuid.UUID) (*models.ChannelProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperrors.ErrValidation
	}

	user, err := svc.reader.GetByUsernameOrEmail(ctx, &username, nil)
	if err != nil {
		logger.Log.Errorw("failed to load channel", "username", username, "err", err)
		return nil, err
	}
	if user == nil {
		return nil, apperrors.ErrNotFound
	}

	counts, err := svc.statsCache.GetCounts(ctx, user.UserID)
	if err != nil {
		counts, err = svc.stats.GetCounts(ctx, user.UserID)
		if err != nil {
			logger.Log.Errorw("failed to load channel stats", "channel_id", user.UserID, "err", err)
			return nil, err
		}
		if cacheErr := svc.statsCache.SetCounts(ctx, user.UserID, counts); cacheErr != nil {
			logger.Log.Errorw("failed to cache channel stats", "channel_id", user.UserID, "err", cacheErr)
		}
	}

	subscribed, err := svc.stats.IsSubscribed(ctx, user.UserID, requesterID)
	if err != nil {
		logger.Log.Errorw("failed to check subscription", "channel_id", user.UserID, "err", err)
		return nil, err
	}

	return &models.ChannelProfile{
		UserID:            user.UserID,
		Username:          user.Username,
		Fullname:          user.Fullname,
		AvatarURL:         user.AvatarURL,
		CoverImageURL:     user.CoverImageURL,
		SubscriberCount:   counts.SubscriberCount,
		SubscribedToCount: counts.SubscribedToCount,
		IsSubscribed:      subscribed,
	}, nil
}

// UpdateAccount patches fullname and/or email. At least one must be provided.
func (svc *UserService) UpdateAccount(ctx context.Context, userID uuid.UUID, fullname, email string) (*models.SanitizedUser, error) {
	fullname = strings.TrimSpace(fullname)
	email = strings.TrimSpace(email)
	if fullname == "" && email == "" {
		return nil, apperrors.ErrValidation
	}

	patch := map[string]any{}
	if fullname != "" {
		patch["fullname"] = fullname
	}
	if email != "" {
		patch["email"] = strings.ToLower(email)
	}

	if err := svc.writer.UpdateFields(ctx, userID, patch); err != nil {
		if errors.Is(err, repositories.ErrDuplicateUser) {
			return nil, apperrors.ErrDuplicateUser
		}
		logger.Log.Errorw("failed to update account", "user_id", userID, "err", err)
		return nil, err
	}

	return svc.CurrentUser(ctx, userID)
}

// UpdateAvatar uploads a new avatar and stores its URL. If the database
// update fails, the freshly uploaded asset is destroyed.
func (svc *UserService) UpdateAvatar(ctx context.Context, userID uuid.UUID, file io.Reader) (*models.SanitizedUser, error) {
	return svc.updateImage(ctx, userID, file, "avatar_url")
}

// UpdateCoverImage uploads a new cover image and stores its URL.
func (svc *UserService) UpdateCoverImage(ctx context.Context, userID uuid.UUID, file io.Reader) (*models.SanitizedUser, error) {
	return svc.updateImage(ctx, userID, file, "cover_image_url")
}

func (svc *UserService) updateImage(ctx context.Context, userID uuid.UUID, file io.Reader, column string) (*models.SanitizedUser, error) {
	if file == nil {
		return nil, apperrors.New(400, "image file is required")
	}

	asset, err := svc.store.Upload(ctx, file)
	if err != nil {
		return nil, apperrors.New(500, "failed to upload image")
	}

	if err := svc.writer.UpdateFields(ctx, userID, map[string]any{column: asset.URL}); err != nil {
		if destroyErr := svc.store.Destroy(ctx, asset.PublicID); destroyErr != nil {
			logger.Log.Errorw("failed to clean up uploaded media", "public_id", asset.PublicID, "err", destroyErr)
		}
		logger.Log.Errorw("failed to update image", "user_id", userID, "column", column, "err", err)
		return nil, err
	}

	return svc.CurrentUser(ctx, userID)
}

// WatchHistory returns the user's watched videos, most recent first.
func (svc *UserService) WatchHistory(ctx context.Context, userID uuid.UUID) ([]models.WatchHistoryEntry, error) {
	entries, err := svc.history.GetByUserID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to load watch history", "user_id", userID, "err", err)
		return nil, err
	}
	return entries, nil
}
