package models

import (
	"time"

	"github.com/google/uuid"
)

// ChannelProfile is a user record enriched with subscription counts,
// returned by the channel lookup endpoint.
type ChannelProfile struct {
	UserID            uuid.UUID `json:"id"`
	Username          string    `json:"username"`
	Fullname          string    `json:"fullname"`
	AvatarURL         string    `json:"avatar"`
	CoverImageURL     string    `json:"coverImage,omitempty"`
	SubscriberCount   int64     `json:"subscriberCount"`   // subscriptions where channel == this user
	SubscribedToCount int64     `json:"subscribedToCount"` // subscriptions where subscriber == this user
	IsSubscribed      bool      `json:"isSubscribed"`      // whether the requesting user subscribes to this channel
}

// WatchHistoryEntry is one watched video joined with its owner's projection.
type WatchHistoryEntry struct {
	VideoID         uuid.UUID `json:"videoId" db:"video_id"`
	Title           string    `json:"title" db:"title"`
	ThumbnailURL    string    `json:"thumbnail" db:"thumbnail_url"`
	DurationSeconds int       `json:"duration" db:"duration_seconds"`
	WatchedAt       time.Time `json:"watchedAt" db:"watched_at"`
	OwnerUsername   string    `json:"ownerUsername" db:"owner_username"`
	OwnerFullname   string    `json:"ownerFullname" db:"owner_fullname"`
	OwnerAvatarURL  string    `json:"ownerAvatar" db:"owner_avatar_url"`
}
