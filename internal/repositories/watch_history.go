package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vidtube/vidtube-api/internal/logger"
	"github.com/vidtube/vidtube-api/internal/models"
)

type WatchHistoryReadRepository struct {
	db *sqlx.DB
}

func NewWatchHistoryReadRepository(db *sqlx.DB) *WatchHistoryReadRepository {
	return &WatchHistoryReadRepository{db: db}
}

// GetByUserID returns the user's watched videos, most recent first, each
// joined with its owner's public projection.
func (r *WatchHistoryReadRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]models.WatchHistoryEntry, error) {
	const query = `
		SELECT v.video_id,
		       v.title,
		       v.thumbnail_url,
		       v.duration_seconds,
		       wh.watched_at,
		       u.username   AS owner_username,
		       u.fullname   AS owner_fullname,
		       u.avatar_url AS owner_avatar_url
		FROM watch_history wh
		JOIN videos v ON v.video_id = wh.video_id
		JOIN users u ON u.user_id = v.owner_id
		WHERE wh.user_id = $1
		ORDER BY wh.watched_at DESC
	`

	entries := []models.WatchHistoryEntry{}
	err := r.db.SelectContext(ctx, &entries, query, userID)

	logger.Log.Debugw("watch history lookup",
		"query", strings.Join(strings.Fields(query), " "),
		"user_id", userID,
		"count", len(entries),
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	return entries, nil
}
