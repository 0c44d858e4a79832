package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/vidtube/vidtube-api/internal/logger"
)

// ChannelCounts are the requester-independent aggregates for one channel.
type ChannelCounts struct {
	SubscriberCount   int64 `json:"subscriber_count" db:"subscriber_count"`
	SubscribedToCount int64 `json:"subscribed_to_count" db:"subscribed_to_count"`
}

type ChannelStatsReadRepository struct {
	db *sqlx.DB
}

func NewChannelStatsReadRepository(db *sqlx.DB) *ChannelStatsReadRepository {
	return &ChannelStatsReadRepository{db: db}
}

// GetCounts returns how many users subscribe to the channel and how many
// channels the user subscribes to.
func (r *ChannelStatsReadRepository) GetCounts(ctx context.Context, channelID uuid.UUID) (*ChannelCounts, error) {
	const query = `
		SELECT
			(SELECT COUNT(*) FROM subscriptions WHERE channel_id = $1)    AS subscriber_count,
			(SELECT COUNT(*) FROM subscriptions WHERE subscriber_id = $1) AS subscribed_to_count
	`

	var counts ChannelCounts
	if err := r.db.GetContext(ctx, &counts, query, channelID); err != nil {
		return nil, err
	}
	return &counts, nil
}

// IsSubscribed reports whether subscriberID currently subscribes to channelID.
func (r *ChannelStatsReadRepository) IsSubscribed(ctx context.Context, channelID, subscriberID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions WHERE channel_id = $1 AND subscriber_id = $2
		)
	`

	var subscribed bool
	if err := r.db.GetContext(ctx, &subscribed, query, channelID, subscriberID); err != nil {
		return false, err
	}
	return subscribed, nil
}

// ChannelStatsCacheRepository caches channel aggregates in Redis. The
// is-subscribed flag depends on the requester and is never cached.
type ChannelStatsCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration duration for cached counts
}

func NewChannelStatsCacheRepository(client *redis.Client, expiration time.Duration) *ChannelStatsCacheRepository {
	return &ChannelStatsCacheRepository{
		client: client,
		exp:    expiration,
	}
}

// GetCounts fetches cached channel aggregates, failing when absent or stale.
func (r *ChannelStatsCacheRepository) GetCounts(ctx context.Context, channelID uuid.UUID) (*ChannelCounts, error) {
	key := fmt.Sprintf("channel_stats:%s", channelID)

	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("channel stats not found in cache for %s", channelID)
	}
	if err != nil {
		return nil, err
	}

	var counts ChannelCounts
	if err := json.Unmarshal([]byte(val), &counts); err != nil {
		return nil, err
	}
	return &counts, nil
}

// SetCounts stores channel aggregates with the configured TTL.
func (r *ChannelStatsCacheRepository) SetCounts(ctx context.Context, channelID uuid.UUID, counts *ChannelCounts) error {
	key := fmt.Sprintf("channel_stats:%s", channelID)

	data, err := json.Marshal(counts)
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, key, data, r.exp).Err(); err != nil {
		logger.Log.Errorw("failed to cache channel stats", "channel_id", channelID, "error", err)
		return err
	}
	return nil
}
