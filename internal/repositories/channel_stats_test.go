package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestChannelStatsReadRepository(t *testing.T) {
	db, teardown := setupPostgres(t)
	defer teardown()

	writeRepo := NewUserWriteRepository(db)
	statsRepo := NewChannelStatsReadRepository(db)
	ctx := context.Background()

	channelID, err := writeRepo.Create(ctx, testNewUser("channel", "channel@example.com"))
	assert.NoError(t, err)
	fan1, err := writeRepo.Create(ctx, testNewUser("fan1", "fan1@example.com"))
	assert.NoError(t, err)
	fan2, err := writeRepo.Create(ctx, testNewUser("fan2", "fan2@example.com"))
	assert.NoError(t, err)

	_, err = db.Exec("INSERT INTO subscriptions (subscriber_id, channel_id) VALUES ($1, $2), ($3, $2), ($2, $1)",
		fan1, channelID, fan2)
	assert.NoError(t, err)

	t.Run("counts", func(t *testing.T) {
		counts, err := statsRepo.GetCounts(ctx, channelID)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), counts.SubscriberCount)
		assert.Equal(t, int64(1), counts.SubscribedToCount)
	})

	t.Run("counts for channel with no subscriptions", func(t *testing.T) {
		counts, err := statsRepo.GetCounts(ctx, fan2)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), counts.SubscriberCount)
		assert.Equal(t, int64(1), counts.SubscribedToCount)
	})

	t.Run("is subscribed", func(t *testing.T) {
		subscribed, err := statsRepo.IsSubscribed(ctx, channelID, fan1)
		assert.NoError(t, err)
		assert.True(t, subscribed)

		subscribed, err = statsRepo.IsSubscribed(ctx, fan1, fan2)
		assert.NoError(t, err)
		assert.False(t, subscribed)
	})
}

func TestChannelStatsCacheRepository(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7.0-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)
	defer redisC.Terminate(ctx)

	host, err := redisC.Host(ctx)
	assert.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	assert.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})
	defer rdb.Close()

	assert.NoError(t, rdb.Ping(ctx).Err())

	repo := NewChannelStatsCacheRepository(rdb, 2*time.Second)
	channelID := uuid.New()

	t.Run("set and get counts", func(t *testing.T) {
		counts := &ChannelCounts{SubscriberCount: 42, SubscribedToCount: 7}

		assert.NoError(t, repo.SetCounts(ctx, channelID, counts))

		got, err := repo.GetCounts(ctx, channelID)
		assert.NoError(t, err)
		assert.Equal(t, counts, got)
	})

	t.Run("miss for unknown channel", func(t *testing.T) {
		_, err := repo.GetCounts(ctx, uuid.New())
		assert.Error(t, err)
	})

	t.Run("entry expires", func(t *testing.T) {
		assert.NoError(t, repo.SetCounts(ctx, channelID, &ChannelCounts{SubscriberCount: 1}))

		time.Sleep(3 * time.Second)

		_, err := repo.GetCounts(ctx, channelID)
		assert.Error(t, err)
	})
}
