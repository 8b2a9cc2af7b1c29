//go:build integration

package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/marcelsud/notification-inbox/inbox"
	"github.com/marcelsud/notification-inbox/inbox/redis"
	"github.com/marcelsud/notification-inbox/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Integration(t *testing.T) {
	ctx := context.Background()

	redisContainer, cleanup := SetupRedisContainer(t, ctx)
	defer cleanup()

	t.Run("store and retrieve notification", func(t *testing.T) {
		repo := CreateTestRepository(t, redisContainer.Addr)
		defer repo.Close(ctx)

		rec := NewRecord(t, 1, "paypal")

		id, err := repo.Store(ctx, rec)
		require.NoError(t, err)
		assert.Equal(t, rec.ID, id)

		got, err := repo.Get(ctx, id)
		require.NoError(t, err)

		assert.Equal(t, rec.ID, got.ID)
		assert.Equal(t, rec.Gateway, got.Gateway)
		assert.Equal(t, rec.TransactionID, got.TransactionID)
		assert.Equal(t, notification.Completed, got.Status)
		assert.Equal(t, int64(1999), got.GrossCents)
		assert.Equal(t, "USD", got.Currency)
		assert.Equal(t, rec.Fields, got.Fields)
		assert.Equal(t, rec.Raw, got.Raw)
		assert.Equal(t, rec.SenderIP, got.SenderIP)
		assert.Equal(t, rec.ReceivedAt.UnixMilli(), got.ReceivedAt.UnixMilli())
	})

	t.Run("get unknown id", func(t *testing.T) {
		repo := CreateTestRepository(t, redisContainer.Addr)
		defer repo.Close(ctx)

		_, err := repo.Get(ctx, "missing")

		assert.ErrorIs(t, err, inbox.ErrNotFound)
	})

	t.Run("list newest first and capped", func(t *testing.T) {
		repo := CreateTestRepository(t, redisContainer.Addr, redis.WithListCap(3))
		defer repo.Close(ctx)

		var ids []string
		for i := 0; i < 5; i++ {
			rec := NewRecord(t, i, "alipay")
			_, err := repo.Store(ctx, rec)
			require.NoError(t, err)
			ids = append(ids, rec.ID)
		}

		records, err := repo.ListByGateway(ctx, "alipay", 10)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, ids[4], records[0].ID)
		assert.Equal(t, ids[3], records[1].ID)
		assert.Equal(t, ids[2], records[2].ID)

		records, err = repo.ListByGateway(ctx, "alipay", 1)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, ids[4], records[0].ID)
	})

	t.Run("counts by gateway and status", func(t *testing.T) {
		repo := CreateTestRepository(t, redisContainer.Addr)
		defer repo.Close(ctx)

		before, err := repo.CountByGateway(ctx)
		require.NoError(t, err)

		refund := NewRecord(t, 100, "counted")
		refund.Status = notification.Refunded
		_, err = repo.Store(ctx, refund)
		require.NoError(t, err)
		_, err = repo.Store(ctx, NewRecord(t, 101, "counted"))
		require.NoError(t, err)

		after, err := repo.CountByGateway(ctx)
		require.NoError(t, err)
		assert.Equal(t, before["counted"]+2, after["counted"])

		statuses, err := repo.CountByStatus(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, statuses["refunded"], int64(1))
	})

	t.Run("ttl is applied to record hashes", func(t *testing.T) {
		repo := CreateTestRepository(t, redisContainer.Addr, redis.WithTTL(time.Hour))
		defer repo.Close(ctx)

		rec := NewRecord(t, 200, "paypal")
		_, err := repo.Store(ctx, rec)
		require.NoError(t, err)

		ttl := GetKeyTTL(t, repo, "notification:"+rec.ID)
		assert.Greater(t, ttl, int64(3500))
		assert.LessOrEqual(t, ttl, int64(3600))
	})
}
