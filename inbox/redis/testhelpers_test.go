//go:build integration

package redis_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/marcelsud/notification-inbox/inbox"
	"github.com/marcelsud/notification-inbox/inbox/redis"
	"github.com/marcelsud/notification-inbox/notification"
	"github.com/stretchr/testify/require"
	testcontainersredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// RedisContainer holds the Redis testcontainer and connection details
type RedisContainer struct {
	Container *testcontainersredis.RedisContainer
	Addr      string
}

// SetupRedisContainer creates and starts a Redis testcontainer
func SetupRedisContainer(t *testing.T, ctx context.Context) (*RedisContainer, func()) {
	t.Helper()

	redisContainer, err := testcontainersredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "failed to start Redis container")

	addr, err := redisContainer.ConnectionString(ctx)
	require.NoError(t, err, "failed to get Redis connection string")
	addr = strings.TrimPrefix(addr, "redis://")

	cleanup := func() {
		if err := redisContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Redis container: %v", err)
		}
	}

	return &RedisContainer{Container: redisContainer, Addr: addr}, cleanup
}

// CreateTestRepository creates a Redis repository connected to the test container
func CreateTestRepository(t *testing.T, addr string, opts ...redis.Option) *redis.Repository {
	t.Helper()

	repo, err := redis.NewRepository(addr, "", 0, opts...)
	require.NoError(t, err, "failed to create Redis repository")

	return repo
}

// NewRecord builds a stored-looking record for a gateway
func NewRecord(t *testing.T, index int, gateway string) inbox.Record {
	t.Helper()
	return inbox.Record{
		ID:            fmt.Sprintf("test-notification-%d-%d", index, time.Now().UnixNano()),
		Gateway:       gateway,
		TransactionID: fmt.Sprintf("txn-%d", index),
		Status:        notification.Completed,
		GrossCents:    1999,
		Currency:      "USD",
		Fields:        map[string]string{"mc_gross": "19.99", "txn_id": fmt.Sprintf("txn-%d", index)},
		Raw:           fmt.Sprintf("mc_gross=19.99&txn_id=txn-%d", index),
		SenderIP:      "173.0.81.1",
		ReceivedAt:    time.Now(),
	}
}

// GetKeyTTL returns the TTL of a Redis key in seconds, read through the repository's client
func GetKeyTTL(t *testing.T, repo *redis.Repository, key string) int64 {
	t.Helper()

	ttl, err := repo.GetClient().TTL(context.Background(), key).Result()
	require.NoError(t, err)

	return int64(ttl.Seconds())
}
