package redis

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"revere/internal/config"
	"revere/internal/core/domain"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

var testRDB *redis.Client

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		log.Printf("failed to start container, skipping redis tests: %s", err)
		return
	}
	url, err := container.ConnectionString(ctx)
	if err != nil {
		log.Fatalf("failed to get connection string: %v", err)
	}
	testRDB, err = NewRedisClient(ctx, config.RedisConfig{
		URL:         url,
		DialTimeout: 5 * time.Second,
		PoolSize:    10,
		PingTimeout: 5 * time.Second,
	})
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}

	code := m.Run()

	_ = testRDB.Close()
	if err := container.Terminate(ctx); err != nil {
		log.Printf("failed to terminate container: %s", err)
	}
	os.Exit(code)
}

func Test_NotifierFansOutAcrossNodes(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	nodeA := NewNotifier(ctx, logger, testRDB)
	nodeB := NewNotifier(ctx, logger, testRDB)
	defer nodeA.Close()
	defer nodeB.Close()

	var hits atomic.Int32
	unsub, err := nodeB.Subscribe(ctx, "thread:alice_bob", func() { hits.Add(1) })
	require.NoError(t, err)

	// Subscription confirmation is asynchronous; publish until it lands.
	assert.Eventually(t, func() bool {
		assert.NoError(t, nodeA.Publish(ctx, "thread:alice_bob"))
		return hits.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	unsub()
	unsub()
	time.Sleep(100 * time.Millisecond)
	before := hits.Load()
	require.NoError(t, nodeA.Publish(ctx, "thread:alice_bob"))
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, before, hits.Load())
}

func Test_ProfileCache(t *testing.T) {
	ctx := context.Background()
	cache := NewProfileCache(testRDB)

	_, ok, err := cache.GetProfile(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.SetProfile(ctx, domain.Profile{ParticipantID: "alice", DisplayName: "Alice", AvatarURL: "a.png"}, time.Minute))
	p, ok, err := cache.GetProfile(ctx, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Alice", p.DisplayName)
	assert.Equal(t, "a.png", p.AvatarURL)

	ttl, err := testRDB.TTL(ctx, profileKey("alice")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func Test_ClientOptions(t *testing.T) {
	opts, err := clientOptions(config.RedisConfig{
		URL:         "redis://localhost:6380/2",
		DialTimeout: time.Second,
		PoolSize:    4,
	})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, clientName, opts.ClientName)
	assert.Equal(t, time.Second, opts.DialTimeout)
	assert.Equal(t, 4, opts.PoolSize)

	_, err = clientOptions(config.RedisConfig{URL: "://nope"})
	assert.Error(t, err)
}
