package helpers

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRedis *redis.Client

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	flag.Parse()
	if testing.Short() || os.Getenv("SKIP_DOCKER_TESTS") != "" {
		return m.Run()
	}

	dp, err := dockertest.NewPool("")
	if err == nil {
		err = dp.Client.Ping()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "docker unavailable, redis tests skipped: %v\n", err)
		return m.Run()
	}

	res, err := dp.RunWithOptions(&dockertest.RunOptions{Repository: "redis", Tag: "7-alpine"}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not start redis: %v\n", err)
		return m.Run()
	}
	defer func() { _ = dp.Purge(res) }()
	_ = res.Expire(120)

	dp.MaxWait = 60 * time.Second
	if err := dp.Retry(func() error {
		rdb := NewRedisClient(res.GetHostPort("6379/tcp"), "", 0)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			_ = rdb.Close()
			return err
		}
		testRedis = rdb
		return nil
	}); err != nil {
		fmt.Fprintf(os.Stderr, "redis never became ready: %v\n", err)
		return 1
	}
	defer func() { _ = testRedis.Close() }()
	return m.Run()
}

func requireRedis(t *testing.T) {
	t.Helper()
	if testRedis == nil {
		t.Skip("redis not available")
	}
}

func TestRedisHSetIfExists_MissingHashStaysMissing(t *testing.T) {
	requireRedis(t)
	ctx := context.Background()
	key := fmt.Sprintf("user:session:missing-%d", time.Now().UnixNano())

	ok, err := RedisHSetIfExists(ctx, testRedis, key, map[string]any{"email": "a@example.com"})
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := testRedis.Exists(ctx, key).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisHSetIfExists_KeepsExpiry(t *testing.T) {
	requireRedis(t)
	ctx := context.Background()
	key := fmt.Sprintf("user:session:live-%d", time.Now().UnixNano())

	at := time.Now().Add(time.Hour)
	require.NoError(t, RedisHSetExpireAt(ctx, testRedis, key, map[string]any{"sid": "s-1"}, at))

	ok, err := RedisHSetIfExists(ctx, testRedis, key, map[string]any{"email": "b@example.com"})
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := testRedis.HGetAll(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"sid": "s-1", "email": "b@example.com"}, got)

	ttl, err := testRedis.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)
}

func TestRedisGetJSON_Miss(t *testing.T) {
	requireRedis(t)
	var v map[string]string
	ok, err := RedisGetJSON(context.Background(), testRedis, fmt.Sprintf("absent-%d", time.Now().UnixNano()), &v)
	require.NoError(t, err)
	assert.False(t, ok)
}
