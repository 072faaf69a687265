package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns a client with short timeouts; redis is a cache
// here, so a slow server should fail fast instead of stalling requests.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
}

// RedisGetJSON reports false without error on a cache miss.
func RedisGetJSON[T any](ctx context.Context, rdb *redis.Client, key string, dest *T) (bool, error) {
	res, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(res, dest); err != nil {
		return false, err
	}
	return true, nil
}

// RedisHSetExpireAt merges fields into a hash and moves its expiry to at,
// in one round trip.
func RedisHSetExpireAt(ctx context.Context, rdb *redis.Client, key string, fields map[string]any, at time.Time) error {
	pipe := rdb.TxPipeline()
	pipe.HSet(ctx, key, fields)
	pipe.ExpireAt(ctx, key, at)
	_, err := pipe.Exec(ctx)
	return err
}

var hsetIfExistsScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return 0
end
redis.call("HSET", KEYS[1], unpack(ARGV))
return 1
`)

// RedisHSetIfExists merges fields into an existing hash and leaves its expiry
// untouched. It reports false, writing nothing, when the hash is absent.
func RedisHSetIfExists(ctx context.Context, rdb *redis.Client, key string, fields map[string]any) (bool, error) {
	if len(fields) == 0 {
		return false, nil
	}
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	n, err := hsetIfExistsScript.Run(ctx, rdb, []string{key}, args...).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func RedisDel(ctx context.Context, rdb *redis.Client, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return rdb.Del(ctx, keys...).Err()
}
