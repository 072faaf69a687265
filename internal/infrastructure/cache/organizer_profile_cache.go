// Package cache keeps read-through copies of organizer profiles in Redis.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/velizario/gemini-children-events-be/internal/domain/entity"
	"github.com/velizario/gemini-children-events-be/pkg/helpers"
)

// FenceTTL is how long an invalidation blocks refills. A read that loaded
// the profile before the write and finishes within this window cannot put
// the stale copy back.
const FenceTTL = 5 * time.Second

// setUnlessFenced writes KEYS[1] unless the fence KEYS[2] is present.
var setUnlessFenced = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
  return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return 1
`)

type OrganizerProfileCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewOrganizerProfileCache(rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *OrganizerProfileCache {
	return &OrganizerProfileCache{rdb: rdb, ttl: ttl, logger: logger}
}

func Key(userID string) string {
	return "organizer:profile:" + userID
}

func fenceKey(userID string) string {
	return Key(userID) + ":fence"
}

// Get treats any redis failure as a miss.
func (c *OrganizerProfileCache) Get(ctx context.Context, userID string) (*entity.OrganizerPublicProfile, bool) {
	var p entity.OrganizerPublicProfile
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, Key(userID), &p)
	if err != nil {
		c.warn(err, userID, "organizer profile cache read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return &p, true
}

// Set stores p unless the profile was invalidated within FenceTTL.
func (c *OrganizerProfileCache) Set(ctx context.Context, userID string, p *entity.OrganizerPublicProfile) {
	b, err := json.Marshal(p)
	if err != nil {
		c.warn(err, userID, "organizer profile cache encode failed")
		return
	}
	keys := []string{Key(userID), fenceKey(userID)}
	if err := setUnlessFenced.Run(ctx, c.rdb, keys, b, c.ttl.Milliseconds()).Err(); err != nil {
		c.warn(err, userID, "organizer profile cache write failed")
	}
}

// Invalidate drops the cached profile and fences it against refills from
// reads that started before the change.
func (c *OrganizerProfileCache) Invalidate(ctx context.Context, userID string) {
	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, Key(userID))
	pipe.Set(ctx, fenceKey(userID), 1, FenceTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		c.warn(err, userID, "organizer profile cache invalidate failed")
	}
}

func (c *OrganizerProfileCache) warn(err error, userID, msg string) {
	if c.logger != nil {
		c.logger.WithError(err).WithField("user_id", userID).Warn(msg)
	}
}
