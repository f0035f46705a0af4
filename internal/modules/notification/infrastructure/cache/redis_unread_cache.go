package cache

import (
	"context"
	"time"

	myredis "RepairDesk/pkg/redis"
	"RepairDesk/pkg/zlog"

	"go.uber.org/zap"
)

const unreadKeyPrefix = "notif:unread:"

// RedisUnreadCache 未读数缓存；Redis 不可用时所有操作退化为 miss
type RedisUnreadCache struct {
	ttl time.Duration
}

func NewRedisUnreadCache(ttl time.Duration) *RedisUnreadCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisUnreadCache{ttl: ttl}
}

func unreadKey(userID string) string {
	return unreadKeyPrefix + userID
}

func (c *RedisUnreadCache) effectiveTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 || ttl > c.ttl {
		return c.ttl
	}
	return ttl
}

func (c *RedisUnreadCache) Get(ctx context.Context, userID string) (int64, bool) {
	if !myredis.IsConnected() {
		return 0, false
	}
	n, err := myredis.GetInt64(ctx, unreadKey(userID))
	if err != nil {
		if !myredis.IsNil(err) {
			zlog.Warn("read unread count cache failed", zap.String("user_id", userID), zap.Error(err))
		}
		return 0, false
	}
	return n, true
}

func (c *RedisUnreadCache) Set(ctx context.Context, userID string, count int64, ttl time.Duration) {
	if !myredis.IsConnected() {
		return
	}
	if err := myredis.Set(ctx, unreadKey(userID), count, c.effectiveTTL(ttl)); err != nil {
		zlog.Warn("write unread count cache failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (c *RedisUnreadCache) Invalidate(ctx context.Context, userID string) {
	if !myredis.IsConnected() {
		return
	}
	if _, err := myredis.Del(ctx, unreadKey(userID)); err != nil {
		zlog.Warn("invalidate unread count cache failed", zap.String("user_id", userID), zap.Error(err))
	}
}
