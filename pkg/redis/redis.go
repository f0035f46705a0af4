package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

var ErrNotConnected = errors.New("redis not connected")

// unlockScript 只删除自己持有的锁
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SetClient 设置 Redis 客户端（由 internal/initial 调用）
func SetClient(c *redis.Client) {
	client = c
}

// Close 关闭 Redis 连接
func Close() error {
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}

// IsConnected 检查 Redis 是否已连接
func IsConnected() bool {
	return client != nil
}

func GetClient() *redis.Client {
	return client
}

// IsNil key 不存在
func IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

func Get(ctx context.Context, key string) (string, error) {
	if client == nil {
		return "", ErrNotConnected
	}
	return client.Get(ctx, key).Result()
}

func GetInt64(ctx context.Context, key string) (int64, error) {
	if client == nil {
		return 0, ErrNotConnected
	}
	return client.Get(ctx, key).Int64()
}

func Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if client == nil {
		return ErrNotConnected
	}
	return client.Set(ctx, key, value, expiration).Err()
}

func Del(ctx context.Context, keys ...string) (int64, error) {
	if client == nil {
		return 0, ErrNotConnected
	}
	return client.Del(ctx, keys...).Result()
}

// Lock 获取分布式锁，token 用于释放时校验持有者
func Lock(ctx context.Context, key, token string, expiration time.Duration) (bool, error) {
	if client == nil {
		return false, ErrNotConnected
	}
	return client.SetNX(ctx, key, token, expiration).Result()
}

// Unlock 释放分布式锁，锁已过期或被他人持有时不做任何事
func Unlock(ctx context.Context, key, token string) error {
	if client == nil {
		return ErrNotConnected
	}
	return unlockScript.Run(ctx, client, []string{key}, token).Err()
}
