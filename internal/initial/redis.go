package initial

import (
	"context"
	"fmt"
	"time"

	"RepairDesk/internal/config"
	"RepairDesk/pkg/redis"
	"RepairDesk/pkg/zlog"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// InitRedis 未配置 host 时跳过；连接失败不致命，缓存和分布式锁会退化
func InitRedis(rc config.RedisConfig) {
	if rc.Host == "" {
		zlog.Info("redis not configured, skipping")
		return
	}
	port := rc.Port
	if port == 0 {
		port = 6379
	}
	addr := fmt.Sprintf("%s:%d", rc.Host, port)

	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     rc.Password,
		DB:           rc.DB,
		PoolSize:     rc.PoolSize,
		MinIdleConns: rc.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		zlog.Error("redis connect failed", zap.String("addr", addr), zap.Error(err))
		_ = client.Close()
		return
	}

	redis.SetClient(client)
	zlog.Info("redis connected", zap.String("addr", addr))
}
