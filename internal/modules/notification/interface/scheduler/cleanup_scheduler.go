package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	myredis "RepairDesk/pkg/redis"
	"RepairDesk/pkg/util"
	"RepairDesk/pkg/zlog"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	JobCleanupExpired = "notification_cleanup_expired"
	lockKeyPrefix     = "lock:cron:"
	defaultJobTimeout = 5 * time.Minute
)

// Cleaner 过期通知清理
type Cleaner interface {
	CleanupExpiredNotifications(ctx context.Context) (int64, error)
}

// Locker 多实例部署时保证同一任务只在一个实例上执行
type Locker interface {
	Lock(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key, token string) error
}

// RedisLocker 使用 pkg/redis 的全局客户端，Redis 未连接时总是成功
type RedisLocker struct{}

func (RedisLocker) Lock(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	if !myredis.IsConnected() {
		return true, nil
	}
	return myredis.Lock(ctx, key, token, ttl)
}

func (RedisLocker) Unlock(ctx context.Context, key, token string) error {
	if !myredis.IsConnected() {
		return nil
	}
	return myredis.Unlock(ctx, key, token)
}

type SchedulerManager struct {
	cron    *cron.Cron
	locker  Locker
	timeout time.Duration

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

func NewSchedulerManager(locker Locker) *SchedulerManager {
	logger := cronLogger{}
	return &SchedulerManager{
		// 标准 5 段表达式，另支持 @every / @hourly 等描述符
		cron: cron.New(
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		locker:  locker,
		timeout: defaultJobTimeout,
		entries: make(map[string]cron.EntryID),
	}
}

// Register 同名任务重复注册时替换旧的调度
func (m *SchedulerManager) Register(name, spec string, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, err := m.cron.AddFunc(spec, func() { m.runJob(name, fn) })
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	if old, ok := m.entries[name]; ok {
		m.cron.Remove(old)
	}
	m.entries[name] = id
	zlog.Info("cron job scheduled", zap.String("job", name), zap.String("spec", spec))
	return nil
}

// RegisterCleanup 注册过期通知清理任务
func (m *SchedulerManager) RegisterCleanup(spec string, cleaner Cleaner) error {
	return m.Register(JobCleanupExpired, spec, func(ctx context.Context) error {
		_, err := cleaner.CleanupExpiredNotifications(ctx)
		return err
	})
}

func (m *SchedulerManager) Start() {
	m.cron.Start()
	zlog.Info("notification scheduler started")
}

// Stop 等待正在执行的任务结束
func (m *SchedulerManager) Stop() {
	<-m.cron.Stop().Done()
	zlog.Info("notification scheduler stopped")
}

func (m *SchedulerManager) runJob(name string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	if m.locker != nil {
		key := lockKeyPrefix + name
		token := util.GenerateUUID()
		ok, err := m.locker.Lock(ctx, key, token, m.timeout)
		if err != nil {
			zlog.Warn("cron lock failed", zap.String("job", name), zap.Error(err))
			return
		}
		if !ok {
			zlog.Debug("cron job held by another instance", zap.String("job", name))
			return
		}
		defer func() {
			if err := m.locker.Unlock(context.Background(), key, token); err != nil {
				zlog.Warn("cron unlock failed", zap.String("job", name), zap.Error(err))
			}
		}()
	}

	start := time.Now()
	if err := fn(ctx); err != nil {
		zlog.Error("cron job failed", zap.String("job", name), zap.Error(err))
		return
	}
	zlog.Debug("cron job finished", zap.String("job", name), zap.Duration("elapsed", time.Since(start)))
}

// cronLogger 把 robfig/cron 的日志转到 zlog
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	zlog.Debug("cron: "+msg, zap.Any("kv", keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	zlog.Error("cron: "+msg, zap.Error(err), zap.Any("kv", keysAndValues))
}
