package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingCleaner struct {
	calls atomic.Int32
	err   error
}

func (c *countingCleaner) CleanupExpiredNotifications(ctx context.Context) (int64, error) {
	c.calls.Add(1)
	return 0, c.err
}

type memLocker struct {
	mu       sync.Mutex
	held     map[string]string
	unlocked int
	fail     error
}

func (l *memLocker) Lock(ctx context.Context, key, token string, ttl time.Duration) (bool, error) {
	if l.fail != nil {
		return false, l.fail
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[key]; ok {
		return false, nil
	}
	l.held[key] = token
	return true, nil
}

func (l *memLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
		l.unlocked++
	}
	return nil
}

func TestRegister_InvalidSpec(t *testing.T) {
	m := NewSchedulerManager(nil)
	if err := m.RegisterCleanup("not a cron spec", &countingCleaner{}); err == nil {
		t.Fatalf("invalid spec accepted")
	}
}

func TestRegister_ReplacesSameName(t *testing.T) {
	m := NewSchedulerManager(nil)
	if err := m.RegisterCleanup("@every 1h", &countingCleaner{}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := m.RegisterCleanup("@every 2h", &countingCleaner{}); err != nil {
		t.Fatalf("re-register: %v", err)
	}
	if n := len(m.cron.Entries()); n != 1 {
		t.Fatalf("entries = %d, want 1", n)
	}
}

func TestRunJob_Lock(t *testing.T) {
	locker := &memLocker{held: map[string]string{}}
	m := NewSchedulerManager(locker)
	c := &countingCleaner{}
	job := func(ctx context.Context) error {
		_, err := c.CleanupExpiredNotifications(ctx)
		return err
	}

	m.runJob(JobCleanupExpired, job)
	if c.calls.Load() != 1 || locker.unlocked != 1 {
		t.Fatalf("calls = %d, unlocked = %d", c.calls.Load(), locker.unlocked)
	}

	// 另一个实例持有锁
	locker.held[lockKeyPrefix+JobCleanupExpired] = "other"
	m.runJob(JobCleanupExpired, job)
	if c.calls.Load() != 1 {
		t.Fatalf("job ran while lock held elsewhere")
	}
	if locker.held[lockKeyPrefix+JobCleanupExpired] != "other" {
		t.Fatalf("foreign lock released")
	}

	locker.fail = errors.New("redis down")
	m.runJob(JobCleanupExpired, job)
	if c.calls.Load() != 1 {
		t.Fatalf("job ran when lock errored")
	}
}

func TestStartStop_RunsCleanup(t *testing.T) {
	m := NewSchedulerManager(nil)
	c := &countingCleaner{err: errors.New("db busy")}
	if err := m.RegisterCleanup("@every 1s", c); err != nil {
		t.Fatalf("register: %v", err)
	}
	m.Start()
	deadline := time.Now().Add(3 * time.Second)
	for c.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	m.Stop()
	if c.calls.Load() == 0 {
		t.Fatalf("cleanup never ran")
	}
}
