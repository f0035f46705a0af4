package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestHelpersWithoutClient(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	if IsConnected() {
		t.Fatalf("IsConnected with nil client")
	}
	if _, err := Get(ctx, "k"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Get err = %v", err)
	}
	if err := Set(ctx, "k", 1, time.Minute); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Set err = %v", err)
	}
	if ok, err := Lock(ctx, "lock", "t", time.Minute); ok || !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Lock = %v, %v", ok, err)
	}
	if err := Close(); err != nil {
		t.Fatalf("Close with nil client: %v", err)
	}
}

func TestIsNil(t *testing.T) {
	if !IsNil(redis.Nil) {
		t.Fatalf("redis.Nil not detected")
	}
	if IsNil(errors.New("boom")) {
		t.Fatalf("plain error detected as nil")
	}
}
