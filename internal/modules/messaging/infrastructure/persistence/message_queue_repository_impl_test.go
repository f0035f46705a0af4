package persistence

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"RepairDesk/internal/modules/messaging/domain/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestRepo(t *testing.T) *messageQueueRepositoryImpl {
	t.Helper()
	dsn := sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	db, err := gorm.Open(dsn, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&entity.QueuedMessage{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &messageQueueRepositoryImpl{db: db}
}

func TestTruncateErrorMessage(t *testing.T) {
	long := strings.Repeat("x", maxErrorMessageLen-1) + "网关错误"
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"short", "timeout", "timeout"},
		{"exact", strings.Repeat("y", maxErrorMessageLen), strings.Repeat("y", maxErrorMessageLen)},
		{"multibyte boundary", long, strings.Repeat("x", maxErrorMessageLen-1)},
		{"invalid input", "bad\xffbyte", "bad?byte"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := truncateErrorMessage(tc.in)
			if got != tc.want {
				t.Fatalf("truncate = %q (len %d), want len %d", got, len(got), len(tc.want))
			}
			if !utf8.ValidString(got) || len(got) > maxErrorMessageLen {
				t.Fatalf("result invalid: len=%d valid=%v", len(got), utf8.ValidString(got))
			}
		})
	}
}

func TestMarkAttemptFailed_StoresValidUTF8(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	msg := &entity.QueuedMessage{Channel: entity.ChannelSMS, Destination: "+251912345678", Body: "hi", MessageKind: entity.KindStatusUpdate, MaxAttempts: 3}
	if err := repo.Enqueue(ctx, msg); err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	errText := strings.Repeat("x", maxErrorMessageLen-1) + "网关错误"
	if err := repo.MarkAttemptFailed(ctx, msg.Id, errText, 1, false, time.Now()); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	got, err := repo.GetByID(ctx, msg.Id)
	if err != nil || got == nil {
		t.Fatalf("get: %v %v", got, err)
	}
	if got.Attempts != 1 || got.Status != entity.StatusPending {
		t.Fatalf("attempts/status = %d/%s", got.Attempts, got.Status)
	}
	if got.ErrorMessage == nil {
		t.Fatal("error message not stored")
	}
	stored := *got.ErrorMessage
	if !utf8.ValidString(stored) || len(stored) > maxErrorMessageLen {
		t.Fatalf("stored error message len=%d valid=%v", len(stored), utf8.ValidString(stored))
	}
}
