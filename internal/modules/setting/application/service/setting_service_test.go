package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"RepairDesk/internal/modules/setting/domain/entity"
	"RepairDesk/internal/modules/setting/infrastructure/persistence"
	"RepairDesk/pkg/xerr"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T, env map[string]string) SettingService {
	t.Helper()
	dsn := sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	db, err := gorm.Open(dsn, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&entity.AppSetting{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &settingServiceImpl{
		repo:   persistence.NewAppSettingRepository(db),
		getenv: func(k string) string { return env[k] },
	}
}

func TestLookup_DatabaseThenEnv(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, map[string]string{"TWILIO_ACCOUNT_SID": " env-sid "})

	if got := svc.Lookup(ctx, entity.KeyTwilioAccountSID, "TWILIO_ACCOUNT_SID"); got != "env-sid" {
		t.Fatalf("env fallback = %q", got)
	}
	if err := svc.Set(ctx, entity.KeyTwilioAccountSID, " db-sid "); err != nil {
		t.Fatalf("set: %v", err)
	}
	if got := svc.Lookup(ctx, entity.KeyTwilioAccountSID, "TWILIO_ACCOUNT_SID"); got != "db-sid" {
		t.Fatalf("db value = %q", got)
	}

	// 覆盖写，空值回落到环境变量
	if err := svc.Set(ctx, entity.KeyTwilioAccountSID, ""); err != nil {
		t.Fatalf("set empty: %v", err)
	}
	if got := svc.Lookup(ctx, entity.KeyTwilioAccountSID, "TWILIO_ACCOUNT_SID"); got != "env-sid" {
		t.Fatalf("after clearing = %q", got)
	}
	if got := svc.Lookup(ctx, "missing", ""); got != "" {
		t.Fatalf("missing without env = %q", got)
	}
}

func TestSet_RequiresKey(t *testing.T) {
	svc := newTestService(t, nil)
	if err := svc.Set(context.Background(), "  ", "v"); !errors.Is(err, xerr.ErrParam) {
		t.Fatalf("err = %v", err)
	}
}
