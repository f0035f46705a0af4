package persistence

import (
	"context"
	"fmt"
	"testing"

	"RepairDesk/internal/modules/user/domain/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	db, err := gorm.Open(dsn, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&entity.UserInfo{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestUserInfoRepository(t *testing.T) {
	repo := NewUserInfoRepository(newTestDB(t))
	ctx := context.Background()
	users := []entity.UserInfo{
		{Uuid: "u-admin", Username: "owner", IsAdmin: 1},
		{Uuid: "u-banned", Username: "old", IsAdmin: 1, Status: 1},
		{Uuid: "u-tech", Username: "abebe", Nickname: "Abebe"},
	}
	for i := range users {
		if err := repo.CreateUserInfo(ctx, &users[i]); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	u, err := repo.GetUserInfoByUUID(ctx, "u-tech")
	if err != nil || u == nil || u.Username != "abebe" {
		t.Fatalf("GetUserInfoByUUID = %+v, %v", u, err)
	}
	if u, err := repo.GetUserInfoByUUID(ctx, "missing"); u != nil || err != nil {
		t.Fatalf("missing user = %+v, %v; want nil, nil", u, err)
	}

	briefs, err := repo.GetUserBriefByUUIDs(ctx, []string{"u-tech", "u-admin", "ghost"})
	if err != nil || len(briefs) != 2 {
		t.Fatalf("briefs = %+v, %v", briefs, err)
	}

	for uuid, want := range map[string]bool{"u-admin": true, "u-banned": false, "u-tech": false, "ghost": false} {
		got, err := repo.IsAdmin(ctx, uuid)
		if err != nil || got != want {
			t.Fatalf("IsAdmin(%s) = %v, %v; want %v", uuid, got, err, want)
		}
	}
}
