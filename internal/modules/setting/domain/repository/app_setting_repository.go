package repository

import (
	"context"

	"RepairDesk/internal/modules/setting/domain/entity"
)

type AppSettingRepository interface {
	// Get 不存在时返回 nil, nil
	Get(ctx context.Context, key string) (*entity.AppSetting, error)
	Upsert(ctx context.Context, key, value string) error
}
