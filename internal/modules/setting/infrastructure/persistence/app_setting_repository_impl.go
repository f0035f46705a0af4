package persistence

import (
	"context"
	"errors"
	"time"

	"RepairDesk/internal/modules/setting/domain/entity"
	"RepairDesk/internal/modules/setting/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appSettingRepositoryImpl struct {
	db *gorm.DB
}

func NewAppSettingRepository(db *gorm.DB) repository.AppSettingRepository {
	return &appSettingRepositoryImpl{db: db}
}

func (r *appSettingRepositoryImpl) Get(ctx context.Context, key string) (*entity.AppSetting, error) {
	var s entity.AppSetting
	err := r.db.WithContext(ctx).Where("setting_key = ?", key).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *appSettingRepositoryImpl) Upsert(ctx context.Context, key, value string) error {
	s := entity.AppSetting{Key: key, Value: value, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "setting_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
		}).
		Create(&s).Error
}
