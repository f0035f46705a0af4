package persistence

import (
	"context"
	"errors"

	"RepairDesk/internal/modules/notification/domain/entity"
	"RepairDesk/internal/modules/notification/domain/repository"

	"gorm.io/gorm"
)

type notificationTypeRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationTypeRepository(db *gorm.DB) repository.NotificationTypeRepository {
	return &notificationTypeRepositoryImpl{db: db}
}

func (r *notificationTypeRepositoryImpl) GetActiveByName(ctx context.Context, name string) (*entity.NotificationType, error) {
	var t entity.NotificationType
	err := r.db.WithContext(ctx).Where("name = ? AND is_active = ?", name, true).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *notificationTypeRepositoryImpl) GetByID(ctx context.Context, id int64) (*entity.NotificationType, error) {
	var t entity.NotificationType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *notificationTypeRepositoryImpl) GetByIDs(ctx context.Context, ids []int64) ([]entity.NotificationType, error) {
	if len(ids) == 0 {
		return []entity.NotificationType{}, nil
	}
	var types []entity.NotificationType
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&types).Error
	return types, err
}

func (r *notificationTypeRepositoryImpl) ListActive(ctx context.Context) ([]entity.NotificationType, error) {
	var types []entity.NotificationType
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("id ASC").Find(&types).Error
	return types, err
}

func (r *notificationTypeRepositoryImpl) FirstActiveTemplate(ctx context.Context, typeID int64) (*entity.NotificationTemplate, error) {
	var tpl entity.NotificationTemplate
	err := r.db.WithContext(ctx).
		Where("type_id = ? AND is_active = ?", typeID, true).
		Order("id ASC").
		First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tpl, nil
}

func (r *notificationTypeRepositoryImpl) EnsureType(ctx context.Context, t *entity.NotificationType, tpl *entity.NotificationTemplate) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.NotificationType
		err := tx.Where("name = ?", t.Name).First(&existing).Error
		if err == nil {
			*t = existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(t).Error; err != nil {
			return err
		}
		if tpl != nil {
			tpl.TypeId = t.Id
			if err := tx.Create(tpl).Error; err != nil {
				return err
			}
		}
		created = true
		return nil
	})
	return created, err
}
