package repository

import (
	"context"

	"RepairDesk/internal/modules/notification/domain/entity"
)

// NotificationTypeRepository 通知类型与模板
type NotificationTypeRepository interface {
	// GetActiveByName 只返回启用的类型；不存在时返回 nil, nil
	GetActiveByName(ctx context.Context, name string) (*entity.NotificationType, error)
	GetByID(ctx context.Context, id int64) (*entity.NotificationType, error)
	GetByIDs(ctx context.Context, ids []int64) ([]entity.NotificationType, error)
	ListActive(ctx context.Context) ([]entity.NotificationType, error)

	// FirstActiveTemplate 取 id 最小的启用模板，没有时返回 nil, nil
	FirstActiveTemplate(ctx context.Context, typeID int64) (*entity.NotificationTemplate, error)

	// EnsureType 按 name 幂等写入类型，新建时一并写入模板
	EnsureType(ctx context.Context, t *entity.NotificationType, tpl *entity.NotificationTemplate) (bool, error)
}
