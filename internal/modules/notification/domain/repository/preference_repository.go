package repository

import (
	"context"
	"time"

	"RepairDesk/internal/modules/notification/domain/entity"
)

// PreferenceView 偏好与类型信息的左连接结果
type PreferenceView struct {
	Id              int64
	UserId          string
	TypeId          int64
	Enabled         bool
	EmailEnabled    bool
	SmsEnabled      bool
	PushEnabled     bool
	InAppEnabled    bool
	UpdatedAt       time.Time
	TypeName        *string
	TypeDisplayName *string
	TypeCategory    *string
}

// PreferenceRepository 所有写操作都是单条 upsert，不存在先读后写的竞态
type PreferenceRepository interface {
	// GetOrCreateDefault 不存在时以默认值插入，已存在则原样返回
	GetOrCreateDefault(ctx context.Context, userID string, typeID int64) (*entity.NotificationPreference, error)
	// Upsert 插入时未指定字段取默认值，冲突时只更新 patch 中给出的字段
	Upsert(ctx context.Context, userID string, typeID int64, patch entity.PreferencePatch) (*entity.NotificationPreference, error)
	ListByUser(ctx context.Context, userID string) ([]PreferenceView, error)
}
