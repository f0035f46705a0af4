package entity

import (
	"time"

	"gorm.io/datatypes"
)

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"

	StatusUnread   = "unread"
	StatusRead     = "read"
	StatusArchived = "archived"
)

// Notification 站内通知
type Notification struct {
	Id                int64          `gorm:"column:id;primaryKey;autoIncrement"`
	TypeId            int64          `gorm:"column:type_id;index;not null"`
	Title             string         `gorm:"column:title;type:varchar(255);not null"`
	Message           string         `gorm:"column:message;type:text;not null"`
	Data              datatypes.JSON `gorm:"column:data"`
	Priority          string         `gorm:"column:priority;type:varchar(16);not null"`
	Status            string         `gorm:"column:status;type:varchar(16);not null;index:idx_notification_recipient_status,priority:2"`
	RecipientId       string         `gorm:"column:recipient_id;type:char(36);not null;index:idx_notification_recipient_status,priority:1"`
	SenderId          *string        `gorm:"column:sender_id;type:char(36)"`
	RelatedEntityType *string        `gorm:"column:related_entity_type;type:varchar(32)"`
	RelatedEntityId   *int64         `gorm:"column:related_entity_id"`
	ExpiresAt         *time.Time     `gorm:"column:expires_at;index"`
	CreatedAt         time.Time      `gorm:"column:created_at;index"`
	ReadAt            *time.Time     `gorm:"column:read_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
