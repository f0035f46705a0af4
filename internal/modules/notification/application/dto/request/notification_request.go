package request

import "time"

// CreateNotificationRequest Title/Message 为空时依次使用模板和默认文案
type CreateNotificationRequest struct {
	TypeName          string         `json:"type_name" binding:"required"`
	RecipientId       string         `json:"recipient_id" binding:"required"`
	Title             string         `json:"title"`
	Message           string         `json:"message"`
	Data              map[string]any `json:"data"`
	Priority          string         `json:"priority"`
	SenderId          *string        `json:"sender_id"`
	RelatedEntityType *string        `json:"related_entity_type"`
	RelatedEntityId   *int64         `json:"related_entity_id"`
	ExpiresAt         *time.Time     `json:"expires_at"`
}

// ListNotificationsRequest 默认 status=all, limit=50, 不含已过期
type ListNotificationsRequest struct {
	Status         string `json:"status"`
	Limit          int    `json:"limit"`
	Offset         int    `json:"offset"`
	IncludeExpired bool   `json:"include_expired"`
}

type NotificationIdRequest struct {
	NotificationId int64 `json:"notification_id" binding:"required,gt=0"`
}

type UpdatePreferenceRequest struct {
	TypeId       int64 `json:"type_id" binding:"required,gt=0"`
	Enabled      *bool `json:"enabled"`
	EmailEnabled *bool `json:"email_enabled"`
	SmsEnabled   *bool `json:"sms_enabled"`
	PushEnabled  *bool `json:"push_enabled"`
	InAppEnabled *bool `json:"in_app_enabled"`
}

// DeviceNotificationRequest RecipientId 为空时发给设备的负责技术员
type DeviceNotificationRequest struct {
	DeviceId    int64          `json:"device_id" binding:"required,gt=0"`
	TypeName    string         `json:"type_name" binding:"required"`
	RecipientId string         `json:"recipient_id"`
	SenderId    *string        `json:"sender_id"`
	Title       string         `json:"title"`
	Message     string         `json:"message"`
	Priority    string         `json:"priority"`
	Extra       map[string]any `json:"extra"`
}

type InventoryNotificationRequest struct {
	ItemId      int64   `json:"item_id" binding:"required,gt=0"`
	TypeName    string  `json:"type_name"`
	RecipientId string  `json:"recipient_id" binding:"required"`
	SenderId    *string `json:"sender_id"`
	Priority    string  `json:"priority"`
}

type FeedbackNotificationRequest struct {
	FeedbackId  int64   `json:"feedback_id" binding:"required,gt=0"`
	TypeName    string  `json:"type_name"`
	RecipientId string  `json:"recipient_id" binding:"required"`
	SenderId    *string `json:"sender_id"`
}
