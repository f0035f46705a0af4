package respond

import (
	"time"

	"gorm.io/datatypes"
)

// TypeSummary 类型缺失时为零值，不为 nil
type TypeSummary struct {
	Id          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Category    string `json:"category"`
}

type SenderSummary struct {
	Uuid     string `json:"uuid"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
}

type NotificationItem struct {
	Id                int64          `json:"id"`
	Title             string         `json:"title"`
	Message           string         `json:"message"`
	Data              datatypes.JSON `json:"data,omitempty"`
	Priority          string         `json:"priority"`
	Status            string         `json:"status"`
	RecipientId       string         `json:"recipientId"`
	RelatedEntityType *string        `json:"relatedEntityType,omitempty"`
	RelatedEntityId   *int64         `json:"relatedEntityId,omitempty"`
	ExpiresAt         *time.Time     `json:"expiresAt,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
	ReadAt            *time.Time     `json:"readAt,omitempty"`
	Type              TypeSummary    `json:"type"`
	Sender            *SenderSummary `json:"sender,omitempty"`
}

type PreferenceItem struct {
	TypeId          int64     `json:"typeId"`
	TypeName        string    `json:"typeName"`
	TypeDisplayName string    `json:"typeDisplayName"`
	TypeCategory    string    `json:"typeCategory"`
	Enabled         bool      `json:"enabled"`
	EmailEnabled    bool      `json:"emailEnabled"`
	SmsEnabled      bool      `json:"smsEnabled"`
	PushEnabled     bool      `json:"pushEnabled"`
	InAppEnabled    bool      `json:"inAppEnabled"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// 外部通道的投递结果
const (
	OutcomeQueued         = "queued"
	OutcomeDelivered      = "delivered"
	OutcomeOffline        = "offline"
	OutcomeDisabled       = "disabled_by_preference"
	OutcomeNoTemplate     = "no_template"
	OutcomeNoContact      = "no_contact"
	OutcomeNotImplemented = "not_implemented"
	OutcomeUnavailable    = "unavailable"
	OutcomeFailed         = "failed"
)

// DispatchReport 站内通知已落库，外部通道失败只记录在这里
type DispatchReport struct {
	Email  string   `json:"email"`
	SMS    string   `json:"sms"`
	Push   string   `json:"push"`
	InApp  string   `json:"inApp"`
	Errors []string `json:"errors,omitempty"`
}

func (r DispatchReport) Degraded() bool {
	return len(r.Errors) > 0
}

type CreateNotificationRespond struct {
	Notification NotificationItem `json:"notification"`
	Dispatch     DispatchReport   `json:"dispatch"`
	Degraded     bool             `json:"degraded"`
}

type UnreadCountRespond struct {
	Count int64 `json:"count"`
}
