package entity

import "time"

const (
	ChannelSMS   = "sms"
	ChannelEmail = "email"

	// 队列状态
	StatusPending   = "pending"
	StatusSent      = "sent"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"

	KindRegistration   = "registration"
	KindStatusUpdate   = "status_update"
	KindReadyForPickup = "ready_for_pickup"
	KindDelivered      = "delivered"
	KindNotification   = "notification"

	DefaultMaxAttempts = 3
)

// QueuedMessage 待投递的外发消息（短信/邮件）
type QueuedMessage struct {
	Id            int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Channel       string     `gorm:"column:channel;type:varchar(16);not null;index:idx_queue_eligible,priority:2" json:"channel"`
	Destination   string     `gorm:"column:destination;type:varchar(255);not null" json:"destination"`
	Subject       string     `gorm:"column:subject;type:varchar(255)" json:"subject,omitempty"`
	Body          string     `gorm:"column:body;type:text;not null" json:"body"`
	MessageKind   string     `gorm:"column:message_kind;type:varchar(50);not null" json:"messageKind"`
	Status        string     `gorm:"column:status;type:varchar(16);not null;index:idx_queue_eligible,priority:1" json:"status"`
	Attempts      int        `gorm:"column:attempts;not null" json:"attempts"`
	MaxAttempts   int        `gorm:"column:max_attempts;not null" json:"maxAttempts"`
	LastAttemptAt *time.Time `gorm:"column:last_attempt_at" json:"lastAttemptAt,omitempty"`
	SentAt        *time.Time `gorm:"column:sent_at" json:"sentAt,omitempty"`
	ErrorMessage  *string    `gorm:"column:error_message;type:varchar(500)" json:"errorMessage,omitempty"`
	CreatedAt     time.Time  `gorm:"column:created_at;not null;index:idx_queue_eligible,priority:3" json:"createdAt"`
	UpdatedAt     time.Time  `gorm:"column:updated_at" json:"updatedAt"`
}

func (QueuedMessage) TableName() string {
	return "outbound_message_queue"
}

// IsTerminal sent/failed/cancelled 之后不会再被自动处理
func (m *QueuedMessage) IsTerminal() bool {
	return m.Status == StatusSent || m.Status == StatusFailed || m.Status == StatusCancelled
}

// QueueCounts 各状态计数
type QueueCounts struct {
	Pending   int64 `json:"pending"`
	Sent      int64 `json:"sent"`
	Failed    int64 `json:"failed"`
	Cancelled int64 `json:"cancelled"`
	Total     int64 `json:"total"`
}
