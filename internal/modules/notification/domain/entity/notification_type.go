package entity

import "time"

// 预置通知类型
const (
	TypeDeviceRegistered     = "device_registered"
	TypeDeviceStatusChanged  = "device_status_changed"
	TypeDeviceReadyForPickup = "device_ready_for_pickup"
	TypeLowStock             = "low_stock"
	TypeCustomerFeedback     = "customer_feedback"
)

// NotificationType 通知类型，初始化时写入，运行期只读
type NotificationType struct {
	Id          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(64);uniqueIndex;not null" json:"name"`
	DisplayName string    `gorm:"column:display_name;type:varchar(128)" json:"displayName"`
	Category    string    `gorm:"column:category;type:varchar(64)" json:"category"`
	Description string    `gorm:"column:description;type:varchar(255)" json:"description"`
	IsActive    bool      `gorm:"column:is_active;not null" json:"isActive"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"-"`
}

func (NotificationType) TableName() string {
	return "notification_types"
}

// NotificationTemplate 同一类型可有多条，只取 id 最小的启用模板
type NotificationTemplate struct {
	Id           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	TypeId       int64     `gorm:"column:type_id;index;not null"`
	Title        string    `gorm:"column:title;type:varchar(255);not null"`
	Message      string    `gorm:"column:message;type:text;not null"`
	EmailSubject *string   `gorm:"column:email_subject;type:varchar(255)"`
	EmailBody    *string   `gorm:"column:email_body;type:text"`
	SmsMessage   *string   `gorm:"column:sms_message;type:varchar(480)"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (NotificationTemplate) TableName() string {
	return "notification_templates"
}

// HasEmail 模板同时带主题和正文才发邮件
func (t *NotificationTemplate) HasEmail() bool {
	return t != nil && t.EmailSubject != nil && *t.EmailSubject != "" && t.EmailBody != nil && *t.EmailBody != ""
}

func (t *NotificationTemplate) HasSMS() bool {
	return t != nil && t.SmsMessage != nil && *t.SmsMessage != ""
}
