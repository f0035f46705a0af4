package entity

import "time"

// NotificationPreference 用户对某一通知类型的通道开关，(user_id, type_id) 唯一
type NotificationPreference struct {
	Id           int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserId       string    `gorm:"column:user_id;type:char(36);not null;uniqueIndex:uk_pref_user_type,priority:1" json:"userId"`
	TypeId       int64     `gorm:"column:type_id;not null;uniqueIndex:uk_pref_user_type,priority:2" json:"typeId"`
	Enabled      bool      `gorm:"column:enabled;not null" json:"enabled"`
	EmailEnabled bool      `gorm:"column:email_enabled;not null" json:"emailEnabled"`
	SmsEnabled   bool      `gorm:"column:sms_enabled;not null" json:"smsEnabled"`
	PushEnabled  bool      `gorm:"column:push_enabled;not null" json:"pushEnabled"`
	InAppEnabled bool      `gorm:"column:in_app_enabled;not null" json:"inAppEnabled"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (NotificationPreference) TableName() string {
	return "notification_preferences"
}

// DefaultPreference 未设置过偏好时使用的默认值
func DefaultPreference(userID string, typeID int64) NotificationPreference {
	return NotificationPreference{
		UserId:       userID,
		TypeId:       typeID,
		Enabled:      true,
		EmailEnabled: true,
		SmsEnabled:   false,
		PushEnabled:  true,
		InAppEnabled: true,
	}
}

// PreferencePatch 仅非 nil 字段会被更新
type PreferencePatch struct {
	Enabled      *bool `json:"enabled"`
	EmailEnabled *bool `json:"emailEnabled"`
	SmsEnabled   *bool `json:"smsEnabled"`
	PushEnabled  *bool `json:"pushEnabled"`
	InAppEnabled *bool `json:"inAppEnabled"`
}

// Apply 把 patch 合并到 p，返回被修改的列名
func (patch PreferencePatch) Apply(p *NotificationPreference) []string {
	var cols []string
	set := func(dst *bool, v *bool, col string) {
		if v != nil {
			*dst = *v
			cols = append(cols, col)
		}
	}
	set(&p.Enabled, patch.Enabled, "enabled")
	set(&p.EmailEnabled, patch.EmailEnabled, "email_enabled")
	set(&p.SmsEnabled, patch.SmsEnabled, "sms_enabled")
	set(&p.PushEnabled, patch.PushEnabled, "push_enabled")
	set(&p.InAppEnabled, patch.InAppEnabled, "in_app_enabled")
	return cols
}
