package entity

import "time"

// 短信通道凭据在 app_settings 中的 key
const (
	KeyTwilioAccountSID  = "twilio_account_sid"
	KeyTwilioAuthToken   = "twilio_auth_token"
	KeyTwilioPhoneNumber = "twilio_phone_number"
)

// AppSetting 持久化的应用配置项，优先级高于环境变量
type AppSetting struct {
	Id        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Key       string    `gorm:"column:setting_key;type:varchar(100);uniqueIndex;not null"`
	Value     string    `gorm:"column:setting_value;type:text"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (AppSetting) TableName() string {
	return "app_settings"
}
