package entity

import "time"

// UserInfo 门店员工账号（技术员、前台、管理员）
type UserInfo struct {
	Id        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Uuid      string    `gorm:"column:uuid;type:char(36);uniqueIndex;not null"`
	Username  string    `gorm:"column:username;type:varchar(64);uniqueIndex;not null"`
	Nickname  string    `gorm:"column:nickname;type:varchar(64)"`
	Avatar    string    `gorm:"column:avatar;type:varchar(255)"`
	Email     string    `gorm:"column:email;type:varchar(255)"`
	Telephone string    `gorm:"column:telephone;type:varchar(32)"`
	IsAdmin   int8      `gorm:"column:is_admin;type:tinyint;not null"`
	Status    int8      `gorm:"column:status;type:tinyint;not null"` // 0 正常 1 禁用
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (UserInfo) TableName() string {
	return "user_info"
}

// UserBrief 列表展示用的精简信息
type UserBrief struct {
	Uuid     string `json:"uuid"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Status   int8   `json:"status"`
}

// DisplayName 昵称为空时退回用户名
func (b UserBrief) DisplayName() string {
	if b.Nickname != "" {
		return b.Nickname
	}
	return b.Username
}
