package repository

import (
	"context"

	"RepairDesk/internal/modules/user/domain/entity"
)

// UserInfoRepository 接口定义
type UserInfoRepository interface {
	CreateUserInfo(ctx context.Context, user *entity.UserInfo) error
	// GetUserInfoByUUID 不存在时返回 nil, nil
	GetUserInfoByUUID(ctx context.Context, uuid string) (*entity.UserInfo, error)
	GetUserBriefByUUIDs(ctx context.Context, uuids []string) ([]entity.UserBrief, error)
	// IsAdmin 只有未禁用的管理员返回 true
	IsAdmin(ctx context.Context, uuid string) (bool, error)
}
