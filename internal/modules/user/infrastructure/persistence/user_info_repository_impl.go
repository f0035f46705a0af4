package persistence

import (
	"context"
	"errors"

	"RepairDesk/internal/modules/user/domain/entity"
	"RepairDesk/internal/modules/user/domain/repository"

	"gorm.io/gorm"
)

type userInfoRepositoryImpl struct {
	db *gorm.DB
}

// NewUserInfoRepository 构造函数
func NewUserInfoRepository(db *gorm.DB) repository.UserInfoRepository {
	return &userInfoRepositoryImpl{db: db}
}

func (r *userInfoRepositoryImpl) CreateUserInfo(ctx context.Context, user *entity.UserInfo) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userInfoRepositoryImpl) GetUserInfoByUUID(ctx context.Context, uuid string) (*entity.UserInfo, error) {
	var user entity.UserInfo
	err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userInfoRepositoryImpl) GetUserBriefByUUIDs(ctx context.Context, uuids []string) ([]entity.UserBrief, error) {
	if len(uuids) == 0 {
		return []entity.UserBrief{}, nil
	}
	var users []entity.UserBrief
	err := r.db.WithContext(ctx).Model(&entity.UserInfo{}).
		Select("uuid", "username", "nickname", "avatar", "status").
		Where("uuid IN ?", uuids).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userInfoRepositoryImpl) IsAdmin(ctx context.Context, uuid string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entity.UserInfo{}).
		Where("uuid = ? AND is_admin = 1 AND status = 0", uuid).
		Count(&n).Error
	return n > 0, err
}
