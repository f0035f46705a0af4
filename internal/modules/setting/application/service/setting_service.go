package service

import (
	"context"
	"os"
	"strings"

	"RepairDesk/internal/modules/setting/domain/repository"
	"RepairDesk/pkg/xerr"
	"RepairDesk/pkg/zlog"

	"go.uber.org/zap"
)

// SettingService 应用配置：数据库优先，环境变量兜底
type SettingService interface {
	Lookup(ctx context.Context, key, envKey string) string
	Set(ctx context.Context, key, value string) error
}

type settingServiceImpl struct {
	repo   repository.AppSettingRepository
	getenv func(string) string
}

func NewSettingService(repo repository.AppSettingRepository) SettingService {
	return &settingServiceImpl{repo: repo, getenv: os.Getenv}
}

func (s *settingServiceImpl) Lookup(ctx context.Context, key, envKey string) string {
	if s.repo != nil && key != "" {
		row, err := s.repo.Get(ctx, key)
		if err != nil {
			zlog.Warn("setting lookup failed, falling back to env", zap.String("key", key), zap.Error(err))
		} else if row != nil && strings.TrimSpace(row.Value) != "" {
			return strings.TrimSpace(row.Value)
		}
	}
	if envKey == "" {
		return ""
	}
	return strings.TrimSpace(s.getenv(envKey))
}

func (s *settingServiceImpl) Set(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return xerr.ErrParam
	}
	return s.repo.Upsert(ctx, key, strings.TrimSpace(value))
}
