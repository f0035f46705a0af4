package service

import (
	"context"
	"fmt"

	"RepairDesk/internal/modules/notification/application/dto/request"
	"RepairDesk/internal/modules/notification/application/dto/respond"
	"RepairDesk/internal/modules/notification/domain/entity"
	"RepairDesk/pkg/zlog"

	"go.uber.org/zap"
)

func (s *notificationServiceImpl) GetUserPreferences(ctx context.Context, userID string) ([]respond.PreferenceItem, error) {
	views, err := s.Preferences.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	out := make([]respond.PreferenceItem, 0, len(views))
	for _, v := range views {
		item := respond.PreferenceItem{
			TypeId:       v.TypeId,
			Enabled:      v.Enabled,
			EmailEnabled: v.EmailEnabled,
			SmsEnabled:   v.SmsEnabled,
			PushEnabled:  v.PushEnabled,
			InAppEnabled: v.InAppEnabled,
			UpdatedAt:    v.UpdatedAt,
		}
		if v.TypeName != nil {
			item.TypeName = *v.TypeName
		}
		if v.TypeDisplayName != nil {
			item.TypeDisplayName = *v.TypeDisplayName
		}
		if v.TypeCategory != nil {
			item.TypeCategory = *v.TypeCategory
		}
		out = append(out, item)
	}
	return out, nil
}

// UpdatePreferences 单条 upsert；首次写入时未给出的字段取默认值
func (s *notificationServiceImpl) UpdatePreferences(ctx context.Context, userID string, req request.UpdatePreferenceRequest) (*respond.PreferenceItem, error) {
	nt, err := s.Types.GetByID(ctx, req.TypeId)
	if err != nil {
		return nil, fmt.Errorf("get notification type %d: %w", req.TypeId, err)
	}
	if nt == nil {
		return nil, ErrNotificationTypeNotFound
	}

	patch := entity.PreferencePatch{
		Enabled:      req.Enabled,
		EmailEnabled: req.EmailEnabled,
		SmsEnabled:   req.SmsEnabled,
		PushEnabled:  req.PushEnabled,
		InAppEnabled: req.InAppEnabled,
	}
	p, err := s.Preferences.Upsert(ctx, userID, nt.Id, patch)
	if err != nil {
		return nil, fmt.Errorf("upsert preference: %w", err)
	}
	zlog.Info("notification preference updated", zap.String("user_id", userID), zap.String("type", nt.Name))

	return &respond.PreferenceItem{
		TypeId:          nt.Id,
		TypeName:        nt.Name,
		TypeDisplayName: nt.DisplayName,
		TypeCategory:    nt.Category,
		Enabled:         p.Enabled,
		EmailEnabled:    p.EmailEnabled,
		SmsEnabled:      p.SmsEnabled,
		PushEnabled:     p.PushEnabled,
		InAppEnabled:    p.InAppEnabled,
		UpdatedAt:       p.UpdatedAt,
	}, nil
}
