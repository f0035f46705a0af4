package repository

import (
	"context"

	"RepairDesk/internal/modules/repair/domain/entity"
)

// RepairLookupRepository 只读查询；不存在时返回 nil, nil
type RepairLookupRepository interface {
	GetDeviceDetail(ctx context.Context, deviceID int64) (*entity.DeviceDetail, error)
	GetInventoryItem(ctx context.Context, itemID int64) (*entity.InventoryItem, error)
	GetFeedbackDetail(ctx context.Context, feedbackID int64) (*entity.FeedbackDetail, error)
}
