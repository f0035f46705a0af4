package repository

import (
	"context"
	"time"

	"RepairDesk/internal/modules/messaging/domain/entity"
)

// MessageQueueRepository 外发消息队列仓储
// 状态变更只允许通过 MarkSent / MarkAttemptFailed / ResetForRetry / Cancel 完成
type MessageQueueRepository interface {
	// Enqueue 写入一条 pending 消息，attempts 置 0
	Enqueue(ctx context.Context, msg *entity.QueuedMessage) error

	// SelectEligible 按 created_at 升序取出可投递的消息
	SelectEligible(ctx context.Context, channels []string, limit int) ([]*entity.QueuedMessage, error)

	// GetByID 不存在时返回 nil, nil
	GetByID(ctx context.Context, id int64) (*entity.QueuedMessage, error)

	MarkSent(ctx context.Context, id int64, now time.Time) error
	MarkAttemptFailed(ctx context.Context, id int64, errMsg string, newAttempts int, terminal bool, now time.Time) error
	ResetForRetry(ctx context.Context, id int64) error

	// Cancel 仅对 pending 生效，返回是否有行被修改
	Cancel(ctx context.Context, id int64) (bool, error)

	CountsByStatus(ctx context.Context) (entity.QueueCounts, error)
}
