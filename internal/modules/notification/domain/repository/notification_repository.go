package repository

import (
	"context"
	"time"

	"RepairDesk/internal/modules/notification/domain/entity"
)

// ListFilter Status 为 "all" 或空时不过滤状态
type ListFilter struct {
	Status         string
	Limit          int
	Offset         int
	IncludeExpired bool
	Now            time.Time
}

// NotificationRepository 站内通知仓储，修改类操作均按 recipient 限定范围
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, f ListFilter) ([]*entity.Notification, error)
	MarkAsRead(ctx context.Context, id int64, recipientID string, now time.Time) (bool, error)
	MarkAllAsRead(ctx context.Context, recipientID string, now time.Time) (int64, error)
	Archive(ctx context.Context, id int64, recipientID string) (bool, error)
	CountUnread(ctx context.Context, recipientID string, now time.Time) (int64, error)
	// NextUnreadExpiry 未读且尚未过期的通知中最早的 expires_at，没有则返回 nil
	NextUnreadExpiry(ctx context.Context, recipientID string, now time.Time) (*time.Time, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
