package persistence

import (
	"context"
	"time"

	"RepairDesk/internal/modules/notification/domain/entity"
	"RepairDesk/internal/modules/notification/domain/repository"

	"gorm.io/gorm"
)

type notificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepositoryImpl{db: db}
}

func (r *notificationRepositoryImpl) Create(ctx context.Context, n *entity.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *notificationRepositoryImpl) ListByRecipient(ctx context.Context, recipientID string, f repository.ListFilter) ([]*entity.Notification, error) {
	q := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if f.Status != "" && f.Status != "all" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.IncludeExpired {
		q = notExpired(q, f.Now)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	var list []*entity.Notification
	err := q.Order("created_at DESC").Order("id DESC").Find(&list).Error
	return list, err
}

func (r *notificationRepositoryImpl) MarkAsRead(ctx context.Context, id int64, recipientID string, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("id = ? AND recipient_id = ? AND status = ?", id, recipientID, entity.StatusUnread).
		Updates(map[string]any{"status": entity.StatusRead, "read_at": now})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *notificationRepositoryImpl) MarkAllAsRead(ctx context.Context, recipientID string, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("recipient_id = ? AND status = ?", recipientID, entity.StatusUnread).
		Updates(map[string]any{"status": entity.StatusRead, "read_at": now})
	return res.RowsAffected, res.Error
}

func (r *notificationRepositoryImpl) Archive(ctx context.Context, id int64, recipientID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("id = ? AND recipient_id = ? AND status <> ?", id, recipientID, entity.StatusArchived).
		Update("status", entity.StatusArchived)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *notificationRepositoryImpl) CountUnread(ctx context.Context, recipientID string, now time.Time) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("recipient_id = ? AND status = ?", recipientID, entity.StatusUnread)
	err := notExpired(q, now).Count(&n).Error
	return n, err
}

func (r *notificationRepositoryImpl) NextUnreadExpiry(ctx context.Context, recipientID string, now time.Time) (*time.Time, error) {
	var rows []*entity.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND status = ? AND expires_at IS NOT NULL AND expires_at > ?", recipientID, entity.StatusUnread, now).
		Order("expires_at ASC").
		Limit(1).
		Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0].ExpiresAt, nil
}

func (r *notificationRepositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at < ?", now).
		Delete(&entity.Notification{})
	return res.RowsAffected, res.Error
}

func notExpired(q *gorm.DB, now time.Time) *gorm.DB {
	if now.IsZero() {
		now = time.Now()
	}
	return q.Where("expires_at IS NULL OR expires_at > ?", now)
}
