package persistence

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"RepairDesk/internal/modules/messaging/domain/entity"
	"RepairDesk/internal/modules/messaging/domain/repository"

	"gorm.io/gorm"
)

const maxErrorMessageLen = 500

type messageQueueRepositoryImpl struct {
	db *gorm.DB
}

func NewMessageQueueRepository(db *gorm.DB) repository.MessageQueueRepository {
	return &messageQueueRepositoryImpl{db: db}
}

func (r *messageQueueRepositoryImpl) Enqueue(ctx context.Context, msg *entity.QueuedMessage) error {
	if msg == nil {
		return errors.New("queued message is nil")
	}
	msg.Status = entity.StatusPending
	msg.Attempts = 0
	if msg.MaxAttempts <= 0 {
		msg.MaxAttempts = entity.DefaultMaxAttempts
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageQueueRepositoryImpl) SelectEligible(ctx context.Context, channels []string, limit int) ([]*entity.QueuedMessage, error) {
	if len(channels) == 0 || limit <= 0 {
		return []*entity.QueuedMessage{}, nil
	}
	var msgs []*entity.QueuedMessage
	err := r.db.WithContext(ctx).
		Where("status = ? AND attempts < max_attempts AND channel IN ?", entity.StatusPending, channels).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

func (r *messageQueueRepositoryImpl) GetByID(ctx context.Context, id int64) (*entity.QueuedMessage, error) {
	var msg entity.QueuedMessage
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

func (r *messageQueueRepositoryImpl) MarkSent(ctx context.Context, id int64, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.QueuedMessage{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":          entity.StatusSent,
			"sent_at":         now,
			"last_attempt_at": now,
			"updated_at":      now,
		}).Error
}

// MarkAttemptFailed 只作用于 pending 行，避免把已取消的消息重新拉回队列
func (r *messageQueueRepositoryImpl) MarkAttemptFailed(ctx context.Context, id int64, errMsg string, newAttempts int, terminal bool, now time.Time) error {
	status := entity.StatusPending
	if terminal {
		status = entity.StatusFailed
	}
	errMsg = truncateErrorMessage(errMsg)
	return r.db.WithContext(ctx).
		Model(&entity.QueuedMessage{}).
		Where("id = ? AND status = ?", id, entity.StatusPending).
		Updates(map[string]any{
			"status":          status,
			"attempts":        newAttempts,
			"error_message":   errMsg,
			"last_attempt_at": now,
			"updated_at":      now,
		}).Error
}

// truncateErrorMessage 截断到 maxErrorMessageLen 字节以内，且不拆开多字节字符
func truncateErrorMessage(s string) string {
	s = strings.ToValidUTF8(s, "?")
	if len(s) <= maxErrorMessageLen {
		return s
	}
	i := maxErrorMessageLen
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return s[:i]
}

func (r *messageQueueRepositoryImpl) ResetForRetry(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&entity.QueuedMessage{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":        entity.StatusPending,
			"attempts":      0,
			"error_message": gorm.Expr("NULL"),
			"updated_at":    time.Now(),
		}).Error
}

func (r *messageQueueRepositoryImpl) Cancel(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entity.QueuedMessage{}).
		Where("id = ? AND status = ?", id, entity.StatusPending).
		Updates(map[string]any{
			"status":     entity.StatusCancelled,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *messageQueueRepositoryImpl) CountsByStatus(ctx context.Context) (entity.QueueCounts, error) {
	type row struct {
		Status string
		Cnt    int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&entity.QueuedMessage{}).
		Select("status, COUNT(*) AS cnt").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return entity.QueueCounts{}, err
	}

	var counts entity.QueueCounts
	for _, rw := range rows {
		switch rw.Status {
		case entity.StatusPending:
			counts.Pending = rw.Cnt
		case entity.StatusSent:
			counts.Sent = rw.Cnt
		case entity.StatusFailed:
			counts.Failed = rw.Cnt
		case entity.StatusCancelled:
			counts.Cancelled = rw.Cnt
		}
		counts.Total += rw.Cnt
	}
	return counts, nil
}
