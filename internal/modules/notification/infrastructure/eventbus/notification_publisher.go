package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"RepairDesk/internal/modules/notification/domain/entity"
	"RepairDesk/internal/modules/notification/infrastructure/mq"
	"RepairDesk/pkg/util"
	"RepairDesk/pkg/zlog"

	"go.uber.org/zap"
)

const EventNotificationCreated = "notification.created"

// NotificationEvent 发往 notification topic 的事件体，key 为接收人
type NotificationEvent struct {
	EventId           string    `json:"event_id"`
	EventType         string    `json:"event_type"`
	OccurredAt        time.Time `json:"occurred_at"`
	NotificationId    int64     `json:"notification_id"`
	Type              string    `json:"type"`
	RecipientId       string    `json:"recipient_id"`
	Priority          string    `json:"priority"`
	Title             string    `json:"title"`
	RelatedEntityType *string   `json:"related_entity_type,omitempty"`
	RelatedEntityId   *int64    `json:"related_entity_id,omitempty"`
}

type NotificationPublisher struct {
	pub   mq.Publisher
	topic string
}

func NewNotificationPublisher(pub mq.Publisher, topic string) *NotificationPublisher {
	return &NotificationPublisher{pub: pub, topic: topic}
}

func (p *NotificationPublisher) PublishCreated(ctx context.Context, n *entity.Notification, typeName string) error {
	if p == nil || p.pub == nil {
		return errors.New("notification publisher not configured")
	}
	ev := NotificationEvent{
		EventId:           util.GenerateUUID(),
		EventType:         EventNotificationCreated,
		OccurredAt:        n.CreatedAt,
		NotificationId:    n.Id,
		Type:              typeName,
		RecipientId:       n.RecipientId,
		Priority:          n.Priority,
		Title:             n.Title,
		RelatedEntityType: n.RelatedEntityType,
		RelatedEntityId:   n.RelatedEntityId,
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	res, err := p.pub.Publish(ctx, mq.Message{
		Topic:     p.topic,
		Key:       []byte(n.RecipientId),
		Value:     body,
		Headers:   map[string]string{"event_type": EventNotificationCreated, "event_id": ev.EventId},
		Timestamp: n.CreatedAt,
	})
	if err != nil {
		return err
	}
	zlog.Debug("notification event published",
		zap.String("event_id", ev.EventId),
		zap.Int32("partition", res.Partition),
		zap.Int64("offset", res.Offset),
	)
	return nil
}
