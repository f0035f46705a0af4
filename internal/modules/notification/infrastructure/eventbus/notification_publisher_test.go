package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"RepairDesk/internal/modules/notification/domain/entity"
	"RepairDesk/internal/modules/notification/infrastructure/mq"
)

type recordingPublisher struct {
	msgs []mq.Message
	err  error
}

func (r *recordingPublisher) Publish(ctx context.Context, msg mq.Message) (mq.PublishResult, error) {
	if r.err != nil {
		return mq.PublishResult{}, r.err
	}
	r.msgs = append(r.msgs, msg)
	return mq.PublishResult{Partition: 0, Offset: int64(len(r.msgs))}, nil
}

func (r *recordingPublisher) Close() error { return nil }

func TestPublishCreated(t *testing.T) {
	rec := &recordingPublisher{}
	p := NewNotificationPublisher(rec, "notification-events")
	related := "device"
	id := int64(9)
	n := &entity.Notification{
		Id:                42,
		Title:             "Ticket RD-1 ready",
		Priority:          entity.PriorityHigh,
		RecipientId:       "tech-1",
		RelatedEntityType: &related,
		RelatedEntityId:   &id,
		CreatedAt:         time.Now(),
	}

	if err := p.PublishCreated(context.Background(), n, entity.TypeDeviceReadyForPickup); err != nil {
		t.Fatalf("PublishCreated: %v", err)
	}
	if len(rec.msgs) != 1 {
		t.Fatalf("published %d messages", len(rec.msgs))
	}
	msg := rec.msgs[0]
	if msg.Topic != "notification-events" || string(msg.Key) != "tech-1" {
		t.Fatalf("topic/key = %s/%s", msg.Topic, msg.Key)
	}
	var ev NotificationEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ev.EventType != EventNotificationCreated || ev.NotificationId != 42 || ev.Type != entity.TypeDeviceReadyForPickup {
		t.Fatalf("event = %+v", ev)
	}
	if ev.EventId == "" || msg.Headers["event_id"] != ev.EventId {
		t.Fatalf("event id header mismatch: %q vs %q", msg.Headers["event_id"], ev.EventId)
	}
}

func TestPublishCreated_Errors(t *testing.T) {
	n := &entity.Notification{Id: 1, RecipientId: "u"}
	if err := NewNotificationPublisher(nil, "t").PublishCreated(context.Background(), n, "x"); err == nil {
		t.Fatalf("nil publisher accepted")
	}
	boom := errors.New("broker down")
	if err := NewNotificationPublisher(&recordingPublisher{err: boom}, "t").PublishCreated(context.Background(), n, "x"); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
